package benchmark

import (
	"testing"
	"time"

	"github.com/VincentAdamNemessisX/oauth-api/pkg/crypto"
	"github.com/VincentAdamNemessisX/oauth-api/pkg/token"
)

func BenchmarkIssueAccess(b *testing.B) {
	issuer := token.NewIssuer("benchmark-secret")

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = issuer.IssueAccess("12345", 15*time.Minute)
	}
}

func BenchmarkVerifyAccess(b *testing.B) {
	issuer := token.NewIssuer("benchmark-secret")
	accessToken, err := issuer.IssueAccess("12345", 15*time.Minute)
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = issuer.VerifyAccess(accessToken)
	}
}

func BenchmarkSymmetricEncrypt(b *testing.B) {
	dataKey := make([]byte, 32)
	for i := range dataKey {
		dataKey[i] = byte(i)
	}
	cipher, err := crypto.NewSymmetric(dataKey)
	if err != nil {
		b.Fatal(err)
	}

	aad := []byte("my-service")
	secret := []byte("fMhDdCYVP9XM-vHfn-YUGvIMJ_6XBsA3qaHZ-x3tC_0")

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = cipher.Encrypt(aad, secret)
	}
}

func BenchmarkSymmetricDecrypt(b *testing.B) {
	dataKey := make([]byte, 32)
	for i := range dataKey {
		dataKey[i] = byte(i)
	}
	cipher, err := crypto.NewSymmetric(dataKey)
	if err != nil {
		b.Fatal(err)
	}

	aad := []byte("my-service")
	sealed, err := cipher.Encrypt(aad, []byte("fMhDdCYVP9XM-vHfn-YUGvIMJ_6XBsA3qaHZ-x3tC_0"))
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = cipher.Decrypt(aad, sealed)
	}
}
