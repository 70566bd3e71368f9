package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
)

const nonceSize = 12

// SymmetricCipher encrypts values at rest. The aad binds a ciphertext to
// its owner (e.g. a client ID) so rows cannot be swapped in the database.
type SymmetricCipher interface {
	Encrypt(aad, plainText []byte) ([]byte, error)
	Decrypt(aad, packedText []byte) ([]byte, error)
}

// Symmetric is an AES-256-GCM cipher keyed by the data key.
type Symmetric struct {
	aesgcm cipher.AEAD
}

// NewSymmetric creates a cipher from a 256-bit data key.
func NewSymmetric(key []byte) (SymmetricCipher, error) {
	c, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	aesgcm, err := cipher.NewGCM(c)
	if err != nil {
		return nil, err
	}

	return &Symmetric{aesgcm: aesgcm}, nil
}

// Encrypt seals plainText and packs the nonce in front of the ciphertext.
func (s Symmetric) Encrypt(aad, plainText []byte) ([]byte, error) {
	nonce, err := RandomBytes(nonceSize)
	if err != nil {
		return nil, err
	}

	sealed := s.aesgcm.Seal(nil, nonce, plainText, aad)
	return append(nonce, sealed...), nil
}

// Decrypt unpacks and opens a value produced by Encrypt.
func (s Symmetric) Decrypt(aad, packedText []byte) ([]byte, error) {
	if len(packedText) < nonceSize {
		return nil, errors.New("ciphertext is too short")
	}

	nonce, sealed := packedText[:nonceSize], packedText[nonceSize:]
	return s.aesgcm.Open(nil, nonce, sealed, aad)
}

// RandomBytes returns size bytes from the system CSPRNG.
func RandomBytes(size int) ([]byte, error) {
	value := make([]byte, size)
	if _, err := io.ReadFull(rand.Reader, value); err != nil {
		return nil, err
	}

	return value, nil
}

// RandomURLSafe returns size random bytes in unpadded URL-safe base64.
// Used for OAuth state parameters and client secrets.
func RandomURLSafe(size int) (string, error) {
	value, err := RandomBytes(size)
	if err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(value), nil
}
