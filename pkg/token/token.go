// Package token issues and verifies the gateway's internal JWTs.
//
// Tokens are HS256-signed. Access and refresh tokens carry a purpose claim
// so one can never stand in for the other. Service tokens additionally carry
// the scopes granted to the client.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Purpose distinguishes access tokens from refresh tokens.
const (
	PurposeAccess  = "access"
	PurposeRefresh = "refresh"
)

var (
	// ErrInvalidToken is returned for tokens that fail signature, expiry,
	// or purpose validation.
	ErrInvalidToken = errors.New("invalid token")
)

// Claims is the payload of an internal JWT.
type Claims struct {
	Purpose string   `json:"purpose,omitempty"`
	Scopes  []string `json:"scopes,omitempty"`
	jwt.RegisteredClaims
}

// HasScope reports whether the token grants the given scope.
func (c *Claims) HasScope(scope string) bool {
	for _, s := range c.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// Issuer signs and verifies tokens with a shared HS256 key.
type Issuer struct {
	key []byte
}

// NewIssuer creates an Issuer from a signing secret.
func NewIssuer(secret string) *Issuer {
	return &Issuer{key: []byte(secret)}
}

// IssueAccess creates an access token for a user subject.
func (i *Issuer) IssueAccess(subject string, ttl time.Duration) (string, error) {
	return i.sign(&Claims{
		Purpose: PurposeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(time.Now().UTC()),
			ExpiresAt: jwt.NewNumericDate(time.Now().UTC().Add(ttl)),
		},
	})
}

// IssueRefresh creates a refresh token for a user subject.
func (i *Issuer) IssueRefresh(subject string, ttl time.Duration) (string, error) {
	return i.sign(&Claims{
		Purpose: PurposeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(time.Now().UTC()),
			ExpiresAt: jwt.NewNumericDate(time.Now().UTC().Add(ttl)),
		},
	})
}

// IssueService creates an access token for a service client with the
// client's granted scopes.
func (i *Issuer) IssueService(clientID string, scopes []string, ttl time.Duration) (string, error) {
	return i.sign(&Claims{
		Purpose: PurposeAccess,
		Scopes:  scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   clientID,
			IssuedAt:  jwt.NewNumericDate(time.Now().UTC()),
			ExpiresAt: jwt.NewNumericDate(time.Now().UTC().Add(ttl)),
		},
	})
}

// VerifyAccess parses an access token and returns its claims.
func (i *Issuer) VerifyAccess(tokenString string) (*Claims, error) {
	return i.verify(tokenString, PurposeAccess)
}

// VerifyRefresh parses a refresh token and returns its claims.
func (i *Issuer) VerifyRefresh(tokenString string) (*Claims, error) {
	return i.verify(tokenString, PurposeRefresh)
}

func (i *Issuer) sign(claims *Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(i.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (i *Issuer) verify(tokenString, purpose string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (interface{}, error) { return i.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Purpose != purpose {
		return nil, fmt.Errorf("%w: not a %s token", ErrInvalidToken, purpose)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims, nil
}
