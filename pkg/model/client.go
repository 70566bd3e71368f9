package model

import (
	"strings"
	"time"

	"github.com/VincentAdamNemessisX/oauth-api/pkg/crypto"
)

// Client is a service client registered for the client-credentials flow.
// Secret is encrypted with the data key; ClientID is the AAD.
type Client struct {
	ClientID  string `gorm:"primaryKey;column:client_id"`
	Secret    []byte
	Scopes    string // space-separated
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c Client) TableName() string {
	return "clients"
}

// ScopeList splits the stored scopes into individual scope names.
func (c Client) ScopeList() []string {
	return strings.Fields(c.Scopes)
}

// DefaultClientScopes are granted to clients created without explicit scopes.
var DefaultClientScopes = []string{"read:service_data", "write:service_log"}

// GenerateClientSecret returns a new random 256-bit client secret in
// URL-safe base64.
func GenerateClientSecret() (string, error) {
	return crypto.RandomURLSafe(32)
}
