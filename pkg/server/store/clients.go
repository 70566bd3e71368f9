package store

import (
	"errors"

	"github.com/VincentAdamNemessisX/oauth-api/pkg/model"
)

// ErrClientNotFound is returned when no client matches the lookup.
var ErrClientNotFound = errors.New("client not found")

// ClientStore abstracts service client storage operations
type ClientStore interface {
	// GetClient retrieves a registered service client.
	// Returns ErrClientNotFound if no such client exists.
	GetClient(clientID string) (*model.Client, error)

	// ValidateSecret checks a presented secret against the stored one
	// in constant time.
	ValidateSecret(client *model.Client, secret string) bool

	// CreateClient registers a new client with the given scopes and
	// returns the generated plaintext secret. The secret is only
	// available at creation time.
	CreateClient(clientID string, scopes []string) (string, error)

	// DeleteClient removes a registered client.
	DeleteClient(clientID string) error

	// ListClients returns all registered clients.
	ListClients() ([]model.Client, error)
}
