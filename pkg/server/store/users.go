package store

import (
	"errors"

	"github.com/VincentAdamNemessisX/oauth-api/pkg/model"
	"github.com/VincentAdamNemessisX/oauth-api/pkg/provider"
)

// ErrUserNotFound is returned when no user matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// UserStore abstracts user storage operations
type UserStore interface {
	// UpsertUser creates or updates the user linked to an upstream
	// identity, preserving the disabled flag of an existing user.
	UpsertUser(kind provider.Kind, identity *provider.Identity) (*model.User, error)

	// FindUser retrieves the user for a provider subject.
	// Returns ErrUserNotFound if no such user exists.
	FindUser(kind provider.Kind, subject string) (*model.User, error)
}
