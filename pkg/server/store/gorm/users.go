package gorm

import (
	"errors"

	"gorm.io/gorm"

	"github.com/VincentAdamNemessisX/oauth-api/pkg/model"
	"github.com/VincentAdamNemessisX/oauth-api/pkg/provider"
	"github.com/VincentAdamNemessisX/oauth-api/pkg/server/store"
)

// Ensure UserStore implements store.UserStore
var _ store.UserStore = (*UserStore)(nil)

// UserStore implements store.UserStore using GORM
type UserStore struct {
	db *gorm.DB
}

// NewUserStore creates a new UserStore
func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// UpsertUser creates or updates the user linked to an upstream identity.
// The disabled flag of an existing user is preserved.
func (s *UserStore) UpsertUser(kind provider.Kind, identity *provider.Identity) (*model.User, error) {
	var user model.User
	tx := s.db.Where(&model.User{Provider: kind.String(), Subject: identity.Subject}).First(&user)
	if tx.Error != nil {
		if !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, tx.Error
		}
		user = model.User{
			Provider: kind.String(),
			Subject:  identity.Subject,
		}
	}

	user.Username = identity.Username
	user.Name = identity.Name
	user.Email = identity.Email
	user.AvatarURL = identity.AvatarURL

	if tx := s.db.Save(&user); tx.Error != nil {
		return nil, tx.Error
	}
	return &user, nil
}

// FindUser retrieves the user for a provider subject
func (s *UserStore) FindUser(kind provider.Kind, subject string) (*model.User, error) {
	var user model.User
	tx := s.db.Where(&model.User{Provider: kind.String(), Subject: subject}).First(&user)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrUserNotFound
		}
		return nil, tx.Error
	}
	return &user, nil
}
