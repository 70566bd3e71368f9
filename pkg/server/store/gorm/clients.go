package gorm

import (
	"crypto/subtle"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/VincentAdamNemessisX/oauth-api/pkg/crypto"
	"github.com/VincentAdamNemessisX/oauth-api/pkg/model"
	"github.com/VincentAdamNemessisX/oauth-api/pkg/server/store"
)

// Ensure ClientStore implements store.ClientStore
var _ store.ClientStore = (*ClientStore)(nil)

// ClientStore implements store.ClientStore using GORM.
// Client secrets are stored encrypted with the data key, using the
// client ID as the AAD.
type ClientStore struct {
	db     *gorm.DB
	cipher crypto.SymmetricCipher
}

// NewClientStore creates a new ClientStore
func NewClientStore(db *gorm.DB, cipher crypto.SymmetricCipher) *ClientStore {
	return &ClientStore{db: db, cipher: cipher}
}

// GetClient retrieves a registered service client
func (s *ClientStore) GetClient(clientID string) (*model.Client, error) {
	var client model.Client
	tx := s.db.Where(&model.Client{ClientID: clientID}).First(&client)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrClientNotFound
		}
		return nil, tx.Error
	}
	return &client, nil
}

// ValidateSecret checks a presented secret against the stored one in
// constant time
func (s *ClientStore) ValidateSecret(client *model.Client, secret string) bool {
	stored, err := s.cipher.Decrypt([]byte(client.ClientID), client.Secret)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(stored, []byte(secret)) == 1
}

// CreateClient registers a new client and returns the plaintext secret
func (s *ClientStore) CreateClient(clientID string, scopes []string) (string, error) {
	if len(scopes) == 0 {
		scopes = model.DefaultClientScopes
	}

	secret, err := model.GenerateClientSecret()
	if err != nil {
		return "", err
	}

	encrypted, err := s.cipher.Encrypt([]byte(clientID), []byte(secret))
	if err != nil {
		return "", err
	}

	client := model.Client{
		ClientID: clientID,
		Secret:   encrypted,
		Scopes:   strings.Join(scopes, " "),
	}
	if tx := s.db.Create(&client); tx.Error != nil {
		return "", tx.Error
	}
	return secret, nil
}

// DeleteClient removes a registered client
func (s *ClientStore) DeleteClient(clientID string) error {
	tx := s.db.Where(&model.Client{ClientID: clientID}).Delete(&model.Client{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrClientNotFound
	}
	return nil
}

// ListClients returns all registered clients
func (s *ClientStore) ListClients() ([]model.Client, error) {
	var clients []model.Client
	if tx := s.db.Order("client_id").Find(&clients); tx.Error != nil {
		return nil, tx.Error
	}
	return clients, nil
}
