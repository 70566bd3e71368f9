package endpoints

import (
	"github.com/stretchr/testify/mock"

	"github.com/VincentAdamNemessisX/oauth-api/pkg/model"
	"github.com/VincentAdamNemessisX/oauth-api/pkg/provider"
)

// MockUserStore implements store.UserStore for testing using testify/mock
type MockUserStore struct {
	mock.Mock
}

func NewMockUserStore() *MockUserStore {
	return &MockUserStore{}
}

func (m *MockUserStore) UpsertUser(kind provider.Kind, identity *provider.Identity) (*model.User, error) {
	args := m.Called(kind, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserStore) FindUser(kind provider.Kind, subject string) (*model.User, error) {
	args := m.Called(kind, subject)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockClientStore implements store.ClientStore for testing using testify/mock
type MockClientStore struct {
	mock.Mock
}

func NewMockClientStore() *MockClientStore {
	return &MockClientStore{}
}

func (m *MockClientStore) GetClient(clientID string) (*model.Client, error) {
	args := m.Called(clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Client), args.Error(1)
}

func (m *MockClientStore) ValidateSecret(client *model.Client, secret string) bool {
	args := m.Called(client, secret)
	return args.Bool(0)
}

func (m *MockClientStore) CreateClient(clientID string, scopes []string) (string, error) {
	args := m.Called(clientID, scopes)
	return args.String(0), args.Error(1)
}

func (m *MockClientStore) DeleteClient(clientID string) error {
	args := m.Called(clientID)
	return args.Error(0)
}

func (m *MockClientStore) ListClients() ([]model.Client, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Client), args.Error(1)
}

// MockHealthStore implements store.HealthStore for testing using testify/mock
type MockHealthStore struct {
	mock.Mock
}

func NewMockHealthStore() *MockHealthStore {
	return &MockHealthStore{}
}

func (m *MockHealthStore) CheckConnectivity() error {
	args := m.Called()
	return args.Error(0)
}
