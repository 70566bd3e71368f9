package gorm

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/VincentAdamNemessisX/oauth-api/pkg/crypto"
	"github.com/VincentAdamNemessisX/oauth-api/pkg/model"
	"github.com/VincentAdamNemessisX/oauth-api/pkg/provider"
	"github.com/VincentAdamNemessisX/oauth-api/pkg/server/store"
)

func setupTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, crypto.SymmetricCipher) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{
			Conn:                 mockDB,
			PreferSimpleProtocol: true,
		}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		},
	)
	require.NoError(t, err)

	dataKey := make([]byte, 32)
	for i := range dataKey {
		dataKey[i] = byte(i)
	}
	cipher, err := crypto.NewSymmetric(dataKey)
	require.NoError(t, err)

	return gormDB, mock, cipher
}

func TestUserStore_FindUser_NotFound(t *testing.T) {
	db, mock, _ := setupTestDB(t)
	users := NewUserStore(db)

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := users.FindUser(provider.KindGithub, "12345")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStore_FindUser_Found(t *testing.T) {
	db, mock, _ := setupTestDB(t)
	users := NewUserStore(db)

	rows := sqlmock.NewRows([]string{"id", "provider", "subject", "username", "disabled"}).
		AddRow(7, "github", "12345", "alice", false)
	mock.ExpectQuery(`SELECT \* FROM "users"`).WillReturnRows(rows)

	user, err := users.FindUser(provider.KindGithub, "12345")
	require.NoError(t, err)
	assert.Equal(t, uint(7), user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStore_UpsertUser_CreatesNewUser(t *testing.T) {
	db, mock, _ := setupTestDB(t)
	users := NewUserStore(db)

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	identity := &provider.Identity{
		Subject:   "12345",
		Username:  "alice",
		Name:      "Alice",
		Email:     "alice@example.com",
		AvatarURL: "https://avatars.example.com/alice",
	}
	user, err := users.UpsertUser(provider.KindGithub, identity)
	require.NoError(t, err)
	assert.Equal(t, "github", user.Provider)
	assert.Equal(t, "alice", user.Username)
	assert.False(t, user.Disabled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStore_UpsertUser_UpdatesExistingUser(t *testing.T) {
	db, mock, _ := setupTestDB(t)
	users := NewUserStore(db)

	rows := sqlmock.NewRows([]string{"id", "provider", "subject", "username", "disabled"}).
		AddRow(7, "github", "12345", "old-login", true)
	mock.ExpectQuery(`SELECT \* FROM "users"`).WillReturnRows(rows)
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	identity := &provider.Identity{Subject: "12345", Username: "new-login"}
	user, err := users.UpsertUser(provider.KindGithub, identity)
	require.NoError(t, err)
	assert.Equal(t, uint(7), user.ID)
	assert.Equal(t, "new-login", user.Username)
	// The disabled flag set by an operator survives profile refreshes.
	assert.True(t, user.Disabled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientStore_GetClient_NotFound(t *testing.T) {
	db, mock, cipher := setupTestDB(t)
	clients := NewClientStore(db, cipher)

	mock.ExpectQuery(`SELECT \* FROM "clients"`).
		WillReturnRows(sqlmock.NewRows([]string{"client_id"}))

	_, err := clients.GetClient("missing")
	assert.ErrorIs(t, err, store.ErrClientNotFound)
}

func TestClientStore_ValidateSecret(t *testing.T) {
	db, mock, cipher := setupTestDB(t)
	clients := NewClientStore(db, cipher)

	secret := "test-client-secret-123"
	encrypted, err := cipher.Encrypt([]byte("svc-1"), []byte(secret))
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"client_id", "secret", "scopes"}).
		AddRow("svc-1", encrypted, "read:service_data")
	mock.ExpectQuery(`SELECT \* FROM "clients"`).WillReturnRows(rows)

	client, err := clients.GetClient("svc-1")
	require.NoError(t, err)

	assert.True(t, clients.ValidateSecret(client, secret))
	assert.False(t, clients.ValidateSecret(client, "wrong-secret"))
}

func TestClientStore_ValidateSecret_WrongAAD(t *testing.T) {
	_, _, cipher := setupTestDB(t)
	clients := NewClientStore(nil, cipher)

	secret := "test-client-secret-123"
	encrypted, err := cipher.Encrypt([]byte("other-client"), []byte(secret))
	require.NoError(t, err)

	client := &model.Client{ClientID: "svc-1", Secret: encrypted}
	assert.False(t, clients.ValidateSecret(client, secret))
}

func TestClientStore_CreateClient(t *testing.T) {
	db, mock, cipher := setupTestDB(t)
	clients := NewClientStore(db, cipher)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "clients"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	secret, err := clients.CreateClient("svc-1", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, secret)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientStore_DeleteClient_NotFound(t *testing.T) {
	db, mock, cipher := setupTestDB(t)
	clients := NewClientStore(db, cipher)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "clients"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := clients.DeleteClient("missing")
	assert.ErrorIs(t, err, store.ErrClientNotFound)
}

func TestHealthStore_CheckConnectivity(t *testing.T) {
	db, mock, _ := setupTestDB(t)
	health := NewHealthStore(db)

	mock.ExpectExec(`SELECT 1`).WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, health.CheckConnectivity())
}
