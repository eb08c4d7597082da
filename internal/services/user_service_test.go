package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/SravanamCharan20/Bites/internal/database"
	"github.com/SravanamCharan20/Bites/internal/models"
)

func TestCreateUserHashesPassword(t *testing.T) {
	db := database.NewTestDB(t)
	svc := NewUserService(db)

	user, err := svc.CreateUser("alice", "alice@example.com", "plaintext", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Empty(t, user.PasswordHash, "returned user must not carry the hash")

	var stored string
	err = db.QueryRow("SELECT password_hash FROM users WHERE id = ?", user.ID).Scan(&stored)
	require.NoError(t, err)

	assert.NotEqual(t, "plaintext", stored)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored), []byte("plaintext")))
}

func TestCreateUserMissingFields(t *testing.T) {
	db := database.NewTestDB(t)
	svc := NewUserService(db)

	_, err := svc.CreateUser("", "alice@example.com", "pw", nil)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateUser("alice", "", "pw", nil)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateUser("alice", "alice@example.com", "", nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	db := database.NewTestDB(t)
	svc := NewUserService(db)

	_, err := svc.CreateUser("alice", "alice@example.com", "pw", nil)
	require.NoError(t, err)

	_, err = svc.CreateUser("alice2", "alice@example.com", "pw2", nil)
	assert.ErrorIs(t, err, ErrConflict)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(1) FROM users").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestAuthenticateUser(t *testing.T) {
	db := database.NewTestDB(t)
	svc := NewUserService(db)

	loc := &models.Location{City: "Pune", State: "MH"}
	created, err := svc.CreateUser("alice", "alice@example.com", "pw", loc)
	require.NoError(t, err)

	user, err := svc.AuthenticateUser("alice@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.Empty(t, user.PasswordHash)
	require.NotNil(t, user.Location)
	assert.Equal(t, "Pune", user.Location.City)
}

func TestAuthenticateUserWrongPassword(t *testing.T) {
	db := database.NewTestDB(t)
	svc := NewUserService(db)

	_, err := svc.CreateUser("alice", "alice@example.com", "pw", nil)
	require.NoError(t, err)

	_, err = svc.AuthenticateUser("alice@example.com", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateUserUnknownEmail(t *testing.T) {
	db := database.NewTestDB(t)
	svc := NewUserService(db)

	_, err := svc.AuthenticateUser("ghost@example.com", "pw")
	assert.ErrorIs(t, err, ErrNotFound)
}
