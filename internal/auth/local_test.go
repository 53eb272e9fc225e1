package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/GoEstate-Admin/GoEstate-Admin/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.ModulePermission{},
		&models.ResourceAccess{},
	)
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func TestCreateUserAndAuthenticate(t *testing.T) {
	db := setupTestDB(t)
	provider := NewLocalProvider(db)

	user, err := provider.CreateUser("alice", "alice@example.com", "s3cret-pass", "Alice", "Smith", "", nil)
	require.NoError(t, err)

	assert.Len(t, user.ID, 24)
	assert.True(t, user.Active)
	assert.Equal(t, models.AuthSourceLocal, user.AuthSource)
	assert.NotEqual(t, "s3cret-pass", user.Password, "password must be stored hashed")

	authenticated, err := provider.Authenticate("alice", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, user.ID, authenticated.ID)

	_, err = provider.Authenticate("alice", "wrong-pass")
	require.ErrorIs(t, err, ErrInvalidPassword)

	_, err = provider.Authenticate("nobody", "s3cret-pass")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestCreateUserRejectsDuplicates(t *testing.T) {
	db := setupTestDB(t)
	provider := NewLocalProvider(db)

	_, err := provider.CreateUser("alice", "alice@example.com", "s3cret-pass", "", "", "", nil)
	require.NoError(t, err)

	_, err = provider.CreateUser("alice", "other@example.com", "s3cret-pass", "", "", "", nil)
	require.ErrorIs(t, err, ErrUserNameOrEmailExists)

	_, err = provider.CreateUser("bob", "alice@example.com", "s3cret-pass", "", "", "", nil)
	require.ErrorIs(t, err, ErrUserNameOrEmailExists)
}

func TestAuthenticateDisabledAccount(t *testing.T) {
	db := setupTestDB(t)
	provider := NewLocalProvider(db)

	user, err := provider.CreateUser("carol", "carol@example.com", "s3cret-pass", "", "", "", nil)
	require.NoError(t, err)

	require.NoError(t, provider.DeactivateUser(user.ID))

	_, err = provider.Authenticate("carol", "s3cret-pass")
	require.ErrorIs(t, err, ErrUserAccountDisabled)

	require.NoError(t, provider.ActivateUser(user.ID))

	_, err = provider.Authenticate("carol", "s3cret-pass")
	require.NoError(t, err)
}

func TestAssignRolesPreservesOrder(t *testing.T) {
	db := setupTestDB(t)
	provider := NewLocalProvider(db)

	first := models.Role{Name: "First", Active: true}
	second := models.Role{Name: "Second", Active: true}
	require.NoError(t, db.Create(&first).Error)
	require.NoError(t, db.Create(&second).Error)

	user, err := provider.CreateUser("dave", "dave@example.com", "s3cret-pass", "", "", "", nil)
	require.NoError(t, err)

	require.NoError(t, provider.AssignRoles(user.ID, []string{second.ID, first.ID}))

	err = provider.AssignRoles(user.ID, []string{first.ID, "000000000000000000000000"})
	require.ErrorIs(t, err, ErrRoleNotFound)
}

func TestChangePassword(t *testing.T) {
	db := setupTestDB(t)
	provider := NewLocalProvider(db)

	user, err := provider.CreateUser("erin", "erin@example.com", "old-pass-123", "", "", "", nil)
	require.NoError(t, err)

	err = provider.ChangePassword(user.ID, "wrong-pass", "new-pass-123")
	require.ErrorIs(t, err, ErrInvalidOldPassword)

	require.NoError(t, provider.ChangePassword(user.ID, "old-pass-123", "new-pass-123"))

	_, err = provider.Authenticate("erin", "new-pass-123")
	require.NoError(t, err)
}

func TestGetUserByID(t *testing.T) {
	db := setupTestDB(t)
	provider := NewLocalProvider(db)

	_, err := provider.GetUserByID("000000000000000000000000")
	require.ErrorIs(t, err, ErrUserNotFound)

	created, err := provider.CreateUser("frank", "frank@example.com", "s3cret-pass", "", "", "", nil)
	require.NoError(t, err)

	user, err := provider.GetUserByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "frank", user.Username)
}

func TestListUsersFilters(t *testing.T) {
	db := setupTestDB(t)
	provider := NewLocalProvider(db)

	customerID := "507f1f77bcf86cd799439011"

	_, err := provider.CreateUser("alice", "alice@example.com", "s3cret-pass", "", "", customerID, nil)
	require.NoError(t, err)
	bob, err := provider.CreateUser("bob", "bob@example.com", "s3cret-pass", "", "", customerID, nil)
	require.NoError(t, err)
	_, err = provider.CreateUser("carol", "carol@example.com", "s3cret-pass", "", "", "", nil)
	require.NoError(t, err)

	require.NoError(t, provider.DeactivateUser(bob.ID))

	users, total, err := provider.ListUsers(customerID, "", nil, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, users, 2)

	active := true
	users, total, err = provider.ListUsers(customerID, "", &active, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].Username)

	users, _, err = provider.ListUsers("", models.AuthSourceLocal, nil, 2, 0)
	require.NoError(t, err)
	assert.Len(t, users, 2, "limit applies")
}
