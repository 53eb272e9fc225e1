package authz

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

func TestIsEntityID(t *testing.T) {
	testCases := []struct {
		name       string
		identifier string
		want       bool
	}{
		{name: "lowercase hex", identifier: "507f1f77bcf86cd799439011", want: true},
		{name: "uppercase hex", identifier: "507F1F77BCF86CD799439011", want: true},
		{name: "too short", identifier: "507f1f77bcf86cd79943901", want: false},
		{name: "too long", identifier: "507f1f77bcf86cd7994390111", want: false},
		{name: "non-hex characters", identifier: "507f1f77bcf86cd79943901z", want: false},
		{name: "idp subject", identifier: "auth0|abc123", want: false},
		{name: "empty", identifier: "", want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsEntityID(tc.identifier))
		})
	}
}

func TestResolveUserByPrimaryKey(t *testing.T) {
	db := setupTestDB(t)

	user := models.User{
		Active:   true,
		Username: "alice",
		Email:    "alice@example.com",
	}
	require.NoError(t, db.Create(&user).Error)

	resolved, err := ResolveUser(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
	assert.Equal(t, "alice", resolved.Username)
}

func TestResolveUserByExternalID(t *testing.T) {
	db := setupTestDB(t)

	user := models.User{
		Active:     true,
		Username:   "bob",
		Email:      "bob@example.com",
		AuthSource: models.AuthSourceOIDC,
		ExternalID: "auth0|abc123",
	}
	require.NoError(t, db.Create(&user).Error)

	resolved, err := ResolveUser(db, "auth0|abc123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
}

func TestResolveUserByAccountID(t *testing.T) {
	db := setupTestDB(t)

	user := models.User{
		Active:    true,
		Username:  "demo",
		Email:     "demo@example.com",
		AccountID: "demo-account-1",
	}
	require.NoError(t, db.Create(&user).Error)

	resolved, err := ResolveUser(db, "demo-account-1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
}

// A 24-hex identifier that is nobody's primary key must still be tried
// against the external id and account id columns.
func TestResolveUserHexIdentifierFallsThrough(t *testing.T) {
	db := setupTestDB(t)

	hexExternal := "abcdefabcdefabcdefabcdef"

	user := models.User{
		Active:     true,
		Username:   "carol",
		Email:      "carol@example.com",
		ExternalID: hexExternal,
	}
	require.NoError(t, db.Create(&user).Error)

	resolved, err := ResolveUser(db, hexExternal)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
}

func TestResolveUserNotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := ResolveUser(db, "nobody")
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = ResolveUser(db, "")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestResolveUserEagerLoads(t *testing.T) {
	db := setupTestDB(t)

	role := models.Role{
		Name:   "Viewer",
		Active: true,
		Permissions: []models.ModulePermission{
			{ModuleName: "buildings", CanView: true},
		},
	}
	require.NoError(t, db.Create(&role).Error)

	user := models.User{
		Active:   true,
		Username: "dave",
		Email:    "dave@example.com",
		Roles:    []models.Role{role},
		ResourceAccess: []models.ResourceAccess{
			{ResourceType: "building", ResourceID: "b-1", CanView: true},
		},
	}
	require.NoError(t, db.Create(&user).Error)

	resolved, err := ResolveUser(db, user.ID)
	require.NoError(t, err)

	require.Len(t, resolved.Roles, 1)
	require.Len(t, resolved.Roles[0].Permissions, 1)
	assert.Equal(t, "buildings", resolved.Roles[0].Permissions[0].ModuleName)
	require.Len(t, resolved.ResourceAccess, 1)
	assert.Equal(t, "b-1", resolved.ResourceAccess[0].ResourceID)
}
