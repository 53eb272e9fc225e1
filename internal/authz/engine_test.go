package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoEstate-Admin/GoEstate-Admin/internal/db/models"
)

func createRole(t *testing.T, db *gorm.DB, name string, active bool, perms ...models.ModulePermission) models.Role {
	t.Helper()

	role := models.Role{
		Name:        name,
		Active:      active,
		Permissions: perms,
	}
	require.NoError(t, db.Create(&role).Error)

	return role
}

func createUser(t *testing.T, db *gorm.DB, user models.User) models.User {
	t.Helper()

	require.NoError(t, db.Create(&user).Error)

	return user
}

// A resource-specific grant allows access the user's roles would deny.
func TestAuthorizeResourceGrantOverridesRoles(t *testing.T) {
	db := setupTestDB(t)
	engine := NewEngine(db)

	viewer := createRole(t, db, "Viewer", true,
		models.ModulePermission{ModuleName: "buildings", CanView: true},
	)

	user := createUser(t, db, models.User{
		Active:   true,
		Username: "alice",
		Email:    "alice@example.com",
		Roles:    []models.Role{viewer},
		ResourceAccess: []models.ResourceAccess{
			{ResourceType: "building", ResourceID: "b-1", CanView: true, CanEdit: true},
		},
	})

	decision, err := engine.AuthorizeResource(user.ID, "building", "edit", "b-1")
	require.NoError(t, err)

	assert.True(t, decision.Allowed)
	assert.Equal(t, SourceResourceAccess, decision.Source)
	require.NotNil(t, decision.Grant)
	assert.Equal(t, "b-1", decision.Grant.ResourceID)
}

// A matching grant without the requested flag is an authoritative deny:
// roles that would allow the action are never consulted.
func TestAuthorizeResourceExplicitDenyShadowsRoleAllow(t *testing.T) {
	db := setupTestDB(t)
	engine := NewEngine(db)

	admin := createRole(t, db, "Administrator", true,
		models.ModulePermission{ModuleName: "buildings", CanView: true, CanCreate: true, CanEdit: true, CanDelete: true},
	)

	user := createUser(t, db, models.User{
		Active:   true,
		Username: "bob",
		Email:    "bob@example.com",
		Roles:    []models.Role{admin},
		ResourceAccess: []models.ResourceAccess{
			// all flags false: explicit deny for this one building
			{ResourceType: "building", ResourceID: "b-secret"},
		},
	})

	decision, err := engine.AuthorizeResource(user.ID, "building", "view", "b-secret")
	require.NoError(t, err)

	assert.False(t, decision.Allowed)
	assert.Equal(t, SourceResourceAccess, decision.Source)
	require.NotNil(t, decision.Grant)
	assert.False(t, decision.Grant.CanView)
}

// No grant for the resource: the user's roles decide.
func TestAuthorizeResourceRoleFallback(t *testing.T) {
	db := setupTestDB(t)
	engine := NewEngine(db)

	manager := createRole(t, db, "Property Manager", true,
		models.ModulePermission{ModuleName: "buildings", CanView: true, CanEdit: true},
	)

	user := createUser(t, db, models.User{
		Active:   true,
		Username: "carol",
		Email:    "carol@example.com",
		Roles:    []models.Role{manager},
		ResourceAccess: []models.ResourceAccess{
			// grant for a different resource must not interfere
			{ResourceType: "building", ResourceID: "b-other", CanView: true},
		},
	})

	decision, err := engine.AuthorizeResource(user.ID, "building", "edit", "b-1")
	require.NoError(t, err)

	assert.True(t, decision.Allowed)
	assert.Equal(t, SourceRole, decision.Source)
	assert.Equal(t, "Property Manager", decision.RoleName)
	assert.Nil(t, decision.Grant)
}

// Neither grants nor roles qualify: denial with no deciding source.
func TestAuthorizeResourceDeniedWithoutAnyMatch(t *testing.T) {
	db := setupTestDB(t)
	engine := NewEngine(db)

	viewer := createRole(t, db, "Viewer", true,
		models.ModulePermission{ModuleName: "buildings", CanView: true},
	)

	user := createUser(t, db, models.User{
		Active:   true,
		Username: "dave",
		Email:    "dave@example.com",
		Roles:    []models.Role{viewer},
	})

	decision, err := engine.AuthorizeResource(user.ID, "building", "delete", "b-1")
	require.NoError(t, err)

	assert.False(t, decision.Allowed)
	assert.Equal(t, SourceDenied, decision.Source)
}

// Inactive roles are skipped entirely during fallback evaluation.
func TestAuthorizeResourceInactiveRoleSkipped(t *testing.T) {
	db := setupTestDB(t)
	engine := NewEngine(db)

	retired := createRole(t, db, "Retired Admin", false,
		models.ModulePermission{ModuleName: "buildings", CanView: true, CanDelete: true},
	)

	user := createUser(t, db, models.User{
		Active:   true,
		Username: "erin",
		Email:    "erin@example.com",
		Roles:    []models.Role{retired},
	})

	decision, err := engine.AuthorizeResource(user.ID, "building", "view", "b-1")
	require.NoError(t, err)

	assert.False(t, decision.Allowed)
	assert.Equal(t, SourceDenied, decision.Source)
}

// The first role carrying the flag decides; later roles are not aggregated.
func TestAuthorizeModuleFirstQualifyingRoleWins(t *testing.T) {
	db := setupTestDB(t)
	engine := NewEngine(db)

	first := createRole(t, db, "First", true,
		models.ModulePermission{ModuleName: "sites", CanView: true},
	)
	second := createRole(t, db, "Second", true,
		models.ModulePermission{ModuleName: "sites", CanView: true, CanEdit: true},
	)

	user := createUser(t, db, models.User{
		Active:   true,
		Username: "frank",
		Email:    "frank@example.com",
		Roles:    []models.Role{first, second},
	})

	decision, err := engine.AuthorizeModule(user.ID, "sites", "view")
	require.NoError(t, err)

	assert.True(t, decision.Allowed)
	assert.Equal(t, "First", decision.RoleName)

	// the edit flag only exists on the second role
	decision, err = engine.AuthorizeModule(user.ID, "sites", "edit")
	require.NoError(t, err)

	assert.True(t, decision.Allowed)
	assert.Equal(t, "Second", decision.RoleName)
}

// Module-level checks never consult resource grants.
func TestAuthorizeModuleIgnoresResourceGrants(t *testing.T) {
	db := setupTestDB(t)
	engine := NewEngine(db)

	user := createUser(t, db, models.User{
		Active:   true,
		Username: "grace",
		Email:    "grace@example.com",
		ResourceAccess: []models.ResourceAccess{
			{ResourceType: "building", ResourceID: "b-1", CanView: true, CanCreate: true},
		},
	})

	decision, err := engine.AuthorizeModule(user.ID, "buildings", "view")
	require.NoError(t, err)

	assert.False(t, decision.Allowed)
	assert.Equal(t, SourceDenied, decision.Source)
}

func TestAuthorizeResourceInactiveUser(t *testing.T) {
	db := setupTestDB(t)
	engine := NewEngine(db)

	user := createUser(t, db, models.User{
		Active:   false,
		Username: "henry",
		Email:    "henry@example.com",
	})

	_, err := engine.AuthorizeResource(user.ID, "building", "view", "b-1")
	require.ErrorIs(t, err, ErrAccountInactive)
}

func TestAuthorizeResourceUnknownUser(t *testing.T) {
	db := setupTestDB(t)
	engine := NewEngine(db)

	_, err := engine.AuthorizeResource("ghost", "building", "view", "b-1")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthorizeResourceInvalidAction(t *testing.T) {
	db := setupTestDB(t)
	engine := NewEngine(db)

	user := createUser(t, db, models.User{
		Active:   true,
		Username: "iris",
		Email:    "iris@example.com",
	})

	_, err := engine.AuthorizeResource(user.ID, "building", "execute", "b-1")
	require.ErrorIs(t, err, ErrInvalidAction)
}

// The resource id is validated before identity resolution, so even an
// unknown user gets the missing-id failure.
func TestAuthorizeResourceMissingResourceID(t *testing.T) {
	db := setupTestDB(t)
	engine := NewEngine(db)

	_, err := engine.AuthorizeResource("ghost", "building", "view", "")
	require.ErrorIs(t, err, ErrResourceIDMissing)
}

// External identity-provider subjects resolve the same user record the
// primary key does.
func TestAuthorizeResourceViaExternalIdentifier(t *testing.T) {
	db := setupTestDB(t)
	engine := NewEngine(db)

	viewer := createRole(t, db, "Viewer", true,
		models.ModulePermission{ModuleName: "buildings", CanView: true},
	)

	createUser(t, db, models.User{
		Active:     true,
		Username:   "jane",
		Email:      "jane@example.com",
		AuthSource: models.AuthSourceOIDC,
		ExternalID: "auth0|abc123",
		Roles:      []models.Role{viewer},
	})

	decision, err := engine.AuthorizeResource("auth0|abc123", "building", "view", "b-1")
	require.NoError(t, err)

	assert.True(t, decision.Allowed)
	assert.Equal(t, SourceRole, decision.Source)
}
