package role

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

	err = db.AutoMigrate(&models.Role{}, &models.ModulePermission{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func TestCreate(t *testing.T) {
	db := setupTestDB(t)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		roleName      string
		permissions   []models.ModulePermission
		expectedError error
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			roleName:      "Viewer",
			expectedError: ErrDBNil,
		},
		{
			name:          "empty name",
			dbParam:       db,
			expectedError: ErrRoleNameEmpty,
		},
		{
			name:     "permission without module name",
			dbParam:  db,
			roleName: "Broken",
			permissions: []models.ModulePermission{
				{CanView: true},
			},
			expectedError: ErrModuleNameEmpty,
		},
		{
			name:     "successful create",
			dbParam:  db,
			roleName: "Viewer",
			permissions: []models.ModulePermission{
				{ModuleName: "buildings", CanView: true},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			role, err := Create(tc.dbParam, tc.roleName, "", "", tc.permissions)

			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				return
			}

			require.NoError(t, err)
			assert.True(t, role.Active)
			assert.Len(t, role.ID, 24)
			require.Len(t, role.Permissions, 1)
			assert.Equal(t, "buildings", role.Permissions[0].ModuleName)
		})
	}
}

func TestCreateRejectsDuplicateName(t *testing.T) {
	db := setupTestDB(t)

	_, err := Create(db, "Viewer", "", "", nil)
	require.NoError(t, err)

	_, err = Create(db, "Viewer", "", "", nil)
	require.ErrorIs(t, err, ErrRoleAlreadyExists)
}

func TestGetAndGetByID(t *testing.T) {
	db := setupTestDB(t)

	created, err := Create(db, "Viewer", "read only", "", []models.ModulePermission{
		{ModuleName: "sites", CanView: true},
	})
	require.NoError(t, err)

	_, err = Get(db, "nonexistent")
	require.ErrorIs(t, err, ErrRoleNotFound)

	role, err := Get(db, "Viewer")
	require.NoError(t, err)
	assert.Equal(t, created.ID, role.ID)
	require.Len(t, role.Permissions, 1)

	role, err = GetByID(db, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Viewer", role.Name)
}

func TestUpdate(t *testing.T) {
	db := setupTestDB(t)

	created, err := Create(db, "Viewer", "", "", nil)
	require.NoError(t, err)

	updated, err := Update(db, created.ID, "Auditor", "read only access", false)
	require.NoError(t, err)
	assert.Equal(t, "Auditor", updated.Name)
	assert.False(t, updated.Active)

	_, err = Update(db, "000000000000000000000000", "Nobody", "", true)
	require.ErrorIs(t, err, ErrRoleNotFound)
}

func TestSetPermissions(t *testing.T) {
	db := setupTestDB(t)

	created, err := Create(db, "Manager", "", "", []models.ModulePermission{
		{ModuleName: "buildings", CanView: true},
		{ModuleName: "sites", CanView: true},
	})
	require.NoError(t, err)

	// wholesale replacement, old rows must be gone
	role, err := SetPermissions(db, created.ID, []models.ModulePermission{
		{ModuleName: "assets", CanView: true, CanEdit: true},
	})
	require.NoError(t, err)

	require.Len(t, role.Permissions, 1)
	assert.Equal(t, "assets", role.Permissions[0].ModuleName)
	assert.True(t, role.Permissions[0].CanEdit)

	// clearing is allowed
	role, err = SetPermissions(db, created.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, role.Permissions)
}

func TestDelete(t *testing.T) {
	db := setupTestDB(t)

	created, err := Create(db, "Temp", "", "", nil)
	require.NoError(t, err)

	require.NoError(t, Delete(db, created.ID))

	_, err = GetByID(db, created.ID)
	require.ErrorIs(t, err, ErrRoleNotFound)
}

func TestDeleteProtectsSystemRoles(t *testing.T) {
	db := setupTestDB(t)

	system := models.Role{Name: "Administrator", Active: true, IsSystem: true}
	require.NoError(t, db.Create(&system).Error)

	require.ErrorIs(t, Delete(db, system.ID), ErrRoleIsSystem)
}
