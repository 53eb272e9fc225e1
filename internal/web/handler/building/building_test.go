package building

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/GoEstate-Admin/GoEstate-Admin/internal/authz"
	"github.com/GoEstate-Admin/GoEstate-Admin/internal/config"
	"github.com/GoEstate-Admin/GoEstate-Admin/internal/db/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Customer{},
		&models.User{},
		&models.Role{},
		&models.ModulePermission{},
		&models.ResourceAccess{},
		&models.Building{},
	))

	return db
}

func newTestConfig() *config.Config {
	return &config.Config{
		Webserver: config.Webserver{
			URL:     "http://localhost",
			Port:    8080,
			Session: config.Session{ExpiryTime: time.Minute},
		},
	}
}

// newTestApp wires the handler with a manager user who holds full access to
// the buildings module, and returns the manager's id for the auth header.
func newTestApp(t *testing.T, db *gorm.DB) (*fiber.App, string) {
	t.Helper()

	app := fiber.New()

	service := Service{}
	service.Init(app, newTestConfig(), db, authz.NewEngine(db))

	role := models.Role{
		Name:   "Manager",
		Active: true,
		Permissions: []models.ModulePermission{
			{ModuleName: "buildings", CanView: true, CanCreate: true, CanEdit: true, CanDelete: true},
		},
	}
	require.NoError(t, db.Create(&role).Error)

	manager := models.User{
		Active:   true,
		Username: "manager",
		Email:    "manager@example.com",
		Roles:    []models.Role{role},
	}
	require.NoError(t, db.Create(&manager).Error)

	return app, manager.ID
}

func request(t *testing.T, app *fiber.App, method, target, userID string, payload interface{}) *http.Response {
	t.Helper()

	var body io.Reader

	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)

		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)

	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	return resp
}

func seedBuilding(t *testing.T, db *gorm.DB) models.Building {
	t.Helper()

	building := models.Building{
		CustomerID: "507f1f77bcf86cd799439011",
		SiteID:     "507f1f77bcf86cd799439012",
		Name:       "Harbour Tower",
	}
	require.NoError(t, db.Create(&building).Error)

	return building
}

func TestListRequiresAuthentication(t *testing.T) {
	db := newTestDB(t)
	app, _ := newTestApp(t, db)

	resp := request(t, app, http.MethodGet, Path, "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestCreateAndGet(t *testing.T) {
	db := newTestDB(t)
	app, managerID := newTestApp(t, db)

	resp := request(t, app, http.MethodPost, Path, managerID, fiber.Map{
		"customer_id": "507f1f77bcf86cd799439011",
		"site_id":     "507f1f77bcf86cd799439012",
		"name":        "Harbour Tower",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created models.Building
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &created))

	assert.Len(t, created.ID, 24)
	assert.Equal(t, "Harbour Tower", created.Name)

	resp = request(t, app, http.MethodGet, Path+"/"+created.ID, managerID, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestCreateValidation(t *testing.T) {
	db := newTestDB(t)
	app, managerID := newTestApp(t, db)

	// missing required fields
	resp := request(t, app, http.MethodPost, Path, managerID, fiber.Map{
		"name": "No Customer",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGetNotFound(t *testing.T) {
	db := newTestDB(t)
	app, managerID := newTestApp(t, db)

	resp := request(t, app, http.MethodGet, Path+"/507f1f77bcf86cd799439099", managerID, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestUpdate(t *testing.T) {
	db := newTestDB(t)
	app, managerID := newTestApp(t, db)
	building := seedBuilding(t, db)

	resp := request(t, app, http.MethodPut, Path+"/"+building.ID, managerID, fiber.Map{
		"customer_id": building.CustomerID,
		"site_id":     building.SiteID,
		"name":        "Harbour Tower II",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var updated models.Building
	require.NoError(t, db.First(&updated, "id = ?", building.ID).Error)
	assert.Equal(t, "Harbour Tower II", updated.Name)
}

func TestDelete(t *testing.T) {
	db := newTestDB(t)
	app, managerID := newTestApp(t, db)
	building := seedBuilding(t, db)

	resp := request(t, app, http.MethodDelete, Path+"/"+building.ID, managerID, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	var count int64
	db.Model(&models.Building{}).Where("id = ?", building.ID).Count(&count)
	assert.Zero(t, count, "deleted building must not be listed")

	// soft delete keeps the row
	db.Unscoped().Model(&models.Building{}).Where("id = ?", building.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

// A user whose role denies deletion but who holds a resource grant for one
// building can delete exactly that building.
func TestDeleteViaResourceGrant(t *testing.T) {
	db := newTestDB(t)
	app, _ := newTestApp(t, db)
	building := seedBuilding(t, db)
	other := seedBuilding(t, db)

	viewer := models.Role{
		Name:   "Viewer",
		Active: true,
		Permissions: []models.ModulePermission{
			{ModuleName: "buildings", CanView: true},
		},
	}
	require.NoError(t, db.Create(&viewer).Error)

	limited := models.User{
		Active:   true,
		Username: "limited",
		Email:    "limited@example.com",
		Roles:    []models.Role{viewer},
		ResourceAccess: []models.ResourceAccess{
			{ResourceType: "building", ResourceID: building.ID, CanView: true, CanDelete: true},
		},
	}
	require.NoError(t, db.Create(&limited).Error)

	resp := request(t, app, http.MethodDelete, Path+"/"+building.ID, limited.ID, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = request(t, app, http.MethodDelete, Path+"/"+other.ID, limited.ID, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
