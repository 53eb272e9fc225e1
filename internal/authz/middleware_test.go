package authz

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoEstate-Admin/GoEstate-Admin/internal/db/models"
)

func newGatedApp(t *testing.T, db *gorm.DB) *fiber.App {
	t.Helper()

	engine := NewEngine(db)
	app := fiber.New()

	app.Get("/buildings", RequireModule(engine, "buildings", "view"), func(c *fiber.Ctx) error {
		return c.SendString("list")
	})
	app.Get("/buildings/:id", RequireResource(engine, "building", "view", FromParam("id")), func(c *fiber.Ctx) error {
		decision, ok := DecisionFromContext(c)
		require.True(t, ok)

		return c.JSON(fiber.Map{"source": decision.Source})
	})

	return app
}

func doRequest(t *testing.T, app *fiber.App, method, target, userHeader string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	if userHeader != "" {
		req.Header.Set("X-User-ID", userHeader)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))

	return body
}

func TestRequireResourceUnauthenticated(t *testing.T) {
	db := setupTestDB(t)
	app := newGatedApp(t, db)

	resp := doRequest(t, app, http.MethodGet, "/buildings/b-1", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireResourceUnknownUser(t *testing.T) {
	db := setupTestDB(t)
	app := newGatedApp(t, db)

	resp := doRequest(t, app, http.MethodGet, "/buildings/b-1", "ghost")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestRequireResourceInactiveUser(t *testing.T) {
	db := setupTestDB(t)
	app := newGatedApp(t, db)

	user := createUser(t, db, models.User{
		Active:   false,
		Username: "alice",
		Email:    "alice@example.com",
	})

	resp := doRequest(t, app, http.MethodGet, "/buildings/b-1", user.ID)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireResourceAllowedByGrant(t *testing.T) {
	db := setupTestDB(t)
	app := newGatedApp(t, db)

	user := createUser(t, db, models.User{
		Active:   true,
		Username: "bob",
		Email:    "bob@example.com",
		ResourceAccess: []models.ResourceAccess{
			{ResourceType: "building", ResourceID: "b-1", CanView: true},
		},
	})

	resp := doRequest(t, app, http.MethodGet, "/buildings/b-1", user.ID)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, string(SourceResourceAccess), body["source"])
}

func TestRequireResourceDeniedEchoesGrant(t *testing.T) {
	db := setupTestDB(t)
	app := newGatedApp(t, db)

	viewer := createRole(t, db, "Viewer", true,
		models.ModulePermission{ModuleName: "buildings", CanView: true},
	)

	user := createUser(t, db, models.User{
		Active:   true,
		Username: "carol",
		Email:    "carol@example.com",
		Roles:    []models.Role{viewer},
		ResourceAccess: []models.ResourceAccess{
			{ResourceType: "building", ResourceID: "b-1"}, // explicit deny
		},
	})

	resp := doRequest(t, app, http.MethodGet, "/buildings/b-1", user.ID)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, string(SourceResourceAccess), body["source"])

	grant, ok := body["grant"].(map[string]interface{})
	require.True(t, ok, "denial from a grant must echo the grant")
	assert.Equal(t, "b-1", grant["resource_id"])

	permissions, ok := grant["permissions"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, false, permissions["can_view"])
}

func TestRequireModuleAllowedByRole(t *testing.T) {
	db := setupTestDB(t)
	app := newGatedApp(t, db)

	viewer := createRole(t, db, "Viewer", true,
		models.ModulePermission{ModuleName: "buildings", CanView: true},
	)

	user := createUser(t, db, models.User{
		Active:   true,
		Username: "dave",
		Email:    "dave@example.com",
		Roles:    []models.Role{viewer},
	})

	resp := doRequest(t, app, http.MethodGet, "/buildings", user.ID)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireModuleDenied(t *testing.T) {
	db := setupTestDB(t)
	app := newGatedApp(t, db)

	user := createUser(t, db, models.User{
		Active:   true,
		Username: "erin",
		Email:    "erin@example.com",
	})

	resp := doRequest(t, app, http.MethodGet, "/buildings", user.ID)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, string(SourceDenied), body["source"])
}

func TestExtractIdentifierPrecedence(t *testing.T) {
	app := fiber.New()

	app.Get("/whoami", func(c *fiber.Ctx) error {
		c.Locals(LocalsUserIdentifier, "session-user")
		return c.SendString(ExtractIdentifier(c))
	})
	app.Get("/header", func(c *fiber.Ctx) error {
		return c.SendString(ExtractIdentifier(c))
	})

	// session wins over header
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-User-ID", "header-user")

	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "session-user", string(raw))

	// header wins over query
	req = httptest.NewRequest(http.MethodGet, "/header?user_id=query-user", nil)
	req.Header.Set("X-User-ID", "header-user")

	resp, err = app.Test(req)
	require.NoError(t, err)

	raw, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "header-user", string(raw))

	// query is the last resort
	req = httptest.NewRequest(http.MethodGet, "/header?user_id=query-user", nil)

	resp, err = app.Test(req)
	require.NoError(t, err)

	raw, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "query-user", string(raw))
}
