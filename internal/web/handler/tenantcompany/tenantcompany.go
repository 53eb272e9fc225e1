// Package tenantcompany provides REST handlers for managing tenant companies,
// the businesses leasing space in managed buildings.
package tenantcompany

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoEstate-Admin/GoEstate-Admin/internal/authz"
	"github.com/GoEstate-Admin/GoEstate-Admin/internal/config"
	"github.com/GoEstate-Admin/GoEstate-Admin/internal/db/models"
	"github.com/GoEstate-Admin/GoEstate-Admin/internal/web/handler"
)

// Path is the base path for tenant company management.
const Path = handler.APIBasePath + "/tenants"

// Service provides CRUD operations for tenant companies.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, engine *authz.Engine) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.validator = validator.New()

	// Routes
	app.Get(Path,
		authz.RequireModule(engine, "tenants", "view"),
		s.List,
	)
	app.Get(Path+"/:id",
		authz.RequireResource(engine, "tenant", "view", authz.FromParam("id")),
		s.Get,
	)
	app.Post(Path,
		authz.RequireModule(engine, "tenants", "create"),
		s.Create,
	)
	app.Put(Path+"/:id",
		authz.RequireResource(engine, "tenant", "edit", authz.FromParam("id")),
		s.Update,
	)
	app.Delete(Path+"/:id",
		authz.RequireResource(engine, "tenant", "delete", authz.FromParam("id")),
		s.Delete,
	)
}

// List returns tenant companies with pagination and optional filters.
func (s *Service) List(c *fiber.Ctx) error {
	page, pageSize := handler.Page(c.QueryInt("page", 1), c.QueryInt("pageSize", handler.DefaultPageSize))

	var (
		tenants    []models.TenantCompany
		totalCount int64
		tx         = s.db.Model(&models.TenantCompany{})
	)

	if customerID := c.Query("customer_id"); customerID != "" {
		tx = tx.Where("customer_id = ?", customerID)
	}

	if buildingID := c.Query("building_id"); buildingID != "" {
		tx = tx.Where("building_id = ?", buildingID)
	}

	if industry := c.Query("industry"); industry != "" {
		tx = tx.Where("industry = ?", industry)
	}

	if search := c.Query("search"); search != "" {
		tx = tx.Where("name LIKE ?", "%"+search+"%")
	}

	if err := tx.Count(&totalCount).Error; err != nil {
		log.Error().Err(err).Msg("count tenant companies failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load tenant companies"})
	}

	offset := (page - 1) * pageSize
	if err := tx.Order("name ASC").Limit(pageSize).Offset(offset).Find(&tenants).Error; err != nil {
		log.Error().Err(err).Msg("query tenant companies failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load tenant companies"})
	}

	return c.JSON(fiber.Map{
		"items":     tenants,
		"total":     totalCount,
		"page":      page,
		"page_size": pageSize,
	})
}

// Get returns a single tenant company by id.
func (s *Service) Get(c *fiber.Ctx) error {
	var tenant models.TenantCompany

	err := s.db.Where("id = ?", c.Params("id")).First(&tenant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "tenant company not found"})
	}

	if err != nil {
		log.Error().Err(err).Str("id", c.Params("id")).Msg("query tenant company failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load tenant company"})
	}

	return c.JSON(tenant)
}

// Create creates a new tenant company.
func (s *Service) Create(c *fiber.Ctx) error {
	tenant := new(models.TenantCompany)

	if err := c.BodyParser(tenant); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	tenant.ID = "" // server-assigned

	if err := s.validator.Struct(tenant); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := s.db.Create(tenant).Error; err != nil {
		log.Error().Err(err).Msg("create tenant company failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create tenant company"})
	}

	return c.Status(fiber.StatusCreated).JSON(tenant)
}

// Update updates an existing tenant company.
func (s *Service) Update(c *fiber.Ctx) error {
	var tenant models.TenantCompany

	err := s.db.Where("id = ?", c.Params("id")).First(&tenant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "tenant company not found"})
	}

	if err != nil {
		log.Error().Err(err).Str("id", c.Params("id")).Msg("query tenant company failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load tenant company"})
	}

	if err = c.BodyParser(&tenant); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	tenant.ID = c.Params("id") // id comes from the route, never the body

	if err = s.validator.Struct(&tenant); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err = s.db.Save(&tenant).Error; err != nil {
		log.Error().Err(err).Msg("update tenant company failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update tenant company"})
	}

	return c.JSON(tenant)
}

// Delete soft deletes a tenant company.
func (s *Service) Delete(c *fiber.Ctx) error {
	result := s.db.Where("id = ?", c.Params("id")).Delete(&models.TenantCompany{})
	if result.Error != nil {
		log.Error().Err(result.Error).Str("id", c.Params("id")).Msg("delete tenant company failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete tenant company"})
	}

	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "tenant company not found"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
