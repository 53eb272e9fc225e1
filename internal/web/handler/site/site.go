// Package site provides REST handlers for managing sites.
package site

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

// Path is the base path for site management.
const Path = handler.APIBasePath + "/sites"

// Service provides CRUD operations for sites.
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
		authz.RequireModule(engine, "sites", "view"),
		s.List,
	)
	app.Get(Path+"/:id",
		authz.RequireResource(engine, "site", "view", authz.FromParam("id")),
		s.Get,
	)
	app.Post(Path,
		authz.RequireModule(engine, "sites", "create"),
		s.Create,
	)
	app.Put(Path+"/:id",
		authz.RequireResource(engine, "site", "edit", authz.FromParam("id")),
		s.Update,
	)
	app.Delete(Path+"/:id",
		authz.RequireResource(engine, "site", "delete", authz.FromParam("id")),
		s.Delete,
	)
}

// List returns sites with pagination and optional filters.
func (s *Service) List(c *fiber.Ctx) error {
	page, pageSize := handler.Page(c.QueryInt("page", 1), c.QueryInt("pageSize", handler.DefaultPageSize))

	var (
		sites      []models.Site
		totalCount int64
		tx         = s.db.Model(&models.Site{})
	)

	if customerID := c.Query("customer_id"); customerID != "" {
		tx = tx.Where("customer_id = ?", customerID)
	}

	if city := c.Query("city"); city != "" {
		tx = tx.Where("city = ?", city)
	}

	if search := c.Query("search"); search != "" {
		tx = tx.Where("name LIKE ?", "%"+search+"%")
	}

	if err := tx.Count(&totalCount).Error; err != nil {
		log.Error().Err(err).Msg("count sites failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load sites"})
	}

	offset := (page - 1) * pageSize
	if err := tx.Order("name ASC").Limit(pageSize).Offset(offset).Find(&sites).Error; err != nil {
		log.Error().Err(err).Msg("query sites failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load sites"})
	}

	return c.JSON(fiber.Map{
		"items":     sites,
		"total":     totalCount,
		"page":      page,
		"page_size": pageSize,
	})
}

// Get returns a single site by id.
func (s *Service) Get(c *fiber.Ctx) error {
	var site models.Site

	err := s.db.Where("id = ?", c.Params("id")).First(&site).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "site not found"})
	}

	if err != nil {
		log.Error().Err(err).Str("id", c.Params("id")).Msg("query site failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load site"})
	}

	return c.JSON(site)
}

// Create creates a new site.
func (s *Service) Create(c *fiber.Ctx) error {
	site := new(models.Site)

	if err := c.BodyParser(site); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	site.ID = "" // server-assigned

	if err := s.validator.Struct(site); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := s.db.Create(site).Error; err != nil {
		log.Error().Err(err).Msg("create site failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create site"})
	}

	return c.Status(fiber.StatusCreated).JSON(site)
}

// Update updates an existing site.
func (s *Service) Update(c *fiber.Ctx) error {
	var site models.Site

	err := s.db.Where("id = ?", c.Params("id")).First(&site).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "site not found"})
	}

	if err != nil {
		log.Error().Err(err).Str("id", c.Params("id")).Msg("query site failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load site"})
	}

	if err = c.BodyParser(&site); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	site.ID = c.Params("id") // id comes from the route, never the body

	if err = s.validator.Struct(&site); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err = s.db.Save(&site).Error; err != nil {
		log.Error().Err(err).Msg("update site failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update site"})
	}

	return c.JSON(site)
}

// Delete soft deletes a site.
func (s *Service) Delete(c *fiber.Ctx) error {
	result := s.db.Where("id = ?", c.Params("id")).Delete(&models.Site{})
	if result.Error != nil {
		log.Error().Err(result.Error).Str("id", c.Params("id")).Msg("delete site failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete site"})
	}

	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "site not found"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
