// Package building provides REST handlers for managing buildings.
package building

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

// Path is the base path for building management.
const Path = handler.APIBasePath + "/buildings"

// Service provides CRUD operations for buildings.
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
		authz.RequireModule(engine, "buildings", "view"),
		s.List,
	)
	app.Get(Path+"/:id",
		authz.RequireResource(engine, "building", "view", authz.FromParam("id")),
		s.Get,
	)
	app.Post(Path,
		authz.RequireModule(engine, "buildings", "create"),
		s.Create,
	)
	app.Put(Path+"/:id",
		authz.RequireResource(engine, "building", "edit", authz.FromParam("id")),
		s.Update,
	)
	app.Delete(Path+"/:id",
		authz.RequireResource(engine, "building", "delete", authz.FromParam("id")),
		s.Delete,
	)
}

// List returns buildings with pagination and optional filters.
func (s *Service) List(c *fiber.Ctx) error {
	page, pageSize := handler.Page(c.QueryInt("page", 1), c.QueryInt("pageSize", handler.DefaultPageSize))

	var (
		buildings  []models.Building
		totalCount int64
		tx         = s.db.Model(&models.Building{})
	)

	if customerID := c.Query("customer_id"); customerID != "" {
		tx = tx.Where("customer_id = ?", customerID)
	}

	if siteID := c.Query("site_id"); siteID != "" {
		tx = tx.Where("site_id = ?", siteID)
	}

	if search := c.Query("search"); search != "" {
		tx = tx.Where("name LIKE ?", "%"+search+"%")
	}

	if err := tx.Count(&totalCount).Error; err != nil {
		log.Error().Err(err).Msg("count buildings failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load buildings"})
	}

	offset := (page - 1) * pageSize
	if err := tx.Order("created_at DESC").Limit(pageSize).Offset(offset).Find(&buildings).Error; err != nil {
		log.Error().Err(err).Msg("query buildings failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load buildings"})
	}

	return c.JSON(fiber.Map{
		"items":     buildings,
		"total":     totalCount,
		"page":      page,
		"page_size": pageSize,
	})
}

// Get returns a single building by id.
func (s *Service) Get(c *fiber.Ctx) error {
	var building models.Building

	err := s.db.Where("id = ?", c.Params("id")).First(&building).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "building not found"})
	}

	if err != nil {
		log.Error().Err(err).Str("id", c.Params("id")).Msg("query building failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load building"})
	}

	return c.JSON(building)
}

// Create creates a new building.
func (s *Service) Create(c *fiber.Ctx) error {
	building := new(models.Building)

	if err := c.BodyParser(building); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	building.ID = "" // server-assigned

	if err := s.validator.Struct(building); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := s.db.Create(building).Error; err != nil {
		log.Error().Err(err).Msg("create building failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create building"})
	}

	return c.Status(fiber.StatusCreated).JSON(building)
}

// Update updates an existing building.
func (s *Service) Update(c *fiber.Ctx) error {
	var building models.Building

	err := s.db.Where("id = ?", c.Params("id")).First(&building).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "building not found"})
	}

	if err != nil {
		log.Error().Err(err).Str("id", c.Params("id")).Msg("query building failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load building"})
	}

	if err = c.BodyParser(&building); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	building.ID = c.Params("id") // id comes from the route, never the body

	if err = s.validator.Struct(&building); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err = s.db.Save(&building).Error; err != nil {
		log.Error().Err(err).Msg("update building failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update building"})
	}

	return c.JSON(building)
}

// Delete soft deletes a building.
func (s *Service) Delete(c *fiber.Ctx) error {
	result := s.db.Where("id = ?", c.Params("id")).Delete(&models.Building{})
	if result.Error != nil {
		log.Error().Err(result.Error).Str("id", c.Params("id")).Msg("delete building failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete building"})
	}

	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "building not found"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
