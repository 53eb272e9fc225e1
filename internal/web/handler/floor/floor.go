// Package floor provides REST handlers for managing floors.
package floor

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

// Path is the base path for floor management.
const Path = handler.APIBasePath + "/floors"

// Service provides CRUD operations for floors.
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
		authz.RequireModule(engine, "floors", "view"),
		s.List,
	)
	app.Get(Path+"/:id",
		authz.RequireResource(engine, "floor", "view", authz.FromParam("id")),
		s.Get,
	)
	app.Post(Path,
		authz.RequireModule(engine, "floors", "create"),
		s.Create,
	)
	app.Put(Path+"/:id",
		authz.RequireResource(engine, "floor", "edit", authz.FromParam("id")),
		s.Update,
	)
	app.Delete(Path+"/:id",
		authz.RequireResource(engine, "floor", "delete", authz.FromParam("id")),
		s.Delete,
	)
}

// List returns floors with pagination, optionally scoped to a building.
func (s *Service) List(c *fiber.Ctx) error {
	page, pageSize := handler.Page(c.QueryInt("page", 1), c.QueryInt("pageSize", handler.DefaultPageSize))

	var (
		floors     []models.Floor
		totalCount int64
		tx         = s.db.Model(&models.Floor{})
	)

	if customerID := c.Query("customer_id"); customerID != "" {
		tx = tx.Where("customer_id = ?", customerID)
	}

	if buildingID := c.Query("building_id"); buildingID != "" {
		tx = tx.Where("building_id = ?", buildingID)
	}

	if err := tx.Count(&totalCount).Error; err != nil {
		log.Error().Err(err).Msg("count floors failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load floors"})
	}

	offset := (page - 1) * pageSize
	if err := tx.Order("level ASC").Limit(pageSize).Offset(offset).Find(&floors).Error; err != nil {
		log.Error().Err(err).Msg("query floors failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load floors"})
	}

	return c.JSON(fiber.Map{
		"items":     floors,
		"total":     totalCount,
		"page":      page,
		"page_size": pageSize,
	})
}

// Get returns a single floor by id.
func (s *Service) Get(c *fiber.Ctx) error {
	var floor models.Floor

	err := s.db.Where("id = ?", c.Params("id")).First(&floor).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "floor not found"})
	}

	if err != nil {
		log.Error().Err(err).Str("id", c.Params("id")).Msg("query floor failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load floor"})
	}

	return c.JSON(floor)
}

// Create creates a new floor.
func (s *Service) Create(c *fiber.Ctx) error {
	floor := new(models.Floor)

	if err := c.BodyParser(floor); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	floor.ID = "" // server-assigned

	if err := s.validator.Struct(floor); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := s.db.Create(floor).Error; err != nil {
		log.Error().Err(err).Msg("create floor failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create floor"})
	}

	return c.Status(fiber.StatusCreated).JSON(floor)
}

// Update updates an existing floor.
func (s *Service) Update(c *fiber.Ctx) error {
	var floor models.Floor

	err := s.db.Where("id = ?", c.Params("id")).First(&floor).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "floor not found"})
	}

	if err != nil {
		log.Error().Err(err).Str("id", c.Params("id")).Msg("query floor failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load floor"})
	}

	if err = c.BodyParser(&floor); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	floor.ID = c.Params("id") // id comes from the route, never the body

	if err = s.validator.Struct(&floor); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err = s.db.Save(&floor).Error; err != nil {
		log.Error().Err(err).Msg("update floor failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update floor"})
	}

	return c.JSON(floor)
}

// Delete soft deletes a floor.
func (s *Service) Delete(c *fiber.Ctx) error {
	result := s.db.Where("id = ?", c.Params("id")).Delete(&models.Floor{})
	if result.Error != nil {
		log.Error().Err(result.Error).Str("id", c.Params("id")).Msg("delete floor failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete floor"})
	}

	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "floor not found"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
