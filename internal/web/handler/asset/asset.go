// Package asset provides REST handlers for managing building assets such as
// HVAC units, elevators and fire panels.
package asset

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

// Path is the base path for asset management.
const Path = handler.APIBasePath + "/assets"

// Service provides CRUD operations for assets.
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
		authz.RequireModule(engine, "assets", "view"),
		s.List,
	)
	app.Get(Path+"/:id",
		authz.RequireResource(engine, "asset", "view", authz.FromParam("id")),
		s.Get,
	)
	app.Post(Path,
		authz.RequireModule(engine, "assets", "create"),
		s.Create,
	)
	app.Put(Path+"/:id",
		authz.RequireResource(engine, "asset", "edit", authz.FromParam("id")),
		s.Update,
	)
	app.Delete(Path+"/:id",
		authz.RequireResource(engine, "asset", "delete", authz.FromParam("id")),
		s.Delete,
	)
}

// List returns assets with pagination and optional filters.
func (s *Service) List(c *fiber.Ctx) error {
	page, pageSize := handler.Page(c.QueryInt("page", 1), c.QueryInt("pageSize", handler.DefaultPageSize))

	var (
		assets     []models.Asset
		totalCount int64
		tx         = s.db.Model(&models.Asset{})
	)

	if customerID := c.Query("customer_id"); customerID != "" {
		tx = tx.Where("customer_id = ?", customerID)
	}

	if buildingID := c.Query("building_id"); buildingID != "" {
		tx = tx.Where("building_id = ?", buildingID)
	}

	if floorID := c.Query("floor_id"); floorID != "" {
		tx = tx.Where("floor_id = ?", floorID)
	}

	if vendorID := c.Query("vendor_id"); vendorID != "" {
		tx = tx.Where("vendor_id = ?", vendorID)
	}

	if category := c.Query("category"); category != "" {
		tx = tx.Where("category = ?", category)
	}

	if condition := c.Query("condition"); condition != "" {
		tx = tx.Where("`condition` = ?", condition)
	}

	if err := tx.Count(&totalCount).Error; err != nil {
		log.Error().Err(err).Msg("count assets failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load assets"})
	}

	offset := (page - 1) * pageSize
	if err := tx.Order("tag ASC").Limit(pageSize).Offset(offset).Find(&assets).Error; err != nil {
		log.Error().Err(err).Msg("query assets failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load assets"})
	}

	return c.JSON(fiber.Map{
		"items":     assets,
		"total":     totalCount,
		"page":      page,
		"page_size": pageSize,
	})
}

// Get returns a single asset by id.
func (s *Service) Get(c *fiber.Ctx) error {
	var asset models.Asset

	err := s.db.Where("id = ?", c.Params("id")).First(&asset).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "asset not found"})
	}

	if err != nil {
		log.Error().Err(err).Str("id", c.Params("id")).Msg("query asset failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load asset"})
	}

	return c.JSON(asset)
}

// Create creates a new asset.
func (s *Service) Create(c *fiber.Ctx) error {
	asset := new(models.Asset)

	if err := c.BodyParser(asset); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	asset.ID = "" // server-assigned

	if err := s.validator.Struct(asset); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := s.db.Create(asset).Error; err != nil {
		log.Error().Err(err).Msg("create asset failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create asset"})
	}

	return c.Status(fiber.StatusCreated).JSON(asset)
}

// Update updates an existing asset.
func (s *Service) Update(c *fiber.Ctx) error {
	var asset models.Asset

	err := s.db.Where("id = ?", c.Params("id")).First(&asset).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "asset not found"})
	}

	if err != nil {
		log.Error().Err(err).Str("id", c.Params("id")).Msg("query asset failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load asset"})
	}

	if err = c.BodyParser(&asset); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	asset.ID = c.Params("id") // id comes from the route, never the body

	if err = s.validator.Struct(&asset); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err = s.db.Save(&asset).Error; err != nil {
		log.Error().Err(err).Msg("update asset failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update asset"})
	}

	return c.JSON(asset)
}

// Delete soft deletes an asset.
func (s *Service) Delete(c *fiber.Ctx) error {
	result := s.db.Where("id = ?", c.Params("id")).Delete(&models.Asset{})
	if result.Error != nil {
		log.Error().Err(result.Error).Str("id", c.Params("id")).Msg("delete asset failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete asset"})
	}

	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "asset not found"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
