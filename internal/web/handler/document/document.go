// Package document provides REST handlers for document metadata. The file
// bytes live in external object storage; this API only tracks the records.
package document

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

// Path is the base path for document management.
const Path = handler.APIBasePath + "/documents"

// Service provides CRUD operations for document metadata.
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
		authz.RequireModule(engine, "documents", "view"),
		s.List,
	)
	app.Get(Path+"/:id",
		authz.RequireResource(engine, "document", "view", authz.FromParam("id")),
		s.Get,
	)
	app.Post(Path,
		authz.RequireModule(engine, "documents", "create"),
		s.Create,
	)
	app.Put(Path+"/:id",
		authz.RequireResource(engine, "document", "edit", authz.FromParam("id")),
		s.Update,
	)
	app.Delete(Path+"/:id",
		authz.RequireResource(engine, "document", "delete", authz.FromParam("id")),
		s.Delete,
	)
}

// List returns documents with pagination and optional filters.
func (s *Service) List(c *fiber.Ctx) error {
	page, pageSize := handler.Page(c.QueryInt("page", 1), c.QueryInt("pageSize", handler.DefaultPageSize))

	var (
		documents  []models.Document
		totalCount int64
		tx         = s.db.Model(&models.Document{})
	)

	if customerID := c.Query("customer_id"); customerID != "" {
		tx = tx.Where("customer_id = ?", customerID)
	}

	if kind := c.Query("kind"); kind != "" {
		tx = tx.Where("kind = ?", kind)
	}

	// owner_type/owner_id together address the entity a document hangs off
	if ownerType := c.Query("owner_type"); ownerType != "" {
		tx = tx.Where("owner_type = ?", ownerType)
	}

	if ownerID := c.Query("owner_id"); ownerID != "" {
		tx = tx.Where("owner_id = ?", ownerID)
	}

	if err := tx.Count(&totalCount).Error; err != nil {
		log.Error().Err(err).Msg("count documents failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load documents"})
	}

	offset := (page - 1) * pageSize
	if err := tx.Order("created_at DESC").Limit(pageSize).Offset(offset).Find(&documents).Error; err != nil {
		log.Error().Err(err).Msg("query documents failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load documents"})
	}

	return c.JSON(fiber.Map{
		"items":     documents,
		"total":     totalCount,
		"page":      page,
		"page_size": pageSize,
	})
}

// Get returns a single document by id.
func (s *Service) Get(c *fiber.Ctx) error {
	var document models.Document

	err := s.db.Where("id = ?", c.Params("id")).First(&document).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "document not found"})
	}

	if err != nil {
		log.Error().Err(err).Str("id", c.Params("id")).Msg("query document failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load document"})
	}

	return c.JSON(document)
}

// Create creates a new document record. The uploader is taken from the
// authenticated session, not the request body.
func (s *Service) Create(c *fiber.Ctx) error {
	document := new(models.Document)

	if err := c.BodyParser(document); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	document.ID = "" // server-assigned

	if identifier, ok := c.Locals(authz.LocalsUserIdentifier).(string); ok {
		document.UploadedBy = identifier
	}

	if err := s.validator.Struct(document); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := s.db.Create(document).Error; err != nil {
		log.Error().Err(err).Msg("create document failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create document"})
	}

	return c.Status(fiber.StatusCreated).JSON(document)
}

// Update updates an existing document record.
func (s *Service) Update(c *fiber.Ctx) error {
	var document models.Document

	err := s.db.Where("id = ?", c.Params("id")).First(&document).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "document not found"})
	}

	if err != nil {
		log.Error().Err(err).Str("id", c.Params("id")).Msg("query document failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load document"})
	}

	uploadedBy := document.UploadedBy

	if err = c.BodyParser(&document); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	document.ID = c.Params("id") // id comes from the route, never the body
	document.UploadedBy = uploadedBy

	if err = s.validator.Struct(&document); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err = s.db.Save(&document).Error; err != nil {
		log.Error().Err(err).Msg("update document failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update document"})
	}

	return c.JSON(document)
}

// Delete soft deletes a document record.
func (s *Service) Delete(c *fiber.Ctx) error {
	result := s.db.Where("id = ?", c.Params("id")).Delete(&models.Document{})
	if result.Error != nil {
		log.Error().Err(result.Error).Str("id", c.Params("id")).Msg("delete document failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete document"})
	}

	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "document not found"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
