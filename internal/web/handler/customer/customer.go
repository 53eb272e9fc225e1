// Package customer provides REST handlers for managing customer
// organisations, the tenant boundary of the API.
package customer

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

// Path is the base path for customer management.
const Path = handler.APIBasePath + "/customers"

// Service provides CRUD operations for customers.
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
		authz.RequireModule(engine, "customers", "view"),
		s.List,
	)
	app.Get(Path+"/:id",
		authz.RequireResource(engine, "customer", "view", authz.FromParam("id")),
		s.Get,
	)
	app.Post(Path,
		authz.RequireModule(engine, "customers", "create"),
		s.Create,
	)
	app.Put(Path+"/:id",
		authz.RequireResource(engine, "customer", "edit", authz.FromParam("id")),
		s.Update,
	)
	app.Delete(Path+"/:id",
		authz.RequireResource(engine, "customer", "delete", authz.FromParam("id")),
		s.Delete,
	)
}

// List returns customers with pagination and optional filters.
func (s *Service) List(c *fiber.Ctx) error {
	page, pageSize := handler.Page(c.QueryInt("page", 1), c.QueryInt("pageSize", handler.DefaultPageSize))

	var (
		customers  []models.Customer
		totalCount int64
		tx         = s.db.Model(&models.Customer{})
	)

	if active := c.Query("active"); active != "" {
		tx = tx.Where("active = ?", active == "true")
	}

	if search := c.Query("search"); search != "" {
		tx = tx.Where("name LIKE ? OR code LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := tx.Count(&totalCount).Error; err != nil {
		log.Error().Err(err).Msg("count customers failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load customers"})
	}

	offset := (page - 1) * pageSize
	if err := tx.Order("name ASC").Limit(pageSize).Offset(offset).Find(&customers).Error; err != nil {
		log.Error().Err(err).Msg("query customers failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load customers"})
	}

	return c.JSON(fiber.Map{
		"items":     customers,
		"total":     totalCount,
		"page":      page,
		"page_size": pageSize,
	})
}

// Get returns a single customer by id.
func (s *Service) Get(c *fiber.Ctx) error {
	var customer models.Customer

	err := s.db.Where("id = ?", c.Params("id")).First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "customer not found"})
	}

	if err != nil {
		log.Error().Err(err).Str("id", c.Params("id")).Msg("query customer failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load customer"})
	}

	return c.JSON(customer)
}

// Create creates a new customer.
func (s *Service) Create(c *fiber.Ctx) error {
	customer := new(models.Customer)

	if err := c.BodyParser(customer); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	customer.ID = "" // server-assigned
	customer.Active = true

	if err := s.validator.Struct(customer); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := s.db.Create(customer).Error; err != nil {
		log.Error().Err(err).Msg("create customer failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create customer"})
	}

	return c.Status(fiber.StatusCreated).JSON(customer)
}

// Update updates an existing customer.
func (s *Service) Update(c *fiber.Ctx) error {
	var customer models.Customer

	err := s.db.Where("id = ?", c.Params("id")).First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "customer not found"})
	}

	if err != nil {
		log.Error().Err(err).Str("id", c.Params("id")).Msg("query customer failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load customer"})
	}

	if err = c.BodyParser(&customer); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	customer.ID = c.Params("id") // id comes from the route, never the body

	if err = s.validator.Struct(&customer); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err = s.db.Save(&customer).Error; err != nil {
		log.Error().Err(err).Msg("update customer failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update customer"})
	}

	return c.JSON(customer)
}

// Delete soft deletes a customer.
func (s *Service) Delete(c *fiber.Ctx) error {
	result := s.db.Where("id = ?", c.Params("id")).Delete(&models.Customer{})
	if result.Error != nil {
		log.Error().Err(result.Error).Str("id", c.Params("id")).Msg("delete customer failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete customer"})
	}

	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "customer not found"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
