package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/GoEstate-Admin/GoEstate-Admin/internal/uniuri"
)

// Customer represents a customer organisation, the tenant boundary of the API.
// Every other domain entity is scoped to exactly one customer.
type Customer struct {
	ID           string `gorm:"primaryKey;size:24" json:"id"`
	Name         string `gorm:"size:255;not null" json:"name" validate:"required,max=255"`
	Code         string `gorm:"unique;size:50;not null" json:"code" validate:"required,max=50"`
	ContactName  string `gorm:"size:255" json:"contact_name"`
	ContactEmail string `gorm:"size:255" json:"contact_email" validate:"omitempty,email"`
	ContactPhone string `gorm:"size:50" json:"contact_phone"`
	Active       bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns a fresh 24-hex identifier when none was provided.
func (c *Customer) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uniuri.NewEntityID()
	}

	return nil
}
