package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/GoEstate-Admin/GoEstate-Admin/internal/uniuri"
)

// Vendor represents an external service provider (maintenance, cleaning,
// inspections) working on a customer's portfolio.
type Vendor struct {
	ID              string     `gorm:"primaryKey;size:24" json:"id"`
	CustomerID      string     `gorm:"size:24;not null;index" json:"customer_id" validate:"required,len=24,hexadecimal"`
	Name            string     `gorm:"size:255;not null" json:"name" validate:"required,max=255"`
	Services        string     `gorm:"size:500" json:"services"`
	ContactName     string     `gorm:"size:255" json:"contact_name"`
	ContactEmail    string     `gorm:"size:255" json:"contact_email" validate:"omitempty,email"`
	ContactPhone    string     `gorm:"size:50" json:"contact_phone"`
	InsuranceExpiry *time.Time `json:"insurance_expiry"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns a fresh 24-hex identifier when none was provided.
func (v *Vendor) BeforeCreate(_ *gorm.DB) error {
	if v.ID == "" {
		v.ID = uniuri.NewEntityID()
	}

	return nil
}
