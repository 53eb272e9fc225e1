package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/GoEstate-Admin/GoEstate-Admin/internal/uniuri"
)

// Site represents a physical location belonging to a customer, grouping one
// or more buildings.
type Site struct {
	ID         string  `gorm:"primaryKey;size:24" json:"id"`
	CustomerID string  `gorm:"size:24;not null;index" json:"customer_id" validate:"required,len=24,hexadecimal"`
	Name       string  `gorm:"size:255;not null" json:"name" validate:"required,max=255"`
	Address    string  `gorm:"size:255" json:"address"`
	City       string  `gorm:"size:100" json:"city"`
	State      string  `gorm:"size:100" json:"state"`
	PostalCode string  `gorm:"size:20" json:"postal_code"`
	Country    string  `gorm:"size:100" json:"country"`
	Latitude   float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude  float64 `json:"longitude" validate:"omitempty,longitude"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns a fresh 24-hex identifier when none was provided.
func (s *Site) BeforeCreate(_ *gorm.DB) error {
	if s.ID == "" {
		s.ID = uniuri.NewEntityID()
	}

	return nil
}
