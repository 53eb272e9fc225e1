package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/GoEstate-Admin/GoEstate-Admin/internal/uniuri"
)

// Floor represents a floor within a building.
type Floor struct {
	ID         string  `gorm:"primaryKey;size:24" json:"id"`
	CustomerID string  `gorm:"size:24;not null;index" json:"customer_id" validate:"required,len=24,hexadecimal"`
	BuildingID string  `gorm:"size:24;not null;index" json:"building_id" validate:"required,len=24,hexadecimal"`
	Level      int     `json:"level"`
	Name       string  `gorm:"size:255" json:"name"`
	AreaSqm    float64 `json:"area_sqm" validate:"omitempty,gte=0"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns a fresh 24-hex identifier when none was provided.
func (f *Floor) BeforeCreate(_ *gorm.DB) error {
	if f.ID == "" {
		f.ID = uniuri.NewEntityID()
	}

	return nil
}
