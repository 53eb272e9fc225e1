package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/GoEstate-Admin/GoEstate-Admin/internal/uniuri"
)

// Building represents a building on a site.
type Building struct {
	ID         string  `gorm:"primaryKey;size:24" json:"id"`
	CustomerID string  `gorm:"size:24;not null;index" json:"customer_id" validate:"required,len=24,hexadecimal"`
	SiteID     string  `gorm:"size:24;not null;index" json:"site_id" validate:"required,len=24,hexadecimal"`
	Name       string  `gorm:"size:255;not null" json:"name" validate:"required,max=255"`
	FloorCount int     `json:"floor_count" validate:"omitempty,gte=0"`
	YearBuilt  int     `json:"year_built" validate:"omitempty,gte=1800"`
	AreaSqm    float64 `json:"area_sqm" validate:"omitempty,gte=0"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns a fresh 24-hex identifier when none was provided.
func (b *Building) BeforeCreate(_ *gorm.DB) error {
	if b.ID == "" {
		b.ID = uniuri.NewEntityID()
	}

	return nil
}
