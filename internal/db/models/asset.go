package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/GoEstate-Admin/GoEstate-Admin/internal/uniuri"
)

// Asset represents a piece of equipment installed in a building, such as an
// HVAC unit, elevator or fire panel.
type Asset struct {
	ID           string     `gorm:"primaryKey;size:24" json:"id"`
	CustomerID   string     `gorm:"size:24;not null;index" json:"customer_id" validate:"required,len=24,hexadecimal"`
	BuildingID   string     `gorm:"size:24;not null;index" json:"building_id" validate:"required,len=24,hexadecimal"`
	FloorID      string     `gorm:"size:24;index" json:"floor_id" validate:"omitempty,len=24,hexadecimal"`
	VendorID     string     `gorm:"size:24;index" json:"vendor_id" validate:"omitempty,len=24,hexadecimal"`
	Tag          string     `gorm:"size:100;not null" json:"tag" validate:"required,max=100"`
	Category     string     `gorm:"size:100" json:"category"`
	Manufacturer string     `gorm:"size:255" json:"manufacturer"`
	Model        string     `gorm:"size:255" json:"model"`
	SerialNumber string     `gorm:"size:255" json:"serial_number"`
	Condition    string     `gorm:"size:50" json:"condition" validate:"omitempty,oneof=excellent good fair poor"`
	InstalledAt  *time.Time `json:"installed_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns a fresh 24-hex identifier when none was provided.
func (a *Asset) BeforeCreate(_ *gorm.DB) error {
	if a.ID == "" {
		a.ID = uniuri.NewEntityID()
	}

	return nil
}
