package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/GoEstate-Admin/GoEstate-Admin/internal/uniuri"
)

// TenantCompany represents a company occupying space in a building under a
// lease. Not to be confused with the customer organisation owning the data.
type TenantCompany struct {
	ID           string     `gorm:"primaryKey;size:24" json:"id"`
	CustomerID   string     `gorm:"size:24;not null;index" json:"customer_id" validate:"required,len=24,hexadecimal"`
	BuildingID   string     `gorm:"size:24;index" json:"building_id" validate:"omitempty,len=24,hexadecimal"`
	Name         string     `gorm:"size:255;not null" json:"name" validate:"required,max=255"`
	Industry     string     `gorm:"size:100" json:"industry"`
	ContactName  string     `gorm:"size:255" json:"contact_name"`
	ContactEmail string     `gorm:"size:255" json:"contact_email" validate:"omitempty,email"`
	LeaseStart   *time.Time `json:"lease_start"`
	LeaseEnd     *time.Time `json:"lease_end"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the database table name for the TenantCompany model.
func (TenantCompany) TableName() string {
	return "tenant_companies"
}

// BeforeCreate assigns a fresh 24-hex identifier when none was provided.
func (t *TenantCompany) BeforeCreate(_ *gorm.DB) error {
	if t.ID == "" {
		t.ID = uniuri.NewEntityID()
	}

	return nil
}
