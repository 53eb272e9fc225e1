package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/GoEstate-Admin/GoEstate-Admin/internal/uniuri"
)

// Document represents document metadata. The file content itself lives in
// external object storage and is addressed by StorageKey; this service never
// touches the bytes.
type Document struct {
	ID          string `gorm:"primaryKey;size:24" json:"id"`
	CustomerID  string `gorm:"size:24;not null;index" json:"customer_id" validate:"required,len=24,hexadecimal"`
	Title       string `gorm:"size:255;not null" json:"title" validate:"required,max=255"`
	Kind        string `gorm:"size:100" json:"kind" validate:"omitempty,oneof=lease inspection certificate drawing invoice other"`
	StorageKey  string `gorm:"size:500;not null" json:"storage_key" validate:"required"`
	ContentType string `gorm:"size:100" json:"content_type"`
	SizeBytes   int64  `json:"size_bytes" validate:"omitempty,gte=0"`
	// OwnerType and OwnerID name the entity the document is attached to
	// (e.g. "building"/B-id). Opaque, same convention as resource access.
	OwnerType  string `gorm:"size:100;index" json:"owner_type"`
	OwnerID    string `gorm:"size:255;index" json:"owner_id"`
	UploadedBy string `gorm:"size:24" json:"uploaded_by"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns a fresh 24-hex identifier when none was provided.
func (d *Document) BeforeCreate(_ *gorm.DB) error {
	if d.ID == "" {
		d.ID = uniuri.NewEntityID()
	}

	return nil
}
