package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Supplier is a material vendor. Rating is the aggregate view over all
// non-deleted SupplierRating rows: the arithmetic mean rounded to one
// decimal, nil when the supplier has no ratings yet. It is owned by the
// rating aggregator and never written directly by master-data CRUD.
type Supplier struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name     string    `gorm:"size:200;not null" json:"name"`
	Email    string    `gorm:"size:100" json:"email,omitempty"`
	Phone    string    `gorm:"size:20" json:"phone,omitempty"`
	Address  string    `gorm:"size:255" json:"address,omitempty"`
	Rating   *float64  `gorm:"type:decimal(2,1)" json:"rating,omitempty"`
	IsActive bool      `gorm:"default:true" json:"isActive"`

	CreatedBy uuid.UUID      `gorm:"type:uuid" json:"createdBy"`
	UpdatedBy uuid.UUID      `gorm:"type:uuid" json:"updatedBy"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (s *Supplier) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
