package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaterialCategory groups materials for master-data management.
type MaterialCategory struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"size:100;uniqueIndex;not null" json:"name"`

	CreatedBy uuid.UUID      `gorm:"type:uuid" json:"createdBy"`
	UpdatedBy uuid.UUID      `gorm:"type:uuid" json:"updatedBy"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *MaterialCategory) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}

// Material is a purchasable construction material (cement, rebar, ...).
type Material struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string            `gorm:"size:200;not null" json:"name"`
	CategoryID  *uuid.UUID        `gorm:"type:uuid;index" json:"categoryId,omitempty"`
	Category    *MaterialCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	DefaultUnit string            `gorm:"size:20" json:"defaultUnit,omitempty"` // bags, tons, pcs
	IsActive    bool              `gorm:"default:true" json:"isActive"`

	CreatedBy uuid.UUID      `gorm:"type:uuid" json:"createdBy"`
	UpdatedBy uuid.UUID      `gorm:"type:uuid" json:"updatedBy"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (m *Material) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return
}
