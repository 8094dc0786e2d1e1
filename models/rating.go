package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RatingScores is the fixed 5-point scale a delivered requirement may
// score its supplier with. Whole steps only, no halves.
var RatingScores = []float64{1, 2, 3, 4, 5}

// ValidRatingScore reports whether score is on the fixed 5-point scale.
func ValidRatingScore(score float64) bool {
	for _, s := range RatingScores {
		if score == s {
			return true
		}
	}
	return false
}

// SupplierRating is a performance score a supplier earned for one
// delivered requirement. At most one non-deleted row exists per
// requirement (partial unique index, see migrations); the row is
// created when a requirement enters Delivered and soft-deleted when it
// leaves Delivered.
type SupplierRating struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SupplierID    uuid.UUID `gorm:"type:uuid;not null;index" json:"supplierId"`
	RequirementID uuid.UUID `gorm:"type:uuid;not null;index" json:"requirementId"`
	Score         float64   `gorm:"type:decimal(2,1);not null;column:rating" json:"rating"`

	CreatedBy uuid.UUID      `gorm:"type:uuid" json:"createdBy"`
	UpdatedBy uuid.UUID      `gorm:"type:uuid" json:"updatedBy"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (SupplierRating) TableName() string {
	return "supplier_ratings"
}

func (sr *SupplierRating) BeforeCreate(tx *gorm.DB) (err error) {
	if sr.ID == uuid.Nil {
		sr.ID = uuid.New()
	}
	return
}
