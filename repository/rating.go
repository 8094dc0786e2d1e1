package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"novasphere.in/promat/models"
)

// RatingRepo persists per-requirement supplier ratings.
type RatingRepo struct {
	db *gorm.DB
}

func NewRatingRepo(db *gorm.DB) *RatingRepo {
	return &RatingRepo{db: db}
}

// GetByRequirementID returns the non-deleted rating for a requirement,
// or ErrNotFound. The partial unique index guarantees at most one.
func (r *RatingRepo) GetByRequirementID(requirementID uuid.UUID) (*models.SupplierRating, error) {
	var rating models.SupplierRating
	err := r.db.First(&rating, "requirement_id = ?", requirementID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *RatingRepo) Create(rating *models.SupplierRating) error {
	return r.db.Create(rating).Error
}

// Update rewrites an existing rating in place. The supplier reference
// is included because a re-delivery can reassign the requirement to a
// different supplier; the rating follows the requirement.
func (r *RatingRepo) Update(id, supplierID uuid.UUID, score float64, actorID uuid.UUID) error {
	res := r.db.Model(&models.SupplierRating{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"supplier_id": supplierID, "rating": score, "updated_by": actorID})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDeleteByRequirementID removes the rating a requirement produced.
// Missing rating is not an error: transitions away from Delivered must
// be idempotent with respect to the rating row.
func (r *RatingRepo) SoftDeleteByRequirementID(requirementID, actorID uuid.UUID) error {
	if err := r.db.Model(&models.SupplierRating{}).
		Where("requirement_id = ?", requirementID).
		Update("updated_by", actorID).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.SupplierRating{}, "requirement_id = ?", requirementID).Error
}

// AverageForSupplier returns the mean score over the supplier's
// non-deleted ratings, or nil when none exist. Rounding is the
// aggregator's concern, not the store's.
func (r *RatingRepo) AverageForSupplier(supplierID uuid.UUID) (*float64, error) {
	var avg *float64
	err := r.db.Model(&models.SupplierRating{}).
		Where("supplier_id = ?", supplierID).
		Select("AVG(rating)").
		Scan(&avg).Error
	if err != nil {
		return nil, err
	}
	return avg, nil
}

// ListBySupplier returns the supplier's non-deleted ratings, newest first.
func (r *RatingRepo) ListBySupplier(supplierID uuid.UUID) ([]models.SupplierRating, error) {
	var ratings []models.SupplierRating
	err := r.db.
		Where("supplier_id = ?", supplierID).
		Order("created_at DESC").
		Find(&ratings).Error
	if err != nil {
		return nil, err
	}
	return ratings, nil
}
