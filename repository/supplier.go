package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"novasphere.in/promat/models"
)

// SupplierRepo persists suppliers and the aggregate rating column.
type SupplierRepo struct {
	db *gorm.DB
}

func NewSupplierRepo(db *gorm.DB) *SupplierRepo {
	return &SupplierRepo{db: db}
}

func (r *SupplierRepo) GetByID(id uuid.UUID) (*models.Supplier, error) {
	var s models.Supplier
	err := r.db.First(&s, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// SetRating writes the recomputed aggregate rating. nil clears it.
func (r *SupplierRepo) SetRating(supplierID uuid.UUID, rating *float64) error {
	res := r.db.Model(&models.Supplier{}).
		Where("id = ?", supplierID).
		Update("rating", rating)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
