package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"novasphere.in/promat/models"
)

// UserRepo answers the user lookups the fan-out needs.
type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) GetByID(id uuid.UUID) (*models.User, error) {
	var u models.User
	err := r.db.First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ListActiveByRole returns all active users holding the given role.
func (r *UserRepo) ListActiveByRole(role string) ([]models.User, error) {
	var users []models.User
	err := r.db.
		Where("role = ? AND is_active = ?", role, true).
		Order("created_at ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
