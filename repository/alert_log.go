package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"novasphere.in/promat/models"
)

// AlertLogRepo persists the dedup marks for delay-risk alerts.
type AlertLogRepo struct {
	db *gorm.DB
}

func NewAlertLogRepo(db *gorm.DB) *AlertLogRepo {
	return &AlertLogRepo{db: db}
}

// WasSentToday reports whether an alert for (requirement, user) was
// already logged on the given calendar day.
func (r *AlertLogRepo) WasSentToday(requirementID, userID uuid.UUID, day time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&models.AlertLog{}).
		Where("requirement_id = ? AND user_id = ? AND alert_date = ?",
			requirementID, userID, datatypes.Date(day)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a dedup mark. A duplicate-key failure means a
// concurrent writer got there first on the same day and is reported as
// ErrDuplicateAlert so callers can skip instead of failing.
func (r *AlertLogRepo) Create(log *models.AlertLog) error {
	err := r.db.Create(log).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateAlert
	}
	return err
}
