package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"novasphere.in/promat/models"
)

// NotificationRepo persists per-user notifications.
type NotificationRepo struct {
	db *gorm.DB
}

func NewNotificationRepo(db *gorm.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

func (r *NotificationRepo) Create(n *models.Notification) error {
	return r.db.Create(n).Error
}

// ListForUser returns the user's non-deleted notifications, newest
// first. unreadOnly narrows to unread rows.
func (r *NotificationRepo) ListForUser(userID uuid.UUID, unreadOnly bool) ([]models.Notification, error) {
	q := r.db.Where("user_id = ?", userID).Order("created_at DESC")
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	var notifications []models.Notification
	if err := q.Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *NotificationRepo) UnreadCount(userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkRead stamps one notification read. Scoped to the recipient so one
// user cannot touch another's rows.
func (r *NotificationRepo) MarkRead(id, userID uuid.UUID) error {
	var n models.Notification
	err := r.db.First(&n, "id = ? AND user_id = ?", id, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	n.MarkAsRead()
	return r.db.Save(&n).Error
}

func (r *NotificationRepo) MarkAllRead(userID uuid.UUID) (int64, error) {
	res := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": gorm.Expr("CURRENT_TIMESTAMP")})
	return res.RowsAffected, res.Error
}

// SoftDelete hides a notification from the recipient's list.
func (r *NotificationRepo) SoftDelete(id, userID uuid.UUID) error {
	res := r.db.Delete(&models.Notification{}, "id = ? AND user_id = ?", id, userID)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
