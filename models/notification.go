package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationType grades a notification. CRUD fan-out uses
// info/success/warning; the delay-risk scheduler uses the three alert
// tiers warning/urgent/critical.
type NotificationType string

const (
	NotificationTypeInfo     NotificationType = "info"
	NotificationTypeSuccess  NotificationType = "success"
	NotificationTypeWarning  NotificationType = "warning"
	NotificationTypeUrgent   NotificationType = "urgent"
	NotificationTypeCritical NotificationType = "critical"
	NotificationTypeError    NotificationType = "error"
)

// Notification is an immutable message addressed to one user. Only the
// recipient mutates it, and only via mark-read or delete.
type Notification struct {
	ID       uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   uuid.UUID        `gorm:"type:uuid;not null;index" json:"userId"`
	Title    string           `gorm:"size:255;not null" json:"title"`
	Message  string           `gorm:"type:text;not null" json:"message"`
	Type     NotificationType `gorm:"size:50;not null" json:"type"`
	ModuleID *int             `json:"moduleId,omitempty"`
	IsRead   bool             `gorm:"default:false;index" json:"isRead"`
	ReadAt   *time.Time       `json:"readAt,omitempty"`
	IsActive bool             `gorm:"default:true" json:"isActive"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return
}

// MarkAsRead flips the read flag and stamps the read time.
func (n *Notification) MarkAsRead() {
	now := time.Now()
	n.IsRead = true
	n.ReadAt = &now
}
