package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AlertTypePreDelayWarning marks alerts raised before the promised
// arrival date has passed.
const AlertTypePreDelayWarning = "pre_delay_warning"

// AlertLog is a dedup fact: one row per (requirement, recipient,
// calendar day) proving an alert was sent. Rows are only created after
// a notification was written successfully, never updated, and retained
// indefinitely. The composite unique index is what makes the
// check-then-insert in the scheduler safe against races.
type AlertLog struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	RequirementID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:uniq_alert_per_day" json:"requirementId"`
	UserID        uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:uniq_alert_per_day" json:"userId"`
	AlertType     string         `gorm:"size:50;not null" json:"alertType"`
	AlertDate     datatypes.Date `gorm:"not null;uniqueIndex:uniq_alert_per_day" json:"alertDate"`

	CreatedAt time.Time `json:"createdAt"`
}

func (AlertLog) TableName() string {
	return "alert_logs"
}

func (a *AlertLog) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}
