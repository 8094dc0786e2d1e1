package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequirementStatus is the lifecycle state of a material requirement.
type RequirementStatus string

const (
	StatusPending   RequirementStatus = "Pending"
	StatusApproved  RequirementStatus = "Approved"
	StatusOrdered   RequirementStatus = "Ordered"
	StatusDelivered RequirementStatus = "Delivered"
	StatusRejected  RequirementStatus = "Rejected"
)

// ValidRequirementStatus reports whether s is one of the five known states.
func ValidRequirementStatus(s RequirementStatus) bool {
	switch s {
	case StatusPending, StatusApproved, StatusOrdered, StatusDelivered, StatusRejected:
		return true
	}
	return false
}

// Requirement is one line-item of material ordered from one supplier for
// one project.
//
// Invariants maintained by the lifecycle manager:
//   - GoodQuantity + BadQuantity == Quantity whenever Status is Delivered
//   - ActualArrivedDate is non-nil iff Status is Delivered
//   - exactly one non-deleted SupplierRating exists iff Status is Delivered
type Requirement struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID  uuid.UUID `gorm:"type:uuid;not null;index" json:"projectId"`
	Project    *Project  `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	MaterialID uuid.UUID `gorm:"type:uuid;not null;index" json:"materialId"`
	Material   *Material `gorm:"foreignKey:MaterialID" json:"material,omitempty"`
	SupplierID uuid.UUID `gorm:"type:uuid;not null;index" json:"supplierId"`
	Supplier   *Supplier `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`

	Quantity   int     `gorm:"not null" json:"quantity"`
	Unit       string  `gorm:"size:20" json:"unit,omitempty"`
	Price      float64 `gorm:"not null" json:"price"`
	TotalPrice float64 `gorm:"not null" json:"totalPrice"` // Price * Quantity

	// ArrivedDate is the promised arrival date agreed with the supplier.
	// ActualArrivedDate and the good/bad split are recorded on delivery.
	ArrivedDate       time.Time  `gorm:"type:date;not null" json:"arrivedDate"`
	ActualArrivedDate *time.Time `gorm:"type:date" json:"actualArrivedDate,omitempty"`
	GoodQuantity      *int       `json:"goodQuantity,omitempty"`
	BadQuantity       *int       `json:"badQuantity,omitempty"`

	Status   RequirementStatus `gorm:"size:20;not null;default:'Pending';index" json:"status"`
	IsActive bool              `gorm:"default:true;index" json:"isActive"`

	CreatedBy uuid.UUID      `gorm:"type:uuid;index" json:"createdBy"`
	Creator   *User          `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	UpdatedBy uuid.UUID      `gorm:"type:uuid" json:"updatedBy"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (r *Requirement) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}

// AtRiskRequirement is the denormalized row returned by the delay risk
// query: a requirement whose promised arrival falls within the alert
// window while its status is not Delivered, joined with the names the
// alert message needs and the active creator it is addressed to.
type AtRiskRequirement struct {
	RequirementID uuid.UUID         `json:"requirementId"`
	MaterialName  string            `json:"materialName"`
	ProjectName   string            `json:"projectName"`
	SupplierName  string            `json:"supplierName"`
	Status        RequirementStatus `json:"status"`
	Quantity      int               `json:"quantity"`
	Unit          string            `json:"unit"`
	ArrivedDate   time.Time         `json:"arrivedDate"`
	CreatorID     uuid.UUID         `json:"creatorId"`
}
