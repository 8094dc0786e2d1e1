package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"novasphere.in/promat/models"
)

// RequirementRepo persists material requirements.
type RequirementRepo struct {
	db *gorm.DB
}

func NewRequirementRepo(db *gorm.DB) *RequirementRepo {
	return &RequirementRepo{db: db}
}

// GetByID loads one requirement with its project, material, supplier
// and creator. Soft-deleted rows are treated as absent.
func (r *RequirementRepo) GetByID(id uuid.UUID) (*models.Requirement, error) {
	var req models.Requirement
	err := r.db.
		Preload("Project").
		Preload("Material").
		Preload("Supplier").
		Preload("Creator").
		First(&req, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *RequirementRepo) Create(req *models.Requirement) error {
	return r.db.Create(req).Error
}

func (r *RequirementRepo) Update(req *models.Requirement) error {
	res := r.db.Model(&models.Requirement{}).
		Where("id = ?", req.ID).
		Select("MaterialID", "SupplierID", "Quantity", "Unit", "Price", "TotalPrice",
			"ArrivedDate", "ActualArrivedDate", "GoodQuantity", "BadQuantity",
			"Status", "IsActive", "UpdatedBy").
		Updates(req)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDelete marks the requirement deleted and stamps the actor.
func (r *RequirementRepo) SoftDelete(id, actorID uuid.UUID) error {
	res := r.db.Model(&models.Requirement{}).
		Where("id = ?", id).
		Update("updated_by", actorID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return r.db.Delete(&models.Requirement{}, "id = ?", id).Error
}

// List returns all non-deleted requirements, newest first, optionally
// filtered by project.
func (r *RequirementRepo) List(projectID *uuid.UUID) ([]models.Requirement, error) {
	q := r.db.
		Preload("Project").
		Preload("Material").
		Preload("Supplier").
		Order("created_at DESC")
	if projectID != nil {
		q = q.Where("project_id = ?", *projectID)
	}
	var reqs []models.Requirement
	if err := q.Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

// FindAtRisk returns active, undelivered requirements whose promised
// arrival falls within [today, today+thresholdDays] inclusive, joined
// with an active creator, soonest arrival first. Requirements created
// by deactivated users are excluded; nobody would act on their alerts.
func (r *RequirementRepo) FindAtRisk(thresholdDays int, today time.Time) ([]models.AtRiskRequirement, error) {
	start := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	end := start.AddDate(0, 0, thresholdDays)

	var rows []models.AtRiskRequirement
	err := r.db.Model(&models.Requirement{}).
		Select(`requirements.id AS requirement_id,
			materials.name AS material_name,
			projects.name AS project_name,
			suppliers.name AS supplier_name,
			requirements.status AS status,
			requirements.quantity AS quantity,
			requirements.unit AS unit,
			requirements.arrived_date AS arrived_date,
			requirements.created_by AS creator_id`).
		Joins("JOIN users ON users.id = requirements.created_by AND users.is_active = ? AND users.deleted_at IS NULL", true).
		Joins("LEFT JOIN materials ON materials.id = requirements.material_id").
		Joins("LEFT JOIN projects ON projects.id = requirements.project_id").
		Joins("LEFT JOIN suppliers ON suppliers.id = requirements.supplier_id").
		Where("requirements.status <> ?", models.StatusDelivered).
		Where("requirements.is_active = ?", true).
		Where("requirements.arrived_date BETWEEN ? AND ?", start, end).
		Order("requirements.arrived_date ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
