package handlers

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"novasphere.in/promat/config"
	"novasphere.in/promat/models"
	"novasphere.in/promat/repository"
)

// RequirementStore is the persistence the lifecycle manager needs.
type RequirementStore interface {
	GetByID(id uuid.UUID) (*models.Requirement, error)
	Create(req *models.Requirement) error
	Update(req *models.Requirement) error
	SoftDelete(id, actorID uuid.UUID) error
}

// RatingStore persists per-requirement supplier ratings.
type RatingStore interface {
	GetByRequirementID(requirementID uuid.UUID) (*models.SupplierRating, error)
	Create(rating *models.SupplierRating) error
	Update(id, supplierID uuid.UUID, score float64, actorID uuid.UUID) error
	SoftDeleteByRequirementID(requirementID, actorID uuid.UUID) error
	AverageForSupplier(supplierID uuid.UUID) (*float64, error)
}

// SupplierStore receives the recomputed aggregate rating.
type SupplierStore interface {
	SetRating(supplierID uuid.UUID, rating *float64) error
}

// LifecycleNotifier fans a lifecycle event out to the interested roles.
// Implementations must never fail the triggering operation.
type LifecycleNotifier interface {
	NotifyModuleAction(action string, module models.ModuleKind, itemName string, actorID uuid.UUID, actorName string)
}

// RequirementService governs the requirement status lifecycle, the
// delivery reconciliation rules, and the supplier rating side effects.
type RequirementService struct {
	requirements RequirementStore
	ratings      RatingStore
	suppliers    SupplierStore
	notifier     LifecycleNotifier
}

// NewRequirementService wires the service against the live database.
func NewRequirementService() *RequirementService {
	return &RequirementService{
		requirements: repository.NewRequirementRepo(config.DB),
		ratings:      repository.NewRatingRepo(config.DB),
		suppliers:    repository.NewSupplierRepo(config.DB),
		notifier:     NewNotificationService(),
	}
}

const dateLayout = "2006-01-02"

// RequirementInput carries the client-submitted fields for create and
// transition. Dates travel as YYYY-MM-DD strings.
type RequirementInput struct {
	ProjectID  uuid.UUID `json:"projectId"`
	MaterialID uuid.UUID `json:"materialId"`
	SupplierID uuid.UUID `json:"supplierId"`
	Quantity   int       `json:"quantity"`
	Unit       string    `json:"unit"`
	Price      float64   `json:"price"`

	ArrivedDate string `json:"arrivedDate"`

	// Transition-only fields. Rating is the supplier score recorded on
	// delivery, not the aggregate.
	Status            models.RequirementStatus `json:"status,omitempty"`
	ActualArrivedDate string                   `json:"actualArrivedDate,omitempty"`
	GoodQuantity      *int                     `json:"goodQuantity,omitempty"`
	BadQuantity       *int                     `json:"badQuantity,omitempty"`
	Rating            *float64                 `json:"rating,omitempty"`
}

func (in *RequirementInput) validateRequired(requireProject bool) error {
	var missing []string
	if requireProject && in.ProjectID == uuid.Nil {
		missing = append(missing, "project_id")
	}
	if in.MaterialID == uuid.Nil {
		missing = append(missing, "material_id")
	}
	if in.SupplierID == uuid.Nil {
		missing = append(missing, "supplier_id")
	}
	if in.Quantity == 0 {
		missing = append(missing, "quantity")
	}
	if in.Price == 0 {
		missing = append(missing, "price")
	}
	if in.ArrivedDate == "" {
		missing = append(missing, "arrived_date")
	}
	if len(missing) > 0 {
		return validationErrorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	if in.Quantity < 0 || in.Price < 0 {
		return validationErrorf("quantity and price must be positive")
	}
	return nil
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, validationErrorf("invalid %s: %q is not a YYYY-MM-DD date", field, value)
	}
	return t, nil
}

// Create validates and persists a new requirement. The initial status
// is always Pending regardless of what the client sent.
func (s *RequirementService) Create(in RequirementInput, actorID uuid.UUID, actorName string) (*models.Requirement, error) {
	if err := in.validateRequired(true); err != nil {
		return nil, err
	}
	arrived, err := parseDate("arrived_date", in.ArrivedDate)
	if err != nil {
		return nil, err
	}

	req := &models.Requirement{
		ProjectID:   in.ProjectID,
		MaterialID:  in.MaterialID,
		SupplierID:  in.SupplierID,
		Quantity:    in.Quantity,
		Unit:        in.Unit,
		Price:       in.Price,
		TotalPrice:  in.Price * float64(in.Quantity),
		ArrivedDate: arrived,
		Status:      models.StatusPending,
		IsActive:    true,
		CreatedBy:   actorID,
		UpdatedBy:   actorID,
	}
	if err := s.requirements.Create(req); err != nil {
		return nil, err
	}

	created, err := s.requirements.GetByID(req.ID)
	if err != nil {
		return nil, err
	}
	s.notifier.NotifyModuleAction("created", models.ModuleRequirement, materialLabel(created), actorID, actorName)
	return created, nil
}

// Transition re-validates the requirement, applies the status change,
// and runs the delivery side effects: entering Delivered upserts the
// supplier rating for this requirement, leaving Delivered removes it,
// and either way the supplier's aggregate rating is recomputed before
// the call returns so callers observe a consistent supplier row.
//
// Every state may move to every other state; only entry into Delivered
// carries extra field requirements. Concurrent transitions on the same
// requirement are not mutually excluded: last write wins, and the
// aggregate recompute reads whatever rating rows exist at that moment.
// A race between two deliveries for one supplier can transiently skip a
// contributor in the average and self-heals on the next recompute.
func (s *RequirementService) Transition(id uuid.UUID, in RequirementInput, actorID uuid.UUID, actorName string) (*models.Requirement, error) {
	existing, err := s.requirements.GetByID(id)
	if err != nil {
		return nil, err
	}

	if err := in.validateRequired(false); err != nil {
		return nil, err
	}
	arrived, err := parseDate("arrived_date", in.ArrivedDate)
	if err != nil {
		return nil, err
	}
	if !models.ValidRequirementStatus(in.Status) {
		return nil, validationErrorf("unknown status: %q", in.Status)
	}

	var actualArrived *time.Time
	var good, bad *int
	if in.Status == models.StatusDelivered {
		if in.ActualArrivedDate == "" || in.GoodQuantity == nil || in.BadQuantity == nil {
			return nil, validationErrorf("For Delivered status: Actual Date, Good Qty, and Bad Qty are required")
		}
		if in.Rating == nil || !models.ValidRatingScore(*in.Rating) {
			return nil, validationErrorf("For Delivered status: a supplier rating on the 1-5 scale is required")
		}
		actual, err := parseDate("actual_arrived_date", in.ActualArrivedDate)
		if err != nil {
			return nil, err
		}
		if *in.GoodQuantity+*in.BadQuantity != in.Quantity {
			return nil, validationErrorf("Total quantity (%d) must match Good (%d) + Bad (%d)",
				in.Quantity, *in.GoodQuantity, *in.BadQuantity)
		}
		actualArrived, good, bad = &actual, in.GoodQuantity, in.BadQuantity
	}

	updated := *existing
	updated.MaterialID = in.MaterialID
	updated.SupplierID = in.SupplierID
	updated.Quantity = in.Quantity
	updated.Unit = in.Unit
	updated.Price = in.Price
	updated.TotalPrice = in.Price * float64(in.Quantity)
	updated.ArrivedDate = arrived
	updated.ActualArrivedDate = actualArrived
	updated.GoodQuantity = good
	updated.BadQuantity = bad
	updated.Status = in.Status
	updated.UpdatedBy = actorID

	if err := s.requirements.Update(&updated); err != nil {
		return nil, err
	}

	wasDelivered := existing.Status == models.StatusDelivered
	isDelivered := in.Status == models.StatusDelivered
	switch {
	case isDelivered:
		if err := s.upsertRating(&updated, *in.Rating, actorID); err != nil {
			return nil, err
		}
		if err := s.RecomputeSupplierRating(updated.SupplierID); err != nil {
			return nil, err
		}
		// A re-delivery may also change the supplier; the rating moved
		// with it, so the previous supplier loses a contributor.
		if existing.SupplierID != updated.SupplierID {
			if err := s.RecomputeSupplierRating(existing.SupplierID); err != nil {
				return nil, err
			}
		}
	case wasDelivered:
		if err := s.ratings.SoftDeleteByRequirementID(id, actorID); err != nil {
			return nil, err
		}
		if err := s.RecomputeSupplierRating(existing.SupplierID); err != nil {
			return nil, err
		}
	}

	result, err := s.requirements.GetByID(id)
	if err != nil {
		return nil, err
	}
	s.notifier.NotifyModuleAction("updated", models.ModuleRequirement, materialLabel(result), actorID, actorName)
	return result, nil
}

// Delete soft-deletes the requirement. A rating produced by an earlier
// delivery is intentionally left in place, so the supplier aggregate is
// unchanged; only a transition away from Delivered removes a rating.
func (s *RequirementService) Delete(id, actorID uuid.UUID, actorName string) error {
	existing, err := s.requirements.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.requirements.SoftDelete(id, actorID); err != nil {
		return err
	}
	s.notifier.NotifyModuleAction("deleted", models.ModuleRequirement, materialLabel(existing), actorID, actorName)
	return nil
}

// upsertRating keeps the find-existing-else-create branch explicit so
// the create/update distinction stays visible.
func (s *RequirementService) upsertRating(req *models.Requirement, score float64, actorID uuid.UUID) error {
	existing, err := s.ratings.GetByRequirementID(req.ID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return s.ratings.Create(&models.SupplierRating{
			SupplierID:    req.SupplierID,
			RequirementID: req.ID,
			Score:         score,
			CreatedBy:     actorID,
			UpdatedBy:     actorID,
		})
	case err != nil:
		return err
	default:
		if existing.Score == score && existing.SupplierID == req.SupplierID {
			return nil
		}
		return s.ratings.Update(existing.ID, req.SupplierID, score, actorID)
	}
}

// RecomputeSupplierRating rewrites the supplier's aggregate rating as
// the mean of its non-deleted ratings rounded to one decimal, or clears
// it when no ratings remain. Always synchronous, never a background job.
func (s *RequirementService) RecomputeSupplierRating(supplierID uuid.UUID) error {
	avg, err := s.ratings.AverageForSupplier(supplierID)
	if err != nil {
		return fmt.Errorf("average rating for supplier %s: %w", supplierID, err)
	}
	if avg == nil {
		return s.suppliers.SetRating(supplierID, nil)
	}
	rounded := math.Round(*avg*10) / 10
	return s.suppliers.SetRating(supplierID, &rounded)
}

func materialLabel(req *models.Requirement) string {
	if req.Material != nil && req.Material.Name != "" {
		return req.Material.Name
	}
	return req.ID.String()
}
