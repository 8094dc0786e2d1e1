package masters

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"novasphere.in/promat/config"
	"novasphere.in/promat/handlers"
	"novasphere.in/promat/models"
)

// SupplierHandler manages the supplier master. The supplier's aggregate
// rating is never writable here; only delivery transitions move it.
type SupplierHandler struct {
	notifier *handlers.NotificationService
}

func NewSupplierHandler() *SupplierHandler {
	return &SupplierHandler{notifier: handlers.NewNotificationService()}
}

type supplierInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// GET /api/v1/masters/suppliers
func (h *SupplierHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	var suppliers []models.Supplier
	if err := config.DB.Where("is_active = ?", true).Order("name ASC").Find(&suppliers).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": suppliers, "count": len(suppliers)})
}

// GET /api/v1/masters/suppliers/{id}
func (h *SupplierHandler) GetOne(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid supplier ID", http.StatusBadRequest)
		return
	}
	var supplier models.Supplier
	if err := config.DB.First(&supplier, "id = ?", id).Error; err != nil {
		http.Error(w, "supplier not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, supplier)
}

// POST /api/v1/masters/suppliers
func (h *SupplierHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, actorName, ok := actor(w, r)
	if !ok {
		return
	}
	var in supplierInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if in.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	supplier := models.Supplier{
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Address:   in.Address,
		IsActive:  true,
		CreatedBy: actorID,
		UpdatedBy: actorID,
	}
	if err := config.DB.Create(&supplier).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.notifier.NotifyModuleAction("created", models.ModuleSupplier, supplier.Name, actorID, actorName)
	writeJSON(w, http.StatusCreated, supplier)
}

// PUT /api/v1/masters/suppliers/{id}
func (h *SupplierHandler) Update(w http.ResponseWriter, r *http.Request) {
	actorID, actorName, ok := actor(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid supplier ID", http.StatusBadRequest)
		return
	}
	var in supplierInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if in.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	res := config.DB.Model(&models.Supplier{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"name":       in.Name,
			"email":      in.Email,
			"phone":      in.Phone,
			"address":    in.Address,
			"updated_by": actorID,
		})
	if res.Error != nil {
		http.Error(w, "db error: "+res.Error.Error(), http.StatusInternalServerError)
		return
	}
	if res.RowsAffected == 0 {
		http.Error(w, "supplier not found", http.StatusNotFound)
		return
	}

	var supplier models.Supplier
	if err := config.DB.First(&supplier, "id = ?", id).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.notifier.NotifyModuleAction("updated", models.ModuleSupplier, supplier.Name, actorID, actorName)
	writeJSON(w, http.StatusOK, supplier)
}

// DELETE /api/v1/masters/suppliers/{id}
func (h *SupplierHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actorID, actorName, ok := actor(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid supplier ID", http.StatusBadRequest)
		return
	}

	var supplier models.Supplier
	if err := config.DB.First(&supplier, "id = ?", id).Error; err != nil {
		http.Error(w, "supplier not found", http.StatusNotFound)
		return
	}
	if err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&supplier).Update("updated_by", actorID).Error; err != nil {
			return err
		}
		return tx.Delete(&supplier).Error
	}); err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.notifier.NotifyModuleAction("deleted", models.ModuleSupplier, supplier.Name, actorID, actorName)
	w.WriteHeader(http.StatusNoContent)
}
