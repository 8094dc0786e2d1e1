package masters

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"novasphere.in/promat/config"
	"novasphere.in/promat/handlers"
	"novasphere.in/promat/models"
)

// MaterialHandler manages the material master and its categories.
type MaterialHandler struct {
	notifier *handlers.NotificationService
}

func NewMaterialHandler() *MaterialHandler {
	return &MaterialHandler{notifier: handlers.NewNotificationService()}
}

type materialInput struct {
	Name        string     `json:"name"`
	CategoryID  *uuid.UUID `json:"categoryId"`
	DefaultUnit string     `json:"defaultUnit"`
}

// GET /api/v1/masters/materials
func (h *MaterialHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	var materials []models.Material
	q := config.DB.Preload("Category").Where("is_active = ?", true).Order("name ASC")
	if raw := r.URL.Query().Get("category_id"); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, "invalid category_id", http.StatusBadRequest)
			return
		}
		q = q.Where("category_id = ?", categoryID)
	}
	if err := q.Find(&materials).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": materials, "count": len(materials)})
}

// GET /api/v1/masters/materials/{id}
func (h *MaterialHandler) GetOne(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid material ID", http.StatusBadRequest)
		return
	}
	var material models.Material
	if err := config.DB.Preload("Category").First(&material, "id = ?", id).Error; err != nil {
		http.Error(w, "material not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, material)
}

// POST /api/v1/masters/materials
func (h *MaterialHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, actorName, ok := actor(w, r)
	if !ok {
		return
	}
	var in materialInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if in.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	material := models.Material{
		Name:        in.Name,
		CategoryID:  in.CategoryID,
		DefaultUnit: in.DefaultUnit,
		IsActive:    true,
		CreatedBy:   actorID,
		UpdatedBy:   actorID,
	}
	if err := config.DB.Create(&material).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.notifier.NotifyModuleAction("created", models.ModuleMaterial, material.Name, actorID, actorName)
	writeJSON(w, http.StatusCreated, material)
}

// PUT /api/v1/masters/materials/{id}
func (h *MaterialHandler) Update(w http.ResponseWriter, r *http.Request) {
	actorID, actorName, ok := actor(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid material ID", http.StatusBadRequest)
		return
	}
	var in materialInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if in.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	res := config.DB.Model(&models.Material{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"name":         in.Name,
			"category_id":  in.CategoryID,
			"default_unit": in.DefaultUnit,
			"updated_by":   actorID,
		})
	if res.Error != nil {
		http.Error(w, "db error: "+res.Error.Error(), http.StatusInternalServerError)
		return
	}
	if res.RowsAffected == 0 {
		http.Error(w, "material not found", http.StatusNotFound)
		return
	}

	var material models.Material
	if err := config.DB.Preload("Category").First(&material, "id = ?", id).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.notifier.NotifyModuleAction("updated", models.ModuleMaterial, material.Name, actorID, actorName)
	writeJSON(w, http.StatusOK, material)
}

// DELETE /api/v1/masters/materials/{id}
func (h *MaterialHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actorID, actorName, ok := actor(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid material ID", http.StatusBadRequest)
		return
	}

	var material models.Material
	if err := config.DB.First(&material, "id = ?", id).Error; err != nil {
		http.Error(w, "material not found", http.StatusNotFound)
		return
	}
	if err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&material).Update("updated_by", actorID).Error; err != nil {
			return err
		}
		return tx.Delete(&material).Error
	}); err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.notifier.NotifyModuleAction("deleted", models.ModuleMaterial, material.Name, actorID, actorName)
	w.WriteHeader(http.StatusNoContent)
}

// =====================================================
// Material Categories
// =====================================================

type categoryInput struct {
	Name string `json:"name"`
}

// GET /api/v1/masters/material-categories
func (h *MaterialHandler) GetAllCategories(w http.ResponseWriter, r *http.Request) {
	var categories []models.MaterialCategory
	if err := config.DB.Order("name ASC").Find(&categories).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": categories, "count": len(categories)})
}

// POST /api/v1/masters/material-categories
func (h *MaterialHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	actorID, actorName, ok := actor(w, r)
	if !ok {
		return
	}
	var in categoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if in.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	category := models.MaterialCategory{
		Name:      in.Name,
		CreatedBy: actorID,
		UpdatedBy: actorID,
	}
	if err := config.DB.Create(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			http.Error(w, "category already exists", http.StatusConflict)
			return
		}
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.notifier.NotifyModuleAction("created", models.ModuleMaterialCategory, category.Name, actorID, actorName)
	writeJSON(w, http.StatusCreated, category)
}

// DELETE /api/v1/masters/material-categories/{id}
func (h *MaterialHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	actorID, actorName, ok := actor(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid category ID", http.StatusBadRequest)
		return
	}

	var category models.MaterialCategory
	if err := config.DB.First(&category, "id = ?", id).Error; err != nil {
		http.Error(w, "category not found", http.StatusNotFound)
		return
	}

	// Refuse while materials still reference the category.
	var inUse int64
	if err := config.DB.Model(&models.Material{}).Where("category_id = ?", id).Count(&inUse).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if inUse > 0 {
		http.Error(w, "category is still in use", http.StatusConflict)
		return
	}

	if err := config.DB.Delete(&category).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.notifier.NotifyModuleAction("deleted", models.ModuleMaterialCategory, category.Name, actorID, actorName)
	w.WriteHeader(http.StatusNoContent)
}
