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

// ProjectHandler manages construction projects.
type ProjectHandler struct {
	notifier *handlers.NotificationService
}

func NewProjectHandler() *ProjectHandler {
	return &ProjectHandler{notifier: handlers.NewNotificationService()}
}

type projectInput struct {
	Name        string `json:"name"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

// GET /api/v1/masters/projects
func (h *ProjectHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	var projects []models.Project
	if err := config.DB.Where("is_active = ?", true).Order("name ASC").Find(&projects).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": projects, "count": len(projects)})
}

// GET /api/v1/masters/projects/{id}
func (h *ProjectHandler) GetOne(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid project ID", http.StatusBadRequest)
		return
	}
	var project models.Project
	if err := config.DB.First(&project, "id = ?", id).Error; err != nil {
		http.Error(w, "project not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// POST /api/v1/masters/projects
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, actorName, ok := actor(w, r)
	if !ok {
		return
	}
	var in projectInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if in.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	project := models.Project{
		Name:        in.Name,
		Location:    in.Location,
		Description: in.Description,
		IsActive:    true,
		CreatedBy:   actorID,
		UpdatedBy:   actorID,
	}
	if err := config.DB.Create(&project).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.notifier.NotifyModuleAction("created", models.ModuleProject, project.Name, actorID, actorName)
	writeJSON(w, http.StatusCreated, project)
}

// PUT /api/v1/masters/projects/{id}
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	actorID, actorName, ok := actor(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid project ID", http.StatusBadRequest)
		return
	}
	var in projectInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if in.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	res := config.DB.Model(&models.Project{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"name":        in.Name,
			"location":    in.Location,
			"description": in.Description,
			"updated_by":  actorID,
		})
	if res.Error != nil {
		http.Error(w, "db error: "+res.Error.Error(), http.StatusInternalServerError)
		return
	}
	if res.RowsAffected == 0 {
		http.Error(w, "project not found", http.StatusNotFound)
		return
	}

	var project models.Project
	if err := config.DB.First(&project, "id = ?", id).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.notifier.NotifyModuleAction("updated", models.ModuleProject, project.Name, actorID, actorName)
	writeJSON(w, http.StatusOK, project)
}

// DELETE /api/v1/masters/projects/{id}
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actorID, actorName, ok := actor(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid project ID", http.StatusBadRequest)
		return
	}

	var project models.Project
	if err := config.DB.First(&project, "id = ?", id).Error; err != nil {
		http.Error(w, "project not found", http.StatusNotFound)
		return
	}
	if err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&project).Update("updated_by", actorID).Error; err != nil {
			return err
		}
		return tx.Delete(&project).Error
	}); err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.notifier.NotifyModuleAction("deleted", models.ModuleProject, project.Name, actorID, actorName)
	w.WriteHeader(http.StatusNoContent)
}
