package masters

import (
	"encoding/json"
	"net/http"
	"slices"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"novasphere.in/promat/config"
	"novasphere.in/promat/handlers"
	"novasphere.in/promat/models"
)

// UserHandler is the admin view over accounts. Creation goes through
// the register endpoint; this covers listing, role changes and
// deactivation.
type UserHandler struct {
	notifier *handlers.NotificationService
}

func NewUserHandler() *UserHandler {
	return &UserHandler{notifier: handlers.NewNotificationService()}
}

// GET /api/v1/admin/users?page=1&limit=10
func (h *UserHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	page := 1
	limit := 10
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		limit = l
	}
	offset := (page - 1) * limit

	var users []models.User
	if err := config.DB.
		Where("is_active = ?", true).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	var total int64
	if err := config.DB.Model(&models.User{}).
		Where("is_active = ?", true).
		Count(&total).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total": total,
		"page":  page,
		"limit": limit,
		"data":  users,
	})
}

// GET /api/v1/admin/users/{id}
func (h *UserHandler) GetOne(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid user ID", http.StatusBadRequest)
		return
	}
	var user models.User
	if err := config.DB.First(&user, "id = ?", id).Error; err != nil {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type userUpdateInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
	IsActive *bool  `json:"isActive"`
}

// PUT /api/v1/admin/users/{id}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	actorID, actorName, ok := actor(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid user ID", http.StatusBadRequest)
		return
	}
	var in userUpdateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if in.Name == "" || in.Email == "" || in.Phone == "" {
		http.Error(w, "name, email and phone are required", http.StatusBadRequest)
		return
	}
	validRoles := []string{models.RoleAdmin, models.RolePM, models.RoleSupervisor}
	if !slices.Contains(validRoles, in.Role) {
		http.Error(w, "unknown role", http.StatusBadRequest)
		return
	}

	updates := map[string]interface{}{
		"name":  in.Name,
		"email": in.Email,
		"phone": in.Phone,
		"role":  in.Role,
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}

	res := config.DB.Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		http.Error(w, "db error: "+res.Error.Error(), http.StatusInternalServerError)
		return
	}
	if res.RowsAffected == 0 {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", id).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.notifier.NotifyModuleAction("updated", models.ModuleUser, user.Name, actorID, actorName)
	writeJSON(w, http.StatusOK, user)
}

// DELETE /api/v1/admin/users/{id}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actorID, actorName, ok := actor(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid user ID", http.StatusBadRequest)
		return
	}
	if id == actorID {
		http.Error(w, "cannot delete your own account", http.StatusBadRequest)
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", id).Error; err != nil {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	if err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&user).Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	}); err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.notifier.NotifyModuleAction("deleted", models.ModuleUser, user.Name, actorID, actorName)
	w.WriteHeader(http.StatusNoContent)
}
