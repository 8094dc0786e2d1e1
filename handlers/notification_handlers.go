package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"novasphere.in/promat/config"
	"novasphere.in/promat/middleware"
	"novasphere.in/promat/repository"
)

// NotificationHandler exposes the per-user notification inbox.
type NotificationHandler struct {
	repo *repository.NotificationRepo
}

func NewNotificationHandler() *NotificationHandler {
	return &NotificationHandler{repo: repository.NewNotificationRepo(config.DB)}
}

func currentUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return uuid.Nil, false
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		http.Error(w, "invalid token subject", http.StatusUnauthorized)
		return uuid.Nil, false
	}
	return id, true
}

// GetNotifications retrieves notifications for the current user
// GET /api/v1/notifications?unread=true
func (h *NotificationHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"
	notifications, err := h.repo.ListForUser(userID, unreadOnly)
	if err != nil {
		log.Printf("❌ Error fetching notifications: %v", err)
		http.Error(w, "failed to fetch notifications", http.StatusInternalServerError)
		return
	}

	unreadCount, _ := h.repo.UnreadCount(userID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"notifications": notifications,
		"count":         len(notifications),
		"unread_count":  unreadCount,
	})
}

// GetUnreadCount returns the count of unread notifications
// GET /api/v1/notifications/unread-count
func (h *NotificationHandler) GetUnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	count, err := h.repo.UnreadCount(userID)
	if err != nil {
		log.Printf("❌ Error getting unread count: %v", err)
		http.Error(w, "failed to get unread count", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"count": count})
}

// MarkNotificationAsRead marks a notification as read
// PATCH /api/v1/notifications/{id}/read
func (h *NotificationHandler) MarkNotificationAsRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid notification ID", http.StatusBadRequest)
		return
	}

	if err := h.repo.MarkRead(id, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "notification not found", http.StatusNotFound)
			return
		}
		log.Printf("❌ Error marking notification as read: %v", err)
		http.Error(w, "failed to mark as read", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"message": "notification marked as read"})
}

// MarkAllNotificationsAsRead marks all notifications as read for the current user
// PATCH /api/v1/notifications/read-all
func (h *NotificationHandler) MarkAllNotificationsAsRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	count, err := h.repo.MarkAllRead(userID)
	if err != nil {
		log.Printf("❌ Error marking all notifications as read: %v", err)
		http.Error(w, "failed to mark all as read", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "all notifications marked as read",
		"count":   count,
	})
}

// DeleteNotification deletes a notification
// DELETE /api/v1/notifications/{id}
func (h *NotificationHandler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid notification ID", http.StatusBadRequest)
		return
	}

	if err := h.repo.SoftDelete(id, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "notification not found", http.StatusNotFound)
			return
		}
		log.Printf("❌ Error deleting notification: %v", err)
		http.Error(w, "failed to delete notification", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
