package routes

import (
	"github.com/gorilla/mux"

	"novasphere.in/promat/handlers"
)

// RegisterNotificationRoutes wires the per-user notification inbox.
func RegisterNotificationRoutes(api *mux.Router) {
	h := handlers.NewNotificationHandler()

	api.HandleFunc("/notifications", h.GetNotifications).Methods("GET")
	api.HandleFunc("/notifications/unread-count", h.GetUnreadCount).Methods("GET")
	api.HandleFunc("/notifications/read-all", h.MarkAllNotificationsAsRead).Methods("PATCH")
	api.HandleFunc("/notifications/{id}/read", h.MarkNotificationAsRead).Methods("PATCH")
	api.HandleFunc("/notifications/{id}", h.DeleteNotification).Methods("DELETE")
}
