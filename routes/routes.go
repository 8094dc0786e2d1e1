package routes

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"novasphere.in/promat/handlers"
	"novasphere.in/promat/middleware"
	"novasphere.in/promat/models"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	// =====================================================
	// Public Routes (no authentication)
	// =====================================================
	r.HandleFunc("/register", handlers.Register).Methods("POST")
	r.HandleFunc("/login", handlers.Login).Methods("POST")
	RegisterHealthRoute(r)

	// =====================================================
	// Protected API Routes (require JWT authentication)
	// =====================================================
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.JWTMiddleware)

	api.HandleFunc("/profile", handlers.GetCurrentUser).Methods("GET")
	api.HandleFunc("/change-password", handlers.ChangePassword).Methods("POST")

	registerRequirementRoutes(api)
	RegisterNotificationRoutes(api)
	RegisterReportRoutes(api)

	// =====================================================
	// Admin Routes
	// =====================================================
	admin := api.PathPrefix("/admin").Subrouter()
	RegisterMasterRoutes(api, admin)

	return r
}

// registerRequirementRoutes registers the requirement lifecycle routes.
// Reads are open to every authenticated user; writes are limited to
// project managers and supervisors.
func registerRequirementRoutes(api *mux.Router) {
	h := handlers.NewRequirementHandler()
	writers := []string{models.RoleAdmin, models.RolePM, models.RoleSupervisor}

	api.HandleFunc("/requirements", h.GetAll).Methods("GET")
	api.HandleFunc("/requirements/{id}", h.GetOne).Methods("GET")

	api.Handle("/requirements", middleware.RequireRole(writers,
		http.HandlerFunc(h.Create))).Methods("POST")
	api.Handle("/requirements/{id}", middleware.RequireRole(writers,
		http.HandlerFunc(h.Update))).Methods("PUT")
	api.Handle("/requirements/{id}", middleware.RequireRole(writers,
		http.HandlerFunc(h.Delete))).Methods("DELETE")
}

// Health check, useful behind a load balancer. Unauthenticated.
func RegisterHealthRoute(r *mux.Router) {
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}).Methods("GET")
}
