package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"novasphere.in/promat/handlers/masters"
	"novasphere.in/promat/middleware"
	"novasphere.in/promat/models"
)

// RegisterMasterRoutes wires the reference-data CRUD. Reads live on the
// shared API router so requirement forms can populate dropdowns; writes
// and user management are admin-only.
func RegisterMasterRoutes(api, admin *mux.Router) {
	adminOnly := []string{models.RoleAdmin}

	supplierHandler := masters.NewSupplierHandler()
	materialHandler := masters.NewMaterialHandler()
	projectHandler := masters.NewProjectHandler()
	userHandler := masters.NewUserHandler()

	// Reads for all authenticated users
	api.HandleFunc("/masters/suppliers", supplierHandler.GetAll).Methods("GET")
	api.HandleFunc("/masters/suppliers/{id}", supplierHandler.GetOne).Methods("GET")
	api.HandleFunc("/masters/materials", materialHandler.GetAll).Methods("GET")
	api.HandleFunc("/masters/materials/{id}", materialHandler.GetOne).Methods("GET")
	api.HandleFunc("/masters/material-categories", materialHandler.GetAllCategories).Methods("GET")
	api.HandleFunc("/masters/projects", projectHandler.GetAll).Methods("GET")
	api.HandleFunc("/masters/projects/{id}", projectHandler.GetOne).Methods("GET")

	// Supplier management
	admin.Handle("/masters/suppliers", middleware.RequireRole(adminOnly,
		http.HandlerFunc(supplierHandler.Create))).Methods("POST")
	admin.Handle("/masters/suppliers/{id}", middleware.RequireRole(adminOnly,
		http.HandlerFunc(supplierHandler.Update))).Methods("PUT")
	admin.Handle("/masters/suppliers/{id}", middleware.RequireRole(adminOnly,
		http.HandlerFunc(supplierHandler.Delete))).Methods("DELETE")

	// Material management
	admin.Handle("/masters/materials", middleware.RequireRole(adminOnly,
		http.HandlerFunc(materialHandler.Create))).Methods("POST")
	admin.Handle("/masters/materials/{id}", middleware.RequireRole(adminOnly,
		http.HandlerFunc(materialHandler.Update))).Methods("PUT")
	admin.Handle("/masters/materials/{id}", middleware.RequireRole(adminOnly,
		http.HandlerFunc(materialHandler.Delete))).Methods("DELETE")
	admin.Handle("/masters/material-categories", middleware.RequireRole(adminOnly,
		http.HandlerFunc(materialHandler.CreateCategory))).Methods("POST")
	admin.Handle("/masters/material-categories/{id}", middleware.RequireRole(adminOnly,
		http.HandlerFunc(materialHandler.DeleteCategory))).Methods("DELETE")

	// Project management
	admin.Handle("/masters/projects", middleware.RequireRole(adminOnly,
		http.HandlerFunc(projectHandler.Create))).Methods("POST")
	admin.Handle("/masters/projects/{id}", middleware.RequireRole(adminOnly,
		http.HandlerFunc(projectHandler.Update))).Methods("PUT")
	admin.Handle("/masters/projects/{id}", middleware.RequireRole(adminOnly,
		http.HandlerFunc(projectHandler.Delete))).Methods("DELETE")

	// User management
	admin.Handle("/users", middleware.RequireRole(adminOnly,
		http.HandlerFunc(userHandler.GetAll))).Methods("GET")
	admin.Handle("/users/{id}", middleware.RequireRole(adminOnly,
		http.HandlerFunc(userHandler.GetOne))).Methods("GET")
	admin.Handle("/users/{id}", middleware.RequireRole(adminOnly,
		http.HandlerFunc(userHandler.Update))).Methods("PUT")
	admin.Handle("/users/{id}", middleware.RequireRole(adminOnly,
		http.HandlerFunc(userHandler.Delete))).Methods("DELETE")
}
