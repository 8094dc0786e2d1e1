package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"novasphere.in/promat/handlers"
	"novasphere.in/promat/middleware"
	"novasphere.in/promat/models"
)

// RegisterReportRoutes wires the supplier performance report. Admins
// and project managers only.
func RegisterReportRoutes(api *mux.Router) {
	readers := []string{models.RoleAdmin, models.RolePM}

	api.Handle("/reports/supplier-performance", middleware.RequireRole(readers,
		http.HandlerFunc(handlers.GetSupplierPerformance))).Methods("GET")
	api.Handle("/reports/supplier-performance/export", middleware.RequireRole(readers,
		http.HandlerFunc(handlers.ExportSupplierPerformanceToExcel))).Methods("GET")
	api.Handle("/reports/suppliers/{id}/ratings", middleware.RequireRole(readers,
		http.HandlerFunc(handlers.GetSupplierRatings))).Methods("GET")
}
