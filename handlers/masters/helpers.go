// Package masters holds the admin-facing CRUD for reference data:
// suppliers, materials, categories, projects and users.
package masters

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"novasphere.in/promat/middleware"
)

// actor resolves the authenticated user from the request, writing the
// 401 itself when absent.
func actor(w http.ResponseWriter, r *http.Request) (uuid.UUID, string, bool) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return uuid.Nil, "", false
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		http.Error(w, "invalid token subject", http.StatusUnauthorized)
		return uuid.Nil, "", false
	}
	return id, claims.Name, true
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
