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

// RequirementHandler exposes the requirement lifecycle over HTTP.
type RequirementHandler struct {
	svc  *RequirementService
	repo *repository.RequirementRepo
}

func NewRequirementHandler() *RequirementHandler {
	return &RequirementHandler{
		svc:  NewRequirementService(),
		repo: repository.NewRequirementRepo(config.DB),
	}
}

// GetAll lists requirements, optionally filtered by project.
// GET /api/v1/requirements?project_id=...
func (h *RequirementHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	var projectID *uuid.UUID
	if raw := r.URL.Query().Get("project_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, "invalid project_id", http.StatusBadRequest)
			return
		}
		projectID = &id
	}

	reqs, err := h.repo.List(projectID)
	if err != nil {
		log.Printf("❌ Error listing requirements: %v", err)
		http.Error(w, "failed to list requirements", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"data":  reqs,
		"count": len(reqs),
	})
}

// Create registers a new requirement in Pending status.
// POST /api/v1/requirements
func (h *RequirementHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	actorID, err := uuid.Parse(claims.UserID)
	if err != nil {
		http.Error(w, "invalid token subject", http.StatusUnauthorized)
		return
	}

	var in RequirementInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	created, err := h.svc.Create(in, actorID, claims.Name)
	if err != nil {
		writeRequirementError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

// GetOne returns a single requirement with its relations.
// GET /api/v1/requirements/{id}
func (h *RequirementHandler) GetOne(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid requirement ID", http.StatusBadRequest)
		return
	}

	req, err := h.repo.GetByID(id)
	if err != nil {
		writeRequirementError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(req)
}

// Update applies a full update including a status transition and its
// delivery side effects.
// PUT /api/v1/requirements/{id}
func (h *RequirementHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	actorID, err := uuid.Parse(claims.UserID)
	if err != nil {
		http.Error(w, "invalid token subject", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid requirement ID", http.StatusBadRequest)
		return
	}

	var in RequirementInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	updated, err := h.svc.Transition(id, in, actorID, claims.Name)
	if err != nil {
		writeRequirementError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

// Delete soft-deletes a requirement.
// DELETE /api/v1/requirements/{id}
func (h *RequirementHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	actorID, err := uuid.Parse(claims.UserID)
	if err != nil {
		http.Error(w, "invalid token subject", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid requirement ID", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(id, actorID, claims.Name); err != nil {
		writeRequirementError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeRequirementError maps service errors onto HTTP statuses:
// validation failures are the client's fault, missing rows are 404,
// everything else is a server error.
func writeRequirementError(w http.ResponseWriter, err error) {
	switch {
	case IsValidationError(err):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, repository.ErrNotFound):
		http.Error(w, "requirement not found", http.StatusNotFound)
	default:
		log.Printf("❌ Requirement operation failed: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
