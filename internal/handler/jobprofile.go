// This file implements handlers for job profile CRUD.
//
// Routes handled (all require authentication):
//   - POST   /api/profiles      -> Create
//   - GET    /api/profiles      -> List
//   - GET    /api/profiles/{id} -> Get
//   - PUT    /api/profiles/{id} -> Update
//   - DELETE /api/profiles/{id} -> Delete
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prepdeck/prepdeck/internal/auth"
	"github.com/prepdeck/prepdeck/internal/domain"
	"github.com/prepdeck/prepdeck/internal/service"
)

// JobProfileHandler handles job profile HTTP requests.
type JobProfileHandler struct {
	profiles service.JobProfileService
	logger   *slog.Logger
}

// NewJobProfileHandler creates a new JobProfileHandler.
func NewJobProfileHandler(profiles service.JobProfileService, logger *slog.Logger) *JobProfileHandler {
	return &JobProfileHandler{
		profiles: profiles,
		logger:   logger,
	}
}

// RegisterRoutes registers job profile routes on the provided mux.
func (h *JobProfileHandler) RegisterRoutes(mux *http.ServeMux, requireUser func(http.Handler) http.Handler) {
	mux.Handle("POST /api/profiles", requireUser(http.HandlerFunc(h.Create)))
	mux.Handle("GET /api/profiles", requireUser(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/profiles/{id}", requireUser(http.HandlerFunc(h.Get)))
	mux.Handle("PUT /api/profiles/{id}", requireUser(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /api/profiles/{id}", requireUser(http.HandlerFunc(h.Delete)))
}

type jobProfileRequest struct {
	Title           string `json:"title"`
	Company         string `json:"company"`
	Description     string `json:"description"`
	ExperienceLevel string `json:"experience_level"`
}

type jobProfileResponse struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Company         string    `json:"company"`
	Description     string    `json:"description"`
	ExperienceLevel string    `json:"experience_level"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func newJobProfileResponse(p *domain.JobProfile) jobProfileResponse {
	return jobProfileResponse{
		ID:              p.ID,
		Title:           p.Title,
		Company:         p.Company,
		Description:     p.Description,
		ExperienceLevel: string(p.ExperienceLevel),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// Create creates a new job profile for the authenticated user.
func (h *JobProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())

	var req jobProfileRequest
	if err := DecodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	profile, err := h.profiles.Create(r.Context(), user.ID, domain.JobProfileParams{
		Title:           req.Title,
		Company:         req.Company,
		Description:     req.Description,
		ExperienceLevel: domain.ExperienceLevel(req.ExperienceLevel),
	})
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	RespondJSON(w, h.logger, http.StatusCreated, map[string]interface{}{
		"profile": newJobProfileResponse(profile),
	})
}

// List returns all job profiles for the authenticated user.
func (h *JobProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())

	profiles, err := h.profiles.List(r.Context(), user.ID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	responses := make([]jobProfileResponse, 0, len(profiles))
	for i := range profiles {
		responses = append(responses, newJobProfileResponse(&profiles[i]))
	}

	RespondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"profiles": responses,
	})
}

// Get returns a single job profile.
func (h *JobProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())

	id, err := PathUUID(r, "id")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	profile, err := h.profiles.GetByID(r.Context(), id, user.ID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	RespondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"profile": newJobProfileResponse(profile),
	})
}

// Update modifies an existing job profile.
func (h *JobProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())

	id, err := PathUUID(r, "id")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	var req jobProfileRequest
	if err := DecodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	profile, err := h.profiles.Update(r.Context(), id, user.ID, domain.JobProfileParams{
		Title:           req.Title,
		Company:         req.Company,
		Description:     req.Description,
		ExperienceLevel: domain.ExperienceLevel(req.ExperienceLevel),
	})
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	RespondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"profile": newJobProfileResponse(profile),
	})
}

// Delete removes a job profile and everything attached to it.
func (h *JobProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())

	id, err := PathUUID(r, "id")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	if err := h.profiles.Delete(r.Context(), id, user.ID); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
