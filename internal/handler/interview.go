// This file implements handlers for mock interview sessions.
//
// Routes handled (all require authentication):
//   - POST /api/profiles/{id}/interviews -> Start
//   - GET  /api/profiles/{id}/interviews -> List
//   - GET  /api/interviews/{id}          -> Get
//   - PUT  /api/interviews/{id}          -> Update
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

// InterviewHandler handles mock interview HTTP requests.
type InterviewHandler struct {
	interviews service.InterviewService
	logger     *slog.Logger
}

// NewInterviewHandler creates a new InterviewHandler.
func NewInterviewHandler(interviews service.InterviewService, logger *slog.Logger) *InterviewHandler {
	return &InterviewHandler{
		interviews: interviews,
		logger:     logger,
	}
}

// RegisterRoutes registers interview routes on the provided mux.
func (h *InterviewHandler) RegisterRoutes(mux *http.ServeMux, requireUser func(http.Handler) http.Handler) {
	mux.Handle("POST /api/profiles/{id}/interviews", requireUser(http.HandlerFunc(h.Start)))
	mux.Handle("GET /api/profiles/{id}/interviews", requireUser(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/interviews/{id}", requireUser(http.HandlerFunc(h.Get)))
	mux.Handle("PUT /api/interviews/{id}", requireUser(http.HandlerFunc(h.Update)))
}

type interviewResponse struct {
	ID           uuid.UUID `json:"id"`
	JobProfileID uuid.UUID `json:"job_profile_id"`
	Duration     string    `json:"duration,omitempty"`
	HumeChatID   string    `json:"hume_chat_id,omitempty"`
	Feedback     string    `json:"feedback,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func newInterviewResponse(iv *domain.Interview) interviewResponse {
	return interviewResponse{
		ID:           iv.ID,
		JobProfileID: iv.JobProfileID,
		Duration:     iv.Duration,
		HumeChatID:   iv.HumeChatID,
		Feedback:     iv.Feedback,
		CreatedAt:    iv.CreatedAt,
		UpdatedAt:    iv.UpdatedAt,
	}
}

// Start begins a new interview session, consuming one unit of interview
// quota. A denied decision returns 403 with the reason.
func (h *InterviewHandler) Start(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())

	profileID, err := PathUUID(r, "id")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	interview, decision, err := h.interviews.Start(r.Context(), user, profileID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	if !decision.Allowed {
		LimitReachedResponse(w, r, h.logger, domain.FeatureInterviews, decision)
		return
	}

	RespondJSON(w, h.logger, http.StatusCreated, map[string]interface{}{
		"interview": newInterviewResponse(interview),
	})
}

// List returns all interviews for a job profile, newest first.
func (h *InterviewHandler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())

	profileID, err := PathUUID(r, "id")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	interviews, err := h.interviews.List(r.Context(), profileID, user.ID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	responses := make([]interviewResponse, 0, len(interviews))
	for i := range interviews {
		responses = append(responses, newInterviewResponse(&interviews[i]))
	}

	RespondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"interviews": responses,
	})
}

// Get returns a single interview.
func (h *InterviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())

	id, err := PathUUID(r, "id")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	interview, err := h.interviews.GetByID(r.Context(), id, user.ID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	RespondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"interview": newInterviewResponse(interview),
	})
}

type interviewUpdateRequest struct {
	Duration   *string `json:"duration"`
	HumeChatID *string `json:"hume_chat_id"`
	Feedback   *string `json:"feedback"`
}

// Update records session details reported after the interview ends.
func (h *InterviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())

	id, err := PathUUID(r, "id")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	var req interviewUpdateRequest
	if err := DecodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	interview, err := h.interviews.Update(r.Context(), id, user.ID, domain.InterviewUpdateParams{
		Duration:   req.Duration,
		HumeChatID: req.HumeChatID,
		Feedback:   req.Feedback,
	})
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	RespondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"interview": newInterviewResponse(interview),
	})
}
