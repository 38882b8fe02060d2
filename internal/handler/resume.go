// This file implements handlers for resume uploads and analysis results.
//
// Routes handled (all require authentication):
//   - POST /api/profiles/{id}/resumes -> Upload
//   - GET  /api/profiles/{id}/resumes -> List
//   - GET  /api/resumes/{id}          -> Get
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prepdeck/prepdeck/internal/auth"
	"github.com/prepdeck/prepdeck/internal/domain"
	"github.com/prepdeck/prepdeck/internal/service"
	"github.com/prepdeck/prepdeck/internal/storage"
)

// ResumeHandler handles resume upload and analysis HTTP requests.
type ResumeHandler struct {
	resumes service.ResumeService
	logger  *slog.Logger
}

// NewResumeHandler creates a new ResumeHandler.
func NewResumeHandler(resumes service.ResumeService, logger *slog.Logger) *ResumeHandler {
	return &ResumeHandler{
		resumes: resumes,
		logger:  logger,
	}
}

// RegisterRoutes registers resume routes on the provided mux.
func (h *ResumeHandler) RegisterRoutes(mux *http.ServeMux, requireUser func(http.Handler) http.Handler) {
	mux.Handle("POST /api/profiles/{id}/resumes", requireUser(http.HandlerFunc(h.Upload)))
	mux.Handle("GET /api/profiles/{id}/resumes", requireUser(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/resumes/{id}", requireUser(http.HandlerFunc(h.Get)))
}

type resumeAnalysisResponse struct {
	ID           uuid.UUID       `json:"id"`
	JobProfileID uuid.UUID       `json:"job_profile_id"`
	FileName     string          `json:"file_name"`
	Status       string          `json:"status"`
	Score        int             `json:"score,omitempty"`
	Strengths    []string        `json:"strengths,omitempty"`
	Improvements []string        `json:"improvements,omitempty"`
	Result       json.RawMessage `json:"result,omitempty"`
	ErrorMessage string          `json:"error_message,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func newResumeAnalysisResponse(a *domain.ResumeAnalysis) resumeAnalysisResponse {
	return resumeAnalysisResponse{
		ID:           a.ID,
		JobProfileID: a.JobProfileID,
		FileName:     a.FileName,
		Status:       string(a.Status),
		Score:        a.Score,
		Strengths:    a.Strengths,
		Improvements: a.Improvements,
		Result:       a.Result,
		ErrorMessage: a.ErrorMessage,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

// Upload accepts a multipart resume upload, consumes one unit of resume
// analysis quota, and queues the analysis. The response is 202 because the
// AI analysis runs in the background.
func (h *ResumeHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())

	profileID, err := PathUUID(r, "id")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	// Cap the whole request slightly above the file limit to leave room
	// for the multipart framing.
	r.Body = http.MaxBytesReader(w, r.Body, service.MaxResumeSize+4096)

	if err := r.ParseMultipartForm(service.MaxResumeSize); err != nil {
		h.logger.Info("failed to parse multipart form", "error", err)
		ErrorResponse(w, r, h.logger, domain.Errorf(domain.ETOOLARGE, "", "Resume exceeds the 10MB size limit"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid("", "A resume file is required in the 'file' field"))
		return
	}
	defer file.Close()

	contentType := storage.DetectContentType(header.Header.Get("Content-Type"), header.Filename, nil)

	analysis, decision, err := h.resumes.Upload(r.Context(), user, service.ResumeUploadParams{
		JobProfileID: profileID,
		FileName:     header.Filename,
		ContentType:  contentType,
		Data:         file,
	})
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	if !decision.Allowed {
		LimitReachedResponse(w, r, h.logger, domain.FeatureResumeAnalyses, decision)
		return
	}

	RespondJSON(w, h.logger, http.StatusAccepted, map[string]interface{}{
		"analysis": newResumeAnalysisResponse(analysis),
	})
}

// List returns all resume analyses for a job profile, newest first.
func (h *ResumeHandler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())

	profileID, err := PathUUID(r, "id")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	analyses, err := h.resumes.List(r.Context(), profileID, user.ID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	responses := make([]resumeAnalysisResponse, 0, len(analyses))
	for i := range analyses {
		responses = append(responses, newResumeAnalysisResponse(&analyses[i]))
	}

	RespondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"analyses": responses,
	})
}

// Get returns a single resume analysis, including results once completed.
// Clients poll this endpoint while the status is pending or running.
func (h *ResumeHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())

	id, err := PathUUID(r, "id")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	analysis, err := h.resumes.GetByID(r.Context(), id, user.ID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	RespondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"analysis": newResumeAnalysisResponse(analysis),
	})
}
