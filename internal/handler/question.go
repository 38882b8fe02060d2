// This file implements handlers for AI practice questions.
//
// Routes handled (all require authentication):
//   - POST /api/profiles/{id}/questions -> Generate
//   - GET  /api/profiles/{id}/questions -> List
//   - GET  /api/questions/{id}         -> Get
//   - POST /api/questions/{id}/answer  -> Answer
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

// QuestionHandler handles practice question HTTP requests.
type QuestionHandler struct {
	questions service.QuestionService
	logger    *slog.Logger
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(questions service.QuestionService, logger *slog.Logger) *QuestionHandler {
	return &QuestionHandler{
		questions: questions,
		logger:    logger,
	}
}

// RegisterRoutes registers question routes on the provided mux.
func (h *QuestionHandler) RegisterRoutes(mux *http.ServeMux, requireUser func(http.Handler) http.Handler) {
	mux.Handle("POST /api/profiles/{id}/questions", requireUser(http.HandlerFunc(h.Generate)))
	mux.Handle("GET /api/profiles/{id}/questions", requireUser(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/questions/{id}", requireUser(http.HandlerFunc(h.Get)))
	mux.Handle("POST /api/questions/{id}/answer", requireUser(http.HandlerFunc(h.Answer)))
}

type generateQuestionRequest struct {
	Difficulty string `json:"difficulty"`
}

type questionResponse struct {
	ID           uuid.UUID `json:"id"`
	JobProfileID uuid.UUID `json:"job_profile_id"`
	Text         string    `json:"text"`
	Difficulty   string    `json:"difficulty"`
	CreatedAt    time.Time `json:"created_at"`
}

func newQuestionResponse(q *domain.Question) questionResponse {
	return questionResponse{
		ID:           q.ID,
		JobProfileID: q.JobProfileID,
		Text:         q.Text,
		Difficulty:   string(q.Difficulty),
		CreatedAt:    q.CreatedAt,
	}
}

// Generate produces a new AI question for the job profile, consuming one
// unit of question quota. A denied decision returns 403 with the reason.
func (h *QuestionHandler) Generate(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())

	profileID, err := PathUUID(r, "id")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	var req generateQuestionRequest
	if err := DecodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	question, decision, err := h.questions.Generate(r.Context(), user, profileID, domain.QuestionDifficulty(req.Difficulty))
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	if !decision.Allowed {
		LimitReachedResponse(w, r, h.logger, domain.FeatureQuestions, decision)
		return
	}

	RespondJSON(w, h.logger, http.StatusCreated, map[string]interface{}{
		"question": newQuestionResponse(question),
	})
}

// List returns all questions for a job profile, newest first.
func (h *QuestionHandler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())

	profileID, err := PathUUID(r, "id")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	questions, err := h.questions.List(r.Context(), profileID, user.ID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	responses := make([]questionResponse, 0, len(questions))
	for i := range questions {
		responses = append(responses, newQuestionResponse(&questions[i]))
	}

	RespondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"questions": responses,
	})
}

// Get returns a single question.
func (h *QuestionHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())

	id, err := PathUUID(r, "id")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	question, err := h.questions.GetByID(r.Context(), id, user.ID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	RespondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"question": newQuestionResponse(question),
	})
}

type answerRequest struct {
	Answer string `json:"answer"`
}

type feedbackResponse struct {
	QuestionID uuid.UUID `json:"question_id"`
	Rating     int       `json:"rating"`
	Feedback   string    `json:"feedback"`
}

// Answer submits an answer for AI feedback. Feedback is not metered.
func (h *QuestionHandler) Answer(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())

	id, err := PathUUID(r, "id")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	var req answerRequest
	if err := DecodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	feedback, err := h.questions.Answer(r.Context(), user, id, req.Answer)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	RespondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"feedback": feedbackResponse{
			QuestionID: feedback.QuestionID,
			Rating:     feedback.Rating,
			Feedback:   feedback.Feedback,
		},
	})
}
