// Package jobs contains the background job handlers.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/prepdeck/prepdeck/internal/domain"
	"github.com/prepdeck/prepdeck/internal/service"
	"github.com/prepdeck/prepdeck/internal/worker"
)

// AnalyzeResumeHandler processes jobs that run an AI resume analysis.
type AnalyzeResumeHandler struct {
	resumes service.ResumeService
	logger  *slog.Logger
}

// NewAnalyzeResumeHandler creates a new handler for resume analysis jobs.
func NewAnalyzeResumeHandler(resumes service.ResumeService, logger *slog.Logger) *AnalyzeResumeHandler {
	return &AnalyzeResumeHandler{
		resumes: resumes,
		logger:  logger,
	}
}

// Type returns the job type identifier.
func (h *AnalyzeResumeHandler) Type() string {
	return worker.JobTypeAnalyzeResume
}

// Handle executes the resume analysis job.
func (h *AnalyzeResumeHandler) Handle(ctx context.Context, payload []byte) error {
	var p worker.AnalyzeResumePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return worker.NewPermanentError(fmt.Errorf("invalid payload: %w", err))
	}

	h.logger.Info("Analyzing resume",
		"analysis_id", p.AnalysisID,
		"user_id", p.UserID,
	)

	if err := h.resumes.RunAnalysis(ctx, p.AnalysisID, p.UserID); err != nil {
		if domain.ErrorCode(err) == domain.ENOTFOUND {
			// The analysis record was deleted; nothing to retry
			return worker.NewPermanentError(err)
		}
		return fmt.Errorf("run analysis: %w", err)
	}

	return nil
}

var _ worker.JobHandler = (*AnalyzeResumeHandler)(nil)
