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

// ResetUsageHandler processes jobs that zero a user's usage counters when a
// billing period renews.
type ResetUsageHandler struct {
	usage  service.UsageService
	logger *slog.Logger
}

// NewResetUsageHandler creates a new handler for usage reset jobs.
func NewResetUsageHandler(usage service.UsageService, logger *slog.Logger) *ResetUsageHandler {
	return &ResetUsageHandler{
		usage:  usage,
		logger: logger,
	}
}

// Type returns the job type identifier.
func (h *ResetUsageHandler) Type() string {
	return worker.JobTypeResetUsage
}

// Handle executes the usage reset job.
func (h *ResetUsageHandler) Handle(ctx context.Context, payload []byte) error {
	var p worker.ResetUsagePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return worker.NewPermanentError(fmt.Errorf("invalid payload: %w", err))
	}

	record, err := h.usage.Reset(ctx, p.UserID)
	if err != nil {
		if domain.ErrorCode(err) == domain.ENOTFOUND {
			// User never consumed anything this period; nothing to reset
			h.logger.Info("No usage record to reset", "user_id", p.UserID)
			return nil
		}
		return fmt.Errorf("reset usage: %w", err)
	}

	h.logger.Info("Usage counters reset",
		"user_id", p.UserID,
		"period_start", record.PeriodStart,
		"period_end", record.PeriodEnd,
	)

	return nil
}

var _ worker.JobHandler = (*ResetUsageHandler)(nil)
