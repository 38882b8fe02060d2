package mock

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/prepdeck/prepdeck/internal/ai"
)

// Provider is a mock AI provider for testing and development
type Provider struct {
	logger *slog.Logger

	// Configurable responses for testing
	GenerateQuestionResponse *ai.GeneratedQuestion
	GenerateQuestionError    error
	GenerateFeedbackResponse *ai.AnswerFeedback
	GenerateFeedbackError    error
	AnalyzeResumeResponse    *ai.ResumeResult
	AnalyzeResumeError       error

	// Call tracking for testing
	GenerateQuestionCalls int
	GenerateFeedbackCalls int
	AnalyzeResumeCalls    int
}

// New creates a new mock AI provider
func New(logger *slog.Logger) *Provider {
	return &Provider{
		logger: logger,
	}
}

// GenerateQuestion returns a canned practice question
func (p *Provider) GenerateQuestion(ctx context.Context, params ai.GenerateQuestionParams) (*ai.GeneratedQuestion, error) {
	p.GenerateQuestionCalls++

	if p.GenerateQuestionError != nil {
		return nil, p.GenerateQuestionError
	}
	if p.GenerateQuestionResponse != nil {
		return p.GenerateQuestionResponse, nil
	}

	difficulty := params.Difficulty
	if difficulty == "" {
		difficulty = "medium"
	}

	return &ai.GeneratedQuestion{
		Text:       "Tell me about a time you had to debug a production incident under pressure. How did you isolate the cause, and what changed afterwards?",
		Difficulty: difficulty,
		Usage: ai.UsageInfo{
			Model:        "mock-ai-v1",
			InputTokens:  420,
			OutputTokens: 60,
			CostCents:    1,
			Duration:     150 * time.Millisecond,
		},
	}, nil
}

// GenerateFeedback returns a canned answer evaluation
func (p *Provider) GenerateFeedback(ctx context.Context, params ai.FeedbackParams) (*ai.AnswerFeedback, error) {
	p.GenerateFeedbackCalls++

	if p.GenerateFeedbackError != nil {
		return nil, p.GenerateFeedbackError
	}
	if p.GenerateFeedbackResponse != nil {
		return p.GenerateFeedbackResponse, nil
	}

	return &ai.AnswerFeedback{
		Rating:   7,
		Feedback: "Solid structure and a clear outcome. Quantify the impact (error rate, time to recovery) and name the monitoring you added to catch a recurrence.",
		Usage: ai.UsageInfo{
			Model:        "mock-ai-v1",
			InputTokens:  680,
			OutputTokens: 120,
			CostCents:    1,
			Duration:     180 * time.Millisecond,
		},
	}, nil
}

// AnalyzeResume returns a canned resume analysis
func (p *Provider) AnalyzeResume(ctx context.Context, params ai.AnalyzeResumeParams) (*ai.ResumeResult, error) {
	p.AnalyzeResumeCalls++

	if p.AnalyzeResumeError != nil {
		return nil, p.AnalyzeResumeError
	}
	if p.AnalyzeResumeResponse != nil {
		return p.AnalyzeResumeResponse, nil
	}

	result := &ai.ResumeResult{
		Score: 72,
		Strengths: []string{
			"Relevant experience with the core stack named in the job description",
			"Quantified impact on two of the last three roles",
			"Clear one-page layout with consistent formatting",
		},
		Improvements: []string{
			"Lead each bullet with the outcome rather than the task",
			"Add metrics to the most recent role",
			"Trim the skills section to technologies actually used in listed projects",
		},
		Summary: "Good overall fit with strong hands-on experience; the resume undersells measurable impact.",
		Usage: ai.UsageInfo{
			Model:        "mock-ai-v1",
			InputTokens:  2400,
			OutputTokens: 310,
			CostCents:    2,
			Duration:     400 * time.Millisecond,
		},
	}

	raw, _ := json.Marshal(map[string]interface{}{
		"score":        result.Score,
		"strengths":    result.Strengths,
		"improvements": result.Improvements,
		"summary":      result.Summary,
	})
	result.Raw = raw

	return result, nil
}

// Reset clears call counters and custom responses for testing
func (p *Provider) Reset() {
	p.GenerateQuestionCalls = 0
	p.GenerateFeedbackCalls = 0
	p.AnalyzeResumeCalls = 0
	p.GenerateQuestionResponse = nil
	p.GenerateQuestionError = nil
	p.GenerateFeedbackResponse = nil
	p.GenerateFeedbackError = nil
	p.AnalyzeResumeResponse = nil
	p.AnalyzeResumeError = nil
}

var _ ai.Provider = (*Provider)(nil)
