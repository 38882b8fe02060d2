package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Provider defines the interface for AI-powered interview preparation.
type Provider interface {
	// GenerateQuestion produces one practice question for a job profile.
	GenerateQuestion(ctx context.Context, params GenerateQuestionParams) (*GeneratedQuestion, error)

	// GenerateFeedback evaluates a user's answer to a practice question.
	GenerateFeedback(ctx context.Context, params FeedbackParams) (*AnswerFeedback, error)

	// AnalyzeResume reviews an uploaded resume against a job profile.
	AnalyzeResume(ctx context.Context, params AnalyzeResumeParams) (*ResumeResult, error)
}

// GenerateQuestionParams contains parameters for question generation
type GenerateQuestionParams struct {
	JobTitle          string             // Position the user is preparing for
	Company           string             // Optional company name
	Description       string             // Job description text
	ExperienceLevel   string             // junior, mid, or senior
	Difficulty        string             // easy, medium, or hard
	PreviousQuestions []string           // Already-asked questions to avoid repeats
	UserID            uuid.UUID          // User ID for usage tracking
	JobProfileID      uuid.UUID          // Job profile ID for tracking
}

// FeedbackParams contains parameters for answer evaluation
type FeedbackParams struct {
	QuestionText    string
	Answer          string
	JobTitle        string
	ExperienceLevel string
	UserID          uuid.UUID
	JobProfileID    uuid.UUID
}

// AnalyzeResumeParams contains parameters for resume analysis
type AnalyzeResumeParams struct {
	DocumentData    []byte    // Raw resume bytes
	ContentType     string    // MIME type (e.g., "application/pdf")
	JobTitle        string
	Description     string
	ExperienceLevel string
	UserID          uuid.UUID
	JobProfileID    uuid.UUID
}

// GeneratedQuestion is one practice question produced by the provider
type GeneratedQuestion struct {
	Text       string
	Difficulty string    // May differ from the requested difficulty
	Usage      UsageInfo // Token usage and cost information
}

// AnswerFeedback is the provider's evaluation of a user's answer
type AnswerFeedback struct {
	Rating   int    // 1-10
	Feedback string // Narrative assessment with concrete improvements
	Usage    UsageInfo
}

// ResumeResult contains the complete analysis of a resume
type ResumeResult struct {
	Score        int      // Overall fit 0-100
	Strengths    []string // What the resume does well for this role
	Improvements []string // Concrete changes to make
	Summary      string   // Narrative assessment
	Raw          json.RawMessage // Full provider output for storage
	Usage        UsageInfo
}

// UsageInfo tracks API usage for billing and monitoring
type UsageInfo struct {
	Model        string        // AI model used
	InputTokens  int           // Tokens in the request
	OutputTokens int           // Tokens in the response
	CostCents    int           // Estimated cost in cents
	Duration     time.Duration // Request duration
}

// ProviderConfig contains common configuration for AI providers
type ProviderConfig struct {
	MaxRetries     int           // Maximum retry attempts for transient errors
	RetryBaseDelay time.Duration // Base delay for exponential backoff
	RequestTimeout time.Duration // Timeout for individual requests
}

// Error codes for AI provider operations
var (
	// EAIRateLimit indicates the API rate limit has been exceeded
	EAIRateLimit = errors.New("ai provider rate limit exceeded")

	// EAIInvalidDocument indicates the document format or content is invalid
	EAIInvalidDocument = errors.New("invalid document format or content")

	// EAIContentPolicy indicates the input violates content policy
	EAIContentPolicy = errors.New("input violates content policy")

	// EAITimeout indicates the request timed out
	EAITimeout = errors.New("ai request timed out")

	// EAIUnavailable indicates the AI service is temporarily unavailable
	EAIUnavailable = errors.New("ai service temporarily unavailable")

	// EAIUnauthorized indicates invalid API credentials
	EAIUnauthorized = errors.New("ai provider authentication failed")
)

// IsRetryable returns true if the error is a transient error that can be retried
func IsRetryable(err error) bool {
	return errors.Is(err, EAIRateLimit) ||
		errors.Is(err, EAITimeout) ||
		errors.Is(err, EAIUnavailable)
}

// WrapError wraps an error with context about the AI operation
func WrapError(operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("ai %s: %w", operation, err)
}
