package anthropic

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prepdeck/prepdeck/internal/ai"
	"github.com/prepdeck/prepdeck/internal/metrics"
	"github.com/prepdeck/prepdeck/internal/repository"
)

const (
	// APIBaseURL is the base URL for the Anthropic API
	APIBaseURL = "https://api.anthropic.com/v1/messages"

	// APIVersion is the Anthropic API version
	APIVersion = "2023-06-01"

	// DefaultModel is the default Claude model to use
	DefaultModel = "claude-3-5-sonnet-20241022"

	// MaxDocumentSize is the maximum resume size in bytes (10MB)
	MaxDocumentSize = 10 * 1024 * 1024

	// Pricing in cents per 1M tokens for claude-3-5-sonnet
	PricingInputCents  = 300  // $3 per 1M input tokens
	PricingOutputCents = 1500 // $15 per 1M output tokens
)

// Request type labels recorded with each tracked API call.
const (
	requestTypeQuestion = "generate_question"
	requestTypeFeedback = "generate_feedback"
	requestTypeResume   = "analyze_resume"
)

// Config contains configuration for the Anthropic provider
type Config struct {
	APIKey         string
	Model          string
	ProviderConfig ai.ProviderConfig
}

// Provider implements the ai.Provider interface using Anthropic's Claude API
type Provider struct {
	config  Config
	client  *http.Client
	queries *repository.Queries
	logger  *slog.Logger
}

// New creates a new Anthropic AI provider
func New(config Config, queries *repository.Queries, logger *slog.Logger) (*Provider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	// Set defaults
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.ProviderConfig.MaxRetries == 0 {
		config.ProviderConfig.MaxRetries = 3
	}
	if config.ProviderConfig.RetryBaseDelay == 0 {
		config.ProviderConfig.RetryBaseDelay = 1 * time.Second
	}
	if config.ProviderConfig.RequestTimeout == 0 {
		config.ProviderConfig.RequestTimeout = 60 * time.Second
	}

	return &Provider{
		config: config,
		client: &http.Client{
			Timeout: config.ProviderConfig.RequestTimeout,
		},
		queries: queries,
		logger:  logger,
	}, nil
}

// GenerateQuestion produces one practice question for a job profile.
func (p *Provider) GenerateQuestion(ctx context.Context, params ai.GenerateQuestionParams) (*ai.GeneratedQuestion, error) {
	startTime := time.Now()

	if params.JobTitle == "" {
		return nil, ai.WrapError("generate question", fmt.Errorf("job title is required"))
	}

	body := p.textRequestBody(buildQuestionPrompt(params))
	resp, err := p.send(ctx, body)
	if err != nil {
		return nil, ai.WrapError("generate question", err)
	}

	var output questionOutput
	if err := parseJSONContent(resp, &output); err != nil {
		return nil, ai.WrapError("parse question", err)
	}
	if strings.TrimSpace(output.Question) == "" {
		return nil, ai.WrapError("parse question", fmt.Errorf("empty question in response"))
	}

	usage := p.usageInfo(resp, time.Since(startTime))
	p.trackUsage(ctx, params.UserID, params.JobProfileID, usage, requestTypeQuestion)

	return &ai.GeneratedQuestion{
		Text:       strings.TrimSpace(output.Question),
		Difficulty: output.Difficulty,
		Usage:      usage,
	}, nil
}

// GenerateFeedback evaluates a user's answer to a practice question.
func (p *Provider) GenerateFeedback(ctx context.Context, params ai.FeedbackParams) (*ai.AnswerFeedback, error) {
	startTime := time.Now()

	if params.QuestionText == "" || params.Answer == "" {
		return nil, ai.WrapError("generate feedback", fmt.Errorf("question and answer are required"))
	}

	body := p.textRequestBody(buildFeedbackPrompt(params))
	resp, err := p.send(ctx, body)
	if err != nil {
		return nil, ai.WrapError("generate feedback", err)
	}

	var output feedbackOutput
	if err := parseJSONContent(resp, &output); err != nil {
		return nil, ai.WrapError("parse feedback", err)
	}
	if output.Rating < 1 {
		output.Rating = 1
	}
	if output.Rating > 10 {
		output.Rating = 10
	}

	usage := p.usageInfo(resp, time.Since(startTime))
	p.trackUsage(ctx, params.UserID, params.JobProfileID, usage, requestTypeFeedback)

	return &ai.AnswerFeedback{
		Rating:   output.Rating,
		Feedback: output.Feedback,
		Usage:    usage,
	}, nil
}

// AnalyzeResume reviews an uploaded resume document against a job profile.
func (p *Provider) AnalyzeResume(ctx context.Context, params ai.AnalyzeResumeParams) (*ai.ResumeResult, error) {
	startTime := time.Now()

	if err := p.validateDocumentParams(params); err != nil {
		return nil, ai.WrapError("analyze resume", err)
	}

	body := p.documentRequestBody(params.DocumentData, params.ContentType, buildResumePrompt(params))
	resp, err := p.send(ctx, body)
	if err != nil {
		return nil, ai.WrapError("analyze resume", err)
	}

	raw, err := jsonContent(resp)
	if err != nil {
		return nil, ai.WrapError("parse resume analysis", err)
	}

	var output resumeOutput
	if err := json.Unmarshal(raw, &output); err != nil {
		return nil, ai.WrapError("parse resume analysis", err)
	}
	if output.Score < 0 {
		output.Score = 0
	}
	if output.Score > 100 {
		output.Score = 100
	}

	usage := p.usageInfo(resp, time.Since(startTime))
	p.trackUsage(ctx, params.UserID, params.JobProfileID, usage, requestTypeResume)

	return &ai.ResumeResult{
		Score:        output.Score,
		Strengths:    output.Strengths,
		Improvements: output.Improvements,
		Summary:      output.Summary,
		Raw:          raw,
		Usage:        usage,
	}, nil
}

// validateDocumentParams validates the resume analysis parameters
func (p *Provider) validateDocumentParams(params ai.AnalyzeResumeParams) error {
	if len(params.DocumentData) == 0 {
		return ai.EAIInvalidDocument
	}
	if len(params.DocumentData) > MaxDocumentSize {
		return fmt.Errorf("%w: document size %d exceeds maximum %d", ai.EAIInvalidDocument, len(params.DocumentData), MaxDocumentSize)
	}
	if params.ContentType != "application/pdf" {
		return fmt.Errorf("%w: unsupported content type %s", ai.EAIInvalidDocument, params.ContentType)
	}
	return nil
}

// textRequestBody builds a text-only request body.
func (p *Provider) textRequestBody(prompt string) apiRequest {
	return apiRequest{
		Model:     p.config.Model,
		MaxTokens: 2048,
		Messages: []apiMessage{
			{
				Role: "user",
				Content: []apiContent{
					{Type: "text", Text: prompt},
				},
			},
		},
	}
}

// documentRequestBody builds a request body carrying a base64 document plus a prompt.
func (p *Provider) documentRequestBody(data []byte, contentType, prompt string) apiRequest {
	return apiRequest{
		Model:     p.config.Model,
		MaxTokens: 4096,
		Messages: []apiMessage{
			{
				Role: "user",
				Content: []apiContent{
					{
						Type: "document",
						Source: &apiDocumentSource{
							Type:      "base64",
							MediaType: contentType,
							Data:      base64.StdEncoding.EncodeToString(data),
						},
					},
					{Type: "text", Text: prompt},
				},
			},
		},
	}
}

// send marshals the body and executes the request with retry.
func (p *Provider) send(ctx context.Context, body apiRequest) (*apiResponse, error) {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	resp, err := p.executeWithRetry(ctx, bodyBytes)
	if err != nil {
		metrics.AIAPICalls.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.AIAPICalls.WithLabelValues("success").Inc()
	return resp, nil
}

// executeWithRetry executes the request with exponential backoff on
// transient errors. The body is rebuilt per attempt.
func (p *Provider) executeWithRetry(ctx context.Context, bodyBytes []byte) (*apiResponse, error) {
	var lastErr error

	for attempt := 1; attempt <= p.config.ProviderConfig.MaxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, "POST", APIBaseURL, bytes.NewReader(bodyBytes))
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-api-key", p.config.APIKey)
		req.Header.Set("anthropic-version", APIVersion)

		resp, err := p.executeRequest(req)
		if err == nil {
			return resp, nil
		}

		lastErr = err

		if !ai.IsRetryable(err) {
			return nil, err
		}
		if attempt >= p.config.ProviderConfig.MaxRetries {
			break
		}

		// Exponential backoff: base * 2^(attempt-1)
		delay := p.config.ProviderConfig.RetryBaseDelay * time.Duration(1<<(attempt-1))
		p.logger.Info("Retrying AI request", "attempt", attempt, "delay", delay, "error", err)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, lastErr
}

// executeRequest executes a single HTTP request
func (p *Provider) executeRequest(req *http.Request) (*apiResponse, error) {
	resp, err := p.client.Do(req)
	if err != nil {
		// Network errors are typically retryable
		return nil, ai.EAIUnavailable
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, p.mapHTTPError(resp.StatusCode, bodyBytes)
	}

	var apiResp apiResponse
	if err := json.Unmarshal(bodyBytes, &apiResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	return &apiResp, nil
}

// mapHTTPError maps HTTP status codes to ai package errors
func (p *Provider) mapHTTPError(statusCode int, body []byte) error {
	var errResp apiErrorResponse
	_ = json.Unmarshal(body, &errResp)

	switch statusCode {
	case http.StatusUnauthorized:
		return ai.EAIUnauthorized
	case http.StatusTooManyRequests:
		return ai.EAIRateLimit
	case http.StatusRequestTimeout:
		return ai.EAITimeout
	case http.StatusBadRequest:
		if errResp.Error.Type == "invalid_request_error" {
			return ai.EAIInvalidDocument
		}
		return fmt.Errorf("bad request: %s", errResp.Error.Message)
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return ai.EAIUnavailable
	default:
		return fmt.Errorf("API error (status %d): %s", statusCode, errResp.Error.Message)
	}
}

// jsonContent extracts the text content as raw JSON, stripping any code fences
// the model wraps around it.
func jsonContent(resp *apiResponse) (json.RawMessage, error) {
	if len(resp.Content) == 0 {
		return nil, fmt.Errorf("empty response content")
	}

	var textContent string
	for _, content := range resp.Content {
		if content.Type == "text" {
			textContent = content.Text
			break
		}
	}
	if textContent == "" {
		return nil, fmt.Errorf("no text content in response")
	}

	textContent = strings.TrimSpace(textContent)
	textContent = strings.TrimPrefix(textContent, "```json")
	textContent = strings.TrimPrefix(textContent, "```")
	textContent = strings.TrimSuffix(textContent, "```")
	textContent = strings.TrimSpace(textContent)

	if !json.Valid([]byte(textContent)) {
		return nil, fmt.Errorf("response is not valid JSON")
	}

	return json.RawMessage(textContent), nil
}

// parseJSONContent unmarshals the response text content into out.
func parseJSONContent(resp *apiResponse, out interface{}) error {
	raw, err := jsonContent(resp)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// usageInfo builds UsageInfo from a response.
func (p *Provider) usageInfo(resp *apiResponse, duration time.Duration) ai.UsageInfo {
	return ai.UsageInfo{
		Model:        p.config.Model,
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
		CostCents:    p.calculateCost(resp.Usage.InputTokens, resp.Usage.OutputTokens),
		Duration:     duration,
	}
}

// calculateCost calculates the cost in cents for the given token usage
func (p *Provider) calculateCost(inputTokens, outputTokens int) int {
	inputCost := (inputTokens * PricingInputCents) / 1_000_000
	outputCost := (outputTokens * PricingOutputCents) / 1_000_000
	return inputCost + outputCost
}

// trackUsage records AI usage in the database. Failures are logged, not
// returned, so billing bookkeeping never fails a user request.
func (p *Provider) trackUsage(ctx context.Context, userID, jobProfileID uuid.UUID, usage ai.UsageInfo, requestType string) {
	_, err := p.queries.CreateAIUsage(ctx, repository.CreateAIUsageParams{
		UserID: userID,
		JobProfileID: uuid.NullUUID{
			UUID:  jobProfileID,
			Valid: jobProfileID != uuid.Nil,
		},
		Model:        usage.Model,
		InputTokens:  int32(usage.InputTokens),
		OutputTokens: int32(usage.OutputTokens),
		CostCents:    int32(usage.CostCents),
		RequestType:  requestType,
	})
	if err != nil {
		p.logger.Error("Failed to track AI usage", "error", err)
	}

	metrics.AITokensTotal.WithLabelValues("input").Add(float64(usage.InputTokens))
	metrics.AITokensTotal.WithLabelValues("output").Add(float64(usage.OutputTokens))
	metrics.AICostCentsTotal.Add(float64(usage.CostCents))
}

// API request/response types

type apiRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	Messages  []apiMessage `json:"messages"`
}

type apiMessage struct {
	Role    string       `json:"role"`
	Content []apiContent `json:"content"`
}

type apiContent struct {
	Type   string             `json:"type"`
	Text   string             `json:"text,omitempty"`
	Source *apiDocumentSource `json:"source,omitempty"`
}

type apiDocumentSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type apiResponse struct {
	ID      string             `json:"id"`
	Type    string             `json:"type"`
	Role    string             `json:"role"`
	Content []apiContentOutput `json:"content"`
	Model   string             `json:"model"`
	Usage   apiUsage           `json:"usage"`
}

type apiContentOutput struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type apiUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type apiErrorResponse struct {
	Type  string   `json:"type"`
	Error apiError `json:"error"`
}

type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// questionOutput represents the JSON structure returned for question generation
type questionOutput struct {
	Question   string `json:"question"`
	Difficulty string `json:"difficulty"`
}

// feedbackOutput represents the JSON structure returned for answer feedback
type feedbackOutput struct {
	Rating   int    `json:"rating"`
	Feedback string `json:"feedback"`
}

// resumeOutput represents the JSON structure returned for resume analysis
type resumeOutput struct {
	Score        int      `json:"score"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
	Summary      string   `json:"summary"`
}

var _ ai.Provider = (*Provider)(nil)
