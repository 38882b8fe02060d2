package mock

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/prepdeck/prepdeck/internal/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider() *Provider {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return New(logger)
}

func TestGenerateQuestion_DefaultResponse(t *testing.T) {
	p := newTestProvider()

	q, err := p.GenerateQuestion(context.Background(), ai.GenerateQuestionParams{
		JobTitle:   "Backend Engineer",
		Difficulty: "hard",
	})
	require.NoError(t, err)
	require.NotNil(t, q)

	assert.NotEmpty(t, q.Text)
	assert.Equal(t, "hard", q.Difficulty)
	assert.Equal(t, 1, p.GenerateQuestionCalls)
}

func TestGenerateQuestion_DefaultsDifficulty(t *testing.T) {
	p := newTestProvider()

	q, err := p.GenerateQuestion(context.Background(), ai.GenerateQuestionParams{
		JobTitle: "Backend Engineer",
	})
	require.NoError(t, err)

	assert.Equal(t, "medium", q.Difficulty)
}

func TestGenerateQuestion_ConfiguredError(t *testing.T) {
	p := newTestProvider()
	p.GenerateQuestionError = errors.New("boom")

	_, err := p.GenerateQuestion(context.Background(), ai.GenerateQuestionParams{})
	assert.Error(t, err)
	assert.Equal(t, 1, p.GenerateQuestionCalls)
}

func TestGenerateQuestion_ConfiguredResponse(t *testing.T) {
	p := newTestProvider()
	p.GenerateQuestionResponse = &ai.GeneratedQuestion{
		Text:       "custom question",
		Difficulty: "easy",
	}

	q, err := p.GenerateQuestion(context.Background(), ai.GenerateQuestionParams{Difficulty: "hard"})
	require.NoError(t, err)

	assert.Equal(t, "custom question", q.Text)
	assert.Equal(t, "easy", q.Difficulty)
}

func TestGenerateFeedback_DefaultResponse(t *testing.T) {
	p := newTestProvider()

	fb, err := p.GenerateFeedback(context.Background(), ai.FeedbackParams{
		QuestionText: "Why Go?",
		Answer:       "Because of the concurrency model.",
	})
	require.NoError(t, err)
	require.NotNil(t, fb)

	assert.NotEmpty(t, fb.Feedback)
	assert.GreaterOrEqual(t, fb.Rating, 1)
	assert.LessOrEqual(t, fb.Rating, 10)
	assert.Equal(t, 1, p.GenerateFeedbackCalls)
}

func TestAnalyzeResume_DefaultResponse(t *testing.T) {
	p := newTestProvider()

	result, err := p.AnalyzeResume(context.Background(), ai.AnalyzeResumeParams{
		JobTitle: "Backend Engineer",
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.GreaterOrEqual(t, result.Score, 0)
	assert.LessOrEqual(t, result.Score, 100)
	assert.NotEmpty(t, result.Strengths)
	assert.NotEmpty(t, result.Improvements)
	assert.NotEmpty(t, result.Summary)
	assert.NotEmpty(t, result.Raw, "raw JSON payload should be populated")
	assert.Equal(t, 1, p.AnalyzeResumeCalls)
}

func TestReset_ClearsStateAndCounters(t *testing.T) {
	p := newTestProvider()
	p.GenerateQuestionError = errors.New("boom")

	_, _ = p.GenerateQuestion(context.Background(), ai.GenerateQuestionParams{})
	_, _ = p.GenerateFeedback(context.Background(), ai.FeedbackParams{})
	_, _ = p.AnalyzeResume(context.Background(), ai.AnalyzeResumeParams{})

	p.Reset()

	assert.Equal(t, 0, p.GenerateQuestionCalls)
	assert.Equal(t, 0, p.GenerateFeedbackCalls)
	assert.Equal(t, 0, p.AnalyzeResumeCalls)
	assert.Nil(t, p.GenerateQuestionError)

	q, err := p.GenerateQuestion(context.Background(), ai.GenerateQuestionParams{})
	require.NoError(t, err)
	assert.NotEmpty(t, q.Text)
}
