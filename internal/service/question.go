package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/prepdeck/prepdeck/internal/ai"
	"github.com/prepdeck/prepdeck/internal/domain"
	"github.com/prepdeck/prepdeck/internal/metrics"
	"github.com/prepdeck/prepdeck/internal/repository"
)

// QuestionService defines the interface for practice question operations.
type QuestionService interface {
	// Generate consumes one unit of question quota and produces an AI
	// question for the job profile. A denied decision is returned without
	// error; the caller decides how to surface it.
	Generate(ctx context.Context, user *domain.User, jobProfileID uuid.UUID, difficulty domain.QuestionDifficulty) (*domain.Question, domain.Decision, error)

	// GetByID retrieves a question, verifying ownership through its job profile.
	GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Question, error)

	// List retrieves all questions for a job profile, oldest first.
	List(ctx context.Context, jobProfileID, userID uuid.UUID) ([]domain.Question, error)

	// Answer evaluates the user's answer to a question. Feedback generation
	// is not metered; only question generation consumes quota.
	Answer(ctx context.Context, user *domain.User, questionID uuid.UUID, answer string) (*domain.QuestionFeedback, error)
}

// questionService implements QuestionService.
type questionService struct {
	queries  *repository.Queries
	profiles JobProfileService
	usage    UsageService
	provider ai.Provider
	logger   *slog.Logger
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(queries *repository.Queries, profiles JobProfileService, usage UsageService, provider ai.Provider, logger *slog.Logger) QuestionService {
	return &questionService{
		queries:  queries,
		profiles: profiles,
		usage:    usage,
		provider: provider,
		logger:   logger,
	}
}

// Generate consumes quota and produces one AI question for the job profile.
func (s *questionService) Generate(ctx context.Context, user *domain.User, jobProfileID uuid.UUID, difficulty domain.QuestionDifficulty) (*domain.Question, domain.Decision, error) {
	const op = "QuestionService.Generate"

	if difficulty != "" && !difficulty.Valid() {
		return nil, domain.Decision{}, domain.Invalid(op, "Difficulty must be easy, medium, or hard")
	}

	profile, err := s.profiles.GetByID(ctx, jobProfileID, user.ID)
	if err != nil {
		return nil, domain.Decision{}, err
	}

	// Collect prior questions so the provider avoids repeats
	previous, err := s.queries.ListQuestionsByJobProfileID(ctx, jobProfileID)
	if err != nil {
		return nil, domain.Decision{}, domain.Internal(err, op, "Failed to list existing questions")
	}
	previousTexts := make([]string, len(previous))
	for i, q := range previous {
		previousTexts[i] = q.Text
	}

	// Consume quota before the AI call; the AI call is the expensive part
	decision, _, err := s.usage.Consume(ctx, user.ID, user.PlanTier, domain.FeatureQuestions)
	if err != nil {
		return nil, domain.Decision{}, err
	}
	if !decision.Allowed {
		return nil, decision, nil
	}

	generated, err := s.provider.GenerateQuestion(ctx, ai.GenerateQuestionParams{
		JobTitle:          profile.Title,
		Company:           profile.Company,
		Description:       profile.Description,
		ExperienceLevel:   string(profile.ExperienceLevel),
		Difficulty:        string(difficulty),
		PreviousQuestions: previousTexts,
		UserID:            user.ID,
		JobProfileID:      jobProfileID,
	})
	if err != nil {
		s.logger.Error("question generation failed", "error", err, "op", op, "job_profile_id", jobProfileID)
		s.refundUsage(ctx, user.ID)
		return nil, decision, domain.Internal(err, op, "Failed to generate question")
	}

	resultDifficulty := domain.QuestionDifficulty(generated.Difficulty)
	if !resultDifficulty.Valid() {
		resultDifficulty = domain.DifficultyMedium
	}

	repoQuestion, err := s.queries.CreateQuestion(ctx, repository.CreateQuestionParams{
		JobProfileID: jobProfileID,
		Text:         generated.Text,
		Difficulty:   string(resultDifficulty),
	})
	if err != nil {
		s.refundUsage(ctx, user.ID)
		return nil, decision, domain.Internal(err, op, "Failed to save question")
	}

	question := repoQuestionToDomain(repoQuestion)
	metrics.QuestionsGenerated.WithLabelValues(string(resultDifficulty)).Inc()
	s.logger.Info("question generated",
		"question_id", question.ID,
		"job_profile_id", jobProfileID,
		"user_id", user.ID,
		"difficulty", question.Difficulty,
	)

	return &question, decision, nil
}

// refundUsage hands back the consumed unit when generation fails after the
// quota check. Best effort; a failed refund only costs the user one unit.
func (s *questionService) refundUsage(ctx context.Context, userID uuid.UUID) {
	if _, err := s.usage.Release(ctx, userID, domain.FeatureQuestions); err != nil {
		s.logger.Error("failed to release question usage", "error", err, "user_id", userID)
	}
}

// GetByID retrieves a question, verifying ownership through its job profile.
func (s *questionService) GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Question, error) {
	const op = "QuestionService.GetByID"

	repoQuestion, err := s.queries.GetQuestionByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "question", id.String())
		}
		return nil, domain.Internal(err, op, "Failed to retrieve question")
	}

	if _, err := s.profiles.GetByID(ctx, repoQuestion.JobProfileID, userID); err != nil {
		return nil, domain.NotFound(op, "question", id.String())
	}

	question := repoQuestionToDomain(repoQuestion)
	return &question, nil
}

// List retrieves all questions for a job profile.
func (s *questionService) List(ctx context.Context, jobProfileID, userID uuid.UUID) ([]domain.Question, error) {
	const op = "QuestionService.List"

	if _, err := s.profiles.GetByID(ctx, jobProfileID, userID); err != nil {
		return nil, err
	}

	repoQuestions, err := s.queries.ListQuestionsByJobProfileID(ctx, jobProfileID)
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to list questions")
	}

	questions := make([]domain.Question, len(repoQuestions))
	for i, rq := range repoQuestions {
		questions[i] = repoQuestionToDomain(rq)
	}

	return questions, nil
}

// Answer evaluates the user's answer to a question.
func (s *questionService) Answer(ctx context.Context, user *domain.User, questionID uuid.UUID, answer string) (*domain.QuestionFeedback, error) {
	const op = "QuestionService.Answer"

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil, domain.Invalid(op, "Answer is required")
	}

	question, err := s.GetByID(ctx, questionID, user.ID)
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.GetByID(ctx, question.JobProfileID, user.ID)
	if err != nil {
		return nil, err
	}

	feedback, err := s.provider.GenerateFeedback(ctx, ai.FeedbackParams{
		QuestionText:    question.Text,
		Answer:          answer,
		JobTitle:        profile.Title,
		ExperienceLevel: string(profile.ExperienceLevel),
		UserID:          user.ID,
		JobProfileID:    profile.ID,
	})
	if err != nil {
		s.logger.Error("answer feedback failed", "error", err, "op", op, "question_id", questionID)
		return nil, domain.Internal(err, op, "Failed to evaluate answer")
	}

	return &domain.QuestionFeedback{
		QuestionID: questionID,
		Answer:     answer,
		Rating:     feedback.Rating,
		Feedback:   feedback.Feedback,
	}, nil
}

// repoQuestionToDomain converts a repository.Question to domain.Question.
func repoQuestionToDomain(q repository.Question) domain.Question {
	return domain.Question{
		ID:           q.ID,
		JobProfileID: q.JobProfileID,
		Text:         q.Text,
		Difficulty:   domain.QuestionDifficulty(q.Difficulty),
		CreatedAt:    q.CreatedAt,
		UpdatedAt:    q.UpdatedAt,
	}
}

var _ QuestionService = (*questionService)(nil)
