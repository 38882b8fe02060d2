package domain

import (
	"time"

	"github.com/google/uuid"
)

// QuestionDifficulty grades a practice question.
type QuestionDifficulty string

const (
	DifficultyEasy   QuestionDifficulty = "easy"
	DifficultyMedium QuestionDifficulty = "medium"
	DifficultyHard   QuestionDifficulty = "hard"
)

// Valid checks if the difficulty is known.
func (d QuestionDifficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	default:
		return false
	}
}

// Question is an AI-generated practice question for a job profile.
type Question struct {
	ID           uuid.UUID
	JobProfileID uuid.UUID
	Text         string
	Difficulty   QuestionDifficulty
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// QuestionFeedback is the AI evaluation of a user's answer to a question.
type QuestionFeedback struct {
	QuestionID uuid.UUID
	Answer     string
	Rating     int // 1-10
	Feedback   string
}
