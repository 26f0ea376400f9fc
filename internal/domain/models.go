package domain

import "time"

// QuestionType distinguishes four-choice questions from true/false ones.
type QuestionType string

const (
	TypeMultiple QuestionType = "multiple"
	TypeBoolean  QuestionType = "boolean"
)

// Difficulty levels accepted by the trivia provider. Empty means any.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Question is one trivia question as returned by the provider. Prompt and
// answers are HTML-entity decoded at the provider boundary; the record is
// never mutated afterwards.
type Question struct {
	Category         string       `json:"category"`
	Type             QuestionType `json:"type"`
	Difficulty       string       `json:"difficulty"`
	Prompt           string       `json:"prompt"`
	CorrectAnswer    string       `json:"correctAnswer"`
	IncorrectAnswers []string     `json:"incorrectAnswers"`
}

// QuestionRequest describes what a session wants to fetch from the provider.
type QuestionRequest struct {
	Amount     int          `json:"amount"`     // 1-50, clamped by the client
	Category   string       `json:"category"`   // provider category ID, "" = any
	Difficulty string       `json:"difficulty"` // easy|medium|hard, "" = any
	Type       QuestionType `json:"type"`       // multiple|boolean, "" = any
}

// QuizResult is the submission payload for one completed attempt. All slices
// are index-aligned with the session's question order.
type QuizResult struct {
	Category       string    `json:"category"`
	Prompts        []string  `json:"prompts"`
	UserAnswers    []string  `json:"userAnswers"`
	CorrectAnswers []string  `json:"correctAnswers"`
	Score          int       `json:"score"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Category is one entry of the provider's category catalog.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
