package domain

import (
	"fmt"
	"strings"
)

// OptionCount is the number of candidate answers every question carries.
const OptionCount = 4

// Question is an immutable trivia fact plus its one-shot submission state.
// A Question is not safe for concurrent use; the owning engine serializes access.
type Question struct {
	prompt        string
	correctAnswer string
	options       []string
	difficulty    Difficulty
	category      string

	answered  bool
	submitted *string
}

// NewQuestion validates its inputs and returns a fresh, unanswered question.
func NewQuestion(prompt, correctAnswer string, options []string, difficulty Difficulty, category string) (*Question, error) {
	prompt = strings.TrimSpace(prompt)
	correctAnswer = strings.TrimSpace(correctAnswer)
	category = strings.TrimSpace(category)

	switch {
	case prompt == "":
		return nil, fmt.Errorf("%w: prompt is required", ErrInvalidQuestion)
	case correctAnswer == "":
		return nil, fmt.Errorf("%w: correct answer is required", ErrInvalidQuestion)
	case category == "":
		return nil, fmt.Errorf("%w: category is required", ErrInvalidQuestion)
	case !difficulty.Valid():
		return nil, fmt.Errorf("%w: unknown difficulty %d", ErrInvalidQuestion, int(difficulty))
	case len(options) != OptionCount:
		return nil, fmt.Errorf("%w: expected %d options, got %d", ErrInvalidQuestion, OptionCount, len(options))
	}

	seen := make(map[string]struct{}, len(options))
	copied := make([]string, 0, len(options))
	hasCorrect := false
	for i, option := range options {
		option = strings.TrimSpace(option)
		if option == "" {
			return nil, fmt.Errorf("%w: option %d is empty", ErrInvalidQuestion, i)
		}
		key := strings.ToLower(option)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: duplicate option %q", ErrInvalidQuestion, option)
		}
		seen[key] = struct{}{}
		if strings.EqualFold(option, correctAnswer) {
			hasCorrect = true
		}
		copied = append(copied, option)
	}
	if !hasCorrect {
		return nil, fmt.Errorf("%w: options do not contain the correct answer %q", ErrInvalidQuestion, correctAnswer)
	}

	return &Question{
		prompt:        prompt,
		correctAnswer: correctAnswer,
		options:       copied,
		difficulty:    difficulty,
		category:      category,
	}, nil
}

// MustQuestion is NewQuestion for static fixtures; it panics on invalid input.
func MustQuestion(prompt, correctAnswer string, options []string, difficulty Difficulty, category string) *Question {
	q, err := NewQuestion(prompt, correctAnswer, options, difficulty, category)
	if err != nil {
		panic(err)
	}
	return q
}

func (q *Question) Prompt() string         { return q.prompt }
func (q *Question) CorrectAnswer() string  { return q.correctAnswer }
func (q *Question) Difficulty() Difficulty { return q.difficulty }
func (q *Question) Category() string       { return q.category }
func (q *Question) Points() int            { return q.difficulty.Points() }
func (q *Question) Answered() bool         { return q.answered }

// Options returns a copy of the candidate answers in declaration order.
func (q *Question) Options() []string {
	out := make([]string, len(q.options))
	copy(out, q.options)
	return out
}

// SubmittedAnswer returns the recorded submission. ok is false when nothing was
// submitted or the question timed out.
func (q *Question) SubmittedAnswer() (answer string, ok bool) {
	if q.submitted == nil {
		return "", false
	}
	return *q.submitted, true
}

// IsCorrect compares text against the correct answer without recording anything.
func (q *Question) IsCorrect(text string) bool {
	return strings.EqualFold(strings.TrimSpace(text), q.correctAnswer)
}

// SubmitAnswer records the player's single submission and reports whether it is correct.
func (q *Question) SubmitAnswer(text string) (bool, error) {
	if q.answered {
		return false, ErrAlreadyAnswered
	}
	q.answered = true
	q.submitted = &text
	return q.IsCorrect(text), nil
}

// SubmitTimeout records the single submission as "no answer".
func (q *Question) SubmitTimeout() error {
	if q.answered {
		return ErrAlreadyAnswered
	}
	q.answered = true
	q.submitted = nil
	return nil
}

// Reset returns the question to its unanswered state.
func (q *Question) Reset() {
	q.answered = false
	q.submitted = nil
}

// Info renders a short card description.
func (q *Question) Info() string {
	status := "Not answered"
	if q.answered {
		status = "Answered"
	}
	return fmt.Sprintf("Category: %s\nDifficulty: %s\nPoints: %d\nStatus: %s",
		q.category, q.difficulty, q.Points(), status)
}
