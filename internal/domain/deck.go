package domain

import (
	"fmt"
	"math/rand"
)

// Deck is the ordered set of questions for one game. Membership is fixed at construction.
type Deck struct {
	questions []*Question
}

// NewDeck builds a deck in the given order.
func NewDeck(questions ...*Question) (*Deck, error) {
	if len(questions) == 0 {
		return nil, ErrEmptyDeck
	}
	copied := make([]*Question, len(questions))
	seen := make(map[*Question]int, len(questions))
	for i, q := range questions {
		if q == nil {
			return nil, fmt.Errorf("%w: question %d is nil", ErrInvalidQuestion, i)
		}
		// A question instance holds one submission, so it can appear only once.
		if first, dup := seen[q]; dup {
			return nil, fmt.Errorf("%w: question %d repeats question %d", ErrInvalidQuestion, i, first)
		}
		seen[q] = i
		copied[i] = q
	}
	return &Deck{questions: copied}, nil
}

// Size returns the number of questions.
func (d *Deck) Size() int {
	return len(d.questions)
}

// At returns the question at index.
func (d *Deck) At(index int) (*Question, error) {
	if index < 0 || index >= len(d.questions) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, index, len(d.questions))
	}
	return d.questions[index], nil
}

// Questions returns the current order. The slice is a copy; the questions are shared.
func (d *Deck) Questions() []*Question {
	out := make([]*Question, len(d.questions))
	copy(out, d.questions)
	return out
}

// Shuffle permutes the deck in place.
func (d *Deck) Shuffle(rnd *rand.Rand) {
	rnd.Shuffle(len(d.questions), func(i, j int) {
		d.questions[i], d.questions[j] = d.questions[j], d.questions[i]
	})
}

// Reset clears the submission state of every question.
func (d *Deck) Reset() {
	for _, q := range d.questions {
		q.Reset()
	}
}

// MaxScore is the score of a perfect game.
func (d *Deck) MaxScore() int {
	total := 0
	for _, q := range d.questions {
		total += q.Points()
	}
	return total
}
