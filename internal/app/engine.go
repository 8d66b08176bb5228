package app

import (
	"fmt"
	"math/rand"
	"time"

	"trivia-quiz/internal/domain"
)

const (
	// DefaultTimeBudget is the number of seconds a player gets per question.
	DefaultTimeBudget = 30
	// LowTimeThreshold is the remaining time at which presentations warn the player.
	LowTimeThreshold = 10
)

// Engine is the quiz session state machine. It is driven by discrete Tick and
// Answer events and holds no timer of its own. An Engine is not safe for
// concurrent use; Game serializes access to it.
type Engine struct {
	budget int
	rnd    *rand.Rand

	deck      *domain.Deck
	phase     domain.Phase
	index     int
	score     int
	remaining int
	order     []string
	last      *domain.Resolution
	results   []domain.Resolution
	scored    map[string]int
}

// EngineOption customizes an Engine.
type EngineOption func(*Engine)

// WithTimeBudget sets the per-question countdown in seconds. Non-positive values are ignored.
func WithTimeBudget(seconds int) EngineOption {
	return func(e *Engine) {
		if seconds > 0 {
			e.budget = seconds
		}
	}
}

// WithRand sets the source used for deck and option shuffles.
func WithRand(rnd *rand.Rand) EngineOption {
	return func(e *Engine) {
		if rnd != nil {
			e.rnd = rnd
		}
	}
}

func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		budget: DefaultTimeBudget,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		phase:  domain.PhaseNotStarted,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Phase returns the current phase.
func (e *Engine) Phase() domain.Phase { return e.phase }

// Score returns the running total.
func (e *Engine) Score() int { return e.score }

// TimeRemaining returns the seconds left on the current question.
func (e *Engine) TimeRemaining() int { return e.remaining }

// Index returns the 0-based position of the current question.
func (e *Engine) Index() int { return e.index }

// TimeBudget returns the per-question countdown in seconds.
func (e *Engine) TimeBudget() int { return e.budget }

// Start shuffles deck and enters its first question. It may be called in any
// phase and discards any game in progress.
func (e *Engine) Start(deck *domain.Deck) error {
	if deck == nil || deck.Size() == 0 {
		return domain.ErrEmptyDeck
	}
	e.deck = deck
	return e.restart()
}

// Replay starts the same deck over once a game has finished.
func (e *Engine) Replay() error {
	if e.phase != domain.PhaseFinished {
		return e.reject("replay")
	}
	return e.restart()
}

func (e *Engine) restart() error {
	e.deck.Reset()
	e.deck.Shuffle(e.rnd)
	e.index = 0
	e.score = 0
	e.last = nil
	e.results = make([]domain.Resolution, 0, e.deck.Size())
	e.scored = make(map[string]int)
	return e.enterQuestion()
}

func (e *Engine) enterQuestion() error {
	q, err := e.deck.At(e.index)
	if err != nil {
		return err
	}
	e.order = q.Options()
	e.rnd.Shuffle(len(e.order), func(i, j int) {
		e.order[i], e.order[j] = e.order[j], e.order[i]
	})
	e.remaining = e.budget
	e.last = nil
	e.phase = domain.PhaseInQuestion
	return nil
}

// Tick counts the current question down by one second. expired reports whether
// this tick ran the clock out and resolved the question as a timeout.
func (e *Engine) Tick() (expired bool, err error) {
	if e.phase != domain.PhaseInQuestion {
		return false, e.reject("tick")
	}
	e.remaining--
	if e.remaining > 0 {
		return false, nil
	}
	e.remaining = 0

	q, err := e.deck.At(e.index)
	if err != nil {
		return false, err
	}
	if err := q.SubmitTimeout(); err != nil {
		return false, err
	}
	e.resolve(q, domain.OutcomeTimeout, "")
	return true, nil
}

// Answer submits the player's choice for the current question.
func (e *Engine) Answer(choice string) (domain.Resolution, error) {
	if e.phase != domain.PhaseInQuestion {
		return domain.Resolution{}, e.reject("answer")
	}
	q, err := e.deck.At(e.index)
	if err != nil {
		return domain.Resolution{}, err
	}
	correct, err := q.SubmitAnswer(choice)
	if err != nil {
		return domain.Resolution{}, err
	}
	outcome := domain.OutcomeWrong
	if correct {
		outcome = domain.OutcomeCorrect
	}
	return e.resolve(q, outcome, choice), nil
}

func (e *Engine) resolve(q *domain.Question, outcome domain.Outcome, submitted string) domain.Resolution {
	awarded := 0
	if outcome == domain.OutcomeCorrect {
		awarded = q.Points()
		e.score += awarded
		e.scored[q.Category()] += awarded
	}
	res := domain.Resolution{
		QuestionIndex: e.index,
		Prompt:        q.Prompt(),
		Category:      q.Category(),
		Outcome:       outcome,
		Submitted:     submitted,
		CorrectAnswer: q.CorrectAnswer(),
		Awarded:       awarded,
		TotalScore:    e.score,
	}
	e.results = append(e.results, res)
	e.last = &res
	e.phase = domain.PhaseResolved
	return res
}

// Advance leaves a resolved question for the next one, or finishes the game
// after the last question.
func (e *Engine) Advance() error {
	if e.phase != domain.PhaseResolved {
		return e.reject("advance")
	}
	if e.index >= e.deck.Size()-1 {
		e.phase = domain.PhaseFinished
		return nil
	}
	e.index++
	return e.enterQuestion()
}

// Last returns the most recent resolution of the current question, if any.
func (e *Engine) Last() (domain.Resolution, bool) {
	if e.last == nil || e.phase != domain.PhaseResolved && e.phase != domain.PhaseFinished {
		return domain.Resolution{}, false
	}
	return *e.last, true
}

// Summary reports the end-of-game results. It is only available once finished.
func (e *Engine) Summary() (domain.Summary, error) {
	if e.phase != domain.PhaseFinished {
		return domain.Summary{}, e.reject("summary")
	}
	return summarize(e.deck, e.results, e.scored), nil
}

// Snapshot captures the state presentations render.
func (e *Engine) Snapshot() domain.Snapshot {
	snap := domain.Snapshot{
		Phase:         e.phase,
		Index:         e.index,
		Score:         e.score,
		TimeRemaining: e.remaining,
		TimeBudget:    e.budget,
	}
	if e.deck == nil {
		return snap
	}
	snap.QuestionCount = e.deck.Size()

	switch e.phase {
	case domain.PhaseInQuestion, domain.PhaseResolved:
		q, err := e.deck.At(e.index)
		if err != nil {
			return snap
		}
		order := make([]string, len(e.order))
		copy(order, e.order)
		snap.Question = &domain.QuestionView{
			Prompt:     q.Prompt(),
			Options:    order,
			Category:   q.Category(),
			Difficulty: q.Difficulty(),
			Points:     q.Points(),
		}
		snap.LowTime = e.phase == domain.PhaseInQuestion && e.remaining <= LowTimeThreshold
	case domain.PhaseFinished:
		summary := summarize(e.deck, e.results, e.scored)
		snap.Summary = &summary
	}
	if res, ok := e.Last(); ok {
		snap.Resolution = &res
	}
	return snap
}

func (e *Engine) reject(intent string) error {
	return fmt.Errorf("%w: %s while %s", domain.ErrInvalidTransition, intent, e.phase)
}
