package domain

import "fmt"

// Phase is the per-question state of a quiz session.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseInQuestion
	PhaseResolved
	PhaseFinished
)

var phaseNames = map[Phase]string{
	PhaseNotStarted: "not_started",
	PhaseInQuestion: "in_question",
	PhaseResolved:   "resolved",
	PhaseFinished:   "finished",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	for phase, name := range phaseNames {
		if name == string(text) {
			*p = phase
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", text)
}

// Outcome is how a question was resolved.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeCorrect
	OutcomeWrong
	OutcomeTimeout
)

var outcomeNames = map[Outcome]string{
	OutcomeNone:    "none",
	OutcomeCorrect: "correct",
	OutcomeWrong:   "wrong",
	OutcomeTimeout: "timeout",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Outcome) UnmarshalText(text []byte) error {
	for outcome, name := range outcomeNames {
		if name == string(text) {
			*o = outcome
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", text)
}

// QuestionView is the read-only presentation of the current question.
type QuestionView struct {
	Prompt     string     `json:"prompt"`
	Options    []string   `json:"options"` // display order
	Category   string     `json:"category"`
	Difficulty Difficulty `json:"difficulty"`
	Points     int        `json:"points"`
}

// Resolution describes the outcome of one question.
type Resolution struct {
	QuestionIndex int     `json:"questionIndex"`
	Prompt        string  `json:"prompt"`
	Category      string  `json:"category"`
	Outcome       Outcome `json:"outcome"`
	Submitted     string  `json:"submitted,omitempty"` // empty on timeout
	CorrectAnswer string  `json:"correctAnswer"`
	Awarded       int     `json:"awarded"`
	TotalScore    int     `json:"totalScore"`
}

// Correct reports whether the question was answered correctly.
func (r Resolution) Correct() bool {
	return r.Outcome == OutcomeCorrect
}

// CategoryResult is one row of the end-of-game category breakdown.
type CategoryResult struct {
	Category   string  `json:"category"`
	Total      int     `json:"total"`
	Scored     int     `json:"scored"`
	Percentage float64 `json:"percentage"`
}

// Summary is the end-of-game report.
type Summary struct {
	TotalScore         int              `json:"totalScore"`
	MaxScore           int              `json:"maxScore"`
	QuestionCount      int              `json:"questionCount"`
	Correct            int              `json:"correct"`
	Wrong              int              `json:"wrong"`
	Timeouts           int              `json:"timeouts"`
	AccuracyPercentage float64          `json:"accuracyPercentage"`
	Categories         []CategoryResult `json:"categories"`
	Grade              Grade            `json:"grade"`
	Results            []Resolution     `json:"results"`
}

// Snapshot is the state handed to presentation layers after every transition.
type Snapshot struct {
	GameID        string        `json:"gameId,omitempty"`
	Phase         Phase         `json:"phase"`
	Index         int           `json:"index"`
	QuestionCount int           `json:"questionCount"`
	Score         int           `json:"score"`
	TimeRemaining int           `json:"timeRemaining"`
	TimeBudget    int           `json:"timeBudget"`
	LowTime       bool          `json:"lowTime"`
	Question      *QuestionView `json:"question,omitempty"`
	Resolution    *Resolution   `json:"resolution,omitempty"`
	Summary       *Summary      `json:"summary,omitempty"`
}

// Progress renders "Question i of N" for the current position.
func (s Snapshot) Progress() string {
	if s.QuestionCount == 0 {
		return ""
	}
	return fmt.Sprintf("Question %d of %d", s.Index+1, s.QuestionCount)
}
