package tui

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trivia-quiz/internal/domain"
)

type fakePlayer struct {
	mu       sync.Mutex
	answers  []string
	advances int
	replays  int
	err      error
	updates  chan domain.Snapshot
}

func newFakePlayer() *fakePlayer {
	return &fakePlayer{updates: make(chan domain.Snapshot, 8)}
}

func (f *fakePlayer) Answer(_ context.Context, choice string) (domain.Resolution, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answers = append(f.answers, choice)
	return domain.Resolution{}, f.err
}

func (f *fakePlayer) Advance(context.Context) (domain.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.advances++
	return domain.Snapshot{}, f.err
}

func (f *fakePlayer) Replay(context.Context) (domain.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replays++
	return domain.Snapshot{}, f.err
}

func (f *fakePlayer) Subscribe() (<-chan domain.Snapshot, func()) {
	return f.updates, func() {}
}

func questionSnapshot() domain.Snapshot {
	return domain.Snapshot{
		Phase:         domain.PhaseInQuestion,
		Index:         0,
		QuestionCount: 3,
		Score:         0,
		TimeRemaining: 30,
		TimeBudget:    30,
		Question: &domain.QuestionView{
			Prompt:     "What is the capital of France?",
			Options:    []string{"Berlin", "Paris", "Madrid", "London"},
			Category:   "Geography",
			Difficulty: domain.DifficultyEasy,
			Points:     100,
		},
	}
}

func resolvedSnapshot(outcome domain.Outcome) domain.Snapshot {
	snap := questionSnapshot()
	snap.Phase = domain.PhaseResolved
	snap.Resolution = &domain.Resolution{Outcome: outcome, CorrectAnswer: "Paris", Awarded: 100}
	return snap
}

func finishedSnapshot() domain.Snapshot {
	return domain.Snapshot{
		Phase:         domain.PhaseFinished,
		Index:         2,
		QuestionCount: 3,
		Score:         300,
		Summary: &domain.Summary{
			TotalScore:         300,
			MaxScore:           600,
			QuestionCount:      3,
			Correct:            2,
			Wrong:              1,
			AccuracyPercentage: 100,
			Categories: []domain.CategoryResult{
				{Category: "Geography", Total: 300, Scored: 300, Percentage: 100},
			},
			Grade: domain.GradeOutstanding,
		},
	}
}

func TestChoiceAt(t *testing.T) {
	view := questionSnapshot().Question
	tests := map[string]struct {
		key    string
		want   string
		wantOK bool
	}{
		"first":        {key: "1", want: "Berlin", wantOK: true},
		"last":         {key: "4", want: "London", wantOK: true},
		"out of range": {key: "5"},
		"zero":         {key: "0"},
		"text":         {key: "Paris"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, ok := choiceAt(view, tc.key)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
	_, ok := choiceAt(nil, "1")
	assert.False(t, ok)
}

func TestFormatSummary(t *testing.T) {
	out := formatSummary(*finishedSnapshot().Summary)
	assert.Contains(t, out, "Final score: 300 / 600")
	assert.Contains(t, out, "Accuracy: 100.0%")
	assert.Contains(t, out, "Geography")
	assert.Contains(t, out, "Outstanding: ")
}

func TestFormatResolution(t *testing.T) {
	assert.Equal(t, "Correct! +100 points", formatResolution(domain.Resolution{Outcome: domain.OutcomeCorrect, Awarded: 100}))
	assert.Contains(t, formatResolution(domain.Resolution{Outcome: domain.OutcomeWrong, CorrectAnswer: "Paris"}), "Wrong!")
	assert.Contains(t, formatResolution(domain.Resolution{Outcome: domain.OutcomeTimeout, CorrectAnswer: "Paris"}), "Time's up!")
}

func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	return cmd()
}

func TestModel_AnswersByOptionNumber(t *testing.T) {
	player := newFakePlayer()
	m := NewModel(context.Background(), player, player.updates, Options{NoColor: true})

	next, cmd := m.Update(snapshotMsg(questionSnapshot()))
	m = next.(Model)
	assert.NotNil(t, cmd)
	assert.Contains(t, m.View(), "What is the capital of France?")
	assert.Contains(t, m.View(), "2. Paris")
	assert.Contains(t, m.View(), "Question 1 of 3 | Score: 0")

	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2")})
	m = next.(Model)
	assert.Nil(t, runCmd(t, cmd))
	assert.Equal(t, []string{"Paris"}, player.answers)

	// Advance keys do nothing while the question is open.
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Zero(t, player.advances)
}

func TestModel_AdvanceAndReplay(t *testing.T) {
	player := newFakePlayer()
	m := NewModel(context.Background(), player, player.updates, Options{NoColor: true})

	next, _ := m.Update(snapshotMsg(resolvedSnapshot(domain.OutcomeWrong)))
	m = next.(Model)
	assert.Contains(t, m.View(), "Wrong! The correct answer was: Paris")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	runCmd(t, cmd)
	assert.Equal(t, 1, player.advances)

	next, _ = m.Update(snapshotMsg(finishedSnapshot()))
	m = next.(Model)
	assert.Contains(t, m.View(), "Final score: 300 / 600")

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	runCmd(t, cmd)
	assert.Equal(t, 1, player.replays)
}

func TestModel_ShowsErrorsExceptRaces(t *testing.T) {
	player := newFakePlayer()
	m := NewModel(context.Background(), player, player.updates, Options{NoColor: true})
	next, _ := m.Update(snapshotMsg(questionSnapshot()))
	m = next.(Model)

	player.err = domain.ErrInvalidTransition
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1")})
	assert.Nil(t, runCmd(t, cmd))

	player.err = domain.ErrGameClosed
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1")})
	msg := runCmd(t, cmd)
	next, _ = m.Update(msg)
	assert.Contains(t, next.(Model).View(), domain.ErrGameClosed.Error())
}

func TestModel_Quit(t *testing.T) {
	player := newFakePlayer()
	m := NewModel(context.Background(), player, player.updates, Options{})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.Equal(t, tea.QuitMsg{}, runCmd(t, cmd))

	close(player.updates)
	assert.Equal(t, tea.QuitMsg{}, waitForSnapshot(player.updates)())
}

func TestPlain_RendersTransitionsOnce(t *testing.T) {
	var out bytes.Buffer
	p := NewPlain(newFakePlayer(), &out)

	snap := questionSnapshot()
	p.render(snap)
	snap.TimeRemaining = 29
	p.render(snap)
	snap.TimeRemaining = 10
	snap.LowTime = true
	p.render(snap)
	snap.TimeRemaining = 9
	p.render(snap)
	p.render(resolvedSnapshot(domain.OutcomeTimeout))
	p.render(finishedSnapshot())

	text := out.String()
	assert.Equal(t, 1, strings.Count(text, "What is the capital of France?"))
	assert.Equal(t, 1, strings.Count(text, "seconds left!"))
	assert.Contains(t, text, "10 seconds left!")
	assert.Contains(t, text, "EASY (100 pts)")
	assert.Contains(t, text, "Time's up! The correct answer was: Paris")
	assert.Contains(t, text, "Type r to play again")
}

func TestPlain_Handle(t *testing.T) {
	tests := map[string]struct {
		snap     domain.Snapshot
		line     string
		err      error
		wantQuit bool
		wantErr  bool
		check    func(t *testing.T, f *fakePlayer)
	}{
		"option number answers": {
			snap:  questionSnapshot(),
			line:  "2",
			check: func(t *testing.T, f *fakePlayer) { assert.Equal(t, []string{"Paris"}, f.answers) },
		},
		"free text answers": {
			snap:  questionSnapshot(),
			line:  "paris",
			check: func(t *testing.T, f *fakePlayer) { assert.Equal(t, []string{"paris"}, f.answers) },
		},
		"empty line while asking is ignored": {
			snap:  questionSnapshot(),
			line:  "",
			check: func(t *testing.T, f *fakePlayer) { assert.Empty(t, f.answers) },
		},
		"any line advances": {
			snap:  resolvedSnapshot(domain.OutcomeCorrect),
			line:  "",
			check: func(t *testing.T, f *fakePlayer) { assert.Equal(t, 1, f.advances) },
		},
		"r replays": {
			snap:  finishedSnapshot(),
			line:  "R",
			check: func(t *testing.T, f *fakePlayer) { assert.Equal(t, 1, f.replays) },
		},
		"q quits": {
			snap:     questionSnapshot(),
			line:     "q",
			wantQuit: true,
			check:    func(t *testing.T, f *fakePlayer) { assert.Empty(t, f.answers) },
		},
		"lost race is ignored": {
			snap: questionSnapshot(),
			line: "1",
			err:  domain.ErrInvalidTransition,
		},
		"closed game quits": {
			snap:     questionSnapshot(),
			line:     "1",
			err:      domain.ErrGameClosed,
			wantQuit: true,
		},
		"other errors surface": {
			snap:    questionSnapshot(),
			line:    "1",
			err:     assert.AnError,
			wantErr: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			player := newFakePlayer()
			player.err = tc.err
			p := NewPlain(player, &bytes.Buffer{})

			quit, err := p.handle(context.Background(), tc.snap, tc.line)
			assert.Equal(t, tc.wantQuit, quit)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			if tc.check != nil {
				tc.check(t, player)
			}
		})
	}
}

func TestPlain_RunStopsAtEndOfInput(t *testing.T) {
	player := newFakePlayer()
	player.updates <- questionSnapshot()
	var out bytes.Buffer

	err := NewPlain(player, &out).Run(context.Background(), strings.NewReader(""))
	assert.NoError(t, err)
}

func TestPlain_CatchUpAppliesLinesToLatestState(t *testing.T) {
	player := newFakePlayer()
	var out bytes.Buffer
	p := NewPlain(player, &out)

	stale := questionSnapshot()
	p.render(stale)
	player.updates <- resolvedSnapshot(domain.OutcomeTimeout)

	snap, open := p.catchUp(player.updates, stale)
	require.True(t, open)
	assert.Equal(t, domain.PhaseResolved, snap.Phase)
	assert.Contains(t, out.String(), "Time's up!")

	quit, err := p.handle(context.Background(), snap, "")
	require.NoError(t, err)
	assert.False(t, quit)
	assert.Equal(t, 1, player.advances)
	assert.Empty(t, player.answers)
}

func TestPlain_CatchUpStopsOnClosedUpdates(t *testing.T) {
	updates := make(chan domain.Snapshot, 1)
	updates <- questionSnapshot()
	close(updates)

	p := NewPlain(newFakePlayer(), &bytes.Buffer{})
	snap, open := p.catchUp(updates, domain.Snapshot{})
	assert.False(t, open)
	assert.Equal(t, domain.PhaseInQuestion, snap.Phase)
}

func TestPlain_RunAppliesQueuedStateBeforeInput(t *testing.T) {
	player := newFakePlayer()
	player.updates <- questionSnapshot()
	player.updates <- resolvedSnapshot(domain.OutcomeCorrect)

	err := NewPlain(player, &bytes.Buffer{}).Run(context.Background(), strings.NewReader("\n"))
	require.NoError(t, err)
	assert.Empty(t, player.answers)
	assert.Equal(t, 1, player.advances)
}
