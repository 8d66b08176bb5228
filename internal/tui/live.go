package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"trivia-quiz/internal/domain"
)

type keyMap struct {
	Answer  key.Binding
	Advance key.Binding
	Replay  key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Answer:  key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "answer")),
		Advance: key.NewBinding(key.WithKeys("enter", "n", " "), key.WithHelp("enter", "next")),
		Replay:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "play again")),
		Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// keysFor returns the bindings that make sense in phase.
func (k keyMap) keysFor(phase domain.Phase) []key.Binding {
	switch phase {
	case domain.PhaseInQuestion:
		return []key.Binding{k.Answer, k.Quit}
	case domain.PhaseResolved:
		return []key.Binding{k.Advance, k.Quit}
	case domain.PhaseFinished:
		return []key.Binding{k.Replay, k.Quit}
	default:
		return []key.Binding{k.Quit}
	}
}

// phaseHelp adapts keyMap to help.KeyMap for one phase.
type phaseHelp struct {
	keys  keyMap
	phase domain.Phase
}

func (p phaseHelp) ShortHelp() []key.Binding  { return p.keys.keysFor(p.phase) }
func (p phaseHelp) FullHelp() [][]key.Binding { return [][]key.Binding{p.ShortHelp()} }

// Options configures the live UI model.
type Options struct {
	NoColor bool
	Title   string
}

// Model renders a game as a live console UI using Bubble Tea.
type Model struct {
	ctx     context.Context
	player  Player
	updates <-chan domain.Snapshot
	snap    domain.Snapshot
	keys    keyMap
	help    help.Model
	timer   progress.Model
	title   string
	noColor bool
	err     string
}

// NewModel constructs a live UI model over a subscription to player.
func NewModel(ctx context.Context, player Player, updates <-chan domain.Snapshot, opts Options) Model {
	timer := progress.New(progress.WithSolidFill(string(colorAccent)), progress.WithoutPercentage())
	timer.Width = 40
	title := opts.Title
	if title == "" {
		title = "Trivia"
	}
	return Model{
		ctx:     ctx,
		player:  player,
		updates: updates,
		keys:    defaultKeyMap(),
		help:    help.New(),
		timer:   timer,
		title:   title,
		noColor: opts.NoColor,
	}
}

// snapshotMsg carries a state update from the game.
type snapshotMsg domain.Snapshot

// errMsg reports a rejected intent.
type errMsg struct{ err error }

// waitForSnapshot blocks until the game publishes its next state.
func waitForSnapshot(updates <-chan domain.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-updates
		if !ok {
			return tea.Quit()
		}
		return snapshotMsg(snap)
	}
}

func (m Model) Init() tea.Cmd {
	return waitForSnapshot(m.updates)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = typed.Width
		m.timer.Width = max(min(typed.Width-20, 60), 10)
		return m, nil
	case snapshotMsg:
		m.snap = domain.Snapshot(typed)
		return m, waitForSnapshot(m.updates)
	case errMsg:
		m.err = typed.err.Error()
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(typed)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	m.err = ""

	switch m.snap.Phase {
	case domain.PhaseInQuestion:
		if !key.Matches(msg, m.keys.Answer) {
			return m, nil
		}
		choice, ok := choiceAt(m.snap.Question, msg.String())
		if !ok {
			return m, nil
		}
		return m, m.intent(func() error {
			_, err := m.player.Answer(m.ctx, choice)
			return err
		})
	case domain.PhaseResolved:
		if key.Matches(msg, m.keys.Advance) {
			return m, m.intent(func() error {
				_, err := m.player.Advance(m.ctx)
				return err
			})
		}
	case domain.PhaseFinished:
		if key.Matches(msg, m.keys.Replay) {
			return m, m.intent(func() error {
				_, err := m.player.Replay(m.ctx)
				return err
			})
		}
	}
	return m, nil
}

// intent runs fn off the update loop. A question that timed out while the key
// was in flight is expected, so invalid transitions are not shown.
func (m Model) intent(fn func() error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(); err != nil && !errors.Is(err, domain.ErrInvalidTransition) {
			return errMsg{err: err}
		}
		return nil
	}
}

func (m Model) View() string {
	sections := []string{stylize(m.title, m.noColor, colorAccent)}

	switch m.snap.Phase {
	case domain.PhaseInQuestion, domain.PhaseResolved:
		sections = append(sections, stylize(formatHeader(m.snap), m.noColor, colorMuted), m.renderQuestion())
		if m.snap.Phase == domain.PhaseInQuestion {
			sections = append(sections, m.renderTimer())
		} else if m.snap.Resolution != nil {
			res := *m.snap.Resolution
			sections = append(sections, stylize(formatResolution(res), m.noColor, resolutionColor(res)))
		}
	case domain.PhaseFinished:
		if m.snap.Summary != nil {
			sections = append(sections, formatSummary(*m.snap.Summary))
		}
	default:
		sections = append(sections, "Shuffling the deck...")
	}

	if m.err != "" {
		sections = append(sections, stylize(m.err, m.noColor, colorBad))
	}
	sections = append(sections, m.help.View(phaseHelp{keys: m.keys, phase: m.snap.Phase}))
	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

func (m Model) renderQuestion() string {
	q := m.snap.Question
	if q == nil {
		return ""
	}
	lines := []string{
		fmt.Sprintf("%s | %s", q.Category, formatDifficulty(q.Difficulty, m.noColor)),
		"",
		lipgloss.NewStyle().Bold(!m.noColor).Render(q.Prompt),
		"",
	}
	lines = append(lines, formatOptions(q)...)
	return strings.Join(lines, "\n")
}

func (m Model) renderTimer() string {
	budget := max(m.snap.TimeBudget, 1)
	label := fmt.Sprintf("%2ds", m.snap.TimeRemaining)
	if m.snap.LowTime {
		label = stylize(label, m.noColor, colorWarning)
	}
	return m.timer.ViewAs(float64(m.snap.TimeRemaining)/float64(budget)) + " " + label
}

// RunLive plays the game in an alternate screen until the player quits.
func RunLive(ctx context.Context, player Player, in io.Reader, out io.Writer, opts Options) error {
	updates, cancel := player.Subscribe()
	defer cancel()

	program := tea.NewProgram(
		NewModel(ctx, player, updates, opts),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("live ui: %w", err)
	}
	return nil
}
