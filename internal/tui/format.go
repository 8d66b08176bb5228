package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"trivia-quiz/internal/domain"
)

var difficultyColors = map[domain.Difficulty]lipgloss.Color{
	domain.DifficultyEasy:   lipgloss.Color("#2ecc71"),
	domain.DifficultyMedium: lipgloss.Color("#f39c12"),
	domain.DifficultyHard:   lipgloss.Color("#e74c3c"),
	domain.DifficultyExpert: lipgloss.Color("#9b59b6"),
}

const (
	colorMuted   = lipgloss.Color("242")
	colorAccent  = lipgloss.Color("33")
	colorGood    = lipgloss.Color("#2ecc71")
	colorBad     = lipgloss.Color("#e74c3c")
	colorWarning = lipgloss.Color("#f39c12")
)

// stylize applies optional color styling.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}

func formatDifficulty(d domain.Difficulty, noColor bool) string {
	label := fmt.Sprintf("%s (%d pts)", d, d.Points())
	if noColor {
		return label
	}
	return lipgloss.NewStyle().Bold(true).Foreground(difficultyColors[d]).Render(label)
}

// formatHeader renders "Question i of N | Score: s".
func formatHeader(snap domain.Snapshot) string {
	return fmt.Sprintf("%s | Score: %d", snap.Progress(), snap.Score)
}

func formatOptions(view *domain.QuestionView) []string {
	lines := make([]string, 0, len(view.Options))
	for i, opt := range view.Options {
		lines = append(lines, fmt.Sprintf("  %d. %s", i+1, opt))
	}
	return lines
}

func formatResolution(res domain.Resolution) string {
	switch res.Outcome {
	case domain.OutcomeCorrect:
		return fmt.Sprintf("Correct! +%d points", res.Awarded)
	case domain.OutcomeTimeout:
		return fmt.Sprintf("Time's up! The correct answer was: %s", res.CorrectAnswer)
	default:
		return fmt.Sprintf("Wrong! The correct answer was: %s", res.CorrectAnswer)
	}
}

func resolutionColor(res domain.Resolution) lipgloss.Color {
	if res.Correct() {
		return colorGood
	}
	return colorBad
}

// formatSummary renders the end-of-game report.
func formatSummary(s domain.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Final score: %d / %d\n", s.TotalScore, s.MaxScore)
	fmt.Fprintf(&b, "Correct: %d  Wrong: %d  Timed out: %d\n", s.Correct, s.Wrong, s.Timeouts)
	fmt.Fprintf(&b, "Accuracy: %.1f%%\n", s.AccuracyPercentage)
	if len(s.Categories) > 0 {
		b.WriteString("\nCategory breakdown:\n")
		for _, c := range s.Categories {
			fmt.Fprintf(&b, "  %-12s %4d / %-4d (%.0f%%)\n", c.Category, c.Scored, c.Total, c.Percentage)
		}
	}
	fmt.Fprintf(&b, "\n%s: %s", s.Grade, s.Grade.Message())
	return b.String()
}

// choiceAt maps a 1-based option key to its text.
func choiceAt(view *domain.QuestionView, key string) (string, bool) {
	if view == nil || len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return "", false
	}
	i := int(key[0] - '1')
	if i >= len(view.Options) {
		return "", false
	}
	return view.Options[i], true
}
