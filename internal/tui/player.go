// Package tui renders a game in the terminal, either as a Bubble Tea live view
// or as plain lines for pipes and dumb terminals.
package tui

import (
	"context"

	"trivia-quiz/internal/domain"
)

// Player is the part of a running game the terminal drives. *app.Game satisfies it.
type Player interface {
	Answer(ctx context.Context, choice string) (domain.Resolution, error)
	Advance(ctx context.Context) (domain.Snapshot, error)
	Replay(ctx context.Context) (domain.Snapshot, error)
	Subscribe() (<-chan domain.Snapshot, func())
}
