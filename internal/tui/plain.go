package tui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"trivia-quiz/internal/domain"
)

// Plain is a line-based presenter. It prints each transition once and reads
// one command per line: an option number or answer text while a question is
// open, enter to continue, r to replay and q to quit.
type Plain struct {
	player Player
	out    io.Writer

	shown     domain.Phase
	index     int
	warned    bool
	seenStart bool
}

func NewPlain(player Player, out io.Writer) *Plain {
	return &Plain{player: player, out: out}
}

// Run plays until the player quits, input ends or ctx is done.
func (p *Plain) Run(ctx context.Context, in io.Reader) error {
	updates, cancel := p.player.Subscribe()
	defer cancel()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	var snap domain.Snapshot
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case next, ok := <-updates:
			if !ok {
				return nil
			}
			snap = next
			p.render(snap)
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			var open bool
			if snap, open = p.catchUp(updates, snap); !open {
				return nil
			}
			quit, err := p.handle(ctx, snap, strings.TrimSpace(line))
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
		}
	}
}

// catchUp renders every snapshot already queued so a line is applied to the
// latest state. It reports false once updates is closed.
func (p *Plain) catchUp(updates <-chan domain.Snapshot, snap domain.Snapshot) (domain.Snapshot, bool) {
	for {
		select {
		case next, ok := <-updates:
			if !ok {
				return snap, false
			}
			snap = next
			p.render(snap)
		default:
			return snap, true
		}
	}
}

func (p *Plain) handle(ctx context.Context, snap domain.Snapshot, line string) (bool, error) {
	if strings.EqualFold(line, "q") {
		return true, nil
	}

	var err error
	switch snap.Phase {
	case domain.PhaseInQuestion:
		if line == "" {
			return false, nil
		}
		choice := line
		if opt, ok := choiceAt(snap.Question, line); ok {
			choice = opt
		}
		_, err = p.player.Answer(ctx, choice)
	case domain.PhaseResolved:
		_, err = p.player.Advance(ctx)
	case domain.PhaseFinished:
		if strings.EqualFold(line, "r") {
			_, err = p.player.Replay(ctx)
		}
	}
	switch {
	case err == nil:
		return false, nil
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrAlreadyAnswered):
		// The clock resolved the question first.
		return false, nil
	case errors.Is(err, domain.ErrGameClosed):
		return true, nil
	default:
		return false, err
	}
}

// render prints what changed since the last snapshot.
func (p *Plain) render(snap domain.Snapshot) {
	changed := !p.seenStart || snap.Phase != p.shown || snap.Index != p.index
	p.seenStart = true
	p.shown, p.index = snap.Phase, snap.Index

	switch snap.Phase {
	case domain.PhaseInQuestion:
		if changed {
			p.warned = false
			p.printQuestion(snap)
			return
		}
		if snap.LowTime && !p.warned {
			p.warned = true
			fmt.Fprintf(p.out, "%d seconds left!\n", snap.TimeRemaining)
		}
	case domain.PhaseResolved:
		if changed && snap.Resolution != nil {
			fmt.Fprintln(p.out, formatResolution(*snap.Resolution))
			fmt.Fprintln(p.out, "Press enter to continue.")
		}
	case domain.PhaseFinished:
		if changed && snap.Summary != nil {
			fmt.Fprintln(p.out)
			fmt.Fprintln(p.out, formatSummary(*snap.Summary))
			fmt.Fprintln(p.out, "Type r to play again or q to quit.")
		}
	}
}

func (p *Plain) printQuestion(snap domain.Snapshot) {
	q := snap.Question
	if q == nil {
		return
	}
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, formatHeader(snap))
	fmt.Fprintf(p.out, "%s | %s | %ds\n", q.Category, formatDifficulty(q.Difficulty, true), snap.TimeRemaining)
	fmt.Fprintln(p.out, q.Prompt)
	for _, line := range formatOptions(q) {
		fmt.Fprintln(p.out, line)
	}
}
