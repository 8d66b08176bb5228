package app

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"trivia-quiz/internal/domain"
	"trivia-quiz/internal/event"
)

// DefaultTickInterval is the wall-clock length of one countdown step.
const DefaultTickInterval = time.Second

// Ticker delivers countdown steps to a Game.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFunc creates a ticker firing every d.
type TickerFunc func(d time.Duration) Ticker

// EventPublisher receives game events; *event.Bus satisfies it.
type EventPublisher interface {
	Publish(ctx context.Context, e event.Event)
}

// GameConfig configures a Game. Zero values fall back to defaults.
type GameConfig struct {
	ID           string
	CatalogID    string
	TimeBudget   int
	TickInterval time.Duration
	NewTicker    TickerFunc
	Rand         *rand.Rand
	Events       EventPublisher
}

// Game drives one Engine from a per-question timer and player intents.
// All transitions are serialized by a single mutex; each question gets its own
// timer goroutine, stopped before the next one starts.
type Game struct {
	id        string
	catalogID string
	interval  time.Duration
	newTicker TickerFunc
	events    EventPublisher

	mu          sync.Mutex
	engine      *Engine
	deck        *domain.Deck
	generation  uint64
	stopTimer   chan struct{}
	subscribers map[chan domain.Snapshot]struct{}
	closed      bool
	seq         uint64
	outbox      []event.Event

	// pubMu serializes flushes so events reach the publisher in transition order.
	pubMu sync.Mutex
}

func NewGame(deck *domain.Deck, c GameConfig) *Game {
	if c.TickInterval <= 0 {
		c.TickInterval = DefaultTickInterval
	}
	if c.NewTicker == nil {
		c.NewTicker = NewTimeTicker
	}
	return &Game{
		id:          c.ID,
		catalogID:   c.CatalogID,
		interval:    c.TickInterval,
		newTicker:   c.NewTicker,
		events:      c.Events,
		engine:      NewEngine(WithTimeBudget(c.TimeBudget), WithRand(c.Rand)),
		deck:        deck,
		subscribers: make(map[chan domain.Snapshot]struct{}),
	}
}

// ID returns the game identifier.
func (g *Game) ID() string { return g.id }

// CatalogID returns the catalog the deck was built from.
func (g *Game) CatalogID() string { return g.catalogID }

// Start shuffles the deck, enters the first question and starts its timer.
func (g *Game) Start(ctx context.Context) (domain.Snapshot, error) {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return domain.Snapshot{}, domain.ErrGameClosed
	}
	if err := g.engine.Start(g.deck); err != nil {
		g.mu.Unlock()
		return domain.Snapshot{}, err
	}
	g.startTimerLocked()
	snap := g.broadcastLocked()
	g.queueLocked(domain.EventGameStarted{
		GameID:        g.id,
		Seq:           g.nextSeqLocked(),
		CatalogID:     g.catalogID,
		QuestionCount: snap.QuestionCount,
	})
	g.mu.Unlock()

	g.flush(ctx)
	return snap, nil
}

// Answer resolves the current question with the player's choice and stops its timer.
func (g *Game) Answer(ctx context.Context, choice string) (domain.Resolution, error) {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return domain.Resolution{}, domain.ErrGameClosed
	}
	res, err := g.engine.Answer(choice)
	if err != nil {
		g.mu.Unlock()
		return domain.Resolution{}, err
	}
	g.stopTimerLocked()
	g.broadcastLocked()
	g.queueLocked(domain.EventQuestionResolved{GameID: g.id, Seq: g.nextSeqLocked(), Resolution: res})
	g.mu.Unlock()

	g.flush(ctx)
	return res, nil
}

// Advance moves to the next question, or finishes the game after the last one.
func (g *Game) Advance(ctx context.Context) (domain.Snapshot, error) {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return domain.Snapshot{}, domain.ErrGameClosed
	}
	if err := g.engine.Advance(); err != nil {
		g.mu.Unlock()
		return domain.Snapshot{}, err
	}
	if g.engine.Phase() == domain.PhaseInQuestion {
		g.startTimerLocked()
	}
	snap := g.broadcastLocked()
	if snap.Phase == domain.PhaseFinished && snap.Summary != nil {
		g.queueLocked(domain.EventGameFinished{GameID: g.id, Seq: g.nextSeqLocked(), Summary: *snap.Summary})
	}
	g.mu.Unlock()

	g.flush(ctx)
	return snap, nil
}

// Replay reshuffles and restarts a finished game.
func (g *Game) Replay(ctx context.Context) (domain.Snapshot, error) {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return domain.Snapshot{}, domain.ErrGameClosed
	}
	if err := g.engine.Replay(); err != nil {
		g.mu.Unlock()
		return domain.Snapshot{}, err
	}
	g.startTimerLocked()
	snap := g.broadcastLocked()
	g.queueLocked(domain.EventGameStarted{
		GameID:        g.id,
		Seq:           g.nextSeqLocked(),
		CatalogID:     g.catalogID,
		QuestionCount: snap.QuestionCount,
		Replay:        true,
	})
	g.mu.Unlock()

	g.flush(ctx)
	return snap, nil
}

// Snapshot returns the current state.
func (g *Game) Snapshot() domain.Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

// Subscribe returns a channel of snapshots, starting with the current one.
// The caller must invoke the returned cancel function to avoid leaks.
func (g *Game) Subscribe() (<-chan domain.Snapshot, func()) {
	ch := make(chan domain.Snapshot, 8)

	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	g.subscribers[ch] = struct{}{}
	ch <- g.snapshotLocked()
	g.mu.Unlock()

	cancel := func() {
		g.mu.Lock()
		if _, ok := g.subscribers[ch]; ok {
			delete(g.subscribers, ch)
			close(ch)
		}
		g.mu.Unlock()
	}
	return ch, cancel
}

// Close stops the timer and closes every subscription. Later intents fail with ErrGameClosed.
func (g *Game) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return
	}
	g.closed = true
	g.stopTimerLocked()
	for ch := range g.subscribers {
		delete(g.subscribers, ch)
		close(ch)
	}
}

// tick applies one countdown step from the timer of generation gen. It reports
// whether the timer should keep running.
func (g *Game) tick(gen uint64) bool {
	g.mu.Lock()
	if g.closed || gen != g.generation {
		g.mu.Unlock()
		return false
	}
	expired, err := g.engine.Tick()
	if err != nil {
		g.mu.Unlock()
		return false
	}
	g.broadcastLocked()
	if expired {
		g.stopTimerLocked()
		if res, ok := g.engine.Last(); ok {
			g.queueLocked(domain.EventQuestionResolved{GameID: g.id, Seq: g.nextSeqLocked(), Resolution: res})
		}
	}
	g.mu.Unlock()

	g.flush(context.Background())
	return !expired
}

func (g *Game) startTimerLocked() {
	g.stopTimerLocked()
	gen := g.generation
	stop := make(chan struct{})
	g.stopTimer = stop
	go g.runTimer(gen, g.newTicker(g.interval), stop)
}

// stopTimerLocked cancels the running timer; bumping the generation turns any
// tick already in flight into a no-op.
func (g *Game) stopTimerLocked() {
	g.generation++
	if g.stopTimer != nil {
		close(g.stopTimer)
		g.stopTimer = nil
	}
}

func (g *Game) runTimer(gen uint64, t Ticker, stop <-chan struct{}) {
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C():
			if !g.tick(gen) {
				return
			}
		}
	}
}

func (g *Game) snapshotLocked() domain.Snapshot {
	snap := g.engine.Snapshot()
	snap.GameID = g.id
	return snap
}

func (g *Game) broadcastLocked() domain.Snapshot {
	snap := g.snapshotLocked()
	for ch := range g.subscribers {
		select {
		case ch <- snap:
		default:
			// Drop the oldest pending snapshot so a slow reader never blocks a transition.
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
	return snap
}

func (g *Game) nextSeqLocked() uint64 {
	g.seq++
	return g.seq
}

func (g *Game) queueLocked(e event.Event) {
	if g.events != nil {
		g.outbox = append(g.outbox, e)
	}
}

// flush hands queued events to the publisher. Whichever caller flushes first
// publishes everything queued so far, oldest first.
func (g *Game) flush(ctx context.Context) {
	if g.events == nil {
		return
	}
	g.pubMu.Lock()
	defer g.pubMu.Unlock()

	g.mu.Lock()
	pending := g.outbox
	g.outbox = nil
	g.mu.Unlock()

	for _, e := range pending {
		g.events.Publish(ctx, e)
	}
}

type timeTicker struct {
	t *time.Ticker
}

// NewTimeTicker wraps time.NewTicker.
func NewTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }
