package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"trivia-quiz/internal/domain"
)

// GameRepository abstracts where running games are kept (in-memory, Redis, etc).
type GameRepository interface {
	Put(ctx context.Context, g *Game) error
	Get(ctx context.Context, id string) (*Game, error)
	Delete(ctx context.Context, id string) error
}

// CatalogRepository loads catalogs (from cache/backing store).
type CatalogRepository interface {
	GetCatalog(ctx context.Context, id string) (domain.Catalog, error)
}

// ServiceConfig tunes the games a GameService creates.
type ServiceConfig struct {
	TimeBudget   int
	TickInterval time.Duration
	NewTicker    TickerFunc
	Events       EventPublisher
	// NewID generates game identifiers. Defaults to random UUIDs.
	NewID func() string
	// Seed makes shuffles reproducible when non-zero.
	Seed int64
}

// GameService contains the quiz use cases shared by every presentation.
type GameService struct {
	games    GameRepository
	catalogs CatalogRepository
	cfg      ServiceConfig
}

func NewGameService(games GameRepository, catalogs CatalogRepository, cfg ServiceConfig) *GameService {
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}
	return &GameService{games: games, catalogs: catalogs, cfg: cfg}
}

// NewGame builds a fresh deck from the catalog, starts a game on it and stores it.
func (s *GameService) NewGame(ctx context.Context, catalogID string) (*Game, domain.Snapshot, error) {
	cat, err := s.catalogs.GetCatalog(ctx, catalogID)
	if err != nil {
		return nil, domain.Snapshot{}, err
	}
	deck, err := cat.NewDeck()
	if err != nil {
		return nil, domain.Snapshot{}, err
	}

	g := NewGame(deck, GameConfig{
		ID:           s.cfg.NewID(),
		CatalogID:    cat.ID,
		TimeBudget:   s.cfg.TimeBudget,
		TickInterval: s.cfg.TickInterval,
		NewTicker:    s.cfg.NewTicker,
		Rand:         s.newRand(),
		Events:       s.cfg.Events,
	})
	if err := s.games.Put(ctx, g); err != nil {
		return nil, domain.Snapshot{}, fmt.Errorf("store game %s: %w", g.ID(), err)
	}

	snap, err := g.Start(ctx)
	if err != nil {
		g.Close()
		_ = s.games.Delete(ctx, g.ID())
		return nil, domain.Snapshot{}, err
	}
	return g, snap, nil
}

// Game looks up a running game.
func (s *GameService) Game(ctx context.Context, id string) (*Game, error) {
	return s.games.Get(ctx, id)
}

// Answer submits a choice for the current question of game id.
func (s *GameService) Answer(ctx context.Context, id, choice string) (domain.Resolution, error) {
	g, err := s.games.Get(ctx, id)
	if err != nil {
		return domain.Resolution{}, err
	}
	return g.Answer(ctx, choice)
}

// Advance moves game id past a resolved question.
func (s *GameService) Advance(ctx context.Context, id string) (domain.Snapshot, error) {
	g, err := s.games.Get(ctx, id)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return g.Advance(ctx)
}

// Replay restarts finished game id with a reshuffled deck.
func (s *GameService) Replay(ctx context.Context, id string) (domain.Snapshot, error) {
	g, err := s.games.Get(ctx, id)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return g.Replay(ctx)
}

// Snapshot returns the current state of game id.
func (s *GameService) Snapshot(ctx context.Context, id string) (domain.Snapshot, error) {
	g, err := s.games.Get(ctx, id)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return g.Snapshot(), nil
}

// Subscribe returns a channel that receives state updates for game id.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *GameService) Subscribe(ctx context.Context, id string) (<-chan domain.Snapshot, func(), error) {
	g, err := s.games.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := g.Subscribe()
	return ch, cancel, nil
}

// End closes game id and forgets it. Unknown ids are ignored.
func (s *GameService) End(ctx context.Context, id string) error {
	g, err := s.games.Get(ctx, id)
	if errors.Is(err, domain.ErrGameNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	g.Close()
	return s.games.Delete(ctx, id)
}

func (s *GameService) newRand() *rand.Rand {
	if s.cfg.Seed != 0 {
		return rand.New(rand.NewSource(s.cfg.Seed))
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
