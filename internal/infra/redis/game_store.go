package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"trivia-quiz/internal/app"
	"trivia-quiz/internal/domain"
)

// GameStore is a Redis-aware implementation of app.GameRepository.
// Games, their timers and subscribers live in a local map; Redis only carries
// a liveness marker per game so other processes can see what is running.
type GameStore struct {
	client *redis.Client
	ttl    time.Duration
	keys   Keys

	mu    sync.RWMutex
	games map[string]*app.Game
}

func NewGameStore(client *redis.Client, keys Keys, ttl time.Duration) *GameStore {
	return &GameStore{
		client: client,
		ttl:    ttl,
		keys:   keys,
		games:  make(map[string]*app.Game),
	}
}

func (s *GameStore) Put(ctx context.Context, g *app.Game) error {
	s.mu.Lock()
	s.games[g.ID()] = g
	s.mu.Unlock()

	if err := s.client.Set(ctx, s.keys.Game(g.ID()), g.CatalogID(), s.ttl).Err(); err != nil {
		return fmt.Errorf("mark game %s live: %w", g.ID(), err)
	}
	return nil
}

// Get returns a local game and refreshes its liveness marker.
func (s *GameStore) Get(ctx context.Context, id string) (*app.Game, error) {
	s.mu.RLock()
	g, ok := s.games[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrGameNotFound, id)
	}
	// best-effort refresh
	if s.ttl > 0 {
		_ = s.client.Expire(ctx, s.keys.Game(id), s.ttl).Err()
	}
	return g, nil
}

func (s *GameStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.games, id)
	s.mu.Unlock()

	if err := s.client.Del(ctx, s.keys.Game(id)).Err(); err != nil {
		return fmt.Errorf("clear game %s: %w", id, err)
	}
	return nil
}

// Keys builds the Redis key names under a common prefix.
type Keys struct {
	Prefix string
}

func (k Keys) prefix() string {
	if k.Prefix == "" {
		return "trivia"
	}
	return k.Prefix
}

// Game is the liveness key of a game.
func (k Keys) Game(id string) string {
	return k.prefix() + ":game:" + id
}

// GameEvents is the pub/sub channel carrying one game's notifications.
func (k Keys) GameEvents(id string) string {
	return k.Game(id) + ":events"
}

// Events is the pub/sub channel carrying every game's notifications.
func (k Keys) Events() string {
	return k.prefix() + ":events"
}

// Catalog is the cache key of a catalog.
func (k Keys) Catalog(id string) string {
	return k.prefix() + ":catalog:" + id
}
