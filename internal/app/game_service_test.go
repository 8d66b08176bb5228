package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"trivia-quiz/internal/app"
	"trivia-quiz/internal/catalog"
	"trivia-quiz/internal/domain"
	"trivia-quiz/internal/infra/memory"
)

func newTestService(t *testing.T) (*app.GameService, *memory.GameStore) {
	t.Helper()
	clock := newFakeClock()
	store := memory.NewGameStore()
	catalogs := memory.NewCatalogRepository(catalog.NewEmbeddedLoader(), time.Minute)
	ids := 0
	service := app.NewGameService(store, catalogs, app.ServiceConfig{
		NewTicker: clock.NewTicker,
		NewID: func() string {
			ids++
			return "game-" + string(rune('0'+ids))
		},
		Seed: 5,
	})
	return service, store
}

func TestServiceNewGameStartsClassicCatalog(t *testing.T) {
	ctx := context.Background()
	service, store := newTestService(t)

	g, snap, err := service.NewGame(ctx, catalog.DefaultID)
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	defer service.End(ctx, g.ID())

	if g.ID() != "game-1" || snap.GameID != "game-1" {
		t.Fatalf("unexpected id %q / %q", g.ID(), snap.GameID)
	}
	if snap.Phase != domain.PhaseInQuestion || snap.QuestionCount != 12 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if snap.TimeRemaining != app.DefaultTimeBudget {
		t.Fatalf("expected full clock, got %d", snap.TimeRemaining)
	}
	if store.Len() != 1 {
		t.Fatalf("expected stored game, got %d", store.Len())
	}
}

func TestServiceUnknownCatalog(t *testing.T) {
	service, store := newTestService(t)

	_, _, err := service.NewGame(context.Background(), "nope")
	if !errors.Is(err, domain.ErrCatalogNotFound) {
		t.Fatalf("expected catalog not found, got %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("no game should be stored")
	}
}

func TestServiceIntentsRouteToGame(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	g, _, err := service.NewGame(ctx, catalog.DefaultID)
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	id := g.ID()

	updates, cancel, err := service.Subscribe(ctx, id)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer cancel()
	<-updates // initial snapshot

	if _, err := service.Answer(ctx, id, "definitely not an option"); err != nil {
		t.Fatalf("answer: %v", err)
	}
	update := waitFor(t, updates, func(s domain.Snapshot) bool { return s.Phase == domain.PhaseResolved })
	if update.Resolution == nil || update.Resolution.Outcome != domain.OutcomeWrong {
		t.Fatalf("expected wrong resolution, got %+v", update.Resolution)
	}

	if _, err := service.Replay(ctx, id); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected replay rejected mid-game, got %v", err)
	}

	snap, err := service.Advance(ctx, id)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if snap.Index != 1 {
		t.Fatalf("expected index 1, got %d", snap.Index)
	}

	got, err := service.Snapshot(ctx, id)
	if err != nil || got.Index != 1 {
		t.Fatalf("snapshot: %+v %v", got, err)
	}
}

func TestServiceEndForgetsGame(t *testing.T) {
	ctx := context.Background()
	service, store := newTestService(t)

	g, _, _ := service.NewGame(ctx, catalog.DefaultID)
	if err := service.End(ctx, g.ID()); err != nil {
		t.Fatalf("end: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected game removed")
	}
	if _, err := service.Answer(ctx, g.ID(), "x"); !errors.Is(err, domain.ErrGameNotFound) {
		t.Fatalf("expected game not found, got %v", err)
	}
	if _, err := g.Advance(ctx); !errors.Is(err, domain.ErrGameClosed) {
		t.Fatalf("expected closed game, got %v", err)
	}
	if err := service.End(ctx, "missing"); err != nil {
		t.Fatalf("ending an unknown game should be a no-op, got %v", err)
	}
}
