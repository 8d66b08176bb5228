package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"trivia-quiz/internal/app"
	"trivia-quiz/internal/domain"
)

func TestGameStoreSetsAndClearsKeys(t *testing.T) {
	mr, client := newMiniredis(t)
	ctx := context.Background()
	store := NewGameStore(client, Keys{Prefix: "trivia"}, time.Minute)

	deck, err := sampleCatalog().NewDeck()
	if err != nil {
		t.Fatalf("build deck: %v", err)
	}
	g := app.NewGame(deck, app.GameConfig{ID: "game-1", CatalogID: "mini"})

	if err := store.Put(ctx, g); err != nil {
		t.Fatalf("put: %v", err)
	}
	if !mr.Exists("trivia:game:game-1") {
		t.Fatalf("expected redis key to be set")
	}
	if v, _ := mr.Get("trivia:game:game-1"); v != "mini" {
		t.Fatalf("expected catalog id as value, got %q", v)
	}
	if ttl := mr.TTL("trivia:game:game-1"); ttl != time.Minute {
		t.Fatalf("expected 1m ttl, got %v", ttl)
	}

	mr.FastForward(30 * time.Second)
	if _, err := store.Get(ctx, "game-1"); err != nil {
		t.Fatalf("get: %v", err)
	}
	if ttl := mr.TTL("trivia:game:game-1"); ttl != time.Minute {
		t.Fatalf("expected get to refresh ttl, got %v", ttl)
	}

	if err := store.Delete(ctx, "game-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if mr.Exists("trivia:game:game-1") {
		t.Fatalf("expected redis key to be removed")
	}
	if _, err := store.Get(ctx, "game-1"); !errors.Is(err, domain.ErrGameNotFound) {
		t.Fatalf("expected game not found, got %v", err)
	}
}
