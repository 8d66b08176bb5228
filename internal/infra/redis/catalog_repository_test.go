package redis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"trivia-quiz/internal/domain"
	"trivia-quiz/internal/infra/memory"
)

func TestCatalogRepositoryCachesInRedis(t *testing.T) {
	mr, client := newMiniredis(t)

	loader := &countingLoader{CatalogLoader: memory.NewStaticCatalogLoader(sampleCatalog())}
	repo := NewCatalogRepository(client, loader, Keys{Prefix: "trivia"}, time.Minute)

	cat, err := repo.GetCatalog(context.Background(), "mini")
	if err != nil {
		t.Fatalf("get catalog: %v", err)
	}
	if loader.count() != 1 {
		t.Fatalf("expected loader called once, got %d", loader.count())
	}
	if !mr.Exists("trivia:catalog:mini") {
		t.Fatalf("expected catalog cached in redis")
	}

	// Second call should hit cache, loader not incremented.
	cached, err := repo.GetCatalog(context.Background(), "mini")
	if err != nil {
		t.Fatalf("get cached catalog: %v", err)
	}
	if loader.count() != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.count())
	}
	if cached.Entries[0].Difficulty != domain.DifficultyHard || cached.Entries[0].Prompt != cat.Entries[0].Prompt {
		t.Fatalf("cached catalog does not round-trip: %+v", cached)
	}
}

func TestCatalogRepositoryReloadsCorruptEntry(t *testing.T) {
	mr, client := newMiniredis(t)
	if err := mr.Set("trivia:catalog:mini", "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	loader := &countingLoader{CatalogLoader: memory.NewStaticCatalogLoader(sampleCatalog())}
	repo := NewCatalogRepository(client, loader, Keys{}, time.Minute)

	if _, err := repo.GetCatalog(context.Background(), "mini"); err != nil {
		t.Fatalf("get catalog: %v", err)
	}
	if loader.count() != 1 {
		t.Fatalf("expected a reload, loader calls=%d", loader.count())
	}
}

func TestCatalogRepositoryUnknown(t *testing.T) {
	_, client := newMiniredis(t)
	repo := NewCatalogRepository(client, memory.NewStaticCatalogLoader(), Keys{}, time.Minute)

	if _, err := repo.GetCatalog(context.Background(), "nope"); !errors.Is(err, domain.ErrCatalogNotFound) {
		t.Fatalf("expected catalog not found, got %v", err)
	}
}

type countingLoader struct {
	memory.CatalogLoader
	mu    sync.Mutex
	calls int
}

func (l *countingLoader) LoadCatalog(ctx context.Context, id string) (domain.Catalog, error) {
	l.mu.Lock()
	l.calls++
	l.mu.Unlock()
	return l.CatalogLoader.LoadCatalog(ctx, id)
}

func (l *countingLoader) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}
