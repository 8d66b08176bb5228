package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"trivia-quiz/internal/domain"
)

func TestCatalogRepositoryCaches(t *testing.T) {
	loader := &countingLoader{CatalogLoader: NewStaticCatalogLoader(sampleCatalog())}
	repo := NewCatalogRepository(loader, time.Minute)

	if _, err := repo.GetCatalog(context.Background(), "mini"); err != nil {
		t.Fatalf("get catalog: %v", err)
	}
	if loader.count() != 1 {
		t.Fatalf("expected loader once, got %d", loader.count())
	}

	cat, err := repo.GetCatalog(context.Background(), "mini")
	if err != nil {
		t.Fatalf("get catalog 2: %v", err)
	}
	if loader.count() != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.count())
	}
	if len(cat.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(cat.Entries))
	}
}

func TestCatalogRepositoryExpires(t *testing.T) {
	loader := &countingLoader{CatalogLoader: NewStaticCatalogLoader(sampleCatalog())}
	repo := NewCatalogRepository(loader, time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.clock = func() time.Time { return now }

	if _, err := repo.GetCatalog(context.Background(), "mini"); err != nil {
		t.Fatalf("get catalog: %v", err)
	}
	now = now.Add(2 * time.Minute)
	if _, err := repo.GetCatalog(context.Background(), "mini"); err != nil {
		t.Fatalf("get catalog after expiry: %v", err)
	}
	if loader.count() != 2 {
		t.Fatalf("expected reload after ttl, loader calls %d", loader.count())
	}
}

func TestCatalogRepositoryZeroTTLCachesForever(t *testing.T) {
	loader := &countingLoader{CatalogLoader: NewStaticCatalogLoader(sampleCatalog())}
	repo := NewCatalogRepository(loader, 0)
	now := time.Now()
	repo.clock = func() time.Time { return now }

	_, _ = repo.GetCatalog(context.Background(), "mini")
	now = now.Add(24 * time.Hour)
	_, _ = repo.GetCatalog(context.Background(), "mini")
	if loader.count() != 1 {
		t.Fatalf("expected a single load, got %d", loader.count())
	}
}

func TestCatalogRepositoryUnknown(t *testing.T) {
	repo := NewCatalogRepository(NewStaticCatalogLoader(sampleCatalog()), time.Minute)

	_, err := repo.GetCatalog(context.Background(), "missing")
	if !errors.Is(err, domain.ErrCatalogNotFound) {
		t.Fatalf("expected catalog not found, got %v", err)
	}
}

type countingLoader struct {
	CatalogLoader
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

func sampleCatalog() domain.Catalog {
	return domain.Catalog{
		ID:    "mini",
		Title: "Mini",
		Entries: []domain.CatalogEntry{
			{
				Prompt:     "What is 2 + 2?",
				Answer:     "4",
				Options:    []string{"3", "4", "5", "22"},
				Difficulty: domain.DifficultyEasy,
				Category:   "Math",
			},
		},
	}
}
