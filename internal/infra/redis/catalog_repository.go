package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"trivia-quiz/internal/domain"
	"trivia-quiz/internal/infra/memory"
)

// CatalogRepository caches catalogs in Redis as JSON (one key per catalog) and
// falls back to a loader on cache miss.
type CatalogRepository struct {
	client *redis.Client
	loader memory.CatalogLoader
	keys   Keys
	ttl    time.Duration
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewCatalogRepository(client *redis.Client, loader memory.CatalogLoader, keys Keys, ttl time.Duration) *CatalogRepository {
	return &CatalogRepository{
		client: client,
		loader: loader,
		keys:   keys,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *CatalogRepository) GetCatalog(ctx context.Context, id string) (domain.Catalog, error) {
	if cat, ok := r.cached(ctx, id); ok {
		return cat, nil
	}

	result, err, _ := r.sf.Do(id, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if cat, ok := r.cached(ctx, id); ok {
			return cat, nil
		}

		cat, err := r.loader.LoadCatalog(ctx, id)
		if err != nil {
			return domain.Catalog{}, err
		}

		data, err := json.Marshal(cat)
		if err != nil {
			return domain.Catalog{}, err
		}
		if err := r.client.Set(ctx, r.keys.Catalog(id), data, r.ttlWithJitter()).Err(); err != nil {
			slog.WarnContext(ctx, "redis: cache catalog failed", "catalog", id, "error", err)
		}
		return cat, nil
	})
	if err != nil {
		return domain.Catalog{}, err
	}
	return result.(domain.Catalog), nil
}

func (r *CatalogRepository) cached(ctx context.Context, id string) (domain.Catalog, bool) {
	data, err := r.client.Get(ctx, r.keys.Catalog(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.WarnContext(ctx, "redis: read catalog failed", "catalog", id, "error", err)
		}
		return domain.Catalog{}, false
	}
	var cat domain.Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		slog.WarnContext(ctx, "redis: decode catalog failed", "catalog", id, "error", err)
		return domain.Catalog{}, false
	}
	return cat, true
}

func (r *CatalogRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
