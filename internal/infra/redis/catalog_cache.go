package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"live-quiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const catalogKeyPrefix = "quiz:catalog:"

// CatalogKey is the Redis key holding the catalog loaded from source, e.g.
// "file:/data/questions.json" or "postgres".
func CatalogKey(source string) string {
	return catalogKeyPrefix + source
}

// InvalidateCatalog drops the cached catalog of source so the next load reads the backing store.
func InvalidateCatalog(ctx context.Context, client *redis.Client, source string) error {
	if err := client.Del(ctx, CatalogKey(source)).Err(); err != nil {
		return fmt.Errorf("invalidate catalog cache: %w", err)
	}
	return nil
}

// CatalogLoader fetches the question catalog from a backing store (file, Postgres).
type CatalogLoader interface {
	LoadCatalog(ctx context.Context) ([]domain.Question, error)
}

// CatalogCache keeps the catalog in Redis and falls back to a loader on cache miss.
// Each source gets its own key, so switching sources never serves another source's questions.
// Stored as: SET quiz:catalog:<source> <json array> EX <ttl ± jitter>
type CatalogCache struct {
	client *redis.Client
	key    string
	loader CatalogLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewCatalogCache(client *redis.Client, loader CatalogLoader, source string, ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		client: client,
		key:    CatalogKey(source),
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *CatalogCache) LoadCatalog(ctx context.Context) ([]domain.Question, error) {
	if questions, ok := c.cached(ctx); ok {
		return questions, nil
	}

	result, err, _ := c.sf.Do(c.key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if questions, ok := c.cached(ctx); ok {
			return questions, nil
		}

		questions, err := c.loader.LoadCatalog(ctx)
		if err != nil {
			return nil, err
		}
		if raw, err := json.Marshal(questions); err == nil {
			_ = c.client.Set(ctx, c.key, raw, c.ttlWithJitter()).Err()
		}
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (c *CatalogCache) cached(ctx context.Context) ([]domain.Question, bool) {
	raw, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		return nil, false
	}
	var questions []domain.Question
	if err := json.Unmarshal(raw, &questions); err != nil || len(questions) == 0 {
		return nil, false
	}
	if domain.ValidateCatalog(questions) != nil {
		return nil, false
	}
	return questions, true
}

func (c *CatalogCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
