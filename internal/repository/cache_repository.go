package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	appErrors "github.com/proffy-io/proffy-api/pkg/errors"
)

const (
	searchResultPrefix     = "classes:search"
	searchGenerationPrefix = "classes:search-gen"
	scanBatch              = 100
)

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

// SearchResultKey names the cached result of one availability search. The
// subject generation is part of the key, so bumping it orphans every result
// computed before the bump.
func SearchResultKey(subject string, generation int64, weekDay, minute int) string {
	return fmt.Sprintf("%s%d:%d", generationKeyPrefix(subject, generation), weekDay, minute)
}

func generationKeyPrefix(subject string, generation int64) string {
	return fmt.Sprintf("%s:%s:g%d:", searchResultPrefix, subject, generation)
}

// SearchGenerationKey names the counter versioning a subject's results.
func SearchGenerationKey(subject string) string {
	return fmt.Sprintf("%s:%s", searchGenerationPrefix, subject)
}

// SearchResultPattern matches every cached result for subject, across
// generations.
func SearchResultPattern(subject string) string {
	return fmt.Sprintf("%s:%s:g*", searchResultPrefix, globEscaper.Replace(subject))
}

// CacheRepository keeps availability search results in Redis.
type CacheRepository struct {
	client *redis.Client
}

// NewCacheRepository constructs a cache repository. A nil client turns
// every operation into a miss or a no-op.
func NewCacheRepository(client *redis.Client) *CacheRepository {
	return &CacheRepository{client: client}
}

// Get loads a cached search result into dest.
func (r *CacheRepository) Get(ctx context.Context, key string, dest interface{}) error {
	if r.client == nil {
		return appErrors.ErrCacheMiss
	}

	raw, err := r.client.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return appErrors.ErrCacheMiss
	case err != nil:
		return fmt.Errorf("read cached search %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode cached search %s: %w", key, err)
	}
	return nil
}

// Set stores a search result for ttl.
func (r *CacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if r.client == nil {
		return nil
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode search result %s: %w", key, err)
	}
	if err := r.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("cache search result %s: %w", key, err)
	}
	return nil
}

// Generation returns the current result generation for subject; zero until
// the first bump.
func (r *CacheRepository) Generation(ctx context.Context, subject string) (int64, error) {
	if r.client == nil {
		return 0, nil
	}
	gen, err := r.client.Get(ctx, SearchGenerationKey(subject)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read search generation for %q: %w", subject, err)
	}
	return gen, nil
}

// BumpGeneration advances the subject's generation and then unlinks the
// results it orphaned. Unlinking is housekeeping only: readers of the new
// generation never see old keys even if it fails.
func (r *CacheRepository) BumpGeneration(ctx context.Context, subject string) (int64, error) {
	if r.client == nil {
		return 0, nil
	}
	gen, err := r.client.Incr(ctx, SearchGenerationKey(subject)).Result()
	if err != nil {
		return 0, fmt.Errorf("bump search generation for %q: %w", subject, err)
	}

	current := generationKeyPrefix(subject, gen)
	var stale []string
	iter := r.client.Scan(ctx, 0, SearchResultPattern(subject), scanBatch).Iterator()
	for iter.Next(ctx) {
		if key := iter.Val(); !strings.HasPrefix(key, current) {
			stale = append(stale, key)
		}
	}
	if err := iter.Err(); err != nil {
		return gen, fmt.Errorf("scan stale searches for %q: %w", subject, err)
	}
	if len(stale) > 0 {
		if err := r.client.Unlink(ctx, stale...).Err(); err != nil {
			return gen, fmt.Errorf("unlink stale searches for %q: %w", subject, err)
		}
	}
	return gen, nil
}

// Close releases the underlying Redis connection if present.
func (r *CacheRepository) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}
