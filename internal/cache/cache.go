package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/formworks/submission-service/internal/storage"
	"github.com/formworks/submission-service/internal/types"
)

// CacheService wraps storage with Redis caching for the listing path.
// Saves pass through and invalidate the cached list.
type CacheService struct {
	storage storage.Storage
	redis   *redis.Client
}

// NewCacheService creates a new cache service
func NewCacheService(storage storage.Storage, redisClient *redis.Client) *CacheService {
	return &CacheService{
		storage: storage,
		redis:   redisClient,
	}
}

const (
	SubmissionListKey = "submissions:all"

	// Listings tolerate slight staleness; saves invalidate anyway.
	SubmissionListCacheDuration = 30 * time.Second
)

// SaveSubmission persists through the underlying storage and drops the
// cached listing so the new record shows up on the next read.
func (c *CacheService) SaveSubmission(ctx context.Context, record *types.SubmissionRecord) (*types.SubmissionRecord, error) {
	saved, err := c.storage.SaveSubmission(ctx, record)
	if err != nil {
		return nil, err
	}

	c.redis.Del(ctx, SubmissionListKey)

	return saved, nil
}

// ListSubmissions returns the cached listing or fetches from storage
func (c *CacheService) ListSubmissions(ctx context.Context) ([]types.SubmissionRecord, error) {
	cached, err := c.redis.Get(ctx, SubmissionListKey).Result()
	if err == nil {
		var records []types.SubmissionRecord
		if err := json.Unmarshal([]byte(cached), &records); err == nil {
			return records, nil
		}
	}

	records, err := c.storage.ListSubmissions(ctx)
	if err != nil {
		return nil, err
	}

	data, _ := json.Marshal(records)
	c.redis.Set(ctx, SubmissionListKey, data, SubmissionListCacheDuration)

	return records, nil
}
