package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appErrors "github.com/danieltanurhan/study-planner-api/pkg/errors"
)

// CacheService stores JSON documents in Redis under TTL-bound keys.
type CacheService struct {
	client *redis.Client
	logger *zap.Logger
}

// NewCacheService wraps a connected Redis client.
func NewCacheService(client *redis.Client, logger *zap.Logger) *CacheService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{client: client, logger: logger}
}

// Get loads and decodes the value at key into dest. A missing key returns
// ErrCacheMiss so callers can fall through to computation.
func (s *CacheService) Get(ctx context.Context, key string, dest any) error {
	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return appErrors.ErrCacheMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

// Set encodes value as JSON and stores it under key for ttl.
func (s *CacheService) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, raw, ttl).Err()
}

// Delete removes a key; missing keys are not an error.
func (s *CacheService) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}
