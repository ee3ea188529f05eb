package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache miss")

// CacheService stores fetched source payloads in Redis so reruns within the
// TTL do not hit the upstream feeds again.
type CacheService struct {
	client *redis.Client
	prefix string
}

func NewCacheService(client *redis.Client) *CacheService {
	return &CacheService{
		client: client,
		prefix: "ffdata:",
	}
}

// NewCacheServiceFromURL connects to the Redis instance at a redis:// URL.
func NewCacheServiceFromURL(ctx context.Context, url string) (*CacheService, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return NewCacheService(client), nil
}

func (s *CacheService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	if err := s.client.Set(ctx, s.prefix+key, data, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}

	return nil
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return fmt.Errorf("failed to get cache: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal value: %w", err)
	}

	return nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = s.prefix + k
	}
	if err := s.client.Del(ctx, prefixed...).Err(); err != nil {
		return fmt.Errorf("failed to delete cache: %w", err)
	}
	return nil
}

func (s *CacheService) Close() error {
	return s.client.Close()
}

// SourceCacheKey keys one feed's raw rows. kind separates row shapes that a
// single source name may publish (projections, ADP); the URL hash separates
// feeds configured under the same name.
func SourceCacheKey(kind, source, url string, season int) string {
	h := fnv.New64a()
	h.Write([]byte(url))
	return fmt.Sprintf("source:%s:%s:%d:%016x", kind, source, season, h.Sum64())
}
