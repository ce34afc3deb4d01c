package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheService provides a Redis cache-aside layer for channel lookups and
// video listings. A nil client turns every operation into a no-op so the
// service runs fine without Redis.
type CacheService struct {
	rdb *redis.Client
}

// NewCacheService connects to Redis. An empty URL or a failed connection
// disables caching instead of failing startup.
func NewCacheService(redisURL string) *CacheService {
	if redisURL == "" {
		log.Println("redis: no URL configured, caching disabled")
		return &CacheService{}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("redis: invalid URL %q, caching disabled: %v", redisURL, err)
		return &CacheService{}
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("redis: connection failed, caching disabled: %v", err)
		return &CacheService{}
	}

	log.Println("redis: connected, caching enabled")
	return &CacheService{rdb: rdb}
}

// Client returns the underlying Redis client for health checks. May be nil.
func (c *CacheService) Client() *redis.Client {
	return c.rdb
}

// Enabled reports whether a Redis connection is live.
func (c *CacheService) Enabled() bool {
	return c.rdb != nil
}

// Get retrieves a cached payload. Returns nil bytes on miss or when
// caching is disabled.
func (c *CacheService) Get(ctx context.Context, key string) ([]byte, error) {
	if c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return data, err
}

// Set stores a JSON-encoded payload with a TTL.
func (c *CacheService) Set(ctx context.Context, key string, data interface{}, ttl time.Duration) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, ttl).Err()
}

// Close shuts down the Redis connection.
func (c *CacheService) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

// ChannelKey is the cache key for a channel lookup.
func ChannelKey(channelID string) string {
	return fmt.Sprintf("channel:%s", channelID)
}

// VideosKey is the cache key for a channel's video listing.
func VideosKey(channelID, order string, maxResults int64) string {
	return fmt.Sprintf("videos:%s:%s:%d", channelID, order, maxResults)
}

// HistoryKey is the cache key for a channel's statistics series.
func HistoryKey(channelID string, days int) string {
	return fmt.Sprintf("history:%s:%d", channelID, days)
}
