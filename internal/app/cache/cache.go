// Package cache memoizes transcripts keyed by audio content, so repeated
// invocations with identical payloads skip the model entirely.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TranscriptCache stores completed transcripts.
type TranscriptCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, transcript string) error
}

// Key derives the cache key from the model identity and the raw audio
// payload.
func Key(modelName string, audio []byte) string {
	sum := sha256.Sum256(audio)
	return fmt.Sprintf("transcript:%s:%s", modelName, hex.EncodeToString(sum[:]))
}

// RedisTranscriptCache implements TranscriptCache on Redis.
type RedisTranscriptCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisTranscriptCache connects to the given Redis address.
func NewRedisTranscriptCache(addr string) *RedisTranscriptCache {
	return &RedisTranscriptCache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    24 * time.Hour,
	}
}

func (c *RedisTranscriptCache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache get failed: %w", err)
	}
	return val, true, nil
}

func (c *RedisTranscriptCache) Set(ctx context.Context, key, transcript string) error {
	if err := c.client.Set(ctx, key, transcript, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set failed: %w", err)
	}
	return nil
}

// NoopCache disables caching.
type NoopCache struct{}

func (NoopCache) Get(ctx context.Context, key string) (string, bool, error) { return "", false, nil }
func (NoopCache) Set(ctx context.Context, key, transcript string) error     { return nil }
