package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisClient struct {
	client     *redis.Client
	defaultTTL time.Duration
}

func NewRedisClient(addr string, poolSize int, defaultTTL time.Duration) *RedisClient {
	client := redis.NewClient(&redis.Options{
		Addr: addr,

		PoolSize:     poolSize,
		MinIdleConns: 2,

		// Timeouts tuned for cache lookups on the request path
		DialTimeout:  5 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,

		MaxRetries:      3,
		MinRetryBackoff: 50 * time.Millisecond,
		MaxRetryBackoff: 500 * time.Millisecond,
	})

	return &RedisClient{
		client:     client,
		defaultTTL: defaultTTL,
	}
}

func (rc *RedisClient) GetKey(ctx context.Context, key string) (string, bool, error) {
	result := rc.client.Get(ctx, key)

	// Cache miss
	if result.Err() == redis.Nil {
		return "", false, nil
	}
	if result.Err() != nil {
		return "", false, result.Err()
	}

	return result.Val(), true, nil
}

// SetWithTag stores the value and registers the key under a named tag set,
// so a later InvalidateTag can clear every key written under that tag.
func (rc *RedisClient) SetWithTag(ctx context.Context, key string, value string, tag string) error {
	pipe := rc.client.Pipeline()

	pipe.Set(ctx, key, value, rc.defaultTTL)
	pipe.SAdd(ctx, tagKey(tag), key)
	pipe.Expire(ctx, tagKey(tag), rc.defaultTTL)

	_, err := pipe.Exec(ctx)
	return err
}

// InvalidateTag deletes every key registered under the tag, then the tag
// set itself.
func (rc *RedisClient) InvalidateTag(ctx context.Context, tag string) error {
	members, err := rc.client.SMembers(ctx, tagKey(tag)).Result()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("failed to read tag registry %s: %w", tag, err)
	}

	keys := append(members, tagKey(tag))

	var failures []string
	for _, key := range keys {
		if err := rc.client.Del(ctx, key).Err(); err != nil {
			failures = append(failures, fmt.Sprintf("key %s: %v", key, err))
		}
	}

	if len(failures) > 0 {
		return fmt.Errorf("invalidation errors: %s", strings.Join(failures, "; "))
	}

	return nil
}

func (rc *RedisClient) HealthCheck(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

func (rc *RedisClient) Close() error {
	return rc.client.Close()
}

func tagKey(tag string) string {
	return "tag:" + tag
}
