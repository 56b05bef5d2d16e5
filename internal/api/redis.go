package api

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "user:"

// RedisDirectory is a JSONGetter that resolves users from Redis hashes
// stored at "user:<id>". Field values are served as strings.
type RedisDirectory struct {
	rdb *redis.Client
}

var (
	_ JSONGetter = (*RedisDirectory)(nil)
	_ Directory  = (*RedisDirectory)(nil)
)

// NewRedisDirectory wraps an existing Redis client.
func NewRedisDirectory(rdb *redis.Client) *RedisDirectory {
	return &RedisDirectory{rdb: rdb}
}

// OpenRedisDirectory connects to the server at rawURL
// (e.g. "redis://localhost:6379/0").
func OpenRedisDirectory(rawURL string) (*RedisDirectory, error) {
	opts, err := redis.ParseURL(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	return NewRedisDirectory(redis.NewClient(opts)), nil
}

// Close releases the underlying connection pool.
func (d *RedisDirectory) Close() error {
	return d.rdb.Close()
}

// Get implements JSONGetter.
func (d *RedisDirectory) Get(ctx context.Context, url string) (Payload, error) {
	id, ok := UserIDFromURL(url)
	if !ok {
		return nil, NewLookupError("")
	}
	fields, err := d.rdb.HGetAll(ctx, redisKeyPrefix+id).Result()
	if err != nil {
		if isTimeout(err) {
			return nil, newTimeoutError(url, err)
		}
		return nil, fmt.Errorf("redis lookup failed: %w", err)
	}
	if len(fields) == 0 {
		return nil, NewLookupError(id)
	}
	out := make(Payload, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out, nil
}

// Seed writes fields for id, replacing any existing hash.
func (d *RedisDirectory) Seed(ctx context.Context, id string, fields map[string]string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return errors.New("user id is required")
	}
	if len(fields) == 0 {
		return errors.New("at least one field is required")
	}
	key := redisKeyPrefix + id
	values := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		values = append(values, k, v)
	}
	_, err := d.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, values...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis seed failed: %w", err)
	}
	return nil
}

// Entries implements Directory by scanning "user:*" keys.
func (d *RedisDirectory) Entries(ctx context.Context) (map[string]Payload, error) {
	out := make(map[string]Payload)
	iter := d.rdb.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		fields, err := d.rdb.HGetAll(ctx, key).Result()
		if err != nil {
			return nil, fmt.Errorf("redis scan failed: %w", err)
		}
		if len(fields) == 0 {
			continue
		}
		p := make(Payload, len(fields))
		for k, v := range fields {
			p[k] = v
		}
		out[strings.TrimPrefix(key, redisKeyPrefix)] = p
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan failed: %w", err)
	}
	return out, nil
}
