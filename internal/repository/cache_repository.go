package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss reports that no cached value exists for a key.
var ErrCacheMiss = errors.New("cache miss")

// CacheRepository stores JSON-encoded records in Redis.
type CacheRepository struct {
	client *redis.Client
}

// NewCacheRepository constructs a cache repository. A nil client turns every
// lookup into a miss and every write into a no-op.
//
// Each cached key has a "ver:<key>" counter. Writers bump it on invalidation
// and readers fill only if it has not moved since before their database read.
func NewCacheRepository(client *redis.Client) *CacheRepository {
	return &CacheRepository{client: client}
}

// Get retrieves and unmarshals the cached value into dest.
func (r *CacheRepository) Get(ctx context.Context, key string, dest interface{}) error {
	if r.client == nil {
		return ErrCacheMiss
	}

	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return fmt.Errorf("redis get %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("unmarshal cache value for %s: %w", key, err)
	}
	return nil
}

// versionTTL outlives any cached value so a counter never resets under a live entry.
const versionTTL = 24 * time.Hour

var errVersionChanged = errors.New("cache version changed")

func versionKey(key string) string {
	return "ver:" + key
}

// Versions returns the invalidation counter for each key. Missing counters read as zero.
func (r *CacheRepository) Versions(ctx context.Context, keys ...string) (map[string]int64, error) {
	versions := make(map[string]int64, len(keys))
	if r.client == nil || len(keys) == 0 {
		return versions, nil
	}

	vkeys := make([]string, len(keys))
	for i, k := range keys {
		vkeys[i] = versionKey(k)
	}
	vals, err := r.client.MGet(ctx, vkeys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis mget versions %v: %w", keys, err)
	}
	for i, k := range keys {
		n, err := parseVersion(vals[i])
		if err != nil {
			return nil, fmt.Errorf("parse version for %s: %w", k, err)
		}
		versions[k] = n
	}
	return versions, nil
}

// Bump increments the invalidation counter of each key.
func (r *CacheRepository) Bump(ctx context.Context, keys ...string) error {
	if r.client == nil || len(keys) == 0 {
		return nil
	}
	_, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, k := range keys {
			pipe.Incr(ctx, versionKey(k))
			pipe.Expire(ctx, versionKey(k), versionTTL)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis bump versions %v: %w", keys, err)
	}
	return nil
}

// SetIfUnchanged stores value under key only while every counter in versions
// still holds the recorded value. It reports whether the value was written.
func (r *CacheRepository) SetIfUnchanged(ctx context.Context, key string, value interface{}, ttl time.Duration, versions map[string]int64) (bool, error) {
	if r.client == nil {
		return false, nil
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("marshal cache value for %s: %w", key, err)
	}

	guarded := make([]string, 0, len(versions))
	watched := make([]string, 0, len(versions))
	for k := range versions {
		guarded = append(guarded, k)
		watched = append(watched, versionKey(k))
	}

	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		if len(watched) > 0 {
			vals, err := tx.MGet(ctx, watched...).Result()
			if err != nil {
				return err
			}
			for i, k := range guarded {
				n, err := parseVersion(vals[i])
				if err != nil {
					return err
				}
				if n != versions[k] {
					return errVersionChanged
				}
			}
		}
		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, ttl)
			return nil
		})
		return err
	}, watched...)

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, errVersionChanged), errors.Is(err, redis.TxFailedErr):
		return false, nil
	default:
		return false, fmt.Errorf("redis guarded set %s: %w", key, err)
	}
}

func parseVersion(raw interface{}) (int64, error) {
	switch v := raw.(type) {
	case nil:
		return 0, nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, fmt.Errorf("unexpected version type %T", raw)
	}
}

// Delete removes the given keys.
func (r *CacheRepository) Delete(ctx context.Context, keys ...string) error {
	if r.client == nil || len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis delete %v: %w", keys, err)
	}
	return nil
}

// DeleteByPattern removes every key matching a glob pattern.
func (r *CacheRepository) DeleteByPattern(ctx context.Context, pattern string) error {
	if r.client == nil {
		return nil
	}

	iter := r.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("redis delete %s: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan pattern %s: %w", pattern, err)
	}
	return nil
}
