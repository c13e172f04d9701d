// Copyright (c) 2025 Glowdesk Inc. All Rights Reserved.
// This is licensed software from Glowdesk Inc, for limitations
// and restrictions contact your company contract manager.

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/glowdesk/health-engine/pkg/model"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const (
	// redisScoreKeyPrefix is the prefix for all cached score keys.
	redisScoreKeyPrefix = "health_engine:score:"

	// redisScoreDefaultTTL bounds snapshot lifetime in Redis. Boundedness
	// comes from TTL here rather than an eviction sweep: Redis is the
	// durable, horizontally-shared port of the cache, so a fixed entry
	// cap across service instances would need coordination that TTL
	// expiry gives us for free.
	redisScoreDefaultTTL = 30 * 24 * time.Hour
)

// RedisScoreCache implements ScoreCache on Redis so multiple service
// instances observe consistent trend history.
type RedisScoreCache struct {
	client *redis.Client
	cfg    RedisScoreCacheConfig
}

// RedisScoreCacheConfig tunes the Redis-backed score cache.
type RedisScoreCacheConfig struct {
	// TTL overrides redisScoreDefaultTTL when positive.
	TTL time.Duration
}

// NewRedisScoreCache creates a Redis-backed score cache.
func NewRedisScoreCache(client *redis.Client, cfg RedisScoreCacheConfig) *RedisScoreCache {
	if cfg.TTL <= 0 {
		cfg.TTL = redisScoreDefaultTTL
	}
	return &RedisScoreCache{
		client: client,
		cfg:    cfg,
	}
}

func makeScoreKey(customerID string) string {
	return redisScoreKeyPrefix + customerID
}

// Get retrieves the cached entry for a customer.
func (r *RedisScoreCache) Get(ctx context.Context, customerID string) (*Entry, bool, error) {
	data, err := r.client.Get(ctx, makeScoreKey(customerID)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get score for customer %s: %w", customerID, err)
	}

	var entry Entry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal score for customer %s: %w", customerID, err)
	}

	return &entry, true, nil
}

// Update performs an optimistic read-modify-write on the customer's
// key. Redis WATCH aborts the transaction if another writer touches the
// key between the prior-snapshot read and the new-snapshot write, which
// keeps trend detection consistent across concurrent scorers.
func (r *RedisScoreCache) Update(ctx context.Context, customerID string, fn func(prev *Entry) (model.CustomerHealthScore, error)) error {
	key := makeScoreKey(customerID)

	txn := func(tx *redis.Tx) error {
		var prev *Entry

		data, err := tx.Get(ctx, key).Result()
		if err != nil && err != redis.Nil {
			return fmt.Errorf("failed to read prior score: %w", err)
		}
		if err == nil {
			var entry Entry
			if unmarshalErr := json.Unmarshal([]byte(data), &entry); unmarshalErr != nil {
				// A corrupt snapshot should not block rescoring; treat
				// it as absent and overwrite.
				logrus.Warnf("discarding corrupt cached score for customer %s: %v", customerID, unmarshalErr)
			} else {
				prev = &entry
			}
		}

		score, err := fn(prev)
		if err != nil {
			return err
		}

		payload, err := json.Marshal(Entry{
			CustomerID: customerID,
			Score:      score,
			Timestamp:  time.Now(),
		})
		if err != nil {
			return fmt.Errorf("failed to marshal score: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, r.cfg.TTL)
			return nil
		})
		return err
	}

	if err := r.client.Watch(ctx, txn, key); err != nil {
		return fmt.Errorf("failed to update score for customer %s: %w", customerID, err)
	}

	logrus.Debugf("updated cached score for customer %s with TTL %v", customerID, r.cfg.TTL)
	return nil
}

// Entries scans all cached score keys and returns their entries.
func (r *RedisScoreCache) Entries(ctx context.Context) ([]Entry, error) {
	var entries []Entry

	iter := r.client.Scan(ctx, 0, redisScoreKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		data, err := r.client.Get(ctx, iter.Val()).Result()
		if err == redis.Nil {
			continue // expired between scan and get
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read cached score %s: %w", iter.Val(), err)
		}

		var entry Entry
		if err := json.Unmarshal([]byte(data), &entry); err != nil {
			logrus.Warnf("skipping corrupt cached score %s: %v", iter.Val(), err)
			continue
		}
		entries = append(entries, entry)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan cached scores: %w", err)
	}

	return entries, nil
}

// Len counts cached score keys.
func (r *RedisScoreCache) Len(ctx context.Context) (int, error) {
	count := 0
	iter := r.client.Scan(ctx, 0, redisScoreKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("failed to scan cached scores: %w", err)
	}
	return count, nil
}
