package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/d60-Lab/onyx/internal/model"
)

// InterestCache caches a user's top interests (cache-aside).
// Every feedback event bumps a per-user version and drops the entry.
// Writers pass the version they read before loading from the database,
// and the write is skipped if feedback happened in between.
type InterestCache struct {
	client *redis.Client
	ttl    time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

// NewInterestCache builds a cache on top of an existing client.
func NewInterestCache(client *redis.Client, ttl time.Duration) *InterestCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &InterestCache{client: client, ttl: ttl}
}

func interestKey(userID string) string { return fmt.Sprintf("interests:top:%s", userID) }

func versionKey(userID string) string { return fmt.Sprintf("interests:ver:%s", userID) }

// 版本号远比条目活得久，过期后归零只会让写入被跳过
const versionTTL = 24 * time.Hour

var setIfVersionScript = redis.NewScript(`
local cur = redis.call("GET", KEYS[2]) or "0"
if cur ~= ARGV[1] then
	return 0
end
redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
return 1
`)

// Get returns the cached list and whether it was present.
func (c *InterestCache) Get(ctx context.Context, userID string) ([]model.InterestScore, bool) {
	data, err := c.client.Get(ctx, interestKey(userID)).Bytes()
	if err != nil {
		c.misses.Add(1)
		return nil, false
	}
	var out []model.InterestScore
	if err := json.Unmarshal(data, &out); err != nil {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return out, true
}

// Version returns the current feedback version for the user (0 if none).
func (c *InterestCache) Version(ctx context.Context, userID string) (int64, error) {
	v, err := c.client.Get(ctx, versionKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// Set stores scores only if the version is still the one passed in.
func (c *InterestCache) Set(ctx context.Context, userID string, version int64, scores []model.InterestScore) error {
	if scores == nil {
		scores = []model.InterestScore{}
	}
	payload, err := json.Marshal(scores)
	if err != nil {
		return err
	}
	keys := []string{interestKey(userID), versionKey(userID)}
	return setIfVersionScript.Run(ctx, c.client, keys, strconv.FormatInt(version, 10), payload, c.ttl.Milliseconds()).Err()
}

func (c *InterestCache) Invalidate(ctx context.Context, userID string) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, versionKey(userID))
		pipe.Expire(ctx, versionKey(userID), versionTTL)
		pipe.Del(ctx, interestKey(userID))
		return nil
	})
	return err
}

// Counters reports cache hits and misses since start.
func (c *InterestCache) Counters() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}
