package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/onyx/internal/model"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestInterestCache_RoundTripAndInvalidate(t *testing.T) {
	mr, client := newRedis(t)
	c := NewInterestCache(client, time.Minute)
	ctx := context.Background()

	_, ok := c.Get(ctx, "u1")
	assert.False(t, ok)

	scores := []model.InterestScore{{TagID: "t1", TagName: "fitness", Score: 3}}
	require.NoError(t, c.Set(ctx, "u1", 0, scores))

	got, ok := c.Get(ctx, "u1")
	require.True(t, ok)
	assert.Equal(t, scores, got)

	require.NoError(t, c.Invalidate(ctx, "u1"))
	_, ok = c.Get(ctx, "u1")
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "u2", 0, nil))
	mr.FastForward(2 * time.Minute)
	_, ok = c.Get(ctx, "u2")
	assert.False(t, ok)

	hits, misses := c.Counters()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(3), misses)
}

func TestInterestCache_StaleWriteSkipped(t *testing.T) {
	_, client := newRedis(t)
	c := NewInterestCache(client, time.Minute)
	ctx := context.Background()

	// 读者先拿版本，随后反馈让缓存失效
	v, err := c.Version(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), v)
	require.NoError(t, c.Invalidate(ctx, "u1"))

	require.NoError(t, c.Set(ctx, "u1", v, []model.InterestScore{}))
	_, ok := c.Get(ctx, "u1")
	assert.False(t, ok, "write with an old version must not land")

	v, err = c.Version(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
	fresh := []model.InterestScore{{TagID: "t1", TagName: "fitness", Score: 1}}
	require.NoError(t, c.Set(ctx, "u1", v, fresh))
	got, ok := c.Get(ctx, "u1")
	require.True(t, ok)
	assert.Equal(t, fresh, got)
}

func TestLocalPairLocker_Serializes(t *testing.T) {
	l := NewLocalPairLocker()
	ctx := context.Background()

	var mu sync.Mutex
	inside, maxInside := 0, 0
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(ctx, "a|b")
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			inside++
			if inside > maxInside {
				maxInside = inside
			}
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			inside--
			mu.Unlock()
			unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxInside)
	assert.Empty(t, l.locks)
}

func TestLocalPairLocker_WaitHonorsContext(t *testing.T) {
	l := NewLocalPairLocker()
	unlock, err := l.Lock(context.Background(), "a|b")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "a|b")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	unlock2, err := l.Lock(context.Background(), "a|b")
	require.NoError(t, err)
	unlock2()
	assert.Empty(t, l.locks, "idle keys are released")
}

func TestRedisPairLocker(t *testing.T) {
	mr, client := newRedis(t)
	l := NewRedisPairLocker(client, 200*time.Millisecond)
	ctx := context.Background()

	unlock, err := l.Lock(ctx, "a|b")
	require.NoError(t, err)
	assert.True(t, mr.Exists("lock:a|b"))

	// 其他 key 不受影响
	unlockOther, err := l.Lock(ctx, "c|d")
	require.NoError(t, err)
	unlockOther()

	_, err = l.Lock(ctx, "a|b")
	assert.ErrorIs(t, err, ErrLockTimeout)

	unlock()
	assert.False(t, mr.Exists("lock:a|b"))

	unlock2, err := l.Lock(ctx, "a|b")
	require.NoError(t, err)
	unlock2()
}
