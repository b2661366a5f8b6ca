package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockTimeout 在等待时间内未拿到锁
var ErrLockTimeout = errors.New("lock wait timeout")

// LocalPairLocker 进程内按 key 互斥，key 不再使用时回收
type LocalPairLocker struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

// refMutex 容量为 1 的通道充当互斥量，等待时可响应 ctx
type refMutex struct {
	ch   chan struct{}
	refs int
}

func NewLocalPairLocker() *LocalPairLocker {
	return &LocalPairLocker{locks: make(map[string]*refMutex)}
}

func (l *LocalPairLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &refMutex{ch: make(chan struct{}, 1)}
		l.locks[key] = m
	}
	m.refs++
	l.mu.Unlock()

	select {
	case m.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(key, m)
		return nil, ctx.Err()
	}
	return func() {
		<-m.ch
		l.release(key, m)
	}, nil
}

func (l *LocalPairLocker) release(key string, m *refMutex) {
	l.mu.Lock()
	m.refs--
	if m.refs == 0 {
		delete(l.locks, key)
	}
	l.mu.Unlock()
}

// RedisPairLocker 多实例下的按 key 互斥（SET NX PX + 校验 token 释放）
type RedisPairLocker struct {
	client *redis.Client
	ttl    time.Duration
	retry  time.Duration
}

var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func NewRedisPairLocker(client *redis.Client, ttl time.Duration) *RedisPairLocker {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &RedisPairLocker{client: client, ttl: ttl, retry: 20 * time.Millisecond}
}

func (l *RedisPairLocker) Lock(ctx context.Context, key string) (func(), error) {
	lockKey := fmt.Sprintf("lock:%s", key)
	token := uuid.New().String()
	deadline := time.Now().Add(l.ttl)

	for {
		ok, err := l.client.SetNX(ctx, lockKey, token, l.ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			return func() {
				_ = unlockScript.Run(context.Background(), l.client, []string{lockKey}, token).Err()
			}, nil
		}
		if time.Now().After(deadline) {
			return nil, ErrLockTimeout
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retry):
		}
	}
}
