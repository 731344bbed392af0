package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"agendamento/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// SlotLocker serialises check-then-insert for one slot key.
type SlotLocker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// SlotKey identifies a (city, date, time) triple.
func SlotKey(cityID int, date, hour string) string {
	return fmt.Sprintf("%d:%s:%s", cityID, date, hour)
}

type keyedMutex struct {
	mu   sync.Mutex
	refs int
}

// MemoryLocker locks slots inside one process.
type MemoryLocker struct {
	mu    sync.Mutex
	slots map[string]*keyedMutex
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{slots: make(map[string]*keyedMutex)}
}

func (l *MemoryLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	km, ok := l.slots[key]
	if !ok {
		km = &keyedMutex{}
		l.slots[key] = km
	}
	km.refs++
	l.mu.Unlock()

	km.mu.Lock()
	return func() {
		km.mu.Unlock()
		l.mu.Lock()
		km.refs--
		if km.refs == 0 {
			delete(l.slots, key)
		}
		l.mu.Unlock()
	}, nil
}

var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0`)

// RedisLocker shares slot locks between processes through SETNX.
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
	retry  time.Duration
}

func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client, ttl: utils.SlotLockTTL, retry: 50 * time.Millisecond}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := utils.SlotLockPrefix + key
	token := uuid.NewString()
	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire slot lock %s: %w", key, err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("acquire slot lock %s: %w", key, ctx.Err())
		case <-time.After(l.retry):
		}
	}
	return func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, l.client, []string{redisKey}, token).Err(); err != nil && err != redis.Nil {
			utils.GetLogger().Sugar().Warnf("release slot lock %s: %v", key, err)
		}
	}, nil
}

// NewLocker picks the Redis locker when a client is available.
func NewLocker(client *redis.Client) SlotLocker {
	if client != nil {
		return NewRedisLocker(client)
	}
	return NewMemoryLocker()
}
