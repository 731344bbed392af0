package booking

import (
	"context"
	"testing"
	"time"

	"agendamento/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func newRedisLocker(t *testing.T) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })
	l := NewRedisLocker(client)
	l.retry = 5 * time.Millisecond
	return l, srv
}

func TestRedisLockerExcludesSecondHolder(t *testing.T) {
	l, srv := newRedisLocker(t)
	key := SlotKey(6, "2025-03-12", "08:00")

	unlock, err := l.Lock(context.Background(), key)
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}
	if !srv.Exists(utils.SlotLockPrefix + key) {
		t.Fatalf("lock key not set")
	}
	if ttl := srv.TTL(utils.SlotLockPrefix + key); ttl <= 0 || ttl > utils.SlotLockTTL {
		t.Errorf("ttl = %v, want within %v", ttl, utils.SlotLockTTL)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := l.Lock(ctx, key); err == nil {
		t.Fatalf("second Lock succeeded while held")
	}

	unlock()
	if srv.Exists(utils.SlotLockPrefix + key) {
		t.Fatalf("unlock left the key behind")
	}
	again, err := l.Lock(context.Background(), key)
	if err != nil {
		t.Fatalf("Lock after unlock: %v", err)
	}
	again()
}

func TestRedisLockerUnlockKeepsOtherToken(t *testing.T) {
	l, srv := newRedisLocker(t)
	key := SlotKey(1, "2025-03-12", "09:00")

	stale, err := l.Lock(context.Background(), key)
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}
	// The first holder's lease runs out and another process takes the slot.
	srv.FastForward(utils.SlotLockTTL + time.Second)
	if err := srv.Set(utils.SlotLockPrefix+key, "other-holder"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	stale()
	if got, err := srv.Get(utils.SlotLockPrefix + key); err != nil || got != "other-holder" {
		t.Fatalf("key = %q (%v), want other-holder kept", got, err)
	}
}

func TestRedisLockerReportsUnreachableServer(t *testing.T) {
	l, srv := newRedisLocker(t)
	srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := l.Lock(ctx, SlotKey(2, "2025-03-12", "10:00")); err == nil {
		t.Fatalf("Lock against a closed server succeeded")
	}
}

func TestNewLockerPicksBackend(t *testing.T) {
	if _, ok := NewLocker(nil).(*MemoryLocker); !ok {
		t.Errorf("NewLocker(nil) is not a MemoryLocker")
	}
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	defer client.Close()
	if _, ok := NewLocker(client).(*RedisLocker); !ok {
		t.Errorf("NewLocker(client) is not a RedisLocker")
	}
}
