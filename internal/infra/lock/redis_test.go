package lock

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Requer um Redis de verdade: REDIS_TEST_ADDR=localhost:6379 go test ./...
func newTestLocker(t *testing.T) *RedisLocker {
	t.Helper()

	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}

	client, err := NewRedisClient(context.Background(), addr, "", 0)
	if err != nil {
		t.Fatalf("redis: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	l := NewRedisLocker(client, 2*time.Second, zap.NewNop())
	l.retries = 1
	l.interval = 10 * time.Millisecond
	return l
}

func TestRedisLocker_ExclusiveUntilReleased(t *testing.T) {
	l := newTestLocker(t)
	ctx := context.Background()
	key := "slot-lock:test:" + uuid.NewString()

	release, err := l.Acquire(ctx, key)
	if err != nil {
		t.Fatalf("first acquire: %v", err)
	}

	if _, err := l.Acquire(ctx, key); !errors.Is(err, ErrBusy) {
		t.Fatalf("second acquire: expected ErrBusy, got %v", err)
	}

	release()

	again, err := l.Acquire(ctx, key)
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	again()
}

func TestRedisLocker_StaleReleaseKeepsNewOwner(t *testing.T) {
	l := newTestLocker(t)
	ctx := context.Background()
	key := "slot-lock:test:" + uuid.NewString()

	stale, err := l.Acquire(ctx, key)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	// simula expiração do TTL e outro dono pegando a chave
	if err := l.client.Del(ctx, key).Err(); err != nil {
		t.Fatalf("del: %v", err)
	}
	owner, err := l.Acquire(ctx, key)
	if err != nil {
		t.Fatalf("new owner: %v", err)
	}
	defer owner()

	stale()

	if _, err := l.Acquire(ctx, key); !errors.Is(err, ErrBusy) {
		t.Fatalf("stale release must not free the new owner's lock, got %v", err)
	}
}
