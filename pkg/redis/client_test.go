package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestSetNXReservesOnce(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	first, err := client.SetNX(ctx, "bb:idempotency:orders:key", "pending", time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !first {
		t.Fatalf("expected first reservation to succeed")
	}

	second, err := client.SetNX(ctx, "bb:idempotency:orders:key", "pending", time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second {
		t.Fatalf("expected duplicate reservation to fail")
	}
}

func TestGetMissingReturnsNil(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	_, err := client.Get(ctx, "bb:counter:missing")
	if !IsNil(err) {
		t.Fatalf("expected redis.Nil, got %v", err)
	}

	if err := client.Set(ctx, "bb:counter:present", "1", 0); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	value, err := client.Get(ctx, "bb:counter:present")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if value != "1" {
		t.Fatalf("expected stored value, got %q", value)
	}
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	if got := client.IdempotencyKey("checkout", "id"); got != "bb:idempotency:checkout:id" {
		t.Fatalf("unexpected idempotency key %s", got)
	}
	if got := client.CounterKey("hits"); got != "bb:counter:hits" {
		t.Fatalf("unexpected counter key %s", got)
	}
	if got := client.IdempotencyKey("", "id"); got != "bb:idempotency:id" {
		t.Fatalf("empty parts should be skipped, got %s", got)
	}
}

type mockCmdable struct {
	data        map[string]string
	incr        map[string]int64
	expireCalls []expireCall
}

type expireCall struct {
	key string
	ttl time.Duration
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{
		data: make(map[string]string),
		incr: make(map[string]int64),
	}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	m.data[key] = fmt.Sprint(value)
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd {
	if _, exists := m.data[key]; exists {
		return redis.NewBoolResult(false, nil)
	}
	m.data[key] = fmt.Sprint(value)
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) Incr(ctx context.Context, key string) *redis.IntCmd {
	m.incr[key]++
	return redis.NewIntResult(m.incr[key], nil)
}

func (m *mockCmdable) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	m.expireCalls = append(m.expireCalls, expireCall{key: key, ttl: expiration})
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(m.data, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}
