// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// testValkeyClient returns a Redis client for tests.
// Skips if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "posts:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestConnectValkey(t *testing.T) {
	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")

	client, err := ConnectValkey(host, port, "", zerolog.Nop())
	if err != nil {
		t.Skipf("skipping: Valkey not available: %v", err)
	}
	defer client.Close()

	ctx := context.Background()
	pong, err := client.Ping(ctx).Result()
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if pong != "PONG" {
		t.Errorf("expected PONG, got %q", pong)
	}
}

func TestPostCacheSetAndGet(t *testing.T) {
	client := testValkeyClient(t)
	pc := NewPostCache(client, 1*time.Minute, zerolog.Nop())

	ctx := context.Background()

	// Miss.
	data, ok := pc.Get(ctx, DetailKey("hello-world"))
	if ok {
		t.Error("expected cache miss")
	}
	if data != nil {
		t.Error("expected nil data on miss")
	}

	// Set.
	body := []byte(`{"title":"Hello","slug":"hello-world"}`)
	pc.Set(ctx, DetailKey("hello-world"), body)

	// Hit.
	data, ok = pc.Get(ctx, DetailKey("hello-world"))
	if !ok {
		t.Error("expected cache hit")
	}
	if string(data) != string(body) {
		t.Errorf("data mismatch: got %q, want %q", data, body)
	}
}

func TestPostCacheInvalidateAll(t *testing.T) {
	client := testValkeyClient(t)
	pc := NewPostCache(client, 1*time.Minute, zerolog.Nop())

	ctx := context.Background()

	pc.Set(ctx, ListKey(1, 6, ""), []byte("a"))
	pc.Set(ctx, ListKey(2, 6, "linux"), []byte("b"))
	pc.Set(ctx, DetailKey("some-post"), []byte("c"))

	pc.InvalidateAll(ctx)

	for _, key := range []string{ListKey(1, 6, ""), ListKey(2, 6, "linux"), DetailKey("some-post")} {
		_, ok := pc.Get(ctx, key)
		if ok {
			t.Errorf("expected miss for %q after InvalidateAll", key)
		}
	}
}

func TestNilPostCacheIsDisabled(t *testing.T) {
	var pc *PostCache

	ctx := context.Background()

	// All operations should be safe no-ops on nil.
	pc.Set(ctx, "key", []byte("data"))
	pc.InvalidateAll(ctx)

	data, ok := pc.Get(ctx, "key")
	if ok || data != nil {
		t.Error("nil cache should always miss")
	}

	if got := NewPostCache(nil, time.Minute, zerolog.Nop()); got != nil {
		t.Error("NewPostCache with nil client should return nil")
	}
}

func TestListKey(t *testing.T) {
	if got := ListKey(2, 6, "devops"); got != "list:2:6:devops" {
		t.Errorf("ListKey: got %q", got)
	}
	if got := ListKey(1, 10, ""); got != "list:1:10:" {
		t.Errorf("ListKey without tag: got %q", got)
	}
}

func TestDetailKey(t *testing.T) {
	if got := DetailKey("about-us"); got != "detail:about-us" {
		t.Errorf("DetailKey: got %q", got)
	}
}

func TestNewPostCacheDefaultTTL(t *testing.T) {
	client := testValkeyClient(t)

	pc := NewPostCache(client, 0, zerolog.Nop())
	if pc.ttl != DefaultPostTTL {
		t.Errorf("expected DefaultPostTTL (%v), got %v", DefaultPostTTL, pc.ttl)
	}
}
