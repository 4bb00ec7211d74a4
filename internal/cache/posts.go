// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// posts.go provides a Valkey-backed cache for serialized public post
// responses. Listing pages and post detail payloads are stored as the JSON
// bytes sent to the client, so cache hits skip the DB query and the
// response encoding entirely. Any post mutation clears the whole cache.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	// postKeyPrefix is the Valkey key prefix for cached post responses.
	postKeyPrefix = "posts:"

	// DefaultPostTTL is how long a cached response stays valid.
	DefaultPostTTL = 5 * time.Minute
)

// PostCache manages cached post responses in Valkey. A nil *PostCache is
// valid and disables caching, so callers never have to branch on whether
// Valkey is configured.
type PostCache struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// NewPostCache creates a post response cache backed by the given Valkey
// client. A nil client yields a disabled cache.
func NewPostCache(client *redis.Client, ttl time.Duration, log zerolog.Logger) *PostCache {
	if client == nil {
		return nil
	}
	if ttl == 0 {
		ttl = DefaultPostTTL
	}
	return &PostCache{client: client, ttl: ttl, log: log}
}

// Get retrieves a cached response body. Returns false on miss or when the
// cache is disabled.
func (pc *PostCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if pc == nil {
		return nil, false
	}
	val, err := pc.client.Get(ctx, postKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		pc.log.Warn().Str("key", key).Err(err).Msg("post cache get error")
		return nil, false
	}
	pc.log.Debug().Str("key", key).Msg("post cache hit")
	return val, true
}

// Set stores a response body under the given key with the configured TTL.
func (pc *PostCache) Set(ctx context.Context, key string, body []byte) {
	if pc == nil {
		return
	}
	if err := pc.client.Set(ctx, postKeyPrefix+key, body, pc.ttl).Err(); err != nil {
		pc.log.Warn().Str("key", key).Err(err).Msg("post cache set error")
	}
}

// InvalidateAll removes all cached post responses by scanning for the
// prefix. Called after any post create, update, or delete: a slug change
// or publish toggle can affect both listings and detail pages.
func (pc *PostCache) InvalidateAll(ctx context.Context) {
	if pc == nil {
		return
	}
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := pc.client.Scan(ctx, cursor, postKeyPrefix+"*", 100).Result()
		if err != nil {
			pc.log.Warn().Err(err).Msg("post cache scan error")
			return
		}
		if len(keys) > 0 {
			if err := pc.client.Del(ctx, keys...).Err(); err != nil {
				pc.log.Warn().Err(err).Msg("post cache bulk delete error")
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		pc.log.Info().Int("deleted", deleted).Msg("post cache cleared")
	}
}

// ListKey returns the cache key for a listing page.
func ListKey(page, limit int, tag string) string {
	return fmt.Sprintf("list:%d:%d:%s", page, limit, tag)
}

// DetailKey returns the cache key for a post detail payload.
func DetailKey(slug string) string {
	return "detail:" + slug
}
