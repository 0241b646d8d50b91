// Copyright (c) 2026 Linkup. All rights reserved.

package post

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/chanhlegend/linkup/internal/platform/constants"
)

// FeedCacheTTL bounds staleness when an invalidation is missed (e.g. a
// Redis hiccup during a write).
const FeedCacheTTL = 2 * time.Minute

// cachedFeedPage is the serialized shape stored per feed page.
type cachedFeedPage struct {
	Posts []*Post `json:"posts"`
	Total int     `json:"total"`
}

/*
FeedCache is a Redis page cache for the public feed.

Every cached page key carries a version number; invalidation bumps the
version counter instead of enumerating keys, so stale pages simply stop
being addressed and expire on their own TTL.

Cache failures are never surfaced to callers — the feed degrades to the
database, it does not break.
*/
type FeedCache struct {
	client *redis.Client
	logger *slog.Logger
}

// NewFeedCache creates a feed cache over the shared Redis client.
func NewFeedCache(client *redis.Client, logger *slog.Logger) *FeedCache {
	return &FeedCache{client: client, logger: logger}
}

/*
Get returns a cached feed page, if present.

Returns:
  - []*Post, int: The cached page and total count
  - bool: Whether the page was found
*/
func (cache *FeedCache) Get(ctx context.Context, page, limit int) ([]*Post, int, bool) {
	if cache.client == nil {
		return nil, 0, false
	}

	key, err := cache.pageKey(ctx, page, limit)
	if err != nil {
		cache.logMiss(ctx, "feed_cache_version_failed", err)
		return nil, 0, false
	}

	raw, err := cache.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			cache.logMiss(ctx, "feed_cache_get_failed", err)
		}
		return nil, 0, false
	}

	var cached cachedFeedPage
	if err := json.Unmarshal(raw, &cached); err != nil {
		cache.logMiss(ctx, "feed_cache_decode_failed", err)
		return nil, 0, false
	}

	return cached.Posts, cached.Total, true
}

// Set stores a feed page under the current version. Failures are logged
// and swallowed.
func (cache *FeedCache) Set(ctx context.Context, page, limit int, posts []*Post, total int) {
	if cache.client == nil {
		return
	}

	key, err := cache.pageKey(ctx, page, limit)
	if err != nil {
		cache.logMiss(ctx, "feed_cache_version_failed", err)
		return
	}

	raw, err := json.Marshal(cachedFeedPage{Posts: posts, Total: total})
	if err != nil {
		cache.logMiss(ctx, "feed_cache_encode_failed", err)
		return
	}

	if err := cache.client.Set(ctx, key, raw, FeedCacheTTL).Err(); err != nil {
		cache.logMiss(ctx, "feed_cache_set_failed", err)
	}
}

// Invalidate bumps the feed version, orphaning every cached page at once.
func (cache *FeedCache) Invalidate(ctx context.Context) {
	if cache.client == nil {
		return
	}

	if err := cache.client.Incr(ctx, cache.versionKey()).Err(); err != nil {
		cache.logMiss(ctx, "feed_cache_invalidate_failed", err)
	}
}

// pageKey builds the versioned key for one feed page.
func (cache *FeedCache) pageKey(ctx context.Context, page, limit int) (string, error) {
	version, err := cache.client.Get(ctx, cache.versionKey()).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}

	return fmt.Sprintf("%sv%d:p%d:l%d", constants.RedisPrefixFeedCache, version, page, limit), nil
}

// versionKey is the counter key addressing the current feed generation.
func (cache *FeedCache) versionKey() string {
	return constants.RedisPrefixFeedCache + "version"
}

// logMiss records a cache-layer failure without failing the request.
func (cache *FeedCache) logMiss(ctx context.Context, event string, err error) {
	cache.logger.WarnContext(ctx, event, slog.String("error", err.Error()))
}
