// Package rediscache wraps repository readers with Redis-backed caches.
package rediscache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ignite/botconsole/internal/pkg/logger"
	"github.com/ignite/botconsole/internal/service/broadcast"
)

const tagsKey = "botconsole:tags:distinct"

// TagDirectory caches the distinct-tag listing in Redis. The tag vocabulary
// changes rarely and backs a dropdown the UI polls often, so a short TTL is
// enough. Cache failures degrade to the underlying directory, never to an
// error.
type TagDirectory struct {
	inner broadcast.TagDirectory
	rdb   *redis.Client
	ttl   time.Duration
}

// NewTagDirectory wraps inner with a Redis cache.
func NewTagDirectory(inner broadcast.TagDirectory, rdb *redis.Client, ttl time.Duration) *TagDirectory {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &TagDirectory{inner: inner, rdb: rdb, ttl: ttl}
}

func (d *TagDirectory) DistinctTags(ctx context.Context) ([]string, error) {
	if cached, err := d.rdb.Get(ctx, tagsKey).Bytes(); err == nil {
		var tags []string
		if err := json.Unmarshal(cached, &tags); err == nil {
			return tags, nil
		}
	} else if err != redis.Nil {
		logger.Warn("tag cache read failed", "error", err.Error())
	}

	tags, err := d.inner.DistinctTags(ctx)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(tags); err == nil {
		if err := d.rdb.Set(ctx, tagsKey, raw, d.ttl).Err(); err != nil {
			logger.Warn("tag cache write failed", "error", err.Error())
		}
	}
	return tags, nil
}
