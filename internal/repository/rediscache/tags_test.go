package rediscache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type countingDirectory struct {
	tags  []string
	calls int
}

func (d *countingDirectory) DistinctTags(ctx context.Context) ([]string, error) {
	d.calls++
	return d.tags, nil
}

func setupCache(t *testing.T) (*countingDirectory, *TagDirectory, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	inner := &countingDirectory{tags: []string{"new", "vip"}}
	return inner, NewTagDirectory(inner, rdb, time.Minute), mr
}

func TestDistinctTagsCached(t *testing.T) {
	inner, cache, _ := setupCache(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		tags, err := cache.DistinctTags(ctx)
		if err != nil {
			t.Fatalf("DistinctTags() error: %v", err)
		}
		if len(tags) != 2 || tags[0] != "new" || tags[1] != "vip" {
			t.Fatalf("DistinctTags() = %v", tags)
		}
	}

	if inner.calls != 1 {
		t.Errorf("inner directory hit %d times, want 1", inner.calls)
	}
}

func TestDistinctTagsExpiry(t *testing.T) {
	inner, cache, mr := setupCache(t)
	ctx := context.Background()

	if _, err := cache.DistinctTags(ctx); err != nil {
		t.Fatalf("DistinctTags() error: %v", err)
	}
	mr.FastForward(2 * time.Minute)
	if _, err := cache.DistinctTags(ctx); err != nil {
		t.Fatalf("DistinctTags() error: %v", err)
	}

	if inner.calls != 2 {
		t.Errorf("inner directory hit %d times after expiry, want 2", inner.calls)
	}
}
