package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const feedKey = "notices:feed"

// FeedStore keeps a capped list of recent notices in Redis so the
// presentation layer can poll them. Oldest entries fall off the end.
type FeedStore struct {
	redis      *redis.Client
	maxNotices int64
}

// NewFeedStore creates a Redis-backed notice feed.
func NewFeedStore(redisClient *redis.Client, maxNotices int) *FeedStore {
	if redisClient == nil {
		return nil
	}
	if maxNotices <= 0 {
		maxNotices = 200
	}
	return &FeedStore{redis: redisClient, maxNotices: int64(maxNotices)}
}

// Publish appends the notice to the feed, trimming to capacity.
// FeedStore therefore doubles as a Sink.
func (f *FeedStore) Publish(ctx context.Context, n Notice) error {
	if f == nil || f.redis == nil {
		return nil
	}
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("notify: marshal notice: %w", err)
	}
	pipe := f.redis.TxPipeline()
	pipe.LPush(ctx, feedKey, data)
	pipe.LTrim(ctx, feedKey, 0, f.maxNotices-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("notify: append notice: %w", err)
	}
	return nil
}

// Recent returns up to limit notices, newest first. A corrupt entry is
// skipped rather than failing the whole read.
func (f *FeedStore) Recent(ctx context.Context, limit int64) ([]Notice, error) {
	if f == nil || f.redis == nil {
		return []Notice{}, nil
	}
	if limit <= 0 || limit > f.maxNotices {
		limit = f.maxNotices
	}
	raw, err := f.redis.LRange(ctx, feedKey, 0, limit-1).Result()
	if err != nil {
		if err == redis.Nil {
			return []Notice{}, nil
		}
		return nil, fmt.Errorf("notify: list notices: %w", err)
	}
	out := make([]Notice, 0, len(raw))
	for _, item := range raw {
		var n Notice
		if err := json.Unmarshal([]byte(item), &n); err != nil {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}
