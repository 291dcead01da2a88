package notify

import (
	"context"
	"fmt"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFeed(t *testing.T, capacity int) *FeedStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewFeedStore(client, capacity)
}

func TestFeedAppendAndRecent(t *testing.T) {
	feed := newTestFeed(t, 10)
	ctx := context.Background()

	require.NoError(t, feed.Publish(ctx, Notice{ID: "n1", Kind: KindReminder, CallID: "c1", Message: "first"}))
	require.NoError(t, feed.Publish(ctx, Notice{ID: "n2", Kind: KindCallStarted, CallID: "c1", Message: "second"}))

	notices, err := feed.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, notices, 2)
	// Newest first.
	assert.Equal(t, "n2", notices[0].ID)
	assert.Equal(t, "n1", notices[1].ID)
}

func TestFeedTrimsToCapacity(t *testing.T) {
	feed := newTestFeed(t, 3)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, feed.Publish(ctx, Notice{ID: fmt.Sprintf("n%d", i), Kind: KindReminder, CallID: "c1"}))
	}

	notices, err := feed.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, notices, 3)
	assert.Equal(t, "n4", notices[0].ID)
	assert.Equal(t, "n2", notices[2].ID)
}

func TestFeedRecentEmpty(t *testing.T) {
	feed := newTestFeed(t, 10)

	notices, err := feed.Recent(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, notices)
}

func TestFeedSkipsCorruptEntries(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	feed := NewFeedStore(client, 10)
	ctx := context.Background()

	require.NoError(t, client.LPush(ctx, feedKey, "not-json").Err())
	require.NoError(t, feed.Publish(ctx, Notice{ID: "good", Kind: KindCallCompleted, CallID: "c1"}))

	notices, err := feed.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, notices, 1)
	assert.Equal(t, "good", notices[0].ID)
}

func TestNilFeedIsSafe(t *testing.T) {
	var feed *FeedStore
	assert.NoError(t, feed.Publish(context.Background(), Notice{}))
	notices, err := feed.Recent(context.Background(), 5)
	assert.NoError(t, err)
	assert.Empty(t, notices)
}
