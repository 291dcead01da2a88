package calls

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewStore(client), mr
}

func TestLoadAllEmpty(t *testing.T) {
	store, _ := newTestStore(t)

	records, err := store.LoadAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestSaveAllLoadAllRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	triggered := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	in := []ScheduledCall{
		{
			ID:            "call_1",
			Name:          "Dana",
			Email:         "dana@example.com",
			PreferredDate: "2025-03-10",
			PreferredTime: "14:00",
			AssignedAgent: &AssignedAgent{ID: "agent-tech", Name: "Miles", Type: "technical-support"},
			Status:        StatusInProgress,
			TriggeredAt:   &triggered,
			ReminderSent:  true,
		},
		{ID: "call_2", Name: "Lee", Phone: "+15550002222", Status: StatusScheduled},
	}
	require.NoError(t, store.SaveAll(ctx, in))

	out, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, in[0].ID, out[0].ID)
	assert.Equal(t, StatusInProgress, out[0].Status)
	require.NotNil(t, out[0].TriggeredAt)
	assert.True(t, out[0].TriggeredAt.Equal(triggered))
	assert.True(t, out[0].ReminderSent)
	require.NotNil(t, out[0].AssignedAgent)
	assert.Equal(t, "Miles", out[0].AssignedAgent.Name)
}

func TestMalformedBlobTreatedAsEmpty(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(scheduledCallsKey, "{{{not json"))

	records, err := store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	// The next write self-heals the collection.
	require.NoError(t, store.SaveAll(ctx, []ScheduledCall{{ID: "call_1", Status: StatusScheduled}}))
	records, err = store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestSaveAllNilBecomesEmptyList(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveAll(ctx, nil))

	raw, err := mr.Get(scheduledCallsKey)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
}

func TestCallLogRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	logs, err := store.LoadAllLogs(ctx)
	require.NoError(t, err)
	assert.Empty(t, logs)

	in := []CallLogEntry{{
		ID:              "log_1",
		ScheduledCallID: "call_1",
		CustomerName:    "Dana",
		AgentName:       "Miles",
		Status:          StatusInProgress,
		Duration:        "0s",
		StartedAt:       time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC),
	}}
	require.NoError(t, store.SaveAllLogs(ctx, in))

	out, err := store.LoadAllLogs(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "call_1", out[0].ScheduledCallID)
}
