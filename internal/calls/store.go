package calls

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

const (
	scheduledCallsKey = "calls:scheduled"
	callLogKey        = "calls:log"
)

// Store persists the scheduled-call and call-log collections as whole lists.
// There is deliberately no query or partial-update API: every reader loads
// the full collection and every writer replaces it wholesale, so all callers
// read-modify-write from their own point of view.
type Store struct {
	redis *redis.Client
	mu    sync.Mutex
}

// NewStore creates a new call store.
func NewStore(redisClient *redis.Client) *Store {
	return &Store{redis: redisClient}
}

// Mutex returns the lock that serializes read-modify-write cycles over the
// collections. SaveAll persists a caller's full snapshot, so two interleaved
// cycles silently undo each other's writes; every mutating path must hold
// this lock from load through save. Plain reads may skip it.
func (s *Store) Mutex() *sync.Mutex {
	return &s.mu
}

// LoadAll retrieves every scheduled call. A missing or malformed collection
// is treated as empty, never as an error; the next SaveAll re-creates it.
func (s *Store) LoadAll(ctx context.Context) ([]ScheduledCall, error) {
	return loadList[ScheduledCall](ctx, s.redis, scheduledCallsKey)
}

// SaveAll replaces the scheduled-call collection wholesale.
func (s *Store) SaveAll(ctx context.Context, records []ScheduledCall) error {
	return saveList(ctx, s.redis, scheduledCallsKey, records)
}

// LoadAllLogs retrieves every call log entry.
func (s *Store) LoadAllLogs(ctx context.Context) ([]CallLogEntry, error) {
	return loadList[CallLogEntry](ctx, s.redis, callLogKey)
}

// SaveAllLogs replaces the call-log collection wholesale.
func (s *Store) SaveAllLogs(ctx context.Context, entries []CallLogEntry) error {
	return saveList(ctx, s.redis, callLogKey, entries)
}

func loadList[T any](ctx context.Context, client *redis.Client, key string) ([]T, error) {
	data, err := client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("calls: load %s: %w", key, err)
	}

	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		// Corrupt blob: self-heal by treating it as empty. The next write
		// replaces it with a valid collection.
		return []T{}, nil
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func saveList[T any](ctx context.Context, client *redis.Client, key string, records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("calls: marshal %s: %w", key, err)
	}
	if err := client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("calls: save %s: %w", key, err)
	}
	return nil
}
