// Package sweep drives scheduled calls through their lifecycle: reminders
// inside the reminder window, the in-progress transition inside the trigger
// window, auto-completion after a fixed dwell, and the missed fallback for
// calls whose target passed without ever triggering.
package sweep

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/voxlane/voxlane-platform/internal/calls"
	"github.com/voxlane/voxlane-platform/pkg/logging"
)

// CallStore is the wholesale load/save contract the sweep operates against.
// Mutex serializes whole read-modify-write cycles: SaveAll replaces the full
// collection, so an unserialized concurrent cycle would overwrite transitions
// persisted between another caller's load and save.
type CallStore interface {
	LoadAll(ctx context.Context) ([]calls.ScheduledCall, error)
	SaveAll(ctx context.Context, records []calls.ScheduledCall) error
	LoadAllLogs(ctx context.Context) ([]calls.CallLogEntry, error)
	SaveAllLogs(ctx context.Context, entries []calls.CallLogEntry) error
	Mutex() *sync.Mutex
}

// Notifier receives the user-facing notices the sweep emits.
type Notifier interface {
	NotifyReminder(ctx context.Context, call *calls.ScheduledCall, remaining time.Duration)
	NotifyCallStarted(ctx context.Context, call *calls.ScheduledCall)
	NotifyCallCompleted(ctx context.Context, call *calls.ScheduledCall)
	NotifyCallMissed(ctx context.Context, call *calls.ScheduledCall)
}

// Config holds sweep timing parameters.
type Config struct {
	Interval       time.Duration // scan cadence
	Dwell          time.Duration // time a call stays in-progress before auto-completion
	ReminderWindow time.Duration // reminder fires when 0 < Δt <= ReminderWindow
	TriggerWindow  time.Duration // in-progress fires when |Δt| <= TriggerWindow
	MissedGrace    time.Duration // still-scheduled calls this far past target go missed
}

func (c *Config) applyDefaults() {
	if c.Interval <= 0 {
		c.Interval = 30 * time.Second
	}
	if c.Dwell <= 0 {
		c.Dwell = 5 * time.Minute
	}
	if c.ReminderWindow <= 0 {
		c.ReminderWindow = 15 * time.Minute
	}
	if c.TriggerWindow <= 0 {
		c.TriggerWindow = 60 * time.Second
	}
	if c.MissedGrace <= 0 {
		c.MissedGrace = 10 * time.Minute
	}
}

// Service is the scheduling sweep. One instance owns all lifecycle mutation
// of the call store; the submission path only appends and deletes.
type Service struct {
	store    CallStore
	notifier Notifier
	logger   *logging.Logger
	metrics  *Metrics
	cfg      Config

	// busy makes concurrent ticks skip instead of queueing. A tick that
	// fires while another runs is dropped entirely.
	busy atomic.Bool

	mu          sync.Mutex
	completions map[string]*time.Timer
}

// NewService creates a sweep service.
func NewService(store CallStore, notifier Notifier, logger *logging.Logger, metrics *Metrics, cfg Config) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	cfg.applyDefaults()
	return &Service{
		store:       store,
		notifier:    notifier,
		logger:      logger,
		metrics:     metrics,
		cfg:         cfg,
		completions: make(map[string]*time.Timer),
	}
}

// Run executes the sweep on its configured cadence until the context is
// cancelled. The first tick runs immediately.
func (s *Service) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	s.Tick(ctx, time.Now())
	for {
		select {
		case <-ctx.Done():
			s.cancelAllCompletions()
			return
		case <-ticker.C:
			s.Tick(ctx, time.Now())
		}
	}
}

// Tick runs one scan-and-transition pass over all scheduled calls at the
// given instant. If a previous tick is still executing the call returns
// immediately without doing any work.
func (s *Service) Tick(ctx context.Context, now time.Time) {
	if !s.busy.CompareAndSwap(false, true) {
		s.metrics.ObserveSkippedTick()
		s.logger.Debug("sweep: tick skipped, previous tick still running")
		return
	}
	defer s.busy.Store(false)

	started := time.Now()
	defer func() {
		s.metrics.ObserveTick(time.Since(started).Seconds())
	}()

	// Hold the store's RMW lock for the whole scan: the snapshot loaded
	// below is saved back wholesale on every transition, and a Complete
	// that lands in between would otherwise be silently reverted.
	storeMu := s.store.Mutex()
	storeMu.Lock()
	defer storeMu.Unlock()

	records, err := s.store.LoadAll(ctx)
	if err != nil {
		s.logger.Error("sweep: load calls failed", "error", err)
		return
	}

	for i := range records {
		r := &records[i]
		switch r.Status {
		case calls.StatusScheduled:
		case calls.StatusInProgress:
			s.ensureCompletion(ctx, records, r, now)
			continue
		default:
			continue
		}

		target, err := r.TargetInstant()
		if err != nil {
			// Skipped this tick, revisited on the next one.
			s.logger.Warn("sweep: unreadable target instant", "call_id", r.ID, "error", err)
			continue
		}
		delta := target.Sub(now)

		switch {
		case delta >= -s.cfg.TriggerWindow && delta <= s.cfg.TriggerWindow:
			s.trigger(ctx, records, r, now)
		case delta > 0 && delta <= s.cfg.ReminderWindow && !r.ReminderSent:
			s.remind(ctx, records, r, delta)
		case delta < -s.cfg.MissedGrace:
			s.markMissed(ctx, records, r)
		}
	}
}

// ensureCompletion guarantees an in-progress call still has a path to
// completion. After a process restart (or any lost timer) no dwell timer
// exists for the record: re-arm it with the remaining dwell, or finish the
// call inline when the dwell already elapsed.
func (s *Service) ensureCompletion(ctx context.Context, records []calls.ScheduledCall, r *calls.ScheduledCall, now time.Time) {
	if s.timerArmed(r.ID) {
		return
	}

	due := now.Add(s.cfg.Dwell)
	if r.TriggeredAt != nil {
		due = r.TriggeredAt.Add(s.cfg.Dwell)
	}
	if remaining := due.Sub(now); remaining > 0 {
		s.scheduleCompletion(r.ID, remaining)
		s.logger.Info("sweep: completion re-armed", "call_id", r.ID, "remaining", remaining.String())
		return
	}

	// Dwell already elapsed; complete within this tick's snapshot. Calling
	// Complete here would deadlock on the store lock the tick holds.
	r.Status = calls.StatusCompleted
	if err := s.store.SaveAll(ctx, records); err != nil {
		r.Status = calls.StatusInProgress
		s.logger.Error("sweep: persist overdue completion failed", "error", err, "call_id", r.ID)
		return
	}
	s.finishLogEntry(ctx, r)
	if s.notifier != nil {
		s.notifier.NotifyCallCompleted(ctx, r)
	}
	s.metrics.ObserveTransition(string(calls.StatusCompleted))
	s.logger.Info("sweep: overdue call completed", "call_id", r.ID)
}

// trigger moves a call into in-progress, writes its call log entry, emits
// the start notice and schedules the dwell completion.
func (s *Service) trigger(ctx context.Context, records []calls.ScheduledCall, r *calls.ScheduledCall, now time.Time) {
	triggeredAt := now
	r.Status = calls.StatusInProgress
	r.TriggeredAt = &triggeredAt

	if err := s.store.SaveAll(ctx, records); err != nil {
		// Roll back in memory so the next tick retries the transition.
		r.Status = calls.StatusScheduled
		r.TriggeredAt = nil
		s.logger.Error("sweep: persist trigger failed", "error", err, "call_id", r.ID)
		return
	}

	s.appendLogEntry(ctx, r, now)
	if s.notifier != nil {
		s.notifier.NotifyCallStarted(ctx, r)
	}
	s.scheduleCompletion(r.ID, s.cfg.Dwell)
	s.metrics.ObserveTransition(string(calls.StatusInProgress))
	s.logger.Info("sweep: call triggered", "call_id", r.ID, "agent", agentName(r))
}

// remind sets the once-only reminder flag and emits the reminder notice.
func (s *Service) remind(ctx context.Context, records []calls.ScheduledCall, r *calls.ScheduledCall, remaining time.Duration) {
	r.ReminderSent = true
	if err := s.store.SaveAll(ctx, records); err != nil {
		r.ReminderSent = false
		s.logger.Error("sweep: persist reminder flag failed", "error", err, "call_id", r.ID)
		return
	}
	if s.notifier != nil {
		s.notifier.NotifyReminder(ctx, r, remaining)
	}
	s.metrics.ObserveTransition("reminder")
	s.logger.Info("sweep: reminder issued", "call_id", r.ID, "remaining", remaining.String())
}

// markMissed retires a call whose target instant passed the grace period
// without ever triggering.
func (s *Service) markMissed(ctx context.Context, records []calls.ScheduledCall, r *calls.ScheduledCall) {
	r.Status = calls.StatusMissed
	if err := s.store.SaveAll(ctx, records); err != nil {
		r.Status = calls.StatusScheduled
		s.logger.Error("sweep: persist missed failed", "error", err, "call_id", r.ID)
		return
	}
	if s.notifier != nil {
		s.notifier.NotifyCallMissed(ctx, r)
	}
	s.metrics.ObserveTransition(string(calls.StatusMissed))
	s.logger.Info("sweep: call missed", "call_id", r.ID)
}

func (s *Service) appendLogEntry(ctx context.Context, r *calls.ScheduledCall, now time.Time) {
	entries, err := s.store.LoadAllLogs(ctx)
	if err != nil {
		s.logger.Error("sweep: load call logs failed", "error", err, "call_id", r.ID)
		return
	}
	entries = append(entries, calls.CallLogEntry{
		ID:              "log_" + uuid.NewString(),
		ScheduledCallID: r.ID,
		CustomerName:    r.Name,
		Phone:           r.Phone,
		AgentName:       agentName(r),
		Status:          calls.StatusInProgress,
		Duration:        "0s",
		Transcript:      "Call in progress...",
		StartedAt:       now,
	})
	if err := s.store.SaveAllLogs(ctx, entries); err != nil {
		s.logger.Error("sweep: persist call log failed", "error", err, "call_id", r.ID)
	}
}

// Complete finishes a call after its dwell elapses (or on manual
// completion). It tolerates a missing or already-completed record: both are
// no-ops, never errors.
func (s *Service) Complete(ctx context.Context, callID string) error {
	s.Cancel(callID)

	storeMu := s.store.Mutex()
	storeMu.Lock()
	defer storeMu.Unlock()

	records, err := s.store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("sweep: complete %s: %w", callID, err)
	}

	var target *calls.ScheduledCall
	for i := range records {
		if records[i].ID == callID {
			target = &records[i]
			break
		}
	}
	if target == nil || target.Status == calls.StatusCompleted {
		return nil
	}

	target.Status = calls.StatusCompleted
	if err := s.store.SaveAll(ctx, records); err != nil {
		return fmt.Errorf("sweep: persist completion %s: %w", callID, err)
	}

	s.finishLogEntry(ctx, target)
	if s.notifier != nil {
		s.notifier.NotifyCallCompleted(ctx, target)
	}
	s.metrics.ObserveTransition(string(calls.StatusCompleted))
	s.logger.Info("sweep: call completed", "call_id", callID)
	return nil
}

func (s *Service) finishLogEntry(ctx context.Context, r *calls.ScheduledCall) {
	entries, err := s.store.LoadAllLogs(ctx)
	if err != nil {
		s.logger.Error("sweep: load call logs failed", "error", err, "call_id", r.ID)
		return
	}
	updated := false
	for i := range entries {
		if entries[i].ScheduledCallID != r.ID {
			continue
		}
		entries[i].Status = calls.StatusCompleted
		entries[i].Duration = callDuration(r, time.Now())
		entries[i].Transcript = "Call completed. Transcript available after processing."
		updated = true
		break
	}
	if !updated {
		return
	}
	if err := s.store.SaveAllLogs(ctx, entries); err != nil {
		s.logger.Error("sweep: persist call log failed", "error", err, "call_id", r.ID)
	}
}

// scheduleCompletion arms a completion timer for a call. Idempotent per id:
// a second arm for the same call leaves the existing timer alone.
func (s *Service) scheduleCompletion(callID string, delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.completions[callID]; exists {
		return
	}
	s.completions[callID] = time.AfterFunc(delay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Complete(ctx, callID); err != nil {
			s.logger.Error("sweep: deferred completion failed", "error", err, "call_id", callID)
		}
	})
}

func (s *Service) timerArmed(callID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.completions[callID]
	return ok
}

// Cancel disarms a pending completion for a call. Safe to call for unknown
// ids; used when a call is deleted or completed manually.
func (s *Service) Cancel(callID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if timer, ok := s.completions[callID]; ok {
		timer.Stop()
		delete(s.completions, callID)
	}
}

// PendingCompletions reports how many dwell timers are armed.
func (s *Service) PendingCompletions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.completions)
}

func (s *Service) cancelAllCompletions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, timer := range s.completions {
		timer.Stop()
		delete(s.completions, id)
	}
}

func agentName(r *calls.ScheduledCall) string {
	if r.AssignedAgent != nil && r.AssignedAgent.Name != "" {
		return r.AssignedAgent.Name
	}
	return "unassigned"
}

func callDuration(r *calls.ScheduledCall, now time.Time) string {
	if r.TriggeredAt == nil {
		return "0s"
	}
	d := now.Sub(*r.TriggeredAt).Round(time.Second)
	if d < 0 {
		d = 0
	}
	return d.String()
}
