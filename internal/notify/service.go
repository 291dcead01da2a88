package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/voxlane/voxlane-platform/internal/calls"
	"github.com/voxlane/voxlane-platform/pkg/logging"
)

// Sink receives every emitted notice. Implementations can be swapped
// (log, email, notice feed) without changing callers.
type Sink interface {
	Publish(ctx context.Context, n Notice) error
}

// Service fans notices out to the configured sinks. Delivery is best effort:
// a failing sink is logged and never blocks the others or the caller.
type Service struct {
	sinks   []Sink
	logger  *logging.Logger
	metrics *Metrics
}

// NewService creates a notification service.
func NewService(logger *logging.Logger, sinks ...Sink) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{sinks: sinks, logger: logger}
}

// WithMetrics attaches delivery metrics and returns the service.
func (s *Service) WithMetrics(m *Metrics) *Service {
	s.metrics = m
	return s
}

// NotifyReminder emits the single pre-call reminder, describing the time
// remaining in the coarsest applicable unit.
func (s *Service) NotifyReminder(ctx context.Context, call *calls.ScheduledCall, remaining time.Duration) {
	s.emit(ctx, Notice{
		Kind:      KindReminder,
		CallID:    call.ID,
		AgentName: agentName(call),
		Message:   fmt.Sprintf("Reminder: your call about %q starts %s.", topicOrDefault(call), HumanizeRemaining(remaining)),
	})
}

// NotifyCallStarted emits the trigger notice naming the assigned agent.
func (s *Service) NotifyCallStarted(ctx context.Context, call *calls.ScheduledCall) {
	s.emit(ctx, Notice{
		Kind:      KindCallStarted,
		CallID:    call.ID,
		AgentName: agentName(call),
		Message:   fmt.Sprintf("Your call with %s is starting now.", agentName(call)),
	})
}

// NotifyCallCompleted emits the completion notice.
func (s *Service) NotifyCallCompleted(ctx context.Context, call *calls.ScheduledCall) {
	s.emit(ctx, Notice{
		Kind:      KindCallCompleted,
		CallID:    call.ID,
		AgentName: agentName(call),
		Message:   fmt.Sprintf("Your call with %s has completed.", agentName(call)),
	})
}

// NotifyCallMissed emits the missed-call notice.
func (s *Service) NotifyCallMissed(ctx context.Context, call *calls.ScheduledCall) {
	s.emit(ctx, Notice{
		Kind:      KindCallMissed,
		CallID:    call.ID,
		AgentName: agentName(call),
		Message:   fmt.Sprintf("Your scheduled call for %s %s was missed. Reply to reschedule.", call.PreferredDate, call.PreferredTime),
	})
}

func (s *Service) emit(ctx context.Context, n Notice) {
	if s == nil {
		return
	}
	n.ID = uuid.NewString()
	n.CreatedAt = time.Now().UTC()
	s.metrics.ObserveNotice(n.Kind)

	for _, sink := range s.sinks {
		if sink == nil {
			continue
		}
		if err := sink.Publish(ctx, n); err != nil {
			s.metrics.ObserveSinkError()
			s.logger.Error("notify: sink publish failed", "error", err, "kind", n.Kind, "call_id", n.CallID)
		}
	}
}

func agentName(call *calls.ScheduledCall) string {
	if call.AssignedAgent != nil && call.AssignedAgent.Name != "" {
		return call.AssignedAgent.Name
	}
	return "your Voxlane agent"
}

func topicOrDefault(call *calls.ScheduledCall) string {
	if call.Topic != "" {
		return call.Topic
	}
	return "your scheduled topic"
}

// HumanizeRemaining renders a positive duration in its coarsest unit:
// days, then hours, then minutes, else "now".
func HumanizeRemaining(d time.Duration) string {
	switch {
	case d >= 24*time.Hour:
		days := int(d / (24 * time.Hour))
		if days == 1 {
			return "in 1 day"
		}
		return fmt.Sprintf("in %d days", days)
	case d >= time.Hour:
		hours := int(d / time.Hour)
		if hours == 1 {
			return "in 1 hour"
		}
		return fmt.Sprintf("in %d hours", hours)
	case d >= time.Minute:
		minutes := int(d / time.Minute)
		if minutes == 1 {
			return "in 1 minute"
		}
		return fmt.Sprintf("in %d minutes", minutes)
	default:
		return "now"
	}
}

// LogSink writes notices to the structured log. Always configured; it is the
// floor for observability when no other sink is wired.
type LogSink struct {
	logger *logging.Logger
}

// NewLogSink creates a log-backed sink.
func NewLogSink(logger *logging.Logger) *LogSink {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogSink{logger: logger}
}

// Publish logs the notice.
func (s *LogSink) Publish(_ context.Context, n Notice) error {
	s.logger.Info("notice emitted",
		"kind", n.Kind,
		"call_id", n.CallID,
		"agent", n.AgentName,
		"message", n.Message,
	)
	return nil
}
