package calls

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CallStatus tracks the lifecycle of a scheduled call.
type CallStatus string

const (
	StatusScheduled  CallStatus = "scheduled"
	StatusInProgress CallStatus = "in-progress"
	StatusCompleted  CallStatus = "completed"
	StatusMissed     CallStatus = "missed"
)

// AssignedAgent identifies the responder a call was routed to at creation.
type AssignedAgent struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// ScheduledCall represents one call request and its execution state.
// The sweep only ever mutates Status, TriggeredAt and ReminderSent;
// everything else is immutable after creation.
type ScheduledCall struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Email         string         `json:"email"`
	Phone         string         `json:"phone"`
	Company       string         `json:"company,omitempty"`
	Topic         string         `json:"topic,omitempty"`
	PreferredDate string         `json:"preferred_date"` // "2006-01-02"
	PreferredTime string         `json:"preferred_time"` // "15:04"
	Timezone      string         `json:"timezone,omitempty"`
	AssignedAgent *AssignedAgent `json:"assigned_agent,omitempty"`
	Status        CallStatus     `json:"status"`
	ScheduledAt   time.Time      `json:"scheduled_at"`
	TriggeredAt   *time.Time     `json:"triggered_at,omitempty"`
	ReminderSent  bool           `json:"reminder_sent"`
}

// CallLogEntry summarizes an executed call for downstream display. It is
// created when the call triggers and updated again when the call completes.
type CallLogEntry struct {
	ID              string     `json:"id"`
	ScheduledCallID string     `json:"scheduled_call_id"`
	CustomerName    string     `json:"customer_name"`
	Phone           string     `json:"phone"`
	AgentName       string     `json:"agent_name"`
	Status          CallStatus `json:"status"`
	Duration        string     `json:"duration"`
	Transcript      string     `json:"transcript"`
	StartedAt       time.Time  `json:"started_at"`
}

// NewCallID generates a call identifier: millisecond timestamp plus a short
// random suffix so concurrent submissions in the same millisecond stay unique.
func NewCallID(now time.Time) string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("call_%d_%s", now.UnixMilli(), suffix)
}

// TargetInstant combines the call's preferred date and time as a local
// wall-clock date-time. No timezone conversion is applied; the Timezone field
// is a display label only.
func (c *ScheduledCall) TargetInstant() (time.Time, error) {
	date := strings.TrimSpace(c.PreferredDate)
	clock := strings.TrimSpace(c.PreferredTime)
	if date == "" || clock == "" {
		return time.Time{}, fmt.Errorf("calls: target instant: missing date or time")
	}

	day, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("calls: parse preferred date %q: %w", date, err)
	}

	for _, layout := range []string{"15:04", "15:04:05", "3:04 PM", "3:04PM"} {
		if t, err := time.Parse(layout, clock); err == nil {
			return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.Local), nil
		}
	}
	return time.Time{}, fmt.Errorf("calls: parse preferred time %q: unrecognized format", clock)
}

// CreateCallRequest represents the request body for scheduling a call.
type CreateCallRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Company       string `json:"company"`
	Topic         string `json:"topic"`
	PreferredDate string `json:"preferred_date"`
	PreferredTime string `json:"preferred_time"`
	Timezone      string `json:"timezone"`
}

// Validate validates the create call request
func (r *CreateCallRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrInvalidName
	}
	if r.Email == "" && r.Phone == "" {
		return ErrMissingContact
	}
	if strings.TrimSpace(r.PreferredDate) == "" || strings.TrimSpace(r.PreferredTime) == "" {
		return ErrMissingSchedule
	}
	probe := ScheduledCall{PreferredDate: r.PreferredDate, PreferredTime: r.PreferredTime}
	if _, err := probe.TargetInstant(); err != nil {
		return ErrInvalidSchedule
	}
	return nil
}
