package notify

import "time"

// NoticeKind distinguishes the user-facing notices the core emits.
type NoticeKind string

const (
	KindReminder      NoticeKind = "reminder"
	KindCallStarted   NoticeKind = "call-started"
	KindCallCompleted NoticeKind = "call-completed"
	KindCallMissed    NoticeKind = "call-missed"
)

// Notice is one user-facing event. The core only emits these; rendering is
// the presentation layer's job.
type Notice struct {
	ID        string     `json:"id"`
	Kind      NoticeKind `json:"kind"`
	CallID    string     `json:"call_id"`
	AgentName string     `json:"agent_name,omitempty"`
	Message   string     `json:"message"`
	CreatedAt time.Time  `json:"created_at"`
}
