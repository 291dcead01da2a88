package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voxlane/voxlane-platform/internal/calls"
	"github.com/voxlane/voxlane-platform/pkg/logging"
)

type captureSink struct {
	notices []Notice
	err     error
}

func (c *captureSink) Publish(_ context.Context, n Notice) error {
	if c.err != nil {
		return c.err
	}
	c.notices = append(c.notices, n)
	return nil
}

func testCall() *calls.ScheduledCall {
	return &calls.ScheduledCall{
		ID:            "call_1",
		Name:          "Dana",
		Topic:         "API integration",
		PreferredDate: "2025-03-10",
		PreferredTime: "14:00",
		AssignedAgent: &calls.AssignedAgent{ID: "agent-tech", Name: "Miles", Type: "technical-support"},
		Status:        calls.StatusScheduled,
	}
}

func TestHumanizeRemaining(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{49 * time.Hour, "in 2 days"},
		{24 * time.Hour, "in 1 day"},
		{3 * time.Hour, "in 3 hours"},
		{time.Hour, "in 1 hour"},
		{14 * time.Minute, "in 14 minutes"},
		{time.Minute, "in 1 minute"},
		{30 * time.Second, "now"},
		{0, "now"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, HumanizeRemaining(tt.d))
		})
	}
}

func TestNotifyReminderWording(t *testing.T) {
	sink := &captureSink{}
	svc := NewService(logging.Default(), sink)

	svc.NotifyReminder(context.Background(), testCall(), 10*time.Minute)

	require.Len(t, sink.notices, 1)
	n := sink.notices[0]
	assert.Equal(t, KindReminder, n.Kind)
	assert.Equal(t, "call_1", n.CallID)
	assert.Equal(t, "Miles", n.AgentName)
	assert.Contains(t, n.Message, "in 10 minutes")
	assert.Contains(t, n.Message, "API integration")
	assert.NotEmpty(t, n.ID)
	assert.False(t, n.CreatedAt.IsZero())
}

func TestNotifyCallStartedNamesAgent(t *testing.T) {
	sink := &captureSink{}
	svc := NewService(logging.Default(), sink)

	svc.NotifyCallStarted(context.Background(), testCall())

	require.Len(t, sink.notices, 1)
	assert.Contains(t, sink.notices[0].Message, "Miles")
}

func TestNotifyWithoutAgentUsesFallbackName(t *testing.T) {
	sink := &captureSink{}
	svc := NewService(logging.Default(), sink)

	call := testCall()
	call.AssignedAgent = nil
	svc.NotifyCallCompleted(context.Background(), call)

	require.Len(t, sink.notices, 1)
	assert.Contains(t, sink.notices[0].Message, "your Voxlane agent")
}

func TestFailingSinkDoesNotBlockOthers(t *testing.T) {
	bad := &captureSink{err: errors.New("boom")}
	good := &captureSink{}
	svc := NewService(logging.Default(), bad, good)

	svc.NotifyCallMissed(context.Background(), testCall())

	assert.Empty(t, bad.notices)
	require.Len(t, good.notices, 1)
	assert.Equal(t, KindCallMissed, good.notices[0].Kind)
}

type fakeEmailSender struct {
	sent []EmailMessage
}

func (f *fakeEmailSender) Send(_ context.Context, msg EmailMessage) error {
	f.sent = append(f.sent, msg)
	return nil
}

func TestEmailSinkFansOutToRecipients(t *testing.T) {
	sender := &fakeEmailSender{}
	sink := NewEmailSink(sender, []string{"ops@voxlane.io", "oncall@voxlane.io"})
	require.NotNil(t, sink)

	err := sink.Publish(context.Background(), Notice{Kind: KindCallStarted, CallID: "call_9", Message: "hello"})

	require.NoError(t, err)
	require.Len(t, sender.sent, 2)
	assert.Equal(t, "ops@voxlane.io", sender.sent[0].To)
	assert.Contains(t, sender.sent[0].Subject, "call_9")
}

func TestNewEmailSinkNilWhenUnconfigured(t *testing.T) {
	assert.Nil(t, NewEmailSink(nil, []string{"a@b.c"}))
	assert.Nil(t, NewEmailSink(&fakeEmailSender{}, nil))
}
