package calendar

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func icsLine(t *testing.T, doc, prefix string) string {
	t.Helper()
	for _, line := range strings.Split(doc, "\r\n") {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimPrefix(line, prefix)
		}
	}
	t.Fatalf("line %q not found in document", prefix)
	return ""
}

func TestEncodeRoundTrip(t *testing.T) {
	evt := Event{
		Title:     "Call with Voxlane",
		StartDate: "2025-03-10",
		StartTime: "14:00",
	}
	doc := Encode(evt)

	start, err := time.ParseInLocation("20060102T150405", icsLine(t, doc, "DTSTART:"), time.Local)
	require.NoError(t, err)
	want, _, ok := evt.StartEnd()
	require.True(t, ok)
	assert.True(t, start.Equal(want.Truncate(time.Minute)))
	assert.Equal(t, "Call with Voxlane", icsLine(t, doc, "SUMMARY:"))
}

func TestEncodeDefaultsEndToOneHour(t *testing.T) {
	doc := Encode(Event{Title: "Call", StartDate: "2025-03-10", StartTime: "14:00"})

	end, err := time.ParseInLocation("20060102T150405", icsLine(t, doc, "DTEND:"), time.Local)
	require.NoError(t, err)
	assert.Equal(t, 15, end.Hour())
	assert.Equal(t, 0, end.Minute())
}

func TestEncodeStructure(t *testing.T) {
	doc := Encode(Event{
		Title:         "Intro",
		Description:   "Agenda; item one, item two\nsecond line",
		Location:      "Zoom",
		StartDate:     "2025-06-01",
		StartTime:     "09:30",
		EndTime:       "10:15",
		AttendeeEmail: "lee@example.com",
		Organizer:     "Voxlane Scheduling",
	})

	assert.True(t, strings.HasPrefix(doc, "BEGIN:VCALENDAR\r\n"))
	assert.True(t, strings.HasSuffix(doc, "END:VCALENDAR\r\n"))
	assert.Contains(t, doc, "BEGIN:VEVENT\r\n")
	assert.Contains(t, doc, "STATUS:CONFIRMED\r\n")
	assert.Contains(t, doc, `DESCRIPTION:Agenda\; item one\, item two\nsecond line`)
	assert.Contains(t, doc, "ATTENDEE;CUTYPE=INDIVIDUAL;ROLE=REQ-PARTICIPANT:mailto:lee@example.com")
	assert.Contains(t, doc, "ORGANIZER;CN=Voxlane Scheduling:mailto:calls@voxlane.io")
	assert.Contains(t, doc, "TRIGGER:-PT15M")

	end := icsLine(t, doc, "DTEND:")
	assert.True(t, strings.HasSuffix(end, "T101500"))
}

func TestEncodeDegenerateInputStaysWellFormed(t *testing.T) {
	doc := Encode(Event{})

	assert.Contains(t, doc, "BEGIN:VEVENT")
	assert.Contains(t, doc, "SUMMARY:\r\n")
	assert.NotEmpty(t, icsLine(t, doc, "DTSTART:"))
	assert.NotEmpty(t, icsLine(t, doc, "UID:"))
}

func TestEscapeBackslashFirst(t *testing.T) {
	assert.Equal(t, `a\\b\;c\,d\ne`, escapeText("a\\b;c,d\ne"))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "voxlane-call-2025-03-10.ics", FileName(Event{StartDate: "2025-03-10"}))
	assert.Equal(t, "voxlane-call.ics", FileName(Event{StartDate: "soon"}))
	assert.Equal(t, "voxlane-call.ics", FileName(Event{}))
}

func TestLinks(t *testing.T) {
	evt := Event{
		Title:       "Call & Demo",
		Description: "Discuss rollout",
		Location:    "Phone",
		StartDate:   "2025-03-10",
		StartTime:   "14:00",
	}
	links := Links(evt)

	for _, link := range []string{links.Google, links.Outlook, links.Yahoo} {
		parsed, err := url.Parse(link)
		require.NoError(t, err)
		assert.Equal(t, "https", parsed.Scheme)
	}

	g, err := url.Parse(links.Google)
	require.NoError(t, err)
	assert.Equal(t, "calendar.google.com", g.Host)
	assert.Equal(t, "Call & Demo", g.Query().Get("text"))
	dates := g.Query().Get("dates")
	parts := strings.Split(dates, "/")
	require.Len(t, parts, 2)
	for _, p := range parts {
		_, err := time.Parse("20060102T150405Z", p)
		assert.NoError(t, err, "compact UTC stamp %q", p)
	}

	o, err := url.Parse(links.Outlook)
	require.NoError(t, err)
	assert.Equal(t, "outlook.live.com", o.Host)
	assert.Equal(t, "addevent", o.Query().Get("rru"))

	y, err := url.Parse(links.Yahoo)
	require.NoError(t, err)
	assert.Equal(t, "calendar.yahoo.com", y.Host)
	assert.Equal(t, "Call & Demo", y.Query().Get("title"))
}

func TestLinksUnparsableStart(t *testing.T) {
	assert.Equal(t, ProviderLinks{}, Links(Event{Title: "x", StartDate: "bad", StartTime: "14:00"}))
}
