// Package calendar turns scheduled calls into calendar artifacts: an
// iCalendar (RFC 5545) file body and "create event" deep links for the major
// calendar providers. Everything here is pure string construction.
package calendar

import (
	"fmt"
	"strings"
	"time"
)

// Event is the abstract input for both the .ics encoder and the provider
// deep links.
type Event struct {
	Title         string
	Description   string
	Location      string
	StartDate     string // "2006-01-02"
	StartTime     string // "15:04"
	EndTime       string // optional, "15:04"; defaults to start + 60 minutes
	Timezone      string // display label only, no conversion performed
	AttendeeEmail string
	Organizer     string
}

const defaultEventDuration = 60 * time.Minute

// StartEnd resolves the event's start and end as local wall-clock instants.
// A missing end time defaults to one hour after the start. An unparsable
// start yields ok=false; callers decide whether to degrade or reject.
func (e Event) StartEnd() (start, end time.Time, ok bool) {
	start, err := combineLocal(e.StartDate, e.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	if strings.TrimSpace(e.EndTime) != "" {
		if end, err = combineLocal(e.StartDate, e.EndTime); err == nil {
			return start, end, true
		}
	}
	return start, start.Add(defaultEventDuration), true
}

func combineLocal(date, clock string) (time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(date), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("calendar: parse date %q: %w", date, err)
	}
	for _, layout := range []string{"15:04", "15:04:05", "3:04 PM", "3:04PM"} {
		if t, err := time.Parse(layout, strings.TrimSpace(clock)); err == nil {
			return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.Local), nil
		}
	}
	return time.Time{}, fmt.Errorf("calendar: parse time %q: unrecognized format", clock)
}

// escapeText applies RFC 5545 TEXT escaping: backslash first, then the
// reserved separators, then embedded line breaks.
func escapeText(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, ";", `\;`)
	s = strings.ReplaceAll(s, ",", `\,`)
	s = strings.ReplaceAll(s, "\r\n", `\n`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return s
}

// compactLocal formats a local instant as an iCalendar floating date-time.
func compactLocal(t time.Time) string {
	return t.Format("20060102T150405")
}

// compactUTC formats an instant as a compact UTC stamp for provider links.
func compactUTC(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}
