package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Encode renders the event as an iCalendar document with CRLF line endings.
// The line set and ordering are fixed; common calendar readers reject
// documents that stray from it. Missing optional fields collapse to empty
// values; the output stays structurally valid either way.
func Encode(evt Event) string {
	return encodeAt(evt, time.Now().UTC(), uuid.NewString())
}

func encodeAt(evt Event, stamp time.Time, uid string) string {
	start, end, ok := evt.StartEnd()
	if !ok {
		// Degenerate but well-formed: anchor on the generation instant so
		// the artifact still parses.
		start = stamp.Truncate(time.Minute)
		end = start.Add(defaultEventDuration)
	}

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Voxlane//Call Scheduler//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
		"BEGIN:VEVENT",
		"UID:" + uid + "@voxlane.io",
		"DTSTAMP:" + compactUTC(stamp),
		"DTSTART:" + compactLocal(start),
		"DTEND:" + compactLocal(end),
		"SUMMARY:" + escapeText(evt.Title),
		"DESCRIPTION:" + escapeText(evt.Description),
		"LOCATION:" + escapeText(evt.Location),
		"STATUS:CONFIRMED",
	}

	if org := strings.TrimSpace(evt.Organizer); org != "" {
		if strings.Contains(org, "@") {
			lines = append(lines, "ORGANIZER:mailto:"+org)
		} else {
			lines = append(lines, "ORGANIZER;CN="+escapeText(org)+":mailto:calls@voxlane.io")
		}
	}
	if att := strings.TrimSpace(evt.AttendeeEmail); att != "" {
		lines = append(lines, "ATTENDEE;CUTYPE=INDIVIDUAL;ROLE=REQ-PARTICIPANT:mailto:"+att)
	}

	lines = append(lines,
		"BEGIN:VALARM",
		"TRIGGER:-PT15M",
		"ACTION:DISPLAY",
		"DESCRIPTION:Reminder",
		"END:VALARM",
		"END:VEVENT",
		"END:VCALENDAR",
	)

	return strings.Join(lines, "\r\n") + "\r\n"
}

// FileName derives a deterministic download name from the event date.
func FileName(evt Event) string {
	date := strings.TrimSpace(evt.StartDate)
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return "voxlane-call.ics"
	}
	return fmt.Sprintf("voxlane-call-%s.ics", date)
}
