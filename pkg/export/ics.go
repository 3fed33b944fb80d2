package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/schoolcal/schoolcal/internal/utils"
	"github.com/schoolcal/schoolcal/pkg/schedule"
)

const (
	icsProductID = "-//schoolcal//No-School Calendar//EN"
	icsUIDDomain = "schoolcal"
)

// IcsRenderer renders schedule rows as an iCalendar feed of all-day events.
// UIDs are derived from date+school+event so re-exports update instead of
// duplicating entries in subscribing calendar apps.
type IcsRenderer struct {
	clock utils.Clock
}

func NewIcsRenderer(clock utils.Clock) *IcsRenderer {
	return &IcsRenderer{clock: clock}
}

func (r *IcsRenderer) Render(rows []schedule.Row) string {
	var b bytes.Buffer
	stamp := r.clock.Now().UTC().Format("20060102T150405Z")

	fmt.Fprintln(&b, "BEGIN:VCALENDAR")
	fmt.Fprintln(&b, "VERSION:2.0")
	fmt.Fprintf(&b, "PRODID:%s\n", icsProductID)
	fmt.Fprintln(&b, "METHOD:PUBLISH")
	fmt.Fprintln(&b, "X-WR-CALNAME:No-School Days")
	fmt.Fprintln(&b, "CALSCALE:GREGORIAN")

	for _, row := range rows {
		uid := fmt.Sprintf("%s-%s-%s@%s", row.DayKey(), slug(row.School), slug(row.Event), icsUIDDomain)

		fmt.Fprintln(&b, "BEGIN:VEVENT")
		fmt.Fprintf(&b, "UID:%s\n", uid)
		fmt.Fprintf(&b, "DTSTAMP:%s\n", stamp)
		fmt.Fprintf(&b, "DTSTART;VALUE=DATE:%s\n", row.Date.Format("20060102"))
		fmt.Fprintf(&b, "DTEND;VALUE=DATE:%s\n", row.Date.AddDate(0, 0, 1).Format("20060102"))
		fmt.Fprintf(&b, "SUMMARY:%s\n", escapeText(fmt.Sprintf("%s: %s", row.School, row.Event)))
		if row.Notes != "" {
			fmt.Fprintf(&b, "DESCRIPTION:%s\n", escapeText(row.Notes))
		}
		fmt.Fprintf(&b, "LOCATION:%s\n", escapeText(row.School))
		fmt.Fprintln(&b, "END:VEVENT")
	}

	fmt.Fprintln(&b, "END:VCALENDAR")
	return b.String()
}

// escapeText escapes commas, semicolons, backslashes, and newlines per
// RFC 5545 section 3.3.11.
func escapeText(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, "\r\n", "\\n")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

// slug flattens a label into a UID-safe token.
func slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	return b.String()
}
