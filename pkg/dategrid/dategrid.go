package dategrid

import (
	"fmt"
	"strings"
	"time"

	"github.com/schoolcal/schoolcal/internal/utils"
)

// WeekStart selects which weekday opens a week.
type WeekStart int

const (
	Monday WeekStart = iota
	Sunday
)

// ParseWeekStart maps the config strings "monday"/"sunday" onto a policy.
func ParseWeekStart(s string) (WeekStart, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "monday", "":
		return Monday, nil
	case "sunday":
		return Sunday, nil
	}
	return Monday, fmt.Errorf("unknown week start policy: %q", s)
}

func (w WeekStart) weekday() time.Weekday {
	if w == Sunday {
		return time.Sunday
	}
	return time.Monday
}

// StartOfWeek returns the first day of day's week at start-of-day. The result's
// weekday equals the policy's opening weekday and is never after day.
func StartOfWeek(day time.Time, policy WeekStart) time.Time {
	day = utils.StartOfDay(day)
	back := (int(day.Weekday()) - int(policy.weekday()) + 7) % 7
	return day.AddDate(0, 0, -back)
}

// EndOfWeek returns the last instant of day's week, six days after its start.
func EndOfWeek(day time.Time, policy WeekStart) time.Time {
	start := StartOfWeek(day, policy)
	end := start.AddDate(0, 0, 6)
	return time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), end.Location())
}

// WeekdaySequence returns the five days Monday through Friday of the week
// opened by weekStart. The caller must pass a Monday (normally obtained via
// StartOfWeek with the Monday policy).
func WeekdaySequence(weekStart time.Time) []time.Time {
	weekStart = utils.StartOfDay(weekStart)
	days := make([]time.Time, 0, 5)
	for i := 0; i < 5; i++ {
		days = append(days, weekStart.AddDate(0, 0, i))
	}
	return days
}

// MonthWeekdayGrid builds the Monday-anchored weekday grid of the month
// containing anchorDay. Each produced week holds exactly the five days Monday
// through Friday; Saturdays and Sundays are discarded. Leading and trailing
// weeks may contain days outside the month, which callers de-emphasize rather
// than drop so the grid stays rectangular.
func MonthWeekdayGrid(anchorDay time.Time) [][]time.Time {
	anchorDay = utils.StartOfDay(anchorDay)
	monthStart := time.Date(anchorDay.Year(), anchorDay.Month(), 1, 0, 0, 0, 0, anchorDay.Location())
	monthEnd := monthStart.AddDate(0, 1, -1)

	gridStart := StartOfWeek(monthStart, Monday)
	gridEnd := StartOfWeek(monthEnd, Monday)

	var weeks [][]time.Time
	for week := gridStart; !week.After(gridEnd); week = week.AddDate(0, 0, 7) {
		weeks = append(weeks, WeekdaySequence(week))
	}
	return weeks
}

// ThreeWeekStrip returns the weekday sequences of last, this, and next week
// relative to anchorDay. The strip is always Monday-anchored; the policy only
// decides which calendar week the anchor is considered part of, which matters
// for Sunday anchors under the Sunday-start policy.
func ThreeWeekStrip(anchorDay time.Time, policy WeekStart) [][]time.Time {
	start := StartOfWeek(anchorDay, policy)
	if policy == Sunday {
		// A Sunday-start week renders the same Mon-Fri columns as the
		// Monday-start week beginning the next day.
		start = start.AddDate(0, 0, 1)
	}
	return [][]time.Time{
		WeekdaySequence(start.AddDate(0, 0, -7)),
		WeekdaySequence(start),
		WeekdaySequence(start.AddDate(0, 0, 7)),
	}
}
