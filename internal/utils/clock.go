package utils

import "time"

type Clock interface {
	Now() time.Time
	// Today returns the current calendar day truncated to start-of-day,
	// in the local location. All grid math anchors on this.
	Today() time.Time
}

type SystemClock struct{}

func (s SystemClock) Now() time.Time {
	return time.Now()
}

func (s SystemClock) Today() time.Time {
	return StartOfDay(time.Now())
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

type MockClock struct {
	FixedNow time.Time
}

func (m *MockClock) Now() time.Time {
	return m.FixedNow
}

func (m *MockClock) Today() time.Time {
	return StartOfDay(m.FixedNow)
}

func (m *MockClock) SetNow(now time.Time) {
	m.FixedNow = now
}
