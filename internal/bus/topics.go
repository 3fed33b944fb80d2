package bus

import "time"

const (
	// ScheduleReloaded fires after a successful remote load replaced the row set.
	ScheduleReloaded Topic = "schedule.reloaded"
	// ScheduleLoadFailed fires when a load fell back to the snapshot or sample.
	ScheduleLoadFailed Topic = "schedule.load_failed"
)

// ReloadedPayload accompanies ScheduleReloaded.
type ReloadedPayload struct {
	LoadID    string
	Rows      int
	RawCSV    string
	FetchedAt time.Time
}

// LoadFailedPayload accompanies ScheduleLoadFailed.
type LoadFailedPayload struct {
	LoadID  string
	Warning string
}
