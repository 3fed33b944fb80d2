package schedule

import "time"

// DayKeyLayout is the ISO day format used as index key and API date parameter.
const DayKeyLayout = "2006-01-02"

// FilterAll is the filter value meaning "no filtering" for school/event filters.
const FilterAll = "all"

// Row is one normalized calendar entry. Rows are immutable once constructed;
// the whole row list is replaced on every load, never patched.
type Row struct {
	Date   time.Time
	Event  string
	School string
	Notes  string
}

// DayKey returns the row's date as a YYYY-MM-DD key.
func (r Row) DayKey() string {
	return r.Date.Format(DayKeyLayout)
}

// Filter narrows a row list. Zero value matches everything.
type Filter struct {
	Search string
	School string
	Event  string
}

// SourceKind says where the currently displayed rows came from.
type SourceKind string

const (
	SourceRemote   SourceKind = "remote"
	SourceSnapshot SourceKind = "snapshot"
	SourceSample   SourceKind = "sample"
)

// Snapshot is one complete load result. The store swaps snapshots wholesale so
// readers never see a partially updated row set.
type Snapshot struct {
	Rows     []Row
	Seq      uint64
	LoadID   string
	LoadedAt time.Time
	Source   SourceKind
	// Warning is empty on a clean remote load. On configuration problems or
	// fetch failures it carries the non-fatal message shown to users.
	Warning string
}
