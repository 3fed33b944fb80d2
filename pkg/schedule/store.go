package schedule

import (
	"sort"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Store holds the current schedule snapshot. Snapshots are swapped wholesale;
// the sequence number makes overlapping loads deterministic: a load that
// started earlier can never overwrite the result of one that started later.
type Store struct {
	mu      sync.RWMutex
	current Snapshot
}

func NewStore() *Store {
	return &Store{}
}

// Replace installs snap as the current snapshot. It reports false and leaves
// the store untouched when snap is staler than what is already applied.
func (s *Store) Replace(snap Snapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current.Seq > 0 && snap.Seq <= s.current.Seq {
		log.Infof("schedule: discarding stale load %s (seq %d <= %d)", snap.LoadID, snap.Seq, s.current.Seq)
		return false
	}
	s.current = snap
	return true
}

// Current returns the snapshot in place. The returned value shares its row
// slice with the store; callers must treat it as read-only.
func (s *Store) Current() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// FilteredRows returns the subsequence of rows matching the filter, in input
// order. School and event filters are exact matches ("all" or empty disables
// them); search is a case-insensitive substring match over school, event, and
// notes.
func FilteredRows(rows []Row, f Filter) []Row {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		if !filterMatches(f.School, row.School) {
			continue
		}
		if !filterMatches(f.Event, row.Event) {
			continue
		}
		if search != "" && !rowMatchesSearch(row, search) {
			continue
		}
		out = append(out, row)
	}
	return out
}

func filterMatches(filter, value string) bool {
	return filter == "" || filter == FilterAll || filter == value
}

func rowMatchesSearch(row Row, search string) bool {
	return strings.Contains(strings.ToLower(row.School), search) ||
		strings.Contains(strings.ToLower(row.Event), search) ||
		strings.Contains(strings.ToLower(row.Notes), search)
}

// DistinctSchools returns the unique school names, sorted ascending.
func DistinctSchools(rows []Row) []string {
	return distinct(rows, func(r Row) string { return r.School })
}

// DistinctEventTypes returns the unique event labels, sorted ascending.
func DistinctEventTypes(rows []Row) []string {
	return distinct(rows, func(r Row) string { return r.Event })
}

func distinct(rows []Row, key func(Row) string) []string {
	seen := make(map[string]struct{}, len(rows))
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		k := key(row)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// IndexByDate maps each YYYY-MM-DD key to the ordered rows of that day.
func IndexByDate(rows []Row) map[string][]Row {
	index := make(map[string][]Row)
	for _, row := range rows {
		key := row.DayKey()
		index[key] = append(index[key], row)
	}
	return index
}
