package schedule

import (
	"context"
	"time"

	"github.com/schoolcal/schoolcal/internal/config"
	"github.com/schoolcal/schoolcal/internal/utils"
	"github.com/schoolcal/schoolcal/pkg/dategrid"
)

// Refresher triggers a reload of the row set. Implemented by the loader.
type Refresher interface {
	Reload(ctx context.Context)
}

// Day is one rendered calendar cell.
type Day struct {
	Date    time.Time
	Key     string
	InMonth bool
	Today   bool
	Events  []Row
}

// Week is a five-day weekday row of a view. Focus marks the week containing
// the anchor day.
type Week struct {
	Label string
	Days  []Day
	Focus bool
}

// StripView is the last/this/next three-week strip.
type StripView struct {
	Anchor time.Time
	Weeks  []Week
}

// MonthView is the weekday-only grid of one calendar month.
type MonthView struct {
	Year      int
	Month     time.Month
	Weeks     []Week
	FocusWeek int
}

// Facets are the distinct filter values derived from the full row set.
type Facets struct {
	Schools    []string
	EventTypes []string
}

// Status describes the last completed load.
type Status struct {
	LoadID   string
	LoadedAt time.Time
	Source   SourceKind
	Warning  string
	RowCount int
}

type Service interface {
	Events(ctx context.Context, filter Filter) []Row
	Facets(ctx context.Context) Facets
	WeekStrip(ctx context.Context, anchor time.Time, filter Filter) StripView
	MonthGrid(ctx context.Context, anchor time.Time, filter Filter) MonthView
	Status(ctx context.Context) Status
	Refresh(ctx context.Context)
	StyleFor(category string) string
}

type ServiceImpl struct {
	store     *Store
	refresher Refresher
	clock     utils.Clock
	weekStart dategrid.WeekStart
	styles    config.Styles
}

func NewService(store *Store, refresher Refresher, clock utils.Clock, weekStart dategrid.WeekStart, styles config.Styles) *ServiceImpl {
	return &ServiceImpl{
		store:     store,
		refresher: refresher,
		clock:     clock,
		weekStart: weekStart,
		styles:    styles,
	}
}

func (s *ServiceImpl) Events(ctx context.Context, filter Filter) []Row {
	return FilteredRows(s.store.Current().Rows, filter)
}

func (s *ServiceImpl) Facets(ctx context.Context) Facets {
	rows := s.store.Current().Rows
	return Facets{
		Schools:    DistinctSchools(rows),
		EventTypes: DistinctEventTypes(rows),
	}
}

func (s *ServiceImpl) WeekStrip(ctx context.Context, anchor time.Time, filter Filter) StripView {
	anchor = utils.StartOfDay(anchor)
	index := IndexByDate(s.Events(ctx, filter))
	strip := dategrid.ThreeWeekStrip(anchor, s.weekStart)
	labels := []string{"previous", "current", "next"}

	weeks := make([]Week, 0, len(strip))
	for i, days := range strip {
		week := Week{Label: labels[i], Focus: labels[i] == "current"}
		for _, d := range days {
			week.Days = append(week.Days, s.dayCell(d, index, true))
		}
		weeks = append(weeks, week)
	}
	return StripView{Anchor: anchor, Weeks: weeks}
}

func (s *ServiceImpl) MonthGrid(ctx context.Context, anchor time.Time, filter Filter) MonthView {
	anchor = utils.StartOfDay(anchor)
	index := IndexByDate(s.Events(ctx, filter))
	grid := dategrid.MonthWeekdayGrid(anchor)
	focusStart := dategrid.StartOfWeek(anchor, dategrid.Monday)

	view := MonthView{Year: anchor.Year(), Month: anchor.Month(), FocusWeek: -1}
	for i, days := range grid {
		week := Week{}
		if days[0].Equal(focusStart) {
			week.Focus = true
			view.FocusWeek = i
		}
		for _, d := range days {
			cell := s.dayCell(d, index, d.Month() == anchor.Month())
			week.Days = append(week.Days, cell)
		}
		view.Weeks = append(view.Weeks, week)
	}
	return view
}

func (s *ServiceImpl) dayCell(d time.Time, index map[string][]Row, inMonth bool) Day {
	key := d.Format(DayKeyLayout)
	return Day{
		Date:    d,
		Key:     key,
		InMonth: inMonth,
		Today:   d.Equal(s.clock.Today()),
		Events:  index[key],
	}
}

func (s *ServiceImpl) Status(ctx context.Context) Status {
	snap := s.store.Current()
	return Status{
		LoadID:   snap.LoadID,
		LoadedAt: snap.LoadedAt,
		Source:   snap.Source,
		Warning:  snap.Warning,
		RowCount: len(snap.Rows),
	}
}

func (s *ServiceImpl) Refresh(ctx context.Context) {
	s.refresher.Reload(ctx)
}

// StyleFor resolves an event category label to its display style token,
// falling back to the configured default for unknown categories.
func (s *ServiceImpl) StyleFor(category string) string {
	if token, ok := s.styles.Categories[category]; ok {
		return token
	}
	return s.styles.Fallback
}
