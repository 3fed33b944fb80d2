package loader

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/schoolcal/schoolcal/internal/bus"
	"github.com/schoolcal/schoolcal/internal/utils"
	"github.com/schoolcal/schoolcal/pkg/schedule"
	log "github.com/sirupsen/logrus"
)

// Cache hands back the last successfully fetched CSV text, if any. Implemented
// by the snapshot store; a nil Cache disables the middle fallback tier.
// Any error, including "nothing stored yet", drops through to the sample.
type Cache interface {
	Latest(ctx context.Context) (csvText string, fetchedAt time.Time, err error)
}

// Normalizer converts raw CSV text into sorted schedule rows.
type Normalizer interface {
	Normalize(text string) []schedule.Row
}

// Loader owns the fetch-normalize-replace cycle. Every load gets a sequence
// number at start; the store rejects completions that arrive out of order, so
// a slow fetch can never overwrite the result of a newer one.
type Loader struct {
	fetcher    Fetcher
	normalizer Normalizer
	store      *schedule.Store
	events     *bus.Bus
	cache      Cache
	clock      utils.Clock
	configured bool
	seq        atomic.Uint64
}

func New(fetcher Fetcher, normalizer Normalizer, store *schedule.Store, events *bus.Bus, cache Cache, clock utils.Clock, configured bool) *Loader {
	return &Loader{
		fetcher:    fetcher,
		normalizer: normalizer,
		store:      store,
		events:     events,
		cache:      cache,
		clock:      clock,
		configured: configured,
	}
}

// Reload performs one synchronous load cycle. Failures never propagate: the
// result is always a complete snapshot, at worst the embedded sample plus a
// warning. Implements schedule.Refresher.
func (l *Loader) Reload(ctx context.Context) {
	seq := l.seq.Add(1)
	loadID := uuid.NewString()

	if !l.configured {
		l.fallback(ctx, seq, loadID, "no data source configured, showing sample data")
		return
	}

	text, err := l.fetcher.Fetch(ctx)
	if err != nil {
		l.fallback(ctx, seq, loadID, err.Error())
		return
	}

	rows := l.normalizer.Normalize(text)
	if len(rows) == 0 {
		l.fallback(ctx, seq, loadID, "fetched CSV contained no usable rows")
		return
	}

	fetchedAt := l.clock.Now()
	applied := l.store.Replace(schedule.Snapshot{
		Rows:     rows,
		Seq:      seq,
		LoadID:   loadID,
		LoadedAt: fetchedAt,
		Source:   schedule.SourceRemote,
	})
	if !applied {
		return
	}

	log.Infof("loaded %d schedule rows from remote source (load %s)", len(rows), loadID)
	l.events.Publish(bus.NewNotification(ctx, bus.ScheduleReloaded, bus.ReloadedPayload{
		LoadID:    loadID,
		Rows:      len(rows),
		RawCSV:    text,
		FetchedAt: fetchedAt,
	}))
}

// fallback installs the best stale data available: the cached last good fetch
// when present, the embedded sample otherwise. The warning is reported through
// the snapshot, never as an error.
func (l *Loader) fallback(ctx context.Context, seq uint64, loadID, warning string) {
	log.Warnf("schedule load %s falling back: %s", loadID, warning)

	source := schedule.SourceSample
	text := SampleCSV
	if l.cache != nil {
		cached, fetchedAt, err := l.cache.Latest(ctx)
		if err != nil {
			log.Debugf("schedule cache unavailable: %v", err)
		} else if rows := l.normalizer.Normalize(cached); len(rows) > 0 {
			source = schedule.SourceSnapshot
			text = cached
			warning = fmt.Sprintf("%s (showing data cached %s)", warning, fetchedAt.Format("2006-01-02 15:04"))
		}
	}

	applied := l.store.Replace(schedule.Snapshot{
		Rows:     l.normalizer.Normalize(text),
		Seq:      seq,
		LoadID:   loadID,
		LoadedAt: l.clock.Now(),
		Source:   source,
		Warning:  warning,
	})
	if !applied {
		return
	}

	l.events.Publish(bus.NewNotification(ctx, bus.ScheduleLoadFailed, bus.LoadFailedPayload{
		LoadID:  loadID,
		Warning: warning,
	}))
}
