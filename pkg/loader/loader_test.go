package loader

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/schoolcal/schoolcal/internal/bus"
	"github.com/schoolcal/schoolcal/internal/config"
	"github.com/schoolcal/schoolcal/internal/utils"
	"github.com/schoolcal/schoolcal/pkg/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const remoteCSV = "date,event,school,notes\n" +
	"2025-09-15,No School,Lincoln Elementary,staff development\n" +
	"2025-10-01,Half Day,Roosevelt Middle School,\n"

func testNormalizer() *schedule.Normalizer {
	return schedule.NewNormalizer(config.Columns{
		Date:   []string{"date"},
		Event:  []string{"event"},
		School: []string{"school"},
		Notes:  []string{"notes"},
	})
}

func setupLoader(fetcher Fetcher, cache Cache, configured bool) (*Loader, *schedule.Store, *bus.Bus) {
	store := schedule.NewStore()
	events := bus.New()
	clock := &utils.MockClock{FixedNow: time.Date(2025, time.August, 27, 12, 0, 0, 0, time.Local)}
	l := New(fetcher, testNormalizer(), store, events, cache, clock, configured)
	return l, store, events
}

func TestReload(t *testing.T) {
	ctx := context.Background()

	t.Run("successful fetch replaces the row set", func(t *testing.T) {
		fetcher := &StubFetcher{Text: remoteCSV}
		l, store, events := setupLoader(fetcher, nil, true)

		var published *bus.ReloadedPayload
		bus.SubscribeTyped[bus.ReloadedPayload](events, bus.ScheduleReloaded, func(n bus.TypedNotification[bus.ReloadedPayload]) error {
			published = &n.Payload
			return nil
		})

		l.Reload(ctx)

		snap := store.Current()
		assert.Equal(t, schedule.SourceRemote, snap.Source)
		assert.Empty(t, snap.Warning)
		require.Len(t, snap.Rows, 2)
		assert.Equal(t, "Lincoln Elementary", snap.Rows[0].School)

		require.NotNil(t, published)
		assert.Equal(t, 2, published.Rows)
		assert.Equal(t, remoteCSV, published.RawCSV)
	})

	t.Run("unconfigured source serves the sample with a warning", func(t *testing.T) {
		fetcher := &StubFetcher{Text: remoteCSV}
		l, store, _ := setupLoader(fetcher, nil, false)

		l.Reload(ctx)

		snap := store.Current()
		assert.Equal(t, schedule.SourceSample, snap.Source)
		assert.Contains(t, snap.Warning, "no data source configured")
		assert.NotEmpty(t, snap.Rows)
		assert.Equal(t, 0, fetcher.Calls)
	})

	t.Run("fetch failure falls back to the sample", func(t *testing.T) {
		fetcher := &StubFetcher{Err: errors.New("connection refused")}
		l, store, events := setupLoader(fetcher, nil, true)

		var failed *bus.LoadFailedPayload
		bus.SubscribeTyped[bus.LoadFailedPayload](events, bus.ScheduleLoadFailed, func(n bus.TypedNotification[bus.LoadFailedPayload]) error {
			failed = &n.Payload
			return nil
		})

		l.Reload(ctx)

		snap := store.Current()
		assert.Equal(t, schedule.SourceSample, snap.Source)
		assert.Contains(t, snap.Warning, "connection refused")
		assert.NotEmpty(t, snap.Rows)
		require.NotNil(t, failed)
		assert.Contains(t, failed.Warning, "connection refused")
	})

	t.Run("fetch failure prefers the cached snapshot over the sample", func(t *testing.T) {
		fetcher := &StubFetcher{Err: errors.New("boom")}
		cache := &StubCache{Text: remoteCSV, FetchedAt: time.Date(2025, time.August, 26, 7, 0, 0, 0, time.Local)}
		l, store, _ := setupLoader(fetcher, cache, true)

		l.Reload(ctx)

		snap := store.Current()
		assert.Equal(t, schedule.SourceSnapshot, snap.Source)
		assert.Contains(t, snap.Warning, "boom")
		assert.Contains(t, snap.Warning, "2025-08-26")
		require.Len(t, snap.Rows, 2)
	})

	t.Run("empty cache drops through to the sample", func(t *testing.T) {
		fetcher := &StubFetcher{Err: errors.New("boom")}
		cache := &StubCache{Err: errors.New("snapshot: nothing cached")}
		l, store, _ := setupLoader(fetcher, cache, true)

		l.Reload(ctx)

		assert.Equal(t, schedule.SourceSample, store.Current().Source)
	})

	t.Run("CSV without usable rows counts as a failure", func(t *testing.T) {
		fetcher := &StubFetcher{Text: "garbage,header\n1,2\n"}
		l, store, _ := setupLoader(fetcher, nil, true)

		l.Reload(ctx)

		snap := store.Current()
		assert.Equal(t, schedule.SourceSample, snap.Source)
		assert.Contains(t, snap.Warning, "no usable rows")
	})

	t.Run("sequence numbers increase per load", func(t *testing.T) {
		fetcher := &StubFetcher{Text: remoteCSV}
		l, store, _ := setupLoader(fetcher, nil, true)

		l.Reload(ctx)
		first := store.Current().Seq
		l.Reload(ctx)
		second := store.Current().Seq

		assert.Greater(t, second, first)
	})
}

func TestSampleCSV(t *testing.T) {
	rows := testNormalizer().Normalize(SampleCSV)

	assert.GreaterOrEqual(t, len(rows), 4)
	for _, row := range rows {
		assert.NotEmpty(t, row.Event)
		assert.NotEmpty(t, row.School)
		assert.False(t, row.Date.IsZero())
	}
}

func TestHTTPFetcher(t *testing.T) {
	t.Run("returns the body and disables caching", func(t *testing.T) {
		var gotCacheControl string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotCacheControl = r.Header.Get("Cache-Control")
			_, _ = w.Write([]byte(remoteCSV))
		}))
		defer srv.Close()

		fetcher := NewHTTPFetcher(srv.URL, time.Second)
		text, err := fetcher.Fetch(context.Background())

		require.NoError(t, err)
		assert.Equal(t, remoteCSV, text)
		assert.Equal(t, "no-cache", gotCacheControl)
	})

	t.Run("non-success status is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gone", http.StatusNotFound)
		}))
		defer srv.Close()

		fetcher := NewHTTPFetcher(srv.URL, time.Second)
		_, err := fetcher.Fetch(context.Background())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "404")
	})
}

func TestRunnerStopsOnCancel(t *testing.T) {
	fetcher := &StubFetcher{Text: remoteCSV}
	l, store, _ := setupLoader(fetcher, nil, true)
	runner := NewRunner(l, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		runner.Run(ctx)
		close(done)
	}()

	// The initial load happens before the first tick.
	assert.Eventually(t, func() bool {
		return len(store.Current().Rows) == 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("runner did not stop after cancellation")
	}
}
