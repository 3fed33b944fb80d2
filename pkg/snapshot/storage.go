package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/schoolcal/schoolcal/internal/bus"
	log "github.com/sirupsen/logrus"
)

const DriverName = "sqlite3"

// ErrNoSnapshot is returned by Latest when nothing has been cached yet.
var ErrNoSnapshot = errors.New("snapshot: nothing cached")

// Storage caches the last successfully fetched CSV in a local sqlite file, so
// a restart during a source outage still has real data to show.
type Storage struct {
	db *sqlx.DB
}

func Open(path string) (*Storage, error) {
	db, err := sqlx.Open(DriverName, path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: opening %s: %w", path, err)
	}
	s := &Storage{db: db}
	if err := s.runMigrations(); err != nil {
		return nil, fmt.Errorf("snapshot: running migrations: %w", err)
	}
	return s, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

// Save upserts the single cached snapshot row.
func (s *Storage) Save(ctx context.Context, csvText string, fetchedAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO snapshots (id, csv, fetched_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET csv = ?, fetched_at = ?;
	`, csvText, fetchedAt.Format(time.RFC3339), csvText, fetchedAt.Format(time.RFC3339))
	return err
}

// Latest returns the cached CSV text and when it was fetched.
func (s *Storage) Latest(ctx context.Context) (string, time.Time, error) {
	var row struct {
		CSV       string `db:"csv"`
		FetchedAt string `db:"fetched_at"`
	}
	err := s.db.GetContext(ctx, &row, `SELECT csv, fetched_at FROM snapshots WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return "", time.Time{}, ErrNoSnapshot
	}
	if err != nil {
		return "", time.Time{}, err
	}
	fetchedAt, err := time.Parse(time.RFC3339, row.FetchedAt)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("snapshot: corrupt fetched_at: %w", err)
	}
	return row.CSV, fetchedAt, nil
}

// SubscribeTo caches every successful remote load published on the bus. The
// returned function unsubscribes.
func (s *Storage) SubscribeTo(b *bus.Bus) func() {
	return bus.SubscribeTyped[bus.ReloadedPayload](b, bus.ScheduleReloaded, func(n bus.TypedNotification[bus.ReloadedPayload]) error {
		if err := s.Save(n.Context(), n.Payload.RawCSV, n.Payload.FetchedAt); err != nil {
			log.Errorf("snapshot: caching load %s failed: %v", n.Payload.LoadID, err)
			return err
		}
		log.Debugf("snapshot: cached load %s (%d rows)", n.Payload.LoadID, n.Payload.Rows)
		return nil
	})
}
