package snapshot

func (s *Storage) runMigrations() error {
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS snapshots (
		id INTEGER NOT NULL PRIMARY KEY CHECK (id = 1),
		csv TEXT NOT NULL,
		fetched_at VARCHAR NOT NULL
	)`,
}
