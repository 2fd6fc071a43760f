package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Results table - one row per finished game session
		`CREATE TABLE IF NOT EXISTS results (
			id TEXT PRIMARY KEY,
			started_at DATETIME NOT NULL,
			duration_ms INTEGER NOT NULL,
			score INTEGER NOT NULL,
			hits INTEGER NOT NULL DEFAULT 0,
			misses INTEGER NOT NULL DEFAULT 0,
			shape_count INTEGER NOT NULL,
			pointer TEXT NOT NULL DEFAULT 'hand' CHECK(pointer IN ('hand', 'face')),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Settings table - stores application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Scoreboard ordering
		`CREATE INDEX IF NOT EXISTS idx_results_score ON results(score DESC, started_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
