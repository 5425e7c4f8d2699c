package db

import "fmt"

func (d *DB) migrate() error {
	if _, err := d.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("creating migrations table: %w", err)
	}

	var version int
	if err := d.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version); err != nil {
		return fmt.Errorf("getting schema version: %w", err)
	}

	migrations := []func(*DB) error{
		migrateV1,
	}

	for i := version; i < len(migrations); i++ {
		if err := migrations[i](d); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
		if _, err := d.Exec("INSERT INTO schema_migrations (version) VALUES (?)", i+1); err != nil {
			return fmt.Errorf("recording migration %d: %w", i+1, err)
		}
	}

	return nil
}

func migrateV1(d *DB) error {
	statements := []string{
		`CREATE TABLE manager (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			active_game_slug TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE managed_games (
			slug TEXT PRIMARY KEY,
			favorite INTEGER NOT NULL DEFAULT 0,
			active_profile_index INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE profiles (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_slug TEXT NOT NULL REFERENCES managed_games(slug) ON DELETE CASCADE,
			order_index INTEGER NOT NULL,
			name TEXT NOT NULL,
			path TEXT NOT NULL,
			mods TEXT NOT NULL,
			ignored_updates TEXT,
			modpack TEXT,
			UNIQUE(game_slug, name)
		)`,
		`CREATE INDEX idx_profiles_game ON profiles(game_slug, order_index)`,
	}

	for _, stmt := range statements {
		if _, err := d.Exec(stmt); err != nil {
			return fmt.Errorf("executing %q: %w", stmt[:40], err)
		}
	}

	return nil
}
