package db

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"tmm/internal/domain"
)

// Snapshot is the full durable manager state: the active game and every
// managed game's profiles and mod lists. The core writes one after every
// mutating operation that must survive a restart.
type Snapshot struct {
	ActiveGameSlug string
	Games          []GameSnapshot
}

// GameSnapshot is the durable state of one managed game.
type GameSnapshot struct {
	Slug               string
	Favorite           bool
	ActiveProfileIndex int
	Profiles           []ProfileSnapshot
}

// ProfileSnapshot is the durable state of one profile. Mod lists and the
// ignored-updates set are stored as JSON columns.
type ProfileSnapshot struct {
	Name           string
	Path           string
	Mods           []domain.ProfileMod
	IgnoredUpdates []uuid.UUID
	Modpack        json.RawMessage
}

// SaveSnapshot replaces the stored state with the given snapshot in one
// transaction.
func (d *DB) SaveSnapshot(snap Snapshot) error {
	tx, err := d.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		"DELETE FROM profiles",
		"DELETE FROM managed_games",
		"DELETE FROM manager",
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("clearing state: %w", err)
		}
	}

	if _, err := tx.Exec(
		"INSERT INTO manager (id, active_game_slug) VALUES (1, ?)",
		snap.ActiveGameSlug,
	); err != nil {
		return fmt.Errorf("saving manager row: %w", err)
	}

	for _, game := range snap.Games {
		if _, err := tx.Exec(
			"INSERT INTO managed_games (slug, favorite, active_profile_index) VALUES (?, ?, ?)",
			game.Slug, game.Favorite, game.ActiveProfileIndex,
		); err != nil {
			return fmt.Errorf("saving game %s: %w", game.Slug, err)
		}

		for i, p := range game.Profiles {
			mods, err := json.Marshal(p.Mods)
			if err != nil {
				return fmt.Errorf("marshaling mods of %s: %w", p.Name, err)
			}
			ignored, err := json.Marshal(p.IgnoredUpdates)
			if err != nil {
				return fmt.Errorf("marshaling ignored updates of %s: %w", p.Name, err)
			}

			var modpack any
			if len(p.Modpack) > 0 {
				modpack = string(p.Modpack)
			}

			if _, err := tx.Exec(
				`INSERT INTO profiles (game_slug, order_index, name, path, mods, ignored_updates, modpack)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				game.Slug, i, p.Name, p.Path, string(mods), string(ignored), modpack,
			); err != nil {
				return fmt.Errorf("saving profile %s: %w", p.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot reads the last written snapshot. A fresh database yields an
// empty snapshot, not an error.
func (d *DB) LoadSnapshot() (Snapshot, error) {
	var snap Snapshot

	err := d.QueryRow("SELECT active_game_slug FROM manager WHERE id = 1").Scan(&snap.ActiveGameSlug)
	if err == sql.ErrNoRows {
		return snap, nil
	}
	if err != nil {
		return snap, fmt.Errorf("loading manager row: %w", err)
	}

	rows, err := d.Query("SELECT slug, favorite, active_profile_index FROM managed_games")
	if err != nil {
		return snap, fmt.Errorf("loading games: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var game GameSnapshot
		if err := rows.Scan(&game.Slug, &game.Favorite, &game.ActiveProfileIndex); err != nil {
			return snap, fmt.Errorf("scanning game: %w", err)
		}
		snap.Games = append(snap.Games, game)
	}
	if err := rows.Err(); err != nil {
		return snap, fmt.Errorf("iterating games: %w", err)
	}

	for i := range snap.Games {
		profiles, err := d.loadProfiles(snap.Games[i].Slug)
		if err != nil {
			return snap, err
		}
		snap.Games[i].Profiles = profiles
	}

	return snap, nil
}

func (d *DB) loadProfiles(slug string) ([]ProfileSnapshot, error) {
	rows, err := d.Query(
		`SELECT name, path, mods, ignored_updates, modpack
		 FROM profiles WHERE game_slug = ? ORDER BY order_index`,
		slug,
	)
	if err != nil {
		return nil, fmt.Errorf("loading profiles of %s: %w", slug, err)
	}
	defer rows.Close()

	var profiles []ProfileSnapshot
	for rows.Next() {
		var (
			p       ProfileSnapshot
			mods    string
			ignored sql.NullString
			modpack sql.NullString
		)
		if err := rows.Scan(&p.Name, &p.Path, &mods, &ignored, &modpack); err != nil {
			return nil, fmt.Errorf("scanning profile: %w", err)
		}

		if err := json.Unmarshal([]byte(mods), &p.Mods); err != nil {
			return nil, fmt.Errorf("parsing mods of %s: %w", p.Name, err)
		}
		if ignored.Valid && ignored.String != "" {
			if err := json.Unmarshal([]byte(ignored.String), &p.IgnoredUpdates); err != nil {
				return nil, fmt.Errorf("parsing ignored updates of %s: %w", p.Name, err)
			}
		}
		if modpack.Valid {
			p.Modpack = json.RawMessage(modpack.String)
		}

		profiles = append(profiles, p)
	}

	return profiles, rows.Err()
}
