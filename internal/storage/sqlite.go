// Package storage persists user profiles and cached profile-summary
// embeddings in SQLite. Profile reads honour the collaborator contract
// the matcher relies on: a user with no rows in a given category gets
// empty collections, not an error.
package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/tandemly/tandem/internal/profile"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrNotFound is returned when a requested profile does not exist.
var ErrNotFound = errors.New("not found")

// Store wraps a SQLite database holding profiles and embedding cache rows.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) a SQLite database in dataDir and runs pending
// migrations. Pass ":memory:" as dataDir for an in-memory database
// (used by tests).
func Open(dataDir string) (*Store, error) {
	var dsn string
	if dataDir == ":memory:" {
		dsn = ":memory:"
	} else {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		dsn = filepath.Join(dataDir, "tandem.db")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// Limit to single connection to avoid "database is locked" errors.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting journal mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate applies embedded SQL migration files that haven't run yet.
func (s *Store) migrate() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		version, err := parseMigrationVersion(entry.Name())
		if err != nil {
			return err
		}

		var exists int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM schema_version WHERE version = ?", version).Scan(&exists); err != nil {
			return fmt.Errorf("checking migration %d: %w", version, err)
		}
		if exists > 0 {
			continue
		}

		content, err := migrationsFS.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", entry.Name(), err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning migration %d: %w", version, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			return fmt.Errorf("applying migration %d: %w", version, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %d: %w", version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", version, err)
		}
	}
	return nil
}

// parseMigrationVersion extracts the leading numeric version from a
// migration filename like "0001_profiles.sql".
func parseMigrationVersion(name string) (int, error) {
	idx := strings.Index(name, "_")
	if idx <= 0 {
		return 0, fmt.Errorf("malformed migration filename %q", name)
	}
	v, err := strconv.Atoi(name[:idx])
	if err != nil {
		return 0, fmt.Errorf("malformed migration version in %q: %w", name, err)
	}
	return v, nil
}

// UpsertProfile writes the base profile row and replaces all its join
// rows in a single transaction.
func (s *Store) UpsertProfile(ctx context.Context, raw profile.Raw) error {
	if raw.ID == "" {
		return fmt.Errorf("upserting profile: empty id")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning upsert transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO profiles (id, native_language, bio, schedule_tag, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			native_language = excluded.native_language,
			bio = excluded.bio,
			schedule_tag = excluded.schedule_tag,
			updated_at = excluded.updated_at`,
		raw.ID, raw.NativeLanguage, raw.Bio, raw.ScheduleTag, now, now); err != nil {
		return fmt.Errorf("upserting profile %s: %w", raw.ID, err)
	}

	for _, table := range []string{"profile_languages", "profile_goals", "profile_interests", "profile_personalities"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE profile_id = ?", raw.ID); err != nil {
			return fmt.Errorf("clearing %s for %s: %w", table, raw.ID, err)
		}
	}

	for i, tl := range raw.Languages {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO profile_languages (profile_id, code, current_level, target_level, position)
			VALUES (?, ?, ?, ?, ?)`,
			raw.ID, tl.Code, tl.CurrentLevel, tl.TargetLevel, i); err != nil {
			return fmt.Errorf("inserting language %s for %s: %w", tl.Code, raw.ID, err)
		}
	}
	if err := insertTags(ctx, tx, "profile_goals", "goal", raw.ID, raw.Goals); err != nil {
		return err
	}
	if err := insertTags(ctx, tx, "profile_interests", "interest", raw.ID, raw.Interests); err != nil {
		return err
	}
	if err := insertTags(ctx, tx, "profile_personalities", "trait", raw.ID, raw.Personalities); err != nil {
		return err
	}

	return tx.Commit()
}

func insertTags(ctx context.Context, tx *sql.Tx, table, column, profileID string, tags []string) error {
	for _, tag := range tags {
		if tag == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO "+table+" (profile_id, "+column+") VALUES (?, ?)",
			profileID, tag); err != nil {
			return fmt.Errorf("inserting %s %q for %s: %w", column, tag, profileID, err)
		}
	}
	return nil
}

// GetProfile returns the raw profile for the given id, with all join
// rows attached. Categories with no rows come back as empty slices.
func (s *Store) GetProfile(ctx context.Context, id string) (profile.Raw, error) {
	var raw profile.Raw
	err := s.db.QueryRowContext(ctx,
		"SELECT id, native_language, bio, schedule_tag FROM profiles WHERE id = ?", id).
		Scan(&raw.ID, &raw.NativeLanguage, &raw.Bio, &raw.ScheduleTag)
	if errors.Is(err, sql.ErrNoRows) {
		return profile.Raw{}, fmt.Errorf("profile %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return profile.Raw{}, fmt.Errorf("querying profile %s: %w", id, err)
	}

	if err := s.attachJoins(ctx, &raw); err != nil {
		return profile.Raw{}, err
	}
	return raw, nil
}

// ListCandidates returns all stored profiles except the given user's,
// each with its join rows attached.
func (s *Store) ListCandidates(ctx context.Context, excludeID string) ([]profile.Raw, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, native_language, bio, schedule_tag FROM profiles WHERE id != ? ORDER BY id", excludeID)
	if err != nil {
		return nil, fmt.Errorf("querying candidates: %w", err)
	}
	defer rows.Close()

	var candidates []profile.Raw
	for rows.Next() {
		var raw profile.Raw
		if err := rows.Scan(&raw.ID, &raw.NativeLanguage, &raw.Bio, &raw.ScheduleTag); err != nil {
			return nil, fmt.Errorf("scanning candidate row: %w", err)
		}
		candidates = append(candidates, raw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating candidates: %w", err)
	}

	for i := range candidates {
		if err := s.attachJoins(ctx, &candidates[i]); err != nil {
			return nil, err
		}
	}
	return candidates, nil
}

func (s *Store) attachJoins(ctx context.Context, raw *profile.Raw) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT code, current_level, target_level FROM profile_languages
		WHERE profile_id = ? ORDER BY position`, raw.ID)
	if err != nil {
		return fmt.Errorf("querying languages for %s: %w", raw.ID, err)
	}
	defer rows.Close()
	for rows.Next() {
		var tl profile.TargetLanguage
		if err := rows.Scan(&tl.Code, &tl.CurrentLevel, &tl.TargetLevel); err != nil {
			return fmt.Errorf("scanning language row for %s: %w", raw.ID, err)
		}
		raw.Languages = append(raw.Languages, tl)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating languages for %s: %w", raw.ID, err)
	}

	var tagErr error
	raw.Goals, tagErr = s.tagColumn(ctx, "profile_goals", "goal", raw.ID)
	if tagErr != nil {
		return tagErr
	}
	raw.Interests, tagErr = s.tagColumn(ctx, "profile_interests", "interest", raw.ID)
	if tagErr != nil {
		return tagErr
	}
	raw.Personalities, tagErr = s.tagColumn(ctx, "profile_personalities", "trait", raw.ID)
	return tagErr
}

func (s *Store) tagColumn(ctx context.Context, table, column, profileID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+column+" FROM "+table+" WHERE profile_id = ? ORDER BY "+column, profileID)
	if err != nil {
		return nil, fmt.Errorf("querying %s for %s: %w", table, profileID, err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("scanning %s row for %s: %w", table, profileID, err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

// CountProfiles returns the number of stored profiles.
func (s *Store) CountProfiles(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM profiles").Scan(&count)
	return count, err
}
