package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// migration is one forward-only schema step.
type migration struct {
	version     int
	description string
	sql         string
}

// migrations are applied in order; never edit a released step, append a new one.
var migrations = []migration{
	{
		version:     1,
		description: "accounts, teams, members, projects, videos",
		sql: `
	CREATE TABLE IF NOT EXISTS account (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL,
		created_at TEXT NOT NULL,
		failed_logins INTEGER NOT NULL DEFAULT 0,
		locked_until TEXT
	);

	CREATE TABLE IF NOT EXISTS team (
		id TEXT PRIMARY KEY,
		slug TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		membership_policy TEXT NOT NULL,
		video_policy TEXT NOT NULL,
		task_assign_policy TEXT NOT NULL,
		workflow_enabled INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS team_member (
		id TEXT PRIMARY KEY,
		team_id TEXT NOT NULL,
		account_id TEXT NOT NULL,
		role TEXT NOT NULL,
		UNIQUE (team_id, account_id),
		FOREIGN KEY (team_id) REFERENCES team(id),
		FOREIGN KEY (account_id) REFERENCES account(id)
	);

	CREATE TABLE IF NOT EXISTS team_manager_language (
		member_id TEXT NOT NULL,
		language_code TEXT NOT NULL,
		PRIMARY KEY (member_id, language_code),
		FOREIGN KEY (member_id) REFERENCES team_member(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS project (
		id TEXT PRIMARY KEY,
		team_id TEXT NOT NULL,
		name TEXT NOT NULL,
		slug TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		workflow_enabled INTEGER NOT NULL DEFAULT 0,
		UNIQUE (team_id, slug),
		FOREIGN KEY (team_id) REFERENCES team(id)
	);

	CREATE TABLE IF NOT EXISTS video (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		url TEXT NOT NULL,
		created_at TEXT NOT NULL,
		team_id TEXT,
		project_id TEXT,
		FOREIGN KEY (team_id) REFERENCES team(id),
		FOREIGN KEY (project_id) REFERENCES project(id)
	);

	CREATE INDEX IF NOT EXISTS idx_video_team ON video(team_id);

	CREATE TABLE IF NOT EXISTS subtitle_language (
		video_id TEXT NOT NULL,
		language_code TEXT NOT NULL,
		complete INTEGER NOT NULL DEFAULT 0,
		text TEXT NOT NULL DEFAULT '',
		position INTEGER NOT NULL,
		PRIMARY KEY (video_id, language_code),
		FOREIGN KEY (video_id) REFERENCES video(id) ON DELETE CASCADE
	);`,
	},
	{
		version:     2,
		description: "team workflow and preferred languages",
		sql: `
	CREATE TABLE IF NOT EXISTS workflow (
		team_id TEXT PRIMARY KEY,
		autocreate_subtitle INTEGER NOT NULL DEFAULT 0,
		autocreate_translate INTEGER NOT NULL DEFAULT 0,
		review_allowed INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY (team_id) REFERENCES team(id)
	);

	CREATE TABLE IF NOT EXISTS team_language_preference (
		team_id TEXT NOT NULL,
		language_code TEXT NOT NULL,
		position INTEGER NOT NULL,
		PRIMARY KEY (team_id, language_code),
		FOREIGN KEY (team_id) REFERENCES team(id)
	);`,
	},
	{
		version:     3,
		description: "team activity log",
		sql: `
	CREATE TABLE IF NOT EXISTS team_activity (
		id TEXT PRIMARY KEY,
		team_id TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		action TEXT NOT NULL,
		actor TEXT NOT NULL DEFAULT '',
		resource_type TEXT NOT NULL DEFAULT '',
		resource_id TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		FOREIGN KEY (team_id) REFERENCES team(id)
	);

	CREATE INDEX IF NOT EXISTS idx_team_activity_team ON team_activity(team_id, timestamp);`,
	},
}

// LatestSchemaVersion returns the version of the newest migration.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// SchemaVersion returns the currently applied schema version (0 when none).
// PRE: db is a valid database connection
// POST: Returns the highest recorded version
func SchemaVersion(db *sql.DB) (int, error) {
	if _, err := db.Exec("CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)"); err != nil {
		return 0, fmt.Errorf("failed to create schema_version: %w", err)
	}
	var v sql.NullInt64
	if err := db.QueryRow("SELECT MAX(version) FROM schema_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return int(v.Int64), nil
}

// MigrateDB brings the schema up to LatestSchemaVersion.
// PRE: db is a valid database connection
// POST: All pending migrations applied in one transaction each; re-running is a no-op
func MigrateDB(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	current, err := SchemaVersion(db)
	if err != nil {
		return err
	}
	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(m.sql); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.version, m.description, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d: record version: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		slog.Info("schema_migrated", "version", m.version, "description", m.description)
	}
	return nil
}
