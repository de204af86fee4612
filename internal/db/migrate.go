package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent and re-run
// on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN has no IF NOT EXISTS form.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		current_step  INTEGER NOT NULL DEFAULT 0
		              CHECK(current_step BETWEEN 0 AND 6),
		visited_steps TEXT NOT NULL DEFAULT '0',
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS course_metadata (
		project_id TEXT PRIMARY KEY REFERENCES projects(id) ON DELETE CASCADE,
		title      TEXT NOT NULL DEFAULT '',
		difficulty INTEGER NOT NULL DEFAULT 0,
		template   TEXT NOT NULL DEFAULT '',
		topics     TEXT NOT NULL DEFAULT '[]',
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS project_content (
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		key        TEXT NOT NULL,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (project_id, key)
	)`,

	`CREATE TABLE IF NOT EXISTS media_blobs (
		id         TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		page_id    TEXT NOT NULL DEFAULT '',
		type       TEXT NOT NULL
		           CHECK(type IN ('image','video','audio','caption')),
		mime_type  TEXT NOT NULL DEFAULT '',
		file_name  TEXT NOT NULL DEFAULT '',
		data       BLOB NOT NULL,
		created_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_media_blobs_project ON media_blobs(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_media_blobs_page ON media_blobs(project_id, page_id)`,

	`ALTER TABLE media_blobs ADD COLUMN size_bytes INTEGER NOT NULL DEFAULT 0`,
}
