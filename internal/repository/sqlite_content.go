package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alexanderramin/scormbuilder/internal/db"
)

// SQLiteContentRepo implements ContentRepo using a SQLite database.
type SQLiteContentRepo struct {
	db db.DBTX
}

func NewSQLiteContentRepo(conn db.DBTX) *SQLiteContentRepo {
	return &SQLiteContentRepo{db: conn}
}

func (r *SQLiteContentRepo) Put(ctx context.Context, projectID, key string, value json.RawMessage) error {
	if !json.Valid(value) {
		return fmt.Errorf("content %q: value is not valid JSON", key)
	}
	query := `INSERT INTO project_content (project_id, key, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(project_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	if _, err := r.db.ExecContext(ctx, query, projectID, key, string(value), nowUTC()); err != nil {
		return fmt.Errorf("saving content %q: %w", key, err)
	}
	return nil
}

func (r *SQLiteContentRepo) Get(ctx context.Context, projectID, key string) (json.RawMessage, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM project_content WHERE project_id = ? AND key = ?`, projectID, key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading content %q: %w", key, err)
	}
	return json.RawMessage(value), nil
}

func (r *SQLiteContentRepo) ListByProject(ctx context.Context, projectID string) (map[string]json.RawMessage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT key, value FROM project_content WHERE project_id = ? ORDER BY key`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing content: %w", err)
	}
	defer rows.Close()

	out := make(map[string]json.RawMessage)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scanning content: %w", err)
		}
		out[key] = json.RawMessage(value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating content: %w", err)
	}
	return out, nil
}

func (r *SQLiteContentRepo) Delete(ctx context.Context, projectID, key string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM project_content WHERE project_id = ? AND key = ?`, projectID, key); err != nil {
		return fmt.Errorf("deleting content %q: %w", key, err)
	}
	return nil
}

// DeleteByPrefix removes every key starting with prefix, e.g. "topic:".
func (r *SQLiteContentRepo) DeleteByPrefix(ctx context.Context, projectID, prefix string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM project_content WHERE project_id = ? AND key LIKE ? ESCAPE '\'`,
		projectID, escapeLike(prefix)+"%")
	if err != nil {
		return 0, fmt.Errorf("deleting content %q*: %w", prefix, err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
