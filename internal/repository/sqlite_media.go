package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/scormbuilder/internal/db"
	"github.com/alexanderramin/scormbuilder/internal/domain"
)

// SQLiteMediaRepo stores media payloads as BLOBs.
type SQLiteMediaRepo struct {
	db db.DBTX
}

func NewSQLiteMediaRepo(conn db.DBTX) *SQLiteMediaRepo {
	return &SQLiteMediaRepo{db: conn}
}

func (r *SQLiteMediaRepo) Create(ctx context.Context, b *domain.MediaBlob) error {
	b.SizeBytes = int64(len(b.Data))
	query := `INSERT INTO media_blobs (id, project_id, page_id, type, mime_type, file_name, data, size_bytes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		b.ID, b.ProjectID, b.PageID, string(b.Type), b.MimeType, b.FileName,
		b.Data, b.SizeBytes, formatTime(b.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting media %s: %w", b.ID, err)
	}
	return nil
}

func (r *SQLiteMediaRepo) GetByID(ctx context.Context, id string) (*domain.MediaBlob, error) {
	var b domain.MediaBlob
	var typ, createdAtStr string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, project_id, page_id, type, mime_type, file_name, data, size_bytes, created_at
		FROM media_blobs WHERE id = ?`, id,
	).Scan(&b.ID, &b.ProjectID, &b.PageID, &typ, &b.MimeType, &b.FileName, &b.Data, &b.SizeBytes, &createdAtStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("media %s %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning media: %w", err)
	}
	b.Type = domain.MediaType(typ)
	if b.CreatedAt, err = parseTime(createdAtStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &b, nil
}

func (r *SQLiteMediaRepo) ListByProject(ctx context.Context, projectID string) ([]domain.BlobInfo, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, project_id, page_id, type, mime_type, file_name, size_bytes, created_at
		FROM media_blobs WHERE project_id = ? ORDER BY created_at, id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing media: %w", err)
	}
	defer rows.Close()

	var out []domain.BlobInfo
	for rows.Next() {
		var info domain.BlobInfo
		var typ, createdAtStr string
		if err := rows.Scan(&info.ID, &info.ProjectID, &info.PageID, &typ, &info.MimeType, &info.FileName, &info.SizeBytes, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning media: %w", err)
		}
		info.Type = domain.MediaType(typ)
		if info.CreatedAt, err = parseTime(createdAtStr); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating media: %w", err)
	}
	return out, nil
}

func (r *SQLiteMediaRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM media_blobs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting media: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("media %s %w", id, ErrNotFound)
	}
	return nil
}

// DeleteByType removes every blob of the given types for a project.
func (r *SQLiteMediaRepo) DeleteByType(ctx context.Context, projectID string, types ...domain.MediaType) (int64, error) {
	if len(types) == 0 {
		return 0, nil
	}
	args := make([]any, 0, len(types)+1)
	args = append(args, projectID)
	for _, t := range types {
		args = append(args, string(t))
	}
	query := `DELETE FROM media_blobs WHERE project_id = ? AND type IN (` + placeholders(len(types)) + `)`
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("deleting media by type: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
