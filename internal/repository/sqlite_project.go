package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alexanderramin/scormbuilder/internal/db"
	"github.com/alexanderramin/scormbuilder/internal/domain"
)

// SQLiteProjectRepo implements ProjectRepo using a SQLite database.
type SQLiteProjectRepo struct {
	db db.DBTX
}

// NewSQLiteProjectRepo creates a new SQLiteProjectRepo. conn may be a
// *sql.DB or a *sql.Tx.
func NewSQLiteProjectRepo(conn db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: conn}
}

const projectColumns = `id, name, current_step, visited_steps, created_at, updated_at`

func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	query := `INSERT INTO projects (` + projectColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		int(p.CurrentStep),
		p.VisitedSteps.Encode(),
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`
	p, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("project %s %w", id, ErrNotFound)
		}
		return nil, err
	}
	return p, nil
}

// List returns projects most recently updated first.
func (r *SQLiteProjectRepo) List(ctx context.Context) ([]*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY updated_at DESC, name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return projects, nil
}

func (r *SQLiteProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	query := `UPDATE projects SET name = ?, current_step = ?, visited_steps = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		p.Name,
		int(p.CurrentStep),
		p.VisitedSteps.Encode(),
		formatTime(p.UpdatedAt),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("project %s %w", p.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteProjectRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("project %s %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLiteProjectRepo) SaveMetadata(ctx context.Context, projectID string, meta domain.CourseMetadata) error {
	topics := meta.Topics
	if topics == nil {
		topics = []string{}
	}
	topicsJSON, err := json.Marshal(topics)
	if err != nil {
		return fmt.Errorf("encoding topics: %w", err)
	}
	query := `INSERT INTO course_metadata (project_id, title, difficulty, template, topics, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(project_id) DO UPDATE SET
			title = excluded.title,
			difficulty = excluded.difficulty,
			template = excluded.template,
			topics = excluded.topics,
			updated_at = excluded.updated_at`
	if _, err := r.db.ExecContext(ctx, query, projectID, meta.Title, meta.Difficulty, meta.Template, string(topicsJSON), nowUTC()); err != nil {
		return fmt.Errorf("saving course metadata: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) GetMetadata(ctx context.Context, projectID string) (*domain.CourseMetadata, error) {
	var meta domain.CourseMetadata
	var topicsJSON string
	err := r.db.QueryRowContext(ctx,
		`SELECT title, difficulty, template, topics FROM course_metadata WHERE project_id = ?`, projectID,
	).Scan(&meta.Title, &meta.Difficulty, &meta.Template, &topicsJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("course metadata for %s %w", projectID, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning course metadata: %w", err)
	}
	if err := json.Unmarshal([]byte(topicsJSON), &meta.Topics); err != nil {
		return nil, fmt.Errorf("decoding topics: %w", err)
	}
	return &meta, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var p domain.Project
	var step int
	var visited, createdAtStr, updatedAtStr string

	if err := row.Scan(&p.ID, &p.Name, &step, &visited, &createdAtStr, &updatedAtStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning project: %w", err)
	}

	p.CurrentStep = domain.Step(step)
	p.VisitedSteps = domain.DecodeStepSet(visited)

	var parseErr error
	p.CreatedAt, parseErr = parseTime(createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	p.UpdatedAt, parseErr = parseTime(updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return &p, nil
}
