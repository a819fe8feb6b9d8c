package project

import (
	"context"
	"database/sql"
	"errors"

	"teamvideos/internal/adapters/storage"
	domain "teamvideos/internal/domain/project"
)

const projectColumns = "id, team_id, name, slug, description, workflow_enabled"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new ProjectStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Project by its ID.
// PRE: id is non-empty
// POST: Returns the entity or domain.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Project, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+projectColumns+" FROM project WHERE id = ?", id)
	return getProject(row)
}

// GetBySlug retrieves a team's Project by slug.
// PRE: teamID and slug are non-empty
// POST: Returns the entity or domain.ErrNotFound
func (s *SQLiteStore) GetBySlug(ctx context.Context, teamID, slug string) (domain.Project, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+projectColumns+" FROM project WHERE team_id = ? AND slug = ?", teamID, slug)
	return getProject(row)
}

func getProject(row *sql.Row) (domain.Project, error) {
	var p domain.Project
	err := row.Scan(&p.ID, &p.TeamID, &p.Name, &p.Slug, &p.Description, &p.WorkflowEnabled)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Project{}, domain.ErrNotFound
	}
	return p, err
}

// Save persists a Project to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Project) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO project (`+projectColumns+`) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name,
			slug=excluded.slug,
			description=excluded.description,
			workflow_enabled=excluded.workflow_enabled`,
		entity.ID, entity.TeamID, entity.Name, entity.Slug, entity.Description, entity.WorkflowEnabled)
	return err
}

// ListByTeam returns a team's projects ordered by name.
func (s *SQLiteStore) ListByTeam(ctx context.Context, teamID string) ([]domain.Project, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+projectColumns+" FROM project WHERE team_id = ? ORDER BY name", teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Project
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.TeamID, &p.Name, &p.Slug, &p.Description, &p.WorkflowEnabled); err != nil {
			return nil, err
		}
		results = append(results, p)
	}
	return results, rows.Err()
}
