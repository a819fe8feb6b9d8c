package workflow

import (
	"context"
	"database/sql"
	"errors"

	"teamvideos/internal/adapters/storage"
	domain "teamvideos/internal/domain/workflow"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new WorkflowStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Get returns the team's workflow.
// POST: Returns (nil, nil) when the team has no workflow
func (s *SQLiteStore) Get(ctx context.Context, teamID string) (*domain.Workflow, error) {
	var wf domain.Workflow
	err := s.db.QueryRowContext(ctx,
		"SELECT team_id, autocreate_subtitle, autocreate_translate, review_allowed FROM workflow WHERE team_id = ?",
		teamID).Scan(&wf.TeamID, &wf.AutocreateSubtitle, &wf.AutocreateTranslate, &wf.ReviewAllowed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &wf, nil
}

// Save persists a workflow.
// PRE: entity has been validated
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Workflow) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO workflow (team_id, autocreate_subtitle, autocreate_translate, review_allowed)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(team_id) DO UPDATE SET
			autocreate_subtitle=excluded.autocreate_subtitle,
			autocreate_translate=excluded.autocreate_translate,
			review_allowed=excluded.review_allowed`,
		entity.TeamID, entity.AutocreateSubtitle, entity.AutocreateTranslate, entity.ReviewAllowed)
	return err
}
