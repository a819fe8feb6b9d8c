package team

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"teamvideos/internal/adapters/storage"
	domain "teamvideos/internal/domain/team"
)

const teamColumns = "id, slug, name, membership_policy, video_policy, task_assign_policy, workflow_enabled"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new TeamStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Team by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping domain.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Team, error) {
	return s.get(ctx, "SELECT "+teamColumns+" FROM team WHERE id = ?", id)
}

// GetBySlug retrieves a Team by its URL slug.
// PRE: slug is non-empty
// POST: Returns the entity or an error wrapping domain.ErrNotFound
func (s *SQLiteStore) GetBySlug(ctx context.Context, slug string) (domain.Team, error) {
	return s.get(ctx, "SELECT "+teamColumns+" FROM team WHERE slug = ?", slug)
}

func (s *SQLiteStore) get(ctx context.Context, query string, arg string) (domain.Team, error) {
	entity, err := scanTeam(s.db.QueryRowContext(ctx, query, arg).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Team{}, fmt.Errorf("%w: %s", domain.ErrNotFound, arg)
	}
	if err != nil {
		return domain.Team{}, err
	}
	entity.PreferredLanguages, err = s.preferredLanguages(ctx, entity.ID)
	return entity, err
}

func (s *SQLiteStore) preferredLanguages(ctx context.Context, teamID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT language_code FROM team_language_preference WHERE team_id = ? ORDER BY position", teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

// Save persists a Team and replaces its preferred languages.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update) in one transaction
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Team) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO team (`+teamColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			slug=excluded.slug,
			name=excluded.name,
			membership_policy=excluded.membership_policy,
			video_policy=excluded.video_policy,
			task_assign_policy=excluded.task_assign_policy,
			workflow_enabled=excluded.workflow_enabled`,
		entity.ID,
		entity.Slug,
		entity.Name,
		string(entity.MembershipPolicy),
		string(entity.VideoPolicy),
		string(entity.TaskAssignPolicy),
		entity.WorkflowEnabled,
	)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM team_language_preference WHERE team_id = ?", entity.ID); err != nil {
		return err
	}
	for i, code := range entity.PreferredLanguages {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO team_language_preference (team_id, language_code, position) VALUES (?, ?, ?)",
			entity.ID, code, i); err != nil {
			return fmt.Errorf("preferred language %q: %w", code, err)
		}
	}
	return tx.Commit()
}

// List returns all teams ordered by name.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Team, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+teamColumns+" FROM team ORDER BY name")
	if err != nil {
		return nil, err
	}
	var results []domain.Team
	for rows.Next() {
		entity, err := scanTeam(rows.Scan)
		if err != nil {
			rows.Close()
			return nil, err
		}
		results = append(results, entity)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Loaded after the cursor is closed; test databases run on a single connection.
	for i := range results {
		if results[i].PreferredLanguages, err = s.preferredLanguages(ctx, results[i].ID); err != nil {
			return nil, err
		}
	}
	return results, nil
}

// scanTeam extracts a Team from a row scanner function.
// Stored policy values are validated so a corrupted row fails loudly.
func scanTeam(scan func(dest ...any) error) (domain.Team, error) {
	var entity domain.Team
	var membership, videoPolicy, taskPolicy string
	err := scan(
		&entity.ID,
		&entity.Slug,
		&entity.Name,
		&membership,
		&videoPolicy,
		&taskPolicy,
		&entity.WorkflowEnabled,
	)
	if err != nil {
		return domain.Team{}, err
	}
	entity.MembershipPolicy = domain.MembershipPolicy(membership)
	entity.VideoPolicy = domain.Policy(videoPolicy)
	entity.TaskAssignPolicy = domain.Policy(taskPolicy)
	if err := entity.Validate(); err != nil {
		return domain.Team{}, fmt.Errorf("team %s: %w", entity.ID, err)
	}
	return entity, nil
}
