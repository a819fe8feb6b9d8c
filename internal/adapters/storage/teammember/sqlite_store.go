package teammember

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"teamvideos/internal/adapters/storage"
	domain "teamvideos/internal/domain/teammember"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new TeamMemberStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Get retrieves the membership of an account in a team.
// PRE: teamID and accountID are non-empty
// POST: Returns the entity with restricted languages, or an error wrapping domain.ErrNotFound
func (s *SQLiteStore) Get(ctx context.Context, teamID, accountID string) (domain.Member, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, team_id, account_id, role FROM team_member WHERE team_id = ? AND account_id = ?",
		teamID, accountID)
	entity, err := scanMember(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Member{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Member{}, err
	}
	entity.RestrictedLanguages, err = s.languages(ctx, entity.ID)
	return entity, err
}

func (s *SQLiteStore) languages(ctx context.Context, memberID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT language_code FROM team_manager_language WHERE member_id = ? ORDER BY language_code", memberID)
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

// Save persists a membership and replaces its restricted languages.
// PRE: entity has been validated
// POST: Entity is persisted; a second membership for the same (team, account) fails
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Member) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO team_member (id, team_id, account_id, role) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET role=excluded.role`,
		entity.ID, entity.TeamID, entity.AccountID, string(entity.Role))
	if err != nil {
		return fmt.Errorf("save team member: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM team_manager_language WHERE member_id = ?", entity.ID); err != nil {
		return err
	}
	for _, code := range entity.RestrictedLanguages {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO team_manager_language (member_id, language_code) VALUES (?, ?)",
			entity.ID, code); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Delete removes a membership and its language restrictions.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, "DELETE FROM team_manager_language WHERE member_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM team_member WHERE id = ?", id); err != nil {
		return err
	}
	return tx.Commit()
}

// ListByTeam returns a team's memberships.
func (s *SQLiteStore) ListByTeam(ctx context.Context, teamID string) ([]domain.Member, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, team_id, account_id, role FROM team_member WHERE team_id = ? ORDER BY rowid", teamID)
	if err != nil {
		return nil, err
	}
	var results []domain.Member
	for rows.Next() {
		entity, err := scanMember(rows.Scan)
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
	for i := range results {
		if results[i].RestrictedLanguages, err = s.languages(ctx, results[i].ID); err != nil {
			return nil, err
		}
	}
	return results, nil
}

func scanMember(scan func(dest ...any) error) (domain.Member, error) {
	var entity domain.Member
	var role string
	if err := scan(&entity.ID, &entity.TeamID, &entity.AccountID, &role); err != nil {
		return domain.Member{}, err
	}
	r, err := domain.ParseRole(role)
	if err != nil {
		return domain.Member{}, fmt.Errorf("team member %s: %w", entity.ID, err)
	}
	entity.Role = r
	return entity, nil
}
