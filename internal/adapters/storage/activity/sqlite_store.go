package activity

import (
	"context"
	"database/sql"
	"fmt"

	"teamvideos/internal/adapters/storage"
	domain "teamvideos/internal/domain/activity"
)

const eventColumns = `id, team_id, timestamp, action, actor, resource_type, resource_id, description`

// SQLiteStore implements the activity Store interface using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new activity store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Save persists an activity event.
// PRE: event validates
// POST: event is persisted
func (s *SQLiteStore) Save(ctx context.Context, e domain.Event) error {
	if err := e.Validate(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO team_activity (`+eventColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.TeamID, storage.FormatTime(e.Timestamp), string(e.Action), e.Actor,
		e.ResourceType, e.ResourceID, e.Description)
	if err != nil {
		return fmt.Errorf("save activity: %w", err)
	}
	return nil
}

// ListByTeam returns the newest events of a team.
// PRE: limit > 0
// POST: events ordered by timestamp desc, at most limit
func (s *SQLiteStore) ListByTeam(ctx context.Context, teamID string, limit int) ([]domain.Event, error) {
	if limit <= 0 {
		return nil, domain.ErrInvalidPageSize
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM team_activity WHERE team_id = ? ORDER BY timestamp DESC, id LIMIT ?`,
		teamID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func scanEvent(rows *sql.Rows) (domain.Event, error) {
	var e domain.Event
	var ts, action string
	if err := rows.Scan(&e.ID, &e.TeamID, &ts, &action, &e.Actor, &e.ResourceType, &e.ResourceID, &e.Description); err != nil {
		return domain.Event{}, err
	}
	e.Action = domain.Action(action)
	var err error
	if e.Timestamp, err = storage.ParseTime(ts); err != nil {
		return domain.Event{}, fmt.Errorf("activity %s: bad timestamp: %w", e.ID, err)
	}
	return e, nil
}
