package activity

import (
	"context"

	domain "teamvideos/internal/domain/activity"
)

// Store defines the interface for team activity persistence.
type Store interface {
	// Save persists an activity event.
	// PRE: event validates
	// POST: event is persisted
	Save(ctx context.Context, event domain.Event) error

	// ListByTeam returns the newest events of a team.
	// PRE: limit > 0
	// POST: events ordered by timestamp desc, at most limit
	ListByTeam(ctx context.Context, teamID string, limit int) ([]domain.Event, error)
}
