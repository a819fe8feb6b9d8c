package project

import (
	"context"

	domain "teamvideos/internal/domain/project"
)

// Store persists Project state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Project, error)
	GetBySlug(ctx context.Context, teamID, slug string) (domain.Project, error)
	Save(ctx context.Context, value domain.Project) error
	ListByTeam(ctx context.Context, teamID string) ([]domain.Project, error)
}
