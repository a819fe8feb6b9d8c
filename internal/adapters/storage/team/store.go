package team

import (
	"context"

	domain "teamvideos/internal/domain/team"
)

// Store persists Team state, including preferred languages.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Team, error)
	GetBySlug(ctx context.Context, slug string) (domain.Team, error)
	Save(ctx context.Context, value domain.Team) error
	List(ctx context.Context) ([]domain.Team, error)
}
