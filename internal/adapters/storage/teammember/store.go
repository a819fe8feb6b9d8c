package teammember

import (
	"context"

	domain "teamvideos/internal/domain/teammember"
)

// Store persists team memberships and manager language restrictions.
type Store interface {
	Get(ctx context.Context, teamID, accountID string) (domain.Member, error)
	Save(ctx context.Context, value domain.Member) error
	Delete(ctx context.Context, id string) error
	ListByTeam(ctx context.Context, teamID string) ([]domain.Member, error)
}
