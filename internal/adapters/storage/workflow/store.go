package workflow

import (
	"context"

	domain "teamvideos/internal/domain/workflow"
)

// Store persists team workflows. A team without a row has no automatic tasks.
type Store interface {
	Get(ctx context.Context, teamID string) (*domain.Workflow, error)
	Save(ctx context.Context, value domain.Workflow) error
}
