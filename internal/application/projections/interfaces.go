package projections

import (
	"context"

	"teamvideos/internal/application/videoquery"
	domainProject "teamvideos/internal/domain/project"
	domainTeam "teamvideos/internal/domain/team"
	domainMember "teamvideos/internal/domain/teammember"
	domainVideo "teamvideos/internal/domain/video"
	domainWorkflow "teamvideos/internal/domain/workflow"
)

// TeamStore interface for team queries.
type TeamStore interface {
	GetBySlug(ctx context.Context, slug string) (domainTeam.Team, error)
}

// MemberStore interface for membership lookups.
type MemberStore interface {
	Get(ctx context.Context, teamID, accountID string) (domainMember.Member, error)
}

// ProjectStore interface for project queries.
type ProjectStore interface {
	GetBySlug(ctx context.Context, teamID, slug string) (domainProject.Project, error)
	ListByTeam(ctx context.Context, teamID string) ([]domainProject.Project, error)
}

// WorkflowStore interface for workflow queries.
type WorkflowStore interface {
	Get(ctx context.Context, teamID string) (*domainWorkflow.Workflow, error)
}

// VideoStore interface for single-video reads that must not be stale.
type VideoStore interface {
	GetByID(ctx context.Context, id string) (domainVideo.Video, error)
}

// Searcher resolves a query against a team's indexed videos. Results may lag
// the stores until the index is refreshed.
type Searcher interface {
	Search(teamID string, q videoquery.Query) videoquery.Result
}
