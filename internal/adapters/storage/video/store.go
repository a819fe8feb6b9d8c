package video

import (
	"context"

	domain "teamvideos/internal/domain/video"
)

// Store persists videos together with their subtitle languages.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Video, error)
	Save(ctx context.Context, value domain.Video) error
	Delete(ctx context.Context, id string) error
	// ListByTeam returns a team's videos in creation order.
	ListByTeam(ctx context.Context, teamID string) ([]domain.Video, error)
	// ListTeamVideos returns every video that belongs to some team, in creation order.
	ListTeamVideos(ctx context.Context) ([]domain.Video, error)
}
