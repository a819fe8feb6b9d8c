package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"teamvideos/internal/domain/access"
	"teamvideos/internal/domain/activity"
	"teamvideos/internal/domain/project"
	"teamvideos/internal/domain/team"
	"teamvideos/internal/domain/video"
)

// VideoStoreForOrchestrator defines the video store interface needed by video orchestrators.
type VideoStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (video.Video, error)
	Save(ctx context.Context, v video.Video) error
}

// ProjectStoreForOrchestrator defines the project store interface needed by video and project orchestrators.
type ProjectStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (project.Project, error)
	GetBySlug(ctx context.Context, teamID, slug string) (project.Project, error)
	Save(ctx context.Context, p project.Project) error
}

// --- Create Project ---

// CreateProjectInput carries input for CreateProject. An empty slug is derived from the name.
type CreateProjectInput struct {
	TeamID          string
	Name            string
	Slug            string
	Description     string
	WorkflowEnabled bool
}

// CreateProjectDeps holds dependencies for CreateProject.
type CreateProjectDeps struct {
	ProjectStore ProjectStoreForOrchestrator
	GenerateID   func() string
}

var ErrProjectSlugTaken = errors.New("a project with this slug already exists in the team")

// ExecuteCreateProject creates a project within a team.
// PRE: TeamID refers to an existing team
// POST: Project persisted
// INVARIANT: slug unique within the team
func ExecuteCreateProject(ctx context.Context, input CreateProjectInput, deps CreateProjectDeps) (project.Project, error) {
	p := project.Project{
		ID:              deps.GenerateID(),
		TeamID:          input.TeamID,
		Name:            strings.TrimSpace(input.Name),
		Slug:            input.Slug,
		Description:     input.Description,
		WorkflowEnabled: input.WorkflowEnabled,
	}
	if p.Slug == "" {
		p.Slug = project.Slugify(p.Name)
	}
	if err := p.Validate(); err != nil {
		return project.Project{}, err
	}
	if _, err := deps.ProjectStore.GetBySlug(ctx, p.TeamID, p.Slug); err == nil {
		return project.Project{}, ErrProjectSlugTaken
	} else if !errors.Is(err, project.ErrNotFound) {
		return project.Project{}, err
	}
	if err := deps.ProjectStore.Save(ctx, p); err != nil {
		return project.Project{}, err
	}
	slog.Info("team_event", "event", "project_created", "team_id", p.TeamID, "project", p.Slug)
	return p, nil
}

// --- Add Team Video ---

// AddTeamVideoInput carries input for AddTeamVideo. ActorName is recorded in
// the team activity log; callers check access.CanAddVideo first.
type AddTeamVideoInput struct {
	TeamID      string
	ProjectID   string
	ActorName   string
	Title       string
	Description string
	URL         string
	Subtitles   []video.SubtitleLanguage
}

// AddTeamVideoDeps holds dependencies for AddTeamVideo.
type AddTeamVideoDeps struct {
	VideoStore   VideoStoreForOrchestrator
	ProjectStore ProjectStoreForOrchestrator
	Activity     ActivityRecorder
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteAddTeamVideo creates a video in a team and, optionally, a project of that team.
// PRE: TeamID refers to an existing team
// POST: Video persisted; it reaches search results after the next index refresh
func ExecuteAddTeamVideo(ctx context.Context, input AddTeamVideoInput, deps AddTeamVideoDeps) (video.Video, error) {
	v := video.Video{
		ID:          deps.GenerateID(),
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		URL:         input.URL,
		CreatedAt:   nowOr(deps.Now),
		TeamID:      input.TeamID,
	}
	for _, s := range input.Subtitles {
		if err := v.PutSubtitle(s); err != nil {
			return video.Video{}, err
		}
	}
	if input.ProjectID != "" {
		if err := checkProjectInTeam(ctx, deps.ProjectStore, input.ProjectID, input.TeamID); err != nil {
			return video.Video{}, err
		}
		v.ProjectID = input.ProjectID
	}
	if err := v.Validate(); err != nil {
		return video.Video{}, err
	}
	if err := deps.VideoStore.Save(ctx, v); err != nil {
		return video.Video{}, err
	}
	recordActivity(ctx, deps.Activity, activity.NewEvent(v.TeamID, input.ActorName, activity.ActionVideoAdded, nowOr(deps.Now)).
		WithResource(activity.ResourceVideo, v.ID).
		WithDescription(v.Title))
	slog.Info("video_event", "event", "video_added", "team_id", v.TeamID, "video_id", v.ID, "project_id", v.ProjectID)
	return v, nil
}

func checkProjectInTeam(ctx context.Context, store ProjectStoreForOrchestrator, projectID, teamID string) error {
	p, err := store.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if p.TeamID != teamID {
		return project.ErrNotFound
	}
	return nil
}

// --- Update Video ---

// UpdateVideoInput carries an edit of video metadata. Nil fields are unchanged.
type UpdateVideoInput struct {
	VideoID     string
	Actor       access.Actor
	ActorName   string
	Title       *string
	Description *string
}

// UpdateVideoDeps holds dependencies for UpdateVideo.
type UpdateVideoDeps struct {
	VideoStore VideoStoreForOrchestrator
	TeamStore  TeamStoreForOrchestrator
	Activity   ActivityRecorder
	Now        func() time.Time
}

// ExecuteUpdateVideo edits a team video's title and description.
// PRE: the video belongs to a team
// POST: changes persisted; the actor must pass the team's video policy (ErrForbidden)
func ExecuteUpdateVideo(ctx context.Context, input UpdateVideoInput, deps UpdateVideoDeps) (video.Video, error) {
	v, t, err := loadTeamVideo(ctx, input.VideoID, deps.VideoStore, deps.TeamStore)
	if err != nil {
		return video.Video{}, err
	}
	if !access.CanSeeEdit(t, input.Actor, v) {
		return video.Video{}, ErrForbidden
	}
	if input.Title != nil {
		v.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		v.Description = *input.Description
	}
	if err := v.Validate(); err != nil {
		return video.Video{}, err
	}
	if err := deps.VideoStore.Save(ctx, v); err != nil {
		return video.Video{}, err
	}
	recordActivity(ctx, deps.Activity, activity.NewEvent(t.ID, input.ActorName, activity.ActionVideoUpdated, nowOr(deps.Now)).
		WithResource(activity.ResourceVideo, v.ID).
		WithDescription(v.Title))
	slog.Info("video_event", "event", "video_updated", "team", t.Slug, "video_id", v.ID)
	return v, nil
}

func loadTeamVideo(ctx context.Context, videoID string, videos VideoStoreForOrchestrator, teams TeamStoreForOrchestrator) (video.Video, team.Team, error) {
	v, err := videos.GetByID(ctx, videoID)
	if err != nil {
		return video.Video{}, team.Team{}, err
	}
	if v.TeamID == "" {
		return video.Video{}, team.Team{}, video.ErrNotInTeam
	}
	t, err := teams.GetByID(ctx, v.TeamID)
	if err != nil {
		return video.Video{}, team.Team{}, err
	}
	return v, t, nil
}

// --- Move Video To Project ---

// MoveVideoInput carries a project change for one video. An empty ProjectID
// takes the video out of any project.
type MoveVideoInput struct {
	VideoID   string
	ProjectID string
	Actor     access.Actor
	ActorName string
}

// RemoveVideoInput identifies the video to take off its team.
type RemoveVideoInput struct {
	VideoID   string
	Actor     access.Actor
	ActorName string
}

// MoveVideoDeps holds dependencies for MoveVideoToProject and RemoveTeamVideo.
type MoveVideoDeps struct {
	VideoStore   VideoStoreForOrchestrator
	TeamStore    TeamStoreForOrchestrator
	ProjectStore ProjectStoreForOrchestrator
	Activity     ActivityRecorder
	Now          func() time.Time
}

// ExecuteMoveVideoToProject moves a team video into another project of the same
// team, or out of any project when ProjectID is empty.
// PRE: Actor passes the team's video policy
// POST: ProjectID updated
func ExecuteMoveVideoToProject(ctx context.Context, input MoveVideoInput, deps MoveVideoDeps) (video.Video, error) {
	v, t, err := loadTeamVideo(ctx, input.VideoID, deps.VideoStore, deps.TeamStore)
	if err != nil {
		return video.Video{}, err
	}
	if !access.CanSeeEdit(t, input.Actor, v) {
		return video.Video{}, ErrForbidden
	}
	if input.ProjectID != "" {
		if err := checkProjectInTeam(ctx, deps.ProjectStore, input.ProjectID, t.ID); err != nil {
			return video.Video{}, err
		}
	}
	if err := v.MoveToProject(input.ProjectID); err != nil {
		return video.Video{}, err
	}
	if err := deps.VideoStore.Save(ctx, v); err != nil {
		return video.Video{}, err
	}
	recordActivity(ctx, deps.Activity, activity.NewEvent(t.ID, input.ActorName, activity.ActionVideoMoved, nowOr(deps.Now)).
		WithResource(activity.ResourceVideo, v.ID).
		WithDescription(input.ProjectID))
	slog.Info("video_event", "event", "video_moved", "team", t.Slug, "video_id", v.ID, "project_id", input.ProjectID)
	return v, nil
}

// ExecuteRemoveTeamVideo detaches a video from its team and project. The
// video itself is kept.
// PRE: Actor passes the team's video policy
// POST: video no longer listed for the team after the next index refresh
func ExecuteRemoveTeamVideo(ctx context.Context, input RemoveVideoInput, deps MoveVideoDeps) error {
	v, t, err := loadTeamVideo(ctx, input.VideoID, deps.VideoStore, deps.TeamStore)
	if err != nil {
		return err
	}
	if !access.CanSeeEdit(t, input.Actor, v) {
		return ErrForbidden
	}
	v.RemoveFromTeam()
	if err := deps.VideoStore.Save(ctx, v); err != nil {
		return err
	}
	recordActivity(ctx, deps.Activity, activity.NewEvent(t.ID, input.ActorName, activity.ActionVideoRemoved, nowOr(deps.Now)).
		WithResource(activity.ResourceVideo, v.ID).
		WithDescription(v.Title))
	slog.Info("video_event", "event", "video_removed", "team", t.Slug, "video_id", v.ID)
	return nil
}
