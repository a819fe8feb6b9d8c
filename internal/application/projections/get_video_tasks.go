package projections

import (
	"context"
	"slices"

	"teamvideos/internal/application/videoquery"
	"teamvideos/internal/domain/access"
	domainTeam "teamvideos/internal/domain/team"
	domainVideo "teamvideos/internal/domain/video"
	domainWorkflow "teamvideos/internal/domain/workflow"
)

// Task kinds shown on the tasks page.
const (
	TaskTranscribe = "Transcribe"
	TaskTranslate  = "Translate"
)

// GetVideoTasksQuery carries query parameters for the tasks page.
type GetVideoTasksQuery struct {
	TeamSlug  string
	AccountID string
	VideoID   string
}

// VideoTask is one open subtitle task.
type VideoTask struct {
	Kind         string
	LanguageCode string
	LanguageName string
	InProgress   bool
}

// GetVideoTasksResult carries the query result.
type GetVideoTasksResult struct {
	Team  domainTeam.Team
	Video domainVideo.Video
	Tasks []VideoTask
}

// GetVideoTasksDeps holds dependencies for GetVideoTasks.
type GetVideoTasksDeps struct {
	TeamStore     TeamStore
	MemberStore   MemberStore
	VideoStore    VideoStore
	WorkflowStore WorkflowStore
}

// QueryGetVideoTasks lists the open tasks of one team video.
// PRE: the video belongs to the team (domainVideo.ErrNotInTeam otherwise)
// POST: access.ErrForbidden unless the viewer passes the task assign policy
// INVARIANT: tasks are in-progress tracks first, then preferred languages still needed
func QueryGetVideoTasks(ctx context.Context, query GetVideoTasksQuery, deps GetVideoTasksDeps) (GetVideoTasksResult, error) {
	t, err := deps.TeamStore.GetBySlug(ctx, query.TeamSlug)
	if err != nil {
		return GetVideoTasksResult{}, err
	}
	v, err := deps.VideoStore.GetByID(ctx, query.VideoID)
	if err != nil {
		return GetVideoTasksResult{}, err
	}
	if v.TeamID != t.ID {
		return GetVideoTasksResult{}, domainVideo.ErrNotInTeam
	}
	actor, err := ResolveActor(ctx, deps.MemberStore, t.ID, query.AccountID)
	if err != nil {
		return GetVideoTasksResult{}, err
	}
	if !access.CanSeeTasks(t, actor, v) {
		return GetVideoTasksResult{}, access.ErrForbidden
	}

	var preferred []string
	wf, err := deps.WorkflowStore.Get(ctx, t.ID)
	if err != nil {
		return GetVideoTasksResult{}, err
	}
	if wf != nil && wf.AutomaticTasks() {
		preferred = t.PreferredLanguages
	}
	return GetVideoTasksResult{Team: t, Video: v, Tasks: openTasks(v, preferred)}, nil
}

func openTasks(v domainVideo.Video, preferred []string) []VideoTask {
	kind := TaskTranslate
	if v.CompletedCount() == 0 {
		kind = TaskTranscribe
	}
	var tasks []VideoTask
	var seen []string
	for _, s := range v.Subtitles {
		if s.Complete {
			continue
		}
		seen = append(seen, s.Code)
		tasks = append(tasks, VideoTask{Kind: kind, LanguageCode: s.Code, LanguageName: videoquery.LanguageName(s.Code), InProgress: true})
	}
	for _, code := range domainWorkflow.NeededLanguages(v, preferred) {
		if slices.Contains(seen, code) {
			continue
		}
		tasks = append(tasks, VideoTask{Kind: kind, LanguageCode: code, LanguageName: videoquery.LanguageName(code)})
	}
	return tasks
}
