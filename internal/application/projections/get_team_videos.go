package projections

import (
	"context"
	"errors"
	"fmt"
	"time"

	"teamvideos/internal/application/listutil"
	"teamvideos/internal/application/videoquery"
	"teamvideos/internal/domain/access"
	domainProject "teamvideos/internal/domain/project"
	domainTeam "teamvideos/internal/domain/team"
	domainVideo "teamvideos/internal/domain/video"
	domainWorkflow "teamvideos/internal/domain/workflow"
)

// GetTeamVideosQuery carries query parameters for the team videos page.
// Filter.Project holds a project slug, or videoquery.ProjectNone.
type GetTeamVideosQuery struct {
	TeamSlug      string
	AccountID     string
	Filter        videoquery.Query
	Page          int
	Mode          listutil.PagingMode
	ElevatedRoles []string
}

// TeamVideoRow is one row of the listing with its guarded affordances.
type TeamVideoRow struct {
	ID            string
	Title         string
	Description   string
	URL           string
	CreatedAt     time.Time
	ProjectSlug   string
	ProjectName   string
	SubtitleCount int
	LanguageLabel string
	ShowEdit      bool
	ShowTasks     bool
}

// GetTeamVideosResult carries the query result.
type GetTeamVideosResult struct {
	Team            domainTeam.Team
	Actor           access.Actor
	Query           videoquery.Query
	Rows            []TeamVideoRow
	Page            listutil.PageInfo
	NoVideos        bool
	NoVideosText    string
	Projects        []domainProject.Project
	LanguageOptions []videoquery.LanguageOption
	CanManagePolicy bool
	CanAddVideo     bool
}

// GetTeamVideosDeps holds dependencies for GetTeamVideos.
type GetTeamVideosDeps struct {
	TeamStore     TeamStore
	MemberStore   MemberStore
	ProjectStore  ProjectStore
	WorkflowStore WorkflowStore
	Searcher      Searcher
}

// QueryGetTeamVideos builds the team videos page for one viewer.
// PRE: TeamSlug names an existing team (domainTeam.ErrNotFound otherwise)
// POST: Rows hold the requested page; Edit/Tasks are evaluated per row against
// the team's current policies
// INVARIANT: an unknown project slug is an empty listing, not an error
func QueryGetTeamVideos(ctx context.Context, query GetTeamVideosQuery, deps GetTeamVideosDeps) (GetTeamVideosResult, error) {
	t, err := deps.TeamStore.GetBySlug(ctx, query.TeamSlug)
	if err != nil {
		return GetTeamVideosResult{}, err
	}
	actor, err := ResolveActor(ctx, deps.MemberStore, t.ID, query.AccountID)
	if err != nil {
		return GetTeamVideosResult{}, fmt.Errorf("resolve actor: %w", err)
	}
	projects, err := deps.ProjectStore.ListByTeam(ctx, t.ID)
	if err != nil {
		return GetTeamVideosResult{}, fmt.Errorf("list projects: %w", err)
	}
	wf, err := deps.WorkflowStore.Get(ctx, t.ID)
	if err != nil {
		return GetTeamVideosResult{}, fmt.Errorf("load workflow: %w", err)
	}

	result := GetTeamVideosResult{
		Team:            t,
		Actor:           actor,
		Query:           query.Filter,
		Projects:        projects,
		NoVideosText:    videoquery.NoVideosText,
		CanManagePolicy: access.CanManagePolicy(actor),
		CanAddVideo:     access.CanAddVideo(t, actor),
	}
	result.LanguageOptions = videoquery.LanguageOptions(deps.Searcher.Search(t.ID, videoquery.Query{}).Videos)

	resolved := query.Filter
	var matched []domainVideo.Video
	projectKnown := true
	if slug := resolved.Project; slug != "" && slug != videoquery.ProjectNone {
		p, err := deps.ProjectStore.GetBySlug(ctx, t.ID, slug)
		switch {
		case errors.Is(err, domainProject.ErrNotFound):
			projectKnown = false
		case err != nil:
			return GetTeamVideosResult{}, fmt.Errorf("load project: %w", err)
		default:
			resolved.Project = p.ID
		}
	}
	if projectKnown {
		matched = deps.Searcher.Search(t.ID, resolved).Videos
	}

	perPage := listutil.PageSize(string(actor.Role), query.Mode, query.ElevatedRoles)
	result.Page = listutil.NewPageInfo(query.Page, perPage, len(matched))
	result.NoVideos = len(matched) == 0

	byID := make(map[string]domainProject.Project, len(projects))
	for _, p := range projects {
		byID[p.ID] = p
	}
	for _, v := range listutil.Slice(matched, result.Page) {
		result.Rows = append(result.Rows, buildRow(t, actor, wf, byID, v))
	}
	return result, nil
}

func buildRow(t domainTeam.Team, actor access.Actor, wf *domainWorkflow.Workflow, projects map[string]domainProject.Project, v domainVideo.Video) TeamVideoRow {
	aff := access.Evaluate(t, actor, v)
	row := TeamVideoRow{
		ID:            v.ID,
		Title:         v.Title,
		Description:   v.Description,
		URL:           v.URL,
		CreatedAt:     v.CreatedAt,
		SubtitleCount: v.SubtitleCount(),
		LanguageLabel: domainWorkflow.LanguageLabel(v, wf, t.PreferredLanguages),
		ShowEdit:      aff.Edit,
		ShowTasks:     aff.Tasks,
	}
	if p, ok := projects[v.ProjectID]; ok {
		row.ProjectSlug = p.Slug
		row.ProjectName = p.Name
	}
	return row
}
