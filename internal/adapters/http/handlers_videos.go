package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"teamvideos/internal/adapters/http/middleware"
	"teamvideos/internal/application/listutil"
	"teamvideos/internal/application/orchestrators"
	"teamvideos/internal/application/projections"
	"teamvideos/internal/application/videoquery"
	"teamvideos/internal/domain/access"
	domainActivity "teamvideos/internal/domain/activity"
	domainProject "teamvideos/internal/domain/project"
	domainTeam "teamvideos/internal/domain/team"
	domainVideo "teamvideos/internal/domain/video"
)

// activityRecorder returns the configured activity store, or nil so the
// orchestrators skip recording.
func activityRecorder() orchestrators.ActivityRecorder {
	if stores.ActivityStore == nil {
		return nil
	}
	return stores.ActivityStore
}

func updateVideoDeps() orchestrators.UpdateVideoDeps {
	return orchestrators.UpdateVideoDeps{
		VideoStore: stores.VideoStore,
		TeamStore:  stores.TeamStore,
		Activity:   activityRecorder(),
	}
}

func teamVideosDeps() projections.GetTeamVideosDeps {
	return projections.GetTeamVideosDeps{
		TeamStore:     stores.TeamStore,
		MemberStore:   stores.MemberStore,
		ProjectStore:  stores.ProjectStore,
		WorkflowStore: stores.WorkflowStore,
		Searcher:      videoIndex,
	}
}

// pageLink is one numbered link of the pager.
type pageLink struct {
	Number  int
	URL     template.URL
	Current bool
}

// teamVideosPage is the template data of team_videos.html.
type teamVideosPage struct {
	projections.GetTeamVideosResult
	FiltersOpen    bool
	SortOptions    []sortOption
	SelectedLang   string
	SelectedAbsent string
	PrevURL        template.URL
	NextURL        template.URL
	PageLinks      []pageLink
}

type sortOption struct {
	Key      string
	Label    string
	Selected bool
}

// teamVideosJSON is the JSON shape of a team video listing.
type teamVideosJSON struct {
	Team       string         `json:"team"`
	Videos     []videoRowJSON `json:"videos"`
	Page       int            `json:"page"`
	PerPage    int            `json:"per_page"`
	Total      int            `json:"total"`
	TotalPages int            `json:"total_pages"`
	Message    string         `json:"message,omitempty"`
}

type videoRowJSON struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	URL           string    `json:"url"`
	CreatedAt     time.Time `json:"created_at"`
	Project       string    `json:"project,omitempty"`
	SubtitleCount int       `json:"subtitle_count"`
	LanguageLabel string    `json:"language_label,omitempty"`
	Edit          bool      `json:"edit"`
	Tasks         bool      `json:"tasks"`
}

// handleTeamVideos handles GET /teams/{slug}/videos
func handleTeamVideos(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	result, err := projections.QueryGetTeamVideos(r.Context(), projections.GetTeamVideosQuery{
		TeamSlug:      r.PathValue("slug"),
		AccountID:     middleware.AccountID(r.Context()),
		Filter:        videoquery.ParseQuery(values),
		Page:          listutil.ParsePage(values),
		Mode:          listutil.ParseMode(values),
		ElevatedRoles: elevatedRoles,
	}, teamVideosDeps())
	if errors.Is(err, domainTeam.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}

	if !isHTMLRequest(r) {
		out := teamVideosJSON{
			Team:       result.Team.Slug,
			Videos:     make([]videoRowJSON, 0, len(result.Rows)),
			Page:       result.Page.Page,
			PerPage:    result.Page.PerPage,
			Total:      result.Page.Total,
			TotalPages: result.Page.TotalPages,
		}
		if result.NoVideos {
			out.Message = result.NoVideosText
		}
		for _, row := range result.Rows {
			out.Videos = append(out.Videos, videoRowJSON{
				ID:            row.ID,
				Title:         row.Title,
				URL:           row.URL,
				CreatedAt:     row.CreatedAt,
				Project:       row.ProjectSlug,
				SubtitleCount: row.SubtitleCount,
				LanguageLabel: row.LanguageLabel,
				Edit:          row.ShowEdit,
				Tasks:         row.ShowTasks,
			})
		}
		writeJSON(w, http.StatusOK, out)
		return
	}

	page := teamVideosPage{
		GetTeamVideosResult: result,
		FiltersOpen:         listutil.ParseMode(values) == listutil.ModeFiltersOpen,
	}
	for _, lf := range result.Query.Languages {
		if lf.Polarity == videoquery.Missing {
			page.SelectedAbsent = lf.Code
		} else {
			page.SelectedLang = lf.Code
		}
	}
	sortKey := result.Query.Sort
	if sortKey == "" {
		sortKey = videoquery.DefaultSort
	}
	for _, opt := range videoquery.SortOptions {
		page.SortOptions = append(page.SortOptions, sortOption{
			Key: string(opt.Key), Label: opt.Label, Selected: opt.Key == sortKey,
		})
	}
	pageURL := func(n int) template.URL {
		v := result.Query.Values()
		if page.FiltersOpen {
			v.Set(listutil.ParamFilters, "open")
		}
		if n > 1 {
			v.Set(listutil.ParamPage, strconv.Itoa(n))
		}
		return template.URL("?" + v.Encode())
	}
	if result.Page.HasPrev() {
		page.PrevURL = pageURL(result.Page.Page - 1)
	}
	if result.Page.HasNext() {
		page.NextURL = pageURL(result.Page.Page + 1)
	}
	for _, n := range result.Page.PageNumbers() {
		page.PageLinks = append(page.PageLinks, pageLink{Number: n, URL: pageURL(n), Current: n == result.Page.Page})
	}
	renderTemplate(w, r, "team_videos.html", page)
}

// handleTeamTasks handles GET /teams/{slug}/tasks?video={id}
func handleTeamTasks(w http.ResponseWriter, r *http.Request) {
	videoID := r.URL.Query().Get("video")
	if videoID == "" {
		http.Error(w, "video is required", http.StatusBadRequest)
		return
	}
	result, err := projections.QueryGetVideoTasks(r.Context(), projections.GetVideoTasksQuery{
		TeamSlug:  r.PathValue("slug"),
		AccountID: middleware.AccountID(r.Context()),
		VideoID:   videoID,
	}, projections.GetVideoTasksDeps{
		TeamStore:     stores.TeamStore,
		MemberStore:   stores.MemberStore,
		VideoStore:    stores.VideoStore,
		WorkflowStore: stores.WorkflowStore,
	})
	switch {
	case errors.Is(err, domainTeam.ErrNotFound), errors.Is(err, domainVideo.ErrNotFound), errors.Is(err, domainVideo.ErrNotInTeam):
		http.NotFound(w, r)
		return
	case errors.Is(err, access.ErrForbidden):
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	case err != nil:
		internalError(w, err)
		return
	}

	if isHTMLRequest(r) {
		renderTemplate(w, r, "video_tasks.html", result)
		return
	}
	type taskJSON struct {
		Kind       string `json:"kind"`
		Language   string `json:"language"`
		InProgress bool   `json:"in_progress"`
	}
	tasks := make([]taskJSON, 0, len(result.Tasks))
	for _, t := range result.Tasks {
		tasks = append(tasks, taskJSON{Kind: t.Kind, Language: t.LanguageCode, InProgress: t.InProgress})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"team":  result.Team.Slug,
		"video": result.Video.ID,
		"tasks": tasks,
	})
}

// updateVideoRequest is the body of PUT /api/videos/{id}. Omitted fields are unchanged.
type updateVideoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// handleUpdateVideo handles PUT /api/videos/{id}
func handleUpdateVideo(w http.ResponseWriter, r *http.Request) {
	var req updateVideoRequest
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	videoID := r.PathValue("id")
	v, err := stores.VideoStore.GetByID(r.Context(), videoID)
	if errors.Is(err, domainVideo.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	if v.TeamID == "" {
		http.NotFound(w, r)
		return
	}
	actor, err := projections.ResolveActor(r.Context(), stores.MemberStore, v.TeamID, middleware.AccountID(r.Context()))
	if err != nil {
		internalError(w, err)
		return
	}

	updated, err := orchestrators.ExecuteUpdateVideo(r.Context(), orchestrators.UpdateVideoInput{
		VideoID:     videoID,
		Actor:       actor,
		ActorName:   middleware.Username(r.Context()),
		Title:       req.Title,
		Description: req.Description,
	}, updateVideoDeps())
	switch {
	case errors.Is(err, access.ErrForbidden):
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	case errors.Is(err, domainVideo.ErrEmptyTitle), errors.Is(err, domainVideo.ErrTitleTooLong), errors.Is(err, domainVideo.ErrInvalidURL):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, domainVideo.ErrNotFound), errors.Is(err, domainVideo.ErrNotInTeam):
		http.NotFound(w, r)
		return
	case err != nil:
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":          updated.ID,
		"title":       updated.Title,
		"description": updated.Description,
	})
}

// policyValue accepts a policy name or a legacy numeric code in JSON.
type policyValue string

// UnmarshalJSON implements json.Unmarshaler.
func (p *policyValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] != '"' {
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*p = policyValue(n.String())
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*p = policyValue(s)
	return nil
}

// setPolicyRequest is the body of PATCH /api/teams/{slug}/policy.
type setPolicyRequest struct {
	VideoPolicy      policyValue `json:"video_policy"`
	TaskAssignPolicy policyValue `json:"task_assign_policy"`
}

// handleSetTeamPolicy handles PATCH /api/teams/{slug}/policy
func handleSetTeamPolicy(w http.ResponseWriter, r *http.Request) {
	var req setPolicyRequest
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	slug := r.PathValue("slug")
	t, err := stores.TeamStore.GetBySlug(r.Context(), slug)
	if errors.Is(err, domainTeam.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	actor, err := projections.ResolveActor(r.Context(), stores.MemberStore, t.ID, middleware.AccountID(r.Context()))
	if err != nil {
		internalError(w, err)
		return
	}

	updated, err := orchestrators.ExecuteSetTeamPolicy(r.Context(), orchestrators.SetTeamPolicyInput{
		TeamSlug:         slug,
		Actor:            actor,
		ActorName:        middleware.Username(r.Context()),
		VideoPolicy:      string(req.VideoPolicy),
		TaskAssignPolicy: string(req.TaskAssignPolicy),
	}, orchestrators.SetTeamPolicyDeps{TeamStore: stores.TeamStore, Activity: activityRecorder()})
	switch {
	case errors.Is(err, access.ErrForbidden):
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	case errors.Is(err, domainTeam.ErrInvalidPolicy):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"team":               updated.Slug,
		"video_policy":       string(updated.VideoPolicy),
		"task_assign_policy": string(updated.TaskAssignPolicy),
	})
}

// handleTeamMembers handles GET /api/teams/{slug}/members for team members.
func handleTeamMembers(w http.ResponseWriter, r *http.Request) {
	t, err := stores.TeamStore.GetBySlug(r.Context(), r.PathValue("slug"))
	if errors.Is(err, domainTeam.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	actor, err := projections.ResolveActor(r.Context(), stores.MemberStore, t.ID, middleware.AccountID(r.Context()))
	if err != nil {
		internalError(w, err)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())
	if !actor.IsMember() && !sess.IsSiteAdmin() {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	members, err := stores.MemberStore.ListByTeam(r.Context(), t.ID)
	if err != nil {
		internalError(w, err)
		return
	}
	type memberJSON struct {
		AccountID           string   `json:"account_id"`
		Role                string   `json:"role"`
		RestrictedLanguages []string `json:"restricted_languages,omitempty"`
	}
	out := make([]memberJSON, 0, len(members))
	for _, m := range members {
		out = append(out, memberJSON{AccountID: m.AccountID, Role: string(m.Role), RestrictedLanguages: m.RestrictedLanguages})
	}
	writeJSON(w, http.StatusOK, out)
}

// loadEditableVideo resolves the team video named by the path and checks the
// viewer passes the team's video policy.
func loadEditableVideo(w http.ResponseWriter, r *http.Request) (domainVideo.Video, domainTeam.Team, access.Actor, bool) {
	t, err := stores.TeamStore.GetBySlug(r.Context(), r.PathValue("slug"))
	if errors.Is(err, domainTeam.ErrNotFound) {
		http.NotFound(w, r)
		return domainVideo.Video{}, domainTeam.Team{}, access.Actor{}, false
	}
	if err != nil {
		internalError(w, err)
		return domainVideo.Video{}, domainTeam.Team{}, access.Actor{}, false
	}
	v, err := stores.VideoStore.GetByID(r.Context(), r.PathValue("id"))
	if errors.Is(err, domainVideo.ErrNotFound) || (err == nil && v.TeamID != t.ID) {
		http.NotFound(w, r)
		return domainVideo.Video{}, domainTeam.Team{}, access.Actor{}, false
	}
	if err != nil {
		internalError(w, err)
		return domainVideo.Video{}, domainTeam.Team{}, access.Actor{}, false
	}
	actor, err := projections.ResolveActor(r.Context(), stores.MemberStore, t.ID, middleware.AccountID(r.Context()))
	if err != nil {
		internalError(w, err)
		return domainVideo.Video{}, domainTeam.Team{}, access.Actor{}, false
	}
	if !access.CanSeeEdit(t, actor, v) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return domainVideo.Video{}, domainTeam.Team{}, access.Actor{}, false
	}
	return v, t, actor, true
}

// videoFormPage is the template data of video_edit.html and video_add.html.
type videoFormPage struct {
	Team     domainTeam.Team
	Video    domainVideo.Video
	Projects []domainProject.Project
	Error    string
}

// renderVideoForm renders a video form with the team's projects.
func renderVideoForm(w http.ResponseWriter, r *http.Request, status int, name string, page videoFormPage) {
	projects, err := stores.ProjectStore.ListByTeam(r.Context(), page.Team.ID)
	if err != nil {
		internalError(w, err)
		return
	}
	page.Projects = projects
	renderTemplateStatus(w, r, status, name, page)
}

// isVideoInputError reports whether err is a validation failure the user can fix.
func isVideoInputError(err error) bool {
	return errors.Is(err, domainVideo.ErrEmptyTitle) ||
		errors.Is(err, domainVideo.ErrTitleTooLong) ||
		errors.Is(err, domainVideo.ErrInvalidURL) ||
		errors.Is(err, domainProject.ErrNotFound)
}

// teamProject checks projectID names a project of t. Empty means no project.
func teamProject(r *http.Request, t domainTeam.Team, projectID string) error {
	if projectID == "" {
		return nil
	}
	p, err := stores.ProjectStore.GetByID(r.Context(), projectID)
	if err != nil {
		return err
	}
	if p.TeamID != t.ID {
		return domainProject.ErrNotFound
	}
	return nil
}

func moveVideoDeps() orchestrators.MoveVideoDeps {
	return orchestrators.MoveVideoDeps{
		VideoStore:   stores.VideoStore,
		TeamStore:    stores.TeamStore,
		ProjectStore: stores.ProjectStore,
		Activity:     activityRecorder(),
	}
}

// handleEditVideoPage handles GET and POST /teams/{slug}/videos/{id}/edit
// A project field that differs from the video's project moves the video.
func handleEditVideoPage(w http.ResponseWriter, r *http.Request) {
	v, t, actor, ok := loadEditableVideo(w, r)
	if !ok {
		return
	}
	if r.Method == "GET" {
		renderVideoForm(w, r, http.StatusOK, "video_edit.html", videoFormPage{Team: t, Video: v})
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	title := r.FormValue("title")
	description := r.FormValue("description")
	projectID := v.ProjectID
	if _, ok := r.PostForm["project"]; ok {
		projectID = r.PostFormValue("project")
	}
	formError := func(err error) {
		v.Title, v.Description, v.ProjectID = title, description, projectID
		renderVideoForm(w, r, http.StatusBadRequest, "video_edit.html", videoFormPage{Team: t, Video: v, Error: err.Error()})
	}

	// the project is checked first so a bad choice leaves the video untouched
	if err := teamProject(r, t, projectID); err != nil {
		if errors.Is(err, domainProject.ErrNotFound) {
			formError(err)
			return
		}
		internalError(w, err)
		return
	}
	_, err := orchestrators.ExecuteUpdateVideo(r.Context(), orchestrators.UpdateVideoInput{
		VideoID:     v.ID,
		Actor:       actor,
		ActorName:   middleware.Username(r.Context()),
		Title:       &title,
		Description: &description,
	}, updateVideoDeps())
	if isVideoInputError(err) {
		formError(err)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	if projectID != v.ProjectID {
		_, err := orchestrators.ExecuteMoveVideoToProject(r.Context(), orchestrators.MoveVideoInput{
			VideoID:   v.ID,
			ProjectID: projectID,
			Actor:     actor,
			ActorName: middleware.Username(r.Context()),
		}, moveVideoDeps())
		if err != nil {
			internalError(w, err)
			return
		}
	}
	http.Redirect(w, r, "/teams/"+t.Slug+"/videos", http.StatusSeeOther)
}

// handleRemoveVideo handles POST /teams/{slug}/videos/{id}/remove
func handleRemoveVideo(w http.ResponseWriter, r *http.Request) {
	v, t, actor, ok := loadEditableVideo(w, r)
	if !ok {
		return
	}
	err := orchestrators.ExecuteRemoveTeamVideo(r.Context(), orchestrators.RemoveVideoInput{
		VideoID:   v.ID,
		Actor:     actor,
		ActorName: middleware.Username(r.Context()),
	}, moveVideoDeps())
	if errors.Is(err, access.ErrForbidden) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	http.Redirect(w, r, "/teams/"+t.Slug+"/videos", http.StatusSeeOther)
}

// loadAddableTeam resolves the team named by the path and checks the viewer
// may submit videos to it.
func loadAddableTeam(w http.ResponseWriter, r *http.Request) (domainTeam.Team, bool) {
	t, err := stores.TeamStore.GetBySlug(r.Context(), r.PathValue("slug"))
	if errors.Is(err, domainTeam.ErrNotFound) {
		http.NotFound(w, r)
		return domainTeam.Team{}, false
	}
	if err != nil {
		internalError(w, err)
		return domainTeam.Team{}, false
	}
	actor, err := projections.ResolveActor(r.Context(), stores.MemberStore, t.ID, middleware.AccountID(r.Context()))
	if err != nil {
		internalError(w, err)
		return domainTeam.Team{}, false
	}
	if !access.CanAddVideo(t, actor) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return domainTeam.Team{}, false
	}
	return t, true
}

// handleNewVideoPage handles GET /teams/{slug}/videos/new
// ?project= preselects a project by slug.
func handleNewVideoPage(w http.ResponseWriter, r *http.Request) {
	t, ok := loadAddableTeam(w, r)
	if !ok {
		return
	}
	var v domainVideo.Video
	if slug := r.URL.Query().Get("project"); slug != "" {
		if p, err := stores.ProjectStore.GetBySlug(r.Context(), t.ID, slug); err == nil {
			v.ProjectID = p.ID
		}
	}
	renderVideoForm(w, r, http.StatusOK, "video_add.html", videoFormPage{Team: t, Video: v})
}

// handleAddVideo handles POST /teams/{slug}/videos
func handleAddVideo(w http.ResponseWriter, r *http.Request) {
	t, ok := loadAddableTeam(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	input := orchestrators.AddTeamVideoInput{
		TeamID:      t.ID,
		ProjectID:   r.PostFormValue("project"),
		ActorName:   middleware.Username(r.Context()),
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
		URL:         strings.TrimSpace(r.PostFormValue("url")),
	}
	_, err := orchestrators.ExecuteAddTeamVideo(r.Context(), input, orchestrators.AddTeamVideoDeps{
		VideoStore:   stores.VideoStore,
		ProjectStore: stores.ProjectStore,
		Activity:     activityRecorder(),
		GenerateID:   uuid.NewString,
	})
	if isVideoInputError(err) {
		v := domainVideo.Video{Title: input.Title, Description: input.Description, URL: input.URL, ProjectID: input.ProjectID}
		renderVideoForm(w, r, http.StatusBadRequest, "video_add.html", videoFormPage{Team: t, Video: v, Error: err.Error()})
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	http.Redirect(w, r, "/teams/"+t.Slug+"/videos", http.StatusSeeOther)
}

// handleTeamActivity handles GET /api/teams/{slug}/activity?limit=N
// Team admins and owners (and site admins) may read the log.
func handleTeamActivity(w http.ResponseWriter, r *http.Request) {
	if stores.ActivityStore == nil {
		http.NotFound(w, r)
		return
	}
	t, err := stores.TeamStore.GetBySlug(r.Context(), r.PathValue("slug"))
	if errors.Is(err, domainTeam.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	actor, err := projections.ResolveActor(r.Context(), stores.MemberStore, t.ID, middleware.AccountID(r.Context()))
	if err != nil {
		internalError(w, err)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())
	if !access.CanManagePolicy(actor) && !sess.IsSiteAdmin() {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 || limit > 200 {
		limit = 50
	}
	events, err := stores.ActivityStore.ListByTeam(r.Context(), t.ID, limit)
	if err != nil {
		internalError(w, err)
		return
	}
	if events == nil {
		events = []domainActivity.Event{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"team": t.Slug, "events": events})
}
