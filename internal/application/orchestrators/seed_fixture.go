package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"teamvideos/internal/application/scenario"
	"teamvideos/internal/domain/account"
	"teamvideos/internal/domain/project"
	"teamvideos/internal/domain/team"
	"teamvideos/internal/domain/teammember"
	"teamvideos/internal/domain/video"
)

// SeedFixtureDeps holds dependencies for SeedFixture.
type SeedFixtureDeps struct {
	AccountStore  AccountStoreForCreate
	TeamStore     TeamStoreForOrchestrator
	MemberStore   MemberStoreForOrchestrator
	ProjectStore  ProjectStoreForOrchestrator
	VideoStore    VideoStoreForOrchestrator
	WorkflowStore WorkflowStoreForOrchestrator
}

// ExecuteSeedFixture persists a scenario fixture. Accounts are shared across
// fixtures by username and get scenario.DefaultPassword when first created.
// New teams, members, projects and videos go through the same orchestrators
// the app uses; rows that already exist are reset to the fixture's values.
// PRE: f validates
// POST: team, members, projects, videos and workflow stored; re-running is a no-op
func ExecuteSeedFixture(ctx context.Context, f *scenario.Fixture, deps SeedFixtureDeps) error {
	if err := seedTeam(ctx, f.Team, deps.TeamStore); err != nil {
		return fmt.Errorf("fixture %s: team: %w", f.Team.Slug, err)
	}

	for _, a := range f.Accounts {
		acct, err := seedAccount(ctx, a.Username, deps)
		if err != nil {
			return fmt.Errorf("fixture %s: account %s: %w", f.Team.Slug, a.Username, err)
		}
		if a.Role == teammember.RoleNone {
			continue
		}
		if err := seedMember(ctx, f.Team.ID, acct.ID, a, deps.MemberStore); err != nil {
			return fmt.Errorf("fixture %s: member %s: %w", f.Team.Slug, a.Username, err)
		}
	}

	for _, p := range f.Projects {
		if err := seedProject(ctx, p, deps.ProjectStore); err != nil {
			return fmt.Errorf("fixture %s: project %s: %w", f.Team.Slug, p.Slug, err)
		}
	}
	for _, v := range f.Videos {
		if err := seedVideo(ctx, v, deps); err != nil {
			return fmt.Errorf("fixture %s: video %q: %w", f.Team.Slug, v.Title, err)
		}
	}
	if f.Workflow != nil {
		err := ExecuteEnableAutomaticTasks(ctx, EnableAutomaticTasksInput{
			TeamID:             f.Team.ID,
			Subtitle:           f.Workflow.AutocreateSubtitle,
			Translate:          f.Workflow.AutocreateTranslate,
			ReviewAllowed:      f.Workflow.ReviewAllowed,
			PreferredLanguages: f.Team.PreferredLanguages,
		}, EnableAutomaticTasksDeps{WorkflowStore: deps.WorkflowStore, TeamStore: deps.TeamStore})
		if err != nil {
			return fmt.Errorf("fixture %s: workflow: %w", f.Team.Slug, err)
		}
	}

	slog.Info("seed_event", "event", "fixture_seeded", "team", f.Team.Slug,
		"accounts", len(f.Accounts), "projects", len(f.Projects), "videos", len(f.Videos))
	return nil
}

// fixedID hands a fixture's stable id to an orchestrator's GenerateID.
func fixedID(id string) func() string {
	return func() string { return id }
}

func seedTeam(ctx context.Context, t team.Team, store TeamStoreForOrchestrator) error {
	if _, err := store.GetBySlug(ctx, t.Slug); err == nil {
		if err := t.Validate(); err != nil {
			return err
		}
		return store.Save(ctx, t)
	} else if !errors.Is(err, team.ErrNotFound) {
		return err
	}
	_, err := ExecuteCreateTeam(ctx, CreateTeamInput{
		Slug:             t.Slug,
		Name:             t.Name,
		MembershipPolicy: t.MembershipPolicy,
		VideoPolicy:      t.VideoPolicy,
		TaskAssignPolicy: t.TaskAssignPolicy,
		WorkflowEnabled:  t.WorkflowEnabled,
	}, CreateTeamDeps{TeamStore: store, GenerateID: fixedID(t.ID)})
	return err
}

func seedAccount(ctx context.Context, username string, deps SeedFixtureDeps) (account.Account, error) {
	acct, err := deps.AccountStore.GetByUsername(ctx, username)
	if err == nil {
		return acct, nil
	}
	if !errors.Is(err, account.ErrNotFound) {
		return account.Account{}, err
	}
	return ExecuteCreateAccount(ctx, CreateAccountInput{
		Username: username,
		Password: scenario.DefaultPassword,
		Role:     account.RoleUser,
	}, CreateAccountDeps{AccountStore: deps.AccountStore})
}

func seedMember(ctx context.Context, teamID, accountID string, a scenario.Account, store MemberStoreForOrchestrator) error {
	m, err := store.Get(ctx, teamID, accountID)
	switch {
	case errors.Is(err, teammember.ErrNotFound):
		_, err = ExecuteAddTeamMember(ctx, AddTeamMemberInput{
			TeamID:    teamID,
			AccountID: accountID,
			Role:      string(a.Role),
		}, AddTeamMemberDeps{MemberStore: store, GenerateID: fixedID(teamID + ":" + accountID)})
		if err != nil {
			return err
		}
		for _, code := range a.RestrictedLanguages {
			deps := RestrictManagerLanguageDeps{MemberStore: store}
			if _, err := ExecuteRestrictManagerLanguage(ctx, teamID, accountID, code, deps); err != nil {
				return err
			}
		}
		return nil
	case err != nil:
		return err
	}

	m.Role = a.Role
	m.RestrictedLanguages = nil
	for _, code := range a.RestrictedLanguages {
		if err := m.RestrictTo(code); err != nil {
			return err
		}
	}
	if err := m.Validate(); err != nil {
		return err
	}
	return store.Save(ctx, m)
}

func seedProject(ctx context.Context, p project.Project, store ProjectStoreForOrchestrator) error {
	if _, err := store.GetBySlug(ctx, p.TeamID, p.Slug); err == nil {
		if err := p.Validate(); err != nil {
			return err
		}
		return store.Save(ctx, p)
	} else if !errors.Is(err, project.ErrNotFound) {
		return err
	}
	_, err := ExecuteCreateProject(ctx, CreateProjectInput{
		TeamID:          p.TeamID,
		Name:            p.Name,
		Slug:            p.Slug,
		Description:     p.Description,
		WorkflowEnabled: p.WorkflowEnabled,
	}, CreateProjectDeps{ProjectStore: store, GenerateID: fixedID(p.ID)})
	return err
}

func seedVideo(ctx context.Context, v video.Video, deps SeedFixtureDeps) error {
	if _, err := deps.VideoStore.GetByID(ctx, v.ID); err == nil {
		if err := v.Validate(); err != nil {
			return err
		}
		return deps.VideoStore.Save(ctx, v)
	} else if !errors.Is(err, video.ErrNotFound) {
		return err
	}
	createdAt := v.CreatedAt
	_, err := ExecuteAddTeamVideo(ctx, AddTeamVideoInput{
		TeamID:      v.TeamID,
		ProjectID:   v.ProjectID,
		Title:       v.Title,
		Description: v.Description,
		URL:         v.URL,
		Subtitles:   v.Subtitles,
	}, AddTeamVideoDeps{
		VideoStore:   deps.VideoStore,
		ProjectStore: deps.ProjectStore,
		GenerateID:   fixedID(v.ID),
		Now:          func() time.Time { return createdAt },
	})
	return err
}
