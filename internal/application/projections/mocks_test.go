package projections

import (
	"context"

	"teamvideos/internal/application/scenario"
	"teamvideos/internal/application/videoquery"
	domainProject "teamvideos/internal/domain/project"
	domainTeam "teamvideos/internal/domain/team"
	domainMember "teamvideos/internal/domain/teammember"
	domainVideo "teamvideos/internal/domain/video"
	domainWorkflow "teamvideos/internal/domain/workflow"
)

// fixtureStores serves one scenario fixture through every projection store
// interface. Account IDs are fixture usernames.
type fixtureStores struct {
	f *scenario.Fixture
}

// GetBySlug returns the fixture team.
// PRE: slug is non-empty
// POST: Returns the team or domainTeam.ErrNotFound
func (s *fixtureStores) GetBySlug(_ context.Context, slug string) (domainTeam.Team, error) {
	if s.f.Team.Slug != slug {
		return domainTeam.Team{}, domainTeam.ErrNotFound
	}
	return s.f.Team, nil
}

func (s *fixtureStores) Get(_ context.Context, teamID, accountID string) (domainMember.Member, error) {
	for _, a := range s.f.Accounts {
		if a.Username == accountID && a.Role != domainMember.RoleNone && teamID == s.f.Team.ID {
			return domainMember.Member{
				ID: teamID + ":" + accountID, TeamID: teamID, AccountID: accountID,
				Role: a.Role, RestrictedLanguages: a.RestrictedLanguages,
			}, nil
		}
	}
	return domainMember.Member{}, domainMember.ErrNotFound
}

func (s *fixtureStores) GetByID(_ context.Context, id string) (domainVideo.Video, error) {
	for _, v := range s.f.Videos {
		if v.ID == id {
			return v, nil
		}
	}
	return domainVideo.Video{}, domainVideo.ErrNotFound
}

func (s *fixtureStores) Search(teamID string, q videoquery.Query) videoquery.Result {
	if teamID != s.f.Team.ID {
		return videoquery.Result{}
	}
	return videoquery.Resolve(s.f.Videos, q)
}

type fixtureProjects struct {
	f *scenario.Fixture
}

func (p *fixtureProjects) GetBySlug(_ context.Context, teamID, slug string) (domainProject.Project, error) {
	if pr, ok := p.f.Project(slug); ok && pr.TeamID == teamID {
		return pr, nil
	}
	return domainProject.Project{}, domainProject.ErrNotFound
}

func (p *fixtureProjects) ListByTeam(_ context.Context, _ string) ([]domainProject.Project, error) {
	return p.f.Projects, nil
}

type fixtureWorkflows struct {
	f *scenario.Fixture
}

func (w *fixtureWorkflows) Get(_ context.Context, _ string) (*domainWorkflow.Workflow, error) {
	return w.f.Workflow, nil
}

func teamVideosDeps(f *scenario.Fixture) GetTeamVideosDeps {
	s := &fixtureStores{f: f}
	return GetTeamVideosDeps{
		TeamStore:     s,
		MemberStore:   s,
		ProjectStore:  &fixtureProjects{f: f},
		WorkflowStore: &fixtureWorkflows{f: f},
		Searcher:      s,
	}
}

func videoTasksDeps(f *scenario.Fixture) GetVideoTasksDeps {
	s := &fixtureStores{f: f}
	return GetVideoTasksDeps{
		TeamStore:     s,
		MemberStore:   s,
		VideoStore:    s,
		WorkflowStore: &fixtureWorkflows{f: f},
	}
}
