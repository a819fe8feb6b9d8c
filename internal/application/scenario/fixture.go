// Package scenario builds the team, member and video fixtures used by the
// acceptance scenarios, the demo seed and the browser suite.
//
// Every builder returns a fresh value; nothing is shared between calls.
package scenario

import (
	"fmt"
	"time"

	"teamvideos/internal/domain/access"
	"teamvideos/internal/domain/project"
	"teamvideos/internal/domain/team"
	"teamvideos/internal/domain/teammember"
	"teamvideos/internal/domain/video"
	"teamvideos/internal/domain/workflow"
)

// DefaultPassword is the password of every fixture account.
const DefaultPassword = "password"

// Base is the creation time of the first video in every fixture.
var Base = time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

// Account is a fixture user. Role is teammember.RoleNone for users who are
// not members of the fixture team.
type Account struct {
	Username            string
	Role                teammember.Role
	RestrictedLanguages []string
}

// Fixture is one team with its people, projects and videos.
type Fixture struct {
	Team     team.Team
	Accounts []Account
	Projects []project.Project
	Videos   []video.Video
	Workflow *workflow.Workflow
}

// Actor returns the access actor for a fixture username. An empty username
// is the anonymous guest; an unknown username is a signed-in non-member.
func (f *Fixture) Actor(username string) access.Actor {
	if username == "" {
		return access.Guest()
	}
	for _, a := range f.Accounts {
		if a.Username != username {
			continue
		}
		if a.Role == teammember.RoleNone {
			return access.NonMember()
		}
		return access.ForMember(teammember.Member{
			TeamID:              f.Team.ID,
			Role:                a.Role,
			RestrictedLanguages: a.RestrictedLanguages,
		})
	}
	return access.NonMember()
}

// Video returns the first video with the given title.
func (f *Fixture) Video(title string) (video.Video, bool) {
	for _, v := range f.Videos {
		if v.Title == title {
			return v, true
		}
	}
	return video.Video{}, false
}

// Project returns the project with the given slug.
func (f *Fixture) Project(slug string) (project.Project, bool) {
	for _, p := range f.Projects {
		if p.Slug == slug {
			return p, true
		}
	}
	return project.Project{}, false
}

// AddVideo appends a video to the team, created one minute after the last one.
func (f *Fixture) AddVideo(v video.Video) video.Video {
	n := len(f.Videos)
	if v.ID == "" {
		v.ID = fmt.Sprintf("%s-v%03d", f.Team.Slug, n+1)
	}
	if v.URL == "" {
		v.URL = fmt.Sprintf("http://www.example.com/%s/video-%03d.mp4", f.Team.Slug, n+1)
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = Base.Add(time.Duration(n) * time.Minute)
	}
	v.TeamID = f.Team.ID
	f.Videos = append(f.Videos, v)
	return v
}

// AddProject appends a project to the team.
func (f *Fixture) AddProject(name, slug string, workflowEnabled bool) project.Project {
	p := project.Project{
		ID:              fmt.Sprintf("%s-p%d", f.Team.Slug, len(f.Projects)+1),
		TeamID:          f.Team.ID,
		Name:            name,
		Slug:            slug,
		WorkflowEnabled: workflowEnabled,
	}
	f.Projects = append(f.Projects, p)
	return p
}

func newFixture(slug, name string, videoPolicy, taskPolicy team.Policy) *Fixture {
	return &Fixture{
		Team: team.Team{
			ID:               "team-" + slug,
			Slug:             slug,
			Name:             name,
			MembershipPolicy: team.MembershipOpen,
			VideoPolicy:      videoPolicy,
			TaskAssignPolicy: taskPolicy,
		},
		Accounts: []Account{{Username: "team_owner", Role: teammember.RoleOwner}},
	}
}

func complete(code, text string) video.SubtitleLanguage {
	return video.SubtitleLanguage{Code: code, Complete: true, Text: text}
}

func inProgress(code string) video.SubtitleLanguage {
	return video.SubtitleLanguage{Code: code}
}
