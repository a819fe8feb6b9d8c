package scenario

import (
	"fmt"

	"teamvideos/internal/domain/team"
	"teamvideos/internal/domain/teammember"
	"teamvideos/internal/domain/video"
	"teamvideos/internal/domain/workflow"
)

// Titles used by the scenarios.
const (
	TitleBrianBradley = "X Factor Audition - Stop Looking At My Mom Rap - Brian Bradley"
	TitleXFactor      = "X Factor Audition - Stop Looking At My Mom Rap"
	TitleNotTransback = "qs1-not-transback"
	TitleLots         = "lots of translations"
	TitleNoises       = "What is up with Noises? (The Science and Mathematics of Sound, Frequency, and Pitch)"
	URLNoises         = "http://www.youtube.com/watch?v=i_0DXxNeaQ0"
)

// zeusSubtitles is the English track of the search video.
const zeusSubtitles = `1
00:00:00,000 --> 00:00:04,000
Zeus came down from the mountain

2
00:00:04,000 --> 00:00:08,000
and the hall answered in 日本語 and English`

// LimitedAccessTeam is an open team with manager-and-admin video and task
// policies and workflows enabled, plus one account per role the visibility
// scenarios sign in as.
func LimitedAccessTeam() *Fixture {
	f := newFixture("limited-access", "Limited Access", mustVideoPolicy(2), mustTaskPolicy(20))
	f.Team.WorkflowEnabled = true
	f.Accounts = append(f.Accounts,
		Account{Username: "contributor", Role: teammember.RoleContributor},
		Account{Username: "manager", Role: teammember.RoleManager},
		Account{Username: "EnglishManager", Role: teammember.RoleManager, RestrictedLanguages: []string{"en"}},
		Account{Username: "admin_member", Role: teammember.RoleAdmin},
		Account{Username: "non_member"},
	)
	AddSeveralTeamVideos(f)
	return f
}

// WithAutomaticTasks turns on automatic subtitle and translate tasks with
// peer review and prefers en, ru and pt-br.
func WithAutomaticTasks(f *Fixture) *Fixture {
	f.Workflow = &workflow.Workflow{
		TeamID:              f.Team.ID,
		AutocreateSubtitle:  true,
		AutocreateTranslate: true,
		ReviewAllowed:       workflow.ReviewPeer,
	}
	f.Team.PreferredLanguages = []string{"en", "ru", "pt-br"}
	return f
}

// AddSeveralTeamVideos adds four small videos with mixed subtitle state.
// The first one carries no English track.
func AddSeveralTeamVideos(f *Fixture) []video.Video {
	return []video.Video{
		f.AddVideo(video.Video{Title: TitleNotTransback, Subtitles: []video.SubtitleLanguage{
			complete("ru", "не переведено обратно"), inProgress("pt"),
		}}),
		f.AddVideo(video.Video{Title: "c", Subtitles: []video.SubtitleLanguage{
			complete("de", "drei"),
		}}),
		f.AddVideo(video.Video{Title: "b", Subtitles: []video.SubtitleLanguage{
			complete("en", "two"), complete("ru", "два"),
		}}),
		f.AddVideo(video.Video{Title: "a", Subtitles: []video.SubtitleLanguage{
			complete("en", "one"),
		}}),
	}
}

// AddPaginationVideos adds n videos without subtitles.
func AddPaginationVideos(f *Fixture, n int) {
	for i := 1; i <= n; i++ {
		f.AddVideo(video.Video{Title: fmt.Sprintf("Pagination video %02d", i)})
	}
}

// SearchTeam holds one video whose English subtitles mention Zeus.
func SearchTeam() *Fixture {
	f := newFixture("video-test", "Video Test", team.PolicyManagerAndAdmin, team.PolicyAllMembers)
	f.Accounts = append(f.Accounts, Account{Username: "team_admin", Role: teammember.RoleAdmin})
	f.AddVideo(video.Video{
		Title: TitleBrianBradley,
		URL:   "http://www.youtube.com/watch?v=WqJineyEszo",
		Subtitles: []video.SubtitleLanguage{
			complete("en", zeusSubtitles),
		},
	})
	return f
}

// FilterSortTeam holds the X Factor video, created first, and the several
// team videos.
func FilterSortTeam() *Fixture {
	f := newFixture("filter-sort", "Filter Sort", team.PolicyManagerAndAdmin, team.PolicyAllMembers)
	f.Accounts = append(f.Accounts, Account{Username: "team_admin", Role: teammember.RoleAdmin})
	f.AddVideo(video.Video{
		Title:     TitleXFactor,
		URL:       "http://www.youtube.com/watch?v=WqJineyEszo",
		Subtitles: []video.SubtitleLanguage{complete("en", "stop looking at my mom")},
	})
	AddSeveralTeamVideos(f)
	return f
}

// ProjectsTeam has two projects; three clips sit in the second one.
func ProjectsTeam() *Fixture {
	f := newFixture("projects-edit", "Projects Edit", team.PolicyManagerAndAdmin, team.PolicyAllMembers)
	f.AddProject("Project One", "project-one", false)
	p2 := f.AddProject("Project Two", "project-two", false)
	for _, name := range []string{"jaws.mp4", "Birds_short.oggtheora.ogg", "fireplace.mp4"} {
		f.AddVideo(video.Video{
			Title:     name,
			URL:       "http://qa.pculture.org/amara_tests/" + name,
			ProjectID: p2.ID,
		})
	}
	return f
}

// ProjectsFilterTeam has two workflow projects; every video is in the second.
func ProjectsFilterTeam() *Fixture {
	f := newFixture("projects-filter", "Projects Filter", team.PolicyManagerAndAdmin, team.PolicyAllMembers)
	f.Accounts = append(f.Accounts, Account{Username: "team_admin", Role: teammember.RoleAdmin})
	f.AddProject("Project One", "project-one", true)
	p2 := f.AddProject("Project Two", "project-two", true)
	f.AddVideo(video.Video{Title: "a", ProjectID: p2.ID, Subtitles: []video.SubtitleLanguage{complete("fr", "un")}})
	f.AddVideo(video.Video{Title: "b", ProjectID: p2.ID})
	f.AddVideo(video.Video{Title: "c", ProjectID: p2.ID, Subtitles: []video.SubtitleLanguage{complete("en", "see")}})
	return f
}

// AddLotsOfSubtitles adds a video with many subtitle tracks to a project.
func AddLotsOfSubtitles(f *Fixture, projectID string) video.Video {
	codes := []string{"en", "fr", "de", "es", "it", "pt", "ru", "ja", "ko", "zh", "ar", "he", "pl", "sv", "nl"}
	v := video.Video{Title: TitleLots, ProjectID: projectID}
	for i, code := range codes {
		s := complete(code, "")
		s.Complete = i%3 != 2
		v.Subtitles = append(v.Subtitles, s)
	}
	return f.AddVideo(v)
}

// All returns one fresh instance of every fixture team.
func All() []*Fixture {
	return []*Fixture{
		WithAutomaticTasks(LimitedAccessTeam()),
		SearchTeam(),
		FilterSortTeam(),
		ProjectsTeam(),
		ProjectsFilterTeam(),
	}
}

func mustVideoPolicy(code int) team.Policy {
	p, err := team.VideoPolicyFromCode(code)
	if err != nil {
		panic(err)
	}
	return p
}

func mustTaskPolicy(code int) team.Policy {
	p, err := team.TaskAssignPolicyFromCode(code)
	if err != nil {
		panic(err)
	}
	return p
}
