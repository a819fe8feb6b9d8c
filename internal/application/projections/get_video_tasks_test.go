package projections

import (
	"context"
	"errors"
	"testing"

	"teamvideos/internal/application/scenario"
	"teamvideos/internal/domain/access"
	domainVideo "teamvideos/internal/domain/video"
)

// TestQueryGetVideoTasks_Permission verifies the task assign policy gates the page.
func TestQueryGetVideoTasks_Permission(t *testing.T) {
	f := scenario.LimitedAccessTeam()
	qs1, _ := f.Video(scenario.TitleNotTransback)
	tests := []struct {
		viewer  string
		wantErr error
	}{
		{"manager", nil},
		{"admin_member", nil},
		{"contributor", access.ErrForbidden},
		{"non_member", access.ErrForbidden},
		{"", access.ErrForbidden},
		{"EnglishManager", access.ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.viewer, func(t *testing.T) {
			_, err := QueryGetVideoTasks(context.Background(), GetVideoTasksQuery{
				TeamSlug: f.Team.Slug, AccountID: tt.viewer, VideoID: qs1.ID,
			}, videoTasksDeps(f))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestQueryGetVideoTasks_Tasks verifies in-progress tracks come before needed languages.
func TestQueryGetVideoTasks_Tasks(t *testing.T) {
	f := scenario.WithAutomaticTasks(scenario.LimitedAccessTeam())
	qs1, _ := f.Video(scenario.TitleNotTransback)

	res, err := QueryGetVideoTasks(context.Background(), GetVideoTasksQuery{
		TeamSlug: f.Team.Slug, AccountID: "manager", VideoID: qs1.ID,
	}, videoTasksDeps(f))
	if err != nil {
		t.Fatal(err)
	}
	var codes []string
	for _, task := range res.Tasks {
		codes = append(codes, task.LanguageCode)
		if task.Kind != TaskTranslate {
			t.Errorf("%s: kind = %s", task.LanguageCode, task.Kind)
		}
	}
	want := []string{"pt", "en", "pt-br"}
	if len(codes) != len(want) {
		t.Fatalf("codes = %v, want %v", codes, want)
	}
	for i := range want {
		if codes[i] != want[i] {
			t.Errorf("codes = %v, want %v", codes, want)
			break
		}
	}
	if !res.Tasks[0].InProgress || res.Tasks[1].InProgress {
		t.Error("only the pt track is in progress")
	}
	if res.Tasks[1].LanguageName != "English" {
		t.Errorf("name = %q", res.Tasks[1].LanguageName)
	}
}

// TestQueryGetVideoTasks_OtherTeam verifies videos of another team are not found.
func TestQueryGetVideoTasks_OtherTeam(t *testing.T) {
	f := scenario.LimitedAccessTeam()
	other := scenario.SearchTeam()
	f.Videos = append(f.Videos, other.Videos...)

	_, err := QueryGetVideoTasks(context.Background(), GetVideoTasksQuery{
		TeamSlug: f.Team.Slug, AccountID: "admin_member", VideoID: other.Videos[0].ID,
	}, videoTasksDeps(f))
	if !errors.Is(err, domainVideo.ErrNotInTeam) {
		t.Errorf("expected ErrNotInTeam, got %v", err)
	}
}
