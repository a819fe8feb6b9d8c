package browser_test

import (
	"regexp"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamvideos/internal/application/scenario"
)

// TestVideoAffordances_PerViewer checks the Edit and Tasks links each
// limited-access viewer sees on the team video listing.
func TestVideoAffordances_PerViewer(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	app := newTestApp(t)

	cases := []struct {
		username  string
		wantEdit  int
		wantTasks int
	}{
		{username: "", wantEdit: 0, wantTasks: 0},
		{username: "non_member", wantEdit: 0, wantTasks: 0},
		{username: "contributor", wantEdit: 0, wantTasks: 0},
		{username: "EnglishManager", wantEdit: 2, wantTasks: 2},
		{username: "manager", wantEdit: 4, wantTasks: 4},
		{username: "admin_member", wantEdit: 4, wantTasks: 4},
		{username: "team_owner", wantEdit: 4, wantTasks: 4},
	}
	for _, tc := range cases {
		name := tc.username
		if name == "" {
			name = "guest"
		}
		t.Run(name, func(t *testing.T) {
			page := app.newPage(t)
			if tc.username != "" {
				app.login(t, page, tc.username)
			}
			app.gotoVideos(t, page, "limited-access", "")

			edits, err := page.Locator(`[data-testid="edit"]`).Count()
			require.NoError(t, err)
			tasks, err := page.Locator(`[data-testid="tasks"]`).Count()
			require.NoError(t, err)
			assert.Equal(t, tc.wantEdit, edits, "edit links")
			assert.Equal(t, tc.wantTasks, tasks, "tasks links")
		})
	}
}

// TestVideoSearch_SubtitleText finds a video by a word that only appears in
// its subtitles, and reports no match for an unknown word.
func TestVideoSearch_SubtitleText(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	app := newTestApp(t)
	page := app.newPage(t)
	app.login(t, page, "team_admin")
	app.gotoVideos(t, page, "video-test", "")

	require.NoError(t, page.Locator("#search").Fill("zeus"))
	require.NoError(t, page.Locator("#search").Press("Enter"))
	require.NoError(t, page.WaitForURL(regexp.MustCompile(`/videos\?q=zeus`)))
	assert.Equal(t, []string{scenario.TitleBrianBradley}, videoTitles(t, page))

	app.gotoVideos(t, page, "video-test", "q=unicorn")
	empty, err := page.Locator(`[data-testid="no-videos"]`).Count()
	require.NoError(t, err)
	assert.Equal(t, 1, empty)
}

// TestVideoSort_Name orders the filter-sort team by title in both directions.
func TestVideoSort_Name(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	app := newTestApp(t)
	page := app.newPage(t)
	app.login(t, page, "team_admin")

	app.gotoVideos(t, page, "filter-sort", "sort=name")
	assert.Equal(t, []string{
		scenario.TitleXFactor, "a", "b", "c", scenario.TitleNotTransback,
	}, videoTitles(t, page))

	app.gotoVideos(t, page, "filter-sort", "sort=-name")
	assert.Equal(t, []string{
		scenario.TitleNotTransback, "c", "b", "a", scenario.TitleXFactor,
	}, videoTitles(t, page))
}

// TestVideoFilter_Language selects a subtitle language from the filter panel.
func TestVideoFilter_Language(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	app := newTestApp(t)
	page := app.newPage(t)
	app.login(t, page, "team_admin")
	app.gotoVideos(t, page, "filter-sort", "sort=name")

	require.NoError(t, page.Locator("#open-filters").Click())
	require.NoError(t, page.WaitForURL(regexp.MustCompile(`filters=open`)))

	_, err := page.Locator("#lang-filter").SelectOption(playwright.SelectOptionValues{
		Values: playwright.StringSlice("ru"),
	})
	require.NoError(t, err)
	require.NoError(t, page.Locator(`#video-filters button[type=submit]`).Click())
	require.NoError(t, page.WaitForURL(regexp.MustCompile(`[?&]lang=ru`)))

	assert.ElementsMatch(t, []string{"b", scenario.TitleNotTransback}, videoTitles(t, page))
}

// TestVideoFilter_Project narrows a project team to its second project.
func TestVideoFilter_Project(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	app := newTestApp(t)
	page := app.newPage(t)
	app.login(t, page, "team_admin")

	app.gotoVideos(t, page, "projects-filter", "project=project-two&sort=name")
	assert.Equal(t, []string{"a", "b", "c"}, videoTitles(t, page))

	app.gotoVideos(t, page, "projects-filter", "project=project-one")
	empty, err := page.Locator(`[data-testid="no-videos"]`).Count()
	require.NoError(t, err)
	assert.Equal(t, 1, empty)
}
