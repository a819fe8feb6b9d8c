package browser_test

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	_ "modernc.org/sqlite"

	web "teamvideos/internal/adapters/http"
	"teamvideos/internal/adapters/index"
	"teamvideos/internal/adapters/perf"
	"teamvideos/internal/adapters/storage"
	accountStore "teamvideos/internal/adapters/storage/account"
	activityStore "teamvideos/internal/adapters/storage/activity"
	projectStore "teamvideos/internal/adapters/storage/project"
	teamStore "teamvideos/internal/adapters/storage/team"
	memberStore "teamvideos/internal/adapters/storage/teammember"
	videoStore "teamvideos/internal/adapters/storage/video"
	workflowStore "teamvideos/internal/adapters/storage/workflow"
	"teamvideos/internal/application/orchestrators"
	"teamvideos/internal/application/scenario"
	"teamvideos/internal/domain/account"
)

// testApp holds the running test server and Playwright handles.
type testApp struct {
	BaseURL string
	DB      *sql.DB
	Server  *http.Server
	PW      *playwright.Playwright
	Browser playwright.Browser
	Stores  *web.Stores
	Index   *index.VideoIndex
}

// newTestApp seeds every scenario team into a temp SQLite DB and starts an
// HTTP server plus a headless Chromium.
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	account.HashCost = bcrypt.MinCost

	dbPath := filepath.Join(t.TempDir(), "test.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)"
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err, "open test DB")
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	require.NoError(t, storage.MigrateDB(db), "migrate test DB")

	stores := &web.Stores{
		AccountStore:  accountStore.NewSQLiteStore(db),
		TeamStore:     teamStore.NewSQLiteStore(db),
		MemberStore:   memberStore.NewSQLiteStore(db),
		ProjectStore:  projectStore.NewSQLiteStore(db),
		VideoStore:    videoStore.NewSQLiteStore(db),
		WorkflowStore: workflowStore.NewSQLiteStore(db),
		ActivityStore: activityStore.NewSQLiteStore(db),
	}
	ctx := context.Background()
	deps := orchestrators.SeedFixtureDeps{
		AccountStore:  stores.AccountStore,
		TeamStore:     stores.TeamStore,
		MemberStore:   stores.MemberStore,
		ProjectStore:  stores.ProjectStore,
		VideoStore:    stores.VideoStore,
		WorkflowStore: stores.WorkflowStore,
	}
	for _, f := range scenario.All() {
		require.NoError(t, orchestrators.ExecuteSeedFixture(ctx, f, deps))
	}

	idx := index.New(stores.VideoStore)
	_, err = idx.Refresh(ctx)
	require.NoError(t, err)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err, "find free port")
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	// templates and static assets are resolved from the project root
	projectRoot := findProjectRoot(t)
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(projectRoot))
	t.Cleanup(func() { os.Chdir(origDir) })

	csrfKey, err := web.LoadCSRFKey("", false)
	require.NoError(t, err)
	handler, stopLimiter := web.NewMux(web.Config{
		StaticDir: "static",
		CSRFKey:   csrfKey,
		TrustedOrigins: []string{
			fmt.Sprintf("127.0.0.1:%d", port),
			fmt.Sprintf("localhost:%d", port),
		},
		RateLimitPerSecond: 1000,
	}, stores, idx, perf.NewCollector(perf.DefaultRingSize))
	t.Cleanup(stopLimiter)

	srv := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", port),
		Handler: handler,
	}
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("test server error: %v", err)
		}
	}()

	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	for i := 0; i < 50; i++ {
		resp, err := http.Get(baseURL + "/login")
		if err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	pw, err := playwright.Run()
	require.NoError(t, err, "start Playwright")
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	require.NoError(t, err, "launch browser")

	app := &testApp{
		BaseURL: baseURL,
		DB:      db,
		Server:  srv,
		PW:      pw,
		Browser: browser,
		Stores:  stores,
		Index:   idx,
	}
	t.Cleanup(func() {
		browser.Close()
		pw.Stop()
		srv.Close()
		db.Close()
	})
	return app
}

// newPage opens a page in its own browser context so cookies do not leak
// between viewers.
func (a *testApp) newPage(t *testing.T) playwright.Page {
	t.Helper()
	bctx, err := a.Browser.NewContext()
	require.NoError(t, err, "create browser context")
	t.Cleanup(func() { bctx.Close() })
	page, err := bctx.NewPage()
	require.NoError(t, err, "create page")
	return page
}

// login signs in as username with the fixture password.
func (a *testApp) login(t *testing.T, page playwright.Page, username string) {
	t.Helper()
	_, err := page.Goto(a.BaseURL + "/login")
	require.NoError(t, err)
	require.NoError(t, page.Locator("#username").Fill(username))
	require.NoError(t, page.Locator("#password").Fill(scenario.DefaultPassword))
	require.NoError(t, page.Locator("#login-submit").Click())
	require.NoError(t, page.WaitForURL(a.BaseURL+"/teams", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}), "login did not redirect to /teams")
}

// gotoVideos opens the team video listing with an optional query string.
func (a *testApp) gotoVideos(t *testing.T, page playwright.Page, slug, query string) {
	t.Helper()
	url := a.BaseURL + "/teams/" + slug + "/videos"
	if query != "" {
		url += "?" + query
	}
	resp, err := page.Goto(url)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.Status())
}

// videoTitles returns the titles of the listed videos in display order.
func videoTitles(t *testing.T, page playwright.Page) []string {
	t.Helper()
	titles, err := page.Locator("li.video .video-title").AllInnerTexts()
	require.NoError(t, err)
	return titles
}

// findProjectRoot walks up from the working directory to the directory holding go.mod.
func findProjectRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	require.NoError(t, err)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("could not find project root (go.mod) from working directory")
		}
		dir = parent
	}
}
