package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
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
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

// Options are the server settings. Every option can be set from the environment.
type Options struct {
	Addr           string        `long:"addr" env:"TEAMVIDEOS_ADDR" default:":8080" description:"listen address"`
	DBPath         string        `long:"db" env:"TEAMVIDEOS_DB" default:"teamvideos.db" description:"SQLite database path"`
	Env            string        `long:"env" env:"TEAMVIDEOS_ENV" default:"development" choice:"development" choice:"production" description:"deployment environment"`
	StaticDir      string        `long:"static" env:"TEAMVIDEOS_STATIC" default:"static" description:"static asset directory"`
	CSRFKey        string        `long:"csrf-key" env:"TEAMVIDEOS_CSRF_KEY" description:"hex-encoded 32 byte CSRF secret (required in production)"`
	TrustedOrigins []string      `long:"trusted-origin" env:"TEAMVIDEOS_TRUSTED_ORIGINS" env-delim:"," description:"extra origins allowed to post forms"`
	AdminUsername  string        `long:"admin-username" env:"TEAMVIDEOS_ADMIN_USERNAME" default:"admin" description:"site admin seeded into an empty database"`
	AdminPassword  string        `long:"admin-password" env:"TEAMVIDEOS_ADMIN_PASSWORD" description:"password of the seeded site admin"`
	SeedDemo       bool          `long:"seed-demo" env:"TEAMVIDEOS_SEED_DEMO" description:"load the scenario teams into the database"`
	IndexRefresh   time.Duration `long:"index-refresh" env:"TEAMVIDEOS_INDEX_REFRESH" default:"0s" description:"background search index refresh interval (0 disables)"`
	ElevatedRoles  []string      `long:"elevated-role" env:"TEAMVIDEOS_ELEVATED_ROLES" env-delim:"," description:"team roles that get the larger page size"`
	RateLimit      int           `long:"rate-limit" env:"TEAMVIDEOS_RATE_LIMIT" default:"10" description:"requests per second per IP"`
	SlowQuery      time.Duration `long:"slow-query" env:"TEAMVIDEOS_SLOW_QUERY" default:"50ms" description:"slow query warning threshold"`
	SlowRequest    time.Duration `long:"slow-request" env:"TEAMVIDEOS_SLOW_REQUEST" default:"200ms" description:"slow request warning threshold"`
	LogLevel       string        `long:"log-level" env:"TEAMVIDEOS_LOG_LEVEL" default:"info" choice:"debug" choice:"info" choice:"warn" choice:"error" description:"minimum log level"`
}

// Production reports whether the server runs in production mode.
func (o Options) Production() bool {
	return o.Env == "production"
}

func main() {
	var opts Options
	if _, err := flags.Parse(&opts); err != nil {
		if flags.WroteHelp(err) {
			os.Exit(0)
		}
		os.Exit(2)
	}
	slog.SetDefault(newLogger(opts, os.Stderr))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		slog.Error("server_failed", "error", err)
		os.Exit(1)
	}
}

// run opens the database, seeds it, and serves until ctx is cancelled.
func run(ctx context.Context, opts Options) error {
	csrfKey, err := web.LoadCSRFKey(opts.CSRFKey, opts.Production())
	if err != nil {
		return err
	}
	if opts.Production() && opts.AdminPassword == "" {
		return errors.New("admin password is required in production")
	}

	db, err := openDB(opts.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, opts.SlowQuery)
	timedDB.SetRecorder(collector)

	stores := &web.Stores{
		AccountStore:  accountStore.NewSQLiteStore(timedDB),
		TeamStore:     teamStore.NewSQLiteStore(timedDB),
		MemberStore:   memberStore.NewSQLiteStore(timedDB),
		ProjectStore:  projectStore.NewSQLiteStore(timedDB),
		VideoStore:    videoStore.NewSQLiteStore(timedDB),
		WorkflowStore: workflowStore.NewSQLiteStore(timedDB),
		ActivityStore: activityStore.NewSQLiteStore(timedDB),
	}
	if err := seed(ctx, opts, stores); err != nil {
		return err
	}

	idx := index.New(stores.VideoStore)
	idx.SetRecorder(collector)
	if _, err := idx.Refresh(ctx); err != nil {
		return fmt.Errorf("initial index refresh: %w", err)
	}
	defer index.StartRefresher(ctx, idx, opts.IndexRefresh)()

	handler, stopLimiter := web.NewMux(web.Config{
		StaticDir:          opts.StaticDir,
		CSRFKey:            csrfKey,
		Secure:             opts.Production(),
		TrustedOrigins:     opts.TrustedOrigins,
		ElevatedRoles:      opts.ElevatedRoles,
		RateLimitPerSecond: opts.RateLimit,
		SlowRequest:        opts.SlowRequest,
	}, stores, idx, collector)
	defer stopLimiter()

	srv := &http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server_starting", "version", version, "addr", opts.Addr, "env", opts.Env, "schema", storage.LatestSchemaVersion())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("server_stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openDB opens and migrates the SQLite database with WAL mode, foreign keys
// and a busy timeout.
func openDB(path string) (*sql.DB, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}
	if err := storage.MigrateDB(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return db, nil
}

// seed creates the site admin in an empty database and, when asked, the
// scenario teams. Both steps are idempotent.
func seed(ctx context.Context, opts Options, stores *web.Stores) error {
	if opts.AdminPassword != "" {
		deps := orchestrators.CreateAccountDeps{AccountStore: stores.AccountStore}
		if err := orchestrators.ExecuteSeedAdmin(ctx, deps, opts.AdminUsername, opts.AdminPassword); err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
	}
	if !opts.SeedDemo {
		return nil
	}
	deps := orchestrators.SeedFixtureDeps{
		AccountStore:  stores.AccountStore,
		TeamStore:     stores.TeamStore,
		MemberStore:   stores.MemberStore,
		ProjectStore:  stores.ProjectStore,
		VideoStore:    stores.VideoStore,
		WorkflowStore: stores.WorkflowStore,
	}
	for _, f := range scenario.All() {
		if err := orchestrators.ExecuteSeedFixture(ctx, f, deps); err != nil {
			return fmt.Errorf("seed demo: %w", err)
		}
	}
	slog.Info("demo_seeded", "teams", len(scenario.All()))
	return nil
}
