package web

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"teamvideos/internal/adapters/http/middleware"
	"teamvideos/internal/adapters/index"
	"teamvideos/internal/adapters/perf"
	accountStore "teamvideos/internal/adapters/storage/account"
	activityStore "teamvideos/internal/adapters/storage/activity"
	projectStore "teamvideos/internal/adapters/storage/project"
	teamStore "teamvideos/internal/adapters/storage/team"
	memberStore "teamvideos/internal/adapters/storage/teammember"
	videoStore "teamvideos/internal/adapters/storage/video"
	workflowStore "teamvideos/internal/adapters/storage/workflow"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore  accountStore.Store
	TeamStore     teamStore.Store
	MemberStore   memberStore.Store
	ProjectStore  projectStore.Store
	VideoStore    videoStore.Store
	WorkflowStore workflowStore.Store
	ActivityStore activityStore.Store
}

// Config carries the HTTP adapter settings resolved by cmd/server.
type Config struct {
	StaticDir      string
	CSRFKey        []byte
	Secure         bool // production: secure cookies and TLS-only CSRF checks
	TrustedOrigins []string
	// ElevatedRoles get the larger page size on team video listings.
	ElevatedRoles      []string
	RateLimitPerSecond int
	SlowRequest        time.Duration
}

// ErrCSRFKeyRequired is returned by LoadCSRFKey in production without a key.
var ErrCSRFKeyRequired = errors.New("csrf key is required in production")

// ErrCSRFKeyInvalid is returned for a key that is not 64 hex characters.
var ErrCSRFKeyInvalid = errors.New("csrf key must be 64 hex characters (32 bytes)")

// LoadCSRFKey decodes the hex CSRF secret. In production the key MUST be set.
// In development an empty key yields a random key per startup.
func LoadCSRFKey(keyHex string, production bool) ([]byte, error) {
	if keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			return nil, ErrCSRFKeyInvalid
		}
		return key, nil
	}
	if production {
		return nil, ErrCSRFKeyRequired
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	slog.Warn("csrf_key_random", "reason", "no key configured; sessions won't survive restart")
	return key, nil
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// Global search index (set by NewMux)
var videoIndex *index.VideoIndex

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// elevatedRoles is copied from Config by NewMux.
var elevatedRoles []string

// NewMux wires HTTP handlers for the app.
// PRE: s and idx are non-nil; cfg.CSRFKey is 32 bytes
// POST: returns the handler with the full middleware chain applied, and a
// stop func that ends the rate limiter's background cleanup
func NewMux(cfg Config, s *Stores, idx *index.VideoIndex, collector *perf.Collector) (http.Handler, func()) {
	stores = s
	videoIndex = idx
	perfCollector = collector
	elevatedRoles = cfg.ElevatedRoles
	sessions = middleware.NewSessionStore()
	middleware.SecureCookies = cfg.Secure

	mux := http.NewServeMux()
	if cfg.StaticDir != "" {
		mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir))))
	}
	registerRoutes(mux)

	rate := cfg.RateLimitPerSecond
	if rate <= 0 {
		rate = 10
	}
	limiter := middleware.NewRateLimiter(rate, time.Second)

	// Apply middleware: Timing -> RateLimit -> Auth -> CSRF -> SecurityHeaders -> Mux
	handler := middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(cfg.CSRFKey, cfg.Secure, cfg.TrustedOrigins),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(collector, cfg.SlowRequest),
	)
	return handler, limiter.Stop
}
