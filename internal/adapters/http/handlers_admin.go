package web

import (
	"net/http"
	"strconv"
	"time"

	"teamvideos/internal/adapters/http/middleware"
	"teamvideos/internal/adapters/perf"
	accountStore "teamvideos/internal/adapters/storage/account"
	"teamvideos/internal/application/orchestrators"
)

// handleRefreshIndex handles POST /api/index/refresh
func handleRefreshIndex(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	n, err := orchestrators.ExecuteRefreshIndex(r.Context(), orchestrators.RefreshIndexInput{
		RequestedBy: sess.Username,
		SiteAdmin:   sess.IsSiteAdmin(),
	}, orchestrators.RefreshIndexDeps{Index: videoIndex})
	if err != nil {
		internalError(w, err)
		return
	}
	_, refreshedAt := videoIndex.Stats()
	writeJSON(w, http.StatusOK, map[string]any{
		"videos":       n,
		"refreshed_at": refreshedAt,
	})
}

// perfResponse is the body of GET /api/admin/perf.
type perfResponse struct {
	Window         string        `json:"window"`
	Perf           perf.Snapshot `json:"perf"`
	IndexedVideos  int           `json:"indexed_videos"`
	IndexRefreshed time.Time     `json:"index_refreshed_at"`
}

// handleAdminPerf handles GET /api/admin/perf?minutes=N (default 15).
func handleAdminPerf(w http.ResponseWriter, r *http.Request) {
	minutes, err := strconv.Atoi(r.URL.Query().Get("minutes"))
	if err != nil || minutes <= 0 {
		minutes = 15
	}
	window := time.Duration(minutes) * time.Minute

	resp := perfResponse{Window: window.String()}
	if perfCollector != nil {
		resp.Perf = perfCollector.Snapshot(time.Now().Add(-window), 10)
	}
	resp.IndexedVideos, resp.IndexRefreshed = videoIndex.Stats()
	writeJSON(w, http.StatusOK, resp)
}

// handleAdminAccounts handles GET /api/admin/accounts?role=&limit=&offset=
func handleAdminAccounts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := accountStore.ListFilter{Role: q.Get("role")}
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))
	filter.Offset, _ = strconv.Atoi(q.Get("offset"))
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	accounts, err := stores.AccountStore.List(r.Context(), filter)
	if err != nil {
		internalError(w, err)
		return
	}
	total, err := stores.AccountStore.Count(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}

	type accountJSON struct {
		ID        string    `json:"id"`
		Username  string    `json:"username"`
		Role      string    `json:"role"`
		CreatedAt time.Time `json:"created_at"`
		Locked    bool      `json:"locked"`
	}
	now := time.Now()
	out := make([]accountJSON, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, accountJSON{
			ID: a.ID, Username: a.Username, Role: a.Role, CreatedAt: a.CreatedAt, Locked: a.IsLocked(now),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"total": total, "accounts": out})
}
