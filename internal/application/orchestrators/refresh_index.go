package orchestrators

import (
	"context"
	"log/slog"
	"time"
)

// IndexRefresher rebuilds the search snapshot from the stores.
type IndexRefresher interface {
	Refresh(ctx context.Context) (int, error)
}

// RefreshIndexInput identifies who asked for the refresh.
type RefreshIndexInput struct {
	RequestedBy string
	SiteAdmin   bool
}

// RefreshIndexDeps holds dependencies for RefreshIndex.
type RefreshIndexDeps struct {
	Index IndexRefresher
	Now   func() time.Time
}

// ExecuteRefreshIndex makes recent video changes visible to search.
// PRE: requester is a site admin
// POST: returns the number of indexed videos
func ExecuteRefreshIndex(ctx context.Context, input RefreshIndexInput, deps RefreshIndexDeps) (int, error) {
	if !input.SiteAdmin {
		return 0, ErrForbidden
	}
	start := nowOr(deps.Now)
	n, err := deps.Index.Refresh(ctx)
	if err != nil {
		slog.Error("index_event", "event", "refresh_failed", "requested_by", input.RequestedBy, "error", err)
		return 0, err
	}
	slog.Info("index_event", "event", "refreshed", "requested_by", input.RequestedBy, "videos", n,
		"duration_ms", nowOr(deps.Now).Sub(start).Milliseconds())
	return n, nil
}
