// Package index holds an in-process snapshot of every team video for search.
//
// The snapshot is rebuilt only by Refresh. Writes to the stores become
// searchable after the next refresh; reads in between see the previous snapshot.
package index

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"teamvideos/internal/adapters/perf"
	"teamvideos/internal/application/videoquery"
	"teamvideos/internal/domain/video"
)

// VideoSource lists the videos to index.
type VideoSource interface {
	ListTeamVideos(ctx context.Context) ([]video.Video, error)
}

// VideoIndex is a team-partitioned snapshot of videos. It is safe for
// concurrent use.
type VideoIndex struct {
	source   VideoSource
	recorder perf.Recorder

	mu          sync.RWMutex
	byTeam      map[string][]video.Video
	total       int
	refreshedAt time.Time
}

// New returns an empty index over source. Nothing is searchable until the
// first Refresh.
func New(source VideoSource) *VideoIndex {
	return &VideoIndex{source: source, byTeam: make(map[string][]video.Video)}
}

// SetRecorder reports search and refresh timings to r.
// PRE: called before the index is shared between goroutines
func (x *VideoIndex) SetRecorder(r perf.Recorder) {
	x.recorder = r
}

// Refresh replaces the snapshot with the current contents of the source.
// PRE: none
// POST: returns the number of indexed videos; on error the old snapshot is kept
func (x *VideoIndex) Refresh(ctx context.Context) (int, error) {
	start := time.Now()
	videos, err := x.source.ListTeamVideos(ctx)
	if err != nil {
		return 0, fmt.Errorf("index refresh: %w", err)
	}
	byTeam := make(map[string][]video.Video)
	for _, v := range videos {
		if v.TeamID == "" {
			continue
		}
		byTeam[v.TeamID] = append(byTeam[v.TeamID], v)
	}

	x.mu.Lock()
	x.byTeam = byTeam
	x.total = len(videos)
	x.refreshedAt = start
	x.mu.Unlock()

	x.record(perf.KindRefresh, "index", start)
	slog.Debug("index_event", "event", "snapshot_built", "videos", len(videos), "teams", len(byTeam))
	return len(videos), nil
}

// Search resolves q against the snapshot of one team.
// INVARIANT: the snapshot is not mutated; results are fresh slices
func (x *VideoIndex) Search(teamID string, q videoquery.Query) videoquery.Result {
	start := time.Now()
	x.mu.RLock()
	videos := x.byTeam[teamID]
	x.mu.RUnlock()

	res := videoquery.Resolve(videos, q)
	x.record(perf.KindSearch, teamID, start)
	return res
}

// Stats returns the number of indexed videos and when the snapshot was built.
func (x *VideoIndex) Stats() (videos int, refreshedAt time.Time) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.total, x.refreshedAt
}

func (x *VideoIndex) record(kind perf.EntryKind, path string, start time.Time) {
	if x.recorder == nil {
		return
	}
	x.recorder.Record(perf.Entry{
		Kind:       kind,
		Path:       path,
		DurationMs: float64(time.Since(start).Microseconds()) / 1000.0,
		Timestamp:  start,
	})
}

// StartRefresher refreshes the index every interval until ctx is done.
// PRE: interval > 0 (otherwise nothing is started)
// POST: goroutine started; the returned function stops it
func StartRefresher(ctx context.Context, x *VideoIndex, interval time.Duration) func() {
	if interval <= 0 {
		return func() {}
	}
	ctx, cancel := context.WithCancel(ctx)

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := x.Refresh(ctx); err != nil {
					slog.Error("index_event", "event", "scheduled_refresh_failed", "error", err)
				}
			}
		}
	}()

	return cancel
}
