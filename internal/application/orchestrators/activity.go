package orchestrators

import (
	"context"
	"log/slog"

	"teamvideos/internal/domain/activity"
)

// ActivityRecorder persists team activity events.
type ActivityRecorder interface {
	Save(ctx context.Context, e activity.Event) error
}

// recordActivity saves e when a recorder is configured. A failed write is
// logged and does not undo the change it describes.
func recordActivity(ctx context.Context, rec ActivityRecorder, e activity.Event) {
	if rec == nil {
		return
	}
	if err := rec.Save(ctx, e); err != nil {
		slog.Warn("activity_event", "event", "record_failed", "team_id", e.TeamID, "action", e.Action, "error", err)
	}
}
