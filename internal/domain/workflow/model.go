package workflow

import (
	"errors"
	"fmt"

	"teamvideos/internal/domain/video"
)

// Review settings for a team workflow.
const (
	ReviewNone    = 0
	ReviewPeer    = 10
	ReviewManager = 20
	ReviewAdmin   = 30
)

// ErrInvalidReview is returned for an unknown review setting.
var ErrInvalidReview = errors.New("review_allowed must be 0, 10, 20 or 30")

// Workflow holds a team's automatic task settings.
type Workflow struct {
	TeamID              string
	AutocreateSubtitle  bool
	AutocreateTranslate bool
	ReviewAllowed       int
}

// Validate checks if the Workflow has valid data.
// PRE: Workflow struct is populated
// POST: Returns nil if valid, error otherwise
func (w *Workflow) Validate() error {
	if w.TeamID == "" {
		return errors.New("workflow requires a team")
	}
	switch w.ReviewAllowed {
	case ReviewNone, ReviewPeer, ReviewManager, ReviewAdmin:
		return nil
	}
	return ErrInvalidReview
}

// AutomaticTasks reports whether tasks are created without manual assignment.
func (w *Workflow) AutomaticTasks() bool {
	return w.AutocreateSubtitle || w.AutocreateTranslate
}

// NeededLanguages returns the preferred languages that still lack a completed
// subtitle on v, in preference order.
// INVARIANT: inputs are not mutated
func NeededLanguages(v video.Video, preferred []string) []string {
	var needed []string
	for _, code := range preferred {
		if !v.HasCompleted(code) {
			needed = append(needed, code)
		}
	}
	return needed
}

// LanguageLabel is the per-row language summary on the team videos page.
// Without automatic tasks it counts completed languages ("1 language");
// with automatic tasks it counts preferred languages still needed
// ("3 languages needed").
func LanguageLabel(v video.Video, wf *Workflow, preferred []string) string {
	if wf != nil && wf.AutomaticTasks() {
		return plural(len(NeededLanguages(v, preferred)), "language") + " needed"
	}
	return plural(v.CompletedCount(), "language")
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
