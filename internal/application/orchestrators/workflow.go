package orchestrators

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"teamvideos/internal/domain/workflow"
)

// WorkflowStoreForOrchestrator defines the workflow store interface.
type WorkflowStoreForOrchestrator interface {
	Save(ctx context.Context, w workflow.Workflow) error
}

// EnableAutomaticTasksInput carries the team's automatic task settings.
type EnableAutomaticTasksInput struct {
	TeamID             string
	Subtitle           bool
	Translate          bool
	ReviewAllowed      int
	PreferredLanguages []string
}

// EnableAutomaticTasksDeps holds dependencies for EnableAutomaticTasks.
type EnableAutomaticTasksDeps struct {
	WorkflowStore WorkflowStoreForOrchestrator
	TeamStore     TeamStoreForOrchestrator
}

// ExecuteEnableAutomaticTasks saves the team workflow and its preferred languages.
// POST: workflow saved; team.WorkflowEnabled set; PreferredLanguages replaced in order
func ExecuteEnableAutomaticTasks(ctx context.Context, input EnableAutomaticTasksInput, deps EnableAutomaticTasksDeps) error {
	wf := workflow.Workflow{
		TeamID:              input.TeamID,
		AutocreateSubtitle:  input.Subtitle,
		AutocreateTranslate: input.Translate,
		ReviewAllowed:       input.ReviewAllowed,
	}
	if err := wf.Validate(); err != nil {
		return err
	}

	t, err := deps.TeamStore.GetByID(ctx, input.TeamID)
	if err != nil {
		return err
	}
	t.WorkflowEnabled = true
	var preferred []string
	for _, code := range input.PreferredLanguages {
		code = strings.ToLower(strings.TrimSpace(code))
		if code != "" && !slices.Contains(preferred, code) {
			preferred = append(preferred, code)
		}
	}
	t.PreferredLanguages = preferred

	if err := deps.WorkflowStore.Save(ctx, wf); err != nil {
		return err
	}
	if err := deps.TeamStore.Save(ctx, t); err != nil {
		return err
	}
	slog.Info("team_event", "event", "automatic_tasks_enabled", "team", t.Slug, "preferred_languages", t.PreferredLanguages)
	return nil
}
