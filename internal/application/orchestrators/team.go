package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"teamvideos/internal/domain/access"
	"teamvideos/internal/domain/activity"
	"teamvideos/internal/domain/team"
	"teamvideos/internal/domain/teammember"
)

// TeamStoreForOrchestrator defines the team store interface needed by team orchestrators.
type TeamStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (team.Team, error)
	GetBySlug(ctx context.Context, slug string) (team.Team, error)
	Save(ctx context.Context, t team.Team) error
}

// MemberStoreForOrchestrator defines the membership store interface.
type MemberStoreForOrchestrator interface {
	Get(ctx context.Context, teamID, accountID string) (teammember.Member, error)
	Save(ctx context.Context, m teammember.Member) error
}

var (
	ErrForbidden     = access.ErrForbidden
	ErrTeamSlugTaken = errors.New("a team with this slug already exists")
	ErrAlreadyMember = errors.New("account is already a member of this team")
)

// --- Create Team ---

// CreateTeamInput carries input for CreateTeam. Empty policies default to
// open membership, manager-and-admin video policy and all-members task policy.
type CreateTeamInput struct {
	Slug             string
	Name             string
	MembershipPolicy team.MembershipPolicy
	VideoPolicy      team.Policy
	TaskAssignPolicy team.Policy
	WorkflowEnabled  bool
}

// CreateTeamDeps holds dependencies for CreateTeam.
type CreateTeamDeps struct {
	TeamStore  TeamStoreForOrchestrator
	GenerateID func() string
}

// ExecuteCreateTeam creates a team.
// PRE: Slug unique; policies (if set) are valid
// POST: Team persisted; invalid policy values fail with team.ErrInvalidPolicy
func ExecuteCreateTeam(ctx context.Context, input CreateTeamInput, deps CreateTeamDeps) (team.Team, error) {
	t := team.Team{
		ID:               deps.GenerateID(),
		Slug:             input.Slug,
		Name:             input.Name,
		MembershipPolicy: input.MembershipPolicy,
		VideoPolicy:      input.VideoPolicy,
		TaskAssignPolicy: input.TaskAssignPolicy,
		WorkflowEnabled:  input.WorkflowEnabled,
	}
	if t.MembershipPolicy == "" {
		t.MembershipPolicy = team.MembershipOpen
	}
	if t.VideoPolicy == "" {
		t.VideoPolicy = team.PolicyManagerAndAdmin
	}
	if t.TaskAssignPolicy == "" {
		t.TaskAssignPolicy = team.PolicyAllMembers
	}
	if err := t.Validate(); err != nil {
		return team.Team{}, err
	}
	if _, err := deps.TeamStore.GetBySlug(ctx, t.Slug); err == nil {
		return team.Team{}, ErrTeamSlugTaken
	} else if !errors.Is(err, team.ErrNotFound) {
		return team.Team{}, err
	}
	if err := deps.TeamStore.Save(ctx, t); err != nil {
		return team.Team{}, err
	}
	slog.Info("team_event", "event", "team_created", "team", t.Slug, "video_policy", t.VideoPolicy, "task_assign_policy", t.TaskAssignPolicy)
	return t, nil
}

// --- Add Team Member ---

// AddTeamMemberInput carries input for AddTeamMember. Role accepts the
// legacy ROLE_* spelling.
type AddTeamMemberInput struct {
	TeamID    string
	AccountID string
	Role      string
}

// AddTeamMemberDeps holds dependencies for AddTeamMember.
type AddTeamMemberDeps struct {
	MemberStore MemberStoreForOrchestrator
	GenerateID  func() string
}

// ExecuteAddTeamMember adds an account to a team.
// PRE: team and account exist
// POST: Membership persisted
// INVARIANT: one membership per (team, account)
func ExecuteAddTeamMember(ctx context.Context, input AddTeamMemberInput, deps AddTeamMemberDeps) (teammember.Member, error) {
	role, err := teammember.ParseRole(input.Role)
	if err != nil {
		return teammember.Member{}, err
	}
	if _, err := deps.MemberStore.Get(ctx, input.TeamID, input.AccountID); err == nil {
		return teammember.Member{}, ErrAlreadyMember
	} else if !errors.Is(err, teammember.ErrNotFound) {
		return teammember.Member{}, err
	}

	m := teammember.Member{
		ID:        deps.GenerateID(),
		TeamID:    input.TeamID,
		AccountID: input.AccountID,
		Role:      role,
	}
	if err := m.Validate(); err != nil {
		return teammember.Member{}, err
	}
	if err := deps.MemberStore.Save(ctx, m); err != nil {
		return teammember.Member{}, err
	}
	slog.Info("team_event", "event", "member_added", "team_id", m.TeamID, "account_id", m.AccountID, "role", m.Role)
	return m, nil
}

// --- Restrict Manager Language ---

// RestrictManagerLanguageDeps holds dependencies for RestrictManagerLanguage.
type RestrictManagerLanguageDeps struct {
	MemberStore MemberStoreForOrchestrator
}

// ExecuteRestrictManagerLanguage scopes a manager to a subtitle language.
// PRE: the membership exists
// POST: language added to the manager's restricted set
// INVARIANT: only managers may be restricted (teammember.ErrRestrictedNonManager)
func ExecuteRestrictManagerLanguage(ctx context.Context, teamID, accountID, code string, deps RestrictManagerLanguageDeps) (teammember.Member, error) {
	m, err := deps.MemberStore.Get(ctx, teamID, accountID)
	if err != nil {
		return teammember.Member{}, err
	}
	if err := m.RestrictTo(code); err != nil {
		return teammember.Member{}, err
	}
	if err := deps.MemberStore.Save(ctx, m); err != nil {
		return teammember.Member{}, err
	}
	slog.Info("team_event", "event", "manager_restricted", "team_id", teamID, "account_id", accountID, "language", code)
	return m, nil
}

// --- Set Team Policy ---

// SetTeamPolicyInput carries a policy change. Empty fields are left as they are.
// Values are policy names ("admin-only") or legacy numeric codes
// (video 1/2/3, task assignment 10/20/30).
type SetTeamPolicyInput struct {
	TeamSlug         string
	Actor            access.Actor
	ActorName        string
	VideoPolicy      string
	TaskAssignPolicy string
}

// SetTeamPolicyDeps holds dependencies for SetTeamPolicy.
type SetTeamPolicyDeps struct {
	TeamStore TeamStoreForOrchestrator
	Activity  ActivityRecorder
	Now       func() time.Time
}

// ExecuteSetTeamPolicy changes a team's video and task assignment policies.
// PRE: Actor is a team admin or owner
// POST: Team saved; the next evaluation observes the new values
func ExecuteSetTeamPolicy(ctx context.Context, input SetTeamPolicyInput, deps SetTeamPolicyDeps) (team.Team, error) {
	if !access.CanManagePolicy(input.Actor) {
		return team.Team{}, ErrForbidden
	}
	t, err := deps.TeamStore.GetBySlug(ctx, input.TeamSlug)
	if err != nil {
		return team.Team{}, err
	}
	if input.VideoPolicy != "" {
		p, err := parsePolicyValue(input.VideoPolicy, team.VideoPolicyFromCode)
		if err != nil {
			return team.Team{}, err
		}
		if err := t.SetVideoPolicy(p); err != nil {
			return team.Team{}, err
		}
	}
	if input.TaskAssignPolicy != "" {
		p, err := parsePolicyValue(input.TaskAssignPolicy, team.TaskAssignPolicyFromCode)
		if err != nil {
			return team.Team{}, err
		}
		if err := t.SetTaskAssignPolicy(p); err != nil {
			return team.Team{}, err
		}
	}
	if err := deps.TeamStore.Save(ctx, t); err != nil {
		return team.Team{}, fmt.Errorf("save team policy: %w", err)
	}
	recordActivity(ctx, deps.Activity, activity.NewEvent(t.ID, input.ActorName, activity.ActionPolicyChanged, nowOr(deps.Now)).
		WithResource(activity.ResourceTeam, t.ID).
		WithDescription(fmt.Sprintf("video policy %s, task assign policy %s", t.VideoPolicy, t.TaskAssignPolicy)))
	slog.Info("policy_event", "event", "policy_changed", "team", t.Slug, "video_policy", t.VideoPolicy, "task_assign_policy", t.TaskAssignPolicy)
	return t, nil
}

func parsePolicyValue(raw string, fromCode func(int) (team.Policy, error)) (team.Policy, error) {
	raw = strings.TrimSpace(raw)
	if code, err := strconv.Atoi(raw); err == nil {
		return fromCode(code)
	}
	return team.ParsePolicy(raw)
}
