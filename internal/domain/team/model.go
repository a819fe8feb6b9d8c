package team

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength = 100
	MaxSlugLength = 50
)

// MembershipPolicy controls how users join a team.
type MembershipPolicy string

// Membership policy values.
const (
	MembershipOpen        MembershipPolicy = "open"
	MembershipApplication MembershipPolicy = "application"
	MembershipInvite      MembershipPolicy = "invite"
	MembershipClosed      MembershipPolicy = "closed"
)

// Policy gates a team affordance by member role. VideoPolicy and
// TaskAssignPolicy share the same closed set of values.
type Policy string

// Policy values.
const (
	PolicyAllMembers      Policy = "all-members"
	PolicyManagerAndAdmin Policy = "manager-and-admin"
	PolicyAdminOnly       Policy = "admin-only"
)

// Domain errors
var (
	ErrInvalidPolicy = errors.New("invalid team policy value")
	ErrInvalidSlug   = errors.New("team slug must be lowercase letters, digits and dashes")
	ErrEmptyName     = errors.New("team name cannot be empty")
	ErrNameTooLong   = errors.New("team name cannot exceed 100 characters")
	ErrNotFound      = errors.New("team not found")
)

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// Team holds state for the Team concept.
type Team struct {
	ID                 string
	Slug               string
	Name               string
	MembershipPolicy   MembershipPolicy
	VideoPolicy        Policy
	TaskAssignPolicy   Policy
	WorkflowEnabled    bool
	PreferredLanguages []string
}

// Validate checks if the Team has valid data.
// PRE: Team struct is populated
// POST: Returns nil if valid; policy errors wrap ErrInvalidPolicy
func (t *Team) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return ErrEmptyName
	}
	if len(t.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if len(t.Slug) > MaxSlugLength || !slugPattern.MatchString(t.Slug) {
		return ErrInvalidSlug
	}
	if !t.MembershipPolicy.Valid() {
		return fmt.Errorf("membership_policy %q: %w", t.MembershipPolicy, ErrInvalidPolicy)
	}
	if !t.VideoPolicy.Valid() {
		return fmt.Errorf("video_policy %q: %w", t.VideoPolicy, ErrInvalidPolicy)
	}
	if !t.TaskAssignPolicy.Valid() {
		return fmt.Errorf("task_assign_policy %q: %w", t.TaskAssignPolicy, ErrInvalidPolicy)
	}
	return nil
}

// SetVideoPolicy replaces the video policy.
// PRE: p is one of the Policy values
// POST: VideoPolicy = p; team is unchanged on error
func (t *Team) SetVideoPolicy(p Policy) error {
	if !p.Valid() {
		return fmt.Errorf("video_policy %q: %w", p, ErrInvalidPolicy)
	}
	t.VideoPolicy = p
	return nil
}

// SetTaskAssignPolicy replaces the task assign policy.
// PRE: p is one of the Policy values
// POST: TaskAssignPolicy = p; team is unchanged on error
func (t *Team) SetTaskAssignPolicy(p Policy) error {
	if !p.Valid() {
		return fmt.Errorf("task_assign_policy %q: %w", p, ErrInvalidPolicy)
	}
	t.TaskAssignPolicy = p
	return nil
}

// Valid reports whether p is a known policy value.
func (p Policy) Valid() bool {
	switch p {
	case PolicyAllMembers, PolicyManagerAndAdmin, PolicyAdminOnly:
		return true
	}
	return false
}

// Valid reports whether m is a known membership policy value.
func (m MembershipPolicy) Valid() bool {
	switch m {
	case MembershipOpen, MembershipApplication, MembershipInvite, MembershipClosed:
		return true
	}
	return false
}

// ParsePolicy converts a policy name to a Policy.
// PRE: none
// POST: Returns ErrInvalidPolicy for anything outside the closed set
func ParsePolicy(s string) (Policy, error) {
	p := Policy(strings.TrimSpace(strings.ToLower(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%q: %w", s, ErrInvalidPolicy)
	}
	return p, nil
}

// ParseMembershipPolicy converts a membership policy name.
func ParseMembershipPolicy(s string) (MembershipPolicy, error) {
	m := MembershipPolicy(strings.TrimSpace(strings.ToLower(s)))
	if !m.Valid() {
		return "", fmt.Errorf("%q: %w", s, ErrInvalidPolicy)
	}
	return m, nil
}

// legacy numeric encodings used by older team settings exports
var (
	videoPolicyCodes = map[int]Policy{
		1: PolicyAllMembers,
		2: PolicyManagerAndAdmin,
		3: PolicyAdminOnly,
	}
	taskAssignPolicyCodes = map[int]Policy{
		10: PolicyAllMembers,
		20: PolicyManagerAndAdmin,
		30: PolicyAdminOnly,
	}
)

// VideoPolicyFromCode maps a legacy numeric video policy (1, 2, 3).
// POST: Any other code returns ErrInvalidPolicy
func VideoPolicyFromCode(code int) (Policy, error) {
	if p, ok := videoPolicyCodes[code]; ok {
		return p, nil
	}
	return "", fmt.Errorf("video_policy code %d: %w", code, ErrInvalidPolicy)
}

// TaskAssignPolicyFromCode maps a legacy numeric task assign policy (10, 20, 30).
// POST: Any other code returns ErrInvalidPolicy
func TaskAssignPolicyFromCode(code int) (Policy, error) {
	if p, ok := taskAssignPolicyCodes[code]; ok {
		return p, nil
	}
	return "", fmt.Errorf("task_assign_policy code %d: %w", code, ErrInvalidPolicy)
}
