package teammember

import (
	"errors"
	"fmt"
	"strings"
)

// Role is a member's role within one team.
type Role string

// Role values. RoleNone is the zero value and means "not a member".
const (
	RoleNone        Role = ""
	RoleContributor Role = "contributor"
	RoleManager     Role = "manager"
	RoleAdmin       Role = "admin"
	RoleOwner       Role = "owner"
)

// ValidRoles contains all valid member roles.
var ValidRoles = []Role{RoleContributor, RoleManager, RoleAdmin, RoleOwner}

// Domain errors
var (
	ErrInvalidRole          = errors.New("role must be one of: contributor, manager, admin, owner")
	ErrRestrictedNonManager = errors.New("language restrictions apply to managers only")
	ErrNotFound             = errors.New("team member not found")
	ErrEmptyTeam            = errors.New("team member requires a team")
	ErrEmptyAccount         = errors.New("team member requires an account")
)

// Member is a (team, account) pair with a role.
// A manager with RestrictedLanguages is a "restricted manager": their authority
// covers only videos with subtitle work in those languages.
type Member struct {
	ID                  string
	TeamID              string
	AccountID           string
	Role                Role
	RestrictedLanguages []string
}

// Validate checks if the Member has valid data.
// PRE: Member struct is populated
// POST: Returns nil if valid, error otherwise
// INVARIANT: only managers carry restricted languages
func (m *Member) Validate() error {
	if m.TeamID == "" {
		return ErrEmptyTeam
	}
	if m.AccountID == "" {
		return ErrEmptyAccount
	}
	if !m.Role.Valid() {
		return fmt.Errorf("%q: %w", m.Role, ErrInvalidRole)
	}
	if len(m.RestrictedLanguages) > 0 && m.Role != RoleManager {
		return ErrRestrictedNonManager
	}
	return nil
}

// IsRestricted reports whether the member is a language-restricted manager.
// INVARIANT: Member fields are not mutated
func (m *Member) IsRestricted() bool {
	return m.Role == RoleManager && len(m.RestrictedLanguages) > 0
}

// RestrictTo adds a language to a manager's restricted set.
// PRE: Role is manager, code is non-empty
// POST: code is present once in RestrictedLanguages
func (m *Member) RestrictTo(code string) error {
	if m.Role != RoleManager {
		return ErrRestrictedNonManager
	}
	code = NormalizeLanguage(code)
	if code == "" {
		return errors.New("language code cannot be empty")
	}
	for _, c := range m.RestrictedLanguages {
		if c == code {
			return nil
		}
	}
	m.RestrictedLanguages = append(m.RestrictedLanguages, code)
	return nil
}

// NormalizeLanguage trims and lowercases a subtitle language code.
func NormalizeLanguage(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// Valid reports whether r is a member role. RoleNone is not.
func (r Role) Valid() bool {
	switch r {
	case RoleContributor, RoleManager, RoleAdmin, RoleOwner:
		return true
	}
	return false
}

// AtLeastAdmin reports whether r is admin or owner.
func (r Role) AtLeastAdmin() bool {
	return r == RoleAdmin || r == RoleOwner
}

// AtLeastManager reports whether r is manager, admin or owner.
func (r Role) AtLeastManager() bool {
	return r == RoleManager || r.AtLeastAdmin()
}

// ParseRole converts a role name to a Role. Legacy "ROLE_CONTRIBUTOR" style
// names are accepted.
func ParseRole(s string) (Role, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "role_")
	r := Role(s)
	if !r.Valid() {
		return RoleNone, fmt.Errorf("%q: %w", s, ErrInvalidRole)
	}
	return r, nil
}
