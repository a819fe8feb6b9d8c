// Package access decides which guarded team-video affordances an actor sees.
//
// Evaluation is a pure function of the team, actor and video values passed in.
// Nothing is cached, so a policy change on the team is observed by the next call.
package access

import (
	"errors"
	"strings"

	"teamvideos/internal/domain/team"
	"teamvideos/internal/domain/teammember"
	"teamvideos/internal/domain/video"
)

// ErrForbidden is returned when an actor attempts a guarded action it cannot see.
var ErrForbidden = errors.New("not permitted")

// Actor is the viewer of a team page. Role is RoleNone for anonymous guests
// and for signed-in users who are not members of the team.
type Actor struct {
	Authenticated       bool
	Role                teammember.Role
	RestrictedLanguages []string
}

// Guest returns the anonymous actor.
func Guest() Actor {
	return Actor{}
}

// NonMember returns a signed-in actor without a membership in the team.
func NonMember() Actor {
	return Actor{Authenticated: true}
}

// ForMember returns the actor for a team membership. Restricted language
// codes are normalized so "EN" and "en" name the same track.
func ForMember(m teammember.Member) Actor {
	var langs []string
	for _, code := range m.RestrictedLanguages {
		langs = append(langs, teammember.NormalizeLanguage(code))
	}
	return Actor{
		Authenticated:       true,
		Role:                m.Role,
		RestrictedLanguages: langs,
	}
}

// IsMember reports whether the actor holds a valid role in the team.
func (a Actor) IsMember() bool {
	return a.Authenticated && a.Role.Valid()
}

// Restricted reports whether the actor is a language-restricted manager.
func (a Actor) Restricted() bool {
	return a.Role == teammember.RoleManager && len(a.RestrictedLanguages) > 0
}

// Affordances are the guarded links of one video row.
type Affordances struct {
	Edit  bool
	Tasks bool
}

// CanSeeEdit reports whether the actor sees the Edit link for v.
// Governed by the team's video policy.
func CanSeeEdit(t team.Team, a Actor, v video.Video) bool {
	return allowed(t.VideoPolicy, a, v)
}

// CanSeeTasks reports whether the actor sees the Tasks link for v.
// Governed by the team's task assign policy.
func CanSeeTasks(t team.Team, a Actor, v video.Video) bool {
	return allowed(t.TaskAssignPolicy, a, v)
}

// Evaluate computes both affordances for one row.
func Evaluate(t team.Team, a Actor, v video.Video) Affordances {
	return Affordances{
		Edit:  CanSeeEdit(t, a, v),
		Tasks: CanSeeTasks(t, a, v),
	}
}

// CanAddVideo reports whether the actor may submit a new video to the team.
// Governed by the video policy; a language-restricted manager is refused
// because a new video carries no tracks in their scope.
func CanAddVideo(t team.Team, a Actor) bool {
	return allowed(t.VideoPolicy, a, video.Video{})
}

// CanManagePolicy reports whether the actor may change team policies.
func CanManagePolicy(a Actor) bool {
	return a.IsMember() && a.Role.AtLeastAdmin()
}

// allowed is the shared rule for every policy-gated affordance.
// PRE: none; unknown policy or role values deny
// POST: non-members are always denied
func allowed(p team.Policy, a Actor, v video.Video) bool {
	if !a.IsMember() {
		return false
	}
	switch p {
	case team.PolicyAllMembers:
		return true
	case team.PolicyManagerAndAdmin:
		if !a.Role.AtLeastManager() {
			return false
		}
		if a.Restricted() {
			return coversVideo(a.RestrictedLanguages, v)
		}
		return true
	case team.PolicyAdminOnly:
		return a.Role.AtLeastAdmin()
	}
	return false
}

// coversVideo reports whether any existing or in-progress track of v is in langs.
func coversVideo(langs []string, v video.Video) bool {
	for _, code := range v.LanguageCodes() {
		for _, l := range langs {
			if strings.EqualFold(code, l) {
				return true
			}
		}
	}
	return false
}
