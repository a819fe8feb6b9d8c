package projections

import (
	"context"
	"errors"

	"teamvideos/internal/domain/access"
	domainMember "teamvideos/internal/domain/teammember"
)

// ResolveActor maps a signed-in account to its actor in a team.
// POST: "" is the guest; an account without a membership is a non-member
func ResolveActor(ctx context.Context, members MemberStore, teamID, accountID string) (access.Actor, error) {
	if accountID == "" {
		return access.Guest(), nil
	}
	m, err := members.Get(ctx, teamID, accountID)
	if errors.Is(err, domainMember.ErrNotFound) {
		return access.NonMember(), nil
	}
	if err != nil {
		return access.Actor{}, err
	}
	return access.ForMember(m), nil
}
