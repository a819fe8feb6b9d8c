package orchestrators

import (
	"context"
	"errors"
	"testing"

	"teamvideos/internal/domain/access"
	"teamvideos/internal/domain/team"
	"teamvideos/internal/domain/teammember"
)

func limitedTeam() team.Team {
	return team.Team{
		ID:               "t1",
		Slug:             "limited-access",
		Name:             "Limited Access",
		MembershipPolicy: team.MembershipOpen,
		VideoPolicy:      team.PolicyManagerAndAdmin,
		TaskAssignPolicy: team.PolicyManagerAndAdmin,
	}
}

func adminActor() access.Actor {
	return access.ForMember(teammember.Member{Role: teammember.RoleAdmin})
}

// TestExecuteCreateTeam_Defaults tests default policies are applied.
func TestExecuteCreateTeam_Defaults(t *testing.T) {
	store := newMockTeamStore()
	tm, err := ExecuteCreateTeam(context.Background(), CreateTeamInput{Slug: "volunteer", Name: "Volunteer"},
		CreateTeamDeps{TeamStore: store, GenerateID: sequentialIDs()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tm.VideoPolicy != team.PolicyManagerAndAdmin || tm.TaskAssignPolicy != team.PolicyAllMembers {
		t.Errorf("policies = %s/%s", tm.VideoPolicy, tm.TaskAssignPolicy)
	}
	if _, err := ExecuteCreateTeam(context.Background(), CreateTeamInput{Slug: "volunteer", Name: "Again"},
		CreateTeamDeps{TeamStore: store, GenerateID: sequentialIDs()}); !errors.Is(err, ErrTeamSlugTaken) {
		t.Errorf("expected ErrTeamSlugTaken, got %v", err)
	}
}

// TestExecuteCreateTeam_InvalidPolicy tests invalid policies fail at creation.
func TestExecuteCreateTeam_InvalidPolicy(t *testing.T) {
	store := newMockTeamStore()
	_, err := ExecuteCreateTeam(context.Background(), CreateTeamInput{Slug: "x", Name: "X", VideoPolicy: "everyone"},
		CreateTeamDeps{TeamStore: store, GenerateID: sequentialIDs()})
	if !errors.Is(err, team.ErrInvalidPolicy) {
		t.Errorf("expected ErrInvalidPolicy, got %v", err)
	}
	if store.saves != 0 {
		t.Error("invalid team should not be saved")
	}
}

// TestExecuteAddTeamMember tests legacy roles and uniqueness.
func TestExecuteAddTeamMember(t *testing.T) {
	store := newMockMemberStore()
	deps := AddTeamMemberDeps{MemberStore: store, GenerateID: sequentialIDs()}

	m, err := ExecuteAddTeamMember(context.Background(), AddTeamMemberInput{TeamID: "t1", AccountID: "a1", Role: "ROLE_CONTRIBUTOR"}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Role != teammember.RoleContributor {
		t.Errorf("role = %s", m.Role)
	}
	if _, err := ExecuteAddTeamMember(context.Background(), AddTeamMemberInput{TeamID: "t1", AccountID: "a1", Role: "admin"}, deps); !errors.Is(err, ErrAlreadyMember) {
		t.Errorf("expected ErrAlreadyMember, got %v", err)
	}
	if _, err := ExecuteAddTeamMember(context.Background(), AddTeamMemberInput{TeamID: "t1", AccountID: "a2", Role: "ROLE_GUEST"}, deps); !errors.Is(err, teammember.ErrInvalidRole) {
		t.Errorf("expected ErrInvalidRole, got %v", err)
	}
}

// TestExecuteRestrictManagerLanguage tests only managers can be restricted.
func TestExecuteRestrictManagerLanguage(t *testing.T) {
	store := newMockMemberStore(
		teammember.Member{ID: "m1", TeamID: "t1", AccountID: "mgr", Role: teammember.RoleManager},
		teammember.Member{ID: "m2", TeamID: "t1", AccountID: "con", Role: teammember.RoleContributor},
	)
	deps := RestrictManagerLanguageDeps{MemberStore: store}

	m, err := ExecuteRestrictManagerLanguage(context.Background(), "t1", "mgr", "EN", deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.IsRestricted() || m.RestrictedLanguages[0] != "en" {
		t.Errorf("member = %+v", m)
	}
	if _, err := ExecuteRestrictManagerLanguage(context.Background(), "t1", "con", "en", deps); !errors.Is(err, teammember.ErrRestrictedNonManager) {
		t.Errorf("expected ErrRestrictedNonManager, got %v", err)
	}
}

// TestExecuteSetTeamPolicy tests names, legacy codes and permission checks.
func TestExecuteSetTeamPolicy(t *testing.T) {
	tests := []struct {
		name      string
		actor     access.Actor
		video     string
		task      string
		wantErr   error
		wantVideo team.Policy
		wantTask  team.Policy
	}{
		{"names", adminActor(), "all-members", "admin-only", nil, team.PolicyAllMembers, team.PolicyAdminOnly},
		{"legacy codes", adminActor(), "3", "10", nil, team.PolicyAdminOnly, team.PolicyAllMembers},
		{"only task", adminActor(), "", "30", nil, team.PolicyManagerAndAdmin, team.PolicyAdminOnly},
		{"invalid name", adminActor(), "everyone", "", team.ErrInvalidPolicy, "", ""},
		{"task code for video", adminActor(), "10", "", team.ErrInvalidPolicy, "", ""},
		{"manager forbidden", access.ForMember(teammember.Member{Role: teammember.RoleManager}), "1", "", ErrForbidden, "", ""},
		{"guest forbidden", access.Guest(), "1", "", ErrForbidden, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockTeamStore(limitedTeam())
			got, err := ExecuteSetTeamPolicy(context.Background(), SetTeamPolicyInput{
				TeamSlug:         "limited-access",
				Actor:            tt.actor,
				VideoPolicy:      tt.video,
				TaskAssignPolicy: tt.task,
			}, SetTeamPolicyDeps{TeamStore: store})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if store.teams["t1"].VideoPolicy != team.PolicyManagerAndAdmin {
					t.Error("team must be unchanged on error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.VideoPolicy != tt.wantVideo || got.TaskAssignPolicy != tt.wantTask {
				t.Errorf("policies = %s/%s, want %s/%s", got.VideoPolicy, got.TaskAssignPolicy, tt.wantVideo, tt.wantTask)
			}
			if store.teams["t1"].TaskAssignPolicy != tt.wantTask {
				t.Error("policy change not saved")
			}
		})
	}
}
