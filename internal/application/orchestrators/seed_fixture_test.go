package orchestrators

import (
	"context"
	"errors"
	"testing"

	"teamvideos/internal/application/scenario"
	"teamvideos/internal/domain/teammember"
)

func seedDeps() (SeedFixtureDeps, *mockAccountStore, *mockMemberStore, *mockVideoStore) {
	accounts := newMockAccountStore()
	members := newMockMemberStore()
	videos := newMockVideoStore()
	return SeedFixtureDeps{
		AccountStore:  accounts,
		TeamStore:     newMockTeamStore(),
		MemberStore:   members,
		ProjectStore:  newMockProjectStore(),
		VideoStore:    videos,
		WorkflowStore: newMockWorkflowStore(),
	}, accounts, members, videos
}

// TestExecuteSeedFixture tests a fixture lands in every store.
func TestExecuteSeedFixture(t *testing.T) {
	deps, accounts, members, videos := seedDeps()
	f := scenario.WithAutomaticTasks(scenario.LimitedAccessTeam())

	if err := ExecuteSeedFixture(context.Background(), f, deps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(accounts.accounts) != len(f.Accounts) {
		t.Errorf("accounts = %d, want %d", len(accounts.accounts), len(f.Accounts))
	}
	manager := accounts.accounts["manager"]
	if manager.CheckPassword(scenario.DefaultPassword) != nil {
		t.Error("fixture accounts should use the default password")
	}
	// non_member has an account but no membership
	if len(members.members) != len(f.Accounts)-1 {
		t.Errorf("members = %d, want %d", len(members.members), len(f.Accounts)-1)
	}
	en, err := members.Get(context.Background(), f.Team.ID, accounts.accounts["EnglishManager"].ID)
	if err != nil {
		t.Fatal(err)
	}
	if en.Role != teammember.RoleManager || !en.IsRestricted() {
		t.Errorf("EnglishManager = %+v", en)
	}
	if len(videos.videos) != len(f.Videos) {
		t.Errorf("videos = %d, want %d", len(videos.videos), len(f.Videos))
	}
	wf := deps.WorkflowStore.(*mockWorkflowStore)
	if _, ok := wf.workflows[f.Team.ID]; !ok {
		t.Error("workflow not saved")
	}
}

// TestExecuteSeedFixture_Idempotent tests re-seeding keeps ids and shares accounts.
func TestExecuteSeedFixture_Idempotent(t *testing.T) {
	deps, accounts, members, _ := seedDeps()
	for _, f := range scenario.All() {
		if err := ExecuteSeedFixture(context.Background(), f, deps); err != nil {
			t.Fatalf("%s: %v", f.Team.Slug, err)
		}
	}
	ownerID := accounts.accounts["team_owner"].ID
	memberCount := len(members.members)

	for _, f := range scenario.All() {
		if err := ExecuteSeedFixture(context.Background(), f, deps); err != nil {
			t.Fatalf("reseed %s: %v", f.Team.Slug, err)
		}
	}
	if accounts.accounts["team_owner"].ID != ownerID {
		t.Error("accounts must be reused by username")
	}
	if len(members.members) != memberCount {
		t.Errorf("members = %d after reseed, want %d", len(members.members), memberCount)
	}
}

// TestExecuteSeedFixture_AccountStoreError tests store failures abort the seed.
func TestExecuteSeedFixture_AccountStoreError(t *testing.T) {
	deps, accounts, _, videos := seedDeps()
	accounts.saveErr = errBoom
	err := ExecuteSeedFixture(context.Background(), scenario.SearchTeam(), deps)
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected errBoom, got %v", err)
	}
	if len(videos.videos) != 0 {
		t.Error("videos should not be seeded after an account failure")
	}
}

// TestExecuteSeedFixture_KeepsFixtureValues tests the create orchestrators
// keep fixture ids and timestamps and normalize restricted languages.
func TestExecuteSeedFixture_KeepsFixtureValues(t *testing.T) {
	deps, accounts, members, videos := seedDeps()
	f := scenario.LimitedAccessTeam()
	for i := range f.Accounts {
		if f.Accounts[i].Username == "EnglishManager" {
			f.Accounts[i].RestrictedLanguages = []string{" EN "}
		}
	}
	ctx := context.Background()

	for range 2 {
		if err := ExecuteSeedFixture(ctx, f, deps); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		en, err := members.Get(ctx, f.Team.ID, accounts.accounts["EnglishManager"].ID)
		if err != nil {
			t.Fatal(err)
		}
		if en.ID != f.Team.ID+":"+en.AccountID {
			t.Errorf("member id = %q", en.ID)
		}
		if len(en.RestrictedLanguages) != 1 || en.RestrictedLanguages[0] != "en" {
			t.Errorf("restricted languages = %v, want [en]", en.RestrictedLanguages)
		}
	}

	first := f.Videos[0]
	got, ok := videos.videos[first.ID]
	if !ok {
		t.Fatalf("video %s not stored under its fixture id", first.ID)
	}
	if !got.CreatedAt.Equal(first.CreatedAt) || got.TeamID != f.Team.ID {
		t.Errorf("video = %+v", got)
	}
	tm, err := deps.TeamStore.GetBySlug(ctx, f.Team.Slug)
	if err != nil {
		t.Fatal(err)
	}
	if tm.ID != f.Team.ID || tm.VideoPolicy != f.Team.VideoPolicy {
		t.Errorf("team = %+v", tm)
	}
}
