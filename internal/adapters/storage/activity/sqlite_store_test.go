package activity

import (
	"context"
	"errors"
	"testing"
	"time"

	"teamvideos/internal/adapters/storage/storagetest"
	domain "teamvideos/internal/domain/activity"
)

func TestSQLiteStore_Activity(t *testing.T) {
	db := storagetest.OpenDB(t)
	for _, id := range []string{"t1", "t2"} {
		if _, err := db.Exec(`INSERT INTO team (id, slug, name, membership_policy, video_policy, task_assign_policy)
			VALUES (?, ?, 'Team', 'open', 'all-members', 'all-members')`, id, "slug-"+id); err != nil {
			t.Fatal(err)
		}
	}
	store := NewSQLiteStore(db)
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	for i, action := range []domain.Action{domain.ActionPolicyChanged, domain.ActionVideoUpdated, domain.ActionVideoRemoved} {
		e := domain.NewEvent("t1", "admin_member", action, base.Add(time.Duration(i)*time.Minute)).
			WithResource(domain.ResourceVideo, "v1")
		if err := store.Save(ctx, e); err != nil {
			t.Fatalf("Save %s: %v", action, err)
		}
	}
	if err := store.Save(ctx, domain.NewEvent("t2", "", domain.ActionVideoMoved, base)); err != nil {
		t.Fatal(err)
	}

	events, err := store.ListByTeam(ctx, "t1", 2)
	if err != nil {
		t.Fatalf("ListByTeam: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Action != domain.ActionVideoRemoved || events[1].Action != domain.ActionVideoUpdated {
		t.Errorf("order = %s, %s; want newest first", events[0].Action, events[1].Action)
	}
	if !events[0].Timestamp.Equal(base.Add(2*time.Minute)) {
		t.Errorf("timestamp = %v", events[0].Timestamp)
	}
	if events[0].Actor != "admin_member" || events[0].ResourceID != "v1" {
		t.Errorf("event = %+v", events[0])
	}

	if _, err := store.ListByTeam(ctx, "t1", 0); !errors.Is(err, domain.ErrInvalidPageSize) {
		t.Errorf("limit 0: err = %v", err)
	}
	if err := store.Save(ctx, domain.Event{ID: "x", Action: domain.ActionVideoMoved}); !errors.Is(err, domain.ErrTeamRequired) {
		t.Errorf("Save invalid: err = %v", err)
	}
}
