package team

import (
	"errors"
	"strings"
	"testing"
)

func validTeam() Team {
	return Team{
		ID:               "t1",
		Slug:             "video-test",
		Name:             "Video Test",
		MembershipPolicy: MembershipOpen,
		VideoPolicy:      PolicyManagerAndAdmin,
		TaskAssignPolicy: PolicyManagerAndAdmin,
	}
}

// TestValidate_Valid verifies a fully populated team passes validation.
func TestValidate_Valid(t *testing.T) {
	tm := validTeam()
	if err := tm.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestValidate_InvalidPolicies verifies every policy field fails fast outside its closed set.
func TestValidate_InvalidPolicies(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Team)
	}{
		{"video", func(tm *Team) { tm.VideoPolicy = "4" }},
		{"task", func(tm *Team) { tm.TaskAssignPolicy = "everyone" }},
		{"membership", func(tm *Team) { tm.MembershipPolicy = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := validTeam()
			tt.mutate(&tm)
			if err := tm.Validate(); !errors.Is(err, ErrInvalidPolicy) {
				t.Errorf("got %v, want ErrInvalidPolicy", err)
			}
		})
	}
}

// TestValidate_Slug verifies slug format rules.
func TestValidate_Slug(t *testing.T) {
	for _, slug := range []string{"", "Video Test", "-lead", "a_b"} {
		tm := validTeam()
		tm.Slug = slug
		if err := tm.Validate(); !errors.Is(err, ErrInvalidSlug) {
			t.Errorf("slug %q: got %v, want ErrInvalidSlug", slug, err)
		}
	}
}

// TestValidate_Name verifies empty and over-length names fail with sentinels.
func TestValidate_Name(t *testing.T) {
	tm := validTeam()
	tm.Name = strings.Repeat("n", MaxNameLength+1)
	if err := tm.Validate(); !errors.Is(err, ErrNameTooLong) {
		t.Errorf("got %v, want ErrNameTooLong", err)
	}
	tm.Name = "  "
	if err := tm.Validate(); !errors.Is(err, ErrEmptyName) {
		t.Errorf("got %v, want ErrEmptyName", err)
	}
}

// TestSetVideoPolicy_RejectsUnknown verifies a rejected mutation leaves the team untouched.
func TestSetVideoPolicy_RejectsUnknown(t *testing.T) {
	tm := validTeam()
	if err := tm.SetVideoPolicy("anyone"); !errors.Is(err, ErrInvalidPolicy) {
		t.Fatalf("got %v, want ErrInvalidPolicy", err)
	}
	if tm.VideoPolicy != PolicyManagerAndAdmin {
		t.Errorf("VideoPolicy changed to %q", tm.VideoPolicy)
	}
	if err := tm.SetVideoPolicy(PolicyAllMembers); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tm.VideoPolicy != PolicyAllMembers {
		t.Errorf("VideoPolicy = %q, want all-members", tm.VideoPolicy)
	}
}

// TestPolicyFromCode verifies legacy numeric encodings.
func TestPolicyFromCode(t *testing.T) {
	tests := []struct {
		name    string
		parse   func(int) (Policy, error)
		code    int
		want    Policy
		wantErr bool
	}{
		{"video1", VideoPolicyFromCode, 1, PolicyAllMembers, false},
		{"video2", VideoPolicyFromCode, 2, PolicyManagerAndAdmin, false},
		{"video3", VideoPolicyFromCode, 3, PolicyAdminOnly, false},
		{"video4", VideoPolicyFromCode, 4, "", true},
		{"task10", TaskAssignPolicyFromCode, 10, PolicyAllMembers, false},
		{"task20", TaskAssignPolicyFromCode, 20, PolicyManagerAndAdmin, false},
		{"task30", TaskAssignPolicyFromCode, 30, PolicyAdminOnly, false},
		{"task2", TaskAssignPolicyFromCode, 2, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.parse(tt.code)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPolicy) {
					t.Errorf("got %v, want ErrInvalidPolicy", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("got %q, %v; want %q", got, err, tt.want)
			}
		})
	}
}

// TestParsePolicy verifies name parsing is case-insensitive and closed.
func TestParsePolicy(t *testing.T) {
	if p, err := ParsePolicy(" Admin-Only "); err != nil || p != PolicyAdminOnly {
		t.Errorf("got %q, %v", p, err)
	}
	if _, err := ParsePolicy("owners"); !errors.Is(err, ErrInvalidPolicy) {
		t.Errorf("got %v, want ErrInvalidPolicy", err)
	}
}
