package account_test

import (
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"teamvideos/internal/domain/account"
)

func init() {
	account.HashCost = bcrypt.MinCost
}

// TestAccount_Validate tests validation of Account.
func TestAccount_Validate(t *testing.T) {
	tests := []struct {
		name    string
		account account.Account
		wantErr bool
	}{
		{"valid admin", account.Account{ID: "1", Username: "admin_member", Role: account.RoleAdmin}, false},
		{"valid user", account.Account{ID: "2", Username: "EnglishManager", Role: account.RoleUser}, false},
		{"email username", account.Account{ID: "3", Username: "qa+1@example.com", Role: account.RoleUser}, false},
		{"empty username", account.Account{ID: "4", Role: account.RoleUser}, true},
		{"space in username", account.Account{ID: "5", Username: "non member", Role: account.RoleUser}, true},
		{"invalid role", account.Account{ID: "6", Username: "x", Role: "superadmin"}, true},
		{"empty role", account.Account{ID: "7", Username: "x"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.account.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Account.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestAccount_SetPassword tests hashing and length rules.
func TestAccount_SetPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid password", "password", false},
		{"empty password", "", true},
		{"too short", "short", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a account.Account
			err := a.SetPassword(tt.password)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SetPassword() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && a.CheckPassword(tt.password) != nil {
				t.Error("CheckPassword failed for the password just set")
			}
		})
	}
}

// TestAccount_CheckPassword_Wrong verifies a wrong password is rejected.
func TestAccount_CheckPassword_Wrong(t *testing.T) {
	var a account.Account
	if err := a.CheckPassword("password"); err != account.ErrWrongPassword {
		t.Fatalf("empty hash: got %v, want ErrWrongPassword", err)
	}
	if err := a.SetPassword("password"); err != nil {
		t.Fatal(err)
	}
	if err := a.CheckPassword("passw0rd"); err != account.ErrWrongPassword {
		t.Errorf("got %v, want ErrWrongPassword", err)
	}
}

// TestAccount_Lockout verifies the account locks after repeated failures and unlocks on reset.
func TestAccount_Lockout(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var a account.Account
	for i := 0; i < account.MaxFailedLogins-1; i++ {
		a.RecordFailedLogin(now)
	}
	if a.IsLocked(now) {
		t.Fatal("locked before reaching the limit")
	}
	a.RecordFailedLogin(now)
	if !a.IsLocked(now) {
		t.Fatal("not locked after reaching the limit")
	}
	if a.IsLocked(now.Add(account.LockoutDuration + time.Second)) {
		t.Error("lock should expire")
	}
	a.ResetFailedLogins()
	if a.IsLocked(now) || a.FailedLogins != 0 {
		t.Error("ResetFailedLogins did not clear the lock")
	}
}
