package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"teamvideos/internal/domain/account"

	"github.com/google/uuid"
)

// AccountStoreForCreate defines the store interface needed by CreateAccount.
type AccountStoreForCreate interface {
	GetByUsername(ctx context.Context, username string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
	Count(ctx context.Context) (int, error)
}

// CreateAccountInput carries input for the orchestrator.
type CreateAccountInput struct {
	Username string
	Password string
	Role     string
}

// CreateAccountDeps holds dependencies for CreateAccount.
type CreateAccountDeps struct {
	AccountStore AccountStoreForCreate
	Now          func() time.Time
}

var ErrUsernameTaken = errors.New("an account with this username already exists")

// ExecuteCreateAccount coordinates account creation.
// PRE: Valid username, password >= 8 chars, valid role
// POST: Account created with hashed password
// INVARIANT: Username must be unique
func ExecuteCreateAccount(ctx context.Context, input CreateAccountInput, deps CreateAccountDeps) (account.Account, error) {
	if input.Role == "" {
		input.Role = account.RoleUser
	}
	if _, err := deps.AccountStore.GetByUsername(ctx, input.Username); err == nil {
		return account.Account{}, ErrUsernameTaken
	} else if !errors.Is(err, account.ErrNotFound) {
		return account.Account{}, err
	}

	acct := account.Account{
		ID:        uuid.New().String(),
		Username:  input.Username,
		Role:      input.Role,
		CreatedAt: nowOr(deps.Now),
	}
	if err := acct.Validate(); err != nil {
		return account.Account{}, err
	}
	if err := acct.SetPassword(input.Password); err != nil {
		return account.Account{}, err
	}
	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return account.Account{}, err
	}

	slog.Info("auth_event", "event", "account_created", "username", acct.Username, "role", acct.Role)
	return acct, nil
}

// ExecuteSeedAdmin creates a site admin account if no accounts exist.
// PRE: Database is initialized
// POST: Admin account created if count == 0
func ExecuteSeedAdmin(ctx context.Context, deps CreateAccountDeps, username, password string) error {
	count, err := deps.AccountStore.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if _, err := ExecuteCreateAccount(ctx, CreateAccountInput{
		Username: username,
		Password: password,
		Role:     account.RoleAdmin,
	}, deps); err != nil {
		return err
	}
	slog.Info("auth_event", "event", "admin_seeded", "username", username)
	return nil
}

func nowOr(now func() time.Time) time.Time {
	if now == nil {
		return time.Now()
	}
	return now()
}
