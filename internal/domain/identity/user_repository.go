package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	// FindActiveByEmail resolves an identity assertion; inactive users are
	// treated as not found so that deactivated accounts cannot log in.
	FindActiveByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// FindAll returns users filtered by active flag, ordered by full name.
	FindAll(ctx context.Context, active bool) ([]*User, error)
	// FindManagers returns active users whose role can approve requests.
	FindManagers(ctx context.Context) ([]*User, error)
	// FindHRAdminEmails returns email/name pairs of active HR and super
	// admins, used as notification recipients on decisions.
	FindHRAdminEmails(ctx context.Context) ([]HRRecipient, error)
}

// HRRecipient is a notification recipient drawn from the HR admin roles.
type HRRecipient struct {
	Email    string
	FullName string
}
