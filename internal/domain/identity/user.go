package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/marfund-ai-apps/vacations/internal/domain/shared"
)

// DefaultBaseVacationDays is the annual entitlement assigned when a user
// is provisioned without an explicit value.
const DefaultBaseVacationDays = 15

// User represents an employee in the HR directory. Users are provisioned by
// an administrator (or bulk import) before their first login; the identity
// provider only authenticates, it never creates accounts.
type User struct {
	shared.BaseEntity
	Email            string
	FullName         string
	EmployeeNumber   string
	Position         string
	AvatarURL        string
	ExternalSubject  string // identity-provider subject, linked at first login
	Role             Role
	ManagerID        *uuid.UUID
	BaseVacationDays int
	IsActive         bool
}

// NewUser creates a pre-provisioned active user.
func NewUser(email, fullName string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Full name cannot be empty")
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	return &User{
		BaseEntity:       shared.NewBaseEntity(),
		Email:            email,
		FullName:         fullName,
		Role:             RoleEmployee,
		BaseVacationDays: DefaultBaseVacationDays,
		IsActive:         true,
	}, nil
}

// SetRole changes the user's role.
func (u *User) SetRole(role Role) error {
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", "Unknown role: "+string(role))
	}
	u.Role = role
	u.UpdatedAt = time.Now()
	return nil
}

// SetManager assigns the user's direct manager. A user cannot manage
// themselves; deeper cycles are guarded one level up by the caller, since
// the system never walks the hierarchy beyond one hop.
func (u *User) SetManager(managerID *uuid.UUID) error {
	if managerID != nil && *managerID == u.ID {
		return shared.NewDomainError("INVALID_MANAGER", "A user cannot be their own manager")
	}
	u.ManagerID = managerID
	u.UpdatedAt = time.Now()
	return nil
}

// SetBaseVacationDays sets the annual vacation entitlement.
func (u *User) SetBaseVacationDays(days int) error {
	if days < 0 {
		return shared.NewDomainError("INVALID_ENTITLEMENT", "Base vacation days cannot be negative")
	}
	u.BaseVacationDays = days
	u.UpdatedAt = time.Now()
	return nil
}

// LinkIdentity records the external identity-provider subject and refreshes
// directory fields supplied by the provider. Called on every successful login
// so the directory tracks the provider's current display name and avatar.
func (u *User) LinkIdentity(subject, fullName, avatarURL string) {
	if subject != "" {
		u.ExternalSubject = subject
	}
	if fullName = strings.TrimSpace(fullName); fullName != "" {
		u.FullName = fullName
	}
	if avatarURL != "" {
		u.AvatarURL = avatarURL
	}
	u.UpdatedAt = time.Now()
}

// Deactivate soft-deletes the user. History rows referencing the user are
// preserved; the account simply stops authenticating and appearing in lists.
func (u *User) Deactivate() error {
	if !u.IsActive {
		return shared.NewDomainError("ALREADY_INACTIVE", "User is already deactivated")
	}
	u.IsActive = false
	u.UpdatedAt = time.Now()
	return nil
}

// Activate reinstates a soft-deleted user.
func (u *User) Activate() error {
	if u.IsActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "User is already active")
	}
	u.IsActive = true
	u.UpdatedAt = time.Now()
	return nil
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}
