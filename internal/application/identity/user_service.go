package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/marfund-ai-apps/vacations/internal/domain/identity"
	"github.com/marfund-ai-apps/vacations/internal/domain/shared"
	"github.com/marfund-ai-apps/vacations/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// UserService manages the HR directory.
type UserService struct {
	users     identity.UserRepository
	blacklist auth.TokenBlacklist
	logger    *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(users identity.UserRepository, blacklist auth.TokenBlacklist, logger *zap.Logger) *UserService {
	return &UserService{
		users:     users,
		blacklist: blacklist,
		logger:    logger,
	}
}

// Managers returns the active users selectable as approvers.
func (s *UserService) Managers(ctx context.Context) ([]*identity.User, error) {
	return s.users.FindManagers(ctx)
}

// List returns all active users ordered by full name.
func (s *UserService) List(ctx context.Context) ([]*identity.User, error) {
	return s.users.FindAll(ctx, true)
}

// ListInactive returns deactivated users, visible to super admins only.
func (s *UserService) ListInactive(ctx context.Context, actor *identity.User) ([]*identity.User, error) {
	if !actor.Role.Can(identity.CapUserViewInactive) {
		return nil, shared.ErrForbidden
	}
	return s.users.FindAll(ctx, false)
}

// Get loads one user by ID.
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	return s.users.FindByID(ctx, id)
}

// CreateUserInput carries the fields for provisioning a user.
type CreateUserInput struct {
	Email            string
	FullName         string
	EmployeeNumber   string
	Position         string
	Role             identity.Role
	ManagerID        *uuid.UUID
	BaseVacationDays *int
}

// Create provisions a new directory user ahead of their first login.
func (s *UserService) Create(ctx context.Context, actor *identity.User, input CreateUserInput) (*identity.User, error) {
	if !actor.Role.Can(identity.CapUserManage) {
		return nil, shared.ErrForbidden
	}

	user, err := identity.NewUser(input.Email, input.FullName)
	if err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "A user with this email already exists")
	}

	user.EmployeeNumber = input.EmployeeNumber
	user.Position = input.Position
	if input.Role != "" {
		if err := user.SetRole(input.Role); err != nil {
			return nil, err
		}
	}
	if input.ManagerID != nil {
		if err := s.validateManager(ctx, user.ID, *input.ManagerID); err != nil {
			return nil, err
		}
		if err := user.SetManager(input.ManagerID); err != nil {
			return nil, err
		}
	}
	if input.BaseVacationDays != nil {
		if err := user.SetBaseVacationDays(*input.BaseVacationDays); err != nil {
			return nil, err
		}
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User provisioned",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
		zap.String("by", actor.ID.String()),
	)
	return user, nil
}

// UpdateUserInput carries the mutable fields of a user. Nil pointers leave
// the current value untouched.
type UpdateUserInput struct {
	FullName         *string
	EmployeeNumber   *string
	Position         *string
	Role             *identity.Role
	ManagerID        *uuid.UUID
	ClearManager     bool
	BaseVacationDays *int
}

// Update modifies a directory user.
func (s *UserService) Update(ctx context.Context, actor *identity.User, id uuid.UUID, input UpdateUserInput) (*identity.User, error) {
	if !actor.Role.Can(identity.CapUserManage) {
		return nil, shared.ErrForbidden
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		user.FullName = *input.FullName
	}
	if input.EmployeeNumber != nil {
		user.EmployeeNumber = *input.EmployeeNumber
	}
	if input.Position != nil {
		user.Position = *input.Position
	}
	if input.Role != nil {
		if err := user.SetRole(*input.Role); err != nil {
			return nil, err
		}
	}
	switch {
	case input.ClearManager:
		if err := user.SetManager(nil); err != nil {
			return nil, err
		}
	case input.ManagerID != nil:
		if err := s.validateManager(ctx, user.ID, *input.ManagerID); err != nil {
			return nil, err
		}
		if err := user.SetManager(input.ManagerID); err != nil {
			return nil, err
		}
	}
	if input.BaseVacationDays != nil {
		if err := user.SetBaseVacationDays(*input.BaseVacationDays); err != nil {
			return nil, err
		}
	}
	user.UpdatedAt = time.Now()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Deactivate soft-deletes a user and revokes their open sessions. Pending
// requests and history referencing the user are preserved.
func (s *UserService) Deactivate(ctx context.Context, actor *identity.User, id uuid.UUID) error {
	if !actor.Role.Can(identity.CapUserManage) {
		return shared.ErrForbidden
	}
	if actor.ID == id {
		return shared.NewDomainError("SELF_DEACTIVATION", "You cannot deactivate your own account")
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := user.Deactivate(); err != nil {
		return err
	}
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	if s.blacklist != nil {
		if err := s.blacklist.AddUserTokensToBlacklist(ctx, id.String(), 0); err != nil {
			s.logger.Warn("Failed to revoke sessions of deactivated user",
				zap.String("user_id", id.String()),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("User deactivated",
		zap.String("user_id", id.String()),
		zap.String("by", actor.ID.String()),
	)
	return nil
}

// Activate reinstates a deactivated user.
func (s *UserService) Activate(ctx context.Context, actor *identity.User, id uuid.UUID) error {
	if !actor.Role.Can(identity.CapUserActivate) {
		return shared.ErrForbidden
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := user.Activate(); err != nil {
		return err
	}
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.logger.Info("User reactivated",
		zap.String("user_id", id.String()),
		zap.String("by", actor.ID.String()),
	)
	return nil
}

// validateManager checks the assignment target: the manager must exist, be
// active, hold an approver role, and not report to the user being edited.
// The hierarchy is only ever walked one hop, so one-hop cycles are the only
// ones that need rejecting.
func (s *UserService) validateManager(ctx context.Context, userID, managerID uuid.UUID) error {
	manager, err := s.users.FindByID(ctx, managerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_MANAGER", "Manager not found")
		}
		return err
	}
	if !manager.IsActive {
		return shared.NewDomainError("INVALID_MANAGER", "Manager is deactivated")
	}
	if !manager.Role.IsManagerial() {
		return shared.NewDomainError("INVALID_MANAGER", "Assigned manager cannot approve requests")
	}
	if manager.ManagerID != nil && *manager.ManagerID == userID {
		return shared.NewDomainError("INVALID_MANAGER", "Manager assignment would create a reporting cycle")
	}
	return nil
}
