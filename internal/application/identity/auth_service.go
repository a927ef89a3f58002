package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/marfund-ai-apps/vacations/internal/domain/identity"
	"github.com/marfund-ai-apps/vacations/internal/domain/shared"
	"github.com/marfund-ai-apps/vacations/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AuthService resolves identity assertions into portal sessions. The portal
// never verifies passwords: an external identity proxy authenticates the user
// and posts a signed assertion carrying the verified email.
type AuthService struct {
	users     identity.UserRepository
	sessions  *auth.SessionService
	blacklist auth.TokenBlacklist
	logger    *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(users identity.UserRepository, sessions *auth.SessionService, blacklist auth.TokenBlacklist, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:     users,
		sessions:  sessions,
		blacklist: blacklist,
		logger:    logger,
	}
}

// AssertionInput carries the identity proxy's verified claims about a login.
type AssertionInput struct {
	Email     string
	Subject   string
	FullName  string
	AvatarURL string
}

// ResolveAssertion maps a verified email to a pre-provisioned directory user
// and mints a session. Unknown or deactivated emails are rejected with
// ErrUnregistered: authentication proves identity, it never creates accounts.
func (s *AuthService) ResolveAssertion(ctx context.Context, input AssertionInput) (*identity.User, *auth.Session, error) {
	user, err := s.users.FindActiveByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login attempt by unregistered email", zap.String("email", input.Email))
			return nil, nil, shared.ErrUnregistered
		}
		return nil, nil, err
	}

	// Refresh directory fields from the provider on every login. A failed
	// refresh must not block login.
	user.LinkIdentity(input.Subject, input.FullName, input.AvatarURL)
	if err := s.users.Update(ctx, user); err != nil {
		s.logger.Warn("Failed to refresh user profile from identity provider",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
	}

	session, err := s.sessions.IssueSession(auth.IssueSessionInput{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("Session issued",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
	)
	return user, session, nil
}

// Logout revokes the session by blacklisting its JTI for the remaining TTL.
// Blacklist failures are logged, not surfaced: the cookie is cleared either way.
func (s *AuthService) Logout(ctx context.Context, claims *auth.SessionClaims) {
	if s.blacklist == nil {
		return
	}
	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
		s.logger.Warn("Failed to blacklist session on logout",
			zap.String("user_id", claims.UserID),
			zap.Error(err),
		)
	}
}

// CurrentUser loads the directory record behind a session.
func (s *AuthService) CurrentUser(ctx context.Context, userID uuid.UUID) (*identity.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, shared.ErrNotFound
	}
	return user, nil
}
