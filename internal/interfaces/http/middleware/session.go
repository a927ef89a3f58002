package middleware

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/marfund-ai-apps/vacations/internal/domain/identity"
	"github.com/marfund-ai-apps/vacations/internal/infrastructure/auth"
	"github.com/marfund-ai-apps/vacations/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

const (
	// CurrentUserKey is the gin context key for the authenticated user
	CurrentUserKey = "current_user"
	// SessionClaimsKey is the gin context key for the session claims
	SessionClaimsKey = "session_claims"
)

// SessionConfig configures the session middleware
type SessionConfig struct {
	Sessions   *auth.SessionService
	Blacklist  auth.TokenBlacklist
	Users      identity.UserRepository
	CookieName string
	Logger     *zap.Logger
}

// Session validates the portal session carried by the session cookie or a
// Bearer token, loads the directory user behind it and stores both in the
// gin context. Requests without a valid session are rejected with 401.
// Blacklist lookups fail open: an unreachable Redis must not lock every
// user out.
func Session(cfg SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c, cfg.CookieName)
		if tokenString == "" {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}

		claims, err := cfg.Sessions.ValidateSession(tokenString)
		if err != nil {
			code := dto.ErrCodeTokenInvalid
			if errors.Is(err, auth.ErrExpiredToken) {
				code = dto.ErrCodeTokenExpired
			}
			abortUnauthorized(c, code, "Invalid or expired session")
			return
		}

		if cfg.Blacklist != nil {
			revoked, err := cfg.Blacklist.IsBlacklisted(c.Request.Context(), claims.ID)
			if err != nil {
				cfg.Logger.Warn("Session blacklist check failed", zap.Error(err))
			} else if revoked {
				abortUnauthorized(c, dto.ErrCodeTokenInvalid, "Session has been revoked")
				return
			}

			invalidated, err := cfg.Blacklist.IsUserTokenInvalidated(c.Request.Context(), claims.UserID, claims.GetIssuedAtTime())
			if err != nil {
				cfg.Logger.Warn("User session invalidation check failed", zap.Error(err))
			} else if invalidated {
				abortUnauthorized(c, dto.ErrCodeTokenInvalid, "Session has been revoked")
				return
			}
		}

		userID, err := claims.GetUserUUID()
		if err != nil {
			abortUnauthorized(c, dto.ErrCodeTokenInvalid, "Invalid session claims")
			return
		}

		user, err := cfg.Users.FindByID(c.Request.Context(), userID)
		if err != nil || !user.IsActive {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "Account is no longer active")
			return
		}

		c.Set(CurrentUserKey, user)
		c.Set(SessionClaimsKey, claims)
		c.Next()
	}
}

// extractToken reads the session from the cookie, falling back to the
// Authorization header for non-browser clients.
func extractToken(c *gin.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(code, message))
}

// GetCurrentUser returns the authenticated user stored by the Session
// middleware, or nil when the request is unauthenticated.
func GetCurrentUser(c *gin.Context) *identity.User {
	if v, exists := c.Get(CurrentUserKey); exists {
		if user, ok := v.(*identity.User); ok {
			return user
		}
	}
	return nil
}

// GetSessionClaims returns the session claims stored by the Session middleware
func GetSessionClaims(c *gin.Context) *auth.SessionClaims {
	if v, exists := c.Get(SessionClaimsKey); exists {
		if claims, ok := v.(*auth.SessionClaims); ok {
			return claims
		}
	}
	return nil
}

// IdentitySecret guards the assertion endpoint: only the identity proxy,
// holding the shared secret, may post login assertions. Comparison is
// constant-time.
func IdentitySecret(sharedSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader("X-Identity-Secret")
		if sharedSecret == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(sharedSecret)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Invalid identity proxy credentials"))
			return
		}
		c.Next()
	}
}
