package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	appidentity "github.com/marfund-ai-apps/vacations/internal/application/identity"
	"github.com/marfund-ai-apps/vacations/internal/infrastructure/config"
	"github.com/marfund-ai-apps/vacations/internal/interfaces/http/dto"
	"github.com/marfund-ai-apps/vacations/internal/interfaces/http/middleware"
)

// AuthHandler handles session lifecycle endpoints
type AuthHandler struct {
	BaseHandler
	service *appidentity.AuthService
	cookies config.SessionConfig
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service *appidentity.AuthService, cookies config.SessionConfig) *AuthHandler {
	return &AuthHandler{service: service, cookies: cookies}
}

// CreateSession handles POST /auth/session. Called by the identity proxy
// after it has authenticated the user; guarded by the shared-secret
// middleware, never exposed to browsers directly.
func (h *AuthHandler) CreateSession(c *gin.Context) {
	var req dto.AssertionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, err.Error())
		return
	}

	user, session, err := h.service.ResolveAssertion(c.Request.Context(), appidentity.AssertionInput{
		Email:     req.Email,
		Subject:   req.Subject,
		FullName:  req.FullName,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.setSessionCookie(c, session.Token, int(h.cookies.TTL.Seconds()))
	h.Success(c, dto.SessionResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      dto.FromUser(user),
	})
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if claims := middleware.GetSessionClaims(c); claims != nil {
		h.service.Logout(c.Request.Context(), claims)
	}
	h.setSessionCookie(c, "", -1)
	h.NoContent(c)
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	h.Success(c, dto.FromUser(user))
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(sameSiteMode(h.cookies.CookieSameSite))
	c.SetCookie(
		h.cookies.CookieName,
		value,
		maxAge,
		h.cookies.CookiePath,
		h.cookies.CookieDomain,
		h.cookies.CookieSecure,
		true, // httpOnly, the session is never readable from scripts
	)
}

func sameSiteMode(mode string) http.SameSite {
	switch mode {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
