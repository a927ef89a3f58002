package router

import (
	"github.com/gin-gonic/gin"
	appidentity "github.com/marfund-ai-apps/vacations/internal/application/identity"
	appreport "github.com/marfund-ai-apps/vacations/internal/application/report"
	appvacation "github.com/marfund-ai-apps/vacations/internal/application/vacation"
	"github.com/marfund-ai-apps/vacations/internal/domain/identity"
	"github.com/marfund-ai-apps/vacations/internal/infrastructure/auth"
	"github.com/marfund-ai-apps/vacations/internal/infrastructure/config"
	"github.com/marfund-ai-apps/vacations/internal/infrastructure/logger"
	"github.com/marfund-ai-apps/vacations/internal/infrastructure/persistence"
	"github.com/marfund-ai-apps/vacations/internal/interfaces/http/handler"
	"github.com/marfund-ai-apps/vacations/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Dependencies holds everything the router needs to wire the API
type Dependencies struct {
	Config    *config.Config
	Logger    *zap.Logger
	Database  *persistence.Database
	Sessions  *auth.SessionService
	Blacklist auth.TokenBlacklist
	Users     identity.UserRepository

	AuthService    *appidentity.AuthService
	UserService    *appidentity.UserService
	RequestService *appvacation.RequestService
	ReportService  *appreport.ReportService

	Version string
}

// New builds the gin engine with all routes and middleware wired
func New(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	_ = engine.SetTrustedProxies(deps.Config.HTTP.TrustedProxies)

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(deps.Logger))
	engine.Use(logger.Recovery(deps.Logger))
	engine.Use(middleware.Secure())

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = deps.Config.HTTP.CORSAllowOrigins
	if len(deps.Config.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = deps.Config.HTTP.CORSAllowMethods
	}
	if len(deps.Config.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = deps.Config.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsCfg))

	authHandler := handler.NewAuthHandler(deps.AuthService, deps.Config.Session)
	userHandler := handler.NewUserHandler(deps.UserService)
	requestHandler := handler.NewRequestHandler(deps.RequestService, deps.Config.App.URL)
	reportHandler := handler.NewReportHandler(deps.ReportService)
	systemHandler := handler.NewSystemHandler(deps.Database, deps.Config.App.Name, deps.Version)

	engine.GET("/health", systemHandler.Health)
	engine.GET("/ready", systemHandler.Ready)

	session := middleware.Session(middleware.SessionConfig{
		Sessions:   deps.Sessions,
		Blacklist:  deps.Blacklist,
		Users:      deps.Users,
		CookieName: deps.Config.Session.CookieName,
		Logger:     deps.Logger,
	})

	v1 := engine.Group("/api/v1")
	{
		// Session issuance is restricted to the identity proxy
		v1.POST("/auth/session",
			middleware.IdentitySecret(deps.Config.Identity.SharedSecret),
			authHandler.CreateSession)

		// Token links arrive from email clients without a session
		v1.GET("/requests/token/:token", requestHandler.Token)

		authed := v1.Group("", session)
		{
			authed.POST("/auth/logout", authHandler.Logout)
			authed.GET("/auth/me", authHandler.Me)

			authed.GET("/requests/business-days", requestHandler.BusinessDays)
			authed.POST("/requests", requestHandler.Create)
			authed.GET("/requests", requestHandler.List)
			authed.GET("/requests/:id", requestHandler.Get)
			authed.GET("/requests/:id/history", requestHandler.History)
			authed.PUT("/requests/:id/decision",
				middleware.RequireCapability(identity.CapRequestDecide),
				requestHandler.Decide)

			authed.GET("/reports/employee-report", reportHandler.MyReport)
			authed.GET("/reports/employee/:id", reportHandler.EmployeeReport)
			authed.GET("/reports/all",
				middleware.RequireCapability(identity.CapReportViewAll),
				reportHandler.AllEmployees)

			authed.GET("/users/managers", userHandler.Managers)

			users := authed.Group("/users", middleware.RequireCapability(identity.CapUserManage))
			{
				users.GET("", userHandler.List)
				users.GET("/inactive", userHandler.ListInactive)
				users.POST("", userHandler.Create)
				users.GET("/:id", userHandler.Get)
				users.PUT("/:id", userHandler.Update)
				users.PUT("/:id/deactivate", userHandler.Deactivate)
				users.PUT("/:id/activate",
					middleware.RequireCapability(identity.CapUserActivate),
					userHandler.Activate)
			}
		}
	}

	return engine
}
