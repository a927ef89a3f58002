package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	identityapp "github.com/marfund-ai-apps/vacations/internal/application/identity"
	reportapp "github.com/marfund-ai-apps/vacations/internal/application/report"
	vacationapp "github.com/marfund-ai-apps/vacations/internal/application/vacation"
	"github.com/marfund-ai-apps/vacations/internal/infrastructure/auth"
	"github.com/marfund-ai-apps/vacations/internal/infrastructure/config"
	"github.com/marfund-ai-apps/vacations/internal/infrastructure/logger"
	"github.com/marfund-ai-apps/vacations/internal/infrastructure/notify"
	"github.com/marfund-ai-apps/vacations/internal/infrastructure/persistence"
	"github.com/marfund-ai-apps/vacations/internal/interfaces/http/router"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting vacations backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Session token blacklist. Without Redis the blacklist degrades to an
	// in-process store, which is acceptable for single-instance deployments.
	var blacklist auth.TokenBlacklist
	if cfg.Redis.RedisAddr() != "" {
		redisBlacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		blacklist = redisBlacklist
		log.Info("Redis token blacklist enabled", zap.String("addr", cfg.Redis.RedisAddr()))
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
		log.Warn("Redis not configured, using in-memory token blacklist")
	}

	// Initialize repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	requestRepo := persistence.NewGormRequestRepository(db.DB)
	reportRepo := persistence.NewGormReportRepository(db.DB)

	// Webhook notifier for request lifecycle events
	notifier := notify.NewRequestNotifier(notify.NewN8NClient(cfg.Notify))
	if cfg.Notify.NewRequestURL == "" && cfg.Notify.DecisionURL == "" {
		log.Warn("Notification webhooks not configured, lifecycle notifications disabled")
	}

	// Initialize application services
	sessionService := auth.NewSessionService(cfg.Session)
	authService := identityapp.NewAuthService(userRepo, sessionService, blacklist, log)
	userService := identityapp.NewUserService(userRepo, blacklist, log)
	requestService := vacationapp.NewRequestService(requestRepo, userRepo, notifier, cfg.App.URL, log)
	reportService := reportapp.NewReportService(reportRepo, userRepo, log)

	engine := router.New(router.Dependencies{
		Config:         cfg,
		Logger:         log,
		Database:       db,
		Sessions:       sessionService,
		Blacklist:      blacklist,
		Users:          userRepo,
		AuthService:    authService,
		UserService:    userService,
		RequestService: requestService,
		ReportService:  reportService,
		Version:        version,
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
