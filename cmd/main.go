package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"employee-service/internal/cache"
	"employee-service/internal/config"
	"employee-service/internal/events"
	"employee-service/internal/handlers"
	"employee-service/internal/middleware"
	"employee-service/internal/pagination"
	"employee-service/internal/repository"
	"employee-service/internal/seeders"
	"employee-service/internal/services"
)

// @title Employee Records API
// @version 1.0.0
// @description Province-scoped employee records with global and province admins

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name employee_session

var errNatsDisconnected = errors.New("nats connection is down")

func main() {
	// Check if running health check
	if len(os.Args) > 1 && os.Args[1] == "health" {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		resp, err := http.Get("http://localhost:" + port + "/health")
		if err != nil || resp.StatusCode != http.StatusOK {
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Load configuration
	cfg := config.Load()
	log := config.NewLogger(cfg)

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	// employee-service reset-password <username>, new password in RESET_PASSWORD
	if len(os.Args) > 2 && os.Args[1] == "reset-password" {
		if err := seeders.New(db, log).ResetPassword(context.Background(), os.Args[2], os.Getenv("RESET_PASSWORD")); err != nil {
			log.WithError(err).Fatal("Failed to reset password")
		}
		return
	}

	// Seed the global admin and the configured provinces
	provinceSeeds, err := seeders.ParseProvinceSeeds(cfg.SeedProvinces)
	if err != nil {
		log.WithError(err).Fatal("Invalid SEED_PROVINCES")
	}
	if err := seeders.New(db, log).Run(context.Background(), seeders.Options{
		GlobalAdminUsername: cfg.SeedGlobalAdminUsername,
		GlobalAdminPassword: cfg.SeedGlobalAdminPassword,
		Provinces:           provinceSeeds,
	}); err != nil {
		log.WithError(err).Fatal("Failed to seed database")
	}

	// Login throttling is off on developer machines
	readiness := map[string]handlers.Pinger{}
	var limiter cache.AttemptLimiter
	if cfg.IsDevelopment() {
		log.Info("Login throttling disabled in development")
	} else {
		var redisConnected bool
		limiter, redisConnected = cache.NewAttemptLimiter(cfg.RedisHost, cfg.RedisPort, cfg.RedisPassword, cfg.RedisDB, cfg.LoginMaxFailures, cfg.LoginWindow)
		if redisLimiter, ok := limiter.(*cache.RedisAttemptLimiter); ok && redisConnected {
			log.Info("Login throttling backed by Redis")
			readiness["redis"] = redisLimiter
			defer redisLimiter.Close()
		} else {
			log.Warn("Redis unavailable, login throttling is per process")
		}
	}

	// Domain events
	publisher, err := events.NewPublisher(cfg.NatsURL, "employee-service", log)
	if err != nil {
		log.WithError(err).Warn("Failed to initialize events publisher, events won't be published")
		publisher = events.NoopPublisher{}
	}
	defer publisher.Close()
	if cfg.NatsURL != "" {
		readiness["nats"] = handlers.PingerFunc(func(context.Context) error {
			if !publisher.IsConnected() {
				return errNatsDisconnected
			}
			return nil
		})
	}

	// Initialize repositories
	employeeRepo := repository.NewEmployeeRepository(db)
	provinceRepo := repository.NewProvinceRepository(db)
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// Initialize services
	settingsService := services.NewSettingsService(settingsRepo, publisher, log)
	provinceService := services.NewProvinceService(provinceRepo)
	employeeService := services.NewEmployeeService(employeeRepo, settingsService, publisher, log)
	authService := services.NewAuthService(userRepo, sessionRepo, limiter, cfg.SessionTTL, log)

	// Background job to cleanup expired sessions
	cleanupCtx, stopCleanup := context.WithCancel(context.Background())
	defer stopCleanup()
	go runSessionCleanup(cleanupCtx, authService, log)

	// Initialize Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORS(cfg.CORSOrigins))
	router.Use(middleware.ErrorHandler(log))
	router.HandleMethodNotAllowed = true
	router.NoRoute(middleware.NotFoundHandler())
	router.NoMethod(middleware.MethodNotAllowedHandler())

	// Health check endpoints (no auth required)
	health := handlers.NewHealthHandler(db, readiness)
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)

	handlers.RegisterRoutes(router.Group("/api/v1"), handlers.Handlers{
		Auth: handlers.NewAuthHandler(authService, handlers.CookieConfig{
			Name:   cfg.SessionCookieName,
			Secure: !cfg.IsDevelopment(),
		}),
		Provinces: handlers.NewProvinceHandler(provinceService),
		Employees: handlers.NewEmployeeHandler(employeeService, provinceService, pagination.NewParser(cfg.DefaultPageSize, cfg.MaxPageSize)),
		Settings:  handlers.NewSettingsHandler(settingsService),
	}, authService, cfg.SessionCookieName)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("Starting employee-service")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down employee-service...")
	stopCleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}
}

// runSessionCleanup removes expired and long-revoked sessions, once at
// startup and then hourly
func runSessionCleanup(ctx context.Context, auth *services.AuthService, log *logrus.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		if count, err := auth.CleanupExpiredSessions(ctx); err != nil {
			log.WithError(err).Warn("Failed to cleanup expired sessions")
		} else if count > 0 {
			log.WithField("count", count).Info("Cleaned up expired sessions")
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
