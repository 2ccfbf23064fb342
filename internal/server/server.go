// Package server contains the HTTP handlers and route wiring for the API.
package server

import (
	"context"
	"fmt"
	"time"

	"moodmate/internal/cache"
	"moodmate/internal/config"
	"moodmate/internal/database"
	"moodmate/internal/middleware"
	"moodmate/internal/models"
	"moodmate/internal/repository"
	"moodmate/internal/service"
	"moodmate/internal/token"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	tokens         *token.Service
	userRepo       repository.UserRepository
	moodRepo       repository.MoodRepository
	authService    *service.AuthService
	moodService    *service.MoodService
}

// NewServer creates a server instance, establishing the database and Redis
// connections itself.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Tests use this with an in-memory database and an optional Redis client.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	tokens := token.NewService(
		cfg.JWTAccessSecret, cfg.JWTRefreshSecret,
		cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry,
	)

	models.SetErrorDetailExposure(!cfg.IsProduction())

	userRepo := repository.NewUserRepository(db, redisClient)
	moodRepo := repository.NewMoodRepository(db)

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("moodmate-api"),
		tokens:         tokens,
		userRepo:       userRepo,
		moodRepo:       moodRepo,
		authService:    service.NewAuthService(userRepo, tokens),
		moodService:    service.NewMoodService(moodRepo),
	}

	return server, nil
}

// SetupMiddleware configures the middleware chain for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context middleware to propagate request ID and user ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Structured logging (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS runs before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.FrontendURL
	if origins == "" {
		origins = "http://localhost:5173"
	}
	if !s.config.IsProduction() {
		origins += ",http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they are handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(models.Response{
				Success: false,
				Message: "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks
	app.Get("/health", s.HealthCheck)
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/refresh", s.Refresh)
	auth.Get("/me", s.AuthRequired(), s.GetCurrentUser)
	auth.Put("/profile", s.AuthRequired(), s.UpdateProfile)
	auth.Post("/logout", s.AuthRequired(), s.Logout)

	// Mood journal routes
	moods := api.Group("/user-mode")
	moods.Post("/create", s.CreateMoodEntry)
	moods.Get("/get/:userId", s.GetMoodEntries)

	// Catch-all 404 must be registered last
	app.Use(s.NotFound)
}

// NotFound answers every unmatched route with the failure envelope.
func (s *Server) NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(models.Response{
		Success: false,
		Message: fmt.Sprintf("Route %s not found", c.OriginalURL()),
	})
}

// HealthCheck handles GET /health. It doubles as the readiness probe.
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return s.ReadinessCheck(c)
}

// LivenessCheck reports that the process is up, nothing more.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return models.RespondData(c, fiber.StatusOK, "Server is running", fiber.Map{
		"timestamp": time.Now().UTC(),
	})
}

// ReadinessCheck verifies the backing services before reporting healthy.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// Redis is an optional accelerator; absent is not unhealthy.
		redisStatus = "unavailable"
	}

	data := fiber.Map{
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"timestamp": time.Now().UTC(),
	}

	if dbStatus != "healthy" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(models.Response{
			Success: false,
			Message: "Server is not ready",
			Data:    data,
		})
	}

	return models.RespondData(c, fiber.StatusOK, "Server is running", data)
}

// newApp builds the Fiber app with middleware and routes attached.
func (s *Server) newApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "Moodmate API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fiberErr, ok := err.(*fiber.Error); ok && fiberErr.Code < fiber.StatusInternalServerError {
				return c.Status(fiberErr.Code).JSON(models.Response{
					Success: false,
					Message: fiberErr.Message,
				})
			}
			return models.RespondError(c, models.NewInternalError(err))
		},
	})

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// Start runs the HTTP server until Shutdown is called.
func (s *Server) Start() error {
	s.app = s.newApp()

	middleware.Logger.Info("server starting",
		"port", s.config.Port, "env", s.config.Env)
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully stops the server and closes backing connections.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", "error", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", "error", cerr)
		}
	}

	cache.Close()

	middleware.Logger.Info("server shutdown complete")
	return nil
}
