// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"errors"
	"time"

	_ "projecthub/docs" // swagger docs
	"projecthub/internal/bootstrap"
	"projecthub/internal/config"
	"projecthub/internal/database"
	"projecthub/internal/middleware"
	"projecthub/internal/models"
	"projecthub/internal/observability"
	"projecthub/internal/repository"
	"projecthub/internal/service"
	"projecthub/internal/session"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus

	tokens  *session.Tokens
	revoked *session.RevocationStore

	accounts      *service.AccountService
	relationships *service.RelationshipService
	streams       *service.StreamService
	posts         *service.PostService
	projects      *service.ProjectService
	ideas         *service.IdeaService
	photos        *service.PhotoService
}

// NewServer connects to the database and redis, prepares the schema and
// wires every service.
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	db, rdb, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.OptionsFromConfig(cfg))
	if err != nil {
		return nil, err
	}

	return NewServerWithDeps(cfg, db, rdb)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil; logout and rate limiting then degrade.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if db == nil {
		return nil, errors.New("database is required")
	}

	repos := repository.NewRepositories(db)
	tx := repository.NewTransactor(db)
	photos := service.NewPhotoService(cfg)

	return &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("projecthub-api"),
		tokens:         session.NewTokens(cfg.JWTSecret),
		revoked:        session.NewRevocationStore(redisClient),
		accounts:       service.NewAccountService(repos.Users, tx, photos),
		relationships:  service.NewRelationshipService(repos.Relationships, repos.Users, cfg.AllowSelfFollow),
		streams:        service.NewStreamService(repos.Streams, repos.Users, cfg.StreamPageSize),
		posts:          service.NewPostService(repos.Posts),
		projects:       service.NewProjectService(repos.Projects, tx),
		ideas:          service.NewIdeaService(repos.Ideas, repos.Projects),
		photos:         photos,
	}, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())

	// Propagates request and trace IDs into the request context for logging.
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS must run before anything that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	app.Static(service.PhotoURLPrefix, s.photos.UploadDir())

	// Every API route resolves the caller; protected ones additionally require it.
	api := app.Group("/api", s.Authenticate())
	api.Get("/swagger/*", swagger.HandlerDefault)
	protected := s.AuthRequired()

	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(s.redis, 5, 10*time.Minute, "register"), s.Register)
	auth.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/logout", protected, s.Logout)

	// Specific /stream routes before the generic /:username
	stream := api.Group("/stream")
	stream.Get("/", protected, s.GetStream)
	stream.Get("/projects", protected, s.GetProjectStream)
	stream.Get("/:username", s.GetUserStream)

	posts := api.Group("/posts")
	posts.Post("/", protected, middleware.RateLimit(s.redis, 30, time.Minute, "create_post"), s.CreatePost)
	posts.Get("/:id", s.GetPost)

	api.Post("/follow/:username", protected, middleware.RateLimit(s.redis, 30, time.Minute, "follow"), s.Follow)
	api.Post("/unfollow/:username", protected, s.Unfollow)

	users := api.Group("/users")
	users.Get("/me", protected, s.GetMyProfile)
	users.Post("/me/photo", protected, middleware.RateLimit(s.redis, 10, 10*time.Minute, "photo"), s.UploadPhoto)
	users.Get("/:username/following", s.GetFollowing)
	users.Get("/:username/followers", s.GetFollowers)
	users.Get("/:username", s.GetUserProfile)

	api.Get("/people", s.GetPeople)

	projects := api.Group("/projects")
	projects.Get("/", s.ListProjects)
	projects.Post("/", protected, middleware.RateLimit(s.redis, 30, time.Minute, "create_project"), s.CreateProject)
	projects.Post("/:projectId/ideas", protected, s.CreateIdea)
	projects.Get("/:projectId", s.GetProject)

	api.Get("/ideas", s.GetIdeas)
	api.Get("/qa", s.GetQA)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. Redis is optional: its
// absence is reported but does not fail readiness.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus != "healthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// NewApp builds the fiber app with middleware and routes installed.
func (s *Server) NewApp() *fiber.App {
	maxUploadMB := s.config.PhotoMaxUploadMB
	if maxUploadMB <= 0 {
		maxUploadMB = service.DefaultPhotoMaxUploadSizeMB
	}

	app := fiber.New(fiber.Config{
		AppName:   "ProjectHub API",
		BodyLimit: (maxUploadMB + 1) * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
			}
			observability.Ctx(c.UserContext()).Error().Err(err).Msg("unhandled error")
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// Start starts the server
func (s *Server) Start() error {
	s.app = s.NewApp()

	observability.Logger.Info().Str("port", s.config.Port).Msg("Server starting")
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			observability.Logger.Error().Err(err).Msg("error shutting down HTTP server")
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			observability.Logger.Error().Err(cerr).Msg("error closing sql DB")
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			observability.Logger.Error().Err(rerr).Msg("error closing redis")
		}
	}

	observability.Logger.Info().Msg("Server shutdown complete")
	return nil
}
