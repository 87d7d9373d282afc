// Package server wires the HTTP surface: the Fiber app, its middleware
// chain, and the route handlers over the service layer.
package server

import (
	"errors"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"lets/internal/auth"
	"lets/internal/avatar"
	"lets/internal/cache"
	"lets/internal/config"
	"lets/internal/middleware"
	"lets/internal/models"
	"lets/internal/repository"
	"lets/internal/service"
)

// Server bundles the Fiber app with its dependencies.
type Server struct {
	App    *fiber.App
	Config *config.Config
	DB     *gorm.DB
	Redis  *redis.Client

	auths    *service.AuthService
	users    *service.UserService
	posts    *service.PostService
	comments *service.CommentService
	tags     *service.TagService

	prom *fiberprometheus.FiberPrometheus
}

// NewServer builds a fully wired server from configuration and live
// connections.
func NewServer(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*Server, error) {
	avatars, err := avatar.NewLocalStore(cfg.AvatarDir, cfg.AvatarBaseURL)
	if err != nil {
		return nil, err
	}
	return NewServerWithDeps(cfg, db, rdb, avatars), nil
}

// NewServerWithDeps builds a server from pre-constructed dependencies.
// Tests use this with an in-memory database and a fake avatar store.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, rdb *redis.Client, avatars avatar.Store) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "lets-api",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				return c.Status(fiberErr.Code).JSON(models.ErrorResponse{Error: fiberErr.Message})
			}
			return models.RespondError(c, err)
		},
	})

	tokens := auth.NewTokenProvider(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	middleware.InitMiddleware(tokens)

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikePostRepository(db)
	tagRepo := repository.NewTagRepository(db)
	techRepo := repository.NewTechStackRepository(db)

	users := service.NewUserService(db, userRepo, postRepo, commentRepo, likeRepo, tagRepo, techRepo, avatars)
	posts := service.NewPostService(db, postRepo, commentRepo, likeRepo, tagRepo, techRepo, avatars)
	comments := service.NewCommentService(db, commentRepo, postRepo, avatars)
	tags := service.NewTagService(tagRepo)
	auths := service.NewAuthService(users, tokens, cache.NewRedisTokenStore(rdb))

	s := &Server{
		App:      app,
		Config:   cfg,
		DB:       db,
		Redis:    rdb,
		auths:    auths,
		users:    users,
		posts:    posts,
		comments: comments,
		tags:     tags,
	}

	s.SetupMiddleware()
	s.SetupRoutes()
	return s
}

// SetupMiddleware registers the global middleware chain. Order matters:
// request IDs and tracing come first so every later log line and span
// carries them.
func (s *Server) SetupMiddleware() {
	s.App.Use(recover.New())
	s.App.Use(requestid.New())
	s.App.Use(helmet.New())
	s.App.Use(limiter.New(limiter.Config{
		Max:        300,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return s.Config.Env == "test"
		},
	}))
	s.App.Use(middleware.TracingMiddleware())
	s.App.Use(middleware.StructuredLogger())
	s.App.Use(cors.New(cors.Config{
		AllowOrigins:     s.Config.AllowedOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	s.prom = middleware.InitMetrics("lets")
	s.prom.RegisterAt(s.App, "/metrics")
	s.App.Use(s.prom.Middleware)
}

// SetupRoutes registers every route.
func (s *Server) SetupRoutes() {
	s.App.Get("/health", s.HealthCheck)
	s.App.Get("/monitor", monitor.New(monitor.Config{Title: "lets-api"}))

	s.App.Static(s.Config.AvatarBaseURL, s.Config.AvatarDir)

	api := s.App.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/signup", middleware.RateLimit(s.Redis, 10, time.Minute, "auth"), s.Signup)
	authGroup.Post("/signin", middleware.RateLimit(s.Redis, 20, time.Minute, "auth"), s.SignIn)
	authGroup.Post("/silent-refresh", middleware.RateLimit(s.Redis, 60, time.Minute, "refresh"), s.SilentRefresh)
	authGroup.Post("/logout", middleware.AuthRequired, s.Logout)
	authGroup.Post("/signout", middleware.AuthRequired, s.Signout)
	authGroup.Get("/exists", s.NicknameExists)

	postGroup := api.Group("/posts")
	postGroup.Get("/filter", s.SearchPosts)
	postGroup.Post("/", middleware.AuthRequired, s.CreatePost)
	postGroup.Get("/:id", s.GetPost)
	postGroup.Put("/:id", middleware.AuthRequired, s.UpdatePost)
	postGroup.Delete("/:id", middleware.AuthRequired, s.DeletePost)
	postGroup.Post("/:id/likes", middleware.AuthRequired, s.ChangeLikeStatus)
	postGroup.Post("/:id/status", middleware.AuthRequired, s.ChangePostStatus)
	postGroup.Get("/:id/recommends", s.RecommendPosts)
	postGroup.Get("/:id/comments", s.ListComments)
	postGroup.Post("/:id/comments", middleware.AuthRequired, s.CreateComment)
	postGroup.Delete("/:id/comments/:commentId", middleware.AuthRequired, s.DeleteComment)

	userGroup := api.Group("/users", middleware.AuthRequired)
	userGroup.Get("/me/posts", s.MyPosts)
	userGroup.Get("/me/settings", s.GetSettings)
	userGroup.Put("/me/settings", s.UpdateSettings)

	api.Get("/tags", s.ListTags)
}

// HealthCheck reports liveness plus dependency status.
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	dbStatus := "ok"
	if s.DB != nil {
		if sqlDB, err := s.DB.DB(); err != nil || sqlDB.Ping() != nil {
			dbStatus = "down"
		}
	} else {
		dbStatus = "down"
	}

	redisStatus := "ok"
	if s.Redis == nil || s.Redis.Ping(c.Context()).Err() != nil {
		redisStatus = "down"
	}

	overall := "ok"
	status := fiber.StatusOK
	if dbStatus != "ok" {
		overall = "degraded"
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"db":     dbStatus,
		"redis":  redisStatus,
	})
}
