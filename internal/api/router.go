package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/parnasoft/blog-platform/internal/api/handler"
	"github.com/parnasoft/blog-platform/internal/api/middleware"
	"github.com/parnasoft/blog-platform/internal/core/domain"
	"github.com/parnasoft/blog-platform/internal/core/ports"
	"github.com/parnasoft/blog-platform/internal/core/service"
	"github.com/parnasoft/blog-platform/internal/infrastructure/config"
	mongodb "github.com/parnasoft/blog-platform/internal/infrastructure/db/mongo"
	redisdb "github.com/parnasoft/blog-platform/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, mail ports.MailQueue, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("blog"))

	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Dependencies ---
	postRepo := mongodb.NewPostRepository(db)
	userRepo := mongodb.NewUserRepository(db)
	tokenStore := redisdb.NewTokenStore(rdb)

	postService := service.NewPostService(postRepo, log)
	userService := service.NewUserService(userRepo, mail, log)
	authService := service.NewAuthService(userRepo, tokenStore, cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL, log)

	postHandler := handler.NewPostHandler(postService)
	userHandler := handler.NewUserHandler(userService)
	authHandler := handler.NewAuthHandler(authService)

	serviceKey := middleware.ServiceKey(cfg.ServiceKey)
	requireAuth := middleware.Auth(cfg.JWTSecret)
	optionalAuth := middleware.OptionalAuth(cfg.JWTSecret)
	adminOnly := middleware.RBAC(domain.RoleAdmin, domain.RoleSuperAdmin)

	// --- Auth routes ---
	auth := e.Group("/auth", serviceKey)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.GET("/validate", authHandler.Validate)
	auth.POST("/logout", authHandler.Logout)

	// --- Post routes ---
	posts := e.Group("/posts", serviceKey)
	posts.GET("", postHandler.List, optionalAuth)
	posts.GET("/search", postHandler.Search, optionalAuth)
	posts.GET("/stats", postHandler.Stats, requireAuth, adminOnly)
	posts.GET("/id/:id", postHandler.GetByID, optionalAuth)
	posts.PUT("/id/:id", postHandler.UpdateByID, requireAuth, adminOnly)
	posts.GET("/:slug", postHandler.GetBySlug, optionalAuth)
	posts.POST("", postHandler.Create, requireAuth, adminOnly)
	posts.PUT("/:slug", postHandler.Update, requireAuth, adminOnly)
	posts.DELETE("/:slug", postHandler.Delete, requireAuth, adminOnly)

	// --- User management routes (admin console) ---
	users := e.Group("/user-management", serviceKey, requireAuth, adminOnly)
	users.GET("/list", userHandler.List)
	users.GET("/user/:id", userHandler.Get)
	users.GET("/stats", userHandler.Stats)
	users.POST("/create", userHandler.Create)
	users.PUT("/update/:id", userHandler.Update)
	users.DELETE("/delete/:id", userHandler.Delete)
	users.POST("/reset-password/:id", userHandler.ResetPassword)
	users.POST("/change-password/:id", userHandler.ChangePassword)

	// --- Health probes and metrics (no service key) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
