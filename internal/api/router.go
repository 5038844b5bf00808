package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/teamtrack/project-management/internal/api/handler"
	"github.com/teamtrack/project-management/internal/api/middleware"
	"github.com/teamtrack/project-management/internal/core/domain"
	"github.com/teamtrack/project-management/internal/core/service"
	"github.com/teamtrack/project-management/internal/core/token"
	mongodb "github.com/teamtrack/project-management/internal/infrastructure/db/mongo"
	redisdb "github.com/teamtrack/project-management/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, jwtSecret string, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("teamtrack"))

	// --- Dependencies ---
	users := mongodb.NewUserRepository(db)
	projects := mongodb.NewProjectRepository(db)
	tokens := token.NewManager(jwtSecret, token.DefaultTTL)
	guard := redisdb.NewBootstrapGuard(rdb)

	authService := service.NewAuthService(users, tokens, guard, log)
	userService := service.NewUserService(users, log)
	projectService := service.NewProjectService(projects, users, log)

	authHandler := handler.NewAuthHandler(authService, tokens.TTL())
	userHandler := handler.NewUserHandler(userService)
	projectHandler := handler.NewProjectHandler(projectService)

	authn := middleware.Authenticate(tokens, users)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)
	managerial := middleware.RequireRole(domain.RoleAdmin, domain.RoleManager)
	anyRole := middleware.RequireRole(domain.RoleAdmin, domain.RoleManager, domain.RoleEmployee)

	// --- Auth routes ---
	e.POST("/auth/signup", authHandler.Signup)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/register", authHandler.Register, authn, adminOnly)

	// --- User administration ---
	e.GET("/users", userHandler.List, authn, managerial)
	e.GET("/users/:id", userHandler.Get, authn, managerial)
	e.PUT("/users/:id", userHandler.Update, authn, adminOnly)
	e.DELETE("/users/:id", userHandler.Delete, authn, adminOnly)
	e.POST("/users/:id/assign-role", userHandler.AssignRole, authn, adminOnly)

	// --- Projects ---
	e.POST("/project", projectHandler.Create, authn, adminOnly)
	e.GET("/project", projectHandler.List, authn, anyRole)
	e.GET("/project/:id", projectHandler.Get, authn, anyRole)
	e.PUT("/project/:id", projectHandler.Update, authn, adminOnly)
	e.DELETE("/project/:id", projectHandler.Delete, authn, adminOnly)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
