package http

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	appsvc "fastcart-api/internal/app"
	"fastcart-api/internal/bootstrap"
	"fastcart-api/internal/transport/http/handler"
	"fastcart-api/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	cfg := app.Config
	logger := app.Logger
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(cfg.App.GinMode)
	router := gin.New()
	router.MaxMultipartMemory = cfg.MaxUploadBytes()
	router.Use(
		middleware.Recovery(logger),
		middleware.RequestLogger(logger),
		cors.New(cors.Config{
			AllowAllOrigins: true,
			AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
			MaxAge:          12 * time.Hour,
		}),
	)

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	authService := appsvc.NewAuthService(
		app.Users,
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.JWTExpireMinute)*time.Minute,
		cfg.Auth.BcryptCost,
	)
	categoryService := appsvc.NewCategoryService(
		app.Categories,
		app.Media,
		app.Cache,
		app.Cleanup,
		logger,
		appsvc.CategoryServiceConfig{
			MaxUploadBytes: cfg.MaxUploadBytes(),
			MediaTimeout:   time.Duration(cfg.Media.TimeoutSeconds) * time.Second,
		},
	)
	authHandler := handler.NewAuthHandler(authService, cfg.App.ExposeErrorDetail)
	categoryHandler := handler.NewCategoryHandler(categoryService, cfg.MaxUploadBytes(), cfg.App.ExposeErrorDetail)

	requireAuth := middleware.AuthJWT(authService)
	createAuth := middleware.OptionalAuthJWT(authService)
	if cfg.Auth.RequireAuthOnCreate {
		createAuth = requireAuth
	}

	api := router.Group("/api")
	authGroup := api.Group("/auth")
	authGroup.POST("/signup", authHandler.Signup)
	authGroup.POST("/login", authHandler.Login)

	categoryGroup := api.Group("/categories")
	categoryGroup.GET("", requireAuth, categoryHandler.List)
	categoryGroup.POST("", createAuth, categoryHandler.Create)
	categoryGroup.PUT("/:id", requireAuth, categoryHandler.Update)
	categoryGroup.DELETE("/:id", requireAuth, categoryHandler.Delete)

	return router
}
