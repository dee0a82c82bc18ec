package router

import (
	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/nano-social/backend/internal/activity"
	"github.com/anonto42/nano-social/backend/internal/handlers"
	"github.com/anonto42/nano-social/backend/internal/media"
	"github.com/anonto42/nano-social/backend/internal/middleware"
	"github.com/anonto42/nano-social/backend/internal/realtime"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/anonto42/nano-social/backend/pkg/config"
	"github.com/anonto42/nano-social/backend/validators"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// Dependencies are the services the routes are wired to.
type Dependencies struct {
	Config       *config.Config
	Store        *repositories.Store
	Media        media.Storage
	Hub          *realtime.Hub
	FirebaseAuth *auth.Client // nil when Firebase is not configured
	Log          zerolog.Logger
}

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo, cfg *config.Config, log zerolog.Logger) {
	e.Validator = validators.NewValidator()
	e.Use(eMiddleware.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORSWithConfig(cfg.CORSConfig()))
	e.Use(eMiddleware.BodyLimit(cfg.MaxUploadSize))
	e.Use(middleware.Metrics())
	log.Debug().Msg("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Dependencies) {
	log := deps.Log

	e.GET("/health", handlers.HealthCheck)
	e.GET("/ready", handlers.ReadinessCheck(deps.Store))
	if local, ok := deps.Media.(*media.LocalStorage); ok {
		e.Static(media.URLPrefix, local.Dir())
	}

	// --- Initialize Repositories ---
	userRepo := repositories.NewStoreUserRepository(deps.Store)
	followRepo := repositories.NewStoreFollowRepository(deps.Store)
	postRepo := repositories.NewStorePostRepository(deps.Store)
	likeRepo := repositories.NewStoreLikeRepository(deps.Store)
	commentRepo := repositories.NewStoreCommentRepository(deps.Store)
	storyRepo := repositories.NewStoreStoryRepository(deps.Store)
	messageRepo := repositories.NewStoreMessageRepository(deps.Store)

	engine := activity.NewEngine(deps.Store, log)

	var notifier realtime.Notifier = realtime.NopNotifier{}
	if deps.Hub != nil {
		notifier = realtime.NewHubNotifier(deps.Hub, log)
	}

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, deps.FirebaseAuth, deps.Config.JWTSecret, deps.Config.TokenTTL, log)
	authHandler.RegisterAuthRoutes(authGroup)

	// --- Protected routes (require JWT authentication) ---
	var fallback middleware.TokenResolver
	if deps.FirebaseAuth != nil {
		fallback = middleware.NewFirebaseTokenResolver(deps.FirebaseAuth, userRepo)
	}
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(deps.Config.JWTSecret, fallback))

	handlers.NewUserHandler(userRepo, followRepo, deps.Media, log).RegisterProfileRoutes(api)
	handlers.NewFollowHandler(followRepo, engine, notifier, log).RegisterFollowRoutes(api)
	handlers.NewFeedHandler(engine).RegisterFeedRoutes(api)
	handlers.NewPostHandler(postRepo, userRepo, deps.Media, log).RegisterPostRoutes(api)
	handlers.NewLikeHandler(likeRepo, engine, notifier, log).RegisterLikeRoutes(api)
	handlers.NewCommentHandler(commentRepo, userRepo, engine, notifier, log).RegisterCommentRoutes(api)
	handlers.NewStoryHandler(storyRepo, engine, deps.Media, log).RegisterStoryRoutes(api)
	handlers.NewMessageHandler(messageRepo, userRepo, engine, deps.Media, notifier, log).RegisterMessageRoutes(api)
	handlers.NewNotificationHandler(engine).RegisterNotificationRoutes(api)
	if deps.Hub != nil {
		handlers.NewRealtimeHandler(deps.Hub, log).RegisterRealtimeRoutes(api)
	}

	log.Info().Int("routes", len(e.Routes())).Msg("All routes configured.")
}
