package router

import (
	"context"
	"fmt"

	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/stylesnap/backend/internal/cache"
	"github.com/stylesnap/backend/internal/events"
	"github.com/stylesnap/backend/internal/handlers"
	"github.com/stylesnap/backend/internal/middleware"
	"github.com/stylesnap/backend/internal/models"
	"github.com/stylesnap/backend/internal/repositories"
	"github.com/stylesnap/backend/internal/services"
	"github.com/stylesnap/backend/pkg/config"
	"go.uber.org/zap"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
}

// SetupRoutes runs migrations, wires repositories, services and handlers,
// and registers all application routes.
func SetupRoutes(e *echo.Echo, cfg *config.Config, stores *config.Stores, log *zap.Logger) error {
	err := stores.Postgres.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Block{},
		&models.Like{},
		&models.Rating{},
		&models.Collection{},
		&models.CollectionItem{},
		&models.Comment{},
		&models.Notification{},
	)
	if err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)
	e.Static("/uploads", cfg.UploadPath)

	// --- Repositories ---
	userRepo := repositories.NewPostgresUserRepository(stores.Postgres)
	followRepo := repositories.NewPostgresFollowRepository(stores.Postgres)
	blockRepo := repositories.NewPostgresBlockRepository(stores.Postgres)
	likeRepo := repositories.NewPostgresLikeRepository(stores.Postgres)
	ratingRepo := repositories.NewPostgresRatingRepository(stores.Postgres)
	collectionRepo := repositories.NewPostgresCollectionRepository(stores.Postgres)
	commentRepo := repositories.NewPostgresCommentRepository(stores.Postgres)
	notificationRepo := repositories.NewPostgresNotificationRepository(stores.Postgres)
	postRepo := repositories.NewMongoPostRepository(stores.Mongo.Database(cfg.MongoDatabase))

	// --- Cross-cutting infrastructure ---
	feedCache := cache.NewFeedCache(stores.Redis)
	publisher := events.NewNatsPublisher(stores.Nats)

	// --- Services ---
	notificationService := services.NewNotificationService(notificationRepo, userRepo, followRepo, log)
	userService := services.NewUserService(userRepo, followRepo, blockRepo, notificationService, log)
	postService := services.NewPostService(postRepo, userRepo, likeRepo, ratingRepo, collectionRepo, commentRepo, notificationService, publisher, log)
	feedService := services.NewFeedService(postRepo, userRepo, followRepo, likeRepo, ratingRepo, collectionRepo, feedCache, log)
	ratingService := services.NewRatingService(ratingRepo, postRepo, userRepo, notificationService, log)
	collectionService := services.NewCollectionService(collectionRepo, postRepo, userRepo, likeRepo, ratingRepo, log)
	commentService := services.NewCommentService(commentRepo, postRepo, userRepo, notificationService, log)
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTRefreshSecret, log)
	searchService := services.NewSearchService(postRepo, userRepo, likeRepo, ratingRepo, collectionRepo, userService, log)
	uploadService := services.NewUploadService(cfg.UploadPath, cfg.MaxUploadBytes, cfg.AllowedImageTypeList(), log)

	// The new_post fan-out runs off the event bus so publishing a post
	// is not blocked by follower count.
	if stores.Nats != nil {
		if _, err := events.SubscribePostCreated(stores.Nats, log, func(event events.PostCreatedEvent) {
			notificationService.FanOutNewPost(context.Background(), event)
		}); err != nil {
			return fmt.Errorf("post-created subscription failed: %w", err)
		}
	}

	authRequired := middleware.JWTAuth(cfg.JWTSecret)
	authOptional := middleware.OptionalJWTAuth(cfg.JWTSecret)

	api := e.Group("/api/v1")

	handlers.NewAuthHandler(authService).RegisterAuthRoutes(api, authRequired)
	handlers.NewUserHandler(userService).RegisterUserRoutes(api, authRequired, authOptional)
	handlers.NewPostHandler(postService, feedService).RegisterPostRoutes(api, authRequired, authOptional)
	handlers.NewFeedHandler(feedService).RegisterFeedRoutes(api, authOptional)
	handlers.NewCommentHandler(commentService).RegisterCommentRoutes(api, authRequired)
	handlers.NewRatingHandler(ratingService).RegisterRatingRoutes(api, authRequired)
	handlers.NewCollectionHandler(collectionService).RegisterCollectionRoutes(api, authRequired, authOptional)
	handlers.NewNotificationHandler(notificationService).RegisterNotificationRoutes(api, authRequired)
	handlers.NewSearchHandler(searchService).RegisterSearchRoutes(api, authOptional)
	handlers.NewUploadHandler(uploadService).RegisterUploadRoutes(api, authRequired)

	return nil
}
