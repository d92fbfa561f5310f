package router

import (
	"log"
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sajidhasan07/buzzline/backend/internal/handlers"
	"github.com/sajidhasan07/buzzline/backend/internal/middleware"
	"github.com/sajidhasan07/buzzline/backend/internal/models"
	"github.com/sajidhasan07/buzzline/backend/internal/repositories"
	"github.com/sajidhasan07/buzzline/backend/pkg/config"
	"github.com/sajidhasan07/buzzline/backend/pkg/storage"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo, cfg *config.Config) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.Use(eMiddleware.TimeoutWithConfig(eMiddleware.TimeoutConfig{
		Timeout: cfg.RequestTimeout,
	}))
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, cfg *config.Config, pgdb *gorm.DB, mgClient *mongo.Client, firebaseAuthClient *auth.Client, blobStore storage.BlobStore) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Engagement{},
		&models.FriendRequest{},
		&models.Friendship{},
		&models.Comment{},
		&models.Follow{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "buzzline API"})
	})

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	postRepo := repositories.NewMongoPostRepository(mgClient.Database("buzzline"))
	engagementRepo := repositories.NewPostgresEngagementRepository(pgdb)
	friendshipRepo := repositories.NewPostgresFriendshipRepository(pgdb)
	commentRepo := repositories.NewPostgresCommentRepository(pgdb)
	followRepo := repositories.NewPostgresFollowRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, firebaseAuthClient, cfg.JWTSecret)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// Session auth is swappable: local JWT by default, Firebase ID tokens
	// when AUTH_MODE=firebase.
	var requireAuth echo.MiddlewareFunc
	if cfg.AuthMode == "firebase" {
		requireAuth = middleware.FirebaseAuthMiddleware(firebaseAuthClient, userRepo)
	} else {
		requireAuth = middleware.JWTAuthMiddleware(cfg.JWTSecret)
	}

	// --- Optional-auth routes: readable anonymously, but responses carry
	// per-user flags when a valid token is present ---
	public := e.Group("/api/v1")
	public.Use(middleware.OptionalJWTAuthMiddleware(cfg.JWTSecret))

	// --- Protected routes ---
	api := e.Group("/api/v1")
	api.Use(requireAuth)
	log.Printf("Authentication middleware applied to /api/v1 group (mode=%s).", cfg.AuthMode)

	// User routes
	userHandler := handlers.NewUserHandler(userRepo, blobStore)
	userHandler.RegisterProfileRoutes(api)
	userHandler.RegisterReadRoutes(public)
	log.Println("User routes configured.")

	// Post routes
	postHandler := handlers.NewPostHandler(postRepo, userRepo)
	postHandler.RegisterPostRoutes(api)
	postHandler.RegisterReadRoutes(public)
	log.Println("Post routes configured.")

	// Feed routes
	feedHandler := handlers.NewFeedHandler(postRepo, userRepo, engagementRepo, blobStore)
	feedHandler.RegisterFeedRoutes(public)
	log.Println("Feed routes configured.")

	// Engagement (like/bookmark) routes
	engagementHandler := handlers.NewEngagementHandler(engagementRepo, postRepo, userRepo, notificationRepo)
	engagementHandler.RegisterEngagementRoutes(api)
	engagementHandler.RegisterStatusRoutes(public)
	log.Println("Engagement routes configured.")

	// Friendship routes
	friendshipHandler := handlers.NewFriendshipHandler(friendshipRepo, userRepo, notificationRepo)
	friendshipHandler.RegisterFriendshipRoutes(api)
	log.Println("Friendship routes configured.")

	// Comment routes
	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo, userRepo, notificationRepo)
	commentHandler.RegisterCommentRoutes(api)
	commentHandler.RegisterReadRoutes(public)
	log.Println("Comment routes configured.")

	// Follow routes
	followHandler := handlers.NewFollowHandler(followRepo, userRepo, notificationRepo)
	followHandler.RegisterFollowRoutes(api)
	log.Println("Follow routes configured.")

	// Notification routes
	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	// Media routes
	mediaHandler := handlers.NewMediaHandler(blobStore)
	mediaHandler.RegisterMediaRoutes(api)
	log.Println("Media routes configured.")

	log.Println("All routes configured.")
}
