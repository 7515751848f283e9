package server

import (
	"log"
	"strings"
	"time"

	"github.com/answerhub/community-api/internal/config"
	"github.com/answerhub/community-api/internal/handler"
	"github.com/answerhub/community-api/internal/middleware"
	"github.com/answerhub/community-api/internal/repository"
	"github.com/answerhub/community-api/internal/service"
	"github.com/answerhub/community-api/pkg/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	voteRepo := repository.NewVoteRepository(db)
	followRepo := repository.NewFollowRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	imageStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		// Uploads are optional in local development
		log.Printf("cloudinary storage disabled: %v", err)
		imageStorage = nil
	}

	meiliHost := cfg.MeiliSearchHost
	if !strings.HasPrefix(meiliHost, "http") {
		meiliHost = "http://" + meiliHost + ":7700"
	}
	meiliClient := meilisearch.New(meiliHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))

	tokenTTL := time.Duration(cfg.JWTTTLMinutes) * time.Minute

	searchSvc := service.NewSearchService(meiliClient)
	notificationSvc := service.NewNotificationService(notificationRepo, redisClient)
	reputationSvc := service.NewReputationService(userRepo, notificationSvc)

	authSvc := service.NewAuthService(userRepo, imageStorage, cfg.JWTSecret, tokenTTL)
	profileSvc := service.NewProfileService(userRepo, followRepo, imageStorage)
	categorySvc := service.NewCategoryService(categoryRepo)
	questionSvc := service.NewQuestionService(questionRepo, categoryRepo, commentRepo, redisClient, searchSvc, cfg.RateLimitGlobal, cfg.RateLimitQuestion)
	commentSvc := service.NewCommentService(commentRepo, questionRepo, userRepo, redisClient, notificationSvc, reputationSvc, cfg.RateLimitGlobal, cfg.RateLimitComment)
	voteSvc := service.NewVoteService(voteRepo, redisClient, notificationSvc, reputationSvc)
	followSvc := service.NewFollowService(followRepo, userRepo, notificationSvc)

	authHandler := handler.NewAuthHandler(authSvc)
	profileHandler := handler.NewProfileHandler(profileSvc)
	categoryHandler := handler.NewCategoryHandler(categorySvc)
	questionHandler := handler.NewQuestionHandler(questionSvc)
	commentHandler := handler.NewCommentHandler(commentSvc)
	voteHandler := handler.NewVoteHandler(voteSvc)
	followHandler := handler.NewFollowHandler(followSvc)
	notificationHandler := handler.NewNotificationHandler(notificationSvc, redisClient)
	searchHandler := handler.NewSearchHandler(searchSvc)
	uploadHandler := handler.NewUploadHandler(imageStorage)
	adminHandler := handler.NewAdminHandler(notificationSvc)

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware(userRepo, cfg.JWTSecret)

	api := router.Group("/api")

	// Public routes
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	public := api.Group("")
	public.Use(authMiddleware.OptionalAuth())
	{
		public.GET("/categories", categoryHandler.List)
		public.GET("/questions", questionHandler.List)
		public.GET("/questions/:id", questionHandler.Get)
		public.GET("/questions/:id/comments", commentHandler.ListByQuestion)
		public.GET("/votes/status", voteHandler.Status)
		public.GET("/profile/:username", profileHandler.GetByUsername)
		public.GET("/users/:id/followers", followHandler.Followers)
		public.GET("/users/:id/following", followHandler.Following)
		public.GET("/search", searchHandler.Search)
	}

	// Protected routes
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		// Moderator routes
		adminGroup := protected.Group("/admin")
		adminGroup.Use(authMiddleware.RequireModerator())
		{
			adminGroup.POST("/categories", categoryHandler.Create)
			adminGroup.DELETE("/categories/:id", categoryHandler.Delete)
			adminGroup.PATCH("/questions/:id/moderate", questionHandler.Moderate)
			adminGroup.DELETE("/questions/:id", questionHandler.Delete)
			adminGroup.DELETE("/comments/:id", commentHandler.Delete)
			adminGroup.POST("/broadcast", adminHandler.Broadcast)
		}

		// Question routes
		protected.POST("/questions", questionHandler.Create)
		protected.PUT("/questions/:id", questionHandler.Update)
		protected.DELETE("/questions/:id", questionHandler.Delete)
		protected.POST("/questions/:id/unaccept", commentHandler.Unaccept)

		// Comment routes
		protected.POST("/comments", commentHandler.Create)
		protected.PUT("/comments/:id", commentHandler.Update)
		protected.DELETE("/comments/:id", commentHandler.Delete)
		protected.POST("/comments/:id/accept", commentHandler.Accept)

		// Vote routes
		protected.POST("/votes", voteHandler.Cast)
		protected.DELETE("/votes", voteHandler.Retract)

		// Follow routes
		protected.POST("/users/:id/follow", followHandler.Follow)
		protected.DELETE("/users/:id/follow", followHandler.Unfollow)

		// Profile routes
		protected.GET("/profile/me", profileHandler.GetMe)
		protected.PUT("/profile", profileHandler.UpdateMe)

		// Notification routes
		protected.GET("/notifications", notificationHandler.List)
		protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		protected.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
		protected.GET("/notifications/ws", notificationHandler.HandleWebSocket)

		// Uploads
		protected.POST("/upload", uploadHandler.UploadImage)
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	origins := strings.Split(allowedOrigins, ",")

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
