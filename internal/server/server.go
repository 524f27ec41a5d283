package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/wrenchforum/backend/internal/config"
	"github.com/wrenchforum/backend/internal/database"
	"github.com/wrenchforum/backend/internal/forum"
	"github.com/wrenchforum/backend/internal/handlers"
	"github.com/wrenchforum/backend/internal/middleware"
)

type Server struct {
	cfg     *config.Config
	db      database.Service
	handler *handlers.Handler
	log     zerolog.Logger
}

// New wires the forum core and handlers and returns a configured HTTP
// server ready to listen.
func New(cfg *config.Config, db database.Service, log zerolog.Logger) *http.Server {
	svc := forum.NewService(db.GetDB(), log)
	handler := handlers.NewHandler(svc, cfg.JWTSecret)

	s := &Server{
		cfg:     cfg,
		db:      db,
		handler: handler,
		log:     log,
	}

	router := s.RegisterRoutes()

	return &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	if s.cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.db.Health())
	})

	api := r.Group("/api")
	{
		// Auth routes (public)
		api.POST("/register", s.handler.Auth.Register)
		api.POST("/login", s.handler.Auth.Login)

		// Public reads. The thread view takes an optional token so
		// moderators see removed content in place.
		api.GET("/categories", s.handler.Post.GetCategories)
		api.GET("/posts", s.handler.Post.GetPosts)
		api.GET("/category/:slug", s.handler.Post.GetCategoryPosts)
		api.GET("/post/:id", middleware.OptionalAuth(s.cfg.JWTSecret), s.handler.Post.GetThread)
		api.GET("/stores", s.handler.Store.GetStores)

		// Protected routes (authentication required)
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(s.cfg.JWTSecret))
		{
			protected.GET("/me", s.handler.Auth.GetMe)
			protected.POST("/verification", s.handler.Auth.SubmitVerification)

			protected.POST("/post/new", s.handler.Post.CreatePost)
			protected.POST("/post/:id/vote", s.handler.Post.VotePost)
			protected.POST("/post/:id/report", s.handler.Post.ReportPost)

			protected.POST("/post/:id/comment", s.handler.Comment.CreateComment)
			protected.POST("/comment/:id/vote", s.handler.Comment.VoteComment)
			protected.POST("/comment/:id/report", s.handler.Comment.ReportComment)

			protected.POST("/stores/submit", s.handler.Store.SubmitStore)
			protected.POST("/store/:id/vote", s.handler.Store.VoteStore)

			// Moderation. Role checks live in the forum core, so these
			// only require a valid session; non-moderators get 403.
			mod := protected.Group("/mod")
			{
				mod.GET("/queue", s.handler.Mod.ModQueue)
				mod.GET("/banned", s.handler.Mod.BannedUsers)
				mod.GET("/post/:id", s.handler.Mod.GetPost)
				mod.POST("/report/:id/resolve", s.handler.Mod.ResolveReport)
				mod.POST("/post/:id/remove", s.handler.Mod.RemovePost)
				mod.POST("/post/:id/restore", s.handler.Mod.RestorePost)
				mod.POST("/comment/:id/remove", s.handler.Mod.RemoveComment)
				mod.POST("/user/:id/ban", s.handler.Mod.BanUser)
				mod.POST("/user/:id/unban", s.handler.Mod.UnbanUser)
			}

			admin := protected.Group("/admin")
			{
				admin.GET("/verifications", s.handler.Admin.PendingVerifications)
				admin.POST("/verify/:id/approve", s.handler.Admin.ApproveVerification)
				admin.POST("/verify/:id/deny", s.handler.Admin.DenyVerification)
			}
		}
	}

	return r
}
