package server

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/swtichedxp/Naotems-poll/internal/config"
	"github.com/swtichedxp/Naotems-poll/internal/database"
	"github.com/swtichedxp/Naotems-poll/internal/events"
	"github.com/swtichedxp/Naotems-poll/internal/handlers"
	"github.com/swtichedxp/Naotems-poll/internal/middleware"
	"github.com/swtichedxp/Naotems-poll/internal/storage"
)

type Server struct {
	cfg     *config.Config
	db      database.Service
	handler *handlers.Handler
}

// NewServer creates and configures a new server
func NewServer(cfg *config.Config) *http.Server {
	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	store := storage.NewBucketClient(cfg.StorageURL, cfg.StorageBucket, cfg.StorageKey)
	bus := events.NewBus()
	handler := handlers.NewHandler(db.GetDB(), cfg, store, bus)

	newServer := &Server{
		cfg:     cfg,
		db:      db,
		handler: handler,
	}

	router := newServer.RegisterRoutes()

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Printf("Server starting on port %s", cfg.Port)

	return server
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
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

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		api.POST("/register", s.handler.Auth.Register)
		api.POST("/login", s.handler.Auth.Login)

		// Student routes (authentication required)
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(s.cfg.JWTSecret))
		{
			protected.GET("/me", s.handler.Auth.GetMe)

			protected.GET("/polls", s.handler.Poll.GetPolls)
			protected.GET("/polls/:id/vote", s.handler.Vote.GetState)
			protected.POST("/polls/:id/vote", s.handler.Vote.Submit)

			// Admin routes (allow-list required)
			admin := protected.Group("/admin")
			admin.Use(middleware.AdminOnly(s.db.GetDB(), s.cfg))
			{
				admin.POST("/polls", s.handler.Poll.CreatePoll)
				admin.PATCH("/polls/:id/active", s.handler.Poll.SetPollActive)

				admin.GET("/votes/pending", s.handler.Admin.ListPending)
				admin.POST("/votes/:id/disposition", s.handler.Admin.Disposition)
				admin.GET("/votes/stream", s.handler.Admin.Stream)
			}
		}
	}

	return r
}
