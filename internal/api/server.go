package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"feedforge/internal/api/handlers"
	"feedforge/internal/api/middleware"
	"feedforge/internal/config"
	"feedforge/internal/database"
	"feedforge/internal/events"
	"feedforge/internal/feed/channels"
	"feedforge/internal/logger"

	"github.com/gin-gonic/gin"
)

type Server struct {
	config *config.Config
	logger *logger.Logger
	db     *database.Database
	router *gin.Engine
	server *http.Server
}

func New(cfg *config.Config, logger *logger.Logger, db *database.Database, publisher *events.Publisher) *Server {
	// Set Gin mode
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS())

	registry := channels.NewRegistry()

	// Initialize handlers
	productHandler := handlers.NewProductHandler(db.DB, logger)
	feedHandler := handlers.NewFeedHandler(db.DB, logger, publisher)
	channelHandler := handlers.NewChannelHandler(registry, logger)

	// Routes
	v1 := router.Group("/api/v1")
	{
		// Products
		products := v1.Group("/products")
		{
			products.GET("", productHandler.List)
			products.GET("/:id", productHandler.Get)
			products.POST("", productHandler.Create)
			products.PUT("/:id", productHandler.Update)
			products.DELETE("/:id", productHandler.Delete)
		}

		// Feeds
		feeds := v1.Group("/feeds")
		{
			feeds.GET("", feedHandler.List)
			feeds.GET("/:id", feedHandler.Get)
			feeds.POST("", feedHandler.Create)
			feeds.PUT("/:id", feedHandler.Update)
			feeds.DELETE("/:id", feedHandler.Delete)
			feeds.POST("/:id/generate", feedHandler.Generate)
			feeds.POST("/:id/cancel", feedHandler.Cancel)
			feeds.GET("/:id/download", feedHandler.Download)
		}

		// Channels
		channelRoutes := v1.Group("/channels")
		{
			channelRoutes.GET("", channelHandler.List)
			channelRoutes.GET("/:name/attributes", channelHandler.Attributes)
		}
	}

	return &Server{
		config: cfg,
		logger: logger,
		db:     db,
		router: router,
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.APIHost, s.config.APIPort)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting server on " + addr)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	return s.server.Shutdown(ctx)
}

func (s *Server) Router() *gin.Engine {
	return s.router
}
