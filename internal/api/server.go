package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/MarcosRG/bikesul-backend/internal/api/handlers"
	"github.com/MarcosRG/bikesul-backend/internal/api/middleware"
	"github.com/MarcosRG/bikesul-backend/internal/cache"
	"github.com/MarcosRG/bikesul-backend/internal/config"
	"github.com/MarcosRG/bikesul-backend/internal/logger"
	"github.com/MarcosRG/bikesul-backend/internal/services/woocommerce"
	"github.com/MarcosRG/bikesul-backend/internal/store"

	"github.com/gin-gonic/gin"
)

type Server struct {
	config *config.Config
	logger *logger.Logger
	router *gin.Engine
	server *http.Server
}

func New(cfg *config.Config, logger *logger.Logger, st *store.Store, cache *cache.Cache, syncer handlers.SyncRunner) *Server {
	// Set Gin mode
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS())

	transformer := woocommerce.NewTransformer(int64(cfg.RentalCategoryID), cfg.RentalCategorySlug)

	// Initialize handlers
	productHandler := handlers.NewProductHandler(st, transformer, cache, cfg, logger)
	syncHandler := handlers.NewSyncHandler(syncer, logger)
	healthHandler := handlers.NewHealthHandler(st, cache)

	// Routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthHandler.Check)
		v1.POST("/sync", syncHandler.Run)

		products := v1.Group("/products")
		{
			products.GET("", productHandler.List)
			products.GET("/:id", productHandler.Get)
		}
	}

	return &Server{
		config: cfg,
		logger: logger,
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
