package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"merchpilot/internal/api/handlers"
	"merchpilot/internal/api/middleware"
	"merchpilot/internal/autopilot"
	"merchpilot/internal/config"
	"merchpilot/internal/database"
	"merchpilot/internal/logger"
	"merchpilot/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	config *config.Config
	logger *logger.Logger
	db     *database.Database
	router *gin.Engine
	server *http.Server
}

func New(cfg *config.Config, logger *logger.Logger, db *database.Database, runner *autopilot.Runner, publisher handlers.TriggerPublisher) *Server {
	// Set Gin mode
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS())

	// Stores
	shops := store.NewShopStore(db.DB)
	products := store.NewProductStore(db.DB)
	configs := store.NewConfigStore(db.DB)
	actions := store.NewActionStore(db.DB)
	feedback := store.NewFeedbackStore(db.DB)
	runs := store.NewRunStore(db.DB)

	// Initialize handlers
	productHandler := handlers.NewProductHandler(db.DB, logger)
	configHandler := handlers.NewConfigHandler(configs, logger)
	actionHandler := handlers.NewActionHandler(actions, feedback, logger)
	autopilotHandler := handlers.NewAutopilotHandler(runner, runs, publisher, logger)
	shopifyHandler := handlers.NewShopifyHandler(shops, products, logger, cfg)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Routes
	v1 := router.Group("/api/v1")
	{
		// Shops
		shopsGroup := v1.Group("/shops/:id")
		{
			shopsGroup.GET("/products", productHandler.List)
			shopsGroup.GET("/config", configHandler.Get)
			shopsGroup.PUT("/config", configHandler.Update)
			shopsGroup.GET("/actions", actionHandler.List)
			shopsGroup.POST("/autopilot/run", autopilotHandler.Run)
			shopsGroup.GET("/autopilot/runs", autopilotHandler.ListRuns)
		}

		// Products
		v1.GET("/products/:id", productHandler.Get)

		// Actions
		actionsGroup := v1.Group("/actions")
		{
			actionsGroup.POST("/:id/approve", actionHandler.Approve)
			actionsGroup.POST("/:id/reject", actionHandler.Reject)
		}

		// Shopify Integration
		shopifyGroup := v1.Group("/shopify")
		{
			shopifyGroup.POST("/install", shopifyHandler.Install)
			shopifyGroup.GET("/callback", shopifyHandler.Callback)
			shopifyGroup.POST("/:id/sync", shopifyHandler.SyncProducts)
			shopifyGroup.POST("/webhook", shopifyHandler.Webhook)
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

// GetRouter returns the Gin router, used by the handler tests
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}
