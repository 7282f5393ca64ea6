package main

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/FlexEdwin/toolfinder-app/internal/catalog"
	"github.com/FlexEdwin/toolfinder-app/internal/handler"
	"github.com/FlexEdwin/toolfinder-app/internal/kit"
	"github.com/FlexEdwin/toolfinder-app/internal/localstore"
	mid "github.com/FlexEdwin/toolfinder-app/internal/middleware"
	"github.com/FlexEdwin/toolfinder-app/internal/remote"
	"github.com/FlexEdwin/toolfinder-app/internal/selection"
	"github.com/FlexEdwin/toolfinder-app/internal/session"
	"github.com/FlexEdwin/toolfinder-app/pkg/config"
	"github.com/FlexEdwin/toolfinder-app/pkg/jwtutil"
	"github.com/FlexEdwin/toolfinder-app/pkg/logger"
	"github.com/FlexEdwin/toolfinder-app/prometheus"
)

func main() {
	// Load configuration
	appConfig, err := config.Load("toolfinder")
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	if err := logger.InitLogger(appConfig); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting toolfinder", appConfig.LogConfig()...)

	// Initialize JWT utility for the admin auth boundary
	jwtutil.Initialize(&appConfig.JWT)
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Open the local key-value store (selection carts, preferences)
	store, err := localstore.Open(appConfig.LocalStore.Path)
	if err != nil {
		log.Fatal("Failed to open local store", zap.Error(err))
	}
	log.Info("Local store opened", zap.String("path", appConfig.LocalStore.Path))

	// Remote catalog service client
	remoteClient := remote.NewClient(&appConfig.Remote, log)

	// Core components
	query := catalog.NewQuery(remoteClient, appConfig.Cache.SearchFreshness, log)
	categories := catalog.NewCategories(remoteClient, query, appConfig.Cache.CategoryFreshness, log)
	tools := catalog.NewTools(remoteClient, query, categories, log)
	selectionStore := selection.NewStore(store, log)
	kits := kit.NewService(remoteClient, appConfig.Cache.PopularFreshness, log)
	sessions := session.NewManager(store, log)

	// Handlers
	toolHandler := &handler.ToolHandler{Query: query, Tools: tools}
	categoryHandler := &handler.CategoryHandler{Categories: categories}
	selectionHandler := &handler.SelectionHandler{Store: selectionStore}
	kitHandler := &handler.KitHandler{Kits: kits, Selection: selectionStore, Sessions: sessions}
	prefsHandler := &handler.PreferencesHandler{Sessions: sessions}

	// Initialize Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)
	e.Use(mid.SessionMiddleware(sessions))

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Catalog search routes
	toolAPI := e.Group("/api/tools")
	toolAPI.GET("", toolHandler.Search)
	toolAPI.GET("/more", toolHandler.LoadMore)
	toolAPI.GET("/count", toolHandler.Count)

	// Admin tool mutations
	toolAdmin := e.Group("/api/tools", mid.AdminMiddleware)
	toolAdmin.POST("", toolHandler.Create)
	toolAdmin.PUT("/:id", toolHandler.Update)
	toolAdmin.DELETE("/:id", toolHandler.Delete)

	// Category routes
	e.GET("/api/categories", categoryHandler.List)
	categoryAdmin := e.Group("/api/categories", mid.AdminMiddleware)
	categoryAdmin.PUT("/rename", categoryHandler.Rename)
	categoryAdmin.DELETE("/:name", categoryHandler.Delete)

	// Selection cart routes
	selectionAPI := e.Group("/api/selection")
	selectionAPI.GET("", selectionHandler.Get)
	selectionAPI.POST("/toggle", selectionHandler.Toggle)
	selectionAPI.POST("/clear", selectionHandler.Clear)

	// Kit routes
	kitAPI := e.Group("/api/kits")
	kitAPI.GET("", kitHandler.List)
	kitAPI.GET("/popular", kitHandler.Popular)
	kitAPI.POST("", kitHandler.Publish)
	kitAPI.POST("/:id/like", kitHandler.ToggleLike)
	e.DELETE("/api/kits/:id", kitHandler.Delete, mid.AdminMiddleware)

	// Preferences routes
	e.GET("/api/preferences", prefsHandler.Get)
	e.PUT("/api/preferences", prefsHandler.Put)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
