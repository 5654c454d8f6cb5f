package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mssola/user_agent"
	"github.com/sirupsen/logrus"

	"github.com/livemusiclocator/allptvlml/internal/cache"
	"github.com/livemusiclocator/allptvlml/internal/config"
	"github.com/livemusiclocator/allptvlml/internal/gigs"
	"github.com/livemusiclocator/allptvlml/internal/handlers"
	"github.com/livemusiclocator/allptvlml/internal/logging"
	"github.com/livemusiclocator/allptvlml/internal/ptv"
	"github.com/livemusiclocator/allptvlml/internal/services"
	"github.com/livemusiclocator/allptvlml/internal/utils"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting PTV Route Viewer")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Mirror every log line into the bounded buffer served by /api/logs
	logBuffer := logging.NewBuffer(cfg.Server.LogBufferSize)
	logger.AddHook(logging.NewHook(logBuffer))

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize disk cache
	diskCache, err := cache.NewDiskCache(cfg.Cache.Dir, logger)
	if err != nil {
		logger.Fatalf("Failed to initialize cache: %v", err)
	}
	logger.Infof("Cache directory: %s", cfg.Cache.Dir)

	// Initialize upstream clients and services
	logger.Info("Initializing services...")
	ptvClient := ptv.NewClient(cfg.PTV.BaseURL, cfg.PTV.DevID, cfg.PTV.APIKey, logger)
	gigsClient := gigs.NewClient(cfg.Gigs.BaseURL, logger)

	stopService := services.NewStopService(ptvClient, diskCache, cfg.Cache.TTL, logger)
	routeService := services.NewRouteService(ptvClient, diskCache, cfg.Cache.TTL, logger)
	gigService := services.NewGigService(gigsClient, cfg.Gigs.Location, logger)
	matcher := services.NewGigMatcher()
	logger.Info("Services initialized")

	// Initialize handlers
	routeHandler := handlers.NewRouteHandler(routeService, stopService)
	gigHandler := handlers.NewGigHandler(gigService, stopService, matcher)
	logHandler := handlers.NewLogHandler(logBuffer)

	// Initialize Gin router
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	router.LoadHTMLGlob(cfg.Server.TemplatesGlob)

	// Health check endpoint
	router.GET("/health", healthCheckHandler())

	// HTML views
	router.GET("/", routeHandler.Home)
	router.GET("/stops/:route_id/:route_type", routeHandler.ShowStops)
	router.GET("/allgigs", gigHandler.AllGigs)
	router.GET("/nearby_gigs/:route_id/:route_type", gigHandler.NearbyGigs)
	router.GET("/gigs_ahead/:route_id/:route_type/:stop_id/:direction_id", gigHandler.GigsAhead)

	// JSON API
	api := router.Group("/api")
	api.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORS.AllowedOrigins,
		AllowMethods: []string{"GET"},
		AllowHeaders: []string{"Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	{
		api.GET("/logs", logHandler.Logs)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		requestID := uuid.NewString()
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		c.Next()

		latency := time.Since(start)
		ua := user_agent.New(utils.GetUserAgent(c))
		browser, _ := ua.Browser()

		fields := logrus.Fields{
			"request_id": requestID,
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         utils.GetRealIP(c),
			"latency_ms": latency.Milliseconds(),
			"browser":    browser,
			"platform":   ua.Platform(),
		}

		entry := logger.WithFields(fields)

		status := c.Writer.Status()
		switch {
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
