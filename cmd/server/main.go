package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crimewatch/internal/config"
	"crimewatch/internal/handlers"
	"crimewatch/internal/middleware"
	"crimewatch/internal/notifications"
	"crimewatch/internal/repositories/mongodb"
	"crimewatch/internal/services"
	"crimewatch/internal/utils"
	"crimewatch/pkg/cache"
	"crimewatch/pkg/database"
	"crimewatch/pkg/logger"
	"crimewatch/routes"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Missing .env is fine in containerized deployments.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(&logger.Config{
		Level:  logger.LogLevel(cfg.App.LogLevel),
		Format: logFormat(cfg),
		Output: "stdout",
		Colors: cfg.App.Debug,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.Infof("Starting %s v%s (%s)", cfg.App.Name, cfg.App.Version, cfg.App.Environment)

	db, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer db.Close()

	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.EnsureIndexes(indexCtx); err != nil {
		log.Fatalf("Failed to ensure indexes: %v", err)
	}
	cancelIndex()

	// Redis is an optional read-through cache for user lookups; the
	// repositories run fine without it.
	var userCache mongodb.CacheService
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisCache.Close()
		userCache = redisCache
		log.Info("Redis cache enabled")
	}

	mailer := notifications.NewSMTPMailer(cfg.SMTP)
	queue := notifications.NewQueue(mailer, log)

	userRepo := mongodb.NewUserRepository(db.Database, userCache)
	reportRepo := mongodb.NewReportRepository(db.Database)

	authService := services.NewAuthService(userRepo, queue, cfg.Security.JWTSecret, cfg.App.ClientURL, log)
	reportService := services.NewReportService(reportRepo, userRepo, queue, log)
	adminService := services.NewAdminService(userRepo, reportRepo, queue, log)

	authHandler := handlers.NewAuthHandler(authService, cfg.Security.JWTSecret)
	userHandler := handlers.NewUserHandler(authService)
	reportHandler := handlers.NewReportHandler(reportService)
	adminHandler := handlers.NewAdminHandler(adminService)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.App))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware(log))

	if len(cfg.Security.TrustedProxies) > 0 {
		if err := router.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
			log.Fatalf("Invalid trusted proxies: %v", err)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			utils.ErrorResponse(c, http.StatusServiceUnavailable, utils.CodeInternal, "database unreachable")
			return
		}
		utils.SuccessResponse(c, "healthy", gin.H{
			"version": cfg.App.Version,
		})
	})

	v1 := router.Group("/api/v1")
	routes.SetupAuthRoutes(v1, authHandler)
	routes.SetupUserRoutes(v1, userHandler, cfg.Security.JWTSecret)
	routes.SetupReportRoutes(v1, reportHandler, adminHandler, cfg.Security.JWTSecret)
	routes.SetupAdminRoutes(v1, adminHandler, cfg.Security.JWTSecret)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("HTTP server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("HTTP server shutdown: %v", err)
	}

	// Let in-flight notification sends finish before the process exits.
	if err := queue.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Notification queue shutdown: %v", err)
	}

	log.Info("Shutdown complete")
}

func logFormat(cfg *config.Config) string {
	if cfg.App.Environment == "production" {
		return "json"
	}
	return "text"
}
