package main

import (
	"context"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SpladlesRUs/calendar-hub/internal/api/handlers"
	"github.com/SpladlesRUs/calendar-hub/internal/api/middleware"
	"github.com/SpladlesRUs/calendar-hub/internal/api/routes"
	"github.com/SpladlesRUs/calendar-hub/internal/domain/embed"
	"github.com/SpladlesRUs/calendar-hub/internal/domain/feed"
	"github.com/SpladlesRUs/calendar-hub/internal/domain/tenant"
	"github.com/SpladlesRUs/calendar-hub/internal/infrastructure/persistence"
	"github.com/SpladlesRUs/calendar-hub/internal/infrastructure/storage"
	"github.com/SpladlesRUs/calendar-hub/pkg/config"
	"github.com/SpladlesRUs/calendar-hub/pkg/logger"
	"github.com/SpladlesRUs/calendar-hub/pkg/security/auth"
	"github.com/SpladlesRUs/calendar-hub/web"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// RequestLoggerMiddleware logs all incoming HTTP requests
func RequestLoggerMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		log.Info("Request completed",
			zap.String("path", path),
			zap.String("method", method),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func main() {
	cfg, err := config.LoadConfig("")
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}

	log := logger.NewLogger(cfg.Logging.Level)
	defer log.Sync()

	log.Info("Configuration loaded",
		zap.String("mode", cfg.Server.Mode),
		zap.String("db_driver", cfg.Database.Driver))

	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Database
	db, err := persistence.NewDatabase(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Session store: redis when configured, process-local otherwise.
	var sessions auth.SessionStore
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		sessions = auth.NewRedisSessionStore(client)
		log.Info("Using redis session store", zap.String("addr", cfg.Redis.Addr))
	} else {
		sessions = auth.NewMemorySessionStore()
	}

	// Blob storage for uploaded logos
	blobs := storage.NewFilesystemStore(cfg.Storage.UploadsDir, "/uploads")
	if err := os.MkdirAll(blobs.BaseDir(), 0o755); err != nil {
		log.Fatal("Failed to create uploads dir", zap.Error(err))
	}

	// Domain services
	tenantRepo := tenant.NewRepository(db.DB)
	tenantService := tenant.NewService(tenantRepo, blobs, log.Logger)
	feedService := feed.NewService(tenantRepo, cfg.Proxy.Timeout, cfg.Proxy.UserAgent, log.Logger)
	embedService, err := embed.NewService(tenantRepo, cfg.Embed.PublicBaseURL)
	if err != nil {
		log.Fatal("Failed to initialize embed service", zap.Error(err))
	}

	// Handlers
	creds := auth.Credentials{
		Username:     cfg.Admin.Username,
		Password:     cfg.Admin.Password,
		PasswordHash: cfg.Admin.PasswordHash,
	}
	authHandler := handlers.NewAuthHandler(creds, sessions, cfg.Admin.SessionExpiry, log.Logger)
	calendarHandler := handlers.NewCalendarHandler(tenantService, embedService)
	embedHandler := handlers.NewEmbedHandler(embedService)
	feedHandler := handlers.NewFeedHandler(feedService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLoggerMiddleware(log))
	router.Use(middleware.NewMetricsMiddleware().CollectMetrics())
	router.Use(middleware.NewFrameHeadersMiddleware(cfg.Embed.AllowedFrameParents))
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:    []string{"Content-Type", "X-Admin-Token"},
		MaxAge:          12 * time.Hour,
	}))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	// Static assets and tenant uploads
	router.StaticFS("/static", http.FS(web.StaticFS()))
	router.Static("/uploads", blobs.BaseDir())

	routes.NewPublicRoutes(embedHandler, feedHandler).RegisterRoutes(router)
	routes.NewAdminRoutes(authHandler, calendarHandler,
		middleware.NewAdminAuthMiddleware(sessions)).RegisterRoutes(router)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
}
