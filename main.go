package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adarshh12/grocery-inventory/config"
	"github.com/adarshh12/grocery-inventory/logger"
	"github.com/adarshh12/grocery-inventory/models"
	"github.com/adarshh12/grocery-inventory/routes"
	"github.com/adarshh12/grocery-inventory/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(cfg.GoEnv, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Log.Sync()

	config.SetConfig(cfg)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Log.Info("Starting Grocery Inventory server...", zap.String("env", cfg.GoEnv))

	router, cleanup, err := setupApp(context.Background(), cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize application", zap.Error(err))
	}
	defer cleanup()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("Server is running", zap.String("addr", "http://localhost:"+cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Log.Error("HTTP server fatal error", zap.Error(err))
	case <-shutdown:
		logger.Log.Info("Received shutdown signal, stopping gracefully...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Failed to shut down HTTP server", zap.Error(err))
	}
}

// setupApp connects the database, installs the services and builds the router.
// The returned cleanup releases external connections.
func setupApp(ctx context.Context, cfg *config.Config) (*gin.Engine, func(), error) {
	cleanup := func() {}

	if err := config.ConnectDatabase(cfg.DatabaseURL); err != nil {
		return nil, cleanup, err
	}

	db := config.GetDB()
	if err := db.AutoMigrate(models.All()...); err != nil {
		return nil, cleanup, fmt.Errorf("failed to migrate database: %w", err)
	}
	logger.Log.Info("Database migration completed successfully")

	if cfg.HasAdminBootstrap() {
		admin, err := services.NewAuthService(db).EnsureAdmin(ctx, services.RegisterInput{
			Username: cfg.AdminUsername,
			Email:    cfg.AdminEmail,
			Password: cfg.AdminPassword,
		})
		if err != nil {
			return nil, cleanup, fmt.Errorf("failed to ensure admin account: %w", err)
		}
		logger.Log.Info("Administrator account ready", zap.String("username", admin.Username))
	}

	var store services.SessionStore
	if cfg.RedisURL != "" {
		redisStore, err := services.NewRedisSessionStore(cfg.RedisURL)
		if err != nil {
			return nil, cleanup, err
		}
		if err := redisStore.Ping(ctx); err != nil {
			redisStore.Close()
			return nil, cleanup, err
		}
		cleanup = func() {
			if err := redisStore.Close(); err != nil {
				logger.Log.Warn("Failed to close redis client", zap.Error(err))
			}
		}
		store = redisStore
		logger.Log.Info("Session revocations stored in redis")
	} else {
		store = services.NewMemorySessionStore()
		logger.Log.Warn("REDIS_URL not set, session revocations are kept in memory")
	}
	services.SetSessionService(services.NewSessionService(cfg.SessionSecret, cfg.SessionTTL, store))

	if cfg.ReportArchiveEnabled() {
		archiver, err := services.NewS3ReportArchiver(ctx, cfg)
		if err != nil {
			cleanup()
			return nil, func() {}, err
		}
		services.SetReportArchiver(archiver)
		logger.Log.Info("Daily reports archived to S3", zap.String("bucket", cfg.AWSS3Bucket))
	}

	router, err := routes.SetupRouter(cfg)
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}
	return router, cleanup, nil
}
