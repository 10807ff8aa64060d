package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-board/internal/auth"
	"github.com/justsurfingit/job-board/internal/config"
	"github.com/justsurfingit/job-board/internal/database"
	"github.com/justsurfingit/job-board/internal/handlers"
	"github.com/justsurfingit/job-board/internal/logging"
	"github.com/justsurfingit/job-board/internal/metrics"
	"github.com/justsurfingit/job-board/internal/middleware"
	"github.com/justsurfingit/job-board/internal/repository"
	"github.com/justsurfingit/job-board/internal/services"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	// 1. Load Environment Variables
	if err := config.LoadDotEnv(); err != nil {
		logrus.WithError(err).Fatal("error loading .env file")
	}
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := logging.New(cfg.LogLevel)
	gin.SetMode(gin.ReleaseMode)

	// 2. Database Connection
	db, err := database.Connect(database.Options{
		DSN:             cfg.DatabaseURL,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	}, log)
	if err != nil {
		log.WithError(err).Fatal("database unavailable")
	}
	if err := database.Migrate(db); err != nil {
		log.WithError(err).Fatal("database migration failed")
	}

	// 3. Rate limiter backend, optional
	redisClient := connectRedis(cfg.RedisURL, log)
	if redisClient != nil {
		defer redisClient.Close()
	}

	// 4. Core services
	users := repository.NewUserRepository(db)
	jobs := repository.NewJobRepository(db)
	applications := repository.NewApplicationRepository(db)

	collector := metrics.New()
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	authService := services.NewAuthService(users, tokens, log)
	jobService := services.NewJobService(jobs, log)
	limiter := middleware.NewRedisLimiter(redisClient, cfg.ApplyRateLimit, cfg.ApplyRateWindow, log)
	applicationService := services.NewApplicationService(applications, jobs, users, log, collector, limiter, cfg.StrictJobOwnership)

	// 5. Router
	router := handlers.NewRouter(handlers.RouterDeps{
		Log:            log,
		Metrics:        collector,
		Tokens:         tokens,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Jobs:           handlers.NewJobHandler(jobService),
		Applications:   handlers.NewApplicationHandler(applicationService),
		Auth:           handlers.NewAuthHandler(authService),
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.HTTPPort).Info("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("server stopped")
}

// connectRedis returns nil when no url is configured or redis is
// unreachable; the apply limiter then lets every request through.
func connectRedis(url string, log *logrus.Logger) *redis.Client {
	if url == "" {
		return nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		log.WithError(err).Warn("redis url parse failed, rate limiting disabled")
		return nil
	}
	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.WithError(err).Warn("redis ping failed, rate limiting disabled")
		_ = client.Close()
		return nil
	}
	return client
}
