package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitcoach/api/internal/api"
	"fitcoach/api/internal/auth"
	"fitcoach/api/internal/cache"
	"fitcoach/api/internal/config"
	"fitcoach/api/internal/logging"
	"fitcoach/api/internal/metrics"
	"fitcoach/api/internal/repository"
	"fitcoach/api/internal/repository/memory"
	"fitcoach/api/internal/repository/mongo"
	"fitcoach/api/internal/service"
	"fitcoach/api/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	log "github.com/sirupsen/logrus"
)

// @title Fitness Coaching API
// @version 1.0
// @description API for trainees, trainers, programs, workout sessions and training analytics.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("could not load config: %s", err)
	}

	flushLogs := logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.Log.File,
		LogToStdout:   cfg.Log.Stdout,
		LogLevel:      cfg.Log.Level,
		LogFormatJSON: cfg.Log.JSON,
		Environment:   cfg.Sentry.Environment,
		SentryDSN:     cfg.Sentry.DSN,
		ServerName:    "fitcoach-api",
	})
	defer flushLogs()

	log.Infoln("starting fitness coaching server...")

	// --- Persistence ---
	repos, closeDB := setupRepositories(cfg.Database)
	defer closeDB()
	repos.Exercises = cache.NewExerciseCache(repos.Exercises, cfg.Cache.ExerciseSizeMB, cfg.Cache.ExerciseTTLSeconds)

	// --- File storage ---
	var fileStorage storage.FileStorage
	if cfg.S3.Enabled() {
		fileStorage, err = storage.NewS3Storage(context.Background(), cfg.S3)
		if err != nil {
			log.Fatalf("failed to initialize S3 storage: %s", err)
		}
	} else {
		log.Warnln("s3.bucket_name not set, exercise video uploads are disabled")
	}

	// --- Rate limiting ---
	var rateLimiter api.RequestRateLimiter
	if cfg.RateLimit.Enabled && cfg.Redis.Address != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       0, // use default DB
		})
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Errorf("close redis client: %s", err)
			}
		}()

		pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
		rdbStatus := rdb.Ping(pingCtx)
		pingCancel()
		if err := rdbStatus.Err(); err != nil {
			log.Fatalf("failed to ping redis at %s: %s", cfg.Redis.Address, err)
		}
		rateLimiter = redis_rate.NewLimiter(rdb)
		log.Debugf("rate limiting through redis at %s", cfg.Redis.Address)
	} else {
		log.Warnln("rate limiting disabled")
	}

	// --- Services ---
	tokens, err := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpirationDays)
	if err != nil {
		log.Fatalf("failed to create token manager: %s", err)
	}
	instr := metrics.NewInstrumentation("fitcoach", "api")
	services := service.NewServices(service.Dependencies{
		Repos:       repos,
		Tokens:      tokens,
		FileStorage: fileStorage,
		Observer:    instr,
	})

	// --- HTTP ---
	if cfg.Log.Level != "debug" && cfg.Log.Level != "trace" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.RouterConfig{
		AllowedOrigins: cfg.Server.AllowedOrigins(),
		SecureCookies:  cfg.Server.SecureCookies,
		RateLimiter:    rateLimiter,
		RateLimits:     api.RateLimitsFromConfig(cfg.RateLimit),
		Metrics:        instr,
	}, services)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Infof("server listening on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen and serve: %s", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Infoln("shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Errorf("server forced to shutdown: %s", err)
	}

	log.Infoln("server exiting")
}

// setupRepositories connects the configured backend and returns a func releasing it.
func setupRepositories(cfg config.DatabaseConfig) (*repository.Repositories, func()) {
	if cfg.Driver == config.DriverMemory {
		log.Warnln("using the in-memory database, data is lost on exit")
		return memory.NewRepositories(), func() {}
	}

	dbClient, err := mongo.ConnectDB(cfg.URI)
	if err != nil {
		log.Fatalf("could not connect to MongoDB: %s", err)
	}
	appDB := dbClient.Database(cfg.Name)
	log.Infoln("database connection established")

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureIndexes(ctx, appDB)
	}()

	return mongo.NewRepositories(appDB), func() {
		log.Infoln("disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Errorf("failed to disconnect MongoDB: %s", err)
		}
	}
}
