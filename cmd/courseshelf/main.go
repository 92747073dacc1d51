package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"

	"github.com/courseshelf/courseshelf/internal/handler"
	"github.com/courseshelf/courseshelf/internal/middleware"
	"github.com/courseshelf/courseshelf/internal/repository"
	"github.com/courseshelf/courseshelf/internal/scanner"
	"github.com/courseshelf/courseshelf/internal/service"
	"github.com/courseshelf/courseshelf/pkg/cache"
	"github.com/courseshelf/courseshelf/pkg/config"
	"github.com/courseshelf/courseshelf/pkg/logger"
	corsmiddleware "github.com/courseshelf/courseshelf/pkg/middleware/cors"
	reqidmiddleware "github.com/courseshelf/courseshelf/pkg/middleware/requestid"
	"github.com/courseshelf/courseshelf/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	// Redis backs the scan-result cache and, optionally, the registry
	// document. The service degrades to direct scans when it is absent.
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	store := storage.NewOS()
	analyzer := scanner.NewAnalyzer(store, logr)
	courseScanner := scanner.NewScanner(store, logr)

	var docs repository.DocumentStore
	switch cfg.Library.RegistryBackend {
	case config.RegistryBackendRedis:
		if redisClient == nil {
			log.Fatal("registry backend is redis but redis is unreachable")
		}
		docs = repository.NewRedisDocumentStore(redisClient)
	default:
		docs, err = repository.NewFileDocumentStore(afero.NewOsFs(), cfg.Library.DataDir)
		if err != nil {
			log.Fatalf("failed to init registry store: %v", err)
		}
	}

	registry := repository.NewCourseRepository(docs, analyzer, logr)
	scanCache := repository.NewCacheRepository(redisClient, logr)
	metrics := service.NewMetricsService()

	svc := service.NewLibraryService(
		registry,
		analyzer,
		courseScanner,
		scanCache,
		nil,
		validator.New(),
		logr,
		metrics,
		service.LibraryServiceConfig{
			CacheTTL:        cfg.Library.CacheTTL,
			RescanQueueSize: cfg.Rescan.QueueSize,
			RescanRetry:     cfg.Rescan.RetryDelay,
		},
	)
	svc.Start(context.Background())
	defer svc.Stop()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	metricsHandler := handler.NewMetricsHandler(metrics)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)
	handler.NewLibraryHandler(svc).Register(api)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
