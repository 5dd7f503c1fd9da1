package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/modelgate/admin-api/internal/config"
	"github.com/modelgate/admin-api/internal/core/services"
	"github.com/modelgate/admin-api/internal/logger"
	"github.com/modelgate/admin-api/internal/platform/otel"
	"github.com/modelgate/admin-api/internal/server"
	"github.com/modelgate/admin-api/internal/store/cache"
	"github.com/modelgate/admin-api/internal/store/sqlite"
	"github.com/modelgate/admin-api/internal/version"
)

const serviceName = "admin-api"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger.Initialize(cfg.Server.Env, "")
	defer logger.Sync()
	log := logger.Get()

	shutdownTracer, err := otel.InitTracer(serviceName, log, os.Stdout)
	if err != nil {
		log.Fatal("Failed to initialize tracer", zap.Error(err))
	}

	repo, err := sqlite.NewSQLiteStorage(cfg.Database.DSN, log)
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer repo.Close()

	var counts cache.CacheService
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn("Redis unavailable, falling back to in-memory cache", zap.Error(err))
			counts = cache.NewMemoryCache()
		} else {
			defer redisCache.Close()
			counts = redisCache
			log.Info("Redis cache connected", zap.String("addr", cfg.Redis.Addr))
		}
	} else {
		counts = cache.NewMemoryCache()
	}

	service := services.NewMappingService(
		repo,
		counts,
		cfg.Mapping.MatcherCacheSize,
		time.Duration(cfg.Mapping.PreviewCacheTTLSeconds)*time.Second,
	)

	srv := server.New(cfg, log, service, repo)

	go version.CheckForUpdates()

	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()
	log.Info("Admin API listening", zap.String("port", cfg.Server.Port), zap.String("env", cfg.Server.Env))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	if err := shutdownTracer(ctx); err != nil {
		log.Error("Tracer shutdown failed", zap.Error(err))
	}
}
