package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"movie-catalog-backend/config"
	"movie-catalog-backend/controllers"
	"movie-catalog-backend/data_access"
	"movie-catalog-backend/logging"
	"movie-catalog-backend/middleware"
	"movie-catalog-backend/services"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	logger.Info().Str("env", cfg.Env).Str("store", cfg.StoreDriver).Str("auth_mode", cfg.AuthMode).
		Msg("configuration loaded")

	ctx := logger.WithContext(context.Background())

	backend, err := openBackend(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open document store")
	}
	defer backend.Close(context.Background())

	indexCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	if err := data_access.CreateIndexes(indexCtx, backend); err != nil {
		logger.Warn().Err(err).Msg("index creation failed")
	}
	cancel()

	var cache data_access.TokenCache
	if cfg.RedisAddr != "" {
		client, err := data_access.ConnectRedis(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("token cache disabled")
		} else {
			defer client.Close()
			cache = data_access.NewRedisTokenCache(client, cfg.TokenCacheTTL)
		}
	}

	// Initialize repositories
	docs := data_access.NewDocuments(backend)
	userRepo := data_access.NewUserRepository(docs, cache)
	movieRepo := data_access.NewMovieRepository(docs)
	listRepo := data_access.NewListItemRepository(docs)

	scheme, err := services.NewAuthScheme(cfg.AuthMode, cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure authentication")
	}

	// Initialize services
	svc := controllers.Services{
		Docs:    docs,
		Auth:    services.NewAuthService(userRepo, scheme),
		Catalog: services.NewCatalogService(movieRepo),
		List:    services.NewListService(userRepo, listRepo, movieRepo, scheme),
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := controllers.NewRouter(svc, controllers.RouterOptions{
		Logger:          logger,
		CORSAllowOrigin: cfg.CORSAllowOrigin,
		Metrics:         middleware.NewMetrics(registry),
	})

	logger.Info().Str("port", cfg.Port).Msg("server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}

func openBackend(cfg *config.Config) (data_access.Backend, error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		return data_access.NewMemoryStore(), nil
	}
	return data_access.NewMongoDB(cfg.MongoURI, cfg.DBName)
}
