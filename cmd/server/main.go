package main

import (
	"context"
	"fmt"
	"log"

	"go.uber.org/zap"

	"github.com/skiguide/backend/config"
	httpDelivery "github.com/skiguide/backend/internal/delivery/http"
	"github.com/skiguide/backend/internal/domain"
	"github.com/skiguide/backend/internal/infrastructure/cache"
	"github.com/skiguide/backend/internal/infrastructure/catalog"
	"github.com/skiguide/backend/internal/infrastructure/gemini"
	"github.com/skiguide/backend/internal/logger"
	"github.com/skiguide/backend/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Logging.JSON, cfg.Logging.Debug)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()

	zlog.Info("starting skiguide backend",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port))

	ctx := context.Background()

	store, err := buildCatalog(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("catalog setup failed", zap.Error(err))
	}

	generator := buildGenerator(ctx, cfg, zlog)

	var responseCache domain.ResponseCache
	if cfg.Cache.Enabled {
		responseCache = cache.NewMemoryCache()
		zlog.Info("response cache enabled", zap.Duration("ttl", cfg.Cache.TTL))
	}

	extractor := usecase.NewExtractor(usecase.NewLexicon())
	service := usecase.NewQueryService(
		store,
		usecase.NewClassifier(extractor, nil, zlog),
		usecase.NewMatcher(extractor, zlog),
		usecase.NewResponder(generator, usecase.NewEvaluator(), cfg.Gemini.MaxOutputTokens, zlog),
		responseCache,
		cfg.Cache.TTL,
		cfg.Matching.MaxResults,
		zlog,
	)

	handler := httpDelivery.NewHandler(service)
	router := httpDelivery.SetupRouter(cfg, handler, zlog)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zlog.Info("server listening", zap.String("addr", addr))

	if err := router.Run(addr); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}

// buildCatalog picks the catalog source. A CSV export plus a db path means
// import-then-serve; a CSV alone is served from memory; otherwise the
// database is served as-is.
func buildCatalog(ctx context.Context, cfg *config.Config, zlog *zap.Logger) (domain.CatalogRepository, error) {
	sentinel := domain.SentinelFilter{
		WeightGrams: cfg.Catalog.SentinelWeights,
		TurnRadiusM: cfg.Catalog.SentinelTurnRadiusM,
	}

	if cfg.Catalog.CSVPath != "" {
		records, err := catalog.LoadCSV(cfg.Catalog.CSVPath, sentinel)
		if err != nil {
			return nil, err
		}
		zlog.Info("catalog loaded from csv",
			zap.String("path", cfg.Catalog.CSVPath),
			zap.Int("products", len(records)))

		if cfg.Catalog.DBPath == "" {
			return catalog.NewMemoryStore(records), nil
		}

		store, err := catalog.NewSQLiteStore(cfg.Catalog.DBPath, sentinel)
		if err != nil {
			return nil, err
		}
		if err := store.Replace(ctx, records); err != nil {
			return nil, err
		}
		zlog.Info("catalog imported", zap.String("db", cfg.Catalog.DBPath))
		return store, nil
	}

	store, err := catalog.NewSQLiteStore(cfg.Catalog.DBPath, sentinel)
	if err != nil {
		return nil, err
	}
	count, err := store.Count(ctx)
	if err != nil {
		return nil, err
	}
	zlog.Info("catalog opened", zap.String("db", cfg.Catalog.DBPath), zap.Int("products", count))
	return store, nil
}

// buildGenerator returns nil when no API key is configured: the service then
// runs fallback-only and every answer comes from the deterministic templates.
func buildGenerator(ctx context.Context, cfg *config.Config, zlog *zap.Logger) domain.TextGenerator {
	if cfg.Gemini.APIKey == "" {
		zlog.Warn("no gemini api key configured, running fallback-only")
		return nil
	}

	generator, err := gemini.NewGenerator(ctx, gemini.Config{
		APIKey:            cfg.Gemini.APIKey,
		Model:             cfg.Gemini.Model,
		Timeout:           cfg.Gemini.Timeout,
		RequestsPerMinute: cfg.RateLimit.GeminiPerMinute,
	})
	if err != nil {
		zlog.Warn("gemini setup failed, running fallback-only", zap.Error(err))
		return nil
	}

	zlog.Info("gemini generator ready", zap.String("model", generator.Model()))
	return generator
}
