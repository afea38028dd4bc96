package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/dinerank/dinerank/internal/config"
	"github.com/dinerank/dinerank/internal/db"
	dbMem "github.com/dinerank/dinerank/internal/db/mem"
	dbRedis "github.com/dinerank/dinerank/internal/db/redis"
	"github.com/dinerank/dinerank/internal/domain/score"
	"github.com/dinerank/dinerank/internal/domain/source"
	logpkg "github.com/dinerank/dinerank/internal/logger"
	"github.com/dinerank/dinerank/internal/metrics"
	"github.com/dinerank/dinerank/internal/repository/analysiscache"
	"github.com/dinerank/dinerank/internal/repository/narrcache"
	"github.com/dinerank/dinerank/internal/repository/searchcache"
	chiTransport "github.com/dinerank/dinerank/internal/transport/chi"
	"github.com/dinerank/dinerank/internal/transport/googleplaces"
	openaiNarr "github.com/dinerank/dinerank/internal/transport/openai"
	"github.com/dinerank/dinerank/internal/transport/yelp"
	discoveryuc "github.com/dinerank/dinerank/internal/usecase/discovery"
	healthuc "github.com/dinerank/dinerank/internal/usecase/health"
	mergeuc "github.com/dinerank/dinerank/internal/usecase/merge"
	profileuc "github.com/dinerank/dinerank/internal/usecase/profile"
	rankuc "github.com/dinerank/dinerank/internal/usecase/rank"
	reviewuc "github.com/dinerank/dinerank/internal/usecase/review"
	"github.com/dinerank/dinerank/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting dinerank API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("cache_driver", cfg.Cache.Driver),
		zap.Bool("google_enabled", cfg.Sources.Google.Enabled()),
		zap.Bool("yelp_enabled", cfg.Sources.Yelp.Enabled()),
		zap.Bool("narrative_enabled", cfg.Narrative.Enabled()),
	)

	// Create cache store based on driver
	var store db.Store
	switch cfg.Cache.Driver {
	case "memory":
		store = dbMem.NewStore()
	case "redis":
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
	default:
		logger.Fatal("Unknown cache driver", zap.String("driver", cfg.Cache.Driver))
	}
	if err != nil {
		logger.Fatal("Failed to create cache store", zap.Error(err))
	}
	defer store.Close()

	// Wait for cache store to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Cache store not ready", zap.Error(err))
	}
	logger.Info("Connected to cache store")

	// Register metrics explicitly (no init())
	metrics.RegisterSourceMetrics()
	metrics.RegisterNarrativeMetrics()

	// Platform clients — composition root
	var (
		listingSources []discoveryuc.ListingSource
		reviewSources  []profileuc.ReviewSource
		sourceCheckers []healthuc.SourceChecker
	)
	if cfg.Sources.Google.Enabled() {
		google := googleplaces.New(&googleplaces.Config{
			APIKey:  cfg.Sources.Google.APIKey,
			BaseURL: cfg.Sources.Google.BaseURL,
			Timeout: time.Duration(cfg.Sources.Google.TimeoutSec) * time.Second,
			Logger:  logger,
		})
		listingSources = append(listingSources, google)
		reviewSources = append(reviewSources, google)
		sourceCheckers = append(sourceCheckers, google)
	}
	if cfg.Sources.Yelp.Enabled() {
		yelpClient := yelp.New(&yelp.Config{
			APIKey:  cfg.Sources.Yelp.APIKey,
			BaseURL: cfg.Sources.Yelp.BaseURL,
			Timeout: time.Duration(cfg.Sources.Yelp.TimeoutSec) * time.Second,
			Logger:  logger,
		})
		listingSources = append(listingSources, yelpClient)
		reviewSources = append(reviewSources, yelpClient)
		sourceCheckers = append(sourceCheckers, yelpClient)
	}
	logger.Info("Platform clients created", zap.Int("count", len(listingSources)))

	// Scoring and matching engines
	merger, err := mergeuc.New(mergeuc.Config{Threshold: cfg.Scoring.MatchThreshold})
	if err != nil {
		logger.Fatal("Failed to create merge engine", zap.Error(err))
	}

	weights := score.DefaultWeights()
	if cfg.Scoring.Weights != nil {
		weights = *cfg.Scoring.Weights
	}
	ranker, err := rankuc.New(weights, logger)
	if err != nil {
		logger.Fatal("Failed to create ranking engine", zap.Error(err))
	}

	engine, err := reviewuc.New(reviewuc.Config{
		SourceWeights: sourceWeights(cfg.Scoring.SourceWeights),
	})
	if err != nil {
		logger.Fatal("Failed to create review engine", zap.Error(err))
	}

	// Narrative provider, wrapped in the narrative cache
	var (
		narrator        profileuc.Narrator
		narratorChecker healthuc.NarratorChecker
	)
	if cfg.Narrative.Enabled() {
		base := openaiNarr.NewNarrator(&openaiNarr.Config{
			APIKey:      cfg.Narrative.APIKey,
			BaseURL:     cfg.Narrative.BaseURL,
			Model:       cfg.Narrative.Model,
			MaxTokens:   cfg.Narrative.MaxTokens,
			Temperature: float32(cfg.Narrative.Temperature),
			Provider:    cfg.Narrative.Provider,
			Logger:      logger,
		})
		narrator = narrcache.New(base, store, metrics.NarrativeCacheTotal, logger)
		narratorChecker = base
		logger.Info("Narrative provider created",
			zap.String("provider", cfg.Narrative.Provider),
			zap.String("model", cfg.Narrative.Model),
		)
	}

	// Result caches
	searchCache := searchcache.New(
		store, time.Duration(cfg.Cache.SearchTTLSec)*time.Second,
		metrics.SearchCacheTotal, logger,
	)
	analysisCache := analysiscache.New(
		store, time.Duration(cfg.Cache.AnalysisTTLSec)*time.Second,
		metrics.AnalysisCacheTotal, logger,
	)

	// Use case services
	discoverySvc, err := discoveryuc.New(listingSources, searchCache, merger, ranker, logger)
	if err != nil {
		logger.Fatal("Failed to create discovery service", zap.Error(err))
	}
	profileSvc, err := profileuc.New(
		reviewSources, analysisCache, engine, narrator,
		profileuc.Config{AuthenticityFloor: cfg.Scoring.AuthenticityFloor},
		logger,
	)
	if err != nil {
		logger.Fatal("Failed to create profile service", zap.Error(err))
	}
	healthSvc := healthuc.New(store, sourceCheckers, narratorChecker)

	// Create chi server
	server := chiTransport.NewServer(discoverySvc, profileSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(wideEventMiddleware(logger))
	r.Mount("/", server.Router())

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// sourceWeights converts the config weight map to domain source keys.
// Nil in, nil out — the review engine applies its own defaults.
func sourceWeights(m map[string]float64) map[source.Source]float64 {
	if len(m) == 0 {
		return nil
	}
	out := make(map[source.Source]float64, len(m))
	for name, w := range m {
		out[source.Source(name)] = w
	}
	return out
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
