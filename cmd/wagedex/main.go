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
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/openlabor/wagedex/internal/config"
	dbElastic "github.com/openlabor/wagedex/internal/db/elastic"
	dbRedis "github.com/openlabor/wagedex/internal/db/redis"
	"github.com/openlabor/wagedex/internal/ingest"
	logpkg "github.com/openlabor/wagedex/internal/logger"
	"github.com/openlabor/wagedex/internal/metrics"
	"github.com/openlabor/wagedex/internal/repository/salarystats"
	"github.com/openlabor/wagedex/internal/repository/statscache"
	"github.com/openlabor/wagedex/internal/repository/wageindex"
	chiTransport "github.com/openlabor/wagedex/internal/transport/chi"
	healthuc "github.com/openlabor/wagedex/internal/usecase/health"
	ingestuc "github.com/openlabor/wagedex/internal/usecase/ingest"
	statsuc "github.com/openlabor/wagedex/internal/usecase/salarystats"
	"github.com/openlabor/wagedex/internal/version"
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

	logger.Info("Starting wagedex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("elastic_addrs", cfg.Elastic.Addrs),
		zap.String("index", cfg.Elastic.Index),
	)

	store, err := dbElastic.NewStore(dbElastic.Config{
		Addrs:      cfg.Elastic.Addrs,
		Username:   cfg.Elastic.Username,
		Password:   cfg.Elastic.Password,
		CACertPath: cfg.Elastic.CACert,
	})
	if err != nil {
		logger.Fatal("Failed to create engine store", zap.Error(err))
	}
	defer store.Close()

	// Wait for the engine to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Elastic.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Engine not ready", zap.Error(err))
	}
	logger.Info("Connected to engine")

	// Register cache metrics explicitly (no init())
	metrics.RegisterCacheMetrics()

	// Optional stats cache. Pass nil interfaces (not typed nil pointers!)
	// down the stack when caching is disabled.
	var statsCache statsuc.Cache
	var cachePinger healthuc.CachePinger
	if len(cfg.Cache.Addrs) > 0 {
		cacheStore, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer cacheStore.Close()

		statsCache = statscache.New(
			cacheStore,
			time.Duration(cfg.Cache.TTLSec)*time.Second,
			metrics.StatsCacheTotal,
			logger,
		)
		cachePinger = cacheStore
		logger.Info("Stats cache enabled", zap.Strings("cache_addrs", cfg.Cache.Addrs))
	}

	// Create repositories
	statsRepo := salarystats.New(store, cfg.Elastic.Index)
	indexRepo := wageindex.New(store, cfg.Elastic.Index)

	// Create use case services
	statsSvc := statsuc.New(statsRepo, statsCache)
	healthSvc := healthuc.New(store, cachePinger)

	// Bootstrap the index; the load runs only when the index is empty.
	// A failed load leaves the query side up against whatever is indexed.
	if cfg.Ingest.Enabled {
		ingestMetrics := metrics.NewIngest(prometheus.DefaultRegisterer)
		pipeline := ingest.NewPipeline(indexRepo, ingest.Config{
			SourceURL:       cfg.Ingest.SourceURL,
			DownloadTimeout: time.Duration(cfg.Ingest.DownloadTimeoutSec) * time.Second,
			Workers:         cfg.Ingest.Workers,
			BatchSize:       cfg.Ingest.BatchSize,
		}, ingestMetrics, logger)
		ingestSvc := ingestuc.New(indexRepo, pipeline, logger)

		go func() {
			if err := ingestSvc.Bootstrap(ctx); err != nil {
				logger.Error("Ingestion bootstrap failed", zap.Error(err))
			}
		}()
	} else {
		if err := indexRepo.Ensure(ctx); err != nil {
			logger.Fatal("Failed to ensure index", zap.Error(err))
		}
	}

	// Create chi server
	server := chiTransport.NewServer(statsSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Routes(r)

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
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
