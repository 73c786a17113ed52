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

	"github.com/surplusgrid/equisearch/internal/config"
	dbRedis "github.com/surplusgrid/equisearch/internal/db/redis"
	"github.com/surplusgrid/equisearch/internal/domain"
	logpkg "github.com/surplusgrid/equisearch/internal/logger"
	"github.com/surplusgrid/equisearch/internal/metrics"
	"github.com/surplusgrid/equisearch/internal/patterns"
	"github.com/surplusgrid/equisearch/internal/recognizer"
	equipmentrepo "github.com/surplusgrid/equisearch/internal/repository/equipment"
	"github.com/surplusgrid/equisearch/internal/repository/tenantreg"
	chiTransport "github.com/surplusgrid/equisearch/internal/transport/chi"
	openaiRec "github.com/surplusgrid/equisearch/internal/transport/openai"
	healthuc "github.com/surplusgrid/equisearch/internal/usecase/health"
	insightuc "github.com/surplusgrid/equisearch/internal/usecase/insight"
	intentuc "github.com/surplusgrid/equisearch/internal/usecase/intent"
	inventoryuc "github.com/surplusgrid/equisearch/internal/usecase/inventory"
	searchuc "github.com/surplusgrid/equisearch/internal/usecase/search"
	tenantuc "github.com/surplusgrid/equisearch/internal/usecase/tenant"
	"github.com/surplusgrid/equisearch/internal/version"
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

	logger.Info("Starting equisearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("partitioning", cfg.Storage.Partitioning),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register domain metrics explicitly (no init())
	metrics.RegisterSearchMetrics()
	metrics.RegisterRecognizerMetrics()

	// Extraction pattern tables, optionally file-backed with hot reload
	tables := patterns.Default()
	if cfg.Patterns.File != "" {
		tables, err = patterns.LoadFile(cfg.Patterns.File)
		if err != nil {
			logger.Fatal("Failed to load pattern file", zap.String("file", cfg.Patterns.File), zap.Error(err))
		}
	}
	handle := patterns.NewHandle(tables)
	if cfg.Patterns.Watch && cfg.Patterns.File != "" {
		watcher := patterns.NewWatcher(cfg.Patterns.File, handle.Swap, logger)
		go func() {
			if err := watcher.Run(ctx); err != nil {
				logger.Error("Pattern watcher stopped", zap.Error(err))
			}
		}()
		logger.Info("Watching pattern file", zap.String("file", cfg.Patterns.File))
	}

	// Recognizer chain — gazetteer is always available as the offline fallback.
	// Pass nil interface (not typed nil pointer!) if openai is not configured.
	gazetteer := recognizer.NewGazetteer(handle)
	var rec domain.Recognizer = gazetteer
	var recChecker healthuc.RecognizerChecker
	if cfg.Recognizer.Provider == "openai" {
		remote := openaiRec.NewRecognizer(&openaiRec.Config{
			APIKey:   cfg.Recognizer.APIKey,
			BaseURL:  cfg.Recognizer.BaseURL,
			Model:    cfg.Recognizer.Model,
			Provider: cfg.Recognizer.Provider,
			Logger:   logger,
		})
		rec = recognizer.NewFallback(remote, gazetteer, logger)
		recChecker = remote
	}
	logger.Info("Recognizer created", zap.String("provider", cfg.Recognizer.Provider))

	// Tenant registry backend
	var registry tenantuc.Registry
	switch cfg.Registry.Backend {
	case "badger":
		badgerReg, err := tenantreg.OpenBadgerRegistry(cfg.Registry.Path, logger)
		if err != nil {
			logger.Fatal("Failed to open badger registry", zap.Error(err))
		}
		defer func() { _ = badgerReg.Close() }()
		registry = badgerReg
	case "redis":
		registry = tenantreg.NewRedisRegistry(store, cfg.Storage.KeyPrefix)
	default:
		logger.Fatal("Unknown registry backend", zap.String("backend", cfg.Registry.Backend))
	}

	// Equipment repository with the configured partitioning strategy
	var part equipmentrepo.Partitioner
	switch cfg.Storage.Partitioning {
	case "tenant":
		part = equipmentrepo.NewTenantPartition(cfg.Storage.KeyPrefix)
	default:
		part = equipmentrepo.NewSharedPartition(cfg.Storage.KeyPrefix)
	}
	equipRepo := equipmentrepo.New(store, part)
	if err := equipRepo.EnsureIndexes(ctx); err != nil {
		logger.Fatal("Failed to ensure search indexes", zap.Error(err))
	}

	// Create use case services
	intentSvc := intentuc.New(handle, rec, logger)
	tenantSvc := tenantuc.New(registry, equipRepo, logger)
	insightSvc := insightuc.New(
		insightuc.StaticRates(cfg.Insights.CurrencyRates),
		cfg.Insights.SpecDeviationPct,
		cfg.Insights.PriceDeviationPct,
	)
	searchSvc := searchuc.New(intentSvc, tenantSvc, equipRepo, insightSvc, searchuc.Options{
		TenantPageSize:      cfg.Search.TenantPageSize,
		MarketplacePageSize: cfg.Search.MarketplacePageSize,
		DualPageSize:        cfg.Search.DualPageSize,
		InventoryFloor:      cfg.Search.InventoryFloor,
	}, logger)
	inventorySvc, err := inventoryuc.New(equipRepo, tenantSvc, inventoryuc.Options{
		Workers:     cfg.Search.BulkWorkers,
		MaxBulkSize: cfg.Search.MaxBulkSize,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create inventory service", zap.Error(err))
	}
	defer inventorySvc.Release()

	healthSvc := healthuc.New(store, recChecker)

	// Create chi server
	server := chiTransport.NewServer(tenantSvc, searchSvc, inventorySvc, healthSvc, logger)

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

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer shutdownCancel()

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
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
