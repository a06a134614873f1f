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

	"github.com/kailas-cloud/fusedex/internal/config"
	"github.com/kailas-cloud/fusedex/internal/db"
	"github.com/kailas-cloud/fusedex/internal/db/redisearch"
	"github.com/kailas-cloud/fusedex/internal/db/solr"
	"github.com/kailas-cloud/fusedex/internal/domain"
	logpkg "github.com/kailas-cloud/fusedex/internal/logger"
	"github.com/kailas-cloud/fusedex/internal/metrics"
	"github.com/kailas-cloud/fusedex/internal/repository/embcache"
	schemarepo "github.com/kailas-cloud/fusedex/internal/repository/schema"
	searchrepo "github.com/kailas-cloud/fusedex/internal/repository/search"
	chiTransport "github.com/kailas-cloud/fusedex/internal/transport/chi"
	openaiTransport "github.com/kailas-cloud/fusedex/internal/transport/openai"
	askuc "github.com/kailas-cloud/fusedex/internal/usecase/ask"
	embeddinguc "github.com/kailas-cloud/fusedex/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/fusedex/internal/usecase/health"
	schemauc "github.com/kailas-cloud/fusedex/internal/usecase/schema"
	searchuc "github.com/kailas-cloud/fusedex/internal/usecase/search"
	usageuc "github.com/kailas-cloud/fusedex/internal/usecase/usage"
	"github.com/kailas-cloud/fusedex/internal/version"
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

	logger.Info("Starting fusedex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("backend_driver", cfg.Backend.Driver),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterSearchMetrics()
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterChatMetrics()

	// Create backend store based on driver
	var store db.Store
	switch cfg.Backend.Driver {
	case "solr":
		store, err = solr.NewStore(solr.Config{
			BaseURL:       cfg.Backend.BaseURL,
			Username:      cfg.Backend.Username,
			Password:      cfg.Backend.Password,
			VectorField:   cfg.Backend.VectorField,
			Timeout:       time.Duration(cfg.Backend.TimeoutSec) * time.Second,
			CacheCapacity: cfg.Search.CacheCapacity,
		}, metrics.CollectionCacheTotal, metrics.CollectionCacheEvictions)
	case "redisearch":
		store, err = redisearch.NewStore(redisearch.Config{
			Addrs:    cfg.Backend.Addrs,
			Username: cfg.Backend.Username,
			Password: cfg.Backend.Password,
		})
	default:
		logger.Fatal("Unknown backend driver", zap.String("driver", cfg.Backend.Driver))
	}
	if err != nil {
		logger.Fatal("Failed to create backend store", zap.Error(err))
	}
	defer store.Close()

	// Wait for the backend to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Backend.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Backend not ready", zap.Error(err))
	}
	logger.Info("Connected to search backend")

	// Build embedder chain — composition root
	vecName := cfg.Embedding.DefaultVectorizer
	if vecName == "" {
		for name := range cfg.Embedding.Vectorizers {
			vecName = name
			break
		}
	}
	vecCfg := cfg.Embedding.Vectorizers[vecName]
	provName := vecCfg.Provider
	provCfg := cfg.Embedding.Providers[provName]

	// Single BudgetTracker shared between the embedder and the usage service.
	var budget *embeddinguc.BudgetTracker
	budgetCfg := provCfg.Budget
	if budgetCfg.DailyTokenLimit > 0 || budgetCfg.MonthlyTokenLimit > 0 {
		action := embeddinguc.BudgetActionWarn
		if budgetCfg.Action == "reject" {
			action = embeddinguc.BudgetActionReject
		}
		budget = embeddinguc.NewBudgetTracker(
			provName, budgetCfg.DailyTokenLimit, budgetCfg.MonthlyTokenLimit, action, logger,
		)
	}

	// Pass nil interface (not typed nil pointer!) if budget is not configured.
	// Go gotcha: (*BudgetTracker)(nil) wrapped in BudgetChecker != nil.
	var budgetChecker embeddinguc.BudgetChecker
	if budget != nil {
		budgetChecker = budget
	}

	queryEmbedder, err := buildEmbedder(provName, provCfg, vecCfg, budgetChecker, logger)
	if err != nil {
		logger.Fatal("Failed to build embedder", zap.Error(err))
	}
	logger.Info("Embedder created",
		zap.String("provider", provName),
		zap.String("model", vecCfg.Model),
		zap.Int("dimensions", vecCfg.Dimensions),
	)

	// Create repositories (domain-native, no adapters)
	searchRepo := searchrepo.New(store)
	schemaRepo := schemarepo.New(store)

	// Create use case services
	merger, err := searchuc.NewMerger(cfg.Search.RRFK)
	if err != nil {
		logger.Fatal("Invalid rank fusion constant", zap.Error(err))
	}
	searchSvc := searchuc.New(searchRepo, queryEmbedder, merger, logger)
	schemaSvc := schemauc.New(schemaRepo, cfg.Search.SampleSize, logger)

	// Ask service — only when a chat model is configured
	var askSvc *askuc.Service
	if cfg.Ask.Model != "" {
		chat := openaiTransport.NewChatClient(&openaiTransport.ChatConfig{
			APIKey:  provCfg.APIKey,
			BaseURL: provCfg.BaseURL,
			Model:   cfg.Ask.Model,
			Logger:  logger,
		})
		askSvc = askuc.New(searchSvc, chat, cfg.Ask.MaxContextDocs, logger)
		logger.Info("Ask service enabled", zap.String("model", cfg.Ask.Model))
	}

	// Usage service — reads from shared BudgetTracker
	var budgetReader usageuc.BudgetReader
	if budget != nil {
		budgetReader = budget
	}
	usageSvc := usageuc.New(budgetReader)

	// Health service
	healthSvc := healthuc.New(store, newEmbeddingHealthChecker(queryEmbedder))

	// Create chi server
	server := chiTransport.NewServer(searchSvc, schemaSvc, askSvc, usageSvc, healthSvc, store, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
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

// embeddingHealthChecker wraps domain.Embedder to implement health.EmbeddingChecker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func newEmbeddingHealthChecker(embedder domain.Embedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instrumented -> Instruction
func buildEmbedder(
	provName string,
	provCfg config.ProviderConfig,
	vecCfg config.VectorizerConfig,
	budget embeddinguc.BudgetChecker,
	logger *zap.Logger,
) (domain.Embedder, error) {
	// Base provider (with transport metrics built-in)
	base := openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     provCfg.APIKey,
		BaseURL:    provCfg.BaseURL,
		Model:      vecCfg.Model,
		Dimensions: vecCfg.Dimensions,
		Provider:   provName,
		Logger:     logger,
	})

	// Cached
	cached, err := embcache.New(base, embcache.DefaultCapacity, metrics.EmbeddingCacheTotal)
	if err != nil {
		return nil, fmt.Errorf("embedding cache: %w", err)
	}

	// Instrumented (budget + metrics)
	var embedder domain.Embedder = embeddinguc.NewInstrumentedEmbedder(
		cached, provName, vecCfg.Model, budget, logger,
	)

	// Instruction prefix (outermost — cache key includes instruction)
	if vecCfg.QueryInstruction != "" {
		embedder = domain.NewInstructionEmbedder(embedder, vecCfg.QueryInstruction)
	}

	return embedder, nil
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
