package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vidranorte/vitrine-api/internal/config"
	"github.com/vidranorte/vitrine-api/internal/handler"
	"github.com/vidranorte/vitrine-api/internal/infra/cache"
	"github.com/vidranorte/vitrine-api/internal/infra/observability"
	"github.com/vidranorte/vitrine-api/internal/infra/realtime"
	"github.com/vidranorte/vitrine-api/internal/infra/resilience"
	"github.com/vidranorte/vitrine-api/internal/infra/supabase"
	"github.com/vidranorte/vitrine-api/internal/service"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = godotenv.Load()

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	if cfg.SupabaseURL == "" || cfg.SupabaseAnonKey == "" {
		logger.Fatal("SUPABASE_URL and SUPABASE_ANON_KEY must be set")
	}

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("page_cache_ttl", cfg.PageCacheTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
		zap.Int("max_streams", cfg.MaxStreams),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "vitrine-api")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Cache ---
	pageCache := cache.New[any](cfg.PageCacheTTL)
	defer pageCache.Close()

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
	}
	cb := resilience.NewCircuitBreaker("supabase")
	streams := resilience.NewBulkhead(cfg.MaxStreams)

	// --- Clients ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	supabaseClient := supabase.NewClient(
		httpClient,
		cfg.SupabaseURL,
		cfg.SupabaseAnonKey,
		cfg.SupabaseServiceKey,
		cb,
		resilienceCfg,
		logger,
	)

	subscriber := realtime.NewSubscriber(
		supabaseClient.BaseURL(),
		supabaseClient.AnonKey(),
		cfg.RealtimeHeartbeat,
		logger,
	)

	// --- Services ---
	contentSvc := service.NewContentService(supabaseClient, metrics, logger)
	obraSvc := service.NewObraService(supabaseClient, subscriber, metrics, logger)
	authSvc := service.NewAuthService(supabaseClient, supabaseClient, cfg.SupabaseJWTSecret, logger)
	chatSvc := service.NewChatService(supabaseClient, logger)

	// --- Router ---
	router := handler.NewRouter(handler.Deps{
		Content:   contentSvc,
		Obras:     obraSvc,
		Auth:      authSvc,
		Chat:      chatSvc,
		PageCache: pageCache,
		Streams:   streams,
		Metrics:   metrics,
		Config:    cfg,
		Logger:    logger,
	})

	// --- Server ---
	// WriteTimeout stays zero: the obra event streams are long-lived.
	srv := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Port),
		Handler:     router,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
