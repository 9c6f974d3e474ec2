package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/technosupport/ts-sentinel/internal/cameras"
	"github.com/technosupport/ts-sentinel/internal/config"
	"github.com/technosupport/ts-sentinel/internal/gateway"
	"github.com/technosupport/ts-sentinel/internal/metrics"
	"github.com/technosupport/ts-sentinel/internal/middleware"
	"github.com/technosupport/ts-sentinel/internal/ratelimit"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/gateway.yaml"
	}
	cfg, err := config.LoadGateway(cfgPath)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zl, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zl.Sync()
	logger := zl.With(zap.String("service", cfg.ServiceName))

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Camera registry + hot reload
	registry, err := cameras.LoadRegistry(cfg.RegistryPath)
	if err != nil {
		logger.Fatal("registry load failed", zap.String("path", cfg.RegistryPath), zap.Error(err))
	}
	cameras.NewWatcher(registry, cfg.RegistryPath, logger).Start(rootCtx)

	// Event pipeline
	gwMetrics := metrics.NewGatewayMetrics()

	var dedup *gateway.AlertDedup
	if cfg.Dedup.Enabled {
		dedup = gateway.NewAlertDedup(cfg.Dedup.MaxKeys, cfg.Dedup.TTLSeconds)
	}
	dispatcher := gateway.NewDispatcher(cfg.AlertServiceURL,
		time.Duration(cfg.Dispatch.TimeoutMs)*time.Millisecond, logger, gwMetrics, dedup)
	svc := gateway.NewService(registry, dispatcher, logger, gwMetrics)
	handler := gateway.NewHandler(svc, registry)

	// Routing
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimiddleware.Timeout(30 * time.Second))

	if cfg.RateLimit.Enabled {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RateLimit.RedisAddr})
		limiter := ratelimit.NewLimiter(rdb, os.Getenv("RATELIMIT_SALT"))
		rl := middleware.NewRateLimit(limiter, ratelimit.LimitConfig{
			Rate:   cfg.RateLimit.Rate,
			Window: time.Duration(cfg.RateLimit.WindowMs) * time.Millisecond,
		}, logger)
		r.Use(rl.Handler)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", gwMetrics.Handler())
	handler.Register(r)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Info("camera gateway listening",
			zap.String("port", cfg.Port),
			zap.String("alert_service", cfg.AlertServiceURL))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-rootCtx.Done()
	logger.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
	logger.Info("camera gateway stopped")
}
