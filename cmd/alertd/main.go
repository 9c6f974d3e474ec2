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
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/technosupport/ts-sentinel/internal/alerts"
	"github.com/technosupport/ts-sentinel/internal/api"
	"github.com/technosupport/ts-sentinel/internal/config"
	"github.com/technosupport/ts-sentinel/internal/metrics"
	"github.com/technosupport/ts-sentinel/internal/middleware"
	"github.com/technosupport/ts-sentinel/internal/notify"
	"github.com/technosupport/ts-sentinel/internal/stream"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/alertd.yaml"
	}
	cfg, err := config.LoadAlertd(cfgPath)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zl, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zl.Sync()
	logger := zl.With(zap.String("service", cfg.ServiceName))

	// Components
	store := alerts.NewStore()
	alertMetrics := metrics.NewAlertMetrics()
	hub := stream.NewHub(logger)

	publishers := []alerts.Publisher{hub}
	var nc *nats.Conn
	if cfg.NATS.Enabled {
		url := cfg.NATS.URL
		if url == "" {
			url = nats.DefaultURL
		}
		nc, err = nats.Connect(url, nats.Name(cfg.ServiceName))
		if err != nil {
			logger.Warn("NATS connect failed, alert publication disabled", zap.Error(err))
		} else {
			defer nc.Close()
			publishers = append(publishers,
				notify.NewNATSPublisher(nc, cfg.NATS.SubjectPrefix, cfg.NATS.PublishRetryMax))
			logger.Info("connected to NATS", zap.String("url", url))
		}
	}

	svc := alerts.NewService(store, logger, alerts.Config{
		StrictTransitions: cfg.Alerts.StrictTransitions,
		DispatchDelayMin:  time.Duration(cfg.Alerts.DispatchDelayMinMs) * time.Millisecond,
		DispatchDelayMax:  time.Duration(cfg.Alerts.DispatchDelayMaxMs) * time.Millisecond,
	}, alertMetrics, publishers...)

	alertHandler := api.NewAlertHandler(svc)

	// Routing
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", alertMetrics.Handler())
	r.Get("/alerts/stream", hub.ServeWS)
	alertHandler.Register(r)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Info("alert service listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutdown signal received", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
	logger.Info("alert service stopped")
}
