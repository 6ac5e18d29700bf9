package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"food-ordering/config"
	"food-ordering/pkg/logging"
	"food-ordering/pkg/tracking"
	"food-ordering/tracker-svc/internal/service"

	"github.com/gorilla/mux"
)

func main() {
	logging.Setup("tracker-svc")

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.KafkaBroker == "" || cfg.RedisAddr == "" {
		slog.Error("KAFKA_BROKER and REDIS_HOST are required")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb := config.MustInitRedis(cfg.RedisAddr)
	defer rdb.Close()

	reader := config.NewKafkaReader(cfg.KafkaBroker, cfg.KafkaOrderTopic, cfg.KafkaGroupID)
	metrics := service.NewMetrics()
	consumer := service.NewConsumer(reader, tracking.NewRedisStatusCache(rdb, cfg.StatusCacheTTL), metrics)

	r := mux.NewRouter()
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"status":    "ok",
			"service":   "tracker-svc",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}).Methods(http.MethodGet)

	srv := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		slog.Info("Tracker metrics listening", "addr", cfg.MetricsAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server failed", "error", err)
			stop()
		}
	}()

	slog.Info("Tracker Service starting", "broker", cfg.KafkaBroker, "topic", cfg.KafkaOrderTopic, "group", cfg.KafkaGroupID)
	consumer.Start(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
	if err := reader.Close(); err != nil {
		slog.Error("Failed to close Kafka reader", "error", err)
	}
}
