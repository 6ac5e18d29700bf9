package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"food-ordering/config"
	httpapi "food-ordering/order-svc/internal/api/http"
	"food-ordering/order-svc/internal/auth"
	"food-ordering/order-svc/internal/domain"
	"food-ordering/order-svc/internal/service"
	"food-ordering/order-svc/internal/storage"
	"food-ordering/pkg/logging"
	"food-ordering/pkg/tracking"
)

type repository interface {
	service.AccountRepository
	service.RestaurantRepository
	service.MenuRepository
	service.OrderRepository
}

func main() {
	seed := flag.Bool("seed", false, "load the demo operator, customer and menu before serving")
	flag.Parse()

	logging.Setup("order-svc")

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeRepo := openRepository(ctx, cfg)
	defer closeRepo()

	var cache service.StatusCache
	if cfg.RedisAddr != "" {
		rdb := config.MustInitRedis(cfg.RedisAddr)
		defer rdb.Close()
		cache = tracking.NewRedisStatusCache(rdb, cfg.StatusCacheTTL)
		slog.Info("Status cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.StatusCacheTTL)
	}

	var publisher service.EventPublisher
	if cfg.KafkaBroker != "" {
		writer := config.NewKafkaWriter(cfg.KafkaBroker, cfg.KafkaOrderTopic)
		defer writer.Close()
		publisher = storage.NewKafkaPublisher(writer)
		slog.Info("Publishing order events", "broker", cfg.KafkaBroker, "topic", cfg.KafkaOrderTopic)
	}

	policy, err := domain.ParseTransitionPolicy(cfg.TransitionPolicy)
	if err != nil {
		slog.Error("Invalid transition policy", "error", err)
		os.Exit(1)
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	hasher := auth.NewBcryptHasher()

	if *seed {
		seeder := &service.Seeder{Accounts: repo, Restaurants: repo, Menu: repo, Hasher: hasher}
		if err := seeder.Run(ctx); err != nil {
			slog.Error("Failed to seed demo data", "error", err)
			os.Exit(1)
		}
	}

	handler := httpapi.NewHandler(
		service.NewAuthService(repo, hasher, jwtManager),
		service.NewRestaurantService(repo),
		service.NewMenuService(repo, repo),
		service.NewOrderService(repo, repo, publisher, cache, service.DefaultQRGenerator{BaseURL: cfg.PublicBaseURL}, policy),
		jwtManager,
	)
	handler.Debug = cfg.IsDevelopment()

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(handler, httpapi.NewMetrics(), cfg.AllowedOrigins),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("Order Service starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageDriver, "policy", policy)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}

func openRepository(ctx context.Context, cfg *config.Config) (repository, func()) {
	if cfg.StorageDriver == config.StorageMemory {
		slog.Warn("Using in-memory storage; data is lost on restart")
		return storage.NewMemoryRepository(), func() {}
	}

	db := config.MustInitPostgres(cfg.DB)
	repo := storage.NewPostgresRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		slog.Error("Failed to ensure schema", "error", err)
		os.Exit(1)
	}
	return repo, func() { db.Close() }
}
