package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/catalog"
	"github.com/Skotchmaster/storefront/internal/config"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/httpserver"
	"github.com/Skotchmaster/storefront/internal/metrics"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/pricing"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/pkg/db"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/mykafka"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config_error", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		logger.Error("db_init_error", "error", err)
		os.Exit(1)
	}
	if err := gdb.AutoMigrate(models.All()...); err != nil {
		logger.Error("db_migrate_error", "error", err)
		os.Exit(1)
	}

	var (
		publisher events.Publisher = events.Noop{}
		producer  *mykafka.Producer
	)
	if len(cfg.KafkaBrokers) > 0 {
		producer = mykafka.NewProducer(cfg.KafkaBrokers)
		publisher = &events.KafkaPublisher{Producer: producer, Topic: cfg.CartEventsTopic}
	} else {
		logger.Info("kafka_disabled", "reason", "KAFKA_BROKERS is empty")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	store := &repo.GormRepo{DB: gdb, MaxQuantity: cfg.MaxQuantityPerItem}
	cartSvc := &service.CartService{
		Repo: store,
		Pricing: pricing.Policy{
			FreeShippingThreshold: cfg.FreeShippingThreshold,
			ShippingFee:           cfg.ShippingFee,
			TaxRate:               cfg.TaxRate,
		},
		Publisher: publisher,
		Metrics:   metrics.NewCartMetrics(reg),
	}

	e := httpserver.New(logger, &httpserver.Deps{
		CartHandler:    &httpserver.CartHTTP{Svc: cartSvc},
		CatalogHandler: &httpserver.CatalogHTTP{Catalog: &catalog.GormRepo{DB: gdb}},
		AuthHandler: &httpserver.AuthHTTP{Svc: &service.AuthService{
			Repo:      store,
			JWTSecret: []byte(cfg.JWTSecret),
			AccessTTL: cfg.AccessTokenTTL,
		}},
		JWTSecret: []byte(cfg.JWTSecret),
		Ready:     func(ctx context.Context) error { return db.Ping(ctx, gdb) },
		Metrics:   promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
	})

	go func() {
		logger.Info("server_starting", "addr", cfg.Addr())
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server_error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info("shutting_down")

	shutdown(logger, e.Shutdown, cartSvc, producer, gdb)
	logger.Info("shutdown_complete")
}

// shutdown stops accepting requests, drains pending cart events and then
// releases the producer and the database, in that order.
func shutdown(logger *slog.Logger, stopHTTP func(context.Context) error, cartSvc *service.CartService, producer *mykafka.Producer, gdb *gorm.DB) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := stopHTTP(ctx); err != nil {
		logger.Error("server_shutdown_error", "error", err)
	}

	cartSvc.Wait()

	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka_close_error", "error", err)
		}
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db_close_error", "error", err)
	}
}
