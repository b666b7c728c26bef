package main

import (
	"context"
	"errors"
	"github.com/go-chi/chi/v5"
	"github.com/rookgm/paygateway/config"
	"github.com/rookgm/paygateway/internal/events"
	handler "github.com/rookgm/paygateway/internal/handler/http"
	"github.com/rookgm/paygateway/internal/logger"
	"github.com/rookgm/paygateway/internal/middleware"
	"github.com/rookgm/paygateway/internal/repository"
	"github.com/rookgm/paygateway/internal/repository/memory"
	"github.com/rookgm/paygateway/internal/repository/postgres"
	"github.com/rookgm/paygateway/internal/service"
	"github.com/rookgm/paygateway/internal/storefront"
	"github.com/rookgm/paygateway/internal/worker"
	"go.uber.org/zap"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"
)

// orderStore is implemented by both postgres and memory repositories
type orderStore interface {
	service.OrderRepository
	service.OrderStore
}

func main() {

	// create new config
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	// initialize logger
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer logger.Log.Sync()

	// create context
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var store orderStore
	if cfg.DatabaseDSN != "" {
		// initialize database
		db, err := postgres.New(ctx, cfg.DatabaseDSN)
		if err != nil {
			logger.Log.Fatal("Error initializing database", zap.Error(err))
		}
		defer db.Close()

		// migrate database
		if err := db.Migrate(); err != nil {
			logger.Log.Fatal("Error migrating database", zap.Error(err))
		}
		store = repository.NewOrderRepository(db)
	} else {
		logger.Log.Warn("DATABASE_URI is not set, orders are kept in memory")
		store = memory.NewOrderRepository()
	}

	// payment events
	var publisher service.EventPublisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := events.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			logger.Log.Fatal("Error initializing Kafka producer", zap.Error(err))
		}
		kafkaPublisher := events.NewKafkaPublisher(producer, cfg.KafkaTopic)
		defer kafkaPublisher.Close()

		dispatcher := worker.NewEventDispatcher(kafkaPublisher, 100)
		go dispatcher.Run(ctx)
		publisher = dispatcher
	}

	// dependency injection
	// order
	orderService := service.NewOrderService(store)
	orderHandler := handler.NewOrderHandler(orderService)

	// payment
	paymentService := service.NewPaymentService(store, storefront.NewLinks(cfg.StoreURL), publisher, service.PaymentConfig{
		Credentials: cfg.Credentials(),
		PaymentURL:  cfg.PaymentURL,
		Currencies:  cfg.Currencies,
	})
	paymentHandler := handler.NewPaymentHandler(paymentService)

	router := chi.NewRouter()

	router.Use(middleware.Logging(logger.Log))
	router.Use(middleware.Metrics)

	router.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", middleware.PrometheusHandler())

	router.Post("/api/orders", orderHandler.RegisterOrder())
	router.Get("/api/orders/{number}", orderHandler.GetOrder())
	router.Get("/api/orders/{number}/payment", paymentHandler.StartPayment())
	router.Get("/api/payment/callback", paymentHandler.Callback())

	srv := &http.Server{
		Addr:    cfg.RunAddr,
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("Error shutting down server", zap.Error(err))
		}
	}()

	logger.Log.Info("Running server",
		zap.String("addr", cfg.RunAddr),
		zap.Object("credentials", cfg.Credentials()),
		zap.Strings("currencies", cfg.Currencies))

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Log.Fatal("Error starting server", zap.Error(err))
	}

	logger.Log.Info("Server exited")
}
