package main

import (
	"context"
	"database/sql"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/framekart/framekart-store-service/internal/clients"
	"github.com/framekart/framekart-store-service/internal/config"
	"github.com/framekart/framekart-store-service/internal/events"
	"github.com/framekart/framekart-store-service/internal/handlers"
	"github.com/framekart/framekart-store-service/internal/logging"
	"github.com/framekart/framekart-store-service/internal/repository"
	"github.com/framekart/framekart-store-service/internal/server"
	"github.com/framekart/framekart-store-service/internal/service"

	_ "github.com/lib/pq"
)

func main() {
	cfg := config.Load()
	logger := logging.New("store-service")

	logger.Info("Starting store-service", logging.Fields{"port": cfg.Server.Port})

	if err := service.ValidateShippingCost(cfg.Checkout.ShippingCost); err != nil {
		logger.Fatal("Invalid checkout configuration", logging.Fields{"error": err.Error()})
	}

	db, err := initDatabase(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", logging.Fields{"error": err.Error()})
	}
	defer db.Close()

	productRepo := repository.NewPostgresProductRepository(db, logging.New("product-repository"))
	cartRepo := repository.NewPostgresCartRepository(db, logging.New("cart-repository"))
	inventoryRepo := repository.NewPostgresInventoryRepository(db, logging.New("inventory-repository"))
	orderRepo := repository.NewPostgresOrderRepository(db, inventoryRepo, logging.New("order-repository"))
	roleRepo := repository.NewPostgresRoleRepository(db, logging.New("role-repository"))

	var cache service.Cache
	if cfg.Features.EnableCaching {
		cache = repository.NewStoreCache(cfg.Redis)
	}

	var publisher service.EventPublisher
	var kafkaPublisher *events.KafkaPublisher
	if cfg.Features.EnableOrderEvents {
		kafkaPublisher = events.NewKafkaPublisher(cfg.Kafka)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	var notifier service.Notifier
	if cfg.Features.EnableNotifications {
		notifier = clients.NewHTTPNotificationClient(cfg.NotificationService)
	}

	authzService := service.NewAuthzService(roleRepo)
	catalogService := service.NewCatalogService(productRepo, authzService, cache, cfg)
	cartService := service.NewCartService(cartRepo, productRepo)
	checkoutService := service.NewCheckoutService(orderRepo, cache, publisher, notifier, cfg)
	orderService := service.NewOrderService(orderRepo, authzService, cache, publisher, notifier, cfg)
	inventoryService := service.NewInventoryService(inventoryRepo, authzService, cache, cfg)

	h := handlers.NewHandlers(
		catalogService,
		cartService,
		checkoutService,
		orderService,
		inventoryService,
		authzService,
		cfg,
	)

	srv := server.New(h, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Server starting", logging.Fields{"port": cfg.Server.Port})
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	var consumer *events.KafkaConsumer
	if cfg.Features.EnablePaymentConsumer {
		consumer = events.NewKafkaConsumer(cfg.Kafka, orderService)
		g.Go(func() error {
			if err := consumer.Start(gctx); err != nil && err != context.Canceled {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if consumer != nil {
			consumer.Stop()
		}
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Service exited with error", logging.Fields{"error": err.Error()})
	}

	logger.Info("Server exited")
}

func initDatabase(cfg *config.Config, logger *logging.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, err
	}

	logger.Info("Database connected", logging.Fields{
		"host": cfg.Database.Host,
		"name": cfg.Database.Name,
	})

	return db, nil
}
