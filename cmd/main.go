package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/YelzhanWeb/mamantilie/internal/adapter/file"
	"github.com/YelzhanWeb/mamantilie/internal/adapter/logger"
	"github.com/YelzhanWeb/mamantilie/internal/adapter/postgres"
	"github.com/YelzhanWeb/mamantilie/internal/adapter/rabbitmq"
	"github.com/YelzhanWeb/mamantilie/internal/adapter/sqlite"
	"github.com/YelzhanWeb/mamantilie/internal/adapter/telegram"
	"github.com/YelzhanWeb/mamantilie/internal/app/order"
	"github.com/YelzhanWeb/mamantilie/internal/app/store"
	"github.com/YelzhanWeb/mamantilie/internal/clock"
	"github.com/YelzhanWeb/mamantilie/internal/config"
	"github.com/YelzhanWeb/mamantilie/internal/interfaces"

	amqpAdapter "github.com/YelzhanWeb/mamantilie/internal/adapter/amqp"
	httpAdapter "github.com/YelzhanWeb/mamantilie/internal/adapter/http"
)

func main() {
	// Parse command-line flags
	mode := flag.String("mode", "", "Service mode: order-service, notification-subscriber, assistant-bot")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	configPath := flag.String("config", "config.yaml", "Path to the YAML config file")
	prefetch := flag.Int("prefetch", 10, "RabbitMQ prefetch count")
	flag.Parse()

	if *mode == "" {
		log.Fatal("--mode flag is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	lgr := logger.New(*mode, cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch *mode {
	case "order-service":
		err = runOrderService(ctx, cfg, lgr)
	case "notification-subscriber":
		err = runNotificationSubscriber(ctx, cfg, lgr, *prefetch)
	case "assistant-bot":
		err = runAssistantBot(ctx, cfg, lgr)
	default:
		log.Fatalf("Invalid mode: %s", *mode)
	}

	if err != nil {
		lgr.Error("service_failed", "Service stopped with error", "runtime", nil, err)
		os.Exit(1)
	}
}

// openByteStore picks the persistence backend from config. The returned func releases it.
func openByteStore(ctx context.Context, cfg *config.Config, lgr logger.Logger) (interfaces.ByteStore, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		db, err := postgres.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		repo := postgres.NewStoreRepository(db, cfg.Store.Name)
		if err := repo.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		lgr.Info("db_connected", "Connected to PostgreSQL database", "startup", map[string]interface{}{
			"host": cfg.Database.Host,
			"db":   cfg.Database.Database,
		})
		return repo, db.Close, nil

	case config.StoreDriverSQLite:
		s, err := sqlite.Open(ctx, cfg.SQLite.Path, cfg.Store.Name)
		if err != nil {
			return nil, nil, err
		}
		lgr.Info("db_connected", "Opened SQLite database", "startup", map[string]interface{}{
			"path": cfg.SQLite.Path,
		})
		return s, func() { _ = s.Close() }, nil

	default:
		lgr.Info("store_selected", "Using JSON file store", "startup", map[string]interface{}{
			"path": cfg.Store.Path,
		})
		return file.NewStore(cfg.Store.Path), func() {}, nil
	}
}

// buildService loads the order store and wires the order service around it.
// A shared store re-reads persisted orders on every call, for processes that run
// next to the order service.
func buildService(ctx context.Context, cfg *config.Config, lgr logger.Logger, publisher interfaces.MessagePublisher, shared bool) (*order.Service, func(), error) {
	catalog, err := cfg.Catalog()
	if err != nil {
		return nil, nil, err
	}

	bs, closeStore, err := openByteStore(ctx, cfg, lgr)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}

	orders := store.New(bs, lgr)
	if shared {
		orders = store.NewShared(bs, lgr)
	}
	if err := orders.Open(ctx, cfg.Store.StrictLoad); err != nil {
		closeStore()
		return nil, nil, fmt.Errorf("failed to load orders: %w", err)
	}

	return order.NewService(orders, catalog, publisher, clock.NewSystem(), lgr), closeStore, nil
}

func runOrderService(ctx context.Context, cfg *config.Config, lgr logger.Logger) error {
	var publisher interfaces.MessagePublisher
	if cfg.RabbitMQ.Enabled {
		mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
		if err != nil {
			return err
		}
		defer mqConn.Close()

		lgr.Info("rabbitmq_connected", "Connected to RabbitMQ", "startup", map[string]interface{}{
			"host": cfg.RabbitMQ.Host,
		})
		publisher = rabbitmq.NewPublisher(mqConn)
	}

	svc, closeStore, err := buildService(ctx, cfg, lgr, publisher, false)
	if err != nil {
		return err
	}
	defer closeStore()

	auth, err := httpAdapter.NewAdminAuth(cfg.Admin.Password, cfg.Admin.TokenSecret, time.Duration(cfg.Admin.TokenTTLHours)*time.Hour)
	if err != nil {
		return err
	}
	if cfg.Admin.TokenSecret == "" {
		lgr.Warn("token_secret_generated", "admin.token_secret is empty; using a random key, admin tokens will not survive a restart", "startup", nil, nil)
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      httpAdapter.NewRouter(svc, auth, lgr),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	lgr.Info("service_started", fmt.Sprintf("Order Service started on port %d", cfg.Server.Port), "startup", map[string]interface{}{
		"port":     cfg.Server.Port,
		"driver":   cfg.Store.Driver,
		"rabbitmq": cfg.RabbitMQ.Enabled,
	})

	// Graceful shutdown
	go func() {
		<-ctx.Done()

		lgr.Info("shutdown_initiated", "Shutting down Order Service", "shutdown", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			lgr.Error("shutdown_error", "Error during shutdown", "shutdown", nil, err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func runNotificationSubscriber(ctx context.Context, cfg *config.Config, lgr logger.Logger, prefetch int) error {
	mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		return err
	}
	defer mqConn.Close()

	consumer := rabbitmq.NewConsumer(mqConn, prefetch, lgr)
	handler := amqpAdapter.NewNotificationHandler(lgr, os.Stdout)

	lgr.Info("service_started", "Notification Subscriber started", "startup", nil)

	err = consumer.ConsumeNotifications(ctx, handler.HandleNotification)
	lgr.Info("shutdown_initiated", "Shutting down Notification Subscriber", "shutdown", nil)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runAssistantBot(ctx context.Context, cfg *config.Config, lgr logger.Logger) error {
	if cfg.Telegram.Token == "" {
		return errors.New("telegram.token (TG_TOKEN) is required for assistant-bot mode")
	}

	// Бот только читает заказы; пишет их order-service в другом процессе
	svc, closeStore, err := buildService(ctx, cfg, lgr, nil, true)
	if err != nil {
		return err
	}
	defer closeStore()

	bot, err := telegram.New(cfg.Telegram.Token, svc, lgr)
	if err != nil {
		return err
	}

	bot.Start(ctx)
	lgr.Info("shutdown_initiated", "Shutting down assistant bot", "shutdown", nil)
	return nil
}
