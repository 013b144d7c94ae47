package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Joaomdsc1/sistema-restaurantes/internal/config"
	"github.com/Joaomdsc1/sistema-restaurantes/internal/database"
	"github.com/Joaomdsc1/sistema-restaurantes/internal/logger"
	"github.com/Joaomdsc1/sistema-restaurantes/internal/menu"
	"github.com/Joaomdsc1/sistema-restaurantes/internal/messaging"
	"github.com/Joaomdsc1/sistema-restaurantes/internal/services/bot"
	"github.com/Joaomdsc1/sistema-restaurantes/internal/services/dashboard"
	"github.com/Joaomdsc1/sistema-restaurantes/internal/services/orders"
	"github.com/Joaomdsc1/sistema-restaurantes/internal/services/replylog"
	"github.com/Joaomdsc1/sistema-restaurantes/internal/services/stats"
)

func main() {
	var (
		mode           = flag.String("mode", "", "Service mode (bot-service, dashboard-service, reply-logger)")
		port           = flag.Int("port", 3000, "HTTP port (dashboard-service)")
		configPath     = flag.String("config", "config.yaml", "Path to config file")
		migrationsPath = flag.String("migrations", "migrations", "Path to migrations directory")
		prefetch       = flag.Int("prefetch", 10, "RabbitMQ prefetch count")
	)
	flag.Parse()

	if *mode == "" {
		fmt.Fprintf(os.Stderr, "Error: --mode flag is required\n")
		flag.Usage()
		os.Exit(1)
	}

	// Optional .env overlay for secrets
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(*mode)
	requestID := logger.GenerateRequestID()

	log.Info("service_started", fmt.Sprintf("Starting %s", *mode), requestID, map[string]interface{}{
		"mode": *mode,
		"port": *port,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("graceful_shutdown", "Received shutdown signal", requestID, nil)
		cancel()
	}()

	switch *mode {
	case "bot-service":
		err = runBotService(ctx, cfg, log, *migrationsPath, *prefetch)
	case "dashboard-service":
		err = runDashboardService(ctx, cfg, log, *port, *migrationsPath)
	case "reply-logger":
		err = runReplyLogger(ctx, cfg, log, *prefetch)
	default:
		log.Error("validation_failed", fmt.Sprintf("Unknown mode: %s", *mode), requestID, nil, nil)
		os.Exit(1)
	}

	if err != nil && err != context.Canceled {
		log.Error("service_failed", fmt.Sprintf("%s failed", *mode), requestID, err, nil)
		os.Exit(1)
	}

	log.Info("service_stopped", "Service stopped gracefully", requestID, nil)
}

// runBotService hosts the conversational intake state machine.
func runBotService(ctx context.Context, cfg *config.Config, log *logger.Logger, migrationsPath string, prefetch int) error {
	requestID := logger.GenerateRequestID()

	// No catalog, no service: a broken menu file must stop startup.
	catalog, err := menu.Load(cfg.Restaurant.MenuFile)
	if err != nil {
		return fmt.Errorf("failed to load menu catalog: %w", err)
	}
	log.Info("menu_loaded", fmt.Sprintf("Loaded %d menu items", catalog.Len()), requestID, nil)

	db, err := database.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()
	log.Info("db_connected", "Connected to PostgreSQL database", requestID, nil)

	if err := db.RunMigrations(ctx, migrationsPath); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	conn, err := messaging.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()
	log.Info("rabbitmq_connected", "Connected to RabbitMQ", requestID, nil)

	store := orders.NewPostgresStore(db, time.Duration(cfg.Restaurant.DeliveryBufferMinutes)*time.Minute, log)
	registry := bot.NewRegistry(time.Duration(cfg.Restaurant.SessionIdleMinutes)*time.Minute, log)
	replies := bot.NewReplies(cfg.Restaurant.Name, cfg.Restaurant.Phone)
	processor := bot.NewProcessor(catalog, store, registry, replies, log)

	go registry.StartEviction(ctx)

	publisher := messaging.NewPublisher(conn, log)
	consumer := messaging.NewConsumer(conn, log, messaging.IncomingQueue, "bot-service", prefetch)

	service := bot.NewService(processor, consumer, publisher, log)
	return service.Run(ctx)
}

// runDashboardService hosts the staff reporting surface and the scheduled
// retention cleanup.
func runDashboardService(ctx context.Context, cfg *config.Config, log *logger.Logger, port int, migrationsPath string) error {
	requestID := logger.GenerateRequestID()

	catalog, err := menu.Load(cfg.Restaurant.MenuFile)
	if err != nil {
		return fmt.Errorf("failed to load menu catalog: %w", err)
	}

	db, err := database.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()
	log.Info("db_connected", "Connected to PostgreSQL database", requestID, nil)

	if err := db.RunMigrations(ctx, migrationsPath); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	store := orders.NewPostgresStore(db, time.Duration(cfg.Restaurant.DeliveryBufferMinutes)*time.Minute, log)
	aggregator := stats.New(store)
	service := dashboard.NewService(store, aggregator, catalog, cfg.Restaurant.MenuFile, log)
	handler := dashboard.NewHandler(service, log)

	cleanupJob := dashboard.NewCleanupJob(store, cfg.Restaurant.RetentionDays, log)
	if err := cleanupJob.Start(); err != nil {
		return fmt.Errorf("failed to start cleanup job: %w", err)
	}
	defer cleanupJob.Stop()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: handler.SetupRoutes(),
	}

	go func() {
		log.Info("service_started", fmt.Sprintf("Dashboard service started on port %d", port), requestID, map[string]interface{}{
			"port": port,
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server_failed", "HTTP server failed", requestID, err, nil)
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	return server.Shutdown(shutdownCtx)
}

// runReplyLogger prints outbound replies for local runs without a real
// messaging bridge.
func runReplyLogger(ctx context.Context, cfg *config.Config, log *logger.Logger, prefetch int) error {
	conn, err := messaging.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()

	consumer := messaging.NewConsumer(conn, log, messaging.OutgoingQueue, "reply-logger", prefetch)
	subscriber := replylog.NewSubscriber(consumer, log)
	return subscriber.Run(ctx)
}
