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

	"dinehub/internal/cart"
	"dinehub/internal/config"
	"dinehub/internal/database"
	"dinehub/internal/logger"
	"dinehub/internal/messaging"
	"dinehub/internal/services/admin"
	"dinehub/internal/services/assistant"
	"dinehub/internal/services/checkout"
	"dinehub/internal/services/menu"
	"dinehub/internal/services/notification"
	"dinehub/internal/web"
)

func main() {
	// Parse command line flags
	var (
		mode     = flag.String("mode", "", "Service mode (api-server, notification-subscriber)")
		port     = flag.Int("port", 0, "HTTP port (overrides config)")
		prefetch = flag.Int("prefetch", 1, "RabbitMQ prefetch count")
	)
	flag.Parse()

	// Validate required mode flag
	if *mode == "" {
		fmt.Fprintf(os.Stderr, "Error: --mode flag is required\n")
		flag.Usage()
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.HTTP.Port = *port
	}

	// Create logger
	log := logger.New(*mode)
	requestID := logger.GenerateRequestID()

	log.Info("service_started", fmt.Sprintf("Starting %s", *mode), requestID, map[string]interface{}{
		"mode": *mode,
		"port": cfg.HTTP.Port,
	})

	// Set up graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("graceful_shutdown", "Received shutdown signal", requestID, nil)
		cancel()
	}()

	// Route to appropriate service
	switch *mode {
	case "api-server":
		if err := runAPIServer(ctx, cfg, log); err != nil {
			log.Error("service_failed", "API server failed", requestID, err, nil)
			os.Exit(1)
		}
	case "notification-subscriber":
		if err := runNotificationSubscriber(ctx, cfg, log, *prefetch); err != nil {
			log.Error("service_failed", "Notification subscriber failed", requestID, err, nil)
			os.Exit(1)
		}
	default:
		log.Error("validation_failed", fmt.Sprintf("Unknown mode: %s", *mode), requestID, nil, nil)
		os.Exit(1)
	}

	log.Info("service_stopped", "Service stopped gracefully", requestID, nil)
}

// runAPIServer runs the HTTP API: cart, checkout, payments, menus,
// assistant and admin endpoints.
func runAPIServer(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	requestID := logger.GenerateRequestID()

	// Initialize database
	db, err := database.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	log.Info("db_connected", "Connected to PostgreSQL database", requestID, nil)

	// Run database migrations
	if err := db.RunMigrations(ctx, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize messaging. The API stays up without RabbitMQ; order
	// events are then simply not published.
	var publisher *messaging.Publisher
	conn, err := messaging.New(cfg, log)
	if err != nil {
		log.Error("rabbitmq_unavailable", "RabbitMQ unavailable, order events disabled", requestID, err, nil)
	} else {
		defer conn.Close()
		log.Info("rabbitmq_connected", "Connected to RabbitMQ", requestID, nil)
		publisher = messaging.NewPublisher(conn, log)
	}

	writeTimeout := time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second

	// Initialize services and handlers
	sessions := cart.NewSessions()
	repo := checkout.NewPostgresRepository(db)

	checkoutService := checkout.NewService(repo, eventPublisher(publisher), log,
		cfg.Pricing.TaxRate, cfg.Pricing.TipRate, writeTimeout)
	checkoutHandler := checkout.NewHandler(checkoutService, sessions, log)

	menuService := menu.NewService(db, log)
	menuHandler := menu.NewHandler(menuService, log)

	assistantService := assistant.NewService(db, assistant.NewScriptedResponder(), log)
	assistantHandler := assistant.NewHandler(assistantService, log)

	adminService := admin.NewService(db, log)
	adminHandler := admin.NewHandler(adminService, log)

	mux := http.NewServeMux()
	checkoutHandler.RegisterRoutes(mux)
	menuHandler.RegisterRoutes(mux)
	assistantHandler.RegisterRoutes(mux)
	adminHandler.RegisterRoutes(mux)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		pingCtx, pingCancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer pingCancel()
		if err := db.Ping(pingCtx); err != nil {
			web.WriteJSON(w, http.StatusServiceUnavailable, map[string]interface{}{"status": "degraded"})
			return
		}
		web.WriteJSON(w, http.StatusOK, map[string]interface{}{"status": "ok"})
	})

	// Setup HTTP server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler: web.WithLogging(log, mux),
	}

	// Start HTTP server in goroutine
	go func() {
		log.Info("service_started", fmt.Sprintf("API server started on port %d", cfg.HTTP.Port), requestID, map[string]interface{}{
			"port": cfg.HTTP.Port,
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server_failed", "HTTP server failed", requestID, err, nil)
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	return server.Shutdown(shutdownCtx)
}

// runNotificationSubscriber consumes order events and prints notifications.
func runNotificationSubscriber(ctx context.Context, cfg *config.Config, log *logger.Logger, prefetch int) error {
	conn, err := messaging.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()

	consumer := messaging.NewConsumer(conn, log, "order_events_queue", "notification-subscriber", prefetch)
	subscriber := notification.NewSubscriber(consumer, log)

	return subscriber.Start(ctx)
}

// eventPublisher keeps the typed nil out of the EventPublisher interface
// when RabbitMQ is unavailable.
func eventPublisher(p *messaging.Publisher) checkout.EventPublisher {
	if p == nil {
		return nil
	}
	return p
}
