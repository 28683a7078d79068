package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dishpatch/dishpatch/internal/adapter/logger"
	"github.com/dishpatch/dishpatch/internal/adapter/postgres"
	"github.com/dishpatch/dishpatch/internal/adapter/rabbitmq"
	"github.com/dishpatch/dishpatch/internal/app/aggregator"
	"github.com/dishpatch/dishpatch/internal/app/order"
	"github.com/dishpatch/dishpatch/internal/app/presenter"
	"github.com/dishpatch/dishpatch/internal/config"
	"github.com/dishpatch/dishpatch/internal/domain"
	"github.com/dishpatch/dishpatch/internal/imaging"
	"github.com/dishpatch/dishpatch/internal/notify"
	"github.com/dishpatch/dishpatch/internal/sound"

	amqpAdapter "github.com/dishpatch/dishpatch/internal/adapter/amqp"
	httpAdapter "github.com/dishpatch/dishpatch/internal/adapter/http"
)

func main() {
	mode := flag.String("mode", "", "Service mode: order-service, notifier, optimize-image")
	port := flag.Int("port", 3000, "HTTP port")
	configPath := flag.String("config", "config.yaml", "Path to config file")
	userID := flag.String("user-id", "", "Session user id (for notifier)")
	input := flag.String("input", "", "Input image path (for optimize-image)")
	output := flag.String("output", "", "Output image path (for optimize-image)")
	flag.Parse()

	if *mode == "" {
		log.Fatal("--mode flag is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	lgr := logger.New(*mode)

	switch *mode {
	case "order-service":
		runOrderService(ctx, cfg, lgr, *port)

	case "notifier":
		if *userID == "" {
			log.Fatal("--user-id is required for notifier mode")
		}
		runNotifier(ctx, cfg, lgr, *port, *userID)

	case "optimize-image":
		if *input == "" || *output == "" {
			log.Fatal("--input and --output are required for optimize-image mode")
		}
		runOptimizeImage(cfg, *input, *output)

	default:
		log.Fatalf("Invalid mode: %s", *mode)
	}
}

func runOrderService(ctx context.Context, cfg *config.Config, lgr logger.Logger, port int) {
	db, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()

	mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer mqConn.Close()

	orderRepo := postgres.NewOrderRepository(db)
	publisher := rabbitmq.NewPublisher(mqConn)
	orderService := order.NewService(orderRepo, publisher, lgr)
	orderHandler := httpAdapter.NewOrderHandler(orderService, lgr)

	mux := http.NewServeMux()
	mux.HandleFunc("/orders", orderHandler.CreateOrder)
	mux.HandleFunc("/orders/", orderHandler.HandleOrders)

	handler := httpAdapter.LoggingMiddleware(lgr)(mux)
	handler = httpAdapter.RecoveryMiddleware(lgr)(handler)

	lgr.Info("service_started", fmt.Sprintf("Order Service started on port %d", port), "", map[string]interface{}{
		"port": port,
	})

	serveWithGracefulShutdown(handler, port, lgr, nil)
}

func runNotifier(ctx context.Context, cfg *config.Config, lgr logger.Logger, port int, userID string) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()

	mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer mqConn.Close()

	accountRepo := postgres.NewAccountRepository(db)

	// Role resolution happens exactly once per session. A failed lookup
	// degrades the session to the inert unknown role instead of exiting.
	role, err := accountRepo.ResolveRole(ctx, userID)
	if err != nil {
		lgr.Error("role_resolution_failed", "Failed to resolve role, degrading to unknown", "", nil, err)
		role = domain.UnknownRole()
	}

	prefs, err := accountRepo.GetPreferences(ctx, userID)
	if err != nil {
		lgr.Error("preferences_load_failed", "Failed to load preferences, using defaults", "", nil, err)
		prefs = domain.DefaultPreferences()
	}

	lgr.Info("session_resolved", fmt.Sprintf("Session role: %s", role.Kind), "", map[string]interface{}{
		"role":          string(role.Kind),
		"sound":         prefs.Sound,
		"notifications": prefs.Notifications,
	})

	store := notify.NewStore(cfg.Notifications.Retained, lgr)
	modals := notify.NewModalController()
	soundPlayer := sound.NewPlayer(lgr)
	defer soundPlayer.Close()
	toast := presenter.NewToast(os.Stdout)

	agg := aggregator.NewService(store, modals, soundPlayer, toast, role, prefs, lgr)
	if err := agg.Start(ctx); err != nil {
		log.Fatalf("Failed to start aggregator: %v", err)
	}

	eventHandler := amqpAdapter.NewChangeEventHandler(agg, lgr)
	consumer := rabbitmq.NewConsumer(mqConn, lgr)

	if binding := agg.BindingKey(); binding != "" {
		go func() {
			if err := consumer.ConsumeChangeEvents(ctx, binding, eventHandler.HandleChangeEvent); err != nil && ctx.Err() == nil {
				lgr.Error("consumer_error", "Error consuming change events", "", nil, err)
			}
		}()
	}

	bell := presenter.NewBell(store, cfg.Notifications.OrderDetailURL)
	notificationHandler := httpAdapter.NewNotificationHandler(bell, modals, lgr)

	mux := http.NewServeMux()
	mux.HandleFunc("/notifications", notificationHandler.HandleNotifications)
	mux.HandleFunc("/notifications/", notificationHandler.HandleNotifications)
	mux.HandleFunc("/modals/", notificationHandler.HandleModals)

	handler := httpAdapter.LoggingMiddleware(lgr)(mux)
	handler = httpAdapter.RecoveryMiddleware(lgr)(handler)

	lgr.Info("service_started", fmt.Sprintf("Notifier started on port %d", port), "", map[string]interface{}{
		"port": port,
		"role": string(role.Kind),
	})

	serveWithGracefulShutdown(handler, port, lgr, func() {
		cancel()
		if err := agg.Shutdown(context.Background()); err != nil {
			lgr.Error("shutdown_error", "Error shutting down aggregator", "", nil, err)
		}
	})
}

func runOptimizeImage(cfg *config.Config, input, output string) {
	// Stdout carries the result record; logs go to stderr.
	lgr := logger.NewWithWriter("optimize-image", os.Stderr)

	file, err := os.Open(input)
	if err != nil {
		log.Fatalf("Failed to open input: %v", err)
	}
	defer file.Close()

	optimizer := imaging.NewOptimizer(cfg.Images, lgr)

	result, err := optimizer.Optimize(file)
	if err != nil {
		log.Fatalf("Optimization failed: %v", err)
	}

	if err := os.WriteFile(output, result.Data, 0o644); err != nil {
		log.Fatalf("Failed to write output: %v", err)
	}

	fmt.Printf("Optimized %s -> %s: %d -> %d bytes (%.1f%% smaller), %dx%d\n",
		input, output, result.OriginalSize, result.FinalSize,
		result.CompressionRatio*100, result.Width, result.Height)
}

func serveWithGracefulShutdown(handler http.Handler, port int, lgr logger.Logger, onShutdown func()) {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		lgr.Info("shutdown_initiated", "Shutting down", "shutdown", nil)

		if onShutdown != nil {
			onShutdown()
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			lgr.Error("shutdown_error", "Error during shutdown", "shutdown", nil, err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		lgr.Error("server_error", "Server error", "runtime", nil, err)
	}
}
