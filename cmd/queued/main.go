package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hospital-queue-backend/config"
	"hospital-queue-backend/internal/api"
	"hospital-queue-backend/internal/db"
	"hospital-queue-backend/internal/queue"
	"hospital-queue-backend/internal/store"
)

func main() {
	// Setup logger
	logger := log.New(os.Stdout, "hospital-queue ", log.LstdFlags)

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	// Initialize database
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	if err := db.SeedDepartments(gormDB, cfg.Departments); err != nil {
		logger.Fatalf("failed to seed departments: %v", err)
	}
	logger.Println("database initialized successfully")

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create the store layer and the queue engine
	appStore := store.NewGormStore(gormDB)
	engine := queue.NewEngine(cfg, appStore)
	logger.Println("queue engine initialized")

	// Run the background expiry sweeper
	sweeper := queue.NewSweeper(queue.SweeperConfig{
		Enabled:  cfg.Queue.BackgroundSweep,
		Interval: cfg.Queue.SweepInterval,
	}, engine)
	go sweeper.Run(ctx)

	// Initialize router
	router := api.NewRouter(cfg, engine)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start the server in a goroutine
	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Block until a signal is received.
	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	// Create a deadline to wait for.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
