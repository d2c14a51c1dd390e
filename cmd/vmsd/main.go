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

	"github.com/joho/godotenv"

	"github.com/ahamdan1990/vms-frontend-sub004/config"
	"github.com/ahamdan1990/vms-frontend-sub004/internal/api"
	"github.com/ahamdan1990/vms-frontend-sub004/internal/db"
	"github.com/ahamdan1990/vms-frontend-sub004/internal/escalate"
	"github.com/ahamdan1990/vms-frontend-sub004/internal/mail"
	"github.com/ahamdan1990/vms-frontend-sub004/internal/store"
)

func main() {
	// Setup logger
	logger := log.New(os.Stdout, "vms-backend ", log.LstdFlags)

	// Pull secrets (DATABASE_DSN, SENDGRID_*) from .env when present.
	if err := godotenv.Load(); err != nil {
		logger.Println("No .env file found, relying on the process environment")
	}

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

	if cfg.Push.PublicKey == "" || cfg.Push.PrivateKey == "" {
		logger.Println("Warning: VAPID keys are not configured. Escalation push delivery will fail until they are set.")
	}

	// Initialize database
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)
	counts := store.NewBookingCountCache(appStore, cfg.BookingCache.TTL)
	logger.Println("data store initialized")

	mailer := mail.NewMailer(cfg.Mail.APIKey, cfg.Mail.FromName, cfg.Mail.FromEmail)
	if !mailer.Enabled() {
		logger.Println("Invitation mail is disabled (no SendGrid API key configured).")
	}

	// Run the escalation sweeper in the background.
	sweeper := escalate.NewService(cfg, appStore, counts)
	go sweeper.Run(ctx)

	// Initialize router
	router := api.NewRouter(cfg, appStore, counts, mailer)
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
