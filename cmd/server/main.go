package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brightlend/naming-service/internal/api"
	"github.com/brightlend/naming-service/internal/config"
	"github.com/brightlend/naming-service/internal/ens"
	"github.com/brightlend/naming-service/internal/repository/postgres"
	"github.com/brightlend/naming-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize database
	db, err := postgres.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	// Initialize repositories
	repos := postgres.NewRepositories(db)

	// Initialize the on-chain registrar (one signer, reused across requests)
	registrar, err := ens.NewRegistrar(cfg)
	if err != nil {
		log.Fatalf("failed to initialize registrar: %v", err)
	}

	// Initialize services
	services := service.NewServices(repos, registrar, cfg)

	// Initialize router
	router := api.NewRouter(services, cfg)

	// Create server
	// WriteTimeout must cover the registration sequence, which waits for
	// three mined transactions.
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 3*cfg.TxConfirmTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on port %s (parent domain %s)", cfg.Port, cfg.ParentDomain)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
