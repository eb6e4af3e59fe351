package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mealmax/backend/config"
	"github.com/mealmax/backend/internal/database"
	"github.com/mealmax/backend/internal/server"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Redis is optional; the leaderboard cache is disabled without it
	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Printf("Warning: failed to connect to Redis, leaderboard cache disabled: %v", err)
		redisClient = nil
	}

	srv := server.New(cfg, db, redisClient)

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)

	go func() {
		log.Printf("Starting server on %s:%s", cfg.ServerHost, cfg.ServerPort)
		errChan <- srv.Start()
	}()

	// Block until we receive a signal or error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	// Gracefully shutdown the server
	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
