package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"datavisapi/internal/config"
	"datavisapi/internal/database"
	"datavisapi/internal/pkg/clock"
	"datavisapi/internal/repository"
)

// Revoked rows stay around this long so rotation history is inspectable
// before the purge claims them.
const revokedRetention = 30 * 24 * time.Hour

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	repo := repository.NewRefreshTokenRepository(db, clock.System(), cfg.RefreshTokenTTL)

	deleted, err := repo.PurgeStale(context.Background(), revokedRetention)
	if err != nil {
		log.Fatalf("cleanup refresh_tokens failed: %v", err)
	}

	log.Printf("token cleanup completed: refresh_tokens=%d", deleted)
}
