// Command seedadmin creates or resets a back-office account. Intended
// for first-time setup and password recovery.
package main

import (
	"context"
	"errors"
	"flag"
	"log"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/survey-vote-service/internal/auth"
	"github.com/spec-kit/survey-vote-service/internal/config"
	"github.com/spec-kit/survey-vote-service/internal/domain"
	"github.com/spec-kit/survey-vote-service/internal/observability"
	"github.com/spec-kit/survey-vote-service/internal/persistence"
	"github.com/spec-kit/survey-vote-service/internal/repository"
)

func main() {
	username := flag.String("username", "admin", "admin username")
	password := flag.String("password", "", "admin password (required)")
	flag.Parse()

	if *password == "" {
		log.Fatal("password is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()
	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		log.Fatalf("failed to connect postgres: %v", err)
	}
	defer pg.Close()

	hash, err := auth.HashPassword(*password, cfg.Auth.BcryptCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	admins := repository.NewAdminRepository(pg.PoolHandle())
	existing, err := admins.GetByUsername(ctx, *username)
	switch {
	case err == nil:
		if err := admins.UpdatePassword(ctx, existing.ID, hash); err != nil {
			log.Fatalf("failed to update password: %v", err)
		}
		log.Printf("password reset for admin %q", *username)
	case errors.Is(err, pgx.ErrNoRows):
		admin := &domain.Admin{Username: *username, PasswordHash: hash}
		if err := admins.Create(ctx, admin); err != nil {
			log.Fatalf("failed to create admin: %v", err)
		}
		log.Printf("created admin %q", *username)
	default:
		log.Fatalf("failed to look up admin: %v", err)
	}
}
