// Command seed creates the initial admin account. Intended for first-time
// setup:
//
//	SEED_ADMIN_USERNAME=teacher SEED_ADMIN_PASSWORD=... go run ./cmd/seed
package main

import (
	"context"
	"os"

	"github.com/xin-yuwen/assignment-service/internal/config"
	"github.com/xin-yuwen/assignment-service/internal/repositories"
	"github.com/xin-yuwen/assignment-service/internal/repositories/postgres"
	"github.com/xin-yuwen/assignment-service/internal/services"
	"github.com/xin-yuwen/assignment-service/internal/utils"
	"github.com/xin-yuwen/assignment-service/pkg"
)

func main() {
	logger := utils.NewDevelopmentLogger()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	name := getenv("SEED_ADMIN_NAME", "管理员")
	username := getenv("SEED_ADMIN_USERNAME", "admin")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		logger.Error("SEED_ADMIN_PASSWORD is required")
		os.Exit(1)
	}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := postgres.Migrate(db); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	repo := postgres.NewRepository(db)
	ctx := context.Background()

	if existing, err := repo.Admin().GetByUsername(ctx, username); err == nil {
		logger.Info("Admin already exists, nothing to do", "admin_id", existing.ID, "username", username)
		return
	} else if !repositories.IsNotFoundError(err) {
		logger.Error("Failed to look up admin", "error", err)
		os.Exit(1)
	}

	adminService := services.NewAdminService(repo, logger)
	admin, err := adminService.CreateAdmin(ctx, name, username, password)
	if err != nil {
		logger.Error("Failed to create admin", "error", err)
		os.Exit(1)
	}

	logger.Info("Seeded admin account", "admin_id", admin.ID, "username", admin.Username)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
