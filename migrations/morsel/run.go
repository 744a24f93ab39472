// Command morsel applies the schema migrations. Pass "status" to list
// migration states instead; it exits 3 while migrations are pending.
package main

import (
	"context"
	"embed"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/morsel-app/morsel-restaurant/pkg/config"
	"github.com/morsel-app/morsel-restaurant/pkg/logger"
	"github.com/morsel-app/morsel-restaurant/pkg/migrator"
)

//go:embed *.sql
var MigrationsFS embed.FS

const exitPending = 3

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m, err := migrator.New(cfg.DatabaseURL, MigrationsFS, log)
	if err != nil {
		log.Error("failed to prepare migrations", "error", err)
		os.Exit(1)
	}
	defer m.Close() //nolint:errcheck

	if len(os.Args) > 1 && os.Args[1] == "status" {
		pending, err := m.Status(ctx)
		if err != nil {
			log.Error("failed to read migration status", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		if pending {
			os.Exit(exitPending)
		}
		return
	}

	if err := m.Up(ctx); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
}
