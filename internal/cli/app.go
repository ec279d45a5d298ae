// Package cli exposes the import and maintenance operations as cobra
// commands.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jask/payrecon/internal/config"
	"github.com/jask/payrecon/internal/database"
	"github.com/jask/payrecon/internal/database/repository"
	"github.com/jask/payrecon/internal/logger"
	"github.com/jask/payrecon/internal/record"
	"github.com/jask/payrecon/internal/service"
)

// App holds the services a command runs against. It is built once per
// invocation from the loaded config.
type App struct {
	Config      config.Config
	Importer    *service.Importer
	Maintenance *service.Maintenance

	db *sql.DB
}

// OpenApp prepares storage and wires the services.
func OpenApp(ctx context.Context, cfg config.Config) (*App, error) {
	log := logger.FromContext(ctx)

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	if err := database.RunMigrations(cfg.Database.Path, cfg.Database.Migrations); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	headers, err := record.NewHeaderMap(cfg.Import.HeaderAliases)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("header aliases: %w", err)
	}

	loc, err := time.LoadLocation(cfg.Import.Timezone)
	if err != nil {
		log.Warn().Err(err).Str("timezone", cfg.Import.Timezone).Msg("using UTC")
		loc = time.UTC
	}

	store := repository.NewStore(db)
	log.Debug().Str("db", cfg.Database.Path).Msg("storage ready")
	return &App{
		Config:      cfg,
		Importer:    &service.Importer{Store: store, Headers: headers, Location: loc},
		Maintenance: &service.Maintenance{Store: store, Location: loc},
		db:          db,
	}, nil
}

func (a *App) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}
