package commands

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/idavillc/prompt-builder/internal/adapter/sqlite"
	"github.com/idavillc/prompt-builder/internal/config"
	"github.com/idavillc/prompt-builder/internal/domain/id"
	"github.com/idavillc/prompt-builder/internal/domain/library"
	"github.com/idavillc/prompt-builder/internal/domain/prompt"
	"github.com/idavillc/prompt-builder/internal/logger"
	"github.com/idavillc/prompt-builder/internal/service"
	"github.com/idavillc/prompt-builder/internal/writeback"
)

// app bundles the wired application: config, database and loaded services.
// Every command goes through openApp so serve and the one-shot commands see
// the exact same state.
type app struct {
	cfg      *config.Config
	log      *slog.Logger
	db       *sql.DB
	settings *service.SettingsService
	tree     *service.TreeService
	prompts  *service.PromptService
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadFrom(configFile)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	log := logger.New(cfg.Logging)
	slog.SetDefault(log)

	db, err := sqlite.Open(ctx, cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: %w", err)
	}
	if err := sqlite.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	store := sqlite.NewStore(db)

	settingsSvc := service.NewSettingsService(store, log)
	settingsSvc.Load(ctx)

	treeSvc := service.NewTreeService(store, writeback.New(cfg.Persist.Debounce, log), log)
	promptSvc := service.NewPromptService(store, writeback.New(cfg.Persist.Debounce, log), settingsSvc.Get, log)

	// Tree changes propagate into linked prompt sections; saving a section
	// back flows the other way. Wired before Load so the seed passes through.
	treeSvc.OnChange(promptSvc.SyncWithTree)
	promptSvc.SetComponentUpdater(treeSvc.UpdateNode)

	// Tree and prompts must seed from the same parse so remapped component
	// ids line up with the sections that link to them.
	seed, err := library.Starter(id.New)
	if err != nil {
		log.Warn("starter library unavailable", "error", err)
		seed = nil
	}
	usedSeed := treeSvc.Load(ctx, seed)
	var promptSeed []prompt.Prompt
	if usedSeed {
		promptSeed = seed.Prompts
	}
	promptSvc.Load(ctx, promptSeed)

	return &app{
		cfg:      cfg,
		log:      log,
		db:       db,
		settings: settingsSvc,
		tree:     treeSvc,
		prompts:  promptSvc,
	}, nil
}

// Close flushes any pending snapshots and closes the database.
func (a *app) Close(ctx context.Context) {
	if err := a.tree.Flush(ctx); err != nil {
		a.log.Error("flushing component tree failed", "error", err)
	}
	if err := a.prompts.Flush(ctx); err != nil {
		a.log.Error("flushing prompts failed", "error", err)
	}
	if err := a.db.Close(); err != nil {
		a.log.Error("closing database failed", "error", err)
	}
}
