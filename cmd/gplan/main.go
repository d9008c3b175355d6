// Command gplan is a terminal workspace for planning games.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gplanner/gplan/internal/adapters/driven/ai"
	configfile "github.com/gplanner/gplan/internal/adapters/driven/config/file"
	"github.com/gplanner/gplan/internal/adapters/driven/export"
	"github.com/gplanner/gplan/internal/adapters/driven/richtext"
	"github.com/gplanner/gplan/internal/adapters/driven/storage/file"
	"github.com/gplanner/gplan/internal/adapters/driven/storage/sqlite"
	"github.com/gplanner/gplan/internal/adapters/driving/cli"
	"github.com/gplanner/gplan/internal/config"
	"github.com/gplanner/gplan/internal/core/ports/driven"
	"github.com/gplanner/gplan/internal/core/services"
	"github.com/gplanner/gplan/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}
	logger.SetVerbose(cfg.Verbose)
	logger.Section("Startup")
	logger.Debug("data directory: %s (%s store)", cfg.DataDir(), cfg.Store)

	var (
		store driven.PersistenceStore
		watch func(context.Context, func()) error
	)
	switch cfg.Store {
	case config.StoreSQLite:
		s, err := sqlite.NewStore(cfg.DataDir())
		if err != nil {
			return fmt.Errorf("failed to open sqlite store: %w", err)
		}
		store = s
	default:
		s, err := file.NewStore(cfg.DataDir())
		if err != nil {
			return fmt.Errorf("failed to open project store: %w", err)
		}
		store, watch = s, s.Watch
	}

	ws := services.NewWorkspace(store,
		services.WithAutosaveDelay(cfg.AutosaveDelay),
		services.WithProjectExporter(export.NewYAMLExporter()),
	)
	if err := ws.Load(ctx); err != nil {
		return errors.Join(fmt.Errorf("failed to load projects: %w", err), store.Close())
	}
	defer func() {
		if err := ws.Close(context.Background()); err != nil {
			logger.Warn("shutdown: %v", err)
		}
	}()

	cfgStore, err := configfile.NewConfigStore(cfg.Home)
	if err != nil {
		return fmt.Errorf("failed to open settings: %w", err)
	}
	factory := ai.NewFactory(cfg.AITimeout)
	settingsService := services.NewSettingsService(cfgStore, ai.NewProfileValidator(factory))
	settings, err := settingsService.Get()
	if err != nil {
		return err
	}

	prompts, err := configfile.NewPromptStore(cfg.PromptDir())
	if err != nil {
		return fmt.Errorf("failed to open prompts: %w", err)
	}

	if cfg.AIAPIKey != "" {
		for i := range settings.Profiles {
			if settings.Profiles[i].ID == settings.ActiveProfileID {
				settings.Profiles[i].Key = cfg.AIAPIKey
			}
		}
	}
	completion, err := factory.CreateForSettings(settings)
	if err != nil {
		logger.Warn("AI disabled: %v", err)
		completion = nil
	}

	board := services.NewBoardService(ws, settings.Board.Limits)
	assistant := services.NewAssistantService(completion, prompts, board,
		services.WithAssistTimeout(cfg.AITimeout),
		services.WithRateLimit(float64(cfg.AIRequestsPerMinute)/60, 3),
	)

	cli.SetServices(cli.Services{
		Projects:  ws,
		Board:     board,
		Documents: services.NewDocumentService(ws, richtext.New(), export.NewHTMLExporter()),
		Team:      services.NewTeamService(ws),
		Prototype: services.NewPrototypeService(ws),
		Assistant: assistant,
		Settings:  settingsService,
	})
	if watch != nil {
		cli.SetTUIConfig(&cli.TUIConfig{Watch: watch})
	}
	cli.SetVersion(version)

	return cli.Execute(ctx)
}
