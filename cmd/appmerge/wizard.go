package main

import (
	"context"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"appmerge/internal/app"
	"appmerge/internal/config"
	appErrors "appmerge/internal/errors"
	"appmerge/internal/infra/catalog"
	"appmerge/internal/infra/destination"
	"appmerge/internal/infra/fs"
	lockinfra "appmerge/internal/infra/lock"
	"appmerge/internal/logging"
	"appmerge/internal/presentation"
	"appmerge/internal/tui"
)

// runWizard owns the terminal until the merge finishes or the user quits.
// Logs go to cfg.LogFile since stdout belongs to the UI.
func runWizard(ctx context.Context, cfg config.Config) error {
	var logWriter io.Writer
	if cfg.LogFile != "" {
		f, err := tea.LogToFile(cfg.LogFile, "appmerge")
		if err != nil {
			return appErrors.Wrap(appErrors.IOFailure, "open log", cfg.LogFile, err)
		}
		defer f.Close()
		logWriter = f
	}
	logger := logging.New(logWriter, cfg.Verbose)

	filesystem := fs.OSFS{}
	if err := checkPaths(cfg, filesystem); err != nil {
		return err
	}
	session := &app.Session{
		Locker: lockinfra.NewMemory(cfg.Lease),
		Logger: logger.Named("session"),
	}

	model := tui.NewModel(tui.Config{
		Source:      cfg.Source,
		Destination: cfg.Destination,
		Tick:        cfg.Tick,
		Verbose:     cfg.Verbose,
		Session:     session,
		Catalogs:    catalog.Source{Path: cfg.CatalogPath, FS: filesystem},
		Planner:     &app.Planner{Logger: logger.Named("planner")},
		Executor:    &app.Executor{Writer: newWriter(cfg, filesystem), Logger: logger.Named("executor")},
		Logger:      logger,
	})

	program := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	final, err := program.Run()
	_ = session.Close(context.Background())
	if err != nil {
		return appErrors.Wrap(appErrors.Internal, "tui", "", err)
	}

	m, ok := final.(tui.Model)
	if !ok {
		return nil
	}
	switch m.Phase {
	case tui.PhaseError:
		return m.Err
	case tui.PhaseDone:
		presentation.Printer{Writer: os.Stdout, Verbose: cfg.Verbose}.PrintExecution(m.Plan, m.Applied)
	}
	return nil
}

// checkPaths fails fast on a missing catalog and prepares the output
// directory before the lock is taken.
func checkPaths(cfg config.Config, filesystem fs.OSFS) error {
	if cfg.CatalogPath != "" {
		ok, err := filesystem.Exists(cfg.CatalogPath)
		if err != nil {
			return appErrors.Wrap(appErrors.IOFailure, "stat", cfg.CatalogPath, err)
		}
		if !ok {
			return appErrors.Wrap(appErrors.NotFound, "stat", cfg.CatalogPath, os.ErrNotExist)
		}
	}
	if cfg.OutputDir != "" {
		if err := filesystem.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			return appErrors.Wrap(appErrors.IOFailure, "mkdir", cfg.OutputDir, err)
		}
	}
	return nil
}

func newWriter(cfg config.Config, filesystem fs.OSFS) app.DestinationWriter {
	if cfg.OutputDir != "" {
		return destination.Directory{Root: cfg.OutputDir, FS: filesystem}
	}
	return &destination.Recorder{Delay: cfg.MergeDelay}
}
