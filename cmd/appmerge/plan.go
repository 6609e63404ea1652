package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"appmerge/internal/app"
	"appmerge/internal/config"
	appErrors "appmerge/internal/errors"
	"appmerge/internal/infra/catalog"
	"appmerge/internal/infra/fs"
	"appmerge/internal/infra/preset"
	"appmerge/internal/logging"
	"appmerge/internal/presentation"
	"appmerge/internal/selection"
)

var presetPath string

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the merge preview for a saved selection",
	Long: "plan replays a selection preset through the same coordinator the wizard uses " +
		"and prints the review step without opening the UI. It exits non-zero when the " +
		"preview has conflicts.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cmd.Flags())
		if err != nil {
			return appErrors.Wrap(appErrors.InvalidConfig, "config", "", err)
		}
		if presetPath == "" {
			return appErrors.Wrap(appErrors.InvalidConfig, "config", "preset", errors.New("--preset is required"))
		}
		return runPlan(cmd.Context(), cfg, presetPath)
	},
}

func init() {
	planCmd.Flags().StringVarP(&presetPath, "preset", "p", "", "Selection preset (YAML)")
}

func runPlan(ctx context.Context, cfg config.Config, path string) error {
	logger := logging.New(os.Stderr, cfg.Verbose)
	filesystem := fs.OSFS{}
	if err := checkPaths(cfg, filesystem); err != nil {
		return err
	}
	source := catalog.Source{Path: cfg.CatalogPath, FS: filesystem}

	src, err := source.Load(ctx, cfg.Source)
	if err != nil {
		return err
	}
	dst, err := source.Load(ctx, cfg.Destination)
	if err != nil {
		return err
	}

	data, err := filesystem.ReadFile(path)
	if err != nil {
		return appErrors.Wrap(appErrors.IOFailure, "read preset", path, err)
	}
	cmds, err := preset.Parse(data)
	if err != nil {
		return appErrors.Wrap(appErrors.InvalidConfig, "parse preset", path, err)
	}

	coord := selection.NewCoordinator(&src, logger)
	toggles := coord.Dispatch(cmds...)
	logger.Verbosef("preset applied %d commands, %d association toggles", len(cmds), len(toggles))

	planner := app.Planner{Logger: logger.Named("planner")}
	plan, err := planner.Plan(ctx, coord.Snapshot(), src, dst)
	if err != nil {
		return err
	}

	presentation.Printer{Writer: os.Stdout, Verbose: cfg.Verbose}.PrintPreview(plan)
	if plan.Blocked() {
		return appErrors.Wrap(appErrors.Conflict, "plan", cfg.Destination,
			fmt.Errorf("%d conflicting items", len(plan.Conflicts)))
	}
	return nil
}
