package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"appmerge/internal/config"
	appErrors "appmerge/internal/errors"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "appmerge",
	Short: "Merge screens, data sources, files and settings between apps",
	Long: "appmerge locks a source and a destination app, lets you pick what to copy " +
		"across screens, data sources, files and settings, and merges the selection " +
		"once the preview has no conflicts.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cmd.Flags())
		if err != nil {
			return appErrors.Wrap(appErrors.InvalidConfig, "config", "", err)
		}
		return runWizard(cmd.Context(), cfg)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("appmerge %s\n", version)
	},
}

func init() {
	config.BindFlags(rootCmd.PersistentFlags())
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(planCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		exitWithError(err)
	}
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, appErrors.UserMessage(err))
	os.Exit(1)
}
