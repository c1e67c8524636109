package cmd

import (
	"github.com/spf13/cobra"

	"go.withmatt.com/paperdrop/internal/config"
	"go.withmatt.com/paperdrop/internal/tui"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Configure the Paperless connection",
	Long:  "Interactively configure the Paperless-ngx server URL, API token and default tags.",
	RunE:  runSettings,
}

func init() {
	rootCmd.AddCommand(settingsCmd)
}

func runSettings(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	return tui.RunSettings(cmd.Context(), cfg)
}
