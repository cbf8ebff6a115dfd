package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/algotrace/internal/config"
	"github.com/aretw0/algotrace/internal/logging"
)

var (
	appConfig = config.Default()
	logger    = logging.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "algotrace",
	Short: "algotrace steps through algorithms one recorded operation at a time",
	Long: `algotrace runs classic algorithms on small inputs, records every operation
with a snapshot of the data structure, and plays the trace back in the terminal,
over HTTP or as MCP tools.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			cfg.Log.Level = lvl
		}
		level, err := config.ParseLevel(cfg.Log.Level)
		if err != nil {
			return err
		}
		asJSON, _ := cmd.Flags().GetBool("log-json")

		appConfig = cfg
		logger = logging.NewWriter(os.Stderr, level, asJSON)
		slog.SetDefault(logger)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default $"+config.EnvConfig+" or ./"+config.DefaultPath+")")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON lines")
}
