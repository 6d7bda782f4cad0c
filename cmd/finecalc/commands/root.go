package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jask/finecalc/internal/config"
	"github.com/jask/finecalc/internal/logger"
)

var (
	cfgPath string
	driver  string

	cfg       config.Config
	log       *slog.Logger
	logCloser io.Closer
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "finecalc",
		Short:         "Fine calculator and wanted list",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgPath != "" {
				if err := os.Setenv("FINECALC_CONFIG", cfgPath); err != nil {
					return err
				}
			}
			var err error
			cfg, err = config.Load()
			if err != nil {
				return err
			}
			if driver != "" {
				cfg.Store.Driver = driver
			}
			log, logCloser, err = logger.New(cfg.Log.Path, cfg.Log.Level)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if logCloser != nil {
				return logCloser.Close()
			}
			return nil
		},
		RunE: runTUI,
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default ~/.config/finecalc/config.toml)")
	root.PersistentFlags().StringVar(&driver, "driver", "", "store driver override: sqlite, csv or memory")

	root.AddCommand(importCmd(), ledgerCmd(), configCmd())
	return root
}
