package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"saham-workbench/internal/cli"
	"saham-workbench/internal/config"
	"saham-workbench/internal/errors"
	"saham-workbench/internal/logging"
)

func main() {
	// .env is optional; env overrides still apply without it.
	_ = godotenv.Load()

	cfg, err := config.Load(config.DefaultConfigDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logCfg := logging.DefaultLogConfig()
	if cfg.Logging.Level != "" {
		logCfg.Level = cfg.Logging.Level
	}
	logger := logging.NewLoggerWithConfig(logCfg)

	rootCmd := cli.NewRootCmd(cfg, logger)
	if err := rootCmd.Execute(); err != nil {
		// The gateway collapses external failures to a single message so raw
		// provider errors never reach the terminal.
		if errors.Is(err, errors.ErrAnalysisFailed) {
			fmt.Fprintf(os.Stderr, "✗ %v\n", errors.ErrAnalysisFailed)
		} else {
			fmt.Fprintf(os.Stderr, "✗ %v\n", err)
		}
		os.Exit(1)
	}
}
