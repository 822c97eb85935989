package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"saham-workbench/internal/archive"
	"saham-workbench/internal/config"
	"saham-workbench/internal/gateway"
	"saham-workbench/internal/logging"
	"saham-workbench/internal/store"
	"saham-workbench/internal/trend"
)

const Version = "0.1.0"

// App holds shared dependencies for all commands.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Store    store.DataStore
	Archive  *archive.Archive
	LLM      gateway.LLMClient
	Analyzer *gateway.Analyzer
	Checker  *trend.Checker
	Output   *Output
	jsonMode bool
}

// NewRootCmd builds the root command and wires the application graph.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	dbPath := filepath.Join(config.DefaultConfigDir(), "saham.db")
	st, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		logger.Warn().Err(err).Str("path", dbPath).Msg("vault store unavailable, archive will not persist")
	} else {
		app.Store = st
	}

	app.Archive = archive.New(app.Store, logger)
	if app.Store != nil {
		if entries, err := app.Store.LoadVault(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("failed to hydrate vault")
		} else {
			app.Archive.Load(entries)
		}
	}

	if cfg.Credentials.LLM.APIKey != "" {
		app.LLM = gateway.NewOpenAIClient(
			cfg.Credentials.LLM.Endpoint,
			cfg.Credentials.LLM.APIKey,
			cfg.Credentials.LLM.Model,
		)
		app.Analyzer = gateway.NewAnalyzer(app.LLM, logger)
		app.Checker = trend.NewChecker(app.LLM, logger)
	}

	rootCmd := &cobra.Command{
		Use:   "saham",
		Short: "Stock analysis workbench for the Indonesian market",
		Long: `saham composes fundamentals, order book structure and raw market
intelligence into a deterministic analysis request, validates the structured
response, and archives every case for trend consistency checks.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
			}
			app.jsonMode, _ = cmd.Flags().GetBool("json")
			app.Output = NewOutput(app.jsonMode, cfg.UI.ColorEnabled && !app.jsonMode)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Store != nil {
				_ = app.Store.Close()
			}
		},
	}

	rootCmd.PersistentFlags().Bool("json", false, "Output machine-readable JSON")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	addCoreCommands(rootCmd, app)
	addAnalyzeCommand(rootCmd, app)
	addArchiveCommands(rootCmd, app)
	addTrendCommand(rootCmd, app)
	addDraftCommands(rootCmd, app)

	return rootCmd
}

func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("saham %s\n", Version)
		},
	})

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.jsonMode {
				return app.Output.JSON(app.Config)
			}
			app.Output.Header("Profile")
			app.Output.Plain("  user:         %s", app.Config.Profile.UserName)
			app.Output.Plain("  tier:         %s", app.Config.Profile.DefaultTier)
			app.Output.Plain("  risk profile: %s", app.Config.Profile.RiskProfile)
			app.Output.Header("LLM")
			app.Output.Plain("  endpoint: %s", app.Config.Credentials.LLM.Endpoint)
			app.Output.Plain("  model:    %s", app.Config.Credentials.LLM.Model)
			if app.Config.Credentials.LLM.APIKey == "" {
				app.Output.Warning("no API key configured, analysis is disabled")
			}
			return nil
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the configuration directory",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(config.DefaultConfigDir())
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration values",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Config.Validate(); err != nil {
				return err
			}
			app.Output.Success("configuration is valid")
			return nil
		},
	})

	rootCmd.AddCommand(configCmd)
}

// requireAnalyzer guards commands that need a configured LLM backend.
func (app *App) requireAnalyzer() error {
	if app.Analyzer == nil {
		return fmt.Errorf("no LLM credentials configured, run 'saham config path' and edit credentials.toml")
	}
	return nil
}
