// Package cli provides the command-line interface for the board application.
package cli

import (
	"errors"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"finance-board/internal/board"
	"finance-board/internal/config"
	"finance-board/internal/logging"
	"finance-board/internal/personas"
	"finance-board/internal/resilience"
	"finance-board/internal/store"
)

// Version information
const (
	Version = "0.1.0"
)

var (
	errStoreUnavailable  = errors.New("data store is unavailable; check the configured db_path")
	errClientUnavailable = errors.New("no OpenAI API key configured; set OPENAI_API_KEY or credentials.toml")
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Store  store.DataStore
	Client board.CompletionClient
	Roster personas.Roster
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	// Initialize SQLite store
	dataStore, err := store.NewSQLiteStore(cfg.Storage.DBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, most commands will be unavailable")
	} else {
		app.Store = dataStore
		logger.Debug().Str("path", cfg.Storage.DBPath).Msg("SQLite store initialized")
	}

	// Initialize completion client if OpenAI API key is available. The
	// breaker is shared across all pipelines of a deliberation.
	if cfg.Credentials.OpenAI.APIKey != "" {
		openaiClient := board.NewOpenAIClient(cfg.Credentials.OpenAI.APIKey, cfg.Board.Model)
		app.Client = board.NewBreakerClient(openaiClient, resilience.DefaultBreakerConfig())
		logger.Debug().Str("model", cfg.Board.Model).Msg("OpenAI client initialized")
	}

	// Load the persona roster, applying any configured overrides
	roster, err := personas.Load(cfg.Board.PersonaOverrides)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to load persona overrides, using default roster")
		roster = personas.Default()
	}
	app.Roster = roster

	rootCmd := &cobra.Command{
		Use:   "board",
		Short: "Finance Board - an AI advisory board for purchase decisions",
		Long: `Finance Board convenes a panel of differently-biased AI advisors to
deliberate on purchase requests against your real financial picture.

Each advisor researches the purchase, reasons through their own framework,
critiques their position, and casts a vote. The board's majority decides.

Use 'board help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/finance-board)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newPurchaseCmd(app))
	rootCmd.AddCommand(newDeliberateCmd(app))
	rootCmd.AddCommand(newHistoryCmd(app))
	rootCmd.AddCommand(newIncomeCmd(app))
	rootCmd.AddCommand(newExpenseCmd(app))
	rootCmd.AddCommand(newBillCmd(app))
	rootCmd.AddCommand(newGoalCmd(app))
	rootCmd.AddCommand(newAccountCmd(app))
	rootCmd.AddCommand(newSnapshotCmd(app))
	rootCmd.AddCommand(newPersonasCmd(app))

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"version": Version})
			} else {
				output.Printf("Finance Board v%s\n", Version)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write template configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			dir, _ := cmd.Flags().GetString("config")
			if dir == "" {
				dir = config.DefaultConfigDir()
			}
			if err := config.WriteTemplates(dir); err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]string{"path": dir})
			}
			output.Success("✓ Wrote configuration templates to %s", dir)
			output.Println("Edit credentials.toml to add your OpenAI API key.")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			return showConfig(output, app.Config)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("✓ Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) error {
	output.Bold("Board Configuration")
	output.Printf("  Model:            %s\n", cfg.Board.Model)
	output.Printf("  Batch Size:       %d\n", cfg.Board.BatchSize)
	output.Printf("  Stage Timeout:    %s\n", cfg.Board.StageTimeout)
	output.Printf("  Overall Deadline: %s\n", cfg.Board.OverallDeadline)
	output.Printf("  Max Retries:      %d\n", cfg.Board.MaxStageRetries)
	output.Printf("  Insight Enabled:  %v\n", cfg.Board.InsightEnabled)
	if cfg.Board.PersonaOverrides != "" {
		output.Printf("  Persona Overrides: %s\n", cfg.Board.PersonaOverrides)
	}
	output.Println()

	output.Bold("Storage")
	output.Printf("  Database: %s\n", cfg.Storage.DBPath)
	output.Println()

	output.Bold("Logging")
	output.Printf("  Level:   %s\n", cfg.Logging.Level)
	output.Printf("  Console: %v\n", cfg.Logging.Console)
	output.Printf("  File:    %v\n", cfg.Logging.File)

	return nil
}

// requireStore returns an error-producing guard for commands that need the
// data store.
func (app *App) requireStore() error {
	if app.Store == nil {
		return errStoreUnavailable
	}
	return nil
}

// requireClient guards commands that need the completion provider.
func (app *App) requireClient() error {
	if app.Client == nil {
		return errClientUnavailable
	}
	return nil
}
