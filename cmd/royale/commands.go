package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/grantmcd/prisoners-royale/internal/config"
	"github.com/grantmcd/prisoners-royale/internal/engine"
	"github.com/grantmcd/prisoners-royale/internal/game"
	"github.com/grantmcd/prisoners-royale/internal/models"
)

// --- Global flags ---
var (
	debug       bool
	roundsFlag  int
	scoringFlag string
	tiesFlag    string
	workersFlag int
	seedFlag    uint64

	cfg    *config.Config
	logger *slog.Logger

	rootCmd = &cobra.Command{
		Use:   "royale",
		Short: "Compile Prisoner's Dilemma strategy graphs and run elimination tournaments",
		Long: `royale runs last-one-standing Prisoner's Dilemma tournaments between
built-in strategies and strategies authored as decision graphs.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			return applyFlags(cmd)
		},
	}

	runCmd = &cobra.Command{
		Use:   "run [strategy...]",
		Short: "Run a tournament between named strategies and print every cycle",
		Args:  cobra.MinimumNArgs(2),
		RunE:  runTournament, // cmd_run.go
	}

	tuiCmd = &cobra.Command{
		Use:   "tui",
		Short: "Run tournaments in the interactive terminal viewer",
		RunE:  runTUI, // cmd_run.go
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and Prometheus metrics",
		RunE:  runServe, // cmd_serve.go
	}

	compileCmd = &cobra.Command{
		Use:   "compile [graph file]",
		Short: "Validate a strategy graph file and show its opening move",
		Args:  cobra.ExactArgs(1),
		RunE:  runCompile, // cmd_strategy.go
	}

	saveCmd = &cobra.Command{
		Use:   "save [graph file]",
		Short: "Compile a strategy graph file and store it in the library",
		Args:  cobra.ExactArgs(1),
		RunE:  runSave, // cmd_strategy.go
	}

	authorCmd = &cobra.Command{
		Use:   "author [description]",
		Short: "Ask Gemini to draw a strategy graph from a description",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runAuthor, // cmd_strategy.go
	}

	listCmd = &cobra.Command{
		Use:   "list",
		Short: "List built-in and saved strategies",
		RunE:  runList, // cmd_strategy.go
	}
)

var (
	jsonOutput bool
	saveName   string
	noSave     bool
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Log at debug level")
	rootCmd.PersistentFlags().IntVar(&roundsFlag, "rounds", 0, "Rounds per match (overrides ROYALE_ROUNDS)")
	rootCmd.PersistentFlags().StringVar(&scoringFlag, "scoring", "", "Scoring mode: per-cycle or cumulative (overrides ROYALE_SCORING)")
	rootCmd.PersistentFlags().StringVar(&tiesFlag, "ties", "", "Tie policy: all-tied or one-lowest (overrides ROYALE_TIES)")
	rootCmd.PersistentFlags().IntVar(&workersFlag, "workers", 0, "Matches played concurrently per cycle (overrides ROYALE_WORKERS)")
	rootCmd.PersistentFlags().Uint64Var(&seedFlag, "seed", 0, "Seed for the Random strategy; 0 uses an unseeded coin")

	runCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the result as JSON")
	saveCmd.Flags().StringVar(&saveName, "name", "", "Library name (defaults to the file name)")
	authorCmd.Flags().BoolVar(&noSave, "no-save", false, "Print the generated graph without saving it")

	rootCmd.AddCommand(runCmd, tuiCmd, serveCmd, compileCmd, saveCmd, authorCmd, listCmd)
}

// applyFlags layers command line flags over the loaded config and sets up logging.
func applyFlags(cmd *cobra.Command) error {
	flags := cmd.Flags()
	if flags.Changed("debug") {
		cfg.Debug = debug
	}
	if flags.Changed("rounds") {
		if roundsFlag <= 0 {
			return fmt.Errorf("--rounds must be positive, got %d", roundsFlag)
		}
		cfg.RoundsPerMatch = roundsFlag
	}
	if flags.Changed("workers") {
		if workersFlag <= 0 {
			return fmt.Errorf("--workers must be positive, got %d", workersFlag)
		}
		cfg.Workers = workersFlag
	}
	var err error
	if flags.Changed("scoring") {
		if cfg.Policy.Scoring, err = engine.ParseScoring(scoringFlag); err != nil {
			return err
		}
	}
	if flags.Changed("ties") {
		if cfg.Policy.Ties, err = engine.ParseTiePolicy(tiesFlag); err != nil {
			return err
		}
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

func newResolver() *engine.Resolver {
	var coin game.Coin = game.DefaultCoin
	if seedFlag != 0 {
		coin = game.SeededCoin(seedFlag)
	}
	return engine.NewResolver(game.NewRegistry(coin), models.NewLibrary(cfg.SaveDir))
}

func newEngine(opts ...engine.Option) *engine.Engine {
	opts = append(cfg.EngineOptions(), append(opts, engine.WithLogger(logger))...)
	return engine.NewEngine(opts...)
}
