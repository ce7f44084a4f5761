package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-opta-metrics/internal/config"
	"github.com/pable/go-opta-metrics/internal/storage"
	"github.com/pable/go-opta-metrics/pkg/logger"
	"github.com/pable/go-opta-metrics/pkg/metrics"
)

var (
	cfgFile string
	cfg     *config.Config
	mgr     *metrics.Manager
	started time.Time
)

var rootCmd = &cobra.Command{
	Use:   "optametrics",
	Short: "Opta F24 match event metrics tool",
	Long: `Parse Opta F24 event feeds (optionally with an SRML squad feed), store them in
SQLite and query football event categories such as passes, crosses, shots,
duels and tackles, with per-player summaries.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command.
func Execute() {
	executed, err := rootCmd.ExecuteC()
	finish(executed, err)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "YAML config file (default ./"+config.DefaultFile+" when present)")
	pf.String("db", "", "path to SQLite database (default ~/.optametrics/matches.db)")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("metrics-file", "", "write Prometheus metrics to this textfile after each command")
	pf.String("output", "", "output format: table or json")

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(trendCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(dropCmd)
}

// setup loads configuration and initialises logging and metrics before any
// subcommand runs.
func setup(cmd *cobra.Command, _ []string) error {
	started = time.Now()
	loaded, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	cfg = loaded

	logger.Init(os.Stderr)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return fmt.Errorf("set log level: %w", err)
	}
	mgr = metrics.NewManager()
	logger.Named("cmd").Debug(cmd.Context(), "config loaded",
		logger.String("command", cmd.Name()),
		logger.String("db", cfg.DBPath),
		logger.String("output", cfg.Output))
	return nil
}

// finish records the command outcome and flushes the metrics textfile.
func finish(cmd *cobra.Command, runErr error) {
	if cfg == nil || cmd == nil {
		return
	}
	mgr.ObserveCommand(cmd.Name(), time.Since(started), runErr != nil)
	if err := mgr.WriteTextfile(cfg.MetricsFile); err != nil {
		logger.Named("cmd").Warn(context.Background(), "write metrics", logger.Error(err))
	}
}

// openDB opens the configured database, creating its directory if needed.
func openDB() (*storage.DB, error) {
	if dir := filepath.Dir(cfg.DBPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

// timed runs fn and records its duration under op.
func timed(op string, fn func() error) error {
	start := time.Now()
	err := fn()
	mgr.ObserveStorage(op, time.Since(start))
	return err
}

func jsonOutput() bool { return cfg.Output == config.OutputJSON }
