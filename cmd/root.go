package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/skillcoach/internal/config"
	"github.com/abhisek/skillcoach/internal/logging"
	"github.com/abhisek/skillcoach/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "skillcoach",
	Short: "Behavioral skill coaching sessions in the terminal",
	Long: `SkillCoach walks a student through a roster of behavioral skills separated
by wait periods, records whether each skill happened, and reports daily
success rates to the supervising adult.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to YAML config file (overrides SKILLCOACH_CONFIG env var)")
	pf.String("user", "", "User whose responses are recorded (overrides SKILLCOACH_USER)")
	pf.String("store", "", "Response store backend: sqlite, file, redis or memory")
	pf.String("db", "", "SQLite file or JSONL directory (overrides SKILLCOACH_DB)")
	pf.String("roster", "", "Roster file (overrides SKILLCOACH_ROSTER)")
	pf.String("log", "", "Log mode: dev, prod or off (overrides SKILLCOACH_LOG)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(rosterCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(purgeCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves configuration: flags, then env, then the YAML file,
// then defaults.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	if v, _ := cmd.Flags().GetString("user"); v != "" {
		cfg.User = v
	}
	if v, _ := cmd.Flags().GetString("store"); v != "" {
		cfg.Store.Backend = v
	}
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.Store.Path = v
	}
	if v, _ := cmd.Flags().GetString("roster"); v != "" {
		cfg.RosterPath = v
	}
	if v, _ := cmd.Flags().GetString("log"); v != "" {
		cfg.LogMode = v
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.LogFile != "" {
		if err := store.EnsureDir(cfg.LogFile); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
	}
	return logging.New(cfg.LogMode, cfg.LogFile)
}

// newStore constructs the configured backend without initializing it.
func newStore(cfg config.Config, log *zap.Logger) (store.ResponseStore, error) {
	opts := cfg.StoreOptions()
	if opts.Backend == store.BackendSQLite {
		if err := store.EnsureDir(opts.Path); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	return store.New(opts, log)
}

// openStore constructs and initializes the configured backend.
func openStore(ctx context.Context, cfg config.Config, log *zap.Logger) (store.ResponseStore, error) {
	st, err := newStore(cfg, log)
	if err != nil {
		return nil, err
	}
	if err := st.Init(ctx); err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}
	return st, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
