package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/skillcoach/internal/app"
	"github.com/abhisek/skillcoach/internal/roster"
	"github.com/abhisek/skillcoach/internal/store"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start a live coaching session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// runApp loads the roster, opens the store, and launches the TUI. A store
// that fails to open does not block the session: responses are shown but not
// kept, and the driver warns about it.
func runApp(cmd *cobra.Command) error {
	ctx := commandContext(cmd)
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Log lines would corrupt the alt screen, so the TUI always logs to a file.
	if cfg.LogFile == "" {
		if cfg.LogFile, err = defaultLogFile(); err != nil {
			return err
		}
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	r, err := roster.Load(cfg.RosterPath)
	if err != nil {
		return err
	}
	if r.Len() == 0 {
		return fmt.Errorf("roster %s is empty: add skills with `skillcoach roster add`", cfg.RosterPath)
	}

	st, err := newStore(cfg, log)
	if err != nil {
		return err
	}
	if err := st.Init(ctx); err != nil {
		log.Warn("response store unavailable; continuing without persistence",
			zap.String("backend", cfg.Store.Backend), zap.Error(err))
		fmt.Fprintln(os.Stderr, "Response storage unavailable:", err)
		fmt.Fprintln(os.Stderr, "This session will run, but its responses will not be saved.")
	}
	defer st.Close()

	return app.Run(app.Options{
		User:            cfg.User,
		Skills:          r.Snapshot(),
		Store:           st,
		Logger:          log,
		TickInterval:    cfg.Session.TickInterval,
		ResponseTimeout: cfg.Session.ResponseTimeout,
	})
}

// defaultLogFile is <data dir>/skillcoach.log.
func defaultLogFile() (string, error) {
	dir, err := store.DefaultDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "skillcoach.log"), nil
}
