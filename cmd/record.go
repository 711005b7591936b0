package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/skillcoach/internal/roster"
	"github.com/abhisek/skillcoach/internal/store"
)

const recordTimeLayout = "2006-01-02 15:04"

var recordCmd = &cobra.Command{
	Use:   "record <skill-id> <yes|no|no-response>",
	Short: "Record a response observed outside a live session",
	Long: `Save one response for a roster skill, e.g. when the adult noted the
outcome on paper. The record counts toward progress like any session response.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := store.ParseResponse(args[1])
		if err != nil {
			return err
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		r, err := roster.Load(cfg.RosterPath)
		if err != nil {
			return err
		}
		i := r.Index(args[0])
		if i < 0 {
			return fmt.Errorf("skill %q is not on the roster", args[0])
		}
		skill := r.Skills[i]

		at := time.Now()
		if v, _ := cmd.Flags().GetString("at"); v != "" {
			at, err = time.ParseInLocation(recordTimeLayout, v, time.Local)
			if err != nil {
				return fmt.Errorf("invalid --at %q (want %q): %w", v, recordTimeLayout, err)
			}
		}

		log, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer log.Sync() //nolint:errcheck

		ctx := commandContext(cmd)
		st, err := openStore(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer st.Close()

		rec := store.NewRecord(cfg.User, skill.SkillID, skill.DisplayName(), value, at)
		if err := st.Save(ctx, rec); err != nil {
			return fmt.Errorf("save response: %w", err)
		}
		log.Info("response recorded from cli",
			zap.String("skill_id", rec.SkillID),
			zap.String("response", string(rec.Response)),
			zap.String("date", rec.SessionDate))
		fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s for %s on %s.\n", rec.Response, skill.DisplayName(), rec.SessionDate)
		return nil
	},
}

func init() {
	recordCmd.Flags().String("at", "", "Local time of the response ("+recordTimeLayout+"), default now")
}
