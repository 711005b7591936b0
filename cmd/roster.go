package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"

	"github.com/abhisek/skillcoach/internal/roster"
)

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Manage the skills practiced in each session",
}

var rosterListCmd = &cobra.Command{
	Use:   "list",
	Short: "List roster skills in session order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, r, err := openRoster(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if r.Len() == 0 {
			fmt.Fprintf(out, "Roster %s is empty.\n", path)
			return nil
		}

		fmt.Fprintf(out, "%5s  %-24s  %-30s  %s\n", "Order", "ID", "Name", "Wait (min)")
		fmt.Fprintln(out, strings.Repeat("─", 76))
		for _, s := range r.Skills {
			fmt.Fprintf(out, "%5d  %-24s  %s  %s\n", s.Order, s.SkillID, fitWidth(s.DisplayName(), 30), formatMinutes(s.DurationMinutes))
		}
		total := time.Duration(r.TotalWaitMillis()) * time.Millisecond
		fmt.Fprintf(out, "\n%d skills, session length %s\n", r.Len(), total)
		return nil
	},
}

var rosterAddCmd = &cobra.Command{
	Use:   "add <skill-id>",
	Short: "Append a skill to the roster",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		duration, _ := cmd.Flags().GetFloat64("duration")

		path, r, err := openRoster(cmd)
		if err != nil {
			return err
		}
		if err := r.Add(roster.SelectedSkill{
			SkillID:         args[0],
			Name:            name,
			DurationMinutes: duration,
		}); err != nil {
			return err
		}
		if err := roster.Save(path, r); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s at position %d.\n", args[0], r.Len())
		return nil
	},
}

var rosterRemoveCmd = &cobra.Command{
	Use:   "remove <skill-id>",
	Short: "Remove a skill from the roster",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, r, err := openRoster(cmd)
		if err != nil {
			return err
		}
		if err := r.Remove(args[0]); err != nil {
			return err
		}
		if err := roster.Save(path, r); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s.\n", args[0])
		return nil
	},
}

var rosterMoveCmd = &cobra.Command{
	Use:   "move <skill-id> <position>",
	Short: "Move a skill to a 1-based position in the session order",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pos, err := strconv.Atoi(args[1])
		if err != nil || pos < 1 {
			return fmt.Errorf("invalid position %q: must be a number from 1", args[1])
		}

		path, r, err := openRoster(cmd)
		if err != nil {
			return err
		}
		if err := r.Move(args[0], pos-1); err != nil {
			return err
		}
		if err := roster.Save(path, r); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Moved %s to position %d.\n", args[0], r.Index(args[0])+1)
		return nil
	},
}

var rosterImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the roster with a validated roster file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read roster: %w", err)
		}
		r, err := roster.Parse(raw)
		if err != nil {
			var inv *roster.ErrInvalidRoster
			if errors.As(err, &inv) {
				inv.Path = args[0]
			}
			return err
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := roster.Save(cfg.RosterPath, r); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d skills into %s.\n", r.Len(), cfg.RosterPath)
		return nil
	},
}

func init() {
	rosterAddCmd.Flags().String("name", "", "Display name (defaults to the skill id)")
	rosterAddCmd.Flags().Float64("duration", 0, "Minutes to wait before this skill is presented")

	rosterCmd.AddCommand(rosterListCmd)
	rosterCmd.AddCommand(rosterAddCmd)
	rosterCmd.AddCommand(rosterRemoveCmd)
	rosterCmd.AddCommand(rosterMoveCmd)
	rosterCmd.AddCommand(rosterImportCmd)
}

// openRoster resolves the configured roster path and loads it.
func openRoster(cmd *cobra.Command) (string, *roster.Roster, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return "", nil, err
	}
	r, err := roster.Load(cfg.RosterPath)
	if err != nil {
		return "", nil, err
	}
	return cfg.RosterPath, r, nil
}

func formatMinutes(m float64) string {
	return strconv.FormatFloat(m, 'f', -1, 64)
}

// fitWidth truncates s to w terminal cells and pads it to exactly w.
func fitWidth(s string, w int) string {
	s = ansi.Truncate(s, w, "...")
	if pad := w - ansi.StringWidth(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}
