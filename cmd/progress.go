package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/skillcoach/internal/progress"
	"github.com/abhisek/skillcoach/internal/roster"
	"github.com/abhisek/skillcoach/internal/store"
	"github.com/abhisek/skillcoach/internal/ui/components"
	"github.com/abhisek/skillcoach/internal/ui/theme"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show daily success rates for a day, week or month",
	Args:  cobra.NoArgs,
	RunE:  runProgress,
}

func init() {
	progressCmd.Flags().String("period", string(progress.PeriodDay), "Reporting window: day, week or month")
	progressCmd.Flags().String("date", "", "Last date of the window, YYYY-MM-DD (default today)")
	progressCmd.Flags().Bool("json", false, "Print the report as JSON")
}

func runProgress(cmd *cobra.Command, args []string) error {
	periodVal, _ := cmd.Flags().GetString("period")
	dateVal, _ := cmd.Flags().GetString("date")
	asJSON, _ := cmd.Flags().GetBool("json")

	period := progress.Period(strings.ToLower(periodVal))
	if _, err := period.Days(); err != nil {
		return err
	}
	end := time.Now()
	if dateVal != "" {
		d, err := store.ParseDate(dateVal)
		if err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
		end = d
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
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

	ctx := commandContext(cmd)
	st, err := newStore(cfg, log)
	if err != nil {
		return err
	}
	if err := st.Init(ctx); err != nil {
		// Queries fail closed: the report shows no data rather than aborting.
		log.Warn("response store unavailable", zap.Error(err))
		fmt.Fprintln(os.Stderr, "Response storage unavailable:", err)
	}
	defer st.Close()

	report, err := progress.NewLoader(st, log).LoadReport(ctx, cfg.User, period, end, r.Snapshot())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	renderReport(out, report)
	return nil
}

// renderReport prints the per-day table and the range rollup.
func renderReport(w io.Writer, rep *progress.Report) {
	title := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	fmt.Fprintln(w, title.Render(fmt.Sprintf("Progress for %s", rep.UserID)))
	fmt.Fprintln(w, dim.Render(fmt.Sprintf("%s to %s (%s)", rep.From, rep.To, rep.Period)))
	fmt.Fprintln(w)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers("Date", "Skills", "Yes", "No", "No resp.", "Success").
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return s.Foreground(theme.Secondary).Bold(true)
			}
			if col > 0 {
				s = s.Align(lipgloss.Right)
			}
			return s
		})

	for _, d := range rep.Days {
		if !d.HasData() {
			t.Row(d.Date, "-", "-", "-", "-", "-")
			continue
		}
		t.Row(
			d.Date,
			fmt.Sprintf("%d/%d", d.CompletedSkills, d.TotalSkills),
			strconv.Itoa(d.YesResponses),
			strconv.Itoa(d.NoResponses),
			strconv.Itoa(d.NoResponseCount),
			fmt.Sprintf("%d%%", d.SuccessRate),
		)
	}
	fmt.Fprintln(w, t.Render())
	fmt.Fprintln(w)

	sum := rep.Summary
	if sum.Days == 0 {
		fmt.Fprintln(w, dim.Render("No responses recorded in this period."))
		return
	}
	fmt.Fprintln(w, components.NewRateBar("Average", sum.AvgSuccessRate, 50).View())
	fmt.Fprintf(w, "%s over %d practiced day(s)\n", formatImprovement(sum.Improvement), sum.Days)
}

func formatImprovement(delta int) string {
	switch {
	case delta > 0:
		return theme.Yes.Render(fmt.Sprintf("Improvement +%d points", delta))
	case delta < 0:
		return theme.No.Render(fmt.Sprintf("Change %d points", delta))
	default:
		return theme.Pending.Render("No change")
	}
}
