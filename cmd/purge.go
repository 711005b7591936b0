package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Permanently delete every recorded response for the user",
	Long: `Delete all stored responses for the configured user across every date.
This cannot be undone and requires --yes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if !yes {
			return fmt.Errorf("refusing to delete responses for %q without --yes", cfg.User)
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

		if err := st.PurgeUser(ctx, cfg.User); err != nil {
			return fmt.Errorf("purge %s: %w", cfg.User, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted all responses for %s.\n", cfg.User)
		return nil
	},
}

func init() {
	purgeCmd.Flags().Bool("yes", false, "Confirm the irreversible deletion")
}
