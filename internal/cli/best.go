package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

// bestCommand creates the "best" command and its "reset" subcommand.
func (c *CLI) bestCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "best",
		Short: "Show the best score",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			best, err := s.Best(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printKeyValue(out, "Best score", strconv.Itoa(best))
			printDetail(out, "Database: %s", c.dbPath)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Forget the best score",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Reset(ctx); err != nil {
				return err
			}
			loggerFromContext(ctx).Debug("best score reset", "path", c.dbPath)
			printSuccess(cmd.OutOrStdout(), "Best score reset")
			return nil
		},
	})

	return cmd
}
