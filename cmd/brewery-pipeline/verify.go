package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/turbot/brewery-pipeline/verify"
)

func verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check the aggregate against the partitions it was built from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			report, err := verify.Verify(ctx, c)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "checked %d groups from %d partition files\n", report.Groups, report.Files)
			if !report.Sorted {
				fmt.Fprintln(cmd.OutOrStdout(), "aggregate rows are not sorted by country, state, brewery_type")
			}
			for _, m := range report.Mismatches {
				fmt.Fprintln(cmd.OutOrStdout(), m.String())
			}
			if !report.OK() {
				return fmt.Errorf("aggregate does not match partitions: %d mismatched groups", len(report.Mismatches))
			}
			return nil
		},
	}
}
