package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/turbot/brewery-pipeline/pipeline"
	"github.com/turbot/brewery-pipeline/stage"
)

// signalContext returns a context cancelled on SIGINT or SIGTERM
func signalContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

func fetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Download the raw snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			res, err := stage.Fetch(ctx, c)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", res.Artifact.Path, res.Artifact.Bytes)
			return nil
		},
	}
}

func transformCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transform",
		Short: "Clean the raw snapshot into country/state partitions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			res, err := stage.Transform(ctx, c)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "kept %d of %d records (%d dropped), wrote %d partitions under %s\n",
				res.Kept, res.Total, res.Dropped, len(res.Partitions), c.SilverRoot)
			return nil
		},
	}
}

func aggregateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "aggregate",
		Short: "Count breweries per country, state and type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			res, err := stage.Aggregate(ctx, c)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "read %d rows from %d files, wrote %d groups to %s\n", res.Rows, res.Files, res.Artifact.Rows, res.Artifact.Path)
			if res.PublishedTo != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "published to %s\n", res.PublishedTo)
			}
			return nil
		},
	}
}

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run fetch, transform and aggregate in order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig()
			if err != nil {
				return err
			}
			from, err := pipeline.ParseRunState(viper.GetString(flagFrom))
			if err != nil {
				return err
			}
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			state, err := pipeline.NewRunner(c).RunFrom(ctx, from)
			fmt.Fprintf(cmd.OutOrStdout(), "pipeline state: %s\n", state)
			if err != nil {
				return fmt.Errorf("pipeline halted at %s: %w", state, err)
			}
			return nil
		},
	}

	cmd.Flags().String(flagFrom, "", "Resume after the given state (fetched, cleaned)")
	_ = viper.BindPFlag(flagFrom, cmd.Flags().Lookup(flagFrom))
	return cmd
}
