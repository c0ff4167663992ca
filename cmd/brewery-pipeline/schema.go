package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/turbot/brewery-pipeline/schema"
)

func schemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the partition and aggregate parquet schemas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			partition, aggregate := schema.PartitionSchema(), schema.AggregateSchema()
			if viper.GetBool(flagSql) {
				fmt.Fprintln(cmd.OutOrStdout(), partition.CreateTableStatement("breweries")+";")
				fmt.Fprintln(cmd.OutOrStdout(), aggregate.CreateTableStatement("breweries_aggregated")+";")
				return nil
			}

			out, err := json.MarshalIndent(map[string]*schema.RowSchema{
				"partition": partition,
				"aggregate": aggregate,
			}, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().Bool(flagSql, false, "Print DuckDB CREATE TABLE statements instead of JSON")
	_ = viper.BindPFlag(flagSql, cmd.Flags().Lookup(flagSql))
	return cmd
}
