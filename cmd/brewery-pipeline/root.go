package main

import (
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/turbot/brewery-pipeline/config"
	"github.com/turbot/brewery-pipeline/logging"
)

const (
	appName = "brewery-pipeline"

	flagConfig      = "config"
	flagFrom        = "from"
	flagMetricsAddr = "metrics-addr"
	flagRunNow      = "run-now"
	flagSql         = "sql"
)

var exitCode int

// Build the cobra command that handles our command line tool.
func rootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           appName + " COMMAND [args]",
		Short:         "Fetch, partition and aggregate the brewery dataset",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Initialize(appName, slog.LevelInfo)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	// every flag may also be set from the environment, e.g. BREWERY_CONFIG
	viper.SetEnvPrefix("brewery")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.PersistentFlags().String(flagConfig, "", "Path to an HCL config file (defaults are used if not set)")
	_ = viper.BindPFlag(flagConfig, rootCmd.PersistentFlags().Lookup(flagConfig))

	rootCmd.AddCommand(
		fetchCmd(),
		transformCmd(),
		aggregateCmd(),
		runCmd(),
		scheduleCmd(),
		verifyCmd(),
		schemaCmd(),
	)

	return rootCmd
}

func loadConfig() (*config.PipelineConfig, error) {
	return config.Load(viper.GetString(flagConfig))
}

func Execute() int {
	rootCmd := rootCommand()
	if err := rootCmd.Execute(); err != nil {
		rootCmd.PrintErrln("Error:", err)
		exitCode = 1
	}
	return exitCode
}
