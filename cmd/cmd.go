// Package cmd defines the command-line interface for stockcast.
package cmd

import (
	"github.com/planhorizon/stockcast/internal/contract"
	"github.com/planhorizon/stockcast/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(policyCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)

	// Add the run subcommands to the parent run command
	runCmd.AddCommand(runStatusCmd)
	runCmd.AddCommand(runClearCmd)
	runCmd.AddCommand(runExportCmd)
	runCmd.AddCommand(runMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("entity", "e", "", "Comma-separated entity ID patterns to filter on (* and ? wildcards)")
	rootCmd.PersistentFlags().String("interval", string(schema.NoInterval), "Bucket interval for gap filling: none or daily or weekly or monthly")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of entities to display")
	rootCmd.PersistentFlags().String("mode", string(schema.ProjectMode), "Run mode for check/metrics/compare: project or policy or plan")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("store-backend", string(schema.SQLiteBackend), "Run tracking backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("revised", "", "Path to the revised scenario dataset (compare command only)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of policyCmd to Viper
	policyCmd.Flags().Float64("min-cov", contract.DefaultMinCoverage, "Safety stock level in periods of forward demand")
	policyCmd.Flags().Float64("max-cov", contract.DefaultMaxCoverage, "Maximum stock level in periods of forward demand")
	if err := viper.BindPFlags(policyCmd.Flags()); err != nil {
		contract.LogFatal("Error binding policy flags", err)
	}

	// Bind all flags of planCmd to Viper
	planCmd.Flags().Float64("safety-cov", contract.DefaultSafetyCoverage, "Safety stock target in periods of forward demand")
	planCmd.Flags().Int("replen-duration", contract.DefaultReplenDuration, "Number of periods each suggested order covers")
	planCmd.Flags().Float64("moq", contract.DefaultMOQ, "Minimum order quantity that suggestions are rounded up to")
	planCmd.Flags().Int("frozen", 0, "Number of leading frozen periods when the input has no horizon column")
	if err := viper.BindPFlags(planCmd.Flags()); err != nil {
		contract.LogFatal("Error binding plan flags", err)
	}

	// Bind all flags of checkCmd to Viper
	checkCmd.Flags().Int("max-shortage-periods", contract.DefaultMaxShortagePeriods, "Maximum shortage periods allowed per entity (-1 disables)")
	checkCmd.Flags().Int("max-alert-periods", contract.DefaultMaxAlertPeriods, "Maximum alert periods allowed per entity (-1 disables)")
	checkCmd.Flags().Float64("min-coverage-floor", contract.DefaultMinCoverageFloor, "Minimum forward coverage allowed in any period (0 disables)")
	if err := viper.BindPFlags(checkCmd.Flags()); err != nil {
		contract.LogFatal("Error binding check flags", err)
	}

	// Bind all flags of runExportCmd to Viper
	runExportCmd.Flags().Int64("run-id", 0, "Run ID to export (0 means latest)")
	runExportCmd.Flags().String("export-file", "", "Base path for the exported Parquet files")
	if err := viper.BindPFlags(runExportCmd.Flags()); err != nil {
		contract.LogFatal("Error binding run export flags", err)
	}

	// Bind all flags of runMigrateCmd to Viper
	runMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(runMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding run migrate flags", err)
	}
}
