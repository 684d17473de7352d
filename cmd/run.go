package cmd

import (
	"fmt"

	"github.com/planhorizon/stockcast/internal/contract"
	"github.com/planhorizon/stockcast/internal/planstore"
	"github.com/planhorizon/stockcast/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeSetup loads minimal configuration needed for run store operations.
// This is used by commands that need store access without full shared setup.
func storeSetup(_ *cobra.Command, _ []string) error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get store-related config values
	backendStr := viper.GetString("store-backend")
	connStr := viper.GetString("store-db-connect")

	// Handle empty backend as NoneBackend
	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.NoneBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Initialize the store with the loaded config
	if err := planstore.InitStores(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize run tracking: %w", err)
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	cfg.RunID = viper.GetInt64("run-id")
	cfg.ExportFile = viper.GetString("export-file")

	return nil
}

// storeMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func storeMigrateSetup(_ *cobra.Command, _ []string) error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get store-related config values
	backendStr := viper.GetString("store-backend")
	connStr := viper.GetString("store-db-connect")

	// Handle empty backend as NoneBackend
	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.NoneBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = planstore.GetPlanDBFilePath()
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr

	return nil
}

// runCmd focused on run tracking data management.
//
// Note: Run subcommands use minimal initialization (storeSetup) instead of
// the full sharedSetup used by planning commands. This avoids dataset
// validation and complex config processing for simple store operations.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Manage historical run tracking and exports",
	Long: `Manage historical run data recorded by the planning commands.

When enabled, Stockcast tracks every project, policy and plan run, storing:
- Run metadata (timestamp, configuration, duration)
- Per-period projections, classifications and order suggestions per entity

This enables plan-over-plan tracking, service level trending, and data export
for BI tools.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show run tracking statistics
  export  - Export run data to Parquet for analytics
  clear   - Remove all tracking data
  migrate - Run database schema migrations

Examples:
  # Check tracking status
  stockcast run status

  # Export the latest run for pandas/DuckDB
  stockcast run export --export-file plan-data`,
}

// runClearCmd clears the run tracking data.
var runClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all historical run tracking data",
	Long: `Delete all stored runs and their per-period rows.

This removes:
- All run metadata
- Historical projections, classifications and order suggestions

WARNING: This action cannot be undone. Consider exporting data first.

Use this when:
- Resetting plan-over-plan tracking
- Database storage is full
- Starting a fresh planning history

Examples:
  # Export before clearing
  stockcast run export --export-file backup
  stockcast run clear

  # Clear and start fresh
  stockcast run clear`,
	PreRunE: storeSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := planstore.ClearStore(cfg.StoreBackend, planstore.GetPlanDBFilePath(), cfg.StoreDBConnect); err != nil {
			contract.LogFatal("Failed to clear run tracking data", err)
		}
		fmt.Println("Run tracking data cleared successfully.")
	},
}

// runStatusCmd shows run tracking status.
var runStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run tracking statistics and connection details",
	Long: `Show detailed information about historical run tracking.

Displays:
- Backend type and connection status
- Total number of runs stored
- Last and oldest run timestamps
- Total period rows stored across all runs

Use this to:
- Verify run tracking is enabled and working
- Monitor data accumulation over time
- Check database connection health

Examples:
  # Check run tracking status
  stockcast run status`,
	PreRunE: storeSetup,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := planstore.Manager.GetPlanStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get run tracking status", err)
		}
		planstore.PrintStoreStatus(status)
	},
}

// runExportCmd exports run data to Parquet files.
var runExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a stored run to Parquet for BI tools and analytics",
	Long: `Export one stored run to Parquet format for use with analytics tools.

Exports two datasets:
- Plan runs - metadata about the run and its configuration
- Plan rows - per-entity, per-period projections and order suggestions

Parquet format enables:
- Fast querying with DuckDB, Apache Spark, pandas
- Efficient storage with columnar compression
- Direct import into BI tools (Tableau, Metabase, etc.)

By default the latest run is exported. Use --run-id for a specific run.

Requires: --export-file parameter

Use cases:
- Plan-over-plan comparisons across revisions
- Custom dashboards and visualizations
- Feeding planning KPIs into a warehouse

Examples:
  # Export the latest run
  stockcast run export --export-file plan-data

  # Export a specific run and query it with DuckDB
  stockcast run export --run-id 42 --export-file run42
  duckdb -c "SELECT * FROM read_parquet('run42.plan_rows.parquet') LIMIT 10"`,
	PreRunE: storeSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := planstore.ExecutePlanExport(cfg.RunID, cfg.ExportFile); err != nil {
			contract.LogFatal("Failed to export run data", err)
		}
	},
}

// runMigrateCmd runs database migrations for the plan store.
var runMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the run tracking store.

Migrations allow:
- Upgrading to new schema versions when Stockcast is updated
- Safely modifying database structure without data loss
- Rolling back schema changes if needed

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  stockcast run migrate

  # Migrate to specific version
  stockcast run migrate --target-version 2

  # Rollback to previous version
  stockcast run migrate --target-version 0`,
	PreRunE: storeMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := planstore.MigratePlans(cfg.StoreBackend, cfg.StoreDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
