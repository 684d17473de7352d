package planstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver

	"github.com/planhorizon/stockcast/internal/contract"
	"github.com/planhorizon/stockcast/schema"
)

// Table names for plan run tracking.
const (
	planRunsTable = "stockcast_plan_runs"
	planRowsTable = "stockcast_plan_rows"
)

// PlanStoreImpl implements the PlanStore interface.
type PlanStoreImpl struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
}

var _ contract.PlanStore = &PlanStoreImpl{} // Compile-time check

// NewPlanStore creates a new PlanStore with the specified backend.
func NewPlanStore(backend schema.DatabaseBackend, connStr string) (contract.PlanStore, error) {
	var db *sql.DB
	var err error
	var driverName string

	switch backend {
	case schema.SQLiteBackend:
		driverName = "sqlite"
		dbPath := connStr
		if dbPath == "" {
			dbPath = GetPlanDBFilePath()
		}
		db, err = sql.Open(driverName, dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		driverName = "mysql"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname?parseTime=true", err)
		}

	case schema.PostgreSQLBackend:
		driverName = "pgx"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=... port=... user=... dbname=...", err)
		}

	case schema.NoneBackend:
		// Return a no-op store for disabled tracking
		return &PlanStoreImpl{
			db:         nil,
			backend:    backend,
			driverName: "",
		}, nil

	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}

	// Ping to verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		var connDetail string
		switch backend {
		case schema.MySQLBackend:
			connDetail = "Check that MySQL is running and the connection string is correct. Ensure user/password are valid."
		case schema.PostgreSQLBackend:
			connDetail = "Check that PostgreSQL is running and the connection string is correct. Ensure user/password are valid."
		default:
			connDetail = "Verify the database server is running and accessible."
		}
		return nil, fmt.Errorf("failed to connect to %s database: %w. %s", backend, err, connDetail)
	}

	// Create the table schemas
	if err := createPlanTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create plan tables: %w", err)
	}

	return &PlanStoreImpl{
		db:         db,
		backend:    backend,
		driverName: driverName,
	}, nil
}

// createPlanTables creates the run tracking tables.
func createPlanTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{planRunsTable, getCreatePlanRunsQuery(backend)},
		{planRowsTable, getCreatePlanRowsQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}

	return nil
}

// getCreatePlanRunsQuery returns the CREATE TABLE query for stockcast_plan_runs.
func getCreatePlanRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(planRunsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				mode VARCHAR(20) NOT NULL,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms INT,
				total_entities INT,
				config_params TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				mode TEXT NOT NULL,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms INT,
				total_entities INT,
				config_params TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				mode TEXT NOT NULL,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				total_entities INTEGER,
				config_params TEXT
			);
		`, quotedTableName)
	}
}

// getCreatePlanRowsQuery returns the CREATE TABLE query for stockcast_plan_rows.
func getCreatePlanRowsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(planRowsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				entity_id VARCHAR(128) NOT NULL,
				period DATETIME(6) NOT NULL,
				demand DOUBLE NOT NULL,
				scheduled_supply DOUBLE NOT NULL,
				projected_inventory DOUBLE NOT NULL,
				coverage_periods DOUBLE,
				safety_stock_qty DOUBLE,
				maximum_stock_qty DOUBLE,
				classification VARCHAR(20),
				suggested_qty DOUBLE,
				horizon_status VARCHAR(10),
				PRIMARY KEY (run_id, entity_id, period)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				entity_id TEXT NOT NULL,
				period TIMESTAMPTZ NOT NULL,
				demand DOUBLE PRECISION NOT NULL,
				scheduled_supply DOUBLE PRECISION NOT NULL,
				projected_inventory DOUBLE PRECISION NOT NULL,
				coverage_periods DOUBLE PRECISION,
				safety_stock_qty DOUBLE PRECISION,
				maximum_stock_qty DOUBLE PRECISION,
				classification TEXT,
				suggested_qty DOUBLE PRECISION,
				horizon_status TEXT,
				PRIMARY KEY (run_id, entity_id, period)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				entity_id TEXT NOT NULL,
				period TEXT NOT NULL,
				demand REAL NOT NULL,
				scheduled_supply REAL NOT NULL,
				projected_inventory REAL NOT NULL,
				coverage_periods REAL,
				safety_stock_qty REAL,
				maximum_stock_qty REAL,
				classification TEXT,
				suggested_qty REAL,
				horizon_status TEXT,
				PRIMARY KEY (run_id, entity_id, period)
			);
		`, quotedTableName)
	}
}

// BeginRun creates a new plan run and returns its unique ID.
func (ps *PlanStoreImpl) BeginRun(startTime time.Time, mode string, configParams map[string]any) (int64, error) {
	// Skip for NoneBackend
	if ps.backend == schema.NoneBackend || ps.db == nil {
		return 0, nil
	}

	// Serialize config params to JSON
	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTableName := quoteTableName(planRunsTable, ps.backend)

	var runID int64
	switch ps.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (mode, start_time, config_params) VALUES ($1, $2, $3) RETURNING run_id`, quotedTableName)
		err = ps.db.QueryRow(query, mode, startTime, string(configJSON)).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (mode, start_time, config_params) VALUES (?, ?, ?)`, quotedTableName)
		var result sql.Result
		result, err = ps.db.Exec(query, mode, formatTime(startTime, ps.backend), string(configJSON))
		if err != nil {
			return 0, err
		}
		runID, err = result.LastInsertId()
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert plan run: %w", err)
	}

	return runID, nil
}

// EndRun updates the plan run with completion data.
func (ps *PlanStoreImpl) EndRun(runID int64, endTime time.Time, totalEntities int) error {
	// Skip for NoneBackend
	if ps.backend == schema.NoneBackend || ps.db == nil {
		return nil
	}

	// First, get the start_time to calculate duration
	quotedTableName := quoteTableName(planRunsTable, ps.backend)
	var startTime time.Time

	var query string
	switch ps.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = $1`, quotedTableName)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = ?`, quotedTableName)
	}

	row := ps.db.QueryRow(query, runID)

	// Handle different time storage formats per backend
	switch ps.backend {
	case schema.SQLiteBackend:
		var startTimeStr string
		if err := row.Scan(&startTimeStr); err != nil {
			return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
		}
		var err error
		startTime, err = time.Parse(time.RFC3339Nano, startTimeStr)
		if err != nil {
			return fmt.Errorf("failed to parse start_time: %w", err)
		}
	default: // MySQL and PostgreSQL store as native datetime
		if err := row.Scan(&startTime); err != nil {
			return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
		}
	}

	// Calculate duration in milliseconds
	durationMs := endTime.Sub(startTime).Milliseconds()

	// Update the plan run with completion data
	var updateQuery string
	var args []any

	switch ps.backend {
	case schema.PostgreSQLBackend:
		updateQuery = fmt.Sprintf(`UPDATE %s SET end_time = $1, run_duration_ms = $2, total_entities = $3 WHERE run_id = $4`, quotedTableName)
		args = []any{endTime, durationMs, totalEntities, runID}
	default: // SQLite and MySQL
		updateQuery = fmt.Sprintf(`UPDATE %s SET end_time = ?, run_duration_ms = ?, total_entities = ? WHERE run_id = ?`, quotedTableName)
		args = []any{formatTime(endTime, ps.backend), durationMs, totalEntities, runID}
	}

	_, err := ps.db.Exec(updateQuery, args...)
	if err != nil {
		return fmt.Errorf("failed to update plan run: %w", err)
	}

	return nil
}

// RecordEntityRows stores the computed rows for one entity in a single transaction.
func (ps *PlanStoreImpl) RecordEntityRows(runID int64, entityID string, rows []schema.PlanRowRecord) error {
	// Skip for NoneBackend
	if ps.backend == schema.NoneBackend || ps.db == nil {
		return nil
	}
	if len(rows) == 0 {
		return nil
	}

	quotedTableName := quoteTableName(planRowsTable, ps.backend)

	var query string
	switch ps.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`
			INSERT INTO %s (run_id, entity_id, period, demand, scheduled_supply,
			                 projected_inventory, coverage_periods, safety_stock_qty,
			                 maximum_stock_qty, classification, suggested_qty, horizon_status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`, quotedTableName)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`
			INSERT INTO %s (run_id, entity_id, period, demand, scheduled_supply,
			                 projected_inventory, coverage_periods, safety_stock_qty,
			                 maximum_stock_qty, classification, suggested_qty, horizon_status)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, quotedTableName)
	}

	tx, err := ps.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for _, row := range rows {
		args := []any{
			runID, entityID, formatTime(row.Period, ps.backend), row.Demand, row.ScheduledSupply,
			row.ProjectedInventory, row.Coverage, row.SafetyStockQty,
			row.MaximumStockQty, row.Classification, row.SuggestedQty, row.HorizonStatus,
		}
		if _, err := tx.Exec(query, args...); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert plan row for %s: %w", entityID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit plan rows for %s: %w", entityID, err)
	}

	return nil
}

// GetRun retrieves the run metadata for a run ID.
func (ps *PlanStoreImpl) GetRun(runID int64) (schema.PlanRunRecord, error) {
	var record schema.PlanRunRecord

	// Return not found error for NoneBackend
	if ps.backend == schema.NoneBackend || ps.db == nil {
		return record, sql.ErrNoRows
	}

	quotedTableName := quoteTableName(planRunsTable, ps.backend)

	var query string
	switch ps.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`SELECT run_id, mode, start_time, end_time, run_duration_ms, total_entities, config_params FROM %s WHERE run_id = $1`, quotedTableName)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`SELECT run_id, mode, start_time, end_time, run_duration_ms, total_entities, config_params FROM %s WHERE run_id = ?`, quotedTableName)
	}

	row := ps.db.QueryRow(query, runID)

	var totalEntities sql.NullInt32
	switch ps.backend {
	case schema.SQLiteBackend:
		var startTimeStr string
		var endTimeStr *string
		if err := row.Scan(&record.RunID, &record.Mode, &startTimeStr, &endTimeStr, &record.RunDurationMs, &totalEntities, &record.ConfigParams); err != nil {
			return record, fmt.Errorf("failed to get run %d: %w", runID, err)
		}
		startTime, err := time.Parse(time.RFC3339Nano, startTimeStr)
		if err != nil {
			return record, fmt.Errorf("failed to parse start_time: %w", err)
		}
		record.StartTime = startTime
		if endTimeStr != nil {
			endTime, err := time.Parse(time.RFC3339Nano, *endTimeStr)
			if err != nil {
				return record, fmt.Errorf("failed to parse end_time: %w", err)
			}
			record.EndTime = &endTime
		}
	default: // MySQL and PostgreSQL
		if err := row.Scan(&record.RunID, &record.Mode, &record.StartTime, &record.EndTime, &record.RunDurationMs, &totalEntities, &record.ConfigParams); err != nil {
			return record, fmt.Errorf("failed to get run %d: %w", runID, err)
		}
	}
	record.TotalEntities = totalEntities.Int32

	return record, nil
}

// GetRunRows retrieves all persisted rows for a run ID, ordered by entity and period.
func (ps *PlanStoreImpl) GetRunRows(runID int64) ([]schema.PlanRowRecord, error) {
	// Skip for NoneBackend
	if ps.backend == schema.NoneBackend || ps.db == nil {
		return nil, nil
	}

	quotedTableName := quoteTableName(planRowsTable, ps.backend)

	var query string
	switch ps.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`SELECT run_id, entity_id, period, demand, scheduled_supply,
	    projected_inventory, coverage_periods, safety_stock_qty,
	    maximum_stock_qty, classification, suggested_qty, horizon_status
	    FROM %s WHERE run_id = $1 ORDER BY entity_id, period`, quotedTableName)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`SELECT run_id, entity_id, period, demand, scheduled_supply,
	    projected_inventory, coverage_periods, safety_stock_qty,
	    maximum_stock_qty, classification, suggested_qty, horizon_status
	    FROM %s WHERE run_id = ? ORDER BY entity_id, period`, quotedTableName)
	}

	rows, err := ps.db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query plan rows: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.PlanRowRecord

	for rows.Next() {
		var record schema.PlanRowRecord

		switch ps.backend {
		case schema.SQLiteBackend:
			var periodStr string
			if err := rows.Scan(&record.RunID, &record.EntityID, &periodStr, &record.Demand,
				&record.ScheduledSupply, &record.ProjectedInventory, &record.Coverage,
				&record.SafetyStockQty, &record.MaximumStockQty, &record.Classification,
				&record.SuggestedQty, &record.HorizonStatus); err != nil {
				return nil, fmt.Errorf("failed to scan plan row: %w", err)
			}
			period, err := time.Parse(time.RFC3339Nano, periodStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse period: %w", err)
			}
			record.Period = period
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&record.RunID, &record.EntityID, &record.Period, &record.Demand,
				&record.ScheduledSupply, &record.ProjectedInventory, &record.Coverage,
				&record.SafetyStockQty, &record.MaximumStockQty, &record.Classification,
				&record.SuggestedQty, &record.HorizonStatus); err != nil {
				return nil, fmt.Errorf("failed to scan plan row: %w", err)
			}
		}

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating plan rows: %w", err)
	}

	return results, nil
}

// LatestRunID returns the most recent run ID, or 0 when no runs exist.
func (ps *PlanStoreImpl) LatestRunID() (int64, error) {
	// Skip for NoneBackend
	if ps.backend == schema.NoneBackend || ps.db == nil {
		return 0, nil
	}

	quotedTableName := quoteTableName(planRunsTable, ps.backend)
	query := fmt.Sprintf("SELECT COALESCE(MAX(run_id), 0) FROM %s", quotedTableName)

	var runID int64
	if err := ps.db.QueryRow(query).Scan(&runID); err != nil {
		return 0, fmt.Errorf("failed to get latest run ID: %w", err)
	}

	return runID, nil
}

// Close closes the underlying connection.
func (ps *PlanStoreImpl) Close() error {
	if ps.db != nil {
		return ps.db.Close()
	}
	return nil
}

// GetStatus returns status information about the plan store.
func (ps *PlanStoreImpl) GetStatus() (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:    string(ps.backend),
		Connected:  ps.db != nil,
		TableSizes: make(map[string]int64),
	}

	if ps.backend == schema.NoneBackend || ps.db == nil {
		return status, nil
	}

	// Get total runs
	runsQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(planRunsTable, ps.backend))
	row := ps.db.QueryRow(runsQuery)
	if err := row.Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		// Get last run info
		lastRunQuery := fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id DESC LIMIT 1", quoteTableName(planRunsTable, ps.backend))
		row = ps.db.QueryRow(lastRunQuery)

		switch ps.backend {
		case schema.SQLiteBackend:
			var lastRunID int64
			var lastRunTimeStr string
			if err := row.Scan(&lastRunID, &lastRunTimeStr); err != nil {
				return status, fmt.Errorf("failed to get last run info: %w", err)
			}
			status.LastRunID = lastRunID
			lastRunTime, err := time.Parse(time.RFC3339Nano, lastRunTimeStr)
			if err != nil {
				return status, fmt.Errorf("failed to parse last run time: %w", err)
			}
			status.LastRunTime = lastRunTime
		default: // MySQL and PostgreSQL store as native datetime
			if err := row.Scan(&status.LastRunID, &status.LastRunTime); err != nil {
				return status, fmt.Errorf("failed to get last run info: %w", err)
			}
		}

		// Get oldest run time
		oldestRunQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", quoteTableName(planRunsTable, ps.backend))
		row = ps.db.QueryRow(oldestRunQuery)

		switch ps.backend {
		case schema.SQLiteBackend:
			var oldestRunTimeStr string
			if err := row.Scan(&oldestRunTimeStr); err != nil {
				return status, fmt.Errorf("failed to get oldest run time: %w", err)
			}
			oldestRunTime, err := time.Parse(time.RFC3339Nano, oldestRunTimeStr)
			if err != nil {
				return status, fmt.Errorf("failed to parse oldest run time: %w", err)
			}
			status.OldestRunTime = oldestRunTime
		default: // MySQL and PostgreSQL store as native datetime
			if err := row.Scan(&status.OldestRunTime); err != nil {
				return status, fmt.Errorf("failed to get oldest run time: %w", err)
			}
		}
	}

	// Get total persisted rows
	rowsQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(planRowsTable, ps.backend))
	row = ps.db.QueryRow(rowsQuery)
	if err := row.Scan(&status.TotalRows); err != nil {
		return status, fmt.Errorf("failed to get total rows: %w", err)
	}

	// Get table sizes
	tables := []string{planRunsTable, planRowsTable}
	for _, table := range tables {
		quotedTable := quoteTableName(table, ps.backend)
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedTable)
		row = ps.db.QueryRow(countQuery)
		var count int64
		if err := row.Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// quoteTableName quotes a table name with the identifier style of the backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.PostgreSQLBackend:
		return fmt.Sprintf("\"%s\"", name)
	case schema.MySQLBackend:
		return fmt.Sprintf("`%s`", name)
	default: // SQLite
		return fmt.Sprintf("\"%s\"", name)
	}
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.Format(time.RFC3339Nano)
	default:
		return t
	}
}
