// Package runstore persists diff runs and their deltas across invocations.
package runstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver

	"github.com/scanwork/deltascan/internal/contract"
	"github.com/scanwork/deltascan/schema"
)

// Table names for run tracking.
const (
	runsTable   = "deltascan_runs"
	deltasTable = "deltascan_deltas"
)

// Store implements the contract.RunStore interface on database/sql.
type Store struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
}

var _ contract.RunStore = &Store{} // Compile-time check

// NewRunStore creates a new run store with the specified backend.
func NewRunStore(backend schema.DatabaseBackend, connStr string) (*Store, error) {
	var db *sql.DB
	var err error
	var driverName string

	switch backend {
	case schema.SQLiteBackend:
		driverName = "sqlite"
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetRunDBFilePath()
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
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		driverName = "pgx"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=... dbname=...", err)
		}

	case schema.NoneBackend:
		// Return a no-op store for disabled run tracking
		return &Store{db: nil, backend: backend, driverName: ""}, nil

	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}

	// Ping to verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w. Verify the database server is running and accessible", backend, err)
	}

	// Create the table schemas
	if err := createRunTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create run tables: %w", err)
	}

	return &Store{db: db, backend: backend, driverName: driverName}, nil
}

// createRunTables creates the run tracking tables.
func createRunTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{runsTable, getCreateRunsQuery(backend)},
		{deltasTable, getCreateDeltasQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}

	// MySQL puts the index inline in the CREATE TABLE; the others need a statement
	if backend != schema.MySQLBackend {
		indexQuery := fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_deltas_run ON %s (run_id)", quoteTableName(deltasTable, backend))
		if _, err := db.Exec(indexQuery); err != nil {
			return fmt.Errorf("failed to create delta index: %w", err)
		}
	}

	return nil
}

// getCreateRunsQuery returns the CREATE TABLE query for deltascan_runs.
func getCreateRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(runsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				old_label VARCHAR(255) NOT NULL,
				new_label VARCHAR(255) NOT NULL,
				total_old_files INT NOT NULL DEFAULT 0,
				total_new_files INT NOT NULL DEFAULT 0,
				added INT NOT NULL DEFAULT 0,
				removed INT NOT NULL DEFAULT 0,
				modified INT NOT NULL DEFAULT 0,
				moved INT NOT NULL DEFAULT 0,
				unmodified INT NOT NULL DEFAULT 0,
				net_size_delta BIGINT NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				old_label TEXT NOT NULL,
				new_label TEXT NOT NULL,
				total_old_files INT NOT NULL DEFAULT 0,
				total_new_files INT NOT NULL DEFAULT 0,
				added INT NOT NULL DEFAULT 0,
				removed INT NOT NULL DEFAULT 0,
				modified INT NOT NULL DEFAULT 0,
				moved INT NOT NULL DEFAULT 0,
				unmodified INT NOT NULL DEFAULT 0,
				net_size_delta BIGINT NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				start_time TEXT NOT NULL,
				end_time TEXT,
				old_label TEXT NOT NULL,
				new_label TEXT NOT NULL,
				total_old_files INTEGER NOT NULL DEFAULT 0,
				total_new_files INTEGER NOT NULL DEFAULT 0,
				added INTEGER NOT NULL DEFAULT 0,
				removed INTEGER NOT NULL DEFAULT 0,
				modified INTEGER NOT NULL DEFAULT 0,
				moved INTEGER NOT NULL DEFAULT 0,
				unmodified INTEGER NOT NULL DEFAULT 0,
				net_size_delta INTEGER NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)
	}
}

// getCreateDeltasQuery returns the CREATE TABLE query for deltascan_deltas.
func getCreateDeltasQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(deltasTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				kind VARCHAR(20) NOT NULL,
				old_path VARCHAR(512) NOT NULL DEFAULT '',
				new_path VARCHAR(512) NOT NULL DEFAULT '',
				factors TEXT NOT NULL,
				score DOUBLE NOT NULL,
				KEY idx_deltas_run (run_id)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				kind TEXT NOT NULL,
				old_path TEXT NOT NULL DEFAULT '',
				new_path TEXT NOT NULL DEFAULT '',
				factors TEXT NOT NULL,
				score DOUBLE PRECISION NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				kind TEXT NOT NULL,
				old_path TEXT NOT NULL DEFAULT '',
				new_path TEXT NOT NULL DEFAULT '',
				factors TEXT NOT NULL,
				score REAL NOT NULL
			);
		`, quotedTableName)
	}
}

// BeginRun creates a new run and returns its unique ID.
func (rs *Store) BeginRun(startTime time.Time, oldLabel, newLabel string, configParams map[string]any) (int64, error) {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return 0, nil
	}

	// Serialize config params to JSON
	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)

	var runID int64
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (start_time, old_label, new_label, config_params) VALUES ($1, $2, $3, $4) RETURNING run_id`, quotedTableName)
		err = rs.db.QueryRow(query, startTime, oldLabel, newLabel, string(configJSON)).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (start_time, old_label, new_label, config_params) VALUES (?, ?, ?, ?)`, quotedTableName)
		var result sql.Result
		result, err = rs.db.Exec(query, formatTime(startTime, rs.backend), oldLabel, newLabel, string(configJSON))
		if err != nil {
			return 0, err
		}
		runID, err = result.LastInsertId()
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	return runID, nil
}

// EndRun updates the run with completion data and summary counts.
func (rs *Store) EndRun(runID int64, endTime time.Time, summary schema.ReportSummary) error {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)

	var query string
	var args []any
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`UPDATE %s SET end_time = $1, total_old_files = $2, total_new_files = $3,
			added = $4, removed = $5, modified = $6, moved = $7, unmodified = $8, net_size_delta = $9
			WHERE run_id = $10`, quotedTableName)
		args = []any{endTime, summary.TotalOldFiles, summary.TotalNewFiles,
			summary.Added, summary.Removed, summary.Modified, summary.Moved, summary.Unmodified,
			summary.NetSizeDelta, runID}
	default: // SQLite and MySQL
		query = fmt.Sprintf(`UPDATE %s SET end_time = ?, total_old_files = ?, total_new_files = ?,
			added = ?, removed = ?, modified = ?, moved = ?, unmodified = ?, net_size_delta = ?
			WHERE run_id = ?`, quotedTableName)
		args = []any{formatTime(endTime, rs.backend), summary.TotalOldFiles, summary.TotalNewFiles,
			summary.Added, summary.Removed, summary.Modified, summary.Moved, summary.Unmodified,
			summary.NetSizeDelta, runID}
	}

	if _, err := rs.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to update run %d: %w", runID, err)
	}

	return nil
}

// RecordDeltas stores the delta rows belonging to a run in one transaction.
func (rs *Store) RecordDeltas(runID int64, deltas []schema.DeltaRecord) error {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil
	}
	if len(deltas) == 0 {
		return nil
	}

	quotedTableName := quoteTableName(deltasTable, rs.backend)

	var query string
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (run_id, kind, old_path, new_path, factors, score) VALUES ($1, $2, $3, $4, $5, $6)`, quotedTableName)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`INSERT INTO %s (run_id, kind, old_path, new_path, factors, score) VALUES (?, ?, ?, ?, ?, ?)`, quotedTableName)
	}

	tx, err := rs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	stmt, err := tx.Prepare(query)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prepare delta insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, d := range deltas {
		if _, err := stmt.Exec(runID, d.Kind, d.OldPath, d.NewPath, d.Factors, d.Score); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert delta for run %d: %w", runID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit deltas: %w", err)
	}
	return nil
}

// GetStatus returns status information about the run store.
func (rs *Store) GetStatus() (schema.RunStatus, error) {
	status := schema.RunStatus{
		Backend:   rs.backend,
		Connected: rs.db != nil,
	}

	if rs.backend == schema.NoneBackend || rs.db == nil {
		return status, nil
	}

	// Get total runs
	runsQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(runsTable, rs.backend))
	if err := rs.db.QueryRow(runsQuery).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		// Get last run info
		lastRunQuery := fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id DESC LIMIT 1", quoteTableName(runsTable, rs.backend))
		row := rs.db.QueryRow(lastRunQuery)
		lastRunTime, err := scanRunTime(row, rs.backend, &status.LastRunID)
		if err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		status.LastRunTime = lastRunTime

		// Get oldest run time
		oldestRunQuery := fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id ASC LIMIT 1", quoteTableName(runsTable, rs.backend))
		row = rs.db.QueryRow(oldestRunQuery)
		var oldestID int64
		oldestRunTime, err := scanRunTime(row, rs.backend, &oldestID)
		if err != nil {
			return status, fmt.Errorf("failed to get oldest run info: %w", err)
		}
		status.OldestRunTime = oldestRunTime
	}

	// Get total deltas
	deltasQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(deltasTable, rs.backend))
	if err := rs.db.QueryRow(deltasQuery).Scan(&status.TotalDeltas); err != nil {
		return status, fmt.Errorf("failed to get total deltas: %w", err)
	}

	return status, nil
}

// scanRunTime reads (run_id, start_time) handling SQLite's text timestamps.
func scanRunTime(row *sql.Row, backend schema.DatabaseBackend, runID *int64) (time.Time, error) {
	switch backend {
	case schema.SQLiteBackend:
		var timeStr string
		if err := row.Scan(runID, &timeStr); err != nil {
			return time.Time{}, err
		}
		return time.Parse(time.RFC3339Nano, timeStr)
	default: // MySQL and PostgreSQL store as native datetime
		var t time.Time
		if err := row.Scan(runID, &t); err != nil {
			return time.Time{}, err
		}
		return t, nil
	}
}

// GetAllRuns retrieves every recorded run, oldest first.
func (rs *Store) GetAllRuns() ([]schema.RunRecord, error) {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)
	query := fmt.Sprintf(`SELECT run_id, start_time, end_time, old_label, new_label,
		total_old_files, total_new_files, added, removed, modified, moved, unmodified,
		net_size_delta, config_params FROM %s ORDER BY run_id`, quotedTableName)

	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var record schema.RunRecord
		var configParams sql.NullString

		switch rs.backend {
		case schema.SQLiteBackend:
			var startTimeStr string
			var endTimeStr sql.NullString
			if err := rows.Scan(&record.RunID, &startTimeStr, &endTimeStr, &record.OldLabel, &record.NewLabel,
				&record.TotalOldFiles, &record.TotalNewFiles, &record.Added, &record.Removed, &record.Modified,
				&record.Moved, &record.Unmodified, &record.NetSizeDelta, &configParams); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
			record.StartTime, err = time.Parse(time.RFC3339Nano, startTimeStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse start_time: %w", err)
			}
			if endTimeStr.Valid {
				record.EndTime, err = time.Parse(time.RFC3339Nano, endTimeStr.String)
				if err != nil {
					return nil, fmt.Errorf("failed to parse end_time: %w", err)
				}
			}
		default: // MySQL and PostgreSQL
			var endTime sql.NullTime
			if err := rows.Scan(&record.RunID, &record.StartTime, &endTime, &record.OldLabel, &record.NewLabel,
				&record.TotalOldFiles, &record.TotalNewFiles, &record.Added, &record.Removed, &record.Modified,
				&record.Moved, &record.Unmodified, &record.NetSizeDelta, &configParams); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
			if endTime.Valid {
				record.EndTime = endTime.Time
			}
		}

		record.ConfigParams = configParams.String
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return results, nil
}

// GetAllDeltas retrieves every stored delta row, by run then score descending.
func (rs *Store) GetAllDeltas() ([]schema.DeltaRecord, error) {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	quotedTableName := quoteTableName(deltasTable, rs.backend)
	query := fmt.Sprintf(`SELECT run_id, kind, old_path, new_path, factors, score
		FROM %s ORDER BY run_id, score DESC, new_path, old_path`, quotedTableName)

	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query deltas: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.DeltaRecord
	for rows.Next() {
		var record schema.DeltaRecord
		if err := rows.Scan(&record.RunID, &record.Kind, &record.OldPath, &record.NewPath,
			&record.Factors, &record.Score); err != nil {
			return nil, fmt.Errorf("failed to scan delta: %w", err)
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating deltas: %w", err)
	}

	return results, nil
}

// Clear removes all recorded runs and deltas.
func (rs *Store) Clear() error {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil
	}

	for _, table := range []string{deltasTable, runsTable} {
		query := fmt.Sprintf("DELETE FROM %s", quoteTableName(table, rs.backend))
		if _, err := rs.db.Exec(query); err != nil {
			return fmt.Errorf("failed to clear table %s: %w", table, err)
		}
	}
	return nil
}

// Close closes the underlying connection.
func (rs *Store) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}

// quoteTableName returns the properly quoted table name for the given backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf("`%s`", name)
	default: // SQLite and PostgreSQL
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
