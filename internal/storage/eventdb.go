package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/trackinsight/trackinsight/internal/model"
)

// DBFileName is the SQLite database file name inside the data directory.
const DBFileName = "trackinsight.db"

// EventDB provides SQLite-based storage for tracking events and analysis
// reports. It manages connection pooling and exposes the append/query
// surface the analysis engines consume.
type EventDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures EventDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// performance. Recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates an EventDB in the specified directory.
// If CreateIfNotExists is false and the database doesn't exist, an error is
// returned.
func Open(dbDir string, opts Options) (*EventDB, error) {
	dbPath := filepath.Join(dbDir, DBFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection strings: mode=rw prevents creating new
	// files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports a single writer; readers benefit from WAL instead of
	// extra connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	edb := &EventDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := edb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return edb, nil
}

// Close closes the database connection.
func (edb *EventDB) Close() error {
	return edb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (edb *EventDB) createTables() error {
	schema := `
	-- Tracking events form an append-only, time-ordered log.
	-- page_host is the parsed hostname of the visited page; empty when the
	-- URL was unparsable (such events still count in totals and scoring).
	CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		timestamp INTEGER NOT NULL,
		url TEXT NOT NULL,
		page_host TEXT NOT NULL DEFAULT '',
		domain TEXT NOT NULL,
		tracker_type TEXT NOT NULL,
		risk_level TEXT NOT NULL,
		description TEXT,
		in_page_method TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_events_timestamp ON events(timestamp);
	CREATE INDEX IF NOT EXISTS idx_events_page_host ON events(page_host);
	CREATE INDEX IF NOT EXISTS idx_events_domain ON events(domain);

	-- Analysis reports are archived as JSON for historical comparison.
	CREATE TABLE IF NOT EXISTS analysis_reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		domain TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		report_json TEXT NOT NULL,
		score INTEGER NOT NULL,
		grade TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_reports_domain ON analysis_reports(domain);
	CREATE INDEX IF NOT EXISTS idx_reports_timestamp ON analysis_reports(timestamp);
	`

	_, err := edb.db.ExecContext(context.Background(), schema)
	return err
}

// AppendEvents appends events to the log in a single transaction.
// Events whose ID already exists are left untouched, so re-ingesting the
// same export file is harmless.
func (edb *EventDB) AppendEvents(ctx context.Context, events []model.TrackingEvent) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := edb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO events (id, timestamp, url, page_host, domain, tracker_type, risk_level, description, in_page_method)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range events {
		var method sql.NullString
		if e.InPageTracking != nil {
			method = sql.NullString{String: string(e.InPageTracking.Method), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx,
			e.ID,
			e.Timestamp,
			e.URL,
			pageHost(e.URL),
			e.Domain,
			string(e.TrackerType),
			string(e.RiskLevel),
			e.Description,
			method,
		); err != nil {
			return fmt.Errorf("failed to insert event %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit events: %w", err)
	}
	return nil
}

// RecentEvents returns up to limit events, newest first.
func (edb *EventDB) RecentEvents(ctx context.Context, limit int) ([]model.TrackingEvent, error) {
	query := `
	SELECT id, timestamp, url, domain, tracker_type, risk_level, description, in_page_method
	FROM events
	ORDER BY timestamp DESC
	LIMIT ?
	`
	return edb.queryEvents(ctx, query, limit)
}

// EventsSince returns events with timestamp >= sinceMillis, newest first,
// capped at limit.
func (edb *EventDB) EventsSince(ctx context.Context, sinceMillis int64, limit int) ([]model.TrackingEvent, error) {
	query := `
	SELECT id, timestamp, url, domain, tracker_type, risk_level, description, in_page_method
	FROM events
	WHERE timestamp >= ?
	ORDER BY timestamp DESC
	LIMIT ?
	`
	return edb.queryEvents(ctx, query, sinceMillis, limit)
}

// EventsForSite returns events whose visited page matches the given
// hostname, newest first, capped at limit.
func (edb *EventDB) EventsForSite(ctx context.Context, host string, limit int) ([]model.TrackingEvent, error) {
	query := `
	SELECT id, timestamp, url, domain, tracker_type, risk_level, description, in_page_method
	FROM events
	WHERE page_host = ?
	ORDER BY timestamp DESC
	LIMIT ?
	`
	return edb.queryEvents(ctx, query, host, limit)
}

// LatestEventTimestamp returns the newest event timestamp in epoch
// milliseconds, or 0 when the log is empty.
func (edb *EventDB) LatestEventTimestamp(ctx context.Context) (int64, error) {
	var ts sql.NullInt64
	err := edb.db.QueryRowContext(ctx, `SELECT MAX(timestamp) FROM events`).Scan(&ts)
	if err != nil {
		return 0, fmt.Errorf("failed to read latest timestamp: %w", err)
	}
	if !ts.Valid {
		return 0, nil
	}
	return ts.Int64, nil
}

// CountEvents returns the total number of stored events.
func (edb *EventDB) CountEvents(ctx context.Context) (int, error) {
	var count int
	if err := edb.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return count, nil
}

// queryEvents runs an event SELECT and scans the rows.
func (edb *EventDB) queryEvents(ctx context.Context, query string, args ...any) ([]model.TrackingEvent, error) {
	rows, err := edb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []model.TrackingEvent
	for rows.Next() {
		var e model.TrackingEvent
		var trackerType, riskLevel string
		var description, method sql.NullString

		if err := rows.Scan(
			&e.ID,
			&e.Timestamp,
			&e.URL,
			&e.Domain,
			&trackerType,
			&riskLevel,
			&description,
			&method,
		); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}

		e.TrackerType = model.TrackerType(trackerType)
		e.RiskLevel = model.RiskLevel(riskLevel)
		e.Description = description.String
		if method.Valid && method.String != "" {
			e.InPageTracking = &model.InPageTracking{Method: model.InPageMethod(method.String)}
		}
		events = append(events, e)
	}

	return events, rows.Err()
}

// SaveReport archives an analysis report as JSON.
func (edb *EventDB) SaveReport(ctx context.Context, report *model.AnalysisReport) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	query := `
	INSERT INTO analysis_reports (domain, report_json, score, grade)
	VALUES (?, ?, ?, ?)
	`
	_, err = edb.db.ExecContext(ctx, query,
		report.Domain,
		string(reportJSON),
		report.Score.Score,
		string(report.Score.Grade),
	)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// LatestReport retrieves the most recent archived report for a domain.
// Returns nil when no report exists.
func (edb *EventDB) LatestReport(ctx context.Context, domain string) (*model.AnalysisReport, error) {
	query := `
	SELECT report_json FROM analysis_reports
	WHERE domain = ?
	ORDER BY timestamp DESC
	LIMIT 1
	`
	var reportJSON string
	err := edb.db.QueryRowContext(ctx, query, domain).Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	var report model.AnalysisReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &report, nil
}

// ListAnalyzedDomains returns all domains with at least one archived report.
func (edb *EventDB) ListAnalyzedDomains(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT domain FROM analysis_reports
	ORDER BY domain
	`
	rows, err := edb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list domains: %w", err)
	}
	defer rows.Close()

	var domains []string
	for rows.Next() {
		var domain string
		if err := rows.Scan(&domain); err != nil {
			return nil, fmt.Errorf("failed to scan domain: %w", err)
		}
		domains = append(domains, domain)
	}
	return domains, rows.Err()
}

// pageHost extracts the visited-page hostname for the page_host column.
// Unparsable URLs yield the empty string.
func pageHost(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
