package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/commonword/internal/model"
)

// FileName is the name of the database file inside the history directory.
const FileName = "history.db"

// ErrRunNotFound is returned when no run has the requested ID.
var ErrRunNotFound = errors.New("run not found")

// HistoryDB provides SQLite-based storage for generation runs.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool

	// ReadOnly opens an existing database without touching its schema or
	// journal mode, and rejects writes.
	ReadOnly bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// ReadOnlyOptions returns options for commands that only inspect history
// and should fail instead of creating an empty database.
func ReadOnlyOptions() Options {
	return Options{
		CreateIfNotExists: false,
		ReadOnly:          true,
	}
}

// Open opens or creates a HistoryDB in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("no history found at %s (run with --history first)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}
	if opts.ReadOnly {
		dsn += "&_pragma=query_only(1)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.ReadOnly {
		return hdb, nil
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Path returns the path of the database file.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at TEXT NOT NULL,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		link_file TEXT NOT NULL,
		output_file TEXT NOT NULL,
		match_ratio REAL NOT NULL,
		threshold INTEGER NOT NULL,
		url_count INTEGER NOT NULL,
		fetched INTEGER NOT NULL,
		failed INTEGER NOT NULL,
		error TEXT,
		sources_json TEXT NOT NULL,
		words_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_link_file ON runs(link_file);
	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// RunRecord is a stored generation run.
type RunRecord struct {
	ID         int64
	StartedAt  time.Time
	Duration   time.Duration
	LinkFile   string
	OutputFile string
	MatchRatio float64
	Threshold  int
	URLCount   int
	Fetched    int
	Failed     int
	Error      string
	Sources    []model.SourceResult
	Words      []string
}

// Succeeded reports whether the recorded run finished without error.
func (r *RunRecord) Succeeded() bool {
	return r.Error == ""
}

// SaveRun stores run and returns its ID.
func (hdb *HistoryDB) SaveRun(ctx context.Context, run *model.Run) (int64, error) {
	sourcesJSON, err := json.Marshal(run.Sources)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize sources: %w", err)
	}
	wordsJSON, err := json.Marshal(run.Words)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize words: %w", err)
	}

	summary := model.NewSummary(run)
	var errText sql.NullString
	if summary.Error != "" {
		errText = sql.NullString{String: summary.Error, Valid: true}
	}

	query := `
	INSERT INTO runs (started_at, duration_ms, link_file, output_file, match_ratio, threshold,
		url_count, fetched, failed, error, sources_json, words_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := hdb.db.ExecContext(ctx, query,
		summary.StartedAt.UTC().Format(time.RFC3339Nano),
		summary.Duration.Milliseconds(),
		summary.LinkFile,
		summary.OutputFile,
		summary.MatchRatio,
		summary.Threshold,
		summary.URLCount,
		summary.Fetched,
		summary.Failed,
		errText,
		string(sourcesJSON),
		string(wordsJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}

	return result.LastInsertId()
}

// runColumns is the column list read by scanRun.
const runColumns = `id, started_at, duration_ms, link_file, output_file, match_ratio, threshold,
	url_count, fetched, failed, error, sources_json, words_json`

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRun reads one runs row.
func scanRun(row rowScanner) (*RunRecord, error) {
	var (
		rec         RunRecord
		startedAt   string
		durationMS  int64
		errText     sql.NullString
		sourcesJSON string
		wordsJSON   string
	)

	if err := row.Scan(
		&rec.ID, &startedAt, &durationMS, &rec.LinkFile, &rec.OutputFile, &rec.MatchRatio, &rec.Threshold,
		&rec.URLCount, &rec.Fetched, &rec.Failed, &errText, &sourcesJSON, &wordsJSON,
	); err != nil {
		return nil, err
	}

	rec.StartedAt = parseTimestamp(startedAt)
	rec.Duration = time.Duration(durationMS) * time.Millisecond
	rec.Error = errText.String

	if err := json.Unmarshal([]byte(sourcesJSON), &rec.Sources); err != nil {
		return nil, fmt.Errorf("failed to parse sources of run %d: %w", rec.ID, err)
	}
	if err := json.Unmarshal([]byte(wordsJSON), &rec.Words); err != nil {
		return nil, fmt.Errorf("failed to parse words of run %d: %w", rec.ID, err)
	}
	if rec.Words == nil {
		rec.Words = []string{}
	}

	return &rec, nil
}

// GetRun retrieves a run by its ID.
func (hdb *HistoryDB) GetRun(ctx context.Context, id int64) (*RunRecord, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE id = ?`

	rec, err := scanRun(hdb.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return rec, nil
}

// ListRuns returns the most recent runs first. A limit of zero or less
// returns every run.
func (hdb *HistoryDB) ListRuns(ctx context.Context, limit int) ([]*RunRecord, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return hdb.queryRuns(ctx, query, args...)
}

// LatestSuccessfulRuns returns up to n runs that finished without error,
// most recent first. Only these carry a word list worth comparing.
// An n of zero or less returns every successful run.
func (hdb *HistoryDB) LatestSuccessfulRuns(ctx context.Context, n int) ([]*RunRecord, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE error IS NULL ORDER BY id DESC`
	args := []any{}
	if n > 0 {
		query += ` LIMIT ?`
		args = append(args, n)
	}
	return hdb.queryRuns(ctx, query, args...)
}

// queryRuns runs a SELECT over runColumns and scans every row.
func (hdb *HistoryDB) queryRuns(ctx context.Context, query string, args ...any) ([]*RunRecord, error) {
	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var records []*RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999",
	"2006-01-02 15:04:05",
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
