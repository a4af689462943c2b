package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nvandessel/saescope/internal/export"
	"github.com/nvandessel/saescope/internal/models"
)

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteFeatureStore implements FeatureStore on a single SQLite file.
type SQLiteFeatureStore struct {
	db     *sql.DB
	dbPath string
}

var _ FeatureStore = (*SQLiteFeatureStore)(nil)

// NewSQLiteFeatureStore opens or creates the database at dbPath, creating
// its parent directory as needed.
func NewSQLiteFeatureStore(dbPath string) (*SQLiteFeatureStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return open(dbPath)
}

// OpenSQLiteFeatureStore opens an existing database. It fails when dbPath
// does not exist rather than creating an empty one.
func OpenSQLiteFeatureStore(dbPath string) (*SQLiteFeatureStore, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("failed to open feature database: %w", err)
	}
	return open(dbPath)
}

func open(dbPath string) (*SQLiteFeatureStore, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := InitSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteFeatureStore{db: db, dbPath: dbPath}, nil
}

// Path returns the database file path.
func (s *SQLiteFeatureStore) Path() string { return s.dbPath }

// DB exposes the underlying handle for integrity checks.
func (s *SQLiteFeatureStore) DB() *sql.DB { return s.db }

// Close closes the database.
func (s *SQLiteFeatureStore) Close() error {
	return s.db.Close()
}

// SaveRun implements FeatureStore.
func (s *SQLiteFeatureStore) SaveRun(ctx context.Context, run AnalysisRun, rows []models.FeatureRow) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM feature_stats WHERE run_id = ?`, run.ID); err != nil {
		return "", fmt.Errorf("failed to clear features for run %s: %w", run.ID, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM analysis_runs WHERE id = ?`, run.ID); err != nil {
		return "", fmt.Errorf("failed to clear run %s: %w", run.ID, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO analysis_runs (id, started_at, finished_at, input_dir, hidden_dim, range_key,
			files_read, files_skipped, sequences)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, formatTime(run.StartedAt), formatTime(run.FinishedAt), run.InputDir, run.HiddenDim,
		run.RangeKey, run.FilesRead, run.FilesSkipped, run.Sequences)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertFeatureSQL())
	if err != nil {
		return "", fmt.Errorf("failed to prepare feature insert: %w", err)
	}
	defer stmt.Close()

	args := make([]any, len(export.Columns)+1)
	args[0] = run.ID
	for _, row := range rows {
		for i, c := range export.Columns {
			args[i+1] = c.Value(row)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return "", fmt.Errorf("failed to insert feature row for dim %d: %w", row.Dim, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run: %w", err)
	}
	return run.ID, nil
}

func insertFeatureSQL() string {
	names := append([]string{"run_id"}, export.ColumnNames()...)
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(names)), ", ")
	return fmt.Sprintf("INSERT INTO feature_stats (%s) VALUES (%s)", strings.Join(names, ", "), marks)
}

// LatestRun implements FeatureStore.
func (s *SQLiteFeatureStore) LatestRun(ctx context.Context) (*AnalysisRun, error) {
	var (
		run               AnalysisRun
		started, finished string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, started_at, finished_at, input_dir, hidden_dim, range_key,
			files_read, files_skipped, sequences
		FROM analysis_runs
		ORDER BY finished_at DESC, rowid DESC
		LIMIT 1`).Scan(
		&run.ID, &started, &finished, &run.InputDir, &run.HiddenDim, &run.RangeKey,
		&run.FilesRead, &run.FilesSkipped, &run.Sequences)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest run: %w", err)
	}

	if run.StartedAt, err = time.Parse(timeLayout, started); err != nil {
		return nil, fmt.Errorf("failed to parse started_at: %w", err)
	}
	if run.FinishedAt, err = time.Parse(timeLayout, finished); err != nil {
		return nil, fmt.Errorf("failed to parse finished_at: %w", err)
	}
	return &run, nil
}

// Feature implements FeatureStore.
func (s *SQLiteFeatureStore) Feature(ctx context.Context, dim int) (*models.FeatureRow, error) {
	run, err := s.LatestRun(ctx)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM feature_stats WHERE run_id = ? AND dim = ?",
		strings.Join(export.ColumnNames(), ", "))

	var row models.FeatureRow
	err = s.db.QueryRowContext(ctx, query, run.ID, dim).Scan(scanDest(&row)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("dim %d: %w", dim, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query dim %d: %w", dim, err)
	}
	return &row, nil
}

// Features implements FeatureStore.
func (s *SQLiteFeatureStore) Features(ctx context.Context, category models.Category) ([]models.FeatureRow, error) {
	run, err := s.LatestRun(ctx)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM feature_stats WHERE run_id = ?", strings.Join(export.ColumnNames(), ", "))
	args := []any{run.ID}
	if category != "" {
		query += " AND feat_type = ?"
		args = append(args, string(category))
	}
	query += " ORDER BY dim"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query features: %w", err)
	}
	defer rows.Close()

	var out []models.FeatureRow
	for rows.Next() {
		var row models.FeatureRow
		if err := rows.Scan(scanDest(&row)...); err != nil {
			return nil, fmt.Errorf("failed to scan feature row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// CategoryCounts implements FeatureStore.
func (s *SQLiteFeatureStore) CategoryCounts(ctx context.Context) (map[models.Category]int, error) {
	run, err := s.LatestRun(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT feat_type, COUNT(*) FROM feature_stats WHERE run_id = ? GROUP BY feat_type`, run.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count categories: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.Category]int)
	for rows.Next() {
		var (
			cat string
			n   int
		)
		if err := rows.Scan(&cat, &n); err != nil {
			return nil, fmt.Errorf("failed to scan category count: %w", err)
		}
		counts[models.Category(cat)] = n
	}
	return counts, rows.Err()
}

func scanDest(row *models.FeatureRow) []any {
	dest := make([]any, len(export.Columns))
	for i, c := range export.Columns {
		dest[i] = c.Dest(row)
	}
	return dest
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
