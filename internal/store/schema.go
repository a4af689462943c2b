package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/nvandessel/saescope/internal/export"
)

// SchemaVersion is the current schema version.
const SchemaVersion = 1

// schemaRuns holds the tables that do not depend on the feature layout.
const schemaRuns = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TEXT DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS analysis_runs (
    id TEXT PRIMARY KEY,
    started_at TEXT NOT NULL,
    finished_at TEXT NOT NULL,
    input_dir TEXT NOT NULL,
    hidden_dim INTEGER NOT NULL,
    range_key TEXT NOT NULL,
    files_read INTEGER DEFAULT 0,
    files_skipped INTEGER DEFAULT 0,
    sequences INTEGER DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_runs_finished ON analysis_runs(finished_at);
`

// featureSchema builds the feature_stats DDL from the export column layout
// so the table matches the parquet and CSV outputs column for column.
func featureSchema() string {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS feature_stats (\n")
	b.WriteString("    run_id TEXT NOT NULL REFERENCES analysis_runs(id) ON DELETE CASCADE,\n")
	for _, c := range export.Columns {
		fmt.Fprintf(&b, "    %s %s NOT NULL,\n", c.Name, sqlType(c.Kind))
	}
	b.WriteString("    PRIMARY KEY (run_id, dim)\n);\n")
	b.WriteString("CREATE INDEX IF NOT EXISTS idx_feature_type ON feature_stats(run_id, feat_type);\n")
	return b.String()
}

func sqlType(k export.Kind) string {
	switch k {
	case export.KindInt, export.KindBool:
		return "INTEGER"
	case export.KindFloat:
		return "REAL"
	default:
		return "TEXT"
	}
}

// InitSchema creates the schema on a fresh database or checks the version of
// an existing one.
func InitSchema(ctx context.Context, db *sql.DB) error {
	version, err := getSchemaVersion(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	switch {
	case version == 0:
		return createSchema(ctx, db)
	case version > SchemaVersion:
		return fmt.Errorf("database schema version %d is newer than supported version %d", version, SchemaVersion)
	default:
		return nil
	}
}

// getSchemaVersion returns 0 when the database has no schema_version table.
func getSchemaVersion(ctx context.Context, db *sql.DB) (int, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'`).Scan(&count)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, nil
	}

	var version sql.NullInt64
	if err := db.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_version`).Scan(&version); err != nil {
		return 0, err
	}
	return int(version.Int64), nil
}

func createSchema(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, schemaRuns); err != nil {
		return fmt.Errorf("failed to create run tables: %w", err)
	}
	if _, err := tx.ExecContext(ctx, featureSchema()); err != nil {
		return fmt.Errorf("failed to create feature table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_version (version) VALUES (?)`, SchemaVersion); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}

	return tx.Commit()
}

// ValidateIntegrity runs SQLite's integrity and foreign key checks.
func ValidateIntegrity(ctx context.Context, db *sql.DB) error {
	rows, err := db.QueryContext(ctx, `PRAGMA integrity_check`)
	if err != nil {
		return fmt.Errorf("failed to run integrity_check: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var result string
		if err := rows.Scan(&result); err != nil {
			return fmt.Errorf("failed to scan integrity_check result: %w", err)
		}
		if result != "ok" {
			return fmt.Errorf("integrity_check failed: %s", result)
		}
	}

	fkRows, err := db.QueryContext(ctx, `PRAGMA foreign_key_check`)
	if err != nil {
		return fmt.Errorf("failed to run foreign_key_check: %w", err)
	}
	defer fkRows.Close()

	var fkErrors []string
	for fkRows.Next() {
		var table, rowid, parent, fkid string
		if err := fkRows.Scan(&table, &rowid, &parent, &fkid); err != nil {
			return fmt.Errorf("failed to scan foreign_key_check result: %w", err)
		}
		fkErrors = append(fkErrors, fmt.Sprintf("table=%s rowid=%s parent=%s fkid=%s", table, rowid, parent, fkid))
	}
	if len(fkErrors) > 0 {
		return fmt.Errorf("foreign_key_check failed: %v", fkErrors)
	}

	return nil
}
