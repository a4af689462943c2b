package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/nvandessel/saescope/internal/export"
)

func openRawDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "raw.db"))
	if err != nil {
		t.Fatalf("sql.Open() error = %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestInitSchema_Fresh(t *testing.T) {
	ctx := context.Background()
	db := openRawDB(t)

	if err := InitSchema(ctx, db); err != nil {
		t.Fatalf("InitSchema() error = %v", err)
	}

	version, err := getSchemaVersion(ctx, db)
	if err != nil {
		t.Fatalf("getSchemaVersion() error = %v", err)
	}
	if version != SchemaVersion {
		t.Errorf("schema version = %d, want %d", version, SchemaVersion)
	}

	// Second call is a no-op.
	if err := InitSchema(ctx, db); err != nil {
		t.Errorf("InitSchema() second call error = %v", err)
	}
}

func TestInitSchema_FeatureColumns(t *testing.T) {
	ctx := context.Background()
	db := openRawDB(t)
	if err := InitSchema(ctx, db); err != nil {
		t.Fatalf("InitSchema() error = %v", err)
	}

	rows, err := db.QueryContext(ctx, `SELECT name FROM pragma_table_info('feature_stats') ORDER BY cid`)
	if err != nil {
		t.Fatalf("table_info query error = %v", err)
	}
	defer rows.Close()

	var got []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("Scan() error = %v", err)
		}
		got = append(got, name)
	}

	want := append([]string{"run_id"}, export.ColumnNames()...)
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("feature_stats columns = %v, want %v", got, want)
	}
}

func TestInitSchema_NewerVersionRejected(t *testing.T) {
	ctx := context.Background()
	db := openRawDB(t)
	if err := InitSchema(ctx, db); err != nil {
		t.Fatalf("InitSchema() error = %v", err)
	}
	if _, err := db.ExecContext(ctx, `INSERT INTO schema_version (version) VALUES (?)`, SchemaVersion+1); err != nil {
		t.Fatalf("insert version error = %v", err)
	}

	if err := InitSchema(ctx, db); err == nil {
		t.Error("InitSchema() should reject a newer schema version")
	}
}

func TestValidateIntegrity_Fresh(t *testing.T) {
	ctx := context.Background()
	db := openRawDB(t)
	if err := InitSchema(ctx, db); err != nil {
		t.Fatalf("InitSchema() error = %v", err)
	}
	if err := ValidateIntegrity(ctx, db); err != nil {
		t.Errorf("ValidateIntegrity() error = %v", err)
	}
}
