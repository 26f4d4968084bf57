package database

import (
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(Config{
		Path:        filepath.Join(t.TempDir(), "history.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenCreatesDirectoryAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "history.db")
	db, err := Open(Config{Path: path, BusyTimeout: 1})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	if db.Path() != path {
		t.Errorf("Path() = %q, want %q", db.Path(), path)
	}
	if err := db.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
}

func TestCloseNilSafe(t *testing.T) {
	db := &DB{}
	if err := db.Close(); err != nil {
		t.Errorf("Close() on zero DB error = %v", err)
	}
}

func TestMigrateAppliesInOrder(t *testing.T) {
	db := openTestDB(t)
	fsys := fstest.MapFS{
		"0002_add_column.sql": {Data: []byte(
			"ALTER TABLE things ADD COLUMN note TEXT",
		)},
		"0001_create_things.sql": {Data: []byte(
			"CREATE TABLE things (id INTEGER PRIMARY KEY, name TEXT NOT NULL)",
		)},
	}

	if err := db.Migrate(context.Background(), fsys); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	// Both migrations applied: the column from 0002 exists.
	if _, err := db.ExecContext(context.Background(),
		"INSERT INTO things (name, note) VALUES ('a', 'b')",
	); err != nil {
		t.Errorf("schema incomplete after Migrate: %v", err)
	}

	var count int
	err := db.QueryRowContext(context.Background(),
		"SELECT COUNT(*) FROM schema_migrations",
	).Scan(&count)
	if err != nil {
		t.Fatalf("counting migrations: %v", err)
	}
	if count != 2 {
		t.Errorf("recorded migrations = %d, want 2", count)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	fsys := fstest.MapFS{
		"0001_create_things.sql": {Data: []byte(
			"CREATE TABLE things (id INTEGER PRIMARY KEY)",
		)},
	}

	for n := 0; n < 3; n++ {
		if err := db.Migrate(context.Background(), fsys); err != nil {
			t.Fatalf("Migrate() error = %v", err)
		}
	}

	var count int
	if err := db.QueryRowContext(context.Background(),
		"SELECT COUNT(*) FROM schema_migrations",
	).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("recorded migrations = %d, want 1", count)
	}
}

func TestMigrateFailureRollsBack(t *testing.T) {
	db := openTestDB(t)
	fsys := fstest.MapFS{
		"0001_bad.sql": {Data: []byte("CREATE SYNTAX ERROR")},
	}

	if err := db.Migrate(context.Background(), fsys); err == nil {
		t.Fatal("Migrate() expected error, got nil")
	}

	var count int
	if err := db.QueryRowContext(context.Background(),
		"SELECT COUNT(*) FROM schema_migrations",
	).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("failed migration was recorded (%d rows)", count)
	}
}

func TestMigrateSkipsNonSQLFiles(t *testing.T) {
	db := openTestDB(t)
	fsys := fstest.MapFS{
		"README.md":       {Data: []byte("# not a migration")},
		"0001_schema.sql": {Data: []byte("CREATE TABLE things (id INTEGER PRIMARY KEY)")},
	}

	if err := db.Migrate(context.Background(), fsys); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
}
