package database

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func openMemory(t *testing.T) *Client {
	t.Helper()
	client, err := Open(":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestMigrate_Success(t *testing.T) {
	client := openMemory(t)
	ctx := context.Background()

	if err := Migrate(ctx, client); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	database, err := client.DB(ctx)
	if err != nil {
		t.Fatalf("getting handle: %v", err)
	}
	var count int
	if err := database.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("querying migrations: %v", err)
	}
	want, err := migrationFileCount(DialectSQLite)
	if err != nil {
		t.Fatalf("counting migration files: %v", err)
	}

	if count != want {
		t.Errorf("expected %d migrations, got %d", want, count)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	client := openMemory(t)
	ctx := context.Background()

	if err := Migrate(ctx, client); err != nil {
		t.Fatalf("first migration: %v", err)
	}
	if err := Migrate(ctx, client); err != nil {
		t.Fatalf("second migration should not fail: %v", err)
	}

	database, _ := client.DB(ctx)
	var count int
	database.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	want, err := migrationFileCount(DialectSQLite)
	if err != nil {
		t.Fatalf("counting migration files: %v", err)
	}
	if count != want {
		t.Errorf("expected %d migrations after double run, got %d", want, count)
	}
}

func TestMigrate_DialectsShipSameVersions(t *testing.T) {
	sqliteCount, err := migrationFileCount(DialectSQLite)
	if err != nil {
		t.Fatalf("counting sqlite migrations: %v", err)
	}
	postgresCount, err := migrationFileCount(DialectPostgres)
	if err != nil {
		t.Fatalf("counting postgres migrations: %v", err)
	}
	if sqliteCount != postgresCount {
		t.Errorf("sqlite has %d migrations, postgres has %d", sqliteCount, postgresCount)
	}
}

func migrationFileCount(dialect Dialect) (int, error) {
	_, thisFile, _, _ := runtime.Caller(0)
	directory := filepath.Join(filepath.Dir(thisFile), "migrations", string(dialect))
	entries, err := os.ReadDir(directory)
	if err != nil {
		return 0, err
	}
	want := 0
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".up.sql") {
			want++
		}
	}
	return want, nil
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	client := openMemory(t)
	ctx := context.Background()

	if err := Migrate(ctx, client); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	database, _ := client.DB(ctx)
	expectedTables := []string{"reference_foods", "consumption_events", "weight_samples"}
	for _, table := range expectedTables {
		var name string
		err := database.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table '%s' not found: %v", table, err)
		}
	}

	var sourceColumns int
	err := database.QueryRow("SELECT COUNT(*) FROM pragma_table_info('consumption_events') WHERE name = 'source'").Scan(&sourceColumns)
	if err != nil {
		t.Fatalf("inspecting consumption_events: %v", err)
	}
	if sourceColumns != 1 {
		t.Error("expected source column to be added to consumption_events")
	}
}
