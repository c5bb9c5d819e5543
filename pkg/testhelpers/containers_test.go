//go:build integration

package testhelpers

import (
	"context"
	"testing"
)

func TestTestDB_SeededTables(t *testing.T) {
	testDB := GetTestDB(t)

	ctx := context.Background()

	tests := []struct {
		schema string
		table  string
	}{
		{"public", "customers"},
		{"sales", "orders"},
	}

	for _, tt := range tests {
		var exists bool
		err := testDB.Pool.QueryRow(ctx,
			"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema = $1 AND table_name = $2)",
			tt.schema, tt.table).Scan(&exists)
		if err != nil {
			t.Fatalf("failed to check %s.%s: %v", tt.schema, tt.table, err)
		}
		if !exists {
			t.Errorf("expected %s.%s to exist", tt.schema, tt.table)
		}
	}
}

func TestTestDB_DatasourceConfig(t *testing.T) {
	testDB := GetTestDB(t)

	cfg := testDB.DatasourceConfig()
	if cfg.Type != "postgres" || cfg.Port != testDB.Port || cfg.SSLMode != "disable" {
		t.Errorf("unexpected datasource config: %+v", cfg)
	}
}
