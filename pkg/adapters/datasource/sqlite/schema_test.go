package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ekaya-inc/ekaya-querygrid/pkg/adapters/datasource"
	"github.com/ekaya-inc/ekaya-querygrid/pkg/models"
)

func createTestDB(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "crm.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`
		CREATE TABLE customers (
			id INTEGER PRIMARY KEY,
			name VARCHAR(120) NOT NULL,
			email TEXT,
			balance NUMERIC(12,2) DEFAULT 0,
			active BOOLEAN,
			created_at DATETIME
		);
		CREATE VIEW active_customers AS SELECT id, name FROM customers WHERE active = 1;
	`)
	require.NoError(t, err)

	return path
}

func TestSchemaDiscoverer_DiscoverColumns(t *testing.T) {
	d, err := NewSchemaDiscoverer(context.Background(), createTestDB(t), zaptest.NewLogger(t))
	require.NoError(t, err)
	defer d.Close()

	columns, err := d.DiscoverColumns(context.Background(), "", "customers")
	require.NoError(t, err)
	require.Len(t, columns, 6)

	assert.Equal(t, "id", columns[0].ColumnName)
	assert.True(t, columns[0].IsPrimaryKey)
	assert.False(t, columns[0].IsNullable)
	assert.Equal(t, 1, columns[0].OrdinalPosition)

	assert.Equal(t, "VARCHAR(120)", columns[1].DataType)
	assert.False(t, columns[1].IsNullable)
	require.NotNil(t, columns[1].MaxLength)
	assert.Equal(t, 120, *columns[1].MaxLength)

	assert.True(t, columns[2].IsNullable)
	assert.Nil(t, columns[2].MaxLength)

	require.NotNil(t, columns[3].DefaultValue)
	assert.Equal(t, "0", *columns[3].DefaultValue)
}

func TestSchemaDiscoverer_DiscoverColumns_UnknownTable(t *testing.T) {
	d, err := NewSchemaDiscoverer(context.Background(), createTestDB(t), nil)
	require.NoError(t, err)
	defer d.Close()

	columns, err := d.DiscoverColumns(context.Background(), "main", "missing")
	require.NoError(t, err)
	assert.Empty(t, columns)
}

func TestSchemaDiscoverer_DiscoverTables(t *testing.T) {
	d, err := NewSchemaDiscoverer(context.Background(), createTestDB(t), nil)
	require.NoError(t, err)
	defer d.Close()

	tables, err := d.DiscoverTables(context.Background())
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, "active_customers", tables[0].TableName)
	assert.Equal(t, "customers", tables[1].TableName)
	assert.Equal(t, "main", tables[1].SchemaName)

	assert.NoError(t, d.TestConnection(context.Background()))
}

func TestSchemaDiscoverer_MissingFile(t *testing.T) {
	_, err := NewSchemaDiscoverer(context.Background(), filepath.Join(t.TempDir(), "nope.db"), nil)
	assert.Error(t, err)
}

func TestColumnResolver_AgainstSQLite(t *testing.T) {
	factory := datasource.NewDatasourceAdapterFactory(zaptest.NewLogger(t))
	d, err := factory.NewSchemaDiscoverer(context.Background(), &datasource.Config{Type: "sqlite", Path: createTestDB(t)})
	require.NoError(t, err)
	defer d.Close()

	r := datasource.NewColumnResolver(d, DefaultSchema, nil)
	cols, err := r.ResolveColumns(context.Background(), `"customers"`, []string{"created_at", "name", "balance", "active"})
	require.NoError(t, err)

	require.Len(t, cols, 4)
	assert.Equal(t, models.CanonicalString, cols[0].CanonicalDataType)
	assert.Equal(t, models.CanonicalNumber, cols[1].CanonicalDataType)
	assert.Equal(t, models.CanonicalBoolean, cols[2].CanonicalDataType)
	assert.Equal(t, models.CanonicalDate, cols[3].CanonicalDataType)
}
