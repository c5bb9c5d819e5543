package datasource

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ekaya-inc/ekaya-querygrid/pkg/models"
)

// mockSchemaDiscoverer returns fixed columns per "schema.table" key.
type mockSchemaDiscoverer struct {
	columns map[string][]ColumnMetadata
	err     error
	calls   []string
}

func (m *mockSchemaDiscoverer) DiscoverTables(ctx context.Context) ([]TableMetadata, error) {
	if m.err != nil {
		return nil, m.err
	}
	tables := make([]TableMetadata, 0, len(m.columns))
	for key := range m.columns {
		schemaName, tableName, _ := strings.Cut(key, ".")
		tables = append(tables, TableMetadata{SchemaName: schemaName, TableName: tableName})
	}
	return tables, nil
}

func (m *mockSchemaDiscoverer) DiscoverColumns(ctx context.Context, schemaName, tableName string) ([]ColumnMetadata, error) {
	key := schemaName + "." + tableName
	m.calls = append(m.calls, key)
	if m.err != nil {
		return nil, m.err
	}
	return m.columns[key], nil
}

func (m *mockSchemaDiscoverer) Close() error {
	return nil
}

func customersDiscoverer() *mockSchemaDiscoverer {
	maxLen := 255
	return &mockSchemaDiscoverer{
		columns: map[string][]ColumnMetadata{
			"public.customers": {
				{ColumnName: "id", DataType: "integer", OrdinalPosition: 1},
				{ColumnName: "name", DataType: "character varying", IsNullable: true, OrdinalPosition: 2, MaxLength: &maxLen},
				{ColumnName: "email", DataType: "text", OrdinalPosition: 3},
				{ColumnName: "created_at", DataType: "timestamp with time zone", OrdinalPosition: 4},
				{ColumnName: "active", DataType: "boolean", OrdinalPosition: 5},
			},
		},
	}
}

func TestColumnResolver_ResolveColumns(t *testing.T) {
	d := customersDiscoverer()
	r := NewColumnResolver(d, "public", zaptest.NewLogger(t))

	cols, err := r.ResolveColumns(context.Background(), "customers", []string{"email", "id", "created_at"})
	require.NoError(t, err)

	// Ordinal order, not request order.
	require.Len(t, cols, 3)
	assert.Equal(t, models.ColumnMetadata{ColumnName: "id", DataType: "integer", CanonicalDataType: models.CanonicalNumber}, cols[0])
	assert.Equal(t, models.ColumnMetadata{ColumnName: "email", DataType: "text", CanonicalDataType: models.CanonicalString}, cols[1])
	assert.Equal(t, models.CanonicalDate, cols[2].CanonicalDataType)
	assert.Equal(t, []string{"public.customers"}, d.calls)
}

func TestColumnResolver_OmitsMissingFields(t *testing.T) {
	r := NewColumnResolver(customersDiscoverer(), "public", nil)

	cols, err := r.ResolveColumns(context.Background(), "customers", []string{"id", "does_not_exist"})
	require.NoError(t, err)
	require.Len(t, cols, 1)
	assert.Equal(t, "id", cols[0].ColumnName)
}

func TestColumnResolver_CaseInsensitiveMatch(t *testing.T) {
	r := NewColumnResolver(customersDiscoverer(), "public", nil)

	cols, err := r.ResolveColumns(context.Background(), "customers", []string{"ID", "Name"})
	require.NoError(t, err)
	require.Len(t, cols, 2)
	assert.Equal(t, "id", cols[0].ColumnName)
	assert.Equal(t, "name", cols[1].ColumnName)
}

func TestColumnResolver_DuplicateFieldsResolveOnce(t *testing.T) {
	r := NewColumnResolver(customersDiscoverer(), "public", nil)

	cols, err := r.ResolveColumns(context.Background(), "customers", []string{"id", "id"})
	require.NoError(t, err)
	assert.Len(t, cols, 1)
}

func TestColumnResolver_QualifiedAndQuotedTable(t *testing.T) {
	d := &mockSchemaDiscoverer{
		columns: map[string][]ColumnMetadata{
			"sales.orders": {{ColumnName: "total", DataType: "numeric(10,2)"}},
		},
	}
	r := NewColumnResolver(d, "public", nil)

	cols, err := r.ResolveColumns(context.Background(), `"sales"."orders"`, []string{"total"})
	require.NoError(t, err)
	require.Len(t, cols, 1)
	assert.Equal(t, models.CanonicalNumber, cols[0].CanonicalDataType)
	assert.Equal(t, []string{"sales.orders"}, d.calls)
}

func TestColumnResolver_UnknownTable(t *testing.T) {
	r := NewColumnResolver(customersDiscoverer(), "public", nil)

	cols, err := r.ResolveColumns(context.Background(), "nope", []string{"id"})
	require.NoError(t, err)
	assert.Empty(t, cols)
}

func TestColumnResolver_DiscovererError(t *testing.T) {
	boom := errors.New("connection refused")
	r := NewColumnResolver(&mockSchemaDiscoverer{err: boom}, "public", nil)

	_, err := r.ResolveColumns(context.Background(), "customers", []string{"id"})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestColumnResolver_DescribeTable(t *testing.T) {
	r := NewColumnResolver(customersDiscoverer(), "public", nil)

	schema, err := r.DescribeTable(context.Background(), "customers")
	require.NoError(t, err)

	assert.Equal(t, "customers", schema.TableName)
	require.Len(t, schema.Columns, 5)
	assert.Equal(t, "name", schema.Columns[1].ColumnName)
	assert.True(t, schema.Columns[1].IsNullable)
	require.NotNil(t, schema.Columns[1].MaxLength)
	assert.Equal(t, 255, *schema.Columns[1].MaxLength)
	assert.Equal(t, models.CanonicalBoolean, schema.Columns[4].CanonicalDataType)
}

func TestColumnResolver_MissingTables(t *testing.T) {
	d := customersDiscoverer()
	d.columns["sales.orders"] = []ColumnMetadata{{ColumnName: "total", DataType: "numeric"}}
	r := NewColumnResolver(d, "public", nil)

	missing, err := r.MissingTables(context.Background(), []string{
		"customers", "Public.Customers", `"sales"."orders"`, "sales.refunds", "ghosts",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"sales.refunds", "ghosts"}, missing)
}

func TestColumnResolver_MissingTables_DiscovererError(t *testing.T) {
	boom := errors.New("connection refused")
	r := NewColumnResolver(&mockSchemaDiscoverer{err: boom}, "public", nil)

	_, err := r.MissingTables(context.Background(), []string{"customers"})
	assert.ErrorIs(t, err, boom)
}
