package datasource

import (
	"context"

	"github.com/ekaya-inc/ekaya-querygrid/pkg/models"
)

// ConnectionTester tests database connectivity.
// Each implementation owns its connection and must be closed when done.
type ConnectionTester interface {
	// TestConnection verifies the database is reachable with valid credentials.
	// Returns nil if connection is healthy, error otherwise.
	TestConnection(ctx context.Context) error

	// Close releases the database connection.
	Close() error
}

// SchemaDiscoverer reads table and column definitions from a datasource.
// Each implementation owns its connection and must be closed when done.
type SchemaDiscoverer interface {
	// DiscoverTables returns all user tables (excludes system schemas).
	DiscoverTables(ctx context.Context) ([]TableMetadata, error)

	// DiscoverColumns returns columns for a specific table in ordinal order.
	// An unknown table yields an empty slice, not an error.
	DiscoverColumns(ctx context.Context, schemaName, tableName string) ([]ColumnMetadata, error)

	// Close releases the database connection.
	Close() error
}

// SchemaResolver returns the requested fields that exist in a table, with
// their native and canonical data types. Fields not present in the table are
// omitted without error.
type SchemaResolver interface {
	ResolveColumns(ctx context.Context, tableName string, fields []string) ([]models.ColumnMetadata, error)
}

// TableDescriber lists every column of a table with its canonical type.
// An unknown table yields a schema with no columns.
type TableDescriber interface {
	DescribeTable(ctx context.Context, tableName string) (*models.TableSchema, error)
}

// TableChecker reports which table names do not exist in the datasource.
type TableChecker interface {
	MissingTables(ctx context.Context, tableNames []string) ([]string, error)
}

// TableCatalog describes tables and checks that they exist.
type TableCatalog interface {
	TableDescriber
	TableChecker
}
