//go:build duckdb

package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/marcboeker/go-duckdb" // DuckDB driver
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-querygrid/pkg/adapters/datasource"
)

// DefaultSchema is the schema DuckDB creates in every database.
const DefaultSchema = "main"

// SchemaDiscoverer reads table definitions from a DuckDB file opened read-only.
type SchemaDiscoverer struct {
	db     *sql.DB
	path   string
	logger *zap.Logger
}

// NewSchemaDiscoverer opens the database file at path in read-only mode.
// If logger is nil, a no-op logger is used.
func NewSchemaDiscoverer(ctx context.Context, path string, logger *zap.Logger) (*SchemaDiscoverer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("duckdb database file: %w", err)
	}

	db, err := sql.Open("duckdb", path+"?access_mode=read_only")
	if err != nil {
		return nil, fmt.Errorf("open duckdb database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connection test failed: %w", err)
	}

	logger.Debug("Opened DuckDB database", zap.String("path", path))

	return &SchemaDiscoverer{db: db, path: path, logger: logger}, nil
}

// TestConnection runs a trivial query against the open database.
func (s *SchemaDiscoverer) TestConnection(ctx context.Context) error {
	var one int
	if err := s.db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("test query failed: %w", err)
	}
	return nil
}

// DiscoverTables returns all user tables and views.
func (s *SchemaDiscoverer) DiscoverTables(ctx context.Context) ([]datasource.TableMetadata, error) {
	const query = `
		SELECT table_schema, table_name
		FROM information_schema.tables
		WHERE table_schema NOT IN ('information_schema', 'pg_catalog')
		ORDER BY table_schema, table_name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}
	defer rows.Close()

	var tables []datasource.TableMetadata
	for rows.Next() {
		var t datasource.TableMetadata
		if err := rows.Scan(&t.SchemaName, &t.TableName); err != nil {
			return nil, fmt.Errorf("scan table: %w", err)
		}
		tables = append(tables, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tables: %w", err)
	}

	return tables, nil
}

// DiscoverColumns returns columns for a table or view in ordinal order.
func (s *SchemaDiscoverer) DiscoverColumns(ctx context.Context, schemaName, tableName string) ([]datasource.ColumnMetadata, error) {
	if schemaName == "" {
		schemaName = DefaultSchema
	}

	const query = `
		SELECT
			column_name,
			data_type,
			is_nullable = 'YES',
			ordinal_position,
			character_maximum_length,
			column_default
		FROM information_schema.columns
		WHERE lower(table_schema) = lower(?)
		  AND lower(table_name) = lower(?)
		ORDER BY ordinal_position`

	rows, err := s.db.QueryContext(ctx, query, schemaName, tableName)
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	defer rows.Close()

	var columns []datasource.ColumnMetadata
	for rows.Next() {
		var c datasource.ColumnMetadata
		var maxLen sql.NullInt64
		var dflt sql.NullString

		if err := rows.Scan(&c.ColumnName, &c.DataType, &c.IsNullable, &c.OrdinalPosition, &maxLen, &dflt); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		if maxLen.Valid {
			n := int(maxLen.Int64)
			c.MaxLength = &n
		}
		if dflt.Valid {
			c.DefaultValue = &dflt.String
		}
		columns = append(columns, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate columns: %w", err)
	}

	return columns, nil
}

// Close releases the database handle.
func (s *SchemaDiscoverer) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

var (
	_ datasource.SchemaDiscoverer = (*SchemaDiscoverer)(nil)
	_ datasource.ConnectionTester = (*SchemaDiscoverer)(nil)
)
