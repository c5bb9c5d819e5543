package mssql

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-querygrid/pkg/adapters/datasource"
)

// SchemaDiscoverer provides SQL Server schema discovery.
type SchemaDiscoverer struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSchemaDiscoverer creates a new SQL Server schema discoverer.
// If logger is nil, a no-op logger is used.
func NewSchemaDiscoverer(ctx context.Context, cfg *Config, logger *zap.Logger) (*SchemaDiscoverer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := openDB(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	return newSchemaDiscovererWithDB(db, logger), nil
}

func newSchemaDiscovererWithDB(db *sql.DB, logger *zap.Logger) *SchemaDiscoverer {
	return &SchemaDiscoverer{
		db:     db,
		logger: logger,
	}
}

// DiscoverTables returns all user tables and views (excludes system objects).
func (s *SchemaDiscoverer) DiscoverTables(ctx context.Context) ([]datasource.TableMetadata, error) {
	query := `
	SET NOCOUNT ON;
	SELECT
	    SCHEMA_NAME(o.schema_id) AS table_schema,
	    o.name AS table_name,
	    COALESCE(SUM(p.rows), 0) AS row_count
	FROM sys.objects o
	LEFT JOIN sys.partitions p ON o.object_id = p.object_id AND p.index_id IN (0, 1)
	WHERE o.type IN ('U', 'V')
	  AND o.is_ms_shipped = 0
	GROUP BY o.schema_id, o.name
	ORDER BY table_schema, table_name
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}
	defer rows.Close()

	var tables []datasource.TableMetadata
	for rows.Next() {
		var table datasource.TableMetadata
		if err := rows.Scan(&table.SchemaName, &table.TableName, &table.RowCount); err != nil {
			return nil, fmt.Errorf("scan table row: %w", err)
		}
		tables = append(tables, table)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate table rows: %w", err)
	}

	return tables, nil
}

// DiscoverColumns returns columns for a specific table or view.
// MaxLength is reported in characters and is nil for (max) and non-character types.
func (s *SchemaDiscoverer) DiscoverColumns(ctx context.Context, schemaName, tableName string) ([]datasource.ColumnMetadata, error) {
	query := `
	SET NOCOUNT ON;
	SELECT
	    c.name AS column_name,
	    tp.name AS data_type,
	    CASE WHEN c.is_nullable = 1 THEN 1 ELSE 0 END AS is_nullable,
	    c.column_id AS ordinal_position,
	    CASE WHEN pk.column_id IS NOT NULL THEN 1 ELSE 0 END AS is_primary_key,
	    CASE
	        WHEN c.max_length = -1 THEN NULL
	        WHEN tp.name IN ('nchar', 'nvarchar') THEN c.max_length / 2
	        WHEN tp.name IN ('char', 'varchar') THEN c.max_length
	        ELSE NULL
	    END AS max_length
	FROM sys.columns c
	INNER JOIN sys.types tp ON c.user_type_id = tp.user_type_id
	LEFT JOIN (
	    SELECT ic.object_id, ic.column_id
	    FROM sys.index_columns ic
	    INNER JOIN sys.indexes i ON ic.object_id = i.object_id AND ic.index_id = i.index_id
	    WHERE i.is_primary_key = 1
	) pk ON c.object_id = pk.object_id AND c.column_id = pk.column_id
	WHERE c.object_id = OBJECT_ID(QUOTENAME(@schema) + N'.' + QUOTENAME(@table))
	ORDER BY c.column_id
	`

	rows, err := s.db.QueryContext(ctx, query,
		sql.Named("schema", schemaName),
		sql.Named("table", tableName),
	)
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	defer rows.Close()

	var columns []datasource.ColumnMetadata
	for rows.Next() {
		var col datasource.ColumnMetadata
		var isNullable, isPrimary int
		var maxLength sql.NullInt64

		err := rows.Scan(
			&col.ColumnName,
			&col.DataType,
			&isNullable,
			&col.OrdinalPosition,
			&isPrimary,
			&maxLength,
		)
		if err != nil {
			return nil, fmt.Errorf("scan column row: %w", err)
		}

		col.IsNullable = isNullable == 1
		col.IsPrimaryKey = isPrimary == 1
		if maxLength.Valid {
			n := int(maxLength.Int64)
			col.MaxLength = &n
		}

		columns = append(columns, col)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate column rows: %w", err)
	}

	return columns, nil
}

// Close releases the connection pool.
func (s *SchemaDiscoverer) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ensure SchemaDiscoverer implements SchemaDiscoverer at compile time.
var _ datasource.SchemaDiscoverer = (*SchemaDiscoverer)(nil)
