// Package sqlite discovers table schemas in SQLite database files.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"go.uber.org/zap"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"github.com/ekaya-inc/ekaya-querygrid/pkg/adapters/datasource"
)

// DefaultSchema is the name SQLite gives the primary database.
const DefaultSchema = "main"

var declaredLength = regexp.MustCompile(`\(\s*(\d+)\s*\)`)

// SchemaDiscoverer reads table definitions from a SQLite file opened read-only.
type SchemaDiscoverer struct {
	db     *sql.DB
	path   string
	logger *zap.Logger
}

// NewSchemaDiscoverer opens the database file at path read-only.
// If logger is nil, a no-op logger is used.
func NewSchemaDiscoverer(ctx context.Context, path string, logger *zap.Logger) (*SchemaDiscoverer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("sqlite database file: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connection test failed: %w", err)
	}

	logger.Debug("Opened SQLite database", zap.String("path", path))

	return &SchemaDiscoverer{
		db:     db,
		path:   path,
		logger: logger,
	}, nil
}

// TestConnection verifies the database file is still readable.
func (s *SchemaDiscoverer) TestConnection(ctx context.Context) error {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT count(*) FROM sqlite_master").Scan(&n); err != nil {
		return fmt.Errorf("test query failed: %w", err)
	}
	return nil
}

// DiscoverTables returns the tables and views of the main database.
func (s *SchemaDiscoverer) DiscoverTables(ctx context.Context) ([]datasource.TableMetadata, error) {
	const query = `
		SELECT name
		FROM sqlite_master
		WHERE type IN ('table', 'view')
		  AND name NOT LIKE 'sqlite_%'
		ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}
	defer rows.Close()

	var tables []datasource.TableMetadata
	for rows.Next() {
		t := datasource.TableMetadata{SchemaName: DefaultSchema}
		if err := rows.Scan(&t.TableName); err != nil {
			return nil, fmt.Errorf("scan table: %w", err)
		}
		tables = append(tables, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tables: %w", err)
	}

	return tables, nil
}

// DiscoverColumns returns columns for a table or view. The declared type is
// reported verbatim; a declared length such as VARCHAR(120) sets MaxLength.
func (s *SchemaDiscoverer) DiscoverColumns(ctx context.Context, schemaName, tableName string) ([]datasource.ColumnMetadata, error) {
	if schemaName == "" {
		schemaName = DefaultSchema
	}

	// The table-valued form of PRAGMA table_info accepts bound parameters.
	const query = `
		SELECT cid, name, type, "notnull", dflt_value, pk
		FROM pragma_table_info(?, ?)
		ORDER BY cid`

	rows, err := s.db.QueryContext(ctx, query, tableName, schemaName)
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	defer rows.Close()

	var columns []datasource.ColumnMetadata
	for rows.Next() {
		var cid, notNull, pk int
		var name, colType string
		var dflt sql.NullString

		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}

		c := datasource.ColumnMetadata{
			ColumnName:      name,
			DataType:        colType,
			IsNullable:      notNull == 0 && pk == 0,
			IsPrimaryKey:    pk > 0,
			OrdinalPosition: cid + 1,
		}
		if dflt.Valid {
			c.DefaultValue = &dflt.String
		}
		if m := declaredLength.FindStringSubmatch(colType); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				c.MaxLength = &n
			}
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
