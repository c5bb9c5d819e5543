package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-querygrid/pkg/adapters/datasource"
	"github.com/ekaya-inc/ekaya-querygrid/pkg/logging"
)

// SchemaDiscoverer provides MySQL schema discovery. An empty schema name
// refers to the connection's current database.
type SchemaDiscoverer struct {
	db       *sql.DB
	database string
	logger   *zap.Logger
}

// NewSchemaDiscoverer opens a connection pool and verifies it with a ping.
// If logger is nil, a no-op logger is used.
func NewSchemaDiscoverer(ctx context.Context, cfg *Config, logger *zap.Logger) (*SchemaDiscoverer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	dsn := cfg.DSN()
	logger.Debug("Opening MySQL connection", zap.String("conn", logging.SanitizeConnectionString(dsn)))

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connection test failed: %w", err)
	}

	return newSchemaDiscovererWithDB(db, cfg.Database, logger), nil
}

func newSchemaDiscovererWithDB(db *sql.DB, database string, logger *zap.Logger) *SchemaDiscoverer {
	return &SchemaDiscoverer{
		db:       db,
		database: database,
		logger:   logger,
	}
}

// TestConnection verifies the server is reachable and the configured database is selected.
func (s *SchemaDiscoverer) TestConnection(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}

	var currentDB sql.NullString
	if err := s.db.QueryRowContext(ctx, "SELECT DATABASE()").Scan(&currentDB); err != nil {
		return fmt.Errorf("test query failed: %w", err)
	}

	if !strings.EqualFold(currentDB.String, s.database) {
		return fmt.Errorf("connected to wrong database: expected %q but connected to %q", s.database, currentDB.String)
	}
	return nil
}

// DiscoverTables returns the tables and views of the current database.
func (s *SchemaDiscoverer) DiscoverTables(ctx context.Context) ([]datasource.TableMetadata, error) {
	const query = `
		SELECT table_schema, table_name, COALESCE(table_rows, 0)
		FROM information_schema.tables
		WHERE table_schema = DATABASE()
		  AND table_type IN ('BASE TABLE', 'VIEW')
		ORDER BY table_name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}
	defer rows.Close()

	var tables []datasource.TableMetadata
	for rows.Next() {
		var t datasource.TableMetadata
		if err := rows.Scan(&t.SchemaName, &t.TableName, &t.RowCount); err != nil {
			return nil, fmt.Errorf("scan table: %w", err)
		}
		tables = append(tables, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tables: %w", err)
	}

	return tables, nil
}

// DiscoverColumns returns columns for a specific table in ordinal order.
func (s *SchemaDiscoverer) DiscoverColumns(ctx context.Context, schemaName, tableName string) ([]datasource.ColumnMetadata, error) {
	const query = `
		SELECT
			column_name,
			data_type,
			is_nullable = 'YES',
			column_key = 'PRI',
			ordinal_position,
			character_maximum_length,
			column_default
		FROM information_schema.columns
		WHERE table_schema = COALESCE(NULLIF(?, ''), DATABASE())
		  AND table_name = ?
		ORDER BY ordinal_position`

	rows, err := s.db.QueryContext(ctx, query, schemaName, tableName)
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	defer rows.Close()

	var columns []datasource.ColumnMetadata
	for rows.Next() {
		var c datasource.ColumnMetadata
		var maxLength sql.NullInt64
		var defaultValue sql.NullString
		if err := rows.Scan(&c.ColumnName, &c.DataType, &c.IsNullable, &c.IsPrimaryKey, &c.OrdinalPosition, &maxLength, &defaultValue); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		if maxLength.Valid {
			n := int(maxLength.Int64)
			c.MaxLength = &n
		}
		if defaultValue.Valid {
			c.DefaultValue = &defaultValue.String
		}
		columns = append(columns, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate columns: %w", err)
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

var (
	_ datasource.SchemaDiscoverer = (*SchemaDiscoverer)(nil)
	_ datasource.ConnectionTester = (*SchemaDiscoverer)(nil)
)
