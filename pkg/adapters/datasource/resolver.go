package datasource

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-querygrid/pkg/models"
	sqlutil "github.com/ekaya-inc/ekaya-querygrid/pkg/sql"
)

// ColumnResolver implements SchemaResolver on top of a SchemaDiscoverer.
type ColumnResolver struct {
	discoverer    SchemaDiscoverer
	defaultSchema string
	logger        *zap.Logger
}

// NewColumnResolver returns a resolver that looks up unqualified table names
// in defaultSchema.
func NewColumnResolver(discoverer SchemaDiscoverer, defaultSchema string, logger *zap.Logger) *ColumnResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ColumnResolver{
		discoverer:    discoverer,
		defaultSchema: defaultSchema,
		logger:        logger,
	}
}

// ResolveColumns returns one entry per discovered column whose name is among
// fields, in the table's ordinal order. Names compare case-insensitively since
// unquoted identifiers fold case in every supported engine.
func (r *ColumnResolver) ResolveColumns(ctx context.Context, tableName string, fields []string) ([]models.ColumnMetadata, error) {
	schemaName, name := sqlutil.SplitTableName(sqlutil.StripTableQuotes(tableName), r.defaultSchema)

	discovered, err := r.discoverer.DiscoverColumns(ctx, schemaName, name)
	if err != nil {
		return nil, fmt.Errorf("discover columns for %s.%s: %w", schemaName, name, err)
	}

	wanted := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		wanted[strings.ToLower(f)] = struct{}{}
	}

	columns := make([]models.ColumnMetadata, 0, len(fields))
	for _, c := range discovered {
		if _, ok := wanted[strings.ToLower(c.ColumnName)]; !ok {
			continue
		}
		columns = append(columns, models.NewColumnMetadata(c.ColumnName, c.DataType))
	}

	if len(columns) < len(wanted) {
		r.logger.Debug("Some requested fields were not found in table",
			zap.String("schema", schemaName),
			zap.String("table", name),
			zap.Int("requested", len(wanted)),
			zap.Int("resolved", len(columns)),
		)
	}

	return columns, nil
}

// DescribeTable returns every column of a table with its canonical type.
func (r *ColumnResolver) DescribeTable(ctx context.Context, tableName string) (*models.TableSchema, error) {
	schemaName, name := sqlutil.SplitTableName(sqlutil.StripTableQuotes(tableName), r.defaultSchema)

	discovered, err := r.discoverer.DiscoverColumns(ctx, schemaName, name)
	if err != nil {
		return nil, fmt.Errorf("discover columns for %s.%s: %w", schemaName, name, err)
	}

	schema := &models.TableSchema{
		TableName: tableName,
		Columns:   make([]models.TableColumn, 0, len(discovered)),
	}
	for _, c := range discovered {
		schema.Columns = append(schema.Columns, models.TableColumn{
			ColumnName:        c.ColumnName,
			DataType:          c.DataType,
			IsNullable:        c.IsNullable,
			MaxLength:         c.MaxLength,
			CanonicalDataType: models.MapNativeType(c.DataType),
		})
	}
	return schema, nil
}

// MissingTables returns the names, as given, of tables and views that the
// datasource does not have. Unqualified names are looked up in the default schema.
func (r *ColumnResolver) MissingTables(ctx context.Context, tableNames []string) ([]string, error) {
	tables, err := r.discoverer.DiscoverTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("discover tables: %w", err)
	}

	known := make(map[string]struct{}, len(tables))
	for _, t := range tables {
		known[strings.ToLower(t.SchemaName+"."+t.TableName)] = struct{}{}
	}

	var missing []string
	for _, name := range tableNames {
		schemaName, table := sqlutil.SplitTableName(sqlutil.StripTableQuotes(name), r.defaultSchema)
		if _, ok := known[strings.ToLower(schemaName+"."+table)]; !ok {
			missing = append(missing, name)
		}
	}
	return missing, nil
}

var (
	_ SchemaResolver = (*ColumnResolver)(nil)
	_ TableCatalog   = (*ColumnResolver)(nil)
)
