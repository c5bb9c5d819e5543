package services

import (
	"context"
	"strings"

	"github.com/ekaya-inc/ekaya-querygrid/pkg/models"
)

// fakeResolver serves fixed column types per table.
type fakeResolver struct {
	tables map[string][]models.ColumnMetadata
	err    error
	calls  int

	checkErr error
	onCheck  func() // runs inside MissingTables
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{
		tables: map[string][]models.ColumnMetadata{
			"customers": {
				models.NewColumnMetadata("id", "integer"),
				models.NewColumnMetadata("name", "character varying"),
				models.NewColumnMetadata("email", "text"),
				models.NewColumnMetadata("active", "boolean"),
				models.NewColumnMetadata("created_at", "timestamp with time zone"),
				models.NewColumnMetadata("opens_at", "time"),
			},
		},
	}
}

func (f *fakeResolver) ResolveColumns(ctx context.Context, tableName string, fields []string) ([]models.ColumnMetadata, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}

	wanted := make(map[string]bool, len(fields))
	for _, field := range fields {
		wanted[strings.ToLower(field)] = true
	}

	var columns []models.ColumnMetadata
	for _, c := range f.tables[strings.ToLower(tableName)] {
		if wanted[strings.ToLower(c.ColumnName)] {
			columns = append(columns, c)
		}
	}
	return columns, nil
}

func (f *fakeResolver) DescribeTable(ctx context.Context, tableName string) (*models.TableSchema, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}

	schema := &models.TableSchema{TableName: tableName, Columns: []models.TableColumn{}}
	for _, c := range f.tables[strings.ToLower(tableName)] {
		schema.Columns = append(schema.Columns, models.TableColumn{
			ColumnName:        c.ColumnName,
			DataType:          c.DataType,
			IsNullable:        true,
			CanonicalDataType: c.CanonicalDataType,
		})
	}
	return schema, nil
}

func (f *fakeResolver) MissingTables(ctx context.Context, tableNames []string) ([]string, error) {
	if f.onCheck != nil {
		f.onCheck()
	}
	if f.checkErr != nil {
		return nil, f.checkErr
	}

	var missing []string
	for _, name := range tableNames {
		if _, ok := f.tables[strings.ToLower(name)]; !ok {
			missing = append(missing, name)
		}
	}
	return missing, nil
}
