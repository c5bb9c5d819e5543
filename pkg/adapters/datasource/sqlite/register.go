package sqlite

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-querygrid/pkg/adapters/datasource"
)

func init() {
	datasource.Register(datasource.DatasourceAdapterRegistration{
		Info: datasource.DatasourceAdapterInfo{
			Type:          "sqlite",
			DisplayName:   "SQLite",
			Description:   "Read schemas from a local SQLite database file",
			DefaultSchema: DefaultSchema,
		},
		Factory: func(ctx context.Context, config *datasource.Config, logger *zap.Logger) (datasource.ConnectionTester, error) {
			if config.Path == "" {
				return nil, fmt.Errorf("path is required")
			}
			return NewSchemaDiscoverer(ctx, config.Path, logger)
		},
		SchemaDiscovererFactory: func(ctx context.Context, config *datasource.Config, logger *zap.Logger) (datasource.SchemaDiscoverer, error) {
			if config.Path == "" {
				return nil, fmt.Errorf("path is required")
			}
			return NewSchemaDiscoverer(ctx, config.Path, logger)
		},
	})
}
