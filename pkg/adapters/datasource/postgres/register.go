package postgres

import (
	"context"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-querygrid/pkg/adapters/datasource"
)

func init() {
	datasource.Register(datasource.DatasourceAdapterRegistration{
		Info: datasource.DatasourceAdapterInfo{
			Type:          "postgres",
			DisplayName:   "PostgreSQL",
			Description:   "Connect to PostgreSQL 12+, Aurora PostgreSQL, Supabase",
			DefaultSchema: DefaultSchema,
		},
		Factory: func(ctx context.Context, config *datasource.Config, logger *zap.Logger) (datasource.ConnectionTester, error) {
			cfg, err := FromDatasourceConfig(config)
			if err != nil {
				return nil, err
			}
			return NewAdapter(ctx, cfg, logger)
		},
		SchemaDiscovererFactory: func(ctx context.Context, config *datasource.Config, logger *zap.Logger) (datasource.SchemaDiscoverer, error) {
			cfg, err := FromDatasourceConfig(config)
			if err != nil {
				return nil, err
			}
			return NewSchemaDiscoverer(ctx, cfg, logger)
		},
	})
}
