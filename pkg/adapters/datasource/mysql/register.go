package mysql

import (
	"context"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-querygrid/pkg/adapters/datasource"
)

func init() {
	datasource.Register(datasource.DatasourceAdapterRegistration{
		Info: datasource.DatasourceAdapterInfo{
			Type:        "mysql",
			DisplayName: "MySQL",
			Description: "Connect to MySQL 8+, MariaDB, TiDB",
			// Empty: unqualified names resolve in the connection's database
			DefaultSchema: "",
		},
		Factory: func(ctx context.Context, config *datasource.Config, logger *zap.Logger) (datasource.ConnectionTester, error) {
			cfg, err := FromDatasourceConfig(config)
			if err != nil {
				return nil, err
			}
			return NewSchemaDiscoverer(ctx, cfg, logger)
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
