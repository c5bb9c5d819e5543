package datasource

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// DatasourceAdapterFactory creates adapters from the registry.
type DatasourceAdapterFactory interface {
	// NewConnectionTester creates a connection tester for the configured datasource type.
	NewConnectionTester(ctx context.Context, cfg *Config) (ConnectionTester, error)

	// NewSchemaDiscoverer creates a schema discoverer for the configured datasource type.
	NewSchemaDiscoverer(ctx context.Context, cfg *Config) (SchemaDiscoverer, error)

	// ListTypes returns info for all registered adapter types.
	ListTypes() []DatasourceAdapterInfo
}

type registryFactory struct {
	logger *zap.Logger
}

// NewDatasourceAdapterFactory returns a factory that uses the global registry.
func NewDatasourceAdapterFactory(logger *zap.Logger) DatasourceAdapterFactory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &registryFactory{
		logger: logger,
	}
}

func (f *registryFactory) NewConnectionTester(ctx context.Context, cfg *Config) (ConnectionTester, error) {
	factory := GetFactory(cfg.Type)
	if factory == nil {
		return nil, fmt.Errorf("unsupported datasource type: %s (not compiled in)", cfg.Type)
	}
	return factory(ctx, cfg, f.logger.Named(cfg.Type))
}

func (f *registryFactory) NewSchemaDiscoverer(ctx context.Context, cfg *Config) (SchemaDiscoverer, error) {
	factory := GetSchemaDiscovererFactory(cfg.Type)
	if factory == nil {
		return nil, fmt.Errorf("schema discovery not supported for type: %s", cfg.Type)
	}
	return factory(ctx, cfg, f.logger.Named(cfg.Type))
}

func (f *registryFactory) ListTypes() []DatasourceAdapterInfo {
	return RegisteredAdapters()
}

// Ensure registryFactory implements DatasourceAdapterFactory at compile time.
var _ DatasourceAdapterFactory = (*registryFactory)(nil)
