package datasource

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// DatasourceAdapterInfo describes a registered adapter.
type DatasourceAdapterInfo struct {
	Type          string `json:"type"`         // "postgres", "mssql", "mysql", "sqlite", "duckdb"
	DisplayName   string `json:"display_name"` // "PostgreSQL", "Microsoft SQL Server"
	Description   string `json:"description"`
	DefaultSchema string `json:"default_schema"` // schema assumed for unqualified table names
}

// ConnectionTesterFactory creates a ConnectionTester from datasource config.
type ConnectionTesterFactory func(ctx context.Context, cfg *Config, logger *zap.Logger) (ConnectionTester, error)

// SchemaDiscovererFactory creates a SchemaDiscoverer from datasource config.
type SchemaDiscovererFactory func(ctx context.Context, cfg *Config, logger *zap.Logger) (SchemaDiscoverer, error)

// DatasourceAdapterRegistration contains info + factories for creating adapters.
type DatasourceAdapterRegistration struct {
	Info                    DatasourceAdapterInfo
	Factory                 ConnectionTesterFactory
	SchemaDiscovererFactory SchemaDiscovererFactory
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]DatasourceAdapterRegistration)
)

// Register is called by each adapter's init() function.
// Thread-safe for concurrent init() calls.
func Register(reg DatasourceAdapterRegistration) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[reg.Info.Type] = reg
}

// RegisteredAdapters returns info for all registered adapters, sorted by type.
func RegisteredAdapters() []DatasourceAdapterInfo {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]DatasourceAdapterInfo, 0, len(registry))
	for _, reg := range registry {
		result = append(result, reg.Info)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Type < result[j].Type })
	return result
}

// GetAdapterInfo returns the info for a datasource type.
func GetAdapterInfo(dsType string) (DatasourceAdapterInfo, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	reg, ok := registry[dsType]
	return reg.Info, ok
}

// GetFactory returns the connection tester factory for a datasource type.
// Returns nil if type is not registered.
func GetFactory(dsType string) ConnectionTesterFactory {
	registryMu.RLock()
	defer registryMu.RUnlock()

	if reg, ok := registry[dsType]; ok {
		return reg.Factory
	}
	return nil
}

// GetSchemaDiscovererFactory returns the schema discoverer factory for a datasource type.
// Returns nil if type is not registered or doesn't support schema discovery.
func GetSchemaDiscovererFactory(dsType string) SchemaDiscovererFactory {
	registryMu.RLock()
	defer registryMu.RUnlock()

	if reg, ok := registry[dsType]; ok {
		return reg.SchemaDiscovererFactory
	}
	return nil
}

// IsRegistered checks if an adapter type is available.
func IsRegistered(dsType string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[dsType]
	return ok
}
