package postgres

import (
	"fmt"

	"github.com/ekaya-inc/ekaya-querygrid/pkg/adapters/datasource"
)

// Config contains PostgreSQL-specific connection options.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string // "disable", "require", "verify-ca", "verify-full"
}

// DefaultPort returns the default PostgreSQL port.
func DefaultPort() int {
	return 5432
}

// DefaultSSLMode returns the default SSL mode.
func DefaultSSLMode() string {
	return "require"
}

// DefaultSchema is the schema assumed for unqualified table names.
const DefaultSchema = "public"

// FromDatasourceConfig creates a Config from the generic datasource config.
func FromDatasourceConfig(ds *datasource.Config) (*Config, error) {
	cfg := &Config{
		Host:     ds.Host,
		Port:     ds.Port,
		User:     ds.User,
		Password: ds.Password,
		Database: ds.Database,
		SSLMode:  ds.SSLMode,
	}

	if cfg.Host == "" {
		return nil, fmt.Errorf("host is required")
	}
	if cfg.User == "" {
		return nil, fmt.Errorf("user is required")
	}
	if cfg.Database == "" {
		return nil, fmt.Errorf("database is required")
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort()
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = DefaultSSLMode()
	}

	return cfg, nil
}
