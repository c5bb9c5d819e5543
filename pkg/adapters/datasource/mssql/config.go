package mssql

import (
	"fmt"

	"github.com/ekaya-inc/ekaya-querygrid/pkg/adapters/datasource"
)

// Config contains SQL Server-specific connection options.
// Only SQL authentication is supported.
type Config struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string

	// Connection options
	Encrypt                bool
	TrustServerCertificate bool
	ConnectionTimeout      int
}

// DefaultPort returns the default SQL Server port.
func DefaultPort() int {
	return 1433
}

// DefaultConnectionTimeout returns the default connection timeout in seconds.
func DefaultConnectionTimeout() int {
	return 30
}

// DefaultSchema is the schema assumed for unqualified table names.
const DefaultSchema = "dbo"

// FromDatasourceConfig creates a Config from the generic datasource config.
// The ssl_mode setting maps onto the driver's encryption options:
// "disable" turns encryption off, "require" encrypts without verifying the
// server certificate, anything else encrypts and verifies.
func FromDatasourceConfig(ds *datasource.Config) (*Config, error) {
	cfg := &Config{
		Host:              ds.Host,
		Port:              ds.Port,
		Database:          ds.Database,
		Username:          ds.User,
		Password:          ds.Password,
		Encrypt:           true,
		ConnectionTimeout: DefaultConnectionTimeout(),
	}

	if cfg.Port == 0 {
		cfg.Port = DefaultPort()
	}

	switch ds.SSLMode {
	case "disable":
		cfg.Encrypt = false
	case "", "require":
		cfg.TrustServerCertificate = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if the config has all required fields.
func (c *Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("host is required")
	}
	if c.Database == "" {
		return fmt.Errorf("database is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.Username == "" {
		return fmt.Errorf("username is required for SQL authentication")
	}
	return nil
}
