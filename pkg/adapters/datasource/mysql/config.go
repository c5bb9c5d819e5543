package mysql

import (
	"fmt"
	"net"
	"strconv"

	"github.com/go-sql-driver/mysql"

	"github.com/ekaya-inc/ekaya-querygrid/pkg/adapters/datasource"
	"github.com/ekaya-inc/ekaya-querygrid/pkg/config"
)

// Config contains MySQL-specific connection options.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	TLS      string // "false", "skip-verify", "true"
}

// DefaultPort returns the default MySQL port.
func DefaultPort() int {
	return 3306
}

// FromDatasourceConfig creates a Config from the generic datasource config.
func FromDatasourceConfig(ds *datasource.Config) (*Config, error) {
	cfg := &Config{
		Host:     ds.Host,
		Port:     ds.Port,
		User:     ds.User,
		Password: ds.Password,
		Database: ds.Database,
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

	switch ds.SSLMode {
	case "", "disable":
		cfg.TLS = "false"
	case "require":
		cfg.TLS = "skip-verify"
	default:
		cfg.TLS = "true"
	}

	return cfg, nil
}

// DSN renders the driver connection string.
func (c *Config) DSN() string {
	mc := mysql.NewConfig()
	mc.User = c.User
	mc.Passwd = c.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(config.ResolveHostForDocker(c.Host), strconv.Itoa(c.Port))
	mc.DBName = c.Database
	mc.ParseTime = true
	if c.TLS != "" && c.TLS != "false" {
		mc.TLSConfig = c.TLS
	}
	return mc.FormatDSN()
}
