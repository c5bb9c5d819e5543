package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/ekaya-inc/ekaya-querygrid/pkg/adapters/datasource"
)

// SupportedDatasourceTypes lists the datasource types the service knows how
// to configure. Whether an adapter is compiled in is checked at startup.
var SupportedDatasourceTypes = []string{"postgres", "mssql", "mysql", "sqlite", "duckdb"}

// Config holds all configuration for ekaya-querygrid.
// Configuration can come from YAML file (config.yaml), a .env file, or
// environment variables. Environment variables always override YAML values.
// Secrets (passwords) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"5111"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// TLS configuration (optional - if both provided, server uses HTTPS)
	TLSCertPath string `yaml:"tls_cert_path" env:"TLS_CERT_PATH" env-default:""`
	TLSKeyPath  string `yaml:"tls_key_path" env:"TLS_KEY_PATH" env-default:""`

	// File-backed query and dashboard storage
	Storage StorageConfig `yaml:"storage"`

	// The database users build queries against
	Datasource DatasourceConfig `yaml:"datasource"`
}

// StorageConfig holds the on-disk locations of saved queries and dashboards.
type StorageConfig struct {
	QueriesDir        string `yaml:"queries_dir" env:"QUERIES_DIR" env-default:"Queries"`
	DashboardsDir     string `yaml:"dashboards_dir" env:"DASHBOARDS_DIR" env-default:"Dashboards"`
	AllowedTablesPath string `yaml:"allowed_tables_path" env:"ALLOWED_TABLES_PATH" env-default:"Schema/allowed_tables.yaml"`
}

// DatasourceConfig holds the connection settings of the queried database.
type DatasourceConfig struct {
	Type     string `yaml:"type" env:"DATASOURCE_TYPE" env-default:"postgres"`
	Host     string `yaml:"host" env:"DATASOURCE_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"DATASOURCE_PORT" env-default:"0"` // 0 selects the adapter default
	User     string `yaml:"user" env:"DATASOURCE_USER" env-default:""`
	Password string `yaml:"-" env:"DATASOURCE_PASSWORD"` // Secret - not in YAML
	Database string `yaml:"database" env:"DATASOURCE_DATABASE" env-default:""`
	Schema   string `yaml:"schema" env:"DATASOURCE_SCHEMA" env-default:""` // empty selects the adapter default
	SSLMode  string `yaml:"ssl_mode" env:"DATASOURCE_SSL_MODE" env-default:"disable"`
	Path     string `yaml:"path" env:"DATASOURCE_PATH" env-default:""` // sqlite / duckdb file
}

// Load reads .env (if present) and config.yaml with environment variable overrides.
// The version parameter is injected at build time and set on the returned Config.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	// A missing .env is normal outside local development
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		return nil, fmt.Errorf("failed to read config.yaml: %w", err)
	}

	if err := cfg.validateStorage(); err != nil {
		return nil, fmt.Errorf("invalid storage configuration: %w", err)
	}

	if err := cfg.validateDatasource(); err != nil {
		return nil, fmt.Errorf("invalid datasource configuration: %w", err)
	}

	if err := cfg.validateTLS(); err != nil {
		return nil, fmt.Errorf("invalid TLS configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) validateStorage() error {
	if strings.TrimSpace(c.Storage.QueriesDir) == "" {
		return fmt.Errorf("queries_dir must not be empty")
	}
	if strings.TrimSpace(c.Storage.DashboardsDir) == "" {
		return fmt.Errorf("dashboards_dir must not be empty")
	}
	return nil
}

func (c *Config) validateDatasource() error {
	ds := &c.Datasource
	ds.Type = strings.ToLower(strings.TrimSpace(ds.Type))

	known := false
	for _, t := range SupportedDatasourceTypes {
		if ds.Type == t {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown datasource type %q (supported: %s)", ds.Type, strings.Join(SupportedDatasourceTypes, ", "))
	}

	if (ds.Type == "sqlite" || ds.Type == "duckdb") && ds.Path == "" {
		return fmt.Errorf("datasource path is required for %s", ds.Type)
	}
	return nil
}

// validateTLS ensures TLS configuration is valid if provided.
// Both cert and key must be provided together, and files must exist.
func (c *Config) validateTLS() error {
	certSet := c.TLSCertPath != ""
	keySet := c.TLSKeyPath != ""

	if certSet != keySet {
		return fmt.Errorf("both tls_cert_path and tls_key_path must be provided together")
	}

	// Readability is checked by tls.LoadX509KeyPair at startup
	if certSet {
		if _, err := os.Stat(c.TLSCertPath); err != nil {
			return fmt.Errorf("TLS cert file does not exist: %w", err)
		}
		if _, err := os.Stat(c.TLSKeyPath); err != nil {
			return fmt.Errorf("TLS key file does not exist: %w", err)
		}
	}

	return nil
}

// TLSEnabled reports whether the server should serve HTTPS.
func (c *Config) TLSEnabled() bool {
	return c.TLSCertPath != "" && c.TLSKeyPath != ""
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return c.BindAddr + ":" + c.Port
}

// AdapterConfig converts the datasource settings to the adapter config type.
func (c *DatasourceConfig) AdapterConfig() *datasource.Config {
	return &datasource.Config{
		Type:     c.Type,
		Host:     c.Host,
		Port:     c.Port,
		User:     c.User,
		Password: c.Password,
		Database: c.Database,
		Schema:   c.Schema,
		SSLMode:  c.SSLMode,
		Path:     c.Path,
	}
}
