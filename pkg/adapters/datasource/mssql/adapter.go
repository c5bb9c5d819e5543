package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/microsoft/go-mssqldb" // SQL Server driver
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-querygrid/pkg/adapters/datasource"
	"github.com/ekaya-inc/ekaya-querygrid/pkg/config"
	"github.com/ekaya-inc/ekaya-querygrid/pkg/logging"
)

// Adapter provides SQL Server connectivity.
type Adapter struct {
	config *Config
	db     *sql.DB
}

// buildConnectionString builds a sqlserver:// URL for SQL authentication.
func buildConnectionString(cfg *Config) string {
	query := url.Values{}
	query.Add("database", cfg.Database)

	if cfg.Encrypt {
		query.Add("encrypt", "true")
	} else {
		query.Add("encrypt", "false")
	}

	if cfg.TrustServerCertificate {
		query.Add("TrustServerCertificate", "true")
	}

	if cfg.ConnectionTimeout > 0 {
		query.Add("connection timeout", fmt.Sprintf("%d", cfg.ConnectionTimeout))
	}

	return fmt.Sprintf("sqlserver://%s:%s@%s:%d?%s",
		url.QueryEscape(cfg.Username),
		url.QueryEscape(cfg.Password),
		config.ResolveHostForDocker(cfg.Host),
		cfg.Port,
		query.Encode(),
	)
}

// openDB opens and pings a SQL Server connection pool.
func openDB(ctx context.Context, cfg *Config, logger *zap.Logger) (*sql.DB, error) {
	connStr := buildConnectionString(cfg)
	logger.Debug("Opening SQL Server connection", zap.String("conn", logging.SanitizeConnectionString(connStr)))

	db, err := sql.Open("sqlserver", connStr)
	if err != nil {
		return nil, fmt.Errorf("open SQL auth connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connection test failed: %w", err)
	}

	return db, nil
}

// NewAdapter creates a SQL Server adapter with its own connection pool.
func NewAdapter(ctx context.Context, cfg *Config, logger *zap.Logger) (*Adapter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := openDB(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	return &Adapter{
		config: cfg,
		db:     db,
	}, nil
}

// TestConnection verifies the database is reachable with valid credentials
// and that the connection landed in the configured database.
func (a *Adapter) TestConnection(ctx context.Context) error {
	if err := a.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}

	var currentDB string
	if err := a.db.QueryRowContext(ctx, "SELECT DB_NAME()").Scan(&currentDB); err != nil {
		return fmt.Errorf("test query failed: %w", err)
	}

	if !strings.EqualFold(currentDB, a.config.Database) {
		return fmt.Errorf("connected to wrong database: expected %q but connected to %q", a.config.Database, currentDB)
	}

	return nil
}

// Close releases the connection pool.
func (a *Adapter) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// Ensure Adapter implements ConnectionTester at compile time.
var _ datasource.ConnectionTester = (*Adapter)(nil)
