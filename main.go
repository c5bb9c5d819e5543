package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-querygrid/pkg/adapters/datasource"
	_ "github.com/ekaya-inc/ekaya-querygrid/pkg/adapters/datasource/duckdb"
	_ "github.com/ekaya-inc/ekaya-querygrid/pkg/adapters/datasource/mssql"
	_ "github.com/ekaya-inc/ekaya-querygrid/pkg/adapters/datasource/mysql"
	_ "github.com/ekaya-inc/ekaya-querygrid/pkg/adapters/datasource/postgres"
	_ "github.com/ekaya-inc/ekaya-querygrid/pkg/adapters/datasource/sqlite"
	"github.com/ekaya-inc/ekaya-querygrid/pkg/config"
	"github.com/ekaya-inc/ekaya-querygrid/pkg/handlers"
	"github.com/ekaya-inc/ekaya-querygrid/pkg/middleware"
	"github.com/ekaya-inc/ekaya-querygrid/pkg/models"
	"github.com/ekaya-inc/ekaya-querygrid/pkg/repositories"
	"github.com/ekaya-inc/ekaya-querygrid/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dsType := cfg.Datasource.Type
	info, ok := datasource.GetAdapterInfo(dsType)
	if !ok {
		logger.Error("Datasource adapter not compiled in",
			zap.String("type", dsType),
			zap.Any("available", datasource.RegisteredAdapters()))
		return errors.New("unsupported datasource type: " + dsType)
	}

	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("version", cfg.Version),
		zap.String("datasource", dsType),
		zap.String("queries_dir", cfg.Storage.QueriesDir),
		zap.String("dashboards_dir", cfg.Storage.DashboardsDir))

	adapterCfg := cfg.Datasource.AdapterConfig()
	factory := datasource.NewDatasourceAdapterFactory(logger)

	discoverer, err := factory.NewSchemaDiscoverer(ctx, adapterCfg)
	if err != nil {
		return err
	}
	defer func() { _ = discoverer.Close() }()

	tester, err := factory.NewConnectionTester(ctx, adapterCfg)
	if err != nil {
		return err
	}
	defer func() { _ = tester.Close() }()

	resolver := datasource.NewColumnResolver(discoverer, adapterCfg.DefaultSchema(info.DefaultSchema), logger.Named("resolver"))

	queryRepo := repositories.NewQueryRepository(cfg.Storage.QueriesDir, cfg.Storage.DashboardsDir, logger)
	dashboardRepo := repositories.NewDashboardRepository(cfg.Storage.DashboardsDir, logger)

	queryService := services.NewQueryService(queryRepo, resolver, logger)
	dashboardService := services.NewDashboardService(queryRepo, dashboardRepo, models.DashboardSource{
		Title: info.DisplayName + " Database",
		Type:  info.Type,
	}, logger)
	schemaService := services.NewSchemaService(resolver, cfg.Storage.AllowedTablesPath, logger)

	go func() {
		if err := schemaService.Watch(ctx); err != nil {
			logger.Warn("Allowed tables file is not watched; changes need a restart", zap.Error(err))
		}
	}()

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, tester, logger).RegisterRoutes(mux)
	handlers.NewQueriesHandler(queryService, logger).RegisterRoutes(mux)
	handlers.NewDashboardsHandler(dashboardService, logger).RegisterRoutes(mux)
	handlers.NewSchemaHandler(schemaService, logger).RegisterRoutes(mux)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           middleware.Chain(mux, middleware.Recoverer(logger), middleware.RequestLogger(logger)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting ekaya-querygrid",
			zap.String("addr", srv.Addr),
			zap.Bool("tls", cfg.TLSEnabled()),
			zap.String("version", cfg.Version))

		var err error
		if cfg.TLSEnabled() {
			err = srv.ListenAndServeTLS(cfg.TLSCertPath, cfg.TLSKeyPath)
		} else {
			err = srv.ListenAndServe()
		}
		if !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("Server exited")
	return nil
}
