package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/jinzhu/inflection"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ekaya-inc/ekaya-querygrid/pkg/adapters/datasource"
	"github.com/ekaya-inc/ekaya-querygrid/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-querygrid/pkg/models"
	sqlutil "github.com/ekaya-inc/ekaya-querygrid/pkg/sql"
)

// SchemaService exposes table schemas and the tables offered for query building.
type SchemaService interface {
	// GetTableSchema returns every column of a table.
	// Returns apperrors.ErrNotFound if the table has no columns.
	GetTableSchema(ctx context.Context, tableName string) (*models.TableSchema, error)

	// AllowedTables returns the configured table list. Entries the datasource
	// does not have are logged and kept.
	// Returns apperrors.ErrNotFound if the list file does not exist.
	AllowedTables(ctx context.Context) ([]models.AllowedTable, error)

	// Watch drops the cached table list whenever the list file changes.
	// Blocks until ctx is cancelled.
	Watch(ctx context.Context) error
}

type allowedTablesFile struct {
	AllowedTables []models.AllowedTable `yaml:"allowed_tables"`
}

type schemaService struct {
	catalog           datasource.TableCatalog
	allowedTablesPath string
	logger            *zap.Logger

	mu         sync.RWMutex
	allowed    []models.AllowedTable // nil until loaded
	generation uint64                // bumped by invalidate
}

// NewSchemaService creates a SchemaService reading the table list from allowedTablesPath.
func NewSchemaService(
	catalog datasource.TableCatalog,
	allowedTablesPath string,
	logger *zap.Logger,
) SchemaService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &schemaService{
		catalog:           catalog,
		allowedTablesPath: filepath.Clean(allowedTablesPath),
		logger:            logger.Named("schema-service"),
	}
}

var _ SchemaService = (*schemaService)(nil)

func (s *schemaService) GetTableSchema(ctx context.Context, tableName string) (*models.TableSchema, error) {
	table := sqlutil.StripTableQuotes(strings.TrimSpace(tableName))
	if table == "" {
		return nil, apperrors.NewValidationError("tableName", "Table name is required.")
	}
	if err := sqlutil.ValidateTableName(table); err != nil {
		return nil, apperrors.NewValidationError("tableName", err.Error())
	}

	schema, err := s.catalog.DescribeTable(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("failed to describe table %s: %w", table, err)
	}
	if len(schema.Columns) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return schema, nil
}

func (s *schemaService) AllowedTables(ctx context.Context) ([]models.AllowedTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	cached, generation := s.allowed, s.generation
	s.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	tables, err := s.loadAllowedTables()
	if err != nil {
		return nil, err
	}
	s.warnMissingTables(ctx, tables)

	// A change seen while loading makes this list stale; serve it but don't cache it.
	s.mu.Lock()
	if s.generation == generation {
		s.allowed = tables
	}
	s.mu.Unlock()

	return tables, nil
}

func (s *schemaService) warnMissingTables(ctx context.Context, tables []models.AllowedTable) {
	if len(tables) == 0 {
		return
	}
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.Name
	}

	missing, err := s.catalog.MissingTables(ctx, names)
	if err != nil {
		s.logger.Warn("Could not check allowed tables against the datasource", zap.Error(err))
		return
	}
	if len(missing) > 0 {
		s.logger.Warn("Allowed tables not found in the datasource",
			zap.String("path", s.allowedTablesPath),
			zap.Strings("tables", missing))
	}
}

func (s *schemaService) loadAllowedTables() ([]models.AllowedTable, error) {
	data, err := os.ReadFile(s.allowedTablesPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read allowed tables: %w", err)
	}

	var file allowedTablesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse allowed tables %s: %w", s.allowedTablesPath, err)
	}

	tables := make([]models.AllowedTable, 0, len(file.AllowedTables))
	for _, t := range file.AllowedTables {
		if strings.TrimSpace(t.Name) == "" {
			s.logger.Warn("Skipping allowed table entry without a name")
			continue
		}
		if t.DisplayName == "" {
			t.DisplayName = displayNameFor(t.Name)
		}
		tables = append(tables, t)
	}

	s.logger.Debug("Loaded allowed tables",
		zap.String("path", s.allowedTablesPath),
		zap.Int("count", len(tables)))

	return tables, nil
}

// displayNameFor turns a table name into a plural title.
// Examples: "customer" -> "Customers", "sales.order_line" -> "Order Lines"
func displayNameFor(tableName string) string {
	name := tableName
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[idx+1:]
	}

	words := strings.Fields(strings.ReplaceAll(name, "_", " "))
	if len(words) == 0 {
		return tableName
	}
	words[len(words)-1] = inflection.Plural(words[len(words)-1])

	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func (s *schemaService) invalidate() {
	s.mu.Lock()
	s.allowed = nil
	s.generation++
	s.mu.Unlock()
}

func (s *schemaService) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Editors replace files by rename, so watch the directory.
	dir := filepath.Dir(s.allowedTablesPath)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != s.allowedTablesPath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			s.invalidate()
			s.logger.Debug("Allowed tables file changed",
				zap.String("path", event.Name),
				zap.String("op", event.Op.String()))

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("File watcher error", zap.Error(err))
		}
	}
}
