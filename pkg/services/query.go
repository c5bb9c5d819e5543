package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-querygrid/pkg/adapters/datasource"
	"github.com/ekaya-inc/ekaya-querygrid/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-querygrid/pkg/logging"
	"github.com/ekaya-inc/ekaya-querygrid/pkg/models"
	"github.com/ekaya-inc/ekaya-querygrid/pkg/repositories"
	sqlutil "github.com/ekaya-inc/ekaya-querygrid/pkg/sql"
)

// QueryService builds, stores and removes query definitions.
type QueryService interface {
	// Create sanitizes the selection, builds the SELECT statement, resolves
	// column types and persists the definition.
	Create(ctx context.Context, req *CreateQueryRequest) (*CreateQueryResult, error)
	Get(ctx context.Context, id uuid.UUID) (*models.QueryDefinition, error)
	List(ctx context.Context, filter ListQueriesFilter) ([]models.QuerySummary, error)
	// Delete removes the definition and its dashboard artifact.
	Delete(ctx context.Context, id uuid.UUID) (*models.DeleteResult, error)
}

// CreateQueryRequest is a table and column selection to save.
// A nil ID asks the service to generate one.
type CreateQueryRequest struct {
	ID           uuid.UUID `json:"id"`
	FriendlyName string    `json:"friendlyName"`
	Description  string    `json:"description"`
	TableName    string    `json:"tableName"`
	Fields       []string  `json:"fields"`
}

// CreateQueryResult is the saved definition and the file it was written to.
type CreateQueryResult struct {
	Query    *models.QueryDefinition
	FileName string
}

// ListQueriesFilter narrows a listing. Empty values match everything.
type ListQueriesFilter struct {
	// Search is a case-insensitive substring of the name, description or table.
	Search string
	// TableName matches the stored table name exactly, ignoring case and quotes.
	TableName string
}

type queryService struct {
	queryRepo repositories.QueryRepository
	resolver  datasource.SchemaResolver
	now       func() time.Time
	logger    *zap.Logger
}

// NewQueryService creates a QueryService.
func NewQueryService(
	queryRepo repositories.QueryRepository,
	resolver datasource.SchemaResolver,
	logger *zap.Logger,
) QueryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &queryService{
		queryRepo: queryRepo,
		resolver:  resolver,
		now:       time.Now,
		logger:    logger.Named("query-service"),
	}
}

var _ QueryService = (*queryService)(nil)

func (s *queryService) Create(ctx context.Context, req *CreateQueryRequest) (*CreateQueryResult, error) {
	if len(req.Fields) == 0 {
		return nil, apperrors.NewValidationError("fields", "Fields array cannot be empty.")
	}
	if strings.TrimSpace(req.TableName) == "" {
		return nil, apperrors.NewValidationError("tableName", "Table name is required.")
	}
	if strings.TrimSpace(req.FriendlyName) == "" {
		return nil, apperrors.NewValidationError("friendlyName", "Friendly name is required.")
	}

	for _, hit := range sqlutil.CheckSelection(req.TableName, req.Fields) {
		s.logger.Warn("SQL injection pattern in query selection",
			zap.String("kind", hit.Kind),
			zap.String("value", hit.Value),
			zap.String("fingerprint", hit.Fingerprint))
	}

	fields := sqlutil.SanitizeFields(req.Fields)
	if len(fields) == 0 {
		return nil, apperrors.NewValidationError("fields", sqlutil.ErrNoValidFields.Error())
	}

	table := sqlutil.StripTableQuotes(strings.TrimSpace(req.TableName))
	if err := sqlutil.ValidateTableName(table); err != nil {
		return nil, apperrors.NewValidationError("tableName", err.Error())
	}

	query, err := sqlutil.BuildSelect(fields, table)
	if err != nil {
		return nil, apperrors.NewValidationError("query", err.Error())
	}

	columns, err := s.resolver.ResolveColumns(ctx, table, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve columns for %s: %w", table, err)
	}
	if len(columns) == 0 {
		s.logger.Warn("No selected fields resolved to table columns",
			zap.String("table", table),
			zap.Strings("fields", fields))
	}

	id := req.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	now := s.now().UTC()
	q := &models.QueryDefinition{
		ID:           id,
		FriendlyName: strings.TrimSpace(req.FriendlyName),
		Description:  req.Description,
		TableName:    req.TableName,
		Fields:       fields,
		Columns:      columns,
		Query:        query,
		DateAdded:    now,
		DateUpdated:  now,
		Version:      models.QueryRecordVersion,
	}
	if q.Columns == nil {
		q.Columns = []models.ColumnMetadata{}
	}

	fileName, err := s.queryRepo.Save(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to save query: %w", err)
	}

	s.logger.Info("Saved query",
		zap.String("query_id", id.String()),
		zap.String("table", table),
		zap.Int("fields", len(fields)),
		zap.Int("columns", len(columns)),
		zap.String("query", logging.SanitizeQuery(query)))

	return &CreateQueryResult{Query: q, FileName: fileName}, nil
}

func (s *queryService) Get(ctx context.Context, id uuid.UUID) (*models.QueryDefinition, error) {
	q, err := s.queryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get query %s: %w", id, err)
	}
	return q, nil
}

func (s *queryService) List(ctx context.Context, filter ListQueriesFilter) ([]models.QuerySummary, error) {
	summaries, err := s.queryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list queries: %w", err)
	}

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	table := sqlutil.StripTableQuotes(strings.TrimSpace(filter.TableName))
	if search == "" && table == "" {
		return summaries, nil
	}

	matched := make([]models.QuerySummary, 0, len(summaries))
	for _, q := range summaries {
		if table != "" && !strings.EqualFold(sqlutil.StripTableQuotes(q.TableName), table) {
			continue
		}
		if search != "" && !containsFold(search, q.FriendlyName, q.Description, q.TableName) {
			continue
		}
		matched = append(matched, q)
	}
	return matched, nil
}

// containsFold reports whether any value contains the lower-cased needle.
func containsFold(needle string, values ...string) bool {
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return false
}

func (s *queryService) Delete(ctx context.Context, id uuid.UUID) (*models.DeleteResult, error) {
	result, err := s.queryRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to delete query %s: %w", id, err)
	}
	return result, nil
}
