package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-querygrid/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-querygrid/pkg/models"
	"github.com/ekaya-inc/ekaya-querygrid/pkg/repositories"
)

// Grid layout applied to every generated dashboard.
const (
	gridVisualizationType = "grid"
	gridColumnSpan        = 3
	gridRowSpan           = 4
	gridFontSize          = "small"
	gridPageSize          = 30
)

// DashboardService generates grid dashboards from saved query definitions.
type DashboardService interface {
	// GenerateGrid writes the user_<id>.rdash artifact for a saved query,
	// replacing any earlier artifact.
	GenerateGrid(ctx context.Context, queryID uuid.UUID) (*GenerateDashboardResult, error)
	ListDashboards(ctx context.Context) ([]models.DashboardName, error)
}

// GenerateDashboardResult identifies a generated artifact.
type GenerateDashboardResult struct {
	DashboardID string
	FileName    string
	Title       string
}

type dashboardService struct {
	queryRepo     repositories.QueryRepository
	dashboardRepo repositories.DashboardRepository
	source        models.DashboardSource
	now           func() time.Time
	logger        *zap.Logger
}

// NewDashboardService creates a DashboardService. Generated dashboards read
// from source.
func NewDashboardService(
	queryRepo repositories.QueryRepository,
	dashboardRepo repositories.DashboardRepository,
	source models.DashboardSource,
	logger *zap.Logger,
) DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &dashboardService{
		queryRepo:     queryRepo,
		dashboardRepo: dashboardRepo,
		source:        source,
		now:           time.Now,
		logger:        logger.Named("dashboard-service"),
	}
}

var _ DashboardService = (*dashboardService)(nil)

func (s *dashboardService) GenerateGrid(ctx context.Context, queryID uuid.UUID) (*GenerateDashboardResult, error) {
	q, err := s.queryRepo.GetByID(ctx, queryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load query %s: %w", queryID, err)
	}

	if len(q.Columns) == 0 {
		return nil, apperrors.NewValidationError("columns", "query metadata is missing column information")
	}

	dashboard := s.buildGrid(q)
	fileName, err := s.dashboardRepo.Save(ctx, dashboard)
	if err != nil {
		return nil, fmt.Errorf("failed to save dashboard for query %s: %w", queryID, err)
	}

	s.logger.Info("Generated grid dashboard",
		zap.String("query_id", queryID.String()),
		zap.String("file", fileName))

	return &GenerateDashboardResult{
		DashboardID: dashboard.ID,
		FileName:    fileName,
		Title:       dashboard.Title,
	}, nil
}

func (s *dashboardService) buildGrid(q *models.QueryDefinition) *models.GridDashboard {
	fields := make([]models.DashboardField, 0, len(q.Columns))
	for _, c := range q.Columns {
		fields = append(fields, models.DashboardField{
			Name:  c.ColumnName,
			Label: c.ColumnName,
			Kind:  c.CanonicalDataType.FieldKind(),
		})
	}

	subtitle := q.Description
	if subtitle == "" {
		subtitle = "Data from " + q.TableName
	}
	description := q.Description
	if description == "" {
		description = "Grid visualization for " + q.TableName
	}

	columns := make([]string, len(q.Fields))
	copy(columns, q.Fields)

	return &models.GridDashboard{
		ID:         models.DashboardID(q.ID),
		Title:      q.FriendlyName,
		DataSource: s.source,
		DataSourceItem: models.DashboardSourceRef{
			ID:       q.ID.String(),
			Title:    q.FriendlyName,
			Subtitle: subtitle,
			Fields:   fields,
		},
		Visualization: models.GridVisualization{
			Type:         gridVisualizationType,
			ID:           q.ID.String(),
			Title:        q.FriendlyName,
			Description:  description,
			ColumnSpan:   gridColumnSpan,
			RowSpan:      gridRowSpan,
			TitleVisible: true,
			Columns:      columns,
			Settings: models.GridSettings{
				FontSize:         gridFontSize,
				PageSize:         gridPageSize,
				PagingEnabled:    true,
				FirstColumnFixed: true,
			},
		},
		CreatedAt: s.now().UTC(),
	}
}

func (s *dashboardService) ListDashboards(ctx context.Context) ([]models.DashboardName, error) {
	names, err := s.dashboardRepo.ListNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list dashboards: %w", err)
	}
	return names, nil
}
