package handlers

import (
	"context"

	"github.com/google/uuid"

	"github.com/ekaya-inc/ekaya-querygrid/pkg/models"
	"github.com/ekaya-inc/ekaya-querygrid/pkg/services"
)

type mockQueryService struct {
	createReq    *services.CreateQueryRequest
	createResult *services.CreateQueryResult
	createErr    error

	query  *models.QueryDefinition
	getErr error

	listFilter services.ListQueriesFilter
	summaries  []models.QuerySummary
	listErr    error

	deleteResult *models.DeleteResult
	deleteErr    error
}

func (m *mockQueryService) Create(ctx context.Context, req *services.CreateQueryRequest) (*services.CreateQueryResult, error) {
	m.createReq = req
	return m.createResult, m.createErr
}

func (m *mockQueryService) Get(ctx context.Context, id uuid.UUID) (*models.QueryDefinition, error) {
	return m.query, m.getErr
}

func (m *mockQueryService) List(ctx context.Context, filter services.ListQueriesFilter) ([]models.QuerySummary, error) {
	m.listFilter = filter
	return m.summaries, m.listErr
}

func (m *mockQueryService) Delete(ctx context.Context, id uuid.UUID) (*models.DeleteResult, error) {
	return m.deleteResult, m.deleteErr
}

type mockDashboardService struct {
	result    *services.GenerateDashboardResult
	err       error
	names     []models.DashboardName
	namesErr  error
	requested uuid.UUID
}

func (m *mockDashboardService) GenerateGrid(ctx context.Context, queryID uuid.UUID) (*services.GenerateDashboardResult, error) {
	m.requested = queryID
	return m.result, m.err
}

func (m *mockDashboardService) ListDashboards(ctx context.Context) ([]models.DashboardName, error) {
	return m.names, m.namesErr
}

type mockSchemaService struct {
	schema    *models.TableSchema
	schemaErr error
	table     string
	allowed   []models.AllowedTable
	allowErr  error
}

func (m *mockSchemaService) GetTableSchema(ctx context.Context, tableName string) (*models.TableSchema, error) {
	m.table = tableName
	return m.schema, m.schemaErr
}

func (m *mockSchemaService) AllowedTables(ctx context.Context) ([]models.AllowedTable, error) {
	return m.allowed, m.allowErr
}

func (m *mockSchemaService) Watch(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

type mockConnectionTester struct {
	err error
}

func (m *mockConnectionTester) TestConnection(ctx context.Context) error { return m.err }
func (m *mockConnectionTester) Close() error                             { return nil }
