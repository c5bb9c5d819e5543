package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-querygrid/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-querygrid/pkg/models"
)

func newSchemaMux(svc *mockSchemaService) *http.ServeMux {
	mux := http.NewServeMux()
	NewSchemaHandler(svc, zap.NewNop()).RegisterRoutes(mux)
	return mux
}

func TestSchemaHandler_TableSchema(t *testing.T) {
	svc := &mockSchemaService{schema: &models.TableSchema{
		TableName: "customers",
		Columns: []models.TableColumn{
			{ColumnName: "id", DataType: "integer", CanonicalDataType: models.CanonicalNumber},
		},
	}}

	rec := serve(newSchemaMux(svc), http.MethodGet, "/api/table-schema/customers", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "customers", svc.table)
	assert.JSONEq(t, `{"tableName":"customers","columns":[
		{"columnName":"id","dataType":"integer","isNullable":false,"maxLength":null,"canonicalDataType":"Number"}
	]}`, rec.Body.String())
}

func TestSchemaHandler_TableSchema_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", apperrors.NewValidationError("tableName", "invalid table name"), http.StatusBadRequest},
		{"not found", apperrors.ErrNotFound, http.StatusNotFound},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(newSchemaMux(&mockSchemaService{schemaErr: tt.err}), http.MethodGet, "/api/table-schema/x", "")
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestSchemaHandler_AllowedTables(t *testing.T) {
	svc := &mockSchemaService{allowed: []models.AllowedTable{
		{Name: "customers", Type: "table", DisplayName: "Customers"},
	}}

	rec := serve(newSchemaMux(svc), http.MethodGet, "/api/allowed-tables", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"name":"customers","type":"table","displayName":"Customers","description":""}]`, rec.Body.String())
}

func TestSchemaHandler_AllowedTables_Missing(t *testing.T) {
	rec := serve(newSchemaMux(&mockSchemaService{allowErr: apperrors.ErrNotFound}), http.MethodGet, "/api/allowed-tables", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Allowed tables file not found", decodeError(t, rec)["message"])
}
