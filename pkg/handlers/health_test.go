package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-querygrid/pkg/config"
)

func newHealthMux(tester *mockConnectionTester) *http.ServeMux {
	cfg := &config.Config{
		Version:    "test-version",
		Env:        "test",
		Datasource: config.DatasourceConfig{Type: "postgres"},
	}
	mux := http.NewServeMux()
	if tester == nil {
		NewHealthHandler(cfg, nil, zap.NewNop()).RegisterRoutes(mux)
	} else {
		NewHealthHandler(cfg, tester, zap.NewNop()).RegisterRoutes(mux)
	}
	return mux
}

func TestHealthHandler_Health_WithoutTester(t *testing.T) {
	rec := serve(newHealthMux(nil), http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHealthHandler_Health_DatasourceConnected(t *testing.T) {
	rec := serve(newHealthMux(&mockConnectionTester{}), http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
	require.NotNil(t, resp.Datasource)
	assert.Equal(t, "postgres", resp.Datasource.Type)
	assert.Equal(t, "connected", resp.Datasource.Status)
}

func TestHealthHandler_Health_DatasourceDown(t *testing.T) {
	tester := &mockConnectionTester{err: errors.New(`dial "postgresql://app:s3cret@db:5432/crm": refused`)}
	rec := serve(newHealthMux(tester), http.MethodGet, "/health", "")

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "error", resp.Datasource.Status)
	assert.NotContains(t, resp.Datasource.Error, "s3cret")
}

func TestHealthHandler_Ping(t *testing.T) {
	rec := serve(newHealthMux(nil), http.MethodGet, "/ping", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp PingResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "test-version", resp.Version)
	assert.Equal(t, "ekaya-querygrid", resp.Service)
	assert.Equal(t, "test", resp.Environment)
}
