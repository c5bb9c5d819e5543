package handlers

import (
	"context"
	"net/http"
	"os"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-querygrid/pkg/adapters/datasource"
	"github.com/ekaya-inc/ekaya-querygrid/pkg/config"
	"github.com/ekaya-inc/ekaya-querygrid/pkg/logging"
)

// datasourceCheckTimeout bounds the connectivity probe made by /health.
const datasourceCheckTimeout = 3 * time.Second

// PingResponse contains service status and version information.
type PingResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	Service     string `json:"service"`
	GoVersion   string `json:"go_version"`
	Hostname    string `json:"hostname"`
	Environment string `json:"environment"`
}

// HealthResponse reports service health and, when configured, datasource reachability.
type HealthResponse struct {
	Status     string            `json:"status"`
	Datasource *DatasourceHealth `json:"datasource,omitempty"`
}

// DatasourceHealth is the outcome of the datasource connectivity probe.
type DatasourceHealth struct {
	Type   string `json:"type"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// HealthHandler handles health check and ping endpoints.
type HealthHandler struct {
	cfg    *config.Config
	tester datasource.ConnectionTester
	logger *zap.Logger
}

// NewHealthHandler creates a new HealthHandler. tester may be nil, in which
// case /health reports only process liveness.
func NewHealthHandler(cfg *config.Config, tester datasource.ConnectionTester, logger *zap.Logger) *HealthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthHandler{cfg: cfg, tester: tester, logger: logger}
}

// RegisterRoutes registers the health handler's routes on the given mux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /ping", h.Ping)
}

// Health handles GET /health requests.
// Returns 503 when the datasource cannot be reached.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{Status: "ok"}
	status := http.StatusOK

	if h.tester != nil {
		ctx, cancel := context.WithTimeout(r.Context(), datasourceCheckTimeout)
		defer cancel()

		ds := &DatasourceHealth{Type: h.cfg.Datasource.Type, Status: "connected"}
		if err := h.tester.TestConnection(ctx); err != nil {
			ds.Status = "error"
			ds.Error = logging.SanitizeError(err)
			response.Status = "degraded"
			status = http.StatusServiceUnavailable
			h.logger.Warn("Datasource health check failed",
				zap.String("type", ds.Type),
				zap.String("error", ds.Error))
		}
		response.Datasource = ds
	}

	if err := WriteJSON(w, status, response); err != nil {
		h.logger.Error("Failed to encode health response", zap.Error(err))
	}
}

// Ping handles GET /ping requests.
// Returns detailed service information including version and environment.
func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	hostname, err := os.Hostname()
	if err != nil {
		http.Error(w, "failed to get hostname", http.StatusInternalServerError)
		return
	}

	response := PingResponse{
		Status:      "ok",
		Version:     h.cfg.Version,
		Service:     "ekaya-querygrid",
		GoVersion:   runtime.Version(),
		Hostname:    hostname,
		Environment: h.cfg.Env,
	}

	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode ping response", zap.Error(err))
	}
}
