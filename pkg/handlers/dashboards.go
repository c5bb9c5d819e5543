package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-querygrid/pkg/services"
)

// GenerateDashboardResponse reports a generated grid dashboard.
type GenerateDashboardResponse struct {
	DashboardID string `json:"dashboardId"`
	FileName    string `json:"fileName"`
	Title       string `json:"title"`
	Message     string `json:"message"`
}

// DashboardsHandler handles dashboard generation and listing.
type DashboardsHandler struct {
	dashboardService services.DashboardService
	logger           *zap.Logger
}

// NewDashboardsHandler creates a new dashboards handler.
func NewDashboardsHandler(dashboardService services.DashboardService, logger *zap.Logger) *DashboardsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardsHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// RegisterRoutes registers the dashboards handler's routes on the given mux.
func (h *DashboardsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/generate-grid-dashboard/{qid}", h.GenerateGrid)
	mux.HandleFunc("GET /dashboards/names", h.Names)
}

// GenerateGrid handles POST /api/generate-grid-dashboard/{qid}
func (h *DashboardsHandler) GenerateGrid(w http.ResponseWriter, r *http.Request) {
	queryID, ok := ParseQueryID(w, r, h.logger)
	if !ok {
		return
	}

	result, err := h.dashboardService.GenerateGrid(r.Context(), queryID)
	if err != nil {
		writeServiceError(w, err, "Query with ID '"+queryID.String()+"' not found.", "Failed to generate grid dashboard", h.logger,
			zap.String("query_id", queryID.String()))
		return
	}

	response := GenerateDashboardResponse{
		DashboardID: result.DashboardID,
		FileName:    result.FileName,
		Title:       result.Title,
		Message:     "Grid dashboard generated successfully.",
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Names handles GET /dashboards/names
func (h *DashboardsHandler) Names(w http.ResponseWriter, r *http.Request) {
	names, err := h.dashboardService.ListDashboards(r.Context())
	if err != nil {
		writeServiceError(w, err, "Dashboards not found", "Failed to list dashboards", h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, names); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
