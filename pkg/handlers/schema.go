package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-querygrid/pkg/services"
)

// SchemaHandler serves table schemas and the allowed-table list.
type SchemaHandler struct {
	schemaService services.SchemaService
	logger        *zap.Logger
}

// NewSchemaHandler creates a new schema handler.
func NewSchemaHandler(schemaService services.SchemaService, logger *zap.Logger) *SchemaHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SchemaHandler{
		schemaService: schemaService,
		logger:        logger,
	}
}

// RegisterRoutes registers the schema handler's routes on the given mux.
func (h *SchemaHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/table-schema/{table}", h.TableSchema)
	mux.HandleFunc("GET /api/allowed-tables", h.AllowedTables)
}

// TableSchema handles GET /api/table-schema/{table}
func (h *SchemaHandler) TableSchema(w http.ResponseWriter, r *http.Request) {
	table := r.PathValue("table")

	schema, err := h.schemaService.GetTableSchema(r.Context(), table)
	if err != nil {
		writeServiceError(w, err, "Table '"+table+"' not found or has no columns.", "Failed to get table schema", h.logger,
			zap.String("table", table))
		return
	}

	if err := WriteJSON(w, http.StatusOK, schema); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// AllowedTables handles GET /api/allowed-tables
func (h *SchemaHandler) AllowedTables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.schemaService.AllowedTables(r.Context())
	if err != nil {
		writeServiceError(w, err, "Allowed tables file not found", "Failed to get allowed tables", h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, tables); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
