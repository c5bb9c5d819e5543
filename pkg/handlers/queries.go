package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-querygrid/pkg/services"
)

// GenerateQueryRequest is the POST /api/generate-query body.
// An empty id asks the server to generate one.
type GenerateQueryRequest struct {
	ID           string   `json:"id"`
	FriendlyName string   `json:"friendlyName"`
	Description  string   `json:"description"`
	TableName    string   `json:"tableName"`
	Fields       []string `json:"fields"`
}

// GenerateQueryResponse reports a saved query.
type GenerateQueryResponse struct {
	ID           string `json:"id"`
	FileName     string `json:"fileName"`
	FriendlyName string `json:"friendlyName"`
	Query        string `json:"query"`
	Message      string `json:"message"`
}

// DeleteQueryResponse lists the files removed by a delete.
type DeleteQueryResponse struct {
	Message      string   `json:"message"`
	DeletedFiles []string `json:"deletedFiles"`
}

// QueriesHandler handles query-related HTTP requests.
type QueriesHandler struct {
	queryService services.QueryService
	logger       *zap.Logger
}

// NewQueriesHandler creates a new queries handler.
func NewQueriesHandler(queryService services.QueryService, logger *zap.Logger) *QueriesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueriesHandler{
		queryService: queryService,
		logger:       logger,
	}
}

// RegisterRoutes registers the queries handler's routes on the given mux.
func (h *QueriesHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/generate-query", h.Generate)
	mux.HandleFunc("GET /api/queries", h.List)
	mux.HandleFunc("GET /api/queries/{qid}", h.Get)
	mux.HandleFunc("DELETE /api/queries/{qid}", h.Delete)
}

// Generate handles POST /api/generate-query
func (h *QueriesHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	id := uuid.Nil
	if s := strings.TrimSpace(req.ID); s != "" {
		parsed, err := uuid.Parse(s)
		if err != nil {
			if err := ErrorResponse(w, http.StatusBadRequest, "invalid_query_id", "Invalid query ID format. Expected a valid GUID."); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		id = parsed
	}

	result, err := h.queryService.Create(r.Context(), &services.CreateQueryRequest{
		ID:           id,
		FriendlyName: req.FriendlyName,
		Description:  req.Description,
		TableName:    req.TableName,
		Fields:       req.Fields,
	})
	if err != nil {
		writeServiceError(w, err, "Query not found", "Failed to generate query", h.logger,
			zap.String("table", req.TableName))
		return
	}

	response := GenerateQueryResponse{
		ID:           result.Query.ID.String(),
		FileName:     result.FileName,
		FriendlyName: result.Query.FriendlyName,
		Query:        result.Query.Query,
		Message:      "Query generated and saved successfully.",
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// List handles GET /api/queries?search=&table=
func (h *QueriesHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := services.ListQueriesFilter{
		Search:    r.URL.Query().Get("search"),
		TableName: r.URL.Query().Get("table"),
	}

	queries, err := h.queryService.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err, "Queries not found", "Failed to list queries", h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, queries); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/queries/{qid}
func (h *QueriesHandler) Get(w http.ResponseWriter, r *http.Request) {
	queryID, ok := ParseQueryID(w, r, h.logger)
	if !ok {
		return
	}

	query, err := h.queryService.Get(r.Context(), queryID)
	if err != nil {
		writeServiceError(w, err, "Query with ID '"+queryID.String()+"' not found.", "Failed to get query", h.logger,
			zap.String("query_id", queryID.String()))
		return
	}

	if err := WriteJSON(w, http.StatusOK, query); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/queries/{qid}
func (h *QueriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	queryID, ok := ParseQueryID(w, r, h.logger)
	if !ok {
		return
	}

	result, err := h.queryService.Delete(r.Context(), queryID)
	if err != nil {
		writeServiceError(w, err, "Query with ID '"+queryID.String()+"' not found.", "Failed to delete query", h.logger,
			zap.String("query_id", queryID.String()))
		return
	}

	response := DeleteQueryResponse{
		Message:      "Successfully deleted query and associated files",
		DeletedFiles: result.DeletedFiles(),
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
