// Package handlers exposes the query, dashboard and schema services over HTTP.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-querygrid/pkg/apperrors"
)

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// writeServiceError maps a service error to a response: validation failures
// become 400 with their message, not-found becomes 404 with notFoundMessage,
// anything else is logged and becomes 500 with failureMessage.
func writeServiceError(w http.ResponseWriter, err error, notFoundMessage, failureMessage string, logger *zap.Logger, fields ...zap.Field) {
	var writeErr error
	switch {
	case apperrors.IsValidation(err):
		writeErr = ErrorResponse(w, http.StatusBadRequest, "validation_error", apperrors.ValidationMessage(err))
	case errors.Is(err, apperrors.ErrNotFound):
		writeErr = ErrorResponse(w, http.StatusNotFound, "not_found", notFoundMessage)
	default:
		logger.Error(failureMessage, append(fields, zap.Error(err))...)
		writeErr = ErrorResponse(w, http.StatusInternalServerError, "internal_error", failureMessage)
	}
	if writeErr != nil {
		logger.Error("Failed to write error response", zap.Error(writeErr))
	}
}
