package helpers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"techevents/internal/domain"
)

// Messages returned in place of internal error details.
const (
	MsgInternalError    = "internal server error"
	MsgUnavailable      = "database unavailable"
	MsgValidationFailed = "validation failed"
)

// APIResponse is the envelope for every API response.
// On success: Success is true and Data is set. On error: Success is false,
// Error holds the message, and Details lists field violations when present.
// swagger:model APIResponse
type APIResponse struct {
	Success bool     `json:"success"`
	Data    any      `json:"data,omitempty"`
	Error   string   `json:"error,omitempty"`
	Details []string `json:"details,omitempty"`
	Count   *int     `json:"count,omitempty"`
	Message string   `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, resp APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(resp)
}

// WriteJSONSuccess writes statusCode and an envelope with the given data.
func WriteJSONSuccess(w http.ResponseWriter, statusCode int, data any, message string) {
	writeJSON(w, statusCode, APIResponse{Success: true, Data: data, Message: message})
}

// WriteJSONList writes 200 and an envelope with items and their count.
func WriteJSONList[T any](w http.ResponseWriter, items []T) {
	if items == nil {
		items = []T{}
	}
	n := len(items)
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: items, Count: &n})
}

// WriteJSONError writes statusCode and an error envelope.
func WriteJSONError(w http.ResponseWriter, statusCode int, message string, details ...string) {
	writeJSON(w, statusCode, APIResponse{Success: false, Error: message, Details: details})
}

// WriteDomainError maps validation, reference, conflict and not-found errors
// onto 400, 404, 409 and 404. Every other error, an unreachable store
// included, is logged and answered with a 500 carrying fallback, or a generic
// message when fallback is empty.
func WriteDomainError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, fallback string) {
	var (
		verr     *domain.FieldValidationError
		rerr     *domain.ReferentialIntegrityError
		conflict *domain.ConflictError
	)
	switch {
	case errors.As(err, &verr):
		msg := verr.Summary
		if msg == "" {
			msg = MsgValidationFailed
		}
		WriteJSONError(w, http.StatusBadRequest, msg, verr.Violations...)
	case errors.As(err, &rerr):
		WriteJSONError(w, http.StatusNotFound, rerr.Error())
	case errors.As(err, &conflict):
		WriteJSONError(w, http.StatusConflict, conflict.Error())
	case errors.Is(err, domain.ErrNotFound):
		WriteJSONError(w, http.StatusNotFound, "not found")
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		if fallback == "" {
			fallback = MsgInternalError
		}
		WriteJSONError(w, http.StatusInternalServerError, fallback)
	}
}
