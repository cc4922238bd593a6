package errors

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// HTTPErrorAdapter handles error presentation and status code determination for the preview server.
type HTTPErrorAdapter struct {
	logger *slog.Logger
}

// NewHTTPErrorAdapter creates a new HTTP error adapter. A nil logger uses slog.Default.
func NewHTTPErrorAdapter(logger *slog.Logger) *HTTPErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPErrorAdapter{logger: logger}
}

// HTTPErrorResponse is the JSON error payload.
type HTTPErrorResponse struct {
	Error    string        `json:"error"`
	Category ErrorCategory `json:"category,omitempty"`
	Details  ContextFields `json:"details,omitempty"`
}

// StatusCodeFor maps an error to an HTTP status. Unclassified errors are 500.
func (a *HTTPErrorAdapter) StatusCodeFor(err error) int {
	if err == nil {
		return http.StatusOK
	}
	de, ok := As(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch de.Category {
	case CategoryValidation, CategoryConfig:
		return http.StatusBadRequest
	case CategoryNotFound:
		return http.StatusNotFound
	case CategoryRender, CategoryTemplate:
		return http.StatusUnprocessableEntity
	case CategoryServer:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WriteErrorResponse writes a JSON error response and logs server-side failures.
func (a *HTTPErrorAdapter) WriteErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	status := a.StatusCodeFor(err)
	payload := HTTPErrorResponse{Error: http.StatusText(status)}
	if err != nil {
		payload.Error = err.Error()
	}
	if de, ok := As(err); ok {
		payload.Error = de.Message
		payload.Category = de.Category
		payload.Details = de.Context
	}

	if status >= http.StatusInternalServerError {
		a.logger.Error("HTTP error", slog.String("path", r.URL.Path), slog.Int("status", status), slog.Any("error", err))
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
