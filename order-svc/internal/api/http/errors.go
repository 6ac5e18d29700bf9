package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"food-ordering/order-svc/internal/domain"
)

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// statusOf maps a service error onto the HTTP status the API promises for it.
func statusOf(err error) int {
	var validation *domain.ValidationError
	switch {
	case errors.As(err, &validation), errors.Is(err, domain.ErrItemUnavailable):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusOf(err)
	resp := errorResponse{Message: err.Error()}

	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		resp.Message = validation.Message
	}
	if code == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		resp.Message = "Server error"
		if h.Debug {
			resp.Error = err.Error()
		}
	}

	writeJSON(w, code, resp)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Message: message})
}
