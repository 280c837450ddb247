package httpadapter

import (
	"log/slog"
	"net/http"

	"github.com/silindokuhleL/document-search-portal/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrDocumentNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrUnsupportedFile):
		return http.StatusUnsupportedMediaType
	case domain.IsKind(err, domain.ErrSearchUnavailable), domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError hides internal detail behind a generic message for 5xx responses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := mapErrorToHTTPStatus(err)
	message := err.Error()
	switch status {
	case http.StatusServiceUnavailable:
		slog.Warn("request_unavailable", "request_id", requestIDFromContext(r.Context()), "error", err)
		message = "search backend unavailable, retry later"
		if !domain.IsKind(err, domain.ErrSearchUnavailable) {
			message = "service temporarily unavailable, retry later"
		}
		w.Header().Set("Retry-After", "5")
	case http.StatusInternalServerError:
		slog.Error("request_failed", "request_id", requestIDFromContext(r.Context()), "error", err)
		message = "internal error"
	}
	writeJSON(w, status, map[string]string{"error": message})
}
