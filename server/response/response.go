// Package response writes JSON bodies and maps domain errors to HTTP responses.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/richardsabow/airports-backend/apperr"
	"github.com/richardsabow/airports-backend/logging"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// JSON sends payload as JSON with the given status code.
func JSON(w http.ResponseWriter, r *http.Request, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(r.Context()).Error("failed to encode response", "error", err)
	}
}

// Error sends an ErrorResponse carrying the request ID.
func Error(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	JSON(w, r, status, ErrorResponse{
		Error:     message,
		Code:      code,
		RequestID: logging.RequestID(r.Context()),
	})
}

// HandleError maps err to a status code and writes it. Messages of typed
// client errors are shown; anything else is logged and hidden behind a
// generic message.
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.HTTPStatus(err)
	kind := apperr.GetKind(err)
	log := logging.FromContext(r.Context())

	message := http.StatusText(status)
	switch kind {
	case apperr.KindInvalidInput, apperr.KindRadiusTooLarge:
		var domainErr *apperr.Error
		if errors.As(err, &domainErr) {
			message = domainErr.Message
		}
		log.Debug("request rejected", "error", err)
	case apperr.KindTimeout:
		message = "request timed out"
		log.Warn("request timed out", "error", err)
	default:
		log.Error("request failed", "error", err)
	}

	Error(w, r, status, kind.String(), message)
}
