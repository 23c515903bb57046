package restapi

import (
	"encoding/json"
	"net/http"

	"github.com/lmi-dashboard/lmi-dashboard/internal/dashboard"
	"github.com/lmi-dashboard/lmi-dashboard/internal/logging"
	"github.com/lmi-dashboard/lmi-dashboard/internal/models"
)

// errorResponse is the envelope of every error body.
type errorResponse struct {
	Code        int    `json:"code"`
	CurrentTime int64  `json:"currentTime"`
	Text        string `json:"text"`
	Version     int    `json:"version"`
}

func (api *RestAPI) writeError(w http.ResponseWriter, status int, text string, version int) {
	response := errorResponse{
		Code:        status,
		CurrentTime: models.ResponseCurrentTime(),
		Text:        text,
		Version:     version,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		api.Logger.Error("failed to encode error response", "status", status, "error", err)
	}
}

// invalidAPIKeyResponse sends a 401 Unauthorized response with the required format
// for invalid API key errors
func (api *RestAPI) invalidAPIKeyResponse(w http.ResponseWriter, r *http.Request) {
	// Version 1 is kept for clients that already match on it.
	api.writeError(w, http.StatusUnauthorized, "permission denied", 1)
}

func (api *RestAPI) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	logging.LogError(logging.FromContext(r.Context()), "internal server error", err)
	api.writeError(w, http.StatusInternalServerError, "internal server error", 1)
}

func (api *RestAPI) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	api.writeError(w, http.StatusMethodNotAllowed, "method not allowed", models.ResponseVersion)
}

// notReadyResponse sends a 503 while there is no aggregate to serve. The text
// carries the state, and the failure message when the last load failed.
func (api *RestAPI) notReadyResponse(w http.ResponseWriter, r *http.Request, snap dashboard.Snapshot) {
	text := "dashboard " + snap.State.String()
	if msg := snap.ErrorText(); msg != "" {
		text += ": " + msg
	}
	w.Header().Set("Retry-After", "1")
	api.writeError(w, http.StatusServiceUnavailable, text, models.ResponseVersion)
}

// validationErrorResponse sends a 400 Bad Request response with field-specific validation errors
func (api *RestAPI) validationErrorResponse(w http.ResponseWriter, r *http.Request, fieldErrors map[string][]string) {
	response := struct {
		FieldErrors map[string][]string `json:"fieldErrors"`
	}{
		FieldErrors: fieldErrors,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		api.Logger.Error("failed to encode validation error response", "error", err)
	}
}
