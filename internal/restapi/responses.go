package restapi

import (
	"encoding/json"
	"net/http"

	"github.com/lmi-dashboard/lmi-dashboard/internal/models"
)

func (api *RestAPI) sendResponse(w http.ResponseWriter, r *http.Request, response models.ResponseModel) {
	api.sendResponseWithStatus(w, r, http.StatusOK, response)
}

func (api *RestAPI) sendResponseWithStatus(w http.ResponseWriter, r *http.Request, status int, response models.ResponseModel) {
	if err := writeJSON(w, status, response); err != nil {
		api.serverErrorResponse(w, r, err)
	}
}

func (api *RestAPI) sendNotFound(w http.ResponseWriter, r *http.Request) {
	api.sendResponseWithStatus(w, r, http.StatusNotFound, models.ResponseModel{
		Code:        http.StatusNotFound,
		CurrentTime: models.ResponseCurrentTime(),
		Text:        "resource not found",
		Version:     models.ResponseVersion,
	})
}

// writeJSON encodes v before touching w, so an encoding failure can still be
// answered with an error status.
func writeJSON(w http.ResponseWriter, status int, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}

	setJSONResponseType(&w)
	w.WriteHeader(status)
	// The status is already sent; a failed write means the client went away.
	_, _ = w.Write(append(body, '\n'))
	return nil
}

func setJSONResponseType(w *http.ResponseWriter) {
	(*w).Header().Set("Content-Type", "application/json")
}
