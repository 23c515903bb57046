package restapi

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/lmi-dashboard/lmi-dashboard/internal/logging"
	"github.com/lmi-dashboard/lmi-dashboard/internal/models"
	"github.com/lmi-dashboard/lmi-dashboard/internal/utils"
)

// maxFormBytes bounds the body of dataset requests.
const maxFormBytes = 16 << 10

// datasetAccepted is the body of a request that started a pipeline run.
type datasetAccepted struct {
	Token    uint64 `json:"token"`
	Location string `json:"location"`
}

// setDatasetHandler points the dashboard at a new dataset. Any load still in
// flight is superseded.
func (api *RestAPI) setDatasetHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{
			"url": {"request body could not be parsed"},
		})
		return
	}

	location := strings.TrimSpace(r.Form.Get("url"))
	if err := utils.ValidateLocation(location); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{
			"url": {err.Error()},
		})
		return
	}

	token := api.Dashboard.SetLocation(location)
	logging.LogOperation(logging.FromContext(r.Context()), "dataset_location_set",
		slog.String("location", location),
		slog.Uint64("token", token))

	api.sendResponseWithStatus(w, r, http.StatusAccepted,
		models.NewResponse(http.StatusAccepted, map[string]interface{}{
			"entry": datasetAccepted{Token: token, Location: location},
		}, "Accepted"))
}

// reloadHandler re-runs the pipeline on the current location.
func (api *RestAPI) reloadHandler(w http.ResponseWriter, r *http.Request) {
	location := api.Dashboard.Location()
	token := api.Dashboard.Reload()
	if location == "" {
		// The manager has published the failure; tell the caller why.
		api.notReadyResponse(w, r, api.Dashboard.Snapshot())
		return
	}

	api.sendResponseWithStatus(w, r, http.StatusAccepted,
		models.NewResponse(http.StatusAccepted, map[string]interface{}{
			"entry": datasetAccepted{Token: token, Location: location},
		}, "Accepted"))
}
