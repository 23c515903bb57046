package restapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/lmi-dashboard/lmi-dashboard/internal/models"
	"github.com/lmi-dashboard/lmi-dashboard/internal/present"
	"github.com/lmi-dashboard/lmi-dashboard/internal/utils"
)

// formatEntry adds the value label decision when a bar width was given.
type formatEntry struct {
	present.Display
	ShowLabel *bool `json:"showLabel,omitempty"`
}

// formatHandler exposes the overlay helpers to renderers that cannot embed
// them: number formatting, label truncation and tooltip text.
func (api *RestAPI) formatHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	maxLen, fieldErrors := utils.ParseIntParam(query, "max", api.Config.LabelMax, nil)
	if _, invalid := fieldErrors["max"]; !invalid {
		if err := utils.ValidateLabelMax(maxLen); err != nil {
			fieldErrors["max"] = append(fieldErrors["max"], err.Error())
		}
	}

	value, ok := utils.ParseNumberParam(query, "value")
	if !ok {
		fieldErrors["value"] = append(fieldErrors["value"], `Missing field "value".`)
	}

	var showLabel *bool
	if raw := strings.TrimSpace(query.Get("width")); raw != "" {
		width, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			fieldErrors["width"] = append(fieldErrors["width"], `Invalid field value for field "width".`)
		} else {
			show := present.ShowValueLabel(width, value)
			showLabel = &show
		}
	}

	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	formatter := api.Formatter
	if formatter == nil {
		formatter = present.Default()
	}

	label := utils.SanitizeInput(query.Get("label"))
	api.sendResponse(w, r, models.NewEntryResponse(formatEntry{
		Display:   formatter.Describe(label, value, maxLen),
		ShowLabel: showLabel,
	}))
}
