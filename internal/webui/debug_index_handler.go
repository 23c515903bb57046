package webui

import (
	"bytes"
	"net/http"

	"github.com/davecgh/go-spew/spew"

	"github.com/lmi-dashboard/lmi-dashboard/internal/logging"
	"github.com/lmi-dashboard/lmi-dashboard/internal/present"
)

var debugDataTypes = []string{"status", "snapshot", "employers", "regions", "series", "config"}

type debugData struct {
	Title string
	Pre   string
	Links []string
}

func writeDebugData(w http.ResponseWriter, r *http.Request, title string, data interface{}) {
	var buf bytes.Buffer
	err := templates.ExecuteTemplate(&buf, "debug_index.html", debugData{
		Title: title,
		Pre:   spew.Sdump(data),
		Links: debugDataTypes,
	})
	if err != nil {
		logging.LogError(logging.FromContext(r.Context()), "failed to render debug page", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (webUI *WebUI) debugIndexHandler(w http.ResponseWriter, r *http.Request) {
	dataType := r.URL.Query().Get("dataType")

	var data interface{}
	var title string

	snap := webUI.Dashboard.Snapshot()

	switch dataType {
	case "status":
		data = webUI.Dashboard.Status()
		title = "Pipeline - Status"
	case "snapshot":
		data = snap
		title = "Pipeline - Snapshot"
	case "employers":
		data = snap.Summary.ByEmployer
		title = "Aggregates - By Employer"
	case "regions":
		data = snap.Summary.ByRegion
		title = "Aggregates - By Region"
	case "series":
		data = map[string]interface{}{
			"bar":     present.BarSeries(snap.Summary.ByEmployer),
			"treemap": present.AreaSeries(snap.Summary.ByRegion),
		}
		title = "Presenter - Chart Series"
	case "config":
		config := webUI.Config
		if len(config.ApiKeys) > 0 {
			config.ApiKeys = []string{"[redacted]"}
		}
		data = config
		title = "Service - Configuration"
	default:
		data = map[string]string{
			"error": "Please use one of the following: status, snapshot, employers, regions, series, config.",
		}
		title = "Choose a data type"
	}

	writeDebugData(w, r, title, data)
}
