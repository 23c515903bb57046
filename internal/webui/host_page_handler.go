package webui

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/lmi-dashboard/lmi-dashboard/internal/logging"
	"github.com/lmi-dashboard/lmi-dashboard/internal/present"
)

//go:embed host_page.html debug_index.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "host_page.html", "debug_index.html"))

// hostConfig is published to the renderer as window.LMI_DASHBOARD.
type hostConfig struct {
	DataURL       string `json:"dataUrl"`
	DashboardURL  string `json:"dashboardUrl"`
	StreamURL     string `json:"streamUrl"`
	FormatURL     string `json:"formatUrl"`
	Locale        string `json:"locale"`
	LabelMax      int    `json:"labelMax"`
	AxisLabelMax  int    `json:"axisLabelMax"`
	MinLabelWidth int    `json:"minLabelWidth"`
	TooltipPrefix string `json:"tooltipPrefix"`
}

type hostPageData struct {
	Title  string
	Config hostConfig
	// MountURL repeats Config.DataURL for the mount attribute. Locations come
	// from the operator or pass source validation, so s3 URLs are kept as is.
	MountURL template.URL
}

func (webUI *WebUI) hostConfig() hostConfig {
	dataURL := webUI.Config.DataURL
	if webUI.Dashboard != nil {
		if location := webUI.Dashboard.Location(); location != "" {
			dataURL = location
		}
	}

	locale := present.DefaultLocale
	if webUI.Formatter != nil {
		locale = webUI.Formatter.Locale()
	}

	labelMax := webUI.Config.LabelMax
	if labelMax < 1 {
		labelMax = present.DefaultLabelMax
	}

	return hostConfig{
		DataURL:       dataURL,
		DashboardURL:  "/api/dashboard.json",
		StreamURL:     "/api/stream",
		FormatURL:     "/api/format.json",
		Locale:        locale,
		LabelMax:      labelMax,
		AxisLabelMax:  present.AxisLabelMax,
		MinLabelWidth: present.MinLabelWidth,
		TooltipPrefix: "Job postings: ",
	}
}

// hostPageHandler renders the page a chart renderer mounts into. The mount
// node shows a loading message until the renderer replaces it.
func (webUI *WebUI) hostPageHandler(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	config := webUI.hostConfig()
	err := templates.ExecuteTemplate(&buf, "host_page.html", hostPageData{
		Title:    "LMI Dashboard",
		Config:   config,
		MountURL: template.URL(config.DataURL),
	})
	if err != nil {
		logging.LogError(logging.FromContext(r.Context()), "failed to render host page", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
