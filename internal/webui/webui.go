// Package webui serves the page that hosts the dashboard renderer and a few
// debugging views of the pipeline state.
package webui

import "github.com/lmi-dashboard/lmi-dashboard/internal/app"

type WebUI struct {
	*app.Application
}

func NewWebUI(app *app.Application) *WebUI {
	return &WebUI{Application: app}
}
