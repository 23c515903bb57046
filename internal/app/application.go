package app

import (
	"log/slog"

	"github.com/lmi-dashboard/lmi-dashboard/internal/appconf"
	"github.com/lmi-dashboard/lmi-dashboard/internal/dashboard"
	"github.com/lmi-dashboard/lmi-dashboard/internal/present"
)

// Application holds the dependencies for our HTTP handlers, helpers,
// and middleware.
type Application struct {
	Config    appconf.Config
	Logger    *slog.Logger
	Dashboard *dashboard.Manager
	Formatter *present.Formatter
}
