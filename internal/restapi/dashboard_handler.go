package restapi

import (
	"net/http"

	"github.com/lmi-dashboard/lmi-dashboard/internal/dashboard"
	"github.com/lmi-dashboard/lmi-dashboard/internal/models"
	"github.com/lmi-dashboard/lmi-dashboard/internal/present"
)

// dashboardHandler always answers 200: a renderer shows the loading indicator
// or the error text from the same payload it draws charts from.
func (api *RestAPI) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	snap := api.Dashboard.Snapshot()
	entry := models.NewDashboardEntry(snap, api.Dashboard.Status().Refreshing, api.Formatter)
	api.sendResponse(w, r, models.NewEntryResponse(entry))
}

func (api *RestAPI) statusHandler(w http.ResponseWriter, r *http.Request) {
	api.sendResponse(w, r, models.NewEntryResponse(models.NewStatusEntry(api.Dashboard.Status())))
}

func (api *RestAPI) topCompaniesHandler(w http.ResponseWriter, r *http.Request) {
	snap := api.Dashboard.Snapshot()
	if snap.State != dashboard.Ready {
		api.notReadyResponse(w, r, snap)
		return
	}

	list := present.BarSeries(snap.Summary.ByEmployer)
	api.sendResponse(w, r, models.NewListResponse(list, snap.Summary.Employers > len(list)))
}

func (api *RestAPI) topRegionsHandler(w http.ResponseWriter, r *http.Request) {
	snap := api.Dashboard.Snapshot()
	if snap.State != dashboard.Ready {
		api.notReadyResponse(w, r, snap)
		return
	}

	list := present.AreaSeries(snap.Summary.ByRegion)
	api.sendResponse(w, r, models.NewListResponse(list, snap.Summary.Regions > len(list)))
}
