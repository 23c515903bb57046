package restapi

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

type handlerFunc func(w http.ResponseWriter, r *http.Request)

// rateLimitAndValidateAPIKey applies the per-key rate limit and, when keys are
// configured, rejects requests without a valid one.
func rateLimitAndValidateAPIKey(api *RestAPI, finalHandler handlerFunc) http.Handler {
	return api.rateLimiter.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if api.RequestHasInvalidAPIKey(r) {
			api.invalidAPIKeyResponse(w, r)
			return
		}
		finalHandler(w, r)
	}))
}

func (api *RestAPI) SetRoutes(router *httprouter.Router) {
	router.Handler(http.MethodGet, "/api/dashboard.json", rateLimitAndValidateAPIKey(api, api.dashboardHandler))
	router.Handler(http.MethodGet, "/api/status.json", rateLimitAndValidateAPIKey(api, api.statusHandler))
	router.Handler(http.MethodGet, "/api/companies/top.json", rateLimitAndValidateAPIKey(api, api.topCompaniesHandler))
	router.Handler(http.MethodGet, "/api/regions/top.json", rateLimitAndValidateAPIKey(api, api.topRegionsHandler))
	router.Handler(http.MethodGet, "/api/format.json", rateLimitAndValidateAPIKey(api, api.formatHandler))
	router.Handler(http.MethodPost, "/api/dataset", rateLimitAndValidateAPIKey(api, api.setDatasetHandler))
	router.Handler(http.MethodPost, "/api/reload", rateLimitAndValidateAPIKey(api, api.reloadHandler))
	router.Handler(http.MethodGet, "/api/stream", rateLimitAndValidateAPIKey(api, api.streamHandler))

	router.NotFound = http.HandlerFunc(api.sendNotFound)
	router.MethodNotAllowed = http.HandlerFunc(api.methodNotAllowedResponse)
}
