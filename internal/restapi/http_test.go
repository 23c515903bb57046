package restapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/require"

	"github.com/lmi-dashboard/lmi-dashboard/internal/app"
	"github.com/lmi-dashboard/lmi-dashboard/internal/appconf"
	"github.com/lmi-dashboard/lmi-dashboard/internal/dashboard"
	"github.com/lmi-dashboard/lmi-dashboard/internal/logging"
	"github.com/lmi-dashboard/lmi-dashboard/internal/models"
	"github.com/lmi-dashboard/lmi-dashboard/internal/present"
	"github.com/lmi-dashboard/lmi-dashboard/internal/source"
)

func testDataPath(t *testing.T) string {
	t.Helper()
	return models.GetFixturePath(t, "jobs.csv")
}

// createTestApi builds an API over a manager that has not loaded anything.
func createTestApi(t *testing.T, configure ...func(*appconf.Config)) *RestAPI {
	t.Helper()

	config := appconf.Default()
	config.Env = appconf.Test
	config.RateLimit = 100
	for _, fn := range configure {
		fn(&config)
	}

	loader := source.NewLoader(source.NewDefaultFetcher(http.DefaultClient, config.S3Region), slog.Default())
	manager := dashboard.NewManager(loader, dashboard.Config{TopN: config.TopN, LoadTimeout: config.LoadTimeout}, slog.Default())
	t.Cleanup(manager.Shutdown)

	formatter, err := present.NewFormatter(config.Locale)
	require.NoError(t, err)

	api := NewRestAPI(&app.Application{
		Config:    config,
		Logger:    slog.Default(),
		Dashboard: manager,
		Formatter: formatter,
	})
	t.Cleanup(api.Close)
	return api
}

// createLoadedTestApi builds an API whose dashboard is Ready with testdata/jobs.csv.
func createLoadedTestApi(t *testing.T, configure ...func(*appconf.Config)) *RestAPI {
	t.Helper()
	api := createTestApi(t, configure...)
	snap := api.Dashboard.Load(context.Background(), testDataPath(t))
	require.Equal(t, dashboard.Ready, snap.State, snap.ErrorText())
	return api
}

func newTestServer(t *testing.T, api *RestAPI) *httptest.Server {
	t.Helper()
	router := httprouter.New()
	api.SetRoutes(router)
	server := httptest.NewServer(api.WithMiddleware(router))
	t.Cleanup(server.Close)
	return server
}

// serveApiAndRetrieveEndpoint performs a GET against the API and decodes the envelope.
func serveApiAndRetrieveEndpoint(t *testing.T, api *RestAPI, endpoint string) (*http.Response, models.ResponseModel) {
	t.Helper()
	server := newTestServer(t, api)

	resp, err := http.Get(server.URL + endpoint)
	require.NoError(t, err)
	return resp, decodeResponse(t, resp)
}

func postForm(t *testing.T, api *RestAPI, endpoint string, form url.Values) (*http.Response, map[string]interface{}) {
	t.Helper()
	server := newTestServer(t, api)

	resp, err := http.Post(server.URL+endpoint, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	defer logging.SafeCloseWithLogging(resp.Body, slog.Default(), "http_response_body")

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp, body
}

func decodeResponse(t *testing.T, resp *http.Response) models.ResponseModel {
	t.Helper()
	defer logging.SafeCloseWithLogging(resp.Body,
		slog.Default().With(slog.String("component", "test")),
		"http_response_body")

	var response models.ResponseModel
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&response))
	return response
}

func decodeJSON(resp *http.Response, v interface{}) error {
	return json.NewDecoder(resp.Body).Decode(v)
}

func entryOf(t *testing.T, response models.ResponseModel) map[string]interface{} {
	t.Helper()
	data, ok := response.Data.(map[string]interface{})
	require.True(t, ok, "data should be an object")
	entry, ok := data["entry"].(map[string]interface{})
	require.True(t, ok, "entry should be an object")
	return entry
}

func listOf(t *testing.T, response models.ResponseModel) ([]interface{}, bool) {
	t.Helper()
	data, ok := response.Data.(map[string]interface{})
	require.True(t, ok, "data should be an object")
	list, ok := data["list"].([]interface{})
	require.True(t, ok, "list should be an array")
	return list, data["limitExceeded"].(bool)
}
