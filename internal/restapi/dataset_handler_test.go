package restapi

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmi-dashboard/lmi-dashboard/internal/dashboard"
)

func TestSetDatasetHandler(t *testing.T) {
	t.Run("accepts a remote dataset and loads it", func(t *testing.T) {
		csvServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/csv")
			_, _ = w.Write([]byte("grouped_company,state,job_posting_count\nAcme,CA,5\nAcme,,3\n,CA,2\n"))
		}))
		defer csvServer.Close()

		api := createTestApi(t)

		resp, body := postForm(t, api, "/api/dataset", url.Values{"url": {csvServer.URL + "/jobs.csv"}})
		require.Equal(t, http.StatusAccepted, resp.StatusCode)
		assert.Equal(t, float64(http.StatusAccepted), body["code"])

		entry := body["data"].(map[string]interface{})["entry"].(map[string]interface{})
		assert.Equal(t, csvServer.URL+"/jobs.csv", entry["location"])
		assert.Equal(t, float64(1), entry["token"])

		require.Eventually(t, func() bool {
			return api.Dashboard.Snapshot().State == dashboard.Ready
		}, 2*time.Second, 10*time.Millisecond)
		assert.Equal(t, int64(10), api.Dashboard.Snapshot().Summary.TotalPostings)
	})

	t.Run("rejects a local path", func(t *testing.T) {
		api := createTestApi(t)

		resp, body := postForm(t, api, "/api/dataset", url.Values{"url": {"/etc/passwd"}})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, map[string]interface{}{
			"url": []interface{}{"url must use the http, https or s3 scheme"},
		}, body["fieldErrors"])
		assert.Equal(t, dashboard.Idle, api.Dashboard.Snapshot().State)
	})

	t.Run("rejects a missing url", func(t *testing.T) {
		api := createTestApi(t)

		resp, body := postForm(t, api, "/api/dataset", url.Values{})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, body, "fieldErrors")
	})

	t.Run("only POST is routed", func(t *testing.T) {
		api := createTestApi(t)

		resp, model := serveApiAndRetrieveEndpoint(t, api, "/api/dataset?url=https://example.com/jobs.csv")
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, "method not allowed", model.Text)
	})
}

func TestReloadHandler(t *testing.T) {
	t.Run("reloads the current location", func(t *testing.T) {
		api := createLoadedTestApi(t)
		before := api.Dashboard.Snapshot().Token

		resp, body := postForm(t, api, "/api/reload", nil)
		require.Equal(t, http.StatusAccepted, resp.StatusCode)

		entry := body["data"].(map[string]interface{})["entry"].(map[string]interface{})
		assert.Equal(t, testDataPath(t), entry["location"])

		require.Eventually(t, func() bool {
			return api.Dashboard.Snapshot().Token > before
		}, 2*time.Second, 10*time.Millisecond)
		assert.Equal(t, dashboard.Ready, api.Dashboard.Snapshot().State)
	})

	t.Run("without a location", func(t *testing.T) {
		api := createTestApi(t)

		resp, body := postForm(t, api, "/api/reload", nil)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Contains(t, body["text"], "missing dataset location")
		assert.Equal(t, dashboard.Failed, api.Dashboard.Snapshot().State)
	})
}
