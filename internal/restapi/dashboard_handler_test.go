package restapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmi-dashboard/lmi-dashboard/internal/appconf"
)

func TestDashboardHandlerReady(t *testing.T) {
	api := createLoadedTestApi(t)

	resp, model := serveApiAndRetrieveEndpoint(t, api, "/api/dashboard.json")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, http.StatusOK, model.Code)
	assert.Equal(t, "OK", model.Text)

	entry := entryOf(t, model)
	assert.Equal(t, "ready", entry["state"])
	assert.Equal(t, float64(8), entry["rowCount"])
	assert.Equal(t, float64(69), entry["totalPostings"])
	assert.Equal(t, "69", entry["formattedTotal"])
	assert.NotZero(t, entry["loadedAt"])

	assert.Equal(t, []interface{}{
		map[string]interface{}{"company": "Globex", "total": float64(40)},
		map[string]interface{}{"company": "Initech", "total": float64(12)},
		map[string]interface{}{"company": "Acme", "total": float64(8)},
		map[string]interface{}{"company": "Umbrella", "total": float64(7)},
		map[string]interface{}{"company": "Unknown", "total": float64(2)},
		map[string]interface{}{"company": "Hooli", "total": float64(0)},
	}, entry["companies"])

	assert.Equal(t, []interface{}{
		map[string]interface{}{"name": "NY", "size": float64(40)},
		map[string]interface{}{"name": "TX", "size": float64(12)},
		map[string]interface{}{"name": "CA", "size": float64(7)},
		map[string]interface{}{"name": "WA", "size": float64(7)},
	}, entry["regions"])
}

func TestDashboardHandlerIdle(t *testing.T) {
	api := createTestApi(t)

	resp, model := serveApiAndRetrieveEndpoint(t, api, "/api/dashboard.json")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	entry := entryOf(t, model)
	assert.Equal(t, "idle", entry["state"])
	assert.Equal(t, []interface{}{}, entry["companies"])
	assert.Equal(t, []interface{}{}, entry["regions"])
}

func TestDashboardHandlerFailed(t *testing.T) {
	api := createTestApi(t)
	api.Dashboard.SetLocation("")

	_, model := serveApiAndRetrieveEndpoint(t, api, "/api/dashboard.json")
	entry := entryOf(t, model)
	assert.Equal(t, "failed", entry["state"])
	assert.Contains(t, entry["error"], "missing dataset location")
}

func TestStatusHandler(t *testing.T) {
	api := createLoadedTestApi(t)

	resp, model := serveApiAndRetrieveEndpoint(t, api, "/api/status.json")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	entry := entryOf(t, model)
	assert.Equal(t, "ready", entry["state"])
	assert.Equal(t, testDataPath(t), entry["location"])
	assert.Equal(t, false, entry["refreshing"])
	assert.NotContains(t, entry, "companies")
}

func TestTopCompaniesHandler(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		api := createLoadedTestApi(t, func(c *appconf.Config) { c.TopN = 2 })

		resp, model := serveApiAndRetrieveEndpoint(t, api, "/api/companies/top.json")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		list, limitExceeded := listOf(t, model)
		assert.Len(t, list, 2)
		assert.True(t, limitExceeded)
		assert.Equal(t, map[string]interface{}{"company": "Globex", "total": float64(40)}, list[0])
	})

	t.Run("not ready", func(t *testing.T) {
		api := createTestApi(t)

		resp, model := serveApiAndRetrieveEndpoint(t, api, "/api/companies/top.json")
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, http.StatusServiceUnavailable, model.Code)
		assert.Equal(t, "dashboard idle", model.Text)
		assert.Equal(t, "1", resp.Header.Get("Retry-After"))
	})
}

func TestTopRegionsHandler(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		api := createLoadedTestApi(t)

		resp, model := serveApiAndRetrieveEndpoint(t, api, "/api/regions/top.json")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		list, limitExceeded := listOf(t, model)
		assert.Len(t, list, 4)
		assert.False(t, limitExceeded)
		for _, item := range list {
			assert.NotEqual(t, "Unknown", item.(map[string]interface{})["name"])
		}
	})

	t.Run("failed includes the message", func(t *testing.T) {
		api := createTestApi(t)
		api.Dashboard.SetLocation(" ")

		resp, model := serveApiAndRetrieveEndpoint(t, api, "/api/regions/top.json")
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Contains(t, model.Text, "dashboard failed: missing dataset location")
	})
}

func TestNotFound(t *testing.T) {
	api := createTestApi(t)

	resp, model := serveApiAndRetrieveEndpoint(t, api, "/api/where/agency/raba.json")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "resource not found", model.Text)
}
