package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmi-dashboard/lmi-dashboard/internal/aggregate"
	"github.com/lmi-dashboard/lmi-dashboard/internal/dashboard"
	"github.com/lmi-dashboard/lmi-dashboard/internal/present"
)

func TestNewDashboardEntryReady(t *testing.T) {
	completed := time.Date(2025, 5, 3, 12, 0, 0, 0, time.UTC)
	snap := dashboard.Snapshot{
		State:    dashboard.Ready,
		Token:    3,
		Location: "https://example.com/jobs.csv",
		Summary: aggregate.Summary{
			ByEmployer:    aggregate.Ranking{{Key: "Acme", Total: 8}, {Key: "Unknown", Total: 2}},
			ByRegion:      aggregate.Ranking{{Key: "CA", Total: 7}},
			RowCount:      3,
			TotalPostings: 1234,
		},
		CompletedAt: completed,
	}

	entry := NewDashboardEntry(snap, false, nil)

	assert.Equal(t, dashboard.Ready, entry.State)
	assert.Equal(t, []present.BarDatum{{Company: "Acme", Total: 8}, {Company: "Unknown", Total: 2}}, entry.Companies)
	assert.Equal(t, []present.AreaDatum{{Name: "CA", Size: 7}}, entry.Regions)
	assert.Equal(t, "1,234", entry.FormattedTotal)
	assert.Equal(t, UnixMillis(completed), entry.LoadedAt)
	assert.Empty(t, entry.Error)

	data, err := json.Marshal(entry)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"state":"ready"`)
	assert.Contains(t, string(data), `"companies":[{"company":"Acme","total":8},{"company":"Unknown","total":2}]`)
	assert.Contains(t, string(data), `"regions":[{"name":"CA","size":7}]`)
}

func TestNewDashboardEntryNotReady(t *testing.T) {
	formatter, err := present.NewFormatter("de-DE")
	require.NoError(t, err)

	t.Run("loading encodes empty series", func(t *testing.T) {
		entry := NewDashboardEntry(dashboard.Snapshot{State: dashboard.Loading, Location: "jobs.csv"}, true, formatter)

		assert.False(t, entry.Refreshing, "a first load is not a refresh")
		data, err := json.Marshal(entry)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"companies":[]`)
		assert.Contains(t, string(data), `"regions":[]`)
		assert.NotContains(t, string(data), `"loadedAt"`)
	})

	t.Run("failed carries the message", func(t *testing.T) {
		entry := NewDashboardEntry(dashboard.Snapshot{State: dashboard.Failed, Err: errors.New("boom")}, false, formatter)
		assert.Equal(t, "boom", entry.Error)
		assert.Equal(t, "0", entry.FormattedTotal)
	})
}

func TestNewStatusEntry(t *testing.T) {
	entry := NewStatusEntry(dashboard.Status{State: dashboard.Ready, Location: "jobs.csv", Refreshing: true})

	data, err := json.Marshal(entry)
	require.NoError(t, err)
	assert.JSONEq(t, `{"state":"ready","location":"jobs.csv","refreshing":true}`, string(data))
}
