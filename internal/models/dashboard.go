package models

import (
	"fmt"

	"github.com/lmi-dashboard/lmi-dashboard/internal/dashboard"
	"github.com/lmi-dashboard/lmi-dashboard/internal/present"
)

// DashboardEntry is everything a renderer needs to draw both charts, or the
// loading indicator and error message when there is nothing to draw yet.
type DashboardEntry struct {
	State      dashboard.State `json:"state" yaml:"state"`
	Location   string          `json:"location,omitempty" yaml:"location,omitempty"`
	LoadedAt   int64           `json:"loadedAt,omitempty" yaml:"loadedAt,omitempty"`
	Error      string          `json:"error,omitempty" yaml:"error,omitempty"`
	Refreshing bool            `json:"refreshing" yaml:"refreshing"`

	Companies []present.BarDatum  `json:"companies" yaml:"companies"`
	Regions   []present.AreaDatum `json:"regions" yaml:"regions"`

	RowCount       int    `json:"rowCount" yaml:"rowCount"`
	TotalPostings  int64  `json:"totalPostings" yaml:"totalPostings"`
	FormattedTotal string `json:"formattedTotal" yaml:"formattedTotal"`
}

// NewDashboardEntry projects a snapshot for renderers. Series are always
// non-nil so they encode as [] rather than null.
func NewDashboardEntry(snap dashboard.Snapshot, refreshing bool, f *present.Formatter) DashboardEntry {
	if f == nil {
		f = present.Default()
	}
	return DashboardEntry{
		State:          snap.State,
		Location:       snap.Location,
		LoadedAt:       UnixMillis(snap.CompletedAt),
		Error:          snap.ErrorText(),
		Refreshing:     refreshing && snap.State != dashboard.Loading,
		Companies:      present.BarSeries(snap.Summary.ByEmployer),
		Regions:        present.AreaSeries(snap.Summary.ByRegion),
		RowCount:       snap.Summary.RowCount,
		TotalPostings:  snap.Summary.TotalPostings,
		FormattedTotal: fmt.Sprint(f.FormatCount(snap.Summary.TotalPostings)),
	}
}

// StatusEntry is the state machine view without chart data.
type StatusEntry struct {
	State      dashboard.State `json:"state"`
	Location   string          `json:"location,omitempty"`
	Error      string          `json:"error,omitempty"`
	Refreshing bool            `json:"refreshing"`
	LoadedAt   int64           `json:"loadedAt,omitempty"`
}

func NewStatusEntry(status dashboard.Status) StatusEntry {
	return StatusEntry{
		State:      status.State,
		Location:   status.Location,
		Error:      status.Error,
		Refreshing: status.Refreshing,
		LoadedAt:   UnixMillis(status.CompletedAt),
	}
}
