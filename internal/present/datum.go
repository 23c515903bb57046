// Package present projects rankings into the series chart renderers expect
// and provides the formatting helpers their overlays call.
package present

import "github.com/lmi-dashboard/lmi-dashboard/internal/aggregate"

// BarDatum is one bar of the ranked employer chart.
type BarDatum struct {
	Company string `json:"company" yaml:"company"`
	Total   int64  `json:"total" yaml:"total"`
}

// AreaDatum is one tile of the proportional region treemap.
type AreaDatum struct {
	Name string `json:"name" yaml:"name"`
	Size int64  `json:"size" yaml:"size"`
}

func ToBarDatum(e aggregate.Entry) BarDatum {
	return BarDatum{Company: e.Key, Total: e.Total}
}

func ToAreaDatum(e aggregate.Entry) AreaDatum {
	return AreaDatum{Name: e.Key, Size: e.Total}
}

// BarSeries maps a ranking to bar data in the same order.
func BarSeries(r aggregate.Ranking) []BarDatum {
	out := make([]BarDatum, len(r))
	for i, e := range r {
		out[i] = ToBarDatum(e)
	}
	return out
}

// AreaSeries maps a ranking to treemap data in the same order.
func AreaSeries(r aggregate.Ranking) []AreaDatum {
	out := make([]AreaDatum, len(r))
	for i, e := range r {
		out[i] = ToAreaDatum(e)
	}
	return out
}

// Display bundles the overlay strings for one chart value.
type Display struct {
	Label      string `json:"label"`
	ShortLabel string `json:"shortLabel"`
	Value      any    `json:"value"`
	Formatted  any    `json:"formatted"`
	Tooltip    string `json:"tooltip"`
}

// Describe renders the overlay strings for a label and value.
func (f *Formatter) Describe(label string, value any, maxLen int) Display {
	return Display{
		Label:      label,
		ShortLabel: TruncateLabel(label, maxLen),
		Value:      value,
		Formatted:  f.FormatCount(value),
		Tooltip:    f.Tooltip(value),
	}
}
