package present

// Ellipsis replaces the tail of a truncated label.
const Ellipsis = "…"

// Label widths used by the charts.
const (
	DefaultLabelMax = 16
	AxisLabelMax    = 14
)

// MinLabelWidth is the narrowest bar, in pixels, that still gets a value label.
const MinLabelWidth = 12

// TruncateLabel shortens name to at most maxLen characters, replacing the
// tail with a single ellipsis when it does not fit.
func TruncateLabel(name string, maxLen int) string {
	if name == "" || maxLen < 1 {
		return ""
	}
	runes := []rune(name)
	if len(runes) <= maxLen {
		return name
	}
	return string(runes[:maxLen-1]) + Ellipsis
}

// ShowValueLabel reports whether a value label fits on a bar of the given width.
func ShowValueLabel(width float64, value any) bool {
	return value != nil && width >= MinLabelWidth
}
