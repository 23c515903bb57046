package present

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultLocale is used by the package-level helpers.
const DefaultLocale = "en-US"

// Formatter renders counts with the thousands grouping of one locale.
type Formatter struct {
	tag     language.Tag
	printer *message.Printer
}

// NewFormatter returns a Formatter for a BCP 47 locale such as "en-US" or "de-DE".
func NewFormatter(locale string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	return &Formatter{tag: tag, printer: message.NewPrinter(tag)}, nil
}

var defaultFormatter = &Formatter{
	tag:     language.AmericanEnglish,
	printer: message.NewPrinter(language.AmericanEnglish),
}

// Default returns the formatter behind the package-level helpers.
func Default() *Formatter {
	return defaultFormatter
}

// Locale returns the formatter's locale tag.
func (f *Formatter) Locale() string {
	return f.tag.String()
}

// FormatCount renders a number with locale thousands grouping. Any value
// that is not a number is returned unchanged.
func (f *Formatter) FormatCount(v any) any {
	switch n := v.(type) {
	case int:
		return f.printer.Sprintf("%d", n)
	case int8:
		return f.printer.Sprintf("%d", n)
	case int16:
		return f.printer.Sprintf("%d", n)
	case int32:
		return f.printer.Sprintf("%d", n)
	case int64:
		return f.printer.Sprintf("%d", n)
	case uint:
		return f.printer.Sprintf("%d", n)
	case uint8:
		return f.printer.Sprintf("%d", n)
	case uint16:
		return f.printer.Sprintf("%d", n)
	case uint32:
		return f.printer.Sprintf("%d", n)
	case uint64:
		return f.printer.Sprintf("%d", n)
	case float32:
		return f.formatFloat(float64(n))
	case float64:
		return f.formatFloat(n)
	default:
		return v
	}
}

func (f *Formatter) formatFloat(n float64) string {
	if n == math.Trunc(n) && math.Abs(n) < math.MaxInt64 {
		return f.printer.Sprintf("%d", int64(n))
	}
	return f.printer.Sprintf("%v", n)
}

// Tooltip is the overlay text shown for a chart value.
func (f *Formatter) Tooltip(v any) string {
	return fmt.Sprintf("Job postings: %v", f.FormatCount(v))
}

// FormatCount formats v with the default locale.
func FormatCount(v any) any {
	return defaultFormatter.FormatCount(v)
}

// Tooltip builds overlay text with the default locale.
func Tooltip(v any) string {
	return defaultFormatter.Tooltip(v)
}
