package source

import (
	"math"
	"strconv"
	"strings"
)

// Column names read from the dataset. Any other column is ignored.
const (
	CompanyColumn = "grouped_company"
	RegionColumn  = "state"
	CountColumn   = "job_posting_count"
)

// RawRecord is one CSV data line keyed by header name.
type RawRecord map[string]string

// Row is a normalized job posting record.
type Row struct {
	Company string `json:"company" yaml:"company"`
	Region  string `json:"region" yaml:"region"`
	Count   int64  `json:"count" yaml:"count"`
}

// Normalize coerces a raw record into a Row. It never fails: absent strings
// become "" and an unusable count becomes 0.
func Normalize(rec RawRecord) Row {
	return Row{
		Company: strings.TrimSpace(rec[CompanyColumn]),
		Region:  strings.TrimSpace(rec[RegionColumn]),
		Count:   ParseCount(rec[CountColumn]),
	}
}

// ParseCount parses a posting count. Decimal text is truncated toward zero;
// anything empty, non-numeric, non-finite, out of range or negative yields 0.
func ParseCount(raw string) int64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n < 0 {
			return 0
		}
		return n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f >= math.MaxInt64 {
		return 0
	}
	return int64(f)
}
