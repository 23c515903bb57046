// Package aggregate reduces normalized job posting rows into ranked totals
// by employer and by region.
//
// Rankings are sorted by total, descending. Entries with equal totals keep the
// order in which their keys were first seen in the input, so the same rows
// always produce the same ranking.
package aggregate

import (
	"sort"

	"github.com/lmi-dashboard/lmi-dashboard/internal/source"
)

// Unknown is the key rows with an empty grouping value are folded into.
const Unknown = "Unknown"

// DefaultTopN is the number of entries kept in each ranking.
const DefaultTopN = 10

// Entry is the summed posting count for one grouping key.
type Entry struct {
	Key   string `json:"key" yaml:"key"`
	Total int64  `json:"total" yaml:"total"`
}

// Ranking is an ordered list of entries, highest total first.
type Ranking []Entry

// Sum returns the total over all entries.
func (r Ranking) Sum() int64 {
	var sum int64
	for _, e := range r {
		sum += e.Total
	}
	return sum
}

// Contains reports whether key has an entry in the ranking.
func (r Ranking) Contains(key string) bool {
	for _, e := range r {
		if e.Key == key {
			return true
		}
	}
	return false
}

// KeyFunc extracts a grouping key from a row.
type KeyFunc func(source.Row) string

// CompanyKey groups rows by employer.
func CompanyKey(r source.Row) string { return r.Company }

// RegionKey groups rows by region.
func RegionKey(r source.Row) string { return r.Region }

// Group sums Count per key. Empty keys fold into Unknown. The result lists
// keys in first-seen order.
func Group(rows []source.Row, key KeyFunc) Ranking {
	index := make(map[string]int)
	grouped := Ranking{}
	for _, row := range rows {
		k := key(row)
		if k == "" {
			k = Unknown
		}
		i, ok := index[k]
		if !ok {
			i = len(grouped)
			index[k] = i
			grouped = append(grouped, Entry{Key: k})
		}
		grouped[i].Total += row.Count
	}
	return grouped
}

// Sorted returns a copy of entries ordered by total, descending. The sort is
// stable so equal totals keep their input order.
func Sorted(entries Ranking) Ranking {
	out := make(Ranking, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total > out[j].Total
	})
	return out
}

// Top truncates a ranking to its first n entries. n < 1 means DefaultTopN.
func Top(entries Ranking, n int) Ranking {
	if n < 1 {
		n = DefaultTopN
	}
	if len(entries) > n {
		entries = entries[:n:n]
	}
	return entries
}

// Without returns the entries whose key is not key.
func Without(entries Ranking, key string) Ranking {
	out := make(Ranking, 0, len(entries))
	for _, e := range entries {
		if e.Key != key {
			out = append(out, e)
		}
	}
	return out
}

// ByEmployer ranks employers by total postings and keeps the top n.
// The Unknown bucket is ranked like any other employer.
func ByEmployer(rows []source.Row, n int) Ranking {
	return Top(Sorted(Group(rows, CompanyKey)), n)
}

// ByRegion ranks regions by total postings, drops the Unknown bucket and
// keeps the top n of the rest.
func ByRegion(rows []source.Row, n int) Ranking {
	return Top(Without(Sorted(Group(rows, RegionKey)), Unknown), n)
}

// Summary holds both rankings computed from one set of rows.
type Summary struct {
	ByEmployer    Ranking `json:"byEmployer" yaml:"byEmployer"`
	ByRegion      Ranking `json:"byRegion" yaml:"byRegion"`
	RowCount      int     `json:"rowCount" yaml:"rowCount"`
	TotalPostings int64   `json:"totalPostings" yaml:"totalPostings"`

	// Employers and Regions count the distinct keys before truncation.
	// Regions does not count Unknown.
	Employers int `json:"employers" yaml:"employers"`
	Regions   int `json:"regions" yaml:"regions"`
}

// Summarize computes both rankings over rows. Zero rows give two empty rankings.
func Summarize(rows []source.Row, n int) Summary {
	var total int64
	for _, row := range rows {
		total += row.Count
	}
	employers := Sorted(Group(rows, CompanyKey))
	regions := Without(Sorted(Group(rows, RegionKey)), Unknown)
	return Summary{
		ByEmployer:    Top(employers, n),
		ByRegion:      Top(regions, n),
		RowCount:      len(rows),
		TotalPostings: total,
		Employers:     len(employers),
		Regions:       len(regions),
	}
}
