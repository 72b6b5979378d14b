// Package analysis selects the columns to analyze in a table, derives the
// value_diff metric and shapes the result for charting.
//
// Every function here is pure: inputs are never modified and no state is kept
// between calls.
package analysis

import (
	"strings"
	"time"

	"github.com/KaramelBytes/reportdesk/internal/table"
)

// MissingPolicy decides how missing cells in the numeric column are treated.
type MissingPolicy int

const (
	// MissingReject treats a column with any missing cell as non-numeric.
	MissingReject MissingPolicy = iota
	// MissingDrop ignores missing cells: they are excluded from the mean and
	// their value_diff is missing. Derive records a warning.
	MissingDrop
)

func (p MissingPolicy) String() string {
	if p == MissingDrop {
		return "drop"
	}
	return "reject"
}

// ParseMissingPolicy maps "reject" or "drop" to a policy.
func ParseMissingPolicy(s string) (MissingPolicy, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "reject":
		return MissingReject, true
	case "drop":
		return MissingDrop, true
	}
	return MissingReject, false
}

// Options controls inference and derivation.
type Options struct {
	Missing MissingPolicy
}

// DefaultOptions rejects columns with missing cells.
func DefaultOptions() Options { return Options{Missing: MissingReject} }

// Selection is the result of column inference. Either column may be absent.
type Selection struct {
	numeric     string
	hasNumeric  bool
	temporal    string
	hasTemporal bool
}

// Numeric returns the column chosen for analysis.
func (s Selection) Numeric() (string, bool) { return s.numeric, s.hasNumeric }

// Temporal returns the column chosen as the chart x-axis.
func (s Selection) Temporal() (string, bool) { return s.temporal, s.hasTemporal }

// Warning returns ErrNoNumericColumn when there is nothing to analyze.
func (s Selection) Warning() error {
	if !s.hasNumeric {
		return ErrNoNumericColumn
	}
	return nil
}

// Infer picks the first all-numeric column and the first column whose every
// value parses as a timestamp, both in declaration order. First match wins
// even when a later column would fit better.
func Infer(t *table.Table, opt Options) Selection {
	var sel Selection
	if t == nil || len(t.Rows) == 0 {
		return sel
	}
	for j, c := range t.Columns {
		if isNumericColumn(t, j, opt.Missing) {
			sel.numeric, sel.hasNumeric = c.Name, true
			break
		}
	}
	for j, c := range t.Columns {
		if isTemporalColumn(t, j) {
			sel.temporal, sel.hasTemporal = c.Name, true
			break
		}
	}
	return sel
}

func isNumericColumn(t *table.Table, j int, policy MissingPolicy) bool {
	seen := 0
	for _, r := range t.Rows {
		switch r[j].Kind {
		case table.KindNumber:
			seen++
		case table.KindEmpty:
			if policy == MissingReject {
				return false
			}
		default:
			return false
		}
	}
	return seen > 0
}

// isTemporalColumn only considers text cells; numbers are never timestamps and
// a missing cell fails the column.
func isTemporalColumn(t *table.Table, j int) bool {
	for _, r := range t.Rows {
		v := r[j]
		if v.Kind != table.KindText {
			return false
		}
		if _, ok := ParseTime(v.Str); !ok {
			return false
		}
	}
	return true
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02",
	"2006-1-2",
	"2006/01/02",
	"2006/1/2",
	"2006.01.02",
	"01/02/2006",
	"1/2/2006",
	"02/01/2006",
	"2/1/2006",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.000",
	"2006-01-02T15:04:05",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"Jan 2 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"January 2 2006",
	"2 Jan 2006",
	"02-Jan-2006",
	time.RFC1123,
	time.RFC1123Z,
	"2006-01",
}

// ParseTime is the permissive timestamp parser used for temporal inference.
// Layouts are tried in a fixed order and parsed as UTC, so results never
// depend on the host's locale or timezone. Slash dates are read month first,
// falling back to day first.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, l := range timeLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
