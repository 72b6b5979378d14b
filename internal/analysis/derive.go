package analysis

import (
	"fmt"

	"github.com/KaramelBytes/reportdesk/internal/table"
)

// ValueDiffColumn is the name of the derived deviation-from-mean column.
const ValueDiffColumn = "value_diff"

// Enriched is the input table plus the appended value_diff column. It is
// created once per Derive call and never modified afterwards.
type Enriched struct {
	Table    *table.Table
	Column   string
	Mean     float64
	Count    int
	Dropped  int
	Warnings []string
}

// Derive computes the arithmetic mean of column and appends value_diff =
// value - mean to every row. Row order is preserved and t is not modified.
//
// NaN and ±Inf propagate through the mean under IEEE-754 rules. A column that
// does not exist or holds non-numeric cells is an *InvalidColumnError. An
// existing value_diff column is replaced by the freshly derived one.
func Derive(t *table.Table, column string, opt Options) (*Enriched, error) {
	if t == nil {
		return nil, &InvalidColumnError{Column: column, Reason: "no table"}
	}
	idx := t.Index(column)
	if idx < 0 {
		return nil, &InvalidColumnError{Column: column, Reason: "column does not exist"}
	}

	var sum float64
	var n, dropped int
	for i, r := range t.Rows {
		v := r[idx]
		switch v.Kind {
		case table.KindNumber:
			sum += v.Num
			n++
		case table.KindEmpty:
			if opt.Missing == MissingReject {
				return nil, &InvalidColumnError{Column: column, Reason: fmt.Sprintf("missing value in row %d", i)}
			}
			dropped++
		default:
			return nil, &InvalidColumnError{Column: column, Reason: fmt.Sprintf("non-numeric value %q in row %d", v.Str, i)}
		}
	}
	if n == 0 {
		return nil, &InvalidColumnError{Column: column, Reason: "no numeric values"}
	}
	mean := sum / float64(n)

	diffs := make([]table.Value, len(t.Rows))
	for i, r := range t.Rows {
		if x, ok := r[idx].Float(); ok {
			diffs[i] = table.Number(x - mean)
		}
	}

	base := t
	if t.Index(ValueDiffColumn) >= 0 {
		base = t.Without(ValueDiffColumn)
	}
	out, err := base.WithColumn(table.Column{Name: ValueDiffColumn, Kind: table.KindNumber}, diffs)
	if err != nil {
		return nil, fmt.Errorf("append %s: %w", ValueDiffColumn, err)
	}
	e := &Enriched{Table: out, Column: column, Mean: mean, Count: n, Dropped: dropped}
	if dropped > 0 {
		e.Warnings = append(e.Warnings, fmt.Sprintf("%d of %d rows have no %s value and were left out of the mean", dropped, len(t.Rows), column))
	}
	return e, nil
}
