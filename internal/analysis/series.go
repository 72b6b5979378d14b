package analysis

import (
	"fmt"
	"math"
	"time"
)

// IndexAxisLabel labels the synthetic row-index x-axis.
const IndexAxisLabel = "row"

// Series is the x/y view handed to a line-chart renderer. Exactly one of
// Times or Index is set, matching Y in length and row order.
type Series struct {
	Title  string
	XLabel string
	YLabel string
	Times  []time.Time
	Index  []int
	// Y holds value_diff per row; missing values are NaN.
	Y []float64
}

// Len returns the number of points.
func (s *Series) Len() int { return len(s.Y) }

// IsTime reports whether the x-axis is a timeline.
func (s *Series) IsTime() bool { return s.Times != nil }

// X returns the i-th x value as a float: Unix seconds for a timeline, the row
// index otherwise.
func (s *Series) X(i int) float64 {
	if s.IsTime() {
		return float64(s.Times[i].Unix())
	}
	return float64(s.Index[i])
}

// BuildSeries pairs value_diff with the temporal column when sel has one,
// otherwise with a zero-based row index. Rows keep their loaded order; a
// timeline that is not sorted is plotted as-is.
func BuildSeries(e *Enriched, sel Selection) (*Series, error) {
	if e == nil || e.Table == nil {
		return nil, &PlottingError{Reason: "no derived " + ValueDiffColumn + " column"}
	}
	t := e.Table
	yIdx := t.Index(ValueDiffColumn)
	if yIdx < 0 {
		return nil, &PlottingError{Reason: "table has no " + ValueDiffColumn + " column"}
	}
	s := &Series{
		Title:  ValueDiffColumn + " trend",
		YLabel: ValueDiffColumn,
		Y:      make([]float64, len(t.Rows)),
	}
	for i, r := range t.Rows {
		if y, ok := r[yIdx].Float(); ok {
			s.Y[i] = y
		} else {
			s.Y[i] = math.NaN()
		}
	}

	if name, ok := sel.Temporal(); ok {
		xIdx := t.Index(name)
		if xIdx < 0 {
			return nil, &PlottingError{Reason: fmt.Sprintf("temporal column %q not in table", name)}
		}
		s.XLabel = name
		s.Times = make([]time.Time, len(t.Rows))
		for i, r := range t.Rows {
			ts, ok := ParseTime(r[xIdx].Str)
			if !ok {
				return nil, &PlottingError{Reason: fmt.Sprintf("row %d of %q is not a timestamp", i, name)}
			}
			s.Times[i] = ts
		}
		return s, nil
	}

	s.XLabel = IndexAxisLabel
	s.Index = make([]int, len(t.Rows))
	for i := range s.Index {
		s.Index[i] = i
	}
	return s, nil
}
