package analysis

import (
	"errors"
	"fmt"
)

var (
	// ErrNoNumericColumn is the warning state for tables without an all-numeric
	// column. Infer never returns it; hosts surface it and skip analysis.
	ErrNoNumericColumn = errors.New("no numeric column found; trend chart and export are unavailable")
	// ErrInvalidColumn is wrapped by every InvalidColumnError.
	ErrInvalidColumn = errors.New("invalid numeric column")
	// ErrPlotting is wrapped by every PlottingError.
	ErrPlotting = errors.New("cannot build plot series")
)

// InvalidColumnError indicates Derive was called with a column that does not
// exist or is not uniformly numeric.
type InvalidColumnError struct {
	Column string
	Reason string
}

func (e *InvalidColumnError) Error() string {
	return fmt.Sprintf("%s %q: %s", ErrInvalidColumn.Error(), e.Column, e.Reason)
}

func (e *InvalidColumnError) Unwrap() error { return ErrInvalidColumn }

// PlottingError indicates BuildSeries was called without a derived value_diff
// column or with an unusable x-axis column.
type PlottingError struct {
	Reason string
}

func (e *PlottingError) Error() string {
	return fmt.Sprintf("%s: %s", ErrPlotting.Error(), e.Reason)
}

func (e *PlottingError) Unwrap() error { return ErrPlotting }
