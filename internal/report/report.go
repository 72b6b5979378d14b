// Package report runs the ingest, inference, derivation and plotting steps
// for one uploaded file and bundles the result.
package report

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/KaramelBytes/reportdesk/internal/analysis"
	"github.com/KaramelBytes/reportdesk/internal/parser"
	"github.com/KaramelBytes/reportdesk/internal/table"
)

// DefaultSampleRows is how many rows the overview shows.
const DefaultSampleRows = 5

// Options configures a run.
type Options struct {
	Parse      parser.Options
	Analysis   analysis.Options
	SampleRows int
}

// DefaultOptions returns strict parsing, the reject missing-value policy and
// five sample rows.
func DefaultOptions() Options {
	return Options{
		Parse:      parser.DefaultOptions(),
		Analysis:   analysis.DefaultOptions(),
		SampleRows: DefaultSampleRows,
	}
}

// Result is one completed upload: the ingested table and everything derived
// from it. Enriched and Series are nil when no numeric column was found.
type Result struct {
	Name      string
	Loaded    time.Time
	Table     *table.Table
	Selection analysis.Selection
	Enriched  *analysis.Enriched
	Series    *analysis.Series
	// PlotErr is set when the series could not be built; the rest stays usable.
	PlotErr  error
	Overview analysis.Overview
}

// Exportable reports whether the result carries a value_diff column.
func (r *Result) Exportable() bool { return r != nil && r.Enriched != nil }

// Warning returns the inference warning, if any.
func (r *Result) Warning() error {
	if r == nil {
		return nil
	}
	return r.Selection.Warning()
}

// Load parses content and analyzes the resulting table. Only ingest and
// derivation failures are returned; a missing numeric column or a plotting
// failure is recorded on the result.
func Load(name string, content io.Reader, opt Options) (*Result, error) {
	t, err := parser.Parse(name, content, opt.Parse)
	if err != nil {
		return nil, err
	}
	return Analyze(name, t, opt)
}

// LoadFile is Load for a path on disk.
func LoadFile(path string, opt Options) (*Result, error) {
	t, err := parser.ParseFile(path, opt.Parse)
	if err != nil {
		return nil, err
	}
	return Analyze(path, t, opt)
}

// Analyze runs inference, derivation and plotting on an ingested table.
func Analyze(name string, t *table.Table, opt Options) (*Result, error) {
	if t == nil {
		return nil, parser.ErrEmptyInput
	}
	res := &Result{Name: name, Loaded: time.Now(), Table: t}
	res.Selection = analysis.Infer(t, opt.Analysis)

	if col, ok := res.Selection.Numeric(); ok {
		e, err := analysis.Derive(t, col, opt.Analysis)
		if err != nil {
			return nil, fmt.Errorf("derive %s: %w", col, err)
		}
		res.Enriched = e
		s, err := analysis.BuildSeries(e, res.Selection)
		if err != nil {
			var pe *analysis.PlottingError
			if !errors.As(err, &pe) {
				return nil, err
			}
			res.PlotErr = err
		} else {
			res.Series = s
		}
	}
	res.Overview = analysis.Summarize(name, t, res.Selection, res.Enriched, opt.SampleRows)
	return res, nil
}
