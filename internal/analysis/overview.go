package analysis

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/KaramelBytes/reportdesk/internal/table"
)

// Overview backs the summary cards and the markdown report.
type Overview struct {
	Name     string
	Rows     int
	Cols     []ColumnSummary
	Numeric  string
	Temporal string
	Mean     float64
	HasMean  bool

	// SampleHeader names the Samples columns, value_diff included when derived.
	SampleHeader []string
	Samples      [][]string
	Warnings     []string
}

// ColumnSummary is one schema line.
type ColumnSummary struct {
	Name     string
	Kind     string // numeric|datetime|text|empty
	NonNull  int
	Missing  int
	Selected string // "analysis", "timeline" or ""
}

// Summarize builds the overview of t. Enriched may be nil when there was no
// numeric column; the overview then carries the warning instead of a mean.
func Summarize(name string, t *table.Table, sel Selection, e *Enriched, sampleRows int) Overview {
	ov := Overview{Name: name, Rows: t.Len()}
	numeric, hasNum := sel.Numeric()
	temporal, hasTime := sel.Temporal()
	if hasNum {
		ov.Numeric = numeric
	}
	if hasTime {
		ov.Temporal = temporal
	}
	if t == nil {
		return ov
	}
	for j, c := range t.Columns {
		s := ColumnSummary{Name: c.Name, Kind: c.Kind.String()}
		for _, r := range t.Rows {
			if r[j].IsNull() {
				s.Missing++
			} else {
				s.NonNull++
			}
		}
		switch {
		case hasNum && c.Name == numeric:
			s.Selected = "analysis"
		case hasTime && c.Name == temporal:
			s.Kind = "datetime"
			s.Selected = "timeline"
		}
		ov.Cols = append(ov.Cols, s)
	}
	if sampleRows < 0 {
		sampleRows = 0
	}
	src := t
	if e != nil && e.Table != nil {
		src = e.Table
	}
	if sampleRows > 0 {
		ov.SampleHeader = src.Names()
	}
	for i := 0; i < len(src.Rows) && i < sampleRows; i++ {
		row := make([]string, len(src.Columns))
		for j, v := range src.Rows[i] {
			row[j] = v.String()
		}
		ov.Samples = append(ov.Samples, row)
	}
	if e != nil {
		ov.Mean, ov.HasMean = e.Mean, true
		ov.Warnings = append(ov.Warnings, e.Warnings...)
	}
	if err := sel.Warning(); err != nil {
		ov.Warnings = append(ov.Warnings, err.Error())
	}
	return ov
}

// MeanLabel formats the mean card value with two decimals.
func (o Overview) MeanLabel() string {
	if !o.HasMean {
		return "-"
	}
	return fmt.Sprintf("%.2f", o.Mean)
}

// Markdown renders a compact report suitable for terminals or standalone docs.
func (o Overview) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if o.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", o.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", o.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n", len(o.Cols)))
	if o.HasMean {
		b.WriteString(fmt.Sprintf("Mean of %s: %s\n", o.Numeric, o.MeanLabel()))
	}
	if o.Temporal != "" {
		b.WriteString(fmt.Sprintf("Timeline: %s\n", o.Temporal))
	} else if o.HasMean {
		b.WriteString("Timeline: row index\n")
	}

	b.WriteString("\n[SCHEMA]\n")
	for _, c := range o.Cols {
		total := c.NonNull + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", safeName(c.Name), c.Kind, c.NonNull, missPct))
		if c.Selected != "" {
			b.WriteString(" [" + c.Selected + "]")
		}
		b.WriteString("\n")
	}

	if len(o.Samples) > 0 {
		header := make([]string, len(o.SampleHeader))
		for i, h := range o.SampleHeader {
			header[i] = safeName(h)
		}
		b.WriteString("\n[HEAD AND SAMPLE ROWS]\n")
		b.WriteString("| " + strings.Join(header, " | ") + " |\n")
		b.WriteString("|" + strings.Repeat(" --- |", len(header)) + "\n")
		for _, row := range o.Samples {
			b.WriteString("| ")
			for i := range header {
				if i > 0 {
					b.WriteString(" | ")
				}
				val := ""
				if i < len(row) {
					val = row[i]
				}
				if utf8.RuneCountInString(val) > 80 {
					val = string([]rune(val)[:77]) + "..."
				}
				b.WriteString(safeVal(val))
			}
			b.WriteString(" |\n")
		}
	}
	if len(o.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range o.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
