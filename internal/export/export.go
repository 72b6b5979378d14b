// Package export serializes an enriched table to the downloadable CSV report.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/KaramelBytes/reportdesk/internal/analysis"
	"github.com/KaramelBytes/reportdesk/internal/utils"
)

// ContentType is the MIME type of the report.
const ContentType = "text/csv"

// Filename is report_<YYYYMMDD>.csv for the day the export is generated.
func Filename(now time.Time) string {
	return fmt.Sprintf("report_%s.csv", now.Format("20060102"))
}

// WriteCSV writes the header (input columns, then value_diff) and one
// record per row. Numbers use the shortest decimal form; missing cells are
// empty.
func WriteCSV(w io.Writer, e *analysis.Enriched) error {
	if e == nil || e.Table == nil {
		return fmt.Errorf("export: nothing to export")
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(e.Table.Names()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	rec := make([]string, len(e.Table.Columns))
	for i, row := range e.Table.Rows {
		for j, v := range row {
			rec[j] = v.String()
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// Bytes returns the CSV report in memory.
func Bytes(e *analysis.Enriched) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, e); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ToFile writes the report into dir under Filename(now) and returns its path.
// An existing report of the same day is replaced.
func ToFile(dir string, e *analysis.Enriched, now time.Time) (string, error) {
	return write(dir, e, now, false)
}

// ToNewFile is ToFile but never overwrites: when report_<date>.csv exists the
// report goes to report_<date>__2.csv, __3 and so on.
func ToNewFile(dir string, e *analysis.Enriched, now time.Time) (string, error) {
	return write(dir, e, now, true)
}

func write(dir string, e *analysis.Enriched, now time.Time, unique bool) (string, error) {
	b, err := Bytes(e)
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = "."
	}
	if err := utils.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, Filename(now))
	if unique {
		path = freePath(path)
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return "", err
	}
	return path, nil
}

func freePath(path string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for idx := 2; ; idx++ {
		cand := fmt.Sprintf("%s__%d%s", base, idx, ext)
		if _, err := os.Stat(cand); os.IsNotExist(err) {
			return cand
		}
	}
}
