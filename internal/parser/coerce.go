package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KaramelBytes/reportdesk/internal/table"
)

// buildTable coerces raw string records into a typed table. Each column gets
// one kind: numeric when every non-empty cell parses as a number, text
// otherwise, empty when every cell is blank. Cells flagged in native hold
// machine-formatted numbers and skip the separator rules; native may be nil.
func buildTable(source string, header []string, records [][]string, native [][]bool, opt Options) (*table.Table, error) {
	ncol := len(header)
	if ncol == 0 {
		return nil, ErrEmptyInput
	}
	cols := make([]table.Column, ncol)
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		cols[i] = table.Column{Name: name}
	}
	if len(records) == 0 {
		return nil, ErrEmptyInput
	}

	nums := make([][]float64, ncol)
	for j := 0; j < ncol; j++ {
		numeric := true
		seen := false
		vals := make([]float64, len(records))
		for i, rec := range records {
			v := cell(rec, j)
			if v == "" {
				continue
			}
			seen = true
			var x float64
			var ok bool
			if isNative(native, i, j) {
				x, ok = nativeNumber(v)
			} else {
				x, ok = parseNumber(v, opt)
			}
			if !ok {
				numeric = false
				break
			}
			vals[i] = x
		}
		switch {
		case !seen:
			cols[j].Kind = table.KindEmpty
		case numeric:
			cols[j].Kind = table.KindNumber
			nums[j] = vals
		default:
			cols[j].Kind = table.KindText
		}
	}

	rows := make([][]table.Value, len(records))
	for i, rec := range records {
		row := make([]table.Value, ncol)
		for j := 0; j < ncol; j++ {
			v := cell(rec, j)
			switch {
			case v == "":
				row[j] = table.Null()
			case cols[j].Kind == table.KindNumber:
				row[j] = table.Number(nums[j][i])
			default:
				row[j] = table.Text(v)
			}
		}
		rows[i] = row
	}
	t, err := table.New(cols, rows)
	if err != nil {
		return nil, &ParseError{Source: source, Err: err}
	}
	return t, nil
}

// cell returns the trimmed j-th field; short records are padded with blanks.
func cell(rec []string, j int) string {
	if j >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[j])
}

func isNative(native [][]bool, i, j int) bool {
	return i < len(native) && j < len(native[i]) && native[i][j]
}

// nativeNumber parses a number as stored in a workbook cell.
func nativeNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// parseNumber interprets s as a real number under the configured separators.
func parseNumber(s string, opt Options) (float64, bool) {
	raw := strings.ReplaceAll(strings.TrimSpace(s), "\u00A0", " ")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	var dec, thou rune
	if opt.AutoLocale {
		raw = strings.TrimSpace(strings.TrimSuffix(raw, "%"))
		cpos := strings.LastIndex(raw, ",")
		dpos := strings.LastIndex(raw, ".")
		switch {
		case cpos >= 0 && dpos >= 0:
			if cpos > dpos {
				dec, thou = ',', '.'
			} else {
				dec, thou = '.', ','
			}
		case cpos >= 0:
			dec = ','
		default:
			dec = '.'
		}
		if thou == 0 {
			raw = strings.ReplaceAll(raw, " ", "")
		}
	} else {
		dec, thou = opt.Decimal, opt.Thousands
		if dec == 0 {
			dec = '.'
		}
	}
	if thou != 0 && thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		if strings.Contains(raw, ".") {
			return 0, false
		}
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	if u := strings.TrimLeft(raw, "+-"); strings.HasPrefix(u, "0x") || strings.HasPrefix(u, "0X") {
		// strconv accepts hex floats; spreadsheets do not.
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
