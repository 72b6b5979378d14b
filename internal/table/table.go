// Package table holds the in-memory, row-oriented dataset shared by the
// ingest, analysis and export packages.
package table

import (
	"errors"
	"fmt"
	"strconv"
)

// Kind is the semantic type of a column or a single value.
type Kind int

const (
	// KindEmpty marks a missing value, or a column whose every value is missing.
	KindEmpty Kind = iota
	// KindNumber is a float64 value.
	KindNumber
	// KindText is an uninterpreted string value.
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "numeric"
	case KindText:
		return "text"
	default:
		return "empty"
	}
}

// Value is a single cell. The zero Value is missing.
type Value struct {
	Kind Kind
	Num  float64
	Str  string
}

// Null returns a missing value.
func Null() Value { return Value{} }

// Number returns a numeric value.
func Number(f float64) Value { return Value{Kind: KindNumber, Num: f} }

// Text returns a text value.
func Text(s string) Value { return Value{Kind: KindText, Str: s} }

// IsNull reports whether v is missing.
func (v Value) IsNull() bool { return v.Kind == KindEmpty }

// Float returns the numeric payload and whether v is a number.
func (v Value) Float() (float64, bool) {
	if v.Kind != KindNumber {
		return 0, false
	}
	return v.Num, true
}

// String formats v the way the CSV export writes it: numbers use the shortest
// decimal representation, missing values are empty.
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return FormatNumber(v.Num)
	case KindText:
		return v.Str
	default:
		return ""
	}
}

// FormatNumber is the default numeric-to-string conversion.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Column describes one named column.
type Column struct {
	Name string
	Kind Kind
}

// Table is an ordered sequence of rows over named columns. Column order is
// insertion order and every row has exactly len(Columns) values.
type Table struct {
	Columns []Column
	Rows    [][]Value
}

var (
	// ErrDuplicateColumn is returned when two columns share a name.
	ErrDuplicateColumn = errors.New("duplicate column name")
	// ErrRowWidth is returned when a row does not match the column count.
	ErrRowWidth = errors.New("row width does not match column count")
)

// New validates columns and rows and returns a Table over them.
func New(columns []Column, rows [][]Value) (*Table, error) {
	seen := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		if _, ok := seen[c.Name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, c.Name)
		}
		seen[c.Name] = struct{}{}
	}
	for i, r := range rows {
		if len(r) != len(columns) {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrRowWidth, i, len(r), len(columns))
		}
	}
	return &Table{Columns: columns, Rows: rows}, nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Names returns column names in declaration order.
func (t *Table) Names() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// Index returns the position of the named column, or -1.
func (t *Table) Index(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Values returns a copy of the named column's values in row order.
func (t *Table) Values(name string) ([]Value, bool) {
	idx := t.Index(name)
	if idx < 0 {
		return nil, false
	}
	out := make([]Value, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r[idx]
	}
	return out, true
}

// WithColumn returns a new table with col appended last. The receiver is not
// modified; rows are copied so later writes to either table stay independent.
func (t *Table) WithColumn(col Column, values []Value) (*Table, error) {
	if len(values) != len(t.Rows) {
		return nil, fmt.Errorf("%w: %d values for %d rows", ErrRowWidth, len(values), len(t.Rows))
	}
	if t.Index(col.Name) >= 0 {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, col.Name)
	}
	cols := make([]Column, 0, len(t.Columns)+1)
	cols = append(cols, t.Columns...)
	cols = append(cols, col)
	rows := make([][]Value, len(t.Rows))
	for i, r := range t.Rows {
		nr := make([]Value, 0, len(r)+1)
		nr = append(nr, r...)
		rows[i] = append(nr, values[i])
	}
	return &Table{Columns: cols, Rows: rows}, nil
}

// Without returns a new table lacking the named column. A missing name yields
// a copy of the receiver.
func (t *Table) Without(name string) *Table {
	idx := t.Index(name)
	cols := make([]Column, 0, len(t.Columns))
	for i, c := range t.Columns {
		if i != idx {
			cols = append(cols, c)
		}
	}
	rows := make([][]Value, len(t.Rows))
	for i, r := range t.Rows {
		nr := make([]Value, 0, len(cols))
		for j, v := range r {
			if j != idx {
				nr = append(nr, v)
			}
		}
		rows[i] = nr
	}
	return &Table{Columns: cols, Rows: rows}
}
