package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/reportdesk/internal/table"
)

// DefaultMaxBytes is the upload bound applied when Options.MaxBytes is 0.
const DefaultMaxBytes int64 = 100 * 1024 * 1024

// Options controls how raw bytes are coerced into a table.
type Options struct {
	// Delimiter for CSV. If 0, chosen by extension (.tsv -> tab, otherwise comma).
	Delimiter rune
	// Decimal separator for numbers. If 0, '.' is used.
	Decimal rune
	// Thousands separator stripped before parsing numbers. 0 disables stripping.
	Thousands rune
	// AutoLocale detects decimal/thousands separators per value and accepts a
	// trailing percent sign. Decimal and Thousands are ignored when set.
	AutoLocale bool
	// MaxBytes rejects inputs larger than this; 0 means DefaultMaxBytes, <0 unlimited.
	MaxBytes int64
	// XLSX sheet selection: name wins over the 1-based index; both empty means first sheet.
	SheetName  string
	SheetIndex int
}

// DefaultOptions returns strict parsing defaults: '.' decimals, no thousands
// separators, first sheet, 100 MiB bound.
func DefaultOptions() Options {
	return Options{
		Decimal:    '.',
		MaxBytes:   DefaultMaxBytes,
		SheetIndex: 1,
	}
}

// Parser turns the bytes of one file format into a table.
type Parser interface {
	CanParse(filename string) bool
	Parse(name string, content []byte, opt Options) (*table.Table, error)
}

var registry []Parser

// Register adds a parser implementation to the registry.
func Register(p Parser) {
	registry = append(registry, p)
}

// Supported reports whether any registered parser accepts filename.
func Supported(filename string) bool {
	return lookup(filename) != nil
}

func lookup(filename string) Parser {
	for _, p := range registry {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// ParseFile reads path and parses it with the parser matching its extension.
func ParseFile(path string, opt Options) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	defer f.Close()
	return Parse(filepath.Base(path), f, opt)
}

// Parse reads r fully, bounded by opt.MaxBytes, and parses it as the format
// implied by name.
func Parse(name string, r io.Reader, opt Options) (*table.Table, error) {
	p := lookup(name)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(name))
	}
	data, err := readBounded(r, opt.MaxBytes)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyInput
	}
	return p.Parse(name, data, opt)
}

func readBounded(r io.Reader, limit int64) ([]byte, error) {
	if limit == 0 {
		limit = DefaultMaxBytes
	}
	if limit < 0 {
		b, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read input: %w", err)
		}
		return b, nil
	}
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if int64(len(b)) > limit {
		return nil, &TooLargeError{Limit: limit}
	}
	return b, nil
}

func init() {
	Register(csvParser{})
	Register(xlsxParser{})
}

var (
	// ErrUnsupported indicates a format is not supported.
	ErrUnsupported = errors.New("unsupported file format")
	// ErrEmptyInput indicates the input has no data rows.
	ErrEmptyInput = errors.New("input contains no data rows")
)

// ParseError reports malformed input bytes.
type ParseError struct {
	Source string
	Line   int
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse %s: line %d: %v", e.Source, e.Line, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// TooLargeError indicates the input exceeded Options.MaxBytes.
type TooLargeError struct {
	Limit int64
}

func (e *TooLargeError) Error() string {
	if e.Limit >= 1024*1024 {
		return fmt.Sprintf("input exceeds %d MiB limit", e.Limit/(1024*1024))
	}
	return fmt.Sprintf("input exceeds %d byte limit", e.Limit)
}
