package parser

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/KaramelBytes/reportdesk/internal/table"
)

type xlsxParser struct{}

func (xlsxParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".xlsx")
}

// Parse reads one worksheet. Opt.SheetName wins over opt.SheetIndex (1-based,
// workbook order); with neither set the first sheet is used.
func (xlsxParser) Parse(name string, content []byte, opt Options) (*table.Table, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, &ParseError{Source: name, Err: fmt.Errorf("open xlsx: %w", err)}
	}
	workbookXML := readZipFile(zr, "xl/workbook.xml")
	if workbookXML == nil {
		return nil, &ParseError{Source: name, Err: fmt.Errorf("missing xl/workbook.xml")}
	}
	sheets := parseWorkbook(workbookXML)
	rels := parseRelationships(readZipFile(zr, "xl/_rels/workbook.xml.rels"))

	target, err := resolveSheet(sheets, rels, opt.SheetName, opt.SheetIndex)
	if err != nil {
		return nil, &ParseError{Source: name, Err: err}
	}
	sheetXML := readZipFile(zr, target)
	if sheetXML == nil {
		return nil, &ParseError{Source: name, Err: fmt.Errorf("missing worksheet %s", target)}
	}
	rr := newSheetRowReader(sheetXML, parseSharedStrings(readZipFile(zr, "xl/sharedStrings.xml")), parseDateStyles(readZipFile(zr, "xl/styles.xml")))
	header, _, ok := rr.Next()
	if !ok || len(header) == 0 {
		if rr.err != nil {
			return nil, &ParseError{Source: name, Err: rr.err}
		}
		return nil, ErrEmptyInput
	}
	var records [][]string
	var native [][]bool
	for {
		row, nat, ok := rr.Next()
		if !ok {
			break
		}
		if blankRow(row) {
			continue
		}
		if len(row) > len(header) {
			// Cells beyond the header are dropped if blank, rejected otherwise.
			for _, v := range row[len(header):] {
				if strings.TrimSpace(v) != "" {
					return nil, &ParseError{Source: name, Line: len(records) + 2, Err: fmt.Errorf("expected %d fields, saw %d", len(header), len(row))}
				}
			}
			row, nat = row[:len(header)], nat[:len(header)]
		}
		records = append(records, row)
		native = append(native, nat)
	}
	if rr.err != nil {
		return nil, &ParseError{Source: name, Err: rr.err}
	}
	return buildTable(name, header, records, native, opt)
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

type wbSheet struct {
	Name string
	RID  string
}

func resolveSheet(sheets []wbSheet, rels map[string]string, sheetName string, sheetIndex int) (string, error) {
	if sheetName != "" {
		for _, s := range sheets {
			if strings.EqualFold(s.Name, sheetName) {
				if rel, ok := rels[s.RID]; ok {
					return normalizeRelPath(rel), nil
				}
				break
			}
		}
		names := make([]string, len(sheets))
		for i, s := range sheets {
			names[i] = s.Name
		}
		return "", fmt.Errorf("sheet '%s' not found; available sheets: %s", sheetName, strings.Join(names, ", "))
	}
	idx := sheetIndex
	if idx <= 0 {
		idx = 1
	}
	if idx <= len(sheets) {
		if rel, ok := rels[sheets[idx-1].RID]; ok {
			return normalizeRelPath(rel), nil
		}
	}
	if len(sheets) > 0 && idx > len(sheets) {
		return "", fmt.Errorf("sheet index %d out of range (workbook has %d sheets)", idx, len(sheets))
	}
	return path.Join("xl", "worksheets", fmt.Sprintf("sheet%d.xml", idx)), nil
}

// parseWorkbook extracts sheet entries with names and relationship ids.
func parseWorkbook(data []byte) []wbSheet {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var sheets []wbSheet
	for {
		tok, err := dec.Token()
		if err != nil {
			return sheets
		}
		if se, ok := tok.(xml.StartElement); ok && se.Name.Local == "sheet" {
			var s wbSheet
			for _, a := range se.Attr {
				switch a.Name.Local {
				case "name":
					s.Name = a.Value
				case "id":
					s.RID = a.Value // r: namespace
				}
			}
			sheets = append(sheets, s)
		}
	}
}

// parseRelationships returns map[r:id]Target.
func parseRelationships(data []byte) map[string]string {
	out := map[string]string{}
	if len(data) == 0 {
		return out
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return out
		}
		if se, ok := tok.(xml.StartElement); ok && se.Name.Local == "Relationship" {
			var id, target string
			for _, a := range se.Attr {
				switch a.Name.Local {
				case "Id":
					id = a.Value
				case "Target":
					target = a.Value
				}
			}
			if id != "" && target != "" {
				out[id] = target
			}
		}
	}
}

func readZipFile(zr *zip.Reader, name string) []byte {
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil
			}
			defer rc.Close()
			b, err := io.ReadAll(rc)
			if err != nil {
				return nil
			}
			return b
		}
	}
	return nil
}

func parseSharedStrings(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	var out []string
	var buf strings.Builder
	var inT bool
	for {
		tok, err := dec.Token()
		if err != nil {
			return out
		}
		switch se := tok.(type) {
		case xml.StartElement:
			switch se.Name.Local {
			case "si":
				buf.Reset()
			case "t":
				inT = true
			case "rPh":
				// phonetic runs are not part of the cell text
				_ = dec.Skip()
			}
		case xml.EndElement:
			switch se.Name.Local {
			case "t":
				inT = false
			case "si":
				out = append(out, buf.String())
				buf.Reset()
			}
		case xml.CharData:
			if inT {
				buf.Write(se)
			}
		}
	}
}

// parseDateStyles reports, per cellXfs index, whether the number format
// renders a date or time.
func parseDateStyles(data []byte) []bool {
	if len(data) == 0 {
		return nil
	}
	custom := map[int]string{}
	var xfs []bool
	dec := xml.NewDecoder(bytes.NewReader(data))
	inCellXfs := false
	for {
		tok, err := dec.Token()
		if err != nil {
			return xfs
		}
		switch se := tok.(type) {
		case xml.StartElement:
			switch se.Name.Local {
			case "numFmt":
				var id int
				var code string
				for _, a := range se.Attr {
					switch a.Name.Local {
					case "numFmtId":
						id = atoiSafe(a.Value)
					case "formatCode":
						code = a.Value
					}
				}
				custom[id] = code
			case "cellXfs":
				inCellXfs = true
			case "xf":
				if !inCellXfs {
					continue
				}
				id := 0
				for _, a := range se.Attr {
					if a.Name.Local == "numFmtId" {
						id = atoiSafe(a.Value)
					}
				}
				xfs = append(xfs, isDateFormat(id, custom[id]))
			}
		case xml.EndElement:
			if se.Name.Local == "cellXfs" {
				inCellXfs = false
			}
		}
	}
}

func isDateFormat(id int, code string) bool {
	switch {
	case id >= 14 && id <= 22, id >= 45 && id <= 47:
		return true
	case code == "":
		return false
	}
	var b strings.Builder
	quoted, bracket := false, false
	for _, r := range strings.ToLower(code) {
		switch {
		case r == '"':
			quoted = !quoted
		case quoted:
		case r == '[':
			bracket = true
		case r == ']':
			bracket = false
		case bracket:
		default:
			b.WriteRune(r)
		}
	}
	s := b.String()
	if strings.Contains(s, "general") {
		return false
	}
	return strings.ContainsAny(s, "yd") || (strings.Contains(s, "h") && strings.ContainsAny(s, "ms"))
}

var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// serialToText renders an Excel serial date the way CSV exports usually
// carry it, so date-formatted cells flow through temporal inference.
func serialToText(v string) (string, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return "", false
	}
	ms := math.Round(f * 86400 * 1000)
	t := excelEpoch.Add(time.Duration(ms) * time.Millisecond)
	if math.Mod(ms, 86400*1000) == 0 {
		return t.Format("2006-01-02"), true
	}
	return t.Format("2006-01-02 15:04:05"), true
}

type sheetRowReader struct {
	dec       *xml.Decoder
	shared    []string
	dateStyle []bool
	err       error
}

func newSheetRowReader(data []byte, shared []string, dateStyle []bool) *sheetRowReader {
	return &sheetRowReader{dec: xml.NewDecoder(bytes.NewReader(data)), shared: shared, dateStyle: dateStyle}
}

// Next returns the next <row>, with gaps in cell references filled by blanks.
// The flags mark cells stored as native numbers.
func (r *sheetRowReader) Next() ([]string, []bool, bool) {
	var cur []string
	var nat []bool
	inRow := false
	for {
		tok, err := r.dec.Token()
		if err != nil {
			if err != io.EOF {
				r.err = err
			}
			return nil, nil, false
		}
		switch se := tok.(type) {
		case xml.StartElement:
			if se.Name.Local == "row" {
				inRow = true
				cur, nat = nil, nil
			}
			if inRow && se.Name.Local == "c" {
				var rAttr, tAttr, sAttr string
				for _, a := range se.Attr {
					switch a.Name.Local {
					case "r":
						rAttr = a.Value
					case "t":
						tAttr = a.Value
					case "s":
						sAttr = a.Value
					}
				}
				colIdx := len(cur)
				if rAttr != "" {
					colIdx = colIndexFromRef(rAttr)
				}
				val, isNum := r.readCellValue(tAttr, sAttr)
				if colIdx < 0 {
					continue
				}
				if len(cur) <= colIdx {
					tmp := make([]string, colIdx+1)
					copy(tmp, cur)
					cur = tmp
					flags := make([]bool, colIdx+1)
					copy(flags, nat)
					nat = flags
				}
				cur[colIdx] = val
				nat[colIdx] = isNum
			}
		case xml.EndElement:
			if se.Name.Local == "row" {
				return cur, nat, true
			}
		}
	}
}

func (r *sheetRowReader) readCellValue(tAttr, sAttr string) (string, bool) {
	var sb strings.Builder
	capture := false
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return sb.String(), false
		}
		switch se := tok.(type) {
		case xml.StartElement:
			switch se.Name.Local {
			case "v", "t":
				capture = true
			case "rPh", "f":
				_ = r.dec.Skip()
			}
		case xml.CharData:
			if capture {
				sb.Write(se)
			}
		case xml.EndElement:
			switch se.Name.Local {
			case "v", "t":
				capture = false
			case "c":
				return r.finishCell(tAttr, sAttr, sb.String())
			}
		}
	}
}

// finishCell resolves a cell to its text. The flag is set for numbers stored
// natively, which are always written with a '.' decimal point.
func (r *sheetRowReader) finishCell(tAttr, sAttr, val string) (string, bool) {
	switch tAttr {
	case "s":
		idx := atoiSafe(val)
		if idx >= 0 && idx < len(r.shared) {
			return r.shared[idx], false
		}
		return "", false
	case "b":
		if strings.TrimSpace(val) == "1" {
			return "TRUE", false
		}
		return "FALSE", false
	case "e":
		return "", false
	case "", "n":
		if sAttr != "" {
			if idx := atoiSafe(sAttr); idx < len(r.dateStyle) && r.dateStyle[idx] {
				if txt, ok := serialToText(val); ok {
					return txt, false
				}
			}
		}
		return val, strings.TrimSpace(val) != ""
	}
	return val, false
}

// colIndexFromRef maps refs like "C12" to a 0-based column index.
func colIndexFromRef(ref string) int {
	i := 0
	for i < len(ref) {
		c := ref[i]
		if c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' {
			i++
			continue
		}
		break
	}
	s := strings.ToUpper(ref[:i])
	idx := 0
	for j := 0; j < len(s); j++ {
		idx = idx*26 + int(s[j]-'A'+1)
	}
	return idx - 1
}

func atoiSafe(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int(c-'0')
	}
	return n
}

// normalizeRelPath converts relationship Target paths to ZIP entry names.
// Targets may carry a leading slash ("/xl/worksheets/sheet1.xml"); ZIP
// entries never do.
func normalizeRelPath(rel string) string {
	rel = strings.TrimPrefix(rel, "/")
	if strings.HasPrefix(rel, "xl/") {
		return rel
	}
	return path.Join("xl", rel)
}
