package parser

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Two sheets: "Ignore" holds only a header, "Data" holds inline-string rows
// with comma decimals and dot thousands separators.
const xlsxFixtureBase64 = `
UEsDBBQAAAAIAMEwN1vYAxPv/wAAALYCAAATABwAW0NvbnRlbnRfVHlwZXNdLnhtbFVUCQADyjjSaMo40mh1eAsAAQQAAAAABAAAAAC1ks1OwzAQhO95CsvX
Kt60B4RQkh74OQKH8gDG3iRW/CfbLeHtcVIEEqIIpHJaWTOz32jlejsZTQ4YonK2oWtWUYJWOKls39Cn3V15SbdtUe9ePUaSvTY2dEjJXwFEMaDhkTmPNiud
C4an/Aw9eC5G3iNsquoChLMJbSrTvIO2BSH1DXZ8rxO5nbJyRAfUkZLro3fGNZR7r5XgKetwsPILqHyHsJxcPHFQPq6ygcIpyCyeZnxGH/JFgpJIHnlI99xk
I0waXlwYn50b2c97vunquk4JlE7sTY6w6ANyGQfEZDRbJjNc2dWvKiz+CMtYn7nLx/6/V9n8d5Ualm/YFm9QSwMECgAAAAAAxDA3WwAAAAAAAAAAAAAAAAMA
HAB4bC9VVAkAA9A40mjyONJodXgLAAEEAAAAAAQAAAAAUEsDBBQAAAAIAMQwN1tM2kS6xQAAAEkBAAAPABwAeGwvd29ya2Jvb2sueG1sVVQJAAPQONJo0DjS
aHV4CwABBAAAAAAEAAAAAI1Qu27DMAzc/RUC90aOhyIwZGcJAnhvP0CxaVuIRRqk+vj8qjEMZOjQ7Y7k3ZF05++4mE8UDUwNHA8lGKSeh0BTA+9v15cTnNvC
fbHcb8x3k8dJG5hTWmtrtZ8xej3wipQ7I0v0KVOZrK6CftAZMcXFVmX5aqMPBJtDLf/x4HEMPV64/4hIaTMRXHzKy+ocVoW2MMY9QvQX7sSQj9hANxELgnnU
uiHfB0bqkIF0wxHsH5KLT/5JUD0Jqk3g7J7n7P6WtvgBUEsDBAoAAAAAANIwN1sAAAAAAAAAAAAAAAAOABwAeGwvd29ya3NoZWV0cy9VVAkAA+s40mjyONJo
dXgLAAEEAAAAAAQAAAAAUEsDBBQAAAAIANIwN1u3fFZsqwIAAIASAAAYABwAeGwvd29ya3NoZWV0cy9zaGVldDIueG1sVVQJAAPrONJo6zjSaHV4CwABBAAA
AAAEAAAAAJ3YT26bQBiH4X1OgVilkguD/wEVJkoMzibKJukBJngMqGYGDeMkvVXP0JN1nEhVQ/r7QCxx/BDsV9/gIbl6bY7Os9BdreTGDTzmOkIWal/LcuN+
f9x9jdyr9CJ5UfpHVwlhHPt+2W3cypj2m+93RSUa3nmqFdL+5aB0w4091KXftVrw/Rtqjv6csbXf8Fq66YXjJG8vZ9zw85E91urF0fb/u+/H9pXifHwduI7Z
uLU81lI8GO2mSd2liUlvtTq1iW/SxD+/4Bcf3Q1yWyULIY3mxn5e57L0777gs2zRWR5F0zqXv3/tCJwh/FAoLbDLkbtTBT+K+1PzJDTmO/jJuRGl0j8xvUX0
Xpn/XHDi22gf8837+ebgjNdEOmTYbEWkQipkRCKEAjYjWA6Zxxgpd0jyY1txogxyh1p3ZlSaRT/NYkIaZNhsTaRBKgyINAgFAZkGMi8YSIPkUBrkOlEouR/V
Ztlvs5zQBhk7NtTcILaOiTgIxdSI5vAKvXigDZJPwlBpEDNVrceVWfXLrMApb4gyyLBZSIRBKiS+4gyhgFw8c8g8tqLLIDk0Ncgd1EmbalSbdb/NekIbZOyK
Rk0NYuGSiINQPIuINvAKvTii2yA5MDWIHerDyDJhv0w4oQwytgzxdW0RCxdEGYTs2MyJNJB5bE6nQXJobJDr6teRbaJ+m2jCvQYZu8oQ39cWMSpohlBETg28
Qi8amBokS940VBrkOvFsNxzj4sT9OPGEwUHG3m6oJQ2xkPhplyEUU7e2HF6hF4d0HCQHljTERF1WI9ME7NPWlE2YHIgW1OfeQhZTvwagom/qOXaDGxxIh1Y2
CGU9dnqCz08P0I6Wmh+I7J2H2uZAFxJrYgaVvfcQ+6McO4/R29cdpENLHIRmYIVL/H+e9yT+34dJ6cUfUEsDBBQAAAAIAMcwN1sqMey0swAAAPgAAAAYABwA
eGwvd29ya3NoZWV0cy9zaGVldDEueG1sVVQJAAPWONJo1jjSaHV4CwABBAAAAAAEAAAAAE2P3WrDMAxG7/MURverkl6MUhyXwegLrHsA46iNqf+QxbLHr5OO
0cvzSfoO0qffGNQPcfU5jTDselCUXJ58uo3wfTm/HeBkOr1kvteZSFTbT3WEWaQcEaubKdq6y4VSm1wzRysN+Ya1MNlpO4oB933/jtH6BKZTSm/xpxW7UmPO
i+Lmhye3xK38MYCSEXwKPtGXMBjtq9FiSrCO5hwmYo1iNK4xur82bHWbBl88Gv+fMN0DUEsDBAoAAAAAAMYwN1sAAAAAAAAAAAAAAAAJABwAeGwvX3JlbHMv
VVQJAAPTONJo8jjSaHV4CwABBAAAAAAEAAAAAFBLAwQUAAAACADGMDdbCmPblLYAAACtAQAAGgAcAHhsL19yZWxzL3dvcmtib29rLnhtbC5yZWxzVVQJAAPT
ONJo0zjSaHV4CwABBAAAAAAEAAAAAL2QSwrCMBBA9z1FmL2dtgsRadqNCN1KPUBIpx/aJiGJv9sbBMWCgitXw/zePCYvr/PEzmTdoBWHNE6AkZK6GVTH4Vjv
Vxsoiyg/0CR8GHH9YBwLO8px6L03W0Qne5qFi7UhFTqttrPwIbUdGiFH0RFmSbJG+86AImJsgWVVw8FWTQqsvhn6Ba/bdpC00/I0k/IfruBF29H1RD5Ahe3I
c3iVHD5CGgcq4Fef7M8+2dMnx8XXi+gOUEsDBAoAAAAAAMMwN1sAAAAAAAAAAAAAAAAGABwAX3JlbHMvVVQJAAPNONJo8jjSaHV4CwABBAAAAAAEAAAAAFBL
AwQUAAAACADDMDdbDxvLDKoAAAAcAQAACwAcAF9yZWxzLy5yZWxzVVQJAAPNONJozTjSaHV4CwABBAAAAAAEAAAAAI3PsQ6CMBAG4J2naG6XgoMxxsJiTFgN
PkAtRyHQXtNWxbe3oxgHx8v9913+Y72YmT3Qh5GsgDIvgKFV1I1WC7i2580e6io7XnCWMUXCMLrA0o0NAoYY3YHzoAY0MuTk0KZNT97ImEavuZNqkhr5tih2
3H8aUGWMrVjWdAJ805XA2pfDf3jq+1HhidTdoI0/vnwlkiy9xihgmfmT/HQjmvKEAk8d+apklb0BUEsBAh4DFAAAAAgAwTA3W9gDE+//AAAAtgIAABMAGAAA
AAAAAQAAAKSBAAAAAFtDb250ZW50X1R5cGVzXS54bWxVVAUAA8o40mh1eAsAAQQAAAAABAAAAABQSwECHgMKAAAAAADEMDdbAAAAAAAAAAAAAAAAAwAYAAAA
AAAAABAA7UFMAQAAeGwvVVQFAAPQONJodXgLAAEEAAAAAAQAAAAAUEsBAh4DFAAAAAgAxDA3W0zaRLrFAAAASQEAAA8AGAAAAAAAAQAAAKSBiQEAAHhsL3dv
cmtib29rLnhtbFVUBQAD0DjSaHV4CwABBAAAAAAEAAAAAFBLAQIeAwoAAAAAANIwN1sAAAAAAAAAAAAAAAAOABgAAAAAAAAAEADtQZcCAAB4bC93b3Jrc2hl
ZXRzL1VUBQAD6zjSaHV4CwABBAAAAAAEAAAAAFBLAQIeAxQAAAAIANIwN1u3fFZsqwIAAIASAAAYABgAAAAAAAEAAACkgd8CAAB4bC93b3Jrc2hlZXRzL3No
ZWV0Mi54bWxVVAUAA+s40mh1eAsAAQQAAAAABAAAAABQSwECHgMUAAAACADHMDdbKjHstLMAAAD4AAAAGAAYAAAAAAABAAAApIHcBQAAeGwvd29ya3NoZWV0
cy9zaGVldDEueG1sVVQFAAPWONJodXgLAAEEAAAAAAQAAAAAUEsBAh4DCgAAAAAAxjA3WwAAAAAAAAAAAAAAAAkAGAAAAAAAAAAQAO1B4QYAAHhsL19yZWxz
L1VUBQAD0zjSaHV4CwABBAAAAAAEAAAAAFBLAQIeAxQAAAAIAMYwN1sKY9uUtgAAAK0BAAAaABgAAAAAAAEAAACkgSQHAAB4bC9fcmVscy93b3JrYm9vay54
bWwucmVsc1VUBQAD0zjSaHV4CwABBAAAAAAEAAAAAFBLAQIeAwoAAAAAAMMwN1sAAAAAAAAAAAAAAAAGABgAAAAAAAAAEADtQS4IAABfcmVscy9VVAUAA804
0mh1eAsAAQQAAAAABAAAAABQSwECHgMUAAAACADDMDdbDxvLDKoAAAAcAQAACwAYAAAAAAABAAAApIFuCAAAX3JlbHMvLnJlbHNVVAUAA8040mh1eAsAAQQA
AAAABAAAAABQSwUGAAAAAAoACgBTAwAAXQkAAAAA
`

// One sheet "Readings" with shared strings (one rich text), date and
// datetime styled serials, a formula cell, booleans, an error cell and a
// blank row.
const datedXLSXBase64 = `
UEsDBBQAAAAIAC4wTl2W6Vpi9AAAAB0CAAATAAAAW0NvbnRlbnRfVHlwZXNdLnhtbK2RvU7DMBDHd57C8lrFlzIghJJ0gHYEhvIAh3NJrPhLtlvC2+OkhQEV
WJhO9v/jd7KrzWQ0O1KIytmar0XJGVnpWmX7mr/sd8Ut3zRX1f7dU2TZa2PNh5T8HUCUAxmMwnmyWelcMJjyMfTgUY7YE1yX5Q1IZxPZVKS5gzfVA3V40Ilt
p3x94gbSkbP7k3Fm1Ry910piyjocbfuNUpwJIicXTxyUj6ts4HCRMCs/A865p/wQQbXEnjGkRzTZBZOGNxfGV+dG8XvJhS1d1ylJrZMHkyMi+kDYxoEoGS2W
KQwqu/qbv5gjLGP9z4t89X/uAct3Nx9QSwMEFAAAAAgALjBOXawCJ2imAAAAFwEAAAsAAABfcmVscy8ucmVsc43PsQ6CMBAG4N2naG6XgoMxhsJiTFgNPkAt
RyHQXtNWxbe3oxgHx8v9/3e5sl7MzB7ow0hWQJHlwNAq6karBVzb8/YAdbUpLzjLmCJhGF1gqWODgCFGd+Q8qAGNDBk5tGnTkzcyptFr7qSapEa+y/M9958G
VCuTNZ0A33QFsPbl8B+b+n5UeCJ1N2jjjxNfiSRLrzEKWGb+JD/diKYsocCrkq8erN5QSwMEFAAAAAgALjBOXV4XcYayAAAADQEAAA8AAAB4bC93b3JrYm9v
ay54bWyNj7sOwjAMRXe+IvJOU0ACVDVlQUisCD4gtC6N2sSVHR6fT1RgZ/L7XN9y9/KDeiCLo2BgkeWgMNTUuHAzcDkf5lvYVbPySdxfiXqV1oMY6GIcC62l
7tBbyWjEkCYtsbcxlXzTMjLaRjrE6Ae9zPO19tYF+BAK/odBbetq3FN99xjiB8I42Jielc6NAlU5Kcg3qmA9Gjgl5WRAQE3dY2NgA4oLlxI+NivQVal/h/rn
rXoDUEsDBBQAAAAIAC4wTl0VFSAYxAAAAKkBAAAaAAAAeGwvX3JlbHMvd29ya2Jvb2sueG1sLnJlbHOtkMGKAjEMhu/7FCX3nYyriCx2vIjgddUHKJ3MdHCm
LUl19e0tC4sOePDgKeRP8uXnX64uQ6/OxNIFr2FSlKDI21B3vtVw2G8+F7CqPpY/1JuUV8R1UVS+8aLBpRS/EcU6GowUIZLPkybwYFJuucVo7NG0hF9lOUd+
ZEA1YqptrYG39RTU/hrpFXZoms7SOtjTQD49eYG/gY/iiFKGGm4pacBLf5cF/8qkyGTA54Zm7zQkzjDVu8Q5XbmbGsn/ZnAUeXUDUEsDBBQAAAAIAC4wTl02
f8oZpQAAAAkBAAAUAAAAeGwvc2hhcmVkU3RyaW5ncy54bWxdz0sOwiAQBuC9pyDsLdUYYwylCxNPoAcg7ViIMlRmajy+NPWVLv+PeaHrZ7iJByTyESu5Kkop
AJvYeuwqeT4dlztZm4UmYpErkSrpmPu9UtQ4CJaK2APml0tMwXKOqVPUJ7AtOQAON7Uuy60K1qMUTRyQK7mRYkB/H+DwyUaTN5pNaxm0YqPVmCcjP7c08rhi
4vSWfPIX/vrjdT4RY2L3Q5U/Z15QSwMEFAAAAAgALjBOXeE34nvXAAAAWgEAAA0AAAB4bC9zdHlsZXMueG1sfZBBS8QwEIXv/oqQezddlSJLmj0sFLx4UcFD
L7GZbgqZJCSpbP+9U3dZFcFcJvPy5ntD5P6Ejn1AylPwLd9uas7AD8FM/tjy15eueuB7dSNzWRw8W4DCaMDnlttS4k6IPFhAnTchgqeXMSTUhdp0FDkm0Cav
Q+jEbV03AvXkuZJ+xg5LZkOYfaHUq8TO5dGQ2NxzdsYdgoGWL3T6CrGvjOmZtTtELpQUF5iSAzj3Nl6pd0Q9jT+I9Wr/pWwpQsfolqcZ3yF1X2nrPn+MzT9O
cQmm2/c3qU9QSwMEFAAAAAgALjBOXUHYEJImAQAA1QIAABgAAAB4bC93b3Jrc2hlZXRzL3NoZWV0MS54bWx90sFuhCAQBuB7n4LQY1NR1KZtkM3umh57afsA
1sWVVMEAdfv4RWxQSbY3mX8YviBk99N3YGRKcykKmEQxBEzU8sTFuYAf7y/3j3BHb8hFqi/dMmaA7Re6gK0xwzNCum5ZX+lIDkzYpJGqr4xdqjPSg2LVyW3q
O4Tj+AH1FReQElcrK1PZwUpegLIH23I9fewTCEwBtV2PNCZopATVf9lhnSXb7LjO8DYr11nqM2TPXgTYCzAEehaNNMvxUzDtgFfTskCBZ1sAL+ctnwF8C0g9
IA0AaQBI3TQuOi7Ym1G2j2tKDNXy27QEGds7FRbVNLqhR3w3wRp3Q6EwXQnjK8IMhpXcm3Nnxt6cRXmgzv+5tnz+NSFq3sJcePuK9qELLS+JIP9E6S9QSwEC
FAMUAAAACAAuME5dlulaYvQAAAAdAgAAEwAAAAAAAAAAAAAAgAEAAAAAW0NvbnRlbnRfVHlwZXNdLnhtbFBLAQIUAxQAAAAIAC4wTl2sAidopgAAABcBAAAL
AAAAAAAAAAAAAACAASUBAABfcmVscy8ucmVsc1BLAQIUAxQAAAAIAC4wTl1eF3GGsgAAAA0BAAAPAAAAAAAAAAAAAACAAfQBAAB4bC93b3JrYm9vay54bWxQ
SwECFAMUAAAACAAuME5dFRUgGMQAAACpAQAAGgAAAAAAAAAAAAAAgAHTAgAAeGwvX3JlbHMvd29ya2Jvb2sueG1sLnJlbHNQSwECFAMUAAAACAAuME5dNn/K
GaUAAAAJAQAAFAAAAAAAAAAAAAAAgAHPAwAAeGwvc2hhcmVkU3RyaW5ncy54bWxQSwECFAMUAAAACAAuME5d4Tfie9cAAABaAQAADQAAAAAAAAAAAAAAgAGm
BAAAeGwvc3R5bGVzLnhtbFBLAQIUAxQAAAAIAC4wTl1B2BCSJgEAANUCAAAYAAAAAAAAAAAAAACAAagFAAB4bC93b3Jrc2hlZXRzL3NoZWV0MS54bWxQSwUG
AAAAAAcABwDCAQAABAcAAAAA
`

func decodeFixture(t *testing.T, b64 string) []byte {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(b64), ""))
	require.NoError(t, err)
	return data
}

func TestXLSXSelectsSheetByNameWithLocaleNumbers(t *testing.T) {
	opt := DefaultOptions()
	opt.SheetName = "data"
	opt.Decimal = ','
	opt.Thousands = '.'
	tb, err := Parse("fixture.xlsx", bytes.NewReader(decodeFixture(t, xlsxFixtureBase64)), opt)
	require.NoError(t, err)
	require.Equal(t, []string{"Group", "Concentration (g/L)", "Temp (°F)", "Score", "LocaleNumber", "Category", "Note"}, tb.Names())
	require.Equal(t, 10, tb.Len())

	vals, ok := tb.Values("LocaleNumber")
	require.True(t, ok)
	require.InDelta(t, 1000.0, vals[0].Num, 1e-9)
	require.InDelta(t, 5000.0, vals[8].Num, 1e-9)
	conc, _ := tb.Values("Concentration (g/L)")
	require.InDelta(t, 0.55, conc[2].Num, 1e-9)
	require.Equal(t, "numeric", tb.Columns[3].Kind.String())
	require.Equal(t, "text", tb.Columns[0].Kind.String())
}

func TestXLSXSheetIndexAndErrors(t *testing.T) {
	data := decodeFixture(t, xlsxFixtureBase64)

	// The first sheet carries a header and no rows.
	_, err := Parse("fixture.xlsx", bytes.NewReader(data), DefaultOptions())
	require.ErrorIs(t, err, ErrEmptyInput)

	opt := DefaultOptions()
	opt.SheetIndex = 2
	opt.Decimal = ','
	opt.Thousands = '.'
	tb, err := Parse("fixture.xlsx", bytes.NewReader(data), opt)
	require.NoError(t, err)
	require.Equal(t, 10, tb.Len())

	opt.SheetIndex = 3
	_, err = Parse("fixture.xlsx", bytes.NewReader(data), opt)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	require.Contains(t, err.Error(), "out of range")

	opt.SheetName = "Nope"
	_, err = Parse("fixture.xlsx", bytes.NewReader(data), opt)
	require.ErrorAs(t, err, &pe)
	require.Contains(t, err.Error(), "available sheets: Ignore, Data")

	_, err = Parse("broken.xlsx", strings.NewReader("not a zip"), DefaultOptions())
	require.ErrorAs(t, err, &pe)
}

func TestXLSXWithoutLocaleKeepsCommaDecimalsAsText(t *testing.T) {
	opt := DefaultOptions()
	opt.SheetName = "Data"
	tb, err := Parse("fixture.xlsx", bytes.NewReader(decodeFixture(t, xlsxFixtureBase64)), opt)
	require.NoError(t, err)
	// "0,5" is not a number under '.' decimals; Temp stays numeric.
	require.Equal(t, "text", tb.Columns[1].Kind.String())
	require.Equal(t, "numeric", tb.Columns[2].Kind.String())
}

func TestXLSXDatesSharedStringsAndBlankRows(t *testing.T) {
	tb, err := Parse("dated.xlsx", bytes.NewReader(decodeFixture(t, datedXLSXBase64)), DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, []string{"date", "site", "reading", "ok"}, tb.Names())
	require.Equal(t, 3, tb.Len())

	dates, _ := tb.Values("date")
	require.Equal(t, "2024-01-01", dates[0].Str)
	require.Equal(t, "2024-01-02", dates[1].Str)
	require.Equal(t, "2024-01-03 12:00:00", dates[2].Str)

	sites, _ := tb.Values("site")
	require.Equal(t, []string{"north", "south", "north"}, []string{sites[0].Str, sites[1].Str, sites[2].Str})

	readings, _ := tb.Values("reading")
	require.Equal(t, 20.0, readings[1].Num)

	ok, _ := tb.Values("ok")
	require.Equal(t, "TRUE", ok[0].Str)
	require.Equal(t, "FALSE", ok[1].Str)
	require.True(t, ok[2].IsNull())
}

func TestIsDateFormat(t *testing.T) {
	require.True(t, isDateFormat(14, ""))
	require.True(t, isDateFormat(200, "dd/mm/yyyy"))
	require.True(t, isDateFormat(201, "h:mm"))
	require.False(t, isDateFormat(0, ""))
	require.False(t, isDateFormat(202, "0.00%"))
	require.False(t, isDateFormat(203, `"Day "0`))
	require.False(t, isDateFormat(204, "[Red]0.00"))
}

func TestParseFileReadsFromDisk(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "data.csv")
	if err := os.WriteFile(p, []byte("a,b\n1,x\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tb, err := ParseFile(p, DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, 1, tb.Len())

	_, err = ParseFile(filepath.Join(dir, "missing.csv"), DefaultOptions())
	require.Error(t, err)
	require.ErrorIs(t, err, os.ErrNotExist)
	require.True(t, Supported("x.TSV"))
	require.False(t, Supported("x.docx"))
}

// buildWorkbook zips a single-sheet workbook around the given <sheetData> rows.
func buildWorkbook(t *testing.T, rows string) []byte {
	t.Helper()
	files := map[string]string{
		"xl/workbook.xml": `<?xml version="1.0" encoding="UTF-8"?>
<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
<sheets><sheet name="Sheet1" sheetId="1" r:id="rId1"/></sheets></workbook>`,
		"xl/_rels/workbook.xml.rels": `<?xml version="1.0" encoding="UTF-8"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet1.xml"/>
</Relationships>`,
		"xl/worksheets/sheet1.xml": `<?xml version="1.0" encoding="UTF-8"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData>` + rows + `</sheetData></worksheet>`,
	}
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestXLSXNativeNumbersIgnoreSeparatorSettings(t *testing.T) {
	data := buildWorkbook(t, `
<row r="1"><c r="A1" t="inlineStr"><is><t>amount</t></is></c><c r="B1" t="inlineStr"><is><t>typed</t></is></c></row>
<row r="2"><c r="A2"><v>1.5</v></c><c r="B2" t="inlineStr"><is><t>1.234,5</t></is></c></row>
<row r="3"><c r="A3" t="n"><v>2.25</v></c><c r="B3" t="inlineStr"><is><t>2,5</t></is></c></row>
<row r="4"><c r="A4"><v>1000</v></c><c r="B4" t="inlineStr"><is><t>7</t></is></c></row>`)

	cases := []struct {
		name      string
		decimal   rune
		thousands rune
		typedKind string
	}{
		{"comma decimal dot thousands", ',', '.', "numeric"},
		{"comma decimal only", ',', 0, "text"},
		{"defaults", '.', 0, "text"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opt := DefaultOptions()
			opt.Decimal = tc.decimal
			opt.Thousands = tc.thousands
			tb, err := Parse("native.xlsx", bytes.NewReader(data), opt)
			require.NoError(t, err)
			require.Equal(t, "numeric", tb.Columns[0].Kind.String())
			amounts, _ := tb.Values("amount")
			require.InDelta(t, 1.5, amounts[0].Num, 1e-12)
			require.InDelta(t, 2.25, amounts[1].Num, 1e-12)
			require.InDelta(t, 1000.0, amounts[2].Num, 1e-12)
			require.Equal(t, tc.typedKind, tb.Columns[1].Kind.String())
		})
	}

	opt := DefaultOptions()
	opt.Decimal = ','
	opt.Thousands = '.'
	tb, err := Parse("native.xlsx", bytes.NewReader(data), opt)
	require.NoError(t, err)
	typed, _ := tb.Values("typed")
	require.InDelta(t, 1234.5, typed[0].Num, 1e-9)
	require.InDelta(t, 2.5, typed[1].Num, 1e-9)
}
