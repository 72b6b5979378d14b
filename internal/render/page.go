package render

import (
	"strconv"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/KaramelBytes/reportdesk/internal/analysis"
)

// PageView is everything the report page shows for one session.
type PageView struct {
	Title      string
	Overview   *analysis.Overview
	Series     *analysis.Series
	Error      string
	Warning    string
	Notice     string
	ExportHref string
	ExportName string
	UploadHref string
	ClearHref  string
	MaxUpload  string
}

const pageCSS = `
body{font-family:Inter,system-ui,sans-serif;margin:0;color:#24292f;background:#f6f8fa}
.shell{display:flex;min-height:100vh}
aside{width:280px;background:#fff;border-right:1px solid #d0d7de;padding:20px}
main{flex:1;padding:24px 32px}
.cards{display:flex;gap:16px;margin:16px 0}
.card{flex:1;background:#fff;border:1px solid #d0d7de;border-radius:6px;padding:16px}
.card .value{font-size:28px;font-weight:600}
.flash{padding:12px 16px;border-radius:6px;margin:12px 0}
.flash-error{background:#ffebe9;border:1px solid #ff8182}
.flash-warn{background:#fff8c5;border:1px solid #d4a72c}
.flash-ok{background:#dafbe1;border:1px solid #4ac26b}
.btn{display:inline-block;padding:6px 14px;border-radius:6px;border:1px solid #1f883d;background:#1f883d;color:#fff;text-decoration:none}
.btn-secondary{background:#fff;color:#24292f;border-color:#d0d7de}
table{border-collapse:collapse;background:#fff}
th,td{border:1px solid #d0d7de;padding:4px 8px;font-size:13px}
`

// ReportPage renders the upload sidebar and, when a table is loaded, the
// overview cards, the trend chart, a sample of rows and the export action.
func ReportPage(v PageView) Node {
	title := v.Title
	if title == "" {
		title = "Report desk"
	}
	return Doctype(
		HTML(
			Lang("en"),
			Head(
				Meta(Charset("utf-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
				TitleEl(Text(title)),
				StyleEl(Raw(pageCSS)),
			),
			Body(
				Div(Class("shell"),
					Aside(
						H2(Text("File upload")),
						Form(
							Method("post"),
							Action(v.UploadHref),
							Attr("enctype", "multipart/form-data"),
							Input(Type("file"), Name("file"), Attr("accept", ".csv,.tsv,.xlsx"), Required()),
							P(Class("hint"), Text("CSV, TSV or XLSX, up to "+v.MaxUpload)),
							Button(Type("submit"), Class("btn"), Text("Upload")),
						),
						If(v.Overview != nil && v.ClearHref != "",
							Form(Method("post"), Action(v.ClearHref),
								Button(Type("submit"), Class("btn btn-secondary"), Text("Clear")),
							),
						),
					),
					Main(
						H1(Text(title)),
						If(v.Error != "", Div(Class("flash flash-error"), Text(v.Error))),
						If(v.Notice != "", Div(Class("flash flash-ok"), Text(v.Notice))),
						If(v.Warning != "", Div(Class("flash flash-warn"), Text(v.Warning))),
						If(v.Overview == nil && v.Error == "", P(Text("Upload a CSV or Excel file in the sidebar to get started."))),
						Iff(v.Overview != nil, func() Node { return reportBody(v) }),
					),
				),
			),
		),
	)
}

func reportBody(v PageView) Node {
	ov := v.Overview
	meanLabel := "mean"
	if ov.HasMean {
		meanLabel = ov.Numeric + " mean"
	}
	nodes := []Node{
		H2(Text("Data overview")),
		Div(Class("cards"),
			card("Total rows", strconv.Itoa(ov.Rows)),
			card("Total columns", strconv.Itoa(len(ov.Cols))),
			card(meanLabel, ov.MeanLabel()),
		),
	}
	if v.Series != nil {
		nodes = append(nodes, H2(Text("Trend")), Div(Class("card"), Chart(v.Series, DefaultChartOptions())))
	}
	if len(ov.Samples) > 0 {
		nodes = append(nodes, H2(Text("Sample rows")), sampleTable(ov))
	}
	if v.ExportHref != "" {
		nodes = append(nodes, P(A(Href(v.ExportHref), Class("btn"), Attr("download", v.ExportName), Text("Export report"))))
	}
	return Group(nodes)
}

func card(label, value string) Node {
	return Div(Class("card"),
		Div(Class("label"), Text(label)),
		Div(Class("value"), Text(value)),
	)
}

func sampleTable(ov *analysis.Overview) Node {
	head := make([]Node, len(ov.SampleHeader))
	for i, h := range ov.SampleHeader {
		head[i] = Th(Text(h))
	}
	rows := make([]Node, len(ov.Samples))
	for i, r := range ov.Samples {
		cells := make([]Node, len(r))
		for j, c := range r {
			cells[j] = Td(Text(c))
		}
		rows[i] = Tr(cells...)
	}
	return Table(THead(Tr(head...)), TBody(rows...))
}
