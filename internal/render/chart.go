// Package render draws plot series and report pages as gomponents trees.
package render

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	g "maragu.dev/gomponents"

	"github.com/KaramelBytes/reportdesk/internal/analysis"
)

// ChartOptions sizes the SVG viewport.
type ChartOptions struct {
	Width  int
	Height int
	// Margin leaves room for tick labels on every side.
	Margin int
}

// DefaultChartOptions suits a full-width page section.
func DefaultChartOptions() ChartOptions {
	return ChartOptions{Width: 960, Height: 380, Margin: 56}
}

type bounds struct {
	xmin, xmax, ymin, ymax float64
	finite                 int
}

func seriesBounds(s *analysis.Series) bounds {
	b := bounds{xmin: math.Inf(1), xmax: math.Inf(-1), ymin: math.Inf(1), ymax: math.Inf(-1)}
	for i := 0; i < s.Len(); i++ {
		x := s.X(i)
		b.xmin = math.Min(b.xmin, x)
		b.xmax = math.Max(b.xmax, x)
		y := s.Y[i]
		if math.IsNaN(y) || math.IsInf(y, 0) {
			continue
		}
		b.finite++
		b.ymin = math.Min(b.ymin, y)
		b.ymax = math.Max(b.ymax, y)
	}
	if s.Len() == 0 {
		b.xmin, b.xmax = 0, 1
	}
	if b.finite == 0 {
		b.ymin, b.ymax = -1, 1
	}
	if b.xmin == b.xmax {
		b.xmin, b.xmax = b.xmin-1, b.xmax+1
	}
	if b.ymin == b.ymax {
		b.ymin, b.ymax = b.ymin-1, b.ymax+1
	}
	return b
}

// Chart renders s as an SVG line chart. Points are joined in row order, so an
// unsorted timeline zig-zags; NaN or infinite values break the line.
func Chart(s *analysis.Series, opt ChartOptions) g.Node {
	if opt.Width <= 0 || opt.Height <= 0 {
		opt = DefaultChartOptions()
	}
	m := float64(opt.Margin)
	w, h := float64(opt.Width), float64(opt.Height)
	b := seriesBounds(s)
	px := func(x float64) float64 { return m + (x-b.xmin)/(b.xmax-b.xmin)*(w-2*m) }
	py := func(y float64) float64 { return h - m - (y-b.ymin)/(b.ymax-b.ymin)*(h-2*m) }

	nodes := []g.Node{
		g.Attr("xmlns", "http://www.w3.org/2000/svg"),
		g.Attr("viewBox", fmt.Sprintf("0 0 %d %d", opt.Width, opt.Height)),
		g.Attr("width", strconv.Itoa(opt.Width)),
		g.Attr("height", strconv.Itoa(opt.Height)),
		g.Attr("role", "img"),
		g.El("title", g.Text(s.Title)),
		g.El("rect", g.Attr("width", "100%"), g.Attr("height", "100%"), g.Attr("fill", "#ffffff")),
		line(m, h-m, w-m, h-m, "#57606a"),
		line(m, m, m, h-m, "#57606a"),
	}
	if b.ymin < 0 && b.ymax > 0 {
		nodes = append(nodes, g.El("line",
			attrF("x1", m), attrF("y1", py(0)), attrF("x2", w-m), attrF("y2", py(0)),
			g.Attr("stroke", "#d0d7de"), g.Attr("stroke-dasharray", "4 4"),
		))
	}

	for _, run := range finiteRuns(s.Y) {
		if len(run) == 1 {
			i := run[0]
			nodes = append(nodes, g.El("circle", attrF("cx", px(s.X(i))), attrF("cy", py(s.Y[i])), g.Attr("r", "3"), g.Attr("fill", "#0969da")))
			continue
		}
		var pts strings.Builder
		for k, i := range run {
			if k > 0 {
				pts.WriteByte(' ')
			}
			pts.WriteString(fmtF(px(s.X(i))) + "," + fmtF(py(s.Y[i])))
		}
		nodes = append(nodes, g.El("polyline",
			g.Attr("points", pts.String()),
			g.Attr("fill", "none"), g.Attr("stroke", "#0969da"), g.Attr("stroke-width", "2"),
		))
	}
	if b.finite == 0 {
		nodes = append(nodes, label(w/2, h/2, "middle", "no finite values to plot"))
	}

	nodes = append(nodes,
		label(m-8, py(b.ymax)+4, "end", fmtTick(b.ymax)),
		label(m-8, py(b.ymin)+4, "end", fmtTick(b.ymin)),
		label(m, h-m+18, "start", xTick(s, b.xmin)),
		label(w-m, h-m+18, "end", xTick(s, b.xmax)),
		label(w/2, h-12, "middle", s.XLabel),
		g.El("text",
			attrF("x", 14), attrF("y", h/2), g.Attr("text-anchor", "middle"),
			g.Attr("font-size", "12"), g.Attr("font-family", "sans-serif"),
			g.Attr("transform", fmt.Sprintf("rotate(-90 14 %s)", fmtF(h/2))),
			g.Text(s.YLabel),
		),
		label(w/2, 22, "middle", s.Title),
	)
	return g.El("svg", nodes...)
}

// WriteSVG writes a standalone SVG document.
func WriteSVG(w io.Writer, s *analysis.Series, opt ChartOptions) error {
	if _, err := io.WriteString(w, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n"); err != nil {
		return err
	}
	return Chart(s, opt).Render(w)
}

// finiteRuns splits indices into maximal runs of finite values.
func finiteRuns(ys []float64) [][]int {
	var runs [][]int
	var cur []int
	for i, y := range ys {
		if math.IsNaN(y) || math.IsInf(y, 0) {
			if len(cur) > 0 {
				runs = append(runs, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, i)
	}
	if len(cur) > 0 {
		runs = append(runs, cur)
	}
	return runs
}

func xTick(s *analysis.Series, x float64) string {
	if s.IsTime() && s.Len() > 0 {
		for _, t := range s.Times {
			if float64(t.Unix()) == x {
				if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
					return t.Format("2006-01-02")
				}
				return t.Format("2006-01-02 15:04")
			}
		}
		return ""
	}
	if x != math.Trunc(x) || x < 0 || int(x) >= s.Len() {
		return ""
	}
	return strconv.Itoa(int(x))
}

func line(x1, y1, x2, y2 float64, stroke string) g.Node {
	return g.El("line", attrF("x1", x1), attrF("y1", y1), attrF("x2", x2), attrF("y2", y2), g.Attr("stroke", stroke))
}

func label(x, y float64, anchor, text string) g.Node {
	return g.El("text",
		attrF("x", x), attrF("y", y), g.Attr("text-anchor", anchor),
		g.Attr("font-size", "12"), g.Attr("font-family", "sans-serif"), g.Attr("fill", "#24292f"),
		g.Text(text),
	)
}

func attrF(name string, v float64) g.Node { return g.Attr(name, fmtF(v)) }

func fmtF(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) }

func fmtTick(v float64) string { return strconv.FormatFloat(v, 'g', 4, 64) }
