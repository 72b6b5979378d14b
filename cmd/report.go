package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/KaramelBytes/reportdesk/internal/export"
	"github.com/KaramelBytes/reportdesk/internal/output"
	"github.com/KaramelBytes/reportdesk/internal/render"
	"github.com/KaramelBytes/reportdesk/internal/report"
	"github.com/KaramelBytes/reportdesk/internal/utils"
	"github.com/spf13/cobra"
)

var (
	repFlags      ingestFlags
	repOutDir     string
	repChartPath  string
	repSummary    string
	repSheetName  string
	repSheetIndex int
	repSampleRows int
	repNoExport   bool
	// nowFunc dates the export filename.
	nowFunc = time.Now
)

var reportCmd = &cobra.Command{
	Use:   "report <file>",
	Short: "Analyze a CSV/TSV/XLSX file and write report_<date>.csv",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		opt, err := repFlags.options(cmd, c)
		if err != nil {
			return err
		}
		opt.Parse.SheetName = repSheetName
		opt.Parse.SheetIndex = repSheetIndex
		opt.SampleRows = repSampleRows

		p, err := newPrinter(cmd)
		if err != nil {
			return err
		}
		logger, closeLog := newLogger(cmd.ErrOrStderr())
		defer closeLog()

		res, err := report.LoadFile(args[0], opt)
		if err != nil {
			logger.Debug("report failed", "file", args[0], "error", err)
			return err
		}
		logger.Debug("report analyzed", "file", res.Name, "rows", res.Table.Len())
		p.Success("Read %d rows from %s", res.Table.Len(), filepath.Base(res.Name))
		if err := printOverview(p, res); err != nil {
			return err
		}

		if w := res.Warning(); w != nil {
			p.Warning("%v", w)
		}
		if res.Enriched != nil {
			for _, w := range res.Enriched.Warnings {
				p.Warning("%s", w)
			}
		}
		if repSummary != "" {
			if err := os.WriteFile(repSummary, []byte(res.Overview.Markdown()), 0o644); err != nil {
				return fmt.Errorf("write summary: %w", err)
			}
			p.Success("Wrote summary to %s", repSummary)
		}
		if !res.Exportable() {
			return nil
		}

		if !repNoExport {
			outDir := c.OutDir
			if repOutDir != "" {
				outDir = repOutDir
			}
			path, err := export.ToFile(outDir, res.Enriched, nowFunc())
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			p.Success("Wrote report to %s", path)
		}
		if repChartPath != "" {
			if res.Series == nil {
				p.Warning("chart not written: %v", res.PlotErr)
				return nil
			}
			if err := writeChart(repChartPath, res); err != nil {
				return err
			}
			p.Success("Wrote chart to %s", repChartPath)
		}
		return nil
	},
}

func printOverview(p *output.Printer, res *report.Result) error {
	ov := res.Overview
	p.Header("Data overview")
	p.Print("Total rows:    %d", ov.Rows)
	p.Print("Total columns: %d", len(ov.Cols))
	if ov.HasMean {
		p.Print("Mean of %s: %s", p.Bold(ov.Numeric), ov.MeanLabel())
	}
	if ov.Temporal != "" {
		p.Print("Timeline:      %s", ov.Temporal)
	} else if ov.HasMean {
		p.Print("Timeline:      row index")
	}

	p.Header("Columns")
	t := output.NewTable(p.Out(), []string{"Column", "Kind", "Non-null", "Missing", "Role"})
	for _, col := range ov.Cols {
		t.AddRow(col.Name, col.Kind, strconv.Itoa(col.NonNull), strconv.Itoa(col.Missing), col.Selected)
	}
	return t.Render()
}

func writeChart(path string, res *report.Result) error {
	var buf strings.Builder
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		if err := render.WriteSVG(&buf, res.Series, render.DefaultChartOptions()); err != nil {
			return fmt.Errorf("render chart: %w", err)
		}
	case ".html", ".htm":
		ov := res.Overview
		view := render.PageView{Title: ov.Name, Overview: &ov, Series: res.Series}
		if err := render.ReportPage(view).Render(&buf); err != nil {
			return fmt.Errorf("render page: %w", err)
		}
	default:
		return fmt.Errorf("unsupported --chart extension %q (use .svg or .html)", filepath.Ext(path))
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := utils.EnsureDir(dir); err != nil {
			return fmt.Errorf("create chart dir: %w", err)
		}
	}
	return utils.SafeWriteFile(path, []byte(buf.String()))
}

func init() {
	rootCmd.AddCommand(reportCmd)
	repFlags.register(reportCmd)
	reportCmd.Flags().StringVarP(&repOutDir, "out-dir", "o", "", "directory for report_<date>.csv (overrides config out_dir)")
	reportCmd.Flags().StringVar(&repChartPath, "chart", "", "also write the trend chart (.svg) or a full report page (.html)")
	reportCmd.Flags().StringVar(&repSummary, "summary", "", "optional path to write the overview as Markdown")
	reportCmd.Flags().BoolVar(&repNoExport, "no-export", false, "skip writing report_<date>.csv")
	reportCmd.Flags().StringVar(&repSheetName, "sheet-name", "", "XLSX: sheet name to analyze")
	reportCmd.Flags().IntVar(&repSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	reportCmd.Flags().IntVar(&repSampleRows, "sample-rows", report.DefaultSampleRows, "number of sample rows in the Markdown summary")
}
