package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/KaramelBytes/reportdesk/internal/export"
	"github.com/KaramelBytes/reportdesk/internal/output"
	"github.com/KaramelBytes/reportdesk/internal/report"
	"github.com/spf13/cobra"
)

var (
	batchFlags      ingestFlags
	batchOutDir     string
	batchSheetName  string
	batchSheetIndex int
	batchQuiet      bool
)

var batchCmd = &cobra.Command{
	Use:   "report-batch <files...>",
	Short: "Report on several CSV/TSV/XLSX files, one export per file",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := expandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		c := currentConfig()
		opt, err := batchFlags.options(cmd, c)
		if err != nil {
			return err
		}
		opt.Parse.SheetName = batchSheetName
		opt.Parse.SheetIndex = batchSheetIndex

		p, err := newPrinter(cmd)
		if err != nil {
			return err
		}
		outDir := c.OutDir
		if batchOutDir != "" {
			outDir = batchOutDir
		}

		summary := output.NewTable(p.Out(), []string{"File", "Rows", "Column", "Mean", "Report"})
		failed := 0
		total := len(files)
		for i, path := range files {
			if !batchQuiet {
				p.Info("[%d/%d] Processing %s...", i+1, total, filepath.Base(path))
			}
			res, err := report.LoadFile(path, opt)
			if err != nil {
				failed++
				p.Error("%s: %v", filepath.Base(path), err)
				summary.AddRow(filepath.Base(path), "-", "-", "-", "failed")
				continue
			}
			if !res.Exportable() {
				p.Warning("%s: %v", filepath.Base(path), res.Warning())
				summary.AddRow(filepath.Base(path), fmt.Sprint(res.Table.Len()), "-", "-", "skipped")
				continue
			}
			out, err := export.ToNewFile(outDir, res.Enriched, nowFunc())
			if err != nil {
				return fmt.Errorf("export %s: %w", path, err)
			}
			summary.AddRow(filepath.Base(path), fmt.Sprint(res.Table.Len()), res.Enriched.Column, res.Overview.MeanLabel(), out)
		}
		if !batchQuiet {
			p.Header("Summary")
			if err := summary.Render(); err != nil {
				return err
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files failed", failed, total)
		}
		return nil
	},
}

// expandInputs resolves globs, keeps literal paths that exist, and returns a
// sorted, de-duplicated list.
func expandInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchFlags.register(batchCmd)
	batchCmd.Flags().StringVarP(&batchOutDir, "out-dir", "o", "", "directory for the reports (overrides config out_dir)")
	batchCmd.Flags().StringVar(&batchSheetName, "sheet-name", "", "XLSX: sheet name to analyze")
	batchCmd.Flags().IntVar(&batchSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	batchCmd.Flags().BoolVar(&batchQuiet, "quiet", false, "suppress progress and the summary table")
}
