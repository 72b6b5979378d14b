package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	cfgpkg "github.com/KaramelBytes/reportdesk/internal/config"
	"github.com/KaramelBytes/reportdesk/internal/logging"
	"github.com/KaramelBytes/reportdesk/internal/output"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile   string
	debug     bool
	colorFlag string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "reportdesk",
	Short: "reportdesk: turn a CSV or Excel file into a trend report",
	Long: `reportdesk reads a CSV/TSV or XLSX file, picks the first numeric column and the first
timestamp column, derives value_diff (each value minus the column mean) and produces
an overview, a trend chart and a report_<YYYYMMDD>.csv export. Run it once on a file
with "report" or start the browser UI with "serve".`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.reportdesk/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", "", "colored output: auto|always|never (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults so commands still run
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = &cfgpkg.Global{Decimal: ".", MaxUploadMB: 100, OutDir: ".", LogLevel: "info", Color: "auto", ListenAddr: "127.0.0.1:8080"}
	}
	cfg = c
	if rootCmd.PersistentFlags().Changed("color") {
		cfg.Color = colorFlag
	}
	if debug {
		cfg.LogLevel = "debug"
	}
}

func currentConfig() *cfgpkg.Global {
	if cfg == nil {
		loadConfig()
	}
	return cfg
}

func newPrinter(cmd *cobra.Command) (*output.Printer, error) {
	mode, err := output.ParseColorMode(currentConfig().Color)
	if err != nil {
		return nil, err
	}
	return output.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode), nil
}

// newLogger logs to w at the configured level, fanning out to Seq when set.
func newLogger(w io.Writer) (*slog.Logger, func()) {
	c := currentConfig()
	return logging.Setup(logging.Options{Level: c.LogLevel, SeqURL: c.SeqURL, Out: w})
}
