package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/reportdesk/internal/analysis"
	cfgpkg "github.com/KaramelBytes/reportdesk/internal/config"
	"github.com/KaramelBytes/reportdesk/internal/report"
	"github.com/spf13/cobra"
)

// ingestFlags are the parsing and analysis overrides shared by report and serve.
type ingestFlags struct {
	delimiter  string
	decimal    string
	thousands  string
	autoLocale bool
	missing    string
	maxMB      int
}

func (f *ingestFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | '|' (sniffed if omitted)")
	fs.StringVar(&f.decimal, "decimal", "", "decimal separator for numbers: '.'|'comma'")
	fs.StringVar(&f.thousands, "thousands", "", "thousands separator stripped from numbers: ','|'.'|'space'|'none'")
	fs.BoolVar(&f.autoLocale, "auto-locale", false, "detect decimal/thousands separators per value")
	fs.StringVar(&f.missing, "missing", "", "missing cells in the numeric column: reject|drop")
	fs.IntVar(&f.maxMB, "max-mb", 0, "maximum input size in MiB (overrides config)")
}

func (f *ingestFlags) reset() {
	*f = ingestFlags{}
}

// options merges config values with the flags the user set explicitly.
func (f *ingestFlags) options(cmd *cobra.Command, c *cfgpkg.Global) (report.Options, error) {
	opt := report.DefaultOptions()
	changed := cmd.Flags().Changed

	delim, dec, thou := c.Delimiter, c.Decimal, c.Thousands
	if changed("delimiter") {
		delim = f.delimiter
	}
	if changed("decimal") {
		dec = f.decimal
	}
	if changed("thousands") {
		thou = f.thousands
	}
	var err error
	if opt.Parse.Delimiter, err = parseDelimiter(delim); err != nil {
		return opt, err
	}
	if opt.Parse.Decimal, err = parseDecimal(dec); err != nil {
		return opt, err
	}
	if opt.Parse.Thousands, err = parseThousands(thou); err != nil {
		return opt, err
	}
	if opt.Parse.Decimal == opt.Parse.Thousands {
		return opt, fmt.Errorf("decimal and thousands separators must differ")
	}
	opt.Parse.AutoLocale = c.AutoLocale
	if changed("auto-locale") {
		opt.Parse.AutoLocale = f.autoLocale
	}

	mb := c.MaxUploadMB
	if changed("max-mb") {
		mb = f.maxMB
	}
	if mb > 0 {
		opt.Parse.MaxBytes = int64(mb) << 20
	}

	policy := c.MissingPolicy
	if changed("missing") {
		policy = f.missing
	}
	p, ok := analysis.ParseMissingPolicy(policy)
	if !ok {
		return opt, fmt.Errorf("unsupported --missing: %s (use reject|drop)", policy)
	}
	opt.Analysis.Missing = p
	return opt, nil
}

func parseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case ",", "comma":
		return ',', nil
	case ";", "semicolon":
		return ';', nil
	case "\t", `\t`, "tab":
		return '\t', nil
	case "|", "pipe":
		return '|', nil
	}
	return 0, fmt.Errorf("unsupported --delimiter: %s", s)
}

func parseDecimal(s string) (rune, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", ".", "dot":
		return '.', nil
	case ",", "comma":
		return ',', nil
	}
	return 0, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", s)
}

func parseThousands(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return 0, nil
	case ",", "comma":
		return ',', nil
	case ".", "dot":
		return '.', nil
	case " ", "space":
		return ' ', nil
	case "'", "apostrophe":
		return '\'', nil
	}
	return 0, fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space'|'none')", s)
}
