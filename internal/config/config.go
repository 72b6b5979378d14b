package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	ListenAddr  string `mapstructure:"listen_addr" yaml:"listen_addr"`
	MaxUploadMB int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`
	OutDir      string `mapstructure:"out_dir" yaml:"out_dir"`

	// Parsing. Delimiter empty means sniffed; Thousands empty means none.
	Delimiter  string `mapstructure:"delimiter" yaml:"delimiter"`
	Decimal    string `mapstructure:"decimal" yaml:"decimal"`
	Thousands  string `mapstructure:"thousands" yaml:"thousands"`
	AutoLocale bool   `mapstructure:"auto_locale" yaml:"auto_locale"`

	MissingPolicy    string `mapstructure:"missing_policy" yaml:"missing_policy"`
	SessionCacheSize int    `mapstructure:"session_cache_size" yaml:"session_cache_size"`

	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	SeqURL   string `mapstructure:"seq_url" yaml:"seq_url"`
	// Color is auto, always or never.
	Color string `mapstructure:"color" yaml:"color"`
}

// Keys lists the settable keys in display order.
var Keys = []string{
	"listen_addr", "max_upload_mb", "out_dir",
	"delimiter", "decimal", "thousands", "auto_locale",
	"missing_policy", "session_cache_size",
	"log_level", "seq_url", "color",
}

func defaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".reportdesk"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.reportdesk/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := defaultDir()
		if err != nil {
			return err
		}
		path = filepath.Join(dir, "config.yaml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("REPORTDESK")
	v.AutomaticEnv()

	v.SetDefault("listen_addr", "127.0.0.1:8080")
	v.SetDefault("max_upload_mb", 100)
	v.SetDefault("out_dir", ".")
	v.SetDefault("delimiter", "")
	v.SetDefault("decimal", ".")
	v.SetDefault("thousands", "")
	v.SetDefault("auto_locale", false)
	v.SetDefault("missing_policy", "reject")
	v.SetDefault("session_cache_size", 128)
	v.SetDefault("log_level", "info")
	v.SetDefault("seq_url", "")
	v.SetDefault("color", "auto")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := defaultDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks value ranges and the single-rune separator settings.
func (c *Global) Validate() error {
	if c.MaxUploadMB < 0 {
		return fmt.Errorf("max_upload_mb must be >= 0, got %d", c.MaxUploadMB)
	}
	if c.SessionCacheSize < 0 {
		return fmt.Errorf("session_cache_size must be >= 0, got %d", c.SessionCacheSize)
	}
	for key, val := range map[string]string{"delimiter": c.Delimiter, "decimal": c.Decimal, "thousands": c.Thousands} {
		if _, err := Rune(val); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	switch strings.ToLower(c.MissingPolicy) {
	case "", "reject", "drop":
	default:
		return fmt.Errorf("invalid missing_policy: %s (use reject or drop)", c.MissingPolicy)
	}
	switch strings.ToLower(c.Color) {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("invalid color: %s (use auto, always or never)", c.Color)
	}
	return nil
}

// Rune decodes a single-character setting. Empty yields 0; `\t` and "tab"
// are accepted for a tab.
func Rune(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case `\t`, "tab", "TAB":
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) {
		return 0, fmt.Errorf("expected a single character, got %q", s)
	}
	return r, nil
}

// Get returns the display value of key.
func (c *Global) Get(key string) (string, error) {
	switch key {
	case "listen_addr":
		return c.ListenAddr, nil
	case "max_upload_mb":
		return strconv.Itoa(c.MaxUploadMB), nil
	case "out_dir":
		return c.OutDir, nil
	case "delimiter":
		return c.Delimiter, nil
	case "decimal":
		return c.Decimal, nil
	case "thousands":
		return c.Thousands, nil
	case "auto_locale":
		return strconv.FormatBool(c.AutoLocale), nil
	case "missing_policy":
		return c.MissingPolicy, nil
	case "session_cache_size":
		return strconv.Itoa(c.SessionCacheSize), nil
	case "log_level":
		return c.LogLevel, nil
	case "seq_url":
		return c.SeqURL, nil
	case "color":
		return c.Color, nil
	}
	return "", fmt.Errorf("unknown key: %s", key)
}

// Set parses val into key. The config is left unchanged on error.
func (c *Global) Set(key, val string) error {
	next := *c
	switch key {
	case "listen_addr":
		next.ListenAddr = val
	case "max_upload_mb":
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid int for max_upload_mb: %v", val)
		}
		next.MaxUploadMB = i
	case "out_dir":
		next.OutDir = val
	case "delimiter":
		next.Delimiter = val
	case "decimal":
		next.Decimal = val
	case "thousands":
		next.Thousands = val
	case "auto_locale":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid bool for auto_locale: %v", val)
		}
		next.AutoLocale = b
	case "missing_policy":
		next.MissingPolicy = strings.ToLower(val)
	case "session_cache_size":
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid int for session_cache_size: %v", val)
		}
		next.SessionCacheSize = i
	case "log_level":
		next.LogLevel = strings.ToLower(val)
	case "seq_url":
		next.SeqURL = val
	case "color":
		next.Color = strings.ToLower(val)
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}
