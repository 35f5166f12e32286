package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/tabloom-cli/internal/history"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultMissingMarkers lists the raw cell texts treated as missing at load time.
var DefaultMissingMarkers = []string{"", "NA", "N/A", "NaN", "nan", "null", "NULL", "None", "#N/A", "<nil>"}

// Global configuration structure.
type Global struct {
	Delimiter      string   `mapstructure:"delimiter" yaml:"delimiter"`
	MissingMarkers []string `mapstructure:"missing_markers" yaml:"missing_markers"`
	HeadRows       int      `mapstructure:"head_rows" yaml:"head_rows"`
	MaxDisplayRows int      `mapstructure:"max_display_rows" yaml:"max_display_rows"`

	// Chart size in inches; pie charts are rasterized at 100 dpi.
	ChartWidth    float64 `mapstructure:"chart_width" yaml:"chart_width"`
	ChartHeight   float64 `mapstructure:"chart_height" yaml:"chart_height"`
	HistogramBins int     `mapstructure:"histogram_bins" yaml:"histogram_bins"`
	PreviewDir    string  `mapstructure:"preview_dir" yaml:"preview_dir"`
	// Viewer is run with the preview path as its last argument and awaited.
	Viewer string `mapstructure:"viewer" yaml:"viewer"`

	DataDir  string `mapstructure:"data_dir" yaml:"data_dir"`
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}

// Default returns the configuration used when no file or environment overrides exist.
func Default() *Global {
	c := &Global{
		Delimiter:      ",",
		MissingMarkers: append([]string(nil), DefaultMissingMarkers...),
		HeadRows:       5,
		MaxDisplayRows: 60,
		ChartWidth:     6.4,
		ChartHeight:    4.8,
		HistogramBins:  10,
		PreviewDir:     filepath.Join(os.TempDir(), "tabloom"),
		LogLevel:       "warn",
	}
	if home, err := os.UserHomeDir(); err == nil {
		c.DataDir = filepath.Join(home, ".tabloom")
	}
	return c
}

// DelimiterRune returns the configured delimiter, falling back to a comma.
func (c *Global) DelimiterRune() rune {
	switch c.Delimiter {
	case "tab", "\\t", "\t":
		return '\t'
	case "":
		return ','
	}
	return []rune(c.Delimiter)[0]
}

// HistoryPath is the location of the saved-chart history file.
func (c *Global) HistoryPath() string {
	return filepath.Join(c.DataDir, history.FileName)
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.tabloom/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".tabloom")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
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
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	def := Default()
	v := viper.New()
	v.SetEnvPrefix("TABLOOM")
	v.AutomaticEnv()

	v.SetDefault("delimiter", def.Delimiter)
	v.SetDefault("missing_markers", def.MissingMarkers)
	v.SetDefault("head_rows", def.HeadRows)
	v.SetDefault("max_display_rows", def.MaxDisplayRows)
	v.SetDefault("chart_width", def.ChartWidth)
	v.SetDefault("chart_height", def.ChartHeight)
	v.SetDefault("histogram_bins", def.HistogramBins)
	v.SetDefault("preview_dir", def.PreviewDir)
	v.SetDefault("viewer", "")
	v.SetDefault("data_dir", "")
	v.SetDefault("log_level", def.LogLevel)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, ".tabloom"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		c.DataDir = filepath.Join(home, ".tabloom")
	}
	if c.HeadRows <= 0 {
		c.HeadRows = def.HeadRows
	}
	if c.HistogramBins <= 0 {
		c.HistogramBins = def.HistogramBins
	}
	return &c, nil
}
