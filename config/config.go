package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/deevus/blogstats/source"
	"github.com/valyala/fasttemplate"
	"gopkg.in/yaml.v3"
)

// Source kinds understood by the services container.
const (
	SourceSample = "sample"
	SourceSQLite = "sqlite"
	SourceHTTP   = "http"
)

// Config is the top-level configuration.
type Config struct {
	Dashboard DashboardConfig `toml:"dashboard" yaml:"dashboard"`
	Regions   RegionsConfig   `toml:"regions" yaml:"regions"`
	Titles    TitlesConfig    `toml:"titles" yaml:"titles"`
	Source    SourceConfig    `toml:"source" yaml:"source"`
	Log       LogConfig       `toml:"log" yaml:"log"`
}

// DashboardConfig controls the refresh cycle.
type DashboardConfig struct {
	WindowDays     int    `toml:"window_days" yaml:"window_days"`
	TopPosts       int    `toml:"top_posts" yaml:"top_posts"`
	TimeoutSeconds int    `toml:"timeout_seconds" yaml:"timeout_seconds"`
	DateLayout     string `toml:"date_layout" yaml:"date_layout"`
	ErrorMessage   string `toml:"error_message" yaml:"error_message"`
}

// RegionsConfig maps each panel to the display region it renders into.
type RegionsConfig struct {
	TimeSeries string `toml:"time_series" yaml:"time_series"`
	Ranked     string `toml:"ranked" yaml:"ranked"`
	Share      string `toml:"share" yaml:"share"`
}

// TitlesConfig holds panel titles. {days} and {limit} are expanded.
type TitlesConfig struct {
	TimeSeries string `toml:"time_series" yaml:"time_series"`
	Ranked     string `toml:"ranked" yaml:"ranked"`
	Share      string `toml:"share" yaml:"share"`
}

// SourceConfig selects and configures the data source.
type SourceConfig struct {
	Kind           string `toml:"kind" yaml:"kind"`
	Path           string `toml:"path" yaml:"path"`
	URL            string `toml:"url" yaml:"url"`
	ShareDimension string `toml:"share_dimension" yaml:"share_dimension"`
	Seed           uint64 `toml:"seed" yaml:"seed"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level string `toml:"level" yaml:"level"`
	File  string `toml:"file" yaml:"file"`
}

// Timeout returns the per-request timeout as a duration.
func (d DashboardConfig) Timeout() time.Duration {
	return time.Duration(d.TimeoutSeconds) * time.Second
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Dashboard: DashboardConfig{
			WindowDays:     7,
			TopPosts:       5,
			TimeoutSeconds: 10,
			DateLayout:     "1/2/2006",
			ErrorMessage:   "Failed to load statistics data",
		},
		Regions: RegionsConfig{
			TimeSeries: "pageViewsChart",
			Ranked:     "popularPostsChart",
			Share:      "visitorLocationChart",
		},
		Titles: TitlesConfig{
			TimeSeries: "Daily Page Views (Last {days} Days)",
			Ranked:     "Most Popular Posts",
			Share:      "Visitor Locations",
		},
		Source: SourceConfig{
			Kind:           SourceSample,
			Path:           DefaultDBPath(),
			ShareDimension: "country",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns the default config file path using XDG conventions.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, "blogstats", "config.toml")
}

// DefaultDBPath returns the default analytics database path.
func DefaultDBPath() string {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		dir = filepath.Join(os.Getenv("HOME"), ".local", "share")
	}
	return filepath.Join(dir, "blogstats", "analytics.db")
}

// LoadFrom reads the config file at path and merges it over the defaults.
// A missing file yields the defaults. Files ending in .yaml or .yml are read
// as YAML, everything else as TOML.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	default:
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	cfg.Source.Path = expandPath(cfg.Source.Path)
	cfg.Log.File = expandPath(cfg.Log.File)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks value ranges and the region mapping.
func (c *Config) Validate() error {
	d := c.Dashboard
	if d.WindowDays < 1 {
		return fmt.Errorf("dashboard.window_days must be at least 1, got %d", d.WindowDays)
	}
	if d.TopPosts < 1 {
		return fmt.Errorf("dashboard.top_posts must be at least 1, got %d", d.TopPosts)
	}
	if d.TimeoutSeconds < 1 {
		return fmt.Errorf("dashboard.timeout_seconds must be at least 1, got %d", d.TimeoutSeconds)
	}
	if d.DateLayout == "" {
		return fmt.Errorf("dashboard.date_layout must not be empty")
	}

	seen := make(map[string]string)
	for _, r := range []struct{ key, id string }{
		{"time_series", c.Regions.TimeSeries},
		{"ranked", c.Regions.Ranked},
		{"share", c.Regions.Share},
	} {
		if r.id == "" {
			return fmt.Errorf("regions.%s must not be empty", r.key)
		}
		if other, ok := seen[r.id]; ok {
			return fmt.Errorf("regions.%s and regions.%s both use %q", other, r.key, r.id)
		}
		seen[r.id] = r.key
	}

	switch c.Source.Kind {
	case SourceSample:
	case SourceSQLite:
		if c.Source.Path == "" {
			return fmt.Errorf("source.path is required for the sqlite source")
		}
	case SourceHTTP:
		if c.Source.URL == "" {
			return fmt.Errorf("source.url is required for the http source")
		}
	default:
		return fmt.Errorf("unknown source.kind %q", c.Source.Kind)
	}
	if c.Source.ShareDimension != "" && !source.IsShareDimension(c.Source.ShareDimension) {
		return fmt.Errorf("unknown source.share_dimension %q (want one of %s)",
			c.Source.ShareDimension, strings.Join(source.ShareDimensions, ", "))
	}
	return nil
}

// expandPath expands ~ to $HOME and then expands all environment variables.
func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		path = "$HOME" + path[1:]
	}
	return os.ExpandEnv(path)
}

// RegionIDs returns the configured region ids in panel order.
func (c *Config) RegionIDs() []string {
	return []string{c.Regions.TimeSeries, c.Regions.Ranked, c.Regions.Share}
}

// Expand returns the titles with {days} and {limit} replaced. Unknown
// placeholders are left as written.
func (t TitlesConfig) Expand(days, limit int) TitlesConfig {
	vars := map[string]string{
		"days":  strconv.Itoa(days),
		"limit": strconv.Itoa(limit),
	}
	expand := func(s string) string {
		return fasttemplate.ExecuteFuncString(s, "{", "}", func(w io.Writer, tag string) (int, error) {
			if v, ok := vars[tag]; ok {
				return w.Write([]byte(v))
			}
			return w.Write([]byte("{" + tag + "}"))
		})
	}
	return TitlesConfig{
		TimeSeries: expand(t.TimeSeries),
		Ranked:     expand(t.Ranked),
		Share:      expand(t.Share),
	}
}
