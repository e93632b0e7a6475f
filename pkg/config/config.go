// Package config loads panelmap's optional TOML configuration.
//
// The file is looked up in order: the --config flag, $PANELMAP_CONFIG, then
// $XDG_CONFIG_HOME/panelmap/config.toml (the platform config directory when
// XDG_CONFIG_HOME is unset). A missing default file is not an error; every
// setting has a default.
//
//	[layout]
//	engine    = "graphviz"   # or "tree"
//	direction = "LR"         # or "TB"
//	rank_sep  = 300
//	node_sep  = 150
//	normalize = true
//
//	[theme]
//	palette    = ["#3b82f6", "#10b981"]
//	root_color = "#0f172a"
//	edge_color = "#cbd5e1"
//
//	[export]
//	padding  = 50
//	formats  = ["pdf"]
//	filename = "architecture_map_vector.pdf"
//	scale    = 2
//
//	[cache]
//	backend   = "file"       # file, redis or none
//	dir       = ""
//	redis_url = ""
//	ttl       = "168h"
//
//	[server]
//	addr           = ":8080"
//	max_body_bytes = 1048576
//
// Unknown keys and out-of-range values are errors.ErrCodeInvalidConfig.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/panelmap/pkg/cache"
	"github.com/matzehuels/panelmap/pkg/diagram"
	"github.com/matzehuels/panelmap/pkg/errors"
	"github.com/matzehuels/panelmap/pkg/export"
	"github.com/matzehuels/panelmap/pkg/layout"
)

// EnvVar names the environment variable holding a config file path.
const EnvVar = "PANELMAP_CONFIG"

// Config is the complete configuration.
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Theme  ThemeConfig  `toml:"theme"`
	Export ExportConfig `toml:"export"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// LayoutConfig controls normalization and placement.
type LayoutConfig struct {
	Engine    string  `toml:"engine" validate:"oneof=graphviz tree"`
	Direction string  `toml:"direction" validate:"oneof=LR TB"`
	RankSep   float64 `toml:"rank_sep" validate:"gt=0"`
	NodeSep   float64 `toml:"node_sep" validate:"gt=0"`
	Normalize bool    `toml:"normalize"`
}

// ThemeConfig controls colors.
type ThemeConfig struct {
	Palette   []string `toml:"palette" validate:"min=1,dive,hexcolor"`
	RootColor string   `toml:"root_color" validate:"hexcolor"`
	EdgeColor string   `toml:"edge_color" validate:"hexcolor"`
}

// ExportConfig controls documents.
type ExportConfig struct {
	Padding  float64  `toml:"padding" validate:"gte=0"`
	Formats  []string `toml:"formats" validate:"min=1,dive,oneof=pdf svg png json"`
	Filename string   `toml:"filename" validate:"required,filename"`
	Scale    float64  `toml:"scale" validate:"gt=0,lte=8"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Backend  string   `toml:"backend" validate:"oneof=file redis none"`
	Dir      string   `toml:"dir"`
	RedisURL string   `toml:"redis_url" validate:"required_if=Backend redis"`
	TTL      Duration `toml:"ttl"`
}

// ServerConfig controls `panelmap serve`.
type ServerConfig struct {
	Addr         string `toml:"addr" validate:"required"`
	MaxBodyBytes int64  `toml:"max_body_bytes" validate:"gt=0"`
}

// Duration is a time.Duration written as a string ("36h", "90m").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Layout: LayoutConfig{
			Engine:    layout.EngineGraphviz,
			Direction: string(diagram.LeftToRight),
			RankSep:   layout.DefaultRankSep,
			NodeSep:   layout.DefaultNodeSep,
			Normalize: true,
		},
		Theme: ThemeConfig{
			Palette:   append([]string(nil), diagram.DefaultPalette...),
			RootColor: diagram.RootColor,
			EdgeColor: export.DefaultEdgeColor,
		},
		Export: ExportConfig{
			Padding:  export.Padding,
			Formats:  []string{export.FormatPDF},
			Filename: export.DefaultFilename,
			Scale:    2,
		},
		Cache: CacheConfig{
			Backend: cache.BackendFile,
			TTL:     Duration{cache.TTLDiagram},
		},
		Server: ServerConfig{
			Addr:         ":8080",
			MaxBodyBytes: 1 << 20,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/panelmap/config.toml, or the same
// file under the platform config directory.
func DefaultPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "panelmap", "config.toml"), nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "panelmap", "config.toml"), nil
}

// Load reads the configuration. An explicit path (or $PANELMAP_CONFIG) must
// exist; the default path may be absent. It returns the file actually read,
// or "" when only defaults apply.
func Load(path string) (Config, string, error) {
	explicit := true
	if path == "" {
		path = os.Getenv(EnvVar)
	}
	if path == "" {
		explicit = false
		p, err := DefaultPath()
		if err != nil {
			return Default(), "", nil
		}
		path = p
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), "", nil
		}
		return Config{}, "", errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
	}

	cfg, err := LoadFile(path)
	if err != nil {
		return Config{}, "", err
	}
	return cfg, path, nil
}

// LoadFile decodes path over the defaults and validates the result.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode parses TOML text over the defaults and validates the result.
func Decode(text string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(text, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown key %s", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LayoutOptions returns the engine options.
func (c Config) LayoutOptions() layout.Options {
	return layout.Options{
		Direction: diagram.Direction(c.Layout.Direction),
		RankSep:   c.Layout.RankSep,
		NodeSep:   c.Layout.NodeSep,
	}
}

// CacheOptions returns the backend selection.
func (c Config) CacheOptions() cache.Options {
	return cache.Options{Backend: c.Cache.Backend, Dir: c.Cache.Dir, RedisURL: c.Cache.RedisURL}
}
