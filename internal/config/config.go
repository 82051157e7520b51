// Package config reads the loggraph TOML configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"

	gitbackend "github.com/thiagokokada/loggraph/internal/git/backend"
)

var (
	ErrUnknownKey = errors.New("unknown configuration key")
	ErrInvalid    = errors.New("invalid configuration")
)

// Config mirrors the file layout:
//
//	[graph]
//	limit = 5000
//	backend = "native"
//	long_edge_size = 0
//
//	[paint]
//	row_height = 22
//	selection_color = "#ffffff"
//	palette = ["#00cc00", "#cc0000"]
//
//	[view]
//	theme = "auto"
//	auto_reload = true
type Config struct {
	Graph Graph `toml:"graph"`
	Paint Paint `toml:"paint"`
	View  View  `toml:"view"`
}

type Graph struct {
	Limit        int    `toml:"limit"`
	Backend      string `toml:"backend"`
	LongEdgeSize int    `toml:"long_edge_size"`
}

type Paint struct {
	RowHeight      float64  `toml:"row_height"`
	SelectionColor string   `toml:"selection_color"`
	Palette        []string `toml:"palette"`
}

type View struct {
	Theme      string `toml:"theme"`
	AutoReload bool   `toml:"auto_reload"`
}

var themes = []string{"auto", "light", "dark"}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Graph: Graph{Limit: 5000, Backend: gitbackend.KindNative.String()},
		Paint: Paint{RowHeight: 22, SelectionColor: "#ffffff"},
		View:  View{Theme: "auto", AutoReload: true},
	}
}

// DefaultPath is $XDG_CONFIG_HOME/loggraph/config.toml.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "loggraph", "config.toml")
}

// Load reads path over the defaults. An empty path reads DefaultPath and
// tolerates its absence; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("%s: %s: %w", path, strings.Join(keys, ", "), ErrUnknownKey)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses TOML text over the defaults.
func Decode(text string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(text, &cfg)
	if err != nil {
		return Config{}, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: %w", undecoded[0], ErrUnknownKey)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if _, ok := gitbackend.ParseKind(c.Graph.Backend); !ok {
		return fmt.Errorf("graph.backend %q: %w", c.Graph.Backend, ErrInvalid)
	}
	if c.Graph.LongEdgeSize < 0 {
		return fmt.Errorf("graph.long_edge_size %d: %w", c.Graph.LongEdgeSize, ErrInvalid)
	}
	if c.Paint.RowHeight <= 0 {
		return fmt.Errorf("paint.row_height %v: %w", c.Paint.RowHeight, ErrInvalid)
	}
	if !slices.Contains(themes, c.View.Theme) {
		return fmt.Errorf("view.theme %q: %w", c.View.Theme, ErrInvalid)
	}
	for _, color := range c.Paint.Palette {
		if !strings.HasPrefix(color, "#") {
			return fmt.Errorf("paint.palette color %q: %w", color, ErrInvalid)
		}
	}
	return nil
}

// BackendKind returns the parsed graph.backend setting.
func (c Config) BackendKind() gitbackend.Kind {
	kind, _ := gitbackend.ParseKind(c.Graph.Backend)
	return kind
}
