package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"

	"cg-scene-renderer/internal/frames"
)

// DefaultPath is where cmd/animate looks for a config file when -config is not given.
const DefaultPath = "~/.config/cg-scene-renderer/config.toml"

var ErrInvalid = errors.New("config: invalid value")

// Config holds all configurable paths and render settings.
type Config struct {
	// Paths
	BaseDir   string `toml:"base_dir"`
	Scene     string `toml:"scene"`
	OutputDir string `toml:"output_dir"`

	// Render settings
	Width       int     `toml:"width"`
	Height      int     `toml:"height"`
	Supersample int     `toml:"supersample"`
	FOV         float64 `toml:"fov"`
	Effect      string  `toml:"effect"`

	// Animation
	Frames     int     `toml:"frames"`
	FPS        float64 `toml:"fps"`
	AutoCamera bool    `toml:"auto_camera"`
	SlowMotion bool    `toml:"slow_motion"`
	// Orbit holds the "right" key for the whole run, circling the camera.
	Orbit bool `toml:"orbit"`

	// Encoding
	Format  string `toml:"format"`
	Workers int    `toml:"workers"`
}

// Load reads a TOML config file and returns Config.
// Fields not set in the file keep their zero values. BaseDir defaults to
// the directory holding the file.
func Load(path string) (Config, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: expand %s: %w", path, err)
	}
	path = expanded
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.BaseDir == "" {
		cfg.BaseDir = filepath.Dir(path)
	}

	return cfg, nil
}

// LoadOptional is Load, except a missing file yields an empty Config.
func LoadOptional(path string) (Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Config{}, nil
	}
	return cfg, err
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) error {
	// CLI flags override config file
	if flags.Scene != "" {
		c.Scene = flags.Scene
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Frames > 0 {
		c.Frames = flags.Frames
	}
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Effect != "" {
		c.Effect = flags.Effect
	}
	c.AutoCamera = c.AutoCamera || flags.AutoCamera
	c.SlowMotion = c.SlowMotion || flags.SlowMotion
	c.Orbit = c.Orbit || flags.Orbit

	if c.BaseDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("config: working directory: %w", err)
		}
		c.BaseDir = cwd
	}
	base, err := homedir.Expand(c.BaseDir)
	if err != nil {
		return fmt.Errorf("config: expand %s: %w", c.BaseDir, err)
	}
	c.BaseDir = base

	if c.OutputDir == "" {
		c.OutputDir = "frames"
	}
	if c.Scene, err = c.resolvePath(c.Scene); err != nil {
		return err
	}
	if c.OutputDir, err = c.resolvePath(c.OutputDir); err != nil {
		return err
	}

	// Defaults for render settings
	if c.Width <= 0 {
		c.Width = 640
	}
	if c.Height <= 0 {
		c.Height = 480
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.FOV <= 0 {
		c.FOV = 45
	}
	if c.Frames <= 0 {
		c.Frames = 240
	}
	if c.FPS <= 0 {
		c.FPS = 60
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}

	c.Format = strings.ToLower(c.Format)
	switch c.Format {
	case "":
		c.Format = frames.FormatWebP
	case frames.FormatWebP, frames.FormatTGA:
	default:
		return fmt.Errorf("%w: format %q (want %s or %s)", ErrInvalid, c.Format, frames.FormatWebP, frames.FormatTGA)
	}
	if c.Supersample > 8 {
		return fmt.Errorf("%w: supersample %d (want 1-8)", ErrInvalid, c.Supersample)
	}
	return nil
}

// resolvePath expands ~ and joins relative paths onto BaseDir.
func (c *Config) resolvePath(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	expanded, err := homedir.Expand(p)
	if err != nil {
		return "", fmt.Errorf("config: expand %s: %w", p, err)
	}
	if !filepath.IsAbs(expanded) {
		expanded = filepath.Join(c.BaseDir, expanded)
	}
	return expanded, nil
}

// Dt is the frame time step in seconds.
func (c *Config) Dt() float64 { return 1 / c.FPS }

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Scene      string
	OutputDir  string
	Frames     int
	Width      int
	Height     int
	Format     string
	Workers    int
	Effect     string
	AutoCamera bool
	SlowMotion bool
	Orbit      bool
}
