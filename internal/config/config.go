// Package config loads cmdtree settings from a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"cmdtree/internal/model"
)

// Environment overrides.
const (
	EnvGeneratorURL   = "CMDTREE_GENERATOR_URL"
	EnvGeneratorToken = "CMDTREE_GENERATOR_TOKEN"
)

// Config is the on-disk configuration (~/.config/cmdtree/config.yaml).
type Config struct {
	// RootName is the name given to the root command of a new tree.
	RootName string `yaml:"root_name,omitempty"`

	Generator GeneratorConfig `yaml:"generator,omitempty"`
	Web       WebConfig       `yaml:"web,omitempty"`
	Update    UpdateConfig    `yaml:"update,omitempty"`
}

// GeneratorConfig points export at a code-generation service.
type GeneratorConfig struct {
	// URL of the generation endpoint. Empty means generate in-process.
	URL string `yaml:"url,omitempty"`

	// Token is sent as a bearer token when set.
	Token string `yaml:"token,omitempty"`

	// Timeout bounds one export request (default: 30s)
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// WebConfig controls web mode.
type WebConfig struct {
	Addr   string       `yaml:"addr,omitempty"`
	Canvas CanvasConfig `yaml:"canvas,omitempty"`
	Layout LayoutConfig `yaml:"layout,omitempty"`
}

// CanvasConfig is the drawing area handed to the renderer.
type CanvasConfig struct {
	Width  int `yaml:"width,omitempty"`
	Height int `yaml:"height,omitempty"`
}

// LayoutConfig holds the radial layout parameters.
type LayoutConfig struct {
	Angle  float64 `yaml:"angle,omitempty"`  // Degrees swept by the tree
	Radius float64 `yaml:"radius,omitempty"` // Distance of the deepest level
}

// UpdateConfig controls the --update check.
type UpdateConfig struct {
	URL string `yaml:"url,omitempty"` // go-latest JSON feed; empty disables --update
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		RootName: model.DefaultRootName,
		Generator: GeneratorConfig{
			Timeout: 30 * time.Second,
		},
		Web: WebConfig{
			Addr:   "localhost:8080",
			Canvas: CanvasConfig{Width: 800, Height: 400},
			Layout: LayoutConfig{Angle: 360, Radius: 300},
		},
	}
}

// DefaultPath returns the config file location under the user config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cmdtree", "config.yaml"), nil
}

// Load reads the config at path over the defaults and applies environment
// overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv(EnvGeneratorURL); ok {
		c.Generator.URL = v
	}
	if v, ok := os.LookupEnv(EnvGeneratorToken); ok {
		c.Generator.Token = v
	}
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	if c.RootName == "" {
		return errors.New("root_name must not be empty")
	}
	if c.Generator.Timeout < 0 {
		return fmt.Errorf("generator.timeout must not be negative, got %s", c.Generator.Timeout)
	}
	if c.Web.Canvas.Width <= 0 || c.Web.Canvas.Height <= 0 {
		return fmt.Errorf("web.canvas must be positive, got %dx%d", c.Web.Canvas.Width, c.Web.Canvas.Height)
	}
	if c.Web.Layout.Angle <= 0 || c.Web.Layout.Radius <= 0 {
		return fmt.Errorf("web.layout angle and radius must be positive, got %g and %g", c.Web.Layout.Angle, c.Web.Layout.Radius)
	}
	return nil
}
