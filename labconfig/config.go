// Package labconfig resolves the optional YAML configuration for the
// automatalab demo CLI: where to write DOT dumps, and whether/how to
// invoke dot and a viewer on them.
package labconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the on-disk shape of automatalab's config file.
type Config struct {
	OutputDir   string `yaml:"output_dir"`
	RenderCmd   string `yaml:"render_cmd"`
	ViewerCmd   string `yaml:"viewer_cmd"`
	InvokeTools bool   `yaml:"invoke_tools"`
}

var defaultConfig = Config{
	OutputDir:   "output",
	RenderCmd:   "dot -Tpng -O",
	ViewerCmd:   "feh",
	InvokeTools: false,
}

func defaultConfigYaml() []byte {
	data, err := yaml.Marshal(defaultConfig)
	if err != nil {
		// defaultConfig is a static literal: marshaling it cannot fail.
		panic(err)
	}
	return data
}

// Path returns the location of the optional config file.
func Path() (string, error) {
	return xdg.ConfigFile(filepath.Join("automatalab", "config.yaml"))
}

// LoadOrCreate loads the config file if present, or writes out and
// returns the built-in default the first time it's missing.
func LoadOrCreate() (Config, error) {
	path, err := Path()
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if err := saveDefault(path); err != nil {
			return Config{}, errors.Wrapf(err, "writing default config to %q", path)
		}
		return defaultConfig, nil
	} else if err != nil {
		return Config{}, errors.Wrapf(err, "loading config from %q", path)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("labconfig: yaml.Unmarshal: %w", err)
	}
	return cfg, nil
}

func saveDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("os.MkdirAll: %w", err)
	}
	if err := os.WriteFile(path, defaultConfigYaml(), 0o644); err != nil {
		return fmt.Errorf("os.WriteFile: %w", err)
	}
	return nil
}
