package main

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// config holds the defaults of the command line flags.
type config struct {
	Format string `yaml:"format"`
	Depth  int    `yaml:"depth"`
	Indent string `yaml:"indent"`
	App    string `yaml:"app"`
}

func defaultConfig() config {
	return config{Format: "text", Indent: "  ", App: "mirror"}
}

// loadConfig reads path over the defaults. A missing file is not an error.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	applyDefaults(&cfg)
	return cfg, nil
}

func applyDefaults(cfg *config) {
	def := defaultConfig()
	if cfg.Format == "" {
		cfg.Format = def.Format
	}
	if cfg.Indent == "" {
		cfg.Indent = def.Indent
	}
	if cfg.App == "" {
		cfg.App = def.App
	}
}

func (cfg config) validate() error {
	switch cfg.Format {
	case "text", "yaml":
		return nil
	}
	return errors.Errorf("unknown format %q", cfg.Format)
}
