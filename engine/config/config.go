package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	BackendContainer = "container"
	BackendNative    = "native"
)

type LogConfig struct {
	Level string `toml:"level" yaml:"level"`
}

type EvaluatorConfig struct {
	// Backend is either "container" or "native".
	Backend string `toml:"backend" yaml:"backend"`
	// LibraryPath is the resolved path of the native evaluator library.
	// Required when Backend is "native".
	LibraryPath string `toml:"library_path" yaml:"library_path"`
}

type AssetsConfig struct {
	Dir   string `toml:"dir" yaml:"dir"`
	Ext   string `toml:"ext" yaml:"ext"`
	Watch bool   `toml:"watch" yaml:"watch"`
}

type JobsConfig struct {
	Workers int `toml:"workers" yaml:"workers"`
	Queue   int `toml:"queue" yaml:"queue"`
}

type Config struct {
	Log       LogConfig       `toml:"log" yaml:"log"`
	Evaluator EvaluatorConfig `toml:"evaluator" yaml:"evaluator"`
	Assets    AssetsConfig    `toml:"assets" yaml:"assets"`
	Jobs      JobsConfig      `toml:"jobs" yaml:"jobs"`
}

func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level: "info",
		},
		Evaluator: EvaluatorConfig{
			Backend: BackendContainer,
		},
		Assets: AssetsConfig{
			Dir: "assets",
			Ext: ".scn",
		},
		Jobs: JobsConfig{
			Workers: 4,
			Queue:   64,
		},
	}
}

/**
 * @brief Loads a configuration file on top of the defaults. Files ending in
 * .yaml or .yml are decoded as YAML, everything else as TOML.
 * @param path The path of the configuration file.
 * @returns The validated configuration or an error.
 */
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config %s", path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return Parse(data)
	}
}

// Parse decodes TOML. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, errors.Wrap(err, "decoding toml config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseYAML decodes YAML. Unknown keys are rejected.
func ParseYAML(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, errors.Wrap(err, "decoding yaml config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrapf(err, "log.level %q", c.Log.Level)
	}
	switch c.Evaluator.Backend {
	case BackendContainer:
	case BackendNative:
		if c.Evaluator.LibraryPath == "" {
			return errors.New("evaluator.library_path is required for the native backend")
		}
	default:
		return errors.Errorf("evaluator.backend %q is not one of %q, %q", c.Evaluator.Backend, BackendContainer, BackendNative)
	}
	if c.Jobs.Workers < 1 {
		return errors.Errorf("jobs.workers must be at least 1, got %d", c.Jobs.Workers)
	}
	if c.Jobs.Queue < 1 {
		return errors.Errorf("jobs.queue must be at least 1, got %d", c.Jobs.Queue)
	}
	if c.Assets.Watch && c.Assets.Dir == "" {
		return errors.New("assets.dir is required when assets.watch is set")
	}
	return nil
}
