package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	derrors "git.home.luguber.info/inful/sdkdocs/internal/errors"
)

// Config represents the application configuration
type Config struct {
	Root        string       `yaml:"root"`
	BaseURL     string       `yaml:"base_url"`
	PackagesDir string       `yaml:"packages_dir,omitempty"`
	Template    string       `yaml:"template,omitempty"`
	Guides      GuidesConfig `yaml:"guides"`
	Output      OutputConfig `yaml:"output"`
	Serve       ServeConfig  `yaml:"serve"`
}

// GuidesConfig locates the prose guides and where their pages are published.
type GuidesConfig struct {
	Source string `yaml:"source"` // Relative to root
	Target string `yaml:"target"` // URL prefix / output subdirectory
}

// OutputConfig represents static output configuration
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Clean     bool   `yaml:"clean"`  // Clean output directory before generating
	Minify    bool   `yaml:"minify"` // Minify HTML/CSS/JS output
}

// ServeConfig configures the preview server.
type ServeConfig struct {
	Addr    string `yaml:"addr"`
	Watch   bool   `yaml:"watch"`   // Rebuild on template/package changes
	Metrics bool   `yaml:"metrics"` // Expose /metrics
}

// Load loads configuration from the specified file, expanding ${VAR}
// references and applying defaults.
func Load(configPath string) (*Config, error) {
	loadEnvFile()

	data, err := os.ReadFile(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, derrors.ConfigNotFound(configPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, derrors.ConfigInvalid(configPath, err)
	}
	return cfg, nil
}

// Parse decodes YAML configuration, expands environment variables and applies defaults.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := ApplyDefaults(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a configuration populated only with defaults.
func Default() *Config {
	cfg := &Config{}
	// ApplyDefaults only fails on nil input.
	_ = ApplyDefaults(cfg)
	return cfg
}

// Init creates a new configuration file with example content
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	example := Default()
	example.Root = "."
	example.Output.Minify = true
	example.Serve.Metrics = true

	data, err := yaml.Marshal(example)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
