package config

import "errors"

// Defaults used when the configuration leaves a field empty.
const (
	DefaultRoot         = "."
	DefaultBaseURL      = "/"
	DefaultPackagesDir  = "packages"
	DefaultTemplate     = "doc/static-files/base.html"
	DefaultGuidesSource = "doc/dev-guide-source"
	DefaultGuidesTarget = "dev-guide"
	DefaultOutputDir    = "./site"
	DefaultServeAddr    = "127.0.0.1:8888"
)

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config)
	Domain() string
}

// SourceDefaultApplier handles root, base URL and input locations.
type SourceDefaultApplier struct{}

func (SourceDefaultApplier) Domain() string { return "source" }

func (SourceDefaultApplier) ApplyDefaults(cfg *Config) {
	if cfg.Root == "" {
		cfg.Root = DefaultRoot
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.PackagesDir == "" {
		cfg.PackagesDir = DefaultPackagesDir
	}
	if cfg.Template == "" {
		cfg.Template = DefaultTemplate
	}
	if cfg.Guides.Source == "" {
		cfg.Guides.Source = DefaultGuidesSource
	}
	if cfg.Guides.Target == "" {
		cfg.Guides.Target = DefaultGuidesTarget
	}
}

// OutputDefaultApplier handles static output defaults.
type OutputDefaultApplier struct{}

func (OutputDefaultApplier) Domain() string { return "output" }

func (OutputDefaultApplier) ApplyDefaults(cfg *Config) {
	if cfg.Output.Directory == "" {
		cfg.Output.Directory = DefaultOutputDir
		// A defaulted output directory is owned by the generator.
		cfg.Output.Clean = true
	}
}

// ServeDefaultApplier handles preview server defaults.
type ServeDefaultApplier struct{}

func (ServeDefaultApplier) Domain() string { return "serve" }

func (ServeDefaultApplier) ApplyDefaults(cfg *Config) {
	if cfg.Serve.Addr == "" {
		cfg.Serve.Addr = DefaultServeAddr
	}
}

var appliers = []DefaultApplier{
	SourceDefaultApplier{},
	OutputDefaultApplier{},
	ServeDefaultApplier{},
}

// ApplyDefaults runs every domain applier over cfg.
func ApplyDefaults(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	for _, a := range appliers {
		a.ApplyDefaults(cfg)
	}
	return nil
}
