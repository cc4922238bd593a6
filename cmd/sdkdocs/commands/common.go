package commands

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sdkdocs/internal/config"
	derrors "git.home.luguber.info/inful/sdkdocs/internal/errors"
	"git.home.luguber.info/inful/sdkdocs/internal/webdocs"
)

// Global carries shared state into subcommands.
type Global struct {
	Logger *slog.Logger
	Stdout io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (optional)" default:"sdkdocs.yaml" env:"SDKDOCS_CONFIG"`
	Root    string           `short:"r" help:"SDK root directory (overrides config)"`
	BaseURL string           `name:"base-url" help:"Base URL inserted into every page (overrides config)"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Generate GenerateCmd `cmd:"" help:"Generate the static documentation site"`
	Serve    ServeCmd    `cmd:"" help:"Serve the documentation, rendering pages on demand"`
	Page     PageCmd     `cmd:"" help:"Render a single page to stdout"`
	Index    IndexCmd    `cmd:"" help:"Print the package index as JSON"`
	Check    CheckCmd    `cmd:"" help:"Check a generated site for broken internal links"`
	Init     InitCmd     `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; setup logging once. SDKDOCS_LOG_LEVEL
// (debug, info, warn, error) applies unless --verbose is given.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if env := os.Getenv("SDKDOCS_LOG_LEVEL"); env != "" {
		if err := level.UnmarshalText([]byte(strings.ToUpper(env))); err != nil {
			level = slog.LevelInfo
		}
	}
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// loadConfig reads the configuration file when present, falls back to
// defaults otherwise, and applies command-line overrides.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if _, err := os.Stat(c.Config); err == nil {
		if cfg, err = config.Load(c.Config); err != nil {
			return nil, err
		}
	} else {
		slog.Debug("No configuration file, using defaults", slog.String("path", c.Config))
	}
	if c.Root != "" {
		cfg.Root = c.Root
	}
	if c.BaseURL != "" {
		cfg.BaseURL = c.BaseURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newGenerator builds a Generator for cfg, classifying load failures.
func newGenerator(cfg *config.Config) (*webdocs.Generator, error) {
	gen, err := webdocs.New(cfg.Root, cfg.BaseURL,
		webdocs.WithPackagesDir(cfg.PackagesDir),
		webdocs.WithTemplatePath(cfg.Template))
	switch {
	case err == nil:
		return gen, nil
	case errors.Is(err, webdocs.ErrTemplate):
		return nil, derrors.TemplateMissing(cfg.Template, err)
	default:
		return nil, derrors.IndexLoadFailed(cfg.Root, err)
	}
}

func (g *Global) out() io.Writer {
	if g == nil || g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}
