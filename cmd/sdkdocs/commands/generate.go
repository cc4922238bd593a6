package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/sdkdocs/internal/site"
)

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	Output  string `short:"o" help:"Output directory (overrides config)"`
	Clean   *bool  `help:"Remove the output directory before generating (overrides config)"`
	Minify  *bool  `help:"Minify HTML, CSS and JS output (overrides config)"`
	NoCheck bool   `name:"no-check" help:"Skip the broken link check after generating"`
}

func (g *GenerateCmd) Run(global *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	if g.Output != "" {
		cfg.Output.Directory = g.Output
	}
	if g.Clean != nil {
		cfg.Output.Clean = *g.Clean
	}
	if g.Minify != nil {
		cfg.Output.Minify = *g.Minify
	}

	gen, err := newGenerator(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	m, err := site.NewBuilder(gen, cfg).Build(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(global.out(), "Generated %d pages in %s (%s)\n", len(m.Pages), cfg.Output.Directory, m.Status)

	if g.NoCheck {
		return nil
	}
	return runCheck(ctx, global, cfg.Output.Directory, cfg.BaseURL)
}
