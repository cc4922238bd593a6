package commands

import (
	"context"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/sdkdocs/internal/server"
	"git.home.luguber.info/inful/sdkdocs/internal/webdocs"
)

// ServeCmd implements the 'serve' command. Pages are rendered per request
// against base URL "/" so links resolve on the preview host.
type ServeCmd struct {
	Addr    string `short:"a" help:"Listen address (overrides config)"`
	Watch   *bool  `help:"Reload when the template or package manifests change (overrides config)"`
	Metrics *bool  `help:"Expose Prometheus metrics on /metrics (overrides config)"`
}

func (s *ServeCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	if s.Addr != "" {
		cfg.Serve.Addr = s.Addr
	}
	if s.Watch != nil {
		cfg.Serve.Watch = *s.Watch
	}
	if s.Metrics != nil {
		cfg.Serve.Metrics = *s.Metrics
	}
	if root.BaseURL == "" {
		cfg.BaseURL = "/"
	}

	srv, err := server.New(cfg, func() (*webdocs.Generator, error) { return newGenerator(cfg) })
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.Serve.Watch {
		w, err := server.NewWatcher(srv, server.DefaultDebounce)
		if err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer w.Stop()
	}
	return srv.ListenAndServe(ctx)
}
