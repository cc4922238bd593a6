package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	derrors "git.home.luguber.info/inful/sdkdocs/internal/errors"
	"git.home.luguber.info/inful/sdkdocs/internal/linkcheck"
)

// CheckCmd implements the 'check' command.
type CheckCmd struct {
	Dir string `arg:"" optional:"" help:"Generated site directory (defaults to output.directory)"`
}

func (c *CheckCmd) Run(global *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	dir := c.Dir
	if dir == "" {
		dir = cfg.Output.Directory
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return runCheck(ctx, global, dir, cfg.BaseURL)
}

func runCheck(ctx context.Context, global *Global, dir, baseURL string) error {
	checker, err := linkcheck.NewChecker(dir, baseURL)
	if err != nil {
		return err
	}
	report, err := checker.Check(ctx)
	if err != nil {
		return derrors.Wrap(err, derrors.CategoryFileSystem, derrors.SeverityError, "link check failed").
			WithContext("dir", dir)
	}

	out := global.out()
	for _, b := range report.Broken {
		fmt.Fprintf(out, "%s: broken %s %s=%q\n", b.Page, b.Link.Tag, b.Link.Attribute, b.Link.URL)
	}
	fmt.Fprintf(out, "Checked %d links in %d pages, %d broken\n", report.Checked, report.Pages, len(report.Broken))
	if !report.OK() {
		return derrors.BrokenLinks(len(report.Broken))
	}
	return nil
}
