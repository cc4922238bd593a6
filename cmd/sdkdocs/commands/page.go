package commands

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	derrors "git.home.luguber.info/inful/sdkdocs/internal/errors"
	"git.home.luguber.info/inful/sdkdocs/internal/webdocs"
)

// PageCmd groups the single-page renderers.
type PageCmd struct {
	Guide   PageGuideCmd   `cmd:"" help:"Render a guide page from its Markdown (or .html) path"`
	Module  PageModuleCmd  `cmd:"" help:"Render a module page from its doc path"`
	Package PagePackageCmd `cmd:"" help:"Render a package detail page by package name"`
	Index   PageIndexCmd   `cmd:"" help:"Render the bare index page"`
}

// PageOutput is shared by every page subcommand.
type PageOutput struct {
	Output string `short:"o" help:"Write the page to this file instead of stdout"`
}

func (p PageOutput) write(global *Global, page []byte) error {
	if p.Output == "" {
		_, err := global.out().Write(page)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p.Output), 0o750); err != nil {
		return derrors.WriteFailed(p.Output, err)
	}
	if err := os.WriteFile(p.Output, page, 0o644); err != nil {
		return derrors.WriteFailed(p.Output, err)
	}
	return nil
}

type PageGuideCmd struct {
	PageOutput
	Path string `arg:"" help:"Guide path"`
}

func (c *PageGuideCmd) Run(global *Global, root *CLI) error {
	return renderPage(global, root, c.PageOutput, "guide", c.Path, func(g *webdocs.Generator) ([]byte, error) {
		return g.GuidePage(c.Path)
	})
}

type PageModuleCmd struct {
	PageOutput
	Path string `arg:"" help:"Module doc path"`
}

func (c *PageModuleCmd) Run(global *Global, root *CLI) error {
	return renderPage(global, root, c.PageOutput, "module", c.Path, func(g *webdocs.Generator) ([]byte, error) {
		return g.ModulePage(c.Path)
	})
}

type PagePackageCmd struct {
	PageOutput
	Name string `arg:"" help:"Package name"`
}

func (c *PagePackageCmd) Run(global *Global, root *CLI) error {
	return renderPage(global, root, c.PageOutput, "package", c.Name, func(g *webdocs.Generator) ([]byte, error) {
		return g.PackagePage(c.Name)
	})
}

type PageIndexCmd struct {
	PageOutput
}

func (c *PageIndexCmd) Run(global *Global, root *CLI) error {
	return renderPage(global, root, c.PageOutput, "index", "index", func(g *webdocs.Generator) ([]byte, error) {
		return g.IndexPage(), nil
	})
}

func renderPage(global *Global, root *CLI, out PageOutput, kind, name string, render func(*webdocs.Generator) ([]byte, error)) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	gen, err := newGenerator(cfg)
	if err != nil {
		return err
	}
	page, err := render(gen)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, webdocs.ErrPackageNotFound) {
			return derrors.NotFound(kind, name)
		}
		return derrors.RenderFailed(name, err)
	}
	return out.write(global, page)
}
