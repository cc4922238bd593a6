// Package site writes the complete static documentation site for an SDK root:
// index, guides, package and module pages, static assets, the package index
// as JSON and a manifest of the run.
package site

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tdewolff/minify/v2"

	"git.home.luguber.info/inful/sdkdocs/internal/config"
	derrors "git.home.luguber.info/inful/sdkdocs/internal/errors"
	"git.home.luguber.info/inful/sdkdocs/internal/git"
	"git.home.luguber.info/inful/sdkdocs/internal/logfields"
	"git.home.luguber.info/inful/sdkdocs/internal/manifest"
	"git.home.luguber.info/inful/sdkdocs/internal/markdown"
	"git.home.luguber.info/inful/sdkdocs/internal/metrics"
	"git.home.luguber.info/inful/sdkdocs/internal/modules"
	"git.home.luguber.info/inful/sdkdocs/internal/packaging"
	"git.home.luguber.info/inful/sdkdocs/internal/webdocs"
)

const (
	// PackagesJSON is the package index written at the output root.
	PackagesJSON = "packages.json"
	// ManifestJSON records the generation run.
	ManifestJSON = "manifest.json"

	indexPage  = "index.html"
	guideIndex = "index.md"
)

// Builder renders every page of a Generator into an output directory.
type Builder struct {
	gen      *webdocs.Generator
	cfg      *config.Config
	recorder metrics.Recorder
	minifier *minify.M
	now      func() time.Time
}

// Option customises a Builder.
type Option func(*Builder)

// WithRecorder injects a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(b *Builder) {
		if r != nil {
			b.recorder = r
		}
	}
}

// WithClock overrides the time source used for the manifest.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// NewBuilder returns a Builder writing gen's pages as configured by cfg.
func NewBuilder(gen *webdocs.Generator, cfg *config.Config, opts ...Option) *Builder {
	b := &Builder{
		gen:      gen,
		cfg:      cfg,
		recorder: metrics.NoopRecorder{},
		now:      time.Now,
	}
	if cfg.Output.Minify {
		b.minifier = newMinifier()
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// run carries the state of one Build call.
type run struct {
	out      string
	manifest *manifest.SiteManifest
}

// Build writes the whole site. The first page that fails to render or write
// aborts the build; manifest.json is only written for a complete site.
func (b *Builder) Build(ctx context.Context) (*manifest.SiteManifest, error) {
	start := b.now()
	idx := b.gen.Index()
	b.recorder.SetPackages(idx.Len())

	commit, err := git.ReadHead(b.gen.Root())
	if err != nil {
		slog.Warn("Could not resolve source revision", logfields.Error(err))
	}
	names := make([]string, 0, idx.Len())
	for _, pkg := range idx.Packages() {
		names = append(names, pkg.Name)
	}

	r := &run{
		out: b.cfg.Output.Directory,
		manifest: manifest.New(start, manifest.Inputs{
			Root:         b.gen.Root(),
			BaseURL:      b.gen.BaseURL(),
			SourceCommit: commit,
			Packages:     names,
		}),
	}

	if b.cfg.Output.Clean {
		if err := os.RemoveAll(r.out); err != nil {
			return nil, derrors.WriteFailed(r.out, err)
		}
	}
	if err := os.MkdirAll(r.out, 0o750); err != nil {
		return nil, derrors.WriteFailed(r.out, err)
	}

	steps := []struct {
		name string
		fn   func(context.Context, *run) error
	}{
		{"index", b.writeIndex},
		{"guides", b.writeGuides},
		{"packages", b.writePackages},
		{"static", b.copyStatic},
		{"packages.json", b.writePackagesJSON},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := step.fn(ctx, r); err != nil {
			return nil, fmt.Errorf("%s: %w", step.name, err)
		}
	}

	elapsed := b.now().Sub(start)
	r.manifest.Duration = elapsed.Milliseconds()
	r.manifest.Status = manifest.StatusSuccess
	data, err := r.manifest.ToJSON()
	if err != nil {
		return nil, derrors.InternalError("encode manifest", err)
	}
	if err := b.writeFile(filepath.Join(r.out, ManifestJSON), data); err != nil {
		return nil, err
	}

	b.recorder.ObserveGenerate(elapsed)
	slog.Info("Site generated",
		logfields.Path(r.out),
		slog.Int("pages", len(r.manifest.Pages)),
		logfields.DurationMS(float64(elapsed.Microseconds())/1000))
	return r.manifest, nil
}

// render times one page render, records its outcome and writes it to rel
// under the output directory.
func (b *Builder) render(r *run, kind, rel, source string, fn func() ([]byte, error)) error {
	start := time.Now()
	page, err := fn()
	b.recorder.ObservePageRender(kind, time.Since(start))
	if err != nil {
		b.recorder.IncPageResult(kind, metrics.ResultFailed)
		slog.Error("Page render failed", logfields.PageKind(kind), logfields.Page(rel), logfields.Error(err))
		return derrors.RenderFailed(rel, err)
	}
	b.recorder.IncPageResult(kind, metrics.ResultSuccess)

	if err := b.writeFile(filepath.Join(r.out, filepath.FromSlash(rel)), page); err != nil {
		return err
	}
	r.manifest.AddPage(manifest.Page{
		Path:        rel,
		Kind:        kind,
		Source:      source,
		Fingerprint: markdown.Fingerprint(page),
	})
	return nil
}

func (b *Builder) writeIndex(_ context.Context, r *run) error {
	guide := filepath.Join(b.guidesDir(), guideIndex)
	if _, err := os.Stat(guide); err == nil {
		return b.render(r, metrics.KindIndex, indexPage, b.rel(guide), func() ([]byte, error) {
			return b.gen.GuidePage(guide)
		})
	}
	return b.render(r, metrics.KindIndex, indexPage, "", func() ([]byte, error) {
		return b.gen.IndexPage(), nil
	})
}

func (b *Builder) writeGuides(ctx context.Context, r *run) error {
	src := b.guidesDir()
	if _, err := os.Stat(src); errors.Is(err, fs.ErrNotExist) {
		slog.Debug("No guides directory", logfields.Path(src))
		return nil
	}
	return filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if p != src && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(p) != ".md" || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		out := b.cfg.Guides.Target + "/" + strings.TrimSuffix(filepath.ToSlash(rel), ".md") + ".html"
		return b.render(r, metrics.KindGuide, out, b.rel(p), func() ([]byte, error) {
			return b.gen.GuidePage(p)
		})
	})
}

func (b *Builder) writePackages(ctx context.Context, r *run) error {
	for _, pkg := range b.gen.Index().Packages() {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := pkg.Name
		err := b.render(r, metrics.KindPackage, b.gen.PackageURL(pkg), b.rel(filepath.Join(pkg.RootDir, packaging.ManifestFile)), func() ([]byte, error) {
			return b.gen.PackagePage(name)
		})
		if err != nil {
			return err
		}
		for _, m := range b.gen.Documented(pkg) {
			doc := modules.DocPath(pkg.Doc, m)
			err := b.render(r, metrics.KindModule, b.gen.ModuleURL(pkg, m), b.rel(doc), func() ([]byte, error) {
				return b.gen.ModulePage(doc)
			})
			if err != nil {
				return err
			}
		}
		slog.Debug("Package written", logfields.Package(pkg.Name))
	}
	return nil
}

func (b *Builder) writePackagesJSON(_ context.Context, r *run) error {
	data, err := b.gen.Index().MarshalJSON()
	if err != nil {
		return derrors.InternalError("encode package index", err)
	}
	return b.writeFile(filepath.Join(r.out, PackagesJSON), data)
}

func (b *Builder) writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return derrors.WriteFailed(path, err)
	}
	if err := os.WriteFile(path, minifyBytes(b.minifier, path, data), 0o644); err != nil {
		return derrors.WriteFailed(path, err)
	}
	return nil
}

func (b *Builder) guidesDir() string {
	return filepath.Join(b.gen.Root(), b.cfg.Guides.Source)
}

// rel is path relative to the SDK root, '/'-separated, for the manifest.
func (b *Builder) rel(path string) string {
	rel, err := filepath.Rel(b.gen.Root(), path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
