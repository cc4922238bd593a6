// Package webdocs assembles the HTML pages of the SDK documentation site by
// splicing generated fragments into a base template at fixed anchors.
//
// A Generator loads the package index and the base template once; every page
// operation afterwards is a read-only transformation returning UTF-8 bytes.
package webdocs

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/sdkdocs/internal/logfields"
	"git.home.luguber.info/inful/sdkdocs/internal/markdown"
	"git.home.luguber.info/inful/sdkdocs/internal/modules"
	"git.home.luguber.info/inful/sdkdocs/internal/packaging"
)

const (
	// TemplatePath is the base template location relative to the SDK root.
	TemplatePath = "doc/static-files/base.html"
	// PackagesDir is the directory holding SDK packages, relative to the root.
	PackagesDir = "packages"

	docExt  = ".md"
	pageExt = ".html"
)

var h1Re = regexp.MustCompile(`<h1>.*</h1>`)

// Generator renders documentation pages for one SDK root.
type Generator struct {
	root     string
	baseURL  string
	index    *packaging.Index
	basePage string
	guides   markdown.Renderer
	modules  markdown.Renderer
	exists   modules.ExistsFunc
}

type options struct {
	index        *packaging.Index
	packagesDir  string
	templatePath string
	guides       markdown.Renderer
	modules      markdown.Renderer
	exists       modules.ExistsFunc
}

// Option customises a Generator.
type Option func(*options)

// WithIndex supplies a prebuilt package index instead of loading one from disk.
func WithIndex(idx *packaging.Index) Option {
	return func(o *options) { o.index = idx }
}

// WithPackagesDir overrides the packages directory (relative to the root).
func WithPackagesDir(dir string) Option {
	return func(o *options) { o.packagesDir = dir }
}

// WithTemplatePath overrides the base template location (relative to the root).
func WithTemplatePath(path string) Option {
	return func(o *options) { o.templatePath = path }
}

// WithGuideRenderer replaces the Markdown renderer used for guides and readmes.
func WithGuideRenderer(r markdown.Renderer) Option {
	return func(o *options) { o.guides = r }
}

// WithModuleRenderer replaces the Markdown renderer used for module pages.
func WithModuleRenderer(r markdown.Renderer) Option {
	return func(o *options) { o.modules = r }
}

// WithExists replaces the existence check used when filtering documented modules.
func WithExists(fn modules.ExistsFunc) Option {
	return func(o *options) { o.exists = fn }
}

// New loads the package index and builds the base page for root.
func New(root, baseURL string, opts ...Option) (*Generator, error) {
	o := options{
		packagesDir:  PackagesDir,
		templatePath: TemplatePath,
		exists:       modules.FileExists,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.guides == nil {
		o.guides = markdown.NewGuideRenderer()
	}
	if o.modules == nil {
		o.modules = markdown.NewModuleRenderer()
	}

	idx := o.index
	if idx == nil {
		var err error
		if idx, err = packaging.Load(root, o.packagesDir); err != nil {
			return nil, err
		}
	}

	g := &Generator{
		root:    root,
		baseURL: baseURL,
		index:   idx,
		guides:  o.guides,
		modules: o.modules,
		exists:  o.exists,
	}

	tmpl, err := os.ReadFile(filepath.Join(root, o.templatePath))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTemplate, err)
	}
	g.basePage = g.createBasePage(string(tmpl))
	slog.Debug("Base page built", logfields.Path(o.templatePath), slog.Int("packages", idx.Len()))
	return g, nil
}

// Root returns the SDK root the generator reads from.
func (g *Generator) Root() string { return g.root }

// BaseURL returns the URL inserted into the template's <base> tag.
func (g *Generator) BaseURL() string { return g.baseURL }

// Index returns the package index.
func (g *Generator) Index() *packaging.Index { return g.index }

// IndexPage renders the base page with no content and the default title.
func (g *Generator) IndexPage() []byte {
	return g.createPage("")
}

// GuidePage renders the Markdown guide next to path (its extension replaced by .md).
func (g *Generator) GuidePage(path string) ([]byte, error) {
	src, err := os.ReadFile(mdPath(path))
	if err != nil {
		return nil, err
	}
	content, err := g.guides.Render("", src)
	if err != nil {
		return nil, err
	}
	return g.createPage(string(content)), nil
}

// ModulePage renders the module documentation next to path (its extension replaced by .md).
func (g *Generator) ModulePage(path string) ([]byte, error) {
	md := mdPath(path)
	src, err := os.ReadFile(md)
	if err != nil {
		return nil, err
	}
	content, err := g.modules.Render(g.moduleName(md), src)
	if err != nil {
		return nil, err
	}
	return g.createPage(string(content)), nil
}

// PackagePage renders the detail page of the named package.
func (g *Generator) PackagePage(name string) ([]byte, error) {
	content, err := g.packageDetail(name)
	if err != nil {
		return nil, err
	}
	return g.createPage(content), nil
}

// Documented lists the documented modules of pkg sorted by segment sequence.
// Packages without a doc root have none.
func (g *Generator) Documented(pkg *packaging.Package) []modules.Module {
	if pkg.Doc == "" {
		return nil
	}
	mods := modules.Documented(pkg.Name, pkg.LibTree(), pkg.Doc, g.exists)
	modules.Sort(mods)
	return mods
}

// PackageURL is the root-relative URL of pkg's detail page.
func (g *Generator) PackageURL(pkg *packaging.Package) string {
	return g.relURL(pkg.RootDir) + "/" + pkg.Name + pageExt
}

// ModuleURL is the root-relative URL of module m's page in pkg.
func (g *Generator) ModuleURL(pkg *packaging.Package, m modules.Module) string {
	return g.relURL(pkg.Doc) + "/" + m.Path() + pageExt
}

func (g *Generator) createPage(content string) []byte {
	return []byte(splice(g.basePage,
		insertion{anchor: TitleAnchor, text: pageTitle(content)},
		insertion{anchor: ContentAnchor, text: content},
	))
}

func (g *Generator) createBasePage(tmpl string) string {
	high := g.packageSummaries((*packaging.Package).IsHighLevel)
	low := g.packageSummaries((*packaging.Package).IsLowLevel)
	for _, anchor := range []string{BaseURLAnchor, HighLevelAnchor, LowLevelAnchor, ContentAnchor, TitleAnchor} {
		if n := strings.Count(tmpl, anchor); n != 1 {
			slog.Warn("Base template anchor should appear exactly once", slog.String("anchor", anchor), slog.Int("count", n))
		}
	}
	return splice(tmpl,
		insertion{anchor: BaseURLAnchor, text: `href="` + g.baseURL + `"`},
		insertion{anchor: HighLevelAnchor, text: high},
		insertion{anchor: LowLevelAnchor, text: low},
	)
}

// packageSummaries renders a summary block for every package include accepts.
func (g *Generator) packageSummaries(include func(*packaging.Package) bool) string {
	var b strings.Builder
	for _, pkg := range g.index.Packages() {
		if !include(pkg) {
			continue
		}
		link := tagWrap(pkg.Name, "a", attr{"href", g.PackageURL(pkg)})
		text := tagWrap(link, "h4") + g.moduleList(pkg)
		b.WriteString(tagWrap(text, "div",
			attr{"class", "package-summary"},
			attr{"style", "display: block;"}))
	}
	return b.String()
}

func (g *Generator) moduleList(pkg *packaging.Package) string {
	if pkg.Doc == "" {
		return ""
	}
	var items strings.Builder
	for _, m := range g.Documented(pkg) {
		link := tagWrap(m.Path(), "a", attr{"href", g.ModuleURL(pkg, m)})
		items.WriteString(tagWrap(link, "li", attr{"class", "module"}))
	}
	return tagWrap(items.String(), "ul", attr{"class", "modules"})
}

func (g *Generator) packageDetail(name string) (string, error) {
	pkg, ok := g.index.Get(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrPackageNotFound, name)
	}
	title := tagWrap(name, "h1")
	table := g.packageDetailTable(pkg)
	description := ""
	if pkg.Readme != "" {
		readme, err := g.guides.Render(name, []byte(pkg.Readme))
		if err != nil {
			return "", err
		}
		description = tagWrap(tagWrap(string(readme), "p"), "div", attr{"class", "docs"})
	}
	return tagWrap(title+table+description, "div", attr{"class", "package-detail"}), nil
}

func (g *Generator) packageDetailTable(pkg *packaging.Package) string {
	var rows strings.Builder
	if pkg.Author != "" {
		rows.WriteString(detailRow(pkg.Author, "Author", "author"))
	}
	if pkg.Version != "" {
		rows.WriteString(detailRow(pkg.Version, "Version", "version"))
	}
	if pkg.License != "" {
		rows.WriteString(detailRow(pkg.License, "License", "license"))
	}
	if len(pkg.Dependencies) > 0 {
		rows.WriteString(detailRow(strings.Join(pkg.Dependencies, dependencySeparator), "Dependencies", "dependencies"))
	}
	rows.WriteString(detailRow(g.moduleList(pkg), "Modules", "modules"))
	return tagWrap(tagWrap(rows.String(), "tbody"), "table", attr{"class", "meta-table"})
}

func detailRow(value, descriptor, field string) string {
	meta := tagWrap(tagWrap(descriptor, "span", attr{"class", "meta-header"}), "td")
	val := tagWrap(tagWrap(value, "span", attr{"class", field}), "td")
	return tagWrap(meta+val, "tr")
}

// pageTitle derives the <title> text from the first <h1> on a single line.
func pageTitle(content string) string {
	m := h1Re.FindString(content)
	if m == "" {
		return DefaultTitle
	}
	return m[len("<h1>"):len(m)-len("</h1>")] + titleSeparator + DefaultTitle
}

// moduleName is the '/'-joined module path of a doc file when it lives under
// a package doc root, and its file stem otherwise.
func (g *Generator) moduleName(md string) string {
	for _, pkg := range g.index.Packages() {
		if pkg.Doc == "" {
			continue
		}
		rel, err := filepath.Rel(pkg.Doc, md)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		return filepath.ToSlash(strings.TrimSuffix(rel, docExt))
	}
	return strings.TrimSuffix(filepath.Base(md), docExt)
}

// relURL turns a path under the root into a '/'-separated relative URL.
func (g *Generator) relURL(path string) string {
	rel, err := filepath.Rel(g.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func mdPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + docExt
}
