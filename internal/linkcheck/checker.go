package linkcheck

import (
	"context"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	derrors "git.home.luguber.info/inful/sdkdocs/internal/errors"
	"git.home.luguber.info/inful/sdkdocs/internal/logfields"
)

// BrokenLink is an internal link whose target does not exist in the output.
type BrokenLink struct {
	Page string // page path relative to the output directory
	Link Link
}

// Report summarizes a check run.
type Report struct {
	Pages   int
	Checked int
	Skipped int // external, fragment-only or special-scheme links
	Broken  []BrokenLink
}

// OK reports whether no broken links were found.
func (r *Report) OK() bool { return len(r.Broken) == 0 }

// Checker verifies internal links of a generated site on disk.
type Checker struct {
	dir  string
	base *url.URL
}

// NewChecker returns a checker for the site in dir that is published under baseURL.
func NewChecker(dir, baseURL string) (*Checker, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, derrors.ValidationFailed("base_url", err.Error())
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	return &Checker{dir: dir, base: base}, nil
}

// Check walks every .html file under the output directory and resolves its links.
func (c *Checker) Check(ctx context.Context) (*Report, error) {
	report := &Report{}
	err := filepath.WalkDir(c.dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || filepath.Ext(p) != ".html" {
			return nil
		}
		rel, err := filepath.Rel(c.dir, p)
		if err != nil {
			return err
		}
		return c.checkPage(filepath.ToSlash(rel), p, report)
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (c *Checker) checkPage(rel, file string, report *Report) error {
	f, err := os.Open(filepath.Clean(file))
	if err != nil {
		return derrors.Wrap(err, derrors.CategoryFileSystem, derrors.SeverityError, "failed to open HTML file").
			WithContext("path", file)
	}
	defer func() { _ = f.Close() }()

	doc, err := parse(f)
	if err != nil {
		return err
	}
	report.Pages++

	pageURL := c.base.ResolveReference(&url.URL{Path: rel})
	docBase := pageURL
	if doc.base != "" {
		if b, err := url.Parse(doc.base); err == nil {
			docBase = pageURL.ResolveReference(b)
		}
	}

	for _, link := range doc.links {
		target, ok := c.resolve(docBase, link.URL)
		if !ok {
			report.Skipped++
			continue
		}
		report.Checked++
		if !c.exists(target) {
			slog.Debug("Broken link", logfields.Page(rel), logfields.URL(link.URL))
			report.Broken = append(report.Broken, BrokenLink{Page: rel, Link: link})
		}
	}
	return nil
}

// resolve maps a link to a path relative to the output directory. ok is false
// for links that are not checked: other hosts, special schemes, bare fragments
// and targets outside the published base path.
func (c *Checker) resolve(docBase *url.URL, raw string) (string, bool) {
	if strings.HasPrefix(raw, "#") {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	if u.Scheme != "" && u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	abs := docBase.ResolveReference(u)
	if abs.Host != c.base.Host {
		return "", false
	}
	p := path.Clean(abs.Path)
	if abs.Path != "" && strings.HasSuffix(abs.Path, "/") {
		p += "/"
	}
	if !strings.HasPrefix(p+"/", c.base.Path) {
		return "", false
	}
	return strings.TrimPrefix(p, strings.TrimSuffix(c.base.Path, "/")), true
}

func (c *Checker) exists(target string) bool {
	target = strings.TrimPrefix(target, "/")
	full := filepath.Join(c.dir, filepath.FromSlash(target))
	info, err := os.Stat(full)
	if err != nil {
		return false
	}
	if info.IsDir() {
		_, err = os.Stat(filepath.Join(full, "index.html"))
		return err == nil
	}
	return true
}
