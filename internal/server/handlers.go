package server

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	derrors "git.home.luguber.info/inful/sdkdocs/internal/errors"
	"git.home.luguber.info/inful/sdkdocs/internal/metrics"
	"git.home.luguber.info/inful/sdkdocs/internal/packaging"
	"git.home.luguber.info/inful/sdkdocs/internal/webdocs"
)

const guideIndex = "index.md"

var errorAdapter = derrors.NewHTTPErrorAdapter(nil)

// classify turns generator errors into DocsErrors the adapter can map.
func classify(kind, name string, err error) error {
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, webdocs.ErrPackageNotFound) {
		return derrors.NotFound(kind, name)
	}
	return derrors.RenderFailed(name, err)
}

// servePage renders one page, records the outcome and writes it as HTML.
func (s *Server) servePage(w http.ResponseWriter, r *http.Request, kind string, render func(*webdocs.Generator) ([]byte, error)) {
	start := time.Now()
	page, err := render(s.gen.Load())
	s.recorder.ObservePageRender(kind, time.Since(start))
	if err != nil {
		err = classify(kind, r.URL.Path, err)
		result := metrics.ResultFailed
		if derrors.IsCategory(err, derrors.CategoryNotFound) {
			result = metrics.ResultNotFound
		}
		s.recorder.IncPageResult(kind, result)
		errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	s.recorder.IncPageResult(kind, metrics.ResultSuccess)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":   "ok",
		"packages": s.gen.Load().Index().Len(),
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.servePage(w, r, metrics.KindIndex, func(g *webdocs.Generator) ([]byte, error) {
		guide := filepath.Join(g.Root(), s.cfg.Guides.Source, guideIndex)
		if _, err := os.Stat(guide); err == nil {
			return g.GuidePage(guide)
		}
		return g.IndexPage(), nil
	})
}

func (s *Server) handlePackagesJSON(w http.ResponseWriter, r *http.Request) {
	data, err := s.gen.Load().Index().MarshalJSON()
	if err != nil {
		errorAdapter.WriteErrorResponse(w, r, derrors.InternalError("encode package index", err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) handleGuide(w http.ResponseWriter, r *http.Request) {
	rest, ok := cleanRel(chi.URLParam(r, "*"))
	s.servePage(w, r, metrics.KindGuide, func(g *webdocs.Generator) ([]byte, error) {
		if !ok || !strings.HasSuffix(rest, ".html") {
			return nil, fs.ErrNotExist
		}
		return g.GuidePage(filepath.Join(g.Root(), s.cfg.Guides.Source, filepath.FromSlash(rest)))
	})
}

func (s *Server) handlePackage(w http.ResponseWriter, r *http.Request) {
	dir, page := chi.URLParam(r, "dir"), chi.URLParam(r, "page")
	s.servePage(w, r, metrics.KindPackage, func(g *webdocs.Generator) ([]byte, error) {
		pkg := packageInDir(g, dir)
		if pkg == nil || page != pkg.Name+".html" {
			return nil, webdocs.ErrPackageNotFound
		}
		return g.PackagePage(pkg.Name)
	})
}

// handleModule serves module pages below a package's doc root. The doc file
// must exist; a page for an undocumented module is not found.
func (s *Server) handleModule(w http.ResponseWriter, r *http.Request) {
	dir := chi.URLParam(r, "dir")
	rest, ok := cleanRel(chi.URLParam(r, "*"))
	s.servePage(w, r, metrics.KindModule, func(g *webdocs.Generator) ([]byte, error) {
		pkg := packageInDir(g, dir)
		if !ok || pkg == nil || pkg.Doc == "" || !strings.HasSuffix(rest, ".html") {
			return nil, fs.ErrNotExist
		}
		target := filepath.Join(pkg.RootDir, filepath.FromSlash(rest))
		if rel, err := filepath.Rel(pkg.Doc, target); err != nil || strings.HasPrefix(rel, "..") {
			return nil, fs.ErrNotExist
		}
		return g.ModulePage(target)
	})
}

func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	rest, ok := cleanRel(chi.URLParam(r, "*"))
	g := s.gen.Load()
	tmpl := filepath.Join(g.Root(), s.cfg.Template)
	file := filepath.Join(filepath.Dir(tmpl), filepath.FromSlash(rest))
	info, err := os.Stat(file)
	if !ok || err != nil || info.IsDir() || file == tmpl {
		errorAdapter.WriteErrorResponse(w, r, derrors.NotFound("file", r.URL.Path))
		return
	}
	http.ServeFile(w, r, file)
}

// packageInDir finds the package whose directory is named dir.
func packageInDir(g *webdocs.Generator, dir string) *packaging.Package {
	for _, pkg := range g.Index().Packages() {
		if filepath.Base(pkg.RootDir) == dir {
			return pkg
		}
	}
	return nil
}

// cleanRel normalizes a URL wildcard into a relative slash path; ok is false
// when it would escape its directory.
func cleanRel(p string) (string, bool) {
	clean := path.Clean("/" + p)
	if clean == "/" {
		return "", false
	}
	return strings.TrimPrefix(clean, "/"), true
}

// staticPrefix is the URL path of the directory holding the base template.
func staticPrefix(template string) string {
	return filepath.ToSlash(filepath.Dir(filepath.Clean(template)))
}
