// Package packaging builds the package index consumed by the documentation
// generator: one entry per SDK package, carrying its package.json metadata,
// its file tree and the location of its markdown documentation.
package packaging

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"git.home.luguber.info/inful/sdkdocs/internal/logfields"
)

// ManifestFile is the package manifest every package directory carries.
const ManifestFile = "package.json"

const (
	readmeFile      = "README.md"
	defaultLibDir   = "lib"
	defaultDocDir   = "docs"
	lowLevelKeyword = "jetpack-low-level"
)

// Package is one entry of the package index.
type Package struct {
	Name         string
	Version      string
	Author       string
	License      string
	Description  string
	Dependencies []string
	Keywords     []string
	Readme       string
	Lib          []string
	// Files is the package directory tree, hidden entries excluded.
	Files *Directory
	// Doc is the absolute documentation directory; empty when the package has none.
	Doc string
	// RootDir is the package directory on disk.
	RootDir string
}

// LibDir returns the directory under Files holding the package's modules.
func (p *Package) LibDir() string {
	if len(p.Lib) > 0 && p.Lib[0] != "" {
		return p.Lib[0]
	}
	return defaultLibDir
}

// LibTree returns the module tree, or nil when the package ships no lib directory.
func (p *Package) LibTree() *Directory {
	dir, ok := p.Files.Subdir(p.LibDir())
	if !ok {
		return nil
	}
	return dir
}

// IsLowLevel reports whether the package is tagged as a low-level package.
func (p *Package) IsLowLevel() bool {
	for _, k := range p.Keywords {
		if k == lowLevelKeyword {
			return true
		}
	}
	return false
}

// IsHighLevel is the complement of IsLowLevel.
func (p *Package) IsHighLevel() bool {
	return !p.IsLowLevel()
}

// Index is the set of packages found under a root, ordered by name.
type Index struct {
	Root     string
	packages []*Package
	byName   map[string]*Package
}

// NewIndex assembles an index from already-loaded packages.
func NewIndex(root string, pkgs ...*Package) (*Index, error) {
	idx := &Index{Root: root, byName: make(map[string]*Package, len(pkgs))}
	for _, p := range pkgs {
		if _, dup := idx.byName[p.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePackage, p.Name)
		}
		idx.byName[p.Name] = p
		idx.packages = append(idx.packages, p)
	}
	sort.Slice(idx.packages, func(i, j int) bool {
		return idx.packages[i].Name < idx.packages[j].Name
	})
	return idx, nil
}

// Get looks a package up by name.
func (idx *Index) Get(name string) (*Package, bool) {
	p, ok := idx.byName[name]
	return p, ok
}

// Packages returns all packages ordered by name.
func (idx *Index) Packages() []*Package {
	out := make([]*Package, len(idx.packages))
	copy(out, idx.packages)
	return out
}

// Len returns the number of indexed packages.
func (idx *Index) Len() int { return len(idx.packages) }

// Load reads every <root>/<packagesDir>/*/package.json into an Index.
func Load(root, packagesDir string) (*Index, error) {
	base := filepath.Join(root, packagesDir)
	entries, err := os.ReadDir(base)
	if err != nil {
		return nil, fmt.Errorf("read packages directory: %w", err)
	}

	var pkgs []*Package
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(base, e.Name())
		if _, err := os.Stat(filepath.Join(dir, ManifestFile)); errors.Is(err, fs.ErrNotExist) {
			slog.Debug("Skipping directory without package.json", logfields.Path(dir))
			continue
		}
		pkg, err := LoadPackage(dir)
		if err != nil {
			return nil, err
		}
		pkgs = append(pkgs, pkg)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoPackages, base)
	}

	idx, err := NewIndex(root, pkgs...)
	if err != nil {
		return nil, err
	}
	slog.Info("Package index loaded", logfields.Path(base), slog.Int("packages", idx.Len()))
	return idx, nil
}

// LoadPackage reads a single package directory.
func LoadPackage(dir string) (*Package, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, err
	}
	var raw packageJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidManifest, dir, err)
	}

	pkg := &Package{
		Name:         raw.Name,
		Version:      raw.Version,
		Author:       string(raw.Author),
		License:      raw.License,
		Description:  raw.Description,
		Dependencies: raw.Dependencies,
		Keywords:     raw.Keywords,
		Lib:          raw.Lib,
		RootDir:      dir,
	}
	if pkg.Name == "" {
		pkg.Name = filepath.Base(dir)
	}

	if readme, err := os.ReadFile(filepath.Join(dir, readmeFile)); err == nil {
		pkg.Readme = string(readme)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	if pkg.Files, err = ScanDir(dir); err != nil {
		return nil, fmt.Errorf("scan package %s: %w", pkg.Name, err)
	}

	docDir := raw.Doc
	if docDir == "" {
		docDir = defaultDocDir
	}
	docPath := filepath.Join(dir, docDir)
	if info, err := os.Stat(docPath); err == nil && info.IsDir() {
		pkg.Doc = docPath
	}

	slog.Debug("Package loaded",
		logfields.Package(pkg.Name),
		slog.String("version", pkg.Version),
		slog.Bool("documented", pkg.Doc != ""))
	return pkg, nil
}

// packageJSON is the on-disk shape of package.json.
type packageJSON struct {
	Name         string      `json:"name"`
	Version      string      `json:"version"`
	Author       authorField `json:"author"`
	License      string      `json:"license"`
	Description  string      `json:"description"`
	Dependencies stringList  `json:"dependencies"`
	Keywords     stringList  `json:"keywords"`
	Lib          stringList  `json:"lib"`
	Doc          string      `json:"doc"`
}

// authorField accepts "Name <mail>" strings and {"name": ..., "email": ...} objects.
type authorField string

func (a *authorField) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = authorField(s)
		return nil
	}
	var obj struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	if obj.Email != "" {
		*a = authorField(fmt.Sprintf("%s <%s>", obj.Name, obj.Email))
		return nil
	}
	*a = authorField(obj.Name)
	return nil
}

// stringList accepts either a single string or a list of strings.
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		if one == "" {
			*l = nil
		} else {
			*l = []string{one}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*l = many
	return nil
}
