// Package modules turns a package's lib tree into documentable modules and
// cross-references them with the markdown files of the package's doc root.
package modules

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"git.home.luguber.info/inful/sdkdocs/internal/packaging"
)

const (
	scriptSuffix   = ".js"
	reservedPrefix = "."
	docSuffix      = ".md"
)

// AddonKitPackage and SelfModule form a compatibility shim: self-maker.js
// lives in api-utils but its documentation, self.md, ships with addon-kit.
// The pair is always listed for addon-kit whether or not a matching script exists.
const (
	AddonKitPackage = "addon-kit"
	SelfModule      = "self"
)

// Module identifies one documentable unit by its path segments, the last
// segment being the script file stem.
type Module []string

// Path joins the segments with '/'.
func (m Module) Path() string {
	return strings.Join(m, "/")
}

// FilePath joins the segments with the OS separator.
func (m Module) FilePath() string {
	return filepath.Join(m...)
}

// Compare orders modules lexicographically by segment sequence.
func Compare(a, b Module) int {
	return slices.Compare(a, b)
}

// Sort orders modules in place by segment sequence.
func Sort(mods []Module) {
	slices.SortFunc(mods, Compare)
}

// Walk flattens dir into modules in discovery order. Hidden files and files
// without the script suffix are skipped; directories prefix every module
// found beneath them with their own name.
func Walk(dir *packaging.Directory) []Module {
	if dir == nil {
		return nil
	}
	var mods []Module
	for _, e := range dir.Entries {
		switch node := e.Node.(type) {
		case *packaging.Directory:
			for _, sub := range Walk(node) {
				mods = append(mods, append(Module{e.Name}, sub...))
			}
		case *packaging.File:
			if strings.HasPrefix(e.Name, reservedPrefix) || !strings.HasSuffix(e.Name, scriptSuffix) {
				continue
			}
			mods = append(mods, Module{strings.TrimSuffix(e.Name, scriptSuffix)})
		}
	}
	return mods
}

// ExistsFunc reports whether a file exists.
type ExistsFunc func(path string) bool

// FileExists is the default ExistsFunc, backed by os.Stat.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// DocPath is the markdown file documenting m under docRoot.
func DocPath(docRoot string, m Module) string {
	return filepath.Join(docRoot, m.FilePath()) + docSuffix
}

// Documented returns the modules of dir that have a markdown file under
// docRoot, in walk order. A nil exists uses FileExists.
func Documented(pkgName string, dir *packaging.Directory, docRoot string, exists ExistsFunc) []Module {
	if exists == nil {
		exists = FileExists
	}
	var documented []Module
	for _, m := range Walk(dir) {
		if exists(DocPath(docRoot, m)) {
			documented = append(documented, m)
		}
	}
	if pkgName == AddonKitPackage {
		documented = append(documented, Module{SelfModule})
	}
	return documented
}
