package site

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/sdkdocs/internal/logfields"
)

// copyStatic mirrors the directory holding the base template into the output,
// at the same root-relative location, so template references keep resolving
// against <base href>. The template itself is not copied.
func (b *Builder) copyStatic(ctx context.Context, r *run) error {
	root := b.gen.Root()
	tmpl := filepath.Join(root, b.cfg.Template)
	src := filepath.Dir(tmpl)
	if _, err := os.Stat(src); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	copied := 0
	err := filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), ".") && p != src {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || p == tmpl {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		copied++
		return b.writeFile(filepath.Join(r.out, rel), data)
	})
	if err != nil {
		return err
	}
	slog.Debug("Static files copied", logfields.Path(src), slog.Int("files", copied))
	return nil
}
