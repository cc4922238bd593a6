package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "git.home.luguber.info/inful/sdkdocs/internal/errors"
	"git.home.luguber.info/inful/sdkdocs/internal/webdocs"
)

const testTemplate = `<html><head><base ><title></title></head><body>
<ul><li id="high-level-package-summaries"></li><li id="low-level-package-summaries"></li></ul>
<div id="main-content"></div></body></html>`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newTestSDK(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, webdocs.TemplatePath), testTemplate)
	kit := filepath.Join(root, "packages", "addon-kit")
	writeFile(t, filepath.Join(kit, "package.json"), `{"name": "addon-kit", "version": "1.0"}`)
	writeFile(t, filepath.Join(kit, "lib", "panel.js"), "")
	writeFile(t, filepath.Join(kit, "docs", "panel.md"), "The panel.")
	writeFile(t, filepath.Join(root, "doc", "dev-guide-source", "intro.md"), "# Intro\n")
	return root
}

// run parses args and executes the selected command, returning its stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cli := &CLI{}
	parser, err := kong.New(cli, kong.Name("sdkdocs"), kong.Vars{"version": "test"})
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	require.NoError(t, err)

	var out bytes.Buffer
	err = ctx.Run(&Global{Stdout: &out}, cli)
	return out.String(), err
}

func TestInitThenIndex(t *testing.T) {
	root := newTestSDK(t)
	cfgPath := filepath.Join(t.TempDir(), "sdkdocs.yaml")

	out, err := run(t, "-c", cfgPath, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "initialized successfully")

	_, err = run(t, "-c", cfgPath, "init")
	require.Error(t, err)

	out, err = run(t, "-c", cfgPath, "--root", root, "index", "--compact")
	require.NoError(t, err)
	var idx map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &idx))
	assert.Equal(t, "1.0", idx["addon-kit"]["version"])
}

func TestPagePackage(t *testing.T) {
	root := newTestSDK(t)
	cfgPath := filepath.Join(t.TempDir(), "missing.yaml")

	out, err := run(t, "-c", cfgPath, "--root", root, "page", "package", "addon-kit")
	require.NoError(t, err)
	assert.Contains(t, out, `<div class="package-detail">`)

	_, err = run(t, "-c", cfgPath, "--root", root, "page", "package", "nope")
	require.Error(t, err)
	assert.True(t, derrors.IsCategory(err, derrors.CategoryNotFound))
}

func TestPageGuideToFile(t *testing.T) {
	root := newTestSDK(t)
	target := filepath.Join(t.TempDir(), "out", "intro.html")

	_, err := run(t, "-c", filepath.Join(root, "none.yaml"), "--root", root,
		"page", "guide", filepath.Join(root, "doc", "dev-guide-source", "intro.html"), "-o", target)
	require.NoError(t, err)
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<title>Intro")
}

func TestGenerateAndCheck(t *testing.T) {
	root := newTestSDK(t)
	outDir := filepath.Join(t.TempDir(), "site")

	out, err := run(t, "-c", filepath.Join(root, "none.yaml"), "--root", root, "generate", "-o", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Generated 4 pages")
	assert.Contains(t, out, "0 broken")
	assert.FileExists(t, filepath.Join(outDir, "packages", "addon-kit", "docs", "panel.html"))

	writeFile(t, filepath.Join(outDir, "extra.html"), `<a href="missing.html">x</a>`)
	out, err = run(t, "-c", filepath.Join(root, "none.yaml"), "--root", root, "check", outDir)
	require.Error(t, err)
	assert.True(t, derrors.IsCategory(err, derrors.CategoryLinks))
	assert.Contains(t, out, `extra.html: broken a href="missing.html"`)
}

func TestGenerate_MissingTemplate(t *testing.T) {
	root := newTestSDK(t)
	require.NoError(t, os.Remove(filepath.Join(root, webdocs.TemplatePath)))

	_, err := run(t, "-c", filepath.Join(root, "none.yaml"), "--root", root, "generate", "-o", t.TempDir())
	require.Error(t, err)
	assert.True(t, derrors.IsCategory(err, derrors.CategoryTemplate))
}

func TestLoadConfig_InvalidOverride(t *testing.T) {
	_, err := run(t, "-c", filepath.Join(t.TempDir(), "none.yaml"), "--base-url", "relative/", "index")
	require.Error(t, err)
	assert.True(t, derrors.IsCategory(err, derrors.CategoryValidation))
}
