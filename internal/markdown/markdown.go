// Package markdown converts guide and module documentation from Markdown to
// HTML fragments.
package markdown

import (
	"bytes"
	"fmt"

	highlighting "github.com/yuin/goldmark-highlighting/v2"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer turns Markdown source into an HTML fragment. name identifies the
// source document (for example a module name) and may be ignored.
type Renderer interface {
	Render(name string, src []byte) ([]byte, error)
}

// highlightStyle is the chroma style used for fenced code blocks in module docs.
const highlightStyle = "github"

// GuideRenderer renders prose documents with GitHub-flavoured Markdown.
// Headings carry no generated ids so that page titles can be read back from
// a plain <h1>...</h1>.
type GuideRenderer struct {
	md goldmark.Markdown
}

// NewGuideRenderer constructs a GuideRenderer.
func NewGuideRenderer() *GuideRenderer {
	return &GuideRenderer{md: newGoldmark()}
}

// Render implements Renderer.
func (g *GuideRenderer) Render(_ string, src []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := g.md.Convert(src, &buf); err != nil {
		return nil, fmt.Errorf("convert markdown: %w", err)
	}
	return buf.Bytes(), nil
}

// ModuleRenderer renders module API documentation: <api> blocks become
// reference sections, code blocks are syntax highlighted, and the result is
// wrapped in a module_api_docs div headed by the module name.
type ModuleRenderer struct {
	md goldmark.Markdown
}

// NewModuleRenderer constructs a ModuleRenderer.
func NewModuleRenderer() *ModuleRenderer {
	return &ModuleRenderer{md: newGoldmark(highlighting.NewHighlighting(
		highlighting.WithStyle(highlightStyle),
	))}
}

// Render implements Renderer.
func (m *ModuleRenderer) Render(name string, src []byte) ([]byte, error) {
	doc := parseAPIDoc(src)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<div id=\"%s_module_api_docs\" class=\"module_api_docs\">\n", name)
	fmt.Fprintf(&buf, "<h1>%s</h1>\n", name)
	if err := m.renderBlocks(&buf, doc, 0); err != nil {
		return nil, err
	}
	buf.WriteString("</div>\n")
	return buf.Bytes(), nil
}

func (m *ModuleRenderer) renderBlocks(buf *bytes.Buffer, blocks []block, depth int) error {
	for _, b := range blocks {
		if b.api == nil {
			if err := m.md.Convert(b.text, buf); err != nil {
				return fmt.Errorf("convert markdown: %w", err)
			}
			continue
		}
		if err := m.renderAPI(buf, b.api, depth); err != nil {
			return err
		}
	}
	return nil
}

func (m *ModuleRenderer) renderAPI(buf *bytes.Buffer, api *apiSection, depth int) error {
	level := 3 + depth
	if level > 6 {
		level = 6
	}
	buf.WriteString("<div class=\"api_reference\">\n")
	fmt.Fprintf(buf, "<h%d class=\"api_name\">%s</h%d>\n", level, api.displayName(), level)
	if err := m.renderBlocks(buf, api.body, depth+1); err != nil {
		return fmt.Errorf("api %q: %w", api.name, err)
	}
	if len(api.params) > 0 {
		buf.WriteString("<div class=\"parameter_set\">\n<ul>\n")
		for _, p := range api.params {
			buf.WriteString("<li>")
			if err := m.convertInline(buf, p); err != nil {
				return err
			}
			buf.WriteString("</li>\n")
		}
		buf.WriteString("</ul>\n</div>\n")
	}
	if api.returns != "" {
		buf.WriteString("<div class=\"returns\">Returns: ")
		if err := m.convertInline(buf, api.returns); err != nil {
			return err
		}
		buf.WriteString("</div>\n")
	}
	buf.WriteString("</div>\n")
	return nil
}

// convertInline renders a one-line snippet without the wrapping paragraph.
func (m *ModuleRenderer) convertInline(buf *bytes.Buffer, text string) error {
	var tmp bytes.Buffer
	if err := m.md.Convert([]byte(text), &tmp); err != nil {
		return fmt.Errorf("convert markdown: %w", err)
	}
	out := bytes.TrimSpace(tmp.Bytes())
	out = bytes.TrimPrefix(out, []byte("<p>"))
	out = bytes.TrimSuffix(out, []byte("</p>"))
	buf.Write(out)
	return nil
}

func newGoldmark(extra ...goldmark.Extender) goldmark.Markdown {
	exts := append([]goldmark.Extender{extension.GFM}, extra...)
	return goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
}
