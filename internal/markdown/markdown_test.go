package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuideRenderer_PlainHeadings(t *testing.T) {
	out, err := NewGuideRenderer().Render("", []byte("# Getting Started\n\nSome *text*.\n"))
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, "<h1>Getting Started</h1>")
	assert.Contains(t, html, "<em>text</em>")
}

func TestGuideRenderer_TablesAndRawHTML(t *testing.T) {
	src := "| a | b |\n|---|---|\n| 1 | 2 |\n\n<div class=\"note\">raw</div>\n"
	out, err := NewGuideRenderer().Render("", []byte(src))
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, `<div class="note">raw</div>`)
}

func TestModuleRenderer_WrapsWithModuleName(t *testing.T) {
	out, err := NewModuleRenderer().Render("panel", []byte("The panel module.\n"))
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, `<div id="panel_module_api_docs" class="module_api_docs">`)
	assert.Contains(t, html, "<h1>panel</h1>")
	assert.Contains(t, html, "<p>The panel module.</p>")
}

func TestModuleRenderer_APISections(t *testing.T) {
	src := `Intro text.

<api name="Panel">
@class
A panel.
<api name="show">
@method
Shows the panel.
@param anchor {element}
  The element to anchor to.
@returns {Panel} The panel itself.
</api>
</api>
`
	out, err := NewModuleRenderer().Render("panel", []byte(src))
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, "<p>Intro text.</p>")
	assert.Contains(t, html, `<h3 class="api_name">Panel</h3>`)
	assert.Contains(t, html, `<h4 class="api_name">show(anchor)</h4>`)
	assert.Contains(t, html, "<p>Shows the panel.</p>")
	assert.Contains(t, html, "<li>anchor {element} The element to anchor to.</li>")
	assert.Contains(t, html, `<div class="returns">Returns: {Panel} The panel itself.</div>`)
	assert.NotContains(t, html, "@method")
}

func TestParseAPIDoc_ClosesDanglingSections(t *testing.T) {
	blocks := parseAPIDoc([]byte("<api name=\"open\">\n@property\ntext\n"))
	require.Len(t, blocks, 1)
	require.NotNil(t, blocks[0].api)
	assert.Equal(t, "open", blocks[0].api.name)
	assert.Equal(t, "property", blocks[0].api.kind)
	require.Len(t, blocks[0].api.body, 1)
	assert.Equal(t, "text\n", string(blocks[0].api.body[0].text))
}

func TestParseAPIDoc_StrayCloseIsText(t *testing.T) {
	blocks := parseAPIDoc([]byte("before\n</api>\n"))
	require.Len(t, blocks, 1)
	assert.Equal(t, "before\n</api>\n", string(blocks[0].text))
}

func TestFingerprint_StableAndContentSensitive(t *testing.T) {
	a := Fingerprint([]byte("# A\n"))
	assert.NotEmpty(t, a)
	assert.Equal(t, a, Fingerprint([]byte("# A\n")))
	assert.NotEqual(t, a, Fingerprint([]byte("# B\n")))
}
