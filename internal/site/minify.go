package site

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"

	"git.home.luguber.info/inful/sdkdocs/internal/logfields"
)

const (
	mimeHTML = "text/html"
	mimeCSS  = "text/css"
	mimeJS   = "application/javascript"
)

// newMinifier registers the media types the generator emits or copies.
func newMinifier() *minify.M {
	m := minify.New()
	m.AddFunc(mimeHTML, html.Minify)
	m.AddFunc(mimeCSS, css.Minify)
	m.AddFunc(mimeJS, js.Minify)
	return m
}

// mediaType maps an output file to the minifier media type; "" means copy as is.
func mediaType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return mimeHTML
	case ".css":
		return mimeCSS
	case ".js":
		return mimeJS
	}
	return ""
}

// minifyBytes returns the minified form of data, or data itself when m is nil,
// the type is unknown, or minification fails.
func minifyBytes(m *minify.M, path string, data []byte) []byte {
	if m == nil {
		return data
	}
	mt := mediaType(path)
	if mt == "" {
		return data
	}
	out, err := m.Bytes(mt, data)
	if err != nil {
		slog.Warn("Minify failed, using original", logfields.Path(path), logfields.Error(err))
		return data
	}
	return out
}
