package webdocs

import (
	"sort"
	"strings"
)

// Anchor markers located by substring search in the base template. Text is
// inserted immediately after each marker.
const (
	BaseURLAnchor       = `<base `
	HighLevelAnchor     = `<li id="high-level-package-summaries">`
	LowLevelAnchor      = `<li id="low-level-package-summaries">`
	ContentAnchor       = `<div id="main-content">`
	TitleAnchor         = `<title>`
	DefaultTitle        = "Add-on SDK Documentation"
	titleSeparator      = " - "
	dependencySeparator = ", "
)

type attr struct {
	name, value string
}

// tagWrap renders "\n<tag a="v">text</tag>\n" with attributes in the given order.
func tagWrap(text, tag string, attrs ...attr) string {
	var b strings.Builder
	b.WriteString("\n<")
	b.WriteString(tag)
	for _, a := range attrs {
		b.WriteByte(' ')
		b.WriteString(a.name)
		b.WriteString(`="`)
		b.WriteString(a.value)
		b.WriteByte('"')
	}
	b.WriteByte('>')
	b.WriteString(text)
	b.WriteString("</")
	b.WriteString(tag)
	b.WriteString(">\n")
	return b.String()
}

// insertion places text right after the first occurrence of anchor.
type insertion struct {
	anchor string
	text   string
}

// splice applies insertions to tmpl in one pass. Anchor positions are
// resolved against tmpl itself, so inserted text never shifts or shadows a
// later anchor. Insertions whose anchor is absent are dropped.
func splice(tmpl string, ins ...insertion) string {
	type placed struct {
		at   int
		text string
	}
	points := make([]placed, 0, len(ins))
	size := len(tmpl)
	for _, in := range ins {
		i := strings.Index(tmpl, in.anchor)
		if i < 0 {
			continue
		}
		points = append(points, placed{at: i + len(in.anchor), text: in.text})
		size += len(in.text)
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].at < points[j].at })

	var b strings.Builder
	b.Grow(size)
	last := 0
	for _, p := range points {
		b.WriteString(tmpl[last:p.at])
		b.WriteString(p.text)
		last = p.at
	}
	b.WriteString(tmpl[last:])
	return b.String()
}
