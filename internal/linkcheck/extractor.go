package linkcheck

import (
	"io"
	"strings"

	"golang.org/x/net/html"

	derrors "git.home.luguber.info/inful/sdkdocs/internal/errors"
)

// Link represents an extracted link from HTML content.
type Link struct {
	URL       string // The URL or path as written
	Text      string // Link text/title
	Tag       string // HTML tag (a, img, script, link)
	Attribute string // Attribute containing the link (href, src)
}

// linkAttrs maps the elements we follow to the attribute carrying the target.
var linkAttrs = map[string]string{
	"a":      "href",
	"img":    "src",
	"script": "src",
	"link":   "href",
}

// document is the link-relevant content of one parsed page.
type document struct {
	base  string // <base href>, if any
	links []Link
}

// ExtractLinks extracts all links from an HTML reader.
func ExtractLinks(r io.Reader) ([]Link, error) {
	doc, err := parse(r)
	if err != nil {
		return nil, err
	}
	return doc.links, nil
}

func parse(r io.Reader) (*document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, derrors.Wrap(err, derrors.CategoryValidation, derrors.SeverityError, "failed to parse HTML")
	}

	doc := &document{}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if n.Data == "base" && doc.base == "" {
				doc.base = getAttr(n, "href")
			}
			if attr, ok := linkAttrs[n.Data]; ok {
				if target := getAttr(n, attr); target != "" {
					doc.links = append(doc.links, Link{
						URL:       target,
						Text:      linkText(n),
						Tag:       n.Data,
						Attribute: attr,
					})
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return doc, nil
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func linkText(n *html.Node) string {
	switch n.Data {
	case "img":
		return getAttr(n, "alt")
	case "link":
		return getAttr(n, "rel")
	}
	return extractText(n)
}

// extractText extracts text content from an HTML node and its children.
func extractText(n *html.Node) string {
	if n.Type == html.TextNode {
		return strings.TrimSpace(n.Data)
	}

	var text strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		text.WriteString(extractText(c))
	}

	return strings.TrimSpace(text.String())
}
