package dom

import (
	"io"
	"strings"

	"github.com/npillmayer/tyweb/core"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse reads an HTML document and returns the content tree rooted at the
// <html> element. The HTML parser supplies implied elements (html, head and
// body). Comments, doctypes and whitespace-only text are dropped.
func Parse(r io.Reader) (*Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot parse HTML document")
	}
	var root *html.Node
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Html {
			root = c
			break
		}
	}
	if root == nil {
		return nil, core.Error(core.EINVALID, "HTML document has no root element")
	}
	n := build(root)
	tracer().Debugf("parsed content tree with %d nodes", len(TreeToList(n)))
	return n, nil
}

// ParseString is a shortcut for Parse(strings.NewReader(s)).
func ParseString(s string) (*Node, error) {
	return Parse(strings.NewReader(s))
}

func build(h *html.Node) *Node {
	n := wrap(h)
	for c := h.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
		case html.TextNode:
			if strings.TrimSpace(c.Data) == "" {
				continue
			}
		default:
			continue
		}
		child := build(c)
		child.parent = n
		n.children = append(n.children, child)
	}
	return n
}
