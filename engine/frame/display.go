package frame

import "github.com/npillmayer/tyweb/engine/dom"

// DisplayMode is the way a block lays out its children.
type DisplayMode uint8

// Block boxes either stack their children vertically (BlockMode) or flow
// their content into lines (InlineMode).
const (
	NoMode DisplayMode = iota
	BlockMode
	InlineMode
)

func (disp DisplayMode) String() string {
	switch disp {
	case BlockMode:
		return "block"
	case InlineMode:
		return "inline"
	}
	return "no-mode"
}

// Symbol returns a Unicode symbol for a mode.
func (disp DisplayMode) Symbol() string {
	switch disp {
	case BlockMode:
		return "▩"
	case InlineMode:
		return "►"
	}
	return "▧"
}

var blockElements = map[string]bool{
	"html": true, "body": true, "article": true, "section": true, "nav": true,
	"aside": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true,
	"h6": true, "hgroup": true, "header": true, "footer": true, "address": true,
	"p": true, "hr": true, "pre": true, "blockquote": true, "ol": true, "ul": true,
	"menu": true, "li": true, "dl": true, "dt": true, "dd": true, "figure": true,
	"figcaption": true, "main": true, "div": true, "table": true, "form": true,
	"fieldset": true, "legend": true, "details": true, "summary": true,
}

var hiddenElements = map[string]bool{
	"head": true, "script": true, "style": true, "title": true, "meta": true, "link": true,
}

// IsBlockElement is true for tags which are laid out as blocks.
func IsBlockElement(tag string) bool {
	return blockElements[tag]
}

// IsHidden is true for elements which never produce boxes.
func IsHidden(n *dom.Node) bool {
	return n.IsElement() && hiddenElements[n.Tag()]
}

// ModeOf determines the display mode of a block for a content node.
// Text is inline. Elements with children are block mode if any of the children
// is a block element, otherwise inline. Childless replaced elements are inline,
// other childless elements are block.
func ModeOf(n *dom.Node) DisplayMode {
	if n.IsText() {
		return InlineMode
	}
	if len(n.Children()) > 0 {
		for _, c := range n.Children() {
			if c.IsElement() && IsBlockElement(c.Tag()) {
				return BlockMode
			}
		}
		return InlineMode
	}
	switch n.Tag() {
	case "input", "img", "iframe":
		return InlineMode
	}
	return BlockMode
}
