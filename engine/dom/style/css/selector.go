package css

import (
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/npillmayer/tyweb/core"
	"github.com/npillmayer/tyweb/engine/dom"
)

// Selector matches content nodes.
type Selector interface {
	Match(n *dom.Node) bool
	Priority() int
	String() string
}

// compound is a selector without descendant combinators, e.g. "a.nav:focus".
type compound struct {
	match    cascadia.Selector // nil for the universal selector
	focus    bool
	priority int
}

func (c compound) matches(n *dom.Node) bool {
	if !n.IsElement() {
		return false
	}
	if c.match != nil && !c.match.Match(n.HTMLNode()) {
		return false
	}
	return !c.focus || n.Focused()
}

// descendantSelector is a chain of compounds, separated by whitespace.
// The last compound must match the node itself, the others must match
// ancestors in order.
type descendantSelector struct {
	text      string
	compounds []compound
	priority  int
}

// CompileSelector compiles a selector. Selectors consist of compounds
// separated by whitespace. Compounds containing other combinators are
// handed to cascadia as a whole.
func CompileSelector(text string) (Selector, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, core.Error(core.EINVALID, "empty selector")
	}
	sel := &descendantSelector{text: text}
	parts := strings.Fields(text)
	if strings.ContainsAny(text, ">+~") {
		parts = []string{text}
	}
	for _, part := range parts {
		c, err := compileCompound(part)
		if err != nil {
			return nil, err
		}
		sel.compounds = append(sel.compounds, c)
		sel.priority += c.priority
	}
	return sel, nil
}

func compileCompound(text string) (compound, error) {
	c := compound{}
	lower := strings.ToLower(text)
	if strings.HasSuffix(lower, ":focus") {
		c.focus = true
		text = text[:len(text)-len(":focus")]
	}
	c.priority = specificity(text)
	if text == "" || text == "*" {
		return c, nil
	}
	m, err := cascadia.Compile(text)
	if err != nil {
		return c, core.WrapError(err, core.EINVALID, "cannot compile selector %q", text)
	}
	c.match = m
	return c, nil
}

// specificity of a compound selector, without :focus.
func specificity(text string) int {
	prio := 0
	inAttr := false
	for i, r := range text {
		switch {
		case r == '[':
			inAttr = true
			prio += 10
		case r == ']':
			inAttr = false
		case inAttr:
		case r == '#':
			prio += 100
		case r == '.' || r == ':':
			prio += 10
		case i == 0 && isNameStart(r):
			prio++
		case r == '>' || r == '+' || r == '~' || r == ' ':
			if i+1 < len(text) && isNameStart(rune(text[i+1])) {
				prio++
			}
		}
	}
	return prio
}

func isNameStart(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}

func (sel *descendantSelector) Match(n *dom.Node) bool {
	last := len(sel.compounds) - 1
	if !sel.compounds[last].matches(n) {
		return false
	}
	i := last - 1
	for p := n.Parent(); p != nil && i >= 0; p = p.Parent() {
		if sel.compounds[i].matches(p) {
			i--
		}
	}
	return i < 0
}

func (sel *descendantSelector) Priority() int {
	return sel.priority
}

func (sel *descendantSelector) String() string {
	return sel.text
}
