package css

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	dcss "github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"github.com/npillmayer/tyweb/core"
	"github.com/npillmayer/tyweb/engine/dom/style"
)

// Media conditions a rule on the color scheme.
type Media string

// Color scheme conditions. Rules with media MediaAll always apply.
const (
	MediaAll   Media = ""
	MediaDark  Media = "dark"
	MediaLight Media = "light"
)

// Matches is true if rules conditioned with m apply in the given mode.
func (m Media) Matches(darkMode bool) bool {
	if m == MediaAll {
		return true
	}
	return (m == MediaDark) == darkMode
}

// Declaration is a single property assignment.
type Declaration struct {
	Property string
	Value    string
}

// Rule is a stylesheet rule with a single selector.
type Rule struct {
	Media        Media
	Selector     Selector
	Declarations []Declaration
}

func (r *Rule) String() string {
	var b strings.Builder
	if r.Media != MediaAll {
		fmt.Fprintf(&b, "@media(%s) ", r.Media)
	}
	fmt.Fprintf(&b, "%s {", r.Selector)
	for _, d := range r.Declarations {
		fmt.Fprintf(&b, " %s: %s;", d.Property, d.Value)
	}
	b.WriteString(" }")
	return b.String()
}

// ParseStylesheet parses CSS text into rules, in source order. Rules with
// selectors which cannot be compiled are skipped. An error is returned if
// the stylesheet cannot be parsed at all.
func ParseStylesheet(text string) ([]*Rule, error) {
	sheet, err := parser.Parse(text)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot parse stylesheet")
	}
	var rules []*Rule
	for _, r := range sheet.Rules {
		rules = appendRules(rules, r, MediaAll)
	}
	tracer().Debugf("stylesheet has %d rules", len(rules))
	return rules, nil
}

var colorSchemePattern = regexp.MustCompile(`prefers-color-scheme\s*:\s*(dark|light)`)

func appendRules(rules []*Rule, r *dcss.Rule, media Media) []*Rule {
	switch r.Kind {
	case dcss.AtRule:
		if strings.TrimPrefix(strings.ToLower(r.Name), "@") != "media" || media != MediaAll {
			return rules
		}
		m := colorSchemePattern.FindStringSubmatch(strings.ToLower(r.Prelude))
		if m == nil {
			tracer().Debugf("ignoring media query %q", r.Prelude)
			return rules
		}
		for _, inner := range r.Rules {
			rules = appendRules(rules, inner, Media(m[1]))
		}
	case dcss.QualifiedRule:
		decls := declarations(r.Declarations)
		for _, s := range r.Selectors {
			sel, err := CompileSelector(s)
			if err != nil {
				tracer().Infof("skipping rule: %v", err)
				continue
			}
			rules = append(rules, &Rule{
				Media:        media,
				Selector:     sel,
				Declarations: decls,
			})
		}
	}
	return rules
}

func declarations(decls []*dcss.Declaration) []Declaration {
	result := make([]Declaration, 0, len(decls))
	for _, d := range decls {
		result = append(result, Declaration{
			Property: style.FoldName(d.Property),
			Value:    strings.TrimSpace(d.Value),
		})
	}
	return result
}

// ParseInlineStyle parses the value of a style attribute.
// Malformed input results in an empty list.
func ParseInlineStyle(text string) []Declaration {
	text = strings.TrimSpace(text)
	if text != "" && !strings.HasSuffix(text, ";") {
		text += ";" // the last declaration is lost otherwise
	}
	decls, err := parser.ParseDeclarations(text)
	if err != nil {
		tracer().Debugf("cannot parse inline style %q: %v", text, err)
		return nil
	}
	return declarations(decls)
}

// SortByPriority sorts rules by ascending selector priority. Rules of equal
// priority keep their order.
func SortByPriority(rules []*Rule) {
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Selector.Priority() < rules[j].Selector.Priority()
	})
}

// --- User agent stylesheet -------------------------------------------------

const userAgentCSS = `
a { color: blue; }
i, em { font-style: italic; }
b, strong { font-weight: bold; }
small { font-size: 90%; }
big { font-size: 110%; }
input {
	font-size: 16px; font-weight: normal; font-style: normal;
	background-color: lightblue;
}
button {
	font-size: 16px; font-weight: normal; font-style: normal;
	background-color: orange;
}
input:focus, button:focus { outline: 1px solid black; }
pre { background-color: gray; }
@media (prefers-color-scheme: dark) {
	a { color: lightblue; }
	input { background-color: #2222ff; }
	button { background-color: #992500; }
	input:focus, button:focus { outline: 1px solid white; }
}
`

// UserAgentStylesheet returns a fresh copy of the browser's default rules.
func UserAgentStylesheet() []*Rule {
	rules, err := ParseStylesheet(userAgentCSS)
	if err != nil {
		core.Invariant("user agent stylesheet does not parse: %v", err)
	}
	return rules
}

// known filters declarations for properties of the registry.
func known(d Declaration) bool {
	_, ok := style.Lookup(d.Property)
	return ok
}
