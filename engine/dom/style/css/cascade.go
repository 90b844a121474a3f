package css

import (
	"time"

	"github.com/npillmayer/tyweb/engine/dom"
	"github.com/npillmayer/tyweb/engine/dom/style"
)

// Environment carries the settings of a style pass.
type Environment struct {
	DarkMode    bool
	RefreshRate time.Duration // interval between animation frames
}

// Result summarizes a style pass.
type Result struct {
	Restyled  int  // number of nodes recomputed
	Animating bool // true if a property transition has been started
}

// Resolve is the style pass. It walks the content tree in pre-order and
// recomputes the style of every node which has at least one stale style
// field. rules must be sorted by priority (see SortByPriority).
//
// Recomputation of a node starts from the initial values, takes inherited
// values from the parent, applies matching rules and inline style, resolves
// percentage font sizes and starts transitions. Finally every style field is
// set, which invalidates dependent fields only for values which changed.
func Resolve(root *dom.Node, rules []*Rule, env Environment) Result {
	var result Result
	var walk func(*dom.Node)
	walk = func(n *dom.Node) {
		if restyle(n, rules, env, &result) {
			result.Restyled++
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}
	tracer().Infof("style pass restyled %d nodes", result.Restyled)
	return result
}

func restyle(n *dom.Node, rules []*Rule, env Environment, result *Result) bool {
	fs := n.InitStyle()
	if !fs.Dirty() {
		return false
	}
	tracer().Debugf("restyling %v", n)
	old := fs.Values()
	next := make(map[string]string, style.PropertyCount())
	var parentStyles *style.FieldSet
	if n.Parent() != nil {
		parentStyles = n.Parent().Style()
	}
	for _, pd := range style.Properties() {
		switch {
		case !pd.Inherited:
			next[pd.Name] = pd.Initial
		case parentStyles != nil:
			next[pd.Name] = string(parentStyles.Read(pd.Name, fs.Field(pd.Name)))
		default:
			next[pd.Name] = style.InheritedDefault(pd.Name, env.DarkMode)
		}
	}
	for _, rule := range rules {
		if !rule.Media.Matches(env.DarkMode) || !rule.Selector.Match(n) {
			continue
		}
		apply(next, rule.Declarations)
	}
	if inline, ok := n.Attr("style"); ok {
		apply(next, ParseInlineStyle(inline))
	}
	if pct, ok := style.Property(next[style.FontSize]).Percentage(); ok {
		parentSize := style.Property(style.InheritedDefault(style.FontSize, env.DarkMode))
		if parentStyles != nil {
			parentSize = parentStyles.Read(style.FontSize, fs.Field(style.FontSize))
		}
		px, ok := parentSize.FontSizePx()
		if !ok {
			px = style.DefaultFontSize
		}
		next[style.FontSize] = string(style.FormatPx(pct / 100 * px))
	}
	if len(old) > 0 {
		startTransitions(n, old, next, env, result)
	}
	for _, pd := range style.Properties() {
		fs.Field(pd.Name).Set(next[pd.Name])
	}
	return true
}

func apply(values map[string]string, decls []Declaration) {
	for _, d := range decls {
		if known(d) && d.Value != style.Inherit {
			values[d.Property] = d.Value
		}
	}
}

// startTransitions replaces target values by the first frame of an
// animation. Animations already heading for the same target keep running.
func startTransitions(n *dom.Node, old, next map[string]string, env Environment, result *Result) {
	for _, tr := range style.DiffStyles(old, next, env.RefreshRate) {
		if a, ok := n.Animation(tr.Property); ok && !a.Done() && a.Target() == tr.To {
			next[tr.Property] = old[tr.Property]
			continue
		}
		a, ok := style.NewNumericAnimation(tr.From, tr.To, tr.Frames)
		if !ok {
			continue
		}
		n.SetAnimation(tr.Property, a)
		if v, ok := a.Animate(); ok {
			next[tr.Property] = v
		}
		tracer().Debugf("%v: transition of %s %s → %s over %d frames",
			n, tr.Property, tr.From, tr.To, tr.Frames)
		result.Animating = true
	}
}
