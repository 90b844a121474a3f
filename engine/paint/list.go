package paint

import (
	"github.com/npillmayer/tyweb/core/dimen"
	"github.com/npillmayer/tyweb/engine/dom"
)

// Walk visits the commands of a display list in pre-order. depth is 0 for
// top-level commands. If f returns false, the children of a command are
// skipped.
func Walk(list []Command, f func(cmd Command, depth int) bool) {
	var walk func([]Command, int)
	walk = func(cmds []Command, depth int) {
		for _, cmd := range cmds {
			if f(cmd, depth) {
				walk(cmd.Children(), depth+1)
			}
		}
	}
	walk(list, 0)
}

// Bounds returns the union of the rectangles of a display list.
func Bounds(list []Command) dimen.Rect {
	r := dimen.EmptyRect
	for _, cmd := range list {
		r = r.Join(cmd.Rect())
	}
	return r
}

// Count returns the number of commands in a display list, including
// nested ones.
func Count(list []Command) int {
	n := 0
	Walk(list, func(Command, int) bool {
		n++
		return true
	})
	return n
}

// Leveled flattens a display list into its string representations, each
// paired with its nesting level.
func Leveled(list []Command) []Level {
	var levels []Level
	Walk(list, func(cmd Command, depth int) bool {
		levels = append(levels, Level{Depth: depth, Text: cmd.String()})
		return true
	})
	return levels
}

// Level is an entry of a flattened display list.
type Level struct {
	Depth int
	Text  string
}

// ApplyUpdates returns a display list in which each Blend created for a
// content node in updates is replaced by the update, which keeps the
// children of the replaced Blend. Subtrees without replacements are
// shared with the input list.
func ApplyUpdates(list []Command, updates map[*dom.Node]*Blend) []Command {
	if len(updates) == 0 {
		return list
	}
	out, _ := applyUpdates(list, updates)
	return out
}

func applyUpdates(list []Command, updates map[*dom.Node]*Blend) ([]Command, bool) {
	var out []Command
	changed := false
	for i, cmd := range list {
		repl := replace(cmd, updates)
		if repl != cmd && !changed {
			changed = true
			out = make([]Command, i, len(list))
			copy(out, list[:i])
		}
		if changed {
			out = append(out, repl)
		}
	}
	if !changed {
		return list, false
	}
	return out, true
}

func replace(cmd Command, updates map[*dom.Node]*Blend) Command {
	switch c := cmd.(type) {
	case *Blend:
		children, changed := applyUpdates(c.children, updates)
		if u, ok := updates[c.Node]; ok && c.Node != nil {
			b := c.WithOpacity(u.Opacity)
			b.Mode = u.Mode
			b.children = children
			return b
		}
		if changed {
			b := *c
			b.children = children
			return &b
		}
	case *Transform:
		if children, changed := applyUpdates(c.children, updates); changed {
			t := *c
			t.children = children
			return &t
		}
	}
	return cmd
}
