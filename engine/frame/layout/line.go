package layout

import (
	"github.com/npillmayer/tyweb/core/dimen"
	"github.com/npillmayer/tyweb/engine/dom"
	"github.com/npillmayer/tyweb/engine/dom/style"
	"github.com/npillmayer/tyweb/engine/field"
	"github.com/npillmayer/tyweb/engine/frame"
	"github.com/npillmayer/tyweb/engine/paint"
)

// Line is a horizontal run of inline boxes. The children of a line are
// fixed at construction time by the enclosing block.
type Line struct {
	box
	kids        []layoutBox
	initialized bool
}

func newLine(node *dom.Node, parent *Block, previous layoutBox, doc *Document) *Line {
	l := &Line{}
	l.init("line", node, parent, previous, doc)
	p := parent.base()
	l.zoom = l.newZoom()
	l.x = l.newDimen("x", field.DependsOn(p.x))
	l.y = l.stackedY()
	l.ascent = l.newDimen("ascent")
	l.descent = l.newDimen("descent")
	l.width = l.newDimen("width", field.DependsOn(p.width))
	l.height = l.newDimen(field.Height, field.DependsOn(l.ascent, l.descent))
	return l
}

// Kind is part of interface frame.Box.
func (l *Line) Kind() frame.Kind {
	return frame.LineKind
}

// Children returns the inline boxes of a line.
func (l *Line) Children() []frame.Box {
	kids := make([]frame.Box, len(l.kids))
	for i, k := range l.kids {
		kids[i] = k
	}
	return kids
}

// Layout lays out the inline boxes of a line and places them on a common
// baseline. Text baselines are corrected by LineHeightFactor.
func (l *Line) Layout() {
	if !l.initialized {
		ascents := make([]field.Cell, len(l.kids))
		descents := make([]field.Cell, len(l.kids))
		for i, k := range l.kids {
			ascents[i] = k.base().ascent
			descents[i] = k.base().descent
		}
		l.ascent.SetDependencies(ascents...)
		l.descent.SetDependencies(descents...)
		l.initialized = true
	}
	if !l.LayoutNeeded() {
		return
	}
	p := l.parent.base()
	l.zoom.Copy(p.zoom)
	l.width.Copy(p.width)
	l.x.Copy(p.x)
	l.layoutStackedY()
	for _, k := range l.kids {
		k.Layout()
	}
	if len(l.kids) == 0 {
		l.ascent.Set(0)
		l.descent.Set(0)
		l.height.Set(0)
		l.scope.ClearDirtyDescendants()
		return
	}
	var ascent, descent dimen.Dimen
	for i, k := range l.kids {
		a := -k.base().ascent.Read(l.ascent)
		if i == 0 || a > ascent {
			ascent = a
		}
	}
	l.ascent.Set(ascent)
	for i, k := range l.kids {
		d := k.base().descent.Read(l.descent)
		if i == 0 || d > descent {
			descent = d
		}
	}
	l.descent.Set(descent)
	for _, k := range l.kids {
		c := k.base()
		y := l.y.Read(c.y) + l.ascent.Read(c.y)
		if _, isText := k.(*Text); isText {
			y += c.ascent.Read(c.y) / LineHeightFactor
		} else {
			y += c.ascent.Read(c.y)
		}
		c.y.Set(y)
	}
	l.height.Set(l.ascent.Read(l.height) + l.descent.Read(l.height))
	l.scope.ClearDirtyDescendants()
}

// Paint is empty for lines.
func (l *Line) Paint() []paint.Command {
	return nil
}

// PaintEffects draws the outline of an inline element around all of its
// boxes on this line.
func (l *Line) PaintEffects(cmds []paint.Command) []paint.Command {
	outlineRect := dimen.EmptyRect
	var outlineNode *dom.Node
	for _, k := range l.kids {
		parent := k.DOMNode().Parent()
		if parent == nil || parent.Style() == nil {
			continue
		}
		if _, ok := parent.Style().Get(style.Outline).Outline(); ok {
			outlineRect = outlineRect.Join(k.base().selfRect())
			outlineNode = parent
		}
	}
	if outlineNode != nil {
		cmds = paintOutline(outlineNode, cmds, outlineRect, l.zoom.Get())
	}
	return cmds
}

func (l *Line) String() string {
	return l.describe(frame.LineKind)
}
