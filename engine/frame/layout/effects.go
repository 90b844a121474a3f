package layout

import (
	"github.com/npillmayer/tyweb/core/dimen"
	"github.com/npillmayer/tyweb/engine/dom"
	"github.com/npillmayer/tyweb/engine/dom/style"
	"github.com/npillmayer/tyweb/engine/frame"
	"github.com/npillmayer/tyweb/engine/paint"
)

// paintVisualEffects wraps the commands of a node into a blend for opacity
// and blend mode, inside a translation. Content of nodes with overflow:clip
// is masked by the rectangle of the node. The blend is recorded for the node.
func (d *Document) paintVisualEffects(n *dom.Node, cmds []paint.Command, r dimen.Rect) []paint.Command {
	styles := n.Style()
	opacity := styles.Get(style.Opacity).Float(1)
	mode := string(styles.Get(style.MixBlendMode))
	translation, _ := styles.Get(style.Transform).Translation()
	if styles.Get(style.Overflow) == "clip" {
		radius := dimen.DPX(styles.Get(style.BorderRadius).Dimen(), d.zoom.Get())
		mask := paint.NewBlend(1, paint.DestinationIn, nil, []paint.Command{
			&paint.DrawRRect{R: r, Radius: radius, Color: paint.White},
		})
		clipped := make([]paint.Command, 0, len(cmds)+1)
		clipped = append(clipped, cmds...)
		clipped = append(clipped, mask)
		cmds = []paint.Command{paint.NewBlend(1, paint.SourceOver, nil, clipped)}
	}
	blend := paint.NewBlend(opacity, mode, n, cmds)
	d.recordBlend(n, blend)
	return []paint.Command{paint.NewTransform(translation, r, n, []paint.Command{blend})}
}

// paintOutline appends the outline of a node, if it has one.
func paintOutline(n *dom.Node, cmds []paint.Command, r dimen.Rect, zoom float64) []paint.Command {
	outline, ok := n.Style().Get(style.Outline).Outline()
	if !ok {
		return cmds
	}
	return append(cmds, &paint.DrawOutline{
		R:         r,
		Color:     style.ParseColor(outline.Color),
		Thickness: dimen.DPX(outline.Thickness, zoom),
	})
}

// --- Paint walk ------------------------------------------------------------

// PaintTree appends the display list of a settled layout tree to list.
// Every box contributes its own commands, followed by the commands of its
// children, all wrapped by the box's effects. Iframes with a loaded hosted
// context contribute the hosted document instead of children.
//
// The tree must not need layout.
func PaintTree(b frame.Box, list []paint.Command) []paint.Command {
	if d, ok := b.(*Document); ok {
		d.blends = nil
	}
	var cmds []paint.Command
	if b.ShouldPaint() {
		cmds = b.Paint()
	}
	if f, ok := b.(*Iframe); ok {
		if hf, ok := f.Hosted(); ok && hf.Document() != nil {
			cmds = PaintTree(hf.Document(), cmds)
		}
	} else {
		for _, c := range b.Children() {
			cmds = PaintTree(c, cmds)
		}
	}
	if b.ShouldPaint() {
		cmds = b.PaintEffects(cmds)
	}
	return append(list, cmds...)
}

// DisplayList runs the paint walk for a document.
func DisplayList(d *Document) []paint.Command {
	list := PaintTree(d, nil)
	tracer().Infof("paint walk produced %d commands", paint.Count(list))
	return list
}

// AbsoluteBounds returns the border box of a settled box, moved by the
// translations of its content node and all of its ancestors.
func AbsoluteBounds(b frame.Box) dimen.Rect {
	r := b.Geometry().Rect()
	for n := b.DOMNode(); n != nil; n = n.Parent() {
		if n.Style() == nil {
			continue
		}
		if t, ok := n.Style().Get(style.Transform).Translation(); ok {
			r = r.Offset(t.X, t.Y)
		}
	}
	return r
}
