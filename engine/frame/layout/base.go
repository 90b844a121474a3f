package layout

import (
	"fmt"

	"github.com/npillmayer/tyweb/core/dimen"
	"github.com/npillmayer/tyweb/core/font"
	"github.com/npillmayer/tyweb/engine/dom"
	"github.com/npillmayer/tyweb/engine/field"
	"github.com/npillmayer/tyweb/engine/frame"
)

// LineHeightFactor scales ascent, descent and line height of text.
const LineHeightFactor = 1.25

// fields holds the geometry of a box. Ascent, descent and font are present
// for lines and inline boxes only.
type fields struct {
	zoom            *field.Field[float64]
	x, y            *field.Field[dimen.Dimen]
	width, height   *field.Field[dimen.Dimen]
	ascent, descent *field.Field[dimen.Dimen]
	font            *field.Field[*font.TypeCase]
}

func (f *fields) anyDirty() bool {
	if f.zoom.Dirty() || f.x.Dirty() || f.y.Dirty() || f.width.Dirty() || f.height.Dirty() {
		return true
	}
	if f.ascent != nil && (f.ascent.Dirty() || f.descent.Dirty()) {
		return true
	}
	return f.font != nil && f.font.Dirty()
}

// box is the part common to all kinds of boxes.
type box struct {
	fields
	node     *dom.Node
	parent   layoutBox
	previous layoutBox
	doc      *Document
	scope    *field.Scope // flagged when fields of descendants become dirty
}

// layoutBox is implemented by all boxes of this package.
type layoutBox interface {
	frame.Box
	base() *box
}

func (b *box) base() *box {
	return b
}

// init connects a box to its tree. Fields of a box report to the scope of
// the parent box.
func (b *box) init(label string, node *dom.Node, parent, previous layoutBox, doc *Document) {
	b.node = node
	b.parent = parent
	b.previous = previous
	b.doc = doc
	var parentScope *field.Scope
	if parent != nil {
		parentScope = parent.base().scope
	}
	b.scope = field.NewScope(label, parentScope)
}

// parentScope is the scope fields of b are created in.
func (b *box) parentScope() *field.Scope {
	return b.scope.Parent()
}

// DOMNode returns the content node a box has been created for.
func (b *box) DOMNode() *dom.Node {
	return b.node
}

// Parent returns the parent box, or nil for a document.
func (b *box) Parent() frame.Box {
	if b.parent == nil {
		return nil
	}
	return b.parent
}

// Previous returns the preceding sibling box, or nil.
func (b *box) Previous() frame.Box {
	if b.previous == nil {
		return nil
	}
	return b.previous
}

// LayoutNeeded is true if a field is dirty or a descendant needs layout.
func (b *box) LayoutNeeded() bool {
	return b.anyDirty() || b.scope.HasDirtyDescendants()
}

// ShouldPaint is true for most boxes.
func (b *box) ShouldPaint() bool {
	return true
}

// Geometry returns the settled geometry of a box.
func (b *box) Geometry() frame.Geometry {
	return frame.Geometry{
		X:      b.x.Get(),
		Y:      b.y.Get(),
		Width:  b.width.Get(),
		Height: b.height.Get(),
	}
}

// selfRect is the border box of a settled box.
func (b *box) selfRect() dimen.Rect {
	return dimen.XYWH(b.x.Get(), b.y.Get(), b.width.Get(), b.height.Get())
}

// dpx converts CSS pixels to device pixels at the settled zoom of b.
func (b *box) dpx(css dimen.Dimen) dimen.Dimen {
	return dimen.DPX(css, b.zoom.Get())
}

// Zoom, X, Y, Width and Height give access to the fields of a box. Clients
// use them to mark fields dirty or to inspect them in tests.
func (b *box) Zoom() *field.Field[float64]       { return b.zoom }
func (b *box) X() *field.Field[dimen.Dimen]      { return b.x }
func (b *box) Y() *field.Field[dimen.Dimen]      { return b.y }
func (b *box) Width() *field.Field[dimen.Dimen]  { return b.width }
func (b *box) Height() *field.Field[dimen.Dimen] { return b.height }

// Ascent, Descent and Font are nil for documents and blocks.
func (b *box) Ascent() *field.Field[dimen.Dimen]  { return b.ascent }
func (b *box) Descent() *field.Field[dimen.Dimen] { return b.descent }
func (b *box) Font() *field.Field[*font.TypeCase] { return b.font }

func (b *box) describe(kind frame.Kind) string {
	return fmt.Sprintf("%s(%v, %v, %v, %v, %v)", kind, b.node, b.x, b.y, b.width, b.height)
}

// prevInline returns the preceding box of an inline box on the same line.
func (b *box) prevInline() *box {
	if b.previous == nil {
		return nil
	}
	return b.previous.base()
}

// newZoom creates the zoom field of a box, following its parent.
func (b *box) newZoom() *field.Field[float64] {
	return field.New[float64]("zoom", b.parentScope(), field.DependsOn(b.parent.base().zoom))
}

// newDimen creates a geometry field.
func (b *box) newDimen(name string, opts ...field.Option) *field.Field[dimen.Dimen] {
	return field.New[dimen.Dimen](name, b.parentScope(), opts...)
}

// stackedY creates the y field of a vertically stacked box, which is placed
// below its predecessor or at the top of its parent.
func (b *box) stackedY() *field.Field[dimen.Dimen] {
	if b.previous != nil {
		prev := b.previous.base()
		return b.newDimen("y", field.DependsOn(prev.y, prev.height))
	}
	return b.newDimen("y", field.DependsOn(b.parent.base().y))
}

// layoutStackedY computes the y field created by stackedY.
func (b *box) layoutStackedY() {
	if b.previous != nil {
		prev := b.previous.base()
		prevY := prev.y.Read(b.y)
		prevHeight := prev.height.Read(b.y)
		b.y.Set(prevY + prevHeight)
		return
	}
	b.y.Copy(b.parent.base().y)
}
