package layout

import (
	"github.com/npillmayer/tyweb/core"
	"github.com/npillmayer/tyweb/core/dimen"
	"github.com/npillmayer/tyweb/core/font/fontregistry"
	"github.com/npillmayer/tyweb/core/parameters"
	"github.com/npillmayer/tyweb/engine/dom"
	"github.com/npillmayer/tyweb/engine/field"
	"github.com/npillmayer/tyweb/engine/frame"
	"github.com/npillmayer/tyweb/engine/paint"
)

// Viewport is the browsing context a document is displayed in.
type Viewport interface {
	IsRoot() bool        // true for the top-level context of a tab
	Scroll() dimen.Dimen // vertical scroll offset
}

// HostedFrame is a browsing context embedded by an <iframe>. Iframe boxes
// push their inner size into the hosted context during layout and stitch
// the hosted document into their paint output.
type HostedFrame interface {
	dom.Frame
	SetViewport(width, height dimen.Dimen)
	Document() *Document
}

// Document is the root box of a layout tree.
type Document struct {
	box
	child    *Block
	viewport Viewport
	regs     *parameters.Registers
	fonts    *fontregistry.Registry
	blends   map[*dom.Node]*paint.Blend
	inLayout bool
	avail    dimen.Dimen // width of the container
	scale    float64     // zoom factor
}

// NewDocument creates the root box for the root element of a page. vp may be
// nil, which is treated as a top-level viewport without scrolling. regs may
// be nil for default parameters.
func NewDocument(node *dom.Node, vp Viewport, regs *parameters.Registers) *Document {
	if regs == nil {
		regs = parameters.NewRegisters()
	}
	d := &Document{
		viewport: vp,
		regs:     regs,
		fonts:    fontregistry.GlobalRegistry(),
		scale:    1,
	}
	d.avail = regs.D(parameters.P_WIDTH)
	d.init("document", node, nil, nil, d)
	d.zoom = field.New[float64]("zoom", nil, field.DependsOn())
	d.width = field.New[dimen.Dimen]("width", nil, field.DependsOn())
	d.height = field.New[dimen.Dimen]("height", nil)
	d.x = field.New[dimen.Dimen]("x", nil, field.DependsOn())
	d.y = field.New[dimen.Dimen]("y", nil, field.DependsOn())
	return d
}

// Kind is part of interface frame.Box.
func (d *Document) Kind() frame.Kind {
	return frame.DocumentKind
}

// Children returns the single block of a document, once created.
func (d *Document) Children() []frame.Box {
	if d.child == nil {
		return nil
	}
	return []frame.Box{d.child}
}

// LayoutFor sets the container width and the zoom factor of a document,
// then lays it out. Changed values invalidate the corresponding fields.
// The result is false if the document did not need layout.
func (d *Document) LayoutFor(width dimen.Dimen, zoom float64) bool {
	if width != d.avail {
		d.avail = width
		d.MarkWidth()
	}
	if zoom != d.scale {
		d.scale = zoom
		d.MarkZoom()
	}
	if !d.LayoutNeeded() {
		return false
	}
	d.Layout()
	return true
}

// Layout lays out the document for the current container width and zoom
// factor. If no field is stale, Layout does nothing. After layout the whole
// tree is checked to be settled.
func (d *Document) Layout() {
	if !d.LayoutNeeded() {
		return
	}
	d.inLayout = true
	defer func() { d.inLayout = false }()
	width, zoom := d.avail, d.scale
	tracer().Infof("layout pass for document %v, width=%s, zoom=%g", d.node, width, zoom)
	hstep := d.regs.D(parameters.P_HSTEP)
	vstep := d.regs.D(parameters.P_VSTEP)
	d.zoom.Set(zoom)
	d.width.Set(width - 2*dimen.DPX(hstep, zoom))
	if d.child == nil {
		d.child = newBlock(d.node, d, nil, d)
		d.height.SetDependencies(d.child.height)
	}
	d.x.Set(dimen.DPX(hstep, zoom))
	d.y.Set(dimen.DPX(vstep, zoom))
	d.child.Layout()
	d.scope.ClearDirtyDescendants()
	d.height.Copy(d.child.height)
	if err := frame.Check(d); err != nil {
		core.Invariant("layout pass left stale boxes: %v", err)
	}
}

// MarkWidth invalidates the width of a document, e.g. after the size of its
// viewport changed. Marking is not allowed while the document is being laid out.
func (d *Document) MarkWidth() {
	if d.inLayout {
		core.Invariant("width of document %v marked during its own layout", d.node)
	}
	d.width.Mark()
}

// MarkZoom invalidates the zoom factor of a document.
func (d *Document) MarkZoom() {
	if d.inLayout {
		core.Invariant("zoom of document %v marked during its own layout", d.node)
	}
	d.zoom.Mark()
}

// Paint is empty for documents.
func (d *Document) Paint() []paint.Command {
	return nil
}

// PaintEffects shifts the content of a scrolled nested document.
func (d *Document) PaintEffects(cmds []paint.Command) []paint.Command {
	if d.viewport == nil || d.viewport.IsRoot() || d.viewport.Scroll() == 0 {
		return cmds
	}
	scroll := d.viewport.Scroll()
	return []paint.Command{
		paint.NewTransform(dimen.Point{X: 0, Y: -scroll}, d.selfRect(), d.node, cmds),
	}
}

// Blend returns the blend effect painted for a content node during the last
// paint walk over the document.
func (d *Document) Blend(n *dom.Node) (*paint.Blend, bool) {
	b, ok := d.blends[n]
	return b, ok
}

func (d *Document) recordBlend(n *dom.Node, b *paint.Blend) {
	if d.blends == nil {
		d.blends = make(map[*dom.Node]*paint.Blend)
	}
	d.blends[n] = b
}

func (d *Document) String() string {
	return d.describe(frame.DocumentKind)
}

var _ frame.Box = &Document{}
