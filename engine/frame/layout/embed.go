package layout

import (
	"github.com/npillmayer/tyweb/core"
	"github.com/npillmayer/tyweb/core/dimen"
	"github.com/npillmayer/tyweb/core/locate/resources"
	"github.com/npillmayer/tyweb/core/parameters"
	"github.com/npillmayer/tyweb/engine/dom"
	"github.com/npillmayer/tyweb/engine/dom/style"
	"github.com/npillmayer/tyweb/engine/field"
	"github.com/npillmayer/tyweb/engine/frame"
	"github.com/npillmayer/tyweb/engine/paint"
)

// embed is the common part of boxes for replaced content. Embeds sit on
// the baseline with their bottom edge: ascent is the negative height and
// descent is zero.
type embed struct {
	box
	kind frame.Kind
}

func (e *embed) initEmbed(kind frame.Kind, node *dom.Node, parent *Line, previous layoutBox, doc *Document) {
	e.kind = kind
	e.init(kind.String(), node, parent, previous, doc)
	e.zoom = e.newZoom()
	e.font = e.newFontField()
	e.width = e.newDimen("width", field.DependsOn(e.zoom))
	e.height = e.newDimen(field.Height, field.DependsOn(e.zoom, e.font, e.width))
	e.ascent = e.newDimen("ascent", field.DependsOn(e.height))
	e.descent = e.newDimen("descent", field.DependsOn())
	e.x = e.inlineX()
	e.y = e.inlineY()
}

// Kind is part of interface frame.Box.
func (e *embed) Kind() frame.Kind {
	return e.kind
}

// Children is empty for embeds. Documents of iframes are not part of the
// layout tree of the embedding document.
func (e *embed) Children() []frame.Box {
	return nil
}

// ContentChanged is called if attributes of the embedded element change.
// The enclosing block rebuilds its lines.
func (e *embed) ContentChanged() {
	e.width.Mark()
	if line := e.parent; line != nil {
		if blk, ok := line.base().parent.(*Block); ok {
			blk.ContentChanged()
		}
	}
}

// layoutEmbed computes the fields common to all embeds.
func (e *embed) layoutEmbed() {
	e.layoutFont()
	e.layoutInlineX()
	e.scope.ClearDirtyDescendants()
}

// layoutBaseline derives ascent and descent from the height.
func (e *embed) layoutBaseline() {
	e.ascent.Set(-e.height.Read(e.ascent))
	e.descent.Set(0)
}

func (e *embed) String() string {
	return e.describe(e.kind)
}

// --- Images ----------------------------------------------------------------

// Image is a box for an <img> element.
type Image struct {
	embed
	imgHeight dimen.Dimen
}

func newImage(node *dom.Node, parent *Line, previous layoutBox, doc *Document) *Image {
	img := &Image{}
	img.initEmbed(frame.ImageKind, node, parent, previous, doc)
	node.SetLayoutObject(img)
	return img
}

// Layout sizes an image. Width and height attributes override the intrinsic
// size. If only one of them is given, the aspect ratio is preserved. The box
// is at least one line high.
func (img *Image) Layout() {
	if !img.LayoutNeeded() {
		return
	}
	img.layoutEmbed()
	iw, ih := intrinsicSize(img.node)
	aspect := float64(iw) / float64(ih)
	wAttr, hasW := intAttr(img.node, "width")
	hAttr, hasH := intAttr(img.node, "height")
	wZoom := img.zoom.Read(img.width)
	hZoom := img.zoom.Read(img.height)
	switch {
	case hasW && hasH:
		img.width.Set(dimen.DPX(dimen.Dimen(wAttr), wZoom))
		img.imgHeight = dimen.DPX(dimen.Dimen(hAttr), hZoom)
	case hasW:
		img.width.Set(dimen.DPX(dimen.Dimen(wAttr), wZoom))
		img.imgHeight = img.width.Read(img.height) / dimen.Dimen(aspect)
	case hasH:
		img.imgHeight = dimen.DPX(dimen.Dimen(hAttr), hZoom)
		img.width.Set(img.imgHeight * dimen.Dimen(aspect))
	default:
		img.width.Set(dimen.DPX(dimen.Dimen(iw), wZoom))
		img.imgHeight = dimen.DPX(dimen.Dimen(ih), hZoom)
	}
	tc := img.font.Read(img.height)
	img.height.Set(dimen.Max(img.imgHeight, dimen.Dimen(linespace(tc))))
	img.layoutBaseline()
}

// Paint draws the image at the bottom of its box.
func (img *Image) Paint() []paint.Command {
	x, y := img.x.Get(), img.y.Get()
	w, h := img.width.Get(), img.height.Get()
	r := dimen.LTRB(x, y+h-img.imgHeight, x+w, y+h)
	quality := string(img.node.Style().Get(style.ImageRendering))
	src := resources.Placeholder()
	if i := img.node.Image(); i != nil && i.Img != nil {
		src = i.Img
	}
	return []paint.Command{&paint.DrawImage{Img: src, R: r, Quality: quality}}
}

// PaintEffects adds no effects for images.
func (img *Image) PaintEffects(cmds []paint.Command) []paint.Command {
	return cmds
}

// --- Form controls ---------------------------------------------------------

// Input is a box for <input> and <button> elements.
type Input struct {
	embed
}

func newInput(node *dom.Node, parent *Line, previous layoutBox, doc *Document) *Input {
	in := &Input{}
	in.initEmbed(frame.InputKind, node, parent, previous, doc)
	node.SetLayoutObject(in)
	return in
}

// Layout sizes a form control to a fixed width and one line of text.
func (in *Input) Layout() {
	if !in.LayoutNeeded() {
		return
	}
	in.layoutEmbed()
	zoom := in.zoom.Read(in.width)
	in.width.Set(dimen.DPX(in.doc.regs.D(parameters.P_INPUTWIDTH), zoom))
	tc := in.font.Read(in.height)
	in.height.Set(dimen.Dimen(linespace(tc)))
	in.layoutBaseline()
}

// Label returns the text displayed by a form control: the value of an
// input, or the text of a button. Buttons with other content show no text.
func (in *Input) Label() string {
	switch in.node.Tag() {
	case "input":
		return in.node.AttrOr("value", "")
	case "button":
		kids := in.node.Children()
		if len(kids) == 1 && kids[0].IsText() {
			return kids[0].Text()
		}
		tracer().Infof("ignoring HTML contents inside button")
	}
	return ""
}

// Paint draws background, text and, for focused inputs, a cursor.
func (in *Input) Paint() []paint.Command {
	cmds := paintBackground(in.node, in.selfRect(), in.zoom.Get())
	text := in.Label()
	tc := in.font.Get()
	c := in.node.Style().Get(style.Color).Color()
	cmds = append(cmds, paint.NewDrawText(in.x.Get(), in.y.Get(), text, tc, c))
	if in.node.Focused() && in.node.Tag() == "input" {
		cmds = append(cmds, paint.Cursor(in.x.Get(), in.y.Get(), in.height.Get(),
			dimen.Dimen(tc.Measure(text))))
	}
	return cmds
}

// PaintEffects applies visual effects and the outline of the control.
func (in *Input) PaintEffects(cmds []paint.Command) []paint.Command {
	r := in.selfRect()
	cmds = in.doc.paintVisualEffects(in.node, cmds, r)
	return paintOutline(in.node, cmds, r, in.zoom.Get())
}

// --- Iframes ---------------------------------------------------------------

// Iframe is a box for an <iframe> element. It has a border of 1px on each
// side, and hosts the document of another browsing context inside.
type Iframe struct {
	embed
}

func newIframe(node *dom.Node, parent *Line, previous layoutBox, doc *Document) *Iframe {
	f := &Iframe{}
	f.initEmbed(frame.IframeKind, node, parent, previous, doc)
	node.SetLayoutObject(f)
	return f
}

// Hosted returns the hosted browsing context, if it has been loaded.
func (f *Iframe) Hosted() (HostedFrame, bool) {
	hf, ok := f.node.Frame().(HostedFrame)
	if !ok || hf == nil || !hf.Loaded() {
		return nil, false
	}
	return hf, true
}

// Layout sizes an iframe from its attributes or from the default size, and
// pushes the inner size into the hosted browsing context. The hosted
// document's width is invalidated, as it depends on the size of the iframe.
func (f *Iframe) Layout() {
	if !f.LayoutNeeded() {
		return
	}
	f.layoutEmbed()
	regs := f.doc.regs
	w := regs.D(parameters.P_IFRAMEWIDTH)
	if attr, ok := intAttr(f.node, "width"); ok {
		w = dimen.Dimen(attr)
	}
	f.width.Set(dimen.DPX(w+2, f.zoom.Read(f.width)))
	h := regs.D(parameters.P_IFRAMEHEIGHT)
	if attr, ok := intAttr(f.node, "height"); ok {
		h = dimen.Dimen(attr)
	}
	f.height.Set(dimen.DPX(h+2, f.zoom.Read(f.height)))
	if hf, ok := f.Hosted(); ok {
		border := f.dpx(2)
		hf.SetViewport(f.width.Get()-border, f.height.Get()-border)
		hosted := hf.Document()
		if hosted == nil {
			core.Invariant("loaded frame of %v has no document", f.node)
		}
		hosted.MarkWidth()
		tracer().Debugf("iframe %v resized hosted document", f.node)
	}
	f.layoutBaseline()
}

// Paint paints the background of an iframe.
func (f *Iframe) Paint() []paint.Command {
	return paintBackground(f.node, f.selfRect(), f.zoom.Get())
}

// innerRect is the content area of an iframe, inside the border.
func (f *Iframe) innerRect() dimen.Rect {
	d := f.dpx(1)
	r := f.selfRect()
	return dimen.LTRB(r.Left()+d, r.Top()+d, r.Right()-d, r.Bottom()-d)
}

// PaintEffects moves the hosted content into the iframe, clips it to the
// inner area and applies outline and visual effects.
func (f *Iframe) PaintEffects(cmds []paint.Command) []paint.Command {
	r := f.selfRect()
	d := f.dpx(1)
	offset := dimen.Point{X: f.x.Get() + d, Y: f.y.Get() + d}
	inner := f.innerRect()
	cmds = []paint.Command{
		paint.NewTransform(offset, r, f.node, cmds),
		paint.NewBlend(1, paint.DestinationIn, nil, []paint.Command{
			&paint.DrawRRect{R: inner, Color: paint.White},
		}),
	}
	cmds = []paint.Command{paint.NewBlend(1, paint.SourceOver, nil, cmds)}
	cmds = paintOutline(f.node, cmds, r, f.zoom.Get())
	return f.doc.paintVisualEffects(f.node, cmds, inner)
}

// Interface guards
var _ frame.Box = &Text{}
var _ frame.Box = &Image{}
var _ frame.Box = &Input{}
var _ frame.Box = &Iframe{}
var _ dom.LayoutObject = &Block{}
var _ dom.LayoutObject = &Image{}
