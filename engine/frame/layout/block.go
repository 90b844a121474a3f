package layout

import (
	"strconv"

	"github.com/npillmayer/tyweb/core/dimen"
	"github.com/npillmayer/tyweb/core/locate/resources"
	"github.com/npillmayer/tyweb/core/parameters"
	"github.com/npillmayer/tyweb/engine/dom"
	"github.com/npillmayer/tyweb/engine/dom/style"
	"github.com/npillmayer/tyweb/engine/field"
	"github.com/npillmayer/tyweb/engine/frame"
	"github.com/npillmayer/tyweb/engine/paint"
)

// Block is a box for a content node which stacks its children vertically.
// In block mode the children are blocks, in inline mode they are lines.
type Block struct {
	box
	children *field.Field[[]frame.Box]
}

func newBlock(node *dom.Node, parent, previous layoutBox, doc *Document) *Block {
	b := &Block{}
	b.init("block", node, parent, previous, doc)
	p := parent.base()
	b.zoom = b.newZoom()
	b.width = b.newDimen("width", field.DependsOn(p.width))
	b.height = b.newDimen(field.Height)
	b.x = b.newDimen("x", field.DependsOn(p.x))
	b.y = b.stackedY()
	b.children = field.NewSlice[frame.Box]("children", b.parentScope(), field.Invalidates())
	node.SetLayoutObject(b)
	return b
}

// Kind is part of interface frame.Box.
func (b *Block) Kind() frame.Kind {
	return frame.BlockKind
}

// Children returns the settled children of a block.
func (b *Block) Children() []frame.Box {
	return b.children.Get()
}

// ChildrenField gives access to the children field, e.g. for marking it.
func (b *Block) ChildrenField() *field.Field[[]frame.Box] {
	return b.children
}

// ContentChanged is called for content mutations at or below the block's
// content node. The children will be rebuilt on the next layout.
func (b *Block) ContentChanged() {
	b.children.Mark()
}

// Mode returns the display mode a block lays out its children in.
func (b *Block) Mode() frame.DisplayMode {
	return frame.ModeOf(b.node)
}

// LayoutNeeded is part of interface frame.Box.
func (b *Block) LayoutNeeded() bool {
	return b.children.Dirty() || b.box.LayoutNeeded()
}

// Layout recomputes stale fields of a block. Children are rebuilt if the
// children field is stale, otherwise existing child boxes are laid out again.
// The height of a block is the sum of the heights of its children.
func (b *Block) Layout() {
	if !b.LayoutNeeded() {
		return
	}
	p := b.parent.base()
	b.zoom.Copy(p.zoom)
	b.width.Copy(p.width)
	b.x.Copy(p.x)
	b.layoutStackedY()
	if b.children.Dirty() {
		var kids []frame.Box
		if b.Mode() == frame.BlockMode {
			kids = b.buildBlocks()
		} else {
			kids = b.buildLines()
		}
		b.children.Set(kids)
		deps := make([]field.Cell, 0, len(kids)+1)
		for _, k := range kids {
			deps = append(deps, k.(layoutBox).base().height)
		}
		deps = append(deps, b.children)
		b.height.SetDependencies(deps...)
		tracer().Debugf("%v rebuilt %d children in %s mode", b.node, len(kids), b.Mode())
	}
	for _, c := range b.children.Get() {
		c.Layout()
	}
	b.scope.ClearDirtyDescendants()
	var h dimen.Dimen
	for _, c := range b.children.Read(b.height) {
		h += c.(layoutBox).base().height.Read(b.height)
	}
	b.height.Set(h)
}

func (b *Block) buildBlocks() []frame.Box {
	var kids []frame.Box
	var previous layoutBox
	for _, c := range b.node.Children() {
		if frame.IsHidden(c) {
			continue
		}
		next := newBlock(c, b, previous, b.doc)
		kids = append(kids, next)
		previous = next
	}
	return kids
}

// ShouldPaint is false for blocks of replaced elements, which are painted
// by their embeds.
func (b *Block) ShouldPaint() bool {
	switch b.node.Tag() {
	case "input", "button", "img", "iframe":
		return false
	}
	return true
}

// Paint paints the background of a block.
func (b *Block) Paint() []paint.Command {
	return paintBackground(b.node, b.selfRect(), b.zoom.Get())
}

// PaintEffects adds a cursor to focused editable blocks and applies the
// visual effects of the block's content node.
func (b *Block) PaintEffects(cmds []paint.Command) []paint.Command {
	if b.node.Focused() && b.node.HasAttr("contenteditable") {
		var last *Text
		for _, x := range frame.TreeToList(b) {
			if t, ok := x.(*Text); ok {
				last = t
			}
		}
		if last != nil {
			cmds = append(cmds, paint.Cursor(last.x.Get(), last.y.Get(), last.height.Get(), last.width.Get()))
		} else {
			cmds = append(cmds, paint.Cursor(b.x.Get(), b.y.Get(), b.height.Get(), 0))
		}
	}
	return b.doc.paintVisualEffects(b.node, cmds, b.selfRect())
}

func (b *Block) String() string {
	return b.describe(frame.BlockKind)
}

// --- Inline content --------------------------------------------------------

// lineBuilder distributes inline content into lines.
type lineBuilder struct {
	block    *Block
	lines    []frame.Box
	line     *Line
	previous layoutBox // previous inline box on the current line
	cursorX  dimen.Dimen
}

// buildLines walks the content below a block in inline mode. Every value
// the walk depends on is read on behalf of the children field.
func (b *Block) buildLines() []frame.Box {
	lb := &lineBuilder{block: b}
	lb.newLine()
	lb.recurse(b.node)
	return lb.lines
}

func (lb *lineBuilder) newLine() {
	var last layoutBox
	if lb.line != nil {
		last = lb.line
	}
	lb.line = newLine(lb.block.node, lb.block, last, lb.block.doc)
	lb.lines = append(lb.lines, lb.line)
	lb.previous = nil
	lb.cursorX = 0
}

func (lb *lineBuilder) recurse(n *dom.Node) {
	if n.IsText() {
		for _, w := range words(n.Text()) {
			lb.word(n, w)
		}
		return
	}
	switch n.Tag() {
	case "br":
		lb.newLine()
	case "input", "button":
		lb.input(n)
	case "img":
		lb.image(n)
	case "iframe":
		if n.HasAttr("src") {
			lb.iframe(n)
		}
	default:
		if frame.IsHidden(n) {
			return
		}
		for _, c := range n.Children() {
			lb.recurse(c)
		}
	}
}

func (lb *lineBuilder) zoom() float64 {
	return lb.block.zoom.Read(lb.block.children)
}

func (lb *lineBuilder) word(n *dom.Node, w string) {
	tc := lb.block.doc.resolveFont(n, lb.zoom(), lb.block.children)
	lb.add(n, dimen.Dimen(tc.Measure(w)), func(line *Line, prev layoutBox) layoutBox {
		return newText(n, w, line, prev, lb.block.doc)
	})
}

func (lb *lineBuilder) image(n *dom.Node) {
	zoom := lb.zoom()
	iw, _ := intrinsicSize(n)
	w := dimen.DPX(dimen.Dimen(iw), zoom)
	if attr, ok := intAttr(n, "width"); ok {
		w = dimen.DPX(dimen.Dimen(attr), zoom)
	}
	lb.add(n, w, func(line *Line, prev layoutBox) layoutBox {
		return newImage(n, line, prev, lb.block.doc)
	})
}

func (lb *lineBuilder) input(n *dom.Node) {
	w := dimen.DPX(lb.block.doc.regs.D(parameters.P_INPUTWIDTH), lb.zoom())
	lb.add(n, w, func(line *Line, prev layoutBox) layoutBox {
		return newInput(n, line, prev, lb.block.doc)
	})
}

func (lb *lineBuilder) iframe(n *dom.Node) {
	zoom := lb.zoom()
	w := lb.block.doc.regs.D(parameters.P_IFRAMEWIDTH)
	if attr, ok := intAttr(n, "width"); ok {
		w = dimen.Dimen(attr)
	}
	lb.add(n, dimen.DPX(w+2, zoom), func(line *Line, prev layoutBox) layoutBox {
		return newIframe(n, line, prev, lb.block.doc)
	})
}

// add appends an inline box of width w, starting a new line if the box
// would overflow the current one. Empty lines are never wrapped.
func (lb *lineBuilder) add(n *dom.Node, w dimen.Dimen, create func(*Line, layoutBox) layoutBox) {
	width := lb.block.width.Read(lb.block.children)
	if lb.cursorX+w > width && len(lb.line.kids) > 0 {
		lb.newLine()
	}
	child := create(lb.line, lb.previous)
	lb.line.kids = append(lb.line.kids, child)
	lb.previous = child
	space := lb.block.doc.resolveFont(n, lb.zoom(), lb.block.children).SpaceWidth()
	lb.cursorX += w + dimen.Dimen(space)
}

// --- Helpers ---------------------------------------------------------------

// intAttr parses an integer attribute.
func intAttr(n *dom.Node, key string) (int, bool) {
	v, ok := n.Attr(key)
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		tracer().Debugf("%v: ignoring malformed attribute %s=%q", n, key, v)
		return 0, false
	}
	return i, true
}

// intrinsicSize returns the size of the decoded image of an <img>, or the
// size of the placeholder if the image is not available.
func intrinsicSize(n *dom.Node) (int, int) {
	if img := n.Image(); img != nil && img.Width > 0 && img.Height > 0 {
		return img.Width, img.Height
	}
	return resources.PlaceholderSize, resources.PlaceholderSize
}

// paintBackground paints the background color of a node, if any.
func paintBackground(n *dom.Node, r dimen.Rect, zoom float64) []paint.Command {
	bg := n.Style().Get(style.BackgroundColor)
	if bg == "transparent" || bg.IsEmpty() {
		return nil
	}
	radius := dimen.DPX(n.Style().Get(style.BorderRadius).Dimen(), zoom)
	return []paint.Command{&paint.DrawRRect{R: r, Radius: radius, Color: bg.Color()}}
}
