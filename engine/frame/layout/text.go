package layout

import (
	"github.com/npillmayer/tyweb/core/dimen"
	"github.com/npillmayer/tyweb/core/font"
	"github.com/npillmayer/tyweb/engine/dom"
	"github.com/npillmayer/tyweb/engine/dom/style"
	"github.com/npillmayer/tyweb/engine/field"
	"github.com/npillmayer/tyweb/engine/frame"
	"github.com/npillmayer/tyweb/engine/paint"
)

// Text is a box for a single word of a text node.
type Text struct {
	box
	word string
}

func newText(node *dom.Node, word string, parent *Line, previous layoutBox, doc *Document) *Text {
	t := &Text{word: word}
	t.init("text", node, parent, previous, doc)
	t.initInline()
	return t
}

// newFontField creates the font field of an inline box, which depends on
// the zoom and on the font properties of the box's content node.
func (b *box) newFontField() *field.Field[*font.TypeCase] {
	styles := b.node.Style()
	return field.New[*font.TypeCase]("font", b.parentScope(), field.DependsOn(
		b.zoom,
		styles.Field(style.FontWeight),
		styles.Field(style.FontStyle),
		styles.Field(style.FontSize),
	))
}

// inlineX creates the x field of an inline box, which follows its
// predecessor on the line.
func (b *box) inlineX() *field.Field[dimen.Dimen] {
	if prev := b.prevInline(); prev != nil {
		return b.newDimen("x", field.DependsOn(prev.x, prev.font, prev.width))
	}
	return b.newDimen("x", field.DependsOn(b.parent.base().x))
}

// inlineY creates the y field of an inline box, which is set by its line.
func (b *box) inlineY() *field.Field[dimen.Dimen] {
	p := b.parent.base()
	return b.newDimen("y", field.DependsOn(b.ascent, p.y, p.ascent))
}

// layoutInlineX places an inline box a space after its predecessor.
func (b *box) layoutInlineX() {
	if prev := b.prevInline(); prev != nil {
		prevX := prev.x.Read(b.x)
		prevFont := prev.font.Read(b.x)
		prevWidth := prev.width.Read(b.x)
		b.x.Set(prevX + dimen.Dimen(prevFont.SpaceWidth()) + prevWidth)
		return
	}
	b.x.Copy(b.parent.base().x)
}

// layoutFont resolves the font of an inline box.
func (b *box) layoutFont() {
	b.zoom.Copy(b.parent.base().zoom)
	zoom := b.zoom.Read(b.font)
	b.font.Set(b.doc.resolveFont(b.node, zoom, b.font))
}

func (t *Text) initInline() {
	t.zoom = t.newZoom()
	t.font = t.newFontField()
	t.width = t.newDimen("width", field.DependsOn(t.font))
	t.height = t.newDimen(field.Height, field.DependsOn(t.font))
	t.ascent = t.newDimen("ascent", field.DependsOn(t.font))
	t.descent = t.newDimen("descent", field.DependsOn(t.font))
	t.x = t.inlineX()
	t.y = t.inlineY()
}

// Kind is part of interface frame.Box.
func (t *Text) Kind() frame.Kind {
	return frame.TextKind
}

// Word returns the text of a text box.
func (t *Text) Word() string {
	return t.word
}

// Children is empty for text boxes.
func (t *Text) Children() []frame.Box {
	return nil
}

// Layout measures the word. The y position is set by the line.
func (t *Text) Layout() {
	if !t.LayoutNeeded() {
		return
	}
	t.layoutFont()
	tc := t.font.Read(t.width)
	t.width.Set(dimen.Dimen(tc.Measure(t.word)))
	tc = t.font.Read(t.ascent)
	t.ascent.Set(dimen.Dimen(tc.Metrics().Ascent * LineHeightFactor))
	tc = t.font.Read(t.descent)
	t.descent.Set(dimen.Dimen(tc.Metrics().Descent * LineHeightFactor))
	tc = t.font.Read(t.height)
	t.height.Set(dimen.Dimen(linespace(tc) * LineHeightFactor))
	t.layoutInlineX()
	t.scope.ClearDirtyDescendants()
}

// Paint draws the word, vertically centered within the leading.
func (t *Text) Paint() []paint.Command {
	leading := t.height.Get() / LineHeightFactor * 0.25 / 2
	c := t.node.Style().Get(style.Color).Color()
	return []paint.Command{
		paint.NewDrawText(t.x.Get(), t.y.Get()+leading, t.word, t.font.Get(), c),
	}
}

// PaintEffects adds no effects for text boxes.
func (t *Text) PaintEffects(cmds []paint.Command) []paint.Command {
	return cmds
}

func (t *Text) String() string {
	return t.describe(frame.TextKind) + " " + t.word
}
