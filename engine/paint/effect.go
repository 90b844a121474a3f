package paint

import (
	"fmt"

	"github.com/npillmayer/tyweb/core/dimen"
	"github.com/npillmayer/tyweb/engine/dom"
)

// Blend modes
const (
	SourceOver    = "source-over"
	DestinationIn = "destination-in"
	Multiply      = "multiply"
	Difference    = "difference"
)

// effect is the common part of visual effects. Its rectangle is the union
// of an initial rectangle and the children's rectangles.
type effect struct {
	r        dimen.Rect
	children []Command
	Node     *dom.Node // content node the effect has been created for, may be nil
}

func newEffect(r dimen.Rect, node *dom.Node, children []Command) effect {
	for _, c := range children {
		r = r.Join(c.Rect())
	}
	return effect{r: r, children: children, Node: node}
}

// Rect is part of interface Command.
func (e *effect) Rect() dimen.Rect { return e.r }

// Children is part of interface Command.
func (e *effect) Children() []Command { return e.children }

// --- Transform -------------------------------------------------------------

// Transform shifts its children by a translation.
type Transform struct {
	effect
	Translation dimen.Point
	SelfRect    dimen.Rect // rectangle of the node, without children
}

// NewTransform creates a translation effect.
func NewTransform(translation dimen.Point, self dimen.Rect, node *dom.Node, children []Command) *Transform {
	return &Transform{
		effect:      newEffect(self, node, children),
		Translation: translation,
		SelfRect:    self,
	}
}

// Map transforms a rectangle from the space of the children into the space
// of the parent.
func (t *Transform) Map(r dimen.Rect) dimen.Rect {
	return r.Offset(t.Translation.X, t.Translation.Y)
}

// Unmap is the inverse of Map.
func (t *Transform) Unmap(r dimen.Rect) dimen.Rect {
	return r.Offset(-t.Translation.X, -t.Translation.Y)
}

// IsIdentity is true for a transform without translation.
func (t *Transform) IsIdentity() bool {
	return t.Translation.IsZero()
}

func (t *Transform) String() string {
	if t.IsIdentity() {
		return "Transform(<no-op>)"
	}
	return fmt.Sprintf("Transform(translate%v)", t.Translation)
}

// --- Blend -----------------------------------------------------------------

// Blend composites its children with an opacity and a blend mode.
type Blend struct {
	effect
	Opacity float64
	Mode    string
}

// NewBlend creates a blending effect. An empty mode means source-over.
func NewBlend(opacity float64, mode string, node *dom.Node, children []Command) *Blend {
	return &Blend{
		effect:  newEffect(dimen.EmptyRect, node, children),
		Opacity: opacity,
		Mode:    mode,
	}
}

// ShouldSave is true if the children must be drawn into a layer of their own.
func (b *Blend) ShouldSave() bool {
	return b.Mode != "" || b.Opacity < 1
}

// Map clips a rectangle if the last child is a destination-in mask.
func (b *Blend) Map(r dimen.Rect) dimen.Rect {
	if mask := b.clipMask(); mask != nil {
		return r.Intersect(mask.Rect())
	}
	return r
}

// Unmap is the same as Map.
func (b *Blend) Unmap(r dimen.Rect) dimen.Rect {
	return b.Map(r)
}

func (b *Blend) clipMask() *Blend {
	if len(b.children) == 0 {
		return nil
	}
	if mask, ok := b.children[len(b.children)-1].(*Blend); ok && mask.Mode == DestinationIn {
		return mask
	}
	return nil
}

// WithOpacity returns a copy of b with another opacity, sharing the children.
func (b *Blend) WithOpacity(opacity float64) *Blend {
	c := *b
	c.Opacity = opacity
	return &c
}

func (b *Blend) String() string {
	if !b.ShouldSave() {
		return "Blend(<no-op>)"
	}
	mode := b.Mode
	if mode == "" {
		mode = SourceOver
	}
	return fmt.Sprintf("Blend(opacity=%g, %s)", b.Opacity, mode)
}

// Interface guards
var _ Command = &Transform{}
var _ Command = &Blend{}
