package style

import (
	"image/color"
	"testing"
	"time"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/tyweb/core/dimen"
	"github.com/stretchr/testify/assert"
)

func TestRegistry(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.style")
	defer teardown()
	//
	pd, ok := Lookup("Font-Size")
	if !ok {
		t.Fatalf("expected font-size to be a known property")
	}
	assert.True(t, pd.Inherited)
	assert.Equal(t, 0, pd.Index())
	_, ok = Lookup("margin")
	assert.False(t, ok)
	assert.Equal(t, 13, PropertyCount())
	assert.Equal(t, []string{"font-size", "font-style", "font-weight"}, Expand("font"))
	assert.Equal(t, []string{"opacity"}, Expand("opacity"))
	assert.Len(t, Expand("all"), PropertyCount())
	assert.Empty(t, Expand("margin"))
	assert.Equal(t, []string{"opacity"}, Expand(" OPACITY "))
	assert.Equal(t, "background-color", FoldName("Background-Color"))
	assert.Equal(t, "white", InheritedDefault(Color, true))
	assert.Equal(t, "16px", InheritedDefault(FontSize, false))
	assert.Equal(t, "none", InheritedDefault(Transform, false))
}

func TestFieldSetInheritance(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.style")
	defer teardown()
	//
	parent := NewFieldSet(nil)
	child := NewFieldSet(parent)
	assert.True(t, parent.Dirty())
	for _, pd := range Properties() {
		parent.Field(pd.Name).Set(pd.Initial)
		child.Field(pd.Name).Set(pd.Initial)
	}
	assert.False(t, child.Dirty())
	parent.Field(FontSize).Set("20px")
	if !child.Field(FontSize).Dirty() {
		t.Errorf("expected inherited font-size of child to be dirty")
	}
	if child.Field(Opacity).Dirty() {
		t.Errorf("expected non-inherited opacity of child to be clean")
	}
	parent.Field(Opacity).Set("0.5")
	assert.False(t, child.Field(Opacity).Dirty())
	assert.Equal(t, Property("0.5"), parent.Get(Opacity))
	assert.Nil(t, parent.Field("margin"))
	vals := child.Values()
	assert.Equal(t, "1.0", vals[Opacity])
	child.MarkAll()
	assert.True(t, child.Field(Transform).Dirty())
}

func TestPropertyConversions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.style")
	defer teardown()
	//
	assert.Equal(t, color.NRGBA{R: 0xff, A: 0xff}, Property("red").Color())
	assert.Equal(t, color.NRGBA{R: 0x12, G: 0x34, B: 0x56, A: 0x78}, Property("#12345678").Color())
	assert.Equal(t, color.NRGBA{R: 0xad, G: 0xd8, B: 0xe6, A: 0xff}, ParseColor("lightblue"))
	assert.Equal(t, color.NRGBA{A: 0xff}, ParseColor("chartreuse"))
	assert.Equal(t, color.NRGBA{A: 0xff}, ParseColor("#12"))
	//
	px, ok := Property("20px").FontSizePx()
	assert.True(t, ok)
	assert.Equal(t, 20.0, px)
	_, ok = Property("large").FontSizePx()
	assert.False(t, ok)
	pc, ok := Property("50%").Percentage()
	assert.True(t, ok)
	assert.Equal(t, 50.0, pc)
	assert.Equal(t, dimen.Dimen(5), Property("5px").Dimen())
	assert.Equal(t, dimen.Zero, Property("5%").Dimen())
	assert.Equal(t, 0.5, Property("0.5").Float(1))
	assert.Equal(t, 1.0, Property("x").Float(1))
	assert.Equal(t, Property("10.5px"), FormatPx(10.5))
	//
	p, ok := Property("translate(10px, -4.5px)").Translation()
	assert.True(t, ok)
	assert.Equal(t, dimen.Point{X: 10, Y: -4.5}, p)
	_, ok = Property("none").Translation()
	assert.False(t, ok)
	o, ok := Property("2px solid red").Outline()
	assert.True(t, ok)
	assert.Equal(t, OutlineSpec{Thickness: 2, Color: "red"}, o)
	_, ok = Property("2px dashed red").Outline()
	assert.False(t, ok)
	_, ok = Property("none").Outline()
	assert.False(t, ok)
}

func TestTransitions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.style")
	defer teardown()
	//
	refresh := 33 * time.Millisecond
	frames := ParseTransition("opacity 2s, font 330ms, bogus", refresh)
	assert.Equal(t, 60, frames[Opacity])
	assert.Equal(t, 10, frames[FontSize])
	assert.Equal(t, 10, frames[FontWeight])
	_, ok := frames["bogus"]
	assert.False(t, ok)
	//
	prev := map[string]string{Opacity: "1.0", Color: "black", FontSize: "16px"}
	next := map[string]string{Opacity: "0.5", Color: "red", FontSize: "16px",
		Transition: "opacity 2s, color 1s, font-size 1s"}
	tr := DiffStyles(prev, next, refresh)
	if assert.Len(t, tr, 1) {
		assert.Equal(t, PropertyTransition{Property: Opacity, From: "1.0", To: "0.5", Frames: 60}, tr[0])
	}
}

func TestNumericAnimation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.style")
	defer teardown()
	//
	_, ok := NewNumericAnimation("10px", "2em", 4)
	assert.False(t, ok, "units must match")
	_, ok = NewNumericAnimation("1", "0", 0)
	assert.False(t, ok)
	a, ok := NewNumericAnimation("0", "1.0", 4)
	if !ok {
		t.Fatalf("expected animation to be created")
	}
	var values []string
	for {
		v, more := a.Animate()
		if !more {
			break
		}
		values = append(values, v)
	}
	assert.Equal(t, []string{"0.5", "0.75", "1.0"}, values)
	assert.True(t, a.Done())
	assert.Equal(t, "1.0", a.Target())
	//
	a, _ = NewNumericAnimation("10px", "20px", 2)
	v, _ := a.Animate()
	assert.Equal(t, "20px", v)
}
