package layout

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/tyweb/core"
	"github.com/npillmayer/tyweb/core/dimen"
	"github.com/npillmayer/tyweb/engine/dom"
	"github.com/npillmayer/tyweb/engine/dom/style"
	"github.com/npillmayer/tyweb/engine/dom/style/css"
	"github.com/npillmayer/tyweb/engine/frame"
	"github.com/npillmayer/tyweb/engine/paint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var env = css.Environment{RefreshRate: 33 * time.Millisecond}

func restyle(root *dom.Node) css.Result {
	rules := css.UserAgentStylesheet()
	css.SortByPriority(rules)
	return css.Resolve(root, rules, env)
}

func setup(t *testing.T, html string) (*dom.Node, *Document) {
	t.Helper()
	root, err := dom.ParseString(html)
	require.NoError(t, err)
	restyle(root)
	doc := NewDocument(root, nil, nil)
	doc.LayoutFor(800, 1)
	return root, doc
}

func find(root *dom.Node, tag string) *dom.Node {
	for _, n := range dom.TreeToList(root) {
		if n.Tag() == tag {
			return n
		}
	}
	return nil
}

func boxes[T frame.Box](doc *Document) []T {
	var result []T
	for _, b := range frame.TreeToList(doc) {
		if x, ok := b.(T); ok {
			result = append(result, x)
		}
	}
	return result
}

func geometries(doc *Document) []frame.Geometry {
	var g []frame.Geometry
	for _, b := range frame.TreeToList(doc) {
		g = append(g, b.Geometry())
	}
	return g
}

func mustPanicWithInvariant(t *testing.T, f func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil || !core.IsInvariantViolation(r) {
			t.Errorf("expected invariant violation, got %v", r)
		}
	}()
	f()
}

func TestBlockStacking(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.layout")
	defer teardown()
	//
	root, doc := setup(t, `<html><body><div><img width="10" height="20"></div>`+
		`<div><img width="10" height="30"></div></body></html>`)
	var divs []*Block
	for _, b := range boxes[*Block](doc) {
		if b.DOMNode().Tag() == "div" {
			divs = append(divs, b)
		}
	}
	require.Len(t, divs, 2)
	assert.Equal(t, dimen.Dimen(20), divs[0].Height().Get())
	assert.Equal(t, dimen.Dimen(30), divs[1].Height().Get())
	assert.Equal(t, divs[0].Y().Get()+20, divs[1].Y().Get())
	assert.Equal(t, dimen.Dimen(50), doc.Height().Get())
	assert.Equal(t, dimen.Dimen(13), doc.X().Get())
	assert.Equal(t, dimen.Dimen(18), doc.Y().Get())
	assert.Equal(t, dimen.Dimen(800-26), doc.Width().Get())
	assert.Equal(t, frame.BlockMode, doc.child.Mode())
	assert.Equal(t, frame.InlineMode, divs[0].Mode())
	assert.NotNil(t, find(root, "head"), "head is part of the content tree")
}

func TestLayoutIsIdempotent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.layout")
	defer teardown()
	//
	_, doc := setup(t, `<p>Hello <b>bold</b> world</p><p>second paragraph</p>`)
	before := geometries(doc)
	assert.False(t, doc.LayoutNeeded())
	doc.Layout()
	doc.LayoutFor(800, 1)
	if diff := cmp.Diff(before, geometries(doc)); diff != "" {
		t.Errorf("geometry changed on second layout: %s", diff)
	}
	for _, b := range frame.TreeToList(doc) {
		assert.False(t, b.LayoutNeeded(), "%v needs layout", b)
	}
	assert.NoError(t, frame.Check(doc))
}

func TestInlineLayout(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.layout")
	defer teardown()
	//
	_, doc := setup(t, `<p>Hello world</p>`)
	texts := boxes[*Text](doc)
	require.Len(t, texts, 2)
	hello, world := texts[0], texts[1]
	assert.Equal(t, "Hello", hello.Word())
	assert.Equal(t, doc.X().Get(), hello.X().Get())
	tc := hello.Font().Get()
	expected := hello.X().Get() + hello.Width().Get() + dimen.Dimen(tc.SpaceWidth())
	assert.InDelta(t, float64(expected), float64(world.X().Get()), 1e-6)
	assert.Equal(t, hello.Y().Get(), world.Y().Get())
	assert.Less(t, float64(hello.Ascent().Get()), 0.0)
	assert.InDelta(t, tc.Metrics().LineSpace()*LineHeightFactor, hello.Height().Get().Px(), 1e-9)
	lines := boxes[*Line](doc)
	require.Len(t, lines, 1)
	line := lines[0]
	assert.Equal(t, -hello.Ascent().Get(), line.Ascent().Get())
	assert.Equal(t, line.Ascent().Get()+line.Descent().Get(), line.Height().Get())
	assert.Equal(t, line.Y().Get()+line.Ascent().Get()+hello.Ascent().Get()/LineHeightFactor,
		hello.Y().Get())
}

func TestLineWrapping(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.layout")
	defer teardown()
	//
	_, doc := setup(t, `<p>`+strings.Repeat("word ", 10)+`</p>`)
	assert.Len(t, boxes[*Line](doc), 1)
	doc.LayoutFor(150, 1)
	lines := boxes[*Line](doc)
	assert.Greater(t, len(lines), 1)
	for i := 1; i < len(lines); i++ {
		assert.Equal(t, lines[i-1].Y().Get()+lines[i-1].Height().Get(), lines[i].Y().Get())
	}
	for _, txt := range boxes[*Text](doc) {
		assert.LessOrEqual(t, float64(txt.X().Get()+txt.Width().Get()),
			float64(doc.X().Get()+doc.Width().Get())+1e-6)
	}
	assert.Len(t, boxes[*Text](doc), 10)
}

func TestIncrementalRelayout(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.layout")
	defer teardown()
	//
	root, doc := setup(t, `<div><span>Hello</span> world</div><p>unrelated</p>`)
	texts := boxes[*Text](doc)
	require.Len(t, texts, 3)
	hello, world := texts[0], texts[1]
	require.Equal(t, "Hello", hello.Word())
	var p *Block
	for _, b := range boxes[*Block](doc) {
		if b.DOMNode().Tag() == "p" {
			p = b
		}
	}
	require.NotNil(t, p)
	pX, pY := p.X(), p.Y().Get()
	line, ok := hello.Parent().(*Line)
	require.True(t, ok)
	width, ascent, descent := hello.Width().Get(), hello.Ascent().Get(), hello.Descent().Get()
	lineHeight, worldX := line.Height().Get(), world.X().Get()
	//
	// marking without a change of value keeps the geometry
	hello.Font().Mark()
	assert.True(t, hello.Font().Dirty())
	assert.False(t, hello.Width().Dirty(), "dependents are marked by recomputation only")
	assert.True(t, line.LayoutNeeded())
	assert.True(t, doc.LayoutNeeded())
	doc.Layout()
	assert.Equal(t, width, hello.Width().Get())
	assert.False(t, doc.LayoutNeeded())
	//
	// restyling the span recomputes its run and line only
	find(root, "span").SetAttr("style", "font-size: 40px")
	restyle(root)
	assert.True(t, hello.Font().Dirty())
	assert.False(t, pX.Dirty())
	assert.False(t, p.LayoutNeeded())
	doc.LayoutFor(800, 1)
	assert.Same(t, hello, boxes[*Text](doc)[0], "text boxes must be kept")
	assert.Greater(t, float64(hello.Width().Get()), float64(width))
	assert.Less(t, float64(hello.Ascent().Get()), float64(ascent))
	assert.Greater(t, float64(hello.Descent().Get()), float64(descent))
	assert.Greater(t, float64(line.Height().Get()), float64(lineHeight))
	assert.Greater(t, float64(world.X().Get()), float64(worldX))
	assert.Same(t, pX, p.X(), "unrelated block keeps its x field")
	assert.False(t, pX.Dirty())
	assert.Equal(t, doc.X().Get(), pX.Get())
	assert.Greater(t, float64(p.Y().Get()), float64(pY), "block moves down with the taller line")
	assert.False(t, doc.LayoutNeeded())
	assert.NoError(t, frame.Check(doc))
}

func TestStyleChanges(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.layout")
	defer teardown()
	//
	root, doc := setup(t, `<p>Hello world</p>`)
	p := find(root, "p")
	height := doc.Height().Get()
	p.SetAttr("style", "color: red")
	restyle(root)
	assert.False(t, doc.LayoutNeeded(), "color does not affect layout")
	//
	p.SetAttr("style", "font-size: 32px")
	restyle(root)
	assert.True(t, doc.LayoutNeeded())
	doc.Layout()
	assert.Greater(t, float64(doc.Height().Get()), float64(height))
	assert.NoError(t, frame.Check(doc))
}

func TestContentMutation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.layout")
	defer teardown()
	//
	root, doc := setup(t, `<p>one</p>`)
	require.Len(t, boxes[*Text](doc), 1)
	text := find(root, "p").Children()[0]
	text.SetText("one two three")
	assert.True(t, doc.LayoutNeeded())
	doc.Layout()
	texts := boxes[*Text](doc)
	require.Len(t, texts, 3)
	assert.Equal(t, "three", texts[2].Word())
}

func TestZoom(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.layout")
	defer teardown()
	//
	_, doc := setup(t, `<p><input value="x"></p>`)
	inputs := boxes[*Input](doc)
	require.Len(t, inputs, 1)
	assert.Equal(t, dimen.Dimen(200), inputs[0].Width().Get())
	doc.LayoutFor(800, 2)
	assert.Equal(t, dimen.Dimen(26), doc.X().Get())
	assert.Equal(t, dimen.Dimen(36), doc.Y().Get())
	inputs = boxes[*Input](doc)
	require.Len(t, inputs, 1)
	assert.Equal(t, dimen.Dimen(400), inputs[0].Width().Get())
	assert.Equal(t, "x", inputs[0].Label())
}

func TestImageSizes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.layout")
	defer teardown()
	//
	root, err := dom.ParseString(`<p><img id="a" width="50"><img id="b" height="10"><img id="c"></p>`)
	require.NoError(t, err)
	for _, n := range dom.TreeToList(root) {
		if n.Tag() == "img" {
			n.SetImage(&dom.Image{Width: 100, Height: 50})
		}
	}
	restyle(root)
	doc := NewDocument(root, nil, nil)
	doc.LayoutFor(800, 1)
	imgs := boxes[*Image](doc)
	require.Len(t, imgs, 3)
	assert.Equal(t, dimen.Dimen(50), imgs[0].Width().Get())
	assert.Equal(t, dimen.Dimen(25), imgs[0].imgHeight)
	assert.Equal(t, dimen.Dimen(20), imgs[1].Width().Get())
	assert.Equal(t, dimen.Dimen(100), imgs[2].Width().Get())
	assert.Equal(t, dimen.Dimen(50), imgs[2].Height().Get())
	for _, img := range imgs {
		assert.Equal(t, -img.Height().Get(), img.Ascent().Get())
		assert.Equal(t, dimen.Dimen(0), img.Descent().Get())
	}
}

// --- Iframes ---------------------------------------------------------------

type hostedFrame struct {
	doc           *Document
	width, height dimen.Dimen
	scroll        dimen.Dimen
}

func (f *hostedFrame) Loaded() bool                 { return true }
func (f *hostedFrame) SetViewport(w, h dimen.Dimen) { f.width, f.height = w, h }
func (f *hostedFrame) Document() *Document          { return f.doc }
func (f *hostedFrame) IsRoot() bool                 { return false }
func (f *hostedFrame) Scroll() dimen.Dimen          { return f.scroll }

func TestIframePropagation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.layout")
	defer teardown()
	//
	inner, err := dom.ParseString(`<p>inner</p>`)
	require.NoError(t, err)
	restyle(inner)
	hosted := &hostedFrame{}
	hosted.doc = NewDocument(inner, hosted, nil)
	//
	outer, err := dom.ParseString(`<p><iframe src="inner.html" width="100" height="50"></iframe></p>`)
	require.NoError(t, err)
	restyle(outer)
	iframe := find(outer, "iframe")
	iframe.SetFrame(hosted)
	doc := NewDocument(outer, nil, nil)
	doc.LayoutFor(800, 1)
	assert.Equal(t, dimen.Dimen(100), hosted.width)
	assert.Equal(t, dimen.Dimen(50), hosted.height)
	hosted.doc.LayoutFor(hosted.width, 1)
	assert.Equal(t, dimen.Dimen(100-26), hosted.doc.Width().Get())
	//
	iframe.SetAttr("width", "200")
	doc.Layout()
	assert.True(t, hosted.doc.Width().Dirty(), "iframe must invalidate hosted document width")
	hosted.doc.LayoutFor(hosted.width, 1)
	assert.Equal(t, dimen.Dimen(200-26), hosted.doc.Width().Get())
	//
	list := DisplayList(doc)
	var words []string
	paint.Walk(list, func(cmd paint.Command, _ int) bool {
		if dt, ok := cmd.(*paint.DrawText); ok {
			words = append(words, dt.Text)
		}
		return true
	})
	assert.Equal(t, []string{"inner"}, words, "hosted document is stitched into display list")
}

func TestMarkWidthDuringLayout(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.layout")
	defer teardown()
	//
	_, doc := setup(t, `<p>x</p>`)
	doc.inLayout = true
	mustPanicWithInvariant(t, doc.MarkWidth)
	doc.inLayout = false
	doc.MarkWidth()
	assert.True(t, doc.LayoutNeeded())
}

// --- Painting --------------------------------------------------------------

func TestPaintTree(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.layout")
	defer teardown()
	//
	root, doc := setup(t, `<div style="background-color: orange; opacity: 0.5">Hello</div>`+
		`<p style="overflow: clip">clip</p>`)
	list := DisplayList(doc)
	require.NotEmpty(t, list)
	var rrects, texts int
	paint.Walk(list, func(cmd paint.Command, _ int) bool {
		switch cmd.(type) {
		case *paint.DrawRRect:
			rrects++
		case *paint.DrawText:
			texts++
		}
		return true
	})
	assert.Equal(t, 2, rrects, "background and clip mask")
	assert.Equal(t, 2, texts)
	div := find(root, "div")
	blend, ok := doc.Blend(div)
	require.True(t, ok)
	assert.Equal(t, 0.5, blend.Opacity)
	assert.True(t, blend.ShouldSave())
	p := find(root, "p")
	clip, ok := doc.Blend(p)
	require.True(t, ok)
	require.Len(t, clip.Children(), 1)
	inner, ok := clip.Children()[0].(*paint.Blend)
	require.True(t, ok)
	assert.Equal(t, paint.SourceOver, inner.Mode)
	assert.Nil(t, inner.Node, "clip wrappers are not subject to composited updates")
}

func TestAbsoluteBounds(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.layout")
	defer teardown()
	//
	root, doc := setup(t, `<div style="transform: translate(10px, 20px)"><p>moved</p></div>`)
	pnode := find(root, "p")
	var p frame.Box
	for _, b := range boxes[*Block](doc) {
		if b.DOMNode() == pnode {
			p = b
		}
	}
	require.NotNil(t, p)
	r := AbsoluteBounds(p)
	assert.Equal(t, p.Geometry().Rect().Offset(10, 20), r)
	assert.Equal(t, style.Property("none"), pnode.Style().Get(style.Transform))
}

func TestFocusedInputPaintsCursor(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.layout")
	defer teardown()
	//
	root, doc := setup(t, `<p><input value="abc"></p>`)
	in := find(root, "input")
	in.SetFocused(true)
	restyle(root)
	doc.Layout()
	var lines []*paint.DrawLine
	var outlines int
	paint.Walk(DisplayList(doc), func(cmd paint.Command, _ int) bool {
		switch c := cmd.(type) {
		case *paint.DrawLine:
			lines = append(lines, c)
		case *paint.DrawOutline:
			outlines++
		}
		return true
	})
	require.Len(t, lines, 1)
	assert.Equal(t, paint.Red, lines[0].Color)
	assert.Equal(t, 1, outlines, "focused input has an outline")
}
