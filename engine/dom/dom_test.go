package dom

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/tyweb/engine/dom/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type layoutSpy struct {
	changes int
}

func (spy *layoutSpy) ContentChanged() {
	spy.changes++
}

func TestParse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.dom")
	defer teardown()
	//
	root, err := ParseString(`<!DOCTYPE html><p class="x">Hello <b>World</b></p>
	<!-- comment --><img src="a.png" width="10">`)
	require.NoError(t, err)
	assert.Equal(t, "html", root.Tag())
	list := TreeToList(root)
	var tags []string
	for _, n := range list {
		if n.IsElement() {
			tags = append(tags, n.Tag())
		} else {
			tags = append(tags, n.Text())
		}
	}
	assert.Equal(t, []string{"html", "head", "body", "p", "Hello ", "b", "World", "img"}, tags)
	p := list[3]
	assert.Equal(t, "x", p.AttrOr("class", ""))
	assert.Equal(t, list[2], p.Parent())
	img := list[7]
	w, ok := img.Attr("width")
	assert.True(t, ok)
	assert.Equal(t, "10", w)
	assert.False(t, img.HasAttr("height"))
	assert.Equal(t, "<img>", img.String())
	assert.Equal(t, `"World"`, list[6].String())
	assert.Equal(t, p, list[6].Ancestor("p"))
}

func TestBuildTree(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.dom")
	defer teardown()
	//
	body := NewElement("BODY", map[string]string{"id": "b", "class": "c"})
	txt := NewText("hi")
	body.AppendChild(txt)
	assert.Equal(t, "body", body.Tag())
	assert.Equal(t, body, txt.Parent())
	assert.Equal(t, body.HTMLNode(), txt.HTMLNode().Parent)
	assert.Equal(t, "c", body.HTMLNode().Attr[0].Val)
	assert.Panics(t, func() { body.AppendChild(txt) })
}

func TestMutationsNotifyLayout(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.dom")
	defer teardown()
	//
	div := NewElement("div", nil)
	span := NewElement("span", nil)
	txt := NewText("abc")
	div.AppendChild(span)
	span.AppendChild(txt)
	spy := &layoutSpy{}
	div.SetLayoutObject(spy)
	txt.SetText("abc")
	assert.Equal(t, 0, spy.changes, "unchanged text must not notify")
	txt.SetText("abcd")
	assert.Equal(t, 1, spy.changes)
	span.SetAttr("title", "x")
	assert.Equal(t, 2, spy.changes)
	span.SetAttr("title", "x")
	assert.Equal(t, 2, spy.changes)
	assert.Equal(t, "abcd", txt.Text())
}

func TestStyleInvalidation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.dom")
	defer teardown()
	//
	div := NewElement("div", nil)
	input := NewElement("input", nil)
	div.AppendChild(input)
	div.InitStyle()
	fs := input.InitStyle()
	assert.Same(t, fs, input.InitStyle())
	for _, n := range []*Node{div, input} {
		for _, pd := range style.Properties() {
			n.Style().Field(pd.Name).Set(pd.Initial)
		}
	}
	input.SetFocused(true)
	assert.True(t, input.Focused())
	assert.True(t, fs.Dirty(), "focus change must dirty style")
	for _, pd := range style.Properties() {
		fs.Field(pd.Name).Set(pd.Initial)
	}
	input.SetAttr("value", "x")
	assert.False(t, fs.Dirty())
	input.SetAttr("style", "color: red")
	assert.True(t, fs.Dirty())
}

func TestAnimations(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.dom")
	defer teardown()
	//
	n := NewElement("div", nil)
	a, _ := style.NewNumericAnimation("0", "1", 4)
	b, _ := style.NewNumericAnimation("1px", "2px", 4)
	n.SetAnimation("opacity", a)
	n.SetAnimation("font-size", b)
	assert.Equal(t, []string{"font-size", "opacity"}, n.AnimatedProperties())
	got, ok := n.Animation("opacity")
	assert.True(t, ok)
	assert.Same(t, a, got)
	n.SetAnimation("opacity", nil)
	assert.Equal(t, []string{"font-size"}, n.AnimatedProperties())
}
