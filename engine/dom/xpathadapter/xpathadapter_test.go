package xpathadapter

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/tyweb/engine/dom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var page = `<html><head>
<link rel="stylesheet" href="a.css">
<link rel="icon" href="x.ico">
</head><body>
<p>Hello <img src="1.png"></p>
<iframe src="inner.html"></iframe><iframe></iframe>
<img src="2.png">
</body></html>`

func TestSelectSubresources(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.dom")
	defer teardown()
	//
	root, err := dom.ParseString(page)
	require.NoError(t, err)
	links, err := Select(root, "//link[@rel='stylesheet'][@href]")
	require.NoError(t, err)
	if assert.Len(t, links, 1) {
		assert.Equal(t, "a.css", links[0].AttrOr("href", ""))
	}
	imgs, err := Select(root, "//img")
	require.NoError(t, err)
	if assert.Len(t, imgs, 2) {
		assert.Equal(t, "1.png", imgs[0].AttrOr("src", ""))
		assert.Equal(t, "2.png", imgs[1].AttrOr("src", ""))
	}
	frames, err := Select(root, "//iframe[@src]")
	require.NoError(t, err)
	assert.Len(t, frames, 1)
	body, err := Select(root, "/html/body")
	require.NoError(t, err)
	if assert.Len(t, body, 1) {
		assert.Equal(t, "body", body[0].Tag())
	}
	_, err = Select(root, "//[")
	assert.Error(t, err)
}

func TestNavigator(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.dom")
	defer teardown()
	//
	root, err := dom.ParseString("<p>a</p><p>b</p>")
	require.NoError(t, err)
	nav := NewNavigator(root)
	assert.Equal(t, "ab", nav.Value())
	assert.True(t, nav.MoveToChild()) // html
	assert.Equal(t, "html", nav.LocalName())
	assert.True(t, nav.MoveToChild()) // head
	assert.True(t, nav.MoveToNext())  // body
	assert.Equal(t, "body", nav.LocalName())
	assert.False(t, nav.MoveToNext())
	assert.True(t, nav.MoveToChild())
	assert.True(t, nav.MoveToNext())
	assert.Equal(t, "b", nav.Value())
	assert.True(t, nav.MoveToPrevious())
	assert.Equal(t, "a", nav.Value())
	assert.False(t, nav.MoveToPrevious())
	c := nav.Copy()
	assert.True(t, nav.MoveToParent())
	assert.Equal(t, "body", nav.LocalName())
	assert.True(t, nav.MoveTo(c))
	assert.Equal(t, "p", nav.LocalName())
	nav.MoveToRoot()
	n, _ := CurrentNode(nav)
	assert.Nil(t, n)
	assert.False(t, nav.MoveToParent())
}
