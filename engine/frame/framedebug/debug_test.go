package framedebug

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/tyweb/engine/dom"
	"github.com/npillmayer/tyweb/engine/dom/style/css"
	"github.com/npillmayer/tyweb/engine/frame/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphViz(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.layout")
	defer teardown()
	//
	root, err := dom.ParseString(`<p style="background-color: orange">Hello <b>world</b></p>`)
	require.NoError(t, err)
	rules := css.UserAgentStylesheet()
	css.SortByPriority(rules)
	css.Resolve(root, rules, css.Environment{RefreshRate: 33 * time.Millisecond})
	doc := layout.NewDocument(root, nil, nil)
	doc.LayoutFor(800, 1)
	//
	var buf bytes.Buffer
	err = ToGraphViz(doc, &buf, tracing.Select("tyweb.layout"))
	require.NoError(t, err)
	dot := buf.String()
	assert.True(t, strings.HasPrefix(dot, "digraph g {"))
	assert.True(t, strings.HasSuffix(dot, "}\n"))
	assert.Contains(t, dot, `\"Hello\"`)
	assert.Contains(t, dot, `fillcolor="orange"`)
	assert.Contains(t, dot, "node00001 -> node00002")
	assert.Equal(t, 6, strings.Count(dot, " -> "), "document, html, body, p, line, 2 words")
}
