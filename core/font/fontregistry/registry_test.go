package fontregistry

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/tyweb/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xfont "golang.org/x/image/font"
)

type sw struct {
	s xfont.Style
	w xfont.Weight
}

func TestGuess(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.font")
	defer teardown()
	//
	for k, v := range map[string]sw{
		"fonts/Clarendon-bold.ttf":               {xfont.StyleNormal, xfont.WeightBold},
		"Microsoft/Gill Sans MT Bold Italic.ttf": {xfont.StyleItalic, xfont.WeightBold},
		"Cambria Math.ttf":                       {xfont.StyleNormal, xfont.WeightNormal},
	} {
		style, weight := GuessStyleAndWeight(k)
		t.Logf("style = %d, weight = %d", style, weight)
		if style != v.s || weight != v.w {
			t.Errorf("expected different style or weight for %s", k)
		}
	}
}

func TestMatch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.font")
	defer teardown()
	//
	if !Matches("fonts/Clarendon-bold.ttf",
		"clarendon", xfont.StyleNormal, xfont.WeightBold) {
		t.Errorf("expected match for Clarendon, haven't")
	}
	if !Matches("Microsoft/Gill Sans MT Bold Italic.ttf",
		"gill sans", xfont.StyleItalic, xfont.WeightBold) {
		t.Errorf("expected match for Gill, haven't")
	}
	if Matches("Cambria Math.ttf",
		"cambria", xfont.StyleItalic, xfont.WeightNormal) {
		t.Errorf("expected no match for italic Cambria Math")
	}
}

func TestNormalizeFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.font")
	defer teardown()
	//
	n := NormalizeFontname("Clarendon", xfont.StyleItalic, xfont.WeightBold)
	if n != "clarendon-italic-bold" {
		t.Errorf("expected different normalized name for clarendon, is %s", n)
	}
}

func TestResolveIsCached(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.font")
	defer teardown()
	//
	fr := NewRegistry()
	t1, err := fr.Resolve("Go", xfont.StyleNormal, xfont.WeightBold, 12)
	require.NoError(t, err)
	t2, err := fr.Resolve("Go", xfont.StyleNormal, xfont.WeightBold, 12)
	require.NoError(t, err)
	assert.Same(t, t1, t2)
	assert.Equal(t, "Go Sans Bold", t1.ScalableFontParent().Fontname)
	t3, _ := fr.Resolve("Go", xfont.StyleNormal, xfont.WeightBold, 13)
	assert.NotSame(t, t1, t3)
}

func TestResolveUnknownFamily(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.font")
	defer teardown()
	//
	fr := NewRegistry()
	searches := 0
	fr.systemFonts = func() []string {
		searches++
		return []string{"/usr/share/fonts/Other-Regular.ttf"}
	}
	t1, err := fr.Resolve("Nonexisting Sans", xfont.StyleItalic, xfont.WeightNormal, 10)
	require.NotNil(t, t1)
	assert.Equal(t, core.EMISSING, core.Code(err))
	assert.Equal(t, "Go Sans Italic", t1.ScalableFontParent().Fontname)
	t2, err := fr.Resolve("Nonexisting Sans", xfont.StyleItalic, xfont.WeightNormal, 10)
	assert.NoError(t, err)
	assert.Same(t, t1, t2)
	assert.Equal(t, 1, searches)
}

func TestTypeCaseFallback(t *testing.T) {
	fr := NewRegistry()
	tc, err := fr.TypeCase("unknown", 11)
	assert.Error(t, err)
	require.NotNil(t, tc)
	assert.Equal(t, 11.0, tc.Size())
}

func TestCSSConversion(t *testing.T) {
	assert.Equal(t, xfont.WeightBold, WeightFromCSS("bold"))
	assert.Equal(t, xfont.WeightBold, WeightFromCSS("700"))
	assert.Equal(t, xfont.WeightNormal, WeightFromCSS("400"))
	assert.Equal(t, xfont.WeightNormal, WeightFromCSS("heavy-ish"))
	assert.Equal(t, xfont.StyleItalic, StyleFromCSS("italic"))
	assert.Equal(t, xfont.StyleNormal, StyleFromCSS("normal"))
}
