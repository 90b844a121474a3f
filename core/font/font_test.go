package font

import (
	"image"
	"image/color"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xfont "golang.org/x/image/font"
)

func TestFallbackTypeCase(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.font")
	defer teardown()
	//
	f := FallbackFont()
	require.NotNil(t, f)
	assert.Equal(t, "Go Sans", f.Fontname)
	tc, err := f.PrepareCase(12.0)
	require.NoError(t, err)
	m := tc.Metrics()
	if m.Ascent >= 0 {
		t.Errorf("expected ascent to be negative, is %g", m.Ascent)
	}
	if m.Descent <= 0 {
		t.Errorf("expected descent to be positive, is %g", m.Descent)
	}
	assert.Equal(t, m.Descent-m.Ascent, m.LineSpace())
	t.Logf("interline spacing for [%s]@%.1fpx is %g", f.Fontname, tc.Size(), m.LineSpace())
}

func TestMeasure(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.font")
	defer teardown()
	//
	tc, err := FallbackFont().PrepareCase(16.0)
	require.NoError(t, err)
	w1 := tc.Measure("Hello")
	w2 := tc.Measure("Hello World")
	assert.Greater(t, w1, 0.0)
	assert.Greater(t, w2, w1)
	assert.Greater(t, tc.SpaceWidth(), 0.0)
	big, _ := FallbackFont().PrepareCase(32.0)
	assert.Greater(t, big.Measure("Hello"), w1)
}

func TestGoFontVariants(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.font")
	defer teardown()
	//
	assert.Equal(t, "Go Sans Bold", GoFont(xfont.StyleNormal, xfont.WeightBold).Fontname)
	assert.Equal(t, "Go Sans Italic", GoFont(xfont.StyleItalic, xfont.WeightNormal).Fontname)
	assert.Equal(t, "Go Sans Bold Italic", GoFont(xfont.StyleOblique, xfont.WeightBlack).Fontname)
	assert.Same(t, GoFont(xfont.StyleNormal, xfont.WeightNormal), FallbackFont())
}

func TestSizeClamping(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.font")
	defer teardown()
	//
	tc, err := FallbackFont().PrepareCase(0)
	require.NoError(t, err)
	assert.Equal(t, MinSize, tc.Size())
}

func TestDrawText(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.font")
	defer teardown()
	//
	tc, _ := FallbackFont().PrepareCase(20.0)
	img := image.NewRGBA(image.Rect(0, 0, 100, 40))
	tc.Draw(img, image.NewUniform(color.Black), 2, 2, "Xy")
	inked := false
	for _, p := range img.Pix {
		if p != 0 {
			inked = true
			break
		}
	}
	assert.True(t, inked, "expected text to leave ink on image")
}
