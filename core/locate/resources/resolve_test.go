package resources

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/tyweb/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodedPNG(t *testing.T, w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestResolveImage(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.resources")
	defer teardown()
	//
	promise := ResolveImage("pixel.png", encodedPNG(t, 7, 3))
	img, err := promise.Image()
	require.NoError(t, err)
	assert.Equal(t, 7, img.Bounds().Dx())
	assert.Equal(t, 3, img.Bounds().Dy())
}

func TestResolveBrokenImage(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.resources")
	defer teardown()
	//
	img, err := ResolveImage("broken.png", []byte("no image at all")).Image()
	assert.Equal(t, core.EINVALID, core.Code(err))
	require.NotNil(t, img)
	assert.Equal(t, PlaceholderSize, img.Bounds().Dx())
	//
	img, err = ResolveImage("empty.png", nil).Await(context.Background())
	assert.Equal(t, core.EMISSING, core.Code(err))
	assert.Equal(t, PlaceholderSize, img.Bounds().Dy())
}
