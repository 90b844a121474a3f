package raster

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"github.com/npillmayer/tyweb/engine/paint"
)

// blend draws the children of a blend effect. Effects which need a layer
// are drawn into an offscreen image of the size of dst first.
func (r *rasterizer) blend(b *paint.Blend, dst *image.RGBA) {
	if !b.ShouldSave() {
		r.draw(b.Children(), dst)
		return
	}
	layer := image.NewRGBA(dst.Bounds())
	r.draw(b.Children(), layer)
	composite(dst, layer, b.Mode, b.Opacity)
}

// composite draws a layer onto dst, with opacity as a uniform mask.
// src must have the bounds of dst.
func composite(dst, src *image.RGBA, mode string, opacity float64) {
	opacity = math.Max(0, math.Min(1, opacity))
	switch mode {
	case paint.DestinationIn:
		destinationIn(dst, src, opacity)
	case paint.Multiply, paint.Difference:
		separable(dst, src, mode, opacity)
	default:
		mask := image.NewUniform(color.Alpha{A: uint8(math.Round(opacity * 255))})
		draw.DrawMask(dst, dst.Bounds(), src, src.Bounds().Min, mask, image.Point{}, draw.Over)
	}
}

// destinationIn keeps dst where src is opaque.
func destinationIn(dst, src *image.RGBA, opacity float64) {
	b := dst.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			a := float64(src.Pix[src.PixOffset(x, y)+3]) / 255 * opacity
			i := dst.PixOffset(x, y)
			for k := 0; k < 4; k++ {
				dst.Pix[i+k] = uint8(float64(dst.Pix[i+k])*a + 0.5)
			}
		}
	}
}

// separable implements the blend modes multiply and difference on
// premultiplied colors.
func separable(dst, src *image.RGBA, mode string, opacity float64) {
	mix := func(s, d float64) float64 { return s * d }
	if mode == paint.Difference {
		mix = func(s, d float64) float64 { return math.Abs(s - d) }
	}
	b := dst.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			j := src.PixOffset(x, y)
			srcA := float64(src.Pix[j+3]) / 255
			sa := srcA * opacity
			if sa == 0 {
				continue
			}
			i := dst.PixOffset(x, y)
			da := float64(dst.Pix[i+3]) / 255
			for k := 0; k < 3; k++ {
				s := float64(src.Pix[j+k]) / 255 / srcA
				d := 0.0
				if da > 0 {
					d = float64(dst.Pix[i+k]) / 255 / da
				}
				c := (1-da)*s + da*mix(s, d)
				out := sa*c + (1-sa)*float64(dst.Pix[i+k])/255
				dst.Pix[i+k] = uint8(math.Round(math.Min(1, out) * 255))
			}
			dst.Pix[i+3] = uint8(math.Round((sa + da*(1-sa)) * 255))
		}
	}
}
