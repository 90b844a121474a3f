package raster

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/npillmayer/tyweb/core/dimen"
	"github.com/npillmayer/tyweb/engine/paint"
)

// Canvas creates an image of the given size, filled with a background color.
func Canvas(width, height int, bg color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	return img
}

// Raster draws a display list onto dst. The list is shifted up by scroll.
func Raster(list []paint.Command, dst *image.RGBA, scroll dimen.Dimen) {
	r := &rasterizer{dy: -scroll.Px()}
	r.draw(list, dst)
	tracer().Debugf("rastered %d commands", paint.Count(list))
}

// rasterizer keeps the accumulated translation of enclosing transforms.
type rasterizer struct {
	dx, dy float64
}

func (r *rasterizer) draw(list []paint.Command, dst *image.RGBA) {
	for _, cmd := range list {
		r.execute(cmd, dst)
	}
}

func (r *rasterizer) execute(cmd paint.Command, dst *image.RGBA) {
	switch c := cmd.(type) {
	case *paint.DrawRect:
		fillRect(dst, r.rect(c.R), c.Color)
	case *paint.DrawRRect:
		r.fillRRect(dst, c.R, c.Radius.Px(), c.Color)
	case *paint.DrawText:
		c.Font.Draw(dst, image.NewUniform(c.Color), c.X.Px()+r.dx, c.Y.Px()+r.dy, c.Text)
	case *paint.DrawLine:
		r.strokeLine(dst, c.From, c.To, c.Thickness.Px(), c.Color)
	case *paint.DrawOutline:
		r.strokeRect(dst, c.R, c.Thickness.Px(), c.Color)
	case *paint.DrawImage:
		if c.Img != nil {
			scaler(c.Quality).Scale(dst, r.rect(c.R), c.Img, c.Img.Bounds(), draw.Over, nil)
		}
	case *paint.Transform:
		dx, dy := r.dx, r.dy
		r.dx += c.Translation.X.Px()
		r.dy += c.Translation.Y.Px()
		r.draw(c.Children(), dst)
		r.dx, r.dy = dx, dy
	case *paint.Blend:
		r.blend(c, dst)
	default:
		tracer().Errorf("cannot raster command %v", cmd)
	}
}

// rect converts a rectangle to device pixels in the current translation.
func (r *rasterizer) rect(rect dimen.Rect) image.Rectangle {
	return image.Rect(
		int(math.Floor(rect.Left().Px()+r.dx)), int(math.Floor(rect.Top().Px()+r.dy)),
		int(math.Ceil(rect.Right().Px()+r.dx)), int(math.Ceil(rect.Bottom().Px()+r.dy)),
	)
}

// scaler selects an image scaler for a value of image-rendering.
func scaler(quality string) draw.Scaler {
	switch quality {
	case "crisp-edges", "pixelated":
		return draw.NearestNeighbor
	case "high-quality":
		return draw.CatmullRom
	}
	return draw.BiLinear
}

// --- Shapes ----------------------------------------------------------------

func fillRect(dst *image.RGBA, r image.Rectangle, c color.NRGBA) {
	draw.Draw(dst, r.Intersect(dst.Bounds()), image.NewUniform(c), image.Point{}, draw.Over)
}

func newPath(dst *image.RGBA) *vector.Rasterizer {
	b := dst.Bounds()
	return vector.NewRasterizer(b.Dx(), b.Dy())
}

func fillPath(dst *image.RGBA, z *vector.Rasterizer, c color.NRGBA) {
	z.DrawOp = draw.Over
	z.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{})
}

// fillRRect fills a rectangle with rounded corners. Corners are quadratic
// curves through the corner point.
func (r *rasterizer) fillRRect(dst *image.RGBA, rect dimen.Rect, radius float64, c color.NRGBA) {
	o := dst.Bounds().Min
	left := float32(rect.Left().Px() + r.dx - float64(o.X))
	top := float32(rect.Top().Px() + r.dy - float64(o.Y))
	right := float32(rect.Right().Px() + r.dx - float64(o.X))
	bottom := float32(rect.Bottom().Px() + r.dy - float64(o.Y))
	if right <= left || bottom <= top {
		return
	}
	rad := float32(math.Min(radius, math.Min(float64(right-left), float64(bottom-top))/2))
	z := newPath(dst)
	z.MoveTo(left+rad, top)
	z.LineTo(right-rad, top)
	z.QuadTo(right, top, right, top+rad)
	z.LineTo(right, bottom-rad)
	z.QuadTo(right, bottom, right-rad, bottom)
	z.LineTo(left+rad, bottom)
	z.QuadTo(left, bottom, left, bottom-rad)
	z.LineTo(left, top+rad)
	z.QuadTo(left, top, left+rad, top)
	z.ClosePath()
	fillPath(dst, z, c)
}

// strokeLine draws a line as a polygon of the given thickness.
func (r *rasterizer) strokeLine(dst *image.RGBA, from, to dimen.Point, thickness float64, c color.NRGBA) {
	o := dst.Bounds().Min
	x0, y0 := from.X.Px()+r.dx-float64(o.X), from.Y.Px()+r.dy-float64(o.Y)
	x1, y1 := to.X.Px()+r.dx-float64(o.X), to.Y.Px()+r.dy-float64(o.Y)
	length := math.Hypot(x1-x0, y1-y0)
	if length == 0 || thickness <= 0 {
		return
	}
	nx, ny := -(y1-y0)/length*thickness/2, (x1-x0)/length*thickness/2
	z := newPath(dst)
	z.MoveTo(float32(x0+nx), float32(y0+ny))
	z.LineTo(float32(x1+nx), float32(y1+ny))
	z.LineTo(float32(x1-nx), float32(y1-ny))
	z.LineTo(float32(x0-nx), float32(y0-ny))
	z.ClosePath()
	fillPath(dst, z, c)
}

// strokeRect draws the border of a rectangle, inside the rectangle.
func (r *rasterizer) strokeRect(dst *image.RGBA, rect dimen.Rect, thickness float64, c color.NRGBA) {
	b := r.rect(rect)
	t := int(math.Max(1, math.Round(thickness)))
	fillRect(dst, image.Rect(b.Min.X, b.Min.Y, b.Max.X, b.Min.Y+t), c)
	fillRect(dst, image.Rect(b.Min.X, b.Max.Y-t, b.Max.X, b.Max.Y), c)
	fillRect(dst, image.Rect(b.Min.X, b.Min.Y+t, b.Min.X+t, b.Max.Y-t), c)
	fillRect(dst, image.Rect(b.Max.X-t, b.Min.Y+t, b.Max.X, b.Max.Y-t), c)
}
