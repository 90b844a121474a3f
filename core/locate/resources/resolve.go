package resources

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder

	"github.com/npillmayer/tyweb/core"
	_ "golang.org/x/image/bmp" // register BMP decoder
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

type resourceType int

// resource types
const (
	unknownResourceType resourceType = iota
	fontResourceType
	imageResourceType
)

// NotFound returns an application error for a missing resource.
func NotFound(res string, rtype resourceType) error {
	e := fmt.Errorf("resouce missing: %v", res)
	var s string
	switch rtype {
	case imageResourceType:
		s = fmt.Sprintf("image not found: %s, loaded placeholder image instead", res)
	case fontResourceType:
		s = fmt.Sprintf("font not found: %s", res)
	default:
		s = fmt.Sprintf("resource not found: %s", res)
	}
	err := core.WrapError(e, core.EMISSING, s)
	return err
}

// --- Images ---------------------------------------------------------------

type imgPlusErr struct {
	img image.Image
	err error
}

// ResolveImage decodes the encoded data of an image resource in the background.
// Supported formats are PNG, JPEG, GIF, BMP and WebP.
//
// If data is empty or cannot be decoded, the promise will deliver a placeholder
// image together with an error.
func ResolveImage(name string, data []byte) ImagePromise {
	ch := make(chan imgPlusErr, 1)
	go func(ch chan<- imgPlusErr) {
		result := imgPlusErr{}
		if len(data) == 0 {
			result.img, result.err = Placeholder(), NotFound(name, imageResourceType)
		} else if img, format, err := image.Decode(bytes.NewReader(data)); err != nil {
			tracer().Errorf("failed to recognize image format for %s", name)
			result.img = Placeholder()
			result.err = core.WrapError(err, core.EINVALID, "cannot decode image %s", name)
		} else {
			tracer().Debugf("decoded %s image %s", format, name)
			result.img = img
		}
		ch <- result
		close(ch)
	}(ch)
	return imageLoader{
		await: func(ctx context.Context) (image.Image, error) {
			select {
			case <-ctx.Done():
				return Placeholder(), ctx.Err()
			case r := <-ch:
				return r.img, r.err
			}
		},
	}
}

// ImagePromise is a handle for an image resolved in the background.
type ImagePromise interface {
	Image() (image.Image, error)
	Await(ctx context.Context) (image.Image, error)
}

type imageLoader struct {
	await func(ctx context.Context) (image.Image, error)
}

func (loader imageLoader) Image() (image.Image, error) {
	return loader.await(context.Background())
}

func (loader imageLoader) Await(ctx context.Context) (image.Image, error) {
	return loader.await(ctx)
}

// PlaceholderSize is the edge length of the broken-image placeholder.
const PlaceholderSize = 24

// Placeholder returns an image to be displayed instead of images which
// could not be loaded: a grey square with a red diagonal cross.
func Placeholder() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, PlaceholderSize, PlaceholderSize))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Gray{0xd0}), image.Point{}, draw.Src)
	red := color.RGBA{0xff, 0, 0, 0xff}
	for i := 2; i < PlaceholderSize-2; i++ {
		img.Set(i, i, red)
		img.Set(PlaceholderSize-1-i, i, red)
	}
	return img
}
