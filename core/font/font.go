/*
Package font is for typeface and font handling.

There is a certain confusion in the nomenclature of typesetting. We will
stick to the following definitions:

* A "typeface" is a family of fonts. An example is "Helvetica".
This corresponds to a TrueType "collection" (*.ttc).

* A "scalable font" is a font, i.e. a variant of a typeface with a
certain weight, slant, etc.  An example is "Helvetica regular".

* A "typecase" is a scaled font, i.e. a font in a certain size.
The name is reminiscend on the wooden boxes of typesetters in the aera
of metal type. An example is "Helvetica regular 12px".

Please note that Go (Golang) does use the terms "font" and "face"
differently–actually more or less in an opposite manner.

For a web page, type cases measure words and report the vertical metrics
of a line of text. Sizes are given in pixels, i.e. fonts are prepared
at 72 DPI, where one point equals one pixel.

----------------------------------------------------------------------

BSD License

Copyright (c) 2017-21, Norbert Pillmayer

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions
are met:

1. Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright
notice, this list of conditions and the following disclaimer in the
documentation and/or other materials provided with the distribution.

3. Neither the name of this software nor the names of its contributors
may be used to endorse or promote products derived from this software
without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
(INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE. */
package font

import (
	"image"
	"image/draw"
	"os"
	"sync"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/tyweb/core"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// tracer traces with key 'tyweb.font'.
func tracer() tracing.Trace {
	return tracing.Select("tyweb.font")
}

// ScalableFont is a font variant, i.e. a typeface with a fixed style and weight.
type ScalableFont struct {
	Fontname string
	Filepath string     // file path
	Binary   []byte     // raw data
	SFNT     *sfnt.Font // the font's container
}

// TypeCase is a font at a certain size.
//
// Faces of golang.org/x/image are not safe for concurrent use. TypeCase
// serializes access to its face, as type cases are cached application-wide
// and may be shared between tabs.
type TypeCase struct {
	sync.Mutex
	scalableFontParent *ScalableFont
	face               xfont.Face // Go uses 'face' and 'font' in an inverse manner
	size               float64
	metrics            Metrics
	space              float64
}

// Metrics holds the vertical metrics of a type case, in pixels.
//
// Ascent is negative, i.e. measured upwards from the baseline. Descent is
// positive. This follows the conventions of most drawing libraries for the web.
type Metrics struct {
	Ascent  float64
	Descent float64
}

// LineSpace is the distance between two baselines.
func (m Metrics) LineSpace() float64 {
	return m.Descent - m.Ascent
}

// LoadOpenTypeFont loads a font from a file.
func LoadOpenTypeFont(fontfile string) (*ScalableFont, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, core.WrapError(err, core.EMISSING, "cannot read font file %s", fontfile)
	}
	f, err := ParseOpenTypeFont(bytez)
	if err == nil {
		f.Filepath = fontfile
	}
	return f, err
}

// ParseOpenTypeFont parses the binary data of an OpenType font.
func ParseOpenTypeFont(fbytes []byte) (f *ScalableFont, err error) {
	f = &ScalableFont{Binary: fbytes}
	f.SFNT, err = sfnt.Parse(f.Binary)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot parse font")
	}
	f.Fontname, _ = f.SFNT.Name(nil, sfnt.NameIDFull)
	return
}

// Sizes outside this range are clamped.
const (
	MinSize = 1.0
	MaxSize = 1000.0
)

// PrepareCase creates a type case for a font at a given pixel size.
func (sf *ScalableFont) PrepareCase(fontsize float64) (*TypeCase, error) {
	typecase := &TypeCase{}
	typecase.scalableFontParent = sf
	if fontsize < MinSize || fontsize > MaxSize {
		tracer().Errorf("font size must be %g < size < %g, is %g (clamped)", MinSize, MaxSize, fontsize)
		if fontsize < MinSize {
			fontsize = MinSize
		} else {
			fontsize = MaxSize
		}
	}
	options := &opentype.FaceOptions{
		Size:    fontsize,
		DPI:     72,
		Hinting: xfont.HintingNone,
	}
	f, err := opentype.NewFace(sf.SFNT, options)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot scale font %s", sf.Fontname)
	}
	typecase.face = f
	typecase.size = fontsize
	m := f.Metrics()
	typecase.metrics = Metrics{
		Ascent:  -fixedToFloat(m.Ascent),
		Descent: fixedToFloat(m.Descent),
	}
	typecase.space = fixedToFloat(xfont.MeasureString(f, " "))
	return typecase, nil
}

func fixedToFloat(x fixed.Int26_6) float64 {
	return float64(x) / 64
}

// ScalableFontParent returns the font this type case has been derived from.
func (tc *TypeCase) ScalableFontParent() *ScalableFont {
	return tc.scalableFontParent
}

// Size returns the pixel size of a type case.
func (tc *TypeCase) Size() float64 {
	return tc.size
}

// Metrics returns the vertical metrics of a type case.
func (tc *TypeCase) Metrics() Metrics {
	return tc.metrics
}

// SpaceWidth returns the advance of a space character.
func (tc *TypeCase) SpaceWidth() float64 {
	return tc.space
}

// Measure returns the advance width of a text.
func (tc *TypeCase) Measure(text string) float64 {
	tc.Lock()
	defer tc.Unlock()
	return fixedToFloat(xfont.MeasureString(tc.face, text))
}

// Draw draws a text onto an image, with its top edge at y.
func (tc *TypeCase) Draw(dst draw.Image, src image.Image, x, y float64, text string) {
	tc.Lock()
	defer tc.Unlock()
	baseline := y - tc.metrics.Ascent
	d := xfont.Drawer{
		Dst:  dst,
		Src:  src,
		Face: tc.face,
		Dot:  fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(baseline * 64)},
	}
	d.DrawString(text)
}

func (tc *TypeCase) String() string {
	name := "?"
	if tc.scalableFontParent != nil {
		name = tc.scalableFontParent.Fontname
	}
	return name
}

// --- Fallback fonts ---------------------------------------------------------

// FallbackFont returns a font to be used if everything else failes. It is
// always present. Currently we use Go Sans.
func FallbackFont() *ScalableFont {
	return GoFont(xfont.StyleNormal, xfont.WeightNormal)
}

// GoFont returns one of the four variants of the Go Sans typeface which
// matches a given style and weight best.
func GoFont(style xfont.Style, weight xfont.Weight) *ScalableFont {
	v := variantOf(style, weight)
	goFontLoading[v].Do(func() {
		goFonts[v] = loadGoFont(v)
	})
	return goFonts[v]
}

const (
	goRegular = iota
	goBold
	goItalic
	goBoldItalic
)

var goFontLoading [4]sync.Once
var goFonts [4]*ScalableFont

func variantOf(style xfont.Style, weight xfont.Weight) int {
	bold := weight >= xfont.WeightSemiBold
	italic := style == xfont.StyleItalic || style == xfont.StyleOblique
	switch {
	case bold && italic:
		return goBoldItalic
	case bold:
		return goBold
	case italic:
		return goItalic
	}
	return goRegular
}

func loadGoFont(variant int) *ScalableFont {
	var err error
	gofont := &ScalableFont{Filepath: "internal"}
	switch variant {
	case goBold:
		gofont.Fontname, gofont.Binary = "Go Sans Bold", gobold.TTF
	case goItalic:
		gofont.Fontname, gofont.Binary = "Go Sans Italic", goitalic.TTF
	case goBoldItalic:
		gofont.Fontname, gofont.Binary = "Go Sans Bold Italic", gobolditalic.TTF
	default:
		gofont.Fontname, gofont.Binary = "Go Sans", goregular.TTF
	}
	gofont.SFNT, err = sfnt.Parse(gofont.Binary)
	if err != nil {
		panic("cannot load default font") // this cannot happen
	}
	return gofont
}
