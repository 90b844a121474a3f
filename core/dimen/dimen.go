// Package dimen implements dimensions and units.
//
/*
BSD License

Copyright (c) 2017–21, Norbert Pillmayer (norbert@pillmayer.com)

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
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.  */
package dimen

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// Dimen is a dimension type.
// Values are in CSS pixels (1/96 inch), as floating point numbers.
// Device pixels are derived from CSS pixels by multiplying with a zoom factor,
// see DPX.
type Dimen float64

// Some pre-defined dimensions
const (
	Zero Dimen = 0
	PX   Dimen = 1             // CSS pixel
	PT   Dimen = 96.0 / 72.0   // printers point 1/72 inch
	IN   Dimen = 96            // inch
	CM   Dimen = 96.0 / 2.54   // centimeters
	MM   Dimen = 96.0 / 25.4   // millimeters
	EM   Dimen = 16            // em relative to the initial font size
	PC   Dimen = 12 * PT       // pica
	Huge Dimen = math.MaxInt32 // larger than any page
)

// Stringer implementation.
func (d Dimen) String() string {
	return strconv.FormatFloat(float64(d), 'f', -1, 64) + "px"
}

// Px returns a dimension as a float64 in CSS pixels.
func (d Dimen) Px() float64 {
	return float64(d)
}

// Ceil rounds a dimension upwards to full pixels.
func (d Dimen) Ceil() Dimen {
	return Dimen(math.Ceil(float64(d)))
}

// DPX converts CSS pixels to device pixels for a given zoom factor.
func DPX(css Dimen, zoom float64) Dimen {
	return css * Dimen(zoom)
}

// Point is a point on a canvas.
type Point struct {
	X, Y Dimen
}

// Origin is origin
var Origin = Point{0, 0}

// Shift a point along a vector.
func (p *Point) Shift(vector Point) *Point {
	p.X += vector.X
	p.Y += vector.Y
	return p
}

// IsZero is true for the origin.
func (p Point) IsZero() bool {
	return p.X == 0 && p.Y == 0
}

func (p Point) String() string {
	return fmt.Sprintf("(%s,%s)", p.X, p.Y)
}

// Rect is a rectangle on a canvas.
type Rect struct {
	TopL, BotR Point
}

// EmptyRect is a rectangle without extent.
var EmptyRect = Rect{}

// XYWH creates a rectangle from its top-left corner and its extent.
func XYWH(x, y, w, h Dimen) Rect {
	return Rect{Point{x, y}, Point{x + w, y + h}}
}

// LTRB creates a rectangle from its four edges.
func LTRB(l, t, r, b Dimen) Rect {
	return Rect{Point{l, t}, Point{r, b}}
}

// Width returns the width of a rectangle, i.e. the difference between x-coordinates
// of bottom-right and top-left corner.
func (r Rect) Width() Dimen {
	return r.BotR.X - r.TopL.X
}

// Height returns the height of a rectangle, i.e. the difference between y-coordinates
// of bottom-right and top-left corner.
func (r Rect) Height() Dimen {
	return r.BotR.Y - r.TopL.Y
}

func (r Rect) Left() Dimen   { return r.TopL.X }
func (r Rect) Top() Dimen    { return r.TopL.Y }
func (r Rect) Right() Dimen  { return r.BotR.X }
func (r Rect) Bottom() Dimen { return r.BotR.Y }

// IsEmpty is true if a rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.BotR.X <= r.TopL.X || r.BotR.Y <= r.TopL.Y
}

// Offset returns a rectangle moved by (dx,dy).
func (r Rect) Offset(dx, dy Dimen) Rect {
	return Rect{Point{r.TopL.X + dx, r.TopL.Y + dy}, Point{r.BotR.X + dx, r.BotR.Y + dy}}
}

// Join returns the union of two rectangles. Empty rectangles do not
// contribute to the union.
func (r Rect) Join(other Rect) Rect {
	if other.IsEmpty() {
		return r
	}
	if r.IsEmpty() {
		return other
	}
	return Rect{
		Point{Min(r.TopL.X, other.TopL.X), Min(r.TopL.Y, other.TopL.Y)},
		Point{Max(r.BotR.X, other.BotR.X), Max(r.BotR.Y, other.BotR.Y)},
	}
}

// Intersects is true if two rectangles overlap.
func (r Rect) Intersects(other Rect) bool {
	return !r.Intersect(other).IsEmpty()
}

// Intersect returns the common area of two rectangles.
// If they do not overlap, the result is empty.
func (r Rect) Intersect(other Rect) Rect {
	isect := Rect{
		Point{Max(r.TopL.X, other.TopL.X), Max(r.TopL.Y, other.TopL.Y)},
		Point{Min(r.BotR.X, other.BotR.X), Min(r.BotR.Y, other.BotR.Y)},
	}
	if isect.IsEmpty() {
		return EmptyRect
	}
	return isect
}

// Contains is true if p lies inside r. The right and bottom edges are
// exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.TopL.X && p.X < r.BotR.X && p.Y >= r.TopL.Y && p.Y < r.BotR.Y
}

func (r Rect) String() string {
	return fmt.Sprintf("[%s-%s]", r.TopL, r.BotR)
}

// ---------------------------------------------------------------------------

var dimenPattern = regexp.MustCompile(`^([+\-]?[0-9]*\.?[0-9]+)(%|[a-zA-Z]{2})?$`)

// ErrFormat is returned for strings not denoting a dimension.
var ErrFormat = errors.New("format error parsing dimension")

// ParseDimen parses a string to return a dimension. Syntax is CSS Unit.
// Numbers without a unit are taken as pixels.
// If a percentage value is given (`80%`), the second return value will be true
// and the dimension will hold the plain number (80).
//
func ParseDimen(s string) (Dimen, bool, error) {
	d := dimenPattern.FindStringSubmatch(s)
	if len(d) < 2 {
		return 0, false, ErrFormat
	}
	scale := PX
	ispcnt := false
	if len(d) > 2 {
		switch d[2] {
		case "pt", "PT":
			scale = PT
		case "mm", "MM":
			scale = MM
		case "px", "PX", "":
			scale = PX
		case "cm", "CM":
			scale = CM
		case "in", "IN":
			scale = IN
		case "em", "EM":
			scale = EM
		case "pc", "PC":
			scale = PC
		case "%":
			scale, ispcnt = 1, true
		default:
			return 0, false, ErrFormat
		}
	}
	n, err := strconv.ParseFloat(d[1], 64)
	if err != nil {
		return 0, false, ErrFormat
	}
	return Dimen(n) * scale, ispcnt, nil
}

// ---------------------------------------------------------------------------

// Min returns the smaller of two dimensions.
func Min(a, b Dimen) Dimen {
	if a < b {
		return a
	}
	return b
}

// Max returns the greater of two dimensions.
func Max(a, b Dimen) Dimen {
	if a > b {
		return a
	}
	return b
}
