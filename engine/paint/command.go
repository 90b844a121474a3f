package paint

import (
	"fmt"
	"image"
	"image/color"

	"github.com/npillmayer/tyweb/core/dimen"
	"github.com/npillmayer/tyweb/core/font"
)

// Command is an entry of a display list.
//
// Drawing commands are leaves, visual effects (Transform, Blend) have
// children. The rectangle of a command is its bounding box in the
// coordinate space of the enclosing effect.
type Command interface {
	Rect() dimen.Rect
	Children() []Command
	String() string
}

// Black is the default drawing color.
var Black = color.NRGBA{A: 0xff}

// Red is the color of text cursors.
var Red = color.NRGBA{R: 0xff, A: 0xff}

// White is used for clip masks.
var White = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

func colorString(c color.NRGBA) string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// leaf provides the children of drawing commands.
type leaf struct{}

func (leaf) Children() []Command { return nil }

// --- Drawing commands ------------------------------------------------------

// DrawRect fills a rectangle.
type DrawRect struct {
	leaf
	R     dimen.Rect
	Color color.NRGBA
}

// Rect is part of interface Command.
func (cmd *DrawRect) Rect() dimen.Rect { return cmd.R }

func (cmd *DrawRect) String() string {
	return fmt.Sprintf("DrawRect(%v, %s)", cmd.R, colorString(cmd.Color))
}

// DrawRRect fills a rectangle with rounded corners.
type DrawRRect struct {
	leaf
	R      dimen.Rect
	Radius dimen.Dimen
	Color  color.NRGBA
}

// Rect is part of interface Command.
func (cmd *DrawRRect) Rect() dimen.Rect { return cmd.R }

func (cmd *DrawRRect) String() string {
	return fmt.Sprintf("DrawRRect(%v, radius=%s, %s)", cmd.R, cmd.Radius, colorString(cmd.Color))
}

// DrawText draws a text with its top-left corner at (X, Y).
type DrawText struct {
	leaf
	X, Y  dimen.Dimen
	Text  string
	Font  *font.TypeCase
	Color color.NRGBA
	r     dimen.Rect
}

// NewDrawText creates a text command. The bounding box is derived from the
// text's measure and the font's vertical metrics.
func NewDrawText(x, y dimen.Dimen, text string, tc *font.TypeCase, c color.NRGBA) *DrawText {
	m := tc.Metrics()
	w := dimen.Dimen(tc.Measure(text))
	return &DrawText{
		X:     x,
		Y:     y,
		Text:  text,
		Font:  tc,
		Color: c,
		r:     dimen.LTRB(x, y, x+w, y+dimen.Dimen(m.Descent-m.Ascent)),
	}
}

// Rect is part of interface Command.
func (cmd *DrawText) Rect() dimen.Rect { return cmd.r }

func (cmd *DrawText) String() string {
	return fmt.Sprintf("DrawText(%s, %s, %q)", cmd.X, cmd.Y, cmd.Text)
}

// DrawLine draws a straight line.
type DrawLine struct {
	leaf
	From, To  dimen.Point
	Color     color.NRGBA
	Thickness dimen.Dimen
}

// Rect is part of interface Command.
func (cmd *DrawLine) Rect() dimen.Rect {
	return dimen.LTRB(
		dimen.Min(cmd.From.X, cmd.To.X), dimen.Min(cmd.From.Y, cmd.To.Y),
		dimen.Max(cmd.From.X, cmd.To.X), dimen.Max(cmd.From.Y, cmd.To.Y))
}

func (cmd *DrawLine) String() string {
	return fmt.Sprintf("DrawLine(%v, %v, %s, %s)", cmd.From, cmd.To, colorString(cmd.Color), cmd.Thickness)
}

// Cursor creates the red 1px text cursor, offset to the right of x.
func Cursor(x, y, height, offset dimen.Dimen) *DrawLine {
	return &DrawLine{
		From:      dimen.Point{X: x + offset, Y: y},
		To:        dimen.Point{X: x + offset, Y: y + height},
		Color:     Red,
		Thickness: 1,
	}
}

// DrawOutline strokes the border of a rectangle.
type DrawOutline struct {
	leaf
	R         dimen.Rect
	Color     color.NRGBA
	Thickness dimen.Dimen
}

// Rect is part of interface Command.
func (cmd *DrawOutline) Rect() dimen.Rect { return cmd.R }

func (cmd *DrawOutline) String() string {
	return fmt.Sprintf("DrawOutline(%v, %s, %s)", cmd.R, colorString(cmd.Color), cmd.Thickness)
}

// DrawImage draws an image scaled to a rectangle. Quality is the value of
// the CSS property image-rendering.
type DrawImage struct {
	leaf
	Img     image.Image
	R       dimen.Rect
	Quality string
}

// Rect is part of interface Command.
func (cmd *DrawImage) Rect() dimen.Rect { return cmd.R }

func (cmd *DrawImage) String() string {
	return fmt.Sprintf("DrawImage(%v, %s)", cmd.R, cmd.Quality)
}

// Interface guards
var _ Command = &DrawRect{}
var _ Command = &DrawRRect{}
var _ Command = &DrawText{}
var _ Command = &DrawLine{}
var _ Command = &DrawOutline{}
var _ Command = &DrawImage{}
