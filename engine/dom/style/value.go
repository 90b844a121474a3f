package style

import (
	"image/color"
	"regexp"
	"strconv"
	"strings"

	"github.com/npillmayer/tyweb/core/dimen"
)

// Property is a raw CSS property value, e.g. "12px" or "translate(3px, 4px)".
// Values are kept as strings and converted on demand.
type Property string

// DefaultFontSize is used whenever a font-size cannot be interpreted.
const DefaultFontSize = 16

// IsEmpty is true for unset values.
func (p Property) IsEmpty() bool {
	return strings.TrimSpace(string(p)) == ""
}

// --- Colors ----------------------------------------------------------------

var namedColors = map[string]string{
	"black":      "#000000",
	"gray":       "#808080",
	"white":      "#ffffff",
	"red":        "#ff0000",
	"green":      "#00ff00",
	"blue":       "#0000ff",
	"lightblue":  "#add8e6",
	"lightgreen": "#90ee90",
	"orange":     "#ffa500",
	"orangered":  "#ff4500",
}

// Color interprets p as a color. Supported are #rrggbb, #rrggbbaa and a small
// set of named colors. Everything else is black.
func (p Property) Color() color.NRGBA {
	return ParseColor(string(p))
}

// ParseColor converts a CSS color value to a color. Unknown values are black.
func ParseColor(s string) color.NRGBA {
	s = strings.TrimSpace(strings.ToLower(s))
	if hex, ok := namedColors[s]; ok {
		s = hex
	}
	black := color.NRGBA{A: 0xff}
	if !strings.HasPrefix(s, "#") || (len(s) != 7 && len(s) != 9) {
		return black
	}
	var rgba [4]uint8
	rgba[3] = 0xff
	for i := 0; i < (len(s)-1)/2; i++ {
		v, err := strconv.ParseUint(s[1+2*i:3+2*i], 16, 8)
		if err != nil {
			return black
		}
		rgba[i] = uint8(v)
	}
	return color.NRGBA{R: rgba[0], G: rgba[1], B: rgba[2], A: rgba[3]}
}

// --- Dimensions ------------------------------------------------------------

// FontSizePx returns the size in CSS pixels for a font-size value of the
// form "Npx". The flag is false if p is not of this form.
func (p Property) FontSizePx() (float64, bool) {
	s := strings.TrimSpace(string(p))
	if !strings.HasSuffix(s, "px") {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s[:len(s)-2]), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Percentage returns the number of a percentage value like "50%".
func (p Property) Percentage() (float64, bool) {
	s := strings.TrimSpace(string(p))
	if !strings.HasSuffix(s, "%") {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s[:len(s)-1]), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Dimen interprets p as a length, e.g. for border-radius.
// Malformed values and percentages are zero.
func (p Property) Dimen() dimen.Dimen {
	d, isPercent, err := dimen.ParseDimen(strings.TrimSpace(string(p)))
	if err != nil || isPercent {
		return dimen.Zero
	}
	return d
}

// Float interprets p as a number, e.g. for opacity.
func (p Property) Float(deflt float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(string(p)), 64)
	if err != nil {
		return deflt
	}
	return f
}

// FormatPx formats a pixel size as a CSS value.
func FormatPx(px float64) Property {
	return Property(strconv.FormatFloat(px, 'f', -1, 64) + "px")
}

// --- Transforms and outlines -----------------------------------------------

var translatePattern = regexp.MustCompile(`translate\(\s*([+\-]?[0-9]*\.?[0-9]+)px\s*,\s*([+\-]?[0-9]*\.?[0-9]+)px\s*\)`)

// Translation extracts the offset of a "translate(Xpx, Ypx)" transform.
// The flag is false for all other transforms, including "none".
func (p Property) Translation() (dimen.Point, bool) {
	m := translatePattern.FindStringSubmatch(string(p))
	if m == nil {
		return dimen.Origin, false
	}
	x, errx := strconv.ParseFloat(m[1], 64)
	y, erry := strconv.ParseFloat(m[2], 64)
	if errx != nil || erry != nil {
		return dimen.Origin, false
	}
	return dimen.Point{X: dimen.Dimen(x), Y: dimen.Dimen(y)}, true
}

// OutlineSpec is a parsed outline of the form "Npx solid color".
type OutlineSpec struct {
	Thickness dimen.Dimen
	Color     string
}

// Outline interprets p as an outline. Only solid outlines are supported.
func (p Property) Outline() (OutlineSpec, bool) {
	values := strings.Fields(string(p))
	if len(values) != 3 || values[1] != "solid" {
		return OutlineSpec{}, false
	}
	t := strings.TrimSuffix(values[0], "px")
	n, err := strconv.Atoi(t)
	if err != nil {
		return OutlineSpec{}, false
	}
	return OutlineSpec{Thickness: dimen.Dimen(n), Color: values[2]}, true
}
