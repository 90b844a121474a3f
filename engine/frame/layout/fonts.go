package layout

import (
	"bufio"
	"strings"

	"github.com/npillmayer/tyweb/core"
	"github.com/npillmayer/tyweb/core/font"
	"github.com/npillmayer/tyweb/core/font/fontregistry"
	"github.com/npillmayer/tyweb/core/parameters"
	"github.com/npillmayer/tyweb/engine/dom"
	"github.com/npillmayer/tyweb/engine/dom/style"
	"github.com/npillmayer/tyweb/engine/field"
	"github.com/npillmayer/uax/segment"
	"golang.org/x/text/unicode/norm"
)

// ptPerPx converts CSS pixel font sizes to type case sizes.
const ptPerPx = 0.75

// resolveFont finds the type case for the font properties of a content node,
// reading them on behalf of requester. Sizes which cannot be parsed default
// to 16, unscaled.
func (d *Document) resolveFont(n *dom.Node, zoom float64, requester field.Cell) *font.TypeCase {
	styles := n.Style()
	if styles == nil {
		core.Invariant("content node %v has not been styled before layout", n)
	}
	weight := styles.Read(style.FontWeight, requester)
	slant := styles.Read(style.FontStyle, requester)
	size := float64(style.DefaultFontSize)
	if px, ok := styles.Read(style.FontSize, requester).FontSizePx(); ok {
		size = px * ptPerPx
	}
	size *= zoom
	tc, err := d.fonts.Resolve(d.regs.S(parameters.P_FONTFAMILY),
		fontregistry.StyleFromCSS(string(slant)), fontregistry.WeightFromCSS(string(weight)), size)
	if err != nil {
		tracer().Debugf("font for %v: %v", n, err)
	}
	if tc == nil {
		core.Invariant("no type case for %v", n)
	}
	return tc
}

// linespace is the distance between baselines of a type case.
func linespace(tc *font.TypeCase) float64 {
	return tc.Metrics().LineSpace()
}

// words splits text at white space. Text is NFC-normalized first.
func words(text string) []string {
	seg := segment.NewSegmenter()
	seg.Init(bufio.NewReader(norm.NFC.Reader(strings.NewReader(text))))
	var result []string
	for seg.Next() {
		result = append(result, strings.Fields(seg.Text())...)
	}
	return result
}
