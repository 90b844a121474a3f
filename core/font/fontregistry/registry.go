package fontregistry

import (
	"fmt"
	"path"
	"strconv"
	"strings"
	"sync"

	"github.com/flopp/go-findfont"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/tyweb/core"
	"github.com/npillmayer/tyweb/core/font"
	xfont "golang.org/x/image/font"
)

// Registry is a type for holding information about loaded fonts for a
// browser.
type Registry struct {
	sync.Mutex
	fonts       map[string]*font.ScalableFont
	typecases   map[string]*font.TypeCase
	searched    map[string]bool
	systemFonts func() []string
}

var globalFontRegistry *Registry

var globalRegistryCreation sync.Once

// GlobalRegistry is an application-wide singleton to hold information about
// loaded fonts and typecases.
func GlobalRegistry() *Registry {
	globalRegistryCreation.Do(func() {
		globalFontRegistry = NewRegistry()
	})
	return globalFontRegistry
}

// NewRegistry creates an empty font registry. System fonts are located with
// go-findfont.
func NewRegistry() *Registry {
	fr := &Registry{
		fonts:       make(map[string]*font.ScalableFont),
		typecases:   make(map[string]*font.TypeCase),
		searched:    make(map[string]bool),
		systemFonts: findfont.List,
	}
	return fr
}

// StoreFont pushes a font into the registry if it isn't contained yet.
//
// The font will be stored using the normalized font name as a key. If this
// key is already associated with a font, that font will not be overridden.
func (fr *Registry) StoreFont(normalizedName string, f *font.ScalableFont) {
	if f == nil {
		tracer().Errorf("registry cannot store null font")
		return
	}
	fr.Lock()
	defer fr.Unlock()
	fr.storeFont(normalizedName, f)
}

func (fr *Registry) storeFont(normalizedName string, f *font.ScalableFont) {
	if _, ok := fr.fonts[normalizedName]; !ok {
		tracer().Debugf("registry stores font %s as %s", f.Fontname, normalizedName)
		fr.fonts[normalizedName] = f
	}
}

// TypeCase returns a concrete typecase for a font previously stored under key
// `normalizedName`. If a suitable typecase has already been cached, TypeCase
// will return the cached typecase.
//
// If no typecase can be produced, TypeCase will derive one from a system-wide
// fallback font and return it, together with an error.
//
func (fr *Registry) TypeCase(normalizedName string, size float64) (*font.TypeCase, error) {
	tracer().Debugf("registry searches for font %s at %.2f", normalizedName, size)
	fr.Lock()
	defer fr.Unlock()
	if t, ok := fr.cachedCase(normalizedName, size); ok {
		return t, nil
	}
	tracer().Infof("registry does not contain font %s", normalizedName)
	err := core.Error(core.EMISSING, "font %s not found in registry", normalizedName)
	return fr.fallbackCase(xfont.StyleNormal, xfont.WeightNormal, size), err
}

// Resolve returns a type case for a font family with a given style, weight
// and pixel size.
//
// The family "Go" (and the empty family) denote the built-in Go fonts. Other
// families are searched for once among the system fonts. If a family cannot be
// located, a Go font of matching style and weight is used instead and an error
// is returned on first use.
//
// Resolve will return the identical type case for identical arguments.
func (fr *Registry) Resolve(family string, style xfont.Style, weight xfont.Weight,
	size float64) (*font.TypeCase, error) {
	//
	name := NormalizeFontname(family, style, weight)
	fr.Lock()
	defer fr.Unlock()
	if t, ok := fr.cachedCase(name, size); ok {
		return t, nil
	}
	if isGoFamily(family) {
		fr.storeFont(name, font.GoFont(style, weight))
	} else if !fr.searched[name] {
		fr.searched[name] = true
		for _, fpath := range fr.systemFonts() {
			if !Matches(fpath, family, style, weight) {
				continue
			}
			f, err := font.LoadOpenTypeFont(fpath)
			if err != nil {
				tracer().Errorf("cannot load system font %s: %v", fpath, err)
				continue
			}
			fr.storeFont(name, f)
			break
		}
	}
	if t, ok := fr.cachedCase(name, size); ok {
		return t, nil
	}
	// family is unavailable: cache a fallback under the requested name
	t := fr.fallbackCase(style, weight, size)
	fr.typecases[appendSize(name, size)] = t
	return t, core.Error(core.EMISSING, "font family %q not available, using fallback", family)
}

// cachedCase must be called with the registry locked.
func (fr *Registry) cachedCase(name string, size float64) (*font.TypeCase, bool) {
	tname := appendSize(name, size)
	if t, ok := fr.typecases[tname]; ok {
		return t, true
	}
	if f, ok := fr.fonts[name]; ok {
		t, err := f.PrepareCase(size)
		if err != nil {
			tracer().Errorf("cannot prepare %s at %.2f: %v", name, size, err)
			return nil, false
		}
		tracer().Infof("font registry has font %s, caches at %.2f", name, size)
		fr.typecases[tname] = t
		return t, true
	}
	return nil, false
}

// fallbackCase must be called with the registry locked.
func (fr *Registry) fallbackCase(style xfont.Style, weight xfont.Weight, size float64) *font.TypeCase {
	fname := NormalizeFontname("fallback", style, weight)
	tname := appendSize(fname, size)
	if t, ok := fr.typecases[tname]; ok {
		return t
	}
	f := font.GoFont(style, weight)
	t, err := f.PrepareCase(size)
	if err != nil {
		panic("cannot scale fallback font") // Go fonts are always scalable
	}
	tracer().Infof("font registry caches fallback font %s at %.2f", fname, size)
	fr.fonts[fname] = f
	fr.typecases[tname] = t
	return t
}

// LogFontList is a helper function to dump the list of known fonts and typecases
// in a registry to the trace-file (log-level Info).
func (fr *Registry) LogFontList() {
	fr.Lock()
	defer fr.Unlock()
	level := tracer().GetTraceLevel()
	tracer().SetTraceLevel(tracing.LevelInfo)
	tracer().Infof("--- registered fonts ---")
	for k, v := range fr.fonts {
		tracer().Infof("font [%s] = %v", k, v.Fontname)
	}
	for k, v := range fr.typecases {
		tracer().Infof("typecase [%s] = %v", k, v.ScalableFontParent().Fontname)
	}
	tracer().Infof("------------------------")
	tracer().SetTraceLevel(level)
}

func isGoFamily(family string) bool {
	switch strings.ToLower(strings.TrimSpace(family)) {
	case "", "go", "go sans", "sans-serif":
		return true
	}
	return false
}

// NormalizeFontname creates a registry key from a family name, a style and
// a weight.
func NormalizeFontname(fname string, style xfont.Style, weight xfont.Weight) string {
	fname = strings.TrimSpace(fname)
	fname = strings.ReplaceAll(fname, " ", "_")
	if dot := strings.LastIndex(fname, "."); dot > 0 {
		fname = fname[:dot]
	}
	fname = strings.ToLower(fname)
	switch style {
	case xfont.StyleItalic, xfont.StyleOblique:
		fname += "-italic"
	}
	switch weight {
	case xfont.WeightLight, xfont.WeightExtraLight, xfont.WeightThin:
		fname += "-light"
	case xfont.WeightBold, xfont.WeightExtraBold, xfont.WeightSemiBold, xfont.WeightBlack:
		fname += "-bold"
	}
	return fname
}

func appendSize(fname string, size float64) string {
	fname = fmt.Sprintf("%s-%.2f", fname, size)
	return fname
}

// GuessStyleAndWeight trys to guess a font's style and weight from the
// font's file name.
func GuessStyleAndWeight(fontfilename string) (xfont.Style, xfont.Weight) {
	fontfilename = path.Base(fontfilename)
	ext := path.Ext(fontfilename)
	fontfilename = strings.ToLower(fontfilename[:len(fontfilename)-len(ext)])
	s := strings.Split(fontfilename, "-")
	if len(s) > 1 {
		switch s[len(s)-1] {
		case "light", "xlight":
			return xfont.StyleNormal, xfont.WeightLight
		case "normal", "medium", "regular", "r":
			return xfont.StyleNormal, xfont.WeightNormal
		case "bold", "b":
			return xfont.StyleNormal, xfont.WeightBold
		case "xbold", "black":
			return xfont.StyleNormal, xfont.WeightExtraBold
		}
	}
	style, weight := xfont.StyleNormal, xfont.WeightNormal
	if strings.Contains(fontfilename, "italic") || strings.Contains(fontfilename, "oblique") {
		style = xfont.StyleItalic
	}
	if strings.Contains(fontfilename, "light") {
		weight = xfont.WeightLight
	}
	if strings.Contains(fontfilename, "bold") {
		weight = xfont.WeightBold
	}
	return style, weight
}

// Matches returns true if a font's filename contains pattern and indicators
// for a given style and weight.
func Matches(fontfilename, pattern string, style xfont.Style, weight xfont.Weight) bool {
	basename := path.Base(fontfilename)
	basename = basename[:len(basename)-len(path.Ext(basename))]
	basename = strings.ToLower(basename)
	pattern = strings.ToLower(pattern)
	if !strings.Contains(basename, pattern) &&
		!strings.Contains(basename, strings.ReplaceAll(pattern, " ", "")) {
		return false
	}
	s, w := GuessStyleAndWeight(basename)
	return s == normalizeStyle(style) && w == normalizeWeight(weight)
}

func normalizeStyle(style xfont.Style) xfont.Style {
	if style == xfont.StyleOblique {
		return xfont.StyleItalic
	}
	return style
}

func normalizeWeight(weight xfont.Weight) xfont.Weight {
	switch weight {
	case xfont.WeightThin, xfont.WeightExtraLight:
		return xfont.WeightLight
	case xfont.WeightMedium:
		return xfont.WeightNormal
	case xfont.WeightSemiBold:
		return xfont.WeightBold
	case xfont.WeightBlack:
		return xfont.WeightExtraBold
	}
	return weight
}

// --- CSS values ------------------------------------------------------------

// StyleFromCSS converts a value of CSS property font-style.
func StyleFromCSS(s string) xfont.Style {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "italic":
		return xfont.StyleItalic
	case "oblique":
		return xfont.StyleOblique
	}
	return xfont.StyleNormal
}

// WeightFromCSS converts a value of CSS property font-weight.
/* from https://pkg.go.dev/golang.org/x/image/font
WeightThin       Weight = -3 // CSS font-weight value 100.
WeightNormal     Weight = +0 // CSS font-weight value 400.
WeightBlack      Weight = +5 // CSS font-weight value 900.
*/
func WeightFromCSS(s string) xfont.Weight {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "bold", "bolder":
		return xfont.WeightBold
	case "lighter":
		return xfont.WeightLight
	case "normal", "":
		return xfont.WeightNormal
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 100 && n <= 900 {
		return xfont.Weight(n/100 - 4)
	}
	return xfont.WeightNormal
}
