package style

import (
	"sort"
	"strings"

	"github.com/derekparker/trie"
	"golang.org/x/text/cases"
)

// Names of the properties the engine knows about.
const (
	FontSize        = "font-size"
	FontWeight      = "font-weight"
	FontStyle       = "font-style"
	Color           = "color"
	Opacity         = "opacity"
	Transition      = "transition"
	Transform       = "transform"
	MixBlendMode    = "mix-blend-mode"
	BorderRadius    = "border-radius"
	Overflow        = "overflow"
	Outline         = "outline"
	BackgroundColor = "background-color"
	ImageRendering  = "image-rendering"
)

// Inherit is the initial value of inherited properties.
const Inherit = "inherit"

// PropertyDef describes a CSS property.
type PropertyDef struct {
	Name      string
	Initial   string // initial value, "inherit" for inherited properties
	Inherited bool
	index     int
}

// Index is the position of a property within a FieldSet.
func (pd *PropertyDef) Index() int {
	return pd.index
}

// initial values in declaration order
var propertyTable = []PropertyDef{
	{Name: FontSize, Initial: Inherit, Inherited: true},
	{Name: FontWeight, Initial: Inherit, Inherited: true},
	{Name: FontStyle, Initial: Inherit, Inherited: true},
	{Name: Color, Initial: Inherit, Inherited: true},
	{Name: Opacity, Initial: "1.0"},
	{Name: Transition, Initial: ""},
	{Name: Transform, Initial: "none"},
	{Name: MixBlendMode, Initial: ""},
	{Name: BorderRadius, Initial: "0px"},
	{Name: Overflow, Initial: "visible"},
	{Name: Outline, Initial: "none"},
	{Name: BackgroundColor, Initial: "transparent"},
	{Name: ImageRendering, Initial: "auto"},
}

// registry maps property names to definitions
var registry *trie.Trie

func init() {
	registry = trie.New()
	for i := range propertyTable {
		propertyTable[i].index = i
		registry.Add(propertyTable[i].Name, &propertyTable[i])
	}
}

// PropertyCount is the number of properties in the registry.
func PropertyCount() int {
	return len(propertyTable)
}

// FoldName case-folds a property name.
func FoldName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// Lookup finds the definition of a property.
func Lookup(name string) (*PropertyDef, bool) {
	node, ok := registry.Find(FoldName(name))
	if !ok {
		return nil, false
	}
	return node.Meta().(*PropertyDef), true
}

// Properties returns all property definitions in registry order.
func Properties() []*PropertyDef {
	defs := make([]*PropertyDef, len(propertyTable))
	for i := range propertyTable {
		defs[i] = &propertyTable[i]
	}
	return defs
}

// Expand returns the properties denoted by a property name as used in
// a transition list. "all" denotes every property, a known property denotes
// itself, and any other name is treated as a shorthand for all properties
// starting with "name-" (e.g., "font" expands to font-size, font-weight
// and font-style). Result names are sorted.
func Expand(name string) []string {
	name = FoldName(name)
	if name == "all" {
		names := make([]string, 0, len(propertyTable))
		for _, pd := range propertyTable {
			names = append(names, pd.Name)
		}
		sort.Strings(names)
		return names
	}
	if _, ok := Lookup(name); ok {
		return []string{name}
	}
	if name == "" {
		return nil
	}
	names := registry.PrefixSearch(name + "-")
	sort.Strings(names)
	return names
}

// InheritedDefault returns the value of an inherited property at the root
// of a content tree. For non-inherited properties it returns the initial value.
func InheritedDefault(name string, darkMode bool) string {
	switch name {
	case FontSize:
		return "16px"
	case FontStyle, FontWeight:
		return "normal"
	case Color:
		if darkMode {
			return "white"
		}
		return "black"
	}
	if pd, ok := Lookup(name); ok {
		return pd.Initial
	}
	return ""
}
