package dom

import (
	"fmt"
	"image"
	"sort"
	"strings"

	"github.com/npillmayer/tyweb/engine/dom/style"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// LayoutObject is implemented by layout tree nodes which are created for
// a content node. ContentChanged is called whenever the content of the node
// or of one of its inline descendants changes.
type LayoutObject interface {
	ContentChanged()
}

// Frame is a browsing context hosted by an <iframe> element.
type Frame interface {
	Loaded() bool
}

// Image is the decoded content of an <img> element.
type Image struct {
	Width, Height int
	Img           image.Image
}

// Node is a node of the content tree, either an element or a text node.
type Node struct {
	h          *html.Node
	parent     *Node
	children   []*Node
	focused    bool
	styles     *style.FieldSet
	animations map[string]*style.NumericAnimation
	layout     LayoutObject
	image      *Image
	frame      Frame
}

// NewElement creates a detached element node. Attributes are added in
// lexical order of their keys.
func NewElement(tag string, attrs map[string]string) *Node {
	tag = strings.ToLower(tag)
	h := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		h.Attr = append(h.Attr, html.Attribute{Key: strings.ToLower(k), Val: attrs[k]})
	}
	return wrap(h)
}

// NewText creates a detached text node.
func NewText(text string) *Node {
	return wrap(&html.Node{Type: html.TextNode, Data: text})
}

func wrap(h *html.Node) *Node {
	return &Node{h: h}
}

// AppendChild appends c as the last child of n. c must not have a parent.
func (n *Node) AppendChild(c *Node) {
	if c.parent != nil {
		panic(fmt.Sprintf("dom: node %v already has a parent", c))
	}
	c.parent = n
	n.children = append(n.children, c)
	if c.h.Parent == nil {
		n.h.AppendChild(c.h)
	}
}

// HTMLNode returns the parse tree node backing n.
func (n *Node) HTMLNode() *html.Node {
	return n.h
}

// IsElement is true for element nodes.
func (n *Node) IsElement() bool {
	return n.h.Type == html.ElementNode
}

// IsText is true for text nodes.
func (n *Node) IsText() bool {
	return n.h.Type == html.TextNode
}

// Tag returns the lower-case tag name of an element, or "" for text nodes.
func (n *Node) Tag() string {
	if !n.IsElement() {
		return ""
	}
	if n.h.DataAtom != 0 {
		return n.h.DataAtom.String()
	}
	return strings.ToLower(n.h.Data)
}

// Text returns the text of a text node, or "" for elements.
func (n *Node) Text() string {
	if !n.IsText() {
		return ""
	}
	return n.h.Data
}

// Parent returns the parent node, or nil for the root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the child nodes of n. Clients must not modify the slice.
func (n *Node) Children() []*Node {
	return n.children
}

// Attr returns the value of an attribute.
func (n *Node) Attr(key string) (string, bool) {
	for _, a := range n.h.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// AttrOr returns the value of an attribute or a default value.
func (n *Node) AttrOr(key, deflt string) string {
	if v, ok := n.Attr(key); ok {
		return v
	}
	return deflt
}

// HasAttr is true if the attribute is present.
func (n *Node) HasAttr(key string) bool {
	_, ok := n.Attr(key)
	return ok
}

// SetAttr changes or adds an attribute of an element. Changes to attributes
// relevant for selector matching invalidate the style of n, changes to
// other attributes are reported to the layout object responsible for n.
func (n *Node) SetAttr(key, value string) {
	if !n.IsElement() {
		return
	}
	found := false
	for i, a := range n.h.Attr {
		if a.Namespace == "" && a.Key == key {
			if a.Val == value {
				return
			}
			n.h.Attr[i].Val = value
			found = true
			break
		}
	}
	if !found {
		n.h.Attr = append(n.h.Attr, html.Attribute{Key: key, Val: value})
	}
	switch key {
	case "style", "class", "id":
		n.DirtyStyle()
	default:
		n.contentChanged()
	}
}

// SetText changes the text of a text node and notifies layout.
func (n *Node) SetText(text string) {
	if !n.IsText() || n.h.Data == text {
		return
	}
	n.h.Data = text
	n.contentChanged()
}

// contentChanged notifies the nearest layout object, starting at n and
// moving up the tree.
func (n *Node) contentChanged() {
	for p := n; p != nil; p = p.parent {
		if p.layout != nil {
			tracer().Debugf("content of %v changed, notifying layout of %v", n, p)
			p.layout.ContentChanged()
			return
		}
	}
}

// --- Style -----------------------------------------------------------------

// Style returns the computed style of n, or nil if n has never been styled.
func (n *Node) Style() *style.FieldSet {
	return n.styles
}

// InitStyle creates the style fields of n, if not already present.
// The parent node must have been initialized before.
func (n *Node) InitStyle() *style.FieldSet {
	if n.styles == nil {
		var parentStyles *style.FieldSet
		if n.parent != nil {
			parentStyles = n.parent.styles
		}
		n.styles = style.NewFieldSet(parentStyles)
	}
	return n.styles
}

// DirtyStyle marks all style fields of n as stale.
func (n *Node) DirtyStyle() {
	if n.styles != nil {
		n.styles.MarkAll()
	}
}

// Focused is true if n is the focused element of its tab.
func (n *Node) Focused() bool {
	return n.focused
}

// SetFocused changes the focus flag. As :focus selectors may match
// differently, a change invalidates the style of n.
func (n *Node) SetFocused(focused bool) {
	if n.focused == focused {
		return
	}
	n.focused = focused
	n.DirtyStyle()
}

// Animation returns the running animation for a property, if any.
func (n *Node) Animation(property string) (*style.NumericAnimation, bool) {
	a, ok := n.animations[property]
	return a, ok
}

// SetAnimation starts an animation for a property, replacing a running one.
// Setting a nil animation removes it.
func (n *Node) SetAnimation(property string, a *style.NumericAnimation) {
	if a == nil {
		delete(n.animations, property)
		return
	}
	if n.animations == nil {
		n.animations = make(map[string]*style.NumericAnimation)
	}
	n.animations[property] = a
}

// AnimatedProperties returns the properties with running animations, sorted.
func (n *Node) AnimatedProperties() []string {
	props := make([]string, 0, len(n.animations))
	for p := range n.animations {
		props = append(props, p)
	}
	sort.Strings(props)
	return props
}

// --- Slots -----------------------------------------------------------------

// LayoutObject returns the layout object created for n, if any.
func (n *Node) LayoutObject() LayoutObject {
	return n.layout
}

// SetLayoutObject links n to the layout object responsible for it.
func (n *Node) SetLayoutObject(lo LayoutObject) {
	n.layout = lo
}

// Image returns the decoded image of an <img> element.
func (n *Node) Image() *Image {
	return n.image
}

// SetImage sets the decoded image of an <img> element.
func (n *Node) SetImage(img *Image) {
	n.image = img
}

// Frame returns the browsing context hosted by an <iframe> element.
func (n *Node) Frame() Frame {
	return n.frame
}

// SetFrame sets the browsing context hosted by an <iframe> element.
func (n *Node) SetFrame(f Frame) {
	n.frame = f
}

// ---------------------------------------------------------------------------

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	if n.IsText() {
		return fmt.Sprintf("%q", n.h.Data)
	}
	return "<" + n.Tag() + ">"
}

// TreeToList flattens the tree rooted at n in pre-order.
func TreeToList(n *Node) []*Node {
	var list []*Node
	var collect func(*Node)
	collect = func(x *Node) {
		list = append(list, x)
		for _, c := range x.children {
			collect(c)
		}
	}
	if n != nil {
		collect(n)
	}
	return list
}

// Ancestor returns the nearest ancestor of n (including n itself) which is
// an element with the given tag.
func (n *Node) Ancestor(tag string) *Node {
	for p := n; p != nil; p = p.parent {
		if p.Tag() == tag {
			return p
		}
	}
	return nil
}

// DirtyStyleTree marks the style of every node of a tree as stale, e.g.
// after switching between light and dark mode.
func DirtyStyleTree(root *Node) {
	for _, n := range TreeToList(root) {
		n.DirtyStyle()
	}
}
