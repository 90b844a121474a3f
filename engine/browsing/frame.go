package browsing

import (
	"bytes"
	"context"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/npillmayer/tyweb/core"
	"github.com/npillmayer/tyweb/core/dimen"
	"github.com/npillmayer/tyweb/core/locate/resources"
	"github.com/npillmayer/tyweb/core/parameters"
	"github.com/npillmayer/tyweb/engine/dom"
	"github.com/npillmayer/tyweb/engine/dom/style/css"
	"github.com/npillmayer/tyweb/engine/dom/xpathadapter"
	"github.com/npillmayer/tyweb/engine/frame"
	"github.com/npillmayer/tyweb/engine/frame/layout"
)

// Frame is a browsing context. The root frame of a tab displays the tab's
// page, other frames are hosted by <iframe> elements.
//
// Frames are not safe for concurrent use. All methods have to be called on
// the task runner of the owning tab.
type Frame struct {
	tab      *Tab
	parent   *Frame
	element  *dom.Node // hosting <iframe>, nil for the root frame
	windowID int

	url     *url.URL
	root    *dom.Node
	rules   []*css.Rule
	doc     *layout.Document
	allowed []string // CSP origins, nil for any
	loaded  bool
	loadErr error

	width, height    dimen.Dimen
	scroll           dimen.Dimen
	scrollChanged    bool
	needsStyle       bool
	needsFocusScroll bool
}

func newFrame(tab *Tab, parent *Frame, element *dom.Node) *Frame {
	f := &Frame{
		tab:      tab,
		parent:   parent,
		element:  element,
		windowID: len(tab.frames),
	}
	if parent == nil {
		f.width, f.height = tab.regs.D(parameters.P_WIDTH), tab.height
	} else {
		f.width = tab.regs.D(parameters.P_IFRAMEWIDTH)
		f.height = tab.regs.D(parameters.P_IFRAMEHEIGHT)
	}
	tab.frames = append(tab.frames, f)
	return f
}

// WindowID identifies a frame within its tab.
func (f *Frame) WindowID() int   { return f.windowID }
func (f *Frame) IsRoot() bool    { return f.parent == nil }
func (f *Frame) Loaded() bool    { return f.loaded }
func (f *Frame) URL() *url.URL   { return f.url }
func (f *Frame) Root() *dom.Node { return f.root }

// Scroll is the vertical scroll offset of a frame.
func (f *Frame) Scroll() dimen.Dimen {
	return f.scroll
}

// SetViewport is called by the hosting iframe during layout.
func (f *Frame) SetViewport(width, height dimen.Dimen) {
	f.width, f.height = width, height
}

// Document is the layout tree of a frame, nil if the frame is not loaded.
func (f *Frame) Document() *layout.Document {
	return f.doc
}

// LoadErrors returns the subresource errors of the last load, nil if
// every stylesheet, image and iframe could be loaded.
func (f *Frame) LoadErrors() error {
	return f.loadErr
}

var _ layout.HostedFrame = (*Frame)(nil)
var _ layout.Viewport = (*Frame)(nil)

// --- Loading ---------------------------------------------------------------

// Load fetches a page into a frame and builds its content and layout tree.
// Stylesheets and images are fetched concurrently. Failing subresources do
// not fail the load; they are reported by LoadErrors. Iframes get a child
// frame each, which is loaded by a separate task.
func (f *Frame) Load(ctx context.Context, u *url.URL, payload string) error {
	tracer().Infof("frame %d: loading %s", f.windowID, u)
	f.tab.dropDescendants(f)
	f.loaded = false
	f.scroll, f.scrollChanged = 0, false
	resp, err := f.tab.fetcher.Fetch(ctx, u, payload)
	if err != nil {
		return err
	}
	root, err := dom.Parse(bytes.NewReader(resp.Body))
	if err != nil {
		return err
	}
	f.url, f.root = u, root
	f.allowed = parseCSP(resp.Header)
	var errs error
	f.rules, err = f.loadStylesheets(ctx)
	errs = multierr.Append(errs, err)
	errs = multierr.Append(errs, f.loadImages(ctx))
	errs = multierr.Append(errs, f.loadIframes())
	f.loadErr = errs
	f.doc = layout.NewDocument(root, f, f.tab.regs)
	f.needsStyle = true
	f.loaded = true
	if f.element != nil {
		if lo := f.element.LayoutObject(); lo != nil {
			lo.ContentChanged()
		}
	}
	f.tab.setNeedsPaint()
	if errs != nil {
		tracer().Infof("frame %d: %d subresources failed", f.windowID, len(multierr.Errors(errs)))
	}
	return nil
}

func (f *Frame) resolve(ref string) (*url.URL, error) {
	r, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "invalid URL %q", ref)
	}
	return f.url.ResolveReference(r), nil
}

// allowedRequest checks a URL against the content security policy.
func (f *Frame) allowedRequest(u *url.URL) bool {
	if f.allowed == nil {
		return true
	}
	o := origin(u)
	for _, a := range f.allowed {
		if a == o {
			return true
		}
	}
	tracer().Infof("frame %d: blocked %s by CSP", f.windowID, u)
	return false
}

func (f *Frame) fetchSubresource(ctx context.Context, ref string) ([]byte, error) {
	u, err := f.resolve(ref)
	if err != nil {
		return nil, err
	}
	if !f.allowedRequest(u) {
		return nil, core.WrapError(ErrBlockedByCSP, core.EINVALID, "cannot load %s", u)
	}
	resp, err := f.tab.fetcher.Fetch(ctx, u, "")
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// loadStylesheets collects the user agent rules, linked stylesheets and
// <style> elements, in this order, sorted by priority.
func (f *Frame) loadStylesheets(ctx context.Context) ([]*css.Rule, error) {
	links, err := xpathadapter.Select(f.root, "//link[@rel='stylesheet'][@href]")
	if err != nil {
		return nil, err
	}
	sheets := make([][]*css.Rule, len(links))
	errs := make([]error, len(links))
	g, gctx := errgroup.WithContext(ctx)
	for i, link := range links {
		i, href := i, link.AttrOr("href", "")
		g.Go(func() error {
			body, err := f.fetchSubresource(gctx, href)
			if err == nil {
				sheets[i], err = css.ParseStylesheet(string(body))
			}
			errs[i] = err
			return nil
		})
	}
	_ = g.Wait()
	rules := css.UserAgentStylesheet()
	for _, sheet := range sheets {
		rules = append(rules, sheet...)
	}
	styles, err := xpathadapter.Select(f.root, "//style")
	if err != nil {
		return nil, err
	}
	for _, s := range styles {
		var text strings.Builder
		for _, c := range s.Children() {
			text.WriteString(c.Text())
		}
		sheet, err := css.ParseStylesheet(text.String())
		errs = append(errs, err)
		rules = append(rules, sheet...)
	}
	css.SortByPriority(rules)
	return rules, multierr.Combine(errs...)
}

// loadImages fetches and decodes all images. Images which fail to load are
// replaced by a placeholder.
func (f *Frame) loadImages(ctx context.Context) error {
	imgs, err := xpathadapter.Select(f.root, "//img[@src]")
	if err != nil {
		return err
	}
	var mu sync.Mutex
	var errs error
	decoded := make([]*dom.Image, len(imgs))
	g, gctx := errgroup.WithContext(ctx)
	for i, n := range imgs {
		i, src := i, n.AttrOr("src", "")
		g.Go(func() error {
			body, err := f.fetchSubresource(gctx, src)
			img, derr := resources.ResolveImage(src, body).Await(gctx)
			if err == nil {
				err = derr
			}
			if err != nil {
				mu.Lock()
				errs = multierr.Append(errs, err)
				mu.Unlock()
			}
			b := img.Bounds()
			decoded[i] = &dom.Image{Width: b.Dx(), Height: b.Dy(), Img: img}
			return nil
		})
	}
	_ = g.Wait()
	for i, n := range imgs {
		n.SetImage(decoded[i])
	}
	return errs
}

// loadIframes creates a child frame for every iframe and schedules its load.
func (f *Frame) loadIframes() error {
	iframes, err := xpathadapter.Select(f.root, "//iframe[@src]")
	if err != nil {
		return err
	}
	var errs error
	for _, elt := range iframes {
		u, err := f.resolve(elt.AttrOr("src", ""))
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if !f.allowedRequest(u) {
			errs = multierr.Append(errs, core.WrapError(ErrBlockedByCSP, core.EINVALID, "cannot load %s", u))
			continue
		}
		child := newFrame(f.tab, f, elt)
		elt.SetFrame(child)
		f.tab.runner.Schedule(NewTask("load iframe "+u.String(), func(ctx context.Context) {
			if err := child.Load(ctx, u, ""); err != nil {
				tracer().Errorf("iframe %s: %v", u, err)
				f.loadErr = multierr.Append(f.loadErr, err)
			}
		}))
	}
	return errs
}

// --- Rendering -------------------------------------------------------------

// Render brings style and layout of a frame up to date and clamps the
// scroll offset to the new document height.
func (f *Frame) Render() {
	if !f.loaded {
		return
	}
	if f.needsStyle {
		env := css.Environment{
			DarkMode:    f.tab.darkMode,
			RefreshRate: f.tab.regs.T(parameters.P_REFRESHRATE),
		}
		if css.Resolve(f.root, f.rules, env).Animating {
			f.tab.setNeedsAnimationFrame()
		}
		f.needsStyle = false
	}
	if f.doc.LayoutFor(f.width, f.tab.zoom) {
		f.tab.needsPaint = true
	}
	if clamped := f.clampScroll(f.scroll); clamped != f.scroll {
		f.scroll = clamped
		f.scrollChanged = true
	}
}

// SetNeedsRender requests a style pass and a paint walk.
func (f *Frame) SetNeedsRender() {
	f.needsStyle = true
	f.tab.setNeedsPaint()
}

// contentHeight is the height of the page including its vertical margins.
func (f *Frame) contentHeight() dimen.Dimen {
	if f.doc == nil || f.doc.LayoutNeeded() {
		return 0
	}
	return (f.doc.Height().Get() + 2*f.tab.regs.D(parameters.P_VSTEP)).Ceil()
}

func (f *Frame) clampScroll(scroll dimen.Dimen) dimen.Dimen {
	maxScroll := dimen.Max(0, f.contentHeight()-f.height)
	return dimen.Max(0, dimen.Min(scroll, maxScroll))
}

// ScrollDown scrolls a frame by one scroll step.
func (f *Frame) ScrollDown() {
	f.scroll = f.clampScroll(f.scroll + f.tab.regs.D(parameters.P_SCROLLSTEP))
	f.scrollChanged = true
	f.tab.setNeedsAnimationFrame()
}

// ScrollTo scrolls the box of a content node into view, if it is not
// visible already.
func (f *Frame) ScrollTo(n *dom.Node) {
	if !f.loaded || n == nil {
		return
	}
	f.Render()
	for _, b := range frame.TreeToList(f.doc) {
		if b.DOMNode() != n {
			continue
		}
		y := b.Geometry().Y
		if f.scroll < y && y < f.scroll+f.height {
			return
		}
		f.scroll = f.clampScroll(y - f.tab.regs.D(parameters.P_SCROLLSTEP))
		f.scrollChanged = true
		return
	}
}

// --- Focus and input -------------------------------------------------------

// tabIndex is the tab order of a node, with 0 and a missing attribute sorted
// last.
func tabIndex(n *dom.Node) int {
	const last = 9999999
	i, err := strconv.Atoi(n.AttrOr("tabindex", strconv.Itoa(last)))
	if err != nil || i == 0 {
		return last
	}
	return i
}

func isFocusable(n *dom.Node) bool {
	switch {
	case !n.IsElement():
		return false
	case tabIndex(n) < 0:
		return false
	case n.HasAttr("tabindex"), n.HasAttr("contenteditable"):
		return true
	}
	switch n.Tag() {
	case "input", "button", "a":
		return true
	}
	return false
}

// FocusElement moves the focus of the tab to a node of this frame. n may be
// nil to clear the focus.
func (f *Frame) FocusElement(n *dom.Node) {
	t := f.tab
	if n != nil && n != t.focus {
		f.needsFocusScroll = true
	}
	if t.focus != nil {
		t.focus.SetFocused(false)
	}
	if t.focusedFrame != nil && t.focusedFrame != f {
		t.focusedFrame.SetNeedsRender()
	}
	t.focus, t.focusedFrame = n, f
	if n != nil {
		n.SetFocused(true)
	}
	f.SetNeedsRender()
}

// AdvanceTab moves the focus to the next focusable node in tab order.
// After the last one the focus is cleared.
func (f *Frame) AdvanceTab() {
	if !f.loaded {
		return
	}
	var focusable []*dom.Node
	for _, n := range dom.TreeToList(f.root) {
		if isFocusable(n) {
			focusable = append(focusable, n)
		}
	}
	sort.SliceStable(focusable, func(i, j int) bool {
		return tabIndex(focusable[i]) < tabIndex(focusable[j])
	})
	next := 0
	if f.tab.focus != nil {
		next = len(focusable)
		for i, n := range focusable {
			if n == f.tab.focus {
				next = i + 1
				break
			}
		}
	}
	if next < len(focusable) {
		f.FocusElement(focusable[next])
	} else {
		f.FocusElement(nil)
	}
}

// ActivateElement triggers the default action of a focused node: inputs are
// cleared, links are followed and buttons submit their form.
func (f *Frame) ActivateElement(ctx context.Context, n *dom.Node) error {
	switch n.Tag() {
	case "input":
		n.SetAttr("value", "")
		f.SetNeedsRender()
	case "a":
		href, ok := n.Attr("href")
		if !ok {
			return nil
		}
		u, err := f.resolve(href)
		if err != nil {
			return err
		}
		return f.navigate(ctx, u, "")
	case "button":
		if form := n.Ancestor("form"); form != nil {
			return f.submitForm(ctx, form)
		}
	}
	return nil
}

// submitForm posts the named inputs of a form to its action URL.
func (f *Frame) submitForm(ctx context.Context, form *dom.Node) error {
	var pairs []string
	for _, n := range dom.TreeToList(form) {
		if n.Tag() != "input" || !n.HasAttr("name") {
			continue
		}
		name := url.QueryEscape(n.AttrOr("name", ""))
		value := url.QueryEscape(n.AttrOr("value", ""))
		pairs = append(pairs, name+"="+value)
	}
	u, err := f.resolve(form.AttrOr("action", ""))
	if err != nil {
		return err
	}
	return f.navigate(ctx, u, strings.Join(pairs, "&"))
}

// navigate loads a new page. Navigation of the root frame is recorded in
// the tab's history.
func (f *Frame) navigate(ctx context.Context, u *url.URL, payload string) error {
	if f.IsRoot() {
		f.tab.runner.ClearPending()
		return f.tab.Load(ctx, u, payload)
	}
	return f.Load(ctx, u, payload)
}

// Keypress inserts a character into the focused node of this frame.
func (f *Frame) Keypress(r rune) {
	n := f.tab.focus
	switch {
	case n == nil || f.tab.focusedFrame != f:
		return
	case n.Tag() == "input":
		n.SetAttr("value", n.AttrOr("value", "")+string(r))
	case n.HasAttr("contenteditable"):
		var last *dom.Node
		for _, c := range dom.TreeToList(n) {
			if c.IsText() {
				last = c
			}
		}
		if last != nil {
			last.SetText(last.Text() + string(r))
		} else {
			n.AppendChild(dom.NewText(string(r)))
			if lo := n.LayoutObject(); lo != nil {
				lo.ContentChanged()
			}
		}
	default:
		return
	}
	f.SetNeedsRender()
}

// Click hits the box at (x, y), given in frame coordinates without scroll.
// Clicks into iframes are forwarded to the hosted frame.
func (f *Frame) Click(ctx context.Context, x, y dimen.Dimen) error {
	if !f.loaded {
		return ErrNotLoaded
	}
	f.FocusElement(nil)
	f.Render()
	y += f.scroll
	loc := dimen.XYWH(x, y, 1, 1)
	var hit frame.Box
	for _, b := range frame.TreeToList(f.doc) {
		if layout.AbsoluteBounds(b).Intersects(loc) {
			hit = b
		}
	}
	if hit == nil {
		return nil
	}
	for n := hit.DOMNode(); n != nil; n = n.Parent() {
		switch {
		case n.IsText():
			continue
		case n.Tag() == "iframe":
			child, ok := n.Frame().(*Frame)
			if !ok || !child.loaded {
				return nil
			}
			box, ok := n.LayoutObject().(frame.Box)
			if !ok {
				return nil
			}
			abs := layout.AbsoluteBounds(box)
			border := dimen.DPX(1, f.tab.zoom)
			return child.Click(ctx, x-abs.Left()-border, y-abs.Top()-border)
		case isFocusable(n):
			f.FocusElement(n)
			return f.ActivateElement(ctx, n)
		}
	}
	return nil
}

// --- Animation -------------------------------------------------------------

// tickAnimations advances all running animations of a frame by one frame.
// The flag is true if any animation produced a value.
func (f *Frame) tickAnimations() bool {
	if !f.loaded {
		return false
	}
	running := false
	for _, n := range dom.TreeToList(f.root) {
		for _, prop := range n.AnimatedProperties() {
			a, _ := n.Animation(prop)
			v, ok := a.Animate()
			if !ok {
				n.SetAnimation(prop, nil)
				continue
			}
			running = true
			n.Style().Field(prop).Set(v)
			f.tab.animated(f, n, prop)
		}
	}
	return running
}
