package browsing

import (
	"context"
	"net/url"

	"github.com/npillmayer/tyweb/core/dimen"
	"github.com/npillmayer/tyweb/core/parameters"
	"github.com/npillmayer/tyweb/engine/dom"
	"github.com/npillmayer/tyweb/engine/dom/style"
	"github.com/npillmayer/tyweb/engine/frame/layout"
	"github.com/npillmayer/tyweb/engine/paint"
)

// Host receives the results of a tab's animation frames.
type Host interface {
	Commit(tab *Tab, data CommitData)
	SetNeedsAnimationFrame(tab *Tab)
}

// CommitData is handed from a tab to its host at the end of an animation
// frame.
type CommitData struct {
	URL    *url.URL
	Scroll *dimen.Dimen // nil if the tab did not move the scroll offset
	Height dimen.Dimen  // height of the page including margins

	// DisplayList is nil if nothing had to be painted.
	DisplayList []paint.Command

	// CompositedUpdates maps nodes to the new blend of their visual effects.
	// A nil map requests recompositing of the whole display list.
	CompositedUpdates map[*dom.Node]*paint.Blend

	Focus            *dom.Node
	RootFrameFocused bool
}

type compositedUpdate struct {
	frame *Frame
	node  *dom.Node
}

// Tab is a browser tab. It owns a task runner and a tree of frames, listed
// in the order of their creation, which is parent before child.
type Tab struct {
	host    Host
	runner  *TaskRunner
	fetcher Fetcher
	regs    *parameters.Registers
	height  dimen.Dimen

	frames  []*Frame
	root    *Frame
	history []*url.URL

	zoom         float64
	darkMode     bool
	focus        *dom.Node
	focusedFrame *Frame

	needsPaint  bool
	composited  []compositedUpdate
	displayList []paint.Command
}

// NewTab creates a tab and starts its task runner. height is the height of
// the tab's viewport.
func NewTab(host Host, fetcher Fetcher, regs *parameters.Registers, height dimen.Dimen) *Tab {
	if regs == nil {
		regs = parameters.NewRegisters()
	}
	t := &Tab{
		host:     host,
		runner:   NewTaskRunner(),
		fetcher:  fetcher,
		regs:     regs,
		height:   height,
		zoom:     1,
		darkMode: regs.B(parameters.P_DARKMODE),
	}
	t.runner.Start()
	return t
}

// Schedule runs fn on the task runner of a tab.
func (t *Tab) Schedule(name string, fn func(ctx context.Context)) {
	t.runner.Schedule(NewTask(name, fn))
}

// Close stops the task runner of a tab.
func (t *Tab) Close() {
	t.runner.Quit()
}

// Idle is true if no task of the tab is running or waiting.
func (t *Tab) Idle() bool {
	return t.runner.Idle()
}

// Frames returns the frames of a tab, root frame first.
func (t *Tab) Frames() []*Frame {
	return t.frames
}

// RootFrame returns the frame of the tab's page.
func (t *Tab) RootFrame() *Frame {
	return t.root
}

// Load navigates the tab to a new page and records it in the history.
func (t *Tab) Load(ctx context.Context, u *url.URL, payload string) error {
	t.history = append(t.history, u)
	t.focus, t.focusedFrame = nil, nil
	t.composited = nil
	t.frames = nil
	t.root = newFrame(t, nil, nil)
	err := t.root.Load(ctx, u, payload)
	t.setNeedsPaint()
	return err
}

// GoBack loads the previous page of the history. Tasks which have not
// started yet are discarded.
func (t *Tab) GoBack(ctx context.Context) error {
	if len(t.history) < 2 {
		return nil
	}
	back := t.history[len(t.history)-2]
	t.history = t.history[:len(t.history)-2]
	t.runner.ClearPending()
	return t.Load(ctx, back, "")
}

// Render brings all frames up to date, parents first, and repaints the
// page if necessary.
func (t *Tab) Render() {
	for _, f := range t.frames {
		f.Render()
	}
	if !t.needsPaint {
		return
	}
	if t.root != nil && t.root.loaded {
		t.displayList = layout.DisplayList(t.root.doc)
	} else {
		t.displayList = []paint.Command{}
	}
}

// RunAnimationFrame is executed once per frame on behalf of the browser.
// scroll is the browser's scroll offset, which is adopted unless the tab
// has scrolled itself since the last frame.
func (t *Tab) RunAnimationFrame(scroll dimen.Dimen) {
	root := t.root
	if root == nil {
		t.host.Commit(t, CommitData{DisplayList: []paint.Command{}})
		return
	}
	if !root.scrollChanged {
		root.scroll = scroll
	}
	animating := false
	for _, f := range t.frames {
		if f.tickAnimations() {
			animating = true
		}
	}
	t.Render()
	if f := t.focusedFrame; f != nil && f.needsFocusScroll {
		f.ScrollTo(t.focus)
		f.needsFocusScroll = false
	}
	data := CommitData{
		URL:              root.url,
		Height:           root.contentHeight(),
		Focus:            t.focus,
		RootFrameFocused: t.focusedFrame == nil || t.focusedFrame == root,
	}
	if root.scrollChanged {
		s := root.scroll
		data.Scroll = &s
	}
	if !t.needsPaint {
		updates, ok := t.compositedUpdates()
		if ok {
			data.CompositedUpdates = updates
		} else {
			t.needsPaint = true
			t.Render()
		}
	}
	if t.needsPaint {
		data.DisplayList = t.displayList
	}
	t.host.Commit(t, data)
	root.scrollChanged = false
	t.needsPaint = false
	t.composited = t.composited[:0]
	if animating {
		t.host.SetNeedsAnimationFrame(t)
	}
}

// compositedUpdates derives new blends for nodes with animated opacity.
// The flag is false if a node has no recorded blend.
func (t *Tab) compositedUpdates() (map[*dom.Node]*paint.Blend, bool) {
	updates := make(map[*dom.Node]*paint.Blend, len(t.composited))
	for _, u := range t.composited {
		if !u.frame.loaded {
			continue
		}
		b, ok := u.frame.doc.Blend(u.node)
		if !ok {
			return nil, false
		}
		updates[u.node] = b.WithOpacity(u.node.Style().Get(style.Opacity).Float(1))
	}
	return updates, true
}

// animated is called for each new animation value of a node. Opacity is
// handled by compositing, other properties need a paint walk.
func (t *Tab) animated(f *Frame, n *dom.Node, prop string) {
	if prop == style.Opacity {
		t.composited = append(t.composited, compositedUpdate{frame: f, node: n})
		return
	}
	t.needsPaint = true
}

func (t *Tab) setNeedsPaint() {
	t.needsPaint = true
	t.setNeedsAnimationFrame()
}

func (t *Tab) setNeedsAnimationFrame() {
	if t.host != nil {
		t.host.SetNeedsAnimationFrame(t)
	}
}

// dropDescendants removes the frames hosted by f and their descendants.
func (t *Tab) dropDescendants(f *Frame) {
	kept := t.frames[:0]
	for _, g := range t.frames {
		if !descends(g, f) {
			kept = append(kept, g)
		}
	}
	t.frames = kept
}

func descends(f, ancestor *Frame) bool {
	for p := f.parent; p != nil; p = p.parent {
		if p == ancestor {
			return true
		}
	}
	return false
}

// --- User input ------------------------------------------------------------

// Click forwards a click in page coordinates to the root frame.
func (t *Tab) Click(ctx context.Context, x, y dimen.Dimen) error {
	if t.root == nil {
		return ErrNotLoaded
	}
	t.Render()
	return t.root.Click(ctx, x, y)
}

// Keypress inserts a character into the focused node.
func (t *Tab) Keypress(r rune) {
	if t.focusedFrame != nil {
		t.focusedFrame.Keypress(r)
	}
}

// Enter activates the focused node.
func (t *Tab) Enter(ctx context.Context) error {
	if t.focus == nil || t.focusedFrame == nil {
		return nil
	}
	return t.focusedFrame.ActivateElement(ctx, t.focus)
}

// AdvanceTab moves the focus to the next focusable node of the focused
// frame.
func (t *Tab) AdvanceTab() {
	f := t.focusedFrame
	if f == nil {
		f = t.root
	}
	if f != nil {
		f.AdvanceTab()
	}
}

// ScrollDown scrolls the focused frame by one step.
func (t *Tab) ScrollDown() {
	f := t.focusedFrame
	if f == nil {
		f = t.root
	}
	if f != nil {
		f.ScrollDown()
		if f != t.root {
			t.setNeedsPaint()
		}
	}
}

// ZoomBy zooms in or out by 10 percent.
func (t *Tab) ZoomBy(in bool) {
	if in {
		t.zoom *= 1.1
	} else {
		t.zoom /= 1.1
	}
	t.setNeedsPaint()
}

// ResetZoom sets the zoom factor back to 1.
func (t *Tab) ResetZoom() {
	t.zoom = 1
	t.setNeedsPaint()
}

// SetZoom sets the zoom factor. Factors below 0.1 are ignored.
func (t *Tab) SetZoom(zoom float64) {
	if zoom < 0.1 {
		return
	}
	t.zoom = zoom
	t.setNeedsPaint()
}

// Zoom returns the current zoom factor.
func (t *Tab) Zoom() float64 {
	return t.zoom
}

// SetDarkMode switches the color scheme. All styles have to be recomputed.
func (t *Tab) SetDarkMode(dark bool) {
	if dark == t.darkMode {
		return
	}
	t.darkMode = dark
	for _, f := range t.frames {
		if f.loaded {
			dom.DirtyStyleTree(f.root)
			f.SetNeedsRender()
		}
	}
}
