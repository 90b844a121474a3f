package browsing

import (
	"context"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/npillmayer/tyweb/core/dimen"
	"github.com/npillmayer/tyweb/core/parameters"
	"github.com/npillmayer/tyweb/engine/dom"
	"github.com/npillmayer/tyweb/engine/paint"
)

// State is the committed state of the active tab, as seen by the browser.
type State struct {
	URL         *url.URL
	Scroll      dimen.Dimen
	Height      dimen.Dimen
	DisplayList []paint.Command
	Focus       *dom.Node
	Commits     int // number of commits received from the active tab
}

// Browser owns a set of tabs. It keeps the state committed by the active tab
// and paces its animation frames. All fields are guarded by a single lock,
// which is never held while waiting for a tab.
type Browser struct {
	mu      sync.Mutex
	regs    *parameters.Registers
	fetcher Fetcher
	limiter *rate.Limiter

	tabs   []*Tab
	active *Tab
	state  State

	needsAnimationFrame bool
	timer               *time.Timer
	needsComposite      bool
	needsDraw           bool
	closed              bool
}

// NewBrowser creates a browser. Animation frames are paced by the refresh
// rate of regs.
func NewBrowser(fetcher Fetcher, regs *parameters.Registers) *Browser {
	if regs == nil {
		regs = parameters.NewRegisters()
	}
	refresh := regs.T(parameters.P_REFRESHRATE)
	return &Browser{
		regs:    regs,
		fetcher: fetcher,
		limiter: rate.NewLimiter(rate.Every(refresh), 1),
	}
}

// NewTab opens a tab, makes it the active tab and schedules loading u.
func (b *Browser) NewTab(u *url.URL) *Tab {
	tab := NewTab(b, b.fetcher, b.regs, b.regs.D(parameters.P_HEIGHT))
	b.mu.Lock()
	b.tabs = append(b.tabs, tab)
	b.activate(tab)
	b.mu.Unlock()
	b.scheduleLoad(tab, u, "")
	return tab
}

// activate switches the active tab. b.mu must be held.
func (b *Browser) activate(tab *Tab) {
	b.active = tab
	b.state = State{}
	b.needsAnimationFrame = true
	b.needsComposite = true
}

// SetActiveTab switches to another tab of the browser.
func (b *Browser) SetActiveTab(tab *Tab) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, t := range b.tabs {
		if t == tab {
			b.activate(tab)
			tab.Schedule("activate", func(ctx context.Context) {
				tab.setNeedsPaint()
			})
			return
		}
	}
}

// Load navigates the active tab.
func (b *Browser) Load(u *url.URL) {
	if tab := b.ActiveTab(); tab != nil {
		b.scheduleLoad(tab, u, "")
	}
}

// scheduleLoad discards the pending tasks of tab, except animation frames,
// and queues loading u.
func (b *Browser) scheduleLoad(tab *Tab, u *url.URL, payload string) {
	tab.runner.ClearPending()
	tab.Schedule("load "+u.String(), func(ctx context.Context) {
		if err := tab.Load(ctx, u, payload); err != nil {
			tracer().Errorf("cannot load %s: %v", u, err)
		}
	})
}

// ActiveTab returns the tab currently displayed.
func (b *Browser) ActiveTab() *Tab {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.active
}

// Snapshot returns a copy of the committed state.
func (b *Browser) Snapshot() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// --- Host interface --------------------------------------------------------

// Commit is called by a tab at the end of an animation frame. Commits of
// inactive tabs are ignored.
func (b *Browser) Commit(tab *Tab, data CommitData) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if tab != b.active {
		return
	}
	b.state.URL = data.URL
	if data.Scroll != nil {
		b.state.Scroll = *data.Scroll
	}
	b.state.Height = data.Height
	b.state.Focus = data.Focus
	if data.DisplayList != nil {
		b.state.DisplayList = data.DisplayList
	}
	b.timer = nil
	if data.CompositedUpdates == nil {
		b.needsComposite = true
	} else {
		if len(data.CompositedUpdates) > 0 {
			b.state.DisplayList = paint.ApplyUpdates(b.state.DisplayList, data.CompositedUpdates)
		}
		b.needsDraw = true
	}
	b.state.Commits++
}

// SetNeedsAnimationFrame is called by a tab which needs another frame.
func (b *Browser) SetNeedsAnimationFrame(tab *Tab) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if tab == b.active {
		b.needsAnimationFrame = true
	}
}

var _ Host = (*Browser)(nil)

// --- Animation frames ------------------------------------------------------

// ScheduleAnimationFrame arms the frame timer if the active tab needs a frame
// and no frame is in flight. Frames are spaced by at least the refresh rate.
func (b *Browser) ScheduleAnimationFrame() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.needsAnimationFrame || b.timer != nil || b.closed || b.active == nil {
		return
	}
	delay := b.limiter.Reserve().Delay()
	b.timer = time.AfterFunc(delay, b.animationFrame)
}

func (b *Browser) animationFrame() {
	b.mu.Lock()
	if b.closed || b.active == nil {
		b.mu.Unlock()
		return
	}
	scroll, tab := b.state.Scroll, b.active
	b.needsAnimationFrame = false
	b.mu.Unlock()
	tab.runner.Schedule(NewKeptTask("animation frame", func(ctx context.Context) {
		tab.RunAnimationFrame(scroll)
	}))
}

// Present hands the committed display list to draw if something changed
// since the last call. The flag is true if draw has been called.
func (b *Browser) Present(draw func(State)) bool {
	b.mu.Lock()
	if !b.needsComposite && !b.needsDraw {
		b.mu.Unlock()
		return false
	}
	b.needsComposite, b.needsDraw = false, false
	state := b.state
	b.mu.Unlock()
	draw(state)
	return true
}

// Idle is true if the active tab has committed at least once, has no work
// left and does not need another frame.
// The tab is asked first, so requests made by its last task are seen.
func (b *Browser) Idle() bool {
	tab := b.ActiveTab()
	if tab == nil || !tab.Idle() {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return tab == b.active && b.state.Commits > 0 && !b.needsAnimationFrame && b.timer == nil
}

// Run drives animation frames until ctx is done and calls draw for every
// change of the committed state. The browser is closed on return.
func (b *Browser) Run(ctx context.Context, draw func(State)) error {
	ticker := time.NewTicker(b.regs.T(parameters.P_REFRESHRATE) / 2)
	defer ticker.Stop()
	defer b.Close()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			b.ScheduleAnimationFrame()
			if draw != nil {
				b.Present(draw)
			}
		}
	}
}

// WaitIdle drives animation frames until the browser is idle.
func (b *Browser) WaitIdle(ctx context.Context) error {
	ticker := time.NewTicker(b.regs.T(parameters.P_REFRESHRATE) / 2)
	defer ticker.Stop()
	for {
		b.ScheduleAnimationFrame()
		if b.Idle() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Close stops the frame timer and the task runners of all tabs.
func (b *Browser) Close() {
	b.mu.Lock()
	b.closed = true
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	tabs := b.tabs
	b.tabs = nil
	b.mu.Unlock()
	for _, tab := range tabs {
		tab.Close()
	}
}

// --- User input ------------------------------------------------------------

func (b *Browser) forward(name string, fn func(ctx context.Context, tab *Tab) error) {
	tab := b.ActiveTab()
	if tab == nil {
		return
	}
	tab.Schedule(name, func(ctx context.Context) {
		if err := fn(ctx, tab); err != nil {
			tracer().Errorf("%s: %v", name, err)
		}
	})
}

// HandleClick forwards a click at window coordinates to the active tab.
func (b *Browser) HandleClick(x, y dimen.Dimen) {
	b.forward("click", func(ctx context.Context, tab *Tab) error {
		return tab.Click(ctx, x, y)
	})
}

// HandleKey forwards a character to the active tab.
func (b *Browser) HandleKey(r rune) {
	b.forward("keypress", func(ctx context.Context, tab *Tab) error {
		tab.Keypress(r)
		return nil
	})
}

// HandleEnter activates the focused element of the active tab.
func (b *Browser) HandleEnter() {
	b.forward("enter", func(ctx context.Context, tab *Tab) error {
		return tab.Enter(ctx)
	})
}

// HandleTab moves the focus of the active tab.
func (b *Browser) HandleTab() {
	b.forward("tab", func(ctx context.Context, tab *Tab) error {
		tab.AdvanceTab()
		return nil
	})
}

// HandleDown scrolls the active tab down.
func (b *Browser) HandleDown() {
	b.forward("scroll down", func(ctx context.Context, tab *Tab) error {
		tab.ScrollDown()
		return nil
	})
}

// GoBack navigates the active tab back in history.
func (b *Browser) GoBack() {
	b.forward("go back", func(ctx context.Context, tab *Tab) error {
		return tab.GoBack(ctx)
	})
}

// Zoom zooms the active tab in or out.
func (b *Browser) Zoom(in bool) {
	b.forward("zoom", func(ctx context.Context, tab *Tab) error {
		tab.ZoomBy(in)
		return nil
	})
}

// ResetZoom resets the zoom factor of the active tab.
func (b *Browser) ResetZoom() {
	b.forward("reset zoom", func(ctx context.Context, tab *Tab) error {
		tab.ResetZoom()
		return nil
	})
}

// ToggleDarkMode switches the color scheme of the active tab.
func (b *Browser) ToggleDarkMode() {
	b.forward("dark mode", func(ctx context.Context, tab *Tab) error {
		tab.SetDarkMode(!tab.darkMode)
		return nil
	})
}
