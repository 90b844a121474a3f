/*
Package browsing implements browsing contexts on top of the layout engine.

A Frame is a browsing context: the top-level document of a tab or the
document of an iframe. A Tab owns a tree of frames and a task runner, a
single goroutine which executes loads, user input and animation frames in
submission order. All style and layout computation of a tab happens on
this goroutine.

When a tab has finished an animation frame, it hands a settled display list
plus some auxiliary data to the Browser. The browser keeps the committed
state of the active tab behind a single lock and paces animation frames.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package browsing

import (
	"errors"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'tyweb.browsing'.
func tracer() tracing.Trace {
	return tracing.Select("tyweb.browsing")
}

// ErrBlockedByCSP is reported for subresources which are not allowed by
// the content security policy of a document.
var ErrBlockedByCSP = errors.New("blocked by content security policy")

// ErrNotLoaded is returned for operations on frames without a document.
var ErrNotLoaded = errors.New("frame has no document")
