/*
Package frame deals with layout frames of a browser engine.

Layout is the process of placing boxes within larger boxes. The largest box
is the document of a browsing context, the smallest are words of text and
replaced content like images or form controls. Boxes of a document form a
tree, the layout tree, which is derived from the content tree of a page.

This package defines the protocol shared by all kinds of boxes. Package
frame/layout implements the individual kinds, frame/framedebug helps
inspecting layout trees.

Boxes keep their geometry in dependency-tracked fields (see package
engine/field). A layout pass recomputes only those fields which became
stale since the last pass.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package frame

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'tyweb.layout'.
func tracer() tracing.Trace {
	return tracing.Select("tyweb.layout")
}
