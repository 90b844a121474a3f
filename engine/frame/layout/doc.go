/*
Package layout implements the kinds of boxes of a layout tree.

Overview

A document box is created for the root element of a page. On its first
layout it creates a single block box for the same element. Blocks create
their children lazily: in block mode one child block per content child, in
inline mode lines filled with text boxes and embeds (images, form controls
and iframes). Children are created anew only if the block's children field
became stale, e.g. because the content below the block changed or because
the available width changed.

All dimensions are kept in fields of package engine/field. Every
computation reads its inputs through the field it is computing, which
records the dependency edge. Changing an input thus invalidates exactly the
fields computed from it, and the next layout pass recomputes only those.

Text metrics carry a correction factor of LineHeightFactor for ascent,
descent and line height, which is not applied to embeds.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package layout

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'tyweb.layout'.
func tracer() tracing.Trace {
	return tracing.Select("tyweb.layout")
}
