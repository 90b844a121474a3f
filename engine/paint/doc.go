/*
Package paint defines the display list produced by the paint walk.

A display list is a sequence of commands. Drawing commands (rectangles, text,
lines, images) are leaves. Visual effects (Transform and Blend) own child
commands and form a tree. Every command knows its bounding rectangle; the
rectangle of a visual effect is the union of its children's rectangles.

Commands are plain data. Executing them is the business of a backend, e.g.
package backend/raster.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package paint

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'tyweb.paint'.
func tracer() tracing.Trace {
	return tracing.Select("tyweb.paint")
}
