/*
Package raster executes display lists on the CPU.

Display lists are drawn onto an image.RGBA. Shapes with rounded corners and
lines are rasterized with golang.org/x/image/vector, images are scaled with
the scalers of golang.org/x/image/draw. Blend effects which need a layer of
their own are drawn into an offscreen image first, which is then composited
onto the destination.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package raster

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'tyweb.raster'.
func tracer() tracing.Trace {
	return tracing.Select("tyweb.raster")
}
