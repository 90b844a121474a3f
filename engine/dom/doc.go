/*
Package dom implements the content tree of a document.

The content tree consists of element and text nodes. It is built from an
HTML parse tree (golang.org/x/net/html), whose nodes remain the storage for
tag names, attributes and text. The content tree adds what the rendering
engine needs on top of it:

▪︎ the computed style of every node (style.FieldSet),

▪︎ a reference to the layout object created for a node,

▪︎ the focus flag used for the :focus pseudo-class,

▪︎ running property animations,

▪︎ decoded images of <img> elements and hosted frames of <iframe> elements.

Mutations of the content tree (changing attributes or text) notify the
layout object responsible for the node, which in turn invalidates the
parts of the layout tree depending on the content.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package dom

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'tyweb.dom'.
func tracer() tracing.Trace {
	return tracing.Select("tyweb.dom")
}
