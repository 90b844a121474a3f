/*
Package style holds computed CSS style for the nodes of a content tree.

Every content node owns a FieldSet: one dependency-tracked field per CSS
property the engine knows about. Inherited properties depend on the parent's
field of the same name, so changing a value at a node invalidates the
computed values of its descendants.

The set of properties is closed. Properties, their initial values and their
inheritance behaviour are kept in a registry (see Lookup). Values are stored
as strings, as they appear in a stylesheet, and are converted on use by
methods of type Property.

Property transitions are expressed as numeric animations, which are ticked
once per animation frame.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package style

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'tyweb.style'.
func tracer() tracing.Trace {
	return tracing.Select("tyweb.style")
}
