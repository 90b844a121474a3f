/*
Package field implements dependency-tracked fields for incremental computation.

A field holds a single computed value together with a dirty flag and the set
of fields which depend on it. Computations consume other fields exclusively
through Read, which records the dependency edge on first use and returns the
current value. Setting a field to a new value marks all of its dependents
dirty; setting it to an equal value clears its own dirty flag only.

Fields are owned by nodes of a tree (layout boxes, for example). Every field
knows the Scope of its owner's parent. Marking a field dirty flags this scope
and all of its ancestors as having dirty descendants, stopping at the first
ancestor already flagged. A tree walk may therefore skip every subtree whose
root is clean and has no dirty descendants.

Reading a dirty field, re-freezing frozen dependencies and reading through an
undeclared edge of a frozen field are programming errors. They panic with an
error of code core.EINVARIANT.

Fields are not safe for concurrent use. All fields of a browser tab are
accessed from the tab's render goroutine only.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package field

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'tyweb.field'.
func tracer() tracing.Trace {
	return tracing.Select("tyweb.field")
}
