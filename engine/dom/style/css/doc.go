/*
Package css parses stylesheets and applies them to a content tree.

Stylesheets are parsed with github.com/aymerick/douceur. Every selector of a
stylesheet rule results in a separate Rule, carrying a priority computed from
the selector's specificity:

	tag          1
	class       10
	id         100
	universal    0

Descendant combinators add up the priorities of their parts. The :focus
pseudo-class is handled by the engine and matches focused nodes only; all
other selector features are delegated to github.com/andybalholm/cascadia.

Rules may be conditioned on the color scheme by placing them inside of

	@media (prefers-color-scheme: dark) { … }

Resolve is the style pass: it recomputes the style fields of every node
whose style is stale, in tree order.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package css

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'tyweb.css'.
func tracer() tracing.Trace {
	return tracing.Select("tyweb.css")
}
