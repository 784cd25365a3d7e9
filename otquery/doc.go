/*
Package otquery answers metadata queries about a font: names, weight and
style, glyph and character counts, variation axes and code-point coverage.

Queries operate on the raw bytes of single OpenType tables. They never fail
on malformed tables but report missing information as absent.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package otquery

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'fontsubset.query'
func tracer() tracing.Trace {
	return tracing.Select("fontsubset.query")
}
