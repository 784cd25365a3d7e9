/*
Package unirange holds the catalog of named Unicode ranges a user may retain
when subsetting a font, and builds deduplicated code-point sets from a
selection of range keys.

The catalog is fixed at process start. Keys not found in the catalog are
ignored wherever a selection is expanded, as selections are expected to
originate from a catalog-driven surface.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package unirange

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'fontsubset'
func tracer() tracing.Trace {
	return tracing.Select("fontsubset")
}
