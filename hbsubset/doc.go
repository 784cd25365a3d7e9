/*
Package hbsubset drives the HarfBuzz subsetter (hb-subset.wasm) through a
WebAssembly execution boundary to produce font subsets.

The boundary is a manually managed linear memory shared by every subsetting
request of an Engine. Every native object a request creates (the copied font
buffer, blobs, faces, the subset input) is released before the request
returns, whatever the outcome, and requests against one Engine never
interleave.

	engine := hbsubset.NewEngine(hbsubset.Config{
	    Loader: hbsubset.FileLoader("vendors/hb-subset.wasm"),
	})
	defer engine.Close(ctx)
	cps := unirange.Build([]string{"latin", "currency"})
	subset, err := engine.Subset(ctx, fontBytes, cps)

The module is loaded and instantiated lazily, once, on the first request.
If this fails, every later request of the same Engine fails with
ErrBoundaryInit.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package hbsubset

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'fontsubset.hb'
func tracer() tracing.Trace {
	return tracing.Select("fontsubset.hb")
}
