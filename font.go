/*
Package fontsubset reduces fonts to the glyphs needed for a selection of
Unicode ranges, for deployment as web fonts.

A Session holds one loaded font. Clients select named Unicode ranges (see
package unirange), adjust the axes of variable fonts for previews (see
package axes) and produce a subset binary through the HarfBuzz subsetter
running in a WebAssembly boundary (see package hbsubset).

We stick to the following definitions:

▪︎ A "range" is a named, inclusive interval of Unicode code points, e.g.
"latin" for U+0020..U+007F.

▪︎ A "selection" is a set of range keys. The code points of a selection
are the union of the intervals of its ranges.

▪︎ A "subset" is a font binary keeping only the glyphs reachable from the
code points of a selection. Axis settings do not influence it: subsets of
variable fonts remain variable.

# Status

Inspection of WOFF and WOFF2 containers is not supported. Such fonts may be
loaded, but report no metadata.

# Links

HarfBuzz subsetting:
https://harfbuzz.github.io/harfbuzz-hb-subset.html

______________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package fontsubset

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'fontsubset'
func tracer() tracing.Trace {
	return tracing.Select("fontsubset")
}

// Extensions lists the accepted font file extensions.
var Extensions = []string{"ttf", "otf", "woff", "woff2"}

// ErrUnsupportedFormat flags a font file with an extension not in Extensions.
var ErrUnsupportedFormat = errors.New("unsupported font format, use .ttf, .otf, .woff or .woff2")

// CheckExtension validates the extension of a font file name, ignoring case.
func CheckExtension(name string) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	for _, e := range Extensions {
		if ext == e {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Base(name))
}

// SubsetFileName is the name a subset of font file name is saved as.
func SubsetFileName(name string) string {
	return "subset-" + filepath.Base(name)
}
