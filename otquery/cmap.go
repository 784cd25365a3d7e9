package otquery

import (
	"github.com/go-text/typesetting/font"
	"github.com/npillmayer/fontsubset/unirange"
	"golang.org/x/image/font/sfnt"
)

// CodePoints returns every code point mapped to a glyph by the font's
// character map. Returns an empty set if data cannot be parsed.
func CodePoints(data []byte) unirange.Set {
	f, err := Parse(data)
	if err != nil {
		return unirange.NewSet()
	}
	return f.CodePoints()
}

// CodePoints returns every code point the character map of f maps to a
// glyph other than .notdef.
func (f *Font) CodePoints() unirange.Set {
	cps := unirange.NewSet()
	ft, err := font.NewFont(f.loader)
	if err != nil {
		tracer().Debugf("cannot read character map: %v", err)
		return cps
	}
	it := ft.Cmap.Iter()
	for it.Next() {
		if r, gid := it.Char(); gid != 0 {
			cps.Add(r)
		}
	}
	return cps
}

// Coverage counts how many members of cps the font can display.
func (f *Font) Coverage(cps unirange.Set) int {
	if f.sfnt == nil {
		all := f.CodePoints()
		n := 0
		for _, cp := range cps.Sorted() {
			if all.Contains(cp) {
				n++
			}
		}
		return n
	}
	var buf sfnt.Buffer
	n := 0
	for _, cp := range cps.Sorted() {
		if gid, err := f.sfnt.GlyphIndex(&buf, cp); err == nil && gid != 0 {
			n++
		}
	}
	return n
}
