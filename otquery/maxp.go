package otquery

import "encoding/binary"

const maxpMinSize = 6

// NumGlyphs returns the glyph count from table 'maxp', falling back to
// x/image/sfnt's view of the font. Returns 0 if neither is available.
func NumGlyphs(f *Font) int {
	if b := f.Table("maxp"); len(b) >= maxpMinSize {
		return int(binary.BigEndian.Uint16(b[4:6]))
	}
	if f != nil && f.sfnt != nil {
		return f.sfnt.NumGlyphs()
	}
	return 0
}
