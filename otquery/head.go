package otquery

import "encoding/binary"

// HeadTableInfo holds the fields of table 'head' relevant for font
// inspection.
type HeadTableInfo struct {
	FontRevision float64
	UnitsPerEm   uint16
	MacStyle     uint16
}

const headTableSize = 54

const macStyleItalic = 1 << 1

// HeadInfo decodes table 'head'.
// Returns (info, true) on success, or (zero, false) if table is missing/too short.
func HeadInfo(f *Font) (HeadTableInfo, bool) {
	var info HeadTableInfo
	b := f.Table("head")
	if len(b) < headTableSize {
		return info, false
	}
	info.FontRevision = fixed(b[4:8])
	info.UnitsPerEm = binary.BigEndian.Uint16(b[18:20])
	info.MacStyle = binary.BigEndian.Uint16(b[44:46])
	return info, true
}

// IsItalic reports whether the italic bit of macStyle is set.
func (h HeadTableInfo) IsItalic() bool {
	return h.MacStyle&macStyleItalic != 0
}
