package otquery

import "encoding/binary"

// OS2TableInfo holds the style-related fields of table 'OS/2'.
type OS2TableInfo struct {
	Version     uint16
	WeightClass uint16
	WidthClass  uint16
	Vendor      string
	FsSelection uint16
}

const os2MinSize = 64 // up to and including fsSelection

const fsSelectionItalic = 1 << 0

// OS2Info decodes table 'OS/2'.
// Returns (info, true) on success, or (zero, false) if table is missing/too short.
func OS2Info(f *Font) (OS2TableInfo, bool) {
	var info OS2TableInfo
	b := f.Table("OS/2")
	if len(b) < os2MinSize {
		return info, false
	}
	info.Version = binary.BigEndian.Uint16(b[0:2])
	info.WeightClass = binary.BigEndian.Uint16(b[4:6])
	info.WidthClass = binary.BigEndian.Uint16(b[6:8])
	info.Vendor = string(b[58:62])
	info.FsSelection = binary.BigEndian.Uint16(b[62:64])
	return info, true
}

// IsItalic reports whether fsSelection flags the font as italic.
func (o OS2TableInfo) IsItalic() bool {
	return o.FsSelection&fsSelectionItalic != 0
}
