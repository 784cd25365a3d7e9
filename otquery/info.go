package otquery

import (
	"path/filepath"
	"strings"

	"github.com/npillmayer/fontsubset/axes"
	"golang.org/x/image/font/sfnt"
)

// FontInfo is the metadata shown for a loaded font.
type FontInfo struct {
	FileName     string
	FileSize     int       // bytes
	Format       string    // upper-case file extension, e.g. "TTF"
	Container    Container // container detected from the binary
	Outlines     string    // "TrueType", "CFF", "CFF2" or Unknown
	FullName     string    // full name, falls back to family, then file name
	Family       string
	Subfamily    string
	Manufacturer string
	Designer     string
	Version      string
	Glyphs       int  // number of glyphs
	Characters   int  // number of code points mapped to a glyph
	WeightClass  int  // OS/2 usWeightClass, 400 if unknown
	Italic       bool // OS/2, head or subfamily name flag italics
	UnitsPerEm   int
	Axes         []axes.Axis
}

// IsVariable is true for fonts with at least one variation axis.
func (info *FontInfo) IsVariable() bool {
	return len(info.Axes) > 0
}

// Unknown is reported for names missing from a font.
const Unknown = "Unknown"

// Inspect extracts the metadata of a font binary loaded from fileName.
func Inspect(data []byte, fileName string) (*FontInfo, error) {
	f, err := Parse(data)
	if err != nil {
		return nil, err
	}
	info := f.Info()
	info.FileName = fileName
	info.FileSize = len(data)
	info.Format = strings.ToUpper(strings.TrimPrefix(filepath.Ext(fileName), "."))
	if info.FullName == "" {
		info.FullName = fileName
	}
	return info, nil
}

// Info extracts the metadata of f. File-related fields remain empty.
func (f *Font) Info() *FontInfo {
	info := &FontInfo{
		Container:   FontType(f.Binary),
		Glyphs:      NumGlyphs(f),
		Characters:  f.CodePoints().Len(),
		WeightClass: 400,
		Axes:        Axes(f),
	}
	switch {
	case f.HasTable("glyf"):
		info.Outlines = "TrueType"
	case f.HasTable("CFF2"):
		info.Outlines = "CFF2"
	case f.HasTable("CFF "):
		info.Outlines = "CFF"
	default:
		info.Outlines = Unknown
	}
	names := Names(f)
	name := func(id sfnt.NameID) string {
		if v, ok := names[id]; ok {
			return v
		}
		if f.sfnt != nil { // Macintosh records are decoded by x/image only
			if v, err := f.sfnt.Name(nil, id); err == nil {
				return v
			}
		}
		return ""
	}
	info.Family = name(sfnt.NameIDFamily)
	info.Subfamily = name(sfnt.NameIDSubfamily)
	info.Version = name(sfnt.NameIDVersion)
	info.FullName = name(sfnt.NameIDFull)
	if info.FullName == "" {
		info.FullName = info.Family
	}
	if info.Family == "" {
		info.Family = Unknown
	}
	if info.Manufacturer = name(sfnt.NameIDManufacturer); info.Manufacturer == "" {
		info.Manufacturer = Unknown
	}
	if info.Designer = name(sfnt.NameIDDesigner); info.Designer == "" {
		info.Designer = Unknown
	}
	if os2, ok := OS2Info(f); ok {
		if os2.WeightClass > 0 {
			info.WeightClass = int(os2.WeightClass)
		}
		info.Italic = os2.IsItalic()
	}
	if head, ok := HeadInfo(f); ok {
		info.UnitsPerEm = int(head.UnitsPerEm)
		info.Italic = info.Italic || head.IsItalic()
	}
	if strings.Contains(strings.ToLower(info.Subfamily), "italic") {
		info.Italic = true
	}
	tracer().Debugf("font %q: %d glyphs, %d characters, %d axes",
		info.FullName, info.Glyphs, info.Characters, len(info.Axes))
	return info
}
