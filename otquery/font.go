package otquery

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/go-text/typesetting/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// Container is the outer format of a font binary.
type Container string

// Known containers, identified by the first four bytes of a font binary.
const (
	ContainerTrueType   Container = "TrueType"
	ContainerOpenType   Container = "OpenType" // CFF outlines
	ContainerCollection Container = "Collection"
	ContainerWOFF       Container = "WOFF"
	ContainerWOFF2      Container = "WOFF2"
	ContainerUnknown    Container = "unknown"
)

// FontType identifies the container of a font binary.
func FontType(data []byte) Container {
	if len(data) < 4 {
		return ContainerUnknown
	}
	switch u32(data) {
	case 0x00010000, 0x74727565: // 'true'
		return ContainerTrueType
	case 0x4f54544f: // 'OTTO'
		return ContainerOpenType
	case 0x74746366: // 'ttcf'
		return ContainerCollection
	case 0x774f4646: // 'wOFF'
		return ContainerWOFF
	case 0x774f4632: // 'wOF2'
		return ContainerWOFF2
	}
	return ContainerUnknown
}

// ErrCompressed is returned for WOFF/WOFF2 binaries, which have to be
// decompressed before their tables can be queried.
var ErrCompressed = errors.New("compressed font container not supported for queries")

// Font is a font binary prepared for table queries.
type Font struct {
	Binary []byte
	loader *opentype.Loader
	sfnt   *sfnt.Font // nil if x/image cannot parse the binary
}

// Parse prepares a single-font binary (TrueType or CFF-flavoured OpenType)
// for queries. data must not change while the Font is in use.
func Parse(data []byte) (*Font, error) {
	switch FontType(data) {
	case ContainerWOFF, ContainerWOFF2:
		return nil, ErrCompressed
	case ContainerUnknown:
		return nil, errors.New("not an OpenType font")
	}
	ld, err := opentype.NewLoader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("cannot load font tables: %w", err)
	}
	f := &Font{Binary: data, loader: ld}
	if f.sfnt, err = sfnt.Parse(data); err != nil {
		tracer().Debugf("x/image/sfnt cannot parse font: %v", err)
	}
	return f, nil
}

// Table returns the raw bytes of the table with the given tag, or nil.
func (f *Font) Table(tag string) []byte {
	if f == nil || f.loader == nil {
		return nil
	}
	b, err := f.loader.RawTable(opentype.MustNewTag(tag))
	if err != nil {
		return nil
	}
	return b
}

// HasTable reports whether the font carries table tag.
func (f *Font) HasTable(tag string) bool {
	return f.Table(tag) != nil
}
