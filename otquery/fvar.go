package otquery

import (
	"github.com/npillmayer/fontsubset/axes"
	"golang.org/x/image/font/sfnt"
)

const (
	fvarHeaderSize     = 16
	fvarAxisRecordSize = 20
)

// Axes decodes the variation axes of table 'fvar', in font order. Axis
// names are resolved through table 'name'. Returns nil for static fonts.
func Axes(f *Font) []axes.Axis {
	b := f.Table("fvar")
	if b == nil {
		return nil
	}
	return decodeAxes(b, Names(f))
}

func decodeAxes(b []byte, names map[sfnt.NameID]string) []axes.Axis {
	if len(b) < fvarHeaderSize {
		return nil
	}
	if major := u16(b[0:2]); major != 1 {
		tracer().Debugf("unsupported fvar version %d", major)
		return nil
	}
	axesOffset := int(u16(b[4:6]))
	axisCount := int(u16(b[8:10]))
	axisSize := int(u16(b[10:12]))
	if axisSize < fvarAxisRecordSize || axesOffset+axisCount*axisSize > len(b) {
		tracer().Debugf("fvar axis records out of bounds: count=%d size=%d", axisCount, axisSize)
		return nil
	}
	list := make([]axes.Axis, 0, axisCount)
	for i := range axisCount {
		rec := b[axesOffset+i*axisSize:]
		a := axes.Axis{
			Tag:     string(rec[0:4]),
			Min:     fixed(rec[4:8]),
			Default: fixed(rec[8:12]),
			Max:     fixed(rec[12:16]),
			Name:    names[sfnt.NameID(u16(rec[18:20]))],
		}
		list = append(list, a)
	}
	return list
}
