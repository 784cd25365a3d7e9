package otquery

func u16(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])<<0
}

func u32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])<<0
}

// fixed decodes an OpenType Fixed (16.16) number.
func fixed(b []byte) float64 {
	return float64(int32(u32(b))) / 65536
}
