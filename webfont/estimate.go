package webfont

import "fmt"

// WOFF2Ratio is the assumed size of a WOFF2 compressed font relative to its
// uncompressed sfnt binary.
const WOFF2Ratio = 0.5

// Estimate compares the size of an original font with its subset.
type Estimate struct {
	Original     int // bytes of the original font
	Subset       int // bytes of the uncompressed subset
	WOFF2        int // estimated bytes of the subset as WOFF2
	SavedPercent int // estimated saving of WOFF2 subset over original
}

// NewEstimate computes an estimate from the original and subset sizes.
func NewEstimate(original, subset int) Estimate {
	e := Estimate{
		Original: original,
		Subset:   subset,
		WOFF2:    round(float64(subset) * WOFF2Ratio),
	}
	if original > 0 {
		saved := float64(original - e.WOFF2)
		e.SavedPercent = round(saved / float64(original) * 100)
	}
	return e
}

// Saved is the estimated number of bytes saved.
func (e Estimate) Saved() int {
	return e.Original - e.WOFF2
}

func (e Estimate) String() string {
	return fmt.Sprintf("original %s, subset %s, woff2 ~%s, saved %d%%",
		FormatSize(e.Original), FormatSize(e.Subset), FormatSize(e.WOFF2), e.SavedPercent)
}

// FormatSize formats a byte count as "N B" below 1 KB, and with one decimal
// in KB otherwise.
func FormatSize(bytes int) string {
	if bytes < 1024 {
		return fmt.Sprintf("%d B", bytes)
	}
	return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
}
