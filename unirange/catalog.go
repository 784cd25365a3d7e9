package unirange

import (
	"fmt"
	"strings"
)

// Range is a named, inclusive interval of Unicode code points.
type Range struct {
	Key   string // catalog key, e.g. "latin"
	Label string // display name
	Low   rune   // first code point of the interval
	High  rune   // last code point of the interval, inclusive
}

// Size returns the number of code points in r.
func (r Range) Size() int {
	if r.High < r.Low {
		return 0
	}
	return int(r.High-r.Low) + 1
}

// Contains reports whether code point cp lies within r.
func (r Range) Contains(cp rune) bool {
	return cp >= r.Low && cp <= r.High
}

func (r Range) String() string {
	return fmt.Sprintf("%s [U+%04X..U+%04X] %s", r.Key, r.Low, r.High, r.Label)
}

// catalog is ordered; UI surfaces list ranges in this order.
var catalog = []Range{
	{Key: "latin", Label: "Latin Basic", Low: 0x0020, High: 0x007f},
	{Key: "latin-1-supp", Label: "Latin-1 Supplement", Low: 0x0080, High: 0x00ff},
	{Key: "latin-ext-a", Label: "Latin Extended-A", Low: 0x0100, High: 0x017f},
	{Key: "latin-ext-b", Label: "Latin Extended-B", Low: 0x0180, High: 0x024f},
	{Key: "punctuation", Label: "Punctuation", Low: 0x2000, High: 0x206f},
	{Key: "currency", Label: "Currency Symbols", Low: 0x20a0, High: 0x20cf},
}

var catalogIndex = func() map[string]int {
	m := make(map[string]int, len(catalog))
	for i, r := range catalog {
		m[r.Key] = i
	}
	return m
}()

// defaultSelection is what a fresh session starts with.
var defaultSelection = []string{"latin", "latin-1-supp"}

// Lookup finds the range registered under key.
func Lookup(key string) (Range, bool) {
	i, ok := catalogIndex[key]
	if !ok {
		return Range{}, false
	}
	return catalog[i], true
}

// All returns the catalog in catalog order. The returned slice is a copy.
func All() []Range {
	all := make([]Range, len(catalog))
	copy(all, catalog)
	return all
}

// Keys returns the catalog keys in catalog order.
func Keys() []string {
	keys := make([]string, len(catalog))
	for i, r := range catalog {
		keys[i] = r.Key
	}
	return keys
}

// DefaultSelection returns the keys pre-selected for a new session.
func DefaultSelection() []string {
	return append([]string(nil), defaultSelection...)
}

// ParseKeys splits a user supplied list of range keys. Keys may be separated
// by commas or white space; they are trimmed and lower-cased. Keys are not
// checked against the catalog.
func ParseKeys(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	keys := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			keys = append(keys, f)
		}
	}
	return keys
}
