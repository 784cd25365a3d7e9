package unirange

import (
	"slices"
)

// Set is a deduplicated set of Unicode code points. The zero value is not
// usable; create sets with NewSet or Build.
type Set struct {
	cps map[rune]struct{}
}

// NewSet creates a set holding the given code points.
func NewSet(cps ...rune) Set {
	s := Set{cps: make(map[rune]struct{}, len(cps))}
	for _, cp := range cps {
		s.cps[cp] = struct{}{}
	}
	return s
}

// Build expands a selection of catalog keys into the set of all code points
// covered by the selected ranges. Unknown keys are skipped, duplicate keys
// and overlapping ranges collapse.
func Build(keys []string) Set {
	size := 0
	for _, key := range keys {
		if r, ok := Lookup(key); ok {
			size += r.Size()
		}
	}
	s := Set{cps: make(map[rune]struct{}, size)}
	for _, key := range keys {
		r, ok := Lookup(key)
		if !ok {
			tracer().Debugf("ignoring unknown range key %q", key)
			continue
		}
		s.AddRange(r)
	}
	tracer().Debugf("code-point set for %v has %d entries", keys, s.Len())
	return s
}

// Add inserts a single code point.
func (s Set) Add(cp rune) {
	if s.cps == nil {
		panic("unirange: Add on uninitialized Set")
	}
	s.cps[cp] = struct{}{}
}

// AddRange inserts every code point of r.
func (s Set) AddRange(r Range) {
	for cp := r.Low; cp <= r.High; cp++ {
		s.Add(cp)
	}
}

// Len returns the number of distinct code points in s.
func (s Set) Len() int {
	return len(s.cps)
}

// IsEmpty is true if s holds no code points.
func (s Set) IsEmpty() bool {
	return len(s.cps) == 0
}

// Contains reports whether cp is a member of s.
func (s Set) Contains(cp rune) bool {
	_, ok := s.cps[cp]
	return ok
}

// Sorted returns the members of s in ascending order.
func (s Set) Sorted() []rune {
	out := make([]rune, 0, len(s.cps))
	for cp := range s.cps {
		out = append(out, cp)
	}
	slices.Sort(out)
	return out
}
