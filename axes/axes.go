/*
Package axes holds the current settings of a variable font's axes for
previewing, and renders them as a CSS font-variation-settings declaration.

Axis values only affect previews. Subsetting always works on the original
font binary with its default instance.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package axes

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Axis describes one variation axis as declared by a font's 'fvar' table.
type Axis struct {
	Tag     string // 4-character axis tag, e.g. "wght"
	Name    string // display name, may be empty
	Min     float64
	Default float64
	Max     float64
}

// Label returns the display name of the axis, or its tag if it has no name.
func (a Axis) Label() string {
	if a.Name == "" {
		return a.Tag
	}
	return a.Name
}

// Clamp limits v to the range of a.
func (a Axis) Clamp(v float64) float64 {
	return math.Max(a.Min, math.Min(a.Max, v))
}

// Step is the granularity of a slider for a: whole units for wide ranges,
// tenths otherwise.
func (a Axis) Step() float64 {
	if a.Max-a.Min > 100 {
		return 1
	}
	return 0.1
}

// State is the single source of truth for the current axis values of a
// session. Callers mutating and reading a State from different goroutines
// have to synchronize.
type State struct {
	axes   []Axis
	values map[string]float64
}

// New creates a State for the given axes, every axis set to its default.
// Axis order is kept for rendering.
func New(axes []Axis) *State {
	s := &State{
		axes:   append([]Axis(nil), axes...),
		values: make(map[string]float64, len(axes)),
	}
	s.Reset()
	return s
}

// Reset sets every axis back to its default value.
func (s *State) Reset() {
	for _, a := range s.axes {
		s.values[a.Tag] = a.Default
	}
}

// Axes returns the axes of s in font order.
func (s *State) Axes() []Axis {
	return append([]Axis(nil), s.axes...)
}

// Len is the number of axes.
func (s *State) Len() int {
	return len(s.axes)
}

// Axis looks up the axis with the given tag.
func (s *State) Axis(tag string) (Axis, bool) {
	for _, a := range s.axes {
		if a.Tag == tag {
			return a, true
		}
	}
	return Axis{}, false
}

// Set assigns value v to the axis tag. Values outside the axis range are
// clamped to it. Set returns the value actually stored; for unknown tags
// nothing is stored and false is returned.
func (s *State) Set(tag string, v float64) (float64, bool) {
	a, ok := s.Axis(tag)
	if !ok || math.IsNaN(v) {
		return 0, false
	}
	v = a.Clamp(v)
	s.values[tag] = v
	return v, true
}

// Value returns the current value of axis tag.
func (s *State) Value(tag string) (float64, bool) {
	v, ok := s.values[tag]
	return v, ok
}

// Declaration renders the current values as the value part of a CSS
// font-variation-settings declaration, e.g. `"wght" 700, "wdth" 100`.
// Axes appear in font order. A State without axes renders as "normal".
func (s *State) Declaration() string {
	if len(s.axes) == 0 {
		return "normal"
	}
	var sb strings.Builder
	for i, a := range s.axes {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%q %s", a.Tag, FormatValue(s.values[a.Tag]))
	}
	return sb.String()
}

// CSSRule renders a complete font-variation-settings declaration.
func (s *State) CSSRule() string {
	return "font-variation-settings: " + s.Declaration() + ";"
}

// FormatValue formats an axis value with as few digits as needed.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
