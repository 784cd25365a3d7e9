package fontsubset

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/npillmayer/fontsubset/axes"
	"github.com/npillmayer/fontsubset/hbsubset"
	"github.com/npillmayer/fontsubset/otquery"
	"github.com/npillmayer/fontsubset/unirange"
	"github.com/npillmayer/fontsubset/webfont"
)

// Session is the state around one loaded font: its binary, metadata, the
// current axis settings and the selection of Unicode ranges.
//
// A Session is not safe for concurrent use. The Engine it subsets with is.
type Session struct {
	fileName  string
	binary    []byte // never modified
	font      *otquery.Font
	info      *otquery.FontInfo
	axes      *axes.State
	selection map[string]bool
	engine    *hbsubset.Engine
}

// Open starts a session for the font binary data, loaded from a file named
// fileName. Subsets are produced with engine; if engine is nil, the process
// default engine is used.
//
// Fonts in compressed containers (WOFF, WOFF2) are accepted, but carry no
// metadata apart from file name, size and format.
func Open(fileName string, data []byte, engine *hbsubset.Engine) (*Session, error) {
	if err := CheckExtension(fileName); err != nil {
		return nil, err
	}
	if engine == nil {
		engine = hbsubset.Default()
	}
	s := &Session{
		fileName:  fileName,
		binary:    data,
		engine:    engine,
		selection: make(map[string]bool),
	}
	info, err := otquery.Inspect(data, fileName)
	switch {
	case errors.Is(err, otquery.ErrCompressed):
		tracer().Infof("font %s is compressed, no metadata available", fileName)
		info = &otquery.FontInfo{
			FileName:    fileName,
			FileSize:    len(data),
			Container:   otquery.FontType(data),
			FullName:    fileName,
			Family:      otquery.Unknown,
			Format:      strings.ToUpper(strings.TrimPrefix(filepath.Ext(fileName), ".")),
			WeightClass: 400,
		}
	case err != nil:
		return nil, err
	default:
		if s.font, err = otquery.Parse(data); err != nil {
			return nil, err
		}
	}
	s.info = info
	s.axes = axes.New(info.Axes)
	s.ResetSelection()
	tracer().Debugf("opened session for %s (%d bytes)", fileName, len(data))
	return s, nil
}

// FileName is the name of the font file of the session.
func (s *Session) FileName() string {
	return s.fileName
}

// Binary is the original font binary. Clients must not modify it.
func (s *Session) Binary() []byte {
	return s.binary
}

// Info is the metadata of the font.
func (s *Session) Info() *otquery.FontInfo {
	return s.info
}

// Axes is the axis state of the font, for previews.
func (s *Session) Axes() *axes.State {
	return s.axes
}

// --- Selection -------------------------------------------------------------

// Select adds ranges to the selection. Unknown keys are ignored and
// returned.
func (s *Session) Select(keys ...string) (unknown []string) {
	for _, k := range keys {
		if _, ok := unirange.Lookup(k); !ok {
			unknown = append(unknown, k)
			continue
		}
		s.selection[k] = true
	}
	return unknown
}

// Deselect removes ranges from the selection.
func (s *Session) Deselect(keys ...string) {
	for _, k := range keys {
		delete(s.selection, k)
	}
}

// ResetSelection restores the default selection of the range catalog.
func (s *Session) ResetSelection() {
	clear(s.selection)
	s.Select(unirange.DefaultSelection()...)
}

// Selection lists the selected range keys in catalog order.
func (s *Session) Selection() []string {
	keys := make([]string, 0, len(s.selection))
	for _, k := range unirange.Keys() {
		if s.selection[k] {
			keys = append(keys, k)
		}
	}
	return keys
}

// IsSelected reports whether range key is selected.
func (s *Session) IsSelected(key string) bool {
	return s.selection[key]
}

// CodePoints is the set of code points of the current selection.
func (s *Session) CodePoints() unirange.Set {
	return unirange.Build(s.Selection())
}

// Coverage counts the code points of the selection the font can display.
// For fonts without metadata, -1 is returned.
func (s *Session) Coverage() int {
	if s.font == nil {
		return -1
	}
	return s.font.Coverage(s.CodePoints())
}

// --- Output ----------------------------------------------------------------

// Subset creates a subset of the font for the current selection.
func (s *Session) Subset(ctx context.Context) ([]byte, error) {
	keys := s.Selection()
	tracer().Infof("subsetting %s for ranges %v", s.fileName, keys)
	return s.engine.Subset(ctx, s.binary, unirange.Build(keys))
}

// Estimate creates a subset for the current selection and compares its
// size with the original.
func (s *Session) Estimate(ctx context.Context) (webfont.Estimate, error) {
	subset, err := s.Subset(ctx)
	if err != nil {
		return webfont.Estimate{}, err
	}
	return webfont.NewEstimate(len(s.binary), len(subset)), nil
}

// OutputName is the file name a subset is saved as.
func (s *Session) OutputName() string {
	return SubsetFileName(s.fileName)
}

// FontFaceCSS renders the @font-face rule for the subset.
func (s *Session) FontFaceCSS() string {
	return webfont.FontFaceCSS(s.info, s.fileName)
}

// PreloadHTML renders the preload link for the subset.
func (s *Session) PreloadHTML() string {
	return webfont.PreloadHTML(s.fileName)
}

// VariationCSS renders the font-variation-settings declaration for the
// current axis values.
func (s *Session) VariationCSS() string {
	return s.axes.CSSRule()
}

// RangesWithSelection lists the range catalog together with selection flags,
// in catalog order.
func (s *Session) RangesWithSelection() ([]unirange.Range, []bool) {
	ranges := unirange.All()
	flags := make([]bool, len(ranges))
	for i, r := range ranges {
		flags[i] = s.selection[r.Key]
	}
	return ranges, flags
}
