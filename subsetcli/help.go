package main

import (
	"strings"

	"github.com/npillmayer/fontsubset/unirange"
	"github.com/pterm/pterm"
)

func helpOp(intp *Intp, op *Op) (error, bool) {
	topic := ""
	if len(op.args) > 0 {
		topic = op.args[0]
	}
	help(topic)
	return nil, false
}

func help(topic string) {
	tracer().Infof("help %v", topic)
	switch strings.ToLower(topic) {
	case "range", "ranges", "select", "deselect":
		pterm.Info.Println("Unicode ranges")
		pterm.Println(`
	A subset keeps the glyphs for the code points of the selected ranges.
	Select ranges by key, separated by commas or spaces:
	    select latin-ext-a,currency
	    deselect latin-1-supp
	'select all' selects the complete catalog. Known keys:
	    ` + strings.Join(unirange.Keys(), ", "))
	case "axis", "axes", "reset":
		pterm.Info.Println("Variation axes")
		pterm.Println(`
	Variable fonts declare axes like weight (wght) or width (wdth).
	    axis wght 650
	sets an axis for previews; values are clamped to the axis range.
	'reset' sets every axis to its default. Axis values are rendered as
	font-variation-settings and do not change the generated subset.
	`)
	case "css", "stats", "generate":
		pterm.Info.Println("Output")
		pterm.Println(`
	css           prints @font-face and preload snippets for the subset
	stats         subsets the font and estimates the WOFF2 size
	generate dir  writes subset-<font file> into dir (default: .)
	`)
	default:
		pterm.Info.Println("Commands")
		pterm.Println(`
	info                      font metadata
	ranges                    Unicode range catalog and current selection
	select <ranges>           add ranges to the selection
	deselect <ranges>         remove ranges from the selection
	axes                      variation axes and current values
	axis <tag> <value>        set an axis value
	reset                     reset all axes to their defaults
	css                       web font snippets
	stats                     size estimate for the subset
	generate [dir]            write the subset font
	help [topic]              help on ranges, axes or output
	quit                      leave
	`)
	}
}
