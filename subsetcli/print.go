package main

import (
	"fmt"
	"strconv"

	"github.com/npillmayer/fontsubset/axes"
	"github.com/npillmayer/fontsubset/otquery"
	"github.com/npillmayer/fontsubset/unirange"
	"github.com/npillmayer/fontsubset/webfont"
	"github.com/pterm/pterm"
)

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func infoRows(info *otquery.FontInfo) [][]string {
	variable := yesNo(info.IsVariable())
	if n := len(info.Axes); n > 0 {
		variable = fmt.Sprintf("yes (%d axes)", n)
	}
	return [][]string{
		{"Property", "Value"},
		{"Name", info.FullName},
		{"Family", info.Family},
		{"Subfamily", info.Subfamily},
		{"Manufacturer", info.Manufacturer},
		{"Designer", info.Designer},
		{"Variable", variable},
		{"Size", webfont.FormatSize(info.FileSize)},
		{"Format", info.Format},
		{"Container", string(info.Container)},
		{"Outlines", info.Outlines},
		{"Glyphs", strconv.Itoa(info.Glyphs)},
		{"Characters", strconv.Itoa(info.Characters)},
		{"Weight", strconv.Itoa(info.WeightClass)},
		{"Italic", yesNo(info.Italic)},
	}
}

func printInfo(info *otquery.FontInfo) {
	pterm.DefaultTable.WithHasHeader().WithData(infoRows(info)).Render()
}

func rangeRows(ranges []unirange.Range, selected []bool) [][]string {
	data := [][]string{
		{"", "Key", "Range", "Name", "Size"},
	}
	for i, r := range ranges {
		mark := " "
		if selected[i] {
			mark = "x"
		}
		data = append(data, []string{
			mark,
			r.Key,
			fmt.Sprintf("U+%04X..U+%04X", r.Low, r.High),
			r.Label,
			strconv.Itoa(r.Size()),
		})
	}
	return data
}

func printRanges(ranges []unirange.Range, selected []bool) {
	pterm.DefaultTable.WithHasHeader().WithData(rangeRows(ranges, selected)).Render()
}

func axisRows(state *axes.State) [][]string {
	data := [][]string{
		{"Tag", "Name", "Min", "Default", "Max", "Step", "Value"},
	}
	for _, a := range state.Axes() {
		v, _ := state.Value(a.Tag)
		data = append(data, []string{
			a.Tag,
			a.Label(),
			axes.FormatValue(a.Min),
			axes.FormatValue(a.Default),
			axes.FormatValue(a.Max),
			axes.FormatValue(a.Step()),
			axes.FormatValue(v),
		})
	}
	return data
}

func printAxes(state *axes.State) {
	pterm.DefaultTable.WithHasHeader().WithData(axisRows(state)).Render()
}

func printEstimate(e webfont.Estimate, covered, selected int) {
	data := [][]string{
		{"", "Size"},
		{"Original", webfont.FormatSize(e.Original)},
		{"Subset", webfont.FormatSize(e.Subset)},
		{"WOFF2 (estimated)", webfont.FormatSize(e.WOFF2)},
		{"Saved", fmt.Sprintf("%d%%", e.SavedPercent)},
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	if covered >= 0 {
		pterm.Printf("font covers %d of %d selected code points\n", covered, selected)
	}
}
