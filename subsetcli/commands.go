package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/fontsubset/axes"
	"github.com/npillmayer/fontsubset/internal/fontload"
	"github.com/npillmayer/fontsubset/unirange"
	"github.com/npillmayer/fontsubset/webfont"
	"github.com/pterm/pterm"
)

func infoOp(intp *Intp, op *Op) (error, bool) {
	printInfo(intp.session.Info())
	return nil, false
}

func rangesOp(intp *Intp, op *Op) (error, bool) {
	ranges, selected := intp.session.RangesWithSelection()
	printRanges(ranges, selected)
	pterm.Printf("%d code points selected\n", intp.session.CodePoints().Len())
	return nil, false
}

// selectionArgs collects range keys from arguments like "latin,currency" or
// "latin currency". "all" stands for the complete catalog.
func selectionArgs(op *Op) ([]string, error) {
	keys := unirange.ParseKeys(strings.Join(op.args, " "))
	if len(keys) == 0 {
		return nil, fmt.Errorf("usage: %s <range>[,<range>...], see 'ranges'", op.name)
	}
	if len(keys) == 1 && keys[0] == "all" {
		return unirange.Keys(), nil
	}
	return keys, nil
}

func selectOp(intp *Intp, op *Op) (error, bool) {
	keys, err := selectionArgs(op)
	if err != nil {
		return err, false
	}
	if unknown := intp.session.Select(keys...); len(unknown) > 0 {
		pterm.Error.Printf("ignoring unknown ranges: %s\n", strings.Join(unknown, ", "))
	}
	tracer().Infof("selected ranges: %v", intp.session.Selection())
	return nil, false
}

func deselectOp(intp *Intp, op *Op) (error, bool) {
	keys, err := selectionArgs(op)
	if err != nil {
		return err, false
	}
	intp.session.Deselect(keys...)
	tracer().Infof("selected ranges: %v", intp.session.Selection())
	return nil, false
}

func axesOp(intp *Intp, op *Op) (error, bool) {
	state := intp.session.Axes()
	if state.Len() == 0 {
		pterm.Info.Println("static font, no variation axes")
		return nil, false
	}
	printAxes(state)
	pterm.Println(state.CSSRule())
	return nil, false
}

var errAxisUsage = errors.New("usage: axis <tag> <value>, see 'axes'")

func axisOp(intp *Intp, op *Op) (error, bool) {
	if len(op.args) != 2 {
		return errAxisUsage, false
	}
	v, err := strconv.ParseFloat(op.args[1], 64)
	if err != nil {
		return fmt.Errorf("axis value not numeric: %v", op.args[1]), false
	}
	tag := op.args[0]
	stored, ok := intp.session.Axes().Set(tag, v)
	if !ok {
		return fmt.Errorf("font has no axis %q", tag), false
	}
	if stored != v {
		pterm.Info.Printf("%s clamped to %s\n", tag, axes.FormatValue(stored))
	}
	pterm.Println(intp.session.VariationCSS())
	return nil, false
}

func resetOp(intp *Intp, op *Op) (error, bool) {
	intp.session.Axes().Reset()
	pterm.Println(intp.session.VariationCSS())
	return nil, false
}

func cssOp(intp *Intp, op *Op) (error, bool) {
	pterm.Info.Println("@font-face")
	pterm.Println(intp.session.FontFaceCSS())
	pterm.Info.Println("Preload")
	pterm.Println(intp.session.PreloadHTML())
	if intp.session.Axes().Len() > 0 {
		pterm.Info.Println("Variation settings")
		pterm.Println(intp.session.VariationCSS())
	}
	return nil, false
}

func statsOp(intp *Intp, op *Op) (error, bool) {
	e, err := intp.session.Estimate(context.Background())
	if err != nil {
		return err, false
	}
	printEstimate(e, intp.session.Coverage(), intp.session.CodePoints().Len())
	return nil, false
}

func generateOp(intp *Intp, op *Op) (error, bool) {
	dir := "."
	if len(op.args) > 0 {
		dir = op.args[0]
	}
	subset, err := intp.session.Subset(context.Background())
	if err != nil {
		return err, false
	}
	path, err := fontload.WriteSubset(dir, intp.session.FileName(), subset)
	if err != nil {
		return err, false
	}
	pterm.Info.Printf("wrote %s (%s)\n", path, webfont.FormatSize(len(subset)))
	return nil, false
}
