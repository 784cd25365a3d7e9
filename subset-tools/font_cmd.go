package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/npillmayer/fontsubset"
	"github.com/npillmayer/fontsubset/axes"
	"github.com/npillmayer/fontsubset/hbsubset"
	"github.com/npillmayer/fontsubset/internal/fontload"
	"github.com/npillmayer/fontsubset/otquery"
	"github.com/npillmayer/fontsubset/unirange"
	"github.com/npillmayer/fontsubset/webfont"
	"github.com/pterm/pterm"
	"github.com/thatisuday/commando"
)

func mustOpen(path string, engine *hbsubset.Engine) *fontsubset.Session {
	path = strings.TrimSpace(path)
	if path == "" {
		fatalf("font path is required")
	}
	s, err := fontload.OpenSession(path, engine)
	if err != nil {
		fatalf("cannot load font %s: %v", path, err)
	}
	return s
}

func runInfoCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	setupTracing(flags)
	s := mustOpen(args["font"].Value, nil)
	printInfo(os.Stdout, s.Info())
}

func printInfo(w io.Writer, info *otquery.FontInfo) {
	fmt.Fprintf(w, "File: %s (%s, %s)\n", info.FileName, info.Format, webfont.FormatSize(info.FileSize))
	fmt.Fprintf(w, "Type: %s (%s outlines)\n", info.Container, info.Outlines)
	fmt.Fprintf(w, "Name: %s\n", info.FullName)
	fmt.Fprintf(w, "Family: %s\n", info.Family)
	if info.Subfamily != "" {
		fmt.Fprintf(w, "Subfamily: %s\n", info.Subfamily)
	}
	if info.Version != "" {
		fmt.Fprintf(w, "Version: %s\n", info.Version)
	}
	fmt.Fprintf(w, "Manufacturer: %s\n", info.Manufacturer)
	fmt.Fprintf(w, "Designer: %s\n", info.Designer)
	fmt.Fprintf(w, "Glyphs: %d\n", info.Glyphs)
	fmt.Fprintf(w, "Characters: %d\n", info.Characters)
	fmt.Fprintf(w, "Weight: %d italic=%v\n", info.WeightClass, info.Italic)
	if !info.IsVariable() {
		fmt.Fprintln(w, "Variable: no")
		return
	}
	fmt.Fprintf(w, "Variable: yes (%d axes)\n", len(info.Axes))
	for _, a := range info.Axes {
		fmt.Fprintf(w, "  %s %-12s %s..%s default %s\n", a.Tag, a.Label(),
			axes.FormatValue(a.Min), axes.FormatValue(a.Max), axes.FormatValue(a.Default))
	}
}

func runRangesCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	var font *otquery.Font
	if path := optString(flags["font"], "font"); path != "" {
		f, err := fontload.LoadFontFile(path)
		if err != nil {
			fatalf("cannot load font %s: %v", path, err)
		}
		if font, err = otquery.Parse(f.Binary); err != nil {
			fatalf("cannot inspect font %s: %v", path, err)
		}
	}
	pterm.DefaultTable.WithHasHeader().WithData(rangeTable(font)).Render()
}

// rangeTable lists the range catalog. If font is given, its coverage of
// each range is included.
func rangeTable(font *otquery.Font) [][]string {
	header := []string{"Key", "Range", "Name", "Size"}
	if font != nil {
		header = append(header, "Covered")
	}
	data := [][]string{header}
	for _, r := range unirange.All() {
		row := []string{
			r.Key,
			fmt.Sprintf("U+%04X..U+%04X", r.Low, r.High),
			r.Label,
			strconv.Itoa(r.Size()),
		}
		if font != nil {
			row = append(row, strconv.Itoa(font.Coverage(unirange.Build([]string{r.Key}))))
		}
		data = append(data, row)
	}
	return data
}

func runSubsetCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	setupTracing(flags)
	spec, err := flags["ranges"].GetString()
	if err != nil {
		fatalf("invalid --ranges flag: %v", err)
	}
	keys, err := parseRanges(spec)
	if err != nil {
		fatalf("%v", err)
	}
	outDir, err := flags["out"].GetString()
	if err != nil {
		fatalf("invalid --out flag: %v", err)
	}
	engine := engineFor(flags)
	defer engine.Close(context.Background())
	s := mustOpen(args["font"].Value, engine)

	ctx, cancel := timeoutContext(flags)
	defer cancel()
	path, e, err := subsetToFile(ctx, s, keys, outDir)
	if err != nil {
		fatalf("%s", hbsubset.Message(err))
	}
	fmt.Printf("wrote %s\n", path)
	fmt.Println(e)
}

// subsetToFile subsets the font of s for the ranges keys and writes the
// result into dir.
func subsetToFile(ctx context.Context, s *fontsubset.Session, keys []string, dir string) (string, webfont.Estimate, error) {
	s.Deselect(s.Selection()...)
	s.Select(keys...)
	subset, err := s.Subset(ctx)
	if err != nil {
		return "", webfont.Estimate{}, err
	}
	path, err := fontload.WriteSubset(dir, s.FileName(), subset)
	if err != nil {
		return "", webfont.Estimate{}, err
	}
	return path, webfont.NewEstimate(len(s.Binary()), len(subset)), nil
}

func runCSSCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	s := mustOpen(args["font"].Value, nil)
	if err := applyAxes(s.Axes(), optString(flags["axes"], "axes")); err != nil {
		fatalf("%v", err)
	}
	fmt.Println(s.FontFaceCSS())
	fmt.Println()
	fmt.Println(s.PreloadHTML())
	if s.Axes().Len() > 0 {
		fmt.Println()
		fmt.Println(s.VariationCSS())
	}
}

// applyAxes sets axis values from a list like "wght=650,wdth=90".
func applyAxes(state *axes.State, spec string) error {
	items := strings.FieldsFunc(spec, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	for _, item := range items { // axis tags are case-sensitive
		tag, value, ok := strings.Cut(item, "=")
		if !ok {
			return fmt.Errorf("axis setting %q is not of form tag=value", item)
		}
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid value for axis %s: %w", tag, err)
		}
		if _, ok := state.Set(tag, v); !ok {
			return fmt.Errorf("font has no axis %q", tag)
		}
	}
	return nil
}
