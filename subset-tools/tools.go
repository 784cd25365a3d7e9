package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/npillmayer/fontsubset/hbsubset"
	"github.com/npillmayer/fontsubset/unirange"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/thatisuday/commando"
)

func main() {
	commando.
		SetExecutableName("subset-tools").
		SetVersion("v0.1.0").
		SetDescription("CLI for inspecting fonts and subsetting them to Unicode ranges for the web.")

	commando.
		Register(nil).
		AddFlag("verbose,V", "display additional output", commando.Bool, nil)

	commando.
		Register("info").
		SetDescription("Print metadata of a font: names, glyph and character counts, variation axes.").
		SetShortDescription("font metadata").
		AddArgument("font", "font file path (ttf, otf, woff, woff2)", "").
		AddFlag("verbose,V", "display additional output", commando.Bool, nil).
		SetAction(runInfoCommand)

	commando.
		Register("ranges").
		SetDescription("List the catalog of Unicode ranges available for subsetting.").
		SetShortDescription("list Unicode ranges").
		AddFlag("font,f", "font file to report coverage for", commando.String, "-").
		SetAction(runRangesCommand)

	commando.
		Register("subset").
		SetDescription("Subset a font to the glyphs of a selection of Unicode ranges.").
		SetShortDescription("subset a font").
		AddArgument("font", "font file path (ttf, otf, woff, woff2)", "").
		AddFlag("ranges,r", "range keys (comma separated, 'all' for the catalog)", commando.String, strings.Join(unirange.DefaultSelection(), ",")).
		AddFlag("wasm,w", "path or URL of hb-subset.wasm (default $"+hbsubset.AssetLocationEnv+")", commando.String, "-").
		AddFlag("out,o", "output directory", commando.String, ".").
		AddFlag("retries", "attempts to fetch hb-subset.wasm", commando.Int, 1).
		AddFlag("timeout", "timeout in seconds for waiting for the subsetter", commando.Int, 60).
		AddFlag("verbose,V", "display additional output", commando.Bool, nil).
		SetAction(runSubsetCommand)

	commando.
		Register("css").
		SetDescription("Print @font-face and preload snippets for the subset of a font.").
		SetShortDescription("web font snippets").
		AddArgument("font", "font file path (ttf, otf, woff, woff2)", "").
		AddFlag("axes,a", "axis values for font-variation-settings (e.g. wght=650,wdth=90)", commando.String, "-").
		SetAction(runCSSCommand)

	commando.Parse(nil)
}

// setupTracing routes tracing to the Go log package. Verbose output shows
// tracing at level Info, otherwise only errors.
func setupTracing(flags map[string]commando.FlagValue) {
	level := "Error"
	if v, ok := flags["verbose"]; ok {
		if verbose, err := v.GetBool(); err == nil && verbose {
			level = "Info"
		}
	}
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":        "go",
		"trace.fontsubset":       level,
		"trace.fontsubset.hb":    level,
		"trace.fontsubset.query": level,
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fatalf("error configuring tracing: %v", err)
	}
	tracing.SetTraceSelector(trace2go.Selector())
}

// engineFor creates a subsetting engine from the --wasm and --retries flags.
func engineFor(flags map[string]commando.FlagValue) *hbsubset.Engine {
	location := optString(flags["wasm"], "wasm")
	var loader hbsubset.Loader
	if location == "" {
		loader = hbsubset.EnvironmentLoader()
	} else {
		loader = hbsubset.LocationLoader(location)
	}
	if attempts := mustFlagInt(flags["retries"], "retries"); attempts > 1 {
		loader = hbsubset.RetryLoader(loader, attempts, time.Second)
	}
	return hbsubset.NewEngine(hbsubset.Config{Loader: loader})
}

func timeoutContext(flags map[string]commando.FlagValue) (context.Context, context.CancelFunc) {
	secs := mustFlagInt(flags["timeout"], "timeout")
	if secs <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), time.Duration(secs)*time.Second)
}

// optString reads a string flag, with "-" standing for an unset flag.
func optString(flag commando.FlagValue, name string) string {
	s, err := flag.GetString()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	if s = strings.TrimSpace(s); s == "-" {
		return ""
	}
	return s
}

// parseRanges interprets a --ranges flag value.
func parseRanges(spec string) ([]string, error) {
	keys := unirange.ParseKeys(spec)
	if len(keys) == 1 && keys[0] == "all" {
		return unirange.Keys(), nil
	}
	var unknown []string
	for _, k := range keys {
		if _, ok := unirange.Lookup(k); !ok {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("unknown ranges %s (see subset-tools ranges)", strings.Join(unknown, ", "))
	}
	return keys, nil
}

func mustFlagInt(flag commando.FlagValue, name string) int {
	n, err := flag.GetInt()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return n
}

func fatalf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(os.Stderr, "subset-tools: "+format+"\n", args...)
	os.Exit(1)
}
