/*
Package webfont renders the snippets needed to deploy a subset font on a web
page: an @font-face rule and a preload link for the woff2 asset, plus a size
estimate for the compressed result.

Assets are expected under "assets/fonts/subset-<base>.woff2", where <base>
is the lower-cased file name of the original font with whitespace replaced by
dashes and the font extension stripped.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package webfont

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/npillmayer/fontsubset/otquery"
)

// AssetDir is the directory web pages load subset fonts from.
const AssetDir = "assets/fonts"

// DefaultFamily is used in CSS for fonts without a family name.
const DefaultFamily = "CustomFont"

// DefaultWeightRange is declared for variable fonts without a 'wght' axis.
const DefaultWeightRange = "100 900"

var (
	whitespace    = regexp.MustCompile(`\s+`)
	fontExtension = regexp.MustCompile(`(?i)\.(ttf|otf|woff|woff2)$`)
)

// BaseName derives the asset base name from a font file name, e.g.
// "Roboto Flex.ttf" becomes "roboto-flex".
func BaseName(fileName string) string {
	name := strings.ToLower(whitespace.ReplaceAllString(fileName, "-"))
	return fontExtension.ReplaceAllString(name, "")
}

// AssetPath is the URL path of the woff2 asset for a font file name.
func AssetPath(fileName string) string {
	return fmt.Sprintf("%s/subset-%s.woff2", AssetDir, BaseName(fileName))
}

// FamilyName is the CSS font-family of a font. Variable fonts get a
// " Variable" suffix to keep them apart from static instances of the family.
func FamilyName(info *otquery.FontInfo) string {
	family := info.Family
	if family == "" || family == otquery.Unknown {
		family = DefaultFamily
	}
	if info.IsVariable() {
		family += " Variable"
	}
	return family
}

// WeightRange is the font-weight descriptor of a variable font, taken from
// its 'wght' axis.
func WeightRange(info *otquery.FontInfo) string {
	for _, a := range info.Axes {
		if a.Tag == "wght" {
			return fmt.Sprintf("%d %d", round(a.Min), round(a.Max))
		}
	}
	return DefaultWeightRange
}

// FontFaceCSS renders the @font-face rule for the subset of a font loaded
// from fileName.
func FontFaceCSS(info *otquery.FontInfo, fileName string) string {
	url := AssetPath(fileName)
	var sb strings.Builder
	sb.WriteString("@font-face {\n")
	fmt.Fprintf(&sb, "  font-family: %q;\n", FamilyName(info))
	if info.IsVariable() {
		fmt.Fprintf(&sb, "  src: url(%q) format(\"woff2\") tech(\"variations\"), url(%q) format(\"woff2-variations\");\n",
			url, url)
		fmt.Fprintf(&sb, "  font-weight: %s;\n", WeightRange(info))
	} else {
		style := "normal"
		if info.Italic {
			style = "italic"
		}
		weight := info.WeightClass
		if weight == 0 {
			weight = 400
		}
		fmt.Fprintf(&sb, "  src: url(%q) format(\"woff2\");\n", url)
		fmt.Fprintf(&sb, "  font-weight: %d;\n", weight)
		fmt.Fprintf(&sb, "  font-style: %s;\n", style)
	}
	sb.WriteString("  font-display: swap;\n}")
	return sb.String()
}

// PreloadHTML renders the link element preloading the subset of a font
// loaded from fileName.
func PreloadHTML(fileName string) string {
	return fmt.Sprintf(`<link rel="preload" href="%s" as="font" type="font/woff2" crossorigin="anonymous" />`,
		AssetPath(fileName))
}

// round rounds half-way cases towards positive infinity.
func round(v float64) int {
	return int(math.Floor(v + 0.5))
}
