// Package article decodes raw article-code strings into blend.ArticleCode
// values (spec.md §4.1, C1). Parsing never fails: unresolved fields simply
// leave the code invalid, and invalid codes are excluded downstream.
package article

import (
	"sort"
	"strings"

	"github.com/downblend/blendopt/pkg/blend"
)

// orderedSpecialCodes holds blend.SpecialCodes sorted longest-code-first,
// computed once at package init so Parse never re-sorts per call.
var orderedSpecialCodes = sortedByLengthDesc(blend.SpecialCodes)

func sortedByLengthDesc(in []blend.SpecialArticleCode) []blend.SpecialArticleCode {
	out := make([]blend.SpecialArticleCode, len(in))
	copy(out, in)
	sort.Slice(out, func(i, j int) bool { return len(out[i].Code) > len(out[j].Code) })
	return out
}

// Parse decodes a raw article-code string into an ArticleCode. Accepted
// forms: "G|MAIN|CERT", "G|MAIN", "MAIN", or any string containing a
// registered special code (possibly with a ".suffix").
func Parse(raw string) blend.ArticleCode {
	code := blend.ArticleCode{Raw: raw}

	parts := strings.Split(raw, "|")
	var main string
	switch {
	case len(parts) >= 2:
		code.Group = parts[0]
		main = parts[1]
		if len(parts) >= 3 {
			code.Certification = parts[2]
		}
	case len(parts) == 1:
		main = parts[0]
	default:
		return code
	}

	for _, alias := range orderedSpecialCodes {
		if strings.Contains(main, alias.Code) {
			code.State = alias.State
			code.Species = alias.Species
			code.Color = alias.Color
			return code
		}
	}

	if len(main) < 3 {
		return code
	}

	code.State = blend.MaterialState(main[0:1])

	var colorPart string
	if len(main) >= 4 && main[1:3] == "OA" {
		code.Species = blend.SpeciesMixed
		colorPart = main[3:]
	} else {
		code.Species = blend.Species(main[1:2])
		colorPart = main[2:]
	}

	code.Color = resolveColor(colorPart)
	return code
}

// resolveColor implements §4.1 step 4's ordered fallback chain.
func resolveColor(s string) blend.Color {
	if s == "" {
		return ""
	}
	if c, ok := blend.KnownColors[s]; ok {
		return c
	}
	if i := strings.IndexByte(s, '.'); i >= 0 {
		if c, ok := blend.KnownColors[s[:i]]; ok {
			return c
		}
	}
	if len(s) >= 3 {
		if c, ok := blend.KnownColors[s[:3]]; ok {
			return c
		}
	}
	if len(s) >= 2 {
		if c, ok := blend.KnownColors[s[:2]]; ok {
			return c
		}
	}
	if c, ok := blend.KnownColors[s[:1]]; ok {
		return c
	}
	return blend.Color(s)
}
