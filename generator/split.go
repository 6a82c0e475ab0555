package generator

import (
	"regexp"
	"strings"
)

// A marker is a line-leading `<digit><'.'|')'><whitespace>` token. The model
// is asked for drafts numbered 1-3, so a single digit is all that is matched;
// a digit token inside prose still counts as a boundary when it starts a line.
var (
	markerRe        = regexp.MustCompile(`(?m)^[0-9][.)]\s`)
	markerSplitRe   = regexp.MustCompile(`\n[0-9][.)]\s`)
	leadingMarkerRe = regexp.MustCompile(`^[0-9]+[.)]\s*`)
)

// SplitNumberedDrafts partitions one raw model completion into individual
// drafts. Two tiers:
//
//  1. Collect marker-delimited runs; if three or more are found, return them
//     in order (markers retained, each run trimmed).
//  2. Otherwise split the original text on newline-marker sequences and
//     return the non-empty fragments if there are at least three.
//
// When both tiers come up short the whole trimmed text is returned as a
// single draft. The result is never empty and no input can fail.
func SplitNumberedDrafts(text string) []string {
	locs := markerRe.FindAllStringIndex(text, -1)
	if len(locs) >= 3 {
		runs := make([]string, 0, len(locs))
		for i, loc := range locs {
			end := len(text)
			if i+1 < len(locs) {
				end = locs[i+1][0]
			}
			runs = append(runs, strings.TrimSpace(text[loc[0]:end]))
		}
		return runs
	}

	var fragments []string
	for _, part := range markerSplitRe.Split(text, -1) {
		if p := strings.TrimSpace(part); p != "" {
			fragments = append(fragments, p)
		}
	}
	if len(fragments) >= 3 {
		return fragments
	}

	return []string{strings.TrimSpace(text)}
}

// SelectDrafts trims a split result to at most three drafts. Shorter inputs
// pass through unchanged; nothing is padded.
func SelectDrafts(drafts []string) []string {
	if len(drafts) > 3 {
		return drafts[:3]
	}
	return drafts
}

// StripMarker removes at most one leading numeric marker (`1. ` or `1) `)
// from a draft so stored and displayed content never carries the ordinal
// prefix. Digit sequences anywhere else in the text are left alone.
func StripMarker(draft string) string {
	return leadingMarkerRe.ReplaceAllString(strings.TrimSpace(draft), "")
}
