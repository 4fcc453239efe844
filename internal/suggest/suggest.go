// Package suggest proposes a nearby known name for an unrecognized one,
// enriching "unknown option" error messages with a "did you mean" hint.
package suggest

import "github.com/lithammer/fuzzysearch/fuzzy"

// maxEditDistance bounds how different a candidate may be from the
// unknown name before it's no longer worth suggesting.
const maxEditDistance = 2

// ForOption returns the closest name in known to unknown, or "" if none
// is within maxEditDistance.
func ForOption(unknown string, known []string) string {
	best := ""
	bestDist := maxEditDistance + 1

	for _, name := range known {
		d := fuzzy.LevenshteinDistance(unknown, name)
		if d < bestDist {
			bestDist = d
			best = name
		}
	}

	if bestDist > maxEditDistance {
		return ""
	}
	return best
}
