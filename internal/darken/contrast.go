package darken

import "github.com/phyten/duskify/internal/color"

const (
	adjustStep     = 10
	maxAdjustSteps = 20
)

// EnsureContrast nudges fg toward a contrast ratio of at least minRatio
// against bg. A non-positive minRatio selects MinContrast. The direction
// is fixed once up front: when fg is the lighter of the pair the steps
// darken it, otherwise they lighten it, so the search always moves fg
// across bg toward the far side of the range. Steps are 10 per channel,
// bounded at 20; on exhaustion the best candidate seen (the input
// included) is returned even if it misses the target.
func EnsureContrast(fg, bg color.RGB, minRatio float64) color.RGB {
	if minRatio <= 0 {
		minRatio = MinContrast
	}
	ratio := color.ContrastRatio(fg, bg)
	if ratio >= minRatio {
		return fg
	}
	darkening := fg.Luminance() > bg.Luminance()
	best, bestRatio := fg, ratio
	cur := fg
	for i := 0; i < maxAdjustSteps; i++ {
		if darkening {
			cur = cur.Darken(adjustStep)
		} else {
			cur = cur.Lighten(adjustStep)
		}
		ratio = color.ContrastRatio(cur, bg)
		if ratio >= minRatio {
			return cur
		}
		if ratio > bestRatio {
			best, bestRatio = cur, ratio
		}
	}
	return best
}
