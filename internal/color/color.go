// Package color provides the sRGB color model used by the dark-mode
// transform: parsing of the CSS notations that appear in computed styles,
// perceived brightness, WCAG relative luminance and contrast ratios.
package color

import (
	"fmt"
	"math"
)

// RGB is an immutable sRGB color with channels in [0,255].
// All transformations return new values.
type RGB struct {
	R uint8
	G uint8
	B uint8
}

// Brightness returns the perceived brightness of c in [0,255] using the
// ITU-R BT.601 luma weights (0.299 R + 0.587 G + 0.114 B).
func (c RGB) Brightness() float64 {
	return 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
}

// Luminance returns the WCAG relative luminance of c in [0,1].
func (c RGB) Luminance() float64 {
	r := srgbToLinear(float64(c.R) / 255)
	g := srgbToLinear(float64(c.G) / 255)
	b := srgbToLinear(float64(c.B) / 255)
	return 0.2126*r + 0.7152*g + 0.0722*b
}

func srgbToLinear(v float64) float64 {
	if v <= 0.03928 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// ContrastRatio returns the WCAG contrast ratio between a and b in [1,21].
// The ratio is symmetric in its arguments.
func ContrastRatio(a, b RGB) float64 {
	la := a.Luminance()
	lb := b.Luminance()
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}

// Invert returns the channel-wise negative of c.
func (c RGB) Invert() RGB {
	return RGB{R: 255 - c.R, G: 255 - c.G, B: 255 - c.B}
}

// Scale multiplies every channel by factor and clamps each result into
// [lo,hi]. Intermediate math runs in float64, so transient values may
// leave the channel range before clamping.
func (c RGB) Scale(factor float64, lo, hi uint8) RGB {
	return RGB{
		R: scaleChannel(c.R, factor, lo, hi),
		G: scaleChannel(c.G, factor, lo, hi),
		B: scaleChannel(c.B, factor, lo, hi),
	}
}

func scaleChannel(v uint8, factor float64, lo, hi uint8) uint8 {
	scaled := math.Round(float64(v) * factor)
	if scaled < float64(lo) {
		return lo
	}
	if scaled > float64(hi) {
		return hi
	}
	return uint8(scaled)
}

// AtLeast raises every channel of c to at least min.
func (c RGB) AtLeast(min uint8) RGB {
	return RGB{R: maxChannel(c.R, min), G: maxChannel(c.G, min), B: maxChannel(c.B, min)}
}

func maxChannel(v, min uint8) uint8 {
	if v < min {
		return min
	}
	return v
}

// Lighten adds delta to every channel, saturating at 255.
func (c RGB) Lighten(delta uint8) RGB {
	return RGB{R: addChannel(c.R, delta), G: addChannel(c.G, delta), B: addChannel(c.B, delta)}
}

// Darken subtracts delta from every channel, saturating at 0.
func (c RGB) Darken(delta uint8) RGB {
	return RGB{R: subChannel(c.R, delta), G: subChannel(c.G, delta), B: subChannel(c.B, delta)}
}

func addChannel(v, delta uint8) uint8 {
	if v > 255-delta {
		return 255
	}
	return v + delta
}

func subChannel(v, delta uint8) uint8 {
	if v < delta {
		return 0
	}
	return v - delta
}

// String renders c in the canonical CSS functional form "rgb(R, G, B)".
func (c RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}
