package termcolor

import (
	"math"
	"strings"

	"github.com/phyten/duskify/internal/color"
)

func HeaderStyle() Style {
	return Style{Bold: true, Underline: true}
}

// PropertyStyle colors the PROPERTY column so background and text rewrites
// are distinguishable at a glance. Light terminals get darker foregrounds
// that stay readable on a bright background.
func PropertyStyle(property string, scheme Scheme, profile Profile) Style {
	switch strings.ToLower(strings.TrimSpace(property)) {
	case "background-color":
		return schemeColor(scheme, profile, [3]uint8{11, 83, 148}, [3]uint8{125, 199, 255}, 24, 117, 4)
	case "color":
		return schemeColor(scheme, profile, [3]uint8{116, 27, 71}, [3]uint8{240, 166, 202}, 90, 213, 5)
	default:
		return Style{}
	}
}

func schemeColor(scheme Scheme, profile Profile, lightRGB, darkRGB [3]uint8, light256, dark256, basic int) Style {
	switch profile {
	case ProfileTrueColor:
		rgb := darkRGB
		if scheme == SchemeLight {
			rgb = lightRGB
		}
		return Style{FGTrue: &rgb}
	case ProfileANSI256:
		idx := dark256
		if scheme == SchemeLight {
			idx = light256
		}
		return Style{FG256: &idx}
	default:
		c := basic
		return Style{FGBasic: &c}
	}
}

// SeverityStyle grades a contrast ratio. Ratios below min are failures and
// render red; passing ratios shade from yellow toward green as they clear
// the AAA mark. A zero ratio (background rewrites) stays unstyled.
func SeverityStyle(ratio, min float64, profile Profile) Style {
	if ratio <= 0 {
		return Style{}
	}
	if min <= 1 {
		min = 4.5
	}
	switch profile {
	case ProfileTrueColor:
		r, g, b := severityGradient(ratio, min)
		rgb := [3]uint8{r, g, b}
		return Style{FGTrue: &rgb}
	case ProfileANSI256:
		r, g, b := severityGradient(ratio, min)
		idx := rgbToANSI256(r, g, b)
		return Style{FG256: &idx}
	default:
		c := severityBucketColor(ratio, min)
		return Style{FGBasic: &c}
	}
}

const aaaContrast = 7.0

func severityGradient(ratio, min float64) (uint8, uint8, uint8) {
	if ratio < min {
		return 255, 0, 0
	}
	t := 1 - (ratio-1)/(aaaContrast-1)
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	if t <= 0 {
		return 0, 255, 0
	}
	if t >= 1 {
		return 255, 0, 0
	}
	if t < 0.5 {
		scaled := t / 0.5
		r := uint8(math.Round(255 * scaled))
		return r, 255, 0
	}
	scaled := (t - 0.5) / 0.5
	g := uint8(math.Round(255 * (1 - scaled)))
	return 255, g, 0
}

func severityBucketColor(ratio, min float64) int {
	switch {
	case ratio < min:
		return 1
	case ratio < aaaContrast:
		return 3
	default:
		return 2
	}
}

// SwatchStyle tints a cell with the page color it names, where the terminal
// can represent it. The basic palette cannot, so it stays unstyled.
func SwatchStyle(c color.RGB, profile Profile) Style {
	switch profile {
	case ProfileTrueColor:
		rgb := [3]uint8{c.R, c.G, c.B}
		return Style{FGTrue: &rgb}
	case ProfileANSI256:
		idx := rgbToANSI256(c.R, c.G, c.B)
		return Style{FG256: &idx}
	default:
		return Style{}
	}
}

func rgbToANSI256(r, g, b uint8) int {
	if r == g && g == b {
		if r < 8 {
			return 16
		}
		if r > 248 {
			return 231
		}
		return 232 + (int(r)-8)*24/247
	}
	rr := int(r) * 5 / 255
	gg := int(g) * 5 / 255
	bb := int(b) * 5 / 255
	return 16 + 36*rr + 6*gg + bb
}
