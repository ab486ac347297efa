// Package darken implements the light-to-dark mapping policy: inversion
// followed by role-dependent brightness confinement, plus the contrast
// enforcement that keeps text readable on the rewritten backgrounds.
package darken

import "github.com/phyten/duskify/internal/color"

// Fixed points of the policy. Backgrounds land in the [10,80] perceived
// brightness band, text is pushed to 200 or above and never shipped
// below 180, and the two anchors below back both ends of the scale.
var (
	// DarkBackground is the canvas color assumed when a background
	// cannot be determined, and the default page-level background.
	DarkBackground = color.RGB{R: 18, G: 18, B: 18}

	// FallbackText replaces any text color that contrast enforcement
	// could not lift above TextFloor.
	FallbackText = color.RGB{R: 227, G: 227, B: 227}
)

const (
	// MinContrast is the default WCAG ratio enforced between text and
	// its effective background.
	MinContrast = 4.5

	// LightThreshold is the default perceived brightness above which a
	// background counts as light and gets rewritten.
	LightThreshold = 200.0

	// TextFloor is the minimum perceived brightness of any text color
	// the transform writes.
	TextFloor = 180.0

	bgBandMax     = 80.0
	bgBandMin     = 10.0
	textTargetMin = 200.0
)

// Role selects the mapping branch for a color.
type Role int

const (
	RoleBackground Role = iota
	RoleText
)

// Map applies the policy for the given role. bg is the contrast target
// and is only consulted for RoleText.
func Map(c color.RGB, role Role, bg color.RGB) color.RGB {
	if role == RoleText {
		return MapText(c, bg, MinContrast)
	}
	return MapBackground(c)
}

// MapBackground inverts c and confines the result to the dark band:
// above brightness 80 every channel is scaled down by 80/brightness and
// clamped to at most 80, below 10 every channel is raised to at least
// 10, and results already inside [10,80] pass through unchanged.
func MapBackground(c color.RGB) color.RGB {
	inv := c.Invert()
	br := inv.Brightness()
	switch {
	case br > bgBandMax:
		return inv.Scale(bgBandMax/br, 0, uint8(bgBandMax))
	case br < bgBandMin:
		return inv.AtLeast(uint8(bgBandMin))
	}
	return inv
}

// MapText inverts c and pushes the result into the light band: a
// brightness in (0,200) is scaled up by 200/brightness with every
// channel clamped into [200,255] (a zero-brightness inversion skips the
// scale), and the result is then contrast-enforced against bg.
func MapText(c, bg color.RGB, minRatio float64) color.RGB {
	inv := c.Invert()
	br := inv.Brightness()
	if br > 0 && br < textTargetMin {
		inv = inv.Scale(textTargetMin/br, uint8(textTargetMin), 255)
	}
	return EnsureContrast(inv, bg, minRatio)
}
