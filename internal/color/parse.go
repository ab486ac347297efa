package color

import (
	"regexp"
	"strconv"
	"strings"
)

// namedColors is the small fixed palette the parser recognizes. Computed
// styles almost always arrive in rgb()/rgba() form, so the full CSS named
// palette is deliberately out of scope.
var namedColors = map[string]RGB{
	"white":   {R: 255, G: 255, B: 255},
	"black":   {R: 0, G: 0, B: 0},
	"red":     {R: 255, G: 0, B: 0},
	"green":   {R: 0, G: 128, B: 0},
	"blue":    {R: 0, G: 0, B: 255},
	"yellow":  {R: 255, G: 255, B: 0},
	"cyan":    {R: 0, G: 255, B: 255},
	"magenta": {R: 255, G: 0, B: 255},
	"gray":    {R: 128, G: 128, B: 128},
	"grey":    {R: 128, G: 128, B: 128},
}

var reDigitRun = regexp.MustCompile(`\d+`)

// Parse interprets s as a CSS color value. Functional rgb()/rgba()
// notation, #RGB/#RRGGBB hex and the named palette are recognized. The
// second return value reports whether a color was extracted; a failed
// parse means "no color information" and is never an error.
func Parse(s string) (RGB, bool) {
	t := strings.ToLower(strings.TrimSpace(s))
	if t == "" {
		return RGB{}, false
	}
	switch {
	case strings.HasPrefix(t, "rgb"):
		return ParseFunctional(t)
	case strings.HasPrefix(t, "#"):
		return ParseHex(t)
	}
	return ParseNamed(t)
}

// ParseFunctional parses rgb()/rgba() notation by extracting the first
// three runs of digits. A fourth (alpha) component is discarded; values
// above 255 clamp to 255 the way browsers serialize them.
func ParseFunctional(s string) (RGB, bool) {
	t := strings.ToLower(strings.TrimSpace(s))
	if !strings.HasPrefix(t, "rgb") {
		return RGB{}, false
	}
	runs := reDigitRun.FindAllString(t, 3)
	if len(runs) < 3 {
		return RGB{}, false
	}
	var ch [3]uint8
	for i, raw := range runs {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return RGB{}, false
		}
		if n > 255 {
			n = 255
		}
		ch[i] = uint8(n)
	}
	return RGB{R: ch[0], G: ch[1], B: ch[2]}, true
}

// ParseHex parses #RGB or #RRGGBB. The leading "#" is optional and hex
// digits are case-insensitive; the short form doubles each digit.
func ParseHex(s string) (RGB, bool) {
	t := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "#")
	switch len(t) {
	case 3:
		r, okR := hexNibble(t[0])
		g, okG := hexNibble(t[1])
		b, okB := hexNibble(t[2])
		if !okR || !okG || !okB {
			return RGB{}, false
		}
		return RGB{R: r * 17, G: g * 17, B: b * 17}, true
	case 6:
		r, okR := hexByte(t[0:2])
		g, okG := hexByte(t[2:4])
		b, okB := hexByte(t[4:6])
		if !okR || !okG || !okB {
			return RGB{}, false
		}
		return RGB{R: r, G: g, B: b}, true
	}
	return RGB{}, false
}

func hexNibble(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	}
	return 0, false
}

func hexByte(s string) (uint8, bool) {
	hi, okHi := hexNibble(s[0])
	lo, okLo := hexNibble(s[1])
	if !okHi || !okLo {
		return 0, false
	}
	return hi<<4 | lo, true
}

// ParseNamed looks s up in the named palette.
func ParseNamed(s string) (RGB, bool) {
	c, ok := namedColors[strings.ToLower(strings.TrimSpace(s))]
	return c, ok
}

// IsTransparent reports whether s declares a fully transparent color:
// the "transparent" keyword, or rgb()/rgba() notation whose fourth
// component is zero. Opaque and partially transparent values report
// false, as do values in any other notation.
func IsTransparent(s string) bool {
	t := strings.ToLower(strings.TrimSpace(s))
	if t == "transparent" {
		return true
	}
	if !strings.HasPrefix(t, "rgb") {
		return false
	}
	open := strings.IndexByte(t, '(')
	closing := strings.LastIndexByte(t, ')')
	if open < 0 || closing < open {
		return false
	}
	parts := strings.Split(t[open+1:closing], ",")
	if len(parts) < 4 {
		return false
	}
	alpha, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
	return err == nil && alpha == 0
}
