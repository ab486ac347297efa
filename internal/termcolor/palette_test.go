package termcolor

import (
	"testing"

	"github.com/phyten/duskify/internal/color"
)

func TestHeaderStyle(t *testing.T) {
	s := HeaderStyle()
	if !s.Bold || !s.Underline {
		t.Fatalf("header style should enable bold+underline: %+v", s)
	}
}

func TestPropertyStyleRespectsScheme(t *testing.T) {
	bgDark := PropertyStyle("background-color", SchemeDark, ProfileBasic8)
	if bgDark.FGBasic == nil || *bgDark.FGBasic != 4 {
		t.Fatalf("background dark basic style mismatch: %+v", bgDark)
	}
	bgLight := PropertyStyle("background-color", SchemeLight, ProfileANSI256)
	if bgLight.FG256 == nil || *bgLight.FG256 != 24 {
		t.Fatalf("background light 256 color mismatch: %+v", bgLight)
	}
	textLight := PropertyStyle("color", SchemeLight, ProfileTrueColor)
	if textLight.FGTrue == nil {
		t.Fatalf("color light truecolor missing fg: %+v", textLight)
	}
	rgb := *textLight.FGTrue
	contrast := color.ContrastRatio(
		color.RGB{R: rgb[0], G: rgb[1], B: rgb[2]},
		color.RGB{R: 249, G: 250, B: 251},
	)
	if contrast < 4.5 {
		t.Fatalf("color light truecolor contrast %.2f < 4.5 (rgb=%v)", contrast, rgb)
	}
	bgLightTrue := PropertyStyle("background-color", SchemeLight, ProfileTrueColor)
	if bgLightTrue.FGTrue == nil {
		t.Fatalf("background light truecolor missing fg: %+v", bgLightTrue)
	}
	bgRGB := *bgLightTrue.FGTrue
	bgContrast := color.ContrastRatio(
		color.RGB{R: bgRGB[0], G: bgRGB[1], B: bgRGB[2]},
		color.RGB{R: 249, G: 250, B: 251},
	)
	if bgContrast < 4.5 {
		t.Fatalf("background light truecolor contrast %.2f < 4.5 (rgb=%v)", bgContrast, bgRGB)
	}
	none := PropertyStyle("opacity", SchemeDark, ProfileBasic8)
	if none.FGBasic != nil || none.FG256 != nil || none.FGTrue != nil {
		t.Fatalf("unknown property should have no color: %+v", none)
	}
}

func TestSeverityStyleBasicBuckets(t *testing.T) {
	tests := []struct {
		ratio float64
		want  int
	}{
		{3.0, 1},
		{4.49, 1},
		{4.5, 3},
		{6.9, 3},
		{7.0, 2},
		{15.2, 2},
	}
	for _, tc := range tests {
		style := SeverityStyle(tc.ratio, 4.5, ProfileBasic8)
		if style.FGBasic == nil {
			t.Fatalf("ratio %.2f missing basic color", tc.ratio)
		}
		if *style.FGBasic != tc.want {
			t.Fatalf("ratio %.2f expected color %d, got %d", tc.ratio, tc.want, *style.FGBasic)
		}
	}
}

func TestSeverityStyleGradient(t *testing.T) {
	style := SeverityStyle(21, 4.5, ProfileANSI256)
	if style.FG256 == nil || *style.FG256 != rgbToANSI256(0, 255, 0) {
		t.Fatalf("maximal ratio should map to green in 256 palette, got %+v", style)
	}
	style = SeverityStyle(2.0, 4.5, ProfileTrueColor)
	if style.FGTrue == nil {
		t.Fatalf("true color style missing value")
	}
	rgb := *style.FGTrue
	if rgb[0] != 255 || rgb[1] != 0 || rgb[2] != 0 {
		t.Fatalf("failing ratio should be red, got %v", rgb)
	}
}

func TestSeverityStyleZeroRatioUnstyled(t *testing.T) {
	style := SeverityStyle(0, 4.5, ProfileTrueColor)
	if style.FGTrue != nil || style.FG256 != nil || style.FGBasic != nil {
		t.Fatalf("background rows should stay unstyled: %+v", style)
	}
}

func TestSwatchStyle(t *testing.T) {
	c := color.RGB{R: 18, G: 18, B: 18}
	trueStyle := SwatchStyle(c, ProfileTrueColor)
	if trueStyle.FGTrue == nil || *trueStyle.FGTrue != [3]uint8{18, 18, 18} {
		t.Fatalf("truecolor swatch mismatch: %+v", trueStyle)
	}
	ansi := SwatchStyle(c, ProfileANSI256)
	if ansi.FG256 == nil || *ansi.FG256 != rgbToANSI256(18, 18, 18) {
		t.Fatalf("256 swatch mismatch: %+v", ansi)
	}
	basic := SwatchStyle(c, ProfileBasic8)
	if basic.FGBasic != nil || basic.FG256 != nil || basic.FGTrue != nil {
		t.Fatalf("basic profile cannot render swatches: %+v", basic)
	}
}
