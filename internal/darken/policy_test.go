package darken

import (
	"testing"

	"github.com/phyten/duskify/internal/color"
)

func TestMapBackgroundLandsInDarkBand(t *testing.T) {
	cases := []struct {
		name string
		in   color.RGB
		want color.RGB
	}{
		// white inverts to black, which is floored to (10,10,10)
		{"white", color.RGB{R: 255, G: 255, B: 255}, color.RGB{R: 10, G: 10, B: 10}},
		// black inverts to white, which is scaled down to (80,80,80)
		{"black", color.RGB{R: 0, G: 0, B: 0}, color.RGB{R: 80, G: 80, B: 80}},
		// the inversion already sits inside [10,80] and passes through
		{"midLight", color.RGB{R: 200, G: 200, B: 200}, color.RGB{R: 55, G: 55, B: 55}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := MapBackground(tc.in); got != tc.want {
				t.Fatalf("MapBackground(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestMapBackgroundBrightnessStaysInBand(t *testing.T) {
	samples := []color.RGB{
		{R: 255, G: 255, B: 255}, {R: 250, G: 250, B: 240}, {R: 255, G: 255, B: 0}, {R: 0, G: 0, B: 255},
		{R: 240, G: 128, B: 16}, {R: 0, G: 0, B: 0}, {R: 127, G: 127, B: 127}, {R: 18, G: 18, B: 18},
	}
	for _, c := range samples {
		got := MapBackground(c)
		br := got.Brightness()
		if br < 10-1e-9 || br > 80+1e-9 {
			t.Fatalf("MapBackground(%v) brightness %.2f outside [10,80] (%v)", c, br, got)
		}
	}
}

func TestMapTextPushesIntoLightBand(t *testing.T) {
	bg := DarkBackground

	// dark gray inverts to (155,155,155) and scales up to the 200 target
	got := MapText(color.RGB{R: 100, G: 100, B: 100}, bg, MinContrast)
	if got != (color.RGB{R: 200, G: 200, B: 200}) {
		t.Fatalf("midGray = %v", got)
	}

	// black inverts to white, which needs neither scaling nor enforcement
	got = MapText(color.RGB{R: 0, G: 0, B: 0}, bg, MinContrast)
	if got != (color.RGB{R: 255, G: 255, B: 255}) {
		t.Fatalf("black = %v", got)
	}
}

func TestMapTextZeroBrightnessSkipsScale(t *testing.T) {
	// white inverts to black (brightness 0); the scale step is skipped
	// and contrast enforcement lightens from black instead.
	got := MapText(color.RGB{R: 255, G: 255, B: 255}, DarkBackground, MinContrast)
	if ratio := color.ContrastRatio(got, DarkBackground); ratio < MinContrast {
		t.Fatalf("expected enforced contrast, got %.2f (%v)", ratio, got)
	}
	if got.Brightness() <= 0 {
		t.Fatalf("black inversion should have been lightened, got %v", got)
	}
}

func TestMapDispatchesOnRole(t *testing.T) {
	c := color.RGB{R: 255, G: 255, B: 255}
	if got := Map(c, RoleBackground, DarkBackground); got != MapBackground(c) {
		t.Fatalf("background role mismatch: %v", got)
	}
	if got := Map(c, RoleText, DarkBackground); got != MapText(c, DarkBackground, MinContrast) {
		t.Fatalf("text role mismatch: %v", got)
	}
}

func TestTextPipelineMeetsFloor(t *testing.T) {
	if FallbackText.Brightness() < TextFloor {
		t.Fatalf("fallback text %v sits below the floor", FallbackText)
	}
	// Full text chain as the transform runs it: map, enforce again,
	// then substitute the fallback below the floor.
	samples := []color.RGB{
		{R: 0, G: 0, B: 0}, {R: 50, G: 50, B: 50}, {R: 100, G: 100, B: 100}, {R: 130, G: 60, B: 200},
		{R: 255, G: 0, B: 0}, {R: 200, G: 200, B: 200}, {R: 255, G: 255, B: 255}, {R: 18, G: 18, B: 18},
	}
	bgs := []color.RGB{DarkBackground, {R: 0, G: 0, B: 0}, {R: 55, G: 55, B: 55}, {R: 80, G: 80, B: 80}}
	for _, bg := range bgs {
		for _, c := range samples {
			got := EnsureContrast(MapText(c, bg, MinContrast), bg, MinContrast)
			if got.Brightness() < TextFloor {
				got = FallbackText
			}
			if got.Brightness() < TextFloor {
				t.Fatalf("text for %v on %v ended below the floor: %v", c, bg, got)
			}
		}
	}
}
