package cinegrade

import (
	"math"
	"testing"
)

func flatImage(w, h int, r, g, b float32) *Image {
	img := NewImage(w, h)
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = 1
	}
	return img
}

func grayImage(w, h int, v float32) *Image { return flatImage(w, h, v, v, v) }

func maxPixelDiff(a, b *Image) float32 {
	if a.W != b.W || a.H != b.H {
		return float32(math.Inf(1))
	}
	var maxDiff float32
	for i := range a.Pix {
		d := absf(a.Pix[i] - b.Pix[i])
		if d > maxDiff {
			maxDiff = d
		}
	}
	return maxDiff
}

func TestAffineColorMatrixIdentity(t *testing.T) {
	img := flatImage(8, 8, 0.2, 0.5, 0.7)
	out := AffineColorMatrix(img, identityMatrix)
	if d := maxPixelDiff(img, out); d > 1e-6 {
		t.Fatalf("identity matrix changed pixels by %g", d)
	}
}

func TestAffineColorMatrixBias(t *testing.T) {
	img := grayImage(4, 4, 0)
	m := identityMatrix
	m[0][3] = 0.25
	out := AffineColorMatrix(img, m)
	r, g, _, _ := out.at(0, 0)
	if r != 0.25 || g != 0 {
		t.Fatalf("bias not applied: r=%g g=%g", r, g)
	}
}

func TestAffineColorMatrixDoesNotMutateInput(t *testing.T) {
	img := flatImage(4, 4, 0.3, 0.3, 0.3)
	before := img.Clone()
	m := identityMatrix
	m[1][3] = 0.1
	AffineColorMatrix(img, m)
	if d := maxPixelDiff(img, before); d != 0 {
		t.Fatalf("input mutated by %g", d)
	}
}

func TestColorControlsNeutral(t *testing.T) {
	img := flatImage(8, 8, 0.1, 0.6, 0.9)
	out := ColorControls(img, 1, 1, 0)
	if d := maxPixelDiff(img, out); d > 1e-6 {
		t.Fatalf("neutral color controls changed pixels by %g", d)
	}
}

func TestColorControlsSaturationZeroIsGray(t *testing.T) {
	img := flatImage(4, 4, 0.8, 0.2, 0.4)
	out := ColorControls(img, 0, 1, 0)
	r, g, b, _ := out.at(2, 2)
	if absf(r-g) > 1e-6 || absf(g-b) > 1e-6 {
		t.Fatalf("desaturated pixel not gray: %g %g %g", r, g, b)
	}
}

func TestColorControlsContrastPivot(t *testing.T) {
	img := grayImage(4, 4, 0.5)
	out := ColorControls(img, 1, 1.5, 0)
	if v, _, _, _ := out.at(0, 0); absf(v-0.5) > 1e-6 {
		t.Fatalf("midpoint moved under contrast: %g", v)
	}
	img = grayImage(4, 4, 0.75)
	out = ColorControls(img, 1, 2, 0)
	if v, _, _, _ := out.at(0, 0); absf(v-1.0) > 1e-6 {
		t.Fatalf("contrast scaling wrong: got %g want 1.0", v)
	}
}

func TestExposureAdjustStops(t *testing.T) {
	img := grayImage(4, 4, 0.25)
	out := ExposureAdjust(img, 1)
	if v, _, _, _ := out.at(1, 1); absf(v-0.5) > 1e-6 {
		t.Fatalf("+1 stop: got %g want 0.5", v)
	}
	out = ExposureAdjust(img, -1)
	if v, _, _, _ := out.at(1, 1); absf(v-0.125) > 1e-6 {
		t.Fatalf("-1 stop: got %g want 0.125", v)
	}
}

func TestShadowHighlightNeutral(t *testing.T) {
	img := flatImage(8, 8, 0.2, 0.5, 0.8)
	out := ShadowHighlightAdjust(img, 0, 1)
	if d := maxPixelDiff(img, out); d > 1e-6 {
		t.Fatalf("neutral shadow/highlight changed pixels by %g", d)
	}
}

func TestShadowHighlightDirection(t *testing.T) {
	dark := grayImage(4, 4, 0.1)
	lifted := ShadowHighlightAdjust(dark, 1, 1)
	if v, _, _, _ := lifted.at(0, 0); v <= 0.1 {
		t.Fatalf("shadow lift did not brighten: %g", v)
	}

	bright := grayImage(4, 4, 0.9)
	compressed := ShadowHighlightAdjust(bright, 0, 0.5)
	if v, _, _, _ := compressed.at(0, 0); v >= 0.9 {
		t.Fatalf("highlight compression did not darken: %g", v)
	}
}

func TestTemperatureTintWarmShift(t *testing.T) {
	img := grayImage(4, 4, 0.5)
	// Rendering for a cooler target makes the image warmer.
	out := TemperatureTint(img, WhitePoint{Temperature: 6500}, WhitePoint{Temperature: 4000})
	r, _, b, _ := out.at(0, 0)
	if r <= b {
		t.Fatalf("warm shift expected r > b, got r=%g b=%g", r, b)
	}
}

func TestTemperatureTintIdentity(t *testing.T) {
	img := flatImage(4, 4, 0.3, 0.5, 0.7)
	w := WhitePoint{Temperature: 6500}
	out := TemperatureTint(img, w, w)
	if d := maxPixelDiff(img, out); d > 1e-5 {
		t.Fatalf("identity white shift changed pixels by %g", d)
	}
}

func TestTransformsPassThroughDegenerateExtent(t *testing.T) {
	empty := NewImage(0, 0)
	cases := []struct {
		name string
		out  *Image
	}{
		{"matrix", AffineColorMatrix(empty, identityMatrix)},
		{"controls", ColorControls(empty, 1.2, 1.1, 0.1)},
		{"exposure", ExposureAdjust(empty, 1)},
		{"shadowHighlight", ShadowHighlightAdjust(empty, 1, 0.5)},
		{"temperature", TemperatureTint(empty, neutralWhite, WhitePoint{Temperature: 4000})},
		{"toneCurve", ToneCurve(empty, [5]float32{0.1, 0.3, 0.5, 0.75, 1})},
		{"aberration", ChromaticAberration(empty, 2)},
		{"grain", FilmGrain(empty, 0.3, 1.5)},
		{"crop", OffsetCrop(empty, 0.8, false, 0, 0)},
	}
	for _, tc := range cases {
		if tc.out != empty {
			t.Fatalf("%s: degenerate extent not passed through", tc.name)
		}
	}
}
