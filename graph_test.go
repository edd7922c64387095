package cinegrade

import "testing"

func TestBuildDeterministicWithPreset(t *testing.T) {
	img := flatImage(64, 48, 0.4, 0.5, 0.6)
	for _, p := range Presets() {
		state := EditState{PresetID: p.ID, ApplyPreset: true}
		a := Build(img, state)
		b := Build(img, state)
		if d := maxPixelDiff(a, b); d != 0 {
			t.Fatalf("preset %s not deterministic: max diff %g", p.ID, d)
		}
	}
}

func TestBuildWithoutPresetSkipsGradeAndFinish(t *testing.T) {
	img := flatImage(32, 32, 0.3, 0.5, 0.7)
	state := EditState{
		// Preset set but not applied: grading and finishing must be fully
		// skipped, not merely neutral.
		PresetID:    PresetNoir,
		ApplyPreset: false,
		Exposure:    0.5,
		Contrast:    0.2,
	}
	got := Build(img, state)

	want := ExposureAdjust(img, 0.5)
	want = ColorControls(want, 1, 1+0.2*0.5, 0)
	if d := maxPixelDiff(got, want); d > 1e-6 {
		t.Fatalf("manual-only build deviates from bare adjustments by %g", d)
	}
}

func TestBuildNeutralStateIsPassthrough(t *testing.T) {
	img := flatImage(16, 16, 0.2, 0.4, 0.6)
	out := Build(img, EditState{})
	if d := maxPixelDiff(img, out); d != 0 {
		t.Fatalf("neutral edit state changed pixels by %g", d)
	}
}

func TestBuildMatrixPresetOnGray(t *testing.T) {
	img := grayImage(100, 100, 0.5)
	state := EditState{PresetID: PresetMatrix, ApplyPreset: true}
	state.SetExposure(0.5)
	out := Build(img, state)
	if out.W != 100 || out.H != 100 {
		t.Fatalf("extent changed: %dx%d", out.W, out.H)
	}
	if d := maxPixelDiff(img, out); d == 0 {
		t.Fatal("matrix preset left gray input unchanged: no color cast applied")
	}
	r, g, b, _ := out.at(50, 50)
	if r == g && g == b {
		t.Fatalf("expected a color cast, got neutral gray %g", r)
	}
}

func TestBuildUnknownPresetDegradesGracefully(t *testing.T) {
	img := grayImage(8, 8, 0.5)
	out := Build(img, EditState{PresetID: "nonesuch", ApplyPreset: true})
	if d := maxPixelDiff(img, out); d != 0 {
		t.Fatalf("unknown preset should pass through, changed by %g", d)
	}
}

func TestOffsetCropCentered45(t *testing.T) {
	img := grayImage(1000, 1000, 0.5)
	out := OffsetCrop(img, 0.8, false, 0, 0)
	if out.W != 800 || out.H != 1000 {
		t.Fatalf("4:5 crop of 1000x1000: got %dx%d want 800x1000", out.W, out.H)
	}
}

func TestOffsetCropIdempotent(t *testing.T) {
	img := grayImage(1000, 1000, 0.5)
	once := OffsetCrop(img, 0.8, false, 0, 0)
	twice := OffsetCrop(once, 0.8, false, 0, 0)
	if twice != once {
		t.Fatal("second identical crop should be a no-op")
	}
}

func TestOffsetCropForceWide(t *testing.T) {
	for _, ratio := range []float64{0.5, 0.8, 1.25, 2} {
		img := grayImage(600, 900, 0.5)
		out := OffsetCrop(img, ratio, true, 0, 0)
		if out.W < out.H {
			t.Fatalf("forceWide ratio %g produced %dx%d (portrait)", ratio, out.W, out.H)
		}
	}
}

func TestOffsetCropReciprocalSelection(t *testing.T) {
	// A portrait source with a landscape target ratio picks the portrait
	// reciprocal unless wide is forced.
	img := grayImage(600, 900, 0.5)
	out := OffsetCrop(img, 1.25, false, 0, 0)
	if out.W > out.H {
		t.Fatalf("expected portrait crop, got %dx%d", out.W, out.H)
	}
	wantH := 750 // 600 / 0.8
	if out.W != 600 || out.H != wantH {
		t.Fatalf("got %dx%d want 600x%d", out.W, out.H, wantH)
	}
}

func TestOffsetCropPanHorizontal(t *testing.T) {
	img := NewImage(100, 50)
	for y := 0; y < 50; y++ {
		for x := 0; x < 100; x++ {
			img.set(x, y, float32(x)/99, 0, 0, 1)
		}
	}
	centered := OffsetCrop(img, 1, false, 0, 0) // square crop, X slack = 50
	right := OffsetCrop(img, 1, false, 1, 0)
	rc, _, _, _ := centered.at(0, 0)
	rr, _, _, _ := right.at(0, 0)
	if rr <= rc {
		t.Fatalf("positive pan did not shift window right: %g <= %g", rr, rc)
	}
}

func TestOffsetCropPanVerticalInverted(t *testing.T) {
	img := NewImage(50, 100)
	for y := 0; y < 100; y++ {
		for x := 0; x < 50; x++ {
			img.set(x, y, float32(y)/99, 0, 0, 1)
		}
	}
	centered := OffsetCrop(img, 1, false, 0, 0) // square crop, Y slack = 50
	up := OffsetCrop(img, 1, false, 0, 1)
	// Positive pan moves the window toward lower y (inverted axis).
	vc, _, _, _ := centered.at(0, 0)
	vu, _, _, _ := up.at(0, 0)
	if vu >= vc {
		t.Fatalf("positive vertical pan did not invert: %g >= %g", vu, vc)
	}
}

func TestQualityClampStep(t *testing.T) {
	cases := []struct{ in, want int }{
		{83, 85},
		{70, 70},
		{100, 100},
		{0, 70},
		{255, 100},
		{72, 70},
		{73, 75},
		{97, 95},
		{98, 100},
	}
	for _, tc := range cases {
		if got := ClampQuality(tc.in); got != tc.want {
			t.Fatalf("ClampQuality(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestEditStateClamps(t *testing.T) {
	var s EditState
	s.SetExposure(5)
	s.SetContrast(-3)
	s.SetShadows(2)
	s.SetHighlights(-2)
	s.SetPan(9, -9)
	if s.Exposure != 2 || s.Contrast != -1 || s.Shadows != 1 || s.Highlights != -1 {
		t.Fatalf("adjustments not clamped: %+v", s)
	}
	if s.PanX != 1 || s.PanY != -1 {
		t.Fatalf("pan not clamped: %g,%g", s.PanX, s.PanY)
	}
}

func TestEditStateResets(t *testing.T) {
	s := EditState{PresetID: PresetNoir, ApplyPreset: true}
	s.SetExposure(1)
	s.SetContrast(0.5)
	s.ResetAdjustments()
	if s.Exposure != 0 || s.Contrast != 0 {
		t.Fatal("adjustments survived ResetAdjustments")
	}
	if !s.ApplyPreset || s.PresetID != PresetNoir {
		t.Fatal("preset should survive ResetAdjustments")
	}
	s.Reset()
	if s.ApplyPreset || s.PresetID != "" {
		t.Fatal("Reset should clear the preset")
	}
}
