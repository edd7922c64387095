package cinegrade

import "math"

// adjustEpsilon is the magnitude below which a manual slider is treated as
// untouched and its stage skipped.
const adjustEpsilon = 1e-4

// Build maps an input image and an edit state to an output image. The stage
// order is fixed and load-bearing:
//
//  1. preset grade + flat baseline (grading applied)
//  2. exposure
//  3. contrast
//  4. shadows/highlights
//  5. crop
//  6. finishing effects (grading applied)
//
// Grading and flattening precede the manual sliders so slider response stays
// perceptually linear regardless of preset intensity; cropping precedes
// finishing so vignette and grain size to the final framing; finishing trails
// everything as a pure look layer. A stage that cannot produce output passes
// its input through — a dropped preview frame is never fatal.
func Build(input *Image, state EditState) *Image {
	if input.Empty() {
		return input
	}
	out := input
	def, havePreset := PresetDefinition{}, false
	if state.ApplyPreset {
		def, havePreset = PresetByID(state.PresetID)
	}
	if havePreset {
		out = applyPreset(out, def)
		out = applyFlatBaseline(out, BaselineFor(def.ID))
	}
	if absf(state.Exposure) > adjustEpsilon {
		out = ExposureAdjust(out, clampf(state.Exposure, -2, 2))
	}
	if absf(state.Contrast) > adjustEpsilon {
		out = ColorControls(out, 1, 1+clampf(state.Contrast, -1, 1)*0.5, 0)
	}
	if absf(state.Shadows) > adjustEpsilon || absf(state.Highlights) > adjustEpsilon {
		out = ShadowHighlightAdjust(out,
			clampf(state.Shadows, -1, 1),
			1+clampf(state.Highlights, -1, 1))
	}
	if state.Crop != nil {
		out = OffsetCrop(out, state.Crop.Ratio, state.Crop.ForceWide, state.PanX, state.PanY)
	}
	if havePreset {
		out = applyFinish(out, def.Finish)
	}
	return out
}

// OffsetCrop cuts the largest centered rectangle at the desired aspect ratio
// and shifts it along the unconstrained axis by offset×(slack/2).
//
// The desired ratio is targetRatio or its reciprocal, whichever is closer to
// the current ratio; forceHorizontal instead always picks the wide
// orientation (ratio ≥ 1). The vertical offset sign is inverted to map
// top-down pan gestures onto bottom-up buffer coordinates.
func OffsetCrop(src *Image, targetRatio float64, forceHorizontal bool, offsetX, offsetY float32) *Image {
	if src.Empty() || targetRatio <= 0 {
		return src
	}
	current := float64(src.W) / float64(src.H)
	desired := targetRatio
	if forceHorizontal {
		desired = math.Max(targetRatio, 1/targetRatio)
	} else if math.Abs(current-targetRatio) > math.Abs(current-1/targetRatio) {
		desired = 1 / targetRatio
	}

	cropW, cropH := src.W, src.H
	x0, y0 := 0, 0
	if current > desired {
		// Width is the unconstrained axis.
		cropW = int(math.Round(float64(src.H) * desired))
		if cropW < 1 || cropW > src.W {
			return src
		}
		slack := src.W - cropW
		x0 = (src.W-cropW)/2 + int(math.Round(float64(offsetX)*float64(slack)/2))
		x0 = clampInt(x0, 0, src.W-cropW)
	} else if current < desired {
		cropH = int(math.Round(float64(src.W) / desired))
		if cropH < 1 || cropH > src.H {
			return src
		}
		slack := src.H - cropH
		y0 = (src.H-cropH)/2 - int(math.Round(float64(offsetY)*float64(slack)/2))
		y0 = clampInt(y0, 0, src.H-cropH)
	}
	if cropW == src.W && cropH == src.H {
		return src
	}
	return crop(src, x0, y0, cropW, cropH)
}
