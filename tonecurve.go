package cinegrade

import "gonum.org/v1/gonum/interp"

// toneCurveLUTSize is the resolution of the materialized curve. 1024 entries
// keep quantization well below one 8-bit step.
const toneCurveLUTSize = 1024

var toneCurveXs = []float64{0, 0.25, 0.5, 0.75, 1}

// ToneCurve remaps pixel values through a monotone curve defined by five
// control points at x = 0, 0.25, 0.5, 0.75, 1. The curve is fitted with a
// Fritsch-Butland monotone cubic so lifting the black point never introduces
// overshoot in the highlights. Input values are clamped to [0,1] before the
// lookup.
func ToneCurve(src *Image, points [5]float32) *Image {
	if src.Empty() {
		return src
	}
	lut, err := toneCurveLUT(points)
	if err != nil {
		// Fit errors only when the xs are not strictly increasing; ours are
		// fixed, so this cannot trigger, but a bad fit passes through rather
		// than aborting the chain.
		return src
	}
	out := NewImage(src.W, src.H)
	for i := 0; i < len(src.Pix); i += 4 {
		out.Pix[i] = lookupCurve(lut, src.Pix[i])
		out.Pix[i+1] = lookupCurve(lut, src.Pix[i+1])
		out.Pix[i+2] = lookupCurve(lut, src.Pix[i+2])
		out.Pix[i+3] = src.Pix[i+3]
	}
	return out
}

func toneCurveLUT(points [5]float32) ([]float32, error) {
	ys := make([]float64, len(toneCurveXs))
	for i := range ys {
		ys[i] = float64(points[i])
	}
	var fb interp.FritschButland
	if err := fb.Fit(toneCurveXs, ys); err != nil {
		return nil, err
	}
	lut := make([]float32, toneCurveLUTSize)
	for i := range lut {
		x := float64(i) / float64(toneCurveLUTSize-1)
		lut[i] = float32(fb.Predict(x))
	}
	return lut, nil
}

func lookupCurve(lut []float32, v float32) float32 {
	f := clamp01(v) * float32(toneCurveLUTSize-1)
	i := int(f)
	if i >= toneCurveLUTSize-1 {
		return lut[toneCurveLUTSize-1]
	}
	return lerp(lut[i], lut[i+1], f-float32(i))
}
