package cinegrade

import "math"

// AffineColorMatrix recombines channels per pixel with a 3×4 matrix: each
// output channel is a weighted sum of the input RGB plus a constant bias
// (the fourth column). Alpha is untouched. This is the mechanism behind the
// preset color casts.
func AffineColorMatrix(src *Image, m [3][4]float32) *Image {
	if src.Empty() {
		return src
	}
	out := NewImage(src.W, src.H)
	for i := 0; i < len(src.Pix); i += 4 {
		r, g, b := src.Pix[i], src.Pix[i+1], src.Pix[i+2]
		out.Pix[i] = m[0][0]*r + m[0][1]*g + m[0][2]*b + m[0][3]
		out.Pix[i+1] = m[1][0]*r + m[1][1]*g + m[1][2]*b + m[1][3]
		out.Pix[i+2] = m[2][0]*r + m[2][1]*g + m[2][2]*b + m[2][3]
		out.Pix[i+3] = src.Pix[i+3]
	}
	return out
}

// ColorControls adjusts saturation, contrast and brightness in one pass.
// Saturation scales chroma around the pixel luma, contrast scales values
// around the 0.5 midpoint, brightness adds a constant offset. Neutral values
// are (1, 1, 0).
func ColorControls(src *Image, saturation, contrast, brightness float32) *Image {
	if src.Empty() {
		return src
	}
	out := NewImage(src.W, src.H)
	for i := 0; i < len(src.Pix); i += 4 {
		r, g, b := src.Pix[i], src.Pix[i+1], src.Pix[i+2]
		l := luma709(r, g, b)
		r = l + saturation*(r-l)
		g = l + saturation*(g-l)
		b = l + saturation*(b-l)
		out.Pix[i] = (r-0.5)*contrast + 0.5 + brightness
		out.Pix[i+1] = (g-0.5)*contrast + 0.5 + brightness
		out.Pix[i+2] = (b-0.5)*contrast + 0.5 + brightness
		out.Pix[i+3] = src.Pix[i+3]
	}
	return out
}

// ExposureAdjust multiplies pixel values by 2^stops.
func ExposureAdjust(src *Image, stops float32) *Image {
	if src.Empty() {
		return src
	}
	gain := exp2f(stops)
	out := NewImage(src.W, src.H)
	for i := 0; i < len(src.Pix); i += 4 {
		out.Pix[i] = src.Pix[i] * gain
		out.Pix[i+1] = src.Pix[i+1] * gain
		out.Pix[i+2] = src.Pix[i+2] * gain
		out.Pix[i+3] = src.Pix[i+3]
	}
	return out
}

// WhitePoint describes an illuminant as a correlated color temperature in
// Kelvin plus a green/magenta tint offset (positive pulls toward magenta).
type WhitePoint struct {
	Temperature float32
	Tint        float32
}

// TemperatureTint shifts the white balance from sourceWhite to targetWhite
// with per-channel gains. The Kelvin-to-RGB mapping is an approximation good
// enough for creative grading, not a colorimetric transform.
func TemperatureTint(src *Image, sourceWhite, targetWhite WhitePoint) *Image {
	if src.Empty() {
		return src
	}
	sr, sg, sb := whitePointRGB(sourceWhite)
	tr, tg, tb := whitePointRGB(targetWhite)
	gainR := tr / sr
	gainG := tg / sg
	gainB := tb / sb
	// Normalize so the shift recolors without changing overall brightness.
	norm := luma709(gainR, gainG, gainB)
	if norm > 0 {
		gainR /= norm
		gainG /= norm
		gainB /= norm
	}
	out := NewImage(src.W, src.H)
	for i := 0; i < len(src.Pix); i += 4 {
		out.Pix[i] = src.Pix[i] * gainR
		out.Pix[i+1] = src.Pix[i+1] * gainG
		out.Pix[i+2] = src.Pix[i+2] * gainB
		out.Pix[i+3] = src.Pix[i+3]
	}
	return out
}

func whitePointRGB(w WhitePoint) (r, g, b float32) {
	r, g, b = kelvinRGB(w.Temperature)
	g *= 1 - clampf(w.Tint, -1, 1)*0.1
	// Floor the channels so the gain ratios stay finite for extreme
	// temperatures.
	if r < 1e-3 {
		r = 1e-3
	}
	if g < 1e-3 {
		g = 1e-3
	}
	if b < 1e-3 {
		b = 1e-3
	}
	return r, g, b
}

// kelvinRGB approximates the RGB of a black-body radiator at temp Kelvin,
// normalized to [0,1]. Valid roughly for 1000K–12000K.
func kelvinRGB(temp float32) (r, g, b float32) {
	if temp < 1000 {
		temp = 1000
	}
	if temp > 12000 {
		temp = 12000
	}
	t := float64(temp) / 100.0

	var rr, gg, bb float64
	if t <= 66 {
		rr = 255
	} else {
		rr = 329.698727446 * math.Pow(t-60, -0.1332047592)
	}
	if t <= 66 {
		gg = 99.4708025861*math.Log(t) - 161.1195681661
	} else {
		gg = 288.1221695283 * math.Pow(t-60, -0.0755148492)
	}
	switch {
	case t >= 66:
		bb = 255
	case t <= 19:
		bb = 0
	default:
		bb = 138.5177312231*math.Log(t-10) - 305.0447927307
	}
	return clamp01(float32(rr / 255)), clamp01(float32(gg / 255)), clamp01(float32(bb / 255))
}

// ShadowHighlightAdjust lifts shadows and compresses highlights globally.
// shadowAmount is in [-1,2] with 0 neutral; highlightAmount is in [0,2] with
// 1 neutral (values below 1 pull highlights down). Weighting is by squared
// distance from the luma extremes, so midtones move the least.
func ShadowHighlightAdjust(src *Image, shadowAmount, highlightAmount float32) *Image {
	if src.Empty() {
		return src
	}
	shadowAmount = clampf(shadowAmount, -1, 2)
	highlightAmount = clampf(highlightAmount, 0, 2)
	out := NewImage(src.W, src.H)
	for i := 0; i < len(src.Pix); i += 4 {
		r, g, b := src.Pix[i], src.Pix[i+1], src.Pix[i+2]
		l := clamp01(luma709(r, g, b))
		ws := (1 - l) * (1 - l)
		wh := l * l
		hs := (highlightAmount - 1) * wh
		out.Pix[i] = shiftTone(r, shadowAmount, ws, hs)
		out.Pix[i+1] = shiftTone(g, shadowAmount, ws, hs)
		out.Pix[i+2] = shiftTone(b, shadowAmount, ws, hs)
		out.Pix[i+3] = src.Pix[i+3]
	}
	return out
}

func shiftTone(v, shadowAmount, shadowWeight, highlightScale float32) float32 {
	v += shadowAmount * shadowWeight * (1 - v) * 0.5
	return v * (1 + highlightScale)
}
