package cinegrade

import (
	"math"
	"sync"
)

// RadialMask renders a soft elliptical gradient: innerLuma inside radius0,
// outerLuma outside radius1, smoothly blended in between. Radii are fractions
// of half the image diagonal; scaleX/scaleY squash the falloff independently
// per axis around the center. The mask is returned as a grayscale image with
// opaque alpha.
func RadialMask(w, h int, radius0, radius1, innerLuma, outerLuma, scaleX, scaleY float32) *Image {
	if w <= 0 || h <= 0 {
		return NewImage(w, h)
	}
	if radius1 < radius0 {
		radius1 = radius0
	}
	if scaleX <= 0 {
		scaleX = 1
	}
	if scaleY <= 0 {
		scaleY = 1
	}
	out := NewImage(w, h)
	cx := float32(w-1) / 2
	cy := float32(h-1) / 2
	halfDiag := float32(math.Hypot(float64(w), float64(h))) / 2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx := (float32(x) - cx) * scaleX
			dy := (float32(y) - cy) * scaleY
			d := float32(math.Hypot(float64(dx), float64(dy))) / halfDiag
			l := lerp(innerLuma, outerLuma, smoothstep(radius0, radius1, d))
			out.set(x, y, l, l, l, 1)
		}
	}
	return out
}

// hueMaskLevels is the per-channel quantization of the selective-color lookup
// table: 64^3 entries, small enough to cache per parameter set.
const hueMaskLevels = 64

// HueMaskParams selects pixels whose hue falls within Tolerance of Center
// (both as fractions of the hue circle) and whose saturation and value clear
// the given floors.
type HueMaskParams struct {
	HueCenter     float32
	HueTolerance  float32
	MinSaturation float32
	MinValue      float32
}

var hueMaskCache sync.Map // HueMaskParams -> []bool

// HueSaturationMask produces a binary mask (0 or 1 per pixel) selecting the
// color band described by p. The decision table is a pure function of the
// quantization level and p, so it is computed once and reused.
func HueSaturationMask(src *Image, p HueMaskParams) *Image {
	if src.Empty() {
		return src
	}
	table := hueMaskTable(p)
	out := NewImage(src.W, src.H)
	for i := 0; i < len(src.Pix); i += 4 {
		r := quantizeLevel(src.Pix[i])
		g := quantizeLevel(src.Pix[i+1])
		b := quantizeLevel(src.Pix[i+2])
		v := float32(0)
		if table[(r*hueMaskLevels+g)*hueMaskLevels+b] {
			v = 1
		}
		out.Pix[i] = v
		out.Pix[i+1] = v
		out.Pix[i+2] = v
		out.Pix[i+3] = 1
	}
	return out
}

func quantizeLevel(v float32) int {
	i := int(clamp01(v) * hueMaskLevels)
	if i >= hueMaskLevels {
		i = hueMaskLevels - 1
	}
	return i
}

func hueMaskTable(p HueMaskParams) []bool {
	if cached, ok := hueMaskCache.Load(p); ok {
		return cached.([]bool)
	}
	table := make([]bool, hueMaskLevels*hueMaskLevels*hueMaskLevels)
	for r := 0; r < hueMaskLevels; r++ {
		for g := 0; g < hueMaskLevels; g++ {
			for b := 0; b < hueMaskLevels; b++ {
				fr := (float32(r) + 0.5) / hueMaskLevels
				fg := (float32(g) + 0.5) / hueMaskLevels
				fb := (float32(b) + 0.5) / hueMaskLevels
				h, s, v := rgbToHSV(fr, fg, fb)
				table[(r*hueMaskLevels+g)*hueMaskLevels+b] = hueDistance(h, p.HueCenter) <= p.HueTolerance &&
					s >= p.MinSaturation && v >= p.MinValue
			}
		}
	}
	actual, _ := hueMaskCache.LoadOrStore(p, table)
	return actual.([]bool)
}

// hueDistance is the shortest distance between two hues on the unit circle.
func hueDistance(a, b float32) float32 {
	d := absf(a - b)
	d -= float32(math.Floor(float64(d)))
	if d > 0.5 {
		d = 1 - d
	}
	return d
}

func rgbToHSV(r, g, b float32) (h, s, v float32) {
	maxC := r
	if g > maxC {
		maxC = g
	}
	if b > maxC {
		maxC = b
	}
	minC := r
	if g < minC {
		minC = g
	}
	if b < minC {
		minC = b
	}
	v = maxC
	d := maxC - minC
	if maxC > 0 {
		s = d / maxC
	}
	if d == 0 {
		return 0, s, v
	}
	switch maxC {
	case r:
		h = (g - b) / d
		if h < 0 {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	return h / 6, s, v
}
