package cinegrade

import "math"

func exp2f(v float32) float32 { return float32(math.Exp2(float64(v))) }

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func lerp(a, b, t float32) float32 { return a + (b-a)*t }

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// smoothstep maps v to [0,1] with zero slope at both edges.
func smoothstep(edge0, edge1, v float32) float32 {
	if edge1 == edge0 {
		if v < edge0 {
			return 0
		}
		return 1
	}
	t := clamp01((v - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}

// luma709 is the Rec.709 luma of a linear RGB triplet.
func luma709(r, g, b float32) float32 {
	return 0.2126*r + 0.7152*g + 0.0722*b
}
