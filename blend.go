package cinegrade

// blendMasked picks a where mask is 1 and b where mask is 0, blending
// linearly for fractional mask values. All three images must share an extent;
// otherwise b is returned unchanged.
func blendMasked(a, b, mask *Image) *Image {
	if a.Empty() || b.Empty() || mask.Empty() {
		return b
	}
	if a.W != b.W || a.H != b.H || mask.W != b.W || mask.H != b.H {
		return b
	}
	out := NewImage(b.W, b.H)
	for i := 0; i < len(out.Pix); i += 4 {
		t := mask.Pix[i]
		out.Pix[i] = lerp(b.Pix[i], a.Pix[i], t)
		out.Pix[i+1] = lerp(b.Pix[i+1], a.Pix[i+1], t)
		out.Pix[i+2] = lerp(b.Pix[i+2], a.Pix[i+2], t)
		out.Pix[i+3] = b.Pix[i+3]
	}
	return out
}

// blendAdd sums two images channel-wise, keeping the base alpha.
func blendAdd(base, add *Image) *Image {
	if base.Empty() || add.Empty() || base.W != add.W || base.H != add.H {
		return base
	}
	out := NewImage(base.W, base.H)
	for i := 0; i < len(out.Pix); i += 4 {
		out.Pix[i] = base.Pix[i] + add.Pix[i]
		out.Pix[i+1] = base.Pix[i+1] + add.Pix[i+1]
		out.Pix[i+2] = base.Pix[i+2] + add.Pix[i+2]
		out.Pix[i+3] = base.Pix[i+3]
	}
	return out
}

// blendMultiply multiplies the base by the other image channel-wise. Used to
// apply luminance masks such as the vignette.
func blendMultiply(base, m *Image) *Image {
	if base.Empty() || m.Empty() || base.W != m.W || base.H != m.H {
		return base
	}
	out := NewImage(base.W, base.H)
	for i := 0; i < len(out.Pix); i += 4 {
		out.Pix[i] = base.Pix[i] * m.Pix[i]
		out.Pix[i+1] = base.Pix[i+1] * m.Pix[i+1]
		out.Pix[i+2] = base.Pix[i+2] * m.Pix[i+2]
		out.Pix[i+3] = base.Pix[i+3]
	}
	return out
}

// overlayChannel is the standard overlay compositing operator for one channel.
func overlayChannel(base, blend float32) float32 {
	if base < 0.5 {
		return 2 * base * blend
	}
	return 1 - 2*(1-base)*(1-blend)
}

// blendOverlay composites blend over base with the overlay operator at the
// given opacity.
func blendOverlay(base, blend *Image, opacity float32) *Image {
	if base.Empty() || blend.Empty() || base.W != blend.W || base.H != blend.H {
		return base
	}
	opacity = clamp01(opacity)
	out := NewImage(base.W, base.H)
	for i := 0; i < len(out.Pix); i += 4 {
		out.Pix[i] = lerp(base.Pix[i], overlayChannel(clamp01(base.Pix[i]), blend.Pix[i]), opacity)
		out.Pix[i+1] = lerp(base.Pix[i+1], overlayChannel(clamp01(base.Pix[i+1]), blend.Pix[i+1]), opacity)
		out.Pix[i+2] = lerp(base.Pix[i+2], overlayChannel(clamp01(base.Pix[i+2]), blend.Pix[i+2]), opacity)
		out.Pix[i+3] = base.Pix[i+3]
	}
	return out
}

// boxBlur applies radius passes of a separable 3-wide box filter. Three
// passes approximate a Gaussian closely enough for bloom and grain softening.
func boxBlur(src *Image, radius int) *Image {
	if src.Empty() || radius <= 0 {
		return src
	}
	out := src
	for pass := 0; pass < 3; pass++ {
		out = boxBlurAxis(out, radius, true)
		out = boxBlurAxis(out, radius, false)
	}
	return out
}

func boxBlurAxis(src *Image, radius int, horizontal bool) *Image {
	out := NewImage(src.W, src.H)
	n := float32(2*radius + 1)
	for y := 0; y < src.H; y++ {
		for x := 0; x < src.W; x++ {
			var r, g, b, a float32
			for k := -radius; k <= radius; k++ {
				sx, sy := x, y
				if horizontal {
					sx = clampInt(x+k, 0, src.W-1)
				} else {
					sy = clampInt(y+k, 0, src.H-1)
				}
				pr, pg, pb, pa := src.at(sx, sy)
				r += pr
				g += pg
				b += pb
				a += pa
			}
			out.set(x, y, r/n, g/n, b/n, a/n)
		}
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
