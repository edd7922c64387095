package cinegrade

import "math/rand"

// finishEpsilon is the magnitude below which an individual finishing effect
// is skipped entirely.
const finishEpsilon = 1e-3

// aberrationScalePerUnit converts an aberration amount into a channel scale
// factor: red grows by 1+0.0015×amount, blue shrinks by 1-0.0015×amount,
// expressed as a fraction of half the image extent.
const aberrationScalePerUnit = 0.0015

// grainSeed fixes the noise sequence so renders are reproducible.
const grainSeed = 0x1837

// ChromaticAberration displaces the red channel outward and the blue channel
// inward around the image center by a sub-pixel scale, then recombines the
// channels additively. The green channel is untouched.
func ChromaticAberration(src *Image, amount float32) *Image {
	if src.Empty() {
		return src
	}
	scale := aberrationScalePerUnit * amount
	if absf(scale) < 1e-8 {
		return src
	}
	out := NewImage(src.W, src.H)
	cx := float64(src.W-1) / 2
	cy := float64(src.H-1) / 2
	redScale := 1 / (1 + float64(scale))
	blueScale := 1 / (1 - float64(scale))
	for y := 0; y < src.H; y++ {
		for x := 0; x < src.W; x++ {
			dx := float64(x) - cx
			dy := float64(y) - cy
			r, _, _, _ := src.bilinear(cx+dx*redScale, cy+dy*redScale)
			_, _, b, _ := src.bilinear(cx+dx*blueScale, cy+dy*blueScale)
			_, g, _, a := src.at(x, y)
			out.set(x, y, r, g, b, a)
		}
	}
	return out
}

// FilmGrain overlays monochrome noise generated at a coarsened scale. amount
// is clamped to [0,0.45] and becomes the overlay opacity; size is clamped to
// [0.7,2.4] and controls both the noise cell size and its softening blur.
// The noise sequence is seeded deterministically so repeated renders of the
// same input are identical.
func FilmGrain(src *Image, amount, size float32) *Image {
	if src.Empty() {
		return src
	}
	amount = clampf(amount, 0, 0.45)
	size = clampf(size, 0.7, 2.4)
	if amount < finishEpsilon {
		return src
	}
	cell := int(size + 0.5)
	if cell < 1 {
		cell = 1
	}
	gw := src.W/cell + 1
	gh := src.H/cell + 1
	rng := rand.New(rand.NewSource(grainSeed))
	cells := NewImage(gw, gh)
	for i := 0; i < len(cells.Pix); i += 4 {
		n := rng.Float32()
		cells.Pix[i] = n
		cells.Pix[i+1] = n
		cells.Pix[i+2] = n
		cells.Pix[i+3] = 1
	}
	noise := NewImage(src.W, src.H)
	sx := float64(gw-1) / float64(maxInt(src.W-1, 1))
	sy := float64(gh-1) / float64(maxInt(src.H-1, 1))
	for y := 0; y < src.H; y++ {
		for x := 0; x < src.W; x++ {
			n, _, _, _ := cells.bilinear(float64(x)*sx, float64(y)*sy)
			noise.set(x, y, n, n, n, 1)
		}
	}
	if size > 1.5 {
		noise = boxBlur(noise, 1)
	}
	return blendOverlay(src, noise, amount)
}

// bloom lets bright regions glow: pixels above a luma threshold are blurred
// by radius and added back scaled by intensity.
func bloom(src *Image, intensity, radius float32) *Image {
	if src.Empty() || intensity < finishEpsilon {
		return src
	}
	const threshold = 0.75
	glow := NewImage(src.W, src.H)
	for i := 0; i < len(src.Pix); i += 4 {
		l := luma709(src.Pix[i], src.Pix[i+1], src.Pix[i+2])
		if l <= threshold {
			glow.Pix[i+3] = 1
			continue
		}
		k := (l - threshold) / (1 - threshold) * intensity
		glow.Pix[i] = src.Pix[i] * k
		glow.Pix[i+1] = src.Pix[i+1] * k
		glow.Pix[i+2] = src.Pix[i+2] * k
		glow.Pix[i+3] = 1
	}
	r := int(radius)
	if r < 1 {
		r = 1
	}
	glow = boxBlur(glow, r)
	return blendAdd(src, glow)
}

// vignette darkens the frame edges by multiplying with a radial mask.
// strength is how dark the corners get; softness widens the falloff band.
func vignette(src *Image, strength, softness float32) *Image {
	if src.Empty() || strength < finishEpsilon {
		return src
	}
	strength = clamp01(strength)
	softness = clampf(softness, 0, 1)
	scaleX, scaleY := float32(1), float32(1)
	if src.W > src.H {
		scaleY = float32(src.W) / float32(src.H)
	} else if src.H > src.W {
		scaleX = float32(src.H) / float32(src.W)
	}
	mask := RadialMask(src.W, src.H, 0.55, 0.55+0.45*softness+0.05, 1, 1-strength, scaleX, scaleY)
	return blendMultiply(src, mask)
}

// applyFinish runs the finishing chain in its fixed order: bloom, vignette,
// chromatic aberration, grain. Effects that can grow the nominal extent are
// cropped back to the pre-finish extent immediately.
func applyFinish(src *Image, f *FinishSettings) *Image {
	if src.Empty() || f == nil {
		return src
	}
	w, h := src.W, src.H
	out := src
	if f.BloomIntensity >= finishEpsilon {
		out = centerCropTo(bloom(out, f.BloomIntensity, f.BloomRadius), w, h)
	}
	if f.VignetteStrength >= finishEpsilon {
		out = vignette(out, f.VignetteStrength, f.VignetteSoftness)
	}
	if f.Aberration >= finishEpsilon {
		out = centerCropTo(ChromaticAberration(out, f.Aberration), w, h)
	}
	if f.GrainAmount >= finishEpsilon {
		out = FilmGrain(out, f.GrainAmount, f.GrainSize)
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
