package cinegrade

import (
	"image"
	"image/color"
)

// Image stores a working image in interleaved RGBA float32.
// Pixel values are nominally in [0,1]; intermediate stages may exceed that
// range and are clamped only when converting back to 8-bit.
type Image struct {
	W   int
	H   int
	Pix []float32 // len = W*H*4
}

// NewImage allocates a zeroed image of the given size.
func NewImage(w, h int) *Image {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Image{W: w, H: h, Pix: make([]float32, w*h*4)}
}

// Empty reports whether the image has a degenerate extent.
func (m *Image) Empty() bool {
	return m == nil || m.W <= 0 || m.H <= 0 || len(m.Pix) < m.W*m.H*4
}

// Clone returns a deep copy.
func (m *Image) Clone() *Image {
	if m == nil {
		return nil
	}
	out := &Image{W: m.W, H: m.H, Pix: make([]float32, len(m.Pix))}
	copy(out.Pix, m.Pix)
	return out
}

func (m *Image) offset(x, y int) int { return (y*m.W + x) * 4 }

func (m *Image) at(x, y int) (r, g, b, a float32) {
	i := m.offset(x, y)
	return m.Pix[i], m.Pix[i+1], m.Pix[i+2], m.Pix[i+3]
}

func (m *Image) set(x, y int, r, g, b, a float32) {
	i := m.offset(x, y)
	m.Pix[i], m.Pix[i+1], m.Pix[i+2], m.Pix[i+3] = r, g, b, a
}

// bilinear samples the image at fractional coordinates, clamping to edges.
func (m *Image) bilinear(fx, fy float64) (r, g, b, a float32) {
	if fx < 0 {
		fx = 0
	}
	if fy < 0 {
		fy = 0
	}
	maxX := float64(m.W - 1)
	maxY := float64(m.H - 1)
	if fx > maxX {
		fx = maxX
	}
	if fy > maxY {
		fy = maxY
	}
	x0 := int(fx)
	y0 := int(fy)
	x1 := x0 + 1
	y1 := y0 + 1
	if x1 > m.W-1 {
		x1 = m.W - 1
	}
	if y1 > m.H-1 {
		y1 = m.H - 1
	}
	tx := float32(fx - float64(x0))
	ty := float32(fy - float64(y0))

	r00, g00, b00, a00 := m.at(x0, y0)
	r10, g10, b10, a10 := m.at(x1, y0)
	r01, g01, b01, a01 := m.at(x0, y1)
	r11, g11, b11, a11 := m.at(x1, y1)

	r = lerp(lerp(r00, r10, tx), lerp(r01, r11, tx), ty)
	g = lerp(lerp(g00, g10, tx), lerp(g01, g11, tx), ty)
	b = lerp(lerp(b00, b10, tx), lerp(b01, b11, tx), ty)
	a = lerp(lerp(a00, a10, tx), lerp(a01, a11, tx), ty)
	return r, g, b, a
}

// FromImage converts a decoded stdlib image into a float32 working buffer.
func FromImage(src image.Image) *Image {
	if src == nil {
		return nil
	}
	b := src.Bounds()
	out := NewImage(b.Dx(), b.Dy())
	if out.Empty() {
		return out
	}
	switch s := src.(type) {
	case *image.RGBA:
		// RGBA carries alpha-premultiplied channels; divide alpha back out so
		// the working buffer is straight alpha like the NRGBA path.
		for y := 0; y < out.H; y++ {
			row := s.Pix[(y+b.Min.Y-s.Rect.Min.Y)*s.Stride+(b.Min.X-s.Rect.Min.X)*4:]
			for x := 0; x < out.W; x++ {
				i := out.offset(x, y)
				a := row[x*4+3]
				out.Pix[i+3] = float32(a) / 255.0
				if a == 0 {
					continue
				}
				out.Pix[i] = float32(row[x*4]) / float32(a)
				out.Pix[i+1] = float32(row[x*4+1]) / float32(a)
				out.Pix[i+2] = float32(row[x*4+2]) / float32(a)
			}
		}
	case *image.NRGBA:
		for y := 0; y < out.H; y++ {
			row := s.Pix[(y+b.Min.Y-s.Rect.Min.Y)*s.Stride+(b.Min.X-s.Rect.Min.X)*4:]
			for x := 0; x < out.W; x++ {
				i := out.offset(x, y)
				out.Pix[i] = float32(row[x*4]) / 255.0
				out.Pix[i+1] = float32(row[x*4+1]) / 255.0
				out.Pix[i+2] = float32(row[x*4+2]) / 255.0
				out.Pix[i+3] = float32(row[x*4+3]) / 255.0
			}
		}
	default:
		for y := 0; y < out.H; y++ {
			for x := 0; x < out.W; x++ {
				c := color.RGBA64Model.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.RGBA64)
				i := out.offset(x, y)
				out.Pix[i+3] = float32(c.A) / 65535.0
				if c.A == 0 {
					continue
				}
				out.Pix[i] = float32(c.R) / float32(c.A)
				out.Pix[i+1] = float32(c.G) / float32(c.A)
				out.Pix[i+2] = float32(c.B) / float32(c.A)
			}
		}
	}
	return out
}

// ToRGBA rasterizes the working buffer to an 8-bit RGBA image, clamping to [0,1].
func ToRGBA(src *Image) *image.RGBA {
	if src.Empty() {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	out := image.NewRGBA(image.Rect(0, 0, src.W, src.H))
	for y := 0; y < src.H; y++ {
		for x := 0; x < src.W; x++ {
			i := src.offset(x, y)
			o := y*out.Stride + x*4
			a := clamp01(src.Pix[i+3])
			out.Pix[o] = quantize8(src.Pix[i] * a)
			out.Pix[o+1] = quantize8(src.Pix[i+1] * a)
			out.Pix[o+2] = quantize8(src.Pix[i+2] * a)
			out.Pix[o+3] = quantize8(a)
		}
	}
	return out
}

func quantize8(v float32) uint8 {
	val := clamp01(v) * 255.0
	return uint8(val + 0.5)
}

// crop returns the w×h subrect of src starting at (x0,y0), clamped to bounds.
// A degenerate request returns the input unchanged.
func crop(src *Image, x0, y0, w, h int) *Image {
	if src.Empty() || w <= 0 || h <= 0 {
		return src
	}
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x0+w > src.W {
		x0 = src.W - w
	}
	if y0+h > src.H {
		y0 = src.H - h
	}
	if x0 < 0 || y0 < 0 {
		return src
	}
	if x0 == 0 && y0 == 0 && w == src.W && h == src.H {
		return src
	}
	out := NewImage(w, h)
	for y := 0; y < h; y++ {
		srcRow := src.Pix[src.offset(x0, y0+y) : src.offset(x0, y0+y)+w*4]
		copy(out.Pix[out.offset(0, y):out.offset(0, y)+w*4], srcRow)
	}
	return out
}

// centerCropTo trims src back to w×h around its center. Used after finishing
// steps that can grow the nominal extent.
func centerCropTo(src *Image, w, h int) *Image {
	if src.Empty() || w <= 0 || h <= 0 {
		return src
	}
	if src.W == w && src.H == h {
		return src
	}
	if src.W < w || src.H < h {
		return src
	}
	return crop(src, (src.W-w)/2, (src.H-h)/2, w, h)
}
