package cinegrade

import (
	"image"

	"github.com/google/uuid"
	"github.com/nfnt/resize"
	xdraw "golang.org/x/image/draw"
)

const (
	// maxPreviewEdge bounds the preview buffer used for interactive renders.
	maxPreviewEdge = 1800
	// maxFullEdge caps the full-resolution buffer used for export.
	maxFullEdge = 4032
)

// RawDeveloper decodes a raw sensor payload into a high-resolution image.
// The source provider supplies it; development runs only at export time.
type RawDeveloper func() (*Image, error)

// SourceAsset owns the decoded buffers for one captured or imported photo.
// Buffers are upright by construction: orientation is normalized once here,
// never per render. A retake replaces the asset wholesale.
type SourceAsset struct {
	ID      string
	Preview *Image
	Full    *Image

	// DevelopRaw is non-nil when a raw sensor payload accompanies the
	// capture.
	DevelopRaw RawDeveloper
}

// NewSourceAsset ingests a decoded image. orientation is the EXIF orientation
// tag (1–8); anything outside that range is treated as upright. The image is
// normalized upright, capped to maxFullEdge for the full buffer, and
// downscaled to maxPreviewEdge for the preview buffer.
func NewSourceAsset(src image.Image, orientation int, raw RawDeveloper) *SourceAsset {
	if src == nil {
		return nil
	}
	upright := normalizeOrientation(src, orientation)
	return &SourceAsset{
		ID:         uuid.NewString(),
		Full:       FromImage(capLongestEdge(upright, maxFullEdge)),
		Preview:    FromImage(previewScale(upright, maxPreviewEdge)),
		DevelopRaw: raw,
	}
}

// capLongestEdge downscales with Catmull-Rom when the longest edge exceeds
// the cap; smaller images pass through untouched.
func capLongestEdge(src image.Image, maxEdge int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	longest := w
	if h > longest {
		longest = h
	}
	if longest <= maxEdge || longest == 0 {
		return src
	}
	scale := float64(maxEdge) / float64(longest)
	nw := int(float64(w)*scale + 0.5)
	nh := int(float64(h)*scale + 0.5)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}

// previewScale produces the interactive preview buffer. Lanczos keeps fine
// detail so preview grades look like the export.
func previewScale(src image.Image, maxEdge int) image.Image {
	b := src.Bounds()
	if b.Dx() <= maxEdge && b.Dy() <= maxEdge {
		return src
	}
	return resize.Thumbnail(uint(maxEdge), uint(maxEdge), src, resize.Lanczos3)
}

// normalizeOrientation rewrites the image upright per the EXIF orientation
// tag. Tag 1 (and anything unrecognized) is already upright.
func normalizeOrientation(src image.Image, orientation int) image.Image {
	if orientation <= 1 || orientation > 8 {
		return src
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	var dst *image.RGBA
	if orientation >= 5 {
		dst = image.NewRGBA(image.Rect(0, 0, h, w))
	} else {
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var dx, dy int
			switch orientation {
			case 2: // mirrored horizontally
				dx, dy = w-1-x, y
			case 3: // rotated 180
				dx, dy = w-1-x, h-1-y
			case 4: // mirrored vertically
				dx, dy = x, h-1-y
			case 5: // mirrored then rotated 270 CW
				dx, dy = y, x
			case 6: // rotated 90 CW
				dx, dy = h-1-y, x
			case 7: // mirrored then rotated 90 CW
				dx, dy = h-1-y, w-1-x
			case 8: // rotated 270 CW
				dx, dy = y, w-1-x
			}
			dst.Set(dx, dy, src.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}
