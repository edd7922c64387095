package cinegrade

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // register PNG decoding for imported files
	"os"
	"path/filepath"
)

// GradeOptions controls GradeFile.
type GradeOptions struct {
	State       EditState
	Quality     int // JPEG-equivalent quality, normalized via ClampQuality
	Orientation int // EXIF orientation of the input, 1 when already upright
}

// GradeImage applies an edit state to a decoded image at full resolution and
// returns the graded buffer. Ingestion normalizes orientation and caps the
// working size exactly like the interactive path.
func GradeImage(src image.Image, opt GradeOptions) (*Image, error) {
	asset := NewSourceAsset(src, opt.Orientation, nil)
	if asset == nil || asset.Full.Empty() {
		return nil, ErrNoExportSource
	}
	out := Build(asset.Full, opt.State)
	if out.Empty() {
		return nil, ErrNoExportSource
	}
	return out, nil
}

// GradeFile reads an image from inPath, applies the edit state, and writes
// the graded JPEG to outPath.
func GradeFile(inPath, outPath string, opt GradeOptions) error {
	data, err := os.ReadFile(filepath.Clean(inPath))
	if err != nil {
		return err
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode %s: %w", inPath, err)
	}
	out, err := GradeImage(src, opt)
	if err != nil {
		return fmt.Errorf("grade %s: %w", inPath, err)
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, ToRGBA(out), &jpeg.Options{Quality: ClampQuality(opt.Quality)}); err != nil {
		return fmt.Errorf("encode %s: %w", outPath, err)
	}
	return os.WriteFile(filepath.Clean(outPath), buf.Bytes(), 0o644)
}
