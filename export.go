package cinegrade

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// ErrNoExportSource reports that no renderable buffer exists and no earlier
// full-resolution render is available to fall back to.
var ErrNoExportSource = errors.New("cinegrade: no renderable export source")

// ExportOptions controls a one-shot export render.
type ExportOptions struct {
	// FromRaw prefers a buffer developed from the raw sensor payload when
	// one exists.
	FromRaw bool
	// Quality is the JPEG-equivalent quality percentage handed to the
	// persistence sink; see ClampQuality for the stored value.
	Quality int
}

// ExportResult is delivered by ExportAsync.
type ExportResult struct {
	Image   *Image
	Quality int
	Err     error
}

// ClampQuality normalizes a JPEG-equivalent quality percentage: clamped to
// [70,100], then stepped to the nearest multiple of 5 (ties round up).
func ClampQuality(q int) int {
	if q < 70 {
		q = 70
	}
	if q > 100 {
		q = 100
	}
	return (q + 2) / 5 * 5
}

// Export renders the live edit state against the best available
// high-resolution source and returns the final pixel buffer. It is one-shot:
// not debounced and not subject to generation checks, so it may run
// concurrently with a preview render. Source priority: raw-developed (when
// enabled and present) > full-resolution > current preview. When nothing
// renders, the last successful full-resolution render is returned instead;
// with no fallback either, ErrNoExportSource.
func (s *Scheduler) Export(ctx context.Context, opt ExportOptions) (*Image, error) {
	s.mu.Lock()
	asset := s.asset
	state := s.edit
	preview := s.preview
	last := s.lastExport
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src := exportSource(asset, preview, opt.FromRaw, s.log)
	if src.Empty() {
		if last != nil {
			s.log.Warn("export source missing, reusing previous render")
			return last, nil
		}
		return nil, ErrNoExportSource
	}

	out := s.build(src, state)
	if out.Empty() {
		if last != nil {
			s.log.Warn("export render produced no output, reusing previous render")
			return last, nil
		}
		return nil, ErrNoExportSource
	}

	s.mu.Lock()
	s.lastExport = out
	s.mu.Unlock()
	s.log.Info("export rendered",
		zap.Int("width", out.W),
		zap.Int("height", out.H))
	return out, nil
}

// ExportAsync runs Export on its own one-shot goroutine and delivers the
// result on the returned channel.
func (s *Scheduler) ExportAsync(ctx context.Context, opt ExportOptions) <-chan ExportResult {
	ch := make(chan ExportResult, 1)
	go func() {
		img, err := s.Export(ctx, opt)
		ch <- ExportResult{Image: img, Quality: ClampQuality(opt.Quality), Err: err}
	}()
	return ch
}

// exportSource picks the render input by priority: developed raw, then the
// full-resolution buffer, then the current preview. A raw payload that fails
// to develop degrades to the next source rather than failing the export.
func exportSource(asset *SourceAsset, preview *Image, fromRaw bool, log *zap.Logger) *Image {
	if asset == nil {
		return preview
	}
	if fromRaw && asset.DevelopRaw != nil {
		img, err := asset.DevelopRaw()
		if err == nil && !img.Empty() {
			return img
		}
		if err != nil {
			log.Warn("raw development failed", zap.Error(err))
		}
	}
	if !asset.Full.Empty() {
		return asset.Full
	}
	return preview
}
