package cinegrade

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// BuildFunc renders a request snapshot. Injectable for tests; defaults to
// Build.
type BuildFunc func(input *Image, state EditState) *Image

// PreviewFunc is invoked outside the scheduler lock whenever a new preview is
// published.
type PreviewFunc func(preview *Image, generation uint64)

// schedState is the part of the scheduler that the transition functions
// below operate on: the generation counter, the single pending slot, and
// whether a drain loop is running.
type schedState struct {
	generation uint64
	pending    *RenderRequest
	rendering  bool
}

type schedEffect int

const (
	effectNone schedEffect = iota
	effectStartDrain
)

// coalesce stores req as the sole pending request, replacing any unconsumed
// one, and reports whether a drain loop must be started.
func coalesce(s schedState, req *RenderRequest) (schedState, schedEffect) {
	s.pending = req
	if s.rendering {
		return s, effectNone
	}
	s.rendering = true
	return s, effectStartDrain
}

// invalidate bumps the generation and clears pending work. Any render already
// in flight keeps running; its result fails the generation compare at publish
// time.
func invalidate(s schedState) schedState {
	s.generation++
	s.pending = nil
	return s
}

// takePending pops the pending request. With nothing pending the drain loop
// is over and the scheduler returns to idle.
func takePending(s schedState) (schedState, *RenderRequest) {
	req := s.pending
	s.pending = nil
	if req == nil {
		s.rendering = false
	}
	return s, req
}

func shouldPublish(s schedState, req *RenderRequest, out *Image) bool {
	return req.Generation == s.generation && !out.Empty()
}

// Scheduler owns the interactive editing session: the edit state, the source
// asset, and the published preview. Rapid edits are coalesced into a single
// always-current in-flight render; stale completions are detected by
// generation compare and silently discarded.
//
// All mutable state is guarded by one mutex and mutated only by short
// critical sections; pixel work never runs under the lock. At most one
// preview render executes at a time.
type Scheduler struct {
	mu         sync.Mutex
	sched      schedState
	edit       EditState
	asset      *SourceAsset
	preview    *Image
	lastExport *Image

	build     BuildFunc
	onPreview PreviewFunc
	log       *zap.Logger
	wg        sync.WaitGroup
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) SchedulerOption {
	return func(s *Scheduler) { s.log = l }
}

// WithBuildFunc overrides the render function.
func WithBuildFunc(f BuildFunc) SchedulerOption {
	return func(s *Scheduler) { s.build = f }
}

// WithPreviewFunc registers the preview publication callback.
func WithPreviewFunc(f PreviewFunc) SchedulerOption {
	return func(s *Scheduler) { s.onPreview = f }
}

// NewScheduler creates an idle scheduler with no source loaded.
func NewScheduler(opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		build: Build,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetSource loads a new asset, replacing the previous one wholesale. The
// generation is bumped and pending work cleared before the edit state is
// reset, so no late completion from the old source can publish into the new
// session. A render of the fresh state is then requested.
func (s *Scheduler) SetSource(asset *SourceAsset) {
	s.mu.Lock()
	s.sched = invalidate(s.sched)
	s.asset = asset
	s.preview = nil
	s.edit.Reset()
	eff := s.requestLocked()
	s.mu.Unlock()
	s.log.Info("source loaded", zap.Uint64("generation", s.Generation()))
	s.start(eff)
}

// Restart invalidates in-flight work and resets the edit state to neutral,
// keeping the current source. Invalidation happens strictly before the state
// reset.
func (s *Scheduler) Restart() {
	s.mu.Lock()
	s.sched = invalidate(s.sched)
	s.edit.Reset()
	s.preview = nil
	eff := s.requestLocked()
	s.mu.Unlock()
	s.start(eff)
}

// SetPreset enters preset preview: the manual adjustments reset to defaults
// so every preset is judged from the same neutral baseline.
func (s *Scheduler) SetPreset(id PresetID, apply bool) {
	s.mu.Lock()
	s.edit.PresetID = id
	s.edit.ApplyPreset = apply
	s.edit.ResetAdjustments()
	eff := s.requestLocked()
	s.mu.Unlock()
	s.start(eff)
}

// SetAdjustments updates the four manual sliders, clamping each to its
// contract range.
func (s *Scheduler) SetAdjustments(exposure, contrast, shadows, highlights float32) {
	s.mu.Lock()
	s.edit.SetExposure(exposure)
	s.edit.SetContrast(contrast)
	s.edit.SetShadows(shadows)
	s.edit.SetHighlights(highlights)
	eff := s.requestLocked()
	s.mu.Unlock()
	s.start(eff)
}

// SetCrop updates the crop mode and pan offset. A nil crop restores the
// original framing. The struct is copied, so the caller may reuse or mutate
// its own CropRatio without reaching a snapshot already handed to a render.
func (s *Scheduler) SetCrop(crop *CropRatio, panX, panY float32) {
	s.mu.Lock()
	if crop == nil {
		s.edit.Crop = nil
	} else {
		c := *crop
		s.edit.Crop = &c
	}
	s.edit.SetPan(panX, panY)
	eff := s.requestLocked()
	s.mu.Unlock()
	s.start(eff)
}

// Preview returns the most recently published preview, or nil before the
// first publish.
func (s *Scheduler) Preview() *Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.preview
}

// EditState returns a copy of the live edit state.
func (s *Scheduler) EditState() EditState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.edit
}

// Generation returns the live generation counter.
func (s *Scheduler) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sched.generation
}

// Wait blocks until no render is in flight. Intended for shutdown and tests.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// requestLocked snapshots the current edit state into a render request and
// coalesces it into the pending slot. Callers must hold s.mu.
func (s *Scheduler) requestLocked() schedEffect {
	if s.asset == nil || s.asset.Preview.Empty() {
		return effectNone
	}
	req := &RenderRequest{
		Generation: s.sched.generation,
		Source:     s.asset.Preview,
		State:      s.edit,
	}
	var eff schedEffect
	s.sched, eff = coalesce(s.sched, req)
	if eff == effectStartDrain {
		s.wg.Add(1)
	}
	return eff
}

func (s *Scheduler) start(eff schedEffect) {
	if eff == effectStartDrain {
		go s.drain()
	}
}

// drain renders pending requests until the slot is empty. Exactly one drain
// loop runs at a time; each iteration renders the newest snapshot, skipping
// whatever edits it superseded.
func (s *Scheduler) drain() {
	defer s.wg.Done()
	for {
		s.mu.Lock()
		var req *RenderRequest
		s.sched, req = takePending(s.sched)
		s.mu.Unlock()
		if req == nil {
			return
		}

		start := time.Now()
		out := s.build(req.Source, req.State)

		s.mu.Lock()
		if shouldPublish(s.sched, req, out) {
			s.preview = out
			cb := s.onPreview
			s.mu.Unlock()
			s.log.Debug("preview published",
				zap.Uint64("generation", req.Generation),
				zap.Duration("elapsed", time.Since(start)))
			if cb != nil {
				cb(out, req.Generation)
			}
		} else {
			live := s.sched.generation
			s.mu.Unlock()
			s.log.Debug("render discarded",
				zap.Uint64("generation", req.Generation),
				zap.Uint64("live", live),
				zap.Duration("elapsed", time.Since(start)))
		}
	}
}
