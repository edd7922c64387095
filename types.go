package cinegrade

// PresetID names an entry in the preset catalog.
type PresetID string

// FinishSettings carries the optional post-grade "look" layer of a preset.
// Zero-valued fields disable the corresponding effect.
type FinishSettings struct {
	GrainAmount      float32
	GrainSize        float32
	VignetteStrength float32
	VignetteSoftness float32
	Aberration       float32
	BloomIntensity   float32
	BloomRadius      float32
}

// PresetDefinition is the immutable parameter record for one preset. The
// coefficients are data, not behavior: applying any preset is the same fixed
// composition of transforms fed with these numbers.
type PresetDefinition struct {
	ID   PresetID
	Name string

	Matrix     [3][4]float32
	Saturation float32 // delta around 1
	Contrast   float32 // delta around 1
	Brightness float32

	SourceWhite WhitePoint
	TargetWhite WhitePoint

	ShadowAmount    float32 // 0 neutral
	HighlightAmount float32 // 1 neutral

	Finish *FinishSettings

	// SelectiveColor switches the preset to the masked red-vs-monochrome
	// composition instead of the matrix grade.
	SelectiveColor bool

	// Gated marks the preset as requiring an entitlement. The engine never
	// checks it; selection gating belongs to the caller.
	Gated bool
}

// FlatBaselineSettings is the second-stage correction applied after every
// creative grade so manual sliders keep editable headroom. It is derived from
// the preset's bucket, never stored per preset.
type FlatBaselineSettings struct {
	ShadowLift       float32 `yaml:"shadowLift"`
	HighlightRolloff float32 `yaml:"highlightRolloff"`
	BlackLift        float32 `yaml:"blackLift"`
	Contrast         float32 `yaml:"contrast"`
}

// CropRatio describes the crop mode: a target aspect ratio and whether the
// wide orientation is forced regardless of the source orientation.
type CropRatio struct {
	Ratio     float64
	ForceWide bool
}

// EditState is the full set of user-controlled grading parameters. The zero
// value is the neutral state: no preset, identity adjustments, original crop.
type EditState struct {
	PresetID    PresetID
	ApplyPreset bool

	Exposure   float32 // stops, [-2,2]
	Contrast   float32 // [-1,1]
	Shadows    float32 // [-1,1]
	Highlights float32 // [-1,1]

	Crop       *CropRatio // nil = original framing
	PanX, PanY float32    // [-1,1], used only when cropping
}

// SetExposure clamps and stores the exposure adjustment.
func (s *EditState) SetExposure(stops float32) { s.Exposure = clampf(stops, -2, 2) }

// SetContrast clamps and stores the contrast adjustment.
func (s *EditState) SetContrast(v float32) { s.Contrast = clampf(v, -1, 1) }

// SetShadows clamps and stores the shadow adjustment.
func (s *EditState) SetShadows(v float32) { s.Shadows = clampf(v, -1, 1) }

// SetHighlights clamps and stores the highlight adjustment.
func (s *EditState) SetHighlights(v float32) { s.Highlights = clampf(v, -1, 1) }

// SetPan clamps and stores the crop pan offset.
func (s *EditState) SetPan(x, y float32) {
	s.PanX = clampf(x, -1, 1)
	s.PanY = clampf(y, -1, 1)
}

// ResetAdjustments returns the four sliders to their defaults. Entering
// preset preview does this so every preset is judged from a neutral start.
func (s *EditState) ResetAdjustments() {
	s.Exposure = 0
	s.Contrast = 0
	s.Shadows = 0
	s.Highlights = 0
}

// Reset returns the whole edit state to neutral.
func (s *EditState) Reset() { *s = EditState{} }

// RenderRequest is an immutable snapshot handed to the render worker. A newer
// request always replaces an older unconsumed one; at most one is pending.
type RenderRequest struct {
	Generation uint64
	Source     *Image
	State      EditState
}
