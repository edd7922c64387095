package cinegrade

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var presetConfigRaw []byte

// Preset identifiers. The catalog is closed: every preset is one of these.
const (
	PresetMatrix  PresetID = "matrix"
	PresetPacific PresetID = "pacific"
	PresetPolar   PresetID = "polar"
	PresetVerde   PresetID = "verde"
	PresetChrome  PresetID = "chrome"
	PresetHalide  PresetID = "halide"
	PresetMono    PresetID = "mono"
	PresetNoir    PresetID = "noir"
	PresetNeon    PresetID = "neon"
	PresetSahara  PresetID = "sahara"
	PresetEmber   PresetID = "ember"
	PresetDusk    PresetID = "dusk"
	PresetRetro   PresetID = "retro"
	PresetFuji    PresetID = "fuji"
	PresetCrimson PresetID = "crimson"
)

// identityMatrix passes channels through unchanged.
var identityMatrix = [3][4]float32{
	{1, 0, 0, 0},
	{0, 1, 0, 0},
	{0, 0, 1, 0},
}

var neutralWhite = WhitePoint{Temperature: 6500}

// presetTable holds the literal grade coefficients per preset, in catalog
// order. Bucket assignment and gating live in presets.yaml.
var presetTable = []PresetDefinition{
	{
		ID: PresetMatrix, Name: "Matrix",
		Matrix: [3][4]float32{
			{0.92, 0.08, 0.00, 0.00},
			{0.04, 1.02, 0.02, 0.01},
			{0.02, 0.10, 0.86, 0.00},
		},
		Saturation: -0.15, Contrast: 0.08, Brightness: -0.01,
		SourceWhite: neutralWhite, TargetWhite: WhitePoint{Temperature: 7200, Tint: -0.2},
	},
	{
		ID: PresetPacific, Name: "Pacific",
		Matrix: [3][4]float32{
			{1.06, 0.02, -0.04, 0.00},
			{-0.02, 1.00, 0.04, 0.00},
			{-0.06, 0.04, 1.04, 0.01},
		},
		Saturation: 0.12, Contrast: 0.06, Brightness: 0,
		SourceWhite: neutralWhite, TargetWhite: WhitePoint{Temperature: 5400},
		ShadowAmount: 0.1, HighlightAmount: 0.95,
	},
	{
		ID: PresetPolar, Name: "Polar",
		Matrix: [3][4]float32{
			{0.96, 0.00, 0.02, 0.00},
			{0.00, 1.00, 0.03, 0.00},
			{0.02, 0.02, 1.08, 0.02},
		},
		Saturation: -0.08, Contrast: 0.04, Brightness: 0.01,
		SourceWhite: neutralWhite, TargetWhite: WhitePoint{Temperature: 8600, Tint: 0.1},
	},
	{
		ID: PresetVerde, Name: "Verde",
		Matrix: [3][4]float32{
			{0.98, 0.04, -0.02, 0.00},
			{0.02, 1.04, -0.02, 0.00},
			{-0.02, 0.06, 0.96, 0.00},
		},
		Saturation: 0.05, Contrast: 0.02, Brightness: 0.01,
		SourceWhite: neutralWhite, TargetWhite: WhitePoint{Temperature: 6200, Tint: -0.15},
	},
	{
		ID: PresetChrome, Name: "Chrome",
		Matrix: [3][4]float32{
			{1.02, 0.00, 0.00, -0.01},
			{0.00, 1.02, 0.00, -0.01},
			{0.00, 0.00, 1.02, -0.01},
		},
		Saturation: 0.08, Contrast: 0.1, Brightness: 0,
		SourceWhite: neutralWhite, TargetWhite: neutralWhite,
	},
	{
		ID: PresetHalide, Name: "Halide",
		Matrix: [3][4]float32{
			{0.99, 0.01, 0.01, 0.00},
			{0.01, 0.99, 0.02, 0.00},
			{0.01, 0.02, 1.01, 0.01},
		},
		Saturation: -0.05, Contrast: 0.05, Brightness: 0.01,
		SourceWhite: neutralWhite, TargetWhite: WhitePoint{Temperature: 7000},
	},
	{
		ID: PresetMono, Name: "Mono",
		Matrix: [3][4]float32{
			{0.2126, 0.7152, 0.0722, 0.00},
			{0.2126, 0.7152, 0.0722, 0.00},
			{0.2126, 0.7152, 0.0722, 0.00},
		},
		Saturation: -1, Contrast: 0.12, Brightness: 0,
		SourceWhite: neutralWhite, TargetWhite: neutralWhite,
		Finish: &FinishSettings{GrainAmount: 0.18, GrainSize: 1.6, VignetteStrength: 0.25, VignetteSoftness: 0.6},
	},
	{
		ID: PresetNoir, Name: "Noir",
		Matrix: [3][4]float32{
			{0.30, 0.59, 0.11, -0.02},
			{0.30, 0.59, 0.11, -0.02},
			{0.28, 0.57, 0.13, 0.00},
		},
		Saturation: -0.9, Contrast: 0.22, Brightness: -0.02,
		SourceWhite: neutralWhite, TargetWhite: WhitePoint{Temperature: 7400},
		ShadowAmount: -0.15, HighlightAmount: 0.9,
		Finish:       &FinishSettings{GrainAmount: 0.28, GrainSize: 2.0, VignetteStrength: 0.4, VignetteSoftness: 0.5},
	},
	{
		ID: PresetNeon, Name: "Neon",
		Matrix: [3][4]float32{
			{1.10, -0.04, 0.02, 0.00},
			{-0.04, 1.02, 0.04, 0.00},
			{0.04, -0.02, 1.12, 0.02},
		},
		Saturation: 0.35, Contrast: 0.1, Brightness: 0,
		SourceWhite: neutralWhite, TargetWhite: WhitePoint{Temperature: 7800, Tint: 0.25},
		Finish: &FinishSettings{Aberration: 1.4, BloomIntensity: 0.5, BloomRadius: 6},
	},
	{
		ID: PresetSahara, Name: "Sahara",
		Matrix: [3][4]float32{
			{1.08, 0.04, -0.02, 0.01},
			{0.02, 1.00, -0.02, 0.00},
			{-0.04, -0.02, 0.90, 0.00},
		},
		Saturation: 0.1, Contrast: 0.05, Brightness: 0.02,
		SourceWhite: neutralWhite, TargetWhite: WhitePoint{Temperature: 4600, Tint: 0.05},
		ShadowAmount: 0.2, HighlightAmount: 0.92,
	},
	{
		ID: PresetEmber, Name: "Ember",
		Matrix: [3][4]float32{
			{1.10, 0.02, -0.04, 0.01},
			{0.04, 0.98, -0.02, 0.00},
			{-0.02, -0.04, 0.88, 0.00},
		},
		Saturation: 0.05, Contrast: 0.12, Brightness: -0.01,
		SourceWhite: neutralWhite, TargetWhite: WhitePoint{Temperature: 4200},
		Finish: &FinishSettings{BloomIntensity: 0.35, BloomRadius: 8, VignetteStrength: 0.3, VignetteSoftness: 0.7},
	},
	{
		ID: PresetDusk, Name: "Dusk",
		Matrix: [3][4]float32{
			{0.96, 0.00, 0.06, 0.00},
			{0.00, 0.94, 0.04, 0.00},
			{0.04, 0.02, 1.04, 0.02},
		},
		Saturation: -0.2, Contrast: 0.08, Brightness: -0.02,
		SourceWhite: neutralWhite, TargetWhite: WhitePoint{Temperature: 8200, Tint: 0.3},
		Finish: &FinishSettings{VignetteStrength: 0.35, VignetteSoftness: 0.8},
	},
	{
		ID: PresetRetro, Name: "Retro",
		Matrix: [3][4]float32{
			{1.00, 0.02, 0.00, 0.04},
			{0.02, 0.98, 0.00, 0.03},
			{0.00, 0.02, 0.94, 0.05},
		},
		Saturation: -0.25, Contrast: -0.08, Brightness: 0.02,
		SourceWhite: neutralWhite, TargetWhite: WhitePoint{Temperature: 5200, Tint: -0.1},
		Finish: &FinishSettings{GrainAmount: 0.22, GrainSize: 2.2},
	},
	{
		ID: PresetFuji, Name: "Fuji",
		Matrix: [3][4]float32{
			{0.98, 0.03, -0.01, 0.01},
			{0.01, 1.01, 0.00, 0.01},
			{-0.01, 0.04, 0.99, 0.02},
		},
		Saturation: 0.06, Contrast: -0.04, Brightness: 0.01,
		SourceWhite: neutralWhite, TargetWhite: WhitePoint{Temperature: 6100, Tint: -0.08},
		Finish: &FinishSettings{GrainAmount: 0.12, GrainSize: 1.2},
	},
	{
		ID: PresetCrimson, Name: "Crimson",
		Matrix:         identityMatrix,
		SourceWhite:    neutralWhite,
		TargetWhite:    neutralWhite,
		SelectiveColor: true,
		Finish:         &FinishSettings{VignetteStrength: 0.3, VignetteSoftness: 0.6},
	},
}

// crimsonMask is the narrow red band isolated by the selective-color preset.
var crimsonMask = HueMaskParams{
	HueCenter:     0,
	HueTolerance:  0.045,
	MinSaturation: 0.35,
	MinValue:      0.2,
}

type presetTuning struct {
	Bucket string `yaml:"bucket"`
	Gated  bool   `yaml:"gated"`
}

type presetConfig struct {
	Buckets map[string]FlatBaselineSettings `yaml:"buckets"`
	Presets map[PresetID]presetTuning       `yaml:"presets"`
}

var (
	catalogOnce      sync.Once
	catalogByID      map[PresetID]PresetDefinition
	catalogOrder     []PresetID
	catalogBaselines map[PresetID]FlatBaselineSettings
)

func loadCatalog() {
	var cfg presetConfig
	if err := yaml.Unmarshal(presetConfigRaw, &cfg); err != nil {
		panic(fmt.Sprintf("cinegrade: invalid embedded preset config: %v", err))
	}
	fallback, ok := cfg.Buckets["default"]
	if !ok {
		panic("cinegrade: preset config missing default bucket")
	}
	catalogByID = make(map[PresetID]PresetDefinition, len(presetTable))
	catalogBaselines = make(map[PresetID]FlatBaselineSettings, len(presetTable))
	catalogOrder = make([]PresetID, 0, len(presetTable))
	for _, def := range presetTable {
		tuning := cfg.Presets[def.ID]
		def.Gated = tuning.Gated
		baseline, ok := cfg.Buckets[tuning.Bucket]
		if !ok {
			baseline = fallback
		}
		catalogByID[def.ID] = def
		catalogBaselines[def.ID] = baseline
		catalogOrder = append(catalogOrder, def.ID)
	}
}

// Presets returns the catalog in its canonical order.
func Presets() []PresetDefinition {
	catalogOnce.Do(loadCatalog)
	out := make([]PresetDefinition, 0, len(catalogOrder))
	for _, id := range catalogOrder {
		out = append(out, catalogByID[id])
	}
	return out
}

// PresetByID looks up a preset definition.
func PresetByID(id PresetID) (PresetDefinition, bool) {
	catalogOnce.Do(loadCatalog)
	def, ok := catalogByID[id]
	return def, ok
}

// BaselineFor returns the flat-baseline settings for a preset's bucket.
func BaselineFor(id PresetID) FlatBaselineSettings {
	catalogOnce.Do(loadCatalog)
	return catalogBaselines[id]
}

// applyPreset runs the preset's creative grade: the literal matrix cast,
// saturation/contrast/brightness deltas, white-balance shift, and optional
// shadow/highlight shaping. The flat-baseline stage is applied separately by
// the filter graph.
func applyPreset(src *Image, def PresetDefinition) *Image {
	if src.Empty() {
		return src
	}
	if def.SelectiveColor {
		return applySelectiveColor(src)
	}
	out := AffineColorMatrix(src, def.Matrix)
	out = ColorControls(out, 1+def.Saturation, 1+def.Contrast, def.Brightness)
	if def.SourceWhite != def.TargetWhite {
		out = TemperatureTint(out, def.SourceWhite, def.TargetWhite)
	}
	if def.ShadowAmount != 0 || (def.HighlightAmount != 0 && def.HighlightAmount != 1) {
		out = ShadowHighlightAdjust(out, def.ShadowAmount, presetHighlightAmount(def))
	}
	return out
}

func presetHighlightAmount(def PresetDefinition) float32 {
	if def.HighlightAmount == 0 {
		return 1
	}
	return def.HighlightAmount
}

// applySelectiveColor isolates a narrow red band against a heavily
// desaturated copy. Both copies and the mask derive from the pre-grade input.
func applySelectiveColor(src *Image) *Image {
	mask := HueSaturationMask(src, crimsonMask)
	colored := ColorControls(src, 1.45, 1.15, 0)
	mono := ColorControls(src, 0.05, 1.2, 0)
	return blendMasked(colored, mono, mask)
}

// applyFlatBaseline runs the mandatory post-grade flattening: bucket shadow
// lift and highlight roll-off, a black-lift tone curve whose second point is
// compensated proportionally, then the bucket contrast with a brightness
// nudge proportional to the black lift.
func applyFlatBaseline(src *Image, fb FlatBaselineSettings) *Image {
	if src.Empty() {
		return src
	}
	out := ShadowHighlightAdjust(src, fb.ShadowLift, fb.HighlightRolloff)
	out = ToneCurve(out, [5]float32{
		fb.BlackLift,
		0.25 + 0.75*fb.BlackLift,
		0.5,
		0.75,
		1,
	})
	return ColorControls(out, 1, fb.Contrast, -0.25*fb.BlackLift)
}
