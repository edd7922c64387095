package cinegrade_test

import (
	"context"
	"fmt"
	"image"

	"github.com/pictolab/cinegrade"
)

func ExampleBuild() {
	src := image.NewRGBA(image.Rect(0, 0, 640, 480))
	asset := cinegrade.NewSourceAsset(src, 1, nil)

	state := cinegrade.EditState{PresetID: cinegrade.PresetMatrix, ApplyPreset: true}
	state.SetExposure(0.5)

	out := cinegrade.Build(asset.Full, state)
	fmt.Println(out.W, out.H)
	// Output: 640 480
}

func ExampleScheduler() {
	s := cinegrade.NewScheduler()
	s.SetSource(cinegrade.NewSourceAsset(image.NewRGBA(image.Rect(0, 0, 320, 240)), 1, nil))
	s.SetPreset(cinegrade.PresetPacific, true)
	s.SetAdjustments(0.3, 0.1, 0, 0)
	s.Wait()

	preview := s.Preview()
	fmt.Println(preview.W, preview.H)
	// Output: 320 240
}

func ExampleScheduler_Export() {
	s := cinegrade.NewScheduler()
	s.SetSource(cinegrade.NewSourceAsset(image.NewRGBA(image.Rect(0, 0, 320, 240)), 1, nil))
	s.Wait()

	out, err := s.Export(context.Background(), cinegrade.ExportOptions{Quality: 83})
	if err != nil {
		return
	}
	fmt.Println(out.W, out.H, cinegrade.ClampQuality(83))
	// Output: 320 240 85
}

func ExamplePresets() {
	for _, p := range cinegrade.Presets()[:2] {
		fmt.Println(p.ID, p.Gated)
	}
	// Output:
	// matrix false
	// pacific false
}

func ExampleOffsetCrop() {
	img := cinegrade.NewImage(1000, 1000)
	out := cinegrade.OffsetCrop(img, 0.8, false, 0, 0)
	fmt.Println(out.W, out.H)
	// Output: 800 1000
}
