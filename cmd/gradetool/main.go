// Command gradetool applies cinematic grading presets to image files.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pictolab/cinegrade"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gradetool",
		Short:         "Apply cinematic color grades to photos",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newPresetsCmd(), newGradeCmd(), newBatchCmd())
	return root
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the preset catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range cinegrade.Presets() {
				tag := "free"
				if p.Gated {
					tag = "premium"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %-10s %s\n", p.ID, tag, p.Name)
			}
			return nil
		},
	}
}

type gradeFlags struct {
	preset     string
	exposure   float32
	contrast   float32
	shadows    float32
	highlights float32
	ratio      float64
	forceWide  bool
	panX, panY float32
	quality    int
}

func (f *gradeFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.preset, "preset", "p", "", "preset id (see 'gradetool presets')")
	fl.Float32Var(&f.exposure, "exposure", 0, "exposure in stops, -2..2")
	fl.Float32Var(&f.contrast, "contrast", 0, "contrast adjustment, -1..1")
	fl.Float32Var(&f.shadows, "shadows", 0, "shadow adjustment, -1..1")
	fl.Float32Var(&f.highlights, "highlights", 0, "highlight adjustment, -1..1")
	fl.Float64Var(&f.ratio, "ratio", 0, "crop aspect ratio, e.g. 0.8 for 4:5 (0 keeps original)")
	fl.BoolVar(&f.forceWide, "wide", false, "force the wide crop orientation")
	fl.Float32Var(&f.panX, "pan-x", 0, "horizontal crop pan, -1..1")
	fl.Float32Var(&f.panY, "pan-y", 0, "vertical crop pan, -1..1")
	fl.IntVarP(&f.quality, "quality", "q", 90, "JPEG quality (clamped to 70..100, stepped by 5)")
}

func (f *gradeFlags) editState() (cinegrade.EditState, error) {
	var state cinegrade.EditState
	if f.preset != "" {
		id := cinegrade.PresetID(f.preset)
		if _, ok := cinegrade.PresetByID(id); !ok {
			return state, fmt.Errorf("unknown preset %q", f.preset)
		}
		state.PresetID = id
		state.ApplyPreset = true
	}
	state.SetExposure(f.exposure)
	state.SetContrast(f.contrast)
	state.SetShadows(f.shadows)
	state.SetHighlights(f.highlights)
	if f.ratio > 0 {
		state.Crop = &cinegrade.CropRatio{Ratio: f.ratio, ForceWide: f.forceWide}
		state.SetPan(f.panX, f.panY)
	}
	return state, nil
}

func newGradeCmd() *cobra.Command {
	var flags gradeFlags
	var outPath string
	cmd := &cobra.Command{
		Use:   "grade <input>",
		Short: "Grade a single image and write a JPEG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := flags.editState()
			if err != nil {
				return err
			}
			if outPath == "" {
				outPath = gradedName(args[0])
			}
			return cinegrade.GradeFile(args[0], outPath, cinegrade.GradeOptions{
				State:   state,
				Quality: flags.quality,
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output path (default: <input>.graded.jpg)")
	return cmd
}

func newBatchCmd() *cobra.Command {
	var flags gradeFlags
	var outDir string
	var workers int
	cmd := &cobra.Command{
		Use:   "batch <input>...",
		Short: "Grade many images concurrently",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := flags.editState()
			if err != nil {
				return err
			}
			if workers <= 0 {
				workers = runtime.NumCPU()
			}
			g, _ := errgroup.WithContext(cmd.Context())
			g.SetLimit(workers)
			for _, in := range args {
				in := in
				out := gradedName(in)
				if outDir != "" {
					out = filepath.Join(outDir, filepath.Base(out))
				}
				g.Go(func() error {
					return cinegrade.GradeFile(in, out, cinegrade.GradeOptions{
						State:   state,
						Quality: flags.quality,
					})
				})
			}
			return g.Wait()
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&outDir, "out-dir", "", "directory for graded files (default: alongside inputs)")
	cmd.Flags().IntVar(&workers, "workers", 0, "max concurrent files (default: number of CPUs)")
	return cmd
}

func gradedName(in string) string {
	ext := filepath.Ext(in)
	return strings.TrimSuffix(in, ext) + ".graded.jpg"
}
