// The render command renders the built-in example worlds or YAML world
// files to TGA/PPM/PFM/EXR/PNG images.
package main

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	xdraw "golang.org/x/image/draw"

	rt "github.com/mwrenna/go-raytracer"
)

// sizePresets name the common render dimensions (height, width).
var sizePresets = map[string][2]int{
	"QQVGA": {120, 160},
	"QVGA":  {240, 320},
	"VGA":   {480, 640},
	"XGA":   {768, 1024},
	"720p":  {720, 1280},
	"1080p": {1080, 1920},
	"4k":    {2160, 3840},
}

type renderFlags struct {
	size       string
	width      int
	height     int
	samples    int
	depth      int
	fov        float64
	aaa        int
	out        string
	workers    int
	preview    bool
	filter     bool
	toneMap    bool
	scale      float64
	model      string
	separation float64
	layout     string
}

func (f *renderFlags) dimensions() (height, width int, err error) {
	if f.width > 0 && f.height > 0 {
		return f.height, f.width, nil
	}
	if preset, ok := sizePresets[f.size]; ok {
		return preset[0], preset[1], nil
	}
	names := make([]string, 0, len(sizePresets))
	for name := range sizePresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return 0, 0, fmt.Errorf("unknown size %q (presets: %s)", f.size, strings.Join(names, ", "))
}

func main() {
	root := &cobra.Command{
		Use:          "render",
		Short:        "CPU ray tracer for analytic scenes",
		SilenceUsage: true,
	}
	root.AddCommand(worldsCommand(), renderCommand(), animateCommand())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := fang.Execute(ctx, root); err != nil {
		os.Exit(1)
	}
}

func worldsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "worlds",
		Short: "List the built-in example worlds",
		RunE: func(cmd *cobra.Command, args []string) error {
			worlds := rt.Worlds()
			names := make([]string, 0, len(worlds))
			for name := range worlds {
				names = append(names, name)
			}
			sort.Strings(names)
			title := lipgloss.NewStyle().Bold(true)
			for _, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  -> %s\n", title.Render(name), worlds[name].OutputFilename)
			}
			return nil
		},
	}
}

// resolveWorld loads a named built-in world or a YAML world file.
func resolveWorld(arg string) (*rt.World, error) {
	if w, ok := rt.Worlds()[arg]; ok {
		return w, nil
	}
	if strings.HasSuffix(arg, ".yaml") || strings.HasSuffix(arg, ".yml") {
		return rt.LoadWorldFile(arg)
	}
	return nil, fmt.Errorf("unknown world %q (try 'render worlds' or pass a .yaml file)", arg)
}

func addRenderFlags(cmd *cobra.Command, flags *renderFlags) {
	cmd.Flags().StringVar(&flags.size, "size", "VGA", "image size preset")
	cmd.Flags().IntVar(&flags.width, "width", 0, "image width (overrides --size with --height)")
	cmd.Flags().IntVar(&flags.height, "height", 0, "image height (overrides --size with --width)")
	cmd.Flags().IntVar(&flags.samples, "samples", 4, "sub-samples per pixel")
	cmd.Flags().IntVar(&flags.depth, "depth", 6, "reflection recursion depth")
	cmd.Flags().Float64Var(&flags.fov, "fov", 55, "horizontal field of view, degrees")
	cmd.Flags().IntVar(&flags.aaa, "aaa", 255, "adaptive anti-aliasing mask threshold (255 disables)")
	cmd.Flags().StringVar(&flags.out, "out", "", "output filename (defaults to the world's)")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "parallel row workers (0 = all cores)")
	cmd.Flags().BoolVar(&flags.preview, "preview", false, "live half-block terminal preview")
	cmd.Flags().BoolVar(&flags.filter, "filter", false, "post-process smoothing filter")
	cmd.Flags().BoolVar(&flags.toneMap, "tone-map", false, "Reinhard tone mapping before encode")
	cmd.Flags().Float64Var(&flags.scale, "scale", 1, "rescale factor for .png output")
	cmd.Flags().StringVar(&flags.model, "model", "", "glTF/GLB model to drop into the scene")
	cmd.Flags().Float64Var(&flags.separation, "stereo", 0, "stereo eye separation (0 = mono)")
	cmd.Flags().StringVar(&flags.layout, "layout", "side-by-side", "stereo layout: side-by-side or top-bottom")
}

func renderCommand() *cobra.Command {
	flags := &renderFlags{}
	cmd := &cobra.Command{
		Use:   "render <world|file.yaml>",
		Short: "Render one world to an image file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			world, err := resolveWorld(args[0])
			if err != nil {
				return err
			}
			return runRender(cmd.Context(), world, flags)
		},
	}
	addRenderFlags(cmd, flags)
	return cmd
}

func runRender(ctx context.Context, world *rt.World, flags *renderFlags) error {
	height, width, err := flags.dimensions()
	if err != nil {
		return err
	}
	out := flags.out
	if out == "" {
		out = world.OutputFilename
	}
	if out == "" {
		out = world.Name + ".tga"
	}

	opts := rt.RenderOptions{
		Samples:         flags.samples,
		ReflectionDepth: flags.depth,
		MaskThreshold:   uint8(flags.aaa),
		Workers:         flags.workers,
		FilterCapture:   flags.filter,
		ToneMap:         flags.toneMap,
	}

	if flags.separation > 0 {
		return runStereo(ctx, world, flags, height, width, opts, out)
	}

	scene, view, err := world.Build(height, width, flags.fov)
	if err != nil {
		return err
	}
	if flags.model != "" {
		faces, err := rt.AddModel(scene, flags.model, world.LookingAt, 2, rt.Stainless)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "added %d faces from %s\n", faces, flags.model)
	}

	var preview *previewScreen
	if flags.preview {
		preview, err = newPreviewScreen(view.Capture)
		if err != nil {
			fmt.Fprintf(os.Stderr, "preview unavailable: %v\n", err)
		} else {
			opts.RowComplete = preview.rowComplete
			defer preview.close()
		}
	}

	start := time.Now()
	stats, err := scene.Render(ctx, view, opts)
	elapsed := time.Since(start)
	if err != nil {
		return err
	}
	if preview != nil {
		preview.close()
		preview = nil
	}

	if err := writeCapture(view.Capture, out, flags.scale); err != nil {
		return err
	}
	printSummary(world.Name, out, elapsed, stats)
	return nil
}

func runStereo(ctx context.Context, world *rt.World, flags *renderFlags, height, width int, opts rt.RenderOptions, out string) error {
	layout := rt.LeftRight
	if flags.layout == "top-bottom" {
		layout = rt.TopBottom
	}
	stereo, err := rt.NewStereoCamera(height, width, flags.fov, flags.separation, layout)
	if err != nil {
		return err
	}
	if err := stereo.MoveTo(world.LookingFrom, world.LookingAt); err != nil {
		return err
	}
	scene := rt.NewScene()
	if world.AddTo != nil {
		if err := world.AddTo(scene); err != nil {
			return err
		}
	}
	if world.Background != nil {
		scene.SetBackground(world.Background)
	}
	start := time.Now()
	var total rt.Stats
	for _, eye := range []*rt.Camera{stereo.First, stereo.Second} {
		stats, err := scene.Render(ctx, eye, opts)
		if err != nil {
			return err
		}
		total.Add(stats)
	}
	elapsed := time.Since(start)
	if err := writeCapture(stereo.MergeImages(), out, flags.scale); err != nil {
		return err
	}
	printSummary(world.Name+" (stereo)", out, elapsed, total)
	return nil
}

func animateCommand() *cobra.Command {
	flags := &renderFlags{}
	var fps float64
	var spring bool
	cmd := &cobra.Command{
		Use:   "animate <world|file.yaml>",
		Short: "Render a world's camera anchors to numbered frames",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			world, err := resolveWorld(args[0])
			if err != nil {
				return err
			}
			if len(world.Anchors) == 0 {
				return fmt.Errorf("world %q has no animation anchors", world.Name)
			}
			height, width, err := flags.dimensions()
			if err != nil {
				return err
			}
			scene, view, err := world.Build(height, width, flags.fov)
			if err != nil {
				return err
			}
			opts := rt.RenderOptions{
				Samples:         flags.samples,
				ReflectionDepth: flags.depth,
				MaskThreshold:   uint8(flags.aaa),
				Workers:         flags.workers,
				FilterCapture:   flags.filter,
				ToneMap:         flags.toneMap,
			}

			var frames interface {
				More() bool
				Next() rt.CameraAttributes
			}
			if spring {
				frames, err = rt.NewSpringAnimator(int(fps), world.Anchors, 4.0, 1.0)
			} else {
				frames, err = rt.NewAnimator(fps, world.Anchors)
			}
			if err != nil {
				return err
			}

			base := flags.out
			if base == "" {
				base = world.Name
			}
			ext := filepath.Ext(base)
			if ext == "" {
				ext = ".tga"
			} else {
				base = strings.TrimSuffix(base, ext)
			}

			frame := 0
			for frames.More() {
				if cmd.Context().Err() != nil {
					return cmd.Context().Err()
				}
				attrs := frames.Next()
				view.FieldOfView = attrs.Fov
				if err := view.MoveTo(attrs.From, attrs.At); err != nil {
					return err
				}
				stats, err := scene.Render(cmd.Context(), view, opts)
				if err != nil {
					return err
				}
				name := fmt.Sprintf("%s_%05d%s", base, frame, ext)
				if err := writeCapture(view.Capture, name, 1); err != nil {
					return err
				}
				fmt.Fprintf(os.Stderr, "frame %d -> %s (%d rays)\n", frame, name, stats.TracedRays)
				frame++
			}
			return nil
		},
	}
	addRenderFlags(cmd, flags)
	cmd.Flags().Float64Var(&fps, "fps", 24, "frames per second of anchor time")
	cmd.Flags().BoolVar(&spring, "spring", false, "spring-damped camera motion")
	return cmd
}

// writeCapture encodes the capture, optionally rescaling PNG output.
func writeCapture(capture *rt.Capture, filename string, scale float64) error {
	if scale != 1 && strings.EqualFold(filepath.Ext(filename), ".png") {
		src := capture.ToImage()
		dst := image.NewRGBA(image.Rect(0, 0,
			int(float64(src.Bounds().Dx())*scale),
			int(float64(src.Bounds().Dy())*scale)))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)
		f, err := os.Create(filename)
		if err != nil {
			return err
		}
		defer f.Close()
		return png.Encode(f, dst)
	}
	return capture.WriteFile(filename)
}

var (
	summaryLabel = lipgloss.NewStyle().Bold(true)
	summaryValue = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

func printSummary(name, out string, elapsed time.Duration, stats rt.Stats) {
	line := func(label string, value any) {
		fmt.Printf("%s %s\n", summaryLabel.Render(label+":"), summaryValue.Render(fmt.Sprint(value)))
	}
	line("world", name)
	line("output", out)
	line("elapsed", elapsed.Round(time.Millisecond))
	line("camera rays", stats.CastRaysFromCamera)
	line("traced rays", stats.TracedRays)
	line("shadow rays", stats.ShadowRays)
	line("reflected", stats.ReflectedRays)
	line("transmitted", stats.TransmittedRays)
	line("intersection tests", stats.IntersectionTests)
	line("pruned by bounds", stats.SavedByBounds)
	line("adaptive pixels", stats.AdaptivePixels)
}
