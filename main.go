package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-beam-raytracer/pkg/loaders"
	"github.com/df07/go-beam-raytracer/pkg/output"
	"github.com/df07/go-beam-raytracer/pkg/renderer"
	"github.com/df07/go-beam-raytracer/pkg/scene"
)

func main() {
	loadEnv()

	cfg, err := parseConfig(os.Args[1:], os.Stderr)
	if err != nil {
		if err == flag.ErrHelp {
			return
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(2)
	}

	if cfg.Help {
		showHelp()
		return
	}
	if cfg.List {
		if err := listScenes(cfg.ScenesDir); err != nil {
			fmt.Printf("Error listing scenes: %v\n", err)
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, time.Now()); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func showHelp() {
	fmt.Println("Beam Raytracer")
	fmt.Println("Usage: raytracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	newFlagSet(&Config{}, os.Stdout).PrintDefaults()
	fmt.Println()
	fmt.Println("Available scenes:")
	for _, info := range scene.BuiltinScenes() {
		fmt.Printf("  %-10s - %s\n", info.ID, info.Description)
	}
	fmt.Println("  file:<name> or path/to/scene.json - JSON scene files (see -list)")
	fmt.Println()
	fmt.Println("Output will be saved to output/<scene>/render_<timestamp>.png")
}

func listScenes(scenesDir string) error {
	response, err := scene.ListAllScenes(scenesDir)
	if err != nil {
		return err
	}
	for _, group := range response.Groups {
		fmt.Printf("%s:\n", group.Name)
		for _, info := range group.Scenes {
			fmt.Printf("  %-20s %s\n", info.ID, info.Description)
		}
	}
	return nil
}

// createScene loads the scene and applies command line overrides
func createScene(cfg *Config) (*scene.Scene, error) {
	if cfg.Scene == "" {
		return nil, fmt.Errorf("no scene given")
	}
	s, err := loaders.LoadScene(cfg.Scene, cfg.ScenesDir)
	if err != nil {
		return nil, err
	}
	if cfg.Depth >= 0 {
		s.SetRecursionDepth(cfg.Depth)
	}
	if cfg.Beam > 0 {
		s.SetBeamRaysCount(cfg.Beam)
	}
	return s, nil
}

// renderConfig merges the scene's recommended image settings with overrides
func renderConfig(cfg *Config, s *scene.Scene) renderer.RenderConfig {
	rc := renderer.DefaultRenderConfig(s)
	if cfg.Width > 0 {
		rc.Width = cfg.Width
	}
	if cfg.Height > 0 {
		rc.Height = cfg.Height
	}
	if cfg.Samples > 0 {
		rc.Samples = cfg.Samples
	}
	rc.NumWorkers = cfg.Workers
	rc.Passes = cfg.Passes
	rc.Seed = cfg.Seed
	rc.Supersample = cfg.Supersample
	return rc
}

// sceneName turns a scene reference into a directory name
func sceneName(ref string) string {
	ref = strings.TrimPrefix(ref, "file:")
	return strings.TrimSuffix(filepath.Base(ref), filepath.Ext(ref))
}

// outputName returns the file name the render is saved under
func outputName(cfg *Config, now time.Time) string {
	if cfg.Out != "" {
		return cfg.Out
	}
	timestamp := now.Format("20060102_150405")
	return filepath.Join(sceneName(cfg.Scene), fmt.Sprintf("render_%s.png", timestamp))
}

// sinks returns where the render is written
func sinks(cfg *Config) (output.Sink, error) {
	fileSink := output.NewFileSink(cfg.OutputDir)
	if !cfg.Upload {
		return fileSink, nil
	}
	s3Sink, err := output.NewS3Sink(cfg.S3)
	if err != nil {
		return nil, err
	}
	return output.MultiSink{fileSink, s3Sink}, nil
}

func run(ctx context.Context, cfg *Config, now time.Time) error {
	fmt.Println("Starting Beam Raytracer...")

	s, err := createScene(cfg)
	if err != nil {
		return fmt.Errorf("failed to create scene: %w", err)
	}
	rc := renderConfig(cfg, s)
	fmt.Printf("Using scene %s (%d triangles, depth %d, beam %d) at %dx%d with %d samples\n",
		cfg.Scene, s.Len(), s.RecursionDepth(), s.BeamRaysCount(), rc.Width, rc.Height, rc.Samples)

	img, stats, err := renderer.Render(ctx, s, rc, renderer.NewDefaultLogger())
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	fmt.Printf("Render completed in %v\n", stats.Elapsed)
	fmt.Printf("Samples per pixel: %.1f (range %d - %d), %d rays, max depth %d, %d tiles on %d workers\n",
		stats.AverageSamples, stats.MinSamples, stats.MaxSamplesUsed, stats.TotalRays, stats.MaxDepth,
		stats.TotalTiles, stats.Workers)

	sink, err := sinks(cfg)
	if err != nil {
		return err
	}
	location, err := sink.Write(ctx, outputName(cfg, now), img)
	if err != nil {
		return err
	}

	fmt.Printf("Render saved as %s\n", location)
	return nil
}
