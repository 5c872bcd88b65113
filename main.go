package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"runtime/pprof"
	"time"

	"github.com/mfontaine/pathtrace/pkg/camera"
	"github.com/mfontaine/pathtrace/pkg/core"
	"github.com/mfontaine/pathtrace/pkg/integrator"
	"github.com/mfontaine/pathtrace/pkg/render"
	"github.com/mfontaine/pathtrace/pkg/scene"
	"github.com/mfontaine/pathtrace/pkg/skybox"
)

// Config holds all the configuration for a render invocation.
type Config struct {
	SceneType  string
	Samples    int
	Width      int
	Height     int
	NumWorkers int
	Help       bool
	CPUProfile string
}

func main() {
	config := parseFlags()
	if config.Help {
		showHelp()
		return
	}

	if config.CPUProfile != "" {
		f, err := os.Create(config.CPUProfile)
		if err != nil {
			fmt.Printf("Could not create CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Printf("Could not start CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	logger := core.StdLogger{}
	logger.Printf("pathtrace: rendering scene %q at %dx%d, %d samples/pixel", config.SceneType, config.Width, config.Height, config.Samples)

	startTime := time.Now()

	sceneObj, err := createScene(config.SceneType, config.Width, config.Height)
	if err != nil {
		fmt.Printf("Error creating scene: %v\n", err)
		os.Exit(1)
	}

	cam := camera.New(sceneObj.Config)
	tracer := &integrator.PathTracer{Scene: sceneObj, Skybox: skybox.NewAnalytic()}

	img, err := render.Render(context.Background(), tracer, cam, sceneObj.Config.Width, sceneObj.Config.Height, render.Options{
		SamplesPerPixel: config.Samples,
		Workers:         config.NumWorkers,
		Logger:          logger,
	})
	if err != nil {
		fmt.Printf("Error rendering: %v\n", err)
		os.Exit(1)
	}

	outputDir := filepath.Join("output", config.SceneType)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fmt.Printf("Error creating output directory: %v\n", err)
		os.Exit(1)
	}
	filename := filepath.Join(outputDir, fmt.Sprintf("render_%s.png", time.Now().Format("20060102_150405")))
	if err := saveImageToFile(img, filename); err != nil {
		fmt.Printf("Error saving image: %v\n", err)
		os.Exit(1)
	}

	logger.Printf("pathtrace: render completed in %v, saved to %s", time.Since(startTime), filename)
}

func parseFlags() Config {
	config := Config{}
	flag.StringVar(&config.SceneType, "scene", "cornell", "Scene to render: 'cornell' or 'spheregrid'")
	flag.IntVar(&config.Samples, "samples", 64, "Samples per pixel")
	flag.IntVar(&config.Width, "width", 640, "Image width in pixels")
	flag.IntVar(&config.Height, "height", 480, "Image height in pixels")
	flag.IntVar(&config.NumWorkers, "workers", 0, "Number of parallel workers (0 = auto-detect CPU count)")
	flag.BoolVar(&config.Help, "help", false, "Show help information")
	flag.StringVar(&config.CPUProfile, "cpuprofile", "", "Write CPU profile to file")
	flag.Parse()
	return config
}

func showHelp() {
	fmt.Println("pathtrace - a Monte Carlo path tracer")
	fmt.Println("Usage: pathtrace [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Built-in scenes:")
	fmt.Println("  cornell    - Cornell-box-style room with an overhead area light")
	fmt.Println("  spheregrid - grid of PBR spheres with varying roughness/metallic")
	fmt.Println()
	fmt.Println("Output is saved to output/<scene>/render_<timestamp>.png")
}

func saveImageToFile(img *image.RGBA, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()
	return png.Encode(file, img)
}
