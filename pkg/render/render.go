// Package render drives the fixed-sample-count tile worker pool spec §6
// calls for and tone-maps the result into an 8-bit RGB image: a tile queue
// feeding a bounded goroutine pool, one fixed sample count per pixel
// rather than adaptive multi-pass convergence.
package render

import (
	"context"
	"image"
	"image/color"
	"runtime"
	"sync"

	"github.com/mfontaine/pathtrace/pkg/camera"
	"github.com/mfontaine/pathtrace/pkg/core"
	"github.com/mfontaine/pathtrace/pkg/integrator"
)

// DefaultTileSize is the tile granularity for load-balancing across
// workers without per-pixel channel overhead.
const DefaultTileSize = 32

// Options configures a render beyond what the scene/camera already fix.
type Options struct {
	SamplesPerPixel int
	TileSize        int // 0 uses DefaultTileSize
	Workers         int // 0 uses runtime.NumCPU()
	Logger          core.Logger
}

type tile struct{ x0, y0, x1, y1 int }

func tilesFor(width, height, size int) []tile {
	var tiles []tile
	for y := 0; y < height; y += size {
		for x := 0; x < width; x += size {
			x1, y1 := x+size, y+size
			if x1 > width {
				x1 = width
			}
			if y1 > height {
				y1 = height
			}
			tiles = append(tiles, tile{x0: x, y0: y, x1: x1, y1: y1})
		}
	}
	return tiles
}

// Render traces every pixel of (width, height) at the given sample count
// and tone-maps the result (spec §6 "rendering entry point", "tone
// mapping"). It returns a partially-filled image and ctx.Err() if
// cancelled mid-render — already-finished tiles are preserved rather than
// discarded.
func Render(ctx context.Context, tracer *integrator.PathTracer, cam camera.Camera, width, height int, opts Options) (*image.RGBA, error) {
	if opts.TileSize <= 0 {
		opts.TileSize = DefaultTileSize
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	samples := opts.SamplesPerPixel
	if samples <= 0 {
		samples = 1
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	tiles := tilesFor(width, height, opts.TileSize)
	taskQueue := make(chan tile, len(tiles))
	for _, t := range tiles {
		taskQueue <- t
	}
	close(taskQueue)

	var wg sync.WaitGroup
	var completed int64
	var mu sync.Mutex

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for t := range taskQueue {
				select {
				case <-ctx.Done():
					return
				default:
				}
				renderTile(tracer, cam, img, t, samples, uint64(workerID))

				if opts.Logger != nil {
					mu.Lock()
					completed++
					n := completed
					mu.Unlock()
					opts.Logger.Printf("render: %s (%d/%d tiles)", core.ProgressBar(float64(n)/float64(len(tiles))), n, len(tiles))
				}
			}
		}(w)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return img, err
	}
	return img, nil
}

func renderTile(tracer *integrator.PathTracer, cam camera.Camera, img *image.RGBA, t tile, samples int, workerSeed uint64) {
	for y := t.y0; y < t.y1; y++ {
		for x := t.x0; x < t.x1; x++ {
			seed := (uint64(y)*1_000_003+uint64(x))*31 + workerSeed
			rng := core.NewSampler(seed)

			sum := core.Vec3{}
			for s := 0; s < samples; s++ {
				ray := cam.Ray(x, y, &rng)
				sum = sum.Add(tracer.TracePixel(ray.Origin, ray.Direction, &rng))
			}
			mean := sum.Multiply(1 / float64(samples))
			img.SetRGBA(x, y, toneMap(mean))
		}
	}
}

// toneMap implements spec §6 verbatim: mean radiance, clamp [0,1], scale
// by 255, round to nearest.
func toneMap(c core.Vec3) color.RGBA {
	clamped := c.Clamp(0, 1)
	return color.RGBA{
		R: uint8(clamped.X*255 + 0.5),
		G: uint8(clamped.Y*255 + 0.5),
		B: uint8(clamped.Z*255 + 0.5),
		A: 255,
	}
}
