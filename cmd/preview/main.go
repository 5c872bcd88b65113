// Command preview shows a progressively-refining render in a live window:
// samples accumulate into a running per-pixel mean rather than waiting for
// a fixed sample budget before displaying anything.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"os"
	"sync"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/mfontaine/pathtrace/pkg/camera"
	"github.com/mfontaine/pathtrace/pkg/core"
	"github.com/mfontaine/pathtrace/pkg/integrator"
	"github.com/mfontaine/pathtrace/pkg/scene"
	"github.com/mfontaine/pathtrace/pkg/skybox"
)

// accumulator holds the running per-pixel radiance sum and sample count
// shared between the render goroutines and the ebiten Draw call; reading
// and writing happen under mu since Draw runs on ebiten's own goroutine.
type accumulator struct {
	mu      sync.Mutex
	sum     []core.Vec3
	samples int64
	width   int
	height  int
}

func newAccumulator(width, height int) *accumulator {
	return &accumulator{sum: make([]core.Vec3, width*height), width: width, height: height}
}

func (a *accumulator) addSample(x, y int, radiance core.Vec3) {
	a.mu.Lock()
	a.sum[y*a.width+x] = a.sum[y*a.width+x].Add(radiance)
	a.mu.Unlock()
}

func (a *accumulator) snapshot(dst *ebiten.Image) {
	samples := atomic.LoadInt64(&a.samples)
	if samples == 0 {
		samples = 1
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	pixels := make([]byte, a.width*a.height*4)
	for i, v := range a.sum {
		c := v.Multiply(1 / float64(samples)).Clamp(0, 1)
		pixels[i*4+0] = byte(c.X*255 + 0.5)
		pixels[i*4+1] = byte(c.Y*255 + 0.5)
		pixels[i*4+2] = byte(c.Z*255 + 0.5)
		pixels[i*4+3] = 255
	}
	dst.WritePixels(pixels)
}

type game struct {
	acc    *accumulator
	frame  *ebiten.Image
	width  int
	height int
}

func (g *game) Update() error { return nil }

func (g *game) Draw(screen *ebiten.Image) {
	g.acc.snapshot(g.frame)
	screen.DrawImage(g.frame, nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}

func main() {
	sceneType := flag.String("scene", "cornell", "Scene to render: 'cornell' or 'spheregrid'")
	width := flag.Int("width", 480, "Image width in pixels")
	height := flag.Int("height", 360, "Image height in pixels")
	flag.Parse()

	var sceneObj *scene.Scene
	var err error
	switch *sceneType {
	case "cornell":
		sceneObj, err = scene.NewCornellScene(*width, *height)
	case "spheregrid":
		sceneObj, err = scene.NewSphereGridScene(*width, *height)
	default:
		err = fmt.Errorf("unknown scene: %s", *sceneType)
	}
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	acc := newAccumulator(sceneObj.Config.Width, sceneObj.Config.Height)
	cam := camera.New(sceneObj.Config)
	tracer := &integrator.PathTracer{Scene: sceneObj, Skybox: skybox.NewAnalytic()}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go runPasses(ctx, tracer, cam, acc)

	ebiten.SetWindowSize(sceneObj.Config.Width, sceneObj.Config.Height)
	ebiten.SetWindowTitle("pathtrace preview")

	g := &game{
		acc:    acc,
		frame:  ebiten.NewImage(sceneObj.Config.Width, sceneObj.Config.Height),
		width:  sceneObj.Config.Width,
		height: sceneObj.Config.Height,
	}
	if err := ebiten.RunGame(g); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// runPasses renders one sample per pixel at a time, forever, so the
// window shows the image converging rather than waiting for a fixed
// sample budget to finish before displaying anything. Each pass fans one
// goroutine per row and waits for all of them before starting the next,
// so acc.samples only advances once every pixel has an equal number of
// contributions.
func runPasses(ctx context.Context, tracer *integrator.PathTracer, cam camera.Camera, acc *accumulator) {
	bounds := image.Rect(0, 0, acc.width, acc.height)

	for pass := int64(0); ; pass++ {
		if ctx.Err() != nil {
			return
		}

		var wg sync.WaitGroup
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			wg.Add(1)
			go func(y int) {
				defer wg.Done()
				rng := core.NewSampler(uint64(pass)*1_000_003 + uint64(y))
				for x := bounds.Min.X; x < bounds.Max.X; x++ {
					ray := cam.Ray(x, y, &rng)
					radiance := tracer.TracePixel(ray.Origin, ray.Direction, &rng)
					acc.addSample(x, y, radiance)
				}
			}(y)
		}
		wg.Wait()
		atomic.AddInt64(&acc.samples, 1)
	}
}
