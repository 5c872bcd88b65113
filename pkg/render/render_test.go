package render_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mfontaine/pathtrace/pkg/camera"
	"github.com/mfontaine/pathtrace/pkg/core"
	"github.com/mfontaine/pathtrace/pkg/integrator"
	"github.com/mfontaine/pathtrace/pkg/render"
	"github.com/mfontaine/pathtrace/pkg/scene"
	"github.com/mfontaine/pathtrace/pkg/skybox"
)

func buildTestScene(t *testing.T) *scene.Scene {
	t.Helper()
	floor := scene.Quad(core.NewVec3(-5, -1, -5), core.NewVec3(10, 0, 0), core.NewVec3(0, 0, 10))
	materials := []scene.Material{
		scene.NewPBRMaterial(core.NewVec3(0.7, 0.3, 0.3), 0.6, 0, core.Vec3{}, 1),
	}
	var vertices []scene.Vertex
	var triangles []scene.Triangle
	vertices, triangles = scene.AppendMesh(vertices, triangles, floor, 0)

	cfg := scene.TracingConfig{
		CameraPosition: core.NewVec3(0, 2, -5),
		Width:          16,
		Height:         12,
	}
	s, err := scene.New(vertices, triangles, materials, nil, cfg)
	require.NoError(t, err)
	return s
}

func TestRenderProducesFullyOpaqueImage(t *testing.T) {
	s := buildTestScene(t)
	cam := camera.New(s.Config)
	tracer := &integrator.PathTracer{Scene: s, Skybox: skybox.NewAnalytic()}

	img, err := render.Render(context.Background(), tracer, cam, s.Config.Width, s.Config.Height, render.Options{SamplesPerPixel: 4, TileSize: 8, Workers: 2})
	require.NoError(t, err)
	require.Equal(t, s.Config.Width, img.Bounds().Dx())
	require.Equal(t, s.Config.Height, img.Bounds().Dy())

	for x := 0; x < s.Config.Width; x++ {
		for y := 0; y < s.Config.Height; y++ {
			_, _, _, a := img.At(x, y).RGBA()
			require.Equal(t, uint32(0xffff), a)
		}
	}
}

func TestRenderRespectsCancellation(t *testing.T) {
	s := buildTestScene(t)
	cam := camera.New(s.Config)
	tracer := &integrator.PathTracer{Scene: s, Skybox: skybox.NewAnalytic()}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := render.Render(ctx, tracer, cam, s.Config.Width, s.Config.Height, render.Options{SamplesPerPixel: 1})
	require.Error(t, err)
}
