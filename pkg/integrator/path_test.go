package integrator_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mfontaine/pathtrace/pkg/core"
	"github.com/mfontaine/pathtrace/pkg/integrator"
	"github.com/mfontaine/pathtrace/pkg/scene"
	"github.com/mfontaine/pathtrace/pkg/skybox"
)

func twoQuadScene(t *testing.T) *scene.Scene {
	t.Helper()
	floor := scene.Quad(core.NewVec3(-5, 0, -5), core.NewVec3(10, 0, 0), core.NewVec3(0, 0, 10))
	lightQuad := scene.Quad(core.NewVec3(-1, 3, -1), core.NewVec3(2, 0, 0), core.NewVec3(0, 0, 2))

	materials := []scene.Material{
		scene.NewPBRMaterial(core.NewVec3(0.8, 0.8, 0.8), 0.9, 0, core.Vec3{}, 1),
		scene.NewEmissiveMaterial(core.NewVec3(1, 1, 1), 15),
	}

	var vertices []scene.Vertex
	var triangles []scene.Triangle
	vertices, triangles = scene.AppendMesh(vertices, triangles, floor, 0)
	vertices, triangles = scene.AppendMesh(vertices, triangles, lightQuad, 1)

	s, err := scene.New(vertices, triangles, materials, nil, scene.TracingConfig{Width: 8, Height: 8})
	require.NoError(t, err)
	return s
}

func TestTracePixelMissHitsSkybox(t *testing.T) {
	s := twoQuadScene(t)
	tracer := &integrator.PathTracer{Scene: s, Skybox: skybox.NewAnalytic()}

	rng := core.NewSampler(11)
	radiance := tracer.TracePixel(core.NewVec3(0, 1, -100), core.NewVec3(0, 0, -1), &rng)
	require.True(t, radiance.X > 0 || radiance.Y > 0 || radiance.Z > 0)
}

func TestTracePixelIsFiniteUnderManySamples(t *testing.T) {
	s := twoQuadScene(t)
	tracer := &integrator.PathTracer{Scene: s, Skybox: skybox.NewAnalytic()}

	for seed := uint64(0); seed < 500; seed++ {
		rng := core.NewSampler(seed)
		radiance := tracer.TracePixel(core.NewVec3(0, 1, -3), core.NewVec3(0, 0, 1), &rng)
		require.True(t, radiance.IsFinite(), "seed %d produced non-finite radiance %v", seed, radiance)
		require.GreaterOrEqual(t, radiance.X, 0.0)
		require.GreaterOrEqual(t, radiance.Y, 0.0)
		require.GreaterOrEqual(t, radiance.Z, 0.0)
	}
}

func TestTracePixelDirectHitOnLightReturnsEmission(t *testing.T) {
	s := twoQuadScene(t)
	tracer := &integrator.PathTracer{Scene: s, Skybox: skybox.NewAnalytic()}

	rng := core.NewSampler(5)
	radiance := tracer.TracePixel(core.NewVec3(0, 1, 0), core.NewVec3(0, 1, 0).Normalize(), &rng)
	require.Greater(t, radiance.X+radiance.Y+radiance.Z, 0.0)
}
