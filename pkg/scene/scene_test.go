package scene_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mfontaine/pathtrace/pkg/core"
	"github.com/mfontaine/pathtrace/pkg/scene"
)

func cornellLikeMesh() ([]scene.Vertex, []scene.Triangle, []scene.Material) {
	floor := scene.Quad(core.NewVec3(-1, -1, -1), core.NewVec3(2, 0, 0), core.NewVec3(0, 0, 2))
	light := scene.Quad(core.NewVec3(-0.25, 0.99, -0.25), core.NewVec3(0.5, 0, 0), core.NewVec3(0, 0, 0.5))

	materials := []scene.Material{
		scene.NewPBRMaterial(core.NewVec3(0.8, 0.8, 0.8), 0.8, 0, core.Vec3{}, 1),
		scene.NewEmissiveMaterial(core.NewVec3(1, 1, 1), 15),
	}

	var vertices []scene.Vertex
	var triangles []scene.Triangle
	vertices, triangles = scene.AppendMesh(vertices, triangles, floor, 0)
	vertices, triangles = scene.AppendMesh(vertices, triangles, light, 1)
	return vertices, triangles, materials
}

func TestNewBuildsBVHAndLightTable(t *testing.T) {
	vertices, triangles, materials := cornellLikeMesh()
	cfg := scene.TracingConfig{Width: 64, Height: 64}

	s, err := scene.New(vertices, triangles, materials, nil, cfg)
	require.NoError(t, err)
	require.NotNil(t, s.BVH)
	require.False(t, s.Lights.Empty)
	require.Equal(t, scene.DefaultMaxBounces, s.Config.MaxBounces)
	require.Equal(t, scene.DefaultRouletteStart, s.Config.RouletteStart)
	require.Len(t, s.Triangles, len(triangles))

	// Every post-reorder triangle must still resolve to a valid material
	// and produce a finite area.
	for i := range s.Triangles {
		idx := uint32(i)
		require.Less(t, int(s.Triangles[i].Material), len(s.Materials))
		a, b, c := s.CornersAt(idx)
		require.True(t, scene.TriangleArea(a, b, c) >= 0)
	}
}

func TestNewRejectsEmptyMesh(t *testing.T) {
	_, err := scene.New(nil, nil, nil, nil, scene.TracingConfig{})
	require.ErrorIs(t, err, scene.ErrEmptyMesh)
}

func TestNewRejectsBadMaterialIndex(t *testing.T) {
	vertices, triangles, materials := cornellLikeMesh()
	triangles[0].Material = uint32(len(materials) + 5)

	_, err := scene.New(vertices, triangles, materials, nil, scene.TracingConfig{})
	require.ErrorIs(t, err, scene.ErrMaterialIndex)
}

func TestNewRejectsBadVertexIndex(t *testing.T) {
	vertices, triangles, materials := cornellLikeMesh()
	triangles[0].I0 = uint32(len(vertices) + 5)

	_, err := scene.New(vertices, triangles, materials, nil, scene.TracingConfig{})
	require.ErrorIs(t, err, scene.ErrVertexIndex)
}

func TestLightTriangleLookupMatchesReorderedIndex(t *testing.T) {
	vertices, triangles, materials := cornellLikeMesh()
	s, err := scene.New(vertices, triangles, materials, nil, scene.TracingConfig{})
	require.NoError(t, err)

	idx, _, _, ok := s.Lights.Pick(rngFor(1))
	require.True(t, ok)
	tri := s.LightTriangle(idx)
	require.True(t, tri.Emission.X > 0 || tri.Emission.Y > 0 || tri.Emission.Z > 0)
}

func rngFor(seed uint64) *core.Sampler {
	s := core.NewSampler(seed)
	return &s
}
