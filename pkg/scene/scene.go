package scene

import (
	"errors"

	"github.com/mfontaine/pathtrace/pkg/bvh"
	"github.com/mfontaine/pathtrace/pkg/core"
	"github.com/mfontaine/pathtrace/pkg/light"
	"github.com/mfontaine/pathtrace/pkg/texture"
)

// Scene is the complete, render-ready description spec §3 calls "Scene":
// a flat vertex/triangle/material mesh, the shared texture atlas, a built
// BVH over the triangles, and the alias table over whichever triangles
// turned out emissive.
type Scene struct {
	Vertices  []Vertex
	Triangles []Triangle
	Materials []Material
	Atlas     *texture.Atlas
	BVH       *bvh.BVH
	Lights    light.Table
	Config    TracingConfig
}

// New validates a mesh, builds its BVH, reorders the triangle buffer to
// match the BVH's index permutation, and builds the light pick table over
// the result (spec §4.2, §4.7). Reordering happens once here so every
// downstream lookup (shading, light sampling) can address triangles by
// their post-build (BVH leaf-contiguous) index without a second indirection.
func New(vertices []Vertex, triangles []Triangle, materials []Material, atlas *texture.Atlas, config TracingConfig) (*Scene, error) {
	if len(triangles) == 0 {
		return nil, ErrEmptyMesh
	}
	for _, tri := range triangles {
		if int(tri.Material) >= len(materials) {
			return nil, ErrMaterialIndex
		}
		if int(tri.I0) >= len(vertices) || int(tri.I1) >= len(vertices) || int(tri.I2) >= len(vertices) {
			return nil, ErrVertexIndex
		}
	}

	corners := make([][3]core.Vec3, len(triangles))
	for i, tri := range triangles {
		a, b, c := tri.Positions(vertices)
		corners[i] = [3]core.Vec3{a, b, c}
	}

	tree, err := bvh.Build(corners)
	if err != nil {
		if errors.Is(err, bvh.ErrTooDeep) {
			return nil, ErrBVHTooDeep
		}
		return nil, err
	}

	reordered := make([]Triangle, len(triangles))
	for i, originalIndex := range tree.Indices {
		reordered[i] = triangles[originalIndex]
	}
	// The triangle buffer is now in leaf order, so the permutation the
	// BVH hands to lookups becomes the identity.
	for i := range tree.Indices {
		tree.Indices[i] = uint32(i)
	}

	areas := make([]float64, len(reordered))
	powers := make([]float64, len(reordered))
	emissive := make([]bool, len(reordered))
	for i, tri := range reordered {
		areas[i] = tri.Area(vertices)
		mat := materials[tri.Material]
		if mat.IsEmissive() {
			emissive[i] = true
			e := mat.Emissive.Value
			powers[i] = (e.X + e.Y + e.Z) * areas[i]
		}
	}

	return &Scene{
		Vertices:  vertices,
		Triangles: reordered,
		Materials: materials,
		Atlas:     atlas,
		BVH:       tree,
		Lights:    light.BuildTable(areas, powers, emissive),
		Config:    config.WithDefaults(),
	}, nil
}

// CornersAt returns the three world-space corners of the triangle at a
// post-reorder index, satisfying bvh.TriangleLookup.
func (s *Scene) CornersAt(index uint32) (a, b, c core.Vec3) {
	return s.Triangles[index].Positions(s.Vertices)
}

// MaterialAt returns the material bound to the triangle at a post-reorder
// index.
func (s *Scene) MaterialAt(index uint32) Material {
	return s.Materials[s.Triangles[index].Material]
}

// LightTriangle resolves a post-reorder triangle index into the geometric
// and emissive data light.Sample needs, satisfying light.LightTriangleLookup.
func (s *Scene) LightTriangle(index uint32) light.TriangleLight {
	tri := s.Triangles[index]
	a, b, c := tri.Positions(s.Vertices)
	mat := s.Materials[tri.Material]
	normal := b.Subtract(a).Cross(c.Subtract(a)).Normalize()
	return light.TriangleLight{A: a, B: b, C: c, Normal: normal, Emission: mat.Emissive.Value.XYZ()}
}

// EvaluateChannel resolves a material channel at a surface UV: the
// constant value if untextured, or a nearest-neighbor atlas sample
// remapped into the channel's rectangle otherwise (spec §4.6).
func (s *Scene) EvaluateChannel(ch Channel, uv core.Vec2) core.Vec4 {
	if !ch.HasTexture || s.Atlas == nil {
		return ch.Value
	}
	return s.Atlas.Sample(ch.Value, uv)
}
