package scene

import "github.com/mfontaine/pathtrace/pkg/core"

// Vertex is one entry in the scene's flat vertex array (spec §3). Position
// and shading normal are required; tangent is needed only for normal-mapped
// materials and is left zero otherwise.
type Vertex struct {
	Position core.Vec3
	Normal   core.Vec3
	Tangent  core.Vec3
	UV0      core.Vec2
	UV1      core.Vec2
}

// Triangle is the four-lane index record: three vertex indices plus a
// material index. The index buffer is reordered in place during BVH
// construction, so the material index must travel with the triangle, not
// with its position in the array.
type Triangle struct {
	I0, I1, I2 uint32
	Material   uint32
}

// Positions returns the triangle's three world-space vertex positions.
func (t Triangle) Positions(vertices []Vertex) (a, b, c core.Vec3) {
	return vertices[t.I0].Position, vertices[t.I1].Position, vertices[t.I2].Position
}

// InterpolateNormal barycentrically interpolates the shading normal at
// (u, v) (with w = 1-u-v implicit) and renormalizes.
func (t Triangle) InterpolateNormal(vertices []Vertex, u, v float64) core.Vec3 {
	w := 1 - u - v
	n0 := vertices[t.I0].Normal
	n1 := vertices[t.I1].Normal
	n2 := vertices[t.I2].Normal
	return n0.Multiply(w).Add(n1.Multiply(u)).Add(n2.Multiply(v)).Normalize()
}

// InterpolateTangent barycentrically interpolates the vertex tangent, used
// to build the TBN basis for normal mapping (spec §4.6).
func (t Triangle) InterpolateTangent(vertices []Vertex, u, v float64) core.Vec3 {
	w := 1 - u - v
	t0 := vertices[t.I0].Tangent
	t1 := vertices[t.I1].Tangent
	t2 := vertices[t.I2].Tangent
	return t0.Multiply(w).Add(t1.Multiply(u)).Add(t2.Multiply(v)).Normalize()
}

// InterpolateUV barycentrically interpolates the primary UV channel.
func (t Triangle) InterpolateUV(vertices []Vertex, u, v float64) core.Vec2 {
	w := 1 - u - v
	uv0 := vertices[t.I0].UV0
	uv1 := vertices[t.I1].UV0
	uv2 := vertices[t.I2].UV0
	return core.Vec2{
		X: uv0.X*w + uv1.X*u + uv2.X*v,
		Y: uv0.Y*w + uv1.Y*u + uv2.Y*v,
	}
}

// Area computes the triangle's area as half the magnitude of the cross
// product of two edges, used by the light pick table (spec §4.7).
func (t Triangle) Area(vertices []Vertex) float64 {
	a, b, c := t.Positions(vertices)
	return TriangleArea(a, b, c)
}

// TriangleArea computes a triangle's area from its three vertex positions.
func TriangleArea(a, b, c core.Vec3) float64 {
	return a.Subtract(b).Cross(a.Subtract(c)).Length() * 0.5
}
