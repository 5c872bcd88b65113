package scene

import (
	"math"

	"github.com/mfontaine/pathtrace/pkg/core"
)

// Mesh is a standalone vertex/triangle pair a builder function returns,
// meant to be concatenated into a scene's flat arrays by AppendMesh. Builder
// functions exist because the core tracer is triangle-only (spec §3 "CORE
// accepts only an indexed triangle mesh") while the original host scenes
// (original_source/src/objects/sphere.rs among them) describe geometry
// analytically; these functions perform the one-time tessellation.
type Mesh struct {
	Vertices  []Vertex
	Triangles []Triangle
}

// AppendMesh concatenates src into dstVertices/dstTriangles, rebasing src's
// vertex indices and assigning src's triangles the given material index.
// Returns the updated slices for reassignment at the call site.
func AppendMesh(dstVertices []Vertex, dstTriangles []Triangle, src Mesh, material uint32) ([]Vertex, []Triangle) {
	base := uint32(len(dstVertices))
	dstVertices = append(dstVertices, src.Vertices...)
	for _, t := range src.Triangles {
		dstTriangles = append(dstTriangles, Triangle{
			I0: t.I0 + base, I1: t.I1 + base, I2: t.I2 + base, Material: material,
		})
	}
	return dstVertices, dstTriangles
}

// UVSphere tessellates a sphere into a latitude/longitude triangle grid
// (stacks rings of height segments, slices longitude segments), with
// per-vertex normals equal to the radial direction and tangents along
// increasing longitude, so normal-mapped spheres (spec §4.6) have a
// consistent TBN basis. Grounded on the analytic sphere intersection in
// original_source/src/objects/sphere.rs, tessellated because CORE only
// consumes triangles.
func UVSphere(center core.Vec3, radius float64, stacks, slices int) Mesh {
	if stacks < 2 {
		stacks = 2
	}
	if slices < 3 {
		slices = 3
	}

	var vertices []Vertex
	for i := 0; i <= stacks; i++ {
		v := float64(i) / float64(stacks)
		theta := v * math.Pi // 0 (north pole) .. pi (south pole)
		sinTheta, cosTheta := math.Sin(theta), math.Cos(theta)
		for j := 0; j <= slices; j++ {
			u := float64(j) / float64(slices)
			phi := u * 2 * math.Pi
			sinPhi, cosPhi := math.Sin(phi), math.Cos(phi)

			dir := core.NewVec3(sinTheta*cosPhi, cosTheta, sinTheta*sinPhi)
			tangent := core.NewVec3(-sinPhi, 0, cosPhi)
			vertices = append(vertices, Vertex{
				Position: center.Add(dir.Multiply(radius)),
				Normal:   dir,
				Tangent:  tangent,
				UV0:      core.NewVec2(u, v),
			})
		}
	}

	var triangles []Triangle
	stride := slices + 1
	for i := 0; i < stacks; i++ {
		for j := 0; j < slices; j++ {
			a := uint32(i*stride + j)
			b := uint32(i*stride + j + 1)
			c := uint32((i+1)*stride + j)
			d := uint32((i+1)*stride + j + 1)
			if i != 0 {
				triangles = append(triangles, Triangle{I0: a, I1: d, I2: c})
			}
			if i != stacks-1 {
				triangles = append(triangles, Triangle{I0: a, I1: b, I2: d})
			}
		}
	}

	return Mesh{Vertices: vertices, Triangles: triangles}
}

// Quad builds a single two-triangle rectangle spanning corner `origin` and
// the edge vectors `u`, `v`, with the flat normal u×v (normalized). Used
// for the Cornell-box-style wall/floor/ceiling/light panels spec §8's
// example scenes call for.
func Quad(origin, u, v core.Vec3) Mesh {
	normal := u.Cross(v).Normalize()
	tangent := u.Normalize()
	p0 := origin
	p1 := origin.Add(u)
	p2 := origin.Add(u).Add(v)
	p3 := origin.Add(v)

	vertices := []Vertex{
		{Position: p0, Normal: normal, Tangent: tangent, UV0: core.NewVec2(0, 0)},
		{Position: p1, Normal: normal, Tangent: tangent, UV0: core.NewVec2(1, 0)},
		{Position: p2, Normal: normal, Tangent: tangent, UV0: core.NewVec2(1, 1)},
		{Position: p3, Normal: normal, Tangent: tangent, UV0: core.NewVec2(0, 1)},
	}
	triangles := []Triangle{
		{I0: 0, I1: 1, I2: 2},
		{I0: 0, I1: 2, I2: 3},
	}
	return Mesh{Vertices: vertices, Triangles: triangles}
}

// Box builds a closed six-quad box centered at `center` with the given
// half-extents, normals facing outward.
func Box(center core.Vec3, halfExtent core.Vec3) Mesh {
	faces := []Mesh{
		Quad(center.Add(core.NewVec3(-halfExtent.X, -halfExtent.Y, halfExtent.Z)), core.NewVec3(2*halfExtent.X, 0, 0), core.NewVec3(0, 2*halfExtent.Y, 0)),
		Quad(center.Add(core.NewVec3(halfExtent.X, -halfExtent.Y, -halfExtent.Z)), core.NewVec3(-2*halfExtent.X, 0, 0), core.NewVec3(0, 2*halfExtent.Y, 0)),
		Quad(center.Add(core.NewVec3(-halfExtent.X, halfExtent.Y, -halfExtent.Z)), core.NewVec3(0, 0, 2*halfExtent.Z), core.NewVec3(2*halfExtent.X, 0, 0)),
		Quad(center.Add(core.NewVec3(-halfExtent.X, -halfExtent.Y, halfExtent.Z)), core.NewVec3(0, 0, -2*halfExtent.Z), core.NewVec3(2*halfExtent.X, 0, 0)),
		Quad(center.Add(core.NewVec3(halfExtent.X, -halfExtent.Y, halfExtent.Z)), core.NewVec3(0, 0, -2*halfExtent.Z), core.NewVec3(0, 2*halfExtent.Y, 0)),
		Quad(center.Add(core.NewVec3(-halfExtent.X, -halfExtent.Y, -halfExtent.Z)), core.NewVec3(0, 0, 2*halfExtent.Z), core.NewVec3(0, 2*halfExtent.Y, 0)),
	}

	merged := Mesh{}
	for _, f := range faces {
		merged.Vertices, merged.Triangles = appendMeshRaw(merged.Vertices, merged.Triangles, f)
	}
	return merged
}

func appendMeshRaw(vertices []Vertex, triangles []Triangle, src Mesh) ([]Vertex, []Triangle) {
	base := uint32(len(vertices))
	vertices = append(vertices, src.Vertices...)
	for _, t := range src.Triangles {
		triangles = append(triangles, Triangle{I0: t.I0 + base, I1: t.I1 + base, I2: t.I2 + base, Material: t.Material})
	}
	return vertices, triangles
}
