package scene

import "github.com/mfontaine/pathtrace/pkg/core"

// NewCornellScene builds a Cornell-box-style room: five walls, an overhead
// area light, and two spheres (one metallic, one rough glass), exercising
// both BSDFs the integrator builds (PBR and glass) and the alias table in
// one scene (spec §8's example-scene intent), built on the flat triangle
// mesh model.
func NewCornellScene(width, height int) (*Scene, error) {
	const wallSize = 2.0

	materials := []Material{
		NewPBRMaterial(core.NewVec3(0.73, 0.73, 0.73), 0.95, 0, core.Vec3{}, 1), // 0: white walls
		NewPBRMaterial(core.NewVec3(0.65, 0.05, 0.05), 0.95, 0, core.Vec3{}, 1), // 1: red wall
		NewPBRMaterial(core.NewVec3(0.12, 0.45, 0.15), 0.95, 0, core.Vec3{}, 1), // 2: green wall
		NewEmissiveMaterial(core.NewVec3(1, 1, 1), 15),                         // 3: light panel
		NewPBRMaterial(core.NewVec3(0.9, 0.9, 0.9), 0.1, 1, core.Vec3{}, 1),    // 4: metal sphere
		NewGlassMaterial(core.NewVec3(1, 1, 1), 1.5, 0.05),                     // 5: glass sphere
	}

	var vertices []Vertex
	var triangles []Triangle

	floor := Quad(core.NewVec3(-wallSize, -wallSize, -wallSize), core.NewVec3(2*wallSize, 0, 0), core.NewVec3(0, 0, 2*wallSize))
	ceiling := Quad(core.NewVec3(-wallSize, wallSize, wallSize), core.NewVec3(2*wallSize, 0, 0), core.NewVec3(0, 0, -2*wallSize))
	back := Quad(core.NewVec3(-wallSize, -wallSize, wallSize), core.NewVec3(2*wallSize, 0, 0), core.NewVec3(0, 2*wallSize, 0))
	left := Quad(core.NewVec3(-wallSize, -wallSize, wallSize), core.NewVec3(0, 0, -2*wallSize), core.NewVec3(0, 2*wallSize, 0))
	right := Quad(core.NewVec3(wallSize, -wallSize, -wallSize), core.NewVec3(0, 0, 2*wallSize), core.NewVec3(0, 2*wallSize, 0))
	lightPanel := Quad(core.NewVec3(-0.4, wallSize-0.01, -0.4), core.NewVec3(0.8, 0, 0), core.NewVec3(0, 0, 0.8))

	vertices, triangles = AppendMesh(vertices, triangles, floor, 0)
	vertices, triangles = AppendMesh(vertices, triangles, ceiling, 0)
	vertices, triangles = AppendMesh(vertices, triangles, back, 0)
	vertices, triangles = AppendMesh(vertices, triangles, left, 1)
	vertices, triangles = AppendMesh(vertices, triangles, right, 2)
	vertices, triangles = AppendMesh(vertices, triangles, lightPanel, 3)

	metal := UVSphere(core.NewVec3(-0.9, -wallSize+0.6, 0.2), 0.6, 24, 24)
	glass := UVSphere(core.NewVec3(0.8, -wallSize+0.5, -0.3), 0.5, 24, 24)
	vertices, triangles = AppendMesh(vertices, triangles, metal, 4)
	vertices, triangles = AppendMesh(vertices, triangles, glass, 5)

	cfg := TracingConfig{
		CameraPosition: core.NewVec3(0, 0, -wallSize*2.4),
		Width:          width,
		Height:         height,
	}
	return New(vertices, triangles, materials, nil, cfg)
}

// NewSphereGridScene builds a grid of PBR spheres spanning the
// roughness/metallic parameter space over a diffuse floor, a stress test
// for the BVH and the PBR BSDF across its full parameter range.
func NewSphereGridScene(width, height int) (*Scene, error) {
	const gridSize = 6
	const spacing = 1.3
	const radius = 0.5

	materials := []Material{NewPBRMaterial(core.NewVec3(0.5, 0.5, 0.5), 0.8, 0, core.Vec3{}, 1)} // 0: floor

	var vertices []Vertex
	var triangles []Triangle

	half := (gridSize - 1) * spacing / 2
	floor := Quad(core.NewVec3(-half-2, -radius, -half-2), core.NewVec3(2*(half+2), 0, 0), core.NewVec3(0, 0, 2*(half+2)))
	vertices, triangles = AppendMesh(vertices, triangles, floor, 0)

	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			roughness := 0.05 + float64(i)/float64(gridSize-1)*0.9
			metallic := float64(j) / float64(gridSize-1)
			matIndex := uint32(len(materials))
			materials = append(materials, NewPBRMaterial(core.NewVec3(0.8, 0.4, 0.1), roughness, metallic, core.Vec3{}, 1))

			center := core.NewVec3(float64(i)*spacing-half, 0, float64(j)*spacing-half)
			sphere := UVSphere(center, radius, 16, 16)
			vertices, triangles = AppendMesh(vertices, triangles, sphere, matIndex)
		}
	}

	materials = append(materials, NewEmissiveMaterial(core.NewVec3(1, 1, 0.95), 25))
	sun := Quad(core.NewVec3(-half, 6, -half), core.NewVec3(2*half, 0, 0), core.NewVec3(0, 0, 2*half))
	vertices, triangles = AppendMesh(vertices, triangles, sun, uint32(len(materials)-1))

	cfg := TracingConfig{
		CameraPosition: core.NewVec3(0, 3, -half-8),
		CameraRotation: core.NewVec2(0.3, 0),
		Width:          width,
		Height:         height,
	}
	return New(vertices, triangles, materials, nil, cfg)
}
