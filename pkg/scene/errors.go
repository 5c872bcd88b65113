package scene

import "errors"

var (
	// ErrEmptyMesh indicates a scene was built with zero triangles.
	ErrEmptyMesh = errors.New("scene: mesh must contain at least one triangle")
	// ErrMaterialIndex indicates a triangle references a material slot that
	// does not exist.
	ErrMaterialIndex = errors.New("scene: triangle references out-of-range material index")
	// ErrVertexIndex indicates a triangle references a vertex slot that does
	// not exist.
	ErrVertexIndex = errors.New("scene: triangle references out-of-range vertex index")
	// ErrBVHTooDeep indicates the built BVH exceeds the fixed traversal
	// stack depth and cannot be traversed safely.
	ErrBVHTooDeep = errors.New("scene: BVH exceeds maximum traversal depth")
)
