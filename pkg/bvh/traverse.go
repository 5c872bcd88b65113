package bvh

import (
	"math"

	"github.com/mfontaine/pathtrace/pkg/core"
)

// Hit is the result of a BVH traversal: the nearest (or, in any-hit mode,
// first accepted) triangle intersection.
type Hit struct {
	T             float64
	U, V          float64
	Backface      bool
	TriangleIndex uint32 // index into the caller's original (pre-permutation) triangle array
	Found         bool
}

// TriangleLookup returns the three corner positions for a triangle addressed
// by its index in the caller's original array (a value read out of
// BVH.Indices, not a position within it); it lets
// Nearest/AnyHit stay decoupled from any specific triangle/material
// representation.
type TriangleLookup func(originalIndex uint32) (a, b, c core.Vec3)

const selfIntersectEps = 1e-3

// Nearest returns the closest valid hit along the ray (spec §4.3 NEAREST
// mode), or Hit{Found: false} on a miss.
func (b *BVH) Nearest(ray core.Ray, lookup TriangleLookup) Hit {
	return b.traverse(ray, math.Inf(1), lookup, true)
}

// AnyHit returns the first discovered hit with t <= maxT (spec §4.3
// any-hit mode, used for shadow queries), or Hit{Found: false} if none.
func (b *BVH) AnyHit(ray core.Ray, maxT float64, lookup TriangleLookup) Hit {
	return b.traverse(ray, maxT, lookup, false)
}

// traverse implements the ordered front-to-back walk shared by both modes:
// a fixed-depth stack, nearer-child-popped-next ordering, and (in any-hit
// mode) early return on the first accepted hit.
func (b *BVH) traverse(ray core.Ray, maxT float64, lookup TriangleLookup, nearest bool) Hit {
	var stack [MaxDepth]uint32
	sp := 0
	stack[sp] = 0
	sp++

	best := Hit{T: maxT}
	if nearest {
		best.T = math.Inf(1)
	}
	if len(b.Indices) == 0 {
		return best
	}

	for sp > 0 {
		sp--
		nodeIdx := stack[sp]
		node := &b.Nodes[nodeIdx]

		if node.isLeaf() {
			for i := uint32(0); i < node.TriangleCount; i++ {
				triIdx := b.Indices[node.FirstTriangleOrLeftChild+i]
				a, c2, d := lookup(triIdx)
				h, ok := core.IntersectTriangle(ray.Origin, ray.Direction, a, c2, d)
				if !ok || h.T <= selfIntersectEps || h.T >= best.T {
					continue
				}
				if !nearest && h.T > maxT {
					continue
				}
				best = Hit{T: h.T, U: h.U, V: h.V, Backface: h.Backface, TriangleIndex: triIdx, Found: true}
				if !nearest {
					return best
				}
			}
			continue
		}

		leftIdx := node.FirstTriangleOrLeftChild
		rightIdx := leftIdx + 1
		leftNode := &b.Nodes[leftIdx]
		rightNode := &b.Nodes[rightIdx]

		leftDist := aabbEntryDistance(leftNode.Min, leftNode.Max, ray, best.T)
		rightDist := aabbEntryDistance(rightNode.Min, rightNode.Max, ray, best.T)

		minIdx, maxIdx, minDist, maxDist := leftIdx, rightIdx, leftDist, rightDist
		if minDist > maxDist {
			minIdx, maxIdx = maxIdx, minIdx
			minDist, maxDist = maxDist, minDist
		}

		if math.IsInf(minDist, 1) {
			continue
		}

		if !math.IsInf(maxDist, 1) {
			stack[sp] = maxIdx
			sp++
		}
		stack[sp] = minIdx
		sp++
	}

	return best
}

// aabbEntryDistance is the slab-test entry distance used to order child
// traversal, identical in shape to core.AABB.EntryDistance but taking the
// corners directly since bvh.Node does not embed a core.AABB.
func aabbEntryDistance(min, max core.Vec3, ray core.Ray, prevBestT float64) float64 {
	return core.NewAABB(min, max).EntryDistance(ray, prevBestT)
}
