// Package bvh builds and traverses a bounding volume hierarchy over a flat
// triangle index buffer. It knows nothing about materials or scenes: callers
// supply triangle corner positions and get back a reordered index
// permutation plus a packed node array (spec §3 "BVH node", §4.2, §4.3).
package bvh

import (
	"errors"
	"math"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/mfontaine/pathtrace/pkg/core"
)

// MaxDepth bounds the traversal stack (spec §4.2, §4.3, §9 "fixed-depth
// traversal stack"); Build refuses to produce a tree whose leaves sit at
// depth MaxDepth or deeper, since ordered traversal of a leaf at depth d
// needs d+1 stack slots.
const MaxDepth = 32

// SAHSamples is the number of equal slices each axis is divided into during
// a binned surface-area-heuristic build (spec §4.2 "128 per axis"); the
// SAHSamples-1 interior slice boundaries are the candidate split planes.
const SAHSamples = 128

// LeafThreshold is the triangle count at or below which a node becomes a
// leaf regardless of SAH cost, the same small-leaf cutoff a median-split
// builder uses to stop recursion.
const LeafThreshold = 4

// ParallelBuildThreshold is the triangle count a subtree must clear before
// Build fans its two children out to separate goroutines (spec §4.2's SAH
// build is the one build-time cost large scenes pay, so only split work
// once a subtree is big enough to amortize the goroutine spin-up).
const ParallelBuildThreshold = 4096

// ErrTooDeep indicates the built tree exceeds MaxDepth and cannot be
// traversed safely by the fixed-size stack.
var ErrTooDeep = errors.New("bvh: tree depth exceeds traversal stack capacity")

// Node is the packed BVH node (spec §3, §9): two AABB corners plus a union
// tag. TriangleCount == 0 marks an interior node whose children are stored
// at consecutive indices FirstTriangleOrLeftChild and
// FirstTriangleOrLeftChild+1 (the contiguous-pair invariant that lets
// traversal address the right child without a separate pointer/index).
type Node struct {
	Min, Max                 core.Vec3
	TriangleCount            uint32
	FirstTriangleOrLeftChild uint32
}

func (n *Node) isLeaf() bool { return n.TriangleCount > 0 }

// BVH is a built tree plus the triangle index permutation it requires:
// Indices[i] is the original triangle index now living at position i, so a
// leaf's triangles occupy the contiguous span
// Indices[first:first+count].
type BVH struct {
	Nodes   []Node
	Indices []uint32
}

// triangleRef carries the precomputed bounds a builder needs without
// re-deriving them from vertex positions on every partition.
type triangleRef struct {
	index  uint32
	bounds core.AABB
	center core.Vec3
}

// Build constructs a BVH over the given triangles, identified only by their
// three corner positions (spec §4.2). The returned Indices slice is the
// permutation the caller must apply to its own triangle/material arrays:
// Indices[i] is the source triangle now at leaf position i.
//
// Construction is two-phase: buildTree recursively partitions refs by SAH
// into a pointer tree (fanning large subtrees out to goroutines via a
// semaphore-bounded errgroup), then flatten lays that tree out into the
// packed, contiguous-pair node array traverse.go expects.
func Build(corners [][3]core.Vec3) (*BVH, error) {
	n := len(corners)
	refs := make([]triangleRef, n)
	for i, c := range corners {
		b := core.NewAABBFromPoints(c[0], c[1], c[2])
		refs[i] = triangleRef{index: uint32(i), bounds: b, center: b.Center()}
	}

	b := &BVH{}

	if n == 0 {
		b.Nodes = append(b.Nodes, Node{})
		return b, nil
	}

	sem := semaphore.NewWeighted(int64(runtime.GOMAXPROCS(0)))
	root, err := buildTree(refs, 0, sem)
	if err != nil {
		return nil, err
	}

	b.flatten(root, n)
	return b, nil
}

// treeNode is the intermediate, pointer-based result of the recursive SAH
// split, kept separate from the packed Node array so subtree construction
// can run concurrently without two goroutines racing to append to the same
// backing slice.
type treeNode struct {
	bounds      core.AABB
	refs        []triangleRef // only set on leaves
	left, right *treeNode
}

func (n *treeNode) isLeaf() bool { return n.left == nil }

// buildTree recursively partitions refs (in place, by SAH) into a subtree
// rooted at the returned node. Subtrees at or above ParallelBuildThreshold
// build their two children concurrently, bounded by sem so the total
// goroutine count stays within GOMAXPROCS regardless of tree depth.
func buildTree(refs []triangleRef, depth int, sem *semaphore.Weighted) (*treeNode, error) {
	if depth >= MaxDepth {
		return nil, ErrTooDeep
	}

	bounds := boundsOf(refs)

	if len(refs) <= LeafThreshold {
		return &treeNode{bounds: bounds, refs: refs}, nil
	}

	axis, splitPos, cost := bestSAHSplit(refs, bounds)
	leafCost := float64(len(refs))
	if axis < 0 || cost >= leafCost {
		return &treeNode{bounds: bounds, refs: refs}, nil
	}

	mid := partition(refs, axis, splitPos)
	if mid == 0 || mid == len(refs) {
		return &treeNode{bounds: bounds, refs: refs}, nil
	}

	var left, right *treeNode

	if len(refs) >= ParallelBuildThreshold && sem.TryAcquire(1) {
		g := new(errgroup.Group)
		g.Go(func() error {
			defer sem.Release(1)
			n, err := buildTree(refs[:mid], depth+1, sem)
			left = n
			return err
		})
		n, err := buildTree(refs[mid:], depth+1, sem)
		if err != nil {
			g.Wait()
			return nil, err
		}
		right = n
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		n, err := buildTree(refs[:mid], depth+1, sem)
		if err != nil {
			return nil, err
		}
		left = n
		n, err = buildTree(refs[mid:], depth+1, sem)
		if err != nil {
			return nil, err
		}
		right = n
	}

	return &treeNode{bounds: bounds, left: left, right: right}, nil
}

// flatten lays out tree into b.Nodes/b.Indices, reserving both of an
// interior node's children at adjacent indices before descending so the
// contiguous-pair invariant (spec §3) holds regardless of how lopsided the
// tree is, unlike a naive DFS append which only keeps children adjacent
// when the left subtree happens to contain exactly one node.
func (b *BVH) flatten(root *treeNode, triangleCount int) {
	b.Nodes = make([]Node, countNodes(root))
	b.Indices = make([]uint32, 0, triangleCount)

	nextNode := uint32(1) // index 0 is reserved for root below
	var assign func(n *treeNode, idx uint32)
	assign = func(n *treeNode, idx uint32) {
		if n.isLeaf() {
			first := uint32(len(b.Indices))
			for _, r := range n.refs {
				b.Indices = append(b.Indices, r.index)
			}
			b.Nodes[idx] = Node{
				Min:                      n.bounds.Min,
				Max:                      n.bounds.Max,
				TriangleCount:            uint32(len(n.refs)),
				FirstTriangleOrLeftChild: first,
			}
			return
		}

		leftIdx := nextNode
		nextNode += 2
		b.Nodes[idx] = Node{
			Min:                      n.bounds.Min,
			Max:                      n.bounds.Max,
			TriangleCount:            0,
			FirstTriangleOrLeftChild: leftIdx,
		}
		assign(n.left, leftIdx)
		assign(n.right, leftIdx+1)
	}
	assign(root, 0)
}

func countNodes(n *treeNode) int {
	if n.isLeaf() {
		return 1
	}
	return 1 + countNodes(n.left) + countNodes(n.right)
}

func boundsOf(refs []triangleRef) core.AABB {
	bounds := refs[0].bounds
	for _, r := range refs[1:] {
		bounds = bounds.Union(r.bounds)
	}
	return bounds
}

// bestSAHSplit scans SAHSamples candidate planes per axis and returns the
// axis/position minimizing surface-area-heuristic cost (spec §4.2), or
// axis -1 if every candidate leaves a partition empty.
func bestSAHSplit(refs []triangleRef, bounds core.AABB) (bestAxis int, bestPos, bestCost float64) {
	bestAxis = -1
	bestCost = math.Inf(1)

	for axis := 0; axis < 3; axis++ {
		lo, hi := axisExtent(bounds, axis)
		if hi-lo < 1e-9 {
			continue
		}
		for s := 1; s < SAHSamples; s++ {
			pos := lo + (hi-lo)*float64(s)/float64(SAHSamples)
			cost := sahCost(refs, axis, pos)
			if cost < bestCost {
				bestCost = cost
				bestAxis = axis
				bestPos = pos
			}
		}
	}
	return bestAxis, bestPos, bestCost
}

func sahCost(refs []triangleRef, axis int, pos float64) float64 {
	var leftBounds, rightBounds core.AABB
	leftCount, rightCount := 0, 0
	leftInit, rightInit := false, false

	for _, r := range refs {
		if componentOf(r.center, axis) < pos {
			if !leftInit {
				leftBounds, leftInit = r.bounds, true
			} else {
				leftBounds = leftBounds.Union(r.bounds)
			}
			leftCount++
		} else {
			if !rightInit {
				rightBounds, rightInit = r.bounds, true
			} else {
				rightBounds = rightBounds.Union(r.bounds)
			}
			rightCount++
		}
	}

	if leftCount == 0 || rightCount == 0 {
		return math.Inf(1)
	}

	return leftBounds.SurfaceArea()*float64(leftCount) + rightBounds.SurfaceArea()*float64(rightCount)
}

// partition reorders refs in place so every element with center[axis] < pos
// precedes every element with center[axis] >= pos, and returns the split
// point. Falls back to a median split on ties so buildTree never produces an
// empty partition for a non-degenerate input.
func partition(refs []triangleRef, axis int, pos float64) int {
	i, j := 0, len(refs)-1
	for i <= j {
		for i <= j && componentOf(refs[i].center, axis) < pos {
			i++
		}
		for i <= j && componentOf(refs[j].center, axis) >= pos {
			j--
		}
		if i < j {
			refs[i], refs[j] = refs[j], refs[i]
			i++
			j--
		}
	}
	if i == 0 || i == len(refs) {
		sort.Slice(refs, func(a, b int) bool {
			return componentOf(refs[a].center, axis) < componentOf(refs[b].center, axis)
		})
		return len(refs) / 2
	}
	return i
}

func axisExtent(b core.AABB, axis int) (lo, hi float64) {
	switch axis {
	case 0:
		return b.Min.X, b.Max.X
	case 1:
		return b.Min.Y, b.Max.Y
	default:
		return b.Min.Z, b.Max.Z
	}
}

func componentOf(v core.Vec3, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

