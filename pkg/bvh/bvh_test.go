package bvh_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mfontaine/pathtrace/pkg/bvh"
	"github.com/mfontaine/pathtrace/pkg/core"
)

// randomTriangleSoup builds n random, mostly-disjoint small triangles whose
// anchors lie in the cube [-5,5]^3, giving the BVH a nontrivial tree to
// build and traverse.
func randomTriangleSoup(n int, seed int64) [][3]core.Vec3 {
	r := rand.New(rand.NewSource(seed))
	corners := make([][3]core.Vec3, n)
	for i := range corners {
		center := core.NewVec3(r.Float64()*10-5, r.Float64()*10-5, r.Float64()*10-5)
		corners[i] = [3]core.Vec3{
			center.Add(core.NewVec3(r.Float64()*0.2, 0, 0)),
			center.Add(core.NewVec3(0, r.Float64()*0.2, 0)),
			center.Add(core.NewVec3(0, 0, r.Float64()*0.2)),
		}
	}
	return corners
}

func linearScanNearest(corners [][3]core.Vec3, ray core.Ray) (t float64, index int, found bool) {
	best := math.Inf(1)
	bestIdx := -1
	for i, c := range corners {
		h, ok := core.IntersectTriangle(ray.Origin, ray.Direction, c[0], c[1], c[2])
		if ok && h.T > 1e-3 && h.T < best {
			best = h.T
			bestIdx = i
		}
	}
	return best, bestIdx, bestIdx >= 0
}

func TestBVHNearestHitMatchesLinearScan(t *testing.T) {
	corners := randomTriangleSoup(200, 1)
	tree, err := bvh.Build(corners)
	require.NoError(t, err)

	lookup := func(i uint32) (a, b, c core.Vec3) {
		return corners[i][0], corners[i][1], corners[i][2]
	}

	r := rand.New(rand.NewSource(2))
	for trial := 0; trial < 500; trial++ {
		origin := core.NewVec3(r.Float64()*20-10, r.Float64()*20-10, r.Float64()*20-10)
		dir := core.NewVec3(r.Float64()*2-1, r.Float64()*2-1, r.Float64()*2-1).Normalize()
		ray := core.NewRay(origin, dir)

		wantT, wantIdx, wantFound := linearScanNearest(corners, ray)
		got := tree.Nearest(ray, lookup)

		require.Equal(t, wantFound, got.Found, "trial %d: found mismatch", trial)
		if wantFound {
			require.Equal(t, wantIdx, int(got.TriangleIndex), "trial %d: triangle mismatch", trial)
			require.InDelta(t, wantT, got.T, 1e-5, "trial %d: t mismatch", trial)
		}
	}
}

func TestBVHAnyHitRespectsMaxT(t *testing.T) {
	corners := randomTriangleSoup(100, 3)
	tree, err := bvh.Build(corners)
	require.NoError(t, err)

	lookup := func(i uint32) (a, b, c core.Vec3) {
		return corners[i][0], corners[i][1], corners[i][2]
	}

	r := rand.New(rand.NewSource(4))
	for trial := 0; trial < 500; trial++ {
		origin := core.NewVec3(r.Float64()*20-10, r.Float64()*20-10, r.Float64()*20-10)
		dir := core.NewVec3(r.Float64()*2-1, r.Float64()*2-1, r.Float64()*2-1).Normalize()
		ray := core.NewRay(origin, dir)
		maxT := r.Float64() * 15

		got := tree.AnyHit(ray, maxT, lookup)
		if got.Found {
			require.LessOrEqual(t, got.T, maxT, "trial %d: any-hit exceeded maxT", trial)
		}
	}
}

func TestBVHBuildNeverExceedsStackDepth(t *testing.T) {
	corners := randomTriangleSoup(5000, 5)
	tree, err := bvh.Build(corners)
	require.NoError(t, err)
	require.NotEmpty(t, tree.Nodes)
	// bvh.Build returns bvh.ErrTooDeep rather than a tree whose depth would
	// overflow the fixed [bvh.MaxDepth]uint32 traversal stack; reaching here
	// at all is the invariant check.
}

func TestBVHEmptySceneMisses(t *testing.T) {
	tree, err := bvh.Build(nil)
	require.NoError(t, err)
	got := tree.Nearest(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), func(uint32) (a, b, c core.Vec3) {
		t.Fatal("lookup should never be called for an empty tree")
		return
	})
	require.False(t, got.Found)
}
