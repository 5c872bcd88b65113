package light

import "github.com/mfontaine/pathtrace/pkg/core"

// ShadowTest is the any-hit query the integrator's BVH exposes; Sample uses
// it for the occlusion check in step 3 of spec §4.9.
type ShadowTest func(origin, direction core.Vec3, maxT float64) (hit bool)

// Evaluator is the subset of the bsdf.BSDF capability MIS direct lighting
// needs, expressed as two functions to keep this package decoupled from
// pkg/bsdf's Lobe type.
type Evaluator struct {
	Evaluate func(view, normal, out core.Vec3) core.Vec3
	PDF      func(view, normal, out core.Vec3) float64
}

// DirectSample is the result of one MIS direct-lighting draw at a
// diffuse-lobe vertex (spec §4.9): the contribution to add to radiance now,
// plus everything needed to add the BSDF-side MIS term later if the next
// bounce happens to re-strike the same light.
type DirectSample struct {
	Contribution  core.Vec3
	TriangleIndex uint32
	Area          float64
	Normal        core.Vec3
	PickPDF       float64
	Emission      core.Vec3
	Valid         bool
}

// TriangleLight is the data Sample needs about the light triangle it picked:
// its three corners, flat geometric normal (normalized (B-A)×(C-A) — lights
// do not pay for interpolation), and emission.
type TriangleLight struct {
	A, B, C  core.Vec3
	Normal   core.Vec3
	Emission core.Vec3
}

// LightTriangleLookup resolves a triangle index from the alias table into
// its geometric/material data.
type LightTriangleLookup func(triangleIndex uint32) TriangleLight

// Sample implements spec §4.9 steps 1-6: pick a light, sample a point on
// it, shadow-test, and — if unoccluded — weight the contribution by the
// power-heuristic MIS term against the BSDF's own pdf for that direction.
func Sample(
	table Table,
	rng *core.Sampler,
	lookup LightTriangleLookup,
	shadow ShadowTest,
	eval Evaluator,
	throughput core.Vec3,
	surfacePoint, surfaceNormal, viewDir core.Vec3,
) DirectSample {
	triIdx, area, pickPDF, ok := table.Pick(rng)
	if !ok {
		return DirectSample{}
	}

	tri := lookup(triIdx)
	point := PickTrianglePoint(tri.A, tri.B, tri.C, rng)

	toLight := point.Subtract(surfacePoint)
	distance := toLight.Length()
	if distance <= 0 {
		return DirectSample{}
	}
	dir := toLight.Multiply(1 / distance)

	const epsilon = 1e-3
	origin := surfacePoint.Add(dir.Multiply(epsilon))
	maxT := distance - epsilon*2
	if shadow(origin, dir, maxT) {
		return DirectSample{
			TriangleIndex: triIdx, Area: area, Normal: tri.Normal,
			PickPDF: pickPDF, Emission: tri.Emission,
		}
	}

	lightPDF := PDF(area, distance, tri.Normal, dir)
	if lightPDF <= 0 {
		return DirectSample{TriangleIndex: triIdx, Area: area, Normal: tri.Normal, PickPDF: pickPDF, Emission: tri.Emission}
	}

	fEval := eval.Evaluate(viewDir, surfaceNormal, dir)
	fPDF := eval.PDF(viewDir, surfaceNormal, dir)
	if fPDF <= 0 {
		return DirectSample{TriangleIndex: triIdx, Area: area, Normal: tri.Normal, PickPDF: pickPDF, Emission: tri.Emission}
	}

	weight := core.PowerHeuristic(lightPDF, fPDF)
	contribution := fEval.MultiplyVec(tri.Emission).Multiply(weight / (lightPDF * pickPDF)).MultiplyVec(throughput)

	return DirectSample{
		Contribution: contribution, Valid: true,
		TriangleIndex: triIdx, Area: area, Normal: tri.Normal, PickPDF: pickPDF, Emission: tri.Emission,
	}
}

// BSDFMISContribution implements spec §4.9's final paragraph: if the next
// bounce's BSDF-sampled ray happens to strike the same light triangle the
// previous vertex explicitly sampled, add the BSDF-side MIS term instead of
// double-counting or dropping the contribution.
func BSDFMISContribution(hitTriangleIndex uint32, bsdfSpectrum core.Vec3, bsdfPDF float64, hitDistance float64, direction core.Vec3, prev DirectSample, throughput core.Vec3) core.Vec3 {
	if hitTriangleIndex != prev.TriangleIndex {
		return core.Vec3{}
	}
	lightPDF := PDF(prev.Area, hitDistance, prev.Normal, direction)
	if lightPDF <= 0 {
		return core.Vec3{}
	}
	weight := core.PowerHeuristic(bsdfPDF, lightPDF)
	return throughput.MultiplyVec(bsdfSpectrum).MultiplyVec(prev.Emission).Multiply(weight / (bsdfPDF * prev.PickPDF))
}
