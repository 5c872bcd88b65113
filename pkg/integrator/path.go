// Package integrator implements the bounce-by-bounce path-tracing loop
// (spec §4.8 "path tracer"), wiring pkg/bvh, pkg/bsdf, pkg/light and
// pkg/skybox together against a pkg/scene.Scene. Grounded on
// original_source/kernels/simple/src/lib.rs's trace_pixel.
package integrator

import (
	"github.com/mfontaine/pathtrace/pkg/bsdf"
	"github.com/mfontaine/pathtrace/pkg/bvh"
	"github.com/mfontaine/pathtrace/pkg/core"
	"github.com/mfontaine/pathtrace/pkg/light"
	"github.com/mfontaine/pathtrace/pkg/scene"
	"github.com/mfontaine/pathtrace/pkg/skybox"
)

const epsilon = 1e-3

// PathTracer holds everything TracePixel needs beyond the per-call ray and
// sampler: the scene to trace against and the background to sample on miss.
type PathTracer struct {
	Scene  *scene.Scene
	Skybox skybox.Skybox
}

func (pt *PathTracer) lookup(index uint32) (a, b, c core.Vec3) {
	return pt.Scene.CornersAt(index)
}

func (pt *PathTracer) shadowTest(origin, direction core.Vec3, maxT float64) bool {
	hit := pt.Scene.BVH.AnyHit(core.NewRay(origin, direction), maxT, pt.lookup)
	return hit.Found
}

// materialBSDF extracts a bsdf.BSDF from a scene.Material resolved at a
// surface UV (spec §4.5, grounded on get_pbr_bsdf in
// original_source/kernels/simple/src/bsdf.rs).
func (pt *PathTracer) materialBSDF(mat scene.Material, uv core.Vec2) bsdf.BSDF {
	albedo := pt.Scene.EvaluateChannel(mat.Albedo, uv).XYZ()
	roughness := pt.Scene.EvaluateChannel(mat.Roughness, uv).X
	if roughness < scene.RoughnessEpsilon {
		roughness = scene.RoughnessEpsilon
	}

	if mat.Glass {
		return bsdf.Glass{Albedo: albedo, IOR: mat.IOR, Roughness: roughness}
	}

	metallic := pt.Scene.EvaluateChannel(mat.Metallic, uv).X
	if metallic > 1-scene.MetallicEpsilon {
		metallic = 1 - scene.MetallicEpsilon
	}
	return bsdf.PBR{
		Albedo:      albedo,
		Roughness:   roughness,
		Metallic:    metallic,
		ClampWeight: core.NewVec2(0.1, 0.9),
	}
}

func evaluatorFor(b bsdf.BSDF) light.Evaluator {
	return light.Evaluator{
		Evaluate: func(view, normal, out core.Vec3) core.Vec3 {
			return b.Evaluate(view, normal, out, bsdf.DiffuseReflection)
		},
		PDF: func(view, normal, out core.Vec3) float64 {
			return b.PDF(view, normal, out, bsdf.DiffuseReflection)
		},
	}
}

// TracePixel runs the bounce loop for one camera ray and returns the
// accumulated radiance, NaN-masked (spec §4.8, §9 "no NaNs escape a
// pixel"). maxBounces and rouletteStart come from the scene's
// TracingConfig.
func (pt *PathTracer) TracePixel(origin, direction core.Vec3, rng *core.Sampler) core.Vec3 {
	cfg := pt.Scene.Config

	throughput := core.NewVec3(1, 1, 1)
	radiance := core.Vec3{}

	var prevLobe bsdf.Lobe
	var prevPDF float64
	var prevSpectrum core.Vec3
	var directSample light.DirectSample
	haveBSDFSample := false

	ori, dir := origin, direction

	for bounce := 0; bounce < cfg.MaxBounces; bounce++ {
		hit := pt.Scene.BVH.Nearest(core.NewRay(ori, dir), pt.lookup)
		if !hit.Found {
			radiance = radiance.Add(core.MaskNaN(throughput.MultiplyVec(pt.Skybox.Sample(ori, dir))))
			break
		}

		hitPoint := ori.Add(dir.Multiply(hit.T))
		tri := pt.Scene.Triangles[hit.TriangleIndex]
		mat := pt.Scene.MaterialAt(hit.TriangleIndex)
		uv := tri.InterpolateUV(pt.Scene.Vertices, hit.U, hit.V)

		emissive := pt.Scene.EvaluateChannel(mat.Emissive, uv).XYZ()
		if !emissive.IsZero() {
			if hit.Backface {
				break
			}
			if bounce == 0 || !haveBSDFSample || prevLobe != bsdf.DiffuseReflection {
				radiance = radiance.Add(core.MaskNaN(throughput.MultiplyVec(emissive)))
				break
			}
			contribution := light.BSDFMISContribution(hit.TriangleIndex, prevSpectrum, prevPDF, hit.T, dir, directSample, throughput)
			radiance = radiance.Add(core.MaskNaN(contribution))
			break
		}

		normal := tri.InterpolateNormal(pt.Scene.Vertices, hit.U, hit.V)
		if mat.Normal.HasTexture {
			tangent := tri.InterpolateTangent(pt.Scene.Vertices, hit.U, hit.V)
			bitangent := tangent.Cross(normal)
			normalSample := pt.Scene.EvaluateChannel(mat.Normal, uv).XYZ().Multiply(2).Subtract(core.NewVec3(1, 1, 1))
			normal = tangent.Multiply(normalSample.X).
				Add(bitangent.Multiply(normalSample.Y)).
				Add(normal.Multiply(normalSample.Z)).
				Normalize()
		}

		surfaceBSDF := pt.materialBSDF(mat, uv)
		sample := surfaceBSDF.Sample(dir.Negate(), normal, rng)

		if sample.Lobe == bsdf.DiffuseReflection {
			directSample = light.Sample(
				pt.Scene.Lights, rng, pt.Scene.LightTriangle, pt.shadowTest,
				evaluatorFor(surfaceBSDF), throughput, hitPoint, normal, dir.Negate(),
			)
			radiance = radiance.Add(core.MaskNaN(directSample.Contribution))
		}

		if sample.PDF <= 0 {
			break
		}
		throughput = throughput.MultiplyVec(sample.Spectrum).Multiply(1 / sample.PDF)
		prevLobe, prevPDF, prevSpectrum, haveBSDFSample = sample.Lobe, sample.PDF, sample.Spectrum, true

		dir = sample.Direction
		ori = hitPoint.Add(dir.Multiply(epsilon))

		if bounce > cfg.RouletteStart {
			prob := throughput.MaxComponent()
			if rng.Gen1() > prob {
				break
			}
			if prob > 0 {
				throughput = throughput.Multiply(1 / prob)
			}
		}
	}

	return core.MaskNaN(radiance)
}
