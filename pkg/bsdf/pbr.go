package bsdf

import "github.com/mfontaine/pathtrace/pkg/core"

// DielectricIOR is the assumed index of refraction for the non-metallic
// part of a PBR material (spec §4.5.3 "works well for most").
const DielectricIOR = 1.5

// dielectricF0 is the Fresnel reflectance at normal incidence this IOR
// implies against air: ((1.5-1)/(1.5+1))^2 = 0.04 (spec §4.5.3, §6).
var dielectricF0 = func() float64 {
	r := (DielectricIOR - 1) / (DielectricIOR + 1)
	return r * r
}()

// PBR is the metallic-roughness model (spec §4.5.3): a lobe-selection
// mixture of cosine-weighted diffuse and GGX specular, with the lobe
// selection probability folded into the returned spectrum so the
// integrator always multiplies by spectrum/pdf uniformly.
type PBR struct {
	Albedo      core.Vec3
	Roughness   float64
	Metallic    float64
	ClampWeight core.Vec2 // [min, max], spec default [0.1, 0.9]
}

// specularWeight computes lerp(Fresnel(n·v), 1, metallic), clamped to
// ClampWeight to guard against fireflies at grazing angles (spec §4.5.3,
// §9 "firefly control"). A weight of exactly 0 or 1 is returned unclamped.
func (p PBR) specularWeight(normal, view core.Vec3) float64 {
	approxFresnel := fresnelSchlickScalar(1, DielectricIOR, maxf(normal.Dot(view), 0))
	w := lerp(approxFresnel, 1, p.Metallic)
	if w != 0 && w != 1 {
		w = clampf(w, p.ClampWeight.X, p.ClampWeight.Y)
	}
	return w
}

func (p PBR) f0(albedo core.Vec3) core.Vec3 {
	return lerpVec3(core.NewVec3(dielectricF0, dielectricF0, dielectricF0), albedo, p.Metallic)
}

func (p PBR) evaluateDiffuseFast(cosTheta, specularWeight float64, ks core.Vec3) core.Vec3 {
	kd := core.NewVec3(1-ks.X, 1-ks.Y, 1-ks.Z).Multiply(1 - p.Metallic)
	diffuse := kd.MultiplyVec(p.Albedo).Multiply(1 / piConst)
	return diffuse.Multiply(cosTheta / (1 - specularWeight))
}

func (p PBR) evaluateSpecularFast(view, normal, out core.Vec3, cosTheta, dTerm, specularWeight float64, ks core.Vec3) core.Vec3 {
	gTerm := geometrySmithSchlickGGX(normal, view, out, p.Roughness)
	numerator := ks.Multiply(dTerm * gTerm)
	denominator := maxf(4*maxf(normal.Dot(view), 0)*cosTheta, eps)
	return numerator.Multiply(cosTheta / denominator / specularWeight)
}

func (p PBR) pdfDiffuseFast(cosTheta float64) float64 {
	return cosTheta / piConst
}

func (p PBR) pdfSpecularFast(view, normal, halfway core.Vec3, dTerm float64) float64 {
	denom := 4 * view.Dot(halfway)
	if denom == 0 {
		return 0
	}
	return (dTerm * normal.Dot(halfway)) / denom
}

// Evaluate returns f(ωi,ωo)·cosθo, split by lobe (spec §4.5.3).
func (p PBR) Evaluate(view, normal, out core.Vec3, lobe Lobe) core.Vec3 {
	specularWeight := p.specularWeight(normal, view)

	cosTheta := maxf(normal.Dot(out), 0)
	halfway := view.Add(out).Normalize()

	f0 := p.f0(p.Albedo)
	ks := fresnelSchlick(maxf(halfway.Dot(view), 0), f0)

	if lobe == DiffuseReflection {
		return p.evaluateDiffuseFast(cosTheta, specularWeight, ks)
	}
	dTerm := ggxDistribution(normal, halfway, p.Roughness)
	return p.evaluateSpecularFast(view, normal, out, cosTheta, dTerm, specularWeight, ks)
}

// PDF returns the density of `out` under its lobe (spec §4.5.3).
func (p PBR) PDF(view, normal, out core.Vec3, lobe Lobe) float64 {
	if lobe == DiffuseReflection {
		return p.pdfDiffuseFast(maxf(normal.Dot(out), 0))
	}
	halfway := view.Add(out).Normalize()
	dTerm := ggxDistribution(normal, halfway, p.Roughness)
	return p.pdfSpecularFast(view, normal, halfway, dTerm)
}

// Sample stochastically chooses a lobe by specularWeight, then draws a
// cosine-weighted diffuse direction or a GGX half-vector around the mirror
// reflection (spec §4.5.3).
func (p PBR) Sample(view, normal core.Vec3, rng *core.Sampler) Sample {
	r1, r2, r3 := rng.Gen3()
	specularWeight := p.specularWeight(normal, view)

	var direction core.Vec3
	var lobe Lobe
	if r3 >= specularWeight {
		direction = sampleCosineHemisphere(r1, r2, normal)
		lobe = DiffuseReflection
	} else {
		reflectionDirection := reflect(view.Negate(), normal)
		direction = sampleGGX(r1, r2, reflectionDirection, p.Roughness)
		lobe = SpecularReflection
	}

	cosTheta := maxf(normal.Dot(direction), eps)
	halfway := view.Add(direction).Normalize()

	f0 := p.f0(p.Albedo)
	ks := fresnelSchlick(maxf(halfway.Dot(view), 0), f0)

	var pdf float64
	var spectrum core.Vec3
	if lobe == DiffuseReflection {
		pdf = p.pdfDiffuseFast(cosTheta)
		spectrum = p.evaluateDiffuseFast(cosTheta, specularWeight, ks)
	} else {
		dTerm := ggxDistribution(normal, halfway, p.Roughness)
		pdf = p.pdfSpecularFast(view, normal, halfway, dTerm)
		spectrum = p.evaluateSpecularFast(view, normal, direction, cosTheta, dTerm, specularWeight, ks)
	}

	return Sample{Direction: direction, PDF: pdf, Spectrum: spectrum, Lobe: lobe}
}
