package bsdf

import "github.com/mfontaine/pathtrace/pkg/core"

// Lambertian is the ideal diffuse BSDF (spec §4.5.1): f = albedo/π,
// pdf = cosθ/π, sampled from a cosine-weighted hemisphere.
type Lambertian struct {
	Albedo core.Vec3
}

func (l Lambertian) pdfFast(cosTheta float64) float64 {
	return cosTheta / piConst
}

func (l Lambertian) evaluateFast(cosTheta float64) core.Vec3 {
	return l.Albedo.Multiply(cosTheta / piConst)
}

// Evaluate returns f(ωi,ωo)·cosθo for the reflected direction.
func (l Lambertian) Evaluate(_, normal, out core.Vec3, _ Lobe) core.Vec3 {
	return l.evaluateFast(maxf(normal.Dot(out), 0))
}

// PDF returns the cosine-hemisphere density of `out`.
func (l Lambertian) PDF(_, normal, out core.Vec3, _ Lobe) float64 {
	return l.pdfFast(maxf(normal.Dot(out), 0))
}

// Sample draws a cosine-weighted direction and folds f·cosθ/pdf = Albedo
// back into the spectrum directly, since the cosine weighting cancels the
// pdf analytically.
func (l Lambertian) Sample(_ core.Vec3, normal core.Vec3, rng *core.Sampler) Sample {
	r1, r2, _ := rng.Gen3()
	direction := sampleCosineHemisphere(r1, r2, normal)

	cosTheta := maxf(normal.Dot(direction), 0)
	pdf := l.pdfFast(cosTheta)
	spectrum := l.evaluateFast(cosTheta)

	return Sample{Direction: direction, PDF: pdf, Spectrum: spectrum, Lobe: DiffuseReflection}
}
