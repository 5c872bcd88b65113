package bsdf

import (
	"math"

	"github.com/mfontaine/pathtrace/pkg/core"
)

// Glass is the rough-dielectric model (spec §4.5.2): a Dirac sampler whose
// evaluate/pdf degenerate to whichever branch (reflect or refract) sampling
// actually took, so MIS against it collapses to the sampled branch.
type Glass struct {
	Albedo    core.Vec3
	IOR       float64
	Roughness float64
}

// Evaluate returns 1 for the specular-reflection lobe, albedo for
// transmission (spec §4.5.2).
func (g Glass) Evaluate(_, _, _ core.Vec3, lobe Lobe) core.Vec3 {
	if lobe == SpecularReflection {
		return core.NewVec3(1, 1, 1)
	}
	return g.Albedo
}

// PDF is always 1; Glass is a Dirac sampler.
func (g Glass) PDF(_, _, _ core.Vec3, _ Lobe) float64 {
	return 1
}

func sign(x float64) float64 {
	if x >= 0 {
		return 1
	}
	return -1
}

// Sample implements the procedure of spec §4.5.2: determine which medium
// the view ray is in, draw a GGX microfacet normal, stochastically choose
// reflection (probability = Fresnel) or refraction via Snell's law on that
// microfacet, clamping total-internal-reflection's radicand to ≥ 0.
func (g Glass) Sample(view, normal core.Vec3, rng *core.Sampler) Sample {
	r1, r2, r3 := rng.Gen3()

	inside := normal.Dot(view) < 0
	n := normal
	inIOR, outIOR := 1.0, g.IOR
	if inside {
		n = normal.Negate()
		inIOR, outIOR = g.IOR, 1.0
	}

	microNormal := sampleGGXMicrosurfaceNormal(r1, r2, n, g.Roughness)
	fresnel := fresnelSchlickScalar(inIOR, outIOR, maxf(microNormal.Dot(view), 0))

	if r3 <= fresnel {
		direction := microNormal.Multiply(2 * math.Abs(view.Dot(microNormal))).Subtract(view).Normalize()
		return Sample{Direction: direction, PDF: 1, Spectrum: core.NewVec3(1, 1, 1), Lobe: SpecularReflection}
	}

	eta := inIOR / outIOR
	c := view.Dot(microNormal)
	radicand := maxf(1+eta*(c*c-1), 0)
	direction := microNormal.Multiply(eta*c - sign(view.Dot(n))*math.Sqrt(radicand)).
		Subtract(view.Multiply(eta)).Normalize()
	return Sample{Direction: direction, PDF: 1, Spectrum: g.Albedo, Lobe: SpecularTransmission}
}
