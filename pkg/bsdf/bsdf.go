// Package bsdf implements the three scattering models the path integrator
// dispatches to at each hit: Lambertian diffuse, rough-dielectric glass, and
// metallic-roughness PBR (spec §4.5).
package bsdf

import (
	"math"

	"github.com/mfontaine/pathtrace/pkg/core"
)

const piConst = math.Pi

// Lobe tags the scattering mode a sample belongs to, used both for MIS
// dispatch and to decide whether a vertex draws an explicit direct-light
// sample (spec §4.8 step 5: only DiffuseReflection does).
type Lobe int

const (
	DiffuseReflection Lobe = iota
	SpecularReflection
	DiffuseTransmission
	SpecularTransmission
)

// Sample is the result of importance-sampling a BSDF: an outgoing
// direction, its density, and the already-folded throughput contribution
// f(ωi,ωo)·cosθ/pdf (spec §4.5).
type Sample struct {
	Direction core.Vec3
	PDF       float64
	Spectrum  core.Vec3
	Lobe      Lobe
}

// BSDF is the capability shared by every scattering model (spec §9
// "capability-based polymorphism"): sample an outgoing direction, evaluate
// the throughput of a specific direction/lobe pair, and report that pair's
// density.
type BSDF interface {
	Sample(view, normal core.Vec3, rng *core.Sampler) Sample
	Evaluate(view, normal, out core.Vec3, lobe Lobe) core.Vec3
	PDF(view, normal, out core.Vec3, lobe Lobe) float64
}

// eps floors denominators that would otherwise divide by (near) zero in
// grazing-angle cases (spec §4.5.3 "numerical floors").
const eps = 1e-3

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func clampf(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
