package bsdf

import (
	"math"

	"github.com/mfontaine/pathtrace/pkg/core"
)

// createCartesian builds an orthonormal basis (up, right, forward) around
// `up`, used to rotate a locally-sampled direction into world space
// (grounded on the rust-gpu kernel's util::create_cartesian).
func createCartesian(up core.Vec3) (core.Vec3, core.Vec3, core.Vec3) {
	arbitrary := core.NewVec3(0.1, 0.5, 0.9)
	tempVec := up.Cross(arbitrary).Normalize()
	right := tempVec.Cross(up).Normalize()
	forward := up.Cross(right).Normalize()
	return up, right, forward
}

// cosHemisphere draws a cosine-weighted direction in the local frame
// (y = up) using the faster closed form permitted in place of
// acos(sqrt(r1)) then sin/cos (spec §9 Open Questions).
func cosHemisphere(r1, r2 float64) core.Vec3 {
	phi := 2 * math.Pi * r2
	sinTheta := math.Sqrt(1 - r1)
	cosTheta := math.Sqrt(r1)
	return core.NewVec3(sinTheta*math.Cos(phi), cosTheta, sinTheta*math.Sin(phi))
}

// toWorld rotates a local-frame direction (y = up) into world space via the
// basis returned by createCartesian.
func toWorld(local core.Vec3, up, right, forward core.Vec3) core.Vec3 {
	return core.NewVec3(
		local.X*right.X+local.Y*up.X+local.Z*forward.X,
		local.X*right.Y+local.Y*up.Y+local.Z*forward.Y,
		local.X*right.Z+local.Y*up.Z+local.Z*forward.Z,
	).Normalize()
}

// sampleCosineHemisphere draws a world-space direction cosine-weighted
// around `normal`.
func sampleCosineHemisphere(r1, r2 float64, normal core.Vec3) core.Vec3 {
	up, right, forward := createCartesian(normal)
	local := cosHemisphere(r1, r2)
	return toWorld(local, up, right, forward)
}

// ggxDistribution is the Trowbridge-Reitz (GGX) microfacet normal
// distribution D(n,h).
func ggxDistribution(normal, halfway core.Vec3, roughness float64) float64 {
	a2 := roughness * roughness
	nDotH := maxf(normal.Dot(halfway), 0)
	denom := nDotH*nDotH*(a2-1) + 1
	denom = maxf(math.Pi*denom*denom, eps)
	return a2 / denom
}

// fresnelSchlick is the vector (colored-F0) Schlick Fresnel approximation.
func fresnelSchlick(cosTheta float64, f0 core.Vec3) core.Vec3 {
	t := math.Pow(1-cosTheta, 5)
	return core.NewVec3(
		f0.X+(1-f0.X)*t,
		f0.Y+(1-f0.Y)*t,
		f0.Z+(1-f0.Z)*t,
	)
}

// fresnelSchlickScalar is the scalar Schlick Fresnel approximation derived
// from the two media's indices of refraction, used by the rough-dielectric
// model (spec §4.5.2 step 3).
func fresnelSchlickScalar(inIOR, outIOR, cosTheta float64) float64 {
	r := (inIOR - outIOR) / (inIOR + outIOR)
	f0 := r * r
	return f0 + (1-f0)*math.Pow(1-cosTheta, 5)
}

// sampleGGXMicrosurfaceNormal draws a microfacet normal distributed
// according to GGX around `normal` (used by the rough-dielectric model,
// which samples reflection/refraction off the microfacet rather than the
// macrosurface normal).
func sampleGGXMicrosurfaceNormal(r1, r2 float64, normal core.Vec3, roughness float64) core.Vec3 {
	aG := roughness * roughness
	thetaM := math.Atan((aG * math.Sqrt(r1)) / math.Sqrt(1-r1))
	phiM := 2 * math.Pi * r2

	m := core.NewVec3(math.Sin(thetaM)*math.Cos(phiM), math.Cos(thetaM), math.Sin(thetaM)*math.Sin(phiM))
	up, right, forward := createCartesian(normal)
	return toWorld(m, up, right, forward)
}

// sampleGGX importance-samples a GGX-distributed direction around the mirror
// reflection direction and returns it as the outgoing direction, the PBR
// model's specular-lobe sampler (Karis' "Real Shading in Unreal Engine 4"
// course notes).
func sampleGGX(r1, r2 float64, reflectionDirection core.Vec3, roughness float64) core.Vec3 {
	a := roughness * roughness

	phi := 2 * math.Pi * r1
	cosTheta := math.Sqrt((1 - r2) / (r2*(a*a-1) + 1))
	sinTheta := math.Sqrt(maxf(1-cosTheta*cosTheta, 0))

	halfway := core.NewVec3(math.Cos(phi)*sinTheta, math.Sin(phi)*sinTheta, cosTheta)

	up := core.NewVec3(0, 0, 1)
	if math.Abs(reflectionDirection.Z) >= 0.999 {
		up = core.NewVec3(1, 0, 0)
	}
	tangent := up.Cross(reflectionDirection).Normalize()
	bitangent := reflectionDirection.Cross(tangent)

	return tangent.Multiply(halfway.X).
		Add(bitangent.Multiply(halfway.Y)).
		Add(reflectionDirection.Multiply(halfway.Z)).
		Normalize()
}

// geometrySchlickGGX is the single-direction Schlick-GGX visibility term.
func geometrySchlickGGX(normal, dir core.Vec3, roughness float64) float64 {
	nDotD := maxf(normal.Dot(dir), 0)
	r := (roughness * roughness) / 8
	denom := nDotD*(1-r) + r
	if denom <= 0 {
		return 0
	}
	return nDotD / denom
}

// geometrySmithSchlickGGX is the Smith masking-shadowing term. The
// rust-gpu source squares the view-side term instead of combining the view
// and light sides; that is a bug (standard Smith combines both), so this
// implements the standard G1(v)*G1(l) form per spec §9's Open Questions.
func geometrySmithSchlickGGX(normal, view, light core.Vec3, roughness float64) float64 {
	return geometrySchlickGGX(normal, view, roughness) * geometrySchlickGGX(normal, light, roughness)
}

func reflect(i, normal core.Vec3) core.Vec3 {
	return i.Subtract(normal.Multiply(2 * i.Dot(normal)))
}

func lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

func lerpVec3(a, b core.Vec3, t float64) core.Vec3 {
	return core.NewVec3(lerp(a.X, b.X, t), lerp(a.Y, b.Y, t), lerp(a.Z, b.Z, t))
}
