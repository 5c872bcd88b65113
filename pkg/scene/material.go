package scene

import "github.com/mfontaine/pathtrace/pkg/core"

const (
	// RoughnessEpsilon and MetallicEpsilon bound the PBR lobe parameters
	// away from the degenerate cases that blow up the GGX/Smith terms
	// (spec §3, §6).
	RoughnessEpsilon = 1e-3
	MetallicEpsilon  = 1e-3

	// DefaultEmissionGain compensates for mesh formats (glTF among them)
	// that have no first-class emissive-strength field; kept as a
	// Scene-level constant rather than hard-coded so a loader can expose
	// it per material (see pkg/scene's Open Question note in DESIGN.md).
	DefaultEmissionGain = 15.0
)

// Channel is a material input that is either a constant RGBA value or a
// rectangle within the shared texture atlas, selected by HasTexture
// (spec §3 "4-lane value"). When HasTexture is true, Value holds the atlas
// rectangle (u, v, w, h) and sampling remaps a surface UV into it; when
// false, Value is used directly as the constant.
type Channel struct {
	Value      core.Vec4
	HasTexture bool
}

// ConstantChannel builds a Channel carrying a fixed RGBA value.
func ConstantChannel(v core.Vec4) Channel {
	return Channel{Value: v}
}

// ConstantChannel3 builds a Channel from an RGB value with alpha 1.
func ConstantChannel3(v core.Vec3) Channel {
	return Channel{Value: core.NewVec4(v.X, v.Y, v.Z, 1)}
}

// TextureChannel builds a Channel pointing at an atlas rectangle.
func TextureChannel(rect core.Vec4) Channel {
	return Channel{Value: rect, HasTexture: true}
}

// Material holds the five PBR channels (spec §3): emissive, albedo,
// roughness, metallic, normal. Roughness and metallic are clamped on
// ingestion so the BSDF never divides by zero in a grazing/mirror case.
type Material struct {
	Emissive  Channel
	Albedo    Channel
	Roughness Channel
	Metallic  Channel
	Normal    Channel

	// IOR is the dielectric index of refraction used when this material
	// is treated as rough glass rather than metallic-roughness PBR (§4.5.2).
	IOR float64
	// Glass marks a material as rough dielectric instead of PBR.
	Glass bool
}

// NewPBRMaterial builds a metallic-roughness material with constant
// (non-textured) channels, clamping roughness/metallic to their required
// ranges and applying the emission gain.
func NewPBRMaterial(albedo core.Vec3, roughness, metallic float64, emissive core.Vec3, emissionGain float64) Material {
	if emissionGain == 0 {
		emissionGain = DefaultEmissionGain
	}
	return Material{
		Emissive:  ConstantChannel3(emissive.Multiply(emissionGain)),
		Albedo:    ConstantChannel3(albedo),
		Roughness: ConstantChannel3(core.NewVec3(clampRoughness(roughness), 0, 0)),
		Metallic:  ConstantChannel3(core.NewVec3(clampMetallic(metallic), 0, 0)),
	}
}

// NewGlassMaterial builds a rough-dielectric material (§4.5.2).
func NewGlassMaterial(albedo core.Vec3, ior, roughness float64) Material {
	return Material{
		Albedo:    ConstantChannel3(albedo),
		Roughness: ConstantChannel3(core.NewVec3(clampRoughness(roughness), 0, 0)),
		IOR:       ior,
		Glass:     true,
	}
}

// NewEmissiveMaterial builds a pure light-emitting material used by the
// light pick table (§4.7); its albedo is irrelevant since emissive
// triangles terminate the path before any further scattering.
func NewEmissiveMaterial(emission core.Vec3, emissionGain float64) Material {
	if emissionGain == 0 {
		emissionGain = DefaultEmissionGain
	}
	return Material{
		Emissive: ConstantChannel3(emission.Multiply(emissionGain)),
		Albedo:   ConstantChannel3(core.Vec3{}),
	}
}

// IsEmissive reports whether the material's emissive channel is non-zero,
// the condition the light pick table's preprocessing step tests for triangle
// inclusion (§4.7 step 1).
func (m Material) IsEmissive() bool {
	e := m.Emissive.Value
	return e.X != 0 || e.Y != 0 || e.Z != 0
}

func clampRoughness(r float64) float64 {
	if r < RoughnessEpsilon {
		return RoughnessEpsilon
	}
	if r > 1 {
		return 1
	}
	return r
}

func clampMetallic(m float64) float64 {
	if m < 0 {
		return 0
	}
	max := 1 - MetallicEpsilon
	if m > max {
		return max
	}
	return m
}
