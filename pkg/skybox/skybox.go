// Package skybox supplies the miss-ray background radiance the integrator
// adds when a camera or bounce ray leaves the scene entirely.
package skybox

import (
	"math"

	"github.com/mfontaine/pathtrace/pkg/core"
)

// Skybox resolves the radiance arriving along a ray that escaped the scene.
type Skybox interface {
	Sample(origin, direction core.Vec3) core.Vec3
}

// sunDirection and sunIntensity are the fixed light source trace_pixel's
// miss branch uses (spec §4.1 "skybox"): original_source/kernels/simple/src/lib.rs
// hardcodes `Vec3::new(0.5, 1.3, 1.0).normalize().extend(15.0)` rather than
// reading it from any buffer, so there is nothing scene-configurable to
// carry into pkg/scene for it.
var sunDirection = core.NewVec3(0.5, 1.3, 1.0).Normalize()

const sunIntensity = 15.0

// Analytic is a simple Rayleigh/Mie-flavored sky approximation: a blue
// zenith-to-horizon gradient plus a sharpened specular lobe around the sun
// direction standing in for the solar disc. original_source's actual
// scatter() implementation was not retrieved into the reference pack (its
// kernels/simple/src/skybox.rs is absent — confirmed by its absence from
// original_source/_INDEX.md), so this is a from-scratch approximation
// matching the fixed sun vector/intensity the kernel does carry.
type Analytic struct {
	ZenithColor  core.Vec3
	HorizonColor core.Vec3
	SunColor     core.Vec3
	SunSharpness float64
}

// NewAnalytic returns the default daylight-ish sky used by the example
// scenes (spec §8).
func NewAnalytic() Analytic {
	return Analytic{
		ZenithColor:  core.NewVec3(0.2, 0.4, 0.8),
		HorizonColor: core.NewVec3(0.7, 0.8, 0.9),
		SunColor:     core.NewVec3(1, 0.95, 0.85),
		SunSharpness: 512,
	}
}

// Sample implements Skybox: a height-based gradient plus a narrow sun lobe,
// scaled by the kernel's fixed sun intensity.
func (a Analytic) Sample(origin, direction core.Vec3) core.Vec3 {
	t := 0.5 * (direction.Y + 1)
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	sky := a.HorizonColor.Multiply(1 - t).Add(a.ZenithColor.Multiply(t))

	cosSun := math.Max(direction.Dot(sunDirection), 0)
	sunLobe := math.Pow(cosSun, a.SunSharpness)
	sun := a.SunColor.Multiply(sunLobe * sunIntensity)

	return sky.Add(sun)
}
