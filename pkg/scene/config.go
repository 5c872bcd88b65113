package scene

import "github.com/mfontaine/pathtrace/pkg/core"

// DefaultMaxBounces and DefaultRouletteStart are the path-length limits
// spec §3 "Tracing config" calls out as defaults, matched to the original's
// trace_pixel loop.
const (
	DefaultMaxBounces    = 16
	DefaultRouletteStart = 8
)

// TracingConfig is the render-time configuration every scene carries (spec
// §3): camera placement plus the integrator's path-length policy. It is
// deliberately flat (no nested camera struct with its own FOV/aspect —
// those belong to pkg/camera, which reads this struct to build a Camera).
type TracingConfig struct {
	CameraPosition core.Vec3
	// CameraRotation is Euler angles (x, y) in radians, matching the
	// original's pitch/yaw-only camera (no roll).
	CameraRotation core.Vec2

	Width, Height int

	// MaxBounces caps path length; RouletteStart is the bounce index after
	// which Russian roulette may terminate the path early (spec §4.8).
	MaxBounces    int
	RouletteStart int
}

// WithDefaults fills zero-valued bounce/roulette fields with their spec
// defaults, so callers building a TracingConfig literal need not repeat
// them.
func (c TracingConfig) WithDefaults() TracingConfig {
	if c.MaxBounces == 0 {
		c.MaxBounces = DefaultMaxBounces
	}
	if c.RouletteStart == 0 {
		c.RouletteStart = DefaultRouletteStart
	}
	return c
}
