// Package camera turns a scene's TracingConfig into per-pixel rays, using
// a pinhole model with jittered sub-pixel sampling (spec §4.1, §6).
package camera

import (
	"github.com/mfontaine/pathtrace/pkg/core"
	"github.com/mfontaine/pathtrace/pkg/scene"
)

// Camera is a pinhole camera: position plus a pitch/yaw Euler orientation,
// no roll. Ray setup follows
// original_source/kernels/simple/src/lib.rs's trace_pixel uv computation,
// exposed through a struct-plus-Ray(x,y,rng) shape.
type Camera struct {
	position core.Vec3
	rotation core.Vec3 // X = pitch, Y = yaw; Z (roll) is always zero
	width    int
	height   int
}

// New builds a Camera from a scene's TracingConfig (spec §3).
func New(cfg scene.TracingConfig) Camera {
	return Camera{
		position: cfg.CameraPosition,
		rotation: core.NewVec3(cfg.CameraRotation.X, cfg.CameraRotation.Y, 0),
		width:    cfg.Width,
		height:   cfg.Height,
	}
}

// Ray produces a jittered ray through pixel (x, y): the jitter (drawn from
// rng) places the sample anywhere in the pixel's footprint rather than
// always its center, which is what lets multiple samples per pixel
// antialias (spec §4.1 "jittered ray generation", §6).
func (c Camera) Ray(x, y int, rng *core.Sampler) core.Ray {
	jx, jy := rng.Gen2()
	sx := float64(x) + jx
	sy := float64(y) + jy

	u := sx/float64(c.width)*2 - 1
	v := (1 - sy/float64(c.height)) * 2 - 1
	v *= float64(c.height) / float64(c.width)

	direction := core.NewVec3(u, v, 1).Normalize().Rotate(c.rotation)
	return core.NewRay(c.position, direction)
}
