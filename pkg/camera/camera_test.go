package camera_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mfontaine/pathtrace/pkg/camera"
	"github.com/mfontaine/pathtrace/pkg/core"
	"github.com/mfontaine/pathtrace/pkg/scene"
)

func TestCenterPixelLooksDownPositiveZ(t *testing.T) {
	cfg := scene.TracingConfig{Width: 100, Height: 100}
	cam := camera.New(cfg)

	rng := core.NewSampler(1)
	ray := cam.Ray(50, 50, &rng)

	require.InDelta(t, 0, ray.Direction.X, 0.05)
	require.InDelta(t, 0, ray.Direction.Y, 0.05)
	require.Greater(t, ray.Direction.Z, 0.9)
}

func TestRayDirectionIsNormalized(t *testing.T) {
	cfg := scene.TracingConfig{Width: 64, Height: 48}
	cam := camera.New(cfg)
	rng := core.NewSampler(2)

	for y := 0; y < 48; y += 7 {
		for x := 0; x < 64; x += 7 {
			ray := cam.Ray(x, y, &rng)
			require.InDelta(t, 1, ray.Direction.Length(), 1e-9)
		}
	}
}

func TestRotationRedirectsCenterRay(t *testing.T) {
	cfg := scene.TracingConfig{Width: 10, Height: 10, CameraRotation: core.NewVec2(0, 1.5707963267948966)}
	cam := camera.New(cfg)
	rng := core.NewSampler(3)

	ray := cam.Ray(5, 5, &rng)
	// A 90-degree yaw should swing the forward axis toward +X.
	require.Greater(t, ray.Direction.X, 0.9)
	require.Less(t, ray.Direction.Z, 0.2)
}
