package scene_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mfontaine/pathtrace/pkg/scene"
)

func TestNewCornellSceneBuildsWithoutError(t *testing.T) {
	s, err := scene.NewCornellScene(64, 48)
	require.NoError(t, err)
	require.NotNil(t, s.BVH)
	require.False(t, s.Lights.Empty)
}

func TestNewSphereGridSceneBuildsWithoutError(t *testing.T) {
	s, err := scene.NewSphereGridScene(64, 48)
	require.NoError(t, err)
	require.NotNil(t, s.BVH)
	require.False(t, s.Lights.Empty)
	require.Greater(t, len(s.Triangles), 36*2) // at least the floor plus every sphere's tessellation
}
