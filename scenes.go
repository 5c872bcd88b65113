package main

import (
	"fmt"

	"github.com/mfontaine/pathtrace/pkg/scene"
)

// createScene builds one of the built-in example scenes (spec §8). There
// is no mesh-file loader wired into the CLI yet (spec's "Scene input"
// section describes one, but no concrete loader library lived anywhere in
// the reference pack to ground it on — see DESIGN.md), so these
// procedural scenes are the only entry points for now.
func createScene(sceneType string, width, height int) (*scene.Scene, error) {
	switch sceneType {
	case "cornell":
		return scene.NewCornellScene(width, height)
	case "spheregrid":
		return scene.NewSphereGridScene(width, height)
	default:
		return nil, fmt.Errorf("unknown scene type: %s", sceneType)
	}
}
