package main

import "testing"

func TestCreateScene(t *testing.T) {
	tests := []struct {
		name        string
		sceneType   string
		expectError bool
	}{
		{"cornell scene", "cornell", false},
		{"spheregrid scene", "spheregrid", false},
		{"unknown scene", "nonexistent", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := createScene(tt.sceneType, 64, 48)
			if tt.expectError {
				if err == nil {
					t.Fatalf("expected error for scene %q, got none", tt.sceneType)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error for scene %q: %v", tt.sceneType, err)
			}
			if s == nil {
				t.Fatalf("expected non-nil scene for %q", tt.sceneType)
			}
			if len(s.Triangles) == 0 {
				t.Fatalf("expected scene %q to contain triangles", tt.sceneType)
			}
			if s.BVH == nil {
				t.Fatalf("expected scene %q to have a built BVH", tt.sceneType)
			}
		})
	}
}
