package shaders

import (
	"strings"
	"testing"
)

func TestSourcesDeclareUniforms(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		uniforms []string
	}{
		{"portal vertex", PortalVertex, []string{"modelMatrix", "viewMatrix", "projectionMatrix"}},
		{"portal fragment", PortalFragment, []string{"uTime", "uColorStart", "uColorEnd"}},
		{"fireflies vertex", FirefliesVertex, []string{"uPixelRatio", "uSize", "uTime"}},
		{"fireflies fragment", FirefliesFragment, nil},
	}
	for _, tt := range tests {
		if !strings.HasPrefix(tt.src, "#version 410 core") {
			t.Errorf("%s: missing #version 410 core header", tt.name)
		}
		for _, u := range tt.uniforms {
			if !strings.Contains(tt.src, "uniform") || !strings.Contains(tt.src, " "+u+";") {
				t.Errorf("%s: uniform %s not declared", tt.name, u)
			}
		}
	}
}

func TestFirefliesScaleLocation(t *testing.T) {
	if !strings.Contains(FirefliesVertex, "layout(location = 3) in float aScale;") {
		t.Error("aScale must bind to the first custom attribute location")
	}
}
