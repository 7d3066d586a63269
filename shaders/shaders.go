// Package shaders embeds the GLSL programs of the portal scene.
package shaders

import _ "embed"

var (
	//go:embed portal/vertex.glsl
	PortalVertex string
	//go:embed portal/fragment.glsl
	PortalFragment string

	//go:embed fireflies/vertex.glsl
	FirefliesVertex string
	//go:embed fireflies/fragment.glsl
	FirefliesFragment string
)
